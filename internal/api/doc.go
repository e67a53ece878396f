// Package api holds the error taxonomy and wire types shared by the HTTP
// routes, the MCP tools and the CLI.
//
// # Errors
//
//   - ManifestError: a plugin descriptor is missing or invalid; the plugin is
//     excluded and the registry build continues.
//   - ConfigError: a settings record at one scope level is malformed; that
//     level is treated as absent.
//   - HookError: a lifecycle hook failed; carries the point and plugin id.
//   - NotFoundError: unknown plugin, handler, asset or prompt.
//   - PathTraversalError: an asset path escapes its plugin root.
//   - ClientError: malformed or unsupported request.
//
// Callers classify errors with IsNotFound, IsPathTraversal, IsClientError
// and IsHookError, which all unwrap.
package api
