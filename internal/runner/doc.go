// Package runner executes plugin code on behalf of the host.
//
// Plugin handlers and hooks are external collaborators: the host only knows
// the file that was discovered for them. Funcs dispatches to Go functions
// registered in-process for a (plugin id, relative path) pair and hands
// everything else to Exec, which runs the file with an interpreter chosen by
// its extension.
//
// Hook protocol: the hook receives {"extension_point": ..., "context": {...}}
// as JSON on stdin. If it prints a JSON object on stdout, that object replaces
// the context contents seen by later hooks.
//
// Handler protocol: the handler receives the raw request body on stdin and
// its stdout is returned verbatim as the response body.
//
// Both receive PLUGIN_ID, PLUGIN_DIR and EXTENSION_POINT in the environment
// and run with the plugin directory as working directory.
package runner
