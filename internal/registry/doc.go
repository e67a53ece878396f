// Package registry merges plugin roots into one identifier-keyed view.
//
// Roots are ordered by precedence, most specific first (for example
// usr/plugins before plugins). Every immediate subdirectory of a root is a
// candidate plugin whose identifier is the directory name and whose
// descriptor is plugin.yaml:
//
//	name: Text Editor
//	description: File read/write/patch tool
//	version: "1.2"
//	settings_sections: [agent, developer]
//
// The first root to provide a valid descriptor for an identifier owns it.
// Copies in lower-precedence roots are shadowed as a whole; nothing is merged
// between them. A candidate with a missing or invalid descriptor is excluded
// with an api.ManifestError in the registry diagnostics and does not block its
// siblings. Identifiers are always exposed in sorted order.
package registry
