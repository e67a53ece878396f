// Package webui answers which frontend fragments plugins contribute to a
// named UI extension point.
//
// A plugin contributes by placing files in extensions/webui/<point>/. The
// broker returns them in (plugin precedence, file name, plugin id) order so
// the frontend can inject them deterministically. HTML fragments are checked
// against the injection contract; problems are reported as warnings on the
// contribution and never hide it.
package webui
