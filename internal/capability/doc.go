// Package capability discovers what each registered plugin contributes.
//
// Capabilities are found purely from directory layout. A plugin directory may
// contain any of the reserved subdirectories below; everything else is ignored.
//
//	api/                          one "api" entry per file (HTTP handlers)
//	tools/                        one "tool" entry per file
//	helpers/                      one "helper" entry per file
//	prompts/                      one "prompt" entry per file
//	agents/<profile>/             one "agent-profile" entry per subdirectory
//	extensions/python/<point>/    one "python-hook" entry per file, tagged with <point>
//	extensions/webui/<point>/     one "webui-asset" entry per file, tagged with <point>
//	webui/                        a single opaque "webui-asset" entry
//
// Hidden files, __init__.py and __pycache__ are never reported. Scanning only
// reads the filesystem and always produces entries in the same order.
package capability
