// Package watcher triggers a catalog reload when plugin roots change on disk.
//
// fsnotify is not recursive, so the watcher registers each root, each plugin
// directory, the reserved capability directories and the extension point
// directories below them. Bursts of events are debounced into one reload.
// Writes to configuration records (config.json) and hidden files do not
// count as plugin changes.
package watcher
