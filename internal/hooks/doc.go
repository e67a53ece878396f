// Package hooks dispatches lifecycle events to every plugin hook registered
// at an extension point.
//
// Hooks at one point run one after another in (plugin precedence, file
// name, plugin id) order. Each hook sees the context data as left by the
// previous one. The set of hooks is fixed when Dispatch starts, so a reload
// during a dispatch has no effect on it.
//
// What happens when a hook fails is chosen per call:
//
//	AbortOnError     stop and return an *api.HookError (the default)
//	ContinueOnError  log the failure and run the remaining hooks
package hooks
