package api

import (
	"errors"
	"fmt"
)

// NotFoundError is returned when a plugin, handler or asset does not exist.
// It is an ordinary client-facing failure with no side effects.
type NotFoundError struct {
	// ResourceType categorizes what was looked up ("plugin", "handler", "asset", "prompt").
	ResourceType string

	// ResourceName is the identifier that was not found.
	ResourceName string

	// Message overrides the default message when set.
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s not found", e.ResourceType, e.ResourceName)
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// NewNotFoundError creates a NotFoundError for the given resource.
func NewNotFoundError(resourceType, resourceName string) *NotFoundError {
	return &NotFoundError{
		ResourceType: resourceType,
		ResourceName: resourceName,
	}
}

var (
	// NewPluginNotFoundError creates a plugin not found error.
	NewPluginNotFoundError = func(id string) *NotFoundError {
		return NewNotFoundError("plugin", id)
	}

	// NewHandlerNotFoundError creates an API handler not found error.
	NewHandlerNotFoundError = func(pluginID, handler string) *NotFoundError {
		return NewNotFoundError("handler", pluginID+"/"+handler)
	}

	// NewAssetNotFoundError creates a static asset not found error.
	NewAssetNotFoundError = func(pluginID, path string) *NotFoundError {
		return NewNotFoundError("asset", pluginID+"/"+path)
	}

	// NewPromptNotFoundError creates a prompt not found error.
	NewPromptNotFoundError = func(pluginID, name string) *NotFoundError {
		return NewNotFoundError("prompt", pluginID+"/"+name)
	}
)

// PathTraversalError is returned when a requested asset path resolves outside
// its plugin root. It is a security rejection, distinct from not found.
type PathTraversalError struct {
	PluginID string
	Path     string
}

func (e *PathTraversalError) Error() string {
	return fmt.Sprintf("path %q escapes the root of plugin %s", e.Path, e.PluginID)
}

// IsPathTraversal reports whether err is or wraps a PathTraversalError.
func IsPathTraversal(err error) bool {
	var traversalErr *PathTraversalError
	return errors.As(err, &traversalErr)
}

// ClientError is a malformed or unsupported request.
type ClientError struct {
	Message string
}

func (e *ClientError) Error() string {
	return e.Message
}

// NewClientError formats a ClientError.
func NewClientError(format string, args ...interface{}) *ClientError {
	return &ClientError{Message: fmt.Sprintf(format, args...)}
}

// IsClientError reports whether err is or wraps a ClientError.
func IsClientError(err error) bool {
	var clientErr *ClientError
	return errors.As(err, &clientErr)
}

// ManifestError means a plugin descriptor was missing or invalid. The plugin
// is excluded and the registry build continues.
type ManifestError struct {
	// Dir is the candidate plugin directory.
	Dir string
	// Root is the plugin root the candidate was found in.
	Root string
	// Reason classifies the failure: "missing", "parse" or "validation".
	Reason string
	Err    error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("invalid plugin descriptor in %s (%s): %v", e.Dir, e.Reason, e.Err)
}

func (e *ManifestError) Unwrap() error { return e.Err }

// ConfigError means a settings record at one scope level could not be read.
// The level is treated as absent and resolution continues.
type ConfigError struct {
	PluginID string
	Scope    string
	Path     string
	Err      error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("malformed %s config for plugin %s at %s: %v", e.Scope, e.PluginID, e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// HookError carries the extension point and plugin of a failed lifecycle hook.
type HookError struct {
	Point    string
	PluginID string
	Path     string
	Err      error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("hook %s of plugin %s failed at extension point %s: %v", e.Path, e.PluginID, e.Point, e.Err)
}

func (e *HookError) Unwrap() error { return e.Err }

// IsHookError reports whether err is or wraps a HookError.
func IsHookError(err error) bool {
	var hookErr *HookError
	return errors.As(err, &hookErr)
}
