package runner

import (
	"context"
	"fmt"
	"net/http"

	"agentplug/internal/capability"
)

// Invoker runs an API handler with the raw request body.
type Invoker interface {
	Invoke(ctx context.Context, entry capability.Entry, body []byte) ([]byte, error)
}

// HookRunner runs one lifecycle hook against the shared context data.
// Implementations mutate data in place.
type HookRunner interface {
	RunHook(ctx context.Context, entry capability.Entry, point string, data map[string]interface{}) error
}

// Runner executes both handlers and hooks.
type Runner interface {
	Invoker
	HookRunner
}

// HandlerFunc is an in-process API handler.
type HandlerFunc func(ctx context.Context, body []byte) ([]byte, error)

// HookFunc is an in-process lifecycle hook.
type HookFunc func(ctx context.Context, point string, data map[string]interface{}) error

// HandlerError is a handler failure that carries its own HTTP status and
// body. The route dispatcher passes both through unchanged.
type HandlerError struct {
	Status int
	Body   []byte
}

func (e *HandlerError) Error() string {
	status := e.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return fmt.Sprintf("handler failed with status %d: %s", status, e.Body)
}
