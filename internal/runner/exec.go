package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"agentplug/internal/capability"
	"agentplug/pkg/logging"
)

// waitDelay bounds how long a killed process may hold its output pipes open.
const waitDelay = 2 * time.Second

// Environment variables passed to plugin processes.
const (
	EnvPluginID       = "PLUGIN_ID"
	EnvPluginDir      = "PLUGIN_DIR"
	EnvExtensionPoint = "EXTENSION_POINT"
)

// Exec runs plugin files as subprocesses.
type Exec struct {
	// Interpreters maps a file extension (".py") to a command line ("python3").
	// Files with no mapped interpreter are executed directly.
	Interpreters map[string]string
	// Timeout bounds each invocation. Zero means no limit beyond ctx.
	Timeout time.Duration
	env     []string
}

// NewExec creates an Exec that inherits the current environment.
func NewExec(interpreters map[string]string, timeout time.Duration) *Exec {
	normalized := make(map[string]string, len(interpreters))
	for ext, cmd := range interpreters {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized[strings.ToLower(ext)] = cmd
	}
	return &Exec{Interpreters: normalized, Timeout: timeout, env: os.Environ()}
}

type hookInput struct {
	ExtensionPoint string                 `json:"extension_point"`
	Context        map[string]interface{} `json:"context"`
}

// Invoke implements Invoker.
func (e *Exec) Invoke(ctx context.Context, entry capability.Entry, body []byte) ([]byte, error) {
	stdout, stderr, err := e.run(ctx, entry, "", body)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &HandlerError{Status: http.StatusInternalServerError, Body: failureBody(stdout, stderr, exitErr)}
		}
		return nil, err
	}
	return stdout, nil
}

// RunHook implements HookRunner.
func (e *Exec) RunHook(ctx context.Context, entry capability.Entry, point string, data map[string]interface{}) error {
	input, err := json.Marshal(hookInput{ExtensionPoint: point, Context: data})
	if err != nil {
		return fmt.Errorf("encode hook input: %w", err)
	}

	stdout, stderr, err := e.run(ctx, entry, point, input)
	if err != nil {
		if msg := strings.TrimSpace(string(stderr)); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}

	out := bytes.TrimSpace(stdout)
	if len(out) == 0 {
		return nil
	}
	var replaced map[string]interface{}
	if err := json.Unmarshal(out, &replaced); err != nil {
		return fmt.Errorf("hook output is not a JSON object: %w", err)
	}
	if replaced == nil {
		return fmt.Errorf("hook output is not a JSON object: got %s", out)
	}
	for k := range data {
		delete(data, k)
	}
	for k, v := range replaced {
		data[k] = v
	}
	return nil
}

func (e *Exec) command(entry capability.Entry) (string, []string) {
	ext := strings.ToLower(filepath.Ext(entry.Resolved))
	if line, ok := e.Interpreters[ext]; ok {
		if fields := strings.Fields(line); len(fields) > 0 {
			return fields[0], append(fields[1:], entry.Resolved)
		}
	}
	return entry.Resolved, nil
}

func (e *Exec) run(ctx context.Context, entry capability.Entry, point string, stdin []byte) ([]byte, []byte, error) {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	name, args := e.command(entry)
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = entry.PluginDir
	cmd.WaitDelay = waitDelay
	cmd.Env = append(append([]string(nil), e.env...),
		EnvPluginID+"="+entry.PluginID,
		EnvPluginDir+"="+entry.PluginDir,
		EnvExtensionPoint+"="+point,
	)
	cmd.Stdin = bytes.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	logging.Debug("Runner", "Ran %s/%s in %s", entry.PluginID, entry.Path, time.Since(start))

	if ctxErr := ctx.Err(); ctxErr != nil {
		return stdout.Bytes(), stderr.Bytes(), fmt.Errorf("run %s/%s: %w", entry.PluginID, entry.Path, ctxErr)
	}
	if err != nil {
		return stdout.Bytes(), stderr.Bytes(), fmt.Errorf("run %s/%s: %w", entry.PluginID, entry.Path, err)
	}
	return stdout.Bytes(), stderr.Bytes(), nil
}

func failureBody(stdout, stderr []byte, exitErr *exec.ExitError) []byte {
	if out := bytes.TrimSpace(stdout); len(out) > 0 && json.Valid(out) {
		return out
	}
	msg := strings.TrimSpace(string(stderr))
	if msg == "" {
		msg = exitErr.Error()
	}
	body, _ := json.Marshal(map[string]string{"error": msg})
	return body
}
