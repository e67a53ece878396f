package cmd

import (
	"fmt"
	"os"

	"agentplug/internal/app"
	"agentplug/internal/formatting"
)

// usageError marks a malformed command line argument.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func newUsageError(format string, args ...interface{}) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// loadServices bootstraps the host for a one-shot command. Logging stays
// silent unless --debug is given so command output is not interleaved with
// bootstrap messages.
func loadServices() (*app.Services, error) {
	cfg := app.NewConfig(debug, !debug, configPath, GetVersion())
	application, err := app.NewApplication(cfg)
	if err != nil {
		return nil, err
	}
	return application.Services(), nil
}

// newFormatter builds the formatter selected by --output.
func newFormatter() (formatting.Formatter, error) {
	format, err := formatting.ParseFormat(outputFormat)
	if err != nil {
		return nil, &usageError{msg: err.Error()}
	}
	return formatting.New(formatting.Options{
		Format: format,
		Color:  !noColor && os.Getenv("NO_COLOR") == "",
	}), nil
}
