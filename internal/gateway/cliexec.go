package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// DefaultCLITimeout bounds how long a ModeCLI operation's external
// engine may run before being killed (spec.md §4.J: "shell out ... with
// a bounded timeout").
const DefaultCLITimeout = 30 * time.Second

// CLIRunner shells out to a bundled external engine for ModeCLI
// operations.
type CLIRunner struct {
	Timeout time.Duration
}

// NewCLIRunner returns a CLIRunner with DefaultCLITimeout.
func NewCLIRunner() *CLIRunner {
	return &CLIRunner{Timeout: DefaultCLITimeout}
}

// Run executes argv[0] with argv[1:], passing params as JSON on stdin,
// and decodes the engine's stdout as JSON into a generic value.
func (r *CLIRunner) Run(ctx context.Context, argv []string, params interface{}) (interface{}, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("gateway: empty cli argv")
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultCLITimeout
	}
	out, err := run(ctx, timeout, argv[0], argv[1:], params)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	var data interface{}
	if err := json.Unmarshal(out, &data); err != nil {
		return nil, fmt.Errorf("gateway: decoding cli output: %w", err)
	}
	return data, nil
}
