// Package watertight invokes the external watertighting tool that
// turns a raw building mesh into a closed, manifold one. The tool is a
// separate executable; a non-zero exit is a terminal failure for that
// single input file only.
package watertight

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ErrExitStatus reports a watertighting run that exited non-zero. The
// wrapped message carries the tool's captured output.
var ErrExitStatus = errors.New("watertighting tool failed")

// CommandExecutor runs one external command and returns its combined
// stdout and stderr. The abstraction allows tests to run without a
// real binary.
type CommandExecutor interface {
	Run() ([]byte, error)
}

// CommandBuilder constructs executors for a command line.
type CommandBuilder interface {
	Build(ctx context.Context, name string, args ...string) CommandExecutor
}

type execExecutor struct {
	cmd *exec.Cmd
}

func (e *execExecutor) Run() ([]byte, error) {
	return e.cmd.CombinedOutput()
}

// ExecBuilder builds executors backed by os/exec.
type ExecBuilder struct{}

// Build creates an executor for the given command and arguments.
func (ExecBuilder) Build(ctx context.Context, name string, args ...string) CommandExecutor {
	return &execExecutor{cmd: exec.CommandContext(ctx, name, args...)}
}

// Closer runs the watertighting tool.
type Closer struct {
	binary  string
	builder CommandBuilder
}

// NewCloser returns a Closer invoking the given binary. A nil builder
// defaults to real command execution.
func NewCloser(binary string, builder CommandBuilder) *Closer {
	if builder == nil {
		builder = ExecBuilder{}
	}
	return &Closer{binary: binary, builder: builder}
}

// Close runs `<binary> --input <inputPath> --output <outputPath>`. On
// a non-zero exit the returned error wraps ErrExitStatus and includes
// the tool's combined output for diagnosis.
func (c *Closer) Close(ctx context.Context, inputPath, outputPath string) error {
	cmd := c.builder.Build(ctx, c.binary, "--input", inputPath, "--output", outputPath)
	output, err := cmd.Run()
	if err != nil {
		return fmt.Errorf("%w: %s (%v): %s", ErrExitStatus, inputPath, err, output)
	}
	return nil
}
