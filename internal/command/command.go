package command

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Runner runs one invocation of a tool in dir and returns its stdout.
type Runner interface {
	Run(dir string, args ...string) (string, error)
}

// Tool runs a named executable found on PATH (or an absolute path).
type Tool struct {
	Name string
	// Stderr receives the tool's diagnostics. Nil discards them.
	Stderr io.Writer
}

// New returns a Tool for the given executable with stderr passed through.
func New(name string) *Tool {
	return &Tool{Name: name, Stderr: os.Stderr}
}

// Run executes the tool and returns its stdout.
func (t *Tool) Run(dir string, args ...string) (string, error) {
	cmd := exec.Command(t.Name, args...) //nolint:gosec // tool name comes from config, not remote input
	cmd.Dir = dir
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = t.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s %s: %w", t.Name, strings.Join(args, " "), err)
	}
	return stdout.String(), nil
}

// Path returns the resolved location of the tool.
func (t *Tool) Path() (string, error) {
	return exec.LookPath(t.Name)
}

// Installed returns true if the tool is available on the system PATH.
func (t *Tool) Installed() bool {
	_, err := t.Path()
	return err == nil
}

// IsExitError reports whether err came from the tool exiting non-zero
// rather than failing to launch.
func IsExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}
