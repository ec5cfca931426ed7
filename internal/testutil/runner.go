package testutil

import (
	"slices"
)

// Call records one invocation made through a FakeRunner.
type Call struct {
	Dir  string
	Args []string
}

// FakeRunner implements command.Runner without spawning processes.
// Responses are keyed by the first argument (the subcommand).
type FakeRunner struct {
	Calls  []Call
	Stdout map[string]string
	Err    map[string]error
	// OnRun, when set, is invoked before the canned response is returned.
	// Tests use it to simulate side effects such as cargo creating vendor/.
	OnRun func(dir string, args []string) error
}

// Run records the call and returns the canned stdout or error.
func (f *FakeRunner) Run(dir string, args ...string) (string, error) {
	f.Calls = append(f.Calls, Call{Dir: dir, Args: slices.Clone(args)})
	sub := ""
	if len(args) > 0 {
		sub = args[0]
	}
	if err := f.Err[sub]; err != nil {
		return "", err
	}
	if f.OnRun != nil {
		if err := f.OnRun(dir, args); err != nil {
			return "", err
		}
	}
	return f.Stdout[sub], nil
}

// Subcommands returns the first argument of every recorded call, in order.
func (f *FakeRunner) Subcommands() []string {
	subs := make([]string, 0, len(f.Calls))
	for _, c := range f.Calls {
		if len(c.Args) > 0 {
			subs = append(subs, c.Args[0])
		}
	}
	return subs
}
