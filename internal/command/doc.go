// Package command runs external command-line tools (cargo, osc) and captures
// their standard output. Callers depend on the Runner interface so tests can
// substitute a fake without spawning processes.
package command
