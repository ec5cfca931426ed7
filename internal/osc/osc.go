package osc

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/fbkclanna/cargovendor/internal/command"
)

// PackagePath returns the checkout directory osc uses for a branched package.
func PackagePath(basepath, pkg string) string {
	return basepath + ":" + pkg
}

// CheckoutOrUpdate brings the branched checkout of pkg under wd up to date,
// discarding local changes, or branches and checks it out when absent.
// Returns the checkout path.
func CheckoutOrUpdate(r command.Runner, wd, basepath, pkg string) (string, error) {
	pkgpath := PackagePath(basepath, pkg)
	abs := filepath.Join(wd, pkgpath)

	if _, err := os.Stat(abs); err == nil {
		steps := [][]string{
			{"revert", "."},
			{"clean", "."},
		}
		for _, args := range steps {
			log.Info("osc "+args[0], "package", pkgpath)
			if _, err := r.Run(abs, args...); err != nil {
				return "", fmt.Errorf("updating %s: %w", pkg, err)
			}
		}
		log.Info("osc up", "package", pkgpath)
		if _, err := r.Run(wd, "up", pkgpath); err != nil {
			return "", fmt.Errorf("updating %s: %w", pkg, err)
		}
		return abs, nil
	}

	log.Info("osc bco", "package", pkg)
	if _, err := r.Run(wd, "bco", pkg); err != nil {
		return "", fmt.Errorf("checking out %s: %w", pkg, err)
	}
	return abs, nil
}

// Submit records a changelog entry, commits, and opens a submit request
// for the package at pkgpath, all with the same message.
func Submit(r command.Runner, pkgpath, message string) error {
	for _, sub := range []string{"vc", "ci", "sr"} {
		log.Info("osc "+sub, "package", pkgpath)
		if _, err := r.Run(pkgpath, sub, "-m", message); err != nil {
			return fmt.Errorf("osc %s %s: %w", sub, pkgpath, err)
		}
	}
	return nil
}

// Results returns the build results summary for the package.
func Results(r command.Runner, pkgpath string) (string, error) {
	return r.Run(pkgpath, "results")
}
