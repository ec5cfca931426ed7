package command

import (
	"os"
	"path/filepath"
	"testing"
)

func TestToolRun_capturesStdout(t *testing.T) {
	tool := &Tool{Name: "sh"}
	out, err := tool.Run(t.TempDir(), "-c", "printf 'a=1\\n'")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "a=1\n" {
		t.Errorf("stdout = %q, want %q", out, "a=1\n")
	}
}

func TestToolRun_usesDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "marker"), []byte("here"), 0644); err != nil { //nolint:gosec // test file
		t.Fatal(err)
	}
	out, err := (&Tool{Name: "sh"}).Run(dir, "-c", "cat marker")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "here" {
		t.Errorf("stdout = %q, want %q", out, "here")
	}
}

func TestToolRun_nonZeroExit(t *testing.T) {
	_, err := (&Tool{Name: "sh"}).Run(t.TempDir(), "-c", "exit 3")
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if !IsExitError(err) {
		t.Errorf("expected exit error, got %v", err)
	}
}

func TestToolRun_missingBinary(t *testing.T) {
	tool := &Tool{Name: "cargo-vendor-definitely-missing"}
	if tool.Installed() {
		t.Fatal("expected tool to be missing")
	}
	_, err := tool.Run(t.TempDir(), "update")
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if IsExitError(err) {
		t.Error("launch failure should not be reported as exit error")
	}
}
