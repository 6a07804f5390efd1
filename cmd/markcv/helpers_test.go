package main

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"slices"
	"strings"
	"sync"
	"testing"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake pandoc
// ---------------------------------------------------------------------------

// fakePandoc answers pandoc invocations without a subprocess. Full-document
// conversions write page to the -o argument; fragment conversions echo a
// paragraph; --version prints version.
type fakePandoc struct {
	mu      sync.Mutex
	calls   [][]string
	page    string
	version string
	err     error
	stderr  string
}

func (f *fakePandoc) Run(name string, args ...string) (string, string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{name}, args...))
	f.mu.Unlock()

	if f.err != nil {
		return "", f.stderr, f.err
	}
	if slices.Contains(args, "--version") {
		return f.version, "", nil
	}
	if i := slices.Index(args, "-o"); i >= 0 && i+1 < len(args) {
		page := f.page
		if page == "" {
			page = "<html><body><p>rendered</p></body></html>"
		}
		if err := os.WriteFile(args[i+1], []byte(page), 0o600); err != nil {
			return "", err.Error(), err
		}
		return "", "", nil
	}
	return "<p>fragment</p>", "", nil
}

func (f *fakePandoc) commands() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// testEnv returns an Environment writing into buffers and driving runner.
func testEnv(runner *fakePandoc) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &Environment{
		Stdout: &stdout,
		Stderr: &stderr,
		Runner: runner,
		LookPath: func(file string) (string, error) {
			return "/usr/bin/" + file, nil
		},
	}, &stdout, &stderr
}

// missingLookPath simulates a binary absent from PATH.
func missingLookPath(file string) (string, error) {
	return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
}

// inTempDir runs the test from an empty working directory with no MARKCV_*
// variables inherited from the caller.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, "MARKCV_") {
			t.Setenv(name, "")
		}
	}
	return dir
}

var errExit = errors.New("exit status 1")
