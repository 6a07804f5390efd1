package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/alnah/go-markcv/internal/fileutil"
	"github.com/alnah/go-markcv/internal/hints"
)

// DefaultPandocBinary is the converter executable looked up in PATH.
const DefaultPandocBinary = "pandoc"

// ConvertJob describes one full-document conversion.
type ConvertJob struct {
	Input        string     // markdown source file
	Output       string     // HTML destination file
	Template     string     // layout file; empty uses the converter's default
	Stylesheets  []string   // linked, then embedded, stylesheets
	ResourcePath string     // directory used to resolve relative assets
	Variables    *Variables // template variables, repeated names allowed
}

// DocumentConverter renders a markdown file into a standalone HTML file.
type DocumentConverter interface {
	Convert(ctx context.Context, job ConvertJob) error
}

// FragmentConverter renders a markdown fragment into an HTML fragment.
type FragmentConverter interface {
	Fragment(ctx context.Context, markdown string) (string, error)
}

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
// The command is not bound to a context: once started it runs to completion.
type ExecRunner struct{}

func (r *ExecRunner) Run(name string, args ...string) (string, string, error) {
	cmd := exec.Command(name, args...) // #nosec G204 -- binary comes from configuration

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return "", "", fmt.Errorf("creating stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return "", "", fmt.Errorf("starting command: %w", err)
	}

	stderrContent, err := io.ReadAll(stderrPipe)
	if err != nil {
		return "", "", fmt.Errorf("reading stderr: %w", err)
	}

	err = cmd.Wait()
	return stdout.String(), string(stderrContent), err
}

// PandocConverter drives the Pandoc CLI for both full documents and fragments.
type PandocConverter struct {
	Runner CommandRunner
	Binary string
}

// NewPandocConverter creates a PandocConverter with a real command runner.
// An empty binary selects DefaultPandocBinary.
func NewPandocConverter(binary string) *PandocConverter {
	if binary == "" {
		binary = DefaultPandocBinary
	}
	return &PandocConverter{Runner: &ExecRunner{}, Binary: binary}
}

// Convert renders job.Input into job.Output as a self-contained HTML page.
func (c *PandocConverter) Convert(ctx context.Context, job ConvertJob) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, stderr, err := c.Runner.Run(c.binary(), ConvertArgs(job)...)
	if err != nil {
		return c.conversionError(stderr, err)
	}
	return nil
}

// ConvertArgs builds the Pandoc argument list for a full-document conversion.
func ConvertArgs(job ConvertJob) []string {
	args := []string{job.Input, "-o", job.Output}
	if job.Template != "" {
		args = append(args, "--template", job.Template)
	}
	args = append(args, "--standalone", "--self-contained")
	for _, css := range job.Stylesheets {
		args = append(args, "--css", css)
	}
	for _, v := range job.Variables.All() {
		args = append(args, "--variable", v.Name+"="+v.Value)
	}
	if job.ResourcePath != "" {
		args = append(args, "--resource-path", job.ResourcePath)
	}
	return args
}

// Fragment converts a markdown fragment to HTML without standalone wrapping.
func (c *PandocConverter) Fragment(ctx context.Context, markdown string) (string, error) {
	if markdown == "" {
		return "", ErrEmptyFragment
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(markdown, "md")
	if err != nil {
		return "", err
	}
	defer cleanup()

	stdout, stderr, err := c.Runner.Run(c.binary(), tmpPath, "-f", "markdown", "-t", "html")
	if err != nil {
		return "", c.conversionError(stderr, err)
	}

	return stdout, nil
}

func (c *PandocConverter) binary() string {
	if c.Binary == "" {
		return DefaultPandocBinary
	}
	return c.Binary
}

func (c *PandocConverter) conversionError(stderr string, err error) error {
	convErr := &ConversionError{Stderr: stderr, Err: err}
	if errors.Is(err, exec.ErrNotFound) {
		convErr.Hint = hints.ForPandocMissing(c.binary())
	}
	return convErr
}

// Compile-time interface checks.
var (
	_ DocumentConverter = (*PandocConverter)(nil)
	_ FragmentConverter = (*PandocConverter)(nil)
)
