package pipeline

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"slices"
	"strings"
	"testing"
)

type MockRunner struct {
	Stdout     string
	Stderr     string
	Err        error
	CalledWith []string
	Input      string // content of the first argument when it is a readable file
}

func (m *MockRunner) Run(name string, args ...string) (string, string, error) {
	m.CalledWith = append([]string{name}, args...)
	if len(args) > 0 {
		if data, err := os.ReadFile(args[0]); err == nil {
			m.Input = string(data)
		}
	}
	return m.Stdout, m.Stderr, m.Err
}

// ---------------------------------------------------------------------------
// TestConvertArgs - Full-document argument list
// ---------------------------------------------------------------------------

func TestConvertArgs(t *testing.T) {
	t.Parallel()

	vars := &Variables{}
	vars.Add(VarPaperSize, "a4")
	vars.Add(VarSkills, "<ul><li>Go</li></ul>", "<ul><li>Rust</li></ul>")

	tests := []struct {
		name string
		job  ConvertJob
		want []string
	}{
		{
			name: "templated job",
			job: ConvertJob{
				Input:        "/s/input.md",
				Output:       "/s/cv.html",
				Template:     "/t/europass/template.html",
				Stylesheets:  []string{"/css/europass.css"},
				ResourcePath: "/s",
				Variables:    vars,
			},
			want: []string{
				"/s/input.md", "-o", "/s/cv.html",
				"--template", "/t/europass/template.html",
				"--standalone", "--self-contained",
				"--css", "/css/europass.css",
				"--variable", "papersize=a4",
				"--variable", "skills=<ul><li>Go</li></ul>",
				"--variable", "skills=<ul><li>Rust</li></ul>",
				"--resource-path", "/s",
			},
		},
		{
			name: "default job without template or variables",
			job: ConvertJob{
				Input:       "/s/input.md",
				Output:      "/s/cv.html",
				Stylesheets: []string{"/s/pdf.css"},
			},
			want: []string{
				"/s/input.md", "-o", "/s/cv.html",
				"--standalone", "--self-contained",
				"--css", "/s/pdf.css",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ConvertArgs(tt.job)
			if !slices.Equal(got, tt.want) {
				t.Errorf("ConvertArgs() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestPandocConverter_Convert - Subprocess result handling
// ---------------------------------------------------------------------------

func TestPandocConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("success uses configured binary", func(t *testing.T) {
		t.Parallel()

		mock := &MockRunner{}
		conv := &PandocConverter{Runner: mock, Binary: "/opt/pandoc"}

		err := conv.Convert(context.Background(), ConvertJob{Input: "in.md", Output: "out.html"})
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		if mock.CalledWith[0] != "/opt/pandoc" {
			t.Errorf("binary = %q, want /opt/pandoc", mock.CalledWith[0])
		}
	})

	t.Run("failure carries stderr", func(t *testing.T) {
		t.Parallel()

		mock := &MockRunner{
			Stderr: "pandoc: template.html: withFile: does not exist",
			Err:    errors.New("exit status 1"),
		}
		conv := &PandocConverter{Runner: mock}

		err := conv.Convert(context.Background(), ConvertJob{Input: "in.md", Output: "out.html"})
		if !errors.Is(err, ErrConversion) {
			t.Fatalf("Convert() error = %v, want ErrConversion", err)
		}

		var convErr *ConversionError
		if !errors.As(err, &convErr) {
			t.Fatalf("error %T is not a *ConversionError", err)
		}
		if convErr.Diagnostic() != "pandoc: template.html: withFile: does not exist" {
			t.Errorf("Diagnostic() = %q", convErr.Diagnostic())
		}
		if !strings.Contains(err.Error(), "HTML generation failed: pandoc:") {
			t.Errorf("Error() = %q", err.Error())
		}
	})

	t.Run("missing binary adds hint", func(t *testing.T) {
		t.Parallel()

		mock := &MockRunner{Err: &exec.Error{Name: "pandoc", Err: exec.ErrNotFound}}
		conv := &PandocConverter{Runner: mock}

		err := conv.Convert(context.Background(), ConvertJob{Input: "in.md", Output: "out.html"})
		if !errors.Is(err, exec.ErrNotFound) {
			t.Fatalf("Convert() error = %v, want exec.ErrNotFound", err)
		}
		if !strings.Contains(err.Error(), "hint:") {
			t.Errorf("Error() = %q, want a hint", err.Error())
		}
	})

	t.Run("canceled context skips the subprocess", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		mock := &MockRunner{}
		conv := &PandocConverter{Runner: mock}

		if err := conv.Convert(ctx, ConvertJob{}); !errors.Is(err, context.Canceled) {
			t.Errorf("Convert() error = %v, want context.Canceled", err)
		}
		if mock.CalledWith != nil {
			t.Error("runner should not be called")
		}
	})
}

// ---------------------------------------------------------------------------
// TestPandocConverter_Fragment - Fragment conversion
// ---------------------------------------------------------------------------

func TestPandocConverter_Fragment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		mock       *MockRunner
		wantErr    error
		wantOutput string
	}{
		{
			name:    "empty fragment",
			input:   "",
			mock:    &MockRunner{},
			wantErr: ErrEmptyFragment,
		},
		{
			name:       "success returns stdout",
			input:      "**Go**",
			mock:       &MockRunner{Stdout: "<p><strong>Go</strong></p>\n"},
			wantOutput: "<p><strong>Go</strong></p>\n",
		},
		{
			name:    "failure returns ConversionError",
			input:   "**Go**",
			mock:    &MockRunner{Stderr: "boom", Err: errors.New("exit status 64")},
			wantErr: ErrConversion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			conv := &PandocConverter{Runner: tt.mock}
			got, err := conv.Fragment(context.Background(), tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Fragment() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Fragment() unexpected error: %v", err)
			}
			if got != tt.wantOutput {
				t.Errorf("Fragment() = %q, want %q", got, tt.wantOutput)
			}

			args := tt.mock.CalledWith
			if len(args) != 6 || args[0] != "pandoc" || !slices.Equal(args[2:], []string{"-f", "markdown", "-t", "html"}) {
				t.Errorf("CalledWith = %q", args)
			}
			if tt.mock.Input != tt.input {
				t.Errorf("temp file content = %q, want %q", tt.mock.Input, tt.input)
			}
			if _, err := os.Stat(args[1]); !os.IsNotExist(err) {
				t.Errorf("temp file %s was not removed", args[1])
			}
		})
	}
}

func TestNewPandocConverter_DefaultBinary(t *testing.T) {
	t.Parallel()

	if got := NewPandocConverter("").Binary; got != DefaultPandocBinary {
		t.Errorf("Binary = %q, want %q", got, DefaultPandocBinary)
	}
	if got := NewPandocConverter("/usr/local/bin/pandoc").Binary; got != "/usr/local/bin/pandoc" {
		t.Errorf("Binary = %q", got)
	}
}
