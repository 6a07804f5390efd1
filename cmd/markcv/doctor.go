package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-markcv/internal/assets"
	"github.com/alnah/go-markcv/internal/config"
	"github.com/alnah/go-markcv/internal/fileutil"
	"github.com/alnah/go-markcv/internal/hints"
	"github.com/alnah/go-markcv/internal/pipeline"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status    string        `json:"status"` // "ready", "warnings", "errors"
	Pandoc    pandocInfo    `json:"pandoc"`
	Templates templatesInfo `json:"templates"`
	Env       envInfo       `json:"environment"`
	System    systemInfo    `json:"system"`
	Warnings  []string      `json:"warnings,omitempty"`
	Errors    []string      `json:"errors,omitempty"`
}

// pandocInfo holds converter detection results.
type pandocInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Inline  string `json:"inline"`
}

// templatesInfo holds template catalog results.
type templatesInfo struct {
	Dir            string   `json:"dir"`
	Available      []string `json:"available"`
	DefaultUsable  bool     `json:"default_usable"`
	BaseStylesheet bool     `json:"base_stylesheet"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
}

// systemInfo holds system check results.
type systemInfo struct {
	DataDir      string `json:"data_dir"`
	DataWritable bool   `json:"data_writable"`
	TempWritable bool   `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad flags.
func runDoctorCmd(args []string, env *Environment) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	jsonOutput := fs.Bool("json", false, "output as JSON")
	configName := fs.StringP("config", "c", "", "config file name or path")
	fs.Usage = func() { printDoctorUsage(env.Stderr) }
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	result := runDoctor(*configName, env)

	if *jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(configName string, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
	}

	cfg, err := loadConfig(commonFlags{config: configName}, loadEnvConfig())
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Config: %v", err))
		cfg = config.DefaultConfig()
	}

	checkEnvironment(result)
	checkPandoc(result, cfg, env)
	checkTemplates(result, cfg)
	checkSystem(result, cfg)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkPandoc locates the converter and asks it for its version.
func checkPandoc(result *doctorResult, cfg *config.Config, env *Environment) {
	binary := cfg.Converter.Pandoc
	result.Pandoc.Inline = cfg.Converter.Inline

	path, err := env.LookPath(binary)
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("%s not found%s", binary, hints.ForPandocMissing(binary)))
		return
	}
	result.Pandoc.Found = true
	result.Pandoc.Path = path

	stdout, stderr, err := env.Runner.Run(path, "--version")
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get %s version: %v %s", binary, err, strings.TrimSpace(stderr)))
		return
	}
	result.Pandoc.Version, _, _ = strings.Cut(strings.TrimSpace(stdout), "\n")
}

// checkTemplates lists templates and confirms the fallback template is usable.
func checkTemplates(result *doctorResult, cfg *config.Config) {
	catalog := assets.NewCatalog(cfg.Paths.TemplateDir, cfg.Paths.ThemeDir, slog.New(slog.DiscardHandler))
	result.Templates.Dir = cfg.Paths.TemplateDir
	result.Templates.Available = []string{}
	for _, d := range catalog.List() {
		result.Templates.Available = append(result.Templates.Available, d.ID)
	}

	if catalog.Resolve(assets.DefaultTemplateID).Kind == pipeline.OK {
		result.Templates.DefaultUsable = true
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Default template %q not usable, renders will skip the layout%s",
				assets.DefaultTemplateID, hints.ForTemplateNotFound(cfg.Paths.TemplateDir)))
	}

	if fileutil.FileExists(cfg.Paths.BaseStylesheet) {
		result.Templates.BaseStylesheet = true
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Base stylesheet %s not found, the built-in stylesheet will be used", cfg.Paths.BaseStylesheet))
	}
}

// checkEnvironment detects container environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	// Explicit override (highest priority)
	if os.Getenv("MARKCV_CONTAINER") == "1" {
		return true, "MARKCV_CONTAINER=1"
	}
	// Docker
	if hints.IsInContainer() {
		return true, "/.dockerenv"
	}
	// Podman / systemd-nspawn / general container indicator
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	// Kubernetes
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the data and temp directories are writable.
func checkSystem(result *doctorResult, cfg *config.Config) {
	result.System.DataDir = cfg.Paths.DataDir
	if err := checkWritable(cfg.Paths.DataDir, true); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Data directory not writable: %s (%v)", cfg.Paths.DataDir, err))
	} else {
		result.System.DataWritable = true
	}

	tmpDir := os.TempDir()
	if err := checkWritable(tmpDir, false); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		result.System.TempWritable = true
	}
}

// checkWritable writes and removes a marker file in dir.
func checkWritable(dir string, create bool) error {
	if create {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}
	testFile := filepath.Join(dir, ".markcv-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		return err
	}
	return os.Remove(testFile)
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "markcv doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Pandoc")
	if r.Pandoc.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Pandoc.Path)
		if r.Pandoc.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Pandoc.Version)
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Not found")
	}
	fmt.Fprintf(w, "  [OK] Inline renderer: %s\n", r.Pandoc.Inline)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Templates")
	if len(r.Templates.Available) > 0 {
		fmt.Fprintf(w, "  [OK] %s: %s\n", r.Templates.Dir, strings.Join(r.Templates.Available, ", "))
	} else {
		fmt.Fprintf(w, "  [WARN] %s: no templates\n", r.Templates.Dir)
	}
	if r.Templates.DefaultUsable {
		fmt.Fprintf(w, "  [OK] Default template: %s\n", assets.DefaultTemplateID)
	} else {
		fmt.Fprintf(w, "  [WARN] Default template: %s unusable\n", assets.DefaultTemplateID)
	}
	if r.Templates.BaseStylesheet {
		fmt.Fprintln(w, "  [OK] Base stylesheet: found")
	} else {
		fmt.Fprintln(w, "  [WARN] Base stylesheet: built-in")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.DataWritable {
		fmt.Fprintf(w, "  [OK] Data directory: %s writable\n", r.System.DataDir)
	} else {
		fmt.Fprintf(w, "  [ERROR] Data directory: %s not writable\n", r.System.DataDir)
	}
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to serve")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
