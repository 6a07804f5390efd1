package main

import (
	"errors"
	"os"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks invalid command-line usage.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	verbose   bool
	logLevel  string
	logFormat string
}

// pathFlags holds data and asset location overrides.
type pathFlags struct {
	dataDir     string
	templateDir string
	themeDir    string
	staticDir   string
}

// converterFlags holds converter backend overrides.
type converterFlags struct {
	pandoc string
	inline string
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common      commonFlags
	paths       pathFlags
	converter   converterFlags
	host        string
	port        int
	printConfig bool

	set func(name string) bool
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common     commonFlags
	paths      pathFlags
	converter  converterFlags
	output     string
	template   string
	paperSize  string
	themeColor string

	set func(name string) bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log at debug level")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: json, text")
}

// addPathFlags adds data and asset location flags to a FlagSet.
func addPathFlags(fs *flag.FlagSet, f *pathFlags) {
	fs.StringVar(&f.dataDir, "data-dir", "", "directory holding cv.md and images/")
	fs.StringVar(&f.templateDir, "template-dir", "", "template directory")
	fs.StringVar(&f.themeDir, "theme-dir", "", "theme stylesheet directory")
	fs.StringVar(&f.staticDir, "static-dir", "", "editor static assets directory")
}

// addConverterFlags adds converter backend flags to a FlagSet.
func addConverterFlags(fs *flag.FlagSet, f *converterFlags) {
	fs.StringVar(&f.pandoc, "pandoc", "", "pandoc executable name or path")
	fs.StringVar(&f.inline, "inline", "", "inline renderer: pandoc, goldmark")
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string) (*serveFlags, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	f := &serveFlags{}

	fs.StringVar(&f.host, "host", "", "listen host")
	fs.IntVarP(&f.port, "port", "p", 0, "listen port")
	fs.BoolVar(&f.printConfig, "print-config", false, "print the effective config and exit")

	addCommonFlags(fs, &f.common)
	addPathFlags(fs, &f.paths)
	addConverterFlags(fs, &f.converter)

	fs.Usage = func() { printServeUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, errors.Join(ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return nil, errors.Join(ErrUsage, errors.New("serve takes no arguments"))
	}

	f.set = fs.Changed
	return f, nil
}

// parseRenderFlags parses render command flags.
func parseRenderFlags(args []string) (*renderFlags, error) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	f := &renderFlags{}

	fs.StringVarP(&f.output, "output", "o", "cv.html", "output HTML file")
	fs.StringVarP(&f.template, "template", "t", "", "template id")
	fs.StringVar(&f.paperSize, "paper-size", "", "paper size variable")
	fs.StringVar(&f.themeColor, "theme-color", "", "theme color variable")

	addCommonFlags(fs, &f.common)
	addPathFlags(fs, &f.paths)
	addConverterFlags(fs, &f.converter)

	fs.Usage = func() { printRenderUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, errors.Join(ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return nil, errors.Join(ErrUsage, errors.New("render takes no arguments"))
	}

	f.set = fs.Changed
	return f, nil
}
