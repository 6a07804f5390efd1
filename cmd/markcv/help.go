package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: markcv [command] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve      Start the résumé editor server (default)")
	fmt.Fprintln(w, "  render     Render the stored résumé to a printable HTML file")
	fmt.Fprintln(w, "  doctor     Check pandoc, templates and directories")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'markcv help <command>' for details on a specific command.")
}

func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -v, --verbose             Log at debug level")
	fmt.Fprintln(w, "      --log-level <level>   debug, info, warn, error")
	fmt.Fprintln(w, "      --log-format <fmt>    json, text")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Paths:")
	fmt.Fprintln(w, "      --data-dir <dir>      Directory holding cv.md and images/")
	fmt.Fprintln(w, "      --template-dir <dir>  Template directory")
	fmt.Fprintln(w, "      --theme-dir <dir>     Theme stylesheet directory")
	fmt.Fprintln(w, "      --static-dir <dir>    Editor static assets")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Converter:")
	fmt.Fprintln(w, "      --pandoc <path>       Pandoc executable")
	fmt.Fprintln(w, "      --inline <backend>    Inline renderer: pandoc, goldmark")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables MARKCV_* override the config file; flags override both.")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: markcv serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Start the editor and its JSON API.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "      --host <host>         Listen host (default 0.0.0.0)")
	fmt.Fprintln(w, "  -p, --port <port>         Listen port (default 9876)")
	fmt.Fprintln(w, "      --print-config        Print the effective config and exit")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: markcv render [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render the stored résumé without starting a server.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output HTML file (default cv.html)")
	fmt.Fprintln(w, "  -t, --template <id>       Template id (default europass)")
	fmt.Fprintln(w, "      --paper-size <size>   Paper size variable (default a4)")
	fmt.Fprintln(w, "      --theme-color <name>  Theme color variable (default blue)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: markcv doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that pandoc, templates and directories are usable.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --json                Output as JSON")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "serve":
		printServeUsage(env.Stdout)
	case "render":
		printRenderUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: markcv version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: markcv help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
