package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: rtiform <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Draft RTI FORM A applications for Kerala local bodies.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  wizard     Fill in an application interactively")
	fmt.Fprintln(w, "  generate   Generate documents from record files")
	fmt.Fprintln(w, "  options    List districts, local body types and local bodies")
	fmt.Fprintln(w, "  guide      Show how to submit the application")
	fmt.Fprintln(w, "  doctor     Check configuration, assets and renderers")
	fmt.Fprintln(w, "  completion Generate a shell completion script")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'rtiform help <command>' for details on a specific command.")
}

func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timing")
}

func printRenderFlags(w io.Writer) {
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory")
	fmt.Fprintln(w, "  -f, --format <s>          Output format: pdf, html (default: pdf)")
	fmt.Fprintln(w, "  -r, --renderer <s>        PDF backend: native, chrome (default: native)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Chrome render timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --date-format <s>     Declaration date format (default: DD/MM/YYYY)")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "                            Presets: iso, european, us, long")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom jurisdiction table and HTML template")
}

// printGenerateUsage prints usage for the generate command.
func printGenerateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: rtiform generate <record.yaml|dir> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate one document per YAML record file.")
	fmt.Fprintln(w, "A directory is searched recursively for .yaml and .yml files.")
	fmt.Fprintln(w)
	printRenderFlags(w)
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	printCommonFlags(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  RTIFORM_CONFIG, RTIFORM_OUTPUT_DIR, RTIFORM_FORMAT, RTIFORM_RENDERER,")
	fmt.Fprintln(w, "  RTIFORM_TIMEOUT, RTIFORM_WORKERS, RTIFORM_LOG_LEVEL, RTIFORM_DATE_FORMAT")
}

// printWizardUsage prints usage for the wizard command.
func printWizardUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: rtiform wizard [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Fill in the four sections of FORM A and write the document.")
	fmt.Fprintln(w)
	printRenderFlags(w)
	fmt.Fprintln(w, "  -s, --save <path>         Also save the answers as a record file")
	fmt.Fprintln(w, "      --no-prefill          Ignore the applicant section of the config")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printOptionsUsage prints usage for the options command.
func printOptionsUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: rtiform options [district] [local-body-type] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Without arguments, list districts and local body types.")
	fmt.Fprintln(w, "With a district and type, list the local bodies to choose from.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --asset-path <dir>    Custom jurisdiction table")
	printCommonFlags(w)
}

// printGuideUsage prints usage for the guide command.
func printGuideUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: rtiform guide [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Show how to submit a printed application.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --html                Write the guide as HTML")
	fmt.Fprintln(w, "  -o, --output <path>       HTML output file (default: stdout)")
	fmt.Fprintln(w, "      --style <s>           Terminal style: dark, light, notty")
	fmt.Fprintln(w, "      --width <n>           Terminal wrap column (0 = terminal width)")
	fmt.Fprintln(w, "      --asset-path <dir>    Read guide/submission.md from dir; relative")
	fmt.Fprintln(w, "                            links in the HTML resolve against dir/guide")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: rtiform doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Load the configuration and jurisdiction directory, compose and render a")
	fmt.Fprintln(w, "sample application, and check the output directory and Chrome.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Print results as JSON")
	fmt.Fprintln(w, "  -c, --config <file>       Config file to check")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory to check")
	fmt.Fprintln(w, "  -f, --format <fmt>        Output format: pdf, html")
	fmt.Fprintln(w, "  -r, --renderer <name>     PDF backend: native, chrome (chrome makes a")
	fmt.Fprintln(w, "                            missing browser an error)")
	fmt.Fprintln(w, "      --date-format <fmt>   Date format used for the sample")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom asset directory")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "generate":
		printGenerateUsage(env.Stdout)
	case "wizard":
		printWizardUsage(env.Stdout)
	case "options":
		printOptionsUsage(env.Stdout)
	case "guide":
		printGuideUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: rtiform version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: rtiform help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
