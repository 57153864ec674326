package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-rtiform"
	"github.com/alnah/go-rtiform/internal/config"
	"github.com/alnah/go-rtiform/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	setMaxProcs(os.Args[1:], os.Stderr)
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// setMaxProcs tunes GOMAXPROCS for container CPU quotas, logging only
// with --verbose. maxprocs.Set fails only on an invalid GOMAXPROCS variable,
// in which case runtime defaults apply.
func setMaxProcs(args []string, w io.Writer) {
	logf := func(string, ...interface{}) {}
	if hasVerboseFlag(args) {
		logf = func(format string, a ...interface{}) {
			fmt.Fprintf(w, format+"\n", a...)
		}
	}
	_, _ = maxprocs.Set(maxprocs.Logger(logf))
}

func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}

// runMain dispatches the command in args[1] and returns the exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	cmd, rest := args[1], args[2:]
	var err error
	switch cmd {
	case "wizard":
		err = runWizardCmd(ctx, rest, env)
	case "generate":
		err = runGenerateCmd(ctx, rest, env)
	case "options":
		err = runOptionsCmd(rest, env)
	case "guide":
		err = runGuideCmd(ctx, rest, env)
	case "doctor":
		return runDoctorCmd(ctx, rest, env)
	case "completion":
		err = runCompletion(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "rtiform %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		runHelp(rest, env)
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if err == nil || errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if !errors.Is(err, ErrInvalidFlags) {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
	}
	return exitCodeFor(err)
}

// flagErrorCode maps a flag parse error for commands returning exit codes.
func flagErrorCode(err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	return ExitUsage
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	var notFound *config.NotFoundError
	switch {
	case errors.As(err, &notFound):
		return hints.ForConfigNotFound(notFound.Tried)
	case errors.Is(err, rtiform.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	case errors.Is(err, rtiform.ErrInvalidSignature),
		errors.Is(err, rtiform.ErrUnsupportedImage),
		errors.Is(err, rtiform.ErrSignatureImageNotFound),
		errors.Is(err, rtiform.ErrInvalidDataURL):
		return hints.ForSignatureImage()
	default:
		return ""
	}
}
