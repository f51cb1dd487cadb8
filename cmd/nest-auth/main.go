// Command nest-auth captures Nest credentials (the Google issueToken URL and
// the google.com session cookies) by walking the operator through an
// interactive Google sign-in in a real browser window, and saves them to
// nest-credentials.json for the downstream integration.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/rusq/osenv/v2"
	"github.com/rusq/tracer"

	nestauth "github.com/jlaska/google-nest-auth-extractor"
)

var build = "dev"

// secrets defines the names of the supported secret files that we load our
// environment overrides from.
var secrets = []string{".env", ".env.txt", "secrets.txt"}

// params is the command line parameters.
type params struct {
	loginURL  string
	output    string
	engine    nestauth.Engine
	browser   nestauth.Browser
	userAgent string
	timeout   time.Duration

	traceFile    string
	printVersion bool
	verbose      bool
}

func main() {
	loadSecrets(secrets)

	p, err := parseCmdLine(os.Args[1:])
	if err != nil {
		slog.Error("invalid parameters", "error", err)
		os.Exit(2)
	}
	if p.printVersion {
		fmt.Println(build)
		return
	}
	initLog(p.verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, p); err != nil {
		if isCaptureFailure(err) {
			color.Red("\nNo credentials captured: %s.", err)
			fmt.Fprintln(os.Stderr, "Complete the Google sign-in in the browser window, then run the tool again.")
			os.Exit(1)
		}
		slog.Error("capture failed", "error", err)
		os.Exit(2)
	}
}

// isCaptureFailure reports whether err is a normal terminal outcome of the
// run (operator ran out of time, abandoned the window, or the account has no
// google.com cookies), as opposed to a launch or navigation fault.
func isCaptureFailure(err error) bool {
	return errors.Is(err, nestauth.ErrNoToken) ||
		errors.Is(err, nestauth.ErrNoCookies) ||
		errors.Is(err, nestauth.ErrBrowserClosed)
}

func run(ctx context.Context, p params) error {
	if p.traceFile != "" {
		slog.Info("enabling trace", "file", p.traceFile)
		trc := tracer.New(p.traceFile)
		if err := trc.Start(); err != nil {
			return err
		}
		defer func() {
			if err := trc.End(); err != nil {
				slog.Error("failed to write the trace file", "error", err)
			}
		}()
	}

	cl := nestauth.New(
		nestauth.WithLoginURL(p.loginURL),
		nestauth.WithEngine(p.engine),
		nestauth.WithBrowser(p.browser),
		nestauth.WithUserAgent(p.userAgent),
		nestauth.WithTimeout(p.timeout),
		nestauth.WithVerbose(p.verbose),
		nestauth.WithOnCapture(func(creds *nestauth.Credentials) error {
			if err := creds.WriteFile(p.output); err != nil {
				return err
			}
			color.Green("\nCredentials captured and saved to %s.", p.output)
			return nil
		}),
	)

	_, err := cl.Capture(ctx)
	return err
}

// loadSecrets load environment overrides from the files in the secrets
// slice.
func loadSecrets(files []string) {
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

func initLog(verbose bool) {
	lvl := slog.LevelInfo
	if verbose {
		lvl = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

// parseCmdLine parses the command line arguments.
func parseCmdLine(args []string) (params, error) {
	fs := flag.NewFlagSet("nest-auth", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			fs.Output(),
			"nest-auth, %s\n"+
				"Captures the Nest issue_token and google.com session cookies by walking\n"+
				"you through an interactive Google sign-in, and writes them to a JSON file\n"+
				"for the downstream integration.\n\n"+
				"Usage:  %s [flags]\n\n",
			build, filepath.Base(os.Args[0]))
		fs.PrintDefaults()
	}

	var p params
	fs.StringVar(&p.loginURL, "url", osenv.Value("NEST_URL", nestauth.DefLoginURL), "sign-in page `URL` (environment: NEST_URL)")
	fs.StringVar(&p.output, "o", nestauth.DefFilename, "output `filename`, overwritten on every successful run")
	fs.Var(&p.engine, "engine", "capture `engine`, one of 'rod' or 'playwright'")
	fs.Var(&p.browser, "browser", "`browser` for the playwright engine, one of 'chromium' or 'firefox'")
	fs.StringVar(&p.userAgent, "ua", osenv.Value("NEST_USER_AGENT", ""), "override the browser `user-agent` (environment: NEST_USER_AGENT)")
	fs.DurationVar(&p.timeout, "timeout", nestauth.DefCeiling, "total `time` allowed for completing the sign-in")

	fs.StringVar(&p.traceFile, "trace", os.Getenv("TRACE_FILE"), "trace `file` (optional)")
	fs.BoolVar(&p.printVersion, "V", false, "print version and exit")
	fs.BoolVar(&p.verbose, "v", osenv.Value("DEBUG", false), "verbose messages")
	fs.BoolVar(&p.verbose, "verbose", osenv.Value("DEBUG", false), "verbose messages")

	if err := fs.Parse(args); err != nil {
		return p, err
	}
	if len(fs.Args()) != 0 {
		return p, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return p, nil
}
