// Package nestauth captures Nest authentication credentials by driving a
// real browser through the interactive Google sign-in flow.  It watches the
// session's network traffic for the issueToken response, collects the Google
// session cookies, and hands back both as a single record that downstream
// integrations accept verbatim.
package nestauth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"
)

const (
	// DefLoginURL is the page that hosts the "Sign in with Google" flow.
	DefLoginURL = "https://home.nest.com"
	// DefFilename is the default output file in the working directory.
	DefFilename = "nest-credentials.json"
	// DefPollInterval is the delay between captured-token checks while the
	// operator is busy signing in.
	DefPollInterval = 5 * time.Second
	// DefCeiling is the maximum total time to wait for the sign-in to
	// produce the issueToken response.
	DefCeiling = 5 * time.Minute

	// defLinger keeps the browser window open after a successful capture so
	// that the operator sees the outcome before the window goes away.
	defLinger = 10 * time.Second

	defUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

	defViewportWidth  = 1280
	defViewportHeight = 800
)

var (
	ErrNoToken       = errors.New("no issue token")
	ErrNoCookies     = errors.New("no google.com cookies")
	ErrBrowserClosed = errors.New("browser closed or timed out")
)

// OnCapture is called as soon as a complete set of credentials is assembled,
// while the browser window is still on screen.  Returning an error fails the
// run.
type OnCapture func(*Credentials) error

// Client captures Nest credentials from an interactive browser session.
// Use New to create one.
type Client struct {
	loginURL  string
	engine    Engine
	browser   Browser
	userAgent string
	poll      time.Duration
	ceiling   time.Duration
	linger    time.Duration
	verbose   bool
	lg        *slog.Logger
	out       io.Writer
	onCapture OnCapture
}

// New returns a new capture client.
func New(opts ...Option) *Client {
	cl := &Client{
		loginURL:  DefLoginURL,
		engine:    EngineRod,
		browser:   Bchromium,
		userAgent: defUserAgent,
		poll:      DefPollInterval,
		ceiling:   DefCeiling,
		linger:    defLinger,
		lg:        slog.Default(),
		out:       os.Stderr,
	}
	for _, opt := range opts {
		opt(cl)
	}
	return cl
}

// Capture runs one interactive sign-in session and returns the captured
// credentials.  A run that ends without a token returns ErrNoToken, a run
// that yields a token but no google.com cookies returns ErrNoCookies; both
// are terminal outcomes that the operator resolves by re-running the tool.
func (cl *Client) Capture(ctx context.Context) (*Credentials, error) {
	switch cl.engine {
	case EnginePlaywright:
		return cl.capturePlaywright(ctx)
	default:
		return cl.captureRod(ctx)
	}
}

// collect is the engine-independent tail of a capture:  wait for the
// observer to deliver the token, then, and only then, harvest the session
// cookies, assemble the record and keep the window open for the operator.
// cookies is deferred behind a closure so that no cookie enumeration can
// happen before the token exists.
func (cl *Client) collect(ctx context.Context, obs *observer, closed <-chan struct{}, cookies func() ([]*http.Cookie, error)) (*Credentials, error) {
	token, err := cl.waitToken(ctx, obs.token(), closed)
	if err != nil {
		return nil, err
	}
	cc, err := cookies()
	if err != nil {
		return nil, fmt.Errorf("cookie enumeration failed: %w", err)
	}
	header := cookieHeader(cc, cookieDomain)
	if header == "" {
		// a token without session cookies is useless downstream, report the
		// run as failed rather than writing a partial record.
		return nil, ErrNoCookies
	}
	creds := &Credentials{
		IssueToken: token,
		Cookies:    header,
		CapturedAt: time.Now().UTC(),
		Note:       Note,
	}
	cl.lg.Debug("credentials assembled", "issue_token", creds.IssueToken, "cookies", creds.Cookies)
	if cl.onCapture != nil {
		if err := cl.onCapture(creds); err != nil {
			return nil, err
		}
	}
	cl.holdOpen(ctx)
	return creds, nil
}

// holdOpen blocks for the linger period, or until the context is cancelled.
func (cl *Client) holdOpen(ctx context.Context) {
	if cl.linger <= 0 {
		return
	}
	t := time.NewTimer(cl.linger)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// status emits an operator-facing status line regardless of verbosity.
func (cl *Client) status(msg string) {
	fmt.Fprintln(cl.out, msg)
}
