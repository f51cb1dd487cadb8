package nestauth

import (
	"io"
	"log/slog"
	"time"
)

// Option is the Client option.
type Option func(*Client)

// WithLoginURL overrides the page that starts the sign-in flow.
func WithLoginURL(u string) Option {
	return func(cl *Client) {
		if u != "" {
			cl.loginURL = u
		}
	}
}

// WithEngine selects the browser automation backend.
func WithEngine(e Engine) Option {
	return func(cl *Client) {
		if e < EngineRod || EnginePlaywright < e {
			e = EngineRod
		}
		cl.engine = e
	}
}

// WithBrowser selects the browser for the playwright engine.  The rod
// engine always uses the system chromium.
func WithBrowser(b Browser) Option {
	return func(cl *Client) {
		if b < Bchromium || Bfirefox < b {
			b = Bchromium
		}
		cl.browser = b
	}
}

// WithUserAgent sets the user agent string for the controlled browser.
func WithUserAgent(ua string) Option {
	return func(cl *Client) {
		if ua != "" {
			cl.userAgent = ua
		}
	}
}

// WithPollInterval sets the delay between captured-token checks.
func WithPollInterval(d time.Duration) Option {
	return func(cl *Client) {
		if d <= 0 {
			return
		}
		cl.poll = d
	}
}

// WithTimeout sets the total time the operator has to complete the sign-in.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d <= 0 {
			return
		}
		cl.ceiling = d
	}
}

// WithVerbose enables detailed progress reporting, including network
// monitoring milestones and truncated response previews.
func WithVerbose(b bool) Option {
	return func(cl *Client) {
		cl.verbose = b
	}
}

// WithLogger sets the logger.
func WithLogger(lg *slog.Logger) Option {
	return func(cl *Client) {
		if lg != nil {
			cl.lg = lg
		}
	}
}

// WithOutput redirects operator-facing status output (default os.Stderr).
func WithOutput(w io.Writer) Option {
	return func(cl *Client) {
		if w != nil {
			cl.out = w
		}
	}
}

// WithOnCapture registers the callback that runs once credentials are
// complete, before the browser window is released.
func WithOnCapture(fn OnCapture) Option {
	return func(cl *Client) {
		cl.onCapture = fn
	}
}
