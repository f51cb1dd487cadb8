package nestauth

import (
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
)

// URL fragments that identify the two interesting responses in the sign-in
// traffic.  The token response is recognised by the endpoint and the query
// parameter together; the jwt response only signals that authentication is
// progressing.
const (
	issueTokenEndpoint = "oauth2/iframerpc"
	issueTokenParam    = "issueToken"
	jwtEndpoint        = "issue_jwt"
)

// response is a single network response seen by the browser session.  body
// lazily fetches the response body; engines may legitimately fail to deliver
// it (consumed or aborted bodies), which the observer tolerates per event.
type response struct {
	url  string
	body func() (string, error)
}

// disposition is the observer's verdict on a single response event.
type disposition uint8

const (
	evIgnored     disposition = iota // unrelated traffic
	evToken                          // first issueToken match, token captured
	evTokenRepeat                    // token endpoint seen again after capture
	evSignal                         // auth progress signal, no state change
	evBodyErr                        // matched, but the body could not be read
)

func (d disposition) String() string {
	switch d {
	case evIgnored:
		return "ignored"
	case evToken:
		return "token"
	case evTokenRepeat:
		return "token-repeat"
	case evSignal:
		return "signal"
	case evBodyErr:
		return "body-error"
	}
	return "unknown"
}

// observer classifies every response flowing through the session and
// delivers the first issueToken URL over a buffered channel.  It is the sole
// writer of the captured value; the wait loop is its only reader.
type observer struct {
	lg      *slog.Logger
	verbose bool

	tokenC   chan string
	captured atomic.Bool
	sigOnce  sync.Once
}

func newObserver(lg *slog.Logger, verbose bool) *observer {
	if lg == nil {
		lg = slog.Default()
	}
	return &observer{
		lg:      lg,
		verbose: verbose,
		tokenC:  make(chan string, 1),
	}
}

// token returns the channel on which the captured issueToken URL is
// delivered exactly once.
func (o *observer) token() <-chan string {
	return o.tokenC
}

// process classifies one response event.  First-match-wins: once the token
// is captured, later matches are reported but change nothing.  A failed body
// read is confined to its own event and never disturbs the subscription.
func (o *observer) process(r response) disposition {
	switch {
	case strings.Contains(r.url, issueTokenEndpoint) && strings.Contains(r.url, issueTokenParam):
		if !o.captured.CompareAndSwap(false, true) {
			return evTokenRepeat
		}
		o.tokenC <- r.url // cap 1, single successful CAS, never blocks
		o.lg.Debug("issueToken response captured", "url", truncate(r.url, 120))
		return o.preview(r, evToken)
	case strings.Contains(r.url, jwtEndpoint):
		o.sigOnce.Do(func() {
			o.lg.Debug("authentication progressing, issue_jwt observed")
		})
		return o.preview(r, evSignal)
	default:
		return evIgnored
	}
}

// preview logs a truncated body preview in verbose mode.  A read failure
// downgrades the disposition; the captured state is unaffected.
func (o *observer) preview(r response, d disposition) disposition {
	if !o.verbose || r.body == nil {
		return d
	}
	body, err := r.body()
	if err != nil {
		o.lg.Debug("response body unavailable", "url", truncate(r.url, 80), "error", err)
		return evBodyErr
	}
	o.lg.Debug("response body", "url", truncate(r.url, 80), "preview", truncate(body, 100))
	return d
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
