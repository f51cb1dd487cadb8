package nestauth

import (
	"context"
	"fmt"
	"time"
)

// waitToken gives the operator time to complete the sign-in, polling for the
// captured token.  It returns as soon as the token arrives, even before the
// first tick, and gives up at the ceiling with ErrNoToken.  The closed
// channel reports that the browser window went away under the operator's
// hand.  Ticks are observability only and have no effect on timing.
func (cl *Client) waitToken(ctx context.Context, tokenC <-chan string, closed <-chan struct{}) (string, error) {
	deadline := time.NewTimer(cl.ceiling)
	defer deadline.Stop()
	ticker := time.NewTicker(cl.poll)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case token := <-tokenC:
			if !cl.verbose {
				fmt.Fprintln(cl.out)
			}
			return token, nil
		case <-ticker.C:
			cl.tick(time.Since(start))
		case <-deadline.C:
			if !cl.verbose {
				fmt.Fprintln(cl.out)
			}
			return "", ErrNoToken
		case <-closed:
			return "", ErrBrowserClosed
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// tick emits one progress indicator: a timestamped line in verbose mode, a
// bare dot otherwise.
func (cl *Client) tick(elapsed time.Duration) {
	if cl.verbose {
		cl.lg.Info("waiting for sign-in to complete", "elapsed", elapsed.Round(time.Second), "limit", cl.ceiling)
		return
	}
	fmt.Fprint(cl.out, ".")
}
