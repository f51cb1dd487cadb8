package nestauth

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// testClient returns a client with timings suitable for tests.
func testClient(opts ...Option) *Client {
	base := []Option{
		WithPollInterval(10 * time.Millisecond),
		WithTimeout(time.Hour),
		WithLogger(testLogger()),
		WithOutput(&bytes.Buffer{}),
	}
	cl := New(append(base, opts...)...)
	cl.linger = 0
	return cl
}

func Test_waitToken_immediate(t *testing.T) {
	cl := testClient(WithPollInterval(500 * time.Millisecond))
	tokenC := make(chan string, 1)
	tokenC <- testTokenURL

	start := time.Now()
	got, err := cl.waitToken(context.Background(), tokenC, nil)
	if err != nil {
		t.Fatalf("waitToken() error = %v", err)
	}
	if got != testTokenURL {
		t.Errorf("waitToken() = %q, want %q", got, testTokenURL)
	}
	// a pre-captured token must not cost a full poll interval.
	if elapsed := time.Since(start); elapsed >= cl.poll {
		t.Errorf("waitToken() took %v, want less than %v", elapsed, cl.poll)
	}
}

func Test_waitToken_delivery(t *testing.T) {
	cl := testClient()
	tokenC := make(chan string, 1)
	go func() {
		time.Sleep(25 * time.Millisecond) // roughly tick 2
		tokenC <- testTokenURL
	}()
	got, err := cl.waitToken(context.Background(), tokenC, nil)
	if err != nil {
		t.Fatalf("waitToken() error = %v", err)
	}
	if got != testTokenURL {
		t.Errorf("waitToken() = %q, want %q", got, testTokenURL)
	}
}

func Test_waitToken_ceiling(t *testing.T) {
	cl := testClient(WithTimeout(60 * time.Millisecond))

	start := time.Now()
	_, err := cl.waitToken(context.Background(), make(chan string), nil)
	if !errors.Is(err, ErrNoToken) {
		t.Fatalf("waitToken() error = %v, want %v", err, ErrNoToken)
	}
	elapsed := time.Since(start)
	if elapsed < cl.ceiling {
		t.Errorf("waitToken() returned after %v, before the %v ceiling", elapsed, cl.ceiling)
	}
	// within one poll interval margin (generous allowance for slow CI).
	if elapsed > cl.ceiling+cl.poll+500*time.Millisecond {
		t.Errorf("waitToken() returned after %v, way past the %v ceiling", elapsed, cl.ceiling)
	}
}

func Test_waitToken_cancelled(t *testing.T) {
	cl := testClient()
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(15 * time.Millisecond)
		cancel()
	}()
	_, err := cl.waitToken(ctx, make(chan string), nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("waitToken() error = %v, want %v", err, context.Canceled)
	}
}

func Test_waitToken_browserClosed(t *testing.T) {
	cl := testClient()
	closed := make(chan struct{})
	close(closed)
	_, err := cl.waitToken(context.Background(), make(chan string), closed)
	if !errors.Is(err, ErrBrowserClosed) {
		t.Errorf("waitToken() error = %v, want %v", err, ErrBrowserClosed)
	}
}

func Test_waitToken_terseProgress(t *testing.T) {
	var buf bytes.Buffer
	cl := testClient(WithTimeout(55*time.Millisecond), WithOutput(&buf))

	_, err := cl.waitToken(context.Background(), make(chan string), nil)
	if !errors.Is(err, ErrNoToken) {
		t.Fatalf("waitToken() error = %v, want %v", err, ErrNoToken)
	}
	if !strings.Contains(buf.String(), ".") {
		t.Errorf("no progress dots in terse output: %q", buf.String())
	}
}

func Test_waitToken_verboseProgress(t *testing.T) {
	var buf bytes.Buffer
	cl := testClient(WithTimeout(55*time.Millisecond), WithOutput(&buf), WithVerbose(true))

	_, err := cl.waitToken(context.Background(), make(chan string), nil)
	if !errors.Is(err, ErrNoToken) {
		t.Fatalf("waitToken() error = %v, want %v", err, ErrNoToken)
	}
	// verbose progress goes to the logger, not the status writer.
	if strings.Contains(buf.String(), ".") {
		t.Errorf("unexpected dots in verbose output: %q", buf.String())
	}
}
