package nestauth

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// captureRod drives the sign-in through a CDP-controlled chromium.  The
// system browser is preferred when present, otherwise rod downloads its own.
func (cl *Client) captureRod(ctx context.Context) (*Credentials, error) {
	l := launcher.New().Headless(false).Leakless(true)
	if path, ok := launcher.LookPath(); ok {
		l = l.Bin(path)
	}
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("unable to start the browser: %w", err)
	}
	defer l.Cleanup()

	browser := rod.New().Context(ctx).ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("unable to connect to the browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, err
	}
	if err := (proto.NetworkSetUserAgentOverride{UserAgent: cl.userAgent}).Call(page); err != nil {
		return nil, err
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             defViewportWidth,
		Height:            defViewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, err
	}

	// window close sentinel, so that the wait loop doesn't sit out the whole
	// ceiling staring at a dead session.
	closed := make(chan struct{})
	var closeOnce sync.Once
	go browser.EachEvent(func(e *proto.TargetTargetDestroyed) {
		if e.TargetID == page.TargetID {
			closeOnce.Do(func() { close(closed) })
		}
	})()

	obs := newObserver(cl.lg, cl.verbose)
	go page.EachEvent(func(e *proto.NetworkResponseReceived) {
		obs.process(response{
			url: e.Response.URL,
			body: func() (string, error) {
				r, err := proto.NetworkGetResponseBody{RequestID: e.RequestID}.Call(page)
				if err != nil {
					return "", err
				}
				return r.Body, nil
			},
		})
	})()
	cl.lg.Debug("network monitoring started", "url", cl.loginURL)

	wait := page.WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
	if err := page.Navigate(cl.loginURL); err != nil {
		return nil, fmt.Errorf("navigation to %s failed: %w", cl.loginURL, err)
	}
	wait()
	cl.status("Sign in with your Google account in the browser window.")

	return cl.collect(ctx, obs, closed, func() ([]*http.Cookie, error) {
		cc, err := browser.GetCookies()
		if err != nil {
			return nil, err
		}
		return rodCookies(cc), nil
	})
}

// rodCookies converts CDP cookies to their stdlib counterpart.
func rodCookies(cc []*proto.NetworkCookie) []*http.Cookie {
	ret := make([]*http.Cookie, 0, len(cc))
	for _, c := range cc {
		ret = append(ret, &http.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  float2time(float64(c.Expires)),
			Secure:   c.Secure,
			HttpOnly: c.HTTPOnly,
		})
	}
	return ret
}
