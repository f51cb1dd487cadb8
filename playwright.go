package nestauth

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// capturePlaywright drives the sign-in through a playwright-managed browser.
// Unlike the rod engine it can also use firefox.
func (cl *Client) capturePlaywright(ctx context.Context) (*Credentials, error) {
	runopts := &playwright.RunOptions{
		Browsers: []string{cl.browser.String()},
		Verbose:  cl.verbose,
	}
	if err := playwright.Install(runopts); err != nil {
		return nil, fmt.Errorf("can't install the browser: %w", err)
	}
	pw, err := playwright.Run()
	if err != nil {
		return nil, err
	}
	defer pw.Stop()

	browser, err := cl.browser.client(pw).Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(false),
	})
	if err != nil {
		return nil, err
	}
	defer browser.Close()

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(cl.userAgent),
		Viewport:  &playwright.Size{Width: defViewportWidth, Height: defViewportHeight},
	})
	if err != nil {
		return nil, err
	}
	defer bctx.Close()

	page, err := bctx.NewPage()
	if err != nil {
		return nil, err
	}

	closed := make(chan struct{})
	var closeOnce sync.Once
	page.OnClose(func(playwright.Page) {
		closeOnce.Do(func() { close(closed) })
	})

	obs := newObserver(cl.lg, cl.verbose)
	page.OnResponse(func(r playwright.Response) {
		obs.process(response{url: r.URL(), body: r.Text})
	})
	cl.lg.Debug("network monitoring started", "url", cl.loginURL)

	if _, err := page.Goto(cl.loginURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	}); err != nil {
		return nil, fmt.Errorf("navigation to %s failed: %w", cl.loginURL, err)
	}
	cl.status("Sign in with your Google account in the browser window.")

	return cl.collect(ctx, obs, closed, func() ([]*http.Cookie, error) {
		cc, err := bctx.Cookies()
		if err != nil {
			return nil, err
		}
		return pwCookies(cc), nil
	})
}

// pwCookies converts playwright cookies to their stdlib counterpart.
func pwCookies(cc []playwright.Cookie) []*http.Cookie {
	ret := make([]*http.Cookie, 0, len(cc))
	for _, c := range cc {
		ret = append(ret, &http.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  float2time(c.Expires),
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
			SameSite: sameSite(c.SameSite),
		})
	}
	return ret
}

// sameSite returns the constant value that maps to the string value of SameSite.
func sameSite(val *playwright.SameSiteAttribute) http.SameSite {
	switch val {
	case playwright.SameSiteAttributeLax:
		return http.SameSiteLaxMode
	case playwright.SameSiteAttributeNone:
		return http.SameSiteNoneMode
	case playwright.SameSiteAttributeStrict:
		return http.SameSiteStrictMode
	default:
		return http.SameSiteDefaultMode
	}
}
