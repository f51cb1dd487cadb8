package nestauth

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// Engine selects the browser automation backend.
type Engine uint8

const (
	EngineRod Engine = iota
	EnginePlaywright
)

var engineNames = map[Engine]string{
	EngineRod:        "rod",
	EnginePlaywright: "playwright",
}

func (e Engine) String() string {
	if name, ok := engineNames[e]; ok {
		return name
	}
	return fmt.Sprintf("Engine(%d)", e)
}

// Set implements flag.Value.
func (e *Engine) Set(v string) error {
	for eng, name := range engineNames {
		if name == strings.ToLower(v) {
			*e = eng
			return nil
		}
	}
	return fmt.Errorf("unknown engine: %s, allowed: rod, playwright", v)
}

// Browser is the browser to use with the playwright engine.
type Browser uint8

const (
	Bchromium Browser = iota
	Bfirefox
)

var browserNames = map[Browser]string{
	Bchromium: "chromium",
	Bfirefox:  "firefox",
}

func (b Browser) String() string {
	if name, ok := browserNames[b]; ok {
		return name
	}
	return fmt.Sprintf("Browser(%d)", b)
}

// Set implements flag.Value.
func (b *Browser) Set(v string) error {
	for br, name := range browserNames {
		if name == strings.ToLower(v) {
			*b = br
			return nil
		}
	}
	return fmt.Errorf("unknown browser: %s, allowed: chromium, firefox", v)
}

// client returns the appropriate client from playwright.Playwright.
func (b Browser) client(pw *playwright.Playwright) playwright.BrowserType {
	switch b {
	default:
		fallthrough
	case Bchromium:
		return pw.Chromium
	case Bfirefox:
		return pw.Firefox
	}
}
