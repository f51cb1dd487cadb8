package nestauth

import (
	"encoding/json"
	"io"
	"os"
	"time"
)

// Note is the fixed advisory stored alongside the captured values.
const Note = "issue_token and cookies grant full access to your Nest account - keep this file private"

// Credentials is the artifact consumed by the downstream Nest integration.
// IssueToken is the full URL of the issueToken response, verbatim, not a
// value parsed out of it.
type Credentials struct {
	IssueToken string    `json:"issue_token"`
	Cookies    string    `json:"cookies"`
	CapturedAt time.Time `json:"captured_at"`
	Note       string    `json:"note"`
}

// Validate returns ErrNoToken or ErrNoCookies if either captured value is
// missing.  An empty cookie string counts as missing.
func (c *Credentials) Validate() error {
	if c.IssueToken == "" {
		return ErrNoToken
	}
	if c.Cookies == "" {
		return ErrNoCookies
	}
	return nil
}

// Save serialises the credentials to w as indented JSON.  It refuses to
// write a partial record.
func Save(w io.Writer, c *Credentials) error {
	if err := c.Validate(); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// Load deserialises credentials from r.  It returns ErrNoToken or
// ErrNoCookies if the stored record is incomplete.
func Load(r io.Reader) (*Credentials, error) {
	var c Credentials
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, err
	}
	return &c, c.Validate()
}

// WriteFile saves the credentials to filename, overwriting any previous run.
func (c *Credentials) WriteFile(filename string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := Save(f, c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
