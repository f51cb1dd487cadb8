package nestauth

import (
	"net/http"
	"strings"
	"time"
)

// cookieDomain is the substring that selects the authentication provider's
// cookies.  Substring rather than suffix match is what the downstream
// consumer was built against, so it stays.
const cookieDomain = "google.com"

// cookieHeader filters cookies down to the authentication domain and joins
// the survivors as an opaque Cookie header value.  Enumeration order is
// preserved; the consumer does not care about ordering.
func cookieHeader(cookies []*http.Cookie, domain string) string {
	var sb strings.Builder
	for _, c := range cookies {
		if !strings.Contains(c.Domain, domain) {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(c.Name)
		sb.WriteByte('=')
		sb.WriteString(c.Value)
	}
	return sb.String()
}

// float2time converts a float value of Unix time to time, nanoseconds value
// is discarded.  If v == -1, it returns the date approximately 5 years from
// Now().
func float2time(v float64) time.Time {
	if v == -1.0 {
		return time.Now().Add(5 * 365 * 24 * time.Hour)
	}
	return time.Unix(int64(v), 0)
}
