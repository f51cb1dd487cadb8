package nestauth

import (
	"net/http"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"
)

func Test_rodCookies(t *testing.T) {
	in := []*proto.NetworkCookie{
		{
			Name:     "SID",
			Value:    "abc",
			Domain:   ".google.com",
			Path:     "/",
			Expires:  proto.TimeSinceEpoch(1.68335956e+09),
			Secure:   true,
			HTTPOnly: true,
		},
		{
			Name:   "session",
			Value:  "zzz",
			Domain: "home.nest.com",
			Path:   "/",
		},
	}
	got := rodCookies(in)
	assert.Len(t, got, 2)
	assert.Equal(t, &http.Cookie{
		Name:     "SID",
		Value:    "abc",
		Domain:   ".google.com",
		Path:     "/",
		Expires:  time.Unix(1683359560, 0),
		Secure:   true,
		HttpOnly: true,
	}, got[0])
	assert.Equal(t, "session", got[1].Name)
}
