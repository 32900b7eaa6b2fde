package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gridrivals/gridrivals/internal/usecase"
)

func TestResolveClientID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{
			name:    "fly client ip wins",
			headers: map[string]string{"Fly-Client-IP": "203.0.113.7", "X-Forwarded-For": "198.51.100.1"},
			want:    "203.0.113.7",
		},
		{
			name:    "forwarded-for uses first hop",
			headers: map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.1, 10.0.0.2"},
			want:    "198.51.100.1",
		},
		{
			name:    "real ip fallback",
			headers: map[string]string{"X-Real-IP": "192.0.2.44"},
			want:    "192.0.2.44",
		},
		{
			name:       "remote addr strips port",
			remoteAddr: "192.0.2.9:54321",
			want:       "192.0.2.9",
		},
		{
			name:       "ipv6 remote addr",
			remoteAddr: "[2001:db8::1]:443",
			want:       "2001:db8::1",
		},
		{
			name:       "garbage collapses to shared bucket",
			headers:    map[string]string{"X-Forwarded-For": "not-an-ip"},
			remoteAddr: "also-not-an-ip",
			want:       usecase.UnknownClientID,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/v1/invites/validate", nil)
			req.RemoteAddr = tc.remoteAddr
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}

			if got := resolveClientID(req); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
