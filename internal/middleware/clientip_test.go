package middleware

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		realIP     string
		remoteAddr string
		want       string
	}{
		{"forwarded chain via private proxy", "203.0.113.7, 10.0.0.1", "", "10.0.0.2:1234", "203.0.113.7"},
		{"real ip header via private proxy", "", "203.0.113.8", "10.0.0.2:1234", "203.0.113.8"},
		{"socket fallback", "", "", "198.51.100.3:5678", "198.51.100.3"},
		{"forwarded wins over real ip", "203.0.113.7", "203.0.113.8", "10.0.0.2:1234", "203.0.113.7"},
		{"loopback proxy trusted", "203.0.113.7", "", "127.0.0.1:1234", "203.0.113.7"},
		// A public peer forging X-Forwarded-For must not rotate its
		// identity out from under the rate limiter.
		{"public peer headers ignored", "203.0.113.7", "203.0.113.8", "198.51.100.3:5678", "198.51.100.3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
