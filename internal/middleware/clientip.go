package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP extracts the real client IP from a request. Forwarding
// headers are honored only when the direct peer is a private or
// loopback address, since the IP feeds the rate-limit key and a public
// caller must not be able to rotate it per request.
func ClientIP(r *http.Request) string {
	peer := remoteIP(r)

	if trustedPeer(peer) {
		// X-Forwarded-For: take first IP in list
		xff := r.Header.Get("X-Forwarded-For")
		if xff != "" {
			ips := strings.Split(xff, ",")
			if len(ips) > 0 {
				return strings.TrimSpace(ips[0])
			}
		}

		xri := r.Header.Get("X-Real-IP")
		if xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	return peer
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// trustedPeer reports whether addr belongs to infrastructure that may
// set forwarding headers (the reverse proxy on the private network).
func trustedPeer(addr string) bool {
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	return ip.IsLoopback() || ip.IsPrivate()
}
