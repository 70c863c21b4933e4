package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"rezo/pkg/requestcontext"
)

// ClientMetadata captures the caller's IP and User-Agent into the request
// context. The registrant row records the IP; audit events record the parsed
// browser summary.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		ua := r.UserAgent()

		ctx := requestcontext.WithClientMetadata(r.Context(), ip, ua)
		if summary := browserSummary(ua); summary != "" {
			ctx = requestcontext.WithBrowser(ctx, summary)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientIP resolves the originating address, preferring proxy headers set by
// the edge. X-Forwarded-For may carry a chain; the first hop is the client.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first, _, ok := strings.Cut(xff, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(xff)
	}
	if rip := r.Header.Get("X-Real-IP"); rip != "" {
		return strings.TrimSpace(rip)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func browserSummary(rawUA string) string {
	if rawUA == "" {
		return ""
	}
	ua := useragent.New(rawUA)
	name, version := ua.Browser()
	if name == "" {
		return ""
	}
	summary := name
	if version != "" {
		summary += "/" + version
	}
	if os := ua.OS(); os != "" {
		summary += " (" + os + ")"
	}
	return summary
}
