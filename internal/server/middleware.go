package server

import (
	"log/slog"
	"net/http"
	"path"
	"strings"
)

// originPolicy decides which browser origins may call the API. Each entry is
// an exact origin, "*" for any origin, or a glob such as "http://localhost:*".
type originPolicy struct {
	any      bool
	exact    map[string]struct{}
	patterns []string
}

func newOriginPolicy(entries []string) originPolicy {
	p := originPolicy{exact: make(map[string]struct{}, len(entries))}
	for _, e := range entries {
		e = normalizeOrigin(e)
		switch {
		case e == "":
		case e == "*":
			p.any = true
		case strings.ContainsAny(e, "*?["):
			if _, err := path.Match(e, ""); err != nil {
				slog.Warn("ignoring malformed allowed origin", "origin", e, "error", err)
				continue
			}
			p.patterns = append(p.patterns, e)
		default:
			p.exact[e] = struct{}{}
		}
	}
	return p
}

// normalizeOrigin lowercases o and drops a trailing slash.
func normalizeOrigin(o string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(o)), "/")
}

func (p originPolicy) allows(origin string) bool {
	origin = normalizeOrigin(origin)
	if origin == "" {
		return false
	}
	if p.any {
		return true
	}
	if _, ok := p.exact[origin]; ok {
		return true
	}
	for _, pattern := range p.patterns {
		if ok, _ := path.Match(pattern, origin); ok {
			return true
		}
	}
	return false
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowed := origin != "" && s.origins.allows(origin)
		if origin != "" {
			w.Header().Add("Vary", "Origin")
		}
		if allowed {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type")
			h.Set("Access-Control-Max-Age", "600")
		}

		if r.Method != http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		if origin != "" && !allowed {
			slog.Debug("preflight from disallowed origin", "origin", origin)
			http.Error(w, "origin not allowed", http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}
