package middleware

import "net/http"

const allowAnyOrigin = "*"

type CORSMiddleware struct {
	allowedOrigins map[string]struct{}
	allowAny       bool
}

// NewCORSMiddleware allows the listed origins. "*" allows every origin.
func NewCORSMiddleware(allowedOrigins []string) *CORSMiddleware {
	m := &CORSMiddleware{allowedOrigins: make(map[string]struct{}, len(allowedOrigins))}
	for _, origin := range allowedOrigins {
		if origin == allowAnyOrigin {
			m.allowAny = true
			continue
		}
		m.allowedOrigins[origin] = struct{}{}
	}
	return m
}

func (m *CORSMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if origin, ok := m.allowOrigin(req.Header.Get("Origin")); ok {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if !m.allowAny {
			w.Header().Add("Vary", "Origin")
		}

		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, req)
	})
}

// allowOrigin returns the value for Access-Control-Allow-Origin, if any.
func (m *CORSMiddleware) allowOrigin(origin string) (string, bool) {
	if m.allowAny {
		return allowAnyOrigin, true
	}
	if origin == "" {
		return "", false
	}
	if _, ok := m.allowedOrigins[origin]; ok {
		return origin, true
	}
	return "", false
}
