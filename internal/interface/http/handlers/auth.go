package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// ══════════════════════════════════════════════════════════════════════════════
// API KEY AUTHENTICATION
// ══════════════════════════════════════════════════════════════════════════════

// APIKeyAuth authenticates admin requests against bcrypt key hashes.
// Only hashes are configured; the plaintext keys never touch the config.
type APIKeyAuth struct {
	mu         sync.RWMutex
	headerName string
	hashes     [][]byte
}

// NewAPIKeyAuth creates an APIKeyAuth checking the given header against
// the given bcrypt hashes.
func NewAPIKeyAuth(headerName string, hashes []string) *APIKeyAuth {
	h := make([][]byte, 0, len(hashes))
	for _, hash := range hashes {
		if hash != "" {
			h = append(h, []byte(hash))
		}
	}
	return &APIKeyAuth{headerName: headerName, hashes: h}
}

// IsValid reports whether the key matches any configured hash.
func (a *APIKeyAuth) IsValid(key string) bool {
	if key == "" {
		return false
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	for _, hash := range a.hashes {
		if bcrypt.CompareHashAndPassword(hash, []byte(key)) == nil {
			return true
		}
	}
	return false
}

// Middleware rejects requests without a valid API key.
func (a *APIKeyAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(a.headerName)
		if key == "" {
			// Also accept "Authorization: Bearer <key>".
			auth := r.Header.Get("Authorization")
			const prefix = "Bearer "
			if len(auth) > len(prefix) &&
				subtle.ConstantTimeCompare([]byte(auth[:len(prefix)]), []byte(prefix)) == 1 {
				key = auth[len(prefix):]
			}
		}

		if !a.IsValid(key) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]string{
					"code":    "unauthorized",
					"message": "A valid API key is required",
				},
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
