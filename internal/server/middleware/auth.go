// Package middleware provides HTTP middleware for API key authentication.
package middleware

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// clientKey is the context key for the name of the authenticated API client.
const clientKey ContextKey = "apiClient"

// APIKey is a bearer token accepted by the API, with the client name it identifies
type APIKey struct {
	Client string
	Token  string
}

// ParseAPIKeys parses "client:token" pairs separated by commas. A pair without a
// client name is labelled by its position.
func ParseAPIKeys(list string) []APIKey {
	var keys []APIKey
	for i, pair := range strings.Split(list, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		client, token, found := strings.Cut(pair, ":")
		if !found {
			client, token = "", pair
		}
		client, token = strings.TrimSpace(client), strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if client == "" {
			client = fmt.Sprintf("key-%d", i+1)
		}
		keys = append(keys, APIKey{Client: client, Token: token})
	}
	return keys
}

// APIKeyAuth rejects requests without a valid "Authorization: Bearer <token>" header
// and stores the client name in the request context. With no keys configured every
// request passes through.
func APIKeyAuth(keys []APIKey) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			client, ok := lookup(keys, token)
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), clientKey, client)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from a case-insensitive "Bearer" header
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// lookup compares against every key in constant time
func lookup(keys []APIKey, token string) (string, bool) {
	client := ""
	for _, k := range keys {
		if subtle.ConstantTimeCompare([]byte(k.Token), []byte(token)) == 1 && client == "" {
			client = k.Client
		}
	}
	return client, client != ""
}

// Client returns the authenticated client name, or "" when auth is disabled.
func Client(r *http.Request) string {
	client, _ := r.Context().Value(clientKey).(string)
	return client
}
