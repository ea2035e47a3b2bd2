package server

import (
	"context"
	"strings"

	"github.com/viant/mcp/client/auth/transport"
)

// WithAuthToken attaches a bearer token picked up by the viant client auth
// transport.
func WithAuthToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, transport.ContextAuthTokenKey, token)
}

// bearerToken extracts the token from an "Authorization: Bearer" header.
func bearerToken(headers map[string]string) string {
	for k, v := range headers {
		if !strings.EqualFold(k, "Authorization") {
			continue
		}
		if token, ok := strings.CutPrefix(v, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return ""
}
