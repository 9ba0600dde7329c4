// Package auditctx carries the request actor through context for audit logging.
package auditctx

import (
	"context"
	"strings"
)

// MaxUsernameLength matches the width of the audit_logs.actor column.
const MaxUsernameLength = 120

// Actor identifies who issued a request.
type Actor struct {
	Username  string
	IPAddress string
	UserAgent string
}

// NewActor trims username and cuts it to MaxUsernameLength bytes.
func NewActor(username, ip, userAgent string) Actor {
	username = strings.TrimSpace(username)
	if len(username) > MaxUsernameLength {
		username = strings.ToValidUTF8(username[:MaxUsernameLength], "")
	}
	return Actor{Username: username, IPAddress: ip, UserAgent: userAgent}
}

type contextKey struct{}

func WithActor(ctx context.Context, actor Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, contextKey{}, actor)
}

// FromContext reports the actor attached by WithActor, if any.
func FromContext(ctx context.Context) (actor Actor, ok bool) {
	if ctx != nil {
		actor, ok = ctx.Value(contextKey{}).(Actor)
	}
	return actor, ok
}
