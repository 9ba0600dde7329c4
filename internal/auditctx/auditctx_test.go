package auditctx

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestActorRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	require.False(t, ok)

	//nolint:staticcheck // nil parent falls back to Background
	ctx := WithActor(nil, Actor{Username: "alice", IPAddress: "10.0.0.1"})
	actor, ok := FromContext(ctx)
	require.True(t, ok)
	require.Equal(t, "alice", actor.Username)
	require.Equal(t, "10.0.0.1", actor.IPAddress)

	_, ok = FromContext(nil) //nolint:staticcheck
	require.False(t, ok)
}

func TestNewActorBoundsUsername(t *testing.T) {
	require.Equal(t, "bob", NewActor("  bob\t", "", "").Username)

	long := NewActor(strings.Repeat("a", MaxUsernameLength-1)+"é", "10.0.0.2", "curl/8")
	require.Len(t, long.Username, MaxUsernameLength-1)
	require.Equal(t, "10.0.0.2", long.IPAddress)
	require.Equal(t, "curl/8", long.UserAgent)
}
