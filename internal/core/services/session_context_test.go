package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionContext_SetAndClear(t *testing.T) {
	f := newSignedOut(t)
	ctx := context.Background()

	_, ok := f.ctx.Credential()
	assert.False(t, ok)
	assert.Equal(t, "Anonymous", f.ctx.Identity())

	require.NoError(t, f.ctx.Set(ctx, "bob", "tok-b"))
	cred, ok := f.ctx.Credential()
	assert.True(t, ok)
	assert.Equal(t, "tok-b", cred)
	assert.Equal(t, "bob", f.store.Stored().Identity)
	assert.False(t, f.ctx.Snapshot().SignedInAt.IsZero())

	require.NoError(t, f.ctx.Clear(ctx))
	_, ok = f.ctx.Credential()
	assert.False(t, ok)
	assert.Nil(t, f.store.Stored())
	assert.Equal(t, 0, f.navigator.Redirects(), "logout does not redirect")
}

func TestSessionContext_ExpireIsAtomicAndOnce(t *testing.T) {
	f := newSignedIn(t)

	var wg sync.WaitGroup
	var mu sync.Mutex
	transitions := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if f.ctx.Expire(context.Background()) {
				mu.Lock()
				transitions++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, transitions)
	assert.Equal(t, 1, f.store.ClearCalls())
	assert.Equal(t, 1, f.navigator.Redirects())

	snap := f.ctx.Snapshot()
	assert.Empty(t, snap.Credential)
	assert.Empty(t, snap.Identity, "no partial clear")
}

func TestSessionContext_LoadsPersistedSession(t *testing.T) {
	f := newSignedIn(t)
	cred, ok := f.ctx.Credential()
	assert.True(t, ok)
	assert.Equal(t, "tok-123", cred)
	assert.Equal(t, "alice", f.ctx.Identity())
}

func TestInFlightGuard(t *testing.T) {
	g := NewInFlightGuard(true, time.Minute)

	assert.True(t, g.Acquire("upload", "a.png"))
	assert.False(t, g.Acquire("upload", "a.png"))
	assert.True(t, g.Acquire("upload", "b.png"))
	assert.True(t, g.Acquire("comment", "a.png"))
	assert.Equal(t, 3, g.Pending())

	g.Release("upload", "a.png")
	assert.True(t, g.Acquire("upload", "a.png"))
}

func TestInFlightGuard_DisabledAndNil(t *testing.T) {
	disabled := NewInFlightGuard(false, 0)
	assert.True(t, disabled.Acquire("upload", "a"))
	assert.True(t, disabled.Acquire("upload", "a"))
	assert.Equal(t, 0, disabled.Pending())

	var nilGuard *InFlightGuard
	assert.True(t, nilGuard.Acquire("upload", "a"))
	nilGuard.Release("upload", "a")
}

func TestInFlightGuard_Expires(t *testing.T) {
	g := NewInFlightGuard(true, 20*time.Millisecond)
	require.True(t, g.Acquire("upload", "a"))

	assert.Eventually(t, func() bool { return g.Acquire("upload", "a") }, time.Second, 10*time.Millisecond)
}
