package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamal-hamza/stegshare-cli/internal/core/domain"
	"github.com/kamal-hamza/stegshare-cli/pkg/vault"
)

func testVault(t *testing.T) *vault.Vault {
	t.Helper()
	root := t.TempDir()
	v := vault.NewAt(root, filepath.Join(root, "config.yaml"))
	require.NoError(t, v.Initialize())
	return v
}

func TestFileSessionRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	v := testVault(t)
	repo := NewFileSessionRepository(v)

	empty, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.False(t, empty.IsAuthenticated())

	signedIn := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, &domain.Session{Credential: "tok", Identity: "alice", SignedInAt: signedIn}))

	info, err := os.Stat(v.SessionFile())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := NewFileSessionRepository(v).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", loaded.Credential)
	assert.Equal(t, "alice", loaded.Identity)
	assert.True(t, loaded.SignedInAt.Equal(signedIn))

	require.NoError(t, repo.Clear(ctx))
	require.NoError(t, repo.Clear(ctx), "clearing twice is fine")
	_, err = os.Stat(v.SessionFile())
	assert.True(t, os.IsNotExist(err))
}

func TestFileSessionRepository_Corrupt(t *testing.T) {
	v := testVault(t)
	require.NoError(t, os.WriteFile(v.SessionFile(), []byte("credential: [oops"), 0600))

	_, err := NewFileSessionRepository(v).Load(context.Background())
	assert.Error(t, err)
}

func TestMemorySessionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository()

	require.NoError(t, repo.Save(ctx, &domain.Session{Credential: "x", Identity: "bob"}))
	s, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bob", s.Identity)

	require.NoError(t, repo.Clear(ctx))
	s, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.False(t, s.IsAuthenticated())
}

func TestFileDraftRepository(t *testing.T) {
	ctx := context.Background()
	v := testVault(t)
	repo := NewFileDraftRepository(v)

	_, err := repo.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrNoDraft)

	preview := v.GetPreviewPath("cat.png")
	require.NoError(t, os.WriteFile(preview, []byte("thumb"), 0644))

	candidate := domain.NewUploadCandidate("/photos/cat.png", []byte("bytes"), "hello")
	candidate.PreviewPath = preview
	require.NoError(t, repo.Save(ctx, candidate))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "cat.png", loaded.Filename)
	assert.Equal(t, "hello", loaded.Caption)
	assert.Empty(t, loaded.Image, "image bytes are not persisted")

	require.NoError(t, repo.Reset(ctx))
	_, err = repo.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrNoDraft)
	_, err = os.Stat(preview)
	assert.True(t, os.IsNotExist(err), "preview handle destroyed on reset")
}

func TestFileDraftRepository_ReplaceDropsOldPreview(t *testing.T) {
	ctx := context.Background()
	v := testVault(t)
	repo := NewFileDraftRepository(v)

	first := v.GetPreviewPath("a.png")
	require.NoError(t, os.WriteFile(first, []byte("a"), 0644))
	a := domain.NewUploadCandidate("/p/a.png", []byte{1}, "a")
	a.PreviewPath = first
	require.NoError(t, repo.Save(ctx, a))

	b := domain.NewUploadCandidate("/p/b.png", []byte{1}, "b")
	require.NoError(t, repo.Save(ctx, b))

	_, err := os.Stat(first)
	assert.True(t, os.IsNotExist(err))
}
