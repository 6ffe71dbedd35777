package repository_test

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/set-night/cookieai/internal/domain"
	"github.com/set-night/cookieai/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostgresProfiles(t *testing.T) *repository.PostgresProfiles {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := repository.OpenProfileDB(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return repository.NewPostgresProfiles(pool)
}

func TestPostgresProfiles_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newPostgresProfiles(t)
	want := sampleProfiles()

	require.NoError(t, store.Save(ctx, want))
	got, err := store.Load(ctx)
	require.NoError(t, err)

	wantJSON, _ := json.Marshal(want)
	gotJSON, _ := json.Marshal(got)
	assert.JSONEq(t, string(wantJSON), string(gotJSON))
	assert.Equal(t, []string{"фотографией", "увлекаюсь"}, got["100"].Topics.Words())
}

func TestPostgresProfiles_SaveDropsMissingUsers(t *testing.T) {
	ctx := context.Background()
	store := newPostgresProfiles(t)

	require.NoError(t, store.Save(ctx, sampleProfiles()))
	require.NoError(t, store.Save(ctx, map[string]*domain.UserProfile{"200": {InteractionCount: 2}}))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 2, got["200"].InteractionCount)
}

func TestOpenProfileDB_GivesUpWhenUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := repository.OpenProfileDB(ctx, "postgres://user:pw@127.0.0.1:1/cookie?sslmode=disable&connect_timeout=1")

	assert.Error(t, err)
}
