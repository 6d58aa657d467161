package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/tankbattle/internal/dependencies/clock"
	"github.com/mcoot/tankbattle/internal/services/account"
	"github.com/mcoot/tankbattle/internal/storage"
	"github.com/mcoot/tankbattle/internal/storage/memory"
	"github.com/mcoot/tankbattle/internal/testutil"
)

// useStore points operator commands at store for the duration of the test
func useStore(t *testing.T, store storage.Storage) {
	t.Helper()
	original := openStorage
	openStorage = func(context.Context, *slog.Logger) (storage.Storage, error) {
		return store, nil
	}
	t.Cleanup(func() { openStorage = original })
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer

	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--token-file", t.TempDir() + "/token", "--output", "json"}, args...))

	err := cmd.Execute()
	return stdout.String(), err
}

func seedUser(t *testing.T, store storage.Storage, username string) {
	t.Helper()
	accounts := account.New(store, clock.New(), testutil.NopLogger()).WithHashCost(4)
	_, err := accounts.Create(context.Background(), username, username+"@example.com", "secret123")
	require.NoError(t, err)
}

func messageOf(t *testing.T, output string) string {
	t.Helper()
	var result map[string]string
	require.NoError(t, json.Unmarshal([]byte(output), &result), "output: %s", output)
	return result["message"]
}

func TestAdminPromoteAndDemote(t *testing.T) {
	store := memory.New()
	useStore(t, store)
	seedUser(t, store, "alice")

	output, err := runCLI(t, "admin", "promote", "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice is now an admin", messageOf(t, output))

	user, err := store.GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)

	output, err = runCLI(t, "admin", "promote", "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice is already an admin", messageOf(t, output))

	output, err = runCLI(t, "admin", "demote", "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice is no longer an admin", messageOf(t, output))

	output, err = runCLI(t, "admin", "demote", "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice is not an admin", messageOf(t, output))
}

func TestAdminPromoteUnknownUser(t *testing.T) {
	useStore(t, memory.New())

	_, err := runCLI(t, "admin", "promote", "nobody")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `promote "nobody"`)
}

func TestAdminPromoteRequiresUsername(t *testing.T) {
	useStore(t, memory.New())

	_, err := runCLI(t, "admin", "promote")
	assert.Error(t, err)
}

func TestAdminUsers(t *testing.T) {
	store := memory.New()
	useStore(t, store)
	seedUser(t, store, "alice")
	seedUser(t, store, "bob")

	_, err := runCLI(t, "admin", "promote", "bob")
	require.NoError(t, err)

	output, err := runCLI(t, "admin", "users")
	require.NoError(t, err)

	var users []User
	require.NoError(t, json.Unmarshal([]byte(output), &users), "output: %s", output)
	require.Len(t, users, 2)

	byName := make(map[string]User)
	for _, u := range users {
		byName[u.Username] = u
	}
	assert.False(t, byName["alice"].IsAdmin)
	assert.True(t, byName["bob"].IsAdmin)
	assert.Equal(t, "bob@example.com", byName["bob"].Email)
}

func TestDBInitRequiresDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STORAGE_TYPE", "")
	t.Setenv("TANKBATTLE_CONFIG", "")

	_, err := runCLI(t, "db", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no database configured")
}

func TestDBInit(t *testing.T) {
	url := os.Getenv("TANKBATTLE_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TANKBATTLE_TEST_DATABASE_URL not set")
	}

	output, err := runCLI(t, "db", "init", "--database-url", url)
	require.NoError(t, err)
	assert.Equal(t, "Database initialised", messageOf(t, output))

	// Running twice is harmless
	_, err = runCLI(t, "db", "init", "--database-url", url)
	require.NoError(t, err)
}

func TestTokenFileRoundTrip(t *testing.T) {
	c := DefaultConfig()
	c.Token = ""
	c.TokenFile = t.TempDir() + "/nested/token"

	require.NoError(t, c.SaveToken("abc"))

	loaded := DefaultConfig()
	loaded.Token = ""
	loaded.TokenFile = c.TokenFile
	require.NoError(t, loaded.LoadToken())
	assert.Equal(t, "abc", loaded.Token)

	require.NoError(t, loaded.ClearToken())
	assert.Empty(t, loaded.Token)
	_, err := os.Stat(c.TokenFile)
	assert.True(t, os.IsNotExist(err))

	// Clearing a missing file is fine
	assert.NoError(t, loaded.ClearToken())
}
