package appid

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fulmenhq/gofulmen/appidentity"
	"github.com/stretchr/testify/require"
)

func resetIdentity(t *testing.T) {
	t.Helper()
	appidentity.Reset()
	t.Cleanup(func() { appidentity.Reset() })
}

func TestGet_DefaultOutsideRepo(t *testing.T) {
	resetIdentity(t)
	t.Setenv(appidentity.EnvIdentityPath, "")

	oldWD, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(oldWD) })
	require.NoError(t, os.Chdir(t.TempDir()))

	identity, err := Get(context.Background())
	require.NoError(t, err)
	require.NotNil(t, identity)
	require.NotEmpty(t, identity.BinaryName)
	require.NotEmpty(t, identity.EnvPrefix)
}

func TestGet_EnvVarRemainsAuthoritative(t *testing.T) {
	resetIdentity(t)

	missing := filepath.Join(t.TempDir(), "missing-app.yaml")
	t.Setenv(appidentity.EnvIdentityPath, missing)

	_, err := Get(context.Background())
	require.Error(t, err)

	var notFound *appidentity.NotFoundError
	require.True(t, errors.As(err, &notFound), "expected NotFoundError, got %T", err)
}

func TestDefault(t *testing.T) {
	identity := Default()
	require.Equal(t, "namesmith", identity.BinaryName)
	require.Equal(t, "NAMESMITH_", identity.EnvPrefix)
	require.Equal(t, "NAMESMITH_", EnvPrefixOf(identity))
	require.Equal(t, "X_", EnvPrefixOf(&appidentity.Identity{EnvPrefix: "X"}))
	require.Equal(t, "NAMESMITH_", EnvPrefixOf(nil))
}
