// Package appid resolves the application identity (binary name, env prefix,
// config name) used by the CLI, the config loader and the version endpoint.
package appid

import (
	"context"
	"os"
	"strings"

	"github.com/fulmenhq/gofulmen/appidentity"

	appidentityassets "github.com/namelens/namesmith/internal/assets/appidentity"
)

const (
	BinaryName  = "namesmith"
	Vendor      = "namelens"
	EnvPrefix   = "NAMESMITH_"
	ConfigName  = "namesmith"
	Description = "Brandable name generation with live domain intelligence"
)

func init() {
	// Explicit identity overrides (FULMEN_APP_IDENTITY_PATH) stay authoritative.
	_ = appidentity.RegisterEmbeddedIdentityYAML(appidentityassets.YAML)
}

// Default returns the built-in identity.
func Default() *appidentity.Identity {
	return &appidentity.Identity{
		BinaryName:  BinaryName,
		Vendor:      Vendor,
		EnvPrefix:   EnvPrefix,
		ConfigName:  ConfigName,
		Description: Description,
	}
}

// Get loads the identity through gofulmen. When no identity document can be
// discovered and none was requested explicitly, Default is returned.
func Get(ctx context.Context) (*appidentity.Identity, error) {
	identity, err := appidentity.Get(ctx)
	if err == nil && identity != nil {
		return identity, nil
	}
	if strings.TrimSpace(os.Getenv(appidentity.EnvIdentityPath)) != "" {
		return nil, err
	}
	return Default(), nil
}

// EnvPrefixOf returns the identity env prefix with a trailing underscore.
func EnvPrefixOf(identity *appidentity.Identity) string {
	prefix := EnvPrefix
	if identity != nil && strings.TrimSpace(identity.EnvPrefix) != "" {
		prefix = identity.EnvPrefix
	}
	if !strings.HasSuffix(prefix, "_") {
		prefix += "_"
	}
	return prefix
}
