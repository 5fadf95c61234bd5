// Package secrets resolves runtime credentials either from environment
// variables (development) or from Azure Key Vault (deployed environments).
package secrets

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// SecretSource names where secrets are resolved from.
type SecretSource string

const (
	SourceEnvironment SecretSource = "environment"
	SourceVault       SecretSource = "vault"
	// SourceAuto picks environment in development and vault everywhere else.
	SourceAuto SecretSource = "auto"
)

// Provider resolves secrets from the configured source.
type Provider struct {
	source SecretSource
	vault  *VaultClient
	logger *zap.Logger
}

type ProviderConfig struct {
	Source       SecretSource
	VaultName    string
	Environment  string
	CacheEnabled bool
	CacheTTL     time.Duration
}

func NewProvider(cfg *ProviderConfig, logger *zap.Logger) (*Provider, error) {
	source := cfg.Source
	if source == SourceAuto {
		switch cfg.Environment {
		case "development", "local", "":
			source = SourceEnvironment
		default:
			source = SourceVault
		}
		logger.Info("resolved secret source",
			zap.String("source", string(source)),
			zap.String("environment", cfg.Environment))
	}

	p := &Provider{source: source, logger: logger}

	if source == SourceVault {
		if cfg.VaultName == "" {
			return nil, fmt.Errorf("vault name required when using vault secret source")
		}
		vault, err := NewVaultClient(&VaultConfig{
			VaultName:    cfg.VaultName,
			CacheEnabled: cfg.CacheEnabled,
			CacheTTL:     cfg.CacheTTL,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize vault client: %w", err)
		}
		p.vault = vault
	}

	return p, nil
}

// GetSecret resolves one secret. For the vault source the name is the Key
// Vault secret name; for the environment source it is the variable name.
func (p *Provider) GetSecret(ctx context.Context, name string) (string, error) {
	switch p.source {
	case SourceEnvironment:
		value := os.Getenv(name)
		if value == "" {
			return "", fmt.Errorf("environment variable '%s' not set", name)
		}
		return value, nil
	case SourceVault:
		if p.vault == nil {
			return "", fmt.Errorf("vault client not initialized")
		}
		return p.vault.GetSecret(ctx, name)
	default:
		return "", fmt.Errorf("unknown secret source: %s", p.source)
	}
}

// GetSecretOrEnv resolves a secret, letting an explicitly set environment
// variable override the configured source.
func (p *Provider) GetSecretOrEnv(ctx context.Context, name, envName string) (string, error) {
	if envValue := os.Getenv(envName); envValue != "" {
		p.logger.Debug("using environment variable override", zap.String("env_name", envName))
		return envValue, nil
	}
	return p.GetSecret(ctx, name)
}

// IsVaultEnabled reports whether secrets come from Key Vault.
func (p *Provider) IsVaultEnabled() bool {
	return p.source == SourceVault
}
