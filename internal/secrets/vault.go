package secrets

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"go.uber.org/zap"
)

const defaultCacheTTL = 5 * time.Minute

// VaultClient reads secrets from one Azure Key Vault, with an optional
// in-process cache so repeated lookups during startup hit the vault once.
type VaultClient struct {
	client       *azsecrets.Client
	logger       *zap.Logger
	cache        map[string]cacheEntry
	cacheTTL     time.Duration
	cacheEnabled bool
}

type cacheEntry struct {
	value     string
	expiresAt time.Time
}

type VaultConfig struct {
	VaultName    string
	CacheEnabled bool
	CacheTTL     time.Duration
}

// NewVaultClient authenticates with DefaultAzureCredential, which covers
// service principal env vars, managed identity and local az CLI logins.
func NewVaultClient(cfg *VaultConfig, logger *zap.Logger) (*VaultClient, error) {
	if cfg.VaultName == "" {
		return nil, fmt.Errorf("vault name is required")
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}

	vaultURL := fmt.Sprintf("https://%s.vault.azure.net/", cfg.VaultName)
	client, err := azsecrets.NewClient(vaultURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Key Vault client: %w", err)
	}

	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = defaultCacheTTL
	}

	logger.Info("Azure Key Vault client initialized", zap.String("vault_url", vaultURL))

	return &VaultClient{
		client:       client,
		logger:       logger,
		cache:        make(map[string]cacheEntry),
		cacheTTL:     ttl,
		cacheEnabled: cfg.CacheEnabled,
	}, nil
}

// GetSecret fetches the latest version of a secret.
func (v *VaultClient) GetSecret(ctx context.Context, name string) (string, error) {
	if v.cacheEnabled {
		if entry, ok := v.cache[name]; ok {
			if time.Now().Before(entry.expiresAt) {
				return entry.value, nil
			}
			delete(v.cache, name)
		}
	}

	resp, err := v.client.GetSecret(ctx, name, "", nil)
	if err != nil {
		v.logger.Error("failed to get secret from Key Vault",
			zap.String("secret_name", name),
			zap.Error(err))
		return "", fmt.Errorf("failed to get secret '%s': %w", name, err)
	}
	if resp.Value == nil {
		return "", fmt.Errorf("secret '%s' has no value", name)
	}

	value := *resp.Value
	if v.cacheEnabled {
		v.cache[name] = cacheEntry{value: value, expiresAt: time.Now().Add(v.cacheTTL)}
	}
	return value, nil
}
