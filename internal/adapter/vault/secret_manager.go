package vault

import (
	"context"
	"fmt"

	"github.com/hashicorp/vault/api"
	"go.uber.org/zap"

	"github.com/seu-repo/quest-board/pkg/config"
)

// Keys read from the KV v2 secret at VaultConfig.Path.
const (
	KeyDatabaseURL = "database_url"
	KeyJWTSecret   = "jwt_secret"
	KeySendGridKey = "sendgrid_api_key"
)

type SecretManager struct {
	client *api.Client
	path   string
	log    *zap.Logger
}

func NewSecretManager(cfg config.VaultConfig, log *zap.Logger) (*SecretManager, error) {
	vcfg := api.DefaultConfig()
	vcfg.Address = cfg.Address

	client, err := api.NewClient(vcfg)
	if err != nil {
		return nil, err
	}

	client.SetToken(cfg.Token)

	return &SecretManager{client: client, path: cfg.Path, log: log}, nil
}

// Secrets returns the string values stored at the configured path.
func (sm *SecretManager) Secrets(ctx context.Context) (map[string]string, error) {
	secret, err := sm.client.Logical().ReadWithContext(ctx, sm.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vault path %s: %w", sm.path, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("vault path %s is empty", sm.path)
	}

	// KV v2 nests the payload under "data"
	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		data = secret.Data
	}

	out := make(map[string]string, len(data))
	for k, v := range data {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out, nil
}

// Apply overrides the configured secrets with the values found in Vault.
// Missing keys leave the configuration untouched.
func (sm *SecretManager) Apply(ctx context.Context, cfg *config.Config) error {
	secrets, err := sm.Secrets(ctx)
	if err != nil {
		return err
	}

	applied := 0
	if v := secrets[KeyDatabaseURL]; v != "" {
		cfg.Database.URL = v
		applied++
	}
	if v := secrets[KeyJWTSecret]; v != "" {
		cfg.JWT.Secret = v
		applied++
	}
	if v := secrets[KeySendGridKey]; v != "" {
		cfg.Notification.Email.APIKey = v
		applied++
	}

	sm.log.Info("Loaded secrets from Vault", zap.String("path", sm.path), zap.Int("applied", applied))
	return nil
}
