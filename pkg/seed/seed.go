// Package seed loads payment gateway registry entries from YAML.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/chris/digital-wallet/pkg/logging"
	"github.com/chris/digital-wallet/pkg/models"
	"github.com/chris/digital-wallet/pkg/storage"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Gateway is one registry entry as written in the seed file. Credential values
// may reference environment variables as ${NAME}.
type Gateway struct {
	Code              string            `yaml:"code"`
	Name              string            `yaml:"name"`
	Description       string            `yaml:"description"`
	BaseURL           string            `yaml:"base_url"`
	SupportsRecurring bool              `yaml:"supports_recurring"`
	IsActive          *bool             `yaml:"is_active"`
	Credentials       map[string]string `yaml:"credentials"`
	WebhookURLs       map[string]string `yaml:"webhook_urls"`
}

type file struct {
	Gateways []Gateway `yaml:"gateways"`
}

// Load decodes a seed document into registry entries.
func Load(r io.Reader) ([]models.PaymentGateway, error) {
	var doc file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode gateway seed: %w", err)
	}

	seen := make(map[string]bool, len(doc.Gateways))
	out := make([]models.PaymentGateway, 0, len(doc.Gateways))
	for i, g := range doc.Gateways {
		if g.Code == "" || g.Name == "" || g.BaseURL == "" {
			return nil, fmt.Errorf("gateway #%d: code, name and base_url are required", i+1)
		}
		if seen[g.Code] {
			return nil, fmt.Errorf("gateway %s: duplicate code", g.Code)
		}
		seen[g.Code] = true

		entry, err := g.toModel()
		if err != nil {
			return nil, fmt.Errorf("gateway %s: %w", g.Code, err)
		}
		out = append(out, entry)
	}
	return out, nil
}

// LoadFile reads and decodes the seed file at path.
func LoadFile(path string) ([]models.PaymentGateway, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open gateway seed: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func (g Gateway) toModel() (models.PaymentGateway, error) {
	creds := make(map[string]string, len(g.Credentials))
	for k, v := range g.Credentials {
		creds[k] = os.ExpandEnv(v)
	}
	credJSON, err := json.Marshal(creds)
	if err != nil {
		return models.PaymentGateway{}, err
	}

	entry := models.PaymentGateway{
		Code:              g.Code,
		Name:              g.Name,
		Description:       g.Description,
		BaseURL:           g.BaseURL,
		Credentials:       credJSON,
		SupportsRecurring: g.SupportsRecurring,
		IsActive:          g.IsActive == nil || *g.IsActive,
	}
	if len(g.WebhookURLs) > 0 {
		if entry.WebhookURLs, err = json.Marshal(g.WebhookURLs); err != nil {
			return models.PaymentGateway{}, err
		}
	}
	return entry, nil
}

// Apply upserts every entry and returns how many were written.
func Apply(ctx context.Context, store storage.GatewayStore, gateways []models.PaymentGateway, logger *logging.Logger) (int, error) {
	logger = logging.OrGlobal(logger).Named("seed")
	for i := range gateways {
		if err := store.UpsertGateway(ctx, &gateways[i]); err != nil {
			return i, fmt.Errorf("failed to upsert gateway %s: %w", gateways[i].Code, err)
		}
		logger.Info("gateway seeded",
			zap.String("code", gateways[i].Code),
			zap.Bool("active", gateways[i].IsActive),
		)
	}
	return len(gateways), nil
}
