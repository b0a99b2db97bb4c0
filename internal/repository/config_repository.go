package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campushub/hotspot-portal-api/internal/models"
)

// ConfigRepository persists the singleton hotspot configuration.
type ConfigRepository struct {
	db *sqlx.DB
}

// NewConfigRepository constructs the repository.
func NewConfigRepository(db *sqlx.DB) *ConfigRepository {
	return &ConfigRepository{db: db}
}

// Get returns the singleton row, creating it with defaults when absent.
// The fixed primary key plus ON CONFLICT DO NOTHING guarantees N
// concurrent first reads persist exactly one row.
func (r *ConfigRepository) Get(ctx context.Context) (*models.HotspotConfig, error) {
	const seed = `INSERT INTO hotspot_config (id, ssid, passphrase, is_active)
VALUES ($1, $2, $3, TRUE)
ON CONFLICT (id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, seed, models.HotspotConfigID, models.DefaultSSID, models.DefaultPassphrase); err != nil {
		return nil, fmt.Errorf("seed hotspot config: %w", err)
	}

	const query = `SELECT id, ssid, passphrase, is_active FROM hotspot_config WHERE id = $1`
	var cfg models.HotspotConfig
	if err := r.db.GetContext(ctx, &cfg, query, models.HotspotConfigID); err != nil {
		return nil, fmt.Errorf("get hotspot config: %w", err)
	}
	return &cfg, nil
}

// Update upserts the singleton row with new values.
func (r *ConfigRepository) Update(ctx context.Context, cfg *models.HotspotConfig) error {
	cfg.ID = models.HotspotConfigID
	const query = `INSERT INTO hotspot_config (id, ssid, passphrase, is_active)
VALUES (:id, :ssid, :passphrase, :is_active)
ON CONFLICT (id)
DO UPDATE SET ssid = EXCLUDED.ssid, passphrase = EXCLUDED.passphrase, is_active = EXCLUDED.is_active`
	if _, err := r.db.NamedExecContext(ctx, query, cfg); err != nil {
		return fmt.Errorf("update hotspot config: %w", err)
	}
	return nil
}
