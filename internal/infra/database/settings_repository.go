package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/thelocaljewel/backend/internal/entity"
)

// SettingsRepository stores the two site configuration documents as JSONB
// rows keyed by doc_type. Updates are shallow document merges so a partial
// patch never clobbers unrelated keys.
type SettingsRepository struct {
	DB *sql.DB
}

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{DB: db}
}

const (
	siteSettingsDoc     = "site_settings"
	trackingSettingsDoc = "tracking_settings"
)

func (r *SettingsRepository) GetSite(ctx context.Context) (*entity.SiteSettings, error) {
	var s entity.SiteSettings
	if err := r.getDoc(ctx, siteSettingsDoc, &s, entity.DefaultSiteSettings()); err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateSite merges the provided keys into the site settings document.
func (r *SettingsRepository) UpdateSite(ctx context.Context, patch map[string]any) (*entity.SiteSettings, error) {
	if err := r.mergeDoc(ctx, siteSettingsDoc, patch, entity.DefaultSiteSettings()); err != nil {
		return nil, err
	}
	return r.GetSite(ctx)
}

func (r *SettingsRepository) GetTracking(ctx context.Context) (*entity.TrackingSettings, error) {
	var s entity.TrackingSettings
	if err := r.getDoc(ctx, trackingSettingsDoc, &s, entity.TrackingSettings{}); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepository) UpdateTracking(ctx context.Context, patch map[string]any) (*entity.TrackingSettings, error) {
	if err := r.mergeDoc(ctx, trackingSettingsDoc, patch, entity.TrackingSettings{}); err != nil {
		return nil, err
	}
	return r.GetTracking(ctx)
}

// getDoc reads a settings document, seeding it with defaults on first access.
func (r *SettingsRepository) getDoc(ctx context.Context, docType string, dst any, defaults any) error {
	var raw []byte
	err := r.DB.QueryRowContext(ctx,
		`SELECT doc FROM settings WHERE doc_type = $1`, docType).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		if err := r.seed(ctx, docType, defaults); err != nil {
			return err
		}
		err = r.DB.QueryRowContext(ctx,
			`SELECT doc FROM settings WHERE doc_type = $1`, docType).Scan(&raw)
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

func (r *SettingsRepository) seed(ctx context.Context, docType string, defaults any) error {
	doc, err := json.Marshal(defaults)
	if err != nil {
		return fmt.Errorf("encode default settings: %w", err)
	}
	// Lose gracefully if a concurrent request seeded first.
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO settings (doc_type, doc) VALUES ($1, $2) ON CONFLICT (doc_type) DO NOTHING`,
		docType, doc)
	return err
}

func (r *SettingsRepository) mergeDoc(ctx context.Context, docType string, patch map[string]any, defaults any) error {
	if err := r.seed(ctx, docType, defaults); err != nil {
		return err
	}
	if len(patch) == 0 {
		return nil
	}

	encoded, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("encode settings patch: %w", err)
	}
	_, err = r.DB.ExecContext(ctx,
		`UPDATE settings SET doc = doc || $2::jsonb WHERE doc_type = $1`,
		docType, encoded)
	return err
}
