package repo

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/funnelkit/wallet-service/internal/models"
	"github.com/funnelkit/wallet-service/internal/service"
)

// Read-only access to the funnel/business records owned by the external
// application. This service never writes these tables.

func (s *Store) GetFunnel(ctx context.Context, id string) (models.Funnel, error) {
	var f models.Funnel
	var kind string
	var content []byte
	err := s.pool.QueryRow(ctx, `SELECT id, business_id, name, type, status, content FROM `+tableFunnels+` WHERE id=$1`, id).
		Scan(&f.ID, &f.BusinessID, &f.Name, &kind, &f.Status, &content)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Funnel{}, service.ErrNotFound
	}
	if err != nil {
		return models.Funnel{}, err
	}
	f.Kind = models.FunnelKind(kind)
	if len(content) > 0 {
		if err := json.Unmarshal(content, &f.Content); err != nil {
			return models.Funnel{}, err
		}
	}
	return f, nil
}

func (s *Store) GetBusiness(ctx context.Context, id string) (models.Business, error) {
	var b models.Business
	var vcard []byte
	err := s.pool.QueryRow(ctx, `SELECT id, name, accent_color, vcard_data FROM `+tableBusinesses+` WHERE id=$1`, id).
		Scan(&b.ID, &b.Name, &b.AccentColor, &vcard)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Business{}, service.ErrNotFound
	}
	if err != nil {
		return models.Business{}, err
	}
	if len(vcard) > 0 {
		if err := json.Unmarshal(vcard, &b.VCard); err != nil {
			return models.Business{}, err
		}
	}
	return b, nil
}

// GetPassConfig reports pass enablement for a funnel. No row means
// enabled with default customization.
func (s *Store) GetPassConfig(ctx context.Context, funnelID string) (bool, models.PassCustomization, error) {
	var enabled bool
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT enabled, customization FROM `+tablePassConfigs+` WHERE funnel_id=$1`, funnelID).
		Scan(&enabled, &raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return true, models.PassCustomization{}, nil
	}
	if err != nil {
		return false, models.PassCustomization{}, err
	}
	var cust models.PassCustomization
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cust); err != nil {
			return false, models.PassCustomization{}, err
		}
	}
	return enabled, cust, nil
}
