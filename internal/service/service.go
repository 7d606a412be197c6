package service

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/funnelkit/wallet-service/internal/mapper"
	"github.com/funnelkit/wallet-service/internal/models"
	"github.com/funnelkit/wallet-service/internal/passkit"
)

// Service implements the pass lifecycle use cases: generation, device
// registration, update polling and revocation.
type Service struct {
	funnels   FunnelReader
	instances InstanceRepository
	updates   UpdateRepository
	builder   PassGenerator
	pusher    Pusher
	clock     Clock

	passTypeID  string
	appHost     string
	mapOpts     mapper.Options
	assets      map[string][]byte
	maxLifetime time.Duration
}

// Deps bundles the constructor wiring.
type Deps struct {
	Funnels   FunnelReader
	Instances InstanceRepository
	Updates   UpdateRepository
	Builder   PassGenerator
	Pusher    Pusher
	Clock     Clock

	PassTypeID  string
	AppHost     string
	MapOptions  mapper.Options
	Assets      map[string][]byte
	MaxLifetime time.Duration
}

func New(d Deps) *Service {
	if d.Pusher == nil {
		d.Pusher = NoPusher{}
	}
	if d.Clock == nil {
		d.Clock = RealClock{}
	}
	return &Service{
		funnels:     d.Funnels,
		instances:   d.Instances,
		updates:     d.Updates,
		builder:     d.Builder,
		pusher:      d.Pusher,
		clock:       d.Clock,
		passTypeID:  d.PassTypeID,
		appHost:     d.AppHost,
		mapOpts:     d.MapOptions,
		assets:      d.Assets,
		maxLifetime: d.MaxLifetime,
	}
}

// GenerateOutput is the result of a pass generation.
type GenerateOutput struct {
	SerialNumber string
	PassURL      string
	Archive      []byte
}

// GeneratePass produces a signed .pkpass for the funnel and records the
// installation in the registry. Re-generation for the same (funnel,
// device) pair reuses the existing serial and token.
func (s *Service) GeneratePass(ctx context.Context, funnelID, deviceLibraryID string) (GenerateOutput, error) {
	f, b, cust, err := s.loadFunnel(ctx, funnelID)
	if err != nil {
		return GenerateOutput{}, err
	}
	content := s.mapContent(f, b, cust)
	snapshot, err := json.Marshal(content)
	if err != nil {
		return GenerateOutput{}, err
	}

	token, err := passkit.NewAuthenticationToken()
	if err != nil {
		return GenerateOutput{}, err
	}
	inst, err := s.instances.UpsertInstance(ctx, PassInstance{
		ID:                  uuid.New().String(),
		SerialNumber:        passkit.NewSerialNumber(),
		AuthenticationToken: token,
		FunnelID:            f.ID,
		BusinessID:          b.ID,
		DeviceLibraryID:     deviceLibraryID,
		Status:              models.StatusActive,
		ContentSnapshot:     snapshot,
	})
	if err != nil {
		return GenerateOutput{}, err
	}
	if inst.Status != models.StatusActive {
		return GenerateOutput{}, fmt.Errorf("%w: pass is %s", ErrConflict, inst.Status)
	}

	res, err := s.builder.Generate(passkit.Request{
		SerialNumber:        inst.SerialNumber,
		AuthenticationToken: inst.AuthenticationToken,
		Content:             content,
		Assets:              s.assetsFor(cust),
	})
	if err != nil {
		return GenerateOutput{}, err
	}

	if err := s.instances.SaveSnapshot(ctx, inst.ID, snapshot); err != nil {
		return GenerateOutput{}, err
	}
	if err := s.instances.RecordDownload(ctx, inst.SerialNumber); err != nil {
		return GenerateOutput{}, err
	}
	return GenerateOutput{
		SerialNumber: inst.SerialNumber,
		PassURL:      fmt.Sprintf("https://%s/api/v1/passes/%s/%s", s.appHost, s.passTypeID, inst.SerialNumber),
		Archive:      res.Archive,
	}, nil
}

// LatestPass serves Apple's authenticated re-download of the newest pass
// for a serial. Content is recomputed from the current funnel state.
func (s *Service) LatestPass(ctx context.Context, passTypeID, serial, authToken string) ([]byte, error) {
	inst, err := s.authorized(ctx, passTypeID, serial, authToken)
	if err != nil {
		return nil, err
	}
	if err := s.expireIfStale(ctx, &inst); err != nil {
		return nil, err
	}
	if inst.Status != models.StatusActive {
		return nil, fmt.Errorf("%w: pass is %s", ErrConflict, inst.Status)
	}

	f, b, cust, err := s.loadFunnel(ctx, inst.FunnelID)
	if err != nil {
		return nil, err
	}
	content := s.mapContent(f, b, cust)
	res, err := s.builder.Generate(passkit.Request{
		SerialNumber:        inst.SerialNumber,
		AuthenticationToken: inst.AuthenticationToken,
		Content:             content,
		Assets:              s.assetsFor(cust),
	})
	if err != nil {
		return nil, err
	}
	snapshot, _ := json.Marshal(content)
	if err := s.instances.SaveSnapshot(ctx, inst.ID, snapshot); err != nil {
		return nil, err
	}
	if err := s.instances.RecordDownload(ctx, inst.SerialNumber); err != nil {
		return nil, err
	}
	return res.Archive, nil
}

// RegisterDevice attaches a device library identifier and push token to
// the instance. Repeat registrations update the existing row.
func (s *Service) RegisterDevice(ctx context.Context, deviceLibraryID, passTypeID, serial, authToken, pushToken string) error {
	if _, err := s.authorized(ctx, passTypeID, serial, authToken); err != nil {
		return err
	}
	return s.instances.RegisterDevice(ctx, serial, deviceLibraryID, pushToken)
}

// UnregisterDevice drops the device's push registration; the instance row
// itself is never deleted.
func (s *Service) UnregisterDevice(ctx context.Context, deviceLibraryID, passTypeID, serial, authToken string) error {
	if _, err := s.authorized(ctx, passTypeID, serial, authToken); err != nil {
		return err
	}
	return s.instances.UnregisterDevice(ctx, serial, deviceLibraryID)
}

// SerialsUpdatedSince lists serials whose update tag moved past the
// device's last-seen tag, plus the new tag to hand back.
func (s *Service) SerialsUpdatedSince(ctx context.Context, deviceLibraryID, passTypeID, sinceTag string) ([]string, string, error) {
	if passTypeID != s.passTypeID {
		return nil, "", ErrNotFound
	}
	var since int64
	if sinceTag != "" {
		var err error
		if since, err = strconv.ParseInt(sinceTag, 10, 64); err != nil {
			since = 0
		}
	}
	serials, maxTag, err := s.instances.SerialsUpdatedSince(ctx, deviceLibraryID, since)
	if err != nil {
		return nil, "", err
	}
	return serials, strconv.FormatInt(maxTag, 10), nil
}

// RevokePass transitions an active pass to revoked. One-directional.
func (s *Service) RevokePass(ctx context.Context, serial string) error {
	return s.instances.SetStatus(ctx, serial, models.StatusRevoked)
}

func (s *Service) authorized(ctx context.Context, passTypeID, serial, authToken string) (PassInstance, error) {
	if passTypeID != s.passTypeID {
		return PassInstance{}, ErrNotFound
	}
	inst, err := s.instances.FindBySerial(ctx, serial)
	if err != nil {
		return PassInstance{}, err
	}
	if subtle.ConstantTimeCompare([]byte(inst.AuthenticationToken), []byte(authToken)) != 1 {
		return PassInstance{}, ErrUnauthorized
	}
	return inst, nil
}

func (s *Service) loadFunnel(ctx context.Context, funnelID string) (models.Funnel, models.Business, models.PassCustomization, error) {
	f, err := s.funnels.GetFunnel(ctx, funnelID)
	if err != nil {
		return models.Funnel{}, models.Business{}, models.PassCustomization{}, err
	}
	b, err := s.funnels.GetBusiness(ctx, f.BusinessID)
	if err != nil {
		return models.Funnel{}, models.Business{}, models.PassCustomization{}, err
	}
	enabled, cust, err := s.funnels.GetPassConfig(ctx, funnelID)
	if err != nil {
		return models.Funnel{}, models.Business{}, models.PassCustomization{}, err
	}
	if !enabled {
		return models.Funnel{}, models.Business{}, models.PassCustomization{}, ErrDisabled
	}
	return f, b, cust, nil
}

func (s *Service) mapContent(f models.Funnel, b models.Business, cust models.PassCustomization) models.PassContent {
	content := mapper.MapFunnel(f, b, s.mapOpts)
	if cust.BackgroundColor != "" {
		content.BackgroundColor = cust.BackgroundColor
	}
	if cust.ForegroundColor != "" {
		content.ForegroundColor = cust.ForegroundColor
	}
	if cust.LabelColor != "" {
		content.LabelColor = cust.LabelColor
	}
	return content
}

// assetsFor selects the required icons plus any optional logo/strip the
// customization names.
func (s *Service) assetsFor(cust models.PassCustomization) map[string][]byte {
	out := make(map[string][]byte, len(passkit.RequiredIcons)+2)
	for _, name := range passkit.RequiredIcons {
		if b, ok := s.assets[name]; ok {
			out[name] = b
		}
	}
	if cust.LogoAsset != "" {
		if b, ok := s.assets[cust.LogoAsset]; ok {
			out["logo.png"] = b
		}
	}
	if cust.StripAsset != "" {
		if b, ok := s.assets[cust.StripAsset]; ok {
			out["strip.png"] = b
		}
	}
	return out
}

// expireIfStale enforces the lifetime policy lazily on access.
func (s *Service) expireIfStale(ctx context.Context, inst *PassInstance) error {
	if s.maxLifetime <= 0 || inst.Status != models.StatusActive {
		return nil
	}
	if inst.CreatedAt.IsZero() || s.clock.Now().Before(inst.CreatedAt.Add(s.maxLifetime)) {
		return nil
	}
	if err := s.instances.SetStatus(ctx, inst.SerialNumber, models.StatusExpired); err != nil {
		return err
	}
	inst.Status = models.StatusExpired
	return nil
}
