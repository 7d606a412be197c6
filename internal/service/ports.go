package service

import (
	"context"
	"time"

	"github.com/funnelkit/wallet-service/internal/models"
	"github.com/funnelkit/wallet-service/internal/passkit"
)

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// PassGenerator is the builder seam; production wires passkit.Builder.
type PassGenerator interface {
	Generate(req passkit.Request) (passkit.Result, error)
}

// Pusher delivers an update notification for one push token. Status and
// body are recorded verbatim in the audit log.
type Pusher interface {
	Push(ctx context.Context, pushToken string) (status int, body string, err error)
}

// PassInstance is one device+funnel pass installation (write model).
type PassInstance struct {
	ID                  string
	SerialNumber        string
	AuthenticationToken string
	FunnelID            string
	BusinessID          string
	DeviceLibraryID     string
	PushToken           string
	Status              models.PassStatus
	DownloadCount       int64
	FirstDownloadedAt   *time.Time
	LastDownloadedAt    *time.Time
	ContentSnapshot     []byte
	UpdateTag           int64
	CreatedAt           time.Time
}

// UpdateRecord is one append-only audit row in wallet_pass_updates.
type UpdateRecord struct {
	ID               string
	PassInstanceID   string
	UpdateType       string
	OldContent       []byte
	NewContent       []byte
	NotificationSent bool
	PushStatus       int
	PushResponse     string
}

// InstanceRepository is the pass instance registry port. Upserts key on
// (funnel_id, device_library_identifier); counters increment SQL-side.
type InstanceRepository interface {
	// UpsertInstance creates the row or returns the existing one for the
	// same (funnel, device) pair.
	UpsertInstance(ctx context.Context, inst PassInstance) (PassInstance, error)
	FindBySerial(ctx context.Context, serial string) (PassInstance, error)
	ListByFunnel(ctx context.Context, funnelID string) ([]PassInstance, error)
	RecordDownload(ctx context.Context, serial string) error
	RegisterDevice(ctx context.Context, serial, deviceLibraryID, pushToken string) error
	UnregisterDevice(ctx context.Context, serial, deviceLibraryID string) error
	// SetStatus transitions active -> expired|revoked; never back.
	SetStatus(ctx context.Context, serial string, st models.PassStatus) error
	// SaveSnapshot refreshes the stored content snapshot without touching
	// the update tag (used after a plain re-download).
	SaveSnapshot(ctx context.Context, id string, snapshot []byte) error
	// BumpUpdateTag increments the tag and stores the new snapshot.
	BumpUpdateTag(ctx context.Context, id string, snapshot []byte) (int64, error)
	SerialsUpdatedSince(ctx context.Context, deviceLibraryID string, sinceTag int64) (serials []string, maxTag int64, err error)
}

// UpdateRepository appends to the audit log.
type UpdateRepository interface {
	InsertUpdateRecord(ctx context.Context, rec UpdateRecord) error
}

// FunnelReader reads the external collaborators' records. This service
// never writes them.
type FunnelReader interface {
	GetFunnel(ctx context.Context, id string) (models.Funnel, error)
	GetBusiness(ctx context.Context, id string) (models.Business, error)
	// GetPassConfig reports whether passes are enabled for the funnel and
	// any per-funnel customization. A missing row means enabled, default.
	GetPassConfig(ctx context.Context, funnelID string) (bool, models.PassCustomization, error)
}
