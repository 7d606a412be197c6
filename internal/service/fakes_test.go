package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/funnelkit/wallet-service/internal/models"
	"github.com/funnelkit/wallet-service/internal/passkit"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

// fakeInstances is an in-memory InstanceRepository mirroring the store's
// semantics: upsert keyed on (funnel, device), SQL-side counters, and
// one-directional status transitions.
type fakeInstances struct {
	mu      sync.Mutex
	rows    map[string]*PassInstance // by serial
	nextTag int64
	upserts int
}

func newFakeInstances() *fakeInstances {
	return &fakeInstances{rows: make(map[string]*PassInstance)}
}

func (r *fakeInstances) UpsertInstance(_ context.Context, inst PassInstance) (PassInstance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++
	for _, row := range r.rows {
		if row.FunnelID == inst.FunnelID && row.DeviceLibraryID == inst.DeviceLibraryID {
			return *row, nil
		}
	}
	inst.CreatedAt = time.Now()
	cp := inst
	r.rows[inst.SerialNumber] = &cp
	return inst, nil
}

func (r *fakeInstances) FindBySerial(_ context.Context, serial string) (PassInstance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[serial]
	if !ok {
		return PassInstance{}, ErrNotFound
	}
	return *row, nil
}

func (r *fakeInstances) ListByFunnel(_ context.Context, funnelID string) ([]PassInstance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []PassInstance
	for _, row := range r.rows {
		if row.FunnelID == funnelID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (r *fakeInstances) RecordDownload(_ context.Context, serial string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[serial]
	if !ok {
		return ErrNotFound
	}
	now := time.Now()
	row.DownloadCount++
	if row.FirstDownloadedAt == nil {
		row.FirstDownloadedAt = &now
	}
	row.LastDownloadedAt = &now
	return nil
}

func (r *fakeInstances) RegisterDevice(_ context.Context, serial, deviceLibraryID, pushToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[serial]
	if !ok {
		return ErrNotFound
	}
	if row.DeviceLibraryID != "" && row.DeviceLibraryID != deviceLibraryID {
		return ErrConflict
	}
	row.DeviceLibraryID = deviceLibraryID
	row.PushToken = pushToken
	return nil
}

func (r *fakeInstances) UnregisterDevice(_ context.Context, serial, deviceLibraryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[serial]
	if !ok || row.DeviceLibraryID != deviceLibraryID {
		return ErrNotFound
	}
	row.PushToken = ""
	return nil
}

func (r *fakeInstances) SetStatus(_ context.Context, serial string, st models.PassStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[serial]
	if !ok {
		return ErrNotFound
	}
	if row.Status != models.StatusActive {
		return ErrConflict
	}
	row.Status = st
	return nil
}

func (r *fakeInstances) SaveSnapshot(_ context.Context, id string, snapshot []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ID == id {
			row.ContentSnapshot = snapshot
			return nil
		}
	}
	return ErrNotFound
}

func (r *fakeInstances) BumpUpdateTag(_ context.Context, id string, snapshot []byte) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ID == id {
			r.nextTag++
			row.UpdateTag = r.nextTag
			row.ContentSnapshot = snapshot
			return row.UpdateTag, nil
		}
	}
	return 0, ErrNotFound
}

func (r *fakeInstances) SerialsUpdatedSince(_ context.Context, deviceLibraryID string, sinceTag int64) ([]string, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var serials []string
	var maxTag int64
	for _, row := range r.rows {
		if row.DeviceLibraryID != deviceLibraryID || row.UpdateTag <= sinceTag {
			continue
		}
		serials = append(serials, row.SerialNumber)
		if row.UpdateTag > maxTag {
			maxTag = row.UpdateTag
		}
	}
	return serials, maxTag, nil
}

type fakeUpdates struct {
	mu   sync.Mutex
	recs []UpdateRecord
}

func (u *fakeUpdates) InsertUpdateRecord(_ context.Context, rec UpdateRecord) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.recs = append(u.recs, rec)
	return nil
}

type fakeFunnels struct {
	funnels    map[string]models.Funnel
	businesses map[string]models.Business
	enabled    bool
	cust       models.PassCustomization
}

func (f *fakeFunnels) GetFunnel(_ context.Context, id string) (models.Funnel, error) {
	fn, ok := f.funnels[id]
	if !ok {
		return models.Funnel{}, ErrNotFound
	}
	return fn, nil
}

func (f *fakeFunnels) GetBusiness(_ context.Context, id string) (models.Business, error) {
	b, ok := f.businesses[id]
	if !ok {
		return models.Business{}, ErrNotFound
	}
	return b, nil
}

func (f *fakeFunnels) GetPassConfig(_ context.Context, _ string) (bool, models.PassCustomization, error) {
	return f.enabled, f.cust, nil
}

// fakeBuilder echoes the request identity back, like passkit.Builder does
// when serial and token are supplied.
type fakeBuilder struct {
	mu    sync.Mutex
	calls []passkit.Request
	err   error
}

func (b *fakeBuilder) Generate(req passkit.Request) (passkit.Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, req)
	if b.err != nil {
		return passkit.Result{}, b.err
	}
	return passkit.Result{
		SerialNumber:        req.SerialNumber,
		AuthenticationToken: req.AuthenticationToken,
		Archive:             []byte(fmt.Sprintf("pkpass:%s", req.SerialNumber)),
	}, nil
}

type fakePusher struct {
	mu     sync.Mutex
	tokens []string
	status int
	body   string
	err    error
}

func (p *fakePusher) Push(_ context.Context, token string) (int, string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tokens = append(p.tokens, token)
	return p.status, p.body, p.err
}
