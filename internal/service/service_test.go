package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funnelkit/wallet-service/internal/mapper"
	"github.com/funnelkit/wallet-service/internal/models"
)

type harness struct {
	svc       *Service
	funnels   *fakeFunnels
	instances *fakeInstances
	updates   *fakeUpdates
	builder   *fakeBuilder
	pusher    *fakePusher
	clock     *fakeClock
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		funnels: &fakeFunnels{
			funnels: map[string]models.Funnel{
				"fn-1": {
					ID:         "fn-1",
					BusinessID: "biz-1",
					Name:       "12 Harbor View",
					Kind:       models.KindPropertyListing,
					Status:     "active",
					Content: models.FunnelContent{
						State:   models.ListingForSale,
						Price:   "$1,250,000",
						Address: "12 Harbor View, Sydney",
					},
				},
			},
			businesses: map[string]models.Business{
				"biz-1": {ID: "biz-1", Name: "Harbor Realty"},
			},
			enabled: true,
		},
		instances: newFakeInstances(),
		updates:   &fakeUpdates{},
		builder:   &fakeBuilder{},
		pusher:    &fakePusher{status: 200},
		clock:     &fakeClock{now: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)},
	}
	h.svc = New(Deps{
		Funnels:     h.funnels,
		Instances:   h.instances,
		Updates:     h.updates,
		Builder:     h.builder,
		Pusher:      h.pusher,
		Clock:       h.clock,
		PassTypeID:  "pass.test.wallet",
		AppHost:     "passes.example.test",
		MapOptions:  mapper.Options{AppHost: "passes.example.test"},
		MaxLifetime: 365 * 24 * time.Hour,
	})
	return h
}

func TestGeneratePass(t *testing.T) {
	h := newHarness(t)
	out, err := h.svc.GeneratePass(context.Background(), "fn-1", "device-1")
	require.NoError(t, err)
	assert.NotEmpty(t, out.SerialNumber)
	assert.Equal(t, "https://passes.example.test/api/v1/passes/pass.test.wallet/"+out.SerialNumber, out.PassURL)
	assert.Equal(t, []byte("pkpass:"+out.SerialNumber), out.Archive)

	inst, err := h.instances.FindBySerial(context.Background(), out.SerialNumber)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, inst.Status)
	assert.Equal(t, int64(1), inst.DownloadCount)
	assert.NotEmpty(t, inst.ContentSnapshot)
	assert.Len(t, inst.AuthenticationToken, 40)
}

func TestGeneratePassReusesRowPerDevice(t *testing.T) {
	h := newHarness(t)
	first, err := h.svc.GeneratePass(context.Background(), "fn-1", "device-1")
	require.NoError(t, err)
	second, err := h.svc.GeneratePass(context.Background(), "fn-1", "device-1")
	require.NoError(t, err)

	assert.Equal(t, first.SerialNumber, second.SerialNumber)
	assert.Len(t, h.instances.rows, 1)
	inst, err := h.instances.FindBySerial(context.Background(), first.SerialNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(2), inst.DownloadCount)
}

func TestGeneratePassDistinctDevices(t *testing.T) {
	h := newHarness(t)
	a, err := h.svc.GeneratePass(context.Background(), "fn-1", "device-a")
	require.NoError(t, err)
	b, err := h.svc.GeneratePass(context.Background(), "fn-1", "device-b")
	require.NoError(t, err)
	assert.NotEqual(t, a.SerialNumber, b.SerialNumber)
	assert.Len(t, h.instances.rows, 2)
}

func TestGeneratePassUnknownFunnel(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.GeneratePass(context.Background(), "missing", "device-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGeneratePassDisabled(t *testing.T) {
	h := newHarness(t)
	h.funnels.enabled = false
	_, err := h.svc.GeneratePass(context.Background(), "fn-1", "device-1")
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestGeneratePassRevokedConflict(t *testing.T) {
	h := newHarness(t)
	out, err := h.svc.GeneratePass(context.Background(), "fn-1", "device-1")
	require.NoError(t, err)
	require.NoError(t, h.svc.RevokePass(context.Background(), out.SerialNumber))

	_, err = h.svc.GeneratePass(context.Background(), "fn-1", "device-1")
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "revoked")
}

func TestGeneratePassCustomizationOverridesColors(t *testing.T) {
	h := newHarness(t)
	h.funnels.cust = models.PassCustomization{BackgroundColor: "rgb(10,20,30)"}
	_, err := h.svc.GeneratePass(context.Background(), "fn-1", "device-1")
	require.NoError(t, err)
	require.Len(t, h.builder.calls, 1)
	assert.Equal(t, "rgb(10,20,30)", h.builder.calls[0].Content.BackgroundColor)
}

func TestRegisterDevice(t *testing.T) {
	h := newHarness(t)
	out, err := h.svc.GeneratePass(context.Background(), "fn-1", "device-1")
	require.NoError(t, err)
	inst, err := h.instances.FindBySerial(context.Background(), out.SerialNumber)
	require.NoError(t, err)

	err = h.svc.RegisterDevice(context.Background(), "device-1", "pass.test.wallet", out.SerialNumber, inst.AuthenticationToken, "push-token-1")
	require.NoError(t, err)
	got, err := h.instances.FindBySerial(context.Background(), out.SerialNumber)
	require.NoError(t, err)
	assert.Equal(t, "push-token-1", got.PushToken)

	// Wrong token and wrong pass type are rejected before touching the row.
	err = h.svc.RegisterDevice(context.Background(), "device-1", "pass.test.wallet", out.SerialNumber, "bogus", "x")
	assert.ErrorIs(t, err, ErrUnauthorized)
	err = h.svc.RegisterDevice(context.Background(), "device-1", "pass.other", out.SerialNumber, inst.AuthenticationToken, "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnregisterDevice(t *testing.T) {
	h := newHarness(t)
	out, err := h.svc.GeneratePass(context.Background(), "fn-1", "device-1")
	require.NoError(t, err)
	inst, err := h.instances.FindBySerial(context.Background(), out.SerialNumber)
	require.NoError(t, err)
	require.NoError(t, h.svc.RegisterDevice(context.Background(), "device-1", "pass.test.wallet", out.SerialNumber, inst.AuthenticationToken, "push-token-1"))

	require.NoError(t, h.svc.UnregisterDevice(context.Background(), "device-1", "pass.test.wallet", out.SerialNumber, inst.AuthenticationToken))
	got, err := h.instances.FindBySerial(context.Background(), out.SerialNumber)
	require.NoError(t, err)
	assert.Empty(t, got.PushToken)
}

func TestLatestPass(t *testing.T) {
	h := newHarness(t)
	out, err := h.svc.GeneratePass(context.Background(), "fn-1", "device-1")
	require.NoError(t, err)
	inst, err := h.instances.FindBySerial(context.Background(), out.SerialNumber)
	require.NoError(t, err)

	archive, err := h.svc.LatestPass(context.Background(), "pass.test.wallet", out.SerialNumber, inst.AuthenticationToken)
	require.NoError(t, err)
	assert.Equal(t, []byte("pkpass:"+out.SerialNumber), archive)

	got, err := h.instances.FindBySerial(context.Background(), out.SerialNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.DownloadCount)

	_, err = h.svc.LatestPass(context.Background(), "pass.test.wallet", out.SerialNumber, "bogus")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = h.svc.LatestPass(context.Background(), "pass.test.wallet", "no-such-serial", inst.AuthenticationToken)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLatestPassExpiresStale(t *testing.T) {
	h := newHarness(t)
	out, err := h.svc.GeneratePass(context.Background(), "fn-1", "device-1")
	require.NoError(t, err)
	inst, err := h.instances.FindBySerial(context.Background(), out.SerialNumber)
	require.NoError(t, err)

	h.clock.now = time.Now().Add(2 * 365 * 24 * time.Hour)
	_, err = h.svc.LatestPass(context.Background(), "pass.test.wallet", out.SerialNumber, inst.AuthenticationToken)
	require.ErrorIs(t, err, ErrConflict)

	got, err := h.instances.FindBySerial(context.Background(), out.SerialNumber)
	require.NoError(t, err)
	assert.Equal(t, models.StatusExpired, got.Status)
}

func TestRevokePass(t *testing.T) {
	h := newHarness(t)
	out, err := h.svc.GeneratePass(context.Background(), "fn-1", "device-1")
	require.NoError(t, err)

	require.NoError(t, h.svc.RevokePass(context.Background(), out.SerialNumber))
	got, err := h.instances.FindBySerial(context.Background(), out.SerialNumber)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRevoked, got.Status)

	// Status transitions are one-directional.
	assert.ErrorIs(t, h.svc.RevokePass(context.Background(), out.SerialNumber), ErrConflict)
	assert.ErrorIs(t, h.svc.RevokePass(context.Background(), "no-such-serial"), ErrNotFound)
}

func TestSerialsUpdatedSince(t *testing.T) {
	h := newHarness(t)
	out, err := h.svc.GeneratePass(context.Background(), "fn-1", "device-1")
	require.NoError(t, err)
	inst, err := h.instances.FindBySerial(context.Background(), out.SerialNumber)
	require.NoError(t, err)
	_, err = h.instances.BumpUpdateTag(context.Background(), inst.ID, inst.ContentSnapshot)
	require.NoError(t, err)

	serials, tag, err := h.svc.SerialsUpdatedSince(context.Background(), "device-1", "pass.test.wallet", "")
	require.NoError(t, err)
	assert.Equal(t, []string{out.SerialNumber}, serials)
	assert.Equal(t, "1", tag)

	serials, _, err = h.svc.SerialsUpdatedSince(context.Background(), "device-1", "pass.test.wallet", tag)
	require.NoError(t, err)
	assert.Empty(t, serials)

	_, _, err = h.svc.SerialsUpdatedSince(context.Background(), "device-1", "pass.other", "")
	assert.ErrorIs(t, err, ErrNotFound)
}
