package service

import (
	"context"
	"encoding/json"
	"log"
	"reflect"

	"github.com/google/uuid"

	"github.com/funnelkit/wallet-service/internal/models"
)

// UpdateTypeContentChange is the only update type emitted today; the
// audit column stays free text for forward compatibility.
const UpdateTypeContentChange = "content_change"

// DispatchResult reports one dispatch decision.
type DispatchResult struct {
	Updated bool
	Record  UpdateRecord
}

// DispatchUpdateIfNeeded recomputes the instance's pass content, diffs it
// against the stored snapshot and, only when something changed, bumps the
// update tag, attempts a push, and appends an audit record. Push failures
// are recorded, never retried here; the next content change retriggers.
func (s *Service) DispatchUpdateIfNeeded(ctx context.Context, f models.Funnel, b models.Business, inst PassInstance) (DispatchResult, error) {
	_, cust, err := s.passConfigFor(ctx, f.ID)
	if err != nil {
		return DispatchResult{}, err
	}
	newContent := s.mapContent(f, b, cust)
	if !contentChanged(inst.ContentSnapshot, newContent) {
		return DispatchResult{}, nil
	}
	newJSON, err := json.Marshal(newContent)
	if err != nil {
		return DispatchResult{}, err
	}

	if _, err := s.instances.BumpUpdateTag(ctx, inst.ID, newJSON); err != nil {
		return DispatchResult{}, err
	}

	rec := UpdateRecord{
		ID:             uuid.New().String(),
		PassInstanceID: inst.ID,
		UpdateType:     UpdateTypeContentChange,
		OldContent:     inst.ContentSnapshot,
		NewContent:     newJSON,
	}
	if inst.PushToken != "" {
		status, body, pushErr := s.pusher.Push(ctx, inst.PushToken)
		rec.PushStatus = status
		rec.PushResponse = body
		if pushErr != nil {
			rec.PushResponse = pushErr.Error()
			log.Printf("dispatch: push failed serial=%s: %v", inst.SerialNumber, pushErr)
		} else {
			rec.NotificationSent = status >= 200 && status < 300
		}
	}
	if err := s.updates.InsertUpdateRecord(ctx, rec); err != nil {
		return DispatchResult{}, err
	}
	return DispatchResult{Updated: true, Record: rec}, nil
}

// DispatchFunnelUpdates runs the dispatcher over every instance of a
// funnel after its content changed. Returns how many updates went out.
func (s *Service) DispatchFunnelUpdates(ctx context.Context, funnelID string) (int, error) {
	f, err := s.funnels.GetFunnel(ctx, funnelID)
	if err != nil {
		return 0, err
	}
	b, err := s.funnels.GetBusiness(ctx, f.BusinessID)
	if err != nil {
		return 0, err
	}
	instances, err := s.instances.ListByFunnel(ctx, funnelID)
	if err != nil {
		return 0, err
	}
	updated := 0
	for _, inst := range instances {
		if inst.Status != models.StatusActive {
			continue
		}
		res, err := s.DispatchUpdateIfNeeded(ctx, f, b, inst)
		if err != nil {
			return updated, err
		}
		if res.Updated {
			updated++
		}
	}
	return updated, nil
}

func (s *Service) passConfigFor(ctx context.Context, funnelID string) (bool, models.PassCustomization, error) {
	enabled, cust, err := s.funnels.GetPassConfig(ctx, funnelID)
	if err != nil {
		return false, models.PassCustomization{}, err
	}
	if !enabled {
		return false, models.PassCustomization{}, ErrDisabled
	}
	return enabled, cust, nil
}

// contentChanged compares structurally, not byte-wise: a re-marshal with
// identical values is not an update.
func contentChanged(snapshot []byte, next models.PassContent) bool {
	if len(snapshot) == 0 {
		return true
	}
	var prev models.PassContent
	if err := json.Unmarshal(snapshot, &prev); err != nil {
		return true
	}
	return !reflect.DeepEqual(prev, next)
}
