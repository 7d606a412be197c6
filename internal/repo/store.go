package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/funnelkit/wallet-service/internal/models"
	"github.com/funnelkit/wallet-service/internal/service"
)

// Store is the Postgres adapter implementing the service ports.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store { return &Store{pool: pool} }

const instanceColumns = colID + `, ` + colSerialNumber + `, ` + colAuthToken + `, ` +
	colFunnelID + `, ` + colBusinessID + `, ` + colDeviceLibraryID + `, ` + colPushToken + `, ` +
	colStatus + `, ` + colDownloadCount + `, ` + colSnapshot + `, ` + colUpdateTag + `, ` + colCreatedAt

// UpsertInstance creates a registry row or returns the existing one for
// the same (funnel, device) pair. The no-op DO UPDATE makes RETURNING
// yield the surviving row under concurrent registration races.
func (s *Store) UpsertInstance(ctx context.Context, p service.PassInstance) (service.PassInstance, error) {
	row := s.pool.QueryRow(ctx, `INSERT INTO `+tableInstances+` (`+
		colID+`, `+colSerialNumber+`, `+colAuthToken+`, `+colFunnelID+`, `+colBusinessID+`, `+
		colDeviceLibraryID+`, `+colStatus+`, `+colSnapshot+`)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        ON CONFLICT (`+colFunnelID+`, `+colDeviceLibraryID+`) DO UPDATE SET `+colUpdatedAt+` = now()
        RETURNING `+instanceColumns,
		p.ID, p.SerialNumber, p.AuthenticationToken, p.FunnelID, p.BusinessID,
		p.DeviceLibraryID, string(models.StatusActive), p.ContentSnapshot,
	)
	return scanInstance(row)
}

func (s *Store) FindBySerial(ctx context.Context, serial string) (service.PassInstance, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+instanceColumns+` FROM `+tableInstances+` WHERE `+colSerialNumber+`=$1`, serial)
	inst, err := scanInstance(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return service.PassInstance{}, service.ErrNotFound
	}
	return inst, err
}

func (s *Store) ListByFunnel(ctx context.Context, funnelID string) ([]service.PassInstance, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+instanceColumns+` FROM `+tableInstances+` WHERE `+colFunnelID+`=$1`, funnelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []service.PassInstance
	for rows.Next() {
		inst, err := scanInstance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, rows.Err()
}

// RecordDownload bumps counters atomically in SQL; no read-modify-write.
func (s *Store) RecordDownload(ctx context.Context, serial string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE `+tableInstances+` SET `+
		colDownloadCount+` = `+colDownloadCount+` + 1, `+
		colFirstDownloaded+` = COALESCE(`+colFirstDownloaded+`, now()), `+
		colLastDownloaded+` = now(), `+colUpdatedAt+` = now()
        WHERE `+colSerialNumber+`=$1`, serial)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

func (s *Store) RegisterDevice(ctx context.Context, serial, deviceLibraryID, pushToken string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE `+tableInstances+` SET `+
		colDeviceLibraryID+`=$2, `+colPushToken+`=$3, `+colUpdatedAt+` = now()
        WHERE `+colSerialNumber+`=$1 AND (`+colDeviceLibraryID+`='' OR `+colDeviceLibraryID+`=$2)`,
		serial, deviceLibraryID, pushToken)
	if err != nil {
		// The device may already own a registered row for this funnel;
		// claiming the "" placeholder row then collides with it.
		if isUniqueViolation(err) {
			return service.ErrConflict
		}
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	var exists bool
	if err := s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM `+tableInstances+` WHERE `+colSerialNumber+`=$1)`, serial).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return service.ErrNotFound
	}
	return service.ErrConflict
}

func (s *Store) UnregisterDevice(ctx context.Context, serial, deviceLibraryID string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE `+tableInstances+` SET `+colPushToken+`=NULL, `+colUpdatedAt+` = now()
        WHERE `+colSerialNumber+`=$1 AND `+colDeviceLibraryID+`=$2`, serial, deviceLibraryID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

// SetStatus moves active passes to expired or revoked; transitions are
// one-directional, rows are never deleted.
func (s *Store) SetStatus(ctx context.Context, serial string, st models.PassStatus) error {
	tag, err := s.pool.Exec(ctx, `UPDATE `+tableInstances+` SET `+colStatus+`=$2, `+colUpdatedAt+` = now()
        WHERE `+colSerialNumber+`=$1 AND `+colStatus+`=$3`, serial, string(st), string(models.StatusActive))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	var exists bool
	if err := s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM `+tableInstances+` WHERE `+colSerialNumber+`=$1)`, serial).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return service.ErrNotFound
	}
	return service.ErrConflict
}

func (s *Store) SaveSnapshot(ctx context.Context, id string, snapshot []byte) error {
	_, err := s.pool.Exec(ctx, `UPDATE `+tableInstances+` SET `+colSnapshot+`=$2, `+colUpdatedAt+` = now()
        WHERE `+colID+`=$1`, id, snapshot)
	return err
}

func (s *Store) BumpUpdateTag(ctx context.Context, id string, snapshot []byte) (int64, error) {
	var next int64
	err := s.pool.QueryRow(ctx, `UPDATE `+tableInstances+` SET `+
		colUpdateTag+` = `+colUpdateTag+` + 1, `+colSnapshot+`=$2, `+colUpdatedAt+` = now()
        WHERE `+colID+`=$1 RETURNING `+colUpdateTag, id, snapshot).Scan(&next)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, service.ErrNotFound
	}
	return next, err
}

func (s *Store) SerialsUpdatedSince(ctx context.Context, deviceLibraryID string, sinceTag int64) ([]string, int64, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+colSerialNumber+`, `+colUpdateTag+` FROM `+tableInstances+`
        WHERE `+colDeviceLibraryID+`=$1 AND `+colStatus+`=$2 AND `+colUpdateTag+` > $3`,
		deviceLibraryID, string(models.StatusActive), sinceTag)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var serials []string
	maxTag := sinceTag
	for rows.Next() {
		var serial string
		var tag int64
		if err := rows.Scan(&serial, &tag); err != nil {
			return nil, 0, err
		}
		serials = append(serials, serial)
		if tag > maxTag {
			maxTag = tag
		}
	}
	return serials, maxTag, rows.Err()
}

// InsertUpdateRecord appends one audit row; rows are never mutated.
func (s *Store) InsertUpdateRecord(ctx context.Context, rec service.UpdateRecord) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO `+tableUpdates+`
        (id, pass_instance_id, update_type, old_content, new_content, notification_sent, push_status, push_response)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		rec.ID, rec.PassInstanceID, rec.UpdateType, rec.OldContent, rec.NewContent,
		rec.NotificationSent, rec.PushStatus, rec.PushResponse)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInstance(row rowScanner) (service.PassInstance, error) {
	var inst service.PassInstance
	var push *string
	var status string
	if err := row.Scan(&inst.ID, &inst.SerialNumber, &inst.AuthenticationToken,
		&inst.FunnelID, &inst.BusinessID, &inst.DeviceLibraryID, &push,
		&status, &inst.DownloadCount, &inst.ContentSnapshot, &inst.UpdateTag, &inst.CreatedAt); err != nil {
		return service.PassInstance{}, err
	}
	if push != nil {
		inst.PushToken = *push
	}
	inst.Status = models.PassStatus(status)
	return inst, nil
}
