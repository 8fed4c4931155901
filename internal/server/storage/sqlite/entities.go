package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/screensync/internal/models"
	"github.com/iudanet/screensync/internal/server/storage"
)

const entityColumns = `id, payload, version, is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntity(row rowScanner) (*models.Entity, error) {
	var (
		e                    models.Entity
		active               int
		createdAt, updatedAt int64
	)
	if err := row.Scan(&e.ID, &e.Payload, &e.Version, &active, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	e.IsActive = active != 0
	e.CreatedAt = fromUnixNano(createdAt)
	e.UpdatedAt = fromUnixNano(updatedAt)
	return &e, nil
}

// GetEntity retrieves an entity by ID
// Returns ErrEntityNotFound if entity doesn't exist
func (s *Storage) GetEntity(ctx context.Context, id string) (*models.Entity, error) {
	e, err := getEntity(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, storage.ErrEntityNotFound
	}
	return e, nil
}

// getEntity возвращает nil без ошибки, если записи нет
func getEntity(ctx context.Context, q querier, id string) (*models.Entity, error) {
	query := `SELECT ` + entityColumns + ` FROM entities WHERE id = ?`

	e, err := scanEntity(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entity: %w", err)
	}
	return e, nil
}

// ListEntities pages over all entities including deleted ones, ordered by id
func (s *Storage) ListEntities(ctx context.Context, limit, offset int) ([]*models.Entity, error) {
	query := `SELECT ` + entityColumns + ` FROM entities ORDER BY id LIMIT ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	entities := make([]*models.Entity, 0, limit)
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entities: %w", err)
	}
	return entities, nil
}

// ChangesSince returns entities written after since in write order
func (s *Storage) ChangesSince(ctx context.Context, since int64, limit int) ([]*models.Entity, int64, error) {
	query := `SELECT ` + entityColumns + `, seq FROM entities WHERE seq > ? ORDER BY seq LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, since, limit)
	if err != nil {
		return nil, since, fmt.Errorf("failed to query changes: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	cursor := since
	var entities []*models.Entity
	for rows.Next() {
		var (
			e                    models.Entity
			active               int
			createdAt, updatedAt int64
			seq                  int64
		)
		if err := rows.Scan(&e.ID, &e.Payload, &e.Version, &active, &createdAt, &updatedAt, &seq); err != nil {
			return nil, since, fmt.Errorf("failed to scan change: %w", err)
		}
		e.IsActive = active != 0
		e.CreatedAt = fromUnixNano(createdAt)
		e.UpdatedAt = fromUnixNano(updatedAt)
		entities = append(entities, &e)
		cursor = seq
	}
	if err := rows.Err(); err != nil {
		return nil, since, fmt.Errorf("failed to iterate changes: %w", err)
	}
	return entities, cursor, nil
}

// PutEntity stores entity unconditionally
func (s *Storage) PutEntity(ctx context.Context, entity *models.Entity, userID string) (*storage.Change, error) {
	var change *storage.Change
	err := s.inTx(ctx, func(tx *sql.Tx) (bool, error) {
		existing, err := getEntity(ctx, tx, entity.ID)
		if err != nil {
			return false, err
		}

		kind := models.EventInsert
		if existing != nil {
			kind = models.EventUpdate
		}
		if err := putEntity(ctx, tx, entity, userID); err != nil {
			return false, err
		}
		change = &storage.Change{Entity: entity.Clone(), Kind: kind, UserID: userID}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return change, nil
}

// DeleteEntity marks entity as deleted (soft delete) with a new version
// Returns ErrEntityNotFound if entity doesn't exist
func (s *Storage) DeleteEntity(ctx context.Context, id, userID string, now time.Time) (*storage.Change, error) {
	var change *storage.Change
	err := s.inTx(ctx, func(tx *sql.Tx) (bool, error) {
		existing, err := getEntity(ctx, tx, id)
		if err != nil {
			return false, err
		}
		if existing == nil {
			return false, storage.ErrEntityNotFound
		}

		next := existing.Clone()
		next.Version++
		next.IsActive = false
		next.UpdatedAt = now
		if err := putEntity(ctx, tx, next, userID); err != nil {
			return false, err
		}
		change = &storage.Change{Entity: next, Kind: models.EventDelete, UserID: userID}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return change, nil
}

// putEntity вставляет или обновляет запись и присваивает ей следующий seq
func putEntity(ctx context.Context, q querier, e *models.Entity, userID string) error {
	var seq int64
	if err := q.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM entities`).Scan(&seq); err != nil {
		return fmt.Errorf("failed to allocate sequence: %w", err)
	}

	query := `
		INSERT INTO entities (id, payload, version, is_active, seq, updated_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			payload = excluded.payload,
			version = excluded.version,
			is_active = excluded.is_active,
			seq = excluded.seq,
			updated_by = excluded.updated_by,
			updated_at = excluded.updated_at
	`

	_, err := q.ExecContext(ctx, query,
		e.ID,
		e.Payload,
		e.Version,
		boolToInt(e.IsActive),
		seq,
		userID,
		toUnixNano(e.CreatedAt),
		toUnixNano(e.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save entity: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// toUnixNano сохраняет нулевое время как 0
func toUnixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
