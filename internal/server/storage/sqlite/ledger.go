package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/screensync/internal/backend"
	"github.com/iudanet/screensync/internal/models"
	"github.com/iudanet/screensync/internal/server/storage"
)

const (
	statusApplied = "applied"
	statusHeld    = "held"
)

// ApplyItem applies an uploaded item in one transaction: ledger lookup,
// version check, entity write and ledger update.
func (s *Storage) ApplyItem(ctx context.Context, item *models.SyncItem, userID string, now time.Time) (*storage.Change, error) {
	var change *storage.Change
	err := s.inTx(ctx, func(tx *sql.Tx) (bool, error) {
		status, err := ledgerStatus(ctx, tx, item.ID)
		if err != nil {
			return false, err
		}
		// Повторная загрузка уже примененного элемента
		if status == statusApplied {
			return false, nil
		}

		stored, err := getEntity(ctx, tx, item.EntityID)
		if err != nil {
			return false, err
		}

		next, err := backend.Apply(stored, item, now)
		if err != nil {
			if !backend.IsConflict(err) {
				return false, err
			}
			// Конфликт фиксируется вместе с ошибкой: элемент удерживается
			if holdErr := recordItem(ctx, tx, item, statusHeld, userID, now); holdErr != nil {
				return false, holdErr
			}
			return true, err
		}

		if err := putEntity(ctx, tx, next, userID); err != nil {
			return false, err
		}
		if err := recordItem(ctx, tx, item, statusApplied, userID, now); err != nil {
			return false, err
		}
		if err := releaseHeld(ctx, tx, item.EntityID); err != nil {
			return false, err
		}

		change = &storage.Change{Entity: next, Kind: eventKind(item.Operation), UserID: userID}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return change, nil
}

// HeldItems returns items held because of a conflict, oldest first
func (s *Storage) HeldItems(ctx context.Context) ([]*models.SyncItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item FROM sync_ledger WHERE status = ? ORDER BY created_at, item_id`, statusHeld)
	if err != nil {
		return nil, fmt.Errorf("failed to query held items: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var items []*models.SyncItem
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan held item: %w", err)
		}
		var item models.SyncItem
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, fmt.Errorf("failed to decode held item: %w", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate held items: %w", err)
	}
	return items, nil
}

// ReleaseHeld drops held items of an entity
func (s *Storage) ReleaseHeld(ctx context.Context, entityID string) error {
	return releaseHeld(ctx, s.db, entityID)
}

func ledgerStatus(ctx context.Context, q querier, itemID string) (string, error) {
	var status string
	err := q.QueryRowContext(ctx, `SELECT status FROM sync_ledger WHERE item_id = ?`, itemID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read ledger: %w", err)
	}
	return status, nil
}

func recordItem(ctx context.Context, q querier, item *models.SyncItem, status, userID string, now time.Time) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to encode sync item: %w", err)
	}

	query := `
		INSERT INTO sync_ledger (item_id, entity_id, status, item, user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (item_id) DO UPDATE SET
			status = excluded.status,
			item = excluded.item
	`
	if _, err := q.ExecContext(ctx, query, item.ID, item.EntityID, status, data, userID, toUnixNano(now)); err != nil {
		return fmt.Errorf("failed to record sync item: %w", err)
	}
	return nil
}

func releaseHeld(ctx context.Context, q querier, entityID string) error {
	_, err := q.ExecContext(ctx,
		`DELETE FROM sync_ledger WHERE entity_id = ? AND status = ?`, entityID, statusHeld)
	if err != nil {
		return fmt.Errorf("failed to release held items: %w", err)
	}
	return nil
}

func eventKind(op models.Operation) models.EventKind {
	switch op {
	case models.OperationCreate:
		return models.EventInsert
	case models.OperationDelete:
		return models.EventDelete
	default:
		return models.EventUpdate
	}
}
