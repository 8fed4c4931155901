// Package cli implements the syncctl commands on top of the sync repository.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/iudanet/screensync/internal/backend"
	"github.com/iudanet/screensync/internal/backend/rest"
	"github.com/iudanet/screensync/internal/client/iocli"
	"github.com/iudanet/screensync/internal/client/storage"
	"github.com/iudanet/screensync/internal/models"
)

//go:generate moq -out repository_mock.go . Repository

// Repository is the part of the sync repository used by the commands.
type Repository interface {
	Save(ctx context.Context, id string, payload []byte) (*models.Entity, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.Entity, error)
	List(ctx context.Context, includeInactive bool) ([]*models.Entity, error)
	PendingItems(ctx context.Context) ([]*models.SyncItem, error)
	PendingCount(ctx context.Context) (int, error)
	LastSyncAt(ctx context.Context) (*time.Time, error)
	OpenConflicts(ctx context.Context) ([]*models.ConflictCase, error)
	ResolveConflict(ctx context.Context, conflictID string, resolution models.Resolution) error
	SyncCycle(ctx context.Context, progress func(synced, total int)) (*models.SyncResult, error)
	Pull(ctx context.Context) (int, error)
	Reconcile(ctx context.Context) (int, error)
	Watch(ctx context.Context, entityID string) error
	Unwatch(ctx context.Context, entityID string) error
}

// Cli выполняет команды syncctl
type Cli struct {
	io       iocli.IO
	repo     Repository
	registry *backend.Registry
	logger   *slog.Logger
	now      func() time.Time
	token    string
}

// New creates a command runner. token is only used to report its expiry.
func New(io iocli.IO, repo Repository, registry *backend.Registry, token string, logger *slog.Logger) *Cli {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cli{
		io:       io,
		repo:     repo,
		registry: registry,
		logger:   logger,
		now:      time.Now,
		token:    token,
	}
}

// connect подключает зарегистрированный бэкенд. Ошибка сети не фатальна:
// команды sync и status работают и offline.
func (c *Cli) connect(ctx context.Context) bool {
	port, err := c.registry.Get()
	if err != nil {
		c.logger.Warn("No backend registered", "error", err)
		return false
	}
	if port.IsConnected() {
		return true
	}
	if err := port.Connect(ctx); err != nil {
		c.logger.Warn("Backend unreachable, working offline", "error", err)
		return false
	}
	return true
}

func (c *Cli) runPut(ctx context.Context, id string, payload []byte) error {
	entity, err := c.repo.Save(ctx, id, payload)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", id, err)
	}
	c.io.Printf("✓ Saved %s (version %d), change queued for sync\n", entity.ID, entity.Version)
	return nil
}

func (c *Cli) runDelete(ctx context.Context, id string) error {
	if err := c.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrEntityNotFound) {
			return fmt.Errorf("entity %s not found. Run 'syncctl pull' to refresh the local cache", id)
		}
		return fmt.Errorf("failed to delete %s: %w", id, err)
	}
	c.io.Printf("✓ Deleted %s, change queued for sync\n", id)
	return nil
}

func (c *Cli) runGet(ctx context.Context, id string) error {
	entity, err := c.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrEntityNotFound) {
			return fmt.Errorf("entity %s not found", id)
		}
		return fmt.Errorf("failed to read %s: %w", id, err)
	}

	if err := renderEntity(c.io, entity); err != nil {
		return err
	}
	c.io.Println()
	if _, err := c.io.Write(entity.Payload); err != nil {
		return fmt.Errorf("failed to write payload: %w", err)
	}
	c.io.Println()
	return nil
}

func (c *Cli) runList(ctx context.Context, includeInactive bool) error {
	entities, err := c.repo.List(ctx, includeInactive)
	if err != nil {
		return fmt.Errorf("failed to list entities: %w", err)
	}

	if len(entities) == 0 {
		c.io.Println("No entities found.")
		c.io.Println("Use 'syncctl put <id> <payload>' to create one or 'syncctl pull' to download.")
		return nil
	}

	c.io.Printf("Found %d entit(ies):\n", len(entities))
	for _, e := range entities {
		status := ""
		if !e.IsActive {
			status = " (deleted)"
		}
		c.io.Printf("  %-32s v%-6d %8d bytes  %s%s\n",
			e.ID, e.Version, len(e.Payload), formatTime(e.UpdatedAt), status)
	}
	return nil
}

func (c *Cli) runQueue(ctx context.Context) error {
	items, err := c.repo.PendingItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to read sync queue: %w", err)
	}
	if len(items) == 0 {
		c.io.Println("Sync queue is empty.")
		return nil
	}

	c.io.Printf("%d pending change(s):\n", len(items))
	for _, item := range items {
		c.io.Printf("  %s  %-6s %-32s base v%d", item.ID, item.Operation, item.EntityID, item.BaseVersion)
		if item.Held() {
			c.io.Printf("  held by conflict %s", item.ConflictID)
		}
		if item.LastError != "" {
			c.io.Printf("  retries %d, last error: %s", item.RetryCount, item.LastError)
		}
		c.io.Println()
	}
	return nil
}

func (c *Cli) runSync(ctx context.Context) error {
	c.io.Println("=== Synchronization ===")
	c.connect(ctx)

	result, err := c.repo.SyncCycle(ctx, func(synced, total int) {
		c.io.Printf("Uploaded %d/%d\n", synced, total)
	})
	if err != nil {
		return fmt.Errorf("synchronization failed: %w", err)
	}

	if result.Offline {
		c.io.Printf("Backend is offline, %d change(s) stay queued.\n", result.Pending)
		return nil
	}

	c.io.Println("✓ Synchronization completed")
	c.io.Printf("Synced:    %d\n", result.Synced)
	c.io.Printf("Pulled:    %d\n", result.Pulled)
	if result.Failed > 0 {
		c.io.Printf("Failed:    %d\n", result.Failed)
		for _, e := range result.Errors {
			c.io.Printf("  %s %s: %s\n", e.Operation, e.EntityID, e.Message)
		}
	}
	if result.Conflicts > 0 {
		c.io.Printf("Conflicts: %d (see 'syncctl conflicts')\n", result.Conflicts)
	}
	c.io.Printf("Pending:   %d\n", result.Pending)
	return nil
}

func (c *Cli) runPull(ctx context.Context) error {
	if !c.connect(ctx) {
		return fmt.Errorf("pull: %w", backend.ErrNotConnected)
	}
	n, err := c.repo.Pull(ctx)
	if err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}
	c.io.Printf("✓ %d entit(ies) updated from backend\n", n)
	return nil
}

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Sync Status ===")

	online := c.connect(ctx)
	if online {
		c.io.Println("Backend:   online")
	} else {
		c.io.Println("Backend:   offline")
	}

	pending, err := c.repo.PendingCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to count pending changes: %w", err)
	}
	c.io.Printf("Pending:   %d\n", pending)

	last, err := c.repo.LastSyncAt(ctx)
	if err != nil {
		return fmt.Errorf("failed to read last sync time: %w", err)
	}
	if last == nil {
		c.io.Println("Last sync: never")
	} else {
		c.io.Printf("Last sync: %s\n", formatTime(*last))
	}

	conflicts, err := c.repo.OpenConflicts(ctx)
	if err != nil {
		return fmt.Errorf("failed to read conflicts: %w", err)
	}
	c.io.Printf("Conflicts: %d\n", len(conflicts))

	c.printToken()
	return nil
}

func (c *Cli) printToken() {
	if c.token == "" {
		c.io.Println("Token:     not configured")
		return
	}
	expiresAt, err := rest.TokenExpiry(c.token)
	switch {
	case err != nil:
		c.io.Printf("Token:     unreadable (%v)\n", err)
	case expiresAt.IsZero():
		c.io.Println("Token:     no expiry")
	case c.now().After(expiresAt):
		c.io.Printf("Token:     expired at %s\n", formatTime(expiresAt))
	default:
		c.io.Printf("Token:     valid until %s\n", formatTime(expiresAt))
	}
}

func (c *Cli) runConflicts(ctx context.Context) error {
	conflicts, err := c.repo.OpenConflicts(ctx)
	if err != nil {
		return fmt.Errorf("failed to read conflicts: %w", err)
	}
	if len(conflicts) == 0 {
		c.io.Println("No open conflicts.")
		return nil
	}

	c.io.Printf("%d open conflict(s):\n", len(conflicts))
	for _, cc := range conflicts {
		if err := renderConflict(c.io, cc); err != nil {
			return err
		}
	}
	c.io.Println()
	c.io.Println("Resolve with 'syncctl resolve <conflict-id> <local|remote|merge|abort>'.")
	return nil
}

// runResolve спрашивает стратегию у пользователя, если она не передана аргументом
func (c *Cli) runResolve(ctx context.Context, conflictID, kind string, payload []byte) error {
	if kind == "" {
		input, err := c.io.ReadInput("Resolution [local/remote/merge/defer/abort]: ")
		if err != nil {
			return fmt.Errorf("failed to read resolution: %w", err)
		}
		kind = strings.TrimSpace(input)
	}

	resolution, err := parseResolution(kind, payload)
	if err != nil {
		return err
	}
	if err := c.repo.ResolveConflict(ctx, conflictID, resolution); err != nil {
		if errors.Is(err, storage.ErrConflictNotFound) {
			return fmt.Errorf("conflict %s is not open", conflictID)
		}
		return fmt.Errorf("failed to resolve %s: %w", conflictID, err)
	}
	c.io.Printf("✓ Conflict %s resolved with %s\n", conflictID, resolution)
	return nil
}

func parseResolution(kind string, payload []byte) (models.Resolution, error) {
	k, err := models.ParseResolutionKind(strings.ToLower(kind))
	if err != nil {
		return models.Resolution{}, err
	}
	if k == models.ResolutionMerge {
		if payload == nil {
			return models.Resolution{}, fmt.Errorf("merge requires --payload or --file")
		}
		return models.MergeWith(payload), nil
	}
	if payload != nil {
		return models.Resolution{}, fmt.Errorf("%s does not take a payload", k)
	}
	return models.Resolution{Kind: k}, nil
}
