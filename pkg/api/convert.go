package api

import "github.com/iudanet/screensync/internal/models"

// FromEntity converts a domain entity to its wire form. nil stays nil.
func FromEntity(e *models.Entity) *Entity {
	if e == nil {
		return nil
	}
	return &Entity{
		ID:        e.ID,
		Payload:   e.Payload,
		Checksum:  e.Checksum(),
		Version:   e.Version,
		IsActive:  e.IsActive,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// ToEntity converts a wire entity to the domain model. nil stays nil.
func (e *Entity) ToEntity() *models.Entity {
	if e == nil {
		return nil
	}
	return &models.Entity{
		ID:        e.ID,
		Payload:   e.Payload,
		Version:   e.Version,
		IsActive:  e.IsActive,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// Verify reports whether the checksum, when present, matches the payload.
func (e *Entity) Verify() bool {
	if e == nil || e.Checksum == "" {
		return true
	}
	return e.ToEntity().Checksum() == e.Checksum
}

// FromEntities converts a slice of domain entities.
func FromEntities(entities []*models.Entity) []Entity {
	out := make([]Entity, 0, len(entities))
	for _, e := range entities {
		out = append(out, *FromEntity(e))
	}
	return out
}

// FromSyncItem converts a queue item. Local bookkeeping fields are not sent.
func FromSyncItem(item *models.SyncItem) SyncItem {
	return SyncItem{
		ID:          item.ID,
		EntityID:    item.EntityID,
		Operation:   string(item.Operation),
		Entity:      FromEntity(item.Entity),
		BaseVersion: item.BaseVersion,
		CreatedAt:   item.CreatedAt,
	}
}

func (i SyncItem) ToSyncItem() *models.SyncItem {
	return &models.SyncItem{
		ID:          i.ID,
		EntityID:    i.EntityID,
		Operation:   models.Operation(i.Operation),
		Entity:      i.Entity.ToEntity(),
		BaseVersion: i.BaseVersion,
		CreatedAt:   i.CreatedAt,
	}
}

// FromConflict converts a conflict case.
func FromConflict(c *models.ConflictCase) ConflictCase {
	return ConflictCase{
		ID:         c.ID,
		EntityID:   c.EntityID,
		ItemID:     c.ItemID,
		Operation:  string(c.Operation),
		Local:      FromEntity(c.Local),
		Remote:     FromEntity(c.Remote),
		DetectedAt: c.DetectedAt,
	}
}

func (c ConflictCase) ToConflict() *models.ConflictCase {
	return &models.ConflictCase{
		ID:         c.ID,
		EntityID:   c.EntityID,
		ItemID:     c.ItemID,
		Operation:  models.Operation(c.Operation),
		Local:      c.Local.ToEntity(),
		Remote:     c.Remote.ToEntity(),
		DetectedAt: c.DetectedAt,
	}
}

// FromResolution converts a resolution.
func FromResolution(r models.Resolution) Resolution {
	return Resolution{Kind: string(r.Kind), Payload: r.Payload}
}

// ToResolution validates and converts a wire resolution.
func (r Resolution) ToResolution() (models.Resolution, error) {
	kind, err := models.ParseResolutionKind(r.Kind)
	if err != nil {
		return models.Resolution{}, err
	}
	res := models.Resolution{Kind: kind, Payload: r.Payload}
	if err := res.Validate(); err != nil {
		return models.Resolution{}, err
	}
	return res, nil
}
