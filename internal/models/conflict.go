package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoDivergence is returned by ConflictCase.Validate when both sides are identical.
var ErrNoDivergence = errors.New("local and remote versions do not diverge")

// ConflictCase records a divergence between the local and the remote copy of one entity.
type ConflictCase struct {
	DetectedAt time.Time `json:"detected_at"`
	Local      *Entity   `json:"local"`
	Remote     *Entity   `json:"remote"`
	ID         string    `json:"id"`
	EntityID   string    `json:"entity_id"`
	ItemID     string    `json:"item_id"` // ItemID элемент очереди, вызвавший конфликт
	Operation  Operation `json:"operation"`
}

// Validate checks that the case describes a real divergence: versions or payloads
// must differ, otherwise no conflict exists.
func (c *ConflictCase) Validate() error {
	if c.ID == "" || c.EntityID == "" {
		return fmt.Errorf("conflict: empty id or entity id")
	}
	if c.Local == nil || c.Remote == nil {
		return fmt.Errorf("conflict %s: both versions are required", c.ID)
	}
	if c.Local.SameContent(c.Remote) {
		return ErrNoDivergence
	}
	return nil
}

// ResolutionKind перечисляет стратегии разрешения конфликта.
type ResolutionKind string

const (
	ResolutionUseLocal          ResolutionKind = "use_local"
	ResolutionUseRemote         ResolutionKind = "use_remote"
	ResolutionMerge             ResolutionKind = "merge"
	ResolutionRequiresUserInput ResolutionKind = "requires_user_input"
	ResolutionAbort             ResolutionKind = "abort"
)

// Resolution is the closed set of conflict strategies. Only Merge carries data.
// Build values with the constructors below and dispatch with an exhaustive switch
// on Kind.
type Resolution struct {
	Kind    ResolutionKind `json:"kind"`
	Payload []byte         `json:"payload,omitempty"`
}

func UseLocal() Resolution          { return Resolution{Kind: ResolutionUseLocal} }
func UseRemote() Resolution         { return Resolution{Kind: ResolutionUseRemote} }
func RequiresUserInput() Resolution { return Resolution{Kind: ResolutionRequiresUserInput} }
func Abort() Resolution             { return Resolution{Kind: ResolutionAbort} }

// MergeWith builds a merge resolution carrying the merged payload.
func MergeWith(payload []byte) Resolution {
	p := make([]byte, len(payload))
	copy(p, payload)
	return Resolution{Kind: ResolutionMerge, Payload: p}
}

// Validate rejects unknown kinds, a merge without payload and payloads on other kinds.
func (r Resolution) Validate() error {
	switch r.Kind {
	case ResolutionMerge:
		if r.Payload == nil {
			return fmt.Errorf("merge resolution requires a merged payload")
		}
		return nil
	case ResolutionUseLocal, ResolutionUseRemote, ResolutionRequiresUserInput, ResolutionAbort:
		if r.Payload != nil {
			return fmt.Errorf("%s resolution must not carry a payload", r.Kind)
		}
		return nil
	default:
		return fmt.Errorf("unknown resolution kind %q", r.Kind)
	}
}

// ParseResolutionKind maps user input such as "use-local" or "merge" to a kind.
func ParseResolutionKind(s string) (ResolutionKind, error) {
	switch s {
	case "use_local", "use-local", "local":
		return ResolutionUseLocal, nil
	case "use_remote", "use-remote", "remote":
		return ResolutionUseRemote, nil
	case "merge":
		return ResolutionMerge, nil
	case "requires_user_input", "defer":
		return ResolutionRequiresUserInput, nil
	case "abort":
		return ResolutionAbort, nil
	default:
		return "", fmt.Errorf("unknown resolution %q", s)
	}
}

func (r Resolution) String() string {
	return string(r.Kind)
}
