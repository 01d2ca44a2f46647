package collision

import (
	"fmt"

	"github.com/Deanly/struct-layout-sub000/errs"
)

// Tracker records schema names by their 64-bit ID and rejects duplicates.
//
// Unlike a name index, it detects two different names hashing to the same ID,
// which would make lookup by ID ambiguous.
type Tracker struct {
	names map[uint64]string
	order []string
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		names: make(map[uint64]string),
		order: make([]string, 0),
	}
}

// Track records name under id.
//
// Returns:
//   - errs.ErrInvalidSchema if name is empty
//   - errs.ErrDuplicateSchema if name was already tracked
//   - errs.ErrIDCollision if a different name already owns id
func (t *Tracker) Track(name string, id uint64) error {
	if name == "" {
		return fmt.Errorf("%w: empty schema name", errs.ErrInvalidSchema)
	}

	if existing, ok := t.names[id]; ok {
		if existing == name {
			return fmt.Errorf("%w: %q", errs.ErrDuplicateSchema, name)
		}

		return fmt.Errorf("%w: %q and %q share id 0x%016x", errs.ErrIDCollision, existing, name, id)
	}

	t.names[id] = name
	t.order = append(t.order, name)

	return nil
}

// Name returns the name tracked under id.
func (t *Tracker) Name(id uint64) (string, bool) {
	name, ok := t.names[id]
	return name, ok
}

// Names returns tracked names in registration order.
func (t *Tracker) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)

	return out
}

// Count returns the number of tracked names.
func (t *Tracker) Count() int {
	return len(t.order)
}
