package schema

import (
	"fmt"
	"sync"

	"github.com/Deanly/struct-layout-sub000/errs"
	"github.com/Deanly/struct-layout-sub000/internal/collision"
	"github.com/Deanly/struct-layout-sub000/internal/hash"
)

// Catalog resolves schemas by record type name or by Schema.ID.
//
// Registration rejects duplicate names and different names whose IDs
// collide. Catalog is safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	byID    map[uint64]*Schema
	tracker *collision.Tracker
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		byID:    make(map[uint64]*Schema),
		tracker: collision.NewTracker(),
	}
}

// Register adds s under its name and ID.
func (c *Catalog) Register(s *Schema) error {
	if s == nil {
		return errs.Schemaf("", "", errs.ErrInvalidSchema, "nil schema")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.tracker.Track(s.Name(), s.ID()); err != nil {
		return &errs.SchemaError{Schema: s.Name(), Err: err}
	}
	c.byID[s.ID()] = s

	return nil
}

// Lookup returns the schema registered under name.
func (c *Catalog) Lookup(name string) (*Schema, error) {
	s, err := c.LookupID(hash.ID(name))
	if err != nil || s.Name() != name {
		return nil, fmt.Errorf("%w: record type %q", errs.ErrUnsupportedType, name)
	}

	return s, nil
}

// LookupID returns the schema whose ID is id.
func (c *Catalog) LookupID(id uint64) (*Schema, error) {
	c.mu.RLock()
	s, ok := c.byID[id]
	c.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: record type id 0x%016x", errs.ErrUnsupportedType, id)
	}

	return s, nil
}

// Names returns registered record type names in registration order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.tracker.Names()
}

// Len returns the number of registered schemas.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.tracker.Count()
}
