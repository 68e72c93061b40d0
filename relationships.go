package gamesdk

import (
	"fmt"

	"github.com/opd-ai/gamesdk/collection"
	"github.com/opd-ai/gamesdk/interfaces"
)

func (d *Discord) relationshipManager() (interfaces.IRelationshipManager, error) {
	core, err := d.nativeCore()
	if err != nil {
		return nil, err
	}
	return core.RelationshipManager(), nil
}

// Relationship returns the relationship with one user.
func (d *Discord) Relationship(user UserID) (Relationship, error) {
	mgr, err := d.relationshipManager()
	if err != nil {
		return Relationship{}, err
	}
	var r interfaces.Relationship
	if err := resultError("get relationship", mgr.Get(int64(user), &r)); err != nil {
		return Relationship{}, err
	}
	return relationshipFromNative(&r), nil
}

// FilterRelationships selects the relationships visible through
// RelationshipCount, RelationshipAt and IterRelationships. keep runs
// synchronously, once per relationship, before FilterRelationships returns.
// Wait for OnRelationshipsRefresh before the first filter.
func (d *Discord) FilterRelationships(keep func(Relationship) bool) error {
	mgr, err := d.relationshipManager()
	if err != nil {
		return err
	}
	if keep == nil {
		keep = func(Relationship) bool { return true }
	}
	tok, err := d.registry.Filter(func(p uintptr) bool {
		return keep(relationshipFromNative(at[interfaces.Relationship](p)))
	})
	if err != nil {
		return fmt.Errorf("filter relationships: %w", err)
	}
	defer d.registry.Release(tok)
	mgr.Filter(uintptr(tok))
	return nil
}

// RelationshipCount returns the number of relationships kept by the last
// filter.
func (d *Discord) RelationshipCount() (int32, error) {
	mgr, err := d.relationshipManager()
	if err != nil {
		return 0, err
	}
	var count int32
	if err := resultError("relationship count", mgr.Count(&count)); err != nil {
		return 0, err
	}
	return count, nil
}

// RelationshipAt returns the filtered relationship at index.
func (d *Discord) RelationshipAt(index int32) (Relationship, error) {
	mgr, err := d.relationshipManager()
	if err != nil {
		return Relationship{}, err
	}
	if index < 0 {
		return Relationship{}, fmt.Errorf("relationship index %d: %w", index, ErrInvalidParameter)
	}
	var r interfaces.Relationship
	if err := resultError("get relationship at", mgr.GetAt(uint32(index), &r)); err != nil {
		return Relationship{}, err
	}
	return relationshipFromNative(&r), nil
}

// IterRelationships returns a lazy view over the filtered relationships.
func (d *Discord) IterRelationships() (*collection.Collection[Relationship], error) {
	return collection.FromCount(d.RelationshipCount, d.RelationshipAt)
}
