package types

import "github.com/gosimple/slug"

// Jurisdiction is one selectable region in the portal. Index is its position
// in the portal's displayed list; the clickable control must always be
// re-resolved by this index, never held across a state change.
type Jurisdiction struct {
	Index int
	Name  string
	Slug  string
}

// NewJurisdiction derives the slug from the display name.
func NewJurisdiction(index int, name string) Jurisdiction {
	return Jurisdiction{
		Index: index,
		Name:  name,
		Slug:  slug.Make(name),
	}
}
