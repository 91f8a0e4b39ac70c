package models

import "time"

// GroupColor is the status color assigned to a living group. The color also
// encodes the guidance style staff apply to the group.
type GroupColor string

const (
	GroupColorRed    GroupColor = "RED"
	GroupColorOrange GroupColor = "ORANGE"
	GroupColorYellow GroupColor = "YELLOW"
	GroupColorGreen  GroupColor = "GREEN"
)

// GuidanceLabel returns the guidance style encoded by the color.
func (c GroupColor) GuidanceLabel() string {
	switch c {
	case GroupColorRed:
		return "high steering, low support"
	case GroupColorOrange:
		return "high steering, high support"
	case GroupColorYellow:
		return "low steering, high support"
	case GroupColorGreen:
		return "low steering, low support"
	default:
		return ""
	}
}

// Valid reports whether the color belongs to the known palette.
func (c GroupColor) Valid() bool {
	return c.GuidanceLabel() != ""
}

// Group is a living group as exposed by the group-management module.
type Group struct {
	ID        string     `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	Color     GroupColor `db:"color" json:"color"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `db:"updated_at" json:"updatedAt"`
}

// GroupCatalog indexes groups by id for lookups during aggregation.
type GroupCatalog map[string]Group

// NewGroupCatalog builds a catalog from a slice of groups.
func NewGroupCatalog(groups []Group) GroupCatalog {
	catalog := make(GroupCatalog, len(groups))
	for _, g := range groups {
		catalog[g.ID] = g
	}
	return catalog
}

// Lookup resolves a group by id.
func (c GroupCatalog) Lookup(id string) (Group, bool) {
	g, ok := c[id]
	return g, ok
}
