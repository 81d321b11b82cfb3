package catalog

import "fmt"

// Category is one of the three closed card categories.
type Category int

const (
	Suspect Category = iota
	Weapon
	Room
)

// Categories lists every category in display order.
var Categories = []Category{Suspect, Weapon, Room}

// String returns the category name used in output and CUE deck files.
func (c Category) String() string {
	switch c {
	case Suspect:
		return "suspect"
	case Weapon:
		return "weapon"
	case Room:
		return "room"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// ParseCategory is the inverse of String.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}
