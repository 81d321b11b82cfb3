package catalog

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// DeckError reports a problem in a CUE deck definition.
type DeckError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *DeckError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoadFile reads a deck definition from a CUE file.
func LoadFile(path string) (*Catalog, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck file: %w", err)
	}
	return Compile(src, path)
}

// Compile builds a catalog from CUE source. The source must define a
// top-level "deck" struct with suspect, weapon and room string lists.
func Compile(src []byte, filename string) (*Catalog, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	deckVal := v.LookupPath(cue.ParsePath("deck"))
	if !deckVal.Exists() {
		return nil, &DeckError{Field: "deck", Message: "deck is required", Pos: v.Pos()}
	}

	lists := make(map[Category][]string, len(Categories))
	for _, cat := range Categories {
		names, err := parseNames(deckVal, cat)
		if err != nil {
			return nil, err
		}
		lists[cat] = names
	}

	// Unknown categories are typos more often than extensions.
	iter, err := deckVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		if _, err := ParseCategory(iter.Label()); err != nil {
			return nil, &DeckError{
				Field:   "deck." + iter.Label(),
				Message: "unknown category (expected suspect, weapon or room)",
				Pos:     iter.Value().Pos(),
			}
		}
	}

	c, err := New(lists[Suspect], lists[Weapon], lists[Room])
	if err != nil {
		return nil, &DeckError{Field: "deck", Message: err.Error(), Pos: deckVal.Pos()}
	}
	return c, nil
}

// parseNames extracts the string list for one category.
func parseNames(deckVal cue.Value, cat Category) ([]string, error) {
	field := "deck." + cat.String()
	listVal := deckVal.LookupPath(cue.ParsePath(cat.String()))
	if !listVal.Exists() {
		return nil, &DeckError{Field: field, Message: "category is required", Pos: deckVal.Pos()}
	}

	iter, err := listVal.List()
	if err != nil {
		return nil, &DeckError{Field: field, Message: "must be a list of card names", Pos: listVal.Pos()}
	}

	var names []string
	for iter.Next() {
		name, err := iter.Value().String()
		if err != nil {
			return nil, &DeckError{Field: field, Message: "card names must be strings", Pos: iter.Value().Pos()}
		}
		names = append(names, name)
	}
	return names, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &DeckError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
