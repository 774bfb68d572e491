package property

import (
	"strings"

	"github.com/muurk/tpsctl/internal/entry"
)

// ParentPrefix marks a column path that reads from the owning page's entry
// instead of the row's property.
const ParentPrefix = "parent."

// Scope selects where a field reference is resolved
type Scope int

const (
	// ScopeRow resolves against the row's own property
	ScopeRow Scope = iota
	// ScopePage resolves against the entry owned by the table's page
	ScopePage
)

// FieldRef is a parsed column path
type FieldRef struct {
	Scope Scope
	Name  string
}

// String returns the path the reference was parsed from
func (f FieldRef) String() string {
	if f.Scope == ScopePage {
		return ParentPrefix + f.Name
	}
	return f.Name
}

// ParseFieldRef parses a column path such as "value" or "parent.status"
func ParseFieldRef(path string) FieldRef {
	if rest, ok := strings.CutPrefix(path, ParentPrefix); ok {
		return FieldRef{Scope: ScopePage, Name: rest}
	}
	return FieldRef{Scope: ScopeRow, Name: path}
}

// FieldSource provides page-level fields to rows. The entry page implements it
// against whatever entry it currently holds.
type FieldSource interface {
	Field(name string) (string, bool)
}

// propertyField resolves a row-scoped field
func propertyField(p *entry.Property, name string) (string, bool) {
	if p == nil {
		return "", false
	}
	switch name {
	case "name", "id":
		return p.Name, true
	case "value":
		return p.Value, true
	}
	return "", false
}
