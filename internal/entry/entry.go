package entry

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Property is a name/value configuration pair attached to an entry.
// Name is the identity key within one property list.
type Property struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Entry is a TPS configuration record (profile, mapping, connector or
// authenticator) with its workflow status and ordered property list.
type Entry struct {
	ID         string
	Status     Status
	Properties []Property
}

// Clone returns a deep copy of the entry
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	c := &Entry{
		ID:     e.ID,
		Status: e.Status,
	}
	if e.Properties != nil {
		c.Properties = make([]Property, len(e.Properties))
		copy(c.Properties, e.Properties)
	}
	return c
}

// Field returns a page-level field of the entry by name
func (e *Entry) Field(name string) (string, bool) {
	if e == nil {
		return "", false
	}
	switch name {
	case "id":
		return e.ID, true
	case "status":
		return string(e.Status), true
	case "properties":
		return strconv.Itoa(len(e.Properties)), true
	}
	return "", false
}

// Property returns the value of the named property
func (e *Entry) Property(name string) (string, bool) {
	for _, p := range e.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// wireEntry is the JSON shape used by the TPS REST API
type wireEntry struct {
	ID         string          `json:"id"`
	Status     string          `json:"Status,omitempty"`
	Properties *wireProperties `json:"Properties,omitempty"`
}

type wireProperties struct {
	Property []Property `json:"Property"`
}

// MarshalJSON encodes the entry in the TPS REST format
func (e Entry) MarshalJSON() ([]byte, error) {
	w := wireEntry{
		ID:     e.ID,
		Status: string(e.Status),
		Properties: &wireProperties{
			Property: e.Properties,
		},
	}
	if w.Properties.Property == nil {
		w.Properties.Property = []Property{}
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the TPS REST format. The Properties element is accepted
// either as {"Property": [...]} or as a plain name/value object.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID         string          `json:"id"`
		Status     string          `json:"Status"`
		Properties json.RawMessage `json:"Properties"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	props, err := decodeProperties(raw.Properties)
	if err != nil {
		return fmt.Errorf("entry %q: %w", raw.ID, err)
	}

	*e = Entry{
		ID:         raw.ID,
		Status:     Status(raw.Status),
		Properties: props,
	}
	return nil
}

func decodeProperties(data json.RawMessage) ([]Property, error) {
	if len(data) == 0 || string(data) == "null" {
		return []Property{}, nil
	}

	var wrapped struct {
		Property json.RawMessage `json:"Property"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && len(wrapped.Property) > 0 {
		var list []Property
		if err := json.Unmarshal(wrapped.Property, &list); err == nil {
			return list, nil
		}
		// single property serialised as an object
		var one Property
		if err := json.Unmarshal(wrapped.Property, &one); err != nil {
			return nil, fmt.Errorf("invalid Property element: %w", err)
		}
		return []Property{one}, nil
	}

	var flat map[string]string
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, fmt.Errorf("invalid Properties element: %w", err)
	}
	props := make([]Property, 0, len(flat))
	for name, value := range flat {
		props = append(props, Property{Name: name, Value: value})
	}
	return props, nil
}

// Collection is a page of entries returned by a list call
type Collection struct {
	Total   int     `json:"total"`
	Entries []Entry `json:"entries"`
}
