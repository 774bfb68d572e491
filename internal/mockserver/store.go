package mockserver

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/muurk/tpsctl/internal/entry"
)

// StoreError is a failure with the HTTP status the server reports for it
type StoreError struct {
	Status  int
	Message string
}

func (e *StoreError) Error() string {
	return e.Message
}

func notFound(kind entry.Kind, id string) error {
	return &StoreError{Status: http.StatusNotFound, Message: fmt.Sprintf("%s %s not found", kind.Noun(), id)}
}

func badRequest(format string, args ...any) error {
	return &StoreError{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// transition describes the status a workflow action moves an entry from and to
type transition struct {
	from entry.Status
	to   entry.Status
}

// transitions follow the TPS agent/administrator workflow: administrators
// enable and disable directly, agents go through submit and approval.
var transitions = map[entry.Action]transition{
	entry.ActionEnable:  {from: entry.StatusDisabled, to: entry.StatusEnabled},
	entry.ActionDisable: {from: entry.StatusEnabled, to: entry.StatusDisabled},
	entry.ActionSubmit:  {from: entry.StatusDisabled, to: entry.StatusPendingApproval},
	entry.ActionCancel:  {from: entry.StatusPendingApproval, to: entry.StatusDisabled},
	entry.ActionApprove: {from: entry.StatusPendingApproval, to: entry.StatusEnabled},
	entry.ActionReject:  {from: entry.StatusPendingApproval, to: entry.StatusDisabled},
}

// Fault makes the next matching transition fail with the given code and message
type Fault struct {
	Code    int
	Message string
}

// Store is an in-memory set of configuration entries
type Store struct {
	mu      sync.Mutex
	entries map[entry.Kind]map[string]*entry.Entry
	faults  map[entry.Action]Fault
}

// NewStore creates an empty store
func NewStore() *Store {
	s := &Store{
		entries: make(map[entry.Kind]map[string]*entry.Entry),
		faults:  make(map[entry.Action]Fault),
	}
	for _, k := range entry.AllKinds {
		s.entries[k] = make(map[string]*entry.Entry)
	}
	return s
}

// Put inserts or replaces an entry without workflow checks
func (s *Store) Put(kind entry.Kind, e *entry.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collection(kind)[e.ID] = e.Clone()
}

// InjectFault makes every later transition with this action fail until cleared
func (s *Store) InjectFault(action entry.Action, f Fault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[action] = f
}

// ClearFaults removes all injected faults
func (s *Store) ClearFaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = make(map[entry.Action]Fault)
}

func (s *Store) collection(kind entry.Kind) map[string]*entry.Entry {
	c, ok := s.entries[kind]
	if !ok {
		c = make(map[string]*entry.Entry)
		s.entries[kind] = c
	}
	return c
}

// List returns the entries of a collection ordered by id
func (s *Store) List(kind entry.Kind) []entry.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collection(kind)
	out := make([]entry.Entry, 0, len(c))
	for _, e := range c {
		out = append(out, *e.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns a copy of an entry
func (s *Store) Get(kind entry.Kind, id string) (*entry.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.collection(kind)[id]
	if !ok {
		return nil, notFound(kind, id)
	}
	return e.Clone(), nil
}

// Create adds a new entry in Disabled status
func (s *Store) Create(kind entry.Kind, e *entry.Entry) (*entry.Entry, error) {
	if e.ID == "" {
		return nil, badRequest("Missing %s ID", kind.Noun())
	}
	if err := checkProperties(e.Properties); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collection(kind)
	if _, exists := c[e.ID]; exists {
		return nil, &StoreError{Status: http.StatusConflict, Message: fmt.Sprintf("%s %s already exists", kind.Noun(), e.ID)}
	}

	created := e.Clone()
	created.Status = entry.StatusDisabled
	if created.Properties == nil {
		created.Properties = []entry.Property{}
	}
	c[e.ID] = created
	return created.Clone(), nil
}

// Update replaces the properties of a disabled entry
func (s *Store) Update(kind entry.Kind, id string, e *entry.Entry) (*entry.Entry, error) {
	if err := checkProperties(e.Properties); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.collection(kind)[id]
	if !ok {
		return nil, notFound(kind, id)
	}
	if current.Status != entry.StatusDisabled {
		return nil, badRequest("Unable to update %s %s in %s status", kind.Noun(), id, current.Status)
	}

	current.Properties = append([]entry.Property{}, e.Properties...)
	return current.Clone(), nil
}

// Delete removes a disabled entry
func (s *Store) Delete(kind entry.Kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collection(kind)
	current, ok := c[id]
	if !ok {
		return notFound(kind, id)
	}
	if current.Status != entry.StatusDisabled {
		return badRequest("Unable to remove %s %s in %s status", kind.Noun(), id, current.Status)
	}
	delete(c, id)
	return nil
}

// ChangeStatus applies a workflow action and returns the entry before and after
func (s *Store) ChangeStatus(kind entry.Kind, id string, action entry.Action) (before, after *entry.Entry, err error) {
	t, ok := transitions[action]
	if !ok {
		return nil, nil, badRequest("Invalid action: %s", action)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.faults[action]; ok {
		return nil, nil, &StoreError{Status: f.Code, Message: f.Message}
	}

	current, ok := s.collection(kind)[id]
	if !ok {
		return nil, nil, notFound(kind, id)
	}
	if current.Status != t.from {
		return nil, nil, badRequest("Unable to %s %s %s in %s status", action, kind.Noun(), id, current.Status)
	}

	before = current.Clone()
	current.Status = t.to
	return before, current.Clone(), nil
}

func checkProperties(props []entry.Property) error {
	seen := make(map[string]struct{}, len(props))
	for _, p := range props {
		if p.Name == "" {
			return badRequest("Property name is required")
		}
		if _, dup := seen[p.Name]; dup {
			return badRequest("Duplicate property: %s", p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

// statusOf maps store errors to HTTP statuses
func statusOf(err error) (int, string) {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Status, se.Message
	}
	return http.StatusInternalServerError, err.Error()
}
