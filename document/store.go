package document

import (
	"fmt"
	"sync"

	errorslib "github.com/goliatone/go-errors"
	"golang.org/x/text/unicode/norm"
)

// Field is the state of one editable slot.
type Field struct {
	ID          string `json:"id"`
	Value       string `json:"value"`
	Initialized bool   `json:"initialized"`
	Edited      bool   `json:"edited"`
}

// Store holds the current value of every slot of a template. It is safe
// for concurrent use.
type Store struct {
	mu     sync.RWMutex
	order  []string
	fields map[string]*Field
}

// NewStore creates an empty store with one field per template slot.
func NewStore(tpl *Template) *Store {
	s := &Store{fields: make(map[string]*Field)}
	for _, id := range tpl.SlotIDs() {
		s.order = append(s.order, id)
		s.fields[id] = &Field{ID: id}
	}
	return s
}

// Seed writes initial values into slots that have not been seeded, edited
// or otherwise given content. Unknown ids and empty values are ignored. It
// returns the number of slots seeded.
func (s *Store) Seed(initial map[string]string) int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	seeded := 0
	for _, id := range s.order {
		value, ok := initial[id]
		if !ok || value == "" {
			continue
		}
		field := s.fields[id]
		if field.Initialized || field.Edited || field.Value != "" {
			continue
		}
		field.Value = normalize(value)
		field.Initialized = true
		seeded++
	}
	return seeded
}

// Set records a user edit.
func (s *Store) Set(id, value string) (Field, error) {
	if s == nil {
		return Field{}, fieldNotFound(id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	field, ok := s.fields[id]
	if !ok {
		return Field{}, fieldNotFound(id)
	}
	field.Value = normalize(value)
	field.Edited = true
	return *field, nil
}

// Get returns a copy of one field.
func (s *Store) Get(id string) (Field, bool) {
	if s == nil {
		return Field{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	field, ok := s.fields[id]
	if !ok {
		return Field{}, false
	}
	return *field, true
}

// Snapshot returns every field in template order.
func (s *Store) Snapshot() []Field {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Field, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.fields[id])
	}
	return out
}

// Values returns the current value of every field.
func (s *Store) Values() map[string]string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.fields))
	for id, field := range s.fields {
		out[id] = field.Value
	}
	return out
}

// normalize puts values in NFC so composed Bengali vowel signs compare
// equal no matter how the browser delivered them.
func normalize(value string) string {
	return norm.NFC.String(value)
}

func fieldNotFound(id string) error {
	return errorslib.New(fmt.Sprintf("field %q not found", id), errorslib.CategoryNotFound).WithTextCode("field_not_found")
}
