package admin

import (
	"context"
	"fmt"
	"sort"
)

// Field describes one column of an entity as shown in the console.
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"` // int, string, bool, time, money
}

// Row is a flat field-name -> value view of one record. Entities build rows
// explicitly; the registry never inspects structs.
type Row map[string]any

// Entity declares one browsable record type.
type Entity struct {
	Name   string
	Fields []Field
	List   func(ctx context.Context) ([]Row, error)
	Get    func(ctx context.Context, id int64) (Row, error)
}

// Registry holds the declared entities. Registration happens once at startup;
// the registry is read-only afterwards.
type Registry struct {
	entities map[string]Entity
}

func NewRegistry() *Registry {
	return &Registry{entities: make(map[string]Entity)}
}

// Register adds an entity declaration. Duplicate names are a programming
// error.
func (r *Registry) Register(e Entity) error {
	if e.Name == "" {
		return fmt.Errorf("entity name is required")
	}
	if e.List == nil {
		return fmt.Errorf("entity %s: List is required", e.Name)
	}
	if _, exists := r.entities[e.Name]; exists {
		return fmt.Errorf("entity %s already registered", e.Name)
	}
	r.entities[e.Name] = e
	return nil
}

// MustRegister panics on registration errors; used during startup wiring.
func (r *Registry) MustRegister(e Entity) {
	if err := r.Register(e); err != nil {
		panic(err)
	}
}

func (r *Registry) Lookup(name string) (Entity, bool) {
	e, ok := r.entities[name]
	return e, ok
}

// Names returns registered entity names sorted for stable output.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entities))
	for name := range r.entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
