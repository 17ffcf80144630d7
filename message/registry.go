package message

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/errors"
)

// PayloadFactory creates an empty payload instance for a message type.
// The codec fills the instance from wire bytes via UnmarshalJSON.
type PayloadFactory func() Payload

// Migration converts a payload document from one schema version to another.
// It receives the raw payload JSON as found on the wire and returns payload
// JSON conforming to the target version. Migrations are registered
// explicitly; without one, a version mismatch is a hard failure.
type Migration func(raw json.RawMessage) (json.RawMessage, error)

// Descriptor binds a message type to its payload factory and constraints.
// Descriptors are registered before use; the codec fails fast when a type
// has no descriptor.
type Descriptor struct {
	Type        Type           // Message type this descriptor defines
	Factory     PayloadFactory // Creates empty payload instances
	Description string         // Human-readable description
	Constraint  []byte         // Optional JSON Schema document applied to payload bytes before unmarshalling

	compiled *gojsonschema.Schema
}

// Registry manages schema descriptors and migration rules.
// It provides thread-safe registration and lookup keyed by the dotted
// type notation ("domain.category.version").
type Registry struct {
	descriptors map[string]*Descriptor
	migrations  map[string]Migration // key: "from -> to"
	mu          sync.RWMutex
}

// NewRegistry creates a new empty schema registry.
func NewRegistry() *Registry {
	return &Registry{
		descriptors: make(map[string]*Descriptor),
		migrations:  make(map[string]Migration),
	}
}

// Register registers a schema descriptor with validation.
// Returns an error if the descriptor is incomplete, its constraint document
// does not compile, or the type is already registered.
func (r *Registry) Register(descriptor *Descriptor) error {
	if descriptor == nil {
		return errors.WrapUnsupportedConfig(errors.ErrInvalidConfig,
			"Registry", "Register", "descriptor validation")
	}
	if descriptor.Factory == nil {
		return errors.WrapUnsupportedConfig(errors.ErrInvalidConfig,
			"Registry", "Register", "factory function validation")
	}
	if !descriptor.Type.IsValid() {
		return errors.WrapUnsupportedConfig(errors.ErrInvalidConfig,
			"Registry", "Register", "type validation")
	}

	if len(descriptor.Constraint) > 0 {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(descriptor.Constraint))
		if err != nil {
			return errors.WrapUnsupportedConfig(err,
				"Registry", "Register", "constraint document compilation")
		}
		descriptor.compiled = schema
	}

	key := descriptor.Type.Key()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.descriptors[key]; exists {
		return errors.WrapUnsupportedConfig(
			fmt.Errorf("schema %q is already registered", key),
			"Registry", "Register", "duplicate schema check")
	}

	r.descriptors[key] = descriptor
	return nil
}

// Lookup returns the descriptor for a message type, failing fast when the
// type has no registered schema.
func (r *Registry) Lookup(t Type) (*Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descriptor, ok := r.descriptors[t.Key()]
	if !ok {
		return nil, errors.WrapValidation(errors.ErrSchemaNotRegistered,
			"Registry", "Lookup", fmt.Sprintf("schema %q", t.Key()))
	}
	return descriptor, nil
}

// Has reports whether a descriptor is registered for the given type.
func (r *Registry) Has(t Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.descriptors[t.Key()]
	return ok
}

// Types returns the keys of all registered schema types.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.descriptors))
	for key := range r.descriptors {
		keys = append(keys, key)
	}
	return keys
}

// RegisterMigration registers an explicit migration rule bridging two
// schema versions of the same family. Both endpoints must already have
// descriptors registered.
func (r *Registry) RegisterMigration(from, to Type, fn Migration) error {
	if fn == nil {
		return errors.WrapUnsupportedConfig(errors.ErrInvalidConfig,
			"Registry", "RegisterMigration", "migration function validation")
	}
	if !from.SameSchema(to) {
		return errors.WrapUnsupportedConfig(
			fmt.Errorf("migration %q -> %q crosses schema families", from.Key(), to.Key()),
			"Registry", "RegisterMigration", "schema family check")
	}
	if !r.Has(from) || !r.Has(to) {
		return errors.WrapUnsupportedConfig(errors.ErrSchemaNotRegistered,
			"Registry", "RegisterMigration", "endpoint descriptor check")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.migrations[migrationKey(from, to)] = fn
	return nil
}

// migration returns the registered migration rule between two versions,
// or nil when none exists.
func (r *Registry) migration(from, to Type) Migration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.migrations[migrationKey(from, to)]
}

// validateConstraint applies the descriptor's JSON Schema constraint
// document to raw payload bytes. A nil constraint always passes.
func (d *Descriptor) validateConstraint(raw json.RawMessage) error {
	if d.compiled == nil {
		return nil
	}

	result, err := d.compiled.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("constraint evaluation: %w", err)
	}
	if !result.Valid() {
		first := result.Errors()[0]
		return fmt.Errorf("constraint violation at %s: %s", first.Field(), first.Description())
	}
	return nil
}

func migrationKey(from, to Type) string {
	return from.Key() + " -> " + to.Key()
}
