// File: lixenwraith/composer/schema.go
package composer

import (
	"os"

	"github.com/rs/zerolog"
)

// reservedNames are the instance operations a field may not shadow.
var reservedNames = map[string]bool{
	"get":             true,
	"set":             true,
	"list":            true,
	"block":           true,
	"enabled":         true,
	"freeze":          true,
	"check_frozen":    true,
	"assign_defaults": true,
	"schema":          true,
	"clone":           true,
	"decode":          true,
	"export":          true,
	"import":          true,
}

// Schema is an ordered registry of field declarations. It plays the role of a
// composed class: fields are declared once, then the schema is sealed and
// instances are created from it with New.
//
// A Schema is not safe for concurrent declaration. Once sealed it is
// read-only.
type Schema struct {
	name   string
	fields []*Descriptor
	index  map[string]*Descriptor
	ops    map[string]string // block and query operation name -> field name
	sealed bool
	logger zerolog.Logger
}

// NewSchema creates an empty schema. The name is used in messages and as the
// type name when the schema is nested into another.
func NewSchema(name string) *Schema {
	return &Schema{
		name:   name,
		index:  make(map[string]*Descriptor),
		ops:    make(map[string]string),
		logger: defaultLogger(),
	}
}

func defaultLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).Level(zerolog.WarnLevel).With().Timestamp().Logger()
}

// SetLogger replaces the logger used for frozen-field warnings by instances
// of this schema.
func (s *Schema) SetLogger(logger zerolog.Logger) {
	s.logger = logger
}

// Logger returns the schema logger.
func (s *Schema) Logger() zerolog.Logger {
	return s.logger
}

// Name returns the schema name.
func (s *Schema) Name() string { return s.name }

// Accepts reports whether v is an instance of this schema.
func (s *Schema) Accepts(v any) bool {
	inst, ok := v.(*Instance)
	return ok && inst != nil && inst.schema == s
}

// Seal finalizes the schema. Further declarations fail with ErrSealed.
// Sealing is idempotent.
func (s *Schema) Seal() {
	s.sealed = true
}

// Sealed reports whether the schema has been finalized.
func (s *Schema) Sealed() bool { return s.sealed }

// Descriptors returns the declared fields in declaration order.
func (s *Schema) Descriptors() []*Descriptor {
	out := make([]*Descriptor, len(s.fields))
	copy(out, s.fields)
	return out
}

// Descriptor returns the declaration of a field.
func (s *Schema) Descriptor(name string) (*Descriptor, bool) {
	d, ok := s.index[name]
	return d, ok
}

// Names returns the field names in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, 0, len(s.fields))
	for _, d := range s.fields {
		names = append(names, d.name)
	}
	return names
}

// Children returns the nested schemas keyed by field name.
func (s *Schema) Children() map[string]*Schema {
	out := make(map[string]*Schema)
	for _, d := range s.fields {
		if d.children != nil {
			out[d.name] = d.children
		}
	}
	return out
}

// New seals the schema and returns a fresh instance with no assigned values.
func (s *Schema) New() *Instance {
	s.Seal()
	return &Instance{
		schema: s,
		values: make(map[string]optional),
		freeze: unfrozen{},
	}
}

// defined reports whether name is taken by a field, an operation or the
// instance API.
func (s *Schema) defined(name string) bool {
	if _, ok := s.index[name]; ok {
		return true
	}
	if _, ok := s.ops[name]; ok {
		return true
	}
	return reservedNames[name]
}
