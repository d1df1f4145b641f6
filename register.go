// File: lixenwraith/composer/register.go
package composer

import (
	"fmt"
	"net"
	"net/url"
	"reflect"
	"strings"
	"time"
)

// DefaultBlockPrefix is prepended to a block field name to form its block
// operation, e.g. "with_http_client".
const DefaultBlockPrefix = "with"

// BlockOptions configures RegisterBlock.
type BlockOptions struct {
	// Desc describes the nested block.
	Desc string
	// Prefix forms the block operation name "<Prefix>_<name>".
	// Empty means DefaultBlockPrefix.
	Prefix string
	// EnableField names a boolean field of the child schema that the block
	// operation sets to true. Optional.
	EnableField string
}

// Register declares a field on the schema.
// The allowed set must contain at least one type and at most one composed
// type (*Schema). A field nesting a schema without a declared default gets a
// fresh child instance per parent on first read. Declarations are checked in
// full before the schema is touched: a failed Register leaves the schema
// unchanged.
func (s *Schema) Register(name string, allowed []Type, opts ...AttrOption) error {
	var spec attrSpec
	for _, opt := range opts {
		if opt != nil {
			opt(&spec)
		}
	}

	d, err := s.buildDescriptor(name, allowed, spec)
	if err != nil {
		return err
	}

	if d.children != nil {
		d.children.Seal()
		// a nested group without a declared default gets its own child instance
		d.autoChild = !d.def.ok && !d.isDynamic()
	}
	s.fields = append(s.fields, d)
	s.index[name] = d
	return nil
}

// MustRegister is like Register but panics on error.
// Intended for package-level schema declarations.
func (s *Schema) MustRegister(name string, allowed []Type, opts ...AttrOption) *Schema {
	if err := s.Register(name, allowed, opts...); err != nil {
		panic(fmt.Sprintf("composer declaration failed: %v", err))
	}
	return s
}

// RegisterBlock declares a field holding an instance of another schema,
// together with a block operation "<prefix>_<name>" run through
// Instance.Block and, when EnableField is set, an enable query "<name>?"
// answered by Instance.Enabled.
//
// Every parent instance owns its own child instance, created on first read.
func (s *Schema) RegisterBlock(name string, child *Schema, opts BlockOptions) error {
	if child == nil {
		return fmt.Errorf("%w: block %s.%s requires a composed schema, got nil", ErrRegistration, s.name, name)
	}
	if len(child.fields) == 0 {
		return fmt.Errorf("%w: block %s.%s: schema %s declares no fields and is not composed", ErrRegistration, s.name, name, child.name)
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultBlockPrefix
	}
	info := BlockInfo{
		BlockName:   prefix + "_" + name,
		EnableField: opts.EnableField,
	}

	if !isValidIdentifier(info.BlockName) {
		return fmt.Errorf("%w: invalid block operation name %q", ErrRegistration, info.BlockName)
	}
	if s.defined(info.BlockName) || info.BlockName == name {
		return fmt.Errorf("%w: [%s] is already defined. Ensure names are unique and do not clash with instance operations", ErrRegistration, info.BlockName)
	}

	query := ""
	if info.EnableField != "" {
		ed, ok := child.index[info.EnableField]
		if !ok {
			return fmt.Errorf("%w: block %s.%s: enable field %q is not declared on %s", ErrRegistration, s.name, name, info.EnableField, child.name)
		}
		if !acceptsType(ed.allowed, true) {
			return fmt.Errorf("%w: block %s.%s: enable field %s.%s does not accept bool", ErrRegistration, s.name, name, child.name, info.EnableField)
		}
		query = name + "?"
		if s.defined(query) {
			return fmt.Errorf("%w: [%s] is already defined", ErrRegistration, query)
		}
	}

	var spec attrSpec
	WithDesc(opts.Desc)(&spec)
	withBlock(info)(&spec)

	d, err := s.buildDescriptor(name, []Type{child}, spec)
	if err != nil {
		return err
	}
	d.autoChild = true

	child.Seal()
	s.fields = append(s.fields, d)
	s.index[name] = d
	s.ops[info.BlockName] = name
	if query != "" {
		s.ops[query] = name
	}
	return nil
}

// buildDescriptor checks a declaration against the schema without mutating it.
func (s *Schema) buildDescriptor(name string, allowed []Type, spec attrSpec) (*Descriptor, error) {
	if s.sealed {
		return nil, fmt.Errorf("%w: cannot declare %s.%s", ErrSealed, s.name, name)
	}
	if !isValidIdentifier(name) {
		return nil, fmt.Errorf("%w: invalid field name %q", ErrRegistration, name)
	}
	if len(allowed) == 0 {
		return nil, fmt.Errorf("%w: %s.%s declares no allowed types", ErrRegistration, s.name, name)
	}

	var children *Schema
	composed := 0
	for _, t := range allowed {
		if t == nil {
			return nil, fmt.Errorf("%w: %s.%s has a nil allowed type", ErrRegistration, s.name, name)
		}
		if cs, ok := t.(*Schema); ok {
			if cs == s {
				return nil, fmt.Errorf("%w: %s.%s cannot nest its own schema", ErrRegistration, s.name, name)
			}
			composed++
			children = cs
		}
	}
	if composed > 1 {
		return nil, fmt.Errorf("%w: %s.%s allowed types contain %d composed schemas. Max 1 is allowed", ErrRegistration, s.name, name, composed)
	}

	if spec.def.ok && (spec.dynamicRef != "" || spec.compute != nil) {
		return nil, fmt.Errorf("%w: %s.%s has both a default and a dynamic default. Only one allowed", ErrRegistration, s.name, name)
	}
	if spec.dynamicRef != "" && spec.compute != nil {
		return nil, fmt.Errorf("%w: %s.%s has both a field reference and a compute function as dynamic default", ErrRegistration, s.name, name)
	}
	if spec.dynamicRef != "" {
		if _, ok := s.index[spec.dynamicRef]; !ok {
			return nil, fmt.Errorf("%w: %s.%s defines dynamic default %q which is not defined. Ensure referenced fields are declared before they are used as dynamic defaults", ErrRegistration, s.name, name, spec.dynamicRef)
		}
	}

	types := make([]Type, len(allowed))
	copy(types, allowed)

	d := &Descriptor{
		name:         name,
		owner:        s.name,
		allowed:      types,
		def:          spec.def,
		dynamicRef:   spec.dynamicRef,
		compute:      spec.compute,
		defaultShown: spec.defaultShown,
		desc:         spec.desc,
		validator:    spec.validator,
		invalidMsg:   spec.invalidMsg,
		validErr:     spec.validErr,
		err:          spec.err,
		children:     children,
		block:        spec.block,
		onAssign:     spec.onAssign,
	}

	if d.def.ok {
		res, err := d.validate(d.def)
		if err != nil {
			return nil, err
		}
		if !res.Valid {
			return nil, newKindError(d.validErr, ErrValidation, "default value [%v] for %s.%s is not valid: %s", d.def.value, s.name, name, res.Message)
		}
	}

	if s.defined(name) {
		return nil, fmt.Errorf("%w: [%s] is already defined. Ensure names are unique and do not clash with instance operations", ErrRegistration, name)
	}

	return d, nil
}

// acceptsType reports whether any allowed type accepts v.
func acceptsType(types []Type, v any) bool {
	for _, t := range types {
		if t.Accepts(v) {
			return true
		}
	}
	return false
}

// RegisterStruct declares one field per exported struct field, using the
// field value as static default. Names come from the `toml` tag, descriptions
// from the `desc` tag. Nested structs become nested schemas named after their
// type. Fields tagged `toml:"-"` are skipped. Failed fields are reported
// together; the others stay declared.
func (s *Schema) RegisterStruct(structWithDefaults any) error {
	v := reflect.ValueOf(structWithDefaults)

	// Handle pointer or direct struct value
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return fmt.Errorf("%w: RegisterStruct requires a non-nil struct pointer or value", ErrInvalidArgument)
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("%w: RegisterStruct requires a struct or struct pointer, got %T", ErrInvalidArgument, structWithDefaults)
	}

	var errors []string
	s.registerFields(v, "", &errors)
	if len(errors) > 0 {
		return fmt.Errorf("%w: failed to register %d field(s): %s", ErrRegistration, len(errors), strings.Join(errors, "; "))
	}
	return nil
}

// leafStructs are struct types declared as single values rather than groups.
var leafStructs = map[reflect.Type]bool{
	reflect.TypeOf(time.Time{}): true,
	reflect.TypeOf(url.URL{}):   true,
	reflect.TypeOf(net.IPNet{}): true,
}

func (s *Schema) registerFields(v reflect.Value, fieldPath string, errors *[]string) {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get(DefaultTagName)
		if tag == "-" {
			continue
		}
		key := field.Name
		if tag != "" {
			if name := strings.Split(tag, ",")[0]; name != "" {
				key = name
			}
		}
		desc := field.Tag.Get("desc")

		fieldType := fieldValue.Type()
		isStruct := fieldValue.Kind() == reflect.Struct && !leafStructs[fieldType]
		isPtrToStruct := fieldValue.Kind() == reflect.Ptr && fieldType.Elem().Kind() == reflect.Struct && !leafStructs[fieldType.Elem()]

		if isStruct || isPtrToStruct {
			nestedValue := fieldValue
			if isPtrToStruct {
				if fieldValue.IsNil() {
					// Skip nil pointers, as their fields have no defaults
					continue
				}
				nestedValue = fieldValue.Elem()
			}

			schemaName := nestedValue.Type().Name()
			if schemaName == "" {
				schemaName = strings.ReplaceAll(titleize(key), " ", "")
			}
			child := NewSchema(schemaName)
			child.logger = s.logger
			child.registerFields(nestedValue, fieldPath+field.Name+".", errors)
			if err := s.Register(key, []Type{child}, WithDesc(desc)); err != nil {
				*errors = append(*errors, fmt.Sprintf("field %s%s: %v", fieldPath, field.Name, err))
			}
			continue
		}

		allowed := []Type{TypeOf(fieldType)}
		if fieldType.Kind() == reflect.Interface {
			allowed = append(allowed, Nil)
		}
		if err := s.Register(key, allowed, WithDefault(fieldValue.Interface()), WithDesc(desc)); err != nil {
			*errors = append(*errors, fmt.Sprintf("field %s%s (name %s): %v", fieldPath, field.Name, key, err))
		}
	}
}
