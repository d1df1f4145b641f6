// File: lixenwraith/composer/convenience.go
package composer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// GenerateFlags creates a pflag.FlagSet with one flag per leaf path
func (s *Schema) GenerateFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet(s.name, pflag.ContinueOnError)
	// Paths are unique within a fresh set
	_ = s.RegisterFlags(fs)
	return fs
}

// RegisterFlags adds one flag per leaf path to fs, named after the dotted path.
// The flag type follows the field's first concrete allowed type and its
// static default. Fields without a flag-compatible type get a string flag.
func (s *Schema) RegisterFlags(fs *pflag.FlagSet) error {
	for _, path := range s.Paths() {
		if fs.Lookup(path) != nil {
			return fmt.Errorf("%w: flag %q already defined", ErrRegistration, path)
		}
		d, _ := s.descriptorAt(path)

		usage := d.desc
		if usage == "" {
			usage = fmt.Sprintf("Config: %s", path)
		}
		def, _ := d.Default()

		target, _ := primaryType(d.allowed)
		kind := reflect.Invalid
		if target != nil {
			kind = target.Kind()
		}

		switch {
		case target == reflect.TypeOf(time.Duration(0)):
			v, _ := def.(time.Duration)
			fs.Duration(path, v, usage)
		case kind == reflect.Bool:
			v, _ := def.(bool)
			fs.Bool(path, v, usage)
		case kind == reflect.Int:
			v, _ := def.(int)
			fs.Int(path, v, usage)
		case kind == reflect.Int64:
			v, _ := def.(int64)
			fs.Int64(path, v, usage)
		case kind == reflect.Float64:
			v, _ := def.(float64)
			fs.Float64(path, v, usage)
		case kind == reflect.Slice && target.Elem().Kind() == reflect.String:
			v, _ := def.([]string)
			fs.StringSlice(path, v, usage)
		default:
			text := ""
			if def != nil {
				text = fmt.Sprintf("%v", def)
			}
			fs.String(path, text, usage)
		}
	}
	return nil
}

// BindFlags assigns every flag changed on the command line whose name is a
// declared path.
func (inst *Instance) BindFlags(fs *pflag.FlagSet) error {
	found := make(map[string]any)
	var errs []error

	fs.Visit(func(f *pflag.Flag) {
		if _, err := inst.schema.descriptorAt(f.Name); err != nil {
			return
		}
		if f.Value.Type() == "stringSlice" {
			values, err := fs.GetStringSlice(f.Name)
			if err != nil {
				errs = append(errs, fmt.Errorf("flag %s: %w", f.Name, err))
				return
			}
			setNestedValue(found, f.Name, values)
			return
		}
		setNestedValue(found, f.Name, f.Value.String())
	})

	if len(errs) > 0 {
		return fmt.Errorf("failed to bind %d flags: %w", len(errs), errors.Join(errs...))
	}
	if len(found) == 0 {
		return nil
	}
	return inst.apply("flags", found)
}

// descriptorAt finds the declaration of a leaf field by dotted path.
func (s *Schema) descriptorAt(path string) (*Descriptor, error) {
	segments := strings.Split(path, ".")
	current := s
	for i, segment := range segments {
		d, ok := current.index[segment]
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, current.name, segment)
		}
		if i == len(segments)-1 {
			return d, nil
		}
		if d.children == nil {
			return nil, fmt.Errorf("%w: %s.%s is not a nested field", ErrUnknownField, current.name, segment)
		}
		current = d.children
	}
	return nil, fmt.Errorf("%w: empty path", ErrUnknownField)
}

// Validate re-checks every resolved value, nested instances included, against
// its field's validator, and checks that each required path has been assigned.
func (inst *Instance) Validate(required ...string) error {
	var errs []error
	var missing []string

	for _, path := range required {
		owner, d, err := inst.walk(path)
		if err != nil {
			missing = append(missing, path+" (not declared)")
			continue
		}
		if !owner.IsSet(d.name) {
			missing = append(missing, path)
		}
	}
	if len(missing) > 0 {
		errs = append(errs, fmt.Errorf("%w: missing required values: %s", ErrValidation, strings.Join(missing, ", ")))
	}

	if err := inst.recheck(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (inst *Instance) recheck() error {
	for _, d := range inst.schema.fields {
		v, err := inst.resolve(d)
		if err != nil {
			return err
		}
		if err := d.check(v); err != nil {
			return err
		}
		if child, ok := v.value.(*Instance); ok && child != nil {
			if err := child.recheck(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Debug returns a formatted string showing every value, its default and
// whether it has been assigned.
func (inst *Instance) Debug() string {
	var b strings.Builder
	b.WriteString("Instance Debug Info:\n")
	b.WriteString(fmt.Sprintf("Schema: %s\n", inst.schema.name))
	b.WriteString(fmt.Sprintf("Frozen: %t\n", inst.Frozen()))
	b.WriteString("Current values:\n")
	inst.debug(&b, "")
	return b.String()
}

func (inst *Instance) debug(b *strings.Builder, prefix string) {
	for _, d := range inst.schema.fields {
		path := prefix + d.name
		v, err := inst.resolve(d)
		if child, ok := v.value.(*Instance); ok && child != nil && err == nil {
			child.debug(b, path+".")
			continue
		}

		b.WriteString(fmt.Sprintf("  %s:\n", path))
		if err != nil {
			b.WriteString(fmt.Sprintf("    Error: %v\n", err))
			continue
		}
		current, serr := inst.String(d.name)
		if serr != nil || !v.ok {
			current = fmt.Sprintf("%v", v.value)
		}
		b.WriteString(fmt.Sprintf("    Current: %s\n", current))
		switch {
		case d.dynamicRef != "":
			b.WriteString(fmt.Sprintf("    Default: -> %s\n", d.dynamicRef))
		case d.compute != nil:
			b.WriteString("    Default: (computed)\n")
		case d.def.ok:
			b.WriteString(fmt.Sprintf("    Default: %v\n", d.def.value))
		}
		b.WriteString(fmt.Sprintf("    Assigned: %t\n", inst.IsSet(d.name)))
	}
}

// Clone creates a deep copy of the instance: assigned values, nested
// instances and freeze policies. Callbacks are not run.
func (inst *Instance) Clone() *Instance {
	clone := &Instance{
		schema: inst.schema,
		values: make(map[string]optional, len(inst.values)),
		freeze: inst.freeze,
	}

	for name, v := range inst.values {
		if child, ok := v.value.(*Instance); ok && child != nil {
			clone.values[name] = some(child.Clone())
			continue
		}
		if v.ok {
			v = some(cloneSlice(v.value))
		}
		clone.values[name] = v
	}

	return clone
}
