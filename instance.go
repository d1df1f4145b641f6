// File: lixenwraith/composer/instance.go
package composer

import (
	"fmt"
	"strings"
)

// Instance holds the assigned values of one object built from a Schema.
// Values never assigned resolve to their declared defaults on read.
//
// An Instance is not safe for concurrent use.
type Instance struct {
	schema *Schema
	values map[string]optional // presence means the field has been assigned
	freeze freezePolicy
}

// Schema returns the schema the instance was created from.
func (inst *Instance) Schema() *Schema {
	return inst.schema
}

func (inst *Instance) descriptor(name string) (*Descriptor, error) {
	d, ok := inst.schema.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, inst.schema.name, name)
	}
	return d, nil
}

// Get returns the current value of a field: the assigned value if any,
// otherwise its resolved default. An unset field without a default yields
// nil. Slice values are returned as copies; use List to mutate them.
func (inst *Instance) Get(name string) (any, error) {
	d, err := inst.descriptor(name)
	if err != nil {
		return nil, err
	}
	v, err := inst.resolve(d)
	if err != nil {
		return nil, err
	}
	return cloneSlice(v.value), nil
}

// IsSet reports whether the field has been assigned, either explicitly or by
// materializing a dynamic default or AssignDefaults.
func (inst *Instance) IsSet(name string) bool {
	_, ok := inst.values[name]
	return ok
}

// Set validates and assigns a field value. The freeze policy is consulted
// first: a policy that skips the write returns nil without touching the
// field. A rejected value leaves the field unchanged.
func (inst *Instance) Set(name string, value any) error {
	d, err := inst.descriptor(name)
	if err != nil {
		return err
	}
	return inst.assign(d, some(value))
}

// Reset discards the assigned value of a field so that its default applies
// again. Reset is a write and is subject to the freeze policy.
func (inst *Instance) Reset(name string) error {
	d, err := inst.descriptor(name)
	if err != nil {
		return err
	}
	proceed, err := inst.CheckFrozen(d.name)
	if err != nil || !proceed {
		return err
	}
	delete(inst.values, d.name)
	return nil
}

// resolve implements default resolution for reads.
func (inst *Instance) resolve(d *Descriptor) (optional, error) {
	if v, ok := inst.values[d.name]; ok {
		return v, nil
	}

	switch {
	case d.autoChild:
		child := d.children.New()
		v := some(child)
		inst.values[d.name] = v
		return v, nil

	case d.isDynamic():
		var v optional
		if d.compute != nil {
			computed, err := d.compute(inst)
			if err != nil {
				return none, fmt.Errorf("computing default for %s.%s: %w", d.owner, d.name, err)
			}
			v = some(computed)
		} else {
			ref, err := inst.descriptor(d.dynamicRef)
			if err != nil {
				return none, err
			}
			if v, err = inst.resolve(ref); err != nil {
				return none, err
			}
		}
		if !v.ok {
			// an unset reference is re-evaluated on the next read
			return none, nil
		}
		if err := d.check(v); err != nil {
			return none, err
		}
		v = some(cloneSlice(v.value))
		inst.values[d.name] = v
		return v, nil

	default:
		return d.def, nil
	}
}

// assign is the single write path: freeze check, validation, store, callback.
func (inst *Instance) assign(d *Descriptor, v optional) error {
	proceed, err := inst.CheckFrozen(d.name)
	if err != nil {
		return err
	}
	if !proceed {
		return nil
	}

	if err := d.check(v); err != nil {
		return err
	}

	if v.ok {
		v = some(cloneSlice(v.value))
	}
	inst.values[d.name] = v

	if d.onAssign != nil {
		d.onAssign(inst, d.name, v.value)
	}
	return nil
}

// AssignDefaults materializes every field: each value is read through the
// getter and written back through the setter, so defaults become assigned
// state. With children, nested instances are processed recursively.
func (inst *Instance) AssignDefaults(children bool) error {
	for _, d := range inst.schema.fields {
		v, err := inst.resolve(d)
		if err != nil {
			return err
		}
		if err := inst.assign(d, v); err != nil {
			return err
		}

		if children && d.children != nil {
			if child, ok := v.value.(*Instance); ok && child != nil {
				if err := child.AssignDefaults(children); err != nil {
					return fmt.Errorf("%s.%s: %w", inst.schema.name, d.name, err)
				}
			}
		}
	}
	return nil
}

// Block runs a block operation such as "with_http_client": the nested
// instance is fetched, its enable field (if declared) is set to true, fn is
// called with it, and the field is re-assigned so the parent's freeze policy,
// validation and callbacks apply. The nested instance is returned.
func (inst *Instance) Block(op string, fn func(child *Instance) error) (*Instance, error) {
	name, ok := inst.schema.ops[op]
	if !ok {
		return nil, fmt.Errorf("%w: block operation %s.%s", ErrUnknownField, inst.schema.name, op)
	}
	d := inst.schema.index[name]
	if d.block == nil || d.block.BlockName != op {
		return nil, fmt.Errorf("%w: %s.%s is not a block operation", ErrUnknownField, inst.schema.name, op)
	}

	child, err := inst.blockChild(d)
	if err != nil {
		return nil, err
	}

	if d.block.EnableField != "" {
		if err := child.Set(d.block.EnableField, true); err != nil {
			return nil, err
		}
	}

	if fn != nil {
		if err := fn(child); err != nil {
			return nil, err
		}
	}

	if err := inst.assign(d, some(child)); err != nil {
		return nil, err
	}
	return child, nil
}

// Enabled answers the enable query of a block field. Both "http_client" and
// "http_client?" are accepted.
func (inst *Instance) Enabled(name string) (bool, error) {
	d, err := inst.descriptor(strings.TrimSuffix(name, "?"))
	if err != nil {
		return false, err
	}
	if d.block == nil || d.block.EnableField == "" {
		return false, fmt.Errorf("%w: %s.%s has no enable field", ErrUnknownField, inst.schema.name, d.name)
	}

	child, err := inst.blockChild(d)
	if err != nil {
		return false, err
	}
	return child.Bool(d.block.EnableField)
}

func (inst *Instance) blockChild(d *Descriptor) (*Instance, error) {
	v, err := inst.resolve(d)
	if err != nil {
		return nil, err
	}
	child, ok := v.value.(*Instance)
	if !ok || child == nil {
		return nil, fmt.Errorf("%w: %s.%s holds no %s instance", ErrValidation, inst.schema.name, d.name, d.children.name)
	}
	return child, nil
}

// nested returns the nested instances currently held, in declaration order.
func (inst *Instance) nested() ([]*Instance, error) {
	var out []*Instance
	for _, d := range inst.schema.fields {
		if d.children == nil {
			continue
		}
		v, err := inst.resolve(d)
		if err != nil {
			return nil, err
		}
		if child, ok := v.value.(*Instance); ok && child != nil {
			out = append(out, child)
		}
	}
	return out, nil
}

// GetPath reads a field through nested instances by dotted path,
// e.g. "http_client.timeout".
func (inst *Instance) GetPath(path string) (any, error) {
	owner, d, err := inst.walk(path)
	if err != nil {
		return nil, err
	}
	v, err := owner.resolve(d)
	if err != nil {
		return nil, err
	}
	return cloneSlice(v.value), nil
}

// SetPath assigns a field through nested instances by dotted path. The write
// is governed by the owning instance's freeze policy.
func (inst *Instance) SetPath(path string, value any) error {
	owner, d, err := inst.walk(path)
	if err != nil {
		return err
	}
	return owner.assign(d, some(value))
}

// walk resolves a dotted path to the instance owning the last segment and
// that segment's descriptor.
func (inst *Instance) walk(path string) (*Instance, *Descriptor, error) {
	segments := strings.Split(path, ".")
	current := inst
	for i, segment := range segments {
		d, err := current.descriptor(segment)
		if err != nil {
			return nil, nil, err
		}
		if i == len(segments)-1 {
			return current, d, nil
		}
		if d.children == nil {
			return nil, nil, fmt.Errorf("%w: %s.%s is not a nested field in path %q", ErrInvalidArgument, current.schema.name, segment, path)
		}
		v, err := current.resolve(d)
		if err != nil {
			return nil, nil, err
		}
		child, ok := v.value.(*Instance)
		if !ok || child == nil {
			return nil, nil, fmt.Errorf("%w: %s.%s holds no nested instance in path %q", ErrInvalidArgument, current.schema.name, segment, path)
		}
		current = child
	}
	return nil, nil, fmt.Errorf("%w: empty path", ErrInvalidArgument)
}
