// File: lixenwraith/composer/list.go
package composer

import (
	"fmt"
	"reflect"
)

// List is a mutation handle for a slice-typed field. Every mutation builds a
// new slice and assigns it through Instance.Set, so freeze policies,
// validators and assignment callbacks see in-place edits exactly like full
// reassignments. The stored slice, including a shared default, is never
// modified.
type List struct {
	inst *Instance
	d    *Descriptor
	typ  reflect.Type
}

// List returns the mutation handle for a field whose allowed types include a
// slice type.
func (inst *Instance) List(name string) (*List, error) {
	d, err := inst.descriptor(name)
	if err != nil {
		return nil, err
	}
	typ, ok := sliceType(d.allowed)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s does not allow a slice type", ErrInvalidArgument, inst.schema.name, name)
	}
	return &List{inst: inst, d: d, typ: typ}, nil
}

// current returns a copy of the field's slice, or an empty slice of the
// declared type when the field holds no slice.
func (l *List) current() (reflect.Value, error) {
	v, err := l.inst.resolve(l.d)
	if err != nil {
		return reflect.Value{}, err
	}
	rv := reflect.ValueOf(v.value)
	if !v.ok || !rv.IsValid() || rv.Kind() != reflect.Slice {
		return reflect.MakeSlice(l.typ, 0, 0), nil
	}
	out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
	reflect.Copy(out, rv)
	return out, nil
}

func (l *List) element(seq reflect.Value, v any) (reflect.Value, error) {
	elemType := seq.Type().Elem()
	if v == nil {
		switch elemType.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map:
			return reflect.Zero(elemType), nil
		}
		return reflect.Value{}, newKindError(l.d.validErr, ErrValidation, "%s.%s cannot hold nil elements of type %s", l.d.owner, l.d.name, elemType)
	}
	ev := reflect.ValueOf(v)
	if !ev.Type().AssignableTo(elemType) {
		return reflect.Value{}, newKindError(l.d.validErr, ErrValidation, "%s.%s elements must be %s. Received [%v](%T)", l.d.owner, l.d.name, elemType, v, v)
	}
	return ev, nil
}

// Append adds values to the end of the sequence.
func (l *List) Append(values ...any) error {
	seq, err := l.current()
	if err != nil {
		return err
	}
	for _, v := range values {
		ev, err := l.element(seq, v)
		if err != nil {
			return err
		}
		seq = reflect.Append(seq, ev)
	}
	return l.inst.assign(l.d, some(seq.Interface()))
}

// SetAt replaces the element at index i.
func (l *List) SetAt(i int, value any) error {
	seq, err := l.current()
	if err != nil {
		return err
	}
	if i < 0 || i >= seq.Len() {
		return fmt.Errorf("%w: index %d out of range for %s.%s (len %d)", ErrInvalidArgument, i, l.d.owner, l.d.name, seq.Len())
	}
	ev, err := l.element(seq, value)
	if err != nil {
		return err
	}
	seq.Index(i).Set(ev)
	return l.inst.assign(l.d, some(seq.Interface()))
}

// Delete removes the element at index i.
func (l *List) Delete(i int) error {
	seq, err := l.current()
	if err != nil {
		return err
	}
	if i < 0 || i >= seq.Len() {
		return fmt.Errorf("%w: index %d out of range for %s.%s (len %d)", ErrInvalidArgument, i, l.d.owner, l.d.name, seq.Len())
	}
	seq = reflect.AppendSlice(seq.Slice(0, i), seq.Slice(i+1, seq.Len()))
	return l.inst.assign(l.d, some(seq.Interface()))
}

// Len returns the number of elements.
func (l *List) Len() (int, error) {
	seq, err := l.current()
	if err != nil {
		return 0, err
	}
	return seq.Len(), nil
}

// Values returns a copy of the elements.
func (l *List) Values() ([]any, error) {
	seq, err := l.current()
	if err != nil {
		return nil, err
	}
	out := make([]any, seq.Len())
	for i := range out {
		out[i] = seq.Index(i).Interface()
	}
	return out, nil
}
