// File: lixenwraith/composer/type.go
package composer

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// String retrieves a field as a string. An unset field reads as "".
// Stringers use their String method; other scalars are converted weakly.
func (inst *Instance) String(name string) (string, error) {
	val, err := inst.Get(name)
	if err != nil {
		return "", err
	}

	switch v := val.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	case error:
		return v.Error(), nil
	case bool:
		// weak decoding renders bools as "1"/"0"
		return strconv.FormatBool(v), nil
	}

	var out string
	if err := weakDecode(val, &out); err != nil {
		return "", fmt.Errorf("cannot convert type %T to string for field %s: %w", val, name, err)
	}
	return out, nil
}

// Int64 retrieves a field as an int64, converting numbers, numeric strings
// and booleans. Unsigned values above math.MaxInt64 are rejected.
func (inst *Instance) Int64(name string) (int64, error) {
	val, err := inst.scalar(name, "int64")
	if err != nil {
		return 0, err
	}

	if v := reflect.ValueOf(val); v.CanUint() && v.Uint() > math.MaxInt64 {
		return 0, fmt.Errorf("cannot convert unsigned integer %d (type %T) to int64 for field %s: overflow", v.Uint(), val, name)
	}

	var out int64
	if err := weakDecode(val, &out); err != nil {
		return 0, fmt.Errorf("cannot convert [%v](%T) to int64 for field %s: %w", val, val, name, err)
	}
	return out, nil
}

// Bool retrieves a field as a bool. An unset field reads as false.
// Numbers are true when non-zero; strings are parsed.
func (inst *Instance) Bool(name string) (bool, error) {
	val, err := inst.Get(name)
	if err != nil {
		return false, err
	}
	if val == nil {
		return false, nil
	}

	var out bool
	if err := weakDecode(val, &out); err != nil {
		return false, fmt.Errorf("cannot convert [%v](%T) to bool for field %s: %w", val, val, name, err)
	}
	return out, nil
}

// Float64 retrieves a field as a float64, converting numbers, numeric
// strings and booleans.
func (inst *Instance) Float64(name string) (float64, error) {
	val, err := inst.scalar(name, "float64")
	if err != nil {
		return 0, err
	}

	var out float64
	if err := weakDecode(val, &out); err != nil {
		return 0, fmt.Errorf("cannot convert [%v](%T) to float64 for field %s: %w", val, val, name, err)
	}
	return out, nil
}

// scalar reads a field that must hold a value for a numeric conversion.
func (inst *Instance) scalar(name, target string) (any, error) {
	val, err := inst.Get(name)
	if err != nil {
		return nil, err
	}
	if val == nil {
		return nil, fmt.Errorf("value for field %s is unset, cannot convert to %s", name, target)
	}
	return val, nil
}

// Child retrieves a nested instance.
func (inst *Instance) Child(name string) (*Instance, error) {
	val, err := inst.Get(name)
	if err != nil {
		return nil, err
	}
	child, ok := val.(*Instance)
	if !ok || child == nil {
		return nil, fmt.Errorf("%w: field %s holds %T, not a nested instance", ErrInvalidArgument, name, val)
	}
	return child, nil
}
