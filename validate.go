// File: lixenwraith/composer/validate.go
package composer

import (
	"fmt"
	"strings"
)

// ValidationResult is the outcome of running a value through a field's
// validator pipeline.
type ValidationResult struct {
	Valid   bool
	Message string
}

// Validate runs v through the field's pipeline: allowed-type check, then the
// custom validator. The returned error is non-nil only when the custom
// validator panicked.
func (d *Descriptor) Validate(v any) (ValidationResult, error) {
	return d.validate(some(v))
}

// validate is the pipeline shared by declaration-time default checks and
// every assignment. The unset state is always valid and skips the custom
// validator.
func (d *Descriptor) validate(v optional) (ValidationResult, error) {
	if !v.ok {
		return ValidationResult{Valid: true}, nil
	}

	valid := acceptsType(d.allowed, v.value)
	if valid && d.validator != nil {
		ok, err := d.runValidator(v.value)
		if err != nil {
			return ValidationResult{}, err
		}
		valid = ok
	}

	if valid {
		return ValidationResult{Valid: true}, nil
	}
	return ValidationResult{Valid: false, Message: d.failureMessage(v.value)}, nil
}

// runValidator invokes the custom validator, converting a panic into an
// error of the field's configured kind.
func (d *Descriptor) runValidator(v any) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			err = newKindError(d.err, ErrValidation, "%v occurred during validation for value [%v]. Check custom validator for %s.%s", r, v, d.owner, d.name)
		}
	}()
	return d.validator(v), nil
}

func (d *Descriptor) failureMessage(v any) string {
	parts := []string{
		fmt.Sprintf("%s.%s failed validation. %s is expected to be %s. Received [%v](%s)", d.owner, d.name, d.name, typeNames(d.allowed), v, dynamicTypeName(v)),
	}
	if d.invalidMsg != nil {
		if msg := d.invalidMsg(v); msg != "" {
			parts = append(parts, msg)
		}
	}
	return strings.Join(parts, " ")
}

// dynamicTypeName names the type of v for messages.
func dynamicTypeName(v any) string {
	if v == nil {
		return "nil"
	}
	if inst, ok := v.(*Instance); ok && inst != nil {
		return inst.schema.name
	}
	return fmt.Sprintf("%T", v)
}

// check validates v and converts a rejection into an error.
func (d *Descriptor) check(v optional) error {
	res, err := d.validate(v)
	if err != nil {
		return err
	}
	if !res.Valid {
		return newKindError(d.validErr, ErrValidation, "%s", res.Message)
	}
	return nil
}
