// File: lixenwraith/composer/descriptor.go
package composer

// optional distinguishes "no value supplied" from any user value,
// including an intentional nil.
type optional struct {
	value any
	ok    bool
}

func some(v any) optional { return optional{value: v, ok: true} }

var none = optional{}

// ValidatorFunc reports whether a value is acceptable for a field. It is only
// called for values whose type is already in the field's allowed set, and
// never for the unset state. A panic inside a validator is reported as an
// error of the field's configured kind.
type ValidatorFunc func(value any) bool

// ComputeFunc produces a dynamic default from the owning instance.
type ComputeFunc func(inst *Instance) (any, error)

// AssignFunc is invoked after every successful assignment of a field.
type AssignFunc func(inst *Instance, name string, value any)

// BlockInfo describes the block operation attached to a nested field.
type BlockInfo struct {
	// BlockName is the operation name, e.g. "with_http_client".
	BlockName string
	// EnableField is the child's boolean field set to true by the block, if any.
	EnableField string
}

// Descriptor is the immutable metadata for one declared field.
type Descriptor struct {
	name         string
	owner        string
	allowed      []Type
	def          optional
	dynamicRef   string
	compute      ComputeFunc
	defaultShown string
	desc         string
	validator    ValidatorFunc
	invalidMsg   func(value any) string
	validErr     error
	err          error
	children     *Schema
	block        *BlockInfo
	onAssign     AssignFunc
	autoChild    bool
}

// Name returns the field name.
func (d *Descriptor) Name() string { return d.name }

// Owner returns the name of the declaring schema.
func (d *Descriptor) Owner() string { return d.owner }

// Allowed returns a copy of the allowed type set.
func (d *Descriptor) Allowed() []Type {
	out := make([]Type, len(d.allowed))
	copy(out, d.allowed)
	return out
}

// Default returns the static default and whether one was supplied.
func (d *Descriptor) Default() (any, bool) { return d.def.value, d.def.ok }

// DynamicRef returns the name of the field this field defaults to, if any.
func (d *Descriptor) DynamicRef() string { return d.dynamicRef }

// HasCompute reports whether the default is computed by a function.
func (d *Descriptor) HasCompute() bool { return d.compute != nil }

// DefaultShown returns the display override used by the scaffold generator.
func (d *Descriptor) DefaultShown() string { return d.defaultShown }

// Description returns the field description.
func (d *Descriptor) Description() string { return d.desc }

// Children returns the nested schema, or nil for leaf fields.
func (d *Descriptor) Children() *Schema { return d.children }

// Block returns the block metadata, or nil when the field is not a block.
func (d *Descriptor) Block() *BlockInfo {
	if d.block == nil {
		return nil
	}
	b := *d.block
	return &b
}

// isDynamic reports whether the default is resolved at read time.
func (d *Descriptor) isDynamic() bool {
	return d.dynamicRef != "" || d.compute != nil
}

// attrSpec accumulates AttrOption values before validation.
type attrSpec struct {
	def          optional
	dynamicRef   string
	compute      ComputeFunc
	defaultShown string
	desc         string
	validator    ValidatorFunc
	invalidMsg   func(value any) string
	validErr     error
	err          error
	onAssign     AssignFunc
	block        *BlockInfo
}

// AttrOption configures a field declaration.
type AttrOption func(*attrSpec)

// WithDefault sets a static default. A nil default is a supplied default and
// requires Nil in the allowed set.
func WithDefault(value any) AttrOption {
	return func(s *attrSpec) { s.def = some(value) }
}

// WithDynamicDefault defaults the field to the current value of another,
// already declared field of the same schema.
func WithDynamicDefault(field string) AttrOption {
	return func(s *attrSpec) { s.dynamicRef = field }
}

// WithComputedDefault defaults the field to the result of fn, evaluated on
// first read.
func WithComputedDefault(fn ComputeFunc) AttrOption {
	return func(s *attrSpec) { s.compute = fn }
}

// WithDefaultShown overrides the default rendered in generated scaffolds.
func WithDefaultShown(shown string) AttrOption {
	return func(s *attrSpec) { s.defaultShown = shown }
}

// WithDesc sets the field description.
func WithDesc(desc string) AttrOption {
	return func(s *attrSpec) { s.desc = desc }
}

// WithValidator sets a custom validator. nil keeps the permissive default.
func WithValidator(fn ValidatorFunc) AttrOption {
	return func(s *attrSpec) { s.validator = fn }
}

// WithInvalidMessage appends a fixed message to validation failures.
func WithInvalidMessage(msg string) AttrOption {
	return func(s *attrSpec) {
		s.invalidMsg = func(any) string { return msg }
	}
}

// WithInvalidMessageFunc appends a message built from the rejected value.
func WithInvalidMessageFunc(fn func(value any) string) AttrOption {
	return func(s *attrSpec) { s.invalidMsg = fn }
}

// WithValidationError overrides the error kind used for rejected values.
// Returned errors still match ErrValidation.
func WithValidationError(kind error) AttrOption {
	return func(s *attrSpec) { s.validErr = kind }
}

// WithError overrides the error kind used when a custom validator panics.
// Returned errors still match ErrValidation.
func WithError(kind error) AttrOption {
	return func(s *attrSpec) { s.err = kind }
}

// WithOnAssign registers a callback run after every successful assignment.
func WithOnAssign(fn AssignFunc) AttrOption {
	return func(s *attrSpec) { s.onAssign = fn }
}

// withBlock is used by RegisterBlock.
func withBlock(info BlockInfo) AttrOption {
	return func(s *attrSpec) { s.block = &info }
}
