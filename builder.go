// File: lixenwraith/composer/builder.go
package composer

import (
	"fmt"
)

// InstanceValidator checks a fully populated instance. It receives the
// instance after every source has been applied and before it is frozen.
type InstanceValidator func(inst *Instance) error

type blob struct {
	format Format
	data   []byte
}

// Builder provides a fluent interface for creating populated instances.
// Sources are applied in a fixed order, later ones overriding earlier ones:
// values, data blobs, environment, arguments.
type Builder struct {
	schema     *Schema
	values     map[string]any
	blobs      []blob
	envOpts    *EnvOptions
	args       []string
	freeze     *FreezeOptions
	assignAll  bool
	err        error
	validators []InstanceValidator
}

// NewBuilder creates a builder for instances of schema
func NewBuilder(schema *Schema) *Builder {
	b := &Builder{
		schema:     schema,
		validators: make([]InstanceValidator, 0),
	}
	if schema == nil {
		b.err = fmt.Errorf("%w: builder requires a schema", ErrInvalidArgument)
	}
	return b
}

// WithValues sets values by dotted path, e.g. {"http_client.timeout": 30}.
// A nested field may also be given a nested map: {"http_client": {"timeout": 30}}.
// Calling it again merges.
func (b *Builder) WithValues(values map[string]any) *Builder {
	if b.values == nil {
		b.values = make(map[string]any, len(values))
	}
	for path, v := range values {
		b.values[path] = v
	}
	return b
}

// WithData adds a text blob to import. Blobs are applied in order.
func (b *Builder) WithData(format Format, data []byte) *Builder {
	b.blobs = append(b.blobs, blob{format: format, data: data})
	return b
}

// WithEnvPrefix enables loading from environment variables with the prefix
func (b *Builder) WithEnvPrefix(prefix string) *Builder {
	if b.envOpts == nil {
		opts := DefaultEnvOptions(prefix)
		b.envOpts = &opts
		return b
	}
	b.envOpts.Prefix = prefix
	return b
}

// WithEnvTransform sets a custom environment variable transformer and
// enables environment loading
func (b *Builder) WithEnvTransform(fn EnvTransformFunc) *Builder {
	if b.envOpts == nil {
		b.envOpts = &EnvOptions{}
	}
	b.envOpts.Transform = fn
	return b
}

// WithArgs sets the command-line arguments
func (b *Builder) WithArgs(args []string) *Builder {
	b.args = args
	return b
}

// WithAssignDefaults materializes every default, nested instances included,
// before the instance is frozen.
func (b *Builder) WithAssignDefaults() *Builder {
	b.assignAll = true
	return b
}

// WithFreeze freezes the built instance after validation
func (b *Builder) WithFreeze(opts FreezeOptions) *Builder {
	if _, err := newFreezePolicy(opts); err != nil && b.err == nil {
		b.err = err
	}
	b.freeze = &opts
	return b
}

// WithValidator adds a validation function that runs at the end of the build process
// Multiple validators can be added and are executed in the order they are added
func (b *Builder) WithValidator(fn InstanceValidator) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build creates the instance with all specified sources applied
func (b *Builder) Build() (*Instance, error) {
	if b.err != nil {
		return nil, b.err
	}

	inst := b.schema.New()

	for path, v := range b.expandValues() {
		if err := inst.SetPath(path, v); err != nil {
			return nil, fmt.Errorf("failed to set %s: %w", path, err)
		}
	}

	for i, blob := range b.blobs {
		if err := inst.Import(blob.format, blob.data); err != nil {
			return nil, fmt.Errorf("failed to import data #%d: %w", i+1, err)
		}
	}

	if b.envOpts != nil {
		if err := inst.LoadEnvWithOptions(*b.envOpts); err != nil {
			return nil, fmt.Errorf("failed to load environment: %w", err)
		}
	}

	if len(b.args) > 0 {
		if err := inst.LoadArgs(b.args); err != nil {
			return nil, fmt.Errorf("failed to load arguments: %w", err)
		}
	}

	if b.assignAll {
		if err := inst.AssignDefaults(true); err != nil {
			return nil, fmt.Errorf("failed to assign defaults: %w", err)
		}
	}

	for _, validator := range b.validators {
		if err := validator(inst); err != nil {
			return nil, fmt.Errorf("instance validation failed: %w", err)
		}
	}

	if b.freeze != nil {
		if err := inst.Freeze(*b.freeze); err != nil {
			return nil, err
		}
	}

	return inst, nil
}

// expandValues flattens nested maps given for nested fields into dotted paths.
func (b *Builder) expandValues() map[string]any {
	out := make(map[string]any, len(b.values))
	for path, v := range b.values {
		if nested, ok := v.(map[string]any); ok {
			if d, err := b.schema.descriptorAt(path); err == nil && d.children != nil {
				for sub, sv := range flattenMap(nested, path) {
					out[sub] = sv
				}
				continue
			}
		}
		out[path] = v
	}
	return out
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *Instance {
	inst, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("composer build failed: %v", err))
	}
	return inst
}

// BuildAndDecode builds the instance and decodes it into target
func (b *Builder) BuildAndDecode(target any) (*Instance, error) {
	inst, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := inst.Decode(target); err != nil {
		return nil, fmt.Errorf("failed to decode built instance into target: %w", err)
	}
	return inst, nil
}
