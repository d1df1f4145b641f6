// File: lixenwraith/composer/loader.go
package composer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format names a text encoding accepted by Import and produced by Export.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	// FormatAuto detects the encoding from content. Import only.
	FormatAuto Format = "auto"
)

// MaxValueSize bounds a single environment or argument value.
const MaxValueSize = 1024 * 1024

// ParseFormat converts a format name, case-insensitively. "yml" and "tml"
// are accepted as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "toml", "tml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "auto", "":
		return FormatAuto, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// Import parses a text blob and assigns every key that names a declared field.
// Nested tables address nested instances. Values are converted to the field's
// declared type where possible and then go through the regular setter, so
// validation and freeze policies apply. Unknown keys are ignored and logged
// at debug level. All assignment failures are reported together.
func (inst *Instance) Import(format Format, data []byte) error {
	parsed, err := parseBlob(format, data)
	if err != nil {
		return err
	}
	return inst.apply(string(format), parsed)
}

func parseBlob(format Format, data []byte) (map[string]any, error) {
	if format == FormatAuto {
		format = detectFormatFromContent(data)
		if format == "" {
			return nil, fmt.Errorf("%w: unable to determine format from content", ErrUnsupportedFormat)
		}
	}

	parsed := make(map[string]any)
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse TOML data: %w", err)
		}
	case FormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber() // Preserve number precision
		if err := decoder.Decode(&parsed); err != nil {
			return nil, fmt.Errorf("failed to parse JSON data: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse YAML data: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return parsed, nil
}

// apply assigns nested data onto the instance in declaration order.
func (inst *Instance) apply(source string, data map[string]any) error {
	var errs []error

	for key := range data {
		if _, ok := inst.schema.index[key]; !ok {
			inst.schema.logger.Debug().
				Str("schema", inst.schema.name).
				Str("source", source).
				Str("key", key).
				Msg("ignoring undeclared key")
		}
	}

	for _, d := range inst.schema.fields {
		raw, exists := data[d.name]
		if !exists {
			continue
		}

		if sub, isMap := raw.(map[string]any); isMap && d.children != nil {
			child, err := inst.childFor(d)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if child == nil {
				continue
			}
			if err := child.apply(source, sub); err != nil {
				errs = append(errs, fmt.Errorf("%s.%s: %w", inst.schema.name, d.name, err))
			}
			continue
		}

		value, err := d.coerce(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := inst.assign(d, some(value)); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// childFor returns the nested instance held by d, creating and assigning a
// fresh one when the field currently holds none.
func (inst *Instance) childFor(d *Descriptor) (*Instance, error) {
	v, err := inst.resolve(d)
	if err != nil {
		return nil, err
	}
	if child, ok := v.value.(*Instance); ok && child != nil {
		return child, nil
	}
	child := d.children.New()
	if err := inst.assign(d, some(child)); err != nil {
		return nil, err
	}
	if stored := inst.values[d.name]; stored.value != any(child) {
		// write skipped by the freeze policy
		return nil, nil
	}
	return child, nil
}

// EnvTransformFunc converts a dotted field path to an environment variable name
type EnvTransformFunc func(path string) string

// EnvOptions configures LoadEnvWithOptions.
type EnvOptions struct {
	// Prefix is prepended to environment variable names
	// Example: "MYAPP_" transforms "http_client.timeout" to "MYAPP_HTTP_CLIENT_TIMEOUT"
	Prefix string

	// Transform customizes how paths map to environment variables
	// If nil, uses default transformation (dots to underscores, uppercase)
	Transform EnvTransformFunc

	// Whitelist limits which paths are checked for env vars (nil = all)
	Whitelist map[string]bool
}

// DefaultEnvOptions returns env options using the default transformation.
func DefaultEnvOptions(prefix string) EnvOptions {
	return EnvOptions{Prefix: prefix}
}

// LoadEnv assigns fields from environment variables named after their dotted
// paths, e.g. prefix "APP_" and path "http_client.timeout" read
// APP_HTTP_CLIENT_TIMEOUT.
func (inst *Instance) LoadEnv(prefix string) error {
	return inst.LoadEnvWithOptions(DefaultEnvOptions(prefix))
}

// LoadEnvWithOptions is LoadEnv with a custom transformation or whitelist.
func (inst *Instance) LoadEnvWithOptions(opts EnvOptions) error {
	transform := opts.Transform
	if transform == nil {
		transform = defaultEnvTransform(opts.Prefix)
	}

	found := make(map[string]any)
	for _, path := range inst.schema.Paths() {
		if opts.Whitelist != nil && !opts.Whitelist[path] {
			continue
		}

		envVar := transform(path)
		if value, exists := os.LookupEnv(envVar); exists {
			if len(value) > MaxValueSize {
				return fmt.Errorf("%w: environment variable %s exceeds %d bytes", ErrInvalidArgument, envVar, MaxValueSize)
			}
			setNestedValue(found, path, parseValue(value))
		}
	}

	if len(found) == 0 {
		return nil
	}
	return inst.apply("env", found)
}

// DiscoverEnv returns the environment variables currently set for declared
// paths, keyed by path.
func (inst *Instance) DiscoverEnv(prefix string) map[string]string {
	transform := defaultEnvTransform(prefix)
	discovered := make(map[string]string)
	for _, path := range inst.schema.Paths() {
		envVar := transform(path)
		if _, exists := os.LookupEnv(envVar); exists {
			discovered[path] = envVar
		}
	}
	return discovered
}

// LoadArgs assigns fields from command-line style arguments:
// "--timeout=30", "--http_client.enable", "--name value".
// Non-flag arguments are skipped.
func (inst *Instance) LoadArgs(args []string) error {
	parsed, err := parseArgs(args)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	if len(parsed) == 0 {
		return nil
	}
	return inst.apply("args", parsed)
}

// Paths returns the dotted paths of every leaf field, descending into nested
// schemas, in declaration order.
func (s *Schema) Paths() []string {
	var paths []string
	var walk func(schema *Schema, prefix string)
	walk = func(schema *Schema, prefix string) {
		for _, d := range schema.fields {
			path := d.name
			if prefix != "" {
				path = prefix + "." + d.name
			}
			if d.children != nil {
				walk(d.children, path)
				continue
			}
			paths = append(paths, path)
		}
	}
	walk(s, "")
	return paths
}

// defaultEnvTransform creates the default environment variable transformer
func defaultEnvTransform(prefix string) EnvTransformFunc {
	return func(path string) string {
		env := strings.ReplaceAll(path, ".", "_")
		env = strings.ToUpper(env)
		if prefix != "" {
			env = prefix + env
		}
		return env
	}
}

// parseValue unquotes a raw string value.
// Type conversion is deferred to the field's coercion through mapstructure.
func parseValue(s string) any {
	// Remove quotes if present
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}

	return s
}

// parseArgs processes command-line arguments into a nested map structure.
func parseArgs(args []string) (map[string]any, error) {
	result := make(map[string]any)
	i := 0
	for i < len(args) {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			// Skip non-flag arguments
			i++
			continue
		}

		argContent := strings.TrimPrefix(arg, "--")
		if argContent == "" {
			// Skip "--" argument if used as a separator
			i++
			continue
		}

		var keyPath string
		var valueStr string

		// Check for "--key=value" format
		if strings.Contains(argContent, "=") {
			parts := strings.SplitN(argContent, "=", 2)
			keyPath = parts[0]
			valueStr = parts[1]
			i++
		} else {
			// Handle "--key value" or "--booleanflag"
			keyPath = argContent
			if i+1 >= len(args) || strings.HasPrefix(args[i+1], "--") {
				valueStr = "true"
				i++
			} else {
				valueStr = args[i+1]
				i += 2
			}
		}

		if keyPath == "" {
			// Skip invalid flags like --=value
			continue
		}
		if len(valueStr) > MaxValueSize {
			return nil, fmt.Errorf("value for %q exceeds %d bytes", keyPath, MaxValueSize)
		}

		for _, segment := range strings.Split(keyPath, ".") {
			if !isValidIdentifier(segment) {
				return nil, fmt.Errorf("invalid command-line key segment %q in path %q", segment, keyPath)
			}
		}

		setNestedValue(result, keyPath, parseValue(valueStr))
	}

	return result, nil
}

// detectFormatFromContent attempts to detect format by parsing
func detectFormatFromContent(data []byte) Format {
	// Try JSON first (strict format)
	var jsonTest map[string]any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		return FormatJSON
	}

	// TOML before YAML: most TOML documents are not valid YAML mappings,
	// while simple "key: value" YAML is rejected by the TOML parser
	var tomlTest map[string]any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return FormatTOML
	}

	var yamlTest map[string]any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil {
		return FormatYAML
	}

	return ""
}
