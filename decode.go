// File: lixenwraith/composer/decode.go
package composer

import (
	"fmt"
	"net"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// DefaultTagName is the struct tag read by Decode.
const DefaultTagName = "toml"

// Snapshot returns the resolved values of the instance as a nested map keyed
// by field name. Nested instances become nested maps; unset fields are omitted.
func (inst *Instance) Snapshot() (map[string]any, error) {
	out := make(map[string]any, len(inst.schema.fields))
	for _, d := range inst.schema.fields {
		v, err := inst.resolve(d)
		if err != nil {
			return nil, err
		}
		if !v.ok {
			continue
		}
		if child, ok := v.value.(*Instance); ok && child != nil {
			sub, err := child.Snapshot()
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", inst.schema.name, d.name, err)
			}
			out[d.name] = sub
			continue
		}
		out[d.name] = cloneSlice(v.value)
	}
	return out, nil
}

// Decode copies the resolved values into target, a non-nil pointer to a
// struct or map. Struct fields are matched by their "toml" tag.
func (inst *Instance) Decode(target any) error {
	return inst.DecodeSubtree("", target)
}

// DecodeSubtree is like Decode but starts at a dot-separated path of nested
// fields, e.g. "http_client.retry".
func (inst *Instance) DecodeSubtree(basePath string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("%w: decode target must be non-nil pointer, got %T", ErrInvalidArgument, target)
	}

	snapshot, err := inst.Snapshot()
	if err != nil {
		return err
	}

	section := navigateToPath(snapshot, basePath)
	sectionMap, ok := section.(map[string]any)
	if !ok {
		if section == nil {
			sectionMap = make(map[string]any)
		} else {
			return fmt.Errorf("%w: path %q refers to non-map value (type %T)", ErrInvalidArgument, basePath, section)
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          DefaultTagName,
		WeaklyTypedInput: true,
		DecodeHook:       decodeHook(),
		ZeroFields:       true,
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(sectionMap); err != nil {
		return fmt.Errorf("decode failed for path %q: %w", basePath, err)
	}
	return nil
}

// coerce converts loosely typed input (parsed text, env vars, flags) into the
// field's first concrete allowed type. Values already accepted pass through.
func (d *Descriptor) coerce(raw any) (any, error) {
	if raw == nil || acceptsType(d.allowed, raw) {
		return raw, nil
	}
	target, ok := primaryType(d.allowed)
	if !ok {
		return raw, nil
	}

	ptr := reflect.New(target)
	if err := weakDecode(raw, ptr.Interface()); err != nil {
		return nil, newKindError(d.validErr, ErrValidation, "%s.%s cannot convert [%v](%T) to %s: %v", d.owner, d.name, raw, raw, target, err)
	}
	return ptr.Elem().Interface(), nil
}

// weakDecode converts input into the value out points to, with weak typing
// and the package decode hooks.
func weakDecode(input, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook:       decodeHook(),
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}
	return decoder.Decode(input)
}

// decodeHook returns the composite decode hook for all type conversions
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		stringToNetIPHookFunc(),
		stringToNetIPNetHookFunc(),
		stringToURLHookFunc(),

		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(time.RFC3339),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// stringToNetIPHookFunc handles net.IP conversion
func stringToNetIPHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf(net.IP{}) {
			return data, nil
		}

		str := data.(string)
		if len(str) > 45 { // Max IPv6 length
			return nil, fmt.Errorf("invalid IP length: %d", len(str))
		}

		ip := net.ParseIP(str)
		if ip == nil {
			return nil, fmt.Errorf("invalid IP address: %s", str)
		}
		return ip, nil
	}
}

// stringToNetIPNetHookFunc handles net.IPNet conversion
func stringToNetIPNetHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		isPtr := t.Kind() == reflect.Ptr
		targetType := t
		if isPtr {
			targetType = t.Elem()
		}
		if targetType != reflect.TypeOf(net.IPNet{}) {
			return data, nil
		}

		str := data.(string)
		if len(str) > 49 { // Max IPv6 CIDR length
			return nil, fmt.Errorf("invalid CIDR length: %d", len(str))
		}
		_, ipnet, err := net.ParseCIDR(str)
		if err != nil {
			return nil, fmt.Errorf("invalid CIDR: %w", err)
		}
		if isPtr {
			return ipnet, nil
		}
		return *ipnet, nil
	}
}

// stringToURLHookFunc handles url.URL conversion
func stringToURLHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		isPtr := t.Kind() == reflect.Ptr
		targetType := t
		if isPtr {
			targetType = t.Elem()
		}
		if targetType != reflect.TypeOf(url.URL{}) {
			return data, nil
		}

		str := data.(string)
		if len(str) > 2048 {
			return nil, fmt.Errorf("URL too long: %d bytes", len(str))
		}
		u, err := url.Parse(str)
		if err != nil {
			return nil, fmt.Errorf("invalid URL: %w", err)
		}
		if isPtr {
			return u, nil
		}
		return *u, nil
	}
}

// navigateToPath traverses nested map to reach the specified path
func navigateToPath(nested map[string]any, path string) any {
	path = strings.TrimSuffix(path, ".")
	if path == "" {
		return nested
	}

	current := any(nested)
	for _, segment := range strings.Split(path, ".") {
		currentMap, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		value, exists := currentMap[segment]
		if !exists {
			return nil
		}
		current = value
	}
	return current
}
