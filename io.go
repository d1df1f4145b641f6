// File: lixenwraith/composer/io.go
package composer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Export encodes the resolved values of the instance, nested instances
// included, as a text blob. Unset fields are omitted. TOML has no null, so
// explicit nil values are omitted from TOML output as well.
func (inst *Instance) Export(format Format) ([]byte, error) {
	snapshot, err := inst.Snapshot()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := encodeTo(&buf, format, snapshot); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Dump writes the instance to w in the given format.
func (inst *Instance) Dump(w io.Writer, format Format) error {
	data, err := inst.Export(format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func encodeTo(w io.Writer, format Format, data map[string]any) error {
	switch format {
	case FormatTOML:
		encoder := toml.NewEncoder(w)
		if err := encoder.Encode(dropNil(data)); err != nil {
			return fmt.Errorf("failed to marshal data to TOML: %w", err)
		}
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(data); err != nil {
			return fmt.Errorf("failed to marshal data to YAML: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("failed to marshal data to YAML: %w", err)
		}
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(data); err != nil {
			return fmt.Errorf("failed to marshal data to JSON: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return nil
}

// dropNil returns a copy of a nested map without nil values.
func dropNil(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		switch tv := v.(type) {
		case nil:
			continue
		case map[string]any:
			out[k] = dropNil(tv)
		default:
			out[k] = v
		}
	}
	return out
}
