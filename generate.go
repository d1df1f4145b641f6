// File: lixenwraith/composer/generate.go
package composer

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// scaffoldNotice precedes every generated scaffold.
const scaffoldNotice = "=begin\n" +
	"This configuration file lists all the configuration options available.\n" +
	"To change the default value, uncomment the line and change the value.\n" +
	"Please take note: Values set as `=` to a config variable are the current default values when none is assigned\n" +
	"=end\n"

// computedPlaceholder is rendered for computed defaults without a display override.
const computedPlaceholder = "# computed default, set a default shown to display a value"

// GenerateOptions configures GenerateConfig.
type GenerateOptions struct {
	// Wrapping is the statement that opens the configuration block,
	// e.g. "MyLib.configure". Required.
	Wrapping string
	// RequireFile, when set, emits a leading `require "<RequireFile>"` line.
	RequireFile string
	// SpaceCount is the indent width. Zero means 2.
	SpaceCount int
	// ConfigName is the block variable and root of every dotted path.
	// Empty means "config".
	ConfigName string
}

// DefaultGenerateOptions returns the standard options for a wrapping statement.
func DefaultGenerateOptions(wrapping string) GenerateOptions {
	return GenerateOptions{
		Wrapping:   wrapping,
		SpaceCount: 2,
		ConfigName: "config",
	}
}

// GenerateConfig renders a commented scaffold of the schema: every field with
// its description, allowed types and default, nested blocks recursively.
// The output depends only on the declarations, never on instance state.
func (s *Schema) GenerateConfig(opts GenerateOptions) (string, error) {
	if strings.TrimSpace(opts.Wrapping) == "" {
		return "", fmt.Errorf("%w: a wrapping statement is required", ErrInvalidArgument)
	}
	if opts.SpaceCount < 0 {
		return "", fmt.Errorf("%w: negative indent width %d", ErrInvalidArgument, opts.SpaceCount)
	}
	if opts.SpaceCount == 0 {
		opts.SpaceCount = 2
	}
	if opts.ConfigName == "" {
		opts.ConfigName = "config"
	}
	if !isValidIdentifier(opts.ConfigName) {
		return "", fmt.Errorf("%w: invalid config name %q", ErrInvalidArgument, opts.ConfigName)
	}

	g := generator{indent: strings.Repeat(" ", opts.SpaceCount)}
	lines := trimTrailingBlank(g.render(s, []string{opts.ConfigName}))

	var b strings.Builder
	if opts.RequireFile != "" {
		b.WriteString("require \"" + opts.RequireFile + "\"\n\n")
	}
	b.WriteString(scaffoldNotice)
	b.WriteString("\n")
	b.WriteString(opts.Wrapping + " do |" + opts.ConfigName + "|\n")
	for _, line := range lines {
		if line != "" {
			b.WriteString(g.indent + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("end\n")
	return b.String(), nil
}

type generator struct {
	indent string
}

// render produces unindented lines for a registry; path holds the enclosing
// field names starting with the config name.
func (g generator) render(s *Schema, path []string) []string {
	var lines []string
	for _, d := range s.fields {
		switch {
		case d.children != nil && d.block != nil:
			lines = append(lines, g.block(d, path)...)
		case d.children != nil:
			if d.desc != "" {
				lines = append(lines, groupBanner(d.name, d.desc)...)
			}
			lines = append(lines, g.render(d.children, appendPath(path, d.name))...)
		default:
			lines = append(lines, g.leaf(d, path)...)
		}
	}
	return lines
}

func (g generator) leaf(d *Descriptor, path []string) []string {
	var lines []string
	if d.desc != "" {
		lines = append(lines, "# "+d.desc+": "+typeNames(d.allowed))
	}
	lines = append(lines, "# "+dotted(path, d.name)+" = "+renderDefault(d, path), "")
	return lines
}

func (g generator) block(d *Descriptor, path []string) []string {
	lines := []string{"### Block to configure " + titleize(d.name) + " ###"}
	if d.desc != "" {
		lines = append(lines, "# "+d.desc)
	}
	if d.block.EnableField != "" {
		lines = append(lines, "# When using the block, the "+d.block.EnableField+" flag will automatically get set to true")
	}
	lines = append(lines, "# "+dotted(path, d.block.BlockName)+" do |"+d.name+"|")

	for _, inner := range trimTrailingBlank(g.render(d.children, appendPath(path, d.name))) {
		if inner == "" {
			lines = append(lines, "#")
			continue
		}
		lines = append(lines, "# "+g.indent+inner)
	}
	return append(lines, "# end", "")
}

// groupBanner renders the header of a plain nested group.
func groupBanner(name, desc string) []string {
	base := "#########"
	title := titleize(name)
	length := len(base)*2 + 4 + len(title)
	border := strings.Repeat("#", length)
	spacer := "#" + strings.Repeat(" ", length-2) + "#"

	return []string{
		border,
		spacer,
		base + "  " + title + "  " + base,
		spacer,
		border,
		"## " + desc,
		"",
	}
}

// renderDefault picks the text shown after "=" for a leaf field.
func renderDefault(d *Descriptor, path []string) string {
	switch {
	case d.defaultShown != "":
		return d.defaultShown
	case d.dynamicRef != "":
		return dotted(path, d.dynamicRef)
	case d.compute != nil:
		return computedPlaceholder
	case !d.def.ok:
		return "nil"
	}
	return formatLiteral(d.def.value)
}

// formatLiteral renders a default value. Values without a readable literal
// form render as their type name.
func formatLiteral(v any) string {
	if v == nil {
		return "nil"
	}
	if inst, ok := v.(*Instance); ok {
		return inst.schema.name
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return strconv.Quote(rv.String())
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		if st, ok := v.(fmt.Stringer); ok {
			return strconv.Quote(st.String())
		}
		return fmt.Sprint(v)
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = formatLiteral(rv.Index(i).Interface())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case reflect.Map:
		parts := make([]string, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			parts = append(parts, formatLiteral(iter.Key().Interface())+" => "+formatLiteral(iter.Value().Interface()))
		}
		sort.Strings(parts)
		return "{" + strings.Join(parts, ", ") + "}"
	case reflect.Pointer, reflect.Struct, reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Interface:
		if st, ok := v.(fmt.Stringer); ok && !looksOpaque(st.String()) {
			return strconv.Quote(st.String())
		}
		return rv.Type().String()
	}

	text := fmt.Sprint(v)
	if looksOpaque(text) {
		return rv.Type().String()
	}
	return text
}

// looksOpaque reports whether a textual form is an internal representation
// rather than a literal.
func looksOpaque(text string) bool {
	for _, marker := range []string{"&{", "{", "0x", "<", "#<"} {
		if strings.HasPrefix(text, marker) {
			return true
		}
	}
	return false
}

func dotted(path []string, name string) string {
	return strings.Join(appendPath(path, name), ".")
}

func appendPath(path []string, name string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, name)
}

func trimTrailingBlank(lines []string) []string {
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
