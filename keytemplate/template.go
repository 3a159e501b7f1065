package keytemplate

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyTemplate is returned by Compile when the template is the empty
// string, which would compile to a key with no segments.
var ErrEmptyTemplate = errors.New("key template must not be empty")

// UnknownPlaceholderError reports a placeholder whose name does not appear in
// the operation's declared argument names.
type UnknownPlaceholderError struct {
	Name string
}

func (e *UnknownPlaceholderError) Error() string {
	return fmt.Sprintf("unknown placeholder {%s} in key template", e.Name)
}

type segmentKind uint8

const (
	segmentLiteral segmentKind = iota
	segmentPlaceholder
)

// segment is one compiled unit of a template: literal text, or the name of a
// placeholder to fill at format time.
type segment struct {
	kind segmentKind
	text string
}

// CompiledKey is the immutable compiled form of a key template. It is built
// once when the operation is registered and reused, concurrently, by every
// invocation of that operation.
type CompiledKey struct {
	template string
	segments []segment
}

// Compile parses template into a CompiledKey, validating each placeholder
// against known argument names.
//
// Placeholders follow the grammar {identifier} where identifier matches
// [A-Za-z_][A-Za-z0-9_]*. Brace sequences that do not form a well formed
// placeholder are kept as literal text. A template with no placeholders at
// all is legal and formats to a constant key.
//
// Compile is pure: the same inputs always yield a structurally identical
// CompiledKey.
func Compile(template string, known []string) (*CompiledKey, error) {
	if template == "" {
		return nil, ErrEmptyTemplate
	}

	names := make(map[string]struct{}, len(known))
	for _, n := range known {
		names[n] = struct{}{}
	}

	var segments []segment
	var literal strings.Builder

	flush := func() {
		if literal.Len() > 0 {
			segments = append(segments, segment{kind: segmentLiteral, text: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(template); {
		if template[i] != '{' {
			literal.WriteByte(template[i])
			i++
			continue
		}

		name, next, ok := scanPlaceholder(template, i)
		if !ok {
			literal.WriteByte(template[i])
			i++
			continue
		}

		if _, found := names[name]; !found {
			return nil, &UnknownPlaceholderError{Name: name}
		}

		flush()
		segments = append(segments, segment{kind: segmentPlaceholder, text: name})
		i = next
	}
	flush()

	return &CompiledKey{template: template, segments: segments}, nil
}

// scanPlaceholder reads a {identifier} sequence starting at the opening
// brace. It returns the identifier and the index just past the closing brace,
// or ok=false when the sequence is not a well formed placeholder.
func scanPlaceholder(s string, start int) (name string, next int, ok bool) {
	i := start + 1
	if i >= len(s) || !isIdentStart(s[i]) {
		return "", 0, false
	}
	j := i + 1
	for j < len(s) && isIdentPart(s[j]) {
		j++
	}
	if j >= len(s) || s[j] != '}' {
		return "", 0, false
	}
	return s[i:j], j + 1, true
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// Template returns the source string this key was compiled from.
func (k *CompiledKey) Template() string {
	return k.template
}

// Placeholders returns the placeholder names in template order.
func (k *CompiledKey) Placeholders() []string {
	var names []string
	for _, seg := range k.segments {
		if seg.kind == segmentPlaceholder {
			names = append(names, seg.text)
		}
	}
	return names
}

// Format renders the concrete cache key for one invocation. Literal segments
// are copied verbatim; placeholder segments render their bound value through
// the canonical renderer. No separators are inserted beyond what the template
// itself contains.
//
// Format is total: a successfully compiled key cannot fail to format. A name
// missing from the bindings renders like a nil value, which can only happen
// when bindings were built outside BindArgs.
func (k *CompiledKey) Format(b Bindings) string {
	var out strings.Builder
	for _, seg := range k.segments {
		switch seg.kind {
		case segmentLiteral:
			out.WriteString(seg.text)
		case segmentPlaceholder:
			out.WriteString(renderValue(b[seg.text]))
		}
	}
	return out.String()
}

// Bindings maps argument names to their values for a single invocation. It is
// constructed once per call at the interception site.
type Bindings map[string]any

// BindArgs builds Bindings by zipping the operation's argument names with the
// invocation's values. The lengths must agree; anonymous or discarded
// arguments have no name and therefore no binding.
func BindArgs(names []string, values ...any) (Bindings, error) {
	if len(names) != len(values) {
		return nil, fmt.Errorf("keytemplate: %d argument names but %d values", len(names), len(values))
	}
	b := make(Bindings, len(names))
	for i, n := range names {
		b[n] = values[i]
	}
	return b, nil
}
