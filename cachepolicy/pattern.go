package cachepolicy

import "reflect"

// Tagged is a tagged-variant result value, the shape the Tag pattern matches
// against. Operations reporting status-and-payload results return values like
// Tagged{Tag: "ok", Values: []any{payload}}.
type Tagged struct {
	Tag    string
	Values []any
}

// Pattern is a structural predicate over an operation's result value.
// Patterns form a small closed set: Exact, Tag, and Any.
type Pattern interface {
	Match(v any) bool
}

// Exact matches values structurally equal to want.
func Exact(want any) Pattern {
	return exactPattern{want: want}
}

type exactPattern struct {
	want any
}

func (p exactPattern) Match(v any) bool {
	return reflect.DeepEqual(v, p.want)
}

// Any matches every value. It serves both as a catch-all pattern and as the
// wildcard for Tag sub-fields.
func Any() Pattern {
	return anyPattern{}
}

type anyPattern struct{}

func (anyPattern) Match(any) bool {
	return true
}

// Tag matches Tagged values carrying the given tag whose payload matches the
// field patterns element-wise. Tag("ok", Any()) matches any two-element
// ok-variant; Tag("ok") matches only the bare ok-variant with no payload.
func Tag(tag string, fields ...Pattern) Pattern {
	return tagPattern{tag: tag, fields: fields}
}

type tagPattern struct {
	tag    string
	fields []Pattern
}

func (p tagPattern) Match(v any) bool {
	var t Tagged
	switch tv := v.(type) {
	case Tagged:
		t = tv
	case *Tagged:
		if tv == nil {
			return false
		}
		t = *tv
	default:
		return false
	}

	if t.Tag != p.tag || len(t.Values) != len(p.fields) {
		return false
	}
	for i, f := range p.fields {
		if !f.Match(t.Values[i]) {
			return false
		}
	}
	return true
}

// MatchSpec gates whether a cache action fires for a result.
//
// A nil MatchSpec means the action is unconditional. A MatchSpec built from
// an explicit pattern list fires only when one of its patterns matches; an
// explicitly empty list never fires. These are distinct states: "no spec
// declared" and "declared to match nothing" mean different things.
type MatchSpec struct {
	patterns []Pattern
}

// On builds a MatchSpec from an explicit ordered pattern list.
func On(patterns ...Pattern) *MatchSpec {
	return &MatchSpec{patterns: patterns}
}

// Always returns the unconditional MatchSpec. It is equivalent to passing a
// nil spec and exists for readable registration sites.
func Always() *MatchSpec {
	return nil
}

// Evaluate reports whether the cache action should fire for v. Patterns are
// tried in declaration order; the first match wins. Evaluation is
// deterministic: the same value and pattern list always agree.
func (m *MatchSpec) Evaluate(v any) bool {
	if m == nil {
		return true
	}
	for _, p := range m.patterns {
		if p.Match(v) {
			return true
		}
	}
	return false
}
