// Package keytemplate compiles declarative cache key templates into reusable
// formatters.
//
// # Overview
//
// A key template is a string with named placeholders, such as
// "user_{userId}" or "org:{orgID}:members". Compile parses the template once,
// at configuration time, into an immutable CompiledKey whose placeholders are
// validated against the operation's declared argument names. Format then
// renders a concrete key from the argument values of a single invocation:
//
//	key, err := keytemplate.Compile("user_{userId}", []string{"userId"})
//	if err != nil {
//		// bad template: surfaced before the operation ever runs
//	}
//	key.Format(keytemplate.Bindings{"userId": 42}) // "user_42"
//
// # Failure model
//
// Every failure mode lives in Compile: an empty template and a placeholder
// naming an unknown argument are compile errors. Once a CompiledKey exists,
// Format is total: it always returns a string, for any value the bindings
// may hold.
//
// # Placeholder value rendering
//
// Placeholder values render through a deterministic canonical form:
//
//   - Basic types: direct string representation
//   - Pointers: dereferenced, nil renders as "nil"
//   - Slices/arrays: recursive rendering of elements
//   - Maps: entries sorted for stable output across runs
//   - Structs: exported fields as name:value pairs
//   - Anything else: JSON fallback
//
// The same value always produces the same key segment, which is what makes
// cache keys stable across processes and restarts.
package keytemplate
