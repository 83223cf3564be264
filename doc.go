// Package optinit declares the construction options of a host type and
// builds instances from them.
//
// Each host type T has one process-wide registry, created by [Define]. The
// registry holds named option specs, each with an arity (how many values the
// option takes, or a callback) and a type rule, plus validators that run
// whenever an option is set:
//
//	widgets := optinit.Define[*Widget](newWidget)
//	err := widgets.Declare(
//	    optinit.Option("name", optinit.Of[string]()),
//	    optinit.Option("size", 2, optinit.Of[int]()),
//	    optinit.Option("tags", optinit.Variadic),
//	)
//	err = widgets.DeclareKeyValidator("name", optinit.Length(1, 40))
//
// A [Builder] accumulates options without mutating anything; every call
// returns a new Builder. Finalize it with New:
//
//	w, err := widgets.With("name", "gear").With("size", 3, 4).New()
//
// Raw option maps, for example decoded from JSON or YAML, are validated with
// [Type.ValidateOptions]; the resulting [ValidatedOptions] is what host
// constructors receive, and validating it again does nothing.
//
// Sub-packages:
//   - openapi – documents declared option sets in OpenAPI 3 documents
//   - transform – string normalization of raw option maps
package optinit
