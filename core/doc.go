// Package core provides the PDF object value types and the object arena.
//
// PDF's object graph has back-references (page to parent, shared resource
// dictionaries, annotation to page), so objects never own each other.
// Indirect objects live in an [Arena] keyed by [Ref] (object number and
// generation) and are reached through a [Resolver]:
//
//	font, ok := core.ResolveDict(r, resources.Get("Font"))
//
// The arena is filled lazily from a Loader supplied by the object model
// provider (see package source). A [Stream] keeps its encoded bytes and
// decodes on demand with the filters in internal/filters.
package core
