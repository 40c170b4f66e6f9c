package core

import (
	"errors"
	"fmt"
)

// maxRefChain bounds chains of references that resolve to references.
const maxRefChain = 32

var (
	// ErrNotFound is returned when a reference has no object.
	ErrNotFound = errors.New("object not found")

	// ErrRefCycle is returned when references resolve back to themselves.
	ErrRefCycle = errors.New("reference cycle")
)

// Resolver resolves indirect references. Non-reference objects are
// returned unchanged.
type Resolver interface {
	Resolve(obj Object) (Object, error)
}

// Loader fetches one indirect object from the underlying file.
type Loader func(ref Ref) (Object, error)

// Arena holds indirect objects keyed by reference. Objects are loaded on
// first access and cached; an object refers to others only by Ref, so the
// graph never forms owning cycles.
//
// An Arena belongs to one document and is not safe for concurrent use.
type Arena struct {
	objects map[Ref]Object
	load    Loader
}

// NewArena creates an arena backed by load. A nil loader makes an arena
// that only serves objects added with Put.
func NewArena(load Loader) *Arena {
	return &Arena{
		objects: make(map[Ref]Object),
		load:    load,
	}
}

// Put stores an object under ref, replacing any cached value
func (a *Arena) Put(ref Ref, obj Object) {
	a.objects[ref] = obj
}

// Len returns the number of cached objects
func (a *Arena) Len() int {
	return len(a.objects)
}

// Get returns the object stored under ref, loading it when needed
func (a *Arena) Get(ref Ref) (Object, error) {
	if obj, ok := a.objects[ref]; ok {
		return obj, nil
	}
	if a.load == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	obj, err := a.load(ref)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", ref, err)
	}
	if obj == nil {
		obj = Null{}
	}
	a.objects[ref] = obj
	return obj, nil
}

// Resolve follows references until a direct object is reached
func (a *Arena) Resolve(obj Object) (Object, error) {
	seen := 0
	for {
		ref, ok := obj.(Ref)
		if !ok {
			return obj, nil
		}
		if seen >= maxRefChain {
			return nil, fmt.Errorf("%w at %s", ErrRefCycle, ref)
		}
		seen++
		next, err := a.Get(ref)
		if err != nil {
			return nil, err
		}
		obj = next
	}
}

// resolve tolerates a nil resolver and swallows errors; callers of the
// typed helpers only care whether a usable value exists.
func resolve(r Resolver, obj Object) Object {
	if obj == nil {
		return nil
	}
	if r == nil {
		return obj
	}
	out, err := r.Resolve(obj)
	if err != nil {
		return nil
	}
	return out
}

// ResolveDict resolves obj and returns it as a dictionary. Streams yield
// their dictionary.
func ResolveDict(r Resolver, obj Object) (Dict, bool) {
	switch v := resolve(r, obj).(type) {
	case Dict:
		return v, true
	case *Stream:
		return v.Dict, true
	}
	return nil, false
}

// ResolveArray resolves obj and returns it as an array
func ResolveArray(r Resolver, obj Object) (Array, bool) {
	a, ok := resolve(r, obj).(Array)
	return a, ok
}

// ResolveStream resolves obj and returns it as a stream
func ResolveStream(r Resolver, obj Object) (*Stream, bool) {
	s, ok := resolve(r, obj).(*Stream)
	return s, ok
}

// ResolveNumber resolves obj and returns it as float64
func ResolveNumber(r Resolver, obj Object) (float64, bool) {
	return Number(resolve(r, obj))
}

// ResolveName resolves obj and returns it as a Go string
func ResolveName(r Resolver, obj Object) (string, bool) {
	n, ok := resolve(r, obj).(Name)
	return string(n), ok
}

// ResolveString resolves obj and returns its raw bytes
func ResolveString(r Resolver, obj Object) (string, bool) {
	s, ok := resolve(r, obj).(String)
	return string(s), ok
}

// ResolveNumbers resolves an array of numbers, resolving each element
func ResolveNumbers(r Resolver, obj Object) ([]float64, bool) {
	arr, ok := ResolveArray(r, obj)
	if !ok {
		return nil, false
	}
	out := make([]float64, len(arr))
	for i, el := range arr {
		v, ok := ResolveNumber(r, el)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}
