package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Object represents a PDF object
type Object interface {
	Type() ObjectType
	String() string
}

// ObjectType identifies the kind of PDF object
type ObjectType int

const (
	ObjNull ObjectType = iota
	ObjBool
	ObjInt
	ObjReal
	ObjString
	ObjName
	ObjArray
	ObjDict
	ObjStream
	ObjRef
)

var objectTypeNames = [...]string{"Null", "Bool", "Int", "Real", "String", "Name", "Array", "Dict", "Stream", "Ref"}

// String returns the name of the object type
func (t ObjectType) String() string {
	if t < 0 || int(t) >= len(objectTypeNames) {
		return "Unknown"
	}
	return objectTypeNames[t]
}

// Null is the PDF null object
type Null struct{}

func (Null) Type() ObjectType { return ObjNull }
func (Null) String() string   { return "null" }

// Bool is a PDF boolean
type Bool bool

func (b Bool) Type() ObjectType { return ObjBool }
func (b Bool) String() string   { return strconv.FormatBool(bool(b)) }

// Int is a PDF integer
type Int int64

func (i Int) Type() ObjectType { return ObjInt }
func (i Int) String() string   { return strconv.FormatInt(int64(i), 10) }

// Real is a PDF real number
type Real float64

func (r Real) Type() ObjectType { return ObjReal }
func (r Real) String() string   { return strconv.FormatFloat(float64(r), 'f', -1, 64) }

// String is a PDF string holding the raw (unescaped) bytes. Text strings
// are decoded with TextString.
type String string

func (s String) Type() ObjectType { return ObjString }
func (s String) String() string   { return string(s) }

// Name is a PDF name without the leading slash
type Name string

func (n Name) Type() ObjectType { return ObjName }
func (n Name) String() string   { return "/" + string(n) }

// Array is a PDF array
type Array []Object

func (a Array) Type() ObjectType { return ObjArray }
func (a Array) String() string {
	parts := make([]string, len(a))
	for i, obj := range a {
		parts[i] = stringOf(obj)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Get returns the element at index or nil when out of range
func (a Array) Get(index int) Object {
	if index < 0 || index >= len(a) {
		return nil
	}
	return a[index]
}

// Numbers returns the array as float64 values. ok is false if any element
// is not a direct number.
func (a Array) Numbers() ([]float64, bool) {
	out := make([]float64, len(a))
	for i, obj := range a {
		v, ok := Number(obj)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// Dict is a PDF dictionary keyed by name without the slash
type Dict map[string]Object

func (d Dict) Type() ObjectType { return ObjDict }

// String renders the dictionary with sorted keys so output is stable
func (d Dict) String() string {
	parts := make([]string, 0, len(d))
	for _, key := range d.Keys() {
		parts = append(parts, fmt.Sprintf("/%s %s", key, stringOf(d[key])))
	}
	return "<<" + strings.Join(parts, " ") + ">>"
}

// Get retrieves a value
func (d Dict) Get(key string) Object {
	return d[key]
}

// Has reports whether key is present
func (d Dict) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Name returns a name value as a Go string
func (d Dict) Name(key string) (string, bool) {
	n, ok := d[key].(Name)
	return string(n), ok
}

// Int returns an integer value. Reals are truncated.
func (d Dict) Int(key string) (int, bool) {
	switch v := d[key].(type) {
	case Int:
		return int(v), true
	case Real:
		return int(v), true
	}
	return 0, false
}

// Number returns a numeric value of either kind
func (d Dict) Number(key string) (float64, bool) {
	return Number(d[key])
}

// Bool returns a boolean value
func (d Dict) Bool(key string) (bool, bool) {
	b, ok := d[key].(Bool)
	return bool(b), ok
}

// Str returns the raw bytes of a string value
func (d Dict) Str(key string) (string, bool) {
	s, ok := d[key].(String)
	return string(s), ok
}

// Keys returns the keys in sorted order
func (d Dict) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Ref addresses an indirect object by number and generation
type Ref struct {
	Num int
	Gen int
}

func (r Ref) Type() ObjectType { return ObjRef }
func (r Ref) String() string   { return fmt.Sprintf("%d %d R", r.Num, r.Gen) }

// Number converts Int or Real to float64
func Number(obj Object) (float64, bool) {
	switch v := obj.(type) {
	case Int:
		return float64(v), true
	case Real:
		return float64(v), true
	}
	return 0, false
}

func stringOf(obj Object) string {
	if obj == nil {
		return "null"
	}
	return obj.String()
}
