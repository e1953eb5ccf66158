// Package jsonbody reads loosely typed JSON request bodies field by field. The first
// failing field yields a *FieldError naming the dotted path of the field.
package jsonbody

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MaxBodySize bounds request bodies read by Decode.
const MaxBodySize = 1 << 20

// FieldError describes the first invalid or missing field of a body.
type FieldError struct {
	Path    string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// Object is a decoded JSON object positioned at a path inside the body.
type Object struct {
	path   string
	fields map[string]any
}

// Decode reads a JSON object. An empty body decodes to an empty object.
func Decode(r io.Reader) (Object, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxBodySize+1))
	if err != nil {
		return Object{}, &FieldError{Message: "Could not read the request body!"}
	}
	if len(data) > MaxBodySize {
		return Object{}, &FieldError{Message: "The request body is too large!"}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Object{fields: map[string]any{}}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return Object{}, &FieldError{Message: "Invalid JSON request body!"}
	}
	return Object{fields: fields}, nil
}

// NewObject wraps already decoded fields.
func NewObject(fields map[string]any) Object {
	if fields == nil {
		fields = map[string]any{}
	}
	return Object{fields: fields}
}

// Has reports whether name is present and not null.
func (o Object) Has(name string) bool {
	_, ok := o.lookup(name)
	return ok
}

// Keys returns the member names of the object in unspecified order.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o.fields))
	for k := range o.fields {
		keys = append(keys, k)
	}
	return keys
}

// Raw returns the decoded value of name.
func (o Object) Raw(name string) (any, bool) {
	return o.lookup(name)
}

func (o Object) lookup(name string) (any, bool) {
	if v, ok := o.fields[name]; ok {
		return v, v != nil
	}
	for key, v := range o.fields {
		if strings.EqualFold(key, name) {
			return v, v != nil
		}
	}
	return nil, false
}

func (o Object) fieldPath(name string) string {
	if o.path == "" {
		return name
	}
	return o.path + "." + name
}

func (o Object) missing(name string) *FieldError {
	path := o.fieldPath(name)
	return &FieldError{Path: path, Message: fmt.Sprintf("Missing JSON property '%s'!", path)}
}

func (o Object) invalid(name string, err error) *FieldError {
	path := o.fieldPath(name)
	msg := fmt.Sprintf("Invalid JSON property '%s'!", path)
	if err != nil && !errors.Is(err, errWrongType) {
		msg = fmt.Sprintf("Invalid JSON property '%s': %s!", path, strings.TrimSuffix(err.Error(), "!"))
	}
	return &FieldError{Path: path, Message: msg}
}

// Parser converts a decoded JSON value.
type Parser[T any] func(any) (T, error)

// Mandatory parses a required field.
func Mandatory[T any](o Object, name string, parse Parser[T]) (T, error) {
	var zero T
	raw, ok := o.lookup(name)
	if !ok {
		return zero, o.missing(name)
	}
	v, err := parse(raw)
	if err != nil {
		return zero, o.invalid(name, err)
	}
	return v, nil
}

// Optional parses a field that may be absent; present reports whether it was.
func Optional[T any](o Object, name string, parse Parser[T]) (value T, present bool, err error) {
	raw, ok := o.lookup(name)
	if !ok {
		return value, false, nil
	}
	v, perr := parse(raw)
	if perr != nil {
		return value, true, o.invalid(name, perr)
	}
	return v, true, nil
}

// Section returns a nested object; present is false when the field is absent.
func (o Object) Section(name string) (Object, bool, error) {
	raw, ok := o.lookup(name)
	if !ok {
		return Object{}, false, nil
	}
	fields, isObject := raw.(map[string]any)
	if !isObject {
		return Object{}, true, o.invalid(name, nil)
	}
	return Object{path: o.fieldPath(name), fields: fields}, true, nil
}
