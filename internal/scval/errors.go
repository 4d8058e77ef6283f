// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package scval

import (
	"fmt"
	"strconv"
)

// DecodeError reports a value whose shape did not match what the caller
// required. Path is the traversal from the root of the decoded structure,
// e.g. "meta.v3.events[2].body.data[1].amount".
type DecodeError struct {
	Expected string
	Actual   string
	Path     string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

// Index appends a positional step to a path.
func Index(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

// Field appends a named step to a path.
func Field(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func describe(v Value) string {
	if v == nil {
		return "nil"
	}
	return v.Kind().String()
}

// As asserts that v is the variant T.
func As[T Value](v Value, path string) (T, error) {
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, &DecodeError{Expected: zero.Kind().String(), Actual: describe(v), Path: path}
	}
	return t, nil
}

// Text accepts either a String or a Symbol.
func Text(v Value, path string) (string, error) {
	switch t := v.(type) {
	case String:
		return string(t), nil
	case Symbol:
		return string(t), nil
	default:
		return "", &DecodeError{Expected: "string|symbol", Actual: describe(v), Path: path}
	}
}

// Lookup returns the required entry key of m.
func Lookup(m Map, key, path string) (Value, error) {
	v, ok := m.Get(key)
	if !ok {
		return nil, &DecodeError{Expected: "map entry " + strconv.Quote(key), Actual: "missing", Path: path}
	}
	return v, nil
}

// At returns the required element i of vec.
func At(vec Vec, i int, path string) (Value, error) {
	if i < 0 || i >= len(vec) {
		return nil, &DecodeError{
			Expected: "element " + strconv.Itoa(i),
			Actual:   "vec of length " + strconv.Itoa(len(vec)),
			Path:     path,
		}
	}
	return vec[i], nil
}
