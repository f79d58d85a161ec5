package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func schemaValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// report json field names instead of Go field names
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// parseOne decodes raw into the wire struct W, validates it and converts it.
// Wire structs use pointer fields so that missing and null fields are caught
// by the required tag rather than silently zero-valued.
func parseOne[W any, T any](resource string, index int, raw []byte, convert func(*W) T) (T, error) {
	var zero T
	var wire W
	exact, field, err := exactKeys(reflect.TypeOf(wire), raw, "")
	if err != nil {
		return zero, &ValidationError{Resource: resource, Index: index, Field: field, Err: err}
	}
	if err := json.Unmarshal(exact, &wire); err != nil {
		return zero, &ValidationError{Resource: resource, Index: index, Field: jsonField(err), Err: err}
	}
	if err := schemaValidator().Struct(&wire); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return zero, &ValidationError{
				Resource: resource,
				Index:    index,
				Field:    fieldPath(verrs[0].Namespace()),
				Err:      fmt.Errorf("failed on the '%s' rule", verrs[0].Tag()),
			}
		}
		return zero, &ValidationError{Resource: resource, Index: index, Err: err}
	}
	return convert(&wire), nil
}

// exactKeys rebuilds the JSON object raw from the keys named by the json tags
// of struct type t, matched case-sensitively and recursing into nested struct
// pointers. Keys that only match by case are dropped, so {"ID": 1} does not
// provide "id". The returned field names the first missing or malformed key.
func exactKeys(t reflect.Type, raw []byte, prefix string) ([]byte, string, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, prefix, err
	}
	if obj == nil {
		return nil, prefix, errors.New("expected an object")
	}

	out := make(map[string]json.RawMessage, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		fld := t.Field(i)
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}

		val, ok := obj[name]
		if !ok {
			return nil, path, errors.New("failed on the 'required' rule")
		}

		ft := fld.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Struct && string(bytes.TrimSpace(val)) != "null" {
			nested, field, err := exactKeys(ft, val, path)
			if err != nil {
				return nil, field, err
			}
			val = nested
		}
		out[name] = val
	}

	rebuilt, err := json.Marshal(out)
	if err != nil {
		return nil, prefix, err
	}
	return rebuilt, "", nil
}

// parseMany applies parseOne to every element, failing on the first invalid one.
func parseMany[W any, T any](resource string, raw []byte, convert func(*W) T) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &ValidationError{Resource: resource, Index: -1, Err: errors.New("expected an array")}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, &ValidationError{Resource: resource, Index: -1, Err: err}
	}

	out := make([]T, 0, len(elems))
	for i, elem := range elems {
		rec, err := parseOne[W](resource, i, elem, convert)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// fieldPath strips the wire struct name from a validator namespace
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func jsonField(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return typeErr.Field
	}
	return ""
}
