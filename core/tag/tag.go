// Package tag applies default values to struct fields from `default:"..."`
// struct tags. Used by config and log to fill optional settings before
// validation.
package tag

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
)

var (
	ErrTargetMustBePointer = errors.New("target must be a pointer to struct")
	ErrTargetIsNil         = errors.New("target is nil")
	ErrMaxDepth            = errors.New("max recursion depth exceeded")
)

const (
	tagName  = "default"
	maxDepth = 16
)

// ApplyDefaults walks target (a pointer to struct) and assigns the value of
// each field's `default` tag to fields still at their zero value. Nested
// structs, pointers to structs and slices of structs are descended into.
//
// Example:
//
//	type Service struct {
//	    Method  string `default:"GET"`
//	    Timeout int    `default:"30"`
//	}
func ApplyDefaults(target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer {
		return ErrTargetMustBePointer
	}
	if v.IsNil() {
		return ErrTargetIsNil
	}

	elem := v.Elem()
	if elem.Kind() != reflect.Struct {
		return ErrTargetMustBePointer
	}

	return applyStruct(elem, 0)
}

func applyStruct(v reflect.Value, depth int) error {
	if depth >= maxDepth {
		return ErrMaxDepth
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fv := v.Field(i)

		if !fv.CanSet() {
			continue
		}

		tagValue := field.Tag.Get(tagName)
		if err := applyField(fv, tagValue, field.Name, depth); err != nil {
			return err
		}
	}

	return nil
}

func applyField(fv reflect.Value, tagValue, name string, depth int) error {
	switch fv.Kind() {
	case reflect.Struct:
		return applyStruct(fv, depth+1)

	case reflect.Pointer:
		if fv.IsNil() || fv.Elem().Kind() != reflect.Struct {
			return nil
		}
		return applyStruct(fv.Elem(), depth+1)

	case reflect.Slice:
		// Descend into struct elements so per-entry defaults apply.
		for i := 0; i < fv.Len(); i++ {
			elem := fv.Index(i)
			if elem.Kind() == reflect.Struct {
				if err := applyStruct(elem, depth+1); err != nil {
					return err
				}
			}
		}
		return nil

	default:
		if tagValue == "" || !fv.IsZero() {
			return nil
		}
		return setScalar(fv, tagValue, name)
	}
}

func setScalar(fv reflect.Value, raw, name string) error {
	switch fv.Kind() {
	case reflect.String:
		fv.SetString(raw)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fieldError(name, raw, err)
		}
		fv.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return fieldError(name, raw, err)
		}
		fv.SetUint(n)

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fieldError(name, raw, err)
		}
		fv.SetFloat(f)

	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fieldError(name, raw, err)
		}
		fv.SetBool(b)

	default:
		return fieldError(name, raw, errors.New("unsupported kind "+fv.Kind().String()))
	}

	return nil
}

func fieldError(name, raw string, err error) error {
	return fmt.Errorf("field %s: default %q: %w", name, raw, err)
}
