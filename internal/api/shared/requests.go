package shared

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxFormBytes caps the size of a posted form body.
const MaxFormBytes = 1 << 20

// ErrNotStructPointer is returned by DecodeForm for a target that is not a
// pointer to a struct.
var ErrNotStructPointer = errors.New("form target must be a pointer to a struct")

// Global validator instance for reuse
var validate = validator.New()

// DecodeForm parses the request's form body into the string fields of v that
// carry a `form:"name"` tag. Values are trimmed of surrounding whitespace,
// except for fields tagged `form:"name,raw"` (passwords).
func DecodeForm(r *http.Request, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return ErrNotStructPointer
	}

	if r.Body != nil {
		r.Body = http.MaxBytesReader(nil, r.Body, MaxFormBytes)
	}
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("failed to parse form: %w", err)
	}

	elem := rv.Elem()
	typ := elem.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag, ok := field.Tag.Lookup("form")
		if !ok || tag == "-" || field.Type.Kind() != reflect.String {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		value := r.PostForm.Get(name)
		if opts != "raw" {
			value = strings.TrimSpace(value)
		}
		elem.Field(i).SetString(value)
	}
	return nil
}

// ValidateRequest validates the given struct using the validator package.
func ValidateRequest(v any) error {
	// Check if the object implements the Validate interface
	if validator, ok := v.(interface{ Validate() error }); ok {
		return validator.Validate()
	}

	// Otherwise, use the struct validator
	return validate.Struct(v)
}
