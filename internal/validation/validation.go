// Package validation wraps go-playground/validator with the article rules
// and reports failures keyed by JSON field name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/SergeyParamoshkin/bollywood/internal/model"
	"github.com/SergeyParamoshkin/bollywood/internal/slug"
)

// Validator checks request payloads.
type Validator struct {
	validate *validator.Validate
}

// New returns a Validator with the "category" and "slug" rules registered.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return model.IsCategory(fl.Field().String())
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slug.Valid(fl.Field().String())
	})

	return &Validator{validate: v}
}

// Struct validates s against its validate tags.
func (v *Validator) Struct(s interface{}) error {
	return v.wrap("", v.validate.Struct(s))
}

// Var validates a single value that belongs to the JSON field name.
func (v *Validator) Var(name string, value interface{}, tag string) error {
	return v.wrap(name, v.validate.Var(value, tag))
}

func (v *Validator) wrap(name string, err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &Error{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		field := fieldName(name, fe)
		out.Fields[field] = message(field, fe)
	}

	return out
}

// fieldName prefers the JSON path of the failing field. Var reports an
// empty field, so the caller supplied name is used instead.
func fieldName(name string, fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	} else {
		ns = fe.Field()
	}

	switch {
	case name == "":
		return ns
	case ns == "":
		return name
	default:
		return name + ns
	}
}

func message(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
	case "category":
		return fmt.Sprintf("%s must be one of %s", field, strings.Join(model.Categories, ", "))
	case "slug":
		return fmt.Sprintf("%s must contain only lowercase letters, digits and single hyphens", field)
	default:
		return fmt.Sprintf("%s failed on %s", field, fe.Tag())
	}
}

// Error lists the invalid fields with a human readable reason for each.
type Error struct {
	Fields map[string]string `json:"fields"`
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}

	return "validation failed: " + strings.Join(msgs, "; ")
}
