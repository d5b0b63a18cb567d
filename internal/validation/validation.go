// Package validation shares one validator with English messages across
// config, site content and listing filters.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Error carries one readable message per failed field.
type Error struct {
	Messages []string
	err      error
}

func (e *Error) Error() string { return strings.Join(e.Messages, "; ") }

func (e *Error) Unwrap() error { return e.err }

var (
	once       sync.Once
	validate   *validator.Validate
	translator ut.Translator
)

func get() (*validator.Validate, ut.Translator) {
	once.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		translator, _ = uni.GetTranslator("en")

		validate = validator.New()

		// name fields like the file they come from: yaml, then json
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, key := range []string{"yaml", "json"} {
				tag := fld.Tag.Get(key)
				if idx := strings.Index(tag, ","); idx >= 0 {
					tag = tag[:idx]
				}
				if tag != "" && tag != "-" {
					return tag
				}
			}
			return fld.Name
		})

		_ = en_translations.RegisterDefaultTranslations(validate, translator)
	})
	return validate, translator
}

// Struct validates v. Field failures come back as *Error.
func Struct(v any) error {
	val, trans := get()

	err := val.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &Error{err: err}
	for _, fe := range fieldErrs {
		out.Messages = append(out.Messages, fe.Translate(trans))
	}
	return out
}
