// Package validator wraps go-playground/validator with translated,
// human-readable messages. Config loading validates service definitions
// through the global instance.
package validator

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

// Validator validates struct fields against their `validate` tags.
type Validator interface {
	// Struct validates s and returns a translated error on failure.
	Struct(s any) error

	// StructCtx validates s with a context.
	StructCtx(ctx context.Context, s any) error

	// GetValidator exposes the underlying validator instance.
	GetValidator() *validator.Validate
}

// Validate is the global validator instance.
var (
	Validate Validator
	once     sync.Once
)

func init() {
	once.Do(func() {
		Validate = New()
	})
}

type validatorImpl struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New creates a validator with English message translations registered.
func New() Validator {
	v := &validatorImpl{
		validate: validator.New(),
	}

	locale := en.New()
	uni := ut.New(locale, locale)
	if trans, found := uni.GetTranslator("en"); found {
		v.translator = trans
		_ = entranslations.RegisterDefaultTranslations(v.validate, trans)
	}

	return v
}

func (v *validatorImpl) Struct(s any) error {
	if s == nil {
		return errors.New("validation target cannot be nil")
	}
	return v.translate(v.validate.Struct(s))
}

func (v *validatorImpl) StructCtx(ctx context.Context, s any) error {
	if s == nil {
		return errors.New("validation target cannot be nil")
	}
	return v.translate(v.validate.StructCtx(ctx, s))
}

func (v *validatorImpl) GetValidator() *validator.Validate {
	return v.validate
}

// translate rewrites validator.ValidationErrors into a single error with
// translated, semicolon-joined field messages.
func (v *validatorImpl) translate(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || v.translator == nil {
		return err
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, fe.Translate(v.translator))
	}

	return errors.New(strings.Join(messages, "; "))
}
