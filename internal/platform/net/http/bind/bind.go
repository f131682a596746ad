// Package bind decodes and validates request payloads
package bind

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"sync"

	perr "sprintly/internal/platform/errors"
	"sprintly/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// ValidatorSvc holds the shared validator and its english translator
type ValidatorSvc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	vOnce sync.Once
	vSvc  *ValidatorSvc

	slugRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.:-]*$`)
)

// Get returns the validator, building it on first use
// messages use json tag names
func Get() *ValidatorSvc {
	vOnce.Do(func() {
		enLoc := en.New()
		trans, _ := ut.New(enLoc, enLoc).GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugRe.MatchString(fl.Field().String())
		})

		translate(v, trans, "min", "{0} must be at least {1}", true)
		translate(v, trans, "max", "{0} must be at most {1}", true)
		translate(v, trans, "slug", "{0} must be an identifier of letters, digits, '_', '.', ':' or '-'", false)

		vSvc = &ValidatorSvc{Validator: v, Translator: trans}
	})
	return vSvc
}

func translate(v *validator.Validate, trans ut.Translator, tag, text string, withParam bool) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			params := []string{fe.Field()}
			if withParam {
				params = append(params, fe.Param())
			}
			msg, _ := t.T(tag, params...)
			return msg
		},
	)
}

// MaxBytes caps request bodies
const MaxBytes = 1 << 20

// ParseJSON decodes one JSON document into T and validates it
// unknown fields, trailing data and empty bodies are JSON errors
func ParseJSON[T any](r *http.Request) (T, error) {
	var dst T
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.C(r.Context()).Warn().Err(err).Msg("close request body")
		}
	}()

	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&dst); err != nil {
		var zero T
		if errors.Is(err, io.EOF) {
			return zero, perr.JSONErrf("empty body")
		}
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if dec.More() {
		var zero T
		return zero, perr.JSONErrf("unexpected trailing data")
	}
	if err := Validate(dst); err != nil {
		var zero T
		return zero, err
	}
	return dst, nil
}

// Validate runs struct validation and maps the first failure to a Validation error with its field
func Validate(v any) error {
	err := Get().Validator.Struct(v)
	if err == nil {
		return nil
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		logger.Get().Error().Err(inv).Msg("validator misuse")
		return perr.Wrap(inv, perr.ErrorCodeUnknown, "validation error")
	}
	field, msg := FieldAndMessage(err)
	return perr.WithField(perr.Validationf("%s", msg), field)
}

// FieldAndMessage returns the first failing field and its translated message
func FieldAndMessage(err error) (field, message string) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field(), verrs[0].Translate(Get().Translator)
	}
	if err == nil {
		return "", ""
	}
	return "", err.Error()
}
