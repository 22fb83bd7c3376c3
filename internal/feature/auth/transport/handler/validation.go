package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators installs the custom binding tags used by the request DTOs.
// Safe to call more than once.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		// notblank rejects whitespace-only strings, unlike required
		if registerErr = v.RegisterValidation("notblank", validators.NotBlank); registerErr != nil {
			return
		}
		// maxbytes bounds the UTF-8 length; max counts runes
		registerErr = v.RegisterValidation("maxbytes", maxBytes)
	})
	return registerErr
}

// maxBytes reports whether a string field is at most param bytes long.
func maxBytes(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		panic(fmt.Sprintf("maxbytes: bad parameter %q", fl.Param()))
	}
	return len(fl.Field().String()) <= n
}

// fieldErrors turns binding failures into a JSON-field → message map.
// Only the first failure per field is kept.
func fieldErrors(ve validator.ValidationErrors, req any) map[string]string {
	t := reflect.TypeOf(req)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		var sf reflect.StructField
		if t != nil && t.Kind() == reflect.Struct {
			sf, _ = t.FieldByName(fe.StructField())
		}

		name := jsonName(sf, fe.Field())
		if _, seen := out[name]; seen {
			continue
		}
		out[name] = fieldMessage(fe, sf)
	}
	return out
}

func fieldMessage(fe validator.FieldError, sf reflect.StructField) string {
	label := sf.Tag.Get("label")
	if label == "" {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required", "notblank":
		return label + " is required"
	case "email":
		return label + " must be valid"
	case "maxbytes":
		return fmt.Sprintf("%s must be at most %s bytes", label, fe.Param())
	case "min", "max":
		lo, hi := sizeBounds(sf.Tag.Get("binding"))
		if lo != "" && hi != "" {
			return fmt.Sprintf("%s must be between %s and %s characters", label, lo, hi)
		}
		if fe.Tag() == "min" {
			return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	default:
		return label + " is invalid"
	}
}

func jsonName(sf reflect.StructField, fallback string) string {
	if tag := sf.Tag.Get("json"); tag != "" {
		if name, _, _ := strings.Cut(tag, ","); name != "" && name != "-" {
			return name
		}
	}
	return lowerFirst(fallback)
}

func sizeBounds(bindingTag string) (lo, hi string) {
	for _, rule := range strings.Split(bindingTag, ",") {
		if v, ok := strings.CutPrefix(rule, "min="); ok {
			lo = v
		}
		if v, ok := strings.CutPrefix(rule, "max="); ok {
			hi = v
		}
	}
	return lo, hi
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
