package validation

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// IdentityNumberPattern accepts 18-character resident identity numbers
	// and the legacy 15-digit form
	IdentityNumberPattern = `^(\d{15}|\d{17}[\dXx])$`

	// StudentIDPattern accepts student ids and admission tickets
	StudentIDPattern = `^[0-9A-Za-z]{4,20}$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	IdentityNumber *regexp.Regexp
	StudentID      *regexp.Regexp
}{
	IdentityNumber: regexp.MustCompile(IdentityNumberPattern),
	StudentID:      regexp.MustCompile(StudentIDPattern),
}

// Tags registered on the binding validator
const (
	TagIdentityNumber = "idnumber"
	TagStudentID      = "studentid"
)

var registerOnce sync.Once

// RegisterRules adds the custom tags to v
func RegisterRules(v *validator.Validate) error {
	rules := map[string]*regexp.Regexp{
		TagIdentityNumber: CompiledPatterns.IdentityNumber,
		TagStudentID:      CompiledPatterns.StudentID,
	}
	for tag, pattern := range rules {
		pattern := pattern
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return pattern.MatchString(fl.Field().String())
		})
		if err != nil {
			return fmt.Errorf("register %s rule: %w", tag, err)
		}
	}
	return nil
}

// RegisterGinRules registers the custom tags on gin's default validator.
// Safe to call more than once.
func RegisterGinRules() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
			return
		}
		err = RegisterRules(v)
	})
	return err
}

// MustRegisterGinRules is like RegisterGinRules but panics on error
func MustRegisterGinRules() {
	if err := RegisterGinRules(); err != nil {
		panic(err)
	}
}
