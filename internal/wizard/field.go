package wizard

import (
	"strings"

	"agrimarket/internal/utils"

	"github.com/go-playground/validator/v10"
)

type Kind int

const (
	Text Kind = iota
	Email
	Checkbox
	File
	// List is a multi-select checkbox group backed by Values.Lists.
	List
)

// Rule checks a non-empty value and returns the failure message, or "".
type Rule func(value string) string

type Field struct {
	Name     string
	Label    string
	Kind     Kind
	Required bool
	Rules    []Rule
	Options  []Option
}

type Option struct {
	Value string
	Label string
}

// Pick keeps the submitted values that name one of the field's options, in
// option order and without duplicates. A field without options keeps every
// non-blank value.
func (f Field) Pick(submitted []string) []string {
	seen := make(map[string]bool, len(submitted))
	for _, s := range submitted {
		if s = strings.TrimSpace(s); s != "" {
			seen[s] = true
		}
	}
	var out []string
	if len(f.Options) == 0 {
		for _, s := range submitted {
			if s = strings.TrimSpace(s); seen[s] {
				out = append(out, s)
				delete(seen, s)
			}
		}
		return out
	}
	for _, o := range f.Options {
		if seen[o.Value] {
			out = append(out, o.Value)
		}
	}
	return out
}

type Step struct {
	Title  string
	Fields []Field
}

var validate = validator.New()

func Digits(n int, message string) Rule {
	return func(v string) string {
		if !utils.IsDigits(v, n) {
			return message
		}
		return ""
	}
}

func MinLength(n int, message string) Rule {
	return func(v string) string {
		if len(v) < n {
			return message
		}
		return ""
	}
}

func ValidEmail(message string) Rule {
	return func(v string) string {
		if validate.Var(strings.TrimSpace(v), "email") != nil {
			return message
		}
		return ""
	}
}
