/****************************************************************************
BSD 3-Clause License

Copyright (c) 2021, 🍀☀🌕🌥 🌊
All rights reserved.
****************************************************************************/

// Package schema implements the container's fluent schema validator (§4.6):
// a builder for per-field rules (require/optional/range/length/pattern/
// one_of/custom/nested) and a validator that checks a container against
// them. Structural checks (presence, type, nesting, custom predicates) are
// evaluated directly, as are pattern (regexp) and one_of constraints; range
// and length constraints delegate to github.com/go-playground/validator/v10
// (SPEC_FULL.md §4.12). The fluent
// builder style is grounded on the teacher's own chaining API in
// container/messaging/builder.go (WithX(...) *Builder).
package schema

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kcenon/typedkv/container/core"
	"github.com/kcenon/typedkv/container/errs"
)

// Log is the logger schema validation runs report their correlation ID and
// violation count to; production code defaults to the standard logrus
// logger (§4.10), matching container/codec's logging convention.
var Log logrus.FieldLogger = logrus.StandardLogger()

type ruleKind int

const (
	kindRequire ruleKind = iota
	kindOptional
	kindRange
	kindLength
	kindPattern
	kindOneOf
	kindCustom
	kindNested
)

type rule struct {
	kind    ruleKind
	field   string
	vtype   core.ValueType
	min     float64
	max     float64
	pattern *regexp.Regexp
	allowed []interface{}
	custom  func(core.Value) error
	nested  *Schema
}

// Schema holds the compiled field rules produced by Builder.Build.
type Schema struct {
	rules    []rule
	required map[string]bool
	validate *validator.Validate
}

// Builder assembles a Schema via fluent WithX-style chaining, mirroring the
// teacher's ContainerBuilder (container/messaging/builder.go).
type Builder struct {
	rules    []rule
	required map[string]bool
}

// NewBuilder starts an empty schema builder.
func NewBuilder() *Builder {
	return &Builder{required: make(map[string]bool)}
}

// Require marks field as mandatory and of the given type.
func (b *Builder) Require(field string, t core.ValueType) *Builder {
	b.required[field] = true
	b.rules = append(b.rules, rule{kind: kindRequire, field: field, vtype: t})
	return b
}

// Optional marks field as allowed but not mandatory, of the given type when
// present.
func (b *Builder) Optional(field string, t core.ValueType) *Builder {
	b.rules = append(b.rules, rule{kind: kindOptional, field: field, vtype: t})
	return b
}

// Range constrains a numeric field to [min, max] inclusive.
func (b *Builder) Range(field string, min, max float64) *Builder {
	b.rules = append(b.rules, rule{kind: kindRange, field: field, min: min, max: max})
	return b
}

// Length constrains a string/bytes field's length to [min, max] inclusive.
func (b *Builder) Length(field string, min, max int) *Builder {
	b.rules = append(b.rules, rule{kind: kindLength, field: field, min: float64(min), max: float64(max)})
	return b
}

// Pattern constrains a string field to match re.
func (b *Builder) Pattern(field string, re *regexp.Regexp) *Builder {
	b.rules = append(b.rules, rule{kind: kindPattern, field: field, pattern: re})
	return b
}

// OneOf constrains a field's value to one of allowed.
func (b *Builder) OneOf(field string, allowed ...interface{}) *Builder {
	b.rules = append(b.rules, rule{kind: kindOneOf, field: field, allowed: allowed})
	return b
}

// Custom runs fn against the field's value; fn returns a descriptive error
// on failure.
func (b *Builder) Custom(field string, fn func(core.Value) error) *Builder {
	b.rules = append(b.rules, rule{kind: kindCustom, field: field, custom: fn})
	return b
}

// Nested dispatches field (expected to be a container value) to sub for
// recursive validation.
func (b *Builder) Nested(field string, sub *Schema) *Builder {
	b.rules = append(b.rules, rule{kind: kindNested, field: field, nested: sub})
	return b
}

// Build compiles the accumulated rules into a Schema.
func (b *Builder) Build() *Schema {
	return &Schema{rules: b.rules, required: b.required, validate: validator.New()}
}

// lookup finds the first value named field among vals.
func lookup(vals []core.Value, field string) (core.Value, bool) {
	for _, v := range vals {
		if v.Name() == field {
			return v, true
		}
	}
	return nil, false
}

// Validate checks vals against the schema and returns the first violation,
// or nil if every rule passes.
func (s *Schema) Validate(vals []core.Value) error {
	errsList := s.collect(vals, true)
	if len(errsList) == 0 {
		return nil
	}
	return errsList[0]
}

// ValidateAll checks vals against every rule and returns every violation.
// The run's correlation ID (§4.13) goes to the log line only; the returned
// errors do not carry it.
func (s *Schema) ValidateAll(vals []core.Value) []*errs.Error {
	return s.collect(vals, false)
}

func (s *Schema) collect(vals []core.Value, stopAtFirst bool) []*errs.Error {
	var out []*errs.Error
	runID := uuid.New().String()
	defer func() {
		if len(out) > 0 {
			Log.WithFields(logrus.Fields{"component": "schema", "run_id": runID, "violations": len(out)}).
				Warn("schema validation failed")
		}
	}()

	for _, r := range s.rules {
		v, present := lookup(vals, r.field)

		switch r.kind {
		case kindRequire:
			if !present {
				out = append(out, errs.NewValidationError(errs.CodeMissingRequired, r.field, "required field is missing"))
				if stopAtFirst {
					return out
				}
				continue
			}
			if v.Type() != r.vtype {
				out = append(out, errs.NewValidationError(errs.CodeValTypeMismatch, r.field,
					fmt.Sprintf("expected type %s, got %s", r.vtype.TypeName(), v.Type().TypeName())))
				if stopAtFirst {
					return out
				}
			}

		case kindOptional:
			if present && v.Type() != r.vtype {
				out = append(out, errs.NewValidationError(errs.CodeValTypeMismatch, r.field,
					fmt.Sprintf("expected type %s, got %s", r.vtype.TypeName(), v.Type().TypeName())))
				if stopAtFirst {
					return out
				}
			}

		case kindRange:
			if !present {
				continue
			}
			if err := s.checkRange(r, v); err != nil {
				out = append(out, err)
				if stopAtFirst {
					return out
				}
			}

		case kindLength:
			if !present {
				continue
			}
			if err := s.checkLength(r, v); err != nil {
				out = append(out, err)
				if stopAtFirst {
					return out
				}
			}

		case kindPattern:
			if !present {
				continue
			}
			str, err := v.ToString()
			if err != nil || !r.pattern.MatchString(str) {
				out = append(out, errs.NewValidationError(errs.CodeRegexMismatch, r.field, "value does not match required pattern"))
				if stopAtFirst {
					return out
				}
			}

		case kindOneOf:
			if !present {
				continue
			}
			if !s.checkOneOf(r, v) {
				out = append(out, errs.NewValidationError(errs.CodeNotInAllowedSet, r.field, "value is not in the allowed set"))
				if stopAtFirst {
					return out
				}
			}

		case kindCustom:
			if !present {
				continue
			}
			if err := r.custom(v); err != nil {
				out = append(out, errs.NewValidationError(errs.CodeCustomPredicateFail, r.field, err.Error()))
				if stopAtFirst {
					return out
				}
			}

		case kindNested:
			if !present {
				continue
			}
			children := v.Children()
			if nestedErrs := r.nested.collect(children, stopAtFirst); len(nestedErrs) > 0 {
				out = append(out, errs.NewValidationError(errs.CodeNestedFailed, r.field, "nested validation failed"))
				out = append(out, nestedErrs...)
				if stopAtFirst {
					return out
				}
			}
		}
	}
	return out
}

func (s *Schema) checkRange(r rule, v core.Value) *errs.Error {
	f, err := toFloat(v)
	if err != nil {
		return errs.NewValidationError(errs.CodeOutOfRange, r.field, "value is not numeric")
	}
	tag := fmt.Sprintf("min=%v,max=%v", r.min, r.max)
	if err := s.validate.Var(f, tag); err != nil {
		return errs.NewValidationError(errs.CodeOutOfRange, r.field,
			fmt.Sprintf("value %v out of range [%v, %v]", f, r.min, r.max))
	}
	return nil
}

func (s *Schema) checkLength(r rule, v core.Value) *errs.Error {
	var length int
	switch {
	case v.IsString():
		str, _ := v.ToString()
		length = len([]rune(str))
	case v.IsBytes():
		length = len(v.Data())
	default:
		return errs.NewValidationError(errs.CodeLengthOutOfRange, r.field, "field does not support length constraints")
	}
	tag := fmt.Sprintf("min=%d,max=%d", int(r.min), int(r.max))
	if err := s.validate.Var(length, tag); err != nil {
		return errs.NewValidationError(errs.CodeLengthOutOfRange, r.field,
			fmt.Sprintf("length %d out of range [%d, %d]", length, int(r.min), int(r.max)))
	}
	return nil
}

func (s *Schema) checkOneOf(r rule, v core.Value) bool {
	str, err := v.ToString()
	if err != nil {
		return false
	}
	for _, a := range r.allowed {
		if fmt.Sprintf("%v", a) == str {
			return true
		}
	}
	return false
}

func toFloat(v core.Value) (float64, error) {
	if f, err := v.ToFloat64(); err == nil {
		return f, nil
	}
	if i, err := v.ToInt64(); err == nil {
		return float64(i), nil
	}
	if u, err := v.ToUInt64(); err == nil {
		return float64(u), nil
	}
	return 0, errs.NewValidationError(errs.CodeOutOfRange, v.Name(), "not numeric")
}
