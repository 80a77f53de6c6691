/****************************************************************************
BSD 3-Clause License

Copyright (c) 2021, 🍀☀🌕🌥 🌊
All rights reserved.
****************************************************************************/

package schema

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kcenon/typedkv/container/core"
	"github.com/kcenon/typedkv/container/errs"
	"github.com/kcenon/typedkv/container/values"
)

func TestSchema_RequireMissingField(t *testing.T) {
	s := NewBuilder().Require("name", core.StringValue).Build()
	err := s.Validate(nil)
	require.Error(t, err)
	e, ok := err.(*errs.Error)
	require.True(t, ok)
	require.Equal(t, errs.CodeMissingRequired, e.Code)
}

func TestSchema_RequireTypeMismatch(t *testing.T) {
	s := NewBuilder().Require("age", core.IntValue).Build()
	err := s.Validate([]core.Value{values.NewStringValue("age", "not a number")})
	require.Error(t, err)
	e := err.(*errs.Error)
	require.Equal(t, errs.CodeValTypeMismatch, e.Code)
}

func TestSchema_RangeViolation(t *testing.T) {
	s := NewBuilder().Require("age", core.IntValue).Range("age", 0, 150).Build()
	err := s.Validate([]core.Value{values.NewInt32Value("age", 200)})
	require.Error(t, err)
	e := err.(*errs.Error)
	require.Equal(t, errs.CodeOutOfRange, e.Code)
}

func TestSchema_LengthViolation(t *testing.T) {
	s := NewBuilder().Require("name", core.StringValue).Length("name", 3, 10).Build()
	err := s.Validate([]core.Value{values.NewStringValue("name", "ab")})
	require.Error(t, err)
	e := err.(*errs.Error)
	require.Equal(t, errs.CodeLengthOutOfRange, e.Code)
}

func TestSchema_PatternViolation(t *testing.T) {
	s := NewBuilder().Require("email", core.StringValue).Pattern("email", regexp.MustCompile(`^\S+@\S+$`)).Build()
	err := s.Validate([]core.Value{values.NewStringValue("email", "not-an-email")})
	require.Error(t, err)
	e := err.(*errs.Error)
	require.Equal(t, errs.CodeRegexMismatch, e.Code)
}

func TestSchema_OneOfViolation(t *testing.T) {
	s := NewBuilder().Require("color", core.StringValue).OneOf("color", "red", "green", "blue").Build()
	err := s.Validate([]core.Value{values.NewStringValue("color", "purple")})
	require.Error(t, err)
	e := err.(*errs.Error)
	require.Equal(t, errs.CodeNotInAllowedSet, e.Code)
}

func TestSchema_CustomPredicate(t *testing.T) {
	s := NewBuilder().Require("n", core.IntValue).Custom("n", func(v core.Value) error {
		n, _ := v.ToInt32()
		if n%2 != 0 {
			return errs.NewInvalidValue("n", "must be even")
		}
		return nil
	}).Build()
	err := s.Validate([]core.Value{values.NewInt32Value("n", 3)})
	require.Error(t, err)
	e := err.(*errs.Error)
	require.Equal(t, errs.CodeCustomPredicateFail, e.Code)
}

func TestSchema_NestedValidation(t *testing.T) {
	inner := NewBuilder().Require("street", core.StringValue).Build()
	outer := NewBuilder().Require("address", core.ContainerValue).Nested("address", inner).Build()

	addr := values.NewContainerValue("address")
	err := outer.Validate([]core.Value{addr})
	require.Error(t, err)
}

func TestSchema_ValidateAllCollectsEveryError(t *testing.T) {
	s := NewBuilder().
		Require("name", core.StringValue).
		Require("age", core.IntValue).
		Build()
	errList := s.ValidateAll(nil)
	require.Len(t, errList, 2)
}

func TestSchema_PassesWhenValid(t *testing.T) {
	s := NewBuilder().
		Require("name", core.StringValue).Length("name", 1, 20).
		Require("age", core.IntValue).Range("age", 0, 150).
		Build()
	err := s.Validate([]core.Value{
		values.NewStringValue("name", "ada"),
		values.NewInt32Value("age", 30),
	})
	require.NoError(t, err)
}
