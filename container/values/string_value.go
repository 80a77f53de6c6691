/****************************************************************************
BSD 3-Clause License

Copyright (c) 2021, 🍀☀🌕🌥 🌊
All rights reserved.
****************************************************************************/

package values

import (
	"unicode/utf8"

	"github.com/kcenon/typedkv/container/core"
	"github.com/kcenon/typedkv/container/errs"
)

// StringValue represents a string value
type StringValue struct {
	*core.BaseValue
	value string
}

// NewStringValue creates a new string value. It does not reject a payload
// that is not UTF-8 or that starts with a BOM (§3.1): such a payload is
// stored as given. NewStringValueChecked returns an error for it instead.
func NewStringValue(name string, value string) *StringValue {
	v, err := NewStringValueChecked(name, value)
	if err != nil {
		// Construction callers that don't check the error (the common,
		// already-validated path) still get a value back; the checked
		// constructor is the one that should be used wherever the
		// payload crosses a trust boundary.
		return &StringValue{
			BaseValue: core.NewBaseValue(name, core.StringValue, []byte(value)),
			value:     value,
		}
	}
	return v
}

// NewStringValueChecked is the validating counterpart to NewStringValue; it
// fails with an EncodingError (code 205) on invalid UTF-8 or a leading BOM.
func NewStringValueChecked(name string, value string) (*StringValue, error) {
	if !utf8.ValidString(value) {
		return nil, errs.NewEncodingError(name, "string payload is not valid UTF-8")
	}
	if len(value) >= 3 && value[0] == 0xEF && value[1] == 0xBB && value[2] == 0xBF {
		return nil, errs.NewEncodingError(name, "string payload must not carry a UTF-8 BOM")
	}
	return &StringValue{
		BaseValue: core.NewBaseValue(name, core.StringValue, []byte(value)),
		value:     value,
	}, nil
}

// ToString returns the string value
func (v *StringValue) ToString() (string, error) {
	return v.value, nil
}

// ToBytes implements complete binary format with header
// Format: [type:1][name_len:4][name][value_size:4][string_bytes]
func (v *StringValue) ToBytes() ([]byte, error) {
	name := v.Name()
	nameBytes := []byte(name)
	nameLen := uint32(len(nameBytes))

	valueBytes := []byte(v.value)
	valueSize := uint32(len(valueBytes))

	// Total: type(1) + name_len(4) + name + value_size(4) + value
	totalSize := 1 + 4 + len(nameBytes) + 4 + len(valueBytes)
	result := make([]byte, 0, totalSize)

	// Type (1 byte)
	result = append(result, byte(core.StringValue))

	// Name length (4 bytes, little-endian)
	result = append(result,
		byte(nameLen&0xFF),
		byte((nameLen>>8)&0xFF),
		byte((nameLen>>16)&0xFF),
		byte((nameLen>>24)&0xFF),
	)

	// Name
	result = append(result, nameBytes...)

	// Value size (4 bytes, little-endian)
	result = append(result,
		byte(valueSize&0xFF),
		byte((valueSize>>8)&0xFF),
		byte((valueSize>>16)&0xFF),
		byte((valueSize>>24)&0xFF),
	)

	// String bytes (UTF-8)
	result = append(result, valueBytes...)

	return result, nil
}

// Value returns the underlying string value
func (v *StringValue) Value() string {
	return v.value
}
