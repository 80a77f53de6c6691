/****************************************************************************
BSD 3-Clause License

Copyright (c) 2021, 🍀☀🌕🌥 🌊
All rights reserved.
****************************************************************************/

package values

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/kcenon/typedkv/container/core"
)

func init() {
	core.RegisterValueFactory(FromTypeAndData)
}

// FromTypeAndData reconstructs a concrete value from its type code and raw
// Data() payload, resolving core.ValueContainer.FromMessagePack's registered
// ValueFactory seam (§4.14). children is only consulted for the
// container/array variants, whose payload carries no data of its own.
func FromTypeAndData(name string, vtype core.ValueType, data []byte, children []core.Value) (core.Value, error) {
	switch vtype {
	case core.NullValue:
		return NewNullValue(name), nil

	case core.BoolValue:
		return NewBoolValueFromBytes(name, data)

	case core.ShortValue:
		if len(data) < 2 {
			return nil, shortData(name, "ShortValue", 2, len(data))
		}
		return NewInt16Value(name, int16(binary.LittleEndian.Uint16(data))), nil

	case core.UShortValue:
		if len(data) < 2 {
			return nil, shortData(name, "UShortValue", 2, len(data))
		}
		return NewUInt16Value(name, binary.LittleEndian.Uint16(data)), nil

	case core.IntValue:
		if len(data) < 4 {
			return nil, shortData(name, "IntValue", 4, len(data))
		}
		return NewInt32Value(name, int32(binary.LittleEndian.Uint32(data))), nil

	case core.UIntValue:
		if len(data) < 4 {
			return nil, shortData(name, "UIntValue", 4, len(data))
		}
		return NewUInt32Value(name, binary.LittleEndian.Uint32(data)), nil

	case core.LongValue:
		if len(data) < 4 {
			return nil, shortData(name, "LongValue", 4, len(data))
		}
		return NewLongValue(name, int64(int32(binary.LittleEndian.Uint32(data))))

	case core.ULongValue:
		if len(data) < 4 {
			return nil, shortData(name, "ULongValue", 4, len(data))
		}
		return NewULongValue(name, uint64(binary.LittleEndian.Uint32(data)))

	case core.LLongValue:
		if len(data) < 8 {
			return nil, shortData(name, "LLongValue", 8, len(data))
		}
		return NewInt64Value(name, int64(binary.LittleEndian.Uint64(data))), nil

	case core.ULLongValue:
		if len(data) < 8 {
			return nil, shortData(name, "ULLongValue", 8, len(data))
		}
		return NewUInt64Value(name, binary.LittleEndian.Uint64(data)), nil

	case core.FloatValue:
		if len(data) < 4 {
			return nil, shortData(name, "FloatValue", 4, len(data))
		}
		return NewFloat32Value(name, math.Float32frombits(binary.LittleEndian.Uint32(data))), nil

	case core.DoubleValue:
		if len(data) < 8 {
			return nil, shortData(name, "DoubleValue", 8, len(data))
		}
		return NewFloat64Value(name, math.Float64frombits(binary.LittleEndian.Uint64(data))), nil

	case core.BytesValue:
		return NewBytesValue(name, data), nil

	case core.StringValue:
		return NewStringValue(name, string(data)), nil

	case core.ContainerValue:
		return NewContainerValue(name, children...), nil

	case core.ArrayValue:
		return NewArrayValue(name, children...), nil

	default:
		return nil, fmt.Errorf("unsupported value type %d for %q", int(vtype), name)
	}
}

func shortData(name, kind string, want, got int) error {
	return fmt.Errorf("insufficient data for %s %q: want %d bytes, got %d", kind, name, want, got)
}
