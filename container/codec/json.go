/****************************************************************************
BSD 3-Clause License

Copyright (c) 2021, 🍀☀🌕🌥 🌊
All rights reserved.
****************************************************************************/

package codec

import (
	"encoding/base64"
	"encoding/json"
	"math"
	"strings"

	"github.com/kcenon/typedkv/container/core"
	"github.com/kcenon/typedkv/container/errs"
	"github.com/kcenon/typedkv/container/values"
)

const bytesSentinel = "bytes:"

type jsonEntry struct {
	Key   string      `json:"key"`
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

type jsonDocument struct {
	Header jsonHeader  `json:"header"`
	Values []jsonEntry `json:"values"`
}

type jsonHeader struct {
	SourceID    string `json:"source_id"`
	SourceSubID string `json:"source_sub_id"`
	TargetID    string `json:"target_id"`
	TargetSubID string `json:"target_sub_id"`
	MessageType string `json:"message_type"`
}

// EncodeJSON renders a header and value set as the single
// {"header":...,"values":[...]} document (§4.3/§6.2).
func EncodeJSON(h Header, vals []core.Value) (string, error) {
	doc := jsonDocument{
		Header: jsonHeader{
			SourceID:    h.SourceID,
			SourceSubID: h.SourceSubID,
			TargetID:    h.TargetID,
			TargetSubID: h.TargetSubID,
			MessageType: h.MessageType,
		},
		Values: make([]jsonEntry, 0, len(vals)),
	}
	for _, v := range vals {
		jv, err := valueToJSON(v)
		if err != nil {
			return "", err
		}
		doc.Values = append(doc.Values, jsonEntry{Key: v.Name(), Type: v.Type().TypeName(), Value: jv})
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", errs.NewSerializeFailed("codec.json", err.Error())
	}
	return string(out), nil
}

// DecodeJSON parses a document produced by EncodeJSON.
func DecodeJSON(data string) (Header, []core.Value, error) {
	var doc jsonDocument
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return Header{}, nil, errs.NewDeserializeFailed("codec.json", err.Error())
	}
	h := Header{
		SourceID:    doc.Header.SourceID,
		SourceSubID: doc.Header.SourceSubID,
		TargetID:    doc.Header.TargetID,
		TargetSubID: doc.Header.TargetSubID,
		MessageType: doc.Header.MessageType,
	}
	vals := make([]core.Value, 0, len(doc.Values))
	for _, e := range doc.Values {
		v, err := jsonToValue(e.Key, e.Type, e.Value)
		if err != nil {
			return h, nil, err
		}
		vals = append(vals, v)
	}
	return h, vals, nil
}

func valueToJSON(v core.Value) (interface{}, error) {
	switch vv := v.(type) {
	case *values.NullValue:
		return nil, nil
	case *values.BoolValue:
		b, _ := vv.ToBool()
		return b, nil
	case *values.Int16Value:
		return vv.Value(), nil
	case *values.UInt16Value:
		return vv.Value(), nil
	case *values.Int32Value:
		return vv.Value(), nil
	case *values.UInt32Value:
		return vv.Value(), nil
	case *values.LongValue:
		return vv.Value(), nil
	case *values.ULongValue:
		return vv.Value(), nil
	case *values.Int64Value:
		return vv.Value(), nil
	case *values.UInt64Value:
		return vv.Value(), nil
	case *values.Float32Value:
		f := vv.Value()
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return nil, nil
		}
		return f, nil
	case *values.Float64Value:
		f := vv.Value()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, nil
		}
		return f, nil
	case *values.BytesValue:
		return bytesSentinel + base64.StdEncoding.EncodeToString(vv.Value()), nil
	case *values.StringValue:
		return vv.Value(), nil
	case *values.ContainerValue:
		children := vv.Children()
		entries := make([]jsonEntry, 0, len(children))
		for _, c := range children {
			jv, err := valueToJSON(c)
			if err != nil {
				return nil, err
			}
			entries = append(entries, jsonEntry{Key: c.Name(), Type: c.Type().TypeName(), Value: jv})
		}
		return entries, nil
	case *values.ArrayValue:
		elems := vv.Elements()
		entries := make([]jsonEntry, 0, len(elems))
		for _, e := range elems {
			jv, err := valueToJSON(e)
			if err != nil {
				return nil, err
			}
			entries = append(entries, jsonEntry{Key: e.Name(), Type: e.Type().TypeName(), Value: jv})
		}
		return entries, nil
	default:
		return nil, errs.NewSerializeFailed("codec.json", "unsupported concrete value type")
	}
}

func jsonToValue(name, typeName string, raw interface{}) (core.Value, error) {
	switch typeName {
	case "null":
		return values.NewNullValue(name), nil
	case "bool":
		b, ok := raw.(bool)
		if !ok {
			return nil, errs.NewInvalidFormat("codec.json", "expected bool for "+name)
		}
		return values.NewBoolValue(name, b), nil
	case "short":
		return values.NewInt16Value(name, int16(asFloat(raw))), nil
	case "ushort":
		return values.NewUInt16Value(name, uint16(asFloat(raw))), nil
	case "int":
		return values.NewInt32Value(name, int32(asFloat(raw))), nil
	case "uint":
		return values.NewUInt32Value(name, uint32(asFloat(raw))), nil
	case "long":
		return values.NewLongValue(name, int64(asFloat(raw)))
	case "ulong":
		return values.NewULongValue(name, uint64(asFloat(raw)))
	case "llong":
		return values.NewInt64Value(name, int64(asFloat(raw))), nil
	case "ullong":
		return values.NewUInt64Value(name, uint64(asFloat(raw))), nil
	case "float":
		return values.NewFloat32Value(name, float32(asFloat(raw))), nil
	case "double":
		return values.NewFloat64Value(name, asFloat(raw)), nil
	case "bytes":
		s, ok := raw.(string)
		if !ok {
			return nil, errs.NewInvalidFormat("codec.json", "expected bytes-sentinel string for "+name)
		}
		s = strings.TrimPrefix(s, bytesSentinel)
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, errs.NewEncodingError("codec.json", "invalid base64 in bytes field")
		}
		return values.NewBytesValue(name, b), nil
	case "string":
		s, ok := raw.(string)
		if !ok {
			return nil, errs.NewInvalidFormat("codec.json", "expected string for "+name)
		}
		return values.NewStringValueChecked(name, s)
	case "container":
		entries, err := asEntries(raw)
		if err != nil {
			return nil, err
		}
		cv := values.NewContainerValue(name)
		for _, e := range entries {
			child, err := jsonToValue(e.Key, e.Type, e.Value)
			if err != nil {
				return nil, err
			}
			cv.AddChild(child)
		}
		return cv, nil
	case "array":
		entries, err := asEntries(raw)
		if err != nil {
			return nil, err
		}
		av := values.NewArrayValue(name)
		for _, e := range entries {
			elem, err := jsonToValue(e.Key, e.Type, e.Value)
			if err != nil {
				return nil, err
			}
			av.Append(elem)
		}
		return av, nil
	default:
		return nil, errs.NewInvalidFormat("codec.json", "unknown type name "+typeName)
	}
}

func asFloat(raw interface{}) float64 {
	f, _ := raw.(float64)
	return f
}

func asEntries(raw interface{}) ([]jsonEntry, error) {
	// raw decodes from json.Unmarshal as []interface{} of map[string]interface{}.
	list, ok := raw.([]interface{})
	if !ok {
		return nil, errs.NewInvalidFormat("codec.json", "expected nested value array")
	}
	entries := make([]jsonEntry, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil, errs.NewInvalidFormat("codec.json", "expected nested value object")
		}
		key, _ := m["key"].(string)
		typ, _ := m["type"].(string)
		entries = append(entries, jsonEntry{Key: key, Type: typ, Value: m["value"]})
	}
	return entries, nil
}
