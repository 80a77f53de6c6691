/****************************************************************************
BSD 3-Clause License

Copyright (c) 2021, 🍀☀🌕🌥 🌊
All rights reserved.
****************************************************************************/

package codec

import (
	"encoding/base64"
	"encoding/xml"
	"math"
	"strconv"
	"strings"

	"github.com/kcenon/typedkv/container/core"
	"github.com/kcenon/typedkv/container/errs"
	"github.com/kcenon/typedkv/container/values"
)

type xmlHeader struct {
	SourceID    string `xml:"source_id"`
	SourceSubID string `xml:"source_sub_id"`
	TargetID    string `xml:"target_id"`
	TargetSubID string `xml:"target_sub_id"`
	MessageType string `xml:"message_type"`
}

type xmlValue struct {
	XMLName  xml.Name   `xml:"value"`
	Key      string     `xml:"key,attr"`
	Type     string     `xml:"type,attr"`
	Null     bool       `xml:"null,attr,omitempty"`
	Text     string     `xml:",chardata"`
	Children []xmlValue `xml:"value,omitempty"`
}

type xmlDocument struct {
	XMLName xml.Name   `xml:"container"`
	Version string     `xml:"version,attr"`
	Header  xmlHeader  `xml:"header"`
	Values  []xmlValue `xml:"values>value"`
}

// EncodeXML renders a header and value set as the module's
// <container version="1"><header/><values>...</values></container> document.
func EncodeXML(h Header, vals []core.Value) (string, error) {
	doc := xmlDocument{
		Version: "1",
		Header: xmlHeader{
			SourceID:    h.SourceID,
			SourceSubID: h.SourceSubID,
			TargetID:    h.TargetID,
			TargetSubID: h.TargetSubID,
			MessageType: h.MessageType,
		},
	}
	for _, v := range vals {
		xv, err := valueToXML(v)
		if err != nil {
			return "", err
		}
		doc.Values = append(doc.Values, xv)
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", errs.NewSerializeFailed("codec.xml", err.Error())
	}
	return xml.Header + string(out), nil
}

// DecodeXML parses a document produced by EncodeXML.
func DecodeXML(data string) (Header, []core.Value, error) {
	var doc xmlDocument
	if err := xml.Unmarshal([]byte(data), &doc); err != nil {
		return Header{}, nil, errs.NewDeserializeFailed("codec.xml", err.Error())
	}
	h := Header{
		SourceID:    doc.Header.SourceID,
		SourceSubID: doc.Header.SourceSubID,
		TargetID:    doc.Header.TargetID,
		TargetSubID: doc.Header.TargetSubID,
		MessageType: doc.Header.MessageType,
	}
	vals := make([]core.Value, 0, len(doc.Values))
	for _, xv := range doc.Values {
		v, err := xmlToValue(xv)
		if err != nil {
			return h, nil, err
		}
		vals = append(vals, v)
	}
	return h, vals, nil
}

func valueToXML(v core.Value) (xmlValue, error) {
	xv := xmlValue{Key: v.Name(), Type: v.Type().TypeName()}

	switch vv := v.(type) {
	case *values.NullValue:
		xv.Null = true
	case *values.BoolValue:
		b, _ := vv.ToBool()
		xv.Text = strconv.FormatBool(b)
	case *values.Int16Value:
		xv.Text = strconv.FormatInt(int64(vv.Value()), 10)
	case *values.UInt16Value:
		xv.Text = strconv.FormatUint(uint64(vv.Value()), 10)
	case *values.Int32Value:
		xv.Text = strconv.FormatInt(int64(vv.Value()), 10)
	case *values.UInt32Value:
		xv.Text = strconv.FormatUint(uint64(vv.Value()), 10)
	case *values.LongValue:
		xv.Text = strconv.FormatInt(int64(vv.Value()), 10)
	case *values.ULongValue:
		xv.Text = strconv.FormatUint(uint64(vv.Value()), 10)
	case *values.Int64Value:
		xv.Text = strconv.FormatInt(vv.Value(), 10)
	case *values.UInt64Value:
		xv.Text = strconv.FormatUint(vv.Value(), 10)
	case *values.Float32Value:
		f := vv.Value()
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			xv.Null = true
		} else {
			xv.Text = strconv.FormatFloat(float64(f), 'g', -1, 32)
		}
	case *values.Float64Value:
		f := vv.Value()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			xv.Null = true
		} else {
			xv.Text = strconv.FormatFloat(f, 'g', -1, 64)
		}
	case *values.BytesValue:
		xv.Text = bytesSentinel + base64.StdEncoding.EncodeToString(vv.Value())
	case *values.StringValue:
		xv.Text = vv.Value()
	case *values.ContainerValue:
		for _, c := range vv.Children() {
			cxv, err := valueToXML(c)
			if err != nil {
				return xv, err
			}
			xv.Children = append(xv.Children, cxv)
		}
	case *values.ArrayValue:
		for _, e := range vv.Elements() {
			exv, err := valueToXML(e)
			if err != nil {
				return xv, err
			}
			xv.Children = append(xv.Children, exv)
		}
	default:
		return xv, errs.NewSerializeFailed("codec.xml", "unsupported concrete value type")
	}
	return xv, nil
}

func xmlToValue(xv xmlValue) (core.Value, error) {
	name := xv.Key
	switch xv.Type {
	case "null":
		return values.NewNullValue(name), nil
	case "bool":
		b, err := strconv.ParseBool(xv.Text)
		if err != nil {
			return nil, errs.NewInvalidFormat("codec.xml", "invalid bool payload")
		}
		return values.NewBoolValue(name, b), nil
	case "short":
		n, err := strconv.ParseInt(xv.Text, 10, 16)
		if err != nil {
			return nil, errs.NewInvalidFormat("codec.xml", "invalid short payload")
		}
		return values.NewInt16Value(name, int16(n)), nil
	case "ushort":
		n, err := strconv.ParseUint(xv.Text, 10, 16)
		if err != nil {
			return nil, errs.NewInvalidFormat("codec.xml", "invalid ushort payload")
		}
		return values.NewUInt16Value(name, uint16(n)), nil
	case "int":
		n, err := strconv.ParseInt(xv.Text, 10, 32)
		if err != nil {
			return nil, errs.NewInvalidFormat("codec.xml", "invalid int payload")
		}
		return values.NewInt32Value(name, int32(n)), nil
	case "uint":
		n, err := strconv.ParseUint(xv.Text, 10, 32)
		if err != nil {
			return nil, errs.NewInvalidFormat("codec.xml", "invalid uint payload")
		}
		return values.NewUInt32Value(name, uint32(n)), nil
	case "long":
		n, err := strconv.ParseInt(xv.Text, 10, 64)
		if err != nil {
			return nil, errs.NewInvalidFormat("codec.xml", "invalid long payload")
		}
		return values.NewLongValue(name, n)
	case "ulong":
		n, err := strconv.ParseUint(xv.Text, 10, 64)
		if err != nil {
			return nil, errs.NewInvalidFormat("codec.xml", "invalid ulong payload")
		}
		return values.NewULongValue(name, n)
	case "llong":
		n, err := strconv.ParseInt(xv.Text, 10, 64)
		if err != nil {
			return nil, errs.NewInvalidFormat("codec.xml", "invalid llong payload")
		}
		return values.NewInt64Value(name, n), nil
	case "ullong":
		n, err := strconv.ParseUint(xv.Text, 10, 64)
		if err != nil {
			return nil, errs.NewInvalidFormat("codec.xml", "invalid ullong payload")
		}
		return values.NewUInt64Value(name, n), nil
	case "float":
		if xv.Null {
			return values.NewFloat32Value(name, float32(math.NaN())), nil
		}
		f, err := strconv.ParseFloat(xv.Text, 32)
		if err != nil {
			return nil, errs.NewInvalidFormat("codec.xml", "invalid float payload")
		}
		return values.NewFloat32Value(name, float32(f)), nil
	case "double":
		if xv.Null {
			return values.NewFloat64Value(name, math.NaN()), nil
		}
		f, err := strconv.ParseFloat(xv.Text, 64)
		if err != nil {
			return nil, errs.NewInvalidFormat("codec.xml", "invalid double payload")
		}
		return values.NewFloat64Value(name, f), nil
	case "bytes":
		s := strings.TrimPrefix(xv.Text, bytesSentinel)
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, errs.NewEncodingError("codec.xml", "invalid base64 in bytes field")
		}
		return values.NewBytesValue(name, b), nil
	case "string":
		return values.NewStringValueChecked(name, xv.Text)
	case "container":
		cv := values.NewContainerValue(name)
		for _, c := range xv.Children {
			child, err := xmlToValue(c)
			if err != nil {
				return nil, err
			}
			cv.AddChild(child)
		}
		return cv, nil
	case "array":
		av := values.NewArrayValue(name)
		for _, c := range xv.Children {
			elem, err := xmlToValue(c)
			if err != nil {
				return nil, err
			}
			av.Append(elem)
		}
		return av, nil
	default:
		return nil, errs.NewInvalidFormat("codec.xml", "unknown type name "+xv.Type)
	}
}
