package commands

import (
	"github.com/buger/jsonparser"
	"github.com/cockroachdb/errors"

	"github.com/chaisql/packstream"
)

// jsonToValue parses raw as a single JSON document and converts it to
// the value shapes the Packer's dispatch recognizes: maps become
// *packstream.OrderedMap so encode preserves source key order, integer-
// looking number literals become packstream.I64 rather than float64.
func jsonToValue(raw []byte) (any, error) {
	value, dataType, _, err := jsonparser.Get(raw)
	if err != nil {
		return nil, err
	}
	return tokenToValue(value, dataType)
}

func tokenToValue(data []byte, dataType jsonparser.ValueType) (any, error) {
	switch dataType {
	case jsonparser.Null:
		return nil, nil
	case jsonparser.Boolean:
		return jsonparser.ParseBoolean(data)
	case jsonparser.Number:
		if isIntegerLiteral(data) {
			n, err := jsonparser.ParseInt(data)
			if err != nil {
				return nil, err
			}
			return packstream.I64(n), nil
		}
		return jsonparser.ParseFloat(data)
	case jsonparser.String:
		return jsonparser.ParseString(data)
	case jsonparser.Array:
		return tokenToList(data)
	case jsonparser.Object:
		return tokenToMap(data)
	default:
		return nil, errors.Newf("packcli: unsupported JSON token type %v", dataType)
	}
}

func tokenToList(data []byte) (any, error) {
	var out []any
	var firstErr error
	_, err := jsonparser.ArrayEach(data, func(value []byte, dt jsonparser.ValueType, _ int, elemErr error) {
		if firstErr != nil {
			return
		}
		if elemErr != nil {
			firstErr = elemErr
			return
		}
		v, err := tokenToValue(value, dt)
		if err != nil {
			firstErr = err
			return
		}
		out = append(out, v)
	})
	if err != nil {
		return nil, err
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

func tokenToMap(data []byte) (any, error) {
	var entries []packstream.MapEntry
	err := jsonparser.ObjectEach(data, func(key, value []byte, dt jsonparser.ValueType, _ int) error {
		v, err := tokenToValue(value, dt)
		if err != nil {
			return err
		}
		entries = append(entries, packstream.MapEntry{Key: string(key), Value: v})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return packstream.NewOrderedMap(entries...), nil
}

func isIntegerLiteral(b []byte) bool {
	for _, c := range b {
		if c == '.' || c == 'e' || c == 'E' {
			return false
		}
	}
	return true
}
