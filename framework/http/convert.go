package http

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
)

var (
	uuidType     = reflect.TypeOf(uuid.UUID{})
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
	bigIntType   = reflect.TypeOf((*big.Int)(nil))
)

// ErrUnsupportedType is returned for target types Convert does not know.
var ErrUnsupportedType = errors.New("unsupported parameter type")

// Convert turns a raw path or query value into a value of type t. Named types
// over the basic kinds are supported, as are pointers to any supported type.
//
//	Convert("42", reflect.TypeOf(int64(0)))          // int64(42)
//	Convert("2024-05-01", reflect.TypeOf(time.Time{})) // midnight UTC
func Convert(raw string, t reflect.Type) (any, error) {
	v, err := convert(raw, t)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func convert(raw string, t reflect.Type) (reflect.Value, error) {
	switch t {
	case uuidType:
		id, err := uuid.Parse(raw)
		return reflect.ValueOf(id), err
	case timeType:
		return parseTime(raw)
	case durationType:
		d, err := time.ParseDuration(raw)
		return reflect.ValueOf(d), err
	case bigIntType:
		n, ok := new(big.Int).SetString(raw, 10)
		if !ok {
			return reflect.Value{}, fmt.Errorf("invalid integer %q", raw)
		}
		return reflect.ValueOf(n), nil
	}

	out := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		out.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetFloat(f)
	case reflect.Ptr:
		elem, err := convert(raw, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(elem)
		return p, nil
	default:
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
	return out, nil
}

func parseTime(raw string) (reflect.Value, error) {
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return reflect.ValueOf(ts), nil
	}
	ts, err := time.Parse(time.DateOnly, raw)
	return reflect.ValueOf(ts), err
}
