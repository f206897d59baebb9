package blockchain

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/catapult/internal/domain"
)

// CoerceArgs converts free-text constructor inputs into the Go values abi packing expects
func CoerceArgs(args abi.Arguments, values []string) ([]interface{}, error) {
	if len(values) != len(args) {
		return nil, domain.NewDeployError(domain.CodeInvalidArgumentCount,
			fmt.Errorf("%w: got %d values, constructor takes %d", domain.ErrConstructorArity, len(values), len(args)))
	}

	out := make([]interface{}, len(args))
	for i, arg := range args {
		v, err := coerceValue(arg.Type, values[i])
		if err != nil {
			name := arg.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, domain.NewDeployError(domain.CodeInvalidArgument,
				fmt.Errorf("argument %s (%s): %w", name, arg.Type.String(), err))
		}
		out[i] = v
	}
	return out, nil
}

func coerceValue(t abi.Type, raw string) (interface{}, error) {
	if t.T == abi.StringTy {
		return raw, nil
	}
	raw = strings.TrimSpace(raw)

	switch t.T {
	case abi.BoolTy:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid bool %q", raw)
		}
		return b, nil

	case abi.AddressTy:
		if !common.IsHexAddress(raw) {
			return nil, fmt.Errorf("invalid address %q", raw)
		}
		return common.HexToAddress(raw), nil

	case abi.IntTy, abi.UintTy:
		return coerceInteger(t, raw)

	case abi.BytesTy:
		b, err := hexutil.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid bytes %q: %w", raw, err)
		}
		return b, nil

	case abi.FixedBytesTy:
		b, err := hexutil.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid bytes%d %q: %w", t.Size, raw, err)
		}
		if len(b) > t.Size {
			return nil, fmt.Errorf("value is %d bytes, bytes%d holds %d", len(b), t.Size, t.Size)
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil

	case abi.SliceTy, abi.ArrayTy:
		return coerceList(t, raw)

	case abi.TupleTy:
		return coerceTuple(t, raw)

	default:
		return nil, fmt.Errorf("unsupported type %s", t.String())
	}
}

func coerceInteger(t abi.Type, raw string) (interface{}, error) {
	n, ok := new(big.Int).SetString(strings.ReplaceAll(raw, "_", ""), 0)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", raw)
	}

	if t.T == abi.UintTy {
		if n.Sign() < 0 || n.BitLen() > t.Size {
			return nil, fmt.Errorf("%s out of range for %s", raw, t.String())
		}
	} else {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		minimum := new(big.Int).Neg(limit)
		maximum := new(big.Int).Sub(limit, big.NewInt(1))
		if n.Cmp(minimum) < 0 || n.Cmp(maximum) > 0 {
			return nil, fmt.Errorf("%s out of range for %s", raw, t.String())
		}
	}

	switch t.Size {
	case 8, 16, 32, 64:
		v := reflect.New(t.GetType()).Elem()
		if t.T == abi.UintTy {
			v.SetUint(n.Uint64())
		} else {
			v.SetInt(n.Int64())
		}
		return v.Interface(), nil
	default:
		return n, nil
	}
}

// coerceList accepts a JSON array whose elements are coerced with the element type
func coerceList(t abi.Type, raw string) (interface{}, error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%s expects a JSON array: %w", t.String(), err)
	}
	if t.T == abi.ArrayTy && len(items) != t.Size {
		return nil, fmt.Errorf("%s expects %d elements, got %d", t.String(), t.Size, len(items))
	}

	var out reflect.Value
	if t.T == abi.ArrayTy {
		out = reflect.New(t.GetType()).Elem()
	} else {
		out = reflect.MakeSlice(t.GetType(), len(items), len(items))
	}

	for i, item := range items {
		v, err := coerceValue(*t.Elem, elementString(item))
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out.Index(i).Set(reflect.ValueOf(v))
	}
	return out.Interface(), nil
}

// coerceTuple accepts a JSON array of components in order, or an object keyed by component name
func coerceTuple(t abi.Type, raw string) (interface{}, error) {
	items := make([]json.RawMessage, len(t.TupleElems))

	var positional []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &positional); err == nil {
		if len(positional) != len(t.TupleElems) {
			return nil, fmt.Errorf("%s expects %d components, got %d", t.String(), len(t.TupleElems), len(positional))
		}
		copy(items, positional)
	} else {
		var named map[string]json.RawMessage
		if err := json.Unmarshal([]byte(raw), &named); err != nil {
			return nil, fmt.Errorf("%s expects a JSON array or object: %w", t.String(), err)
		}
		for i, name := range t.TupleRawNames {
			item, ok := named[name]
			if !ok {
				return nil, fmt.Errorf("missing component %q", name)
			}
			items[i] = item
		}
	}

	out := reflect.New(t.GetType()).Elem()
	for i, elem := range t.TupleElems {
		v, err := coerceValue(*elem, elementString(items[i]))
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		out.Field(i).Set(reflect.ValueOf(v))
	}
	return out.Interface(), nil
}

// elementString unquotes JSON strings and keeps any other JSON value verbatim
func elementString(item json.RawMessage) string {
	var s string
	if err := json.Unmarshal(item, &s); err == nil {
		return s
	}
	return string(item)
}
