package chain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// CoerceArguments adapts args to the Go types go-ethereum packs for the
// constructor inputs. Big integers bound for uintN/intN with N <= 64 are
// narrowed to the matching fixed-width type, failing on overflow. Everything
// else passes through unchanged.
func CoerceArguments(constructor abi.Method, args []any) ([]any, error) {
	if len(constructor.Inputs) != len(args) {
		return nil, fmt.Errorf("constructor takes %d arguments, got %d", len(constructor.Inputs), len(args))
	}

	out := make([]any, len(args))
	for i, input := range constructor.Inputs {
		v, err := coerce(input.Type, args[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d (%s %s): %w", i, input.Type.String(), input.Name, err)
		}
		out[i] = v
	}

	return out, nil
}

func coerce(t abi.Type, v any) (any, error) {
	n, ok := v.(*big.Int)
	if !ok || (t.T != abi.UintTy && t.T != abi.IntTy) {
		return v, nil
	}

	switch t.Size {
	case 8, 16, 32, 64:
	default:
		// go-ethereum packs every other width from *big.Int.
		return v, nil
	}

	if t.T == abi.UintTy {
		if n.Sign() < 0 || n.BitLen() > t.Size {
			return nil, fmt.Errorf("value %s overflows uint%d", n, t.Size)
		}
		u := n.Uint64()
		switch t.Size {
		case 8:
			return uint8(u), nil
		case 16:
			return uint16(u), nil
		case 32:
			return uint32(u), nil
		default:
			return u, nil
		}
	}

	limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
	if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
		return nil, fmt.Errorf("value %s overflows int%d", n, t.Size)
	}
	i := n.Int64()
	switch t.Size {
	case 8:
		return int8(i), nil
	case 16:
		return int16(i), nil
	case 32:
		return int32(i), nil
	default:
		return i, nil
	}
}
