// Package leb128 implements the LEB128 and SLEB128 variable-length integer
// encodings used throughout the Candid wire format. Both 64-bit fast paths
// and arbitrary-precision (math/big) forms are provided; Candid nat/int are
// unbounded, while lengths, counts and type opcodes fit in 64 bits.
package leb128

import (
	"errors"
	"math/big"
)

const (
	continuation = 0x80
	signBit      = 0x40
)

var (
	ErrTruncated  = errors.New("leb128: truncated encoding")
	ErrNonMinimal = errors.New("leb128: non-minimal encoding")
	ErrOverflow   = errors.New("leb128: value exceeds 64-bit range")
)

// AppendUint appends the minimal ULEB128 encoding of v to dst.
func AppendUint(dst []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= continuation
		}
		dst = append(dst, b)
		if v == 0 {
			return dst
		}
	}
}

// AppendInt appends the minimal SLEB128 encoding of v to dst.
func AppendInt(dst []byte, v int64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&signBit == 0) || (v == -1 && b&signBit != 0) {
			return append(dst, b)
		}
		dst = append(dst, b|continuation)
	}
}

// AppendBigUint appends the minimal ULEB128 encoding of v, which must not be
// negative.
func AppendBigUint(dst []byte, v *big.Int) []byte {
	if v.IsUint64() {
		return AppendUint(dst, v.Uint64())
	}
	rest := new(big.Int).Set(v)
	for rest.Sign() != 0 {
		b := byte(rest.Bits()[0] & 0x7f)
		rest.Rsh(rest, 7)
		if rest.Sign() != 0 {
			b |= continuation
		}
		dst = append(dst, b)
	}
	return dst
}

var (
	minusOne = big.NewInt(-1)
	low7Mask = big.NewInt(0x7f)
	bigOne   = big.NewInt(1)
)

// AppendBigInt appends the minimal SLEB128 encoding of v.
//
// big.Int bitwise ops and shifts follow two's-complement semantics (Rsh of a
// negative value floors), so the loop is identical to the int64 form.
func AppendBigInt(dst []byte, v *big.Int) []byte {
	if v.IsInt64() {
		return AppendInt(dst, v.Int64())
	}
	rest := new(big.Int).Set(v)
	low := new(big.Int)
	for {
		low.And(rest, low7Mask)
		b := byte(low.Uint64())
		rest.Rsh(rest, 7)
		if (rest.Sign() == 0 && b&signBit == 0) ||
			(rest.Cmp(minusOne) == 0 && b&signBit != 0) {
			return append(dst, b)
		}
		dst = append(dst, b|continuation)
	}
}

// DecodeUint decodes a ULEB128 value from the front of buf into a 64-bit
// accumulator, returning the value and the number of bytes consumed. With
// strict set, a non-minimal encoding (a redundant trailing zero byte) is
// rejected.
func DecodeUint(buf []byte, strict bool) (uint64, int, error) {
	if len(buf) > 0 && buf[0]&continuation == 0 {
		return uint64(buf[0]), 1, nil
	}
	v, n, err := DecodeBigUint(buf, strict)
	if err != nil {
		return 0, 0, err
	}
	if !v.IsUint64() {
		return 0, 0, ErrOverflow
	}
	return v.Uint64(), n, nil
}

// DecodeInt decodes an SLEB128 value from the front of buf into a 64-bit
// accumulator with sign extension.
func DecodeInt(buf []byte, strict bool) (int64, int, error) {
	if len(buf) > 0 && buf[0]&continuation == 0 {
		v := int64(buf[0] & 0x7f)
		if buf[0]&signBit != 0 {
			v -= 0x80
		}
		return v, 1, nil
	}
	v, n, err := DecodeBigInt(buf, strict)
	if err != nil {
		return 0, 0, err
	}
	if !v.IsInt64() {
		return 0, 0, ErrOverflow
	}
	return v.Int64(), n, nil
}

// DecodeBigUint decodes an arbitrary-precision ULEB128 value.
func DecodeBigUint(buf []byte, strict bool) (*big.Int, int, error) {
	result := new(big.Int)
	chunk := new(big.Int)
	var shift uint
	for i, b := range buf {
		chunk.SetUint64(uint64(b & 0x7f))
		chunk.Lsh(chunk, shift)
		result.Or(result, chunk)
		if b&continuation == 0 {
			if strict && i > 0 && b == 0x00 {
				return nil, 0, ErrNonMinimal
			}
			return result, i + 1, nil
		}
		shift += 7
	}
	return nil, 0, ErrTruncated
}

// DecodeBigInt decodes an arbitrary-precision SLEB128 value.
func DecodeBigInt(buf []byte, strict bool) (*big.Int, int, error) {
	result := new(big.Int)
	chunk := new(big.Int)
	var shift uint
	for i, b := range buf {
		chunk.SetUint64(uint64(b & 0x7f))
		chunk.Lsh(chunk, shift)
		result.Or(result, chunk)
		shift += 7
		if b&continuation == 0 {
			if b&signBit != 0 {
				chunk.Lsh(bigOne, shift)
				result.Sub(result, chunk)
			}
			n := i + 1
			if strict && n > 1 {
				prev := buf[n-2]
				if (b == 0x00 && prev&signBit == 0) ||
					(b == 0x7f && prev&signBit != 0) {
					return nil, 0, ErrNonMinimal
				}
			}
			return result, n, nil
		}
	}
	return nil, 0, ErrTruncated
}
