package candid

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/lucid-icp/candid-go/internal/leb128"
)

// reader is a consuming cursor over an input buffer. Every read either
// advances the position or returns an error carrying the offset at which the
// input ran out or went bad.
type reader struct {
	buf    []byte
	pos    int
	strict bool
}

func newReader(buf []byte, strict bool) *reader {
	return &reader{buf: buf, strict: strict}
}

func (r *reader) remaining() int { return len(r.buf) - r.pos }

func (r *reader) readBytes(n int) ([]byte, error) {
	if n < 0 || n > r.remaining() {
		return nil, fmt.Errorf("%w at offset %d", ErrBufferUnderrun, r.pos)
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) readByte() (byte, error) {
	b, err := r.readBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) varintErr(err error) error {
	switch {
	case errors.Is(err, leb128.ErrTruncated):
		return fmt.Errorf("%w at offset %d", ErrBufferUnderrun, r.pos)
	case errors.Is(err, leb128.ErrNonMinimal):
		return fmt.Errorf("%w at offset %d", ErrMalformedVarint, r.pos)
	case errors.Is(err, leb128.ErrOverflow):
		return fmt.Errorf("%w at offset %d", ErrPrecisionExceeded, r.pos)
	}
	return err
}

func (r *reader) readULEB() (uint64, error) {
	v, n, err := leb128.DecodeUint(r.buf[r.pos:], r.strict)
	if err != nil {
		return 0, r.varintErr(err)
	}
	r.pos += n
	return v, nil
}

func (r *reader) readSLEB() (int64, error) {
	v, n, err := leb128.DecodeInt(r.buf[r.pos:], r.strict)
	if err != nil {
		return 0, r.varintErr(err)
	}
	r.pos += n
	return v, nil
}

func (r *reader) readBigULEB() (*big.Int, error) {
	v, n, err := leb128.DecodeBigUint(r.buf[r.pos:], r.strict)
	if err != nil {
		return nil, r.varintErr(err)
	}
	r.pos += n
	return v, nil
}

func (r *reader) readBigSLEB() (*big.Int, error) {
	v, n, err := leb128.DecodeBigInt(r.buf[r.pos:], r.strict)
	if err != nil {
		return nil, r.varintErr(err)
	}
	r.pos += n
	return v, nil
}

// readLen reads a ULEB length or count and sanity-checks it against the
// remaining input, so a hostile length cannot force a huge allocation.
func (r *reader) readLen() (int, error) {
	v, err := r.readULEB()
	if err != nil {
		return 0, err
	}
	if v > uint64(r.remaining()) {
		return 0, fmt.Errorf("%w at offset %d", ErrBufferUnderrun, r.pos)
	}
	return int(v), nil
}

func (r *reader) readUint16() (uint16, error) {
	b, err := r.readBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *reader) readUint32() (uint32, error) {
	b, err := r.readBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *reader) readUint64() (uint64, error) {
	b, err := r.readBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *reader) readFloat32() (float32, error) {
	v, err := r.readUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (r *reader) readFloat64() (float64, error) {
	v, err := r.readUint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}
