package leb128

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendUint(t *testing.T) {
	cases := []struct {
		v    uint64
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{300, []byte{0xac, 0x02}},
		{624485, []byte{0xe5, 0x8e, 0x26}},
		{math.MaxUint64, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, AppendUint(nil, c.v), "value %d", c.v)
	}
}

func TestAppendInt(t *testing.T) {
	cases := []struct {
		v    int64
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{-1, []byte{0x7f}},
		{42, []byte{0x2a}},
		{63, []byte{0x3f}},
		{64, []byte{0xc0, 0x00}},
		{-64, []byte{0x40}},
		{-65, []byte{0xbf, 0x7f}},
		{127, []byte{0xff, 0x00}},
		{-123456, []byte{0xc0, 0xbb, 0x78}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, AppendInt(nil, c.v), "value %d", c.v)
	}
}

func TestRoundTripUint(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 255, 16384, 1 << 32, math.MaxUint64}
	for _, v := range values {
		enc := AppendUint(nil, v)
		got, n, err := DecodeUint(enc, true)
		require.NoError(t, err)
		assert.Equal(t, len(enc), n)
		assert.Equal(t, v, got)
	}
}

func TestRoundTripInt(t *testing.T) {
	values := []int64{0, 1, -1, 63, 64, -64, -65, math.MaxInt64, math.MinInt64}
	for _, v := range values {
		enc := AppendInt(nil, v)
		got, n, err := DecodeInt(enc, true)
		require.NoError(t, err)
		assert.Equal(t, len(enc), n)
		assert.Equal(t, v, got)
	}
}

func TestRoundTripBig(t *testing.T) {
	two70 := new(big.Int).Lsh(big.NewInt(1), 70)
	values := []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		two70,
		new(big.Int).Neg(two70),
		new(big.Int).Sub(two70, big.NewInt(1)),
	}
	for _, v := range values {
		if v.Sign() >= 0 {
			enc := AppendBigUint(nil, v)
			got, n, err := DecodeBigUint(enc, true)
			require.NoError(t, err)
			assert.Equal(t, len(enc), n)
			assert.Zero(t, v.Cmp(got), "uleb %s", v)
		}
		enc := AppendBigInt(nil, v)
		got, n, err := DecodeBigInt(enc, true)
		require.NoError(t, err)
		assert.Equal(t, len(enc), n)
		assert.Zero(t, v.Cmp(got), "sleb %s", v)
	}
}

func TestBigEncodingShape(t *testing.T) {
	// 2^70 is ten zero chunks followed by a one.
	two70 := new(big.Int).Lsh(big.NewInt(1), 70)
	want := append(make([]byte, 0, 11), 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x01)
	assert.Equal(t, want, AppendBigUint(nil, two70))
}

func TestDecodeTruncated(t *testing.T) {
	for _, buf := range [][]byte{{}, {0x80}, {0xff, 0x80}} {
		_, _, err := DecodeUint(buf, true)
		assert.ErrorIs(t, err, ErrTruncated)
		_, _, err = DecodeInt(buf, true)
		assert.ErrorIs(t, err, ErrTruncated)
	}
}

func TestDecodeNonMinimal(t *testing.T) {
	_, _, err := DecodeUint([]byte{0x80, 0x00}, true)
	assert.ErrorIs(t, err, ErrNonMinimal)

	v, n, err := DecodeUint([]byte{0x80, 0x00}, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)
	assert.Equal(t, 2, n)

	// Redundant positive and negative continuations.
	_, _, err = DecodeInt([]byte{0xaa, 0x00}, true)
	assert.ErrorIs(t, err, ErrNonMinimal)
	_, _, err = DecodeInt([]byte{0xff, 0x7f}, true)
	assert.ErrorIs(t, err, ErrNonMinimal)

	// 127 needs the extra byte to keep its sign, so this is minimal.
	v2, _, err := DecodeInt([]byte{0xff, 0x00}, true)
	require.NoError(t, err)
	assert.Equal(t, int64(127), v2)
}

func TestDecodeOverflow(t *testing.T) {
	// 2^64 and -2^64 fit only in the big decoders.
	over := AppendBigUint(nil, new(big.Int).Lsh(big.NewInt(1), 64))
	_, _, err := DecodeUint(over, true)
	assert.ErrorIs(t, err, ErrOverflow)

	neg := AppendBigInt(nil, new(big.Int).Lsh(big.NewInt(-1), 64))
	_, _, err = DecodeInt(neg, true)
	assert.ErrorIs(t, err, ErrOverflow)
}

func BenchmarkAppendUint(b *testing.B) {
	buf := make([]byte, 0, 16)
	for i := 0; i < b.N; i++ {
		buf = AppendUint(buf[:0], 624485)
	}
}

func BenchmarkDecodeUint(b *testing.B) {
	enc := AppendUint(nil, 624485)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := DecodeUint(enc, true); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecodeBigInt(b *testing.B) {
	enc := AppendBigInt(nil, new(big.Int).Lsh(big.NewInt(-3), 200))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := DecodeBigInt(enc, true); err != nil {
			b.Fatal(err)
		}
	}
}
