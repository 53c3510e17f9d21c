package candid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeAs(t *testing.T, text string, expected ...*Type) []*Value {
	t.Helper()
	values, err := ParseArgs(text)
	require.NoError(t, err)
	enc, err := EncodeArgs(values...)
	require.NoError(t, err)
	out, err := DecodeArgs(enc, expected)
	require.NoError(t, err)
	return out
}

func TestCoerceNatToInt(t *testing.T) {
	out := decodeAs(t, `(42 : nat)`, Int())
	require.Len(t, out, 1)
	assert.Equal(t, ValueInt, out[0].Kind)
	assert.Equal(t, "42", PrintValue(out[0]))
}

func TestCoerceIntToNatFails(t *testing.T) {
	values, _ := ParseArgs(`(42)`)
	enc, err := EncodeArgs(values...)
	require.NoError(t, err)
	_, err = DecodeArgs(enc, []*Type{Nat()})
	assert.ErrorIs(t, err, ErrTypeIncompatible)
}

func TestCoerceNoNumericNarrowing(t *testing.T) {
	values, _ := ParseArgs(`(42 : nat64)`)
	enc, err := EncodeArgs(values...)
	require.NoError(t, err)
	_, err = DecodeArgs(enc, []*Type{Nat32()})
	assert.ErrorIs(t, err, ErrTypeIncompatible)

	_, err = DecodeArgs(enc, []*Type{Nat()})
	assert.ErrorIs(t, err, ErrTypeIncompatible)
}

func TestCoerceNullToOpt(t *testing.T) {
	out := decodeAs(t, `(null)`, Opt(Int()))
	assert.Equal(t, "null", PrintValue(out[0]))
	assert.Nil(t, out[0].Opt)
}

func TestCoerceValueToOptOfItself(t *testing.T) {
	out := decodeAs(t, `(42)`, Opt(Int()))
	assert.Equal(t, "opt 42", PrintValue(out[0]))
}

func TestCoerceOptMismatchDegradesToNone(t *testing.T) {
	// text does not fit opt int; the optional absorbs the failure.
	out := decodeAs(t, `("x")`, Opt(Int()))
	assert.Equal(t, "null", PrintValue(out[0]))

	out = decodeAs(t, `(opt "x")`, Opt(Int()))
	assert.Equal(t, "null", PrintValue(out[0]))
}

func TestCoerceReservedSink(t *testing.T) {
	for _, text := range []string{`("anything")`, `(42)`, `(vec { 1 })`} {
		out := decodeAs(t, text, Reserved())
		assert.Equal(t, "reserved", PrintValue(out[0]), text)
	}
}

func TestCoerceRecordWidthSubtyping(t *testing.T) {
	// Extra wire fields are dropped, known ones keep their values.
	expected := Record(NamedField("a", Int()))
	out := decodeAs(t, `(record { a = 1; b = 2 })`, expected)
	require.Len(t, out[0].Fields, 1)
	assert.Equal(t, "record { a = 1 }", PrintValue(out[0]))
}

func TestCoerceRecordDefaultsAbsentFields(t *testing.T) {
	expected := Record(
		NamedField("a", Int()),
		NamedField("missing_opt", Opt(Text())),
		NamedField("missing_res", Reserved()),
	)
	out := decodeAs(t, `(record { a = 1 })`, expected)
	m := map[uint32]*Value{}
	for _, f := range out[0].Fields {
		m[f.ID] = f.Value
	}
	assert.Equal(t, "1", PrintValue(m[HashLabel("a")]))
	assert.Equal(t, "null", PrintValue(m[HashLabel("missing_opt")]))
	assert.Equal(t, "reserved", PrintValue(m[HashLabel("missing_res")]))
}

func TestCoerceRecordMissingRequiredField(t *testing.T) {
	expected := Record(NamedField("a", Int()), NamedField("b", Text()))
	values, _ := ParseArgs(`(record { a = 1 })`)
	enc, err := EncodeArgs(values...)
	require.NoError(t, err)
	_, err = DecodeArgs(enc, []*Type{expected})
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestCoerceVariantByLabel(t *testing.T) {
	expected := Variant(
		NamedField("Ok", Nat()),
		NamedField("Err", Text()),
	)
	out := decodeAs(t, `(variant { Ok = 5 : nat })`, expected)
	require.Len(t, out[0].Fields, 1)
	assert.Equal(t, "Ok", out[0].Fields[0].Name)
	assert.Equal(t, "5 : nat", PrintValue(out[0].Fields[0].Value))
}

func TestCoerceVariantUnknownCase(t *testing.T) {
	expected := Variant(NamedField("Ok", Nat()))
	values, _ := ParseArgs(`(variant { Err = "boom" })`)
	enc, err := EncodeArgs(values...)
	require.NoError(t, err)
	_, err = DecodeArgs(enc, []*Type{expected})
	assert.ErrorIs(t, err, ErrTypeIncompatible)
}

func TestCoerceBlobAndVecNat8(t *testing.T) {
	// blob on the wire, vec nat8 expected.
	out := decodeAs(t, `(blob "\01\02")`, Vec(Nat8()))
	assert.Equal(t, ValueBlob, out[0].Kind)
	assert.Equal(t, []byte{1, 2}, out[0].Bytes)

	// vec nat8 literals arrive as a blob already.
	out = decodeAs(t, `(vec { 1 : nat8; 2 : nat8 })`, Vec(Nat8()))
	assert.Equal(t, ValueBlob, out[0].Kind)
}

func TestCoerceVecElements(t *testing.T) {
	out := decodeAs(t, `(vec { 1 : nat; 2 : nat })`, Vec(Int()))
	assert.Equal(t, "vec { 1; 2 }", PrintValue(out[0]))
}

func TestCoerceSurplusAndAbsentArguments(t *testing.T) {
	// Surplus decoded arguments are dropped.
	out := decodeAs(t, `(1, "extra")`, Int())
	require.Len(t, out, 1)

	// Absent arguments default when the expected type allows.
	out = decodeAs(t, `(1)`, Int(), Opt(Text()))
	require.Len(t, out, 2)
	assert.Equal(t, "null", PrintValue(out[1]))

	values, _ := ParseArgs(`(1)`)
	enc, err := EncodeArgs(values...)
	require.NoError(t, err)
	_, err = DecodeArgs(enc, []*Type{Int(), Text()})
	assert.ErrorIs(t, err, ErrMissingField)
}
