package candid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgsTuple(t *testing.T) {
	values, err := ParseArgs(`("hello", 42)`)
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Equal(t, ValueText, values[0].Kind)
	assert.Equal(t, "hello", values[0].Str)
	assert.Equal(t, ValueInt, values[1].Kind)
	assert.Equal(t, "42", values[1].Big.String())
}

func TestParseSingleBareValue(t *testing.T) {
	values, err := ParseArgs(`true`)
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, ValueBool, values[0].Kind)
}

func TestParseEmptyTuple(t *testing.T) {
	values, err := ParseArgs(`()`)
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestParseNumberAnnotations(t *testing.T) {
	cases := []struct {
		in   string
		kind ValueKind
	}{
		{`42`, ValueInt},
		{`-42`, ValueInt},
		{`42 : int`, ValueInt},
		{`42 : nat`, ValueNat},
		{`42 : nat8`, ValueNat8},
		{`42 : nat16`, ValueNat16},
		{`42 : nat32`, ValueNat32},
		{`42 : nat64`, ValueNat64},
		{`-42 : int8`, ValueInt8},
		{`-42 : int16`, ValueInt16},
		{`-42 : int32`, ValueInt32},
		{`-42 : int64`, ValueInt64},
		{`42 : float32`, ValueFloat32},
		{`42 : float64`, ValueFloat64},
		{`3.5`, ValueFloat64},
		{`3.5 : float32`, ValueFloat32},
		{`1e3`, ValueFloat64},
		{`1_000_000`, ValueInt},
	}
	for _, c := range cases {
		v, err := ParseValue(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.kind, v.Kind, c.in)
	}
}

func TestParseNumberRangeErrors(t *testing.T) {
	bad := []string{
		`256 : nat8`,
		`-1 : nat`,
		`-1 : nat32`,
		`128 : int8`,
		`-129 : int8`,
		`18446744073709551616 : nat64`,
		`42 : nosuch`,
		`3.5 : int`,
	}
	for _, in := range bad {
		_, err := ParseValue(in)
		require.Error(t, err, in)
		var se *SyntaxError
		assert.ErrorAs(t, err, &se, in)
	}
}

func TestParseUnderscoreSeparators(t *testing.T) {
	v, err := ParseValue(`1_000_000`)
	require.NoError(t, err)
	assert.Equal(t, "1000000", v.Big.String())
}

func TestParseStringEscapes(t *testing.T) {
	v, err := ParseValue(`"a\nb\t\"q\"\\\41"`)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\t\"q\"\\A", v.Str)
}

func TestParseInvalidUTF8Text(t *testing.T) {
	_, err := ParseValue(`"\ff"`)
	require.Error(t, err)
	var se *SyntaxError
	assert.ErrorAs(t, err, &se)
}

func TestParseBlobAllowsArbitraryBytes(t *testing.T) {
	v, err := ParseValue(`blob "\ff\00abc"`)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0x00, 'a', 'b', 'c'}, v.Bytes)
}

func TestParseRecordTupleShorthand(t *testing.T) {
	v, err := ParseValue(`record { "a"; "b"; "c" }`)
	require.NoError(t, err)
	require.Len(t, v.Fields, 3)
	for i, f := range v.Fields {
		assert.Equal(t, uint32(i), f.ID)
	}
}

func TestParseRecordMixedLabels(t *testing.T) {
	v, err := ParseValue(`record { 5 = "x"; "y" }`)
	require.NoError(t, err)
	require.Len(t, v.Fields, 2)
	assert.Equal(t, uint32(5), v.Fields[0].ID)
	assert.Equal(t, uint32(6), v.Fields[1].ID)
}

func TestParseRecordNamedLabels(t *testing.T) {
	v, err := ParseValue(`record { name = "x"; ok = true }`)
	require.NoError(t, err)
	require.Len(t, v.Fields, 2)
	// Fields sort by hashed id.
	assert.Equal(t, HashLabel("ok"), v.Fields[0].ID)
	assert.Equal(t, HashLabel("name"), v.Fields[1].ID)
}

func TestParseRecordDuplicateField(t *testing.T) {
	_, err := ParseValue(`record { a = 1; a = 2 }`)
	require.Error(t, err)
}

func TestParseVariantForms(t *testing.T) {
	v, err := ParseValue(`variant { ok }`)
	require.NoError(t, err)
	assert.Equal(t, ValueNull, v.Fields[0].Value.Kind)

	v, err = ParseValue(`variant { ok = 5 }`)
	require.NoError(t, err)
	assert.Equal(t, ValueInt, v.Fields[0].Value.Kind)

	v, err = ParseValue(`variant { ok (5) }`)
	require.NoError(t, err)
	assert.Equal(t, ValueInt, v.Fields[0].Value.Kind)

	v, err = ParseValue(`variant { 7 = true }`)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), v.Fields[0].ID)
}

func TestParseSyntaxErrors(t *testing.T) {
	bad := []string{
		``,
		`(`,
		`(1,`,
		`"unterminated`,
		`record { a = }`,
		`variant {}`,
		`vec 1`,
		`frobnicate`,
		`1 2`,
		`principal "not-a-principal!"`,
	}
	for _, in := range bad {
		_, err := ParseArgs(in)
		require.Error(t, err, "input %q", in)
	}
}

func TestParseDepthLimit(t *testing.T) {
	deep := strings.Repeat("opt ", defaultMaxDepth+1) + "null"
	_, err := ParseValue(deep)
	require.Error(t, err)
}

func TestPrintParseFixpoints(t *testing.T) {
	inputs := []string{
		`true`,
		`false`,
		`null : null`,
		`reserved`,
		`42`,
		`-42`,
		`42 : nat`,
		`7 : nat8`,
		`-7 : int16`,
		`3.5`,
		`2.0`,
		`"hello"`,
		`"tab\09"`,
		`opt 1`,
		`vec { 1; 2 }`,
		`record { a = 1 }`,
		`variant { ok = null : null }`,
		`blob "\de\ad"`,
		`principal "2vxsx-fae"`,
	}
	for _, in := range inputs {
		v, err := ParseValue(in)
		require.NoError(t, err, in)
		out := PrintValue(v)
		again, err := ParseValue(out)
		require.NoError(t, err, out)
		assert.Equal(t, out, PrintValue(again), "fixpoint for %q", in)
	}
}

func TestPrintNamedFieldsKeepNames(t *testing.T) {
	v := RecordValue(NamedVF("name", TextValue("x")))
	assert.Equal(t, `record { name = "x" }`, PrintValue(v))
}

func TestPrintFloats(t *testing.T) {
	assert.Equal(t, "2.0", PrintValue(Float64Value(2)))
	assert.Equal(t, "3.5", PrintValue(Float64Value(3.5)))
	assert.Equal(t, "-0.25", PrintValue(Float64Value(-0.25)))
	assert.Equal(t, "1.5 : float32", PrintValue(Float32Value(1.5)))
}

func TestPrintBlobEscapesEveryByte(t *testing.T) {
	assert.Equal(t, `blob "\61\62\63"`, PrintValue(BlobValue([]byte("abc"))))
	assert.Equal(t, `blob ""`, PrintValue(BlobValue(nil)))

	v, err := ParseValue(`blob "\61\62\63"`)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), v.Bytes)
}

func TestPrintNonePrintsNull(t *testing.T) {
	assert.Equal(t, "null", PrintValue(NoneValue()))
	assert.Equal(t, "opt null : null", PrintValue(SomeValue(NullValue())))
}
