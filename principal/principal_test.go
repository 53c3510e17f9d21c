package principal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnownVectors(t *testing.T) {
	// Management canister: the empty blob.
	assert.Equal(t, "aaaaa-aa", ToText(nil))
	blob, err := FromText("aaaaa-aa")
	require.NoError(t, err)
	assert.Empty(t, blob)

	// Anonymous principal.
	assert.Equal(t, "2vxsx-fae", ToText(Anonymous))
	blob, err = FromText("2vxsx-fae")
	require.NoError(t, err)
	assert.Equal(t, Anonymous, blob)
}

func TestRoundTripAllLengths(t *testing.T) {
	for n := 0; n <= MaxLength; n++ {
		blob := make([]byte, n)
		for i := range blob {
			blob[i] = byte(i*37 + n)
		}
		text := ToText(blob)
		back, err := FromText(text)
		require.NoError(t, err, "length %d (%s)", n, text)
		assert.Equal(t, blob, back, "length %d", n)
	}
}

func TestFromTextCaseAndDashInsensitive(t *testing.T) {
	blob, err := FromText("2VXSX-FAE")
	require.NoError(t, err)
	assert.Equal(t, Anonymous, blob)

	blob, err = FromText("2vxsxfae")
	require.NoError(t, err)
	assert.Equal(t, Anonymous, blob)

	blob, err = FromText("  2vxsx-fae\n")
	require.NoError(t, err)
	assert.Equal(t, Anonymous, blob)
}

func TestFromTextChecksumMismatch(t *testing.T) {
	_, err := FromText("2vxsx-faa")
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestFromTextMalformed(t *testing.T) {
	for _, in := range []string{"", "a", "!!!", "aaa"} {
		_, err := FromText(in)
		assert.ErrorIs(t, err, ErrBadEncoding, "input %q", in)
	}
}

func TestToTextVerifiesItself(t *testing.T) {
	blob := []byte{0xde, 0xad, 0xbe, 0xef, 0x01}
	back, err := FromText(ToText(blob))
	require.NoError(t, err)
	assert.Equal(t, blob, back)
}
