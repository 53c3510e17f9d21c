// Package principal converts principal blobs to and from their checksummed
// textual form: a CRC32 of the blob is prepended, the whole thing is base32
// encoded with a lowercase alphabet and no padding, and dashes are inserted
// every five characters.
package principal

import (
	"encoding/base32"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"strings"
)

// MaxLength is the longest raw principal blob.
const MaxLength = 29

var (
	ErrTooLong          = errors.New("principal: blob exceeds 29 bytes")
	ErrChecksumMismatch = errors.New("principal: checksum mismatch")
	ErrBadEncoding      = errors.New("principal: malformed text")
)

var encoding = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)

// Anonymous is the blob of the anonymous principal ("2vxsx-fae").
var Anonymous = []byte{0x04}

// ToText renders a principal blob in textual form. The empty blob renders as
// "aaaaa-aa".
func ToText(blob []byte) string {
	data := make([]byte, 4+len(blob))
	binary.BigEndian.PutUint32(data, crc32.ChecksumIEEE(blob))
	copy(data[4:], blob)
	raw := encoding.EncodeToString(data)
	var sb strings.Builder
	for i := 0; i < len(raw); i += 5 {
		if i > 0 {
			sb.WriteByte('-')
		}
		end := i + 5
		if end > len(raw) {
			end = len(raw)
		}
		sb.WriteString(raw[i:end])
	}
	return sb.String()
}

// FromText parses a textual principal back into its blob, verifying the
// checksum. Case and dash placement are not significant.
func FromText(text string) ([]byte, error) {
	compact := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(text)), "-", "")
	data, err := encoding.DecodeString(compact)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadEncoding, err)
	}
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: %d bytes", ErrBadEncoding, len(data))
	}
	blob := data[4:]
	if len(blob) > MaxLength {
		return nil, ErrTooLong
	}
	if binary.BigEndian.Uint32(data) != crc32.ChecksumIEEE(blob) {
		return nil, ErrChecksumMismatch
	}
	return blob, nil
}
