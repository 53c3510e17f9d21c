package candid

import "errors"

// Decoding and encoding failures wrap one of these sentinels, so callers can
// classify with errors.Is while still seeing the byte offset in the message.
var (
	ErrBadMagic            = errors.New("candid: missing DIDL magic")
	ErrMalformedVarint     = errors.New("candid: malformed varint")
	ErrBufferUnderrun      = errors.New("candid: unexpected end of input")
	ErrTableTooLarge       = errors.New("candid: type table too large")
	ErrDanglingTypeRef     = errors.New("candid: type reference out of range")
	ErrUnsortedFields      = errors.New("candid: field ids not in ascending order")
	ErrDuplicateField      = errors.New("candid: duplicate field id")
	ErrUnknownVariantIndex = errors.New("candid: variant index out of range")
	ErrInvalidOpcode       = errors.New("candid: invalid type opcode")
	ErrTypeIncompatible    = errors.New("candid: wire type incompatible with expected type")
	ErrTypeMismatch        = errors.New("candid: value does not match type")
	ErrMissingField        = errors.New("candid: record value missing field")
	ErrInvalidUTF8         = errors.New("candid: invalid utf-8 in text")
	ErrRecursionLimit      = errors.New("candid: recursion limit exceeded")
	ErrValueLimit          = errors.New("candid: value count limit exceeded")
	ErrPrecisionExceeded   = errors.New("candid: value exceeds numeric range")
	ErrTrailingBytes       = errors.New("candid: trailing bytes after message")
)
