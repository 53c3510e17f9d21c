// Package candid implements the Candid binary and textual value formats:
// DIDL-framed messages with a structural type table, arbitrary-precision
// nat/int, records and variants addressed by 32-bit field ids, and the
// width/depth subtyping rules applied when decoding against an expected type.
//
// The package is a pure codec. Encoding takes Value trees (plus optional
// explicit types) and produces a self-describing message; decoding parses a
// message into Value trees tagged with the wire types, which can then be
// coerced to an expected signature.
package candid

// Limits bounds resource use while decoding hostile input.
type Limits struct {
	// MaxTableEntries caps the declared type-table length.
	MaxTableEntries int
	// MaxDepth caps type and value nesting.
	MaxDepth int
	// MaxValues caps the total number of values materialized by one decode.
	// Zero-width element types make vec counts independent of input length,
	// so input size alone does not bound the work.
	MaxValues int
	// Strict rejects non-minimal varint encodings. Encoders always emit
	// minimal forms; accepting padded forms is opt-out.
	Strict bool
}

const (
	defaultMaxTableEntries = 1 << 16
	defaultMaxDepth        = 512
	defaultMaxValues       = 1 << 20
)

// DefaultLimits returns the limits used when no options are given.
func DefaultLimits() Limits {
	return Limits{
		MaxTableEntries: defaultMaxTableEntries,
		MaxDepth:        defaultMaxDepth,
		MaxValues:       defaultMaxValues,
		Strict:          true,
	}
}

// Option adjusts decoding limits.
type Option func(*Limits)

// WithMaxTableEntries overrides the type-table length cap.
func WithMaxTableEntries(n int) Option {
	return func(l *Limits) { l.MaxTableEntries = n }
}

// WithMaxDepth overrides the nesting cap.
func WithMaxDepth(n int) Option {
	return func(l *Limits) { l.MaxDepth = n }
}

// WithMaxValues overrides the per-decode value count cap.
func WithMaxValues(n int) Option {
	return func(l *Limits) { l.MaxValues = n }
}

// WithLax accepts non-minimal varint encodings.
func WithLax() Option {
	return func(l *Limits) { l.Strict = false }
}

func applyOptions(opts []Option) Limits {
	l := DefaultLimits()
	for _, o := range opts {
		o(&l)
	}
	return l
}
