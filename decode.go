package candid

import (
	"fmt"
	"unicode/utf8"

	"github.com/lucid-icp/candid-go/principal"
)

// Message is a fully decoded argument sequence: the type table, the declared
// argument types (which may reference the table), and the values decoded at
// those types.
type Message struct {
	Table  *Table
	Types  []*Type
	Values []*Value
}

// DecodeMessage parses a complete DIDL message and rejects trailing input.
func DecodeMessage(data []byte, opts ...Option) (*Message, error) {
	d, err := NewDecoder(data, opts...)
	if err != nil {
		return nil, err
	}
	values := make([]*Value, 0, d.NumArgs())
	for i := 0; i < d.NumArgs(); i++ {
		v, err := d.Next()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if err := d.Done(); err != nil {
		return nil, err
	}
	return &Message{Table: d.tbl, Types: d.types, Values: values}, nil
}

// DecodeArgs parses a message and coerces it to an expected signature in one
// step.
func DecodeArgs(data []byte, expected []*Type, opts ...Option) ([]*Value, error) {
	m, err := DecodeMessage(data, opts...)
	if err != nil {
		return nil, err
	}
	return m.Coerce(expected...)
}

// Decoder reads a message argument by argument. NewDecoder consumes the
// header; each Next or SkipNext consumes one argument's value bytes.
type Decoder struct {
	r      *reader
	tbl    *Table
	types  []*Type
	next   int
	limits Limits
	budget int
}

// NewDecoder parses the header of a DIDL message: magic, type table and
// argument type list.
func NewDecoder(data []byte, opts ...Option) (*Decoder, error) {
	limits := applyOptions(opts)
	r := newReader(data, limits.Strict)
	magic, err := r.readBytes(4)
	if err != nil {
		return nil, err
	}
	if string(magic) != "DIDL" {
		return nil, ErrBadMagic
	}
	tbl, err := decodeTable(r, limits)
	if err != nil {
		return nil, err
	}
	argc, err := r.readLen()
	if err != nil {
		return nil, err
	}
	types := make([]*Type, 0, argc)
	for i := 0; i < argc; i++ {
		t, err := decodeTypeRef(r, len(tbl.Entries))
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return &Decoder{r: r, tbl: tbl, types: types, limits: limits, budget: limits.MaxValues}, nil
}

// NumArgs reports the declared argument count.
func (d *Decoder) NumArgs() int { return len(d.types) }

// Table exposes the decoded type table.
func (d *Decoder) Table() *Table { return d.tbl }

// Types exposes the declared argument types; entries may be KindRef into the
// table.
func (d *Decoder) Types() []*Type { return d.types }

// Next decodes the next argument value at its wire type.
func (d *Decoder) Next() (*Value, error) {
	if d.next >= len(d.types) {
		return nil, fmt.Errorf("%w: no argument %d", ErrBufferUnderrun, d.next)
	}
	t := d.types[d.next]
	d.next++
	return d.decodeValue(t, d.limits.MaxDepth)
}

// SkipNext consumes the next argument's bytes without materializing it.
func (d *Decoder) SkipNext() error {
	if d.next >= len(d.types) {
		return fmt.Errorf("%w: no argument %d", ErrBufferUnderrun, d.next)
	}
	t := d.types[d.next]
	d.next++
	return d.skipValue(t, d.limits.MaxDepth)
}

// Done verifies that every argument was consumed and no input remains.
func (d *Decoder) Done() error {
	for d.next < len(d.types) {
		if err := d.SkipNext(); err != nil {
			return err
		}
	}
	if d.r.remaining() > 0 {
		return fmt.Errorf("%w: %d bytes at offset %d", ErrTrailingBytes, d.r.remaining(), d.r.pos)
	}
	return nil
}

func (d *Decoder) charge() error {
	if d.budget <= 0 {
		return ErrValueLimit
	}
	d.budget--
	return nil
}

func (d *Decoder) decodeValue(t *Type, depth int) (*Value, error) {
	if depth <= 0 {
		return nil, fmt.Errorf("%w at offset %d", ErrRecursionLimit, d.r.pos)
	}
	if err := d.charge(); err != nil {
		return nil, err
	}
	t, err := d.tbl.Resolve(t)
	if err != nil {
		return nil, err
	}
	r := d.r
	switch t.Kind {
	case KindNull:
		return NullValue(), nil
	case KindReserved:
		return ReservedValue(), nil
	case KindEmpty, KindFunc, KindService:
		return nil, fmt.Errorf("%w: no values of type %s", ErrTypeIncompatible, t.Kind)
	case KindBool:
		b, err := r.readByte()
		if err != nil {
			return nil, err
		}
		if b > 1 {
			return nil, fmt.Errorf("%w: bool byte %#x at offset %d", ErrTypeIncompatible, b, r.pos-1)
		}
		return BoolValue(b == 1), nil
	case KindNat:
		v, err := r.readBigULEB()
		if err != nil {
			return nil, err
		}
		return &Value{Kind: ValueNat, Big: v}, nil
	case KindInt:
		v, err := r.readBigSLEB()
		if err != nil {
			return nil, err
		}
		return &Value{Kind: ValueInt, Big: v}, nil
	case KindNat8:
		b, err := r.readByte()
		if err != nil {
			return nil, err
		}
		return Nat8Value(b), nil
	case KindNat16:
		v, err := r.readUint16()
		if err != nil {
			return nil, err
		}
		return Nat16Value(v), nil
	case KindNat32:
		v, err := r.readUint32()
		if err != nil {
			return nil, err
		}
		return Nat32Value(v), nil
	case KindNat64:
		v, err := r.readUint64()
		if err != nil {
			return nil, err
		}
		return Nat64Value(v), nil
	case KindInt8:
		b, err := r.readByte()
		if err != nil {
			return nil, err
		}
		return Int8Value(int8(b)), nil
	case KindInt16:
		v, err := r.readUint16()
		if err != nil {
			return nil, err
		}
		return Int16Value(int16(v)), nil
	case KindInt32:
		v, err := r.readUint32()
		if err != nil {
			return nil, err
		}
		return Int32Value(int32(v)), nil
	case KindInt64:
		v, err := r.readUint64()
		if err != nil {
			return nil, err
		}
		return Int64Value(int64(v)), nil
	case KindFloat32:
		v, err := r.readFloat32()
		if err != nil {
			return nil, err
		}
		return Float32Value(v), nil
	case KindFloat64:
		v, err := r.readFloat64()
		if err != nil {
			return nil, err
		}
		return Float64Value(v), nil
	case KindText:
		n, err := r.readLen()
		if err != nil {
			return nil, err
		}
		raw, err := r.readBytes(n)
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(raw) {
			return nil, fmt.Errorf("%w at offset %d", ErrInvalidUTF8, r.pos)
		}
		return TextValue(string(raw)), nil
	case KindPrincipal:
		return d.decodePrincipal()
	case KindOpt:
		b, err := r.readByte()
		if err != nil {
			return nil, err
		}
		switch b {
		case 0:
			return NoneValue(), nil
		case 1:
			inner, err := d.decodeValue(t.Inner, depth-1)
			if err != nil {
				return nil, err
			}
			return SomeValue(inner), nil
		}
		return nil, fmt.Errorf("%w: opt tag %#x at offset %d", ErrTypeIncompatible, b, r.pos-1)
	case KindVec:
		inner, err := d.tbl.Resolve(t.Inner)
		if err != nil {
			return nil, err
		}
		if inner.Kind == KindNat8 {
			n, err := r.readLen()
			if err != nil {
				return nil, err
			}
			raw, err := r.readBytes(n)
			if err != nil {
				return nil, err
			}
			return BlobValue(append([]byte(nil), raw...)), nil
		}
		count, err := r.readULEB()
		if err != nil {
			return nil, err
		}
		var elems []*Value
		for i := uint64(0); i < count; i++ {
			e, err := d.decodeValue(inner, depth-1)
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
		return &Value{Kind: ValueVec, Elems: elems}, nil
	case KindRecord:
		fields := make([]ValueField, 0, len(t.Fields))
		for _, f := range t.Fields {
			fv, err := d.decodeValue(f.Type, depth-1)
			if err != nil {
				return nil, err
			}
			fields = append(fields, ValueField{ID: f.ID, Name: f.Name, Value: fv})
		}
		return &Value{Kind: ValueRecord, Fields: fields}, nil
	case KindVariant:
		idx, err := r.readULEB()
		if err != nil {
			return nil, err
		}
		if idx >= uint64(len(t.Fields)) {
			return nil, fmt.Errorf("%w: index %d of %d cases at offset %d",
				ErrUnknownVariantIndex, idx, len(t.Fields), r.pos)
		}
		f := t.Fields[idx]
		payload, err := d.decodeValue(f.Type, depth-1)
		if err != nil {
			return nil, err
		}
		return &Value{Kind: ValueVariant, Fields: []ValueField{{ID: f.ID, Name: f.Name, Value: payload}}}, nil
	}
	return nil, fmt.Errorf("%w: kind %s", ErrInvalidOpcode, t.Kind)
}

func (d *Decoder) decodePrincipal() (*Value, error) {
	flag, err := d.r.readByte()
	if err != nil {
		return nil, err
	}
	if flag != 1 {
		return nil, fmt.Errorf("%w: principal tag %#x at offset %d", ErrTypeIncompatible, flag, d.r.pos-1)
	}
	n, err := d.r.readLen()
	if err != nil {
		return nil, err
	}
	if n > principal.MaxLength {
		return nil, fmt.Errorf("%w: principal of %d bytes at offset %d", ErrTypeIncompatible, n, d.r.pos)
	}
	raw, err := d.r.readBytes(n)
	if err != nil {
		return nil, err
	}
	return PrincipalValue(append([]byte(nil), raw...)), nil
}

// skipValue advances past one value of type t without building it. Used for
// explicit argument skipping and for record fields the caller's signature
// does not mention.
func (d *Decoder) skipValue(t *Type, depth int) error {
	if depth <= 0 {
		return fmt.Errorf("%w at offset %d", ErrRecursionLimit, d.r.pos)
	}
	if err := d.charge(); err != nil {
		return err
	}
	t, err := d.tbl.Resolve(t)
	if err != nil {
		return err
	}
	r := d.r
	skipN := func(n int) error {
		_, err := r.readBytes(n)
		return err
	}
	switch t.Kind {
	case KindNull, KindReserved:
		return nil
	case KindEmpty, KindFunc, KindService:
		return fmt.Errorf("%w: no values of type %s", ErrTypeIncompatible, t.Kind)
	case KindBool, KindNat8, KindInt8:
		return skipN(1)
	case KindNat16, KindInt16:
		return skipN(2)
	case KindNat32, KindInt32, KindFloat32:
		return skipN(4)
	case KindNat64, KindInt64, KindFloat64:
		return skipN(8)
	case KindNat:
		_, err := r.readBigULEB()
		return err
	case KindInt:
		_, err := r.readBigSLEB()
		return err
	case KindText:
		n, err := r.readLen()
		if err != nil {
			return err
		}
		return skipN(n)
	case KindPrincipal:
		if err := skipN(1); err != nil {
			return err
		}
		n, err := r.readLen()
		if err != nil {
			return err
		}
		if n > principal.MaxLength {
			return fmt.Errorf("%w: principal of %d bytes at offset %d", ErrTypeIncompatible, n, r.pos)
		}
		return skipN(n)
	case KindOpt:
		b, err := r.readByte()
		if err != nil {
			return err
		}
		switch b {
		case 0:
			return nil
		case 1:
			return d.skipValue(t.Inner, depth-1)
		}
		return fmt.Errorf("%w: opt tag %#x at offset %d", ErrTypeIncompatible, b, r.pos-1)
	case KindVec:
		inner, err := d.tbl.Resolve(t.Inner)
		if err != nil {
			return err
		}
		if inner.Kind == KindNat8 {
			n, err := r.readLen()
			if err != nil {
				return err
			}
			return skipN(n)
		}
		count, err := r.readULEB()
		if err != nil {
			return err
		}
		for i := uint64(0); i < count; i++ {
			if err := d.skipValue(inner, depth-1); err != nil {
				return err
			}
		}
		return nil
	case KindRecord:
		for _, f := range t.Fields {
			if err := d.skipValue(f.Type, depth-1); err != nil {
				return err
			}
		}
		return nil
	case KindVariant:
		idx, err := r.readULEB()
		if err != nil {
			return err
		}
		if idx >= uint64(len(t.Fields)) {
			return fmt.Errorf("%w: index %d of %d cases at offset %d",
				ErrUnknownVariantIndex, idx, len(t.Fields), r.pos)
		}
		return d.skipValue(t.Fields[idx].Type, depth-1)
	}
	return fmt.Errorf("%w: kind %s", ErrInvalidOpcode, t.Kind)
}
