package candid

import (
	"fmt"
	"unicode/utf8"

	"github.com/lucid-icp/candid-go/principal"
)

// EncodeArgs encodes values at their inferred types into a self-describing
// message.
func EncodeArgs(values ...*Value) ([]byte, error) {
	types := make([]*Type, len(values))
	for i, v := range values {
		types[i] = InferType(v)
	}
	return EncodeMessage(nil, types, values)
}

// EncodeMessage encodes values at explicit types. A non-nil table resolves
// KindRef nodes inside types, so a decoded Message round-trips:
// EncodeMessage(m.Table, m.Types, m.Values).
func EncodeMessage(table *Table, types []*Type, values []*Value) ([]byte, error) {
	if len(types) != len(values) {
		return nil, fmt.Errorf("%w: %d types for %d values", ErrTypeMismatch, len(types), len(values))
	}
	b := newTableBuilder(table)
	refs := make([]int64, len(types))
	for i, t := range types {
		ref, err := b.indexOf(t)
		if err != nil {
			return nil, err
		}
		refs[i] = ref
	}
	var w writer
	w.writeString("DIDL")
	b.writeTo(&w)
	w.writeULEB(uint64(len(types)))
	for _, ref := range refs {
		w.writeSLEB(ref)
	}
	for i, v := range values {
		if err := encodeValue(&w, table, types[i], v, defaultMaxDepth); err != nil {
			return nil, err
		}
	}
	return w.bytes(), nil
}

func mismatch(t *Type, v *Value) error {
	return fmt.Errorf("%w: %s value for %s type", ErrTypeMismatch, valueKindName(v.Kind), t.Kind)
}

func encodeValue(w *writer, tbl *Table, t *Type, v *Value, depth int) error {
	if depth <= 0 {
		return ErrRecursionLimit
	}
	t, err := tbl.Resolve(t)
	if err != nil {
		return err
	}
	switch t.Kind {
	case KindNull:
		if v.Kind != ValueNull {
			return mismatch(t, v)
		}
		return nil
	case KindReserved:
		// Top type: accepts any value, carries no bytes.
		return nil
	case KindEmpty, KindFunc, KindService:
		return fmt.Errorf("%w: no values of type %s", ErrTypeMismatch, t.Kind)
	case KindBool:
		if v.Kind != ValueBool {
			return mismatch(t, v)
		}
		if v.Bool {
			w.writeByte(1)
		} else {
			w.writeByte(0)
		}
		return nil
	case KindNat:
		if v.Kind != ValueNat {
			return mismatch(t, v)
		}
		if v.Big.Sign() < 0 {
			return fmt.Errorf("%w: negative nat", ErrTypeMismatch)
		}
		w.writeBigULEB(v.Big)
		return nil
	case KindInt:
		// nat is a subtype of int, so nat values pass through unchanged.
		if v.Kind != ValueInt && v.Kind != ValueNat {
			return mismatch(t, v)
		}
		w.writeBigSLEB(v.Big)
		return nil
	case KindNat8:
		if v.Kind != ValueNat8 {
			return mismatch(t, v)
		}
		w.writeByte(byte(v.U64))
		return nil
	case KindNat16:
		if v.Kind != ValueNat16 {
			return mismatch(t, v)
		}
		w.writeUint16(uint16(v.U64))
		return nil
	case KindNat32:
		if v.Kind != ValueNat32 {
			return mismatch(t, v)
		}
		w.writeUint32(uint32(v.U64))
		return nil
	case KindNat64:
		if v.Kind != ValueNat64 {
			return mismatch(t, v)
		}
		w.writeUint64(v.U64)
		return nil
	case KindInt8:
		if v.Kind != ValueInt8 {
			return mismatch(t, v)
		}
		w.writeByte(byte(int8(v.I64)))
		return nil
	case KindInt16:
		if v.Kind != ValueInt16 {
			return mismatch(t, v)
		}
		w.writeUint16(uint16(int16(v.I64)))
		return nil
	case KindInt32:
		if v.Kind != ValueInt32 {
			return mismatch(t, v)
		}
		w.writeUint32(uint32(int32(v.I64)))
		return nil
	case KindInt64:
		if v.Kind != ValueInt64 {
			return mismatch(t, v)
		}
		w.writeUint64(uint64(v.I64))
		return nil
	case KindFloat32:
		if v.Kind != ValueFloat32 {
			return mismatch(t, v)
		}
		w.writeFloat32(float32(v.F64))
		return nil
	case KindFloat64:
		if v.Kind != ValueFloat64 {
			return mismatch(t, v)
		}
		w.writeFloat64(v.F64)
		return nil
	case KindText:
		if v.Kind != ValueText {
			return mismatch(t, v)
		}
		if !utf8.ValidString(v.Str) {
			return ErrInvalidUTF8
		}
		w.writeULEB(uint64(len(v.Str)))
		w.writeString(v.Str)
		return nil
	case KindPrincipal:
		if v.Kind != ValuePrincipal {
			return mismatch(t, v)
		}
		if len(v.Bytes) > principal.MaxLength {
			return fmt.Errorf("%w: principal of %d bytes", ErrTypeMismatch, len(v.Bytes))
		}
		w.writeByte(1)
		w.writeULEB(uint64(len(v.Bytes)))
		w.writeBytes(v.Bytes)
		return nil
	case KindOpt:
		if v.Kind != ValueOpt {
			return mismatch(t, v)
		}
		if v.Opt == nil {
			w.writeByte(0)
			return nil
		}
		w.writeByte(1)
		return encodeValue(w, tbl, t.Inner, v.Opt, depth-1)
	case KindVec:
		inner, err := tbl.Resolve(t.Inner)
		if err != nil {
			return err
		}
		if v.Kind == ValueBlob {
			if inner.Kind != KindNat8 {
				return mismatch(t, v)
			}
			w.writeULEB(uint64(len(v.Bytes)))
			w.writeBytes(v.Bytes)
			return nil
		}
		if v.Kind != ValueVec {
			return mismatch(t, v)
		}
		w.writeULEB(uint64(len(v.Elems)))
		for _, e := range v.Elems {
			if err := encodeValue(w, tbl, inner, e, depth-1); err != nil {
				return err
			}
		}
		return nil
	case KindRecord:
		if v.Kind != ValueRecord {
			return mismatch(t, v)
		}
		tf := sortFields(t.Fields)
		vi := 0
		for _, f := range tf {
			if vi < len(v.Fields) && v.Fields[vi].ID < f.ID {
				return fmt.Errorf("%w: unexpected field %s", ErrTypeMismatch, fieldLabel(v.Fields[vi].ID, v.Fields[vi].Name))
			}
			if vi >= len(v.Fields) || v.Fields[vi].ID != f.ID {
				return fmt.Errorf("%w: %s", ErrMissingField, fieldLabel(f.ID, f.Name))
			}
			if err := encodeValue(w, tbl, f.Type, v.Fields[vi].Value, depth-1); err != nil {
				return err
			}
			vi++
		}
		if vi < len(v.Fields) {
			return fmt.Errorf("%w: unexpected field %s", ErrTypeMismatch, fieldLabel(v.Fields[vi].ID, v.Fields[vi].Name))
		}
		return nil
	case KindVariant:
		if v.Kind != ValueVariant || len(v.Fields) != 1 {
			return mismatch(t, v)
		}
		vf := v.Fields[0]
		tf := sortFields(t.Fields)
		for i, f := range tf {
			if f.ID == vf.ID {
				w.writeULEB(uint64(i))
				return encodeValue(w, tbl, f.Type, vf.Value, depth-1)
			}
		}
		return fmt.Errorf("%w: variant case %s not in type", ErrTypeMismatch, fieldLabel(vf.ID, vf.Name))
	}
	return fmt.Errorf("%w: kind %s", ErrInvalidOpcode, t.Kind)
}

func fieldLabel(id uint32, name string) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("%d", id)
}

var valueKindNames = [...]string{
	ValueNull: "null", ValueBool: "bool", ValueNat: "nat", ValueInt: "int",
	ValueNat8: "nat8", ValueNat16: "nat16", ValueNat32: "nat32", ValueNat64: "nat64",
	ValueInt8: "int8", ValueInt16: "int16", ValueInt32: "int32", ValueInt64: "int64",
	ValueFloat32: "float32", ValueFloat64: "float64", ValueText: "text",
	ValueReserved: "reserved", ValuePrincipal: "principal", ValueOpt: "opt",
	ValueVec: "vec", ValueBlob: "blob", ValueRecord: "record", ValueVariant: "variant",
}

func valueKindName(k ValueKind) string {
	if int(k) < len(valueKindNames) {
		return valueKindNames[k]
	}
	return "unknown"
}
