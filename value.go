package candid

import "math/big"

// ValueKind tags the payload group of a Value.
type ValueKind uint8

const (
	ValueNull ValueKind = iota
	ValueBool
	ValueNat  // Big
	ValueInt  // Big
	ValueNat8 // U64
	ValueNat16
	ValueNat32
	ValueNat64
	ValueInt8 // I64
	ValueInt16
	ValueInt32
	ValueInt64
	ValueFloat32 // F64, narrowed on encode
	ValueFloat64
	ValueText // Str
	ValueReserved
	ValuePrincipal // Bytes
	ValueOpt       // Opt, nil means none
	ValueVec       // Elems
	ValueBlob      // Bytes, the vec nat8 shorthand
	ValueRecord    // Fields
	ValueVariant   // Fields[0]
)

// Value is a dynamically-typed Candid value tree. Only the payload group
// named for its Kind is meaningful.
type Value struct {
	Kind   ValueKind
	Bool   bool
	Big    *big.Int
	U64    uint64
	I64    int64
	F64    float64
	Str    string
	Bytes  []byte
	Opt    *Value
	Elems  []*Value
	Fields []ValueField
}

// ValueField pairs a field id with its value inside records and variants.
type ValueField struct {
	ID    uint32
	Name  string
	Value *Value
}

func NullValue() *Value     { return &Value{Kind: ValueNull} }
func ReservedValue() *Value { return &Value{Kind: ValueReserved} }
func BoolValue(b bool) *Value {
	return &Value{Kind: ValueBool, Bool: b}
}

func NatValue(v uint64) *Value {
	return &Value{Kind: ValueNat, Big: new(big.Int).SetUint64(v)}
}

func BigNatValue(v *big.Int) *Value {
	return &Value{Kind: ValueNat, Big: new(big.Int).Set(v)}
}

func IntValue(v int64) *Value {
	return &Value{Kind: ValueInt, Big: big.NewInt(v)}
}

func BigIntValue(v *big.Int) *Value {
	return &Value{Kind: ValueInt, Big: new(big.Int).Set(v)}
}

func Nat8Value(v uint8) *Value   { return &Value{Kind: ValueNat8, U64: uint64(v)} }
func Nat16Value(v uint16) *Value { return &Value{Kind: ValueNat16, U64: uint64(v)} }
func Nat32Value(v uint32) *Value { return &Value{Kind: ValueNat32, U64: uint64(v)} }
func Nat64Value(v uint64) *Value { return &Value{Kind: ValueNat64, U64: v} }
func Int8Value(v int8) *Value    { return &Value{Kind: ValueInt8, I64: int64(v)} }
func Int16Value(v int16) *Value  { return &Value{Kind: ValueInt16, I64: int64(v)} }
func Int32Value(v int32) *Value  { return &Value{Kind: ValueInt32, I64: int64(v)} }
func Int64Value(v int64) *Value  { return &Value{Kind: ValueInt64, I64: v} }

func Float32Value(v float32) *Value {
	return &Value{Kind: ValueFloat32, F64: float64(v)}
}

func Float64Value(v float64) *Value {
	return &Value{Kind: ValueFloat64, F64: v}
}

func TextValue(s string) *Value { return &Value{Kind: ValueText, Str: s} }

func PrincipalValue(blob []byte) *Value {
	return &Value{Kind: ValuePrincipal, Bytes: blob}
}

// SomeValue wraps v as a present optional.
func SomeValue(v *Value) *Value { return &Value{Kind: ValueOpt, Opt: v} }

// NoneValue is the absent optional.
func NoneValue() *Value { return &Value{Kind: ValueOpt} }

func VecValue(elems ...*Value) *Value {
	return &Value{Kind: ValueVec, Elems: elems}
}

func BlobValue(b []byte) *Value { return &Value{Kind: ValueBlob, Bytes: b} }

// RecordValue builds a record; fields are sorted by id.
func RecordValue(fields ...ValueField) *Value {
	sorted := make([]ValueField, len(fields))
	copy(sorted, fields)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].ID < sorted[j-1].ID; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	return &Value{Kind: ValueRecord, Fields: sorted}
}

// VariantValue builds a variant case by label; a nil payload means the unit
// (null-typed) case.
func VariantValue(label string, payload *Value) *Value {
	return VariantByID(HashLabel(label), label, payload)
}

// VariantByID builds a variant case by numeric id.
func VariantByID(id uint32, name string, payload *Value) *Value {
	if payload == nil {
		payload = NullValue()
	}
	return &Value{Kind: ValueVariant, Fields: []ValueField{{ID: id, Name: name, Value: payload}}}
}

// NamedVF builds a ValueField whose id is the label hash.
func NamedVF(name string, v *Value) ValueField {
	return ValueField{ID: HashLabel(name), Name: name, Value: v}
}

// NumberedVF builds a ValueField with a numeric id.
func NumberedVF(id uint32, v *Value) ValueField {
	return ValueField{ID: id, Value: v}
}

// InferType derives a type for v, for encoding values built without an
// explicit type. Empty vecs infer vec empty, absent optionals infer opt null;
// both are subtypes of whatever the peer expects.
func InferType(v *Value) *Type {
	switch v.Kind {
	case ValueNull:
		return Null()
	case ValueBool:
		return Bool()
	case ValueNat:
		return Nat()
	case ValueInt:
		return Int()
	case ValueNat8:
		return Nat8()
	case ValueNat16:
		return Nat16()
	case ValueNat32:
		return Nat32()
	case ValueNat64:
		return Nat64()
	case ValueInt8:
		return Int8()
	case ValueInt16:
		return Int16()
	case ValueInt32:
		return Int32()
	case ValueInt64:
		return Int64()
	case ValueFloat32:
		return Float32()
	case ValueFloat64:
		return Float64()
	case ValueText:
		return Text()
	case ValueReserved:
		return Reserved()
	case ValuePrincipal:
		return PrincipalType()
	case ValueOpt:
		if v.Opt == nil {
			return Opt(Null())
		}
		return Opt(InferType(v.Opt))
	case ValueVec:
		if len(v.Elems) == 0 {
			return Vec(Empty())
		}
		return Vec(InferType(v.Elems[0]))
	case ValueBlob:
		return Vec(Nat8())
	case ValueRecord:
		fields := make([]Field, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = Field{ID: f.ID, Name: f.Name, Type: InferType(f.Value)}
		}
		return &Type{Kind: KindRecord, Fields: fields}
	case ValueVariant:
		f := v.Fields[0]
		return Variant(Field{ID: f.ID, Name: f.Name, Type: InferType(f.Value)})
	}
	return Reserved()
}
