package candid

// Kind identifies a type constructor. Primitive kinds map one-to-one onto
// negative wire opcodes; composite kinds are rendered as type-table entries;
// KindRef points into a Table by index and only appears in decoded types.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNat
	KindInt
	KindNat8
	KindNat16
	KindNat32
	KindNat64
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindText
	KindReserved
	KindEmpty
	KindPrincipal
	KindOpt
	KindVec
	KindRecord
	KindVariant
	KindFunc
	KindService
	KindRef
)

// Wire opcodes, SLEB128-encoded in type-table entries and argument lists.
const (
	opcodeNull      = -1
	opcodeBool      = -2
	opcodeNat       = -3
	opcodeInt       = -4
	opcodeNat8      = -5
	opcodeNat16     = -6
	opcodeNat32     = -7
	opcodeNat64     = -8
	opcodeInt8      = -9
	opcodeInt16     = -10
	opcodeInt32     = -11
	opcodeInt64     = -12
	opcodeFloat32   = -13
	opcodeFloat64   = -14
	opcodeText      = -15
	opcodeReserved  = -16
	opcodeEmpty     = -17
	opcodeOpt       = -18
	opcodeVec       = -19
	opcodeRecord    = -20
	opcodeVariant   = -21
	opcodeFunc      = -22
	opcodeService   = -23
	opcodePrincipal = -24
)

// FuncMode annotates a func type. Wire values follow the type-table layout:
// each mode is a single byte after the signature.
type FuncMode uint8

const (
	ModeQuery          FuncMode = 1
	ModeOneway         FuncMode = 2
	ModeCompositeQuery FuncMode = 3
)

// Type is a structural type descriptor. Exactly one payload group is
// meaningful per Kind: Inner for opt/vec, Fields for record/variant, Fn for
// func, Methods for service, Ref for table references.
type Type struct {
	Kind    Kind
	Inner   *Type
	Fields  []Field
	Ref     int
	Fn      *FuncType
	Methods []Method
}

// Field is a record or variant member. Name is retained when the field was
// declared with a textual label; the wire only ever carries ID.
type Field struct {
	ID   uint32
	Name string
	Type *Type
}

// FuncType is the signature payload of a KindFunc type.
type FuncType struct {
	Args  []*Type
	Rets  []*Type
	Modes []FuncMode
}

// Method is a named entry of a KindService type.
type Method struct {
	Name string
	Type *Type
}

var primitives = [...]*Type{
	KindNull:      {Kind: KindNull},
	KindBool:      {Kind: KindBool},
	KindNat:       {Kind: KindNat},
	KindInt:       {Kind: KindInt},
	KindNat8:      {Kind: KindNat8},
	KindNat16:     {Kind: KindNat16},
	KindNat32:     {Kind: KindNat32},
	KindNat64:     {Kind: KindNat64},
	KindInt8:      {Kind: KindInt8},
	KindInt16:     {Kind: KindInt16},
	KindInt32:     {Kind: KindInt32},
	KindInt64:     {Kind: KindInt64},
	KindFloat32:   {Kind: KindFloat32},
	KindFloat64:   {Kind: KindFloat64},
	KindText:      {Kind: KindText},
	KindReserved:  {Kind: KindReserved},
	KindEmpty:     {Kind: KindEmpty},
	KindPrincipal: {Kind: KindPrincipal},
}

func Null() *Type          { return primitives[KindNull] }
func Bool() *Type          { return primitives[KindBool] }
func Nat() *Type           { return primitives[KindNat] }
func Int() *Type           { return primitives[KindInt] }
func Nat8() *Type          { return primitives[KindNat8] }
func Nat16() *Type         { return primitives[KindNat16] }
func Nat32() *Type         { return primitives[KindNat32] }
func Nat64() *Type         { return primitives[KindNat64] }
func Int8() *Type          { return primitives[KindInt8] }
func Int16() *Type         { return primitives[KindInt16] }
func Int32() *Type         { return primitives[KindInt32] }
func Int64() *Type         { return primitives[KindInt64] }
func Float32() *Type       { return primitives[KindFloat32] }
func Float64() *Type       { return primitives[KindFloat64] }
func Text() *Type          { return primitives[KindText] }
func Reserved() *Type      { return primitives[KindReserved] }
func Empty() *Type         { return primitives[KindEmpty] }
func PrincipalType() *Type { return primitives[KindPrincipal] }

func Opt(inner *Type) *Type { return &Type{Kind: KindOpt, Inner: inner} }
func Vec(inner *Type) *Type { return &Type{Kind: KindVec, Inner: inner} }

// Record builds a record type; fields are sorted by id.
func Record(fields ...Field) *Type {
	return &Type{Kind: KindRecord, Fields: sortFields(fields)}
}

// Variant builds a variant type; fields are sorted by id.
func Variant(fields ...Field) *Type {
	return &Type{Kind: KindVariant, Fields: sortFields(fields)}
}

// Func builds a func type descriptor. Values of this type are not encodable;
// the type itself participates in type tables.
func Func(args, rets []*Type, modes ...FuncMode) *Type {
	return &Type{Kind: KindFunc, Fn: &FuncType{Args: args, Rets: rets, Modes: modes}}
}

// Service builds a service type descriptor; methods are sorted by name.
func Service(methods ...Method) *Type {
	sorted := make([]Method, len(methods))
	copy(sorted, methods)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].Name < sorted[j-1].Name; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	return &Type{Kind: KindService, Methods: sorted}
}

// Ref builds a reference to table entry i; used to close recursive types.
func Ref(i int) *Type { return &Type{Kind: KindRef, Ref: i} }

// NamedField builds a field whose id is the label hash.
func NamedField(name string, t *Type) Field {
	return Field{ID: HashLabel(name), Name: name, Type: t}
}

// NumberedField builds a field addressed by numeric id.
func NumberedField(id uint32, t *Type) Field {
	return Field{ID: id, Type: t}
}

func sortFields(fields []Field) []Field {
	sorted := make([]Field, len(fields))
	copy(sorted, fields)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].ID < sorted[j-1].ID; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	return sorted
}

// IsPrimitive reports whether t renders as a bare negative opcode rather than
// a type-table entry.
func (t *Type) IsPrimitive() bool {
	return t.Kind <= KindPrincipal
}

func (t *Type) opcode() int64 {
	switch t.Kind {
	case KindNull:
		return opcodeNull
	case KindBool:
		return opcodeBool
	case KindNat:
		return opcodeNat
	case KindInt:
		return opcodeInt
	case KindNat8:
		return opcodeNat8
	case KindNat16:
		return opcodeNat16
	case KindNat32:
		return opcodeNat32
	case KindNat64:
		return opcodeNat64
	case KindInt8:
		return opcodeInt8
	case KindInt16:
		return opcodeInt16
	case KindInt32:
		return opcodeInt32
	case KindInt64:
		return opcodeInt64
	case KindFloat32:
		return opcodeFloat32
	case KindFloat64:
		return opcodeFloat64
	case KindText:
		return opcodeText
	case KindReserved:
		return opcodeReserved
	case KindEmpty:
		return opcodeEmpty
	case KindOpt:
		return opcodeOpt
	case KindVec:
		return opcodeVec
	case KindRecord:
		return opcodeRecord
	case KindVariant:
		return opcodeVariant
	case KindFunc:
		return opcodeFunc
	case KindService:
		return opcodeService
	case KindPrincipal:
		return opcodePrincipal
	}
	return 0
}

func primitiveKind(op int64) (Kind, bool) {
	switch op {
	case opcodeNull:
		return KindNull, true
	case opcodeBool:
		return KindBool, true
	case opcodeNat:
		return KindNat, true
	case opcodeInt:
		return KindInt, true
	case opcodeNat8:
		return KindNat8, true
	case opcodeNat16:
		return KindNat16, true
	case opcodeNat32:
		return KindNat32, true
	case opcodeNat64:
		return KindNat64, true
	case opcodeInt8:
		return KindInt8, true
	case opcodeInt16:
		return KindInt16, true
	case opcodeInt32:
		return KindInt32, true
	case opcodeInt64:
		return KindInt64, true
	case opcodeFloat32:
		return KindFloat32, true
	case opcodeFloat64:
		return KindFloat64, true
	case opcodeText:
		return KindText, true
	case opcodeReserved:
		return KindReserved, true
	case opcodeEmpty:
		return KindEmpty, true
	case opcodePrincipal:
		return KindPrincipal, true
	}
	return 0, false
}

var kindNames = [...]string{
	KindNull: "null", KindBool: "bool", KindNat: "nat", KindInt: "int",
	KindNat8: "nat8", KindNat16: "nat16", KindNat32: "nat32", KindNat64: "nat64",
	KindInt8: "int8", KindInt16: "int16", KindInt32: "int32", KindInt64: "int64",
	KindFloat32: "float32", KindFloat64: "float64", KindText: "text",
	KindReserved: "reserved", KindEmpty: "empty", KindPrincipal: "principal",
	KindOpt: "opt", KindVec: "vec", KindRecord: "record", KindVariant: "variant",
	KindFunc: "func", KindService: "service", KindRef: "ref",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}
