package candid

import "fmt"

// Coerce reinterprets the decoded argument values at an expected signature,
// applying the subtyping rules: nat into int, null and mismatches into opt,
// record width changes, variant cases matched by id, blob as vec nat8, and
// reserved as the universal sink. Surplus decoded arguments are dropped;
// absent arguments are defaulted when the expected type permits.
func (m *Message) Coerce(expected ...*Type) ([]*Value, error) {
	out := make([]*Value, len(expected))
	for i, t := range expected {
		if i < len(m.Values) {
			v, err := coerceValue(m.Values[i], t, defaultMaxDepth)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			out[i] = v
			continue
		}
		v, ok := defaultValue(t)
		if !ok {
			return nil, fmt.Errorf("argument %d: %w", i, ErrMissingField)
		}
		out[i] = v
	}
	return out, nil
}

// defaultValue produces the value an absent field or argument takes on, when
// its expected type admits absence.
func defaultValue(t *Type) (*Value, bool) {
	switch t.Kind {
	case KindOpt:
		return NoneValue(), true
	case KindNull:
		return NullValue(), true
	case KindReserved:
		return ReservedValue(), true
	}
	return nil, false
}

func incompatible(t *Type, v *Value) error {
	return fmt.Errorf("%w: %s value at expected %s", ErrTypeIncompatible, valueKindName(v.Kind), t.Kind)
}

func coerceValue(v *Value, t *Type, depth int) (*Value, error) {
	if depth <= 0 {
		return nil, ErrRecursionLimit
	}
	if t.Kind == KindRef {
		return nil, fmt.Errorf("%w: unresolved reference in expected type", ErrDanglingTypeRef)
	}
	switch t.Kind {
	case KindReserved:
		return ReservedValue(), nil
	case KindEmpty, KindFunc, KindService:
		return nil, incompatible(t, v)
	case KindNull:
		if v.Kind != ValueNull {
			return nil, incompatible(t, v)
		}
		return v, nil
	case KindBool:
		if v.Kind != ValueBool {
			return nil, incompatible(t, v)
		}
		return v, nil
	case KindNat:
		if v.Kind != ValueNat {
			return nil, incompatible(t, v)
		}
		return v, nil
	case KindInt:
		switch v.Kind {
		case ValueInt:
			return v, nil
		case ValueNat:
			return &Value{Kind: ValueInt, Big: v.Big}, nil
		}
		return nil, incompatible(t, v)
	case KindNat8, KindNat16, KindNat32, KindNat64,
		KindInt8, KindInt16, KindInt32, KindInt64,
		KindFloat32, KindFloat64, KindText, KindPrincipal:
		// No numeric narrowing or widening between fixed-width types.
		if v.Kind != exactValueKind(t.Kind) {
			return nil, incompatible(t, v)
		}
		return v, nil
	case KindOpt:
		switch v.Kind {
		case ValueNull, ValueReserved:
			return NoneValue(), nil
		case ValueOpt:
			if v.Opt == nil {
				return NoneValue(), nil
			}
			inner, err := coerceValue(v.Opt, t.Inner, depth-1)
			if err != nil {
				return NoneValue(), nil
			}
			return SomeValue(inner), nil
		}
		// Constituent rule: a non-opt value embeds when it fits, otherwise
		// the whole thing degrades to none rather than failing.
		inner, err := coerceValue(v, t.Inner, depth-1)
		if err != nil {
			return NoneValue(), nil
		}
		return SomeValue(inner), nil
	case KindVec:
		inner := t.Inner
		if v.Kind == ValueBlob {
			if inner.Kind != KindNat8 {
				return nil, incompatible(t, v)
			}
			return v, nil
		}
		if v.Kind != ValueVec {
			return nil, incompatible(t, v)
		}
		if inner.Kind == KindNat8 {
			// Canonicalize vec nat8 as a blob.
			raw := make([]byte, len(v.Elems))
			for i, e := range v.Elems {
				if e.Kind != ValueNat8 {
					return nil, incompatible(t, e)
				}
				raw[i] = byte(e.U64)
			}
			return BlobValue(raw), nil
		}
		elems := make([]*Value, len(v.Elems))
		for i, e := range v.Elems {
			ce, err := coerceValue(e, inner, depth-1)
			if err != nil {
				return nil, err
			}
			elems[i] = ce
		}
		return &Value{Kind: ValueVec, Elems: elems}, nil
	case KindRecord:
		if v.Kind != ValueRecord {
			return nil, incompatible(t, v)
		}
		tf := sortFields(t.Fields)
		out := make([]ValueField, 0, len(tf))
		vi := 0
		for _, f := range tf {
			for vi < len(v.Fields) && v.Fields[vi].ID < f.ID {
				vi++ // field the expected type does not mention
			}
			if vi < len(v.Fields) && v.Fields[vi].ID == f.ID {
				cv, err := coerceValue(v.Fields[vi].Value, f.Type, depth-1)
				if err != nil {
					return nil, fmt.Errorf("field %s: %w", fieldLabel(f.ID, f.Name), err)
				}
				out = append(out, ValueField{ID: f.ID, Name: f.Name, Value: cv})
				vi++
				continue
			}
			dv, ok := defaultValue(f.Type)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrMissingField, fieldLabel(f.ID, f.Name))
			}
			out = append(out, ValueField{ID: f.ID, Name: f.Name, Value: dv})
		}
		return &Value{Kind: ValueRecord, Fields: out}, nil
	case KindVariant:
		if v.Kind != ValueVariant || len(v.Fields) != 1 {
			return nil, incompatible(t, v)
		}
		vf := v.Fields[0]
		for _, f := range sortFields(t.Fields) {
			if f.ID == vf.ID {
				cv, err := coerceValue(vf.Value, f.Type, depth-1)
				if err != nil {
					return nil, fmt.Errorf("case %s: %w", fieldLabel(f.ID, f.Name), err)
				}
				return &Value{Kind: ValueVariant, Fields: []ValueField{{ID: f.ID, Name: f.Name, Value: cv}}}, nil
			}
		}
		return nil, fmt.Errorf("%w: case %s not in expected variant", ErrTypeIncompatible, fieldLabel(vf.ID, vf.Name))
	}
	return nil, incompatible(t, v)
}

func exactValueKind(k Kind) ValueKind {
	switch k {
	case KindNat8:
		return ValueNat8
	case KindNat16:
		return ValueNat16
	case KindNat32:
		return ValueNat32
	case KindNat64:
		return ValueNat64
	case KindInt8:
		return ValueInt8
	case KindInt16:
		return ValueInt16
	case KindInt32:
		return ValueInt32
	case KindInt64:
		return ValueInt64
	case KindFloat32:
		return ValueFloat32
	case KindFloat64:
		return ValueFloat64
	case KindText:
		return ValueText
	case KindPrincipal:
		return ValuePrincipal
	}
	return ValueReserved
}
