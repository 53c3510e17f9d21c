package candid

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Table is an arena of composite type descriptors. Wire messages reference
// entries by index; KindRef types in decoded trees point back into the table
// that produced them, which keeps recursive types finite.
type Table struct {
	Entries []*Type
}

// Resolve follows a KindRef into the table. Non-ref types pass through.
func (tbl *Table) Resolve(t *Type) (*Type, error) {
	for t.Kind == KindRef {
		if tbl == nil || t.Ref < 0 || t.Ref >= len(tbl.Entries) {
			return nil, fmt.Errorf("%w: index %d", ErrDanglingTypeRef, t.Ref)
		}
		t = tbl.Entries[t.Ref]
	}
	return t, nil
}

// decodeTable parses the type-table section of a message header, validating
// entry opcodes, reference ranges, field ordering and func/service shape.
func decodeTable(r *reader, limits Limits) (*Table, error) {
	count64, err := r.readULEB()
	if err != nil {
		return nil, err
	}
	if count64 > uint64(limits.MaxTableEntries) {
		return nil, fmt.Errorf("%w: %d entries", ErrTableTooLarge, count64)
	}
	count := int(count64)
	entries := make([]*Type, 0, count)
	for i := 0; i < count; i++ {
		t, err := decodeTableEntry(r, count)
		if err != nil {
			return nil, err
		}
		entries = append(entries, t)
	}
	return &Table{Entries: entries}, nil
}

func decodeTableEntry(r *reader, tableLen int) (*Type, error) {
	op, err := r.readSLEB()
	if err != nil {
		return nil, err
	}
	switch op {
	case opcodeOpt, opcodeVec:
		inner, err := decodeTypeRef(r, tableLen)
		if err != nil {
			return nil, err
		}
		if op == opcodeOpt {
			return &Type{Kind: KindOpt, Inner: inner}, nil
		}
		return &Type{Kind: KindVec, Inner: inner}, nil
	case opcodeRecord, opcodeVariant:
		fields, err := decodeFieldList(r, tableLen)
		if err != nil {
			return nil, err
		}
		if op == opcodeRecord {
			return &Type{Kind: KindRecord, Fields: fields}, nil
		}
		return &Type{Kind: KindVariant, Fields: fields}, nil
	case opcodeFunc:
		return decodeFuncEntry(r, tableLen)
	case opcodeService:
		return decodeServiceEntry(r, tableLen)
	}
	if op < opcodePrincipal {
		// Future type: a length-prefixed blob we cannot interpret yet.
		n, err := r.readLen()
		if err != nil {
			return nil, err
		}
		if _, err := r.readBytes(n); err != nil {
			return nil, err
		}
		return Reserved(), nil
	}
	return nil, fmt.Errorf("%w: %d in table entry at offset %d", ErrInvalidOpcode, op, r.pos)
}

func decodeFieldList(r *reader, tableLen int) ([]Field, error) {
	n, err := r.readLen()
	if err != nil {
		return nil, err
	}
	fields := make([]Field, 0, n)
	var prev uint32
	for i := 0; i < n; i++ {
		id64, err := r.readULEB()
		if err != nil {
			return nil, err
		}
		if id64 > math.MaxUint32 {
			return nil, fmt.Errorf("%w: field id %d", ErrPrecisionExceeded, id64)
		}
		id := uint32(id64)
		if i > 0 {
			if id == prev {
				return nil, fmt.Errorf("%w: id %d", ErrDuplicateField, id)
			}
			if id < prev {
				return nil, fmt.Errorf("%w: id %d after %d", ErrUnsortedFields, id, prev)
			}
		}
		prev = id
		ft, err := decodeTypeRef(r, tableLen)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{ID: id, Type: ft})
	}
	return fields, nil
}

func decodeFuncEntry(r *reader, tableLen int) (*Type, error) {
	args, err := decodeRefList(r, tableLen)
	if err != nil {
		return nil, err
	}
	rets, err := decodeRefList(r, tableLen)
	if err != nil {
		return nil, err
	}
	nmodes, err := r.readLen()
	if err != nil {
		return nil, err
	}
	modes := make([]FuncMode, 0, nmodes)
	for i := 0; i < nmodes; i++ {
		b, err := r.readByte()
		if err != nil {
			return nil, err
		}
		m := FuncMode(b)
		if m < ModeQuery || m > ModeCompositeQuery {
			return nil, fmt.Errorf("%w: func annotation %d", ErrInvalidOpcode, b)
		}
		modes = append(modes, m)
	}
	return &Type{Kind: KindFunc, Fn: &FuncType{Args: args, Rets: rets, Modes: modes}}, nil
}

func decodeServiceEntry(r *reader, tableLen int) (*Type, error) {
	n, err := r.readLen()
	if err != nil {
		return nil, err
	}
	methods := make([]Method, 0, n)
	var prev string
	for i := 0; i < n; i++ {
		nameLen, err := r.readLen()
		if err != nil {
			return nil, err
		}
		raw, err := r.readBytes(nameLen)
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(raw) {
			return nil, fmt.Errorf("%w in method name at offset %d", ErrInvalidUTF8, r.pos)
		}
		name := string(raw)
		if i > 0 {
			if name == prev {
				return nil, fmt.Errorf("%w: method %q", ErrDuplicateField, name)
			}
			if name < prev {
				return nil, fmt.Errorf("%w: method %q after %q", ErrUnsortedFields, name, prev)
			}
		}
		prev = name
		mt, err := decodeTypeRef(r, tableLen)
		if err != nil {
			return nil, err
		}
		methods = append(methods, Method{Name: name, Type: mt})
	}
	return &Type{Kind: KindService, Methods: methods}, nil
}

func decodeRefList(r *reader, tableLen int) ([]*Type, error) {
	n, err := r.readLen()
	if err != nil {
		return nil, err
	}
	refs := make([]*Type, 0, n)
	for i := 0; i < n; i++ {
		t, err := decodeTypeRef(r, tableLen)
		if err != nil {
			return nil, err
		}
		refs = append(refs, t)
	}
	return refs, nil
}

// decodeTypeRef reads one SLEB type reference: a table index when
// non-negative, a primitive opcode otherwise. Composite opcodes never appear
// in reference position.
func decodeTypeRef(r *reader, tableLen int) (*Type, error) {
	op, err := r.readSLEB()
	if err != nil {
		return nil, err
	}
	if op >= 0 {
		if op >= int64(tableLen) {
			return nil, fmt.Errorf("%w: index %d of %d entries", ErrDanglingTypeRef, op, tableLen)
		}
		return Ref(int(op)), nil
	}
	if k, ok := primitiveKind(op); ok {
		return primitives[k], nil
	}
	return nil, fmt.Errorf("%w: %d in reference position at offset %d", ErrInvalidOpcode, op, r.pos)
}

// tableBuilder renders composite types into table entries, interning both by
// pointer identity and by structural shape so repeated subtrees share one
// index. src resolves KindRef nodes when re-encoding a decoded message.
type tableBuilder struct {
	rendered [][]byte
	byPtr    map[*Type]int64
	byKey    map[string]int64
	src      *Table
}

func newTableBuilder(src *Table) *tableBuilder {
	return &tableBuilder{
		byPtr: make(map[*Type]int64),
		byKey: make(map[string]int64),
		src:   src,
	}
}

// indexOf returns the SLEB reference for t: its negative opcode if primitive,
// its table index otherwise, rendering a new entry on first sight. The index
// is reserved before children are rendered so recursive types terminate.
func (b *tableBuilder) indexOf(t *Type) (int64, error) {
	t, err := b.src.Resolve(t)
	if err != nil {
		return 0, err
	}
	if t.IsPrimitive() {
		return t.opcode(), nil
	}
	if idx, ok := b.byPtr[t]; ok {
		return idx, nil
	}
	key, acyclic := b.structuralKey(t, make(map[*Type]bool))
	if acyclic {
		if idx, ok := b.byKey[key]; ok {
			b.byPtr[t] = idx
			return idx, nil
		}
	}
	idx := int64(len(b.rendered))
	b.rendered = append(b.rendered, nil)
	b.byPtr[t] = idx
	if acyclic {
		b.byKey[key] = idx
	}
	entry, err := b.renderEntry(t)
	if err != nil {
		return 0, err
	}
	b.rendered[idx] = entry
	return idx, nil
}

func (b *tableBuilder) renderEntry(t *Type) ([]byte, error) {
	var e writer
	e.writeSLEB(t.opcode())
	switch t.Kind {
	case KindOpt, KindVec:
		ref, err := b.indexOf(t.Inner)
		if err != nil {
			return nil, err
		}
		e.writeSLEB(ref)
	case KindRecord, KindVariant:
		fields := sortFields(t.Fields)
		e.writeULEB(uint64(len(fields)))
		for _, f := range fields {
			ref, err := b.indexOf(f.Type)
			if err != nil {
				return nil, err
			}
			e.writeULEB(uint64(f.ID))
			e.writeSLEB(ref)
		}
	case KindFunc:
		for _, list := range [][]*Type{t.Fn.Args, t.Fn.Rets} {
			e.writeULEB(uint64(len(list)))
			for _, at := range list {
				ref, err := b.indexOf(at)
				if err != nil {
					return nil, err
				}
				e.writeSLEB(ref)
			}
		}
		e.writeULEB(uint64(len(t.Fn.Modes)))
		for _, m := range t.Fn.Modes {
			e.writeByte(byte(m))
		}
	case KindService:
		e.writeULEB(uint64(len(t.Methods)))
		for _, m := range t.Methods {
			ref, err := b.indexOf(m.Type)
			if err != nil {
				return nil, err
			}
			e.writeULEB(uint64(len(m.Name)))
			e.writeString(m.Name)
			e.writeSLEB(ref)
		}
	}
	return e.bytes(), nil
}

// structuralKey renders a canonical shape string for interning. Types that
// reach themselves cannot be keyed this way and fall back to pointer-only
// interning; acyclic is false for those.
func (b *tableBuilder) structuralKey(t *Type, visiting map[*Type]bool) (string, bool) {
	rt, err := b.src.Resolve(t)
	if err != nil {
		return "", false
	}
	t = rt
	if t.IsPrimitive() {
		return "p" + strconv.Itoa(int(t.Kind)), true
	}
	if visiting[t] {
		return "", false
	}
	visiting[t] = true
	defer delete(visiting, t)

	var sb strings.Builder
	child := func(c *Type) bool {
		k, ok := b.structuralKey(c, visiting)
		if !ok {
			return false
		}
		sb.WriteString(k)
		return true
	}
	switch t.Kind {
	case KindOpt:
		sb.WriteString("o(")
		if !child(t.Inner) {
			return "", false
		}
	case KindVec:
		sb.WriteString("v(")
		if !child(t.Inner) {
			return "", false
		}
	case KindRecord, KindVariant:
		if t.Kind == KindRecord {
			sb.WriteString("r(")
		} else {
			sb.WriteString("w(")
		}
		for _, f := range sortFields(t.Fields) {
			sb.WriteString(strconv.FormatUint(uint64(f.ID), 10))
			sb.WriteByte(':')
			if !child(f.Type) {
				return "", false
			}
			sb.WriteByte(';')
		}
	case KindFunc:
		sb.WriteString("f(")
		for _, at := range t.Fn.Args {
			if !child(at) {
				return "", false
			}
			sb.WriteByte(';')
		}
		sb.WriteByte('|')
		for _, rt := range t.Fn.Rets {
			if !child(rt) {
				return "", false
			}
			sb.WriteByte(';')
		}
		sb.WriteByte('|')
		for _, m := range t.Fn.Modes {
			sb.WriteByte('0' + byte(m))
		}
	case KindService:
		sb.WriteString("s(")
		for _, m := range t.Methods {
			sb.WriteString(strconv.Quote(m.Name))
			sb.WriteByte(':')
			if !child(m.Type) {
				return "", false
			}
			sb.WriteByte(';')
		}
	}
	sb.WriteByte(')')
	return sb.String(), true
}

// writeTo emits the table section: entry count followed by rendered entries.
func (b *tableBuilder) writeTo(w *writer) {
	w.writeULEB(uint64(len(b.rendered)))
	for _, entry := range b.rendered {
		w.writeBytes(entry)
	}
}
