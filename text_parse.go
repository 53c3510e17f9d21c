package candid

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/lucid-icp/candid-go/principal"
)

// SyntaxError reports a textual-value parse failure at a byte offset of the
// input.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("candid: syntax error at offset %d: %s", e.Pos, e.Msg)
}

// ParseArgs parses an argument sequence: either a parenthesized
// comma-separated tuple or a single bare value.
func ParseArgs(input string) ([]*Value, error) {
	p := &textParser{src: input}
	var values []*Value
	if p.peekByte() == '(' {
		p.pos++
		for {
			if p.peekByte() == ')' {
				p.pos++
				break
			}
			v, err := p.parseValue(defaultMaxDepth)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
			switch p.peekByte() {
			case ',':
				p.pos++
			case ')':
				p.pos++
			default:
				return nil, p.errf("expected ',' or ')'")
			}
			if p.src[p.pos-1] == ')' {
				break
			}
		}
	} else {
		v, err := p.parseValue(defaultMaxDepth)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if p.peekByte() != 0 {
		return nil, p.errf("unexpected input after value")
	}
	return values, nil
}

// ParseValue parses exactly one value.
func ParseValue(input string) (*Value, error) {
	p := &textParser{src: input}
	v, err := p.parseValue(defaultMaxDepth)
	if err != nil {
		return nil, err
	}
	if p.peekByte() != 0 {
		return nil, p.errf("unexpected input after value")
	}
	return v, nil
}

type textParser struct {
	src string
	pos int
}

func (p *textParser) errf(format string, args ...any) error {
	return &SyntaxError{Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *textParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

// peekByte returns the next significant byte without consuming it, or 0 at
// end of input.
func (p *textParser) peekByte() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentByte(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func (p *textParser) readIdent() string {
	start := p.pos
	for p.pos < len(p.src) && isIdentByte(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *textParser) parseValue(depth int) (*Value, error) {
	if depth <= 0 {
		return nil, p.errf("nesting too deep")
	}
	c := p.peekByte()
	switch {
	case c == 0:
		return nil, p.errf("unexpected end of input")
	case c == '"':
		raw, err := p.parseStringLiteral()
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(raw) {
			return nil, p.errf("text literal is not valid utf-8")
		}
		return TextValue(string(raw)), nil
	case c == '-' || c == '+' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	case isIdentStart(c):
		return p.parseKeyword(depth)
	}
	return nil, p.errf("unexpected character %q", c)
}

func (p *textParser) parseKeyword(depth int) (*Value, error) {
	word := p.readIdent()
	switch word {
	case "true":
		return BoolValue(true), nil
	case "false":
		return BoolValue(false), nil
	case "null":
		// The printed form carries a redundant ": null" annotation.
		if p.peekByte() == ':' {
			p.pos++
			if ann := p.peekIdent(); ann != "null" {
				return nil, p.errf("expected null annotation, got %q", ann)
			}
			p.readIdentAfterPeek()
		}
		return NullValue(), nil
	case "reserved":
		return ReservedValue(), nil
	case "opt":
		inner, err := p.parseValue(depth - 1)
		if err != nil {
			return nil, err
		}
		return SomeValue(inner), nil
	case "vec":
		return p.parseVec(depth)
	case "record":
		return p.parseRecord(depth)
	case "variant":
		return p.parseVariant(depth)
	case "principal":
		raw, err := p.parseStringLiteral()
		if err != nil {
			return nil, err
		}
		blob, err := principal.FromText(string(raw))
		if err != nil {
			return nil, p.errf("bad principal: %v", err)
		}
		return PrincipalValue(blob), nil
	case "blob":
		raw, err := p.parseStringLiteral()
		if err != nil {
			return nil, err
		}
		return BlobValue(raw), nil
	}
	return nil, p.errf("unknown keyword %q", word)
}

// peekIdent looks at the next identifier without consuming it; paired with
// readIdentAfterPeek.
func (p *textParser) peekIdent() string {
	p.skipSpace()
	save := p.pos
	id := p.readIdent()
	p.pos = save
	return id
}

func (p *textParser) readIdentAfterPeek() {
	p.skipSpace()
	p.readIdent()
}

func (p *textParser) expect(c byte, what string) error {
	if p.peekByte() != c {
		return p.errf("expected %s", what)
	}
	p.pos++
	return nil
}

func (p *textParser) parseVec(depth int) (*Value, error) {
	if err := p.expect('{', "'{'"); err != nil {
		return nil, err
	}
	var elems []*Value
	for {
		if p.peekByte() == '}' {
			p.pos++
			break
		}
		e, err := p.parseValue(depth - 1)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.peekByte() == ';' {
			p.pos++
			continue
		}
		if err := p.expect('}', "';' or '}'"); err != nil {
			return nil, err
		}
		break
	}
	// A vec of nat8 literals is the same value as a blob.
	if len(elems) > 0 {
		allBytes := true
		for _, e := range elems {
			if e.Kind != ValueNat8 {
				allBytes = false
				break
			}
		}
		if allBytes {
			raw := make([]byte, len(elems))
			for i, e := range elems {
				raw[i] = byte(e.U64)
			}
			return BlobValue(raw), nil
		}
	}
	return &Value{Kind: ValueVec, Elems: elems}, nil
}

// parseLabel reads a field label: a name, which is hashed, or a numeric id.
func (p *textParser) parseLabel() (uint32, string, error) {
	c := p.peekByte()
	if isIdentStart(c) {
		name := p.readIdent()
		return HashLabel(name), name, nil
	}
	if c >= '0' && c <= '9' {
		start := p.pos
		for p.pos < len(p.src) && (p.src[p.pos] >= '0' && p.src[p.pos] <= '9' || p.src[p.pos] == '_') {
			p.pos++
		}
		lit := strings.ReplaceAll(p.src[start:p.pos], "_", "")
		id, err := strconv.ParseUint(lit, 10, 32)
		if err != nil {
			return 0, "", p.errf("field id out of range")
		}
		return uint32(id), "", nil
	}
	return 0, "", p.errf("expected field label")
}

func (p *textParser) parseRecord(depth int) (*Value, error) {
	if err := p.expect('{', "'{'"); err != nil {
		return nil, err
	}
	var fields []ValueField
	var nextID uint32
	seen := make(map[uint32]bool)
	for {
		if p.peekByte() == '}' {
			p.pos++
			break
		}
		id, name, labeled := p.tryLabel()
		if !labeled {
			// Tuple shorthand: positional fields take sequential ids.
			id, name = nextID, ""
		}
		v, err := p.parseValue(depth - 1)
		if err != nil {
			return nil, err
		}
		if seen[id] {
			return nil, p.errf("duplicate field %s", fieldLabel(id, name))
		}
		seen[id] = true
		fields = append(fields, ValueField{ID: id, Name: name, Value: v})
		if id != math.MaxUint32 {
			nextID = id + 1
		}
		if p.peekByte() == ';' {
			p.pos++
			continue
		}
		if err := p.expect('}', "';' or '}'"); err != nil {
			return nil, err
		}
		break
	}
	return RecordValue(fields...), nil
}

// tryLabel consumes "label =" if present and reports whether it did.
func (p *textParser) tryLabel() (uint32, string, bool) {
	save := p.pos
	id, name, err := p.parseLabel()
	if err == nil && p.peekByte() == '=' {
		p.pos++
		return id, name, true
	}
	p.pos = save
	return 0, "", false
}

func (p *textParser) parseVariant(depth int) (*Value, error) {
	if err := p.expect('{', "'{'"); err != nil {
		return nil, err
	}
	id, name, err := p.parseLabel()
	if err != nil {
		return nil, err
	}
	var payload *Value
	switch p.peekByte() {
	case '=':
		p.pos++
		payload, err = p.parseValue(depth - 1)
	case '(':
		p.pos++
		payload, err = p.parseValue(depth - 1)
		if err == nil {
			err = p.expect(')', "')'")
		}
	}
	if err != nil {
		return nil, err
	}
	if err := p.expect('}', "'}'"); err != nil {
		return nil, err
	}
	return VariantByID(id, name, payload), nil
}

func (p *textParser) parseStringLiteral() ([]byte, error) {
	if err := p.expect('"', "string literal"); err != nil {
		return nil, err
	}
	var out []byte
	for {
		if p.pos >= len(p.src) {
			return nil, p.errf("unterminated string")
		}
		c := p.src[p.pos]
		p.pos++
		switch c {
		case '"':
			return out, nil
		case '\\':
			if p.pos >= len(p.src) {
				return nil, p.errf("unterminated escape")
			}
			e := p.src[p.pos]
			p.pos++
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case '"':
				out = append(out, '"')
			case '\'':
				out = append(out, '\'')
			case '\\':
				out = append(out, '\\')
			default:
				hi := hexVal(e)
				if hi < 0 || p.pos >= len(p.src) {
					return nil, p.errf("bad escape \\%c", e)
				}
				lo := hexVal(p.src[p.pos])
				if lo < 0 {
					return nil, p.errf("bad escape \\%c%c", e, p.src[p.pos])
				}
				p.pos++
				out = append(out, byte(hi<<4|lo))
			}
		default:
			out = append(out, c)
		}
	}
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

func (p *textParser) parseNumber() (*Value, error) {
	p.skipSpace()
	start := p.pos
	if c := p.src[p.pos]; c == '-' || c == '+' {
		p.pos++
	}
	isFloat := false
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c >= '0' && c <= '9' || c == '_':
			p.pos++
		case c == '.':
			isFloat = true
			p.pos++
		case c == 'e' || c == 'E':
			isFloat = true
			p.pos++
			if p.pos < len(p.src) && (p.src[p.pos] == '-' || p.src[p.pos] == '+') {
				p.pos++
			}
		default:
			goto done
		}
	}
done:
	lit := strings.ReplaceAll(strings.TrimPrefix(p.src[start:p.pos], "+"), "_", "")
	ann := ""
	if p.peekByte() == ':' {
		p.pos++
		p.skipSpace()
		ann = p.readIdent()
		if ann == "" {
			return nil, p.errf("expected type annotation")
		}
	}
	if isFloat {
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return nil, p.errf("bad float literal %q", lit)
		}
		switch ann {
		case "", "float64":
			return Float64Value(f), nil
		case "float32":
			return Float32Value(float32(f)), nil
		}
		return nil, p.errf("cannot annotate float literal as %s", ann)
	}
	n, ok := new(big.Int).SetString(lit, 10)
	if !ok {
		return nil, p.errf("bad integer literal %q", lit)
	}
	return annotatedInt(n, ann, p)
}

func annotatedInt(n *big.Int, ann string, p *textParser) (*Value, error) {
	requireUnsigned := func(bits uint) (uint64, error) {
		if n.Sign() < 0 || n.BitLen() > int(bits) {
			return 0, p.errf("literal out of range for %s", ann)
		}
		return n.Uint64(), nil
	}
	requireSigned := func(bits int) (int64, error) {
		min := new(big.Int).Lsh(big.NewInt(-1), uint(bits-1))
		max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bits-1)), big.NewInt(1))
		if n.Cmp(min) < 0 || n.Cmp(max) > 0 {
			return 0, p.errf("literal out of range for %s", ann)
		}
		return n.Int64(), nil
	}
	switch ann {
	case "", "int":
		return &Value{Kind: ValueInt, Big: n}, nil
	case "nat":
		if n.Sign() < 0 {
			return nil, p.errf("negative nat literal")
		}
		return &Value{Kind: ValueNat, Big: n}, nil
	case "nat8":
		v, err := requireUnsigned(8)
		if err != nil {
			return nil, err
		}
		return Nat8Value(uint8(v)), nil
	case "nat16":
		v, err := requireUnsigned(16)
		if err != nil {
			return nil, err
		}
		return Nat16Value(uint16(v)), nil
	case "nat32":
		v, err := requireUnsigned(32)
		if err != nil {
			return nil, err
		}
		return Nat32Value(uint32(v)), nil
	case "nat64":
		v, err := requireUnsigned(64)
		if err != nil {
			return nil, err
		}
		return Nat64Value(v), nil
	case "int8":
		v, err := requireSigned(8)
		if err != nil {
			return nil, err
		}
		return Int8Value(int8(v)), nil
	case "int16":
		v, err := requireSigned(16)
		if err != nil {
			return nil, err
		}
		return Int16Value(int16(v)), nil
	case "int32":
		v, err := requireSigned(32)
		if err != nil {
			return nil, err
		}
		return Int32Value(int32(v)), nil
	case "int64":
		v, err := requireSigned(64)
		if err != nil {
			return nil, err
		}
		return Int64Value(v), nil
	case "float32":
		f, _ := new(big.Float).SetInt(n).Float32()
		return Float32Value(f), nil
	case "float64":
		f, _ := new(big.Float).SetInt(n).Float64()
		return Float64Value(f), nil
	}
	return nil, p.errf("unknown type annotation %q", ann)
}
