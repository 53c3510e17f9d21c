package candid

import (
	"strconv"
	"strings"

	"github.com/lucid-icp/candid-go/principal"
)

// PrintArgs renders an argument sequence as a parenthesized tuple, the form
// accepted back by ParseArgs.
func PrintArgs(values []*Value) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, v := range values {
		if i > 0 {
			sb.WriteString(", ")
		}
		printValue(&sb, v)
	}
	sb.WriteByte(')')
	return sb.String()
}

// PrintValue renders a single value.
func PrintValue(v *Value) string {
	var sb strings.Builder
	printValue(&sb, v)
	return sb.String()
}

// Numeric literals carry a type annotation whenever the bare literal would
// reparse at a different type: unannotated integers are int and unannotated
// decimals are float64, so only those two print bare.
func printValue(sb *strings.Builder, v *Value) {
	switch v.Kind {
	case ValueNull:
		sb.WriteString("null : null")
	case ValueReserved:
		sb.WriteString("reserved")
	case ValueBool:
		if v.Bool {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case ValueNat:
		sb.WriteString(v.Big.String())
		sb.WriteString(" : nat")
	case ValueInt:
		sb.WriteString(v.Big.String())
	case ValueNat8, ValueNat16, ValueNat32, ValueNat64:
		sb.WriteString(strconv.FormatUint(v.U64, 10))
		sb.WriteString(" : ")
		sb.WriteString(fixedKindName(v.Kind))
	case ValueInt8, ValueInt16, ValueInt32, ValueInt64:
		sb.WriteString(strconv.FormatInt(v.I64, 10))
		sb.WriteString(" : ")
		sb.WriteString(fixedKindName(v.Kind))
	case ValueFloat32:
		sb.WriteString(formatFloat(v.F64, 32))
		sb.WriteString(" : float32")
	case ValueFloat64:
		sb.WriteString(formatFloat(v.F64, 64))
	case ValueText:
		printQuoted(sb, v.Str)
	case ValuePrincipal:
		sb.WriteString(`principal "`)
		sb.WriteString(principal.ToText(v.Bytes))
		sb.WriteByte('"')
	case ValueOpt:
		if v.Opt == nil {
			// none prints as a bare null, which coerces back to an absent
			// optional at any opt type.
			sb.WriteString("null")
		} else {
			sb.WriteString("opt ")
			printValue(sb, v.Opt)
		}
	case ValueBlob:
		// Every blob byte prints as \xx, printable or not.
		sb.WriteString(`blob "`)
		for i := 0; i < len(v.Bytes); i++ {
			b := v.Bytes[i]
			sb.WriteByte('\\')
			sb.WriteByte(hexDigits[b>>4])
			sb.WriteByte(hexDigits[b&0xf])
		}
		sb.WriteByte('"')
	case ValueVec:
		sb.WriteString("vec { ")
		for i, e := range v.Elems {
			if i > 0 {
				sb.WriteString("; ")
			}
			printValue(sb, e)
		}
		sb.WriteString(" }")
	case ValueRecord:
		sb.WriteString("record { ")
		for i, f := range v.Fields {
			if i > 0 {
				sb.WriteString("; ")
			}
			sb.WriteString(fieldLabel(f.ID, f.Name))
			sb.WriteString(" = ")
			printValue(sb, f.Value)
		}
		sb.WriteString(" }")
	case ValueVariant:
		f := v.Fields[0]
		sb.WriteString("variant { ")
		sb.WriteString(fieldLabel(f.ID, f.Name))
		sb.WriteString(" = ")
		printValue(sb, f.Value)
		sb.WriteString(" }")
	}
}

func fixedKindName(k ValueKind) string { return valueKindName(k) }

func formatFloat(f float64, bits int) string {
	s := strconv.FormatFloat(f, 'g', -1, bits)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '-' && (c < '0' || c > '9') {
			return s
		}
	}
	// A bare integer literal would reparse as int.
	return s + ".0"
}

// printQuoted writes a text literal. The escape table is byte-oriented:
// control and non-ASCII bytes come out as \xx, so output is always 7-bit
// clean and reparses to the identical string.
func printQuoted(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		printEscapedByte(sb, s[i])
	}
	sb.WriteByte('"')
}

const hexDigits = "0123456789abcdef"

func printEscapedByte(sb *strings.Builder, b byte) {
	switch b {
	case '\n':
		sb.WriteString(`\n`)
	case '\r':
		sb.WriteString(`\r`)
	case '\t':
		sb.WriteString(`\t`)
	case '"':
		sb.WriteString(`\"`)
	case '\\':
		sb.WriteString(`\\`)
	default:
		if b < 0x20 || b >= 0x7f {
			sb.WriteByte('\\')
			sb.WriteByte(hexDigits[b>>4])
			sb.WriteByte(hexDigits[b&0xf])
			return
		}
		sb.WriteByte(b)
	}
}
