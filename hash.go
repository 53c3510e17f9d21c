package candid

// HashLabel maps a textual field label to its 32-bit field id:
// h = h*223 + byte over the UTF-8 bytes, reduced mod 2^32.
//
// Numeric labels bypass hashing and are used as ids directly, so "name"
// (1224700491) and the literal id 1224700491 address the same field.
func HashLabel(label string) uint32 {
	var h uint32
	for i := 0; i < len(label); i++ {
		h = h*223 + uint32(label[i])
	}
	return h
}
