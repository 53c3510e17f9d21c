package candid

import (
	"encoding/binary"
	"math"
	"math/big"

	"github.com/lucid-icp/candid-go/internal/leb128"
)

// writer is a growable output buffer. Appends cannot fail, so the write path
// stays error-free until type checking rejects a value.
type writer struct {
	buf []byte
}

func (w *writer) bytes() []byte { return w.buf }

func (w *writer) writeByte(b byte)     { w.buf = append(w.buf, b) }
func (w *writer) writeBytes(b []byte)  { w.buf = append(w.buf, b...) }
func (w *writer) writeString(s string) { w.buf = append(w.buf, s...) }

func (w *writer) writeULEB(v uint64) { w.buf = leb128.AppendUint(w.buf, v) }
func (w *writer) writeSLEB(v int64)  { w.buf = leb128.AppendInt(w.buf, v) }

func (w *writer) writeBigULEB(v *big.Int) { w.buf = leb128.AppendBigUint(w.buf, v) }
func (w *writer) writeBigSLEB(v *big.Int) { w.buf = leb128.AppendBigInt(w.buf, v) }

func (w *writer) writeUint16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *writer) writeUint32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *writer) writeUint64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

func (w *writer) writeFloat32(v float32) {
	w.writeUint32(math.Float32bits(v))
}

func (w *writer) writeFloat64(v float64) {
	w.writeUint64(math.Float64bits(v))
}
