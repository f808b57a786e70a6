// SPDX-License-Identifier: Unlicense OR MIT

package dispatch

import (
	"encoding/binary"
	"math"

	"github.com/blepfx/picodraw/draw"
	"github.com/blepfx/picodraw/graph"
	"github.com/blepfx/picodraw/internal/vm"
)

// decodeInputs turns a quad's packed data blob back into the ordinal slot
// values the compiled shader's static program reads via Read(k). Field order
// and numeric slot order agree because both ShaderDataLayout and the
// compiler walk the same graph.All traversal and skip the same ops.
func decodeInputs(layout *draw.ShaderDataLayout, data []byte) []vm.Slot {
	slots := make([]vm.Slot, len(layout.Fields))
	for i, f := range layout.Fields {
		slots[i] = decodeField(f.Kind, data[f.Offset:])
	}
	return slots
}

func decodeField(kind graph.InputKind, b []byte) vm.Slot {
	if kind == graph.InputF32 {
		return vm.FloatSlot(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	}

	var v int32
	switch kind.ByteSize() {
	case 4:
		v = int32(binary.LittleEndian.Uint32(b))
	case 2:
		u := uint16(binary.LittleEndian.Uint16(b))
		if kind.Signed() {
			v = int32(int16(u))
		} else {
			v = int32(u)
		}
	case 1:
		u := b[0]
		if kind.Signed() {
			v = int32(int8(u))
		} else {
			v = int32(u)
		}
	}
	return vm.IntSlot(v)
}
