// SPDX-License-Identifier: Unlicense OR MIT

package dispatch

import (
	"github.com/blepfx/picodraw/draw"
	"github.com/blepfx/picodraw/internal/vm"
)

type tileCoord struct{ x, y int32 }

// bin assigns each object's index to every tile its clipped bounds overlap.
// Within a tile, indices keep input order, which is what later governs
// blend order (Property — ordering within a command buffer is preserved).
func bin(objects []Object, clip draw.Bounds) map[tileCoord][]int32 {
	tiles := make(map[tileCoord][]int32)
	for i, obj := range objects {
		b := obj.Bounds.Intersect(clip)
		if b.IsEmpty() {
			continue
		}

		tx0 := int32(b.Left / vm.TileSize)
		ty0 := int32(b.Top / vm.TileSize)
		tx1 := int32((b.Right - 1) / vm.TileSize)
		ty1 := int32((b.Bottom - 1) / vm.TileSize)

		for ty := ty0; ty <= ty1; ty++ {
			for tx := tx0; tx <= tx1; tx++ {
				c := tileCoord{tx, ty}
				tiles[c] = append(tiles[c], int32(i))
			}
		}
	}
	return tiles
}
