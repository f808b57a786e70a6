// SPDX-License-Identifier: Unlicense OR MIT

package dispatch

import (
	"testing"

	"github.com/blepfx/picodraw/draw"
)

func TestBinAssignsObjectToEveryOverlappingTile(t *testing.T) {
	objects := []Object{
		{Bounds: draw.Bounds{Left: 10, Top: 10, Right: 20, Bottom: 20}}, // spans tiles (0,0) and (1,1)
	}
	tiles := bin(objects, draw.Bounds{Right: 64, Bottom: 64})

	want := []tileCoord{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	for _, c := range want {
		if len(tiles[c]) != 1 || tiles[c][0] != 0 {
			t.Fatalf("tile %v does not contain object 0: %v", c, tiles[c])
		}
	}
	if len(tiles) != len(want) {
		t.Fatalf("expected exactly %d tiles touched, got %d: %v", len(want), len(tiles), tiles)
	}
}

func TestBinPreservesInputOrderWithinATile(t *testing.T) {
	objects := []Object{
		{Bounds: draw.Bounds{Left: 0, Top: 0, Right: 8, Bottom: 8}},
		{Bounds: draw.Bounds{Left: 0, Top: 0, Right: 8, Bottom: 8}},
		{Bounds: draw.Bounds{Left: 0, Top: 0, Right: 8, Bottom: 8}},
	}
	tiles := bin(objects, draw.Bounds{Right: 16, Bottom: 16})

	got := tiles[tileCoord{0, 0}]
	want := []int32{0, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestBinSkipsObjectsClippedToNothing(t *testing.T) {
	objects := []Object{
		{Bounds: draw.Bounds{Left: 100, Top: 100, Right: 110, Bottom: 110}},
	}
	tiles := bin(objects, draw.Bounds{Right: 16, Bottom: 16})
	if len(tiles) != 0 {
		t.Fatalf("expected no tiles for an object entirely outside the clip, got %v", tiles)
	}
}
