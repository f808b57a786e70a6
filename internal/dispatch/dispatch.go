// SPDX-License-Identifier: Unlicense OR MIT

// Package dispatch tiles a target buffer, bins quads against the tiles they
// overlap, and runs each quad's compiled shader per tile on a bounded worker
// pool, blending the result with the standard source-over rule.
package dispatch

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/blepfx/picodraw/draw"
	"github.com/blepfx/picodraw/internal/compiler"
	"github.com/blepfx/picodraw/internal/vm"
)

// Object is one fully-resolved draw call. Resolving a shader or texture
// handle into the concrete values here is the caller's job — the dispatcher
// never looks a handle up, it only executes already-compiled programs
// against already-decoded data.
type Object struct {
	Shader   *compiler.Shader
	Layout   *draw.ShaderDataLayout
	Data     []byte
	Textures []vm.Texture
	Bounds   draw.Bounds
}

// Target is the mutable RGBA8 surface objects are blended into.
type Target struct {
	Pixels        []byte // tightly packed, row-major RGBA8
	Width, Height uint32
}

// Dispatcher renders objects into a Target, parallelized over tiles.
type Dispatcher struct {
	workers int
}

// Option configures a Dispatcher at construction time.
type Option func(*Dispatcher)

// WithWorkers overrides the worker pool size; the default is
// runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.workers = n
		}
	}
}

func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(d)
	}
	if d.workers < 1 {
		d.workers = 1
	}
	return d
}

// Draw bins objects into tiles and renders them into target, clipped to
// clip, blending in input order within each tile. It blocks until every
// launched tile completes. ctx is checked once per tile, between launches,
// never mid-tile; a cancellation leaves target with only the tiles that
// were already launched applied.
func (d *Dispatcher) Draw(ctx context.Context, target *Target, clip draw.Bounds, objects []Object) error {
	clip = clip.Intersect(draw.Bounds{Right: target.Width, Bottom: target.Height})
	if clip.IsEmpty() || len(objects) == 0 {
		return nil
	}

	tiles := bin(objects, clip)

	// Iteration order over a map is unspecified; sort it so launch order
	// (and thus which tiles get skipped on cancellation) is reproducible.
	coords := make([]tileCoord, 0, len(tiles))
	for c := range tiles {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool {
		a, b := coords[i], coords[j]
		if a.y != b.y {
			return a.y < b.y
		}
		return a.x < b.x
	})

	sem := make(chan struct{}, d.workers)
	var g errgroup.Group

	for _, c := range coords {
		if ctx.Err() != nil {
			break
		}
		c, indices := c, tiles[c]
		sem <- struct{}{}
		g.Go(func() error {
			defer func() { <-sem }()
			renderTile(target, clip, c, objects, indices)
			return nil
		})
	}

	return g.Wait()
}
