// SPDX-License-Identifier: Unlicense OR MIT

// Package graph implements the immutable, hash-identified DAG of typed
// shader operations that the DSL surface (package shader) records into and
// the compiler (package internal/compiler) consumes.
package graph

import (
	"fmt"
	"hash/fnv"
)

// Dynamicity classifies how often an op's value can change, from least to
// most frequent. The zero value is Const. Combining two dynamicities always
// takes the more frequent one (Meet).
type Dynamicity uint8

const (
	Const Dynamicity = iota
	PerFrame
	PerObject
	PerPixel
)

func (d Dynamicity) String() string {
	switch d {
	case Const:
		return "const"
	case PerFrame:
		return "per-frame"
	case PerObject:
		return "per-object"
	case PerPixel:
		return "per-pixel"
	default:
		return "?"
	}
}

// Meet combines two dynamicities, returning the more frequent of the two.
func (d Dynamicity) Meet(o Dynamicity) Dynamicity {
	if o > d {
		return o
	}
	return d
}

// TypeError reports that an op's dependencies did not satisfy its type
// rule. It is raised as a panic (see Graph.Push) since a type mismatch is a
// programming bug in the DSL caller, never a recoverable runtime condition.
type TypeError struct {
	Addr OpAddr
	Op   Op
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("graph: type check failed for op %s (%v)", e.Addr, e.Op.Kind)
}

// Graph is an append-only list of typed ops with one designated F4 output.
// It is built incrementally through Push, then locked by Finish; every
// accessor below (including Hash) is only meaningful on a finished graph,
// mirroring the source project's build-then-freeze lifecycle.
type Graph struct {
	ops        []Op
	types      []OpType
	dynamic    []Dynamicity
	dependents [][]OpAddr

	output   OpAddr
	finished bool

	h fnvAccum
}

// NewBuilder returns an empty Graph ready to accept Push calls.
func NewBuilder() *Graph {
	return &Graph{h: newFnvAccum()}
}

// Push type-checks op against its already-pushed dependencies, appends it,
// and returns its address. It panics with a *TypeError if op is ill-typed;
// there is no recoverable error path here because a malformed op sequence
// can only come from a DSL bug.
func (g *Graph) Push(op Op) OpAddr {
	if g.finished {
		panic("graph: Push called on a finished graph")
	}
	for _, dep := range op.Dependencies() {
		if uint32(dep) >= uint32(len(g.ops)) {
			panic(fmt.Sprintf("graph: op references out-of-range address %s", dep))
		}
	}

	ty, ok := op.TypeCheck(func(a OpAddr) OpType { return g.types[a] })
	if !ok {
		addr := OpAddr(len(g.ops))
		panic(&TypeError{Addr: addr, Op: op})
	}

	addr := OpAddr(len(g.ops))
	g.ops = append(g.ops, op)
	g.types = append(g.types, ty)
	g.dynamic = append(g.dynamic, dynamicityOf(op, g.dynamic))
	g.dependents = append(g.dependents, nil)

	for _, dep := range op.Dependencies() {
		g.dependents[dep] = append(g.dependents[dep], addr)
	}

	g.h.write(op)

	return addr
}

// dynamicityOf derives an op's dynamicity from its kind and (via the
// already-computed dynamic slice) its dependencies' dynamicities.
func dynamicityOf(op Op, dynamic []Dynamicity) Dynamicity {
	switch op.Kind {
	case OpLiteral:
		return Const
	case OpResolution, OpTextureSize:
		return PerFrame
	case OpInput, OpQuadStart, OpQuadEnd:
		return PerObject
	case OpPosition, OpDerivX, OpDerivY, OpDerivWidth:
		return PerPixel
	default:
		d := Const
		for _, dep := range op.Dependencies() {
			d = d.Meet(dynamic[dep])
		}
		return d
	}
}

// Finish validates that output resolves to F4, freezes the graph, and
// returns it. It is an error (not a panic) only because "which op is the
// output" is caller-supplied data, not something the DSL builders enforce
// by construction the way per-op type checks are.
func (g *Graph) Finish(output OpAddr) (*Graph, error) {
	if g.finished {
		panic("graph: Finish called twice")
	}
	if uint32(output) >= uint32(len(g.ops)) {
		return nil, fmt.Errorf("graph: output address %s out of range", output)
	}
	if ty := g.types[output]; ty != F4 {
		return nil, fmt.Errorf("graph: output must be F4, got %v", ty)
	}
	g.output = output
	g.finished = true
	return g, nil
}

func (g *Graph) Len() int                 { return len(g.ops) }
func (g *Graph) Output() OpAddr           { return g.output }
func (g *Graph) ValueOf(a OpAddr) Op      { return g.ops[a] }
func (g *Graph) TypeOf(a OpAddr) OpType   { return g.types[a] }
func (g *Graph) DynamicityOf(a OpAddr) Dynamicity { return g.dynamic[a] }
func (g *Graph) DependenciesOf(a OpAddr) []OpAddr { return g.ops[a].Dependencies() }
func (g *Graph) DependentsOf(a OpAddr) []OpAddr   { return g.dependents[a] }

// Hash is a stable 64-bit structural hash accumulated as ops were pushed.
// Two graphs built from the same DSL call sequence always hash equal; the
// compiled-shader cache uses this as its key (see Property A).
func (g *Graph) Hash() uint64 { return g.h.sum() }

// All iterates every op address in construction (topological) order.
func (g *Graph) All(yield func(OpAddr, Op, OpType) bool) {
	for i, op := range g.ops {
		if !yield(OpAddr(i), op, g.types[i]) {
			return
		}
	}
}

// fnvAccum is a thin wrapper around a streaming FNV-1a hash so Graph.Push
// can fold each op in as it arrives instead of re-hashing the whole op list
// at Finish time.
type fnvAccum struct {
	sum64   func() uint64
	write64 func([]byte)
}

func newFnvAccum() fnvAccum {
	h := fnv.New64a()
	return fnvAccum{
		sum64:   func() uint64 { return h.Sum64() },
		write64: func(b []byte) { h.Write(b) },
	}
}

func (a *fnvAccum) write(op Op) {
	var buf [24]byte
	buf[0] = byte(op.Kind)
	buf[1] = op.NArgs
	for i := 0; i < 4; i++ {
		putU32(buf[2+i*4:], uint32(op.Args[i]))
	}
	a.write64(buf[:18])

	switch op.Kind {
	case OpInput:
		a.write64([]byte{byte(op.Input)})
	case OpLiteral:
		var lb [5]byte
		lb[0] = byte(op.Literal.Kind)
		putU32(lb[1:], op.Literal.bits())
		a.write64(lb[:])
	}
}

func (a *fnvAccum) sum() uint64 { return a.sum64() }

func putU32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
