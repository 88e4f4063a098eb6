package types

import (
	"fmt"
	"math"
	"sort"
)

/*
EdgeKey is an always positive number that stores an edge's vertices as indices in a way that can be compared
An edge between vertices [4] and [0] will always be stored as [0,4], in the ascending order of the index values
*/
type EdgeKey uint64

func NewEdgeKey(verts [2]int) (packed EdgeKey) {
	var (
		limit = math.MaxUint32
	)
	for _, vert := range verts {
		if vert < 0 || vert > limit {
			panic(fmt.Errorf("unable to pack two ints into a uint64, have %d and %d as inputs",
				verts[0], verts[1]))
		}
	}
	i1, i2 := min(verts[0], verts[1]), max(verts[0], verts[1])
	packed = EdgeKey(uint64(i1) + uint64(i2)<<32)
	return
}

func (ek EdgeKey) GetVertices(rev bool) (verts [2]int) {
	verts[0] = int(ek & math.MaxUint32)
	verts[1] = int(ek >> 32)
	if rev {
		verts[0], verts[1] = verts[1], verts[0]
	}
	return
}

/*
EdgeInt stores the edge vertices in their original order, so that a face's winding along the edge can be recovered
The sign carries the direction: negative when the first vertex has the larger index
*/
type EdgeInt int64

func NewEdgeInt(verts [2]int) (packed EdgeInt) {
	var (
		limit = math.MaxUint32 >> 1 // leaves room for the sign bit of an int64
	)
	for _, vert := range verts {
		if vert < 0 || vert > limit {
			panic(fmt.Errorf("unable to pack two ints into an int64, have %d and %d as inputs",
				verts[0], verts[1]))
		}
	}
	packed = EdgeInt(NewEdgeKey(verts))
	if verts[0] > verts[1] {
		packed = -packed
	}
	return
}

func (e EdgeInt) GetVertices() (verts [2]int) {
	if e < 0 {
		return EdgeKey(-e).GetVertices(true)
	}
	return EdgeKey(e).GetVertices(false)
}

func (e EdgeInt) GetKey() (ek EdgeKey) {
	if e < 0 {
		e = -e
	}
	return EdgeKey(e)
}

/*
EdgeMap counts the directed uses of every undirected edge of a triangle mesh
Interior edges of a consistently wound manifold are used once in each direction, boundary edges exactly once
*/
type EdgeMap map[EdgeKey]*EdgeUse

type EdgeUse struct {
	Forward, Reverse int // Uses with ascending / descending vertex order
}

func (eu EdgeUse) Count() int { return eu.Forward + eu.Reverse }

func NewEdgeMap(faces [][3]int) (em EdgeMap) {
	em = make(EdgeMap, 3*len(faces)/2+1)
	for _, f := range faces {
		for n := 0; n < 3; n++ {
			em.AddEdge(NewEdgeInt([2]int{f[n], f[(n+1)%3]}))
		}
	}
	return
}

func (em EdgeMap) AddEdge(e EdgeInt) {
	var (
		key = e.GetKey()
		use *EdgeUse
		ok  bool
	)
	if use, ok = em[key]; !ok {
		use = &EdgeUse{}
		em[key] = use
	}
	if e < 0 {
		use.Reverse++
	} else {
		use.Forward++
	}
}

// Keys returns the edges in ascending key order, so iteration is reproducible
func (em EdgeMap) Keys() (keys []EdgeKey) {
	keys = make([]EdgeKey, 0, len(em))
	for k := range em {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return
}

func (em EdgeMap) Boundary() (edges []EdgeKey) {
	for _, k := range em.Keys() {
		if em[k].Count() == 1 {
			edges = append(edges, k)
		}
	}
	return
}

// NonManifold returns edges shared by more than two faces
func (em EdgeMap) NonManifold() (edges []EdgeKey) {
	for _, k := range em.Keys() {
		if em[k].Count() > 2 {
			edges = append(edges, k)
		}
	}
	return
}

// Misoriented returns interior edges traversed twice in the same direction, a sign of inconsistent winding
func (em EdgeMap) Misoriented() (edges []EdgeKey) {
	for _, k := range em.Keys() {
		if use := em[k]; use.Count() == 2 && use.Forward != 1 {
			edges = append(edges, k)
		}
	}
	return
}
