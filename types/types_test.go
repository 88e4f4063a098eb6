package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypes(t *testing.T) {
	{ // Test packed int for edge labeling
		en := NewEdgeKey([2]int{1, 0})
		assert.Equal(t, EdgeKey(1<<32), en)
		assert.Equal(t, [2]int{0, 1}, en.GetVertices(false))

		en = NewEdgeKey([2]int{0, 1})
		assert.Equal(t, EdgeKey(1<<32), en)
		assert.Equal(t, [2]int{0, 1}, en.GetVertices(false))

		en = NewEdgeKey([2]int{0, 10})
		assert.Equal(t, EdgeKey(10*(1<<32)), en)
		assert.Equal(t, [2]int{0, 10}, en.GetVertices(false))

		en = NewEdgeKey([2]int{100, 0})
		assert.Equal(t, EdgeKey(100*(1<<32)), en)
		assert.Equal(t, [2]int{0, 100}, en.GetVertices(false))

		en = NewEdgeKey([2]int{100, 1})
		assert.Equal(t, EdgeKey(100*(1<<32)+1), en)
		assert.Equal(t, [2]int{1, 100}, en.GetVertices(false))

		en = NewEdgeKey([2]int{100, 100001})
		assert.Equal(t, EdgeKey(100001*(1<<32)+100), en)
		assert.Equal(t, [2]int{100, 100001}, en.GetVertices(false))

		// Test maximum/minimum indices
		en = NewEdgeKey([2]int{1, 1<<32 - 1})
		assert.Equal(t, EdgeKey((1<<32-1)<<32+1), en)
		assert.Equal(t, [2]int{1, 1<<32 - 1}, en.GetVertices(false))

		en = NewEdgeKey([2]int{1<<32 - 1, 1<<32 - 1})
		assert.Equal(t, EdgeKey(1<<64-1), en)
		assert.Equal(t, [2]int{1<<32 - 1, 1<<32 - 1}, en.GetVertices(false))

		en = NewEdgeKey([2]int{1<<32 - 1, 1})
		assert.Equal(t, EdgeKey((1<<32-1)<<32+1), en)
		assert.Equal(t, [2]int{1, 1<<32 - 1}, en.GetVertices(false))
	}
	{ // Directed edges keep their orientation in the sign
		e := NewEdgeInt([2]int{7, 3})
		assert.True(t, e < 0)
		assert.Equal(t, [2]int{7, 3}, e.GetVertices())
		assert.Equal(t, NewEdgeKey([2]int{3, 7}), e.GetKey())

		e = NewEdgeInt([2]int{3, 7})
		assert.True(t, e > 0)
		assert.Equal(t, [2]int{3, 7}, e.GetVertices())
		assert.Equal(t, NewEdgeKey([2]int{3, 7}), e.GetKey())

		e = NewEdgeInt([2]int{1<<31 - 1, 0})
		assert.Equal(t, [2]int{1<<31 - 1, 0}, e.GetVertices())

		assert.Panics(t, func() { NewEdgeInt([2]int{1 << 31, 0}) })
		assert.Panics(t, func() { NewEdgeKey([2]int{-1, 0}) })
	}
}

func TestEdgeMap(t *testing.T) {
	{ // Two triangles sharing the diagonal of a square, consistently wound
		em := NewEdgeMap([][3]int{{0, 1, 2}, {0, 2, 3}})
		assert.Equal(t, 5, len(em))
		diag := NewEdgeKey([2]int{2, 0})
		assert.Equal(t, 2, em[diag].Count())
		assert.Equal(t, 1, em[diag].Forward)
		assert.Equal(t, 1, em[diag].Reverse)
		assert.Equal(t, 4, len(em.Boundary()))
		assert.Equal(t, 0, len(em.Misoriented()))
		assert.Equal(t, 0, len(em.NonManifold()))
		keys := em.Keys()
		for i := 1; i < len(keys); i++ {
			assert.Less(t, keys[i-1], keys[i])
		}
	}
	{ // The second face flipped
		em := NewEdgeMap([][3]int{{0, 1, 2}, {0, 3, 2}})
		assert.Equal(t, []EdgeKey{NewEdgeKey([2]int{0, 2})}, em.Misoriented())
	}
	{ // Three faces on one edge
		em := NewEdgeMap([][3]int{{0, 1, 2}, {1, 0, 3}, {0, 1, 4}})
		assert.Equal(t, []EdgeKey{NewEdgeKey([2]int{0, 1})}, em.NonManifold())
	}
	{ // Closed tetrahedron
		em := NewEdgeMap([][3]int{{0, 1, 2}, {0, 3, 1}, {0, 2, 3}, {1, 3, 2}})
		assert.Equal(t, 6, len(em))
		assert.Equal(t, 0, len(em.Boundary()))
		assert.Equal(t, 0, len(em.Misoriented()))
	}
}
