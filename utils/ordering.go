package utils

import (
	"slices"
)

/*
ReverseCuthillMcKee orders the vertices of the symmetric sparsity graph of A so that nonzeros
gather close to the diagonal. perm[new] is the original row placed at position new.

Each connected component starts from a pseudo-peripheral vertex, found by repeated breadth first
searches from the lowest degree vertex of the last level. Neighbors are visited in order of
increasing degree, ties broken by index, so the ordering is deterministic.
*/
func ReverseCuthillMcKee(A CSR) (perm []int) {
	var (
		n, _    = A.Dims()
		adj     = make([][]int, n)
		deg     = make([]int, n)
		level   = make([]int, n)
		visited = make([]bool, n)
		byDeg   = make([]int, n)
		nbrs    []int
	)
	A.DoNonZero(func(i, j int, _ float64) {
		if i != j {
			adj[i] = append(adj[i], j)
			adj[j] = append(adj[j], i)
		}
	})
	for i := range adj {
		slices.Sort(adj[i])
		adj[i] = slices.Compact(adj[i])
		deg[i] = len(adj[i])
		level[i] = -1
		byDeg[i] = i
	}
	less := func(a, b int) int {
		if deg[a] != deg[b] {
			return deg[a] - deg[b]
		}
		return a - b
	}
	slices.SortFunc(byDeg, less)

	// bfs returns the last level of the rooted level structure and its depth
	var queue []int
	bfs := func(s int) (last []int, ecc int) {
		queue = append(queue[:0], s)
		level[s] = 0
		for k := 0; k < len(queue); k++ {
			u := queue[k]
			for _, w := range adj[u] {
				if level[w] < 0 {
					level[w] = level[u] + 1
					queue = append(queue, w)
				}
			}
		}
		ecc = level[queue[len(queue)-1]]
		for k := len(queue) - 1; k >= 0 && level[queue[k]] == ecc; k-- {
			last = append(last, queue[k])
		}
		for _, v := range queue {
			level[v] = -1
		}
		return
	}

	perm = make([]int, 0, n)
	for _, s := range byDeg {
		if visited[s] {
			continue
		}
		last, ecc := bfs(s)
		for {
			c := slices.MinFunc(last, less)
			l2, e2 := bfs(c)
			if e2 <= ecc {
				break
			}
			s, last, ecc = c, l2, e2
		}
		start := len(perm)
		perm = append(perm, s)
		visited[s] = true
		for k := start; k < len(perm); k++ {
			nbrs = nbrs[:0]
			for _, w := range adj[perm[k]] {
				if !visited[w] {
					visited[w] = true
					nbrs = append(nbrs, w)
				}
			}
			slices.SortFunc(nbrs, less)
			perm = append(perm, nbrs...)
		}
	}
	slices.Reverse(perm)
	return
}

// InversePermutation returns inv with inv[perm[k]] = k
func InversePermutation(perm []int) (inv []int) {
	inv = make([]int, len(perm))
	for k, p := range perm {
		inv[p] = k
	}
	return
}

// Bandwidth returns max |i-j| over the stored entries of A, with rows and columns renumbered by inv
func Bandwidth(A CSR, inv []int) (k int) {
	A.DoNonZero(func(i, j int, _ float64) {
		if inv != nil {
			i, j = inv[i], inv[j]
		}
		k = max(k, i-j, j-i)
	})
	return
}
