package mesh

// unionFind is a disjoint-set forest with path compression and union
// by rank.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{
		parent: make([]int, n),
		rank:   make([]int, n),
	}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.rank[ra] < uf.rank[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	if uf.rank[ra] == uf.rank[rb] {
		uf.rank[ra]++
	}
}

// Components partitions the mesh's triangles into connected clusters.
// Triangles sharing a vertex belong to the same cluster, which also
// covers shared edges. Clusters are returned as slices of triangle
// indices, ordered by the first triangle encountered in each cluster.
func (m *Mesh) Components() [][]int {
	if len(m.Triangles) == 0 {
		return nil
	}

	// Union triangles through the vertices they reference. seen maps a
	// vertex to the first triangle that used it.
	uf := newUnionFind(len(m.Triangles))
	seen := make([]int, len(m.Vertices))
	for i := range seen {
		seen[i] = -1
	}
	for ti, t := range m.Triangles {
		for _, v := range t {
			if seen[v] < 0 {
				seen[v] = ti
			} else {
				uf.union(seen[v], ti)
			}
		}
	}

	order := make(map[int]int) // root -> cluster index
	var clusters [][]int
	for ti := range m.Triangles {
		root := uf.find(ti)
		ci, ok := order[root]
		if !ok {
			ci = len(clusters)
			order[root] = ci
			clusters = append(clusters, nil)
		}
		clusters[ci] = append(clusters[ci], ti)
	}
	return clusters
}
