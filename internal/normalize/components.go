package normalize

import (
	"github.com/buildingnet/meshprep/pkg/geom"
	"github.com/buildingnet/meshprep/pkg/mesh"
)

// Clusters below these floors cannot meaningfully bound a 3D volume
// and are treated as scan noise.
const (
	minClusterTriangles = 6
	minClusterVertices  = 6
)

// SelectLargestComponent partitions the mesh into connected triangle
// clusters and returns the one with the largest oriented-bounding-box
// volume as a compacted sub-mesh. Clusters with too few triangles or
// vertices are skipped. When every cluster is below the floor the
// input mesh is returned unchanged; an unselected mesh is preferable
// to failing the pipeline.
func SelectLargestComponent(m *mesh.Mesh) *mesh.Mesh {
	var best *mesh.Mesh
	bestVolume := 0.0

	for _, cluster := range m.Components() {
		if len(cluster) <= minClusterTriangles {
			continue
		}
		sub := m.SubMesh(cluster)
		if sub.VertexCount() <= minClusterVertices {
			continue
		}
		volume := geom.OrientedBoxVolume(sub.Vertices)
		if best == nil || volume > bestVolume {
			best = sub
			bestVolume = volume
		}
	}

	if best == nil {
		return m
	}
	return best
}
