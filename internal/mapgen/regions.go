package mapgen

import (
	"math/rand"

	"github.com/samdwyer/delver/internal/geom"
)

// voronoiRegions partitions bounds into Voronoi cells. One feature point is
// dropped at random into every cellSize block and each cell joins the
// feature nearest by Manhattan distance, the earlier feature winning ties.
// Every region is non-empty and lists its cells in row-major order.
func voronoiRegions(bounds geom.Rect, cellSize int, rng *rand.Rand) [][]geom.Point {
	var features []geom.Point
	for y := bounds.Y; y <= bounds.YY; y += cellSize {
		for x := bounds.X; x <= bounds.XX; x += cellSize {
			block, _ := geom.NewRect(x, y, cellSize, cellSize).Intersection(bounds)
			features = append(features, geom.Pt(
				block.X+rng.Intn(block.Width()),
				block.Y+rng.Intn(block.Height()),
			))
		}
	}

	regions := make([][]geom.Point, len(features))
	for p := range bounds.Points() {
		nearest, best := 0, p.Manhattan(features[0])
		for i, f := range features[1:] {
			if d := p.Manhattan(f); d < best {
				nearest, best = i+1, d
			}
		}
		regions[nearest] = append(regions[nearest], p)
	}
	return regions
}
