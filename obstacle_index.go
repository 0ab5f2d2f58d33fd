package main

import (
	"github.com/dhconnelly/rtreego"
)

// ObstacleEntry wraps an obstacle for R-tree storage
type ObstacleEntry struct {
	Obstacle Obstacle
	BBox     rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *ObstacleEntry) Bounds() rtreego.Rect {
	return e.BBox
}

// ObstacleIndex answers region queries over the obstacle set for the
// rendering layer. The planner never consults it: nearest-node and
// neighbor queries stay linear scans over the tree.
type ObstacleIndex struct {
	tree *rtreego.Rtree
}

// NewObstacleIndex builds a spatial index over the obstacle set.
// Degenerate rectangles (zero width or height) are skipped.
func NewObstacleIndex(obstacles []Obstacle) *ObstacleIndex {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node

	for _, o := range obstacles {
		bbox, err := rtreego.NewRect(
			rtreego.Point{o.X, o.Y},
			[]float64{o.Width, o.Height},
		)
		if err != nil {
			continue
		}
		tree.Insert(&ObstacleEntry{Obstacle: o, BBox: bbox})
	}

	return &ObstacleIndex{tree: tree}
}

// QueryRegion returns obstacles that intersect with the given bounding box
func (idx *ObstacleIndex) QueryRegion(minX, minY, maxX, maxY float64) []Obstacle {
	bbox, err := rtreego.NewRect(
		rtreego.Point{minX, minY},
		[]float64{maxX - minX, maxY - minY},
	)
	if err != nil {
		return []Obstacle{}
	}

	results := idx.tree.SearchIntersect(bbox)
	obstacles := make([]Obstacle, 0, len(results))
	for _, item := range results {
		entry := item.(*ObstacleEntry)
		obstacles = append(obstacles, entry.Obstacle)
	}
	return obstacles
}
