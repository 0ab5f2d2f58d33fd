package main

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Point is a 2D position in planner coordinates
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) orb() orb.Point {
	return orb.Point{p.X, p.Y}
}

// Distance calculates Euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	return planar.Distance(p.orb(), other.orb())
}

// BoundingBox is the rectangular region the planner samples from
type BoundingBox struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// Obstacle is an axis-aligned rectangle: origin plus extents
type Obstacle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (o Obstacle) bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{o.X, o.Y},
		Max: orb.Point{o.X + o.Width, o.Y + o.Height},
	}
}

// Contains reports whether the point lies inside the rectangle (edges inclusive)
func (o Obstacle) Contains(p Point) bool {
	return o.bound().Contains(p.orb())
}

// Steer returns `to` unchanged if it lies within stepSize of `from`,
// otherwise the point exactly stepSize along the direction from→to
func Steer(from, to Point, stepSize float64) Point {
	dist := from.Distance(to)
	if dist <= stepSize {
		return to
	}
	return Point{
		X: from.X + (to.X-from.X)/dist*stepSize,
		Y: from.Y + (to.Y-from.Y)/dist*stepSize,
	}
}

// collisionSampleInterval is the spacing between probe points when testing
// a segment against an obstacle. Probing is an approximation: an obstacle
// whose thinnest dimension is smaller than the interval can slip between
// two probes. Callers needing geometric exactness would replace this with
// true segment/AABB intersection.
const collisionSampleInterval = 5.0

// SegmentIntersectsObstacle reports whether the segment p1→p2 passes
// through the obstacle. Rejects fast on bounding boxes, then probes the
// segment at a fixed spatial interval.
func SegmentIntersectsObstacle(p1, p2 Point, o Obstacle) bool {
	segBound := orb.Bound{
		Min: orb.Point{math.Min(p1.X, p2.X), math.Min(p1.Y, p2.Y)},
		Max: orb.Point{math.Max(p1.X, p2.X), math.Max(p1.Y, p2.Y)},
	}
	if !o.bound().Intersects(segBound) {
		return false
	}

	steps := int(math.Ceil(p1.Distance(p2) / collisionSampleInterval))
	if steps < 1 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		probe := Point{
			X: p1.X + (p2.X-p1.X)*t,
			Y: p1.Y + (p2.Y-p1.Y)*t,
		}
		if o.Contains(probe) {
			return true
		}
	}
	return false
}

// SegmentIsCollisionFree reports whether the segment avoids every obstacle.
// An empty obstacle set leaves every segment free.
func SegmentIsCollisionFree(p1, p2 Point, obstacles []Obstacle) bool {
	for _, o := range obstacles {
		if SegmentIntersectsObstacle(p1, p2, o) {
			return false
		}
	}
	return true
}
