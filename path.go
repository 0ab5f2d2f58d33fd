package main

import "math"

// goalToleranceFactor widens the goal into a band of 1.5 step sizes: a
// step-quantized tree reaches the goal only approximately, essentially
// never landing on it exactly.
const goalToleranceFactor = 1.5

// CurrentPath returns the lowest-cost root-to-near-goal sequence of node
// ids, or an empty slice when no node lies within the tolerance band. The
// result is recomputed in full on every call; the tree is bounded by
// maxIterations, so each query is cheap next to tree construction.
func (p *Planner) CurrentPath() []int {
	tolerance := goalToleranceFactor * p.Config.StepSize

	bestID := -1
	bestCost := math.Inf(1)
	for i := range p.Tree.Nodes {
		n := p.Tree.Nodes[i]
		if n.Point.Distance(p.Goal) <= tolerance && n.Cost < bestCost {
			bestID = i
			bestCost = n.Cost
		}
	}
	if bestID < 0 {
		return []int{}
	}

	var path []int
	for id := bestID; id >= 0; id = p.Tree.Nodes[id].ParentID {
		path = append(path, id)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathPoints resolves a path of node ids to coordinates
func (p *Planner) PathPoints(path []int) []Point {
	points := make([]Point, 0, len(path))
	for _, id := range path {
		points = append(points, p.Tree.Nodes[id].Point)
	}
	return points
}

// PathLength sums the edge lengths along a path
func (p *Planner) PathLength(path []int) float64 {
	var length float64
	for i := 0; i < len(path)-1; i++ {
		length += p.Tree.Nodes[path[i]].Point.Distance(p.Tree.Nodes[path[i+1]].Point)
	}
	return length
}
