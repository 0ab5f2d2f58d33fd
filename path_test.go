package main

import (
	"math"
	"reflect"
	"testing"
)

// Free 800×600 workspace, start (50,300), goal (750,300): the planner must
// reach the goal band well before exhausting 2000 iterations, and the
// path cost must sit between the straight-line distance (less the goal
// tolerance band) and the sum of its edge lengths.
func TestFreeSpacePathIsFound(t *testing.T) {
	p := newTestPlanner(VariantRRT, nil,
		Config{StepSize: 30, MaxIterations: 2000, GoalBias: 0.05}, 5)

	for !p.Saturated() {
		p.AdvanceIteration()
	}

	path := p.CurrentPath()
	if len(path) == 0 {
		t.Fatal("no path found in free space within 2000 iterations")
	}
	if path[0] != 0 {
		t.Errorf("path starts at node %d, want the root", path[0])
	}

	length := p.PathLength(path)
	last := p.Tree.Nodes[path[len(path)-1]]

	straight := p.Start.Distance(p.Goal) // 700
	tolerance := goalToleranceFactor * p.Config.StepSize
	if length < straight-tolerance {
		t.Errorf("path length %v shorter than straight line %v minus tolerance %v", length, straight, tolerance)
	}
	if math.Abs(length-last.Cost) > 1e-6 {
		t.Errorf("path length %v disagrees with terminal node cost %v", length, last.Cost)
	}
	if last.Point.Distance(p.Goal) > tolerance {
		t.Errorf("terminal node %v outside the goal tolerance band", last.Point)
	}
}

// A wall spanning the full vertical extent between start and goal leaves
// no way through: the path must stay empty all the way to saturation.
func TestWallKeepsPathEmpty(t *testing.T) {
	wall := Obstacle{X: 390, Y: 0, Width: 40, Height: 600}
	p := newTestPlanner(VariantRRT, []Obstacle{wall},
		Config{StepSize: 30, MaxIterations: 500, GoalBias: 0.05}, 9)

	for i := 0; !p.Saturated() && i < 5000; i++ {
		p.AdvanceIteration()
		if len(p.CurrentPath()) != 0 {
			t.Fatalf("path appeared through a solid wall after %d iterations", i+1)
		}
	}
	if len(p.CurrentPath()) != 0 {
		t.Error("path non-empty at saturation")
	}
}

func TestCurrentPathIdempotent(t *testing.T) {
	p := newTestPlanner(VariantRRTStar, nil,
		Config{StepSize: 30, MaxIterations: 300, GoalBias: 0.1, SearchRadius: 60}, 13)

	for !p.Saturated() {
		p.AdvanceIteration()
	}

	first := p.CurrentPath()
	second := p.CurrentPath()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("consecutive calls disagree:\n%v\n%v", first, second)
	}
}

func TestCurrentPathOnFreshPlanner(t *testing.T) {
	t.Run("goal out of reach yields empty path, not an error", func(t *testing.T) {
		p := newTestPlanner(VariantRRT, nil, Config{StepSize: 30, MaxIterations: 10}, 1)
		if got := p.CurrentPath(); len(got) != 0 {
			t.Errorf("path on fresh planner = %v, want empty", got)
		}
	})

	t.Run("goal at the root is immediately reachable", func(t *testing.T) {
		start := Point{X: 100, Y: 100}
		p := NewPlanner(testBounds, start, start, nil, Config{StepSize: 30, MaxIterations: 10}, VariantRRT)
		if got := p.CurrentPath(); !reflect.DeepEqual(got, []int{0}) {
			t.Errorf("path = %v, want [0]", got)
		}
	})
}

// The extractor must pick the cheapest candidate inside the band, not the
// closest one.
func TestCurrentPathPicksCheapestCandidate(t *testing.T) {
	goal := Point{X: 100, Y: 0}
	p := NewPlanner(testBounds, Point{X: 0, Y: 0}, goal, nil,
		Config{StepSize: 30, MaxIterations: 100}, VariantRRT)

	// A wasteful detour ending right at the goal, and a direct branch
	// ending slightly off but far cheaper.
	detour := p.Tree.Add(0, Point{X: 60, Y: 220})
	detour = p.Tree.Add(detour, Point{X: 100, Y: 0}) // cost ≈ 451
	direct := p.Tree.Add(0, Point{X: 90, Y: 20})     // cost ≈ 92, within 45 of goal

	got := p.CurrentPath()
	want := []int{0, direct}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("path = %v, want %v (cheapest candidate)", got, want)
	}
}

func TestPathHelpers(t *testing.T) {
	p := NewPlanner(testBounds, Point{X: 0, Y: 0}, Point{X: 100, Y: 0}, nil,
		Config{StepSize: 30, MaxIterations: 100}, VariantRRT)
	a := p.Tree.Add(0, Point{X: 30, Y: 0})
	b := p.Tree.Add(a, Point{X: 30, Y: 40})

	path := []int{0, a, b}
	points := p.PathPoints(path)
	if len(points) != 3 || points[2] != (Point{X: 30, Y: 40}) {
		t.Errorf("unexpected points: %v", points)
	}
	if got := p.PathLength(path); math.Abs(got-70) > 1e-9 {
		t.Errorf("length = %v, want 70", got)
	}
	if got := p.PathLength(nil); got != 0 {
		t.Errorf("length of empty path = %v, want 0", got)
	}
}
