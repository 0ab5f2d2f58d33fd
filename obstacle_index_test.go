package main

import "testing"

func TestObstacleIndexQueryRegion(t *testing.T) {
	obstacles := []Obstacle{
		{X: 0, Y: 0, Width: 50, Height: 50},
		{X: 300, Y: 300, Width: 80, Height: 40},
		{X: 700, Y: 500, Width: 60, Height: 60},
	}
	idx := NewObstacleIndex(obstacles)

	t.Run("hits only intersecting obstacles", func(t *testing.T) {
		got := idx.QueryRegion(250, 250, 450, 450)
		if len(got) != 1 || got[0] != obstacles[1] {
			t.Errorf("QueryRegion = %v, want only %v", got, obstacles[1])
		}
	})

	t.Run("covers everything", func(t *testing.T) {
		got := idx.QueryRegion(0, 0, 800, 600)
		if len(got) != 3 {
			t.Errorf("QueryRegion returned %d obstacles, want 3", len(got))
		}
	})

	t.Run("empty region misses all", func(t *testing.T) {
		got := idx.QueryRegion(100, 100, 200, 200)
		if len(got) != 0 {
			t.Errorf("QueryRegion = %v, want empty", got)
		}
	})

	t.Run("inverted region degrades to empty", func(t *testing.T) {
		got := idx.QueryRegion(400, 400, 100, 100)
		if len(got) != 0 {
			t.Errorf("QueryRegion on inverted box = %v, want empty", got)
		}
	})
}

func TestObstacleIndexSkipsDegenerateRects(t *testing.T) {
	idx := NewObstacleIndex([]Obstacle{
		{X: 10, Y: 10, Width: 0, Height: 40},
		{X: 100, Y: 100, Width: 20, Height: 20},
	})

	got := idx.QueryRegion(0, 0, 800, 600)
	if len(got) != 1 {
		t.Fatalf("QueryRegion returned %d obstacles, want the zero-width one skipped", len(got))
	}
	if got[0].X != 100 {
		t.Errorf("unexpected survivor: %v", got[0])
	}
}
