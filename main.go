package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"
)

// obstacleDir holds GeoJSON files whose feature bounding boxes become the
// default obstacle set for plans that don't carry their own
const obstacleDir = "obstacle-zones"

// PlanRequest creates a fresh planner. Any change to start, goal,
// obstacles or configuration requires a new plan: the tree is seeded once
// at the start point and only ever grows.
type PlanRequest struct {
	Bounds    BoundingBox `json:"bounds"`
	Start     Point       `json:"start"`
	Goal      Point       `json:"goal"`
	Obstacles []Obstacle  `json:"obstacles"` // omitted: fall back to loaded obstacle files
	Config    Config      `json:"config"`
	Variant   Variant     `json:"variant"` // "rrt" or "rrt*", defaults to "rrt"
}

type StepRequest struct {
	Count int `json:"count"` // micro-operations to perform, default 1
}

type IterateRequest struct {
	Count int `json:"count"` // full iterations to drain, default 1
}

type PathResponse struct {
	Found  bool    `json:"found"`
	Path   []int   `json:"path"`
	Points []Point `json:"points"`
	Length float64 `json:"length"`
}

var (
	globalPlanner    *Planner
	globalIndex      *ObstacleIndex
	plannerMutex     sync.RWMutex
	defaultObstacles []Obstacle
)

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// POST /plan - Create a fresh planner from a scenario snapshot
func planHandler(w http.ResponseWriter, r *http.Request) {
	slog.Info("📍 plan request received")

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("❌ invalid request body", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	obstacles := req.Obstacles
	if obstacles == nil {
		obstacles = defaultObstacles
	}

	planner := NewPlanner(req.Bounds, req.Start, req.Goal, obstacles, req.Config, req.Variant)
	index := NewObstacleIndex(obstacles)

	plannerMutex.Lock()
	globalPlanner = planner
	globalIndex = index
	plannerMutex.Unlock()

	slog.Info("✅ planner created",
		"variant", planner.Variant,
		"start", planner.Start,
		"goal", planner.Goal,
		"obstacles", len(obstacles),
		"stepSize", planner.Config.StepSize,
		"maxIterations", planner.Config.MaxIterations,
	)

	writeJSON(w, map[string]any{
		"success":  true,
		"config":   planner.Config,
		"variant":  planner.Variant,
		"snapshot": planner.Snapshot(),
	})
}

// POST /step - Advance the planner by N micro-operations
func stepHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req StepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Count <= 0 {
		req.Count = 1
	}

	plannerMutex.Lock()
	defer plannerMutex.Unlock()

	if globalPlanner == nil {
		slog.Warn("❌ no active plan")
		http.Error(w, "No active plan. Call /plan first", http.StatusBadRequest)
		return
	}

	inProgress := false
	for i := 0; i < req.Count; i++ {
		inProgress = globalPlanner.AdvanceMicro()
	}

	writeJSON(w, map[string]any{
		"performed":  req.Count,
		"inProgress": inProgress,
		"snapshot":   globalPlanner.Snapshot(),
	})
}

// POST /iterate - Drain N full iterations
func iterateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req IterateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Count <= 0 {
		req.Count = 1
	}

	plannerMutex.Lock()
	defer plannerMutex.Unlock()

	if globalPlanner == nil {
		slog.Warn("❌ no active plan")
		http.Error(w, "No active plan. Call /plan first", http.StatusBadRequest)
		return
	}

	for i := 0; i < req.Count; i++ {
		globalPlanner.AdvanceIteration()
	}

	slog.Info("🌱 iterations drained", "count", req.Count, "nodes", globalPlanner.Tree.Len())

	writeJSON(w, map[string]any{
		"performed": req.Count,
		"snapshot":  globalPlanner.Snapshot(),
	})
}

// GET /tree - Full node list plus edge line segments for rendering
func treeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	plannerMutex.RLock()
	defer plannerMutex.RUnlock()

	if globalPlanner == nil {
		http.Error(w, "No active plan. Call /plan first", http.StatusBadRequest)
		return
	}

	writeJSON(w, map[string]any{
		"nodes":    globalPlanner.Tree.Nodes,
		"lines":    treeLineStrings(globalPlanner.Tree),
		"snapshot": globalPlanner.Snapshot(),
	})
}

// treeLineStrings returns every parent→child edge as a line segment for
// visualization. Each edge appears exactly once: every non-root node has
// exactly one parent.
func treeLineStrings(t *Tree) [][]Point {
	lines := make([][]Point, 0, t.Len())
	for _, n := range t.Nodes {
		if n.ParentID < 0 {
			continue
		}
		lines = append(lines, []Point{t.Nodes[n.ParentID].Point, n.Point})
	}
	return lines
}

// GET /path - Current lowest-cost root-to-near-goal path
func pathHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	plannerMutex.RLock()
	defer plannerMutex.RUnlock()

	if globalPlanner == nil {
		http.Error(w, "No active plan. Call /plan first", http.StatusBadRequest)
		return
	}

	path := globalPlanner.CurrentPath()
	resp := PathResponse{
		Found:  len(path) > 0,
		Path:   path,
		Points: globalPlanner.PathPoints(path),
		Length: globalPlanner.PathLength(path),
	}

	if resp.Found {
		slog.Info("✅ path available", "waypoints", len(path), "length", resp.Length)
	} else {
		slog.Info("ℹ️  no path within goal tolerance yet")
	}

	writeJSON(w, resp)
}

// GET /obstaclesInRegion?minX=&minY=&maxX=&maxY= - Obstacles intersecting a viewport
func obstaclesInRegionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	parse := func(key string) float64 {
		v, _ := strconv.ParseFloat(query.Get(key), 64)
		return v
	}
	minX, minY := parse("minX"), parse("minY")
	maxX, maxY := parse("maxX"), parse("maxY")

	plannerMutex.RLock()
	index := globalIndex
	plannerMutex.RUnlock()

	if index == nil {
		http.Error(w, "No active plan. Call /plan first", http.StatusBadRequest)
		return
	}

	obstacles := index.QueryRegion(minX, minY, maxX, maxY)
	writeJSON(w, map[string]any{
		"obstacles": obstacles,
		"count":     len(obstacles),
	})
}

// GET /health - Health check endpoint
func healthHandler(w http.ResponseWriter, r *http.Request) {
	plannerMutex.RLock()
	defer plannerMutex.RUnlock()

	status := "waiting for plan"
	nodeCount := 0
	saturated := false
	if globalPlanner != nil {
		status = "ready"
		nodeCount = globalPlanner.Tree.Len()
		saturated = globalPlanner.Saturated()
	}

	writeJSON(w, map[string]any{
		"status":    status,
		"hasPlan":   globalPlanner != nil,
		"nodeCount": nodeCount,
		"saturated": saturated,
	})
}

func main() {
	slog.SetDefault(newLogger(logOutput))

	slog.Info("🚀 RRT / RRT* planning server starting")

	if obstacles, err := loadObstaclesFromDir(obstacleDir); err == nil && len(obstacles) > 0 {
		defaultObstacles = obstacles
		slog.Info("✅ default obstacle set loaded", "count", len(obstacles))
	} else {
		slog.Info("ℹ️  no obstacle files found (this is normal on first run)", "dir", obstacleDir)
	}

	http.HandleFunc("/plan", corsMiddleware(planHandler))
	http.HandleFunc("/step", corsMiddleware(stepHandler))
	http.HandleFunc("/iterate", corsMiddleware(iterateHandler))
	http.HandleFunc("/tree", corsMiddleware(treeHandler))
	http.HandleFunc("/path", corsMiddleware(pathHandler))
	http.HandleFunc("/obstaclesInRegion", corsMiddleware(obstaclesInRegionHandler))
	http.HandleFunc("/health", corsMiddleware(healthHandler))

	slog.Info("server starting on :8080")
	slog.Info("endpoints: POST /plan /step /iterate, GET /tree /path /obstaclesInRegion /health")

	if err := http.ListenAndServe(":8080", nil); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}
