package main

import (
	"math"
	"math/rand"
	"time"
)

// Variant selects the planning algorithm
type Variant string

const (
	VariantRRT     Variant = "rrt"
	VariantRRTStar Variant = "rrt*"
)

// Config holds the planner tuning knobs
type Config struct {
	StepSize      float64 `json:"stepSize"`      // max per-edge length, > 0
	MaxIterations int     `json:"maxIterations"` // hard cap on node count, > 0
	GoalBias      float64 `json:"goalBias"`      // probability of sampling the goal directly, in [0,1]
	SearchRadius  float64 `json:"searchRadius"`  // RRT* neighbor radius, ignored for plain RRT
}

// applyDefaults fills unset knobs and clamps goalBias into [0,1].
// GoalBias keeps an explicit zero: zero bias is a meaningful setting.
func (c *Config) applyDefaults() {
	if c.StepSize <= 0 {
		c.StepSize = 30
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = 2000
	}
	if c.GoalBias < 0 {
		c.GoalBias = 0
	}
	if c.GoalBias > 1 {
		c.GoalBias = 1
	}
	if c.SearchRadius <= 0 {
		c.SearchRadius = 2 * c.StepSize
	}
}

// microState tags the next micro-operation the planner will perform
type microState int

const (
	stateSample microState = iota
	stateNearest
	stateSteer
	stateCollisionCheck
	stateNeighbors
	stateChooseParent
	stateAddNode
	stateRewire
)

func (s microState) String() string {
	switch s {
	case stateSample:
		return "SAMPLE"
	case stateNearest:
		return "NEAREST"
	case stateSteer:
		return "STEER"
	case stateCollisionCheck:
		return "COLLISION_CHECK"
	case stateNeighbors:
		return "NEIGHBORS"
	case stateChooseParent:
		return "CHOOSE_PARENT"
	case stateAddNode:
		return "ADD_NODE"
	case stateRewire:
		return "REWIRE"
	}
	return "UNKNOWN"
}

// maxMicroStates is the longest possible chain of micro-operations in a
// single iteration (the full RRT* sequence). AdvanceIteration uses it as a
// guard against scratch corruption, never as a normal exit.
const maxMicroStates = 8

// scratch is the per-iteration working state. Each micro-state owns a
// variant carrying exactly the fields it needs, so illegal field
// combinations are unrepresentable. Scratch never outlives an iteration
// and holds no tree invariants: losing it is always recoverable by
// resetting to SAMPLE.
type scratch interface {
	scratchState() microState
}

type nearestScratch struct {
	sample Point
}

type steerScratch struct {
	sample    Point
	nearestID int
}

type collisionScratch struct {
	sample    Point
	nearestID int
	candidate Point
}

type neighborsScratch struct {
	sample    Point
	nearestID int
	candidate Point
}

type chooseParentScratch struct {
	sample      Point
	nearestID   int
	candidate   Point
	neighborIDs []int
}

type addNodeScratch struct {
	sample      Point
	nearestID   int
	candidate   Point
	neighborIDs []int
	parentID    int
}

type rewireScratch struct {
	newNodeID   int
	neighborIDs []int
	parentID    int
}

func (nearestScratch) scratchState() microState      { return stateNearest }
func (steerScratch) scratchState() microState        { return stateSteer }
func (collisionScratch) scratchState() microState    { return stateCollisionCheck }
func (neighborsScratch) scratchState() microState    { return stateNeighbors }
func (chooseParentScratch) scratchState() microState { return stateChooseParent }
func (addNodeScratch) scratchState() microState      { return stateAddNode }
func (rewireScratch) scratchState() microState       { return stateRewire }

// The two algorithms diverge at exactly two points: where a clear
// collision check leads, and where a freshly added node leads. The table
// is picked once per planner instead of branching on the variant inside
// every state.
var (
	rrtTransitions = map[microState]microState{
		stateCollisionCheck: stateAddNode,
		stateAddNode:        stateSample,
	}
	rrtStarTransitions = map[microState]microState{
		stateCollisionCheck: stateNeighbors,
		stateAddNode:        stateRewire,
	}
)

// Planner incrementally grows an RRT or RRT* search tree one
// micro-operation at a time. All mutation is synchronous and
// single-writer; any two advances may be separated by arbitrary delay
// with no observable difference.
type Planner struct {
	Bounds    BoundingBox
	Start     Point
	Goal      Point
	Obstacles []Obstacle
	Config    Config
	Variant   Variant

	Tree *Tree

	next    map[microState]microState
	rng     *rand.Rand
	state   microState
	scratch scratch
}

// NewPlanner constructs a planner with the root node seeded at start.
// The start, goal and obstacle set are fixed for the planner's lifetime;
// changing any of them requires a fresh planner.
func NewPlanner(bounds BoundingBox, start, goal Point, obstacles []Obstacle, cfg Config, variant Variant) *Planner {
	cfg.applyDefaults()

	next := rrtTransitions
	if variant == VariantRRTStar {
		next = rrtStarTransitions
	} else {
		variant = VariantRRT
	}

	return &Planner{
		Bounds:    bounds,
		Start:     start,
		Goal:      goal,
		Obstacles: obstacles,
		Config:    cfg,
		Variant:   variant,
		Tree:      NewTree(start),
		next:      next,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		state:     stateSample,
	}
}

// Saturated reports whether the node cap has been reached. Saturation is
// a normal terminal condition, not a failure.
func (p *Planner) Saturated() bool {
	return p.Tree.Len() >= p.Config.MaxIterations
}

// reset clears scratch state and returns the machine to SAMPLE
func (p *Planner) reset() {
	p.state = stateSample
	p.scratch = nil
}

// AdvanceMicro performs exactly one micro-operation. It returns true while
// the current iteration is still in progress and false when it concludes:
// a node was added, the candidate was discarded on collision, or the
// planner is saturated.
func (p *Planner) AdvanceMicro() bool {
	if p.Saturated() {
		return false
	}

	switch p.state {
	case stateSample:
		var sample Point
		if p.rng.Float64() < p.Config.GoalBias {
			sample = p.Goal
		} else {
			sample = Point{
				X: p.Bounds.MinX + p.rng.Float64()*(p.Bounds.MaxX-p.Bounds.MinX),
				Y: p.Bounds.MinY + p.rng.Float64()*(p.Bounds.MaxY-p.Bounds.MinY),
			}
		}
		p.scratch = nearestScratch{sample: sample}
		p.state = stateNearest
		return true

	case stateNearest:
		sc, ok := p.scratch.(nearestScratch)
		if !ok {
			p.reset()
			return false
		}
		// Strict less-than keeps the first node encountered at a tied
		// minimum distance.
		nearestID := 0
		minDist := math.Inf(1)
		for i := range p.Tree.Nodes {
			if d := p.Tree.Nodes[i].Point.Distance(sc.sample); d < minDist {
				minDist = d
				nearestID = i
			}
		}
		p.scratch = steerScratch{sample: sc.sample, nearestID: nearestID}
		p.state = stateSteer
		return true

	case stateSteer:
		sc, ok := p.scratch.(steerScratch)
		if !ok {
			p.reset()
			return false
		}
		candidate := Steer(p.Tree.Nodes[sc.nearestID].Point, sc.sample, p.Config.StepSize)
		p.scratch = collisionScratch{sample: sc.sample, nearestID: sc.nearestID, candidate: candidate}
		p.state = stateCollisionCheck
		return true

	case stateCollisionCheck:
		sc, ok := p.scratch.(collisionScratch)
		if !ok {
			p.reset()
			return false
		}
		if !SegmentIsCollisionFree(p.Tree.Nodes[sc.nearestID].Point, sc.candidate, p.Obstacles) {
			// Blocked candidate: discard, iteration ends without a node.
			p.reset()
			return false
		}
		if p.next[stateCollisionCheck] == stateNeighbors {
			p.scratch = neighborsScratch{sample: sc.sample, nearestID: sc.nearestID, candidate: sc.candidate}
			p.state = stateNeighbors
		} else {
			p.scratch = addNodeScratch{sample: sc.sample, nearestID: sc.nearestID, candidate: sc.candidate, parentID: sc.nearestID}
			p.state = stateAddNode
		}
		return true

	case stateNeighbors:
		sc, ok := p.scratch.(neighborsScratch)
		if !ok {
			p.reset()
			return false
		}
		var neighborIDs []int
		for i := range p.Tree.Nodes {
			if p.Tree.Nodes[i].Point.Distance(sc.candidate) <= p.Config.SearchRadius {
				neighborIDs = append(neighborIDs, i)
			}
		}
		p.scratch = chooseParentScratch{sample: sc.sample, nearestID: sc.nearestID, candidate: sc.candidate, neighborIDs: neighborIDs}
		p.state = stateChooseParent
		return true

	case stateChooseParent:
		sc, ok := p.scratch.(chooseParentScratch)
		if !ok {
			p.reset()
			return false
		}
		bestID := sc.nearestID
		bestCost := p.Tree.Nodes[bestID].Cost + p.Tree.Nodes[bestID].Point.Distance(sc.candidate)
		for _, id := range sc.neighborIDs {
			n := p.Tree.Nodes[id]
			if c := n.Cost + n.Point.Distance(sc.candidate); c < bestCost &&
				SegmentIsCollisionFree(n.Point, sc.candidate, p.Obstacles) {
				bestID = id
				bestCost = c
			}
		}
		p.scratch = addNodeScratch{sample: sc.sample, nearestID: sc.nearestID, candidate: sc.candidate, neighborIDs: sc.neighborIDs, parentID: bestID}
		p.state = stateAddNode
		return true

	case stateAddNode:
		sc, ok := p.scratch.(addNodeScratch)
		if !ok {
			p.reset()
			return false
		}
		newID := p.Tree.Add(sc.parentID, sc.candidate)
		if p.next[stateAddNode] == stateSample {
			p.reset()
			return false
		}
		p.scratch = rewireScratch{newNodeID: newID, neighborIDs: sc.neighborIDs, parentID: sc.parentID}
		p.state = stateRewire
		return true

	case stateRewire:
		sc, ok := p.scratch.(rewireScratch)
		if !ok {
			p.reset()
			return false
		}
		for _, id := range sc.neighborIDs {
			if id == sc.parentID {
				continue
			}
			newNode := p.Tree.Nodes[sc.newNodeID]
			neighbor := p.Tree.Nodes[id]
			improved := newNode.Cost + newNode.Point.Distance(neighbor.Point)
			if improved < neighbor.Cost &&
				SegmentIsCollisionFree(newNode.Point, neighbor.Point, p.Obstacles) {
				// An ancestor of the new node always has a lower cost than
				// any improvement routed through it, so re-parenting here
				// can never create a cycle.
				p.Tree.Reparent(id, sc.newNodeID)
			}
		}
		p.reset()
		return false
	}

	p.reset()
	return false
}

// AdvanceIteration drains micro-operations until the current iteration
// concludes, then returns true. The loop bound is a defensive guard; a
// healthy iteration concludes on its own within maxMicroStates steps.
func (p *Planner) AdvanceIteration() bool {
	for i := 0; i < maxMicroStates; i++ {
		if !p.AdvanceMicro() {
			break
		}
	}
	return true
}

// Snapshot is the observable planner state the rendering layer consumes:
// the micro-state tag for trace display plus whichever scratch fields the
// current state carries, for per-step highlighting.
type Snapshot struct {
	State       string `json:"state"`
	NodeCount   int    `json:"nodeCount"`
	Saturated   bool   `json:"saturated"`
	Sample      *Point `json:"sample,omitempty"`
	NearestID   *int   `json:"nearestId,omitempty"`
	Candidate   *Point `json:"candidate,omitempty"`
	NeighborIDs []int  `json:"neighborIds,omitempty"`
	ParentID    *int   `json:"chosenParentId,omitempty"`
	NewNodeID   *int   `json:"newNodeId,omitempty"`
}

// Snapshot flattens the current scratch variant into the nullable form
// the frontend renders
func (p *Planner) Snapshot() Snapshot {
	snap := Snapshot{
		State:     p.state.String(),
		NodeCount: p.Tree.Len(),
		Saturated: p.Saturated(),
	}

	switch sc := p.scratch.(type) {
	case nearestScratch:
		snap.Sample = &sc.sample
	case steerScratch:
		snap.Sample = &sc.sample
		snap.NearestID = &sc.nearestID
	case collisionScratch:
		snap.Sample = &sc.sample
		snap.NearestID = &sc.nearestID
		snap.Candidate = &sc.candidate
	case neighborsScratch:
		snap.Sample = &sc.sample
		snap.NearestID = &sc.nearestID
		snap.Candidate = &sc.candidate
	case chooseParentScratch:
		snap.Sample = &sc.sample
		snap.NearestID = &sc.nearestID
		snap.Candidate = &sc.candidate
		snap.NeighborIDs = sc.neighborIDs
	case addNodeScratch:
		snap.Sample = &sc.sample
		snap.NearestID = &sc.nearestID
		snap.Candidate = &sc.candidate
		snap.NeighborIDs = sc.neighborIDs
		snap.ParentID = &sc.parentID
	case rewireScratch:
		snap.NeighborIDs = sc.neighborIDs
		snap.ParentID = &sc.parentID
		snap.NewNodeID = &sc.newNodeID
	}
	return snap
}
