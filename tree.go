package main

// TreeNode is one vertex of the search tree. IDs are dense: a node's id
// equals its index in the store.
type TreeNode struct {
	ID       int     `json:"id"`
	Point    Point   `json:"point"`
	ParentID int     `json:"parentId"` // -1 for the root
	Cost     float64 `json:"cost"`     // accumulated path length from the root
	Children []int   `json:"children,omitempty"`
}

// Tree is an append-only node store. Nodes are never removed, only
// re-parented; parent/child links are index pairs into Nodes, which keeps
// the structure flat and serializable.
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// NewTree seeds the store with a root node at the given point
func NewTree(root Point) *Tree {
	return &Tree{Nodes: []TreeNode{{ID: 0, Point: root, ParentID: -1, Cost: 0}}}
}

// Len returns the number of nodes in the store
func (t *Tree) Len() int {
	return len(t.Nodes)
}

// Add appends a new node under parentID and returns its id
func (t *Tree) Add(parentID int, p Point) int {
	id := len(t.Nodes)
	parent := t.Nodes[parentID]
	t.Nodes = append(t.Nodes, TreeNode{
		ID:       id,
		Point:    p,
		ParentID: parentID,
		Cost:     parent.Cost + parent.Point.Distance(p),
	})
	t.Nodes[parentID].Children = append(t.Nodes[parentID].Children, id)
	return id
}

// Reparent detaches a node from its current parent, attaches it under
// newParentID and recomputes the accumulated cost of every descendant.
// Re-parenting invalidates every cached cost beneath the moved node, so
// the cascade walks the whole subtree with an explicit stack (recursion
// would be bounded only by tree depth).
func (t *Tree) Reparent(id, newParentID int) {
	node := &t.Nodes[id]
	if node.ParentID >= 0 {
		t.removeChild(node.ParentID, id)
	}

	newParent := &t.Nodes[newParentID]
	node.ParentID = newParentID
	node.Cost = newParent.Cost + newParent.Point.Distance(node.Point)
	newParent.Children = append(newParent.Children, id)

	stack := append([]int(nil), node.Children...)
	for len(stack) > 0 {
		childID := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		child := &t.Nodes[childID]
		parent := t.Nodes[child.ParentID]
		child.Cost = parent.Cost + parent.Point.Distance(child.Point)
		stack = append(stack, child.Children...)
	}
}

// removeChild drops childID from the children list of parentID
func (t *Tree) removeChild(parentID, childID int) {
	children := t.Nodes[parentID].Children
	for i, c := range children {
		if c == childID {
			t.Nodes[parentID].Children = append(children[:i], children[i+1:]...)
			break
		}
	}
}
