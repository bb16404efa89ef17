package bsp

// SplitOptions controls how [Build] partitions a region.
type SplitOptions struct {
	// MinSize is the smallest side a region may have after a cut.
	// Values below 1 disable splitting.
	MinSize int
	// SplitProbability is the probability of a vertical cut (dividing the width).
	SplitProbability float64
	// AspectThreshold forces the cut orientation once a region is this elongated.
	AspectThreshold float64
}

// Node is one region of the partition tree.
//
// Internal nodes have both Left and Right set and a zero Room. Leaves have no
// children; their Room is filled in by [Node.CollectRooms].
type Node struct {
	Region Rect
	Left   *Node
	Right  *Node
	Room   Rect

	// Horizontal records the orientation of the cut for internal nodes:
	// true when the height was divided, false when the width was.
	Horizontal bool
}

// NewNode returns a leaf covering region.
func NewNode(region Rect) *Node {
	return &Node{Region: region}
}

// IsLeaf reports whether n has not been split.
func (n *Node) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// TrySplit attempts to cut n into two children.
//
// It returns false, leaving n a leaf, when the region is too small on both
// axes or when the chosen axis cannot host a cut leaving more than minSize on
// the far side. Empty regions and minSize < 1 never split and draw nothing. splitProbability is the chance of a vertical cut; regions whose
// side ratio reaches aspectThreshold are always cut across their long side.
func (n *Node) TrySplit(rng Rand, minSize int, splitProbability, aspectThreshold float64) bool {
	w, h := n.Region.Width, n.Region.Height
	if w <= 0 || h <= 0 || minSize < 1 {
		return false
	}
	if w < 2*minSize && h < 2*minSize {
		return false
	}

	horizontal := rng.Float64() > splitProbability
	// Integer ratio: a 20x15 region reads as 1 and is not forced.
	if w > h && float64(w/h) >= aspectThreshold {
		horizontal = false
	} else if h > w && float64(h/w) >= aspectThreshold {
		horizontal = true
	}

	length := w
	if horizontal {
		length = h
	}
	limit := length - minSize
	if limit <= minSize {
		return false
	}

	cut := between(rng, minSize, limit)
	r := n.Region
	if horizontal {
		n.Left = NewNode(Rect{X: r.X, Y: r.Y, Width: r.Width, Height: cut})
		n.Right = NewNode(Rect{X: r.X, Y: r.Y + cut, Width: r.Width, Height: r.Height - cut})
	} else {
		n.Left = NewNode(Rect{X: r.X, Y: r.Y, Width: cut, Height: r.Height})
		n.Right = NewNode(Rect{X: r.X + cut, Y: r.Y, Width: r.Width - cut, Height: r.Height})
	}
	n.Horizontal = horizontal
	return true
}

// CollectRooms computes the room rectangle of every leaf and returns the
// leaves in pre-order, left subtree first.
//
// A leaf's room is its region moved one cell in from the origin and shrunk by
// wallThickness on each axis. Sides that would go negative are clamped to zero,
// so undersized leaves yield an empty room.
func (n *Node) CollectRooms(wallThickness int) []*Node {
	var rooms []*Node
	n.collect(wallThickness, &rooms)
	return rooms
}

func (n *Node) collect(wallThickness int, rooms *[]*Node) {
	if n.IsLeaf() {
		n.Room = Rect{
			X:      n.Region.X + 1,
			Y:      n.Region.Y + 1,
			Width:  max(0, n.Region.Width-wallThickness),
			Height: max(0, n.Region.Height-wallThickness),
		}
		*rooms = append(*rooms, n)
		return
	}
	if n.Left != nil {
		n.Left.collect(wallThickness, rooms)
	}
	if n.Right != nil {
		n.Right.collect(wallThickness, rooms)
	}
}

// Build splits a root covering region until no node can split further.
// Nodes are split depth-first: the node itself, then its left subtree, then its right.
func Build(region Rect, rng Rand, opts SplitOptions) *Node {
	root := NewNode(region)
	split(root, rng, opts)
	return root
}

func split(n *Node, rng Rand, opts SplitOptions) {
	if !n.TrySplit(rng, opts.MinSize, opts.SplitProbability, opts.AspectThreshold) {
		return
	}
	split(n.Left, rng, opts)
	split(n.Right, rng, opts)
}

// Walk visits n and its descendants in pre-order with their depth (root = 0).
// Returning false from fn skips the children of that node.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	if n.Left != nil {
		n.Left.walk(fn, depth+1)
	}
	if n.Right != nil {
		n.Right.walk(fn, depth+1)
	}
}

// Leaves returns the leaf nodes in pre-order without touching their rooms.
func (n *Node) Leaves() []*Node {
	var leaves []*Node
	n.Walk(func(node *Node, _ int) bool {
		if node.IsLeaf() {
			leaves = append(leaves, node)
		}
		return true
	})
	return leaves
}

// Depth returns the number of edges on the longest root-to-leaf path.
func (n *Node) Depth() int {
	deepest := 0
	n.Walk(func(_ *Node, depth int) bool {
		deepest = max(deepest, depth)
		return true
	})
	return deepest
}

// Count returns the total number of nodes in the tree.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node, int) bool {
		count++
		return true
	})
	return count
}
