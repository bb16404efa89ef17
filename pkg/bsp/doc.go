// Package bsp implements the binary space partition tree used to lay out rooms.
//
// A [Node] wraps an axis-aligned [Rect] region. A node is either a leaf, whose
// inset [Node.Room] becomes a floor room, or an internal node holding exactly
// two children that tile its region without gap or overlap.
//
// # Building a tree
//
//	rng := bsp.NewRand(42)
//	root := bsp.Build(bsp.Rect{Width: 50, Height: 50}, rng, bsp.SplitOptions{
//	    MinSize:          6,
//	    SplitProbability: 0.5,
//	    AspectThreshold:  1.25,
//	})
//	rooms := root.CollectRooms(2)
//
// # Randomness
//
// Every split decision draws from the single [Rand] passed in. Building twice
// from sources that produce the same draws yields identical trees, which is
// what makes seeded generation reproducible.
package bsp
