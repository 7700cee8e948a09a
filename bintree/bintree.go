// Package bintree builds complete binary trees in parallel, placing every
// node in one pre-sized arena. Children of a node are adjacent in the arena
// and found through FirstChild, so the finished tree is a flat slice with no
// per-node pointers.
package bintree

import (
	"sync"

	"github.com/funny-falcon/syncsplit"
)

// NoChild marks a leaf.
const NoChild = -1

type Node struct {
	Height     uint32
	FirstChild int32
}

// Count returns the number of nodes in a complete binary tree of the given
// height.
func Count(height uint32) int {
	return 1<<(height+1) - 1
}

// Build claims every node of a complete binary tree of the given height out
// of sp and fills the child links. It returns the root's index in the arena
// and false if the arena ran out of nodes; in that case the arena holds a
// partial tree and sp.Done is only an upper bound on the written prefix.
//
// Build forks a goroutine per left subtree; the caller owns the join with
// any of its own claimants before reading results through sp.Done.
func Build(sp *syncsplit.Splitter[Node], height uint32) (int, bool) {
	root, idx, ok := sp.Pop()
	if !ok {
		return 0, false
	}
	return idx, fill(root, sp, height)
}

// Subtrees this small are cheaper to fill inline than to fork for.
const inlineHeight = 4

func fill(parent *Node, sp *syncsplit.Splitter[Node], height uint32) bool {
	parent.Height = height
	parent.FirstChild = NoChild
	if height == 0 {
		return true
	}
	left, right, idx, ok := sp.PopTwo()
	if !ok {
		return false
	}
	parent.FirstChild = int32(idx)

	if height <= inlineHeight {
		lok := fill(left, sp, height-1)
		return fill(right, sp, height-1) && lok
	}

	var wg sync.WaitGroup
	wg.Add(1)
	lok := false
	go func() {
		defer wg.Done()
		lok = fill(left, sp, height-1)
	}()
	rok := fill(right, sp, height-1)
	wg.Wait()
	return lok && rok
}
