package bintree_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/funny-falcon/syncsplit"
	"github.com/funny-falcon/syncsplit/bintree"
)

func TestCount(t *testing.T) {
	require.Equal(t, 1, bintree.Count(0))
	require.Equal(t, 3, bintree.Count(1))
	require.Equal(t, 63, bintree.Count(5))
}

func TestBuildExactFit(t *testing.T) {
	const height = 10
	buf := make([]bintree.Node, bintree.Count(height))
	sp := syncsplit.New(buf)

	root, ok := bintree.Build(sp, height)
	require.True(t, ok)
	require.Equal(t, 0, root)
	require.Equal(t, bintree.Count(height), sp.Done())

	// Walk the tree: every arena slot must be reached exactly once and
	// heights must drop by one per level.
	seen := make([]bool, len(buf))
	var walk func(idx int, height uint32)
	walk = func(idx int, height uint32) {
		require.False(t, seen[idx], "node %d reached twice", idx)
		seen[idx] = true
		n := &buf[idx]
		require.Equal(t, height, n.Height)
		if height == 0 {
			require.Equal(t, int32(bintree.NoChild), n.FirstChild)
			return
		}
		require.NotEqual(t, int32(bintree.NoChild), n.FirstChild)
		walk(int(n.FirstChild), height-1)
		walk(int(n.FirstChild)+1, height-1)
	}
	walk(root, height)
	for idx, s := range seen {
		require.True(t, s, "node %d never reached", idx)
	}
}

func TestBuildTooSmall(t *testing.T) {
	const height = 6
	buf := make([]bintree.Node, bintree.Count(height)-1)
	sp := syncsplit.New(buf)

	_, ok := bintree.Build(sp, height)
	require.False(t, ok)
	// The failing pair claim pinned the cursor.
	require.Equal(t, len(buf), sp.Done())
}

func TestBuildSingleNode(t *testing.T) {
	buf := make([]bintree.Node, 1)
	sp := syncsplit.New(buf)

	root, ok := bintree.Build(sp, 0)
	require.True(t, ok)
	require.Equal(t, 0, root)
	require.Equal(t, 1, sp.Done())
	require.Equal(t, uint32(0), buf[0].Height)
	require.Equal(t, int32(bintree.NoChild), buf[0].FirstChild)
}

func BenchmarkBuild(b *testing.B) {
	const height = 14
	buf := make([]bintree.Node, bintree.Count(height))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sp := syncsplit.New(buf)
		if _, ok := bintree.Build(sp, height); !ok {
			b.Fatal("arena too small")
		}
	}
}
