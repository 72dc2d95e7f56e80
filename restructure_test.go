package vectree

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func rootOf[T any](t *testing.T, tree *Tree[T]) Index {
	t.Helper()
	root, ok := tree.Root()
	require.True(t, ok, "tree has no root")
	return root
}

func parentOf[T any](t *testing.T, tree *Tree[T], i Index) Index {
	t.Helper()
	p, ok := tree.Parent(i)
	require.True(t, ok, "%s has no parent", i)
	return p
}

func TestForkOnlyNode(t *testing.T) {
	tree := New[int]()
	oldRoot := tree.InsertRoot(101)
	sibling, ok := tree.Fork(oldRoot, 100, 102)
	require.True(t, ok)

	newRoot := rootOf(t, tree)
	require.NotEqual(t, oldRoot, newRoot)
	require.NotEqual(t, sibling, newRoot)
	require.Equal(t, 100, tree.At(newRoot))
	require.Equal(t, 102, tree.At(sibling))
	require.Equal(t, []Index{oldRoot, sibling}, slices.Collect(tree.Children(newRoot)))
	require.NoError(t, tree.Validate())
}

func TestForkChildPositions(t *testing.T) {
	tests := []struct {
		name     string
		siblings int // children of the root
		fork     int // position of the forked child
	}{
		{name: "left", siblings: 2, fork: 0},
		{name: "right", siblings: 2, fork: 1},
		{name: "middle", siblings: 3, fork: 1},
	}
	for _, tt := range tests {
		for _, setup := range getTestSetups() {
			t.Run(tt.name+"/"+setup.name, func(t *testing.T) {
				tree := New[int](setup.opts...)
				root := tree.InsertRoot(1)
				var kids []Index
				for k := range tt.siblings {
					kids = append(kids, mustInsert(t, tree, 10+k, root))
				}
				forked := kids[tt.fork]
				grandchild := mustInsert(t, tree, 99, forked)

				sibling, ok := tree.Fork(forked, 50, 51)
				require.True(t, ok)
				require.Equal(t, root, rootOf(t, tree))

				newParent := parentOf(t, tree, forked)
				require.Equal(t, newParent, parentOf(t, tree, sibling))
				require.Equal(t, 50, tree.At(newParent))
				require.Equal(t, root, parentOf(t, tree, newParent))

				want := slices.Clone(kids)
				want[tt.fork] = newParent
				require.Equal(t, want, slices.Collect(tree.Children(root)))
				require.Equal(t, []Index{forked, sibling}, slices.Collect(tree.Children(newParent)))
				require.Equal(t, []Index{grandchild}, slices.Collect(tree.Children(forked)))
				require.NoError(t, tree.Validate())
			})
		}
	}
}

func TestForkRootKeepsChildren(t *testing.T) {
	tree := New[int]()
	ma := tree.InsertRoot(1)
	babyBro := mustInsert(t, tree, 11, ma)
	olderSis := mustInsert(t, tree, 12, ma)

	newUncle, ok := tree.Fork(ma, 0, 2)
	require.True(t, ok)
	newRoot := rootOf(t, tree)
	require.NotEqual(t, ma, newRoot)
	require.Equal(t, []Index{ma, newUncle}, slices.Collect(tree.Children(newRoot)))
	require.Equal(t, []Index{babyBro, olderSis}, slices.Collect(tree.Children(ma)))
	require.NoError(t, tree.Validate())
}

func TestForkInvalidNode(t *testing.T) {
	tree := New[int]()
	grandpa := tree.InsertRoot(1)
	pa := mustInsert(t, tree, 11, grandpa)
	deadUncle := mustInsert(t, tree, 12, grandpa)

	estate, ok := tree.Remove(deadUncle)
	require.True(t, ok)
	require.Equal(t, 12, estate)
	require.True(t, tree.Contains(pa))

	before := tree.Len()
	_, ok = tree.Fork(deadUncle, 9, 99)
	require.False(t, ok)
	require.Equal(t, before, tree.Len())
}

func TestForkGrowsThePool(t *testing.T) {
	tree := New[int](WithCapacity(2))
	item1 := tree.InsertRoot(1)
	item2, ok := tree.Fork(item1, 0, 2)
	require.True(t, ok)
	require.True(t, tree.Contains(item2))
	require.NotEqual(t, 2, tree.Capacity())
	require.Equal(t, 3, tree.Len())
}

func TestMergePreconditionsAreSilentNoOps(t *testing.T) {
	tree := New[int]()
	missing := tree.InsertRoot(0)
	tree.Remove(missing)
	realRoot := tree.InsertRoot(1)
	realChild := mustInsert(t, tree, 11, realRoot)
	count := func() int { return len(slices.Collect(tree.Descendants(rootOf(t, tree)))) }
	require.Equal(t, 2, count())

	tree.Merge(missing, realChild)
	require.Equal(t, 2, count())
	tree.Merge(realChild, missing)
	require.Equal(t, 2, count())

	sibling := mustInsert(t, tree, 12, realRoot)
	require.Equal(t, 3, count())

	// Different parents: the root has none.
	tree.Merge(realRoot, realChild)
	require.Equal(t, 3, count())
	tree.Merge(realChild, realRoot)
	require.Equal(t, 3, count())

	// Same node.
	tree.Merge(realChild, realChild)
	require.Equal(t, 3, count())

	// Cousins.
	nephew := mustInsert(t, tree, 121, sibling)
	tree.Merge(realChild, nephew)
	require.Equal(t, 4, count())
	require.Equal(t, realRoot, rootOf(t, tree))
	require.NoError(t, tree.Validate())
}

func TestMergeLeavesCollapseRoot(t *testing.T) {
	tree := New[int]()
	realRoot := tree.InsertRoot(1)
	realChild := mustInsert(t, tree, 11, realRoot)
	sibling := mustInsert(t, tree, 12, realRoot)

	tree.Merge(realChild, sibling)
	newRoot := rootOf(t, tree)
	require.NotEqual(t, realRoot, newRoot)
	require.Equal(t, sibling, newRoot)
	require.Len(t, slices.Collect(tree.Descendants(newRoot)), 1)
	require.False(t, tree.Contains(realChild))
	require.False(t, tree.Contains(realRoot))
	_, ok := tree.Parent(realChild)
	require.False(t, ok)
	require.NoError(t, tree.Validate())
}

func TestMergeCollapsesInnerParent(t *testing.T) {
	tree := New[int]()
	root := tree.InsertRoot(1)
	parent := mustInsert(t, tree, 11, root)
	uncle := mustInsert(t, tree, 12, root)
	child1 := mustInsert(t, tree, 111, parent)
	child2 := mustInsert(t, tree, 112, parent)

	tree.Merge(child1, child2)
	require.Equal(t, root, rootOf(t, tree))
	require.False(t, tree.Contains(parent))
	require.False(t, tree.Contains(child1))
	require.Equal(t, []Index{root, child2, uncle}, slices.Collect(tree.Descendants(root)))
	require.Equal(t, root, parentOf(t, tree, child2))
	require.NoError(t, tree.Validate())
}

func TestMergeWhenOnlyFirstHasChildren(t *testing.T) {
	tree := New[int]()
	root := tree.InsertRoot(1)
	parent := mustInsert(t, tree, 11, root)
	uncle := mustInsert(t, tree, 12, root)
	child1 := mustInsert(t, tree, 111, parent)
	child2 := mustInsert(t, tree, 112, parent)

	tree.Merge(parent, uncle)
	newRoot := rootOf(t, tree)
	require.NotEqual(t, root, newRoot)
	require.Equal(t, uncle, newRoot)
	require.Equal(t, uncle, parentOf(t, tree, child1))
	require.Equal(t, uncle, parentOf(t, tree, child2))
	require.Equal(t, []Index{child1, child2}, slices.Collect(tree.Children(uncle)))
	require.NoError(t, tree.Validate())
}

func TestMergeWhenOnlySecondHasChildren(t *testing.T) {
	tree := New[int]()
	root := tree.InsertRoot(1)
	auntie := mustInsert(t, tree, 11, root)
	parent := mustInsert(t, tree, 12, root)
	child1 := mustInsert(t, tree, 121, parent)
	child2 := mustInsert(t, tree, 122, parent)

	tree.Merge(parent, auntie)
	newRoot := rootOf(t, tree)
	require.Equal(t, auntie, newRoot)
	require.Equal(t, auntie, parentOf(t, tree, child1))
	require.Equal(t, auntie, parentOf(t, tree, child2))
	require.NoError(t, tree.Validate())
}

func TestMergeWhenBothHaveChildren(t *testing.T) {
	tree := New[int]()
	root := tree.InsertRoot(1000)
	gp1 := mustInsert(t, tree, 1100, root)
	gp2 := mustInsert(t, tree, 1200, root)
	p1 := mustInsert(t, tree, 1110, gp1)
	p2 := mustInsert(t, tree, 1120, gp1)
	c11 := mustInsert(t, tree, 1111, p1)
	c12 := mustInsert(t, tree, 1112, p1)
	c21 := mustInsert(t, tree, 1121, p2)
	c22 := mustInsert(t, tree, 1122, p2)

	tree.Merge(p1, p2)
	require.Equal(t, root, rootOf(t, tree))
	require.False(t, tree.Contains(p1))
	require.False(t, tree.Contains(gp1))
	require.Equal(t, root, parentOf(t, tree, p2))
	require.Equal(t, p2, parentOf(t, tree, c11))
	require.Equal(t, []Index{c11, c12, c21, c22}, slices.Collect(tree.Children(p2)))
	// p2 took gp1's place, in front of gp2.
	require.Equal(t, []Index{p2, gp2}, slices.Collect(tree.Children(root)))
	require.NoError(t, tree.Validate())
}

// buildThreeCousins builds root → gp1, gp2, gp3 and gp2 → p1, p2, p3, each p with two
// children. It returns gp2, the p nodes and their children.
func buildThreeCousins(t *testing.T) (*Tree[int], Index, []Index, [][]Index) {
	t.Helper()
	tree := New[int]()
	root := tree.InsertRoot(1000)
	mustInsert(t, tree, 1100, root)
	gp2 := mustInsert(t, tree, 1200, root)
	mustInsert(t, tree, 1300, root)
	ps := make([]Index, 3)
	cs := make([][]Index, 3)
	for k := range ps {
		ps[k] = mustInsert(t, tree, 1210+10*k, gp2)
	}
	for k, p := range ps {
		for c := range 2 {
			cs[k] = append(cs[k], mustInsert(t, tree, 1211+10*k+c, p))
		}
	}
	return tree, gp2, ps, cs
}

func TestMergeWithoutCollapse(t *testing.T) {
	tests := []struct {
		name  string
		a, b  int
		kids  []int // remaining children of gp2, by position in ps
		order [2]int
	}{
		{name: "siblings before", a: 1, b: 2, kids: []int{0, 2}, order: [2]int{1, 2}},
		{name: "siblings between", a: 0, b: 2, kids: []int{1, 2}, order: [2]int{0, 2}},
		{name: "siblings after", a: 0, b: 1, kids: []int{1, 2}, order: [2]int{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, gp2, ps, cs := buildThreeCousins(t)
			tree.Merge(ps[tt.a], ps[tt.b])

			require.True(t, tree.Contains(gp2), "gp2 still has two children and must not collapse")
			require.False(t, tree.Contains(ps[tt.a]))

			var wantKids []Index
			for _, k := range tt.kids {
				wantKids = append(wantKids, ps[k])
			}
			require.Equal(t, wantKids, slices.Collect(tree.Children(gp2)))

			wantGrand := append(slices.Clone(cs[tt.order[0]]), cs[tt.order[1]]...)
			require.Equal(t, wantGrand, slices.Collect(tree.Children(ps[tt.b])))
			require.NoError(t, tree.Validate())
		})
	}
}

func TestMergeRootChildren(t *testing.T) {
	tree := New[int]()
	root := tree.InsertRoot(10)
	c1 := mustInsert(t, tree, 11, root)
	c2 := mustInsert(t, tree, 12, root)

	tree.Merge(c1, c2)
	got, ok := tree.Root()
	require.True(t, ok)
	require.Equal(t, c2, got)
	require.False(t, tree.Contains(root))
	require.False(t, tree.Contains(c1))
	require.NoError(t, tree.Validate())
}

// Merging the two children of a forked root used to leave the survivor with a stale
// parent link.
func TestMergeAfterForkClearsParent(t *testing.T) {
	tree := New[int]()
	root := tree.InsertRoot(1)
	sibling, ok := tree.Fork(root, 0, 2)
	require.True(t, ok)
	forkedRoot := rootOf(t, tree)

	tree.Merge(root, sibling)
	_, ok = tree.Parent(sibling)
	require.False(t, ok)
	require.Equal(t, sibling, rootOf(t, tree))
	require.False(t, tree.Contains(forkedRoot))
	require.Equal(t, []Index{sibling}, slices.Collect(tree.Ancestors(sibling)))
	require.NoError(t, tree.Validate())
}

func TestForkThenMergeRestoresShape(t *testing.T) {
	tree, n := buildSample(t)
	sibling, ok := tree.Fork(n[4], -1, -2)
	require.True(t, ok)
	tree.Merge(sibling, n[4])

	// n[4] is back under n[1] where it was before the fork.
	require.Equal(t, []int{0, 1, 4, 6, 5, 2, 7, 3}, values(t, tree, tree.Descendants(n[0])))
	require.Equal(t, 8, tree.Len())
	require.NoError(t, tree.Validate())
}
