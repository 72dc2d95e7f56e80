// Package render draws a subtree of a vectree.Tree as box-drawing text.
package render

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	ltree "github.com/charmbracelet/lipgloss/tree"
	"github.com/mattn/go-isatty"

	"github.com/INLOpen/vectree"
)

// Options controls what Tree draws.
type Options struct {
	Color     bool // style labels and branches with ANSI colours
	ShowIndex bool // append each node's Index to its label
	// MaxDepth stops descending below this depth; deeper children are summarised.
	// 0 means unlimited.
	MaxDepth int
	// MaxChildren limits the children drawn per node; the rest are summarised.
	// 0 means unlimited.
	MaxChildren int
}

// ColorFor reports whether output written to f should be coloured.
func ColorFor(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

var (
	rootStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f62fe"))
	itemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f4f4f4"))
	branchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8d8d8d"))
	moreStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#8d8d8d"))
)

// Tree draws the subtree rooted at start. An invalid start draws nothing.
// Tree วาดต้นไม้ย่อยที่เริ่มจาก start เป็นข้อความ
func Tree[T any](t *vectree.Tree[T], start vectree.Index, opts Options) string {
	if !t.Contains(start) {
		return ""
	}
	root := build(t, start, 0, opts)
	lt, ok := root.(*ltree.Tree)
	if !ok {
		lt = ltree.Root(root)
	}
	lt = lt.Enumerator(ltree.RoundedEnumerator)
	if opts.Color {
		lt = lt.RootStyle(rootStyle).ItemStyle(itemStyle).EnumeratorStyle(branchStyle)
	}
	return lt.String()
}

// build returns a label for a leaf and a *ltree.Tree for a node with children.
func build[T any](t *vectree.Tree[T], i vectree.Index, depth int, opts Options) any {
	label := fmt.Sprint(t.At(i))
	if opts.ShowIndex {
		label += " (" + i.String() + ")"
	}

	var children []any
	drawn, hidden := 0, 0
	for c := range t.Children(i) {
		if (opts.MaxDepth > 0 && depth+1 > opts.MaxDepth) ||
			(opts.MaxChildren > 0 && drawn == opts.MaxChildren) {
			hidden++
			continue
		}
		children = append(children, build(t, c, depth+1, opts))
		drawn++
	}
	if hidden > 0 {
		more := fmt.Sprintf("… %d more", hidden)
		if opts.Color {
			more = moreStyle.Render(more)
		}
		children = append(children, more)
	}
	if len(children) == 0 {
		return label
	}
	return ltree.Root(label).Child(children...)
}
