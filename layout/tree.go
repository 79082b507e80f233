package layout

import (
	"github.com/ByLCY/folio/dsl"
	"github.com/ByLCY/folio/errs"
)

// Node mirrors one element of the laid-out subtree. It is read-only once
// Build returns.
type Node struct {
	Element  *dsl.Element
	Handle   Handle
	Parent   Handle
	Style    Style
	Key      string
	Children []*Node
}

// Tree is a solved layout for one page.
type Tree struct {
	Root   *Node
	solver Solver
	count  int
}

// Len returns the number of nodes registered with the solver.
func (t *Tree) Len() int { return t.count }

// Walk visits nodes in pre-order; returning false skips the node's children.
func (t *Tree) Walk(fn func(*Node) bool) {
	var visit func(*Node)
	visit = func(n *Node) {
		if !fn(n) {
			return
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	if t.Root != nil {
		visit(t.Root)
	}
}

// Local returns the solver's parent-relative rectangle for n.
func (t *Tree) Local(n *Node) (LocalRect, error) {
	l, err := t.solver.Layout(n.Handle)
	if err != nil {
		return LocalRect{}, errs.Solver(err)
	}
	return l, nil
}

// AbsoluteRect 将求解器的局部坐标累加父节点的绝对坐标；parent 为 nil 表示根节点。
func (t *Tree) AbsoluteRect(n *Node, parent *Rect) (Rect, error) {
	l, err := t.Local(n)
	if err != nil {
		return Rect{}, err
	}
	r := Rect{X: l.X, Y: l.Y, Width: l.Width, Height: l.Height}
	if parent != nil {
		r.X += parent.X
		r.Y += parent.Y
	}
	return r, nil
}

// PageSize returns the root's declared width and height. Both must be
// absolute lengths; the solved size is not consulted.
func (t *Tree) PageSize() (width, height float64, err error) {
	if t.Root == nil {
		return 0, 0, errs.UndefinedPageSize("")
	}
	size := t.Root.Style.Size
	if !size.Width.IsPoints() || !size.Height.IsPoints() {
		return 0, 0, errs.UndefinedPageSize(t.Root.Element.Name)
	}
	return size.Width.Value, size.Height.Value, nil
}

// BottomLeft flips a top-left rectangle into the page's bottom-left basis.
func (t *Tree) BottomLeft(r Rect) (BottomLeftRect, error) {
	_, pageHeight, err := t.PageSize()
	if err != nil {
		return BottomLeftRect{}, err
	}
	return FlipRect(r, pageHeight), nil
}

// FlipRect is BottomLeft for a known page height.
func FlipRect(r Rect, pageHeight float64) BottomLeftRect {
	return BottomLeftRect{
		X:      r.X,
		Y:      pageHeight - r.Y - r.Height,
		Width:  r.Width,
		Height: r.Height,
	}
}
