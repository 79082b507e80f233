package layout

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ByLCY/folio/dsl"
	"github.com/ByLCY/folio/errs"
)

// StyleAttr is the element attribute naming a style key.
const StyleAttr = "style"

// StyleSource resolves style keys. Get must return DefaultStyle for unknown keys.
type StyleSource interface {
	Get(key string) Style
}

// Builder 将元素树映射为布局节点树并调用求解器一次性求解。
// 零值可用：未设置 Styles 时所有元素使用默认样式，未设置 NewSolver 时使用 kjk/flex。
type Builder struct {
	Styles    StyleSource
	NewSolver func() Solver
	Logger    *zap.Logger
}

// Build lays out the subtree rooted at root (normally a Page element).
func (b *Builder) Build(root *dsl.Element) (*Tree, error) {
	if root == nil {
		return nil, fmt.Errorf("layout: nil root element")
	}
	newSolver := b.NewSolver
	if newSolver == nil {
		newSolver = NewFlexSolver
	}
	logger := b.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tree := &Tree{solver: newSolver()}
	style := b.style(root.AttrOr(StyleAttr, ""))
	rootNode, err := b.buildNode(tree, root, NoHandle, style, style.Box)
	if err != nil {
		return nil, err
	}
	tree.Root = rootNode
	if err := tree.solver.ComputeLayout(rootNode.Handle); err != nil {
		return nil, errs.Solver(err)
	}
	logger.Debug("layout solved",
		zap.String("element", root.Name),
		zap.String("style", rootNode.Key),
		zap.Int("nodes", tree.count),
	)
	return tree, nil
}

// buildNode 以先序深度优先遍历注册节点，子节点按文档顺序挂载。
// box 是交给求解器的盒模型，可能已叠加父节点的 gap。
func (b *Builder) buildNode(tree *Tree, el *dsl.Element, parent Handle, style Style, box Box) (*Node, error) {
	handle, err := tree.solver.NewNode(box)
	if err != nil {
		return nil, errs.Solver(err)
	}
	tree.count++
	node := &Node{
		Element: el,
		Handle:  handle,
		Parent:  parent,
		Style:   style,
		Key:     el.AttrOr(StyleAttr, ""),
	}

	children, _ := el.Elements()
	if len(children) == 0 {
		return node, nil
	}
	childStyles := make([]Style, len(children))
	for i, child := range children {
		childStyles[i] = b.style(child.AttrOr(StyleAttr, ""))
	}
	boxes := applyGap(style.Box, childStyles)

	handles := make([]Handle, 0, len(children))
	for i, child := range children {
		childNode, err := b.buildNode(tree, child, handle, childStyles[i], boxes[i])
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, childNode)
		handles = append(handles, childNode.Handle)
	}
	if err := tree.solver.SetChildren(handle, handles); err != nil {
		return nil, errs.Solver(err)
	}
	return node, nil
}

func (b *Builder) style(key string) Style {
	if b.Styles == nil {
		return DefaultStyle()
	}
	return b.Styles.Get(key)
}

// applyGap 用前导外边距模拟主轴方向的 gap：kjk/flex 没有 gap 属性。
// 仅处理绝对长度的 gap；绝对定位与 display:none 的子节点不参与。
// 换行容器无法得知每行的首项，gap 不生效；前导外边距为 auto 或百分比的子节点保持原值。
func applyGap(parent Box, children []Style) []Box {
	boxes := make([]Box, len(children))
	for i, c := range children {
		boxes[i] = c.Box
	}
	if parent.FlexWrap != NoWrap {
		return boxes
	}
	gap := parent.Gap.Height
	if parent.FlexDirection.IsRow() {
		gap = parent.Gap.Width
	}
	if !gap.IsPoints() || gap.Value == 0 {
		return boxes
	}
	first := true
	for i := range boxes {
		box := &boxes[i]
		if box.PositionType == PositionAbsolute || box.Display == DisplayNone {
			continue
		}
		if first {
			first = false
			continue
		}
		edge := leadingEdge(&box.Margin, parent.FlexDirection)
		switch edge.Kind {
		case DimUndefined:
			*edge = Points(gap.Value)
		case DimPoints:
			*edge = Points(edge.Value + gap.Value)
		}
	}
	return boxes
}

func leadingEdge(e *Edges, dir FlexDirection) *Dimension {
	switch {
	case dir.IsRow() && dir.IsReverse():
		return &e.Right
	case dir.IsRow():
		return &e.Left
	case dir.IsReverse():
		return &e.Bottom
	default:
		return &e.Top
	}
}
