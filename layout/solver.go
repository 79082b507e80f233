package layout

import (
	"fmt"
	"sync"

	"github.com/kjk/flex"
)

// Handle identifies a node registered with a Solver.
type Handle int

// NoHandle marks the absent parent of a root node.
const NoHandle Handle = -1

// Solver is the flexbox engine the tree builder drives. Implementations own
// their nodes; handles are only meaningful to the solver that issued them.
type Solver interface {
	NewNode(box Box) (Handle, error)
	SetChildren(parent Handle, children []Handle) error
	// ComputeLayout solves the subtree under root with unconstrained space.
	ComputeLayout(root Handle) error
	Layout(h Handle) (LocalRect, error)
}

// kjk/flex 的 generation 计数器是包级变量，并发求解必须串行化。
var flexMu sync.Mutex

// FlexSolver adapts github.com/kjk/flex to Solver.
type FlexSolver struct {
	config *flex.Config
	nodes  []*flex.Node
}

// NewFlexSolver returns a solver with pixel-grid rounding disabled, since
// lengths are millimetres rather than device pixels.
func NewFlexSolver() Solver {
	config := flex.NewConfig()
	config.UseWebDefaults = false
	config.SetPointScaleFactor(0)
	return &FlexSolver{config: config}
}

func (s *FlexSolver) node(h Handle) (*flex.Node, error) {
	if h < 0 || int(h) >= len(s.nodes) {
		return nil, fmt.Errorf("flex: unknown handle %d", h)
	}
	return s.nodes[h], nil
}

func (s *FlexSolver) NewNode(box Box) (Handle, error) {
	n := flex.NewNodeWithConfig(s.config)
	applyBox(n, box)
	s.nodes = append(s.nodes, n)
	return Handle(len(s.nodes) - 1), nil
}

func (s *FlexSolver) SetChildren(parent Handle, children []Handle) (err error) {
	p, err := s.node(parent)
	if err != nil {
		return err
	}
	defer recoverSolver(&err)
	for i, h := range children {
		c, cerr := s.node(h)
		if cerr != nil {
			return cerr
		}
		p.InsertChild(c, i)
	}
	return nil
}

func (s *FlexSolver) ComputeLayout(root Handle) (err error) {
	n, err := s.node(root)
	if err != nil {
		return err
	}
	flexMu.Lock()
	defer flexMu.Unlock()
	defer recoverSolver(&err)
	flex.CalculateLayout(n, flex.Undefined, flex.Undefined, flex.DirectionLTR)
	return nil
}

func (s *FlexSolver) Layout(h Handle) (LocalRect, error) {
	n, err := s.node(h)
	if err != nil {
		return LocalRect{}, err
	}
	l := n.Layout
	return LocalRect{
		X:      float64(l.Position[flex.EdgeLeft]),
		Y:      float64(l.Position[flex.EdgeTop]),
		Width:  float64(l.Dimensions[flex.DimensionWidth]),
		Height: float64(l.Dimensions[flex.DimensionHeight]),
	}, nil
}

// kjk/flex 在断言失败时直接 panic，这里转换成普通错误。
func recoverSolver(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("flex: %v", r)
	}
}

func applyBox(n *flex.Node, box Box) {
	st := &n.Style
	st.Direction = flex.DirectionLTR
	st.Display = flexDisplay[box.Display]
	st.PositionType = flexPosition[box.PositionType]
	st.FlexDirection = flexDirection[box.FlexDirection]
	st.FlexWrap = flexWrap[box.FlexWrap]
	st.AlignItems = flexAlign[box.AlignItems]
	st.AlignSelf = flexAlign[box.AlignSelf]
	st.AlignContent = flexAlign[box.AlignContent]
	st.JustifyContent = flexJustify[box.JustifyContent]
	st.FlexGrow = float32(box.FlexGrow)
	st.FlexShrink = float32(box.FlexShrink)
	st.FlexBasis = flexValue(box.FlexBasis, true)

	setEdges(&st.Position, box.Position, false)
	setEdges(&st.Margin, box.Margin, true)
	setEdges(&st.Padding, box.Padding, false)
	setEdges(&st.Border, pointsOnly(box.Border), false)

	st.Dimensions[flex.DimensionWidth] = flexValue(box.Size.Width, true)
	st.Dimensions[flex.DimensionHeight] = flexValue(box.Size.Height, true)
	st.MinDimensions[flex.DimensionWidth] = flexValue(box.MinSize.Width, false)
	st.MinDimensions[flex.DimensionHeight] = flexValue(box.MinSize.Height, false)
	st.MaxDimensions[flex.DimensionWidth] = flexValue(box.MaxSize.Width, false)
	st.MaxDimensions[flex.DimensionHeight] = flexValue(box.MaxSize.Height, false)

	if box.AspectRatio > 0 {
		st.AspectRatio = float32(box.AspectRatio)
	} else {
		st.AspectRatio = flex.Undefined
	}
}

func setEdges(dst *[flex.EdgeCount]flex.Value, e Edges, allowAuto bool) {
	dst[flex.EdgeLeft] = flexValue(e.Left, allowAuto)
	dst[flex.EdgeRight] = flexValue(e.Right, allowAuto)
	dst[flex.EdgeTop] = flexValue(e.Top, allowAuto)
	dst[flex.EdgeBottom] = flexValue(e.Bottom, allowAuto)
}

// 边框宽度只接受绝对长度。
func pointsOnly(e Edges) Edges {
	keep := func(d Dimension) Dimension {
		if d.IsPoints() {
			return d
		}
		return Undefined
	}
	return Edges{Left: keep(e.Left), Right: keep(e.Right), Top: keep(e.Top), Bottom: keep(e.Bottom)}
}

func flexValue(d Dimension, allowAuto bool) flex.Value {
	switch d.Kind {
	case DimPoints:
		return flex.Value{Value: float32(d.Value), Unit: flex.UnitPoint}
	case DimPercent:
		return flex.Value{Value: float32(d.Value), Unit: flex.UnitPercent}
	case DimAuto:
		if allowAuto {
			return flex.Value{Value: flex.Undefined, Unit: flex.UnitAuto}
		}
	}
	return flex.Value{Value: flex.Undefined, Unit: flex.UnitUndefined}
}

var (
	flexDisplay  = [...]flex.Display{DisplayFlex: flex.DisplayFlex, DisplayNone: flex.DisplayNone}
	flexPosition = [...]flex.PositionType{
		PositionRelative: flex.PositionTypeRelative,
		PositionAbsolute: flex.PositionTypeAbsolute,
	}
	flexDirection = [...]flex.FlexDirection{
		DirectionRow:           flex.FlexDirectionRow,
		DirectionColumn:        flex.FlexDirectionColumn,
		DirectionRowReverse:    flex.FlexDirectionRowReverse,
		DirectionColumnReverse: flex.FlexDirectionColumnReverse,
	}
	flexWrap  = [...]flex.Wrap{NoWrap: flex.WrapNoWrap, Wrap: flex.WrapWrap, WrapReverse: flex.WrapWrapReverse}
	flexAlign = [...]flex.Align{
		AlignAuto:         flex.AlignAuto,
		AlignFlexStart:    flex.AlignFlexStart,
		AlignFlexEnd:      flex.AlignFlexEnd,
		AlignCenter:       flex.AlignCenter,
		AlignBaseline:     flex.AlignBaseline,
		AlignStretch:      flex.AlignStretch,
		AlignSpaceBetween: flex.AlignSpaceBetween,
		AlignSpaceAround:  flex.AlignSpaceAround,
	}
	flexJustify = [...]flex.Justify{
		JustifyFlexStart:    flex.JustifyFlexStart,
		JustifyFlexEnd:      flex.JustifyFlexEnd,
		JustifyCenter:       flex.JustifyCenter,
		JustifySpaceBetween: flex.JustifySpaceBetween,
		JustifySpaceAround:  flex.JustifySpaceAround,
	}
)
