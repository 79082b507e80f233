package layout

import (
	"fmt"
	"strconv"
)

// DimensionKind 区分未定义、自动、绝对长度与百分比。
type DimensionKind uint8

const (
	DimUndefined DimensionKind = iota
	DimAuto
	DimPoints
	DimPercent
)

// Dimension is one axis value of the box model. Points are millimetres,
// Percent values are 0–100 of the parent's size on the relevant axis.
type Dimension struct {
	Kind  DimensionKind `json:"kind"`
	Value float64       `json:"value,omitempty"`
}

var (
	Undefined = Dimension{Kind: DimUndefined}
	Auto      = Dimension{Kind: DimAuto}
)

func Points(v float64) Dimension  { return Dimension{Kind: DimPoints, Value: v} }
func Percent(v float64) Dimension { return Dimension{Kind: DimPercent, Value: v} }

// IsPoints reports whether d is an absolute length.
func (d Dimension) IsPoints() bool { return d.Kind == DimPoints }

func (d Dimension) String() string {
	switch d.Kind {
	case DimAuto:
		return "auto"
	case DimPoints:
		return strconv.FormatFloat(d.Value, 'f', -1, 64) + "mm"
	case DimPercent:
		return strconv.FormatFloat(d.Value, 'f', -1, 64) + "%"
	default:
		return "undefined"
	}
}

func (d Dimension) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText reads the form written by MarshalText, so debug snapshots
// can be loaded back.
func (d *Dimension) UnmarshalText(text []byte) error {
	if string(text) == "undefined" {
		*d = Undefined
		return nil
	}
	v, err := ParseDimension(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Edges 保存四个方向的值，用于 position/margin/padding/border。
type Edges struct {
	Left   Dimension `json:"left"`
	Right  Dimension `json:"right"`
	Top    Dimension `json:"top"`
	Bottom Dimension `json:"bottom"`
}

// UniformEdges sets all four sides to d.
func UniformEdges(d Dimension) Edges {
	return Edges{Left: d, Right: d, Top: d, Bottom: d}
}

// Size holds a width/height pair. For Gap, Width is the column gap and Height
// the row gap.
type Size struct {
	Width  Dimension `json:"width"`
	Height Dimension `json:"height"`
}

type Display uint8

const (
	DisplayFlex Display = iota
	DisplayNone
)

type PositionType uint8

const (
	PositionRelative PositionType = iota
	PositionAbsolute
)

type FlexDirection uint8

const (
	DirectionRow FlexDirection = iota
	DirectionColumn
	DirectionRowReverse
	DirectionColumnReverse
)

// IsRow reports whether the main axis is horizontal.
func (d FlexDirection) IsRow() bool { return d == DirectionRow || d == DirectionRowReverse }

// IsReverse reports whether items flow from the trailing edge.
func (d FlexDirection) IsReverse() bool {
	return d == DirectionRowReverse || d == DirectionColumnReverse
}

type FlexWrap uint8

const (
	NoWrap FlexWrap = iota
	Wrap
	WrapReverse
)

// Align 同时用于 align-items、align-self 与 align-content。
type Align uint8

const (
	AlignAuto Align = iota
	AlignFlexStart
	AlignFlexEnd
	AlignCenter
	AlignBaseline
	AlignStretch
	AlignSpaceBetween
	AlignSpaceAround
)

type Justify uint8

const (
	JustifyFlexStart Justify = iota
	JustifyFlexEnd
	JustifyCenter
	JustifySpaceBetween
	JustifySpaceAround
)

// Box carries the box-model fields handed to the layout solver.
type Box struct {
	Display        Display       `json:"display"`
	PositionType   PositionType  `json:"positionType"`
	FlexDirection  FlexDirection `json:"flexDirection"`
	FlexWrap       FlexWrap      `json:"flexWrap"`
	AlignItems     Align         `json:"alignItems"`
	AlignSelf      Align         `json:"alignSelf"`
	AlignContent   Align         `json:"alignContent"`
	JustifyContent Justify       `json:"justifyContent"`
	Position       Edges         `json:"position"`
	Margin         Edges         `json:"margin"`
	Padding        Edges         `json:"padding"`
	Border         Edges         `json:"border"`
	Gap            Size          `json:"gap"`
	FlexGrow       float64       `json:"flexGrow"`
	FlexShrink     float64       `json:"flexShrink"`
	FlexBasis      Dimension     `json:"flexBasis"`
	Size           Size          `json:"size"`
	MinSize        Size          `json:"minSize"`
	MaxSize        Size          `json:"maxSize"`
	AspectRatio    float64       `json:"aspectRatio,omitempty"` // 0 表示未设置
}

// Style 在盒模型之外附加颜色与字体信息。颜色为 "#RRGGBB" 形式，空串表示不绘制。
// FontSize 与 LineHeight 以 pt 为单位。
type Style struct {
	Box
	BackgroundColor string  `json:"backgroundColor,omitempty"`
	BorderColor     string  `json:"borderColor,omitempty"`
	Color           string  `json:"color,omitempty"`
	FontFamily      string  `json:"fontFamily"`
	FontSize        float64 `json:"fontSize"`
	LineHeight      float64 `json:"lineHeight"`
}

const DefaultFontFamily = "default"

// DefaultStyle returns the style used for elements without a known style key.
func DefaultStyle() Style {
	return Style{
		Box: Box{
			Display:        DisplayFlex,
			PositionType:   PositionRelative,
			FlexDirection:  DirectionRow,
			FlexWrap:       NoWrap,
			AlignItems:     AlignStretch,
			AlignSelf:      AlignAuto,
			AlignContent:   AlignStretch,
			JustifyContent: JustifyFlexStart,
			FlexGrow:       0,
			FlexShrink:     1,
			FlexBasis:      Auto,
			Size:           Size{Width: Auto, Height: Auto},
			MinSize:        Size{Width: Auto, Height: Auto},
			MaxSize:        Size{Width: Auto, Height: Auto},
		},
		FontFamily: DefaultFontFamily,
		FontSize:   14,
		LineHeight: 16,
	}
}

var displayNames = map[string]Display{"flex": DisplayFlex, "none": DisplayNone}

var positionNames = map[string]PositionType{"relative": PositionRelative, "absolute": PositionAbsolute}

var directionNames = map[string]FlexDirection{
	"row":            DirectionRow,
	"column":         DirectionColumn,
	"row-reverse":    DirectionRowReverse,
	"column-reverse": DirectionColumnReverse,
}

var wrapNames = map[string]FlexWrap{"nowrap": NoWrap, "wrap": Wrap, "wrap-reverse": WrapReverse}

var alignNames = map[string]Align{
	"auto":          AlignAuto,
	"flex-start":    AlignFlexStart,
	"start":         AlignFlexStart,
	"flex-end":      AlignFlexEnd,
	"end":           AlignFlexEnd,
	"center":        AlignCenter,
	"baseline":      AlignBaseline,
	"stretch":       AlignStretch,
	"space-between": AlignSpaceBetween,
	"space-around":  AlignSpaceAround,
}

var justifyNames = map[string]Justify{
	"flex-start":    JustifyFlexStart,
	"start":         JustifyFlexStart,
	"flex-end":      JustifyFlexEnd,
	"end":           JustifyFlexEnd,
	"center":        JustifyCenter,
	"space-between": JustifySpaceBetween,
	"space-around":  JustifySpaceAround,
}

func lookupKeyword[T any](names map[string]T, value string) (T, error) {
	v, ok := names[value]
	if !ok {
		var zero T
		return zero, fmt.Errorf("未知取值 %q", value)
	}
	return v, nil
}
