package layout

import (
	"errors"
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"
)

// ErrUnknownProperty 表示样式表中出现了无法识别的属性名。
var ErrUnknownProperty = errors.New("unknown style property")

// PropertyError names the property that could not be applied.
type PropertyError struct {
	Key   string
	Value string
	Err   error
}

func (e *PropertyError) Error() string {
	return fmt.Sprintf("样式属性 %s=%q: %v", e.Key, e.Value, e.Err)
}

func (e *PropertyError) Unwrap() error { return e.Err }

// StyleFromProps builds a style from CSS-like properties on top of DefaultStyle.
func StyleFromProps(props map[string]string) (Style, error) {
	return ApplyProps(DefaultStyle(), props)
}

// ApplyProps 按属性名排序依次应用，保证简写与分项属性的覆盖顺序稳定：
// 简写（如 margin）总是先于分项（如 margin-top）。
func ApplyProps(base Style, props map[string]string) (Style, error) {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		si, sj := isShorthand(keys[i]), isShorthand(keys[j])
		if si != sj {
			return si
		}
		return keys[i] < keys[j]
	})

	style := base
	for _, key := range keys {
		value := strings.TrimSpace(props[key])
		if err := applyProp(&style, key, value); err != nil {
			return Style{}, &PropertyError{Key: key, Value: value, Err: err}
		}
	}
	return style, nil
}

func isShorthand(key string) bool {
	switch key {
	case "margin", "padding", "border", "position", "gap":
		return true
	}
	return false
}

func applyProp(s *Style, key, value string) error {
	var err error
	switch key {
	case "display":
		s.Display, err = lookupKeyword(displayNames, value)
	case "position-type":
		s.PositionType, err = lookupKeyword(positionNames, value)
	case "flex-direction":
		s.FlexDirection, err = lookupKeyword(directionNames, value)
	case "flex-wrap":
		s.FlexWrap, err = lookupKeyword(wrapNames, value)
	case "align-items":
		s.AlignItems, err = lookupKeyword(alignNames, value)
	case "align-self":
		s.AlignSelf, err = lookupKeyword(alignNames, value)
	case "align-content":
		s.AlignContent, err = lookupKeyword(alignNames, value)
	case "justify-content":
		s.JustifyContent, err = lookupKeyword(justifyNames, value)
	case "flex-grow":
		s.FlexGrow, err = parseNonNegative(value)
	case "flex-shrink":
		s.FlexShrink, err = parseNonNegative(value)
	case "flex-basis":
		s.FlexBasis, err = ParseDimension(value)
	case "width":
		s.Size.Width, err = ParseDimension(value)
	case "height":
		s.Size.Height, err = ParseDimension(value)
	case "min-width":
		s.MinSize.Width, err = ParseDimension(value)
	case "min-height":
		s.MinSize.Height, err = ParseDimension(value)
	case "max-width":
		s.MaxSize.Width, err = ParseDimension(value)
	case "max-height":
		s.MaxSize.Height, err = ParseDimension(value)
	case "aspect-ratio":
		s.AspectRatio, err = parseRatio(value)
	case "gap":
		s.Gap, err = parseGap(value)
	case "row-gap":
		s.Gap.Height, err = ParseDimension(value)
	case "column-gap":
		s.Gap.Width, err = ParseDimension(value)
	case "margin":
		s.Margin, err = parseEdges(value)
	case "padding":
		s.Padding, err = parseEdges(value)
	case "border":
		s.Border, err = parseEdges(value)
	case "position":
		s.Position, err = parseEdges(value)
	case "background-color":
		s.BackgroundColor, err = normalizeColor(value)
	case "border-color":
		s.BorderColor, err = normalizeColor(value)
	case "color":
		s.Color, err = normalizeColor(value)
	case "font-family":
		if value == "" {
			return fmt.Errorf("字体名为空")
		}
		s.FontFamily = value
	case "font-size":
		s.FontSize, err = ParseFontLength(value)
	case "line-height":
		s.LineHeight, err = ParseFontLength(value)
	default:
		return applySideProp(s, key, value)
	}
	return err
}

// applySideProp 处理 margin-top、padding-left 之类的分项属性。
func applySideProp(s *Style, key, value string) error {
	prop, side, ok := strings.Cut(key, "-")
	if !ok {
		return ErrUnknownProperty
	}
	var edges *Edges
	switch prop {
	case "margin":
		edges = &s.Margin
	case "padding":
		edges = &s.Padding
	case "border":
		edges = &s.Border
	case "position":
		edges = &s.Position
	default:
		return ErrUnknownProperty
	}
	d, err := ParseDimension(value)
	if err != nil {
		return err
	}
	switch side {
	case "top":
		edges.Top = d
	case "right":
		edges.Right = d
	case "bottom":
		edges.Bottom = d
	case "left":
		edges.Left = d
	default:
		return ErrUnknownProperty
	}
	return nil
}

// parseEdges 支持 CSS 的 1–4 值简写：上 右 下 左。
func parseEdges(value string) (Edges, error) {
	parts := strings.Fields(value)
	dims := make([]Dimension, 0, len(parts))
	for _, p := range parts {
		d, err := ParseDimension(p)
		if err != nil {
			return Edges{}, err
		}
		dims = append(dims, d)
	}
	switch len(dims) {
	case 1:
		return UniformEdges(dims[0]), nil
	case 2:
		return Edges{Top: dims[0], Bottom: dims[0], Left: dims[1], Right: dims[1]}, nil
	case 3:
		return Edges{Top: dims[0], Left: dims[1], Right: dims[1], Bottom: dims[2]}, nil
	case 4:
		return Edges{Top: dims[0], Right: dims[1], Bottom: dims[2], Left: dims[3]}, nil
	default:
		return Edges{}, fmt.Errorf("需要 1 到 4 个取值，实际 %d 个", len(dims))
	}
}

// parseGap: "row column" or a single value for both.
func parseGap(value string) (Size, error) {
	parts := strings.Fields(value)
	if len(parts) == 0 || len(parts) > 2 {
		return Size{}, fmt.Errorf("需要 1 或 2 个取值，实际 %d 个", len(parts))
	}
	row, err := ParseDimension(parts[0])
	if err != nil {
		return Size{}, err
	}
	col := row
	if len(parts) == 2 {
		if col, err = ParseDimension(parts[1]); err != nil {
			return Size{}, err
		}
	}
	return Size{Width: col, Height: row}, nil
}

func parseNonNegative(value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("数字 %q 无法解析", value)
	}
	if f < 0 {
		return 0, fmt.Errorf("不能为负数")
	}
	return f, nil
}

// parseRatio accepts "1.5" or "16/9".
func parseRatio(value string) (float64, error) {
	if num, den, ok := strings.Cut(value, "/"); ok {
		n, err := parseNonNegative(strings.TrimSpace(num))
		if err != nil {
			return 0, err
		}
		d, err := parseNonNegative(strings.TrimSpace(den))
		if err != nil {
			return 0, err
		}
		if d == 0 {
			return 0, fmt.Errorf("分母为 0")
		}
		return n / d, nil
	}
	return parseNonNegative(value)
}

func normalizeColor(value string) (string, error) {
	c, err := ParseHexColor(value)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B), nil
}

// ParseHexColor parses "#RGB", "#RRGGBB" or "#RRGGBBAA". Alpha is dropped.
func ParseHexColor(value string) (color.RGBA, error) {
	hex, ok := strings.CutPrefix(strings.TrimSpace(value), "#")
	if !ok {
		return color.RGBA{}, fmt.Errorf("颜色值 %s 需要以 # 开头", value)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	var rgb [3]uint8
	for i := range rgb {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("颜色值 %s 无法解析", value)
		}
		rgb[i] = uint8(v)
	}
	return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xff}, nil
}

// ColorOrBlack 解析颜色，失败时退回黑色。
func ColorOrBlack(value string) color.RGBA {
	c, err := ParseHexColor(value)
	if err != nil {
		return color.RGBA{A: 0xff}
	}
	return c
}
