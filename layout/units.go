package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit records the unit a length was written in.
type Unit int

const (
	UnitNone Unit = iota // 无单位数字，长度上下文按 mm 处理
	UnitMM
	UnitCM
	UnitIN
	UnitPT
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

func (u Unit) String() string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// ToMM converts the length to millimetres; unit-less numbers are taken as mm.
func (l Length) ToMM() float64 {
	switch l.Unit {
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * 25.4
	case UnitPT:
		return l.Value * PtToMm
	default:
		return l.Value
	}
}

// ToPT converts the length to points; unit-less numbers are taken as pt.
func (l Length) ToPT() float64 {
	switch l.Unit {
	case UnitNone, UnitPT:
		return l.Value
	default:
		return l.ToMM() * MmToPt
	}
}

var unitSuffixes = []struct {
	suffix string
	unit   Unit
}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}}

// ParseLength parses "12", "12mm", "1.5cm", "1in" or "10pt".
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	num := v
	for _, s := range unitSuffixes {
		if strings.HasSuffix(v, s.suffix) {
			unit = s.unit
			num = strings.TrimSpace(strings.TrimSuffix(v, s.suffix))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("长度 %q 无法解析", value)
	}
	return Length{Value: f, Unit: unit}, nil
}

// ParseDimension accepts a length, a percentage such as "50%", or "auto".
func ParseDimension(value string) (Dimension, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch {
	case v == "auto":
		return Auto, nil
	case strings.HasSuffix(v, "%"):
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(v, "%")), 64)
		if err != nil {
			return Undefined, fmt.Errorf("百分比 %q 无法解析", value)
		}
		return Percent(f), nil
	}
	l, err := ParseLength(v)
	if err != nil {
		return Undefined, err
	}
	return Points(l.ToMM()), nil
}

// ParseFontLength parses a font size or line height and returns points.
func ParseFontLength(value string) (float64, error) {
	l, err := ParseLength(value)
	if err != nil {
		return 0, err
	}
	return l.ToPT(), nil
}
