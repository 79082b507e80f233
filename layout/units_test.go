package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		back := pt * PtToMm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt back=%g diff=%g", pt, back, diff)
		}
	}
}

// TestParseLengthUnits 覆盖常见单位到 mm 的换算，无单位按 mm 处理。
func TestParseLengthUnits(t *testing.T) {
	cases := map[string]float64{
		"12":     12,
		"12mm":   12,
		"2.54cm": 25.4,
		"1in":    25.4,
		"10pt":   10 * PtToMm,
		" 3MM ":  3,
	}
	for in, want := range cases {
		l, err := ParseLength(in)
		if err != nil {
			t.Fatalf("%q 解析失败: %v", in, err)
		}
		if got := l.ToMM(); math.Abs(got-want) > 1e-9 {
			t.Fatalf("%q 转 mm 期望 %g，实际 %g", in, want, got)
		}
	}
	for _, bad := range []string{"", "mm", "abc", "1.2.3pt"} {
		if _, err := ParseLength(bad); err == nil {
			t.Fatalf("%q 应当解析失败", bad)
		}
	}
}

func TestParseDimensionKinds(t *testing.T) {
	cases := map[string]Dimension{
		"auto":  Auto,
		"50%":   Percent(50),
		"1cm":   Points(10),
		"0":     Points(0),
		" 25 %": Percent(25),
	}
	for in, want := range cases {
		got, err := ParseDimension(in)
		if err != nil {
			t.Fatalf("%q 解析失败: %v", in, err)
		}
		if got.Kind != want.Kind || math.Abs(got.Value-want.Value) > 1e-9 {
			t.Fatalf("%q 期望 %v，实际 %v", in, want, got)
		}
	}
}

// TestFontLengthDefaultsToPoints 字号与行高的无单位数字按 pt 理解。
func TestFontLengthDefaultsToPoints(t *testing.T) {
	if got, _ := ParseFontLength("12"); got != 12 {
		t.Fatalf("期望 12pt，实际 %g", got)
	}
	got, err := ParseFontLength("1in")
	if err != nil || math.Abs(got-72) > 1e-3 {
		t.Fatalf("1in 期望约 72pt，实际 %g (%v)", got, err)
	}
}

func TestDimensionTextRoundTrip(t *testing.T) {
	for _, d := range []Dimension{Undefined, Auto, Points(12.5), Percent(40)} {
		text, err := d.MarshalText()
		if err != nil {
			t.Fatalf("%v 编码失败: %v", d, err)
		}
		var back Dimension
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("%s 解码失败: %v", text, err)
		}
		if back != d {
			t.Fatalf("往返后 %v 变为 %v", d, back)
		}
	}
}
