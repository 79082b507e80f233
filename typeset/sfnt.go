package typeset

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Font 基于 golang.org/x/image/font/sfnt 读取 TrueType/OpenType 字形宽度。
// sfnt.Buffer 不能并发使用，因此查询由互斥锁保护并缓存结果。
type Font struct {
	f    *sfnt.Font
	upem sfnt.Units

	mu      sync.Mutex
	buf     sfnt.Buffer
	advance map[rune]float64
}

// ParseFont parses TTF/OTF bytes.
func ParseFont(data []byte) (*Font, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("解析字体失败: %w", err)
	}
	upem := f.UnitsPerEm()
	if upem == 0 {
		return nil, fmt.Errorf("解析字体失败: unitsPerEm 为 0")
	}
	return &Font{f: f, upem: upem, advance: map[rune]float64{}}, nil
}

func (f *Font) UnitsPerEm() float64 { return float64(f.upem) }

// Advance returns the advance width in font units. Runes without a glyph
// measure as the font's .notdef glyph.
func (f *Font) Advance(r rune) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.advance[r]; ok {
		return a
	}
	// ppem 等于 unitsPerEm 时，26.6 定点结果即为字体单位。
	ppem := fixed.Int26_6(f.upem) << 6
	idx, err := f.f.GlyphIndex(&f.buf, r)
	if err != nil {
		idx = 0
	}
	adv, err := f.f.GlyphAdvance(&f.buf, idx, ppem, font.HintingNone)
	if err != nil {
		f.advance[r] = 0
		return 0
	}
	a := float64(adv) / 64
	f.advance[r] = a
	return a
}

// Name returns the full font name when the font carries one.
func (f *Font) Name() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	name, err := f.f.Name(&f.buf, sfnt.NameIDFull)
	if err != nil {
		return ""
	}
	return name
}
