package assets

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ByLCY/folio/errs"
	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/renderer/record"
)

func TestStylesGetFallsBackToDefault(t *testing.T) {
	s := NewStyles()
	custom := layout.DefaultStyle()
	custom.FontSize = 20
	s.Add("Title", custom)

	assert.Equal(t, custom, s.Get("Title"))
	assert.Equal(t, s.Get("Title"), s.Get("Title"), "重复查询结果一致")
	assert.Equal(t, layout.DefaultStyle(), s.Get("Missing"))
	_, ok := s.Lookup("Missing")
	assert.False(t, ok)
	assert.Equal(t, []string{"Title"}, s.Keys())
}

func TestZeroValueRegistriesAreUsable(t *testing.T) {
	var s Styles
	s.Add("A", layout.DefaultStyle())
	_, ok := s.Lookup("A")
	assert.True(t, ok)

	var m Images
	m.Add("px", image.NewGray(image.Rect(0, 0, 1, 1)))
	_, err := m.Get("px")
	assert.NoError(t, err)
}

func TestFontsPrepareEmbedsInKeyOrder(t *testing.T) {
	f := NewFonts()
	require.NoError(t, f.Add("b", goregular.TTF))
	require.NoError(t, f.Add("a", goregular.TTF))
	assert.Error(t, f.Add("bad", []byte("nope")))

	doc := record.NewDocument("fonts")
	require.NoError(t, f.Prepare(doc))
	assert.Equal(t, []string{"a", "b"}, doc.Trace().Fonts)

	font, err := f.Get("a")
	require.NoError(t, err)
	assert.EqualValues(t, "a", font.Handle)
	assert.Equal(t, 2048.0, font.Metrics.UnitsPerEm())

	_, err = f.Get("missing")
	assert.True(t, errors.Is(err, errs.ErrFontAssetNotFound))
	assert.Equal(t, errs.KindResource, errs.KindOf(err))
}

func TestImagesDecode(t *testing.T) {
	var buf bytes.Buffer
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.Set(0, 0, color.White)
	require.NoError(t, png.Encode(&buf, src))

	m := NewImages()
	require.NoError(t, m.Decode("logo", &buf))
	img, err := m.Get("logo")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())

	assert.Error(t, m.Decode("junk", strings.NewReader("not an image")))
	_, err = m.Get("junk")
	assert.True(t, errors.Is(err, errs.ErrImageAssetNotFound))
}

const sheet = `
Body:
  font-size: 12
  color: "#333333"
Title:
  extends: Body
  font-size: 20
  margin: [0, 0, 4, 0]
Page:
  width: 210mm
  height: 297mm
  padding: 1cm
`

func TestParseSheetResolvesExtends(t *testing.T) {
	styles, err := ParseSheet(strings.NewReader(sheet))
	require.NoError(t, err)
	require.Len(t, styles, 3)

	title := styles["Title"]
	assert.Equal(t, 20.0, title.FontSize, "子样式覆盖父样式")
	assert.Equal(t, "#333333", title.Color, "继承父样式的颜色")
	assert.Equal(t, layout.Points(4), title.Margin.Bottom)
	assert.Equal(t, layout.Points(0), title.Margin.Top)

	page := styles["Page"]
	assert.Equal(t, layout.Points(210), page.Size.Width)
	assert.Equal(t, layout.UniformEdges(layout.Points(10)), page.Padding)
}

func TestParseSheetErrors(t *testing.T) {
	cases := map[string]string{
		"cycle":          "A:\n  extends: B\nB:\n  extends: A\n",
		"unknown parent": "A:\n  extends: Missing\n",
		"bad property":   "A:\n  colour: \"#000\"\n",
		"bad value":      "A:\n  width: wide\n",
		"nested map":     "A:\n  margin:\n    top: 1\n",
		"not yaml":       "A: [",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSheet(strings.NewReader(input))
			assert.Error(t, err)
		})
	}

	_, err := ParseSheet(strings.NewReader("A:\n  colour: red\n"))
	assert.True(t, errors.Is(err, layout.ErrUnknownProperty))
}

func TestEmptySheet(t *testing.T) {
	styles, err := ParseSheet(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, styles)
}

func TestLoaderReadsFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "styles.yaml"), []byte(sheet), 0o644))

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logo.png"), buf.Bytes(), 0o644))

	set := NewSet()
	l := Loader{BaseDir: dir}
	require.NoError(t, l.LoadStyleSheet(set, "styles.yaml"))
	require.NoError(t, l.LoadFonts(set, map[string]string{"default": "builtin:go-regular"}))
	require.NoError(t, l.LoadImages(set, map[string]string{"logo": "logo.png"}))

	_, ok := set.Styles.Lookup("Title")
	assert.True(t, ok)
	assert.Equal(t, 1, set.Fonts.Len())
	_, err := set.Images.Get("logo")
	assert.NoError(t, err)

	assert.Error(t, l.LoadImages(set, map[string]string{"x": "missing.png"}))
	assert.Error(t, l.LoadFonts(set, map[string]string{"x": "builtin:no-such-font"}))
}
