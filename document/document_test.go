package document

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ByLCY/folio/assets"
	"github.com/ByLCY/folio/dsl"
	"github.com/ByLCY/folio/errs"
	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/renderer"
	canvasrenderer "github.com/ByLCY/folio/renderer/canvas"
	"github.com/ByLCY/folio/renderer/record"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testStyles = map[string]map[string]string{
	"page":   {"width": "210", "height": "297"},
	"layer":  {"flex-grow": "1", "padding": "15", "flex-direction": "column"},
	"title":  {"height": "10"},
	"narrow": {"width": "20", "height": "40"},
	"pic":    {"width": "50", "height": "50"},
	"boxed": {
		"flex-grow": "1", "background-color": "#FF0000",
		"border": "2", "border-color": "#0000FF",
	},
	"autoPage": {"height": "297"},
}

func newSet(t *testing.T) *assets.Set {
	t.Helper()
	set := assets.NewSet()
	for k, props := range testStyles {
		s, err := layout.StyleFromProps(props)
		require.NoError(t, err, k)
		set.Styles.Add(k, s)
	}
	require.NoError(t, set.Fonts.Add(layout.DefaultFontFamily, goregular.TTF))
	set.Images.Add("wide", image.NewRGBA(image.Rect(0, 0, 300, 150)))
	return set
}

func parse(t *testing.T, markup string) *dsl.Element {
	t.Helper()
	root, err := dsl.ParseString(markup)
	require.NoError(t, err)
	return root
}

func build(t *testing.T, markup string, opts ...Option) record.Trace {
	t.Helper()
	doc, err := Build(parse(t, markup), newSet(t), record.New, opts...)
	require.NoError(t, err)
	return doc.(*record.Document).Trace()
}

func buildErr(t *testing.T, markup string) error {
	t.Helper()
	_, err := Build(parse(t, markup), newSet(t), record.New)
	require.Error(t, err)
	return err
}

func TestEmptyPageHasNoDrawingCalls(t *testing.T) {
	tr := build(t, `<Document><Page style="page"/></Document>`)
	require.Len(t, tr.Pages, 1)
	assert.Equal(t, 210.0, tr.Pages[0].Width)
	assert.Equal(t, 297.0, tr.Pages[0].Height)
	assert.Empty(t, tr.Pages[0].Ops)
	assert.Equal(t, 0, tr.Pages[0].Layers)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, DefaultTitle, build(t, `<Document><Page style="page"/></Document>`).Title)
	assert.Equal(t, "Resume", build(t, `<Document title="Resume"><Page style="page"/></Document>`).Title)
}

func TestUnknownChildFailsWithoutOutput(t *testing.T) {
	var out bytes.Buffer
	err := Render(&out, parse(t, `<Document><Page style="page"><Layer><Foo/></Layer></Page></Document>`), newSet(t), record.New)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrUnknownChild))
	var e *errs.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "Foo", e.Element)
	assert.Zero(t, out.Len(), "失败时不应产生任何输出")
}

func TestUndefinedPageSizeFailsBeforeWriter(t *testing.T) {
	var created atomic.Int32
	newDoc := func(title string) renderer.Document {
		created.Add(1)
		return record.New(title)
	}
	_, err := Build(parse(t, `<Document><Page style="page"/><Page style="autoPage"/></Document>`), newSet(t), newDoc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrUndefinedPageSize))
	assert.Equal(t, errs.KindLayout, errs.KindOf(err))
	assert.Zero(t, created.Load(), "页面尺寸错误应在创建写出器之前发现")
}

func TestValidationErrors(t *testing.T) {
	cases := []struct {
		name   string
		markup string
		want   error
		kind   errs.Kind
	}{
		{"root", `<Doc><Page style="page"/></Doc>`, errs.ErrNotSupportElement, errs.KindSchema},
		{"page child", `<Document><Page style="page"><Text>x</Text></Page></Document>`, errs.ErrNotSupportElement, errs.KindSchema},
		{"page name", `<Document><Sheet style="page"/></Document>`, errs.ErrNotSupportElement, errs.KindSchema},
		{"text elements", `<Document><Page style="page"><Layer><Text><Layer/></Text></Layer></Page></Document>`, errs.ErrInvalidChildren, errs.KindContent},
		{"layer text", `<Document><Page style="page"><Layer>words</Layer></Page></Document>`, errs.ErrInvalidChildren, errs.KindContent},
		{"image src", `<Document><Page style="page"><Layer><Image/></Layer></Page></Document>`, errs.ErrRequiredAttribute, errs.KindSchema},
		{"image asset", `<Document><Page style="page"><Layer><Image src="missing"/></Layer></Page></Document>`, errs.ErrImageAssetNotFound, errs.KindResource},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := buildErr(t, tc.markup)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
			assert.Equal(t, tc.kind, errs.KindOf(err))
		})
	}
}

func TestMissingFontFamily(t *testing.T) {
	set := newSet(t)
	s, err := layout.StyleFromProps(map[string]string{"font-family": "Serif"})
	require.NoError(t, err)
	set.Styles.Add("serif", s)

	_, err = Build(parse(t, `<Document><Page style="page"><Layer><Text style="serif">x</Text></Layer></Page></Document>`), set, record.New)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrFontAssetNotFound))
}

func TestTextBaselineAndWrapping(t *testing.T) {
	tr := build(t, `<Document><Page style="page"><Layer style="layer">`+
		`<Text style="title">Hello</Text>`+
		`<Text style="narrow">aaaa bbbb cccc dddd</Text>`+
		`</Layer></Page></Document>`)
	ops := textOps(tr.Pages[0].Ops)
	require.GreaterOrEqual(t, len(ops), 3)

	first := ops[0]
	assert.Equal(t, "Hello", first.Text)
	assert.InDelta(t, 15.0, first.X, 1e-6)
	assert.InDelta(t, 297-15-14*layout.PtToMm, first.Y, 1e-6, "首行基线位于顶部下方一个字号处")
	assert.Equal(t, 14.0, first.Size)
	assert.Equal(t, layout.DefaultFontFamily, first.Font)
	assert.Equal(t, "#000000", first.Color)

	wrapped := ops[1:]
	var joined strings.Builder
	for i, op := range wrapped {
		joined.WriteString(op.Text)
		assert.InDelta(t, 15.0, op.X, 1e-6)
		if i > 0 {
			assert.InDelta(t, 16*layout.PtToMm, wrapped[i-1].Y-op.Y, 1e-6, "行距为 line-height")
		}
	}
	assert.Equal(t, "aaaa bbbb cccc dddd", joined.String())
}

func TestLayerBackgroundAndBorders(t *testing.T) {
	tr := build(t, `<Document><Page style="page"><Layer style="boxed"/></Page></Document>`)
	p := tr.Pages[0]
	require.Len(t, p.Ops, 5)
	assert.Equal(t, 5, p.Layers)

	want := []layout.BottomLeftRect{
		{X: 0, Y: 0, Width: 210, Height: 297},
		{X: 0, Y: 0, Width: 2, Height: 297},
		{X: 208, Y: 0, Width: 2, Height: 297},
		{X: 0, Y: 0, Width: 210, Height: 2},
		{X: 0, Y: 295, Width: 210, Height: 2},
	}
	for i, op := range p.Ops {
		assert.Equal(t, record.OpFillRect, op.Kind)
		assert.InDelta(t, want[i].X, op.Rect.X, 1e-6)
		assert.InDelta(t, want[i].Y, op.Rect.Y, 1e-6)
		assert.InDelta(t, want[i].Width, op.Rect.Width, 1e-6)
		assert.InDelta(t, want[i].Height, op.Rect.Height, 1e-6)
	}
	assert.Equal(t, "#FF0000", p.Ops[0].Color)
	assert.Equal(t, "#0000FF", p.Ops[1].Color)
}

// Text 与 Layer 共用背景与边框绘制：背景、左右下上四条边框，最后才是文字。
func TestTextBackgroundAndBorders(t *testing.T) {
	tr := build(t, `<Document><Page style="page"><Layer style="layer"><Text style="boxed">Hi</Text></Layer></Page></Document>`)
	p := tr.Pages[0]
	require.Len(t, p.Ops, 6)
	assert.Equal(t, 7, p.Layers)

	want := []layout.BottomLeftRect{
		{X: 15, Y: 15, Width: 180, Height: 267},
		{X: 15, Y: 15, Width: 2, Height: 267},
		{X: 193, Y: 15, Width: 2, Height: 267},
		{X: 15, Y: 15, Width: 180, Height: 2},
		{X: 15, Y: 280, Width: 180, Height: 2},
	}
	for i, w := range want {
		op := p.Ops[i]
		assert.Equal(t, record.OpFillRect, op.Kind)
		assert.Equal(t, i+1, op.Layer)
		assert.InDelta(t, w.X, op.Rect.X, 1e-6)
		assert.InDelta(t, w.Y, op.Rect.Y, 1e-6)
		assert.InDelta(t, w.Width, op.Rect.Width, 1e-6)
		assert.InDelta(t, w.Height, op.Rect.Height, 1e-6)
	}
	assert.Equal(t, "#FF0000", p.Ops[0].Color)
	for _, op := range p.Ops[1:5] {
		assert.Equal(t, "#0000FF", op.Color)
	}

	text := p.Ops[5]
	assert.Equal(t, record.OpDrawText, text.Kind)
	assert.Equal(t, 6, text.Layer)
	assert.Equal(t, "Hi", text.Text)
	assert.InDelta(t, 15.0, text.X, 1e-6)
	assert.InDelta(t, 297-15-14*layout.PtToMm, text.Y, 1e-6)
}

func TestImageLetterboxedTopAligned(t *testing.T) {
	tr := build(t, `<Document><Page style="page"><Layer style="layer"><Image src="wide" style="pic"/></Layer></Page></Document>`)
	ops := tr.Pages[0].Ops
	require.Len(t, ops, 1)
	op := ops[0]
	assert.Equal(t, record.OpDrawImage, op.Kind)
	// 300x150 像素在 300 DPI 下为 25.4x12.7mm，放进 50x50 的盒子按宽度缩放。
	assert.InDelta(t, 50/25.4, op.Scale, 1e-9)
	assert.InDelta(t, 15.0, op.X, 1e-6)
	assert.InDelta(t, 297-15-25.0, op.Y, 1e-6)
	assert.Equal(t, ImageDPI, op.DPI)
	assert.Equal(t, 300, op.ImageWidth)
}

func TestImageScale(t *testing.T) {
	scale, h := imageScale(600, 300, layout.Rect{Width: 10, Height: 100})
	assert.InDelta(t, 10/50.8, scale, 1e-12)
	assert.InDelta(t, 25.4*scale, h, 1e-12)

	scale, h = imageScale(0, 10, layout.Rect{Width: 10, Height: 10})
	assert.Zero(t, scale)
	assert.Zero(t, h)
}

func TestDataBinding(t *testing.T) {
	data := map[string]any{"user": map[string]any{"name": "Ada"}}
	tr := build(t, `<Document><Page style="page"><Layer style="layer"><Text style="title">Hi ${user.name} ${missing}</Text></Layer></Page></Document>`, WithData(data))
	ops := textOps(tr.Pages[0].Ops)
	require.Len(t, ops, 1)
	assert.Equal(t, "Hi Ada ${missing}", ops[0].Text)
}

func multiPage(n int) string {
	var b strings.Builder
	b.WriteString(`<Document title="multi">`)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, `<Page style="page"><Layer style="layer"><Text style="title">page %d</Text><Image style="pic" src="wide"/></Layer></Page>`, i)
	}
	b.WriteString(`</Document>`)
	return b.String()
}

func render(t *testing.T, markup string, opts ...Option) []byte {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, Render(&out, parse(t, markup), newSet(t), record.New, opts...))
	return out.Bytes()
}

func TestDeterministicOutput(t *testing.T) {
	markup := multiPage(3)
	assert.Equal(t, render(t, markup), render(t, markup))

	a := render(t, `<Document><Page style="page"><Layer style="layer"><Image src="wide" style="pic"/></Layer></Page></Document>`)
	b := render(t, `<Document><Page style="page"><Layer style="layer"><Image style="pic" src="wide"/></Layer></Page></Document>`)
	assert.Equal(t, a, b, "属性顺序不影响输出")
}

func TestParallelMatchesSequential(t *testing.T) {
	markup := multiPage(8)
	assert.Equal(t, render(t, markup), render(t, markup, WithParallel(true)))
}

func TestParallelReportsFirstPageError(t *testing.T) {
	markup := `<Document>` +
		`<Page style="page"/>` +
		`<Page style="page"><Layer><Foo/></Layer></Page>` +
		`<Page style="autoPage"/>` +
		`</Document>`
	_, err := Build(parse(t, markup), newSet(t), record.New, WithParallel(true))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrUnknownChild), "按文档顺序报告第一个错误")
}

func TestLayoutSnapshots(t *testing.T) {
	var snaps []layout.PageSnapshot
	build(t, multiPage(2), WithLayoutSnapshots(&snaps, layout.DebugOptions{}))
	require.Len(t, snaps, 2)
	assert.Equal(t, 1, snaps[1].Index)
	assert.Equal(t, "Page", snaps[0].Root.Element)
	require.Len(t, snaps[0].Root.Children, 1)
	assert.InDelta(t, 15.0, snaps[0].Root.Children[0].Children[0].Absolute.X, 1e-6)
}

func TestCanvasWriterProducesPDF(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Render(&out, parse(t, multiPage(2)), newSet(t), canvasrenderer.New))
	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte("%PDF")))
}

// 没有 Page 的文档也能写出：记录为零页，PDF 写出器补一张空白页。
func TestDocumentWithoutPages(t *testing.T) {
	tr := build(t, `<Document title="Empty"/>`)
	assert.Equal(t, "Empty", tr.Title)
	assert.Empty(t, tr.Pages)

	var out bytes.Buffer
	require.NoError(t, Render(&out, parse(t, `<Document/>`), newSet(t), canvasrenderer.New))
	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte("%PDF")))
}

func textOps(ops []record.Op) []record.Op {
	var out []record.Op
	for _, op := range ops {
		if op.Kind == record.OpDrawText {
			out = append(out, op)
		}
	}
	return out
}
