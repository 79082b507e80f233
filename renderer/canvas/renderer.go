package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/renderer"
)

// Document draws pages via github.com/tdewolff/canvas and writes them as PDF.
type Document struct {
	title string

	mu       sync.Mutex
	pages    []*Page
	families map[renderer.FontHandle]*canvas.FontFamily
}

var (
	_ renderer.Document = (*Document)(nil)
	_ renderer.NewFunc  = New
)

// New creates an empty canvas-backed document.
func New(title string) renderer.Document {
	return &Document{
		title:    title,
		families: map[renderer.FontHandle]*canvas.FontFamily{},
	}
}

// EmbedFont loads the font into a dedicated family named after key.
func (d *Document) EmbedFont(key string, data []byte) (renderer.FontHandle, error) {
	family := canvas.NewFontFamily(key)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return "", fmt.Errorf("加载字体 %s 失败: %w", key, err)
	}
	handle := renderer.FontHandle(key)
	d.mu.Lock()
	d.families[handle] = family
	d.mu.Unlock()
	return handle, nil
}

// AddPage appends a page. The canvas keeps its default Cartesian system, so
// the bottom-left coordinates of the primitives are used as is.
func (d *Document) AddPage(width, height float64) (renderer.Page, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("页面尺寸无效: %gx%g", width, height)
	}
	c := canvas.New(width, height)
	p := &Page{doc: d, canvas: c, ctx: canvas.NewContext(c)}
	d.mu.Lock()
	d.pages = append(d.pages, p)
	d.mu.Unlock()
	return p, nil
}

// Save renders every page into a single PDF stream. A document without
// pages is written as one blank page.
func (d *Document) Save(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	width, height := renderer.BlankPageWidth, renderer.BlankPageHeight
	if len(d.pages) > 0 {
		width, height = d.pages[0].canvas.W, d.pages[0].canvas.H
	}
	writer := pdf.New(w, width, height, nil)
	writer.SetInfo(d.title, "", "", "", "folio")
	for i, page := range d.pages {
		if i > 0 {
			writer.NewPage(page.canvas.W, page.canvas.H)
		}
		page.canvas.RenderTo(writer)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return nil
}

func (d *Document) family(h renderer.FontHandle) *canvas.FontFamily {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.families[h]
}

// Page wraps one canvas. Layers share its context and paint in call order.
type Page struct {
	doc    *Document
	canvas *canvas.Canvas
	ctx    *canvas.Context
	layers int
}

func (p *Page) AddLayer() renderer.Layer {
	p.layers++
	return &layer{page: p}
}

type layer struct {
	page *Page
}

func (l *layer) FillRect(r layout.BottomLeftRect, c color.Color) {
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	ctx := l.page.ctx
	ctx.SetFillColor(c)
	ctx.SetStrokeColor(canvas.Transparent)
	ctx.DrawPath(r.X, r.Y, canvas.Rectangle(r.Width, r.Height))
}

func (l *layer) DrawImage(img image.Image, x, y, scale, dpi float64) {
	if img == nil || scale <= 0 || dpi <= 0 {
		return
	}
	// 自然尺寸为 px/dpi 英寸，再乘 scale；折算成 canvas 的每毫米像素数。
	dpmm := dpi / 25.4 / scale
	l.page.ctx.DrawImage(x, y, img, canvas.DPMM(dpmm))
}

func (l *layer) DrawText(run renderer.TextRun) {
	if run.Text == "" {
		return
	}
	family := l.page.doc.family(run.Font)
	if family == nil {
		return
	}
	col := run.Color
	if col == nil {
		col = canvas.Black
	}
	face := family.Face(run.Size, col, canvas.FontRegular, canvas.FontNormal)
	l.page.ctx.DrawText(run.X, run.Y, canvas.NewTextLine(face, run.Text, canvas.Left))
}
