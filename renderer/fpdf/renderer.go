// Package fpdfrenderer 基于 codeberg.org/go-pdf/fpdf 实现文档写出器。
// fpdf 的页面坐标以左上角为原点，绘制前在这里把左下角坐标翻转回去。
package fpdfrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"

	"codeberg.org/go-pdf/fpdf"

	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/renderer"
)

// Document wraps one fpdf instance. fpdf is not safe for concurrent use, so
// every call goes through mu.
type Document struct {
	mu     sync.Mutex
	pdf    *fpdf.Fpdf
	fonts  map[renderer.FontHandle]bool
	pages  int
	images int
}

var (
	_ renderer.Document = (*Document)(nil)
	_ renderer.NewFunc  = New
)

// New creates an empty fpdf document measured in millimetres.
func New(title string) renderer.Document {
	pdf := fpdf.NewCustom(&fpdf.InitType{OrientationStr: "P", UnitStr: "mm", SizeStr: "A4"})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(title, true)
	pdf.SetCreator("folio", true)
	return &Document{pdf: pdf, fonts: map[renderer.FontHandle]bool{}}
}

func (d *Document) EmbedFont(key string, data []byte) (renderer.FontHandle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pdf.AddUTF8FontFromBytes(key, "", data)
	if d.pdf.Err() {
		return "", fmt.Errorf("加载字体 %s 失败: %w", key, d.pdf.Error())
	}
	h := renderer.FontHandle(key)
	d.fonts[h] = true
	return h, nil
}

func (d *Document) AddPage(width, height float64) (renderer.Page, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("页面尺寸无效: %gx%g", width, height)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pdf.AddPageFormat("P", fpdf.SizeType{Wd: width, Ht: height})
	if d.pdf.Err() {
		return nil, d.pdf.Error()
	}
	d.pages++
	return &page{doc: d, number: d.pdf.PageNo(), height: height}, nil
}

// Save writes the PDF. Errors raised by earlier drawing calls surface here.
// A document without pages gets one blank page.
func (d *Document) Save(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pages == 0 {
		d.pdf.AddPageFormat("P", fpdf.SizeType{Wd: renderer.BlankPageWidth, Ht: renderer.BlankPageHeight})
	}
	if err := d.pdf.Output(w); err != nil {
		return fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return nil
}

type page struct {
	doc    *Document
	number int
	height float64
}

func (p *page) AddLayer() renderer.Layer { return &layer{page: p} }

// layer 在 fpdf 中没有独立对象，只按调用顺序绘制到所属页面。
type layer struct {
	page *page
}

// with 切换到所属页面后执行 fn。
func (l *layer) with(fn func(pdf *fpdf.Fpdf, pageHeight float64)) {
	d := l.page.doc
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pdf.SetPage(l.page.number)
	fn(d.pdf, l.page.height)
}

func (l *layer) FillRect(r layout.BottomLeftRect, c color.Color) {
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	l.with(func(pdf *fpdf.Fpdf, pageHeight float64) {
		red, green, blue := rgb(c)
		pdf.SetFillColor(red, green, blue)
		pdf.Rect(r.X, pageHeight-r.Y-r.Height, r.Width, r.Height, "F")
	})
}

func (l *layer) DrawImage(img image.Image, x, y, scale, dpi float64) {
	if img == nil || scale <= 0 || dpi <= 0 {
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		l.with(func(pdf *fpdf.Fpdf, _ float64) { pdf.SetError(fmt.Errorf("编码图片失败: %w", err)) })
		return
	}
	w, h := renderer.ImageSize(img, scale, dpi)
	l.with(func(pdf *fpdf.Fpdf, pageHeight float64) {
		d := l.page.doc
		d.images++
		name := fmt.Sprintf("img-%d", d.images)
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, opts, &buf)
		pdf.ImageOptions(name, x, pageHeight-y-h, w, h, false, opts, 0, "")
	})
}

func (l *layer) DrawText(run renderer.TextRun) {
	if run.Text == "" {
		return
	}
	l.with(func(pdf *fpdf.Fpdf, pageHeight float64) {
		if !l.page.doc.fonts[run.Font] {
			return
		}
		red, green, blue := rgb(run.Color)
		pdf.SetTextColor(red, green, blue)
		pdf.SetFont(string(run.Font), "", run.Size)
		pdf.Text(run.X, pageHeight-run.Y, run.Text)
	})
}

func rgb(c color.Color) (int, int, int) {
	if c == nil {
		return 0, 0, 0
	}
	r, g, b, _ := c.RGBA()
	return int(r >> 8), int(g >> 8), int(b >> 8)
}
