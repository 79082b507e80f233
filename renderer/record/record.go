// Package record 提供一个只记录绘制调用的文档写出器，输出为 JSON 轨迹。
// 测试用它断言绘制顺序与坐标，命令行的 trace 后端也使用它。
package record

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	json "github.com/json-iterator/go"

	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/renderer"
)

// Op kinds.
const (
	OpFillRect  = "fill-rect"
	OpDrawImage = "draw-image"
	OpDrawText  = "draw-text"
)

// Op is one recorded primitive.
type Op struct {
	Kind  string                 `json:"op"`
	Layer int                    `json:"layer"`
	Rect  *layout.BottomLeftRect `json:"rect,omitempty"`
	Color string                 `json:"color,omitempty"`

	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`

	Scale       float64 `json:"scale,omitempty"`
	DPI         float64 `json:"dpi,omitempty"`
	ImageWidth  int     `json:"imageWidth,omitempty"`
	ImageHeight int     `json:"imageHeight,omitempty"`

	Font string  `json:"font,omitempty"`
	Size float64 `json:"size,omitempty"`
	Text string  `json:"text,omitempty"`
}

// PageTrace 是单页的记录。
type PageTrace struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Layers int     `json:"layers"`
	Ops    []Op    `json:"ops"`
}

// Trace 是整个文档的记录。
type Trace struct {
	Title string      `json:"title"`
	Fonts []string    `json:"fonts"`
	Pages []PageTrace `json:"pages"`
}

// Document records every call made against it.
type Document struct {
	mu    sync.Mutex
	trace Trace
}

var (
	_ renderer.Document = (*Document)(nil)
	_ renderer.NewFunc  = New
)

// New creates an empty recording document.
func New(title string) renderer.Document { return NewDocument(title) }

// NewDocument is New with the concrete type, for callers that need Trace.
func NewDocument(title string) *Document {
	return &Document{trace: Trace{Title: title, Fonts: []string{}, Pages: []PageTrace{}}}
}

func (d *Document) EmbedFont(key string, data []byte) (renderer.FontHandle, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("字体 %s 数据为空", key)
	}
	d.mu.Lock()
	d.trace.Fonts = append(d.trace.Fonts, key)
	d.mu.Unlock()
	return renderer.FontHandle(key), nil
}

func (d *Document) AddPage(width, height float64) (renderer.Page, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("页面尺寸无效: %gx%g", width, height)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.trace.Pages = append(d.trace.Pages, PageTrace{Width: width, Height: height, Ops: []Op{}})
	return &page{doc: d, index: len(d.trace.Pages) - 1}, nil
}

// Save writes the trace as indented JSON.
func (d *Document) Save(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	data, err := json.MarshalIndent(d.trace, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化绘制轨迹失败: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// Trace returns a deep copy of what has been recorded so far.
func (d *Document) Trace() Trace {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := Trace{Title: d.trace.Title, Fonts: append([]string(nil), d.trace.Fonts...)}
	for _, p := range d.trace.Pages {
		p.Ops = append([]Op(nil), p.Ops...)
		out.Pages = append(out.Pages, p)
	}
	return out
}

func (d *Document) record(pageIndex int, op Op) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := &d.trace.Pages[pageIndex]
	p.Ops = append(p.Ops, op)
}

type page struct {
	doc   *Document
	index int
}

func (p *page) AddLayer() renderer.Layer {
	p.doc.mu.Lock()
	defer p.doc.mu.Unlock()
	tp := &p.doc.trace.Pages[p.index]
	tp.Layers++
	return &layer{page: p, index: tp.Layers - 1}
}

type layer struct {
	page  *page
	index int
}

func (l *layer) FillRect(r layout.BottomLeftRect, c color.Color) {
	l.page.doc.record(l.page.index, Op{Kind: OpFillRect, Layer: l.index, Rect: &r, Color: Hex(c)})
}

func (l *layer) DrawImage(img image.Image, x, y, scale, dpi float64) {
	op := Op{Kind: OpDrawImage, Layer: l.index, X: x, Y: y, Scale: scale, DPI: dpi}
	if img != nil {
		b := img.Bounds()
		op.ImageWidth, op.ImageHeight = b.Dx(), b.Dy()
	}
	l.page.doc.record(l.page.index, op)
}

func (l *layer) DrawText(run renderer.TextRun) {
	l.page.doc.record(l.page.index, Op{
		Kind:  OpDrawText,
		Layer: l.index,
		X:     run.X,
		Y:     run.Y,
		Font:  string(run.Font),
		Size:  run.Size,
		Text:  run.Text,
		Color: Hex(run.Color),
	})
}

// Hex formats c as #RRGGBB; nil is black.
func Hex(c color.Color) string {
	if c == nil {
		return "#000000"
	}
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02X%02X%02X", r>>8, g>>8, b>>8)
}
