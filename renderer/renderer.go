package renderer

import (
	"image"
	"image/color"
	"io"

	"github.com/ByLCY/folio/layout"
)

// 没有任何页面的文档保存为一张 A4 空白页，PDF 的页面树不能为空。
const (
	BlankPageWidth  = 210.0
	BlankPageHeight = 297.0
)

// FontHandle 是 EmbedFont 返回的字体引用，绘制文本时原样传回写出器。
type FontHandle string

// TextRun 是一行已换好行的文本。X/Y 为基线左端点，单位 mm，左下角坐标系；
// Size 单位为 pt。
type TextRun struct {
	Text  string
	X     float64
	Y     float64
	Font  FontHandle
	Size  float64
	Color color.Color
}

// Document 是 PDF 等输出格式的写出器。所有坐标均为页面绝对、左下角为原点的毫米值。
type Document interface {
	// EmbedFont 注册字体数据，key 在同一文档内唯一。
	EmbedFont(key string, data []byte) (FontHandle, error)
	// AddPage 追加一页；调用方保证按文档顺序串行调用。
	AddPage(width, height float64) (Page, error)
	// Save 将整个文档写入 w。
	Save(w io.Writer) error
}

// Page 是文档中的一页。
type Page interface {
	AddLayer() Layer
}

// Layer 按调用顺序绘制，后绘制的内容覆盖先绘制的内容。
type Layer interface {
	FillRect(r layout.BottomLeftRect, c color.Color)
	// DrawImage 以 (x, y) 为左下角绘制图片；图片在 dpi 下的自然尺寸再乘以 scale。
	DrawImage(img image.Image, x, y, scale, dpi float64)
	DrawText(run TextRun)
}

// NewFunc 创建一个带标题的空文档。
type NewFunc func(title string) Document

// ImageSize 返回图片在给定 dpi 与缩放比例下的绘制尺寸（mm）。
func ImageSize(img image.Image, scale, dpi float64) (width, height float64) {
	b := img.Bounds()
	return float64(b.Dx()) / dpi * 25.4 * scale, float64(b.Dy()) / dpi * 25.4 * scale
}
