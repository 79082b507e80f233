package canvasrenderer

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/renderer"
)

func TestSaveWritesPDF(t *testing.T) {
	doc := New("测试文档")
	font, err := doc.EmbedFont("Body", goregular.TTF)
	if err != nil {
		t.Fatalf("EmbedFont error: %v", err)
	}

	for i := 0; i < 2; i++ {
		page, err := doc.AddPage(210, 297)
		if err != nil {
			t.Fatalf("AddPage error: %v", err)
		}
		l := page.AddLayer()
		l.FillRect(layout.BottomLeftRect{X: 10, Y: 10, Width: 50, Height: 20}, color.RGBA{R: 200, A: 255})
		l.DrawText(renderer.TextRun{Text: "Hello", X: 15, Y: 280, Font: font, Size: 14})

		img := image.NewRGBA(image.Rect(0, 0, 30, 20))
		l.DrawImage(img, 20, 100, 2, 300)
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("输出不是 PDF: %q", buf.Bytes()[:min(16, buf.Len())])
	}
}

func TestSaveWithoutPagesWritesBlankPDF(t *testing.T) {
	var buf bytes.Buffer
	if err := New("空").Save(&buf); err != nil {
		t.Fatalf("空文档应当可以保存: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("输出不是 PDF")
	}
}

func TestEmbedFontRejectsGarbage(t *testing.T) {
	if _, err := New("x").EmbedFont("Bad", []byte("not a font")); err == nil {
		t.Fatalf("无效字体数据应当报错")
	}
}

func TestAddPageRejectsEmptySize(t *testing.T) {
	if _, err := New("x").AddPage(0, 297); err == nil {
		t.Fatalf("零宽页面应当报错")
	}
}
