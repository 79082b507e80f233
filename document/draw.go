package document

import (
	"image/color"

	"github.com/ByLCY/folio/assets"
	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/renderer"
)

// ImageDPI is the resolution at which image pixels map to millimetres.
const ImageDPI = 300.0

func drawPage(doc renderer.Document, set *assets.Set, p *page) error {
	out, err := doc.AddPage(p.width, p.height)
	if err != nil {
		return err
	}
	pageRect, err := p.tree.AbsoluteRect(p.tree.Root, nil)
	if err != nil {
		return err
	}
	d := &drawer{page: out, tree: p.tree, set: set}
	for _, rn := range p.layers {
		if err := d.draw(rn, &pageRect); err != nil {
			return err
		}
	}
	return nil
}

type drawer struct {
	page renderer.Page
	tree *layout.Tree
	set  *assets.Set
}

// draw 先求出节点的绝对矩形，再按类型绘制；Layer 的子节点按文档顺序绘制，即绘制顺序。
func (d *drawer) draw(rn *renderNode, parent *layout.Rect) error {
	abs, err := d.tree.AbsoluteRect(rn.node, parent)
	if err != nil {
		return err
	}
	switch rn.kind {
	case kindLayer:
		l := d.page.AddLayer()
		if err := d.paintBox(l, rn.node.Style, abs); err != nil {
			return err
		}
		for _, c := range rn.children {
			if err := d.draw(c, &abs); err != nil {
				return err
			}
		}
		return nil
	case kindText:
		var l renderer.Layer
		if rn.node.Style.BackgroundColor != "" {
			l = d.page.AddLayer()
		}
		if err := d.paintBox(l, rn.node.Style, abs); err != nil {
			return err
		}
		return d.drawText(rn, abs)
	default:
		return d.drawImage(rn, abs)
	}
}

// paintBox 绘制背景与边框。背景画在 l 上；每条边框各占一个图层，
// 左右边框为整高、上下边框为整宽。
func (d *drawer) paintBox(l renderer.Layer, style layout.Style, abs layout.Rect) error {
	if style.BackgroundColor == "" && style.BorderColor == "" {
		return nil
	}
	r, err := d.tree.BottomLeft(abs)
	if err != nil {
		return err
	}
	if style.BackgroundColor != "" && l != nil {
		l.FillRect(r, layout.ColorOrBlack(style.BackgroundColor))
	}
	if style.BorderColor == "" {
		return nil
	}
	c := layout.ColorOrBlack(style.BorderColor)
	for _, edge := range borderRects(r, style.Border) {
		d.page.AddLayer().FillRect(edge, c)
	}
	return nil
}

// borderRects returns the filled rectangles for every side whose thickness
// is an absolute length greater than zero, in left, right, bottom, top order.
func borderRects(r layout.BottomLeftRect, border layout.Edges) []layout.BottomLeftRect {
	var out []layout.BottomLeftRect
	if w, ok := thickness(border.Left); ok {
		out = append(out, layout.BottomLeftRect{X: r.X, Y: r.Y, Width: w, Height: r.Height})
	}
	if w, ok := thickness(border.Right); ok {
		out = append(out, layout.BottomLeftRect{X: r.X + r.Width - w, Y: r.Y, Width: w, Height: r.Height})
	}
	if h, ok := thickness(border.Bottom); ok {
		out = append(out, layout.BottomLeftRect{X: r.X, Y: r.Y, Width: r.Width, Height: h})
	}
	if h, ok := thickness(border.Top); ok {
		out = append(out, layout.BottomLeftRect{X: r.X, Y: r.Y + r.Height - h, Width: r.Width, Height: h})
	}
	return out
}

func thickness(d layout.Dimension) (float64, bool) {
	if !d.IsPoints() || d.Value <= 0 {
		return 0, false
	}
	return d.Value, true
}

// drawText 从盒子顶部开始：第一行基线位于顶部向下一个字号高度处，之后每行下移一个行高。
// 超出盒子的行不裁剪。
func (d *drawer) drawText(rn *renderNode, abs layout.Rect) error {
	style := rn.node.Style
	font, err := d.set.Fonts.Get(rn.fontKey)
	if err != nil {
		return err
	}
	head := abs
	head.Height = style.FontSize * layout.PtToMm
	cursor, err := d.tree.BottomLeft(head)
	if err != nil {
		return err
	}

	var col color.Color = layout.ColorOrBlack(style.Color)
	lineHeight := style.LineHeight * layout.PtToMm
	l := d.page.AddLayer()
	for i, line := range rn.lines {
		if line.Text == "" {
			continue
		}
		l.DrawText(renderer.TextRun{
			Text:  line.Text,
			X:     cursor.X,
			Y:     cursor.Y - float64(i)*lineHeight,
			Font:  font.Handle,
			Size:  style.FontSize,
			Color: col,
		})
	}
	return nil
}

// drawImage 按较小轴的比例等比缩放（信箱模式），图片贴盒子顶部放置。
func (d *drawer) drawImage(rn *renderNode, abs layout.Rect) error {
	scale, height := imageScale(rn.image.Bounds().Dx(), rn.image.Bounds().Dy(), abs)
	r := abs
	r.Height = height
	bl, err := d.tree.BottomLeft(r)
	if err != nil {
		return err
	}
	d.page.AddLayer().DrawImage(rn.image, bl.X, bl.Y, scale, ImageDPI)
	return nil
}

// imageScale returns min(w/iw, h/ih) for the image's intrinsic size at
// ImageDPI, and the drawn height ih*scale.
func imageScale(px, py int, box layout.Rect) (scale, height float64) {
	iw := float64(px) / ImageDPI * 25.4
	ih := float64(py) / ImageDPI * 25.4
	if iw <= 0 || ih <= 0 {
		return 0, 0
	}
	scale = min(box.Width/iw, box.Height/ih)
	return scale, ih * scale
}
