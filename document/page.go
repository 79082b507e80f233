package document

import (
	"image"
	"strings"

	"github.com/ByLCY/folio/assets"
	"github.com/ByLCY/folio/binding"
	"github.com/ByLCY/folio/dsl"
	"github.com/ByLCY/folio/errs"
	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/typeset"
)

// Element names of the markup vocabulary.
const (
	ElementDocument = "Document"
	ElementPage     = "Page"
	ElementLayer    = "Layer"
	ElementText     = "Text"
	ElementImage    = "Image"

	// AttrTitle 与 AttrSrc 分别是 Document 的标题与 Image 的图片键。
	AttrTitle = "title"
	AttrSrc   = "src"

	// DefaultTitle is used when Document has no title attribute.
	DefaultTitle = "Untitled"
)

type kind int

const (
	kindLayer kind = iota
	kindText
	kindImage
)

func (k kind) String() string {
	switch k {
	case kindLayer:
		return ElementLayer
	case kindText:
		return ElementText
	case kindImage:
		return ElementImage
	default:
		return "unknown"
	}
}

// renderNode 是绘制前解析完成的节点：类型、资源与换好的行都已确定。
type renderNode struct {
	kind     kind
	node     *layout.Node
	children []*renderNode

	// Text
	fontKey string
	lines   []typeset.Line

	// Image
	image image.Image
}

// page is a validated page ready to be drawn.
type page struct {
	index  int
	tree   *layout.Tree
	width  float64
	height float64
	layers []*renderNode
}

// pageBuilder performs the per-page work that needs no document writer:
// layout, page size, node resolution and text wrapping.
type pageBuilder struct {
	set  *assets.Set
	opts options
}

func (b *pageBuilder) build(index int, el *dsl.Element) (*page, error) {
	if err := el.ValidateName(ElementPage); err != nil {
		return nil, err
	}
	builder := &layout.Builder{Styles: b.set.Styles, NewSolver: b.opts.newSolver, Logger: b.opts.logger}
	tree, err := builder.Build(el)
	if err != nil {
		return nil, err
	}
	width, height, err := tree.PageSize()
	if err != nil {
		return nil, err
	}

	p := &page{index: index, tree: tree, width: width, height: height}
	if err := requireNoText(el); err != nil {
		return nil, err
	}
	for _, child := range tree.Root.Children {
		if err := child.Element.ValidateName(ElementLayer); err != nil {
			return nil, err
		}
		rn, err := b.resolve(tree, child)
		if err != nil {
			return nil, err
		}
		p.layers = append(p.layers, rn)
	}
	return p, nil
}

// resolve maps a layout node onto the closed {Layer, Text, Image} set and
// checks the resources it needs.
func (b *pageBuilder) resolve(tree *layout.Tree, n *layout.Node) (*renderNode, error) {
	el := n.Element
	switch el.Name {
	case ElementLayer:
		if err := requireNoText(el); err != nil {
			return nil, err
		}
		rn := &renderNode{kind: kindLayer, node: n}
		for _, c := range n.Children {
			child, err := b.resolve(tree, c)
			if err != nil {
				return nil, err
			}
			rn.children = append(rn.children, child)
		}
		return rn, nil

	case ElementText:
		text, ok := el.Text()
		if !ok {
			return nil, errs.InvalidChildren(ElementText)
		}
		if b.opts.data != nil {
			text = binding.Interpolate(text, b.opts.data)
		}
		font, err := b.set.Fonts.Get(n.Style.FontFamily)
		if err != nil {
			return nil, err
		}
		// 换行宽度取节点求解后的宽度。
		local, err := tree.Local(n)
		if err != nil {
			return nil, err
		}
		return &renderNode{
			kind:    kindText,
			node:    n,
			fontKey: font.Key,
			lines:   typeset.WrapFont(text, local.Width, font.Metrics, n.Style.FontSize),
		}, nil

	case ElementImage:
		if err := requireNoText(el); err != nil {
			return nil, err
		}
		if children, _ := el.Elements(); len(children) > 0 {
			return nil, errs.InvalidChildren(ElementImage)
		}
		src, err := el.RequiredAttr(AttrSrc)
		if err != nil {
			return nil, err
		}
		img, err := b.set.Images.Get(src)
		if err != nil {
			return nil, err
		}
		return &renderNode{kind: kindImage, node: n, image: img}, nil

	default:
		return nil, errs.UnknownChild(el.Name)
	}
}

// requireNoText rejects container elements that carry non-blank text.
func requireNoText(el *dsl.Element) error {
	if text, ok := el.Text(); ok && strings.TrimSpace(text) != "" {
		return errs.InvalidChildren(el.Name)
	}
	return nil
}
