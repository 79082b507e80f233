// Package document 将解析后的元素树渲染为分页文档。
//
// 渲染分两步：先为每一页求解布局、解析节点类型并检查资源（可并行），
// 全部成功后才创建写出器、嵌入字体并按文档顺序逐页绘制。
// 因此任何错误都不会产生部分输出。
package document

import (
	"bytes"
	"fmt"
	"io"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ByLCY/folio/assets"
	"github.com/ByLCY/folio/dsl"
	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/renderer"
)

// Build validates and draws root into a new document created by newDoc. The
// returned document has not been saved.
func Build(root *dsl.Element, set *assets.Set, newDoc renderer.NewFunc, opts ...Option) (renderer.Document, error) {
	o := newOptions(opts)
	if root == nil {
		return nil, fmt.Errorf("document: nil root element")
	}
	if set == nil {
		set = assets.NewSet()
	}
	if err := root.ValidateName(ElementDocument); err != nil {
		return nil, err
	}
	if err := requireNoText(root); err != nil {
		return nil, err
	}

	pages, err := buildPages(root, set, o)
	if err != nil {
		return nil, err
	}
	if o.debug != nil {
		snaps := make([]layout.PageSnapshot, 0, len(pages))
		for _, p := range pages {
			snap, err := p.tree.Snapshot(p.index, o.debugOpts)
			if err != nil {
				return nil, err
			}
			snaps = append(snaps, snap)
		}
		*o.debug = snaps
	}

	title := root.AttrOr(AttrTitle, DefaultTitle)
	doc := newDoc(title)
	if err := set.Fonts.Prepare(doc); err != nil {
		return nil, err
	}
	for _, p := range pages {
		if err := drawPage(doc, set, p); err != nil {
			return nil, fmt.Errorf("绘制第 %d 页失败: %w", p.index+1, err)
		}
		o.logger.Debug("page drawn",
			zap.Int("page", p.index),
			zap.Float64("width", p.width),
			zap.Float64("height", p.height),
			zap.Int("nodes", p.tree.Len()),
		)
	}
	o.logger.Debug("document built", zap.String("title", title), zap.Int("pages", len(pages)))
	return doc, nil
}

// Render builds the document and writes it to w. Nothing is written unless
// the whole document builds and serializes.
func Render(w io.Writer, root *dsl.Element, set *assets.Set, newDoc renderer.NewFunc, opts ...Option) error {
	doc, err := Build(root, set, newDoc, opts...)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return err
	}
	_, err = buf.WriteTo(w)
	return err
}

// buildPages runs the writer-independent phase for every Page child. When
// several pages fail, the error of the first page in document order wins.
func buildPages(root *dsl.Element, set *assets.Set, o options) ([]*page, error) {
	elements, _ := root.Elements()
	b := &pageBuilder{set: set, opts: o}
	pages := make([]*page, len(elements))

	if !o.parallel || len(elements) < 2 {
		for i, el := range elements {
			p, err := b.build(i, el)
			if err != nil {
				return nil, err
			}
			pages[i] = p
		}
		return pages, nil
	}

	pageErrs := make([]error, len(elements))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, el := range elements {
		g.Go(func() error {
			pages[i], pageErrs[i] = b.build(i, el)
			return nil
		})
	}
	_ = g.Wait()
	for _, err := range pageErrs {
		if err != nil {
			return nil, err
		}
	}
	return pages, nil
}
