package layout

import (
	"io"
	"os"

	json "github.com/json-iterator/go"
)

// NodeSnapshot 记录单个节点求解后的几何信息，用于调试输出。
type NodeSnapshot struct {
	Element  string         `json:"element"`
	Style    string         `json:"style,omitempty"`
	Local    LocalRect      `json:"local"`
	Absolute Rect           `json:"absolute"`
	Resolved *Style         `json:"resolved,omitempty"`
	Children []NodeSnapshot `json:"children,omitempty"`
}

// PageSnapshot 是一页的布局快照。
type PageSnapshot struct {
	Index  int          `json:"index"`
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	Root   NodeSnapshot `json:"root"`
}

// Snapshot captures local and absolute rectangles of the whole tree.
func (t *Tree) Snapshot(index int, opts DebugOptions) (PageSnapshot, error) {
	page := PageSnapshot{Index: index}
	if w, h, err := t.PageSize(); err == nil {
		page.Width, page.Height = w, h
	}
	var snap func(n *Node, parent *Rect) (NodeSnapshot, error)
	snap = func(n *Node, parent *Rect) (NodeSnapshot, error) {
		local, err := t.Local(n)
		if err != nil {
			return NodeSnapshot{}, err
		}
		abs, err := t.AbsoluteRect(n, parent)
		if err != nil {
			return NodeSnapshot{}, err
		}
		out := NodeSnapshot{Element: n.Element.Name, Style: n.Key, Local: local, Absolute: abs}
		if opts.ResolvedStyles {
			style := n.Style
			out.Resolved = &style
		}
		for _, c := range n.Children {
			cs, err := snap(c, &abs)
			if err != nil {
				return NodeSnapshot{}, err
			}
			out.Children = append(out.Children, cs)
		}
		return out, nil
	}
	root, err := snap(t.Root, nil)
	if err != nil {
		return PageSnapshot{}, err
	}
	page.Root = root
	return page, nil
}

// EncodeDebugJSON 将布局快照以缩进 JSON 写入 w。
func EncodeDebugJSON(w io.Writer, pages []PageSnapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(pages)
}

// WriteDebugJSON 将布局结果输出为 JSON 文件，便于调试或可视化。
func WriteDebugJSON(pages []PageSnapshot, path string) error {
	if len(pages) == 0 {
		return nil
	}
	data, err := json.MarshalIndent(pages, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
