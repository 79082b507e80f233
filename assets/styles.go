// Package assets 保存渲染一个文档所需的命名资源：样式、字体与图片。
// 注册表在渲染前填充，渲染期间只读。
package assets

import (
	"sort"
	"sync"

	"github.com/ByLCY/folio/layout"
)

// Styles maps style keys to resolved styles.
type Styles struct {
	mu     sync.RWMutex
	styles map[string]layout.Style
}

var _ layout.StyleSource = (*Styles)(nil)

func NewStyles() *Styles {
	return &Styles{styles: map[string]layout.Style{}}
}

// Add 注册或覆盖 key 对应的样式。
func (s *Styles) Add(key string, style layout.Style) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.styles == nil {
		s.styles = map[string]layout.Style{}
	}
	s.styles[key] = style
}

// Lookup returns the style registered under key.
func (s *Styles) Lookup(key string) (layout.Style, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	style, ok := s.styles[key]
	return style, ok
}

// Get returns the style for key, or layout.DefaultStyle() when key is unknown.
func (s *Styles) Get(key string) layout.Style {
	if style, ok := s.Lookup(key); ok {
		return style
	}
	return layout.DefaultStyle()
}

// Keys lists registered keys in sorted order.
func (s *Styles) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.styles))
	for k := range s.styles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
