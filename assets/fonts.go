package assets

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ByLCY/folio/errs"
	"github.com/ByLCY/folio/renderer"
	"github.com/ByLCY/folio/typeset"
)

// Font is a registered font: parsed metrics plus the handle returned by the
// document writer once the font has been embedded.
type Font struct {
	Key     string
	Metrics *typeset.Font
	Handle  renderer.FontHandle

	data []byte
}

// Fonts maps font family keys to font data.
type Fonts struct {
	mu    sync.RWMutex
	fonts map[string]*Font
}

func NewFonts() *Fonts {
	return &Fonts{fonts: map[string]*Font{}}
}

// Add parses data and registers it under key. Metrics are available right
// away; the font is embedded into a document by Prepare.
func (f *Fonts) Add(key string, data []byte) error {
	metrics, err := typeset.ParseFont(data)
	if err != nil {
		return fmt.Errorf("字体 %s: %w", key, err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fonts == nil {
		f.fonts = map[string]*Font{}
	}
	f.fonts[key] = &Font{Key: key, Metrics: metrics, data: data}
	return nil
}

// Prepare embeds every registered font into doc, in key order.
func (f *Fonts) Prepare(doc renderer.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.fonts))
	for k := range f.fonts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		font := f.fonts[k]
		h, err := doc.EmbedFont(k, font.data)
		if err != nil {
			return fmt.Errorf("嵌入字体 %s 失败: %w", k, err)
		}
		font.Handle = h
	}
	return nil
}

// Get returns a copy of the font registered under key. Handle is empty until
// Prepare has run.
func (f *Fonts) Get(key string) (*Font, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	font, ok := f.fonts[key]
	if !ok {
		return nil, errs.FontAssetNotFound(key)
	}
	cp := *font
	return &cp, nil
}

func (f *Fonts) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.fonts)
}
