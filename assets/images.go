package assets

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ByLCY/folio/errs"
)

// Images maps image keys to decoded images.
type Images struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

func NewImages() *Images {
	return &Images{images: map[string]image.Image{}}
}

func (m *Images) Add(key string, img image.Image) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.images == nil {
		m.images = map[string]image.Image{}
	}
	m.images[key] = img
}

// Decode 解码 r（PNG/JPEG/GIF/BMP/TIFF/WebP）并以 key 注册。
func (m *Images) Decode(key string, r io.Reader) error {
	img, format, err := image.Decode(r)
	if err != nil {
		return fmt.Errorf("解码图片 %s 失败: %w", key, err)
	}
	if img.Bounds().Empty() {
		return fmt.Errorf("图片 %s (%s) 尺寸为空", key, format)
	}
	m.Add(key, img)
	return nil
}

// Get returns the image registered under key.
func (m *Images) Get(key string) (image.Image, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	img, ok := m.images[key]
	if !ok {
		return nil, errs.ImageAssetNotFound(key)
	}
	return img, nil
}
