package assets

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"

	"github.com/ByLCY/folio/fonts"
)

// Set bundles the three registries a document is rendered against.
type Set struct {
	Styles *Styles
	Fonts  *Fonts
	Images *Images
}

func NewSet() *Set {
	return &Set{Styles: NewStyles(), Fonts: NewFonts(), Images: NewImages()}
}

// Loader 从文件系统读取资源，相对路径以 BaseDir 为根，"~" 展开为用户目录。
type Loader struct {
	BaseDir string
}

func (l Loader) resolve(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("展开路径 %s 失败: %w", path, err)
	}
	if !filepath.IsAbs(expanded) && l.BaseDir != "" {
		expanded = filepath.Join(l.BaseDir, expanded)
	}
	return expanded, nil
}

// ReadFont 读取字体数据；"builtin:" 前缀从内置字体加载。
func (l Loader) ReadFont(src string) ([]byte, error) {
	if fonts.IsBuiltin(src) {
		return fonts.Load(src)
	}
	path, err := l.resolve(src)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", src, err)
	}
	return data, nil
}

// LoadStyleSheet reads a YAML style sheet into set.Styles.
func (l Loader) LoadStyleSheet(set *Set, path string) error {
	resolved, err := l.resolve(path)
	if err != nil {
		return err
	}
	f, err := os.Open(resolved)
	if err != nil {
		return fmt.Errorf("读取样式表 %s 失败: %w", path, err)
	}
	defer f.Close()
	if err := set.Styles.LoadSheet(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// LoadFonts registers every key → source pair, in key order.
func (l Loader) LoadFonts(set *Set, sources map[string]string) error {
	for _, key := range sortedKeys(sources) {
		data, err := l.ReadFont(sources[key])
		if err != nil {
			return err
		}
		if err := set.Fonts.Add(key, data); err != nil {
			return err
		}
	}
	return nil
}

// LoadImages decodes every key → path pair, in key order.
func (l Loader) LoadImages(set *Set, sources map[string]string) error {
	for _, key := range sortedKeys(sources) {
		if err := l.loadImage(set, key, sources[key]); err != nil {
			return err
		}
	}
	return nil
}

func (l Loader) loadImage(set *Set, key, src string) error {
	path, err := l.resolve(src)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("读取图片 %s 失败: %w", src, err)
	}
	defer f.Close()
	return set.Images.Decode(key, f)
}
