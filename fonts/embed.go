// Package fonts 提供无需文件系统即可使用的内置字体。
package fonts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Prefix marks a font source as built in, e.g. "builtin:go-regular".
const Prefix = "builtin:"

var builtin = map[string][]byte{
	"go-regular":         goregular.TTF,
	"go-bold":            gobold.TTF,
	"go-italic":          goitalic.TTF,
	"go-bold-italic":     gobolditalic.TTF,
	"go-mono":            gomono.TTF,
	"latin-modern-roman": lmroman10regular.TTF,
	"latin-modern-bold":  lmroman10bold.TTF,
}

// IsBuiltin reports whether src names a built-in font.
func IsBuiltin(src string) bool {
	return strings.HasPrefix(src, Prefix)
}

// Load 返回内置字体的字节数据，name 可写为 "builtin:go-regular" 或 "go-regular"。
func Load(name string) ([]byte, error) {
	key := strings.TrimPrefix(name, Prefix)
	data, ok := builtin[key]
	if !ok {
		return nil, fmt.Errorf("内置字体 %s 不存在，可选: %s", key, strings.Join(Names(), ", "))
	}
	return data, nil
}

// Names lists built-in font names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for k := range builtin {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
