package fonts

import (
	"bytes"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestLoadBuiltin(t *testing.T) {
	for _, name := range []string{"builtin:go-regular", "go-regular"} {
		data, err := Load(name)
		if err != nil {
			t.Fatalf("加载 %s 失败: %v", name, err)
		}
		if !bytes.Equal(data, goregular.TTF) {
			t.Fatalf("%s 返回的字节不是 Go Regular", name)
		}
	}
	if _, err := Load("builtin:comic-sans"); err == nil {
		t.Fatalf("未知字体应返回错误")
	}
	for _, name := range Names() {
		if data, err := Load(name); err != nil || len(data) == 0 {
			t.Fatalf("内置字体 %s 无法加载: %v", name, err)
		}
	}
}
