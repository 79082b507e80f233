package assets

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ByLCY/folio/layout"
)

// ExtendsKey names the parent entry inside a style sheet entry.
const ExtendsKey = "extends"

// sheetEntry 是样式表中的一条原始样式，属性值尚未解析。
type sheetEntry struct {
	Extends string
	Props   map[string]string
}

// LoadSheet 读取 YAML 样式表并把解析后的样式注册到 s。
//
//	Page:
//	  width: 210mm
//	  height: 297mm
//	Title:
//	  extends: Body
//	  font-size: 20
//	  margin: [0, 0, 4, 0]
func (s *Styles) LoadSheet(r io.Reader) error {
	styles, err := ParseSheet(r)
	if err != nil {
		return err
	}
	for k, v := range styles {
		s.Add(k, v)
	}
	return nil
}

// ParseSheet decodes a YAML style sheet, resolves `extends` chains and
// converts every entry with layout.StyleFromProps.
func ParseSheet(r io.Reader) (map[string]layout.Style, error) {
	var raw map[string]map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
		return nil, fmt.Errorf("解析样式表失败: %w", err)
	}

	entries := make(map[string]sheetEntry, len(raw))
	for name, fields := range raw {
		entry := sheetEntry{Props: map[string]string{}}
		for k, v := range fields {
			str, err := scalarString(v)
			if err != nil {
				return nil, fmt.Errorf("样式 %s 的属性 %s: %w", name, k, err)
			}
			if k == ExtendsKey {
				entry.Extends = str
				continue
			}
			entry.Props[k] = str
		}
		entries[name] = entry
	}

	resolved, err := resolveEntries(entries)
	if err != nil {
		return nil, err
	}

	out := make(map[string]layout.Style, len(resolved))
	for _, name := range sortedKeys(resolved) {
		style, err := layout.StyleFromProps(resolved[name])
		if err != nil {
			return nil, fmt.Errorf("样式 %s: %w", name, err)
		}
		out[name] = style
	}
	return out, nil
}

// resolveEntries 按 extends 链合并属性，子样式覆盖父样式。
func resolveEntries(entries map[string]sheetEntry) (map[string]map[string]string, error) {
	resolved := map[string]map[string]string{}
	visiting := map[string]bool{}

	var dfs func(name string) (map[string]string, error)
	dfs = func(name string) (map[string]string, error) {
		if props, ok := resolved[name]; ok {
			return props, nil
		}
		entry, ok := entries[name]
		if !ok {
			return nil, fmt.Errorf("style %s 未定义", name)
		}
		if visiting[name] {
			return nil, fmt.Errorf("style 继承存在循环：%s", name)
		}
		visiting[name] = true

		props := map[string]string{}
		if entry.Extends != "" {
			parent, err := dfs(entry.Extends)
			if err != nil {
				return nil, err
			}
			for k, v := range parent {
				props[k] = v
			}
		}
		for k, v := range entry.Props {
			props[k] = v
		}
		resolved[name] = props
		delete(visiting, name)
		return props, nil
	}

	// 按名称顺序遍历，使错误信息稳定。
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := dfs(name); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

// scalarString flattens a YAML value to the property string form. Sequences
// become space separated lists, e.g. [1, 2] -> "1 2".
func scalarString(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case int:
		return strconv.Itoa(val), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(val), nil
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			s, err := scalarString(item)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, " "), nil
	default:
		return "", fmt.Errorf("不支持的值类型 %T", v)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
