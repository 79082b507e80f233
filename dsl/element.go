package dsl

import (
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ByLCY/folio/errs"
)

// Element is a parsed markup node.
type Element struct {
	Name       string            `json:"name"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Children   Children          `json:"children"`
	Pos        lexer.Position    `json:"-"`
}

// Children is either Text or Elements, never both.
type Children interface {
	isChildren()
}

// Text is the children variant of an element holding a raw text run.
type Text string

// Elements is the children variant of an element holding nested elements.
type Elements []*Element

func (Text) isChildren()     {}
func (Elements) isChildren() {}

// Text 返回文本内容；当子节点为元素列表时 ok 为 false。
func (e *Element) Text() (string, bool) {
	switch c := e.Children.(type) {
	case nil:
		return "", true
	case Text:
		return string(c), true
	default:
		return "", false
	}
}

// Elements 返回子元素；当子节点为文本时 ok 为 false。
func (e *Element) Elements() ([]*Element, bool) {
	if c, ok := e.Children.(Elements); ok {
		return c, true
	}
	return nil, false
}

// Attr looks up an attribute.
func (e *Element) Attr(key string) (string, bool) {
	v, ok := e.Attributes[key]
	return v, ok
}

// AttrOr returns the attribute or def when absent.
func (e *Element) AttrOr(key, def string) string {
	if v, ok := e.Attributes[key]; ok {
		return v
	}
	return def
}

// RequiredAttr 读取必填属性，缺失时返回 RequiredAttribute 错误。
func (e *Element) RequiredAttr(key string) (string, error) {
	v, ok := e.Attributes[key]
	if !ok {
		return "", errs.RequiredAttribute(e.Name, key)
	}
	return v, nil
}

// ValidateName fails with NotSupportElement unless the element is named want.
func (e *Element) ValidateName(want string) error {
	if e.Name != want {
		return errs.NotSupportElement(e.Name, want)
	}
	return nil
}

// Walk visits e and its descendants in document order. Returning false from fn
// skips the children of that element.
func (e *Element) Walk(fn func(*Element) bool) {
	if !fn(e) {
		return
	}
	children, _ := e.Elements()
	for _, child := range children {
		child.Walk(fn)
	}
}
