// Package errs 定义解析、布局与渲染阶段共用的错误分类。
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Kind 对应错误的分类。
type Kind int

const (
	KindUnknown Kind = iota
	// 标记语法错误
	KindParse
	// 元素种类或属性不符合约定
	KindSchema
	// 字体/图片资源缺失
	KindResource
	// 页面尺寸未定义或布局求解失败
	KindLayout
	// 文本与子元素的组合不合法
	KindContent
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindSchema:
		return "schema"
	case KindResource:
		return "resource"
	case KindLayout:
		return "layout"
	case KindContent:
		return "content"
	default:
		return "unknown"
	}
}

// Sentinel codes. Match them with errors.Is.
var (
	ErrSyntax             = errors.New("markup syntax error")
	ErrNotSupportElement  = errors.New("element not supported here")
	ErrUnknownChild       = errors.New("unknown child element")
	ErrRequiredAttribute  = errors.New("required attribute missing")
	ErrImageAssetNotFound = errors.New("image asset not found")
	ErrFontAssetNotFound  = errors.New("font asset not found")
	ErrUndefinedPageSize  = errors.New("page size undefined")
	ErrSolver             = errors.New("layout solver failed")
	ErrInvalidChildren    = errors.New("invalid children")
)

// Error 携带分类、错误码以及出错的元素/键名。
type Error struct {
	Kind    Kind
	Code    error
	Element string // 出错元素名
	Key     string // 缺失的属性名或资源键
	Msg     string
	// 仅 KindParse 使用，1 起始
	Line, Column, Offset int
	Err                  error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&b, "%d:%d: ", e.Line, e.Column)
	}
	if e.Code != nil {
		b.WriteString(e.Code.Error())
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Element != "" {
		fmt.Fprintf(&b, " (element %q", e.Element)
		if e.Key != "" {
			fmt.Fprintf(&b, ", key %q", e.Key)
		}
		b.WriteString(")")
	} else if e.Key != "" {
		fmt.Fprintf(&b, " (key %q)", e.Key)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the code and the cause.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Code != nil {
		out = append(out, e.Code)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// KindOf 返回错误链中第一个 *Error 的分类。
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Syntax 构造带位置的语法错误。
func Syntax(line, column, offset int, format string, args ...any) *Error {
	return &Error{
		Kind:   KindParse,
		Code:   ErrSyntax,
		Msg:    fmt.Sprintf(format, args...),
		Line:   line,
		Column: column,
		Offset: offset,
	}
}

// NotSupportElement 表示在固定位置上出现了错误的元素种类。
func NotSupportElement(got, want string) *Error {
	return &Error{Kind: KindSchema, Code: ErrNotSupportElement, Element: got, Msg: fmt.Sprintf("expected <%s>", want)}
}

func UnknownChild(name string) *Error {
	return &Error{Kind: KindSchema, Code: ErrUnknownChild, Element: name}
}

func RequiredAttribute(element, attr string) *Error {
	return &Error{Kind: KindSchema, Code: ErrRequiredAttribute, Element: element, Key: attr}
}

func ImageAssetNotFound(key string) *Error {
	return &Error{Kind: KindResource, Code: ErrImageAssetNotFound, Key: key}
}

func FontAssetNotFound(key string) *Error {
	return &Error{Kind: KindResource, Code: ErrFontAssetNotFound, Key: key}
}

func UndefinedPageSize(element string) *Error {
	return &Error{Kind: KindLayout, Code: ErrUndefinedPageSize, Element: element}
}

// Solver 包装布局求解器返回的错误。
func Solver(cause error) *Error {
	return &Error{Kind: KindLayout, Code: ErrSolver, Err: cause}
}

func InvalidChildren(element string) *Error {
	return &Error{Kind: KindContent, Code: ErrInvalidChildren, Element: element}
}
