package dsl

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ByLCY/folio/errs"
)

var (
	// 内容状态只区分文本与标签起始；标签内部切换到 Tag 状态。
	markupLexer = lexer.MustStateful(lexer.Rules{
		"Root": {
			{Name: "CloseOpen", Pattern: `</`, Action: lexer.Push("Tag")},
			{Name: "Open", Pattern: `<`, Action: lexer.Push("Tag")},
			{Name: "Text", Pattern: `[^<]+`},
		},
		"Tag": {
			{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
			{Name: "SelfClose", Pattern: `/>`, Action: lexer.Pop()},
			{Name: "End", Pattern: `>`, Action: lexer.Pop()},
			{Name: "Ident", Pattern: `[A-Za-z][A-Za-z0-9]*`},
			{Name: "Assign", Pattern: `=`},
			{Name: "String", Pattern: `"[A-Za-z0-9-]*"`},
		},
	})

	markupParser = participle.MustBuild[markupFile](
		participle.Lexer(markupLexer),
		participle.Elide("Whitespace"),
	)
)

// markupFile is the raw grammar of a document: one root element, optionally
// surrounded by whitespace. Anything captured in Trailing is rejected later so
// the error can name the second root.
type markupFile struct {
	Leading  *markupText    `parser:"@@?"`
	Root     *markupElement `parser:"@@"`
	Trailing []*markupNode  `parser:"@@*"`
}

type markupText struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Value string         `parser:"@Text"`
}

type markupNode struct {
	Text    *markupText    `parser:"  @@"`
	Element *markupElement `parser:"| @@"`
}

// markupElement tries the self-closing form first, then the paired form.
type markupElement struct {
	Pos        lexer.Position     `parser:"" json:"-"`
	Name       string             `parser:"Open @Ident"`
	Attributes []*markupAttribute `parser:"@@*"`
	SelfClose  bool               `parser:"( @SelfClose"`
	Content    []*markupNode      `parser:"| End @@*"`
	Close      *markupClose       `parser:"  @@ )"`
}

type markupClose struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Name string         `parser:"CloseOpen @Ident End"`
}

type markupAttribute struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident Assign"`
	Value string         `parser:"@String"`
}

// Parse parses markup from an io.Reader.
func Parse(r io.Reader) (*Element, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("读取标记内容失败: %w", err)
	}
	return ParseString(string(data))
}

// ParseString parses markup held in a string and returns its single root.
func ParseString(input string) (*Element, error) {
	if strings.TrimSpace(input) == "" {
		return nil, errs.Syntax(1, 1, 0, "empty document")
	}
	file, err := markupParser.ParseString("", input)
	if err != nil {
		return nil, syntaxError(err)
	}
	if file.Leading != nil && !isBlank(file.Leading.Value) {
		return nil, syntaxAt(file.Leading.Pos, "root must be an element, found text %q", abbreviate(file.Leading.Value))
	}
	for _, node := range file.Trailing {
		if node.Element != nil {
			return nil, syntaxAt(node.Element.Pos, "multiple root elements: <%s> after the root closed", node.Element.Name)
		}
		if !isBlank(node.Text.Value) {
			return nil, syntaxAt(node.Text.Pos, "trailing data after the root element: %q", abbreviate(node.Text.Value))
		}
	}
	return convertElement(file.Root)
}

func convertElement(m *markupElement) (*Element, error) {
	el := &Element{
		Name:       m.Name,
		Attributes: make(map[string]string, len(m.Attributes)),
		Pos:        m.Pos,
	}
	for _, attr := range m.Attributes {
		el.Attributes[attr.Key] = strings.Trim(attr.Value, `"`)
	}
	if m.SelfClose {
		el.Children = Text("")
		return el, nil
	}
	if m.Close == nil {
		return nil, syntaxAt(m.Pos, "element <%s> is not closed", m.Name)
	}
	if m.Close.Name != m.Name {
		return nil, syntaxAt(m.Close.Pos, "closing tag </%s> does not match <%s>", m.Close.Name, m.Name)
	}
	children, err := convertChildren(m)
	if err != nil {
		return nil, err
	}
	el.Children = children
	return el, nil
}

// convertChildren 实现“要么全是文本，要么全是元素”的约束：
// 元素之间的纯空白被忽略，其余文本与元素混排则报错。
func convertChildren(m *markupElement) (Children, error) {
	var (
		elements  Elements
		text      strings.Builder
		firstText *markupText
	)
	for _, node := range m.Content {
		if node.Element != nil {
			child, err := convertElement(node.Element)
			if err != nil {
				return nil, err
			}
			elements = append(elements, child)
			continue
		}
		text.WriteString(node.Text.Value)
		if firstText == nil && !isBlank(node.Text.Value) {
			firstText = node.Text
		}
	}
	if len(elements) == 0 {
		return Text(text.String()), nil
	}
	if firstText != nil {
		return nil, syntaxAt(firstText.Pos, "element <%s> mixes text and child elements", m.Name)
	}
	return elements, nil
}

func syntaxError(err error) error {
	var perr participle.Error
	if errors.As(err, &perr) {
		pos := perr.Position()
		return errs.Syntax(pos.Line, pos.Column, pos.Offset, "%s", perr.Message())
	}
	return errs.Syntax(0, 0, 0, "%s", err.Error())
}

func syntaxAt(pos lexer.Position, format string, args ...any) error {
	return errs.Syntax(pos.Line, pos.Column, pos.Offset, format, args...)
}

func isBlank(s string) bool {
	return strings.TrimLeft(s, " \t\r\n") == ""
}

func abbreviate(s string) string {
	const limit = 24
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > limit {
		return string(r[:limit]) + "…"
	}
	return s
}
