package parser

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const fence = "```"

// Unfence returns the body of the first fenced code block in content when
// content itself starts with a fence, as chat UIs tend to copy it. Anything
// else is returned unchanged with ok set to false.
func Unfence(content string) (string, bool) {
	trimmed := strings.TrimLeft(content, " \t\r\n")
	if !strings.HasPrefix(trimmed, fence) && !strings.HasPrefix(trimmed, "~~~") {
		return content, false
	}

	source := []byte(trimmed)
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	var body string
	found := false
	walker := func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || found {
			return ast.WalkContinue, nil
		}
		block, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		var buf bytes.Buffer
		lines := block.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(source))
		}
		body = buf.String()
		found = true
		return ast.WalkStop, nil
	}
	if err := ast.Walk(root, walker); err != nil || !found {
		return content, false
	}
	return body, true
}
