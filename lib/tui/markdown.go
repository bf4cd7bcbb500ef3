// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var (
	markdownParser     goldmark.Markdown
	markdownParserOnce sync.Once
)

func parser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParser = goldmark.New(goldmark.WithExtensions(extension.Strikethrough))
	})
	return markdownParser
}

// RenderMarkdown renders the subset of markdown the console's help
// text uses: headings, paragraphs, bullet and numbered lists,
// emphasis, code spans, fenced code blocks, and thematic breaks.
// Paragraphs reflow to width. The result is lines ready for a [Modal]
// body.
func RenderMarkdown(input string, theme Theme, width int) []string {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	width = max(width, 20)
	source := []byte(input)
	document := parser().Parser().Parse(text.NewReader(source))

	// Always styled: the output is only ever shown inside the TUI, and
	// auto-detection would strip color under tests.
	renderer := lipgloss.NewRenderer(io.Discard, termenv.WithProfile(termenv.ANSI256))
	renderer.SetColorProfile(termenv.ANSI256)

	md := &markdownRenderer{source: source, theme: theme, renderer: renderer}
	lines := md.blocks(document, width)
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

type markdownRenderer struct {
	source   []byte
	theme    Theme
	renderer *lipgloss.Renderer
}

func (md *markdownRenderer) style() lipgloss.Style {
	return md.renderer.NewStyle()
}

// blocks renders the block children of parent, separating blocks with
// a blank line.
func (md *markdownRenderer) blocks(parent ast.Node, width int) []string {
	var lines []string
	for node := parent.FirstChild(); node != nil; node = node.NextSibling() {
		rendered := md.block(node, width)
		if len(rendered) == 0 {
			continue
		}
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, rendered...)
	}
	return lines
}

func (md *markdownRenderer) block(node ast.Node, width int) []string {
	switch node := node.(type) {
	case *ast.Heading:
		style := md.style().Bold(true).Foreground(md.theme.AccentColor)
		if node.Level == 1 {
			style = style.Underline(true)
		}
		return []string{style.Render(md.plain(node))}

	case *ast.Paragraph, *ast.TextBlock:
		return md.wrap(md.inline(node), width)

	case *ast.List:
		return md.list(node, width)

	case *ast.FencedCodeBlock:
		return md.code(node, string(node.Language(md.source)))

	case *ast.CodeBlock:
		return md.code(node, "")

	case *ast.ThematicBreak:
		return []string{md.style().Foreground(md.theme.BorderColor).Render(strings.Repeat("─", width))}

	case *ast.Blockquote:
		bar := md.style().Foreground(md.theme.BorderColor).Render("│ ")
		inner := md.blocks(node, width-2)
		for index, line := range inner {
			inner[index] = bar + line
		}
		return inner
	}
	return nil
}

func (md *markdownRenderer) list(list *ast.List, width int) []string {
	var lines []string
	number := list.Start
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "• "
		if list.IsOrdered() {
			marker = strconv.Itoa(number) + ". "
			number++
		}
		indent := strings.Repeat(" ", len(marker))
		body := md.blocks(item, width-len(marker))
		if list.IsTight {
			body = dropBlank(body)
		}
		for index, line := range body {
			switch {
			case index == 0:
				line = md.style().Foreground(md.theme.FaintText).Render(marker) + line
			case line != "":
				line = indent + line
			}
			lines = append(lines, line)
		}
		if !list.IsTight && item.NextSibling() != nil {
			lines = append(lines, "")
		}
	}
	return lines
}

func dropBlank(lines []string) []string {
	kept := lines[:0]
	for _, line := range lines {
		if line != "" {
			kept = append(kept, line)
		}
	}
	return kept
}

func (md *markdownRenderer) code(node ast.Node, language string) []string {
	var buffer strings.Builder
	segments := node.Lines()
	for index := range segments.Len() {
		segment := segments.At(index)
		buffer.Write(segment.Value(md.source))
	}
	source := strings.TrimRight(buffer.String(), "\n")

	highlighted := md.style().Foreground(md.theme.FaintText).Render(source)
	if language != "" {
		var out strings.Builder
		if err := quick.Highlight(&out, source, language, "terminal256", "monokai"); err == nil {
			highlighted = strings.TrimRight(out.String(), "\n")
		}
	}
	lines := strings.Split(highlighted, "\n")
	for index, line := range lines {
		lines[index] = "  " + line
	}
	return lines
}

// inline renders the inline children of node as one styled string.
func (md *markdownRenderer) inline(node ast.Node) string {
	var out strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch child := child.(type) {
		case *ast.Text:
			out.WriteString(md.style().Foreground(md.theme.NormalText).Render(string(child.Segment.Value(md.source))))
			if child.SoftLineBreak() || child.HardLineBreak() {
				out.WriteString(" ")
			}
		case *ast.String:
			out.Write(child.Value)
		case *ast.CodeSpan:
			out.WriteString(md.style().Foreground(md.theme.AccentColor).Render(md.plain(child)))
		case *ast.Emphasis:
			style := md.style().Italic(true)
			if child.Level >= 2 {
				style = md.style().Bold(true).Foreground(md.theme.HeaderForeground)
			}
			out.WriteString(style.Render(md.plain(child)))
		case *extast.Strikethrough:
			out.WriteString(md.style().Strikethrough(true).Render(md.plain(child)))
		case *ast.Link:
			out.WriteString(md.style().Underline(true).Foreground(md.theme.AccentColor).Render(md.plain(child)))
		case *ast.AutoLink:
			out.WriteString(md.style().Underline(true).Foreground(md.theme.AccentColor).Render(string(child.URL(md.source))))
		default:
			out.WriteString(md.inline(child))
		}
	}
	return out.String()
}

// plain is the unstyled text of node's descendants.
func (md *markdownRenderer) plain(node ast.Node) string {
	var out strings.Builder
	_ = ast.Walk(node, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch child := child.(type) {
		case *ast.Text:
			out.Write(child.Segment.Value(md.source))
			if child.SoftLineBreak() {
				out.WriteString(" ")
			}
		case *ast.String:
			out.Write(child.Value)
		}
		return ast.WalkContinue, nil
	})
	return out.String()
}

func (md *markdownRenderer) wrap(styled string, width int) []string {
	wrapped := md.style().Width(width).Render(strings.TrimRight(styled, " "))
	lines := strings.Split(wrapped, "\n")
	for index, line := range lines {
		lines[index] = strings.TrimRight(line, " ")
	}
	return lines
}
