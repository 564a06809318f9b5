// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatkit-tui/internal/ui/styles"
)

// =============================================================================
// CODE FENCE RENDERING
// =============================================================================

// RenderCodeFences replaces ``` fenced blocks in a message body with
// highlighted, boxed code. Text outside fences passes through untouched.
func RenderCodeFences(text string, maxWidth int) string {
	lines := strings.Split(text, "\n")
	var result []string
	var fence []string
	var language string
	inFence := false

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "```"):
			if inFence {
				result = append(result, renderFence(language, strings.Join(fence, "\n"), maxWidth))
				fence = nil
				language = ""
				inFence = false
			} else {
				language = strings.TrimSpace(strings.TrimPrefix(line, "```"))
				inFence = true
			}
		case inFence:
			fence = append(fence, line)
		default:
			result = append(result, line)
		}
	}

	// An unclosed fence still renders as code.
	if inFence && len(fence) > 0 {
		result = append(result, renderFence(language, strings.Join(fence, "\n"), maxWidth))
	}

	return strings.Join(result, "\n")
}

func renderFence(language, code string, maxWidth int) string {
	code = strings.TrimRight(code, "\n")

	var header string
	if language != "" {
		header = lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Bold(true).
			Render(language) + "\n"
	}

	if maxWidth < 24 {
		maxWidth = 24
	}

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Overlay).
		Padding(0, 1).
		MaxWidth(maxWidth)

	return box.Render(header + Highlight(code, language))
}

// Highlight applies terminal syntax highlighting. Unknown or undetectable
// languages come back as plain text.
func Highlight(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return strings.TrimRight(buf.String(), "\n")
}

// RenderInlineCode styles `inline code` runs in a message body.
func RenderInlineCode(text string) string {
	codeStyle := lipgloss.NewStyle().
		Background(styles.SurfaceBright).
		Foreground(styles.Cyan)

	var result strings.Builder
	var code strings.Builder
	inCode := false

	for _, r := range text {
		switch {
		case r == '`':
			if inCode {
				result.WriteString(codeStyle.Render(code.String()))
				code.Reset()
			}
			inCode = !inCode
		case inCode:
			code.WriteRune(r)
		default:
			result.WriteRune(r)
		}
	}

	if inCode {
		result.WriteString("`")
		result.WriteString(code.String())
	}

	return result.String()
}
