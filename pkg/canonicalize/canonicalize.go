// Package canonicalize normalizes raw document and query text before it
// reaches an embedder or lexical backend: Unicode normalization, markdown
// stripping, code-block collapsing, low-signal line filtering, and a
// final length cap.
package canonicalize

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	defaultMaxTextLength  = 2000
	defaultQueryMaxLength = 500
	codeKeepHead          = 20
	codeKeepTail          = 10
	maxImportStreak       = 2
)

var (
	mdLinkRE    = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	mdHeadingRE = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	codeBlockRE = regexp.MustCompile("(?s)```[^\n]*\n(.*?)```")
	urlLineRE   = regexp.MustCompile(`(?m)^\s*https?://\S+\s*$`)
	importRE    = regexp.MustCompile(`(?m)^\s*(import |from \S+ import |use |#include |require\(|const .+ = require\()`)
)

// Text canonicalizes a raw document body: NFC normalize, strip markdown
// syntax, collapse long fenced code blocks, drop low-signal lines (bare
// URLs, import/include streaks beyond two lines), then truncate to
// maxLength characters. A maxLength of 0 uses the default of 2000.
func Text(text string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = defaultMaxTextLength
	}
	out := nfc(text)
	out = stripMarkdown(out)
	out = collapseCodeBlocks(out)
	out = filterLowSignal(out)
	return truncate(out, maxLength)
}

// Query canonicalizes a search query: NFC normalize, trim surrounding
// whitespace, then truncate. Queries skip markdown/code processing
// since they're rarely formatted prose. A maxLength of 0 uses the
// default of 500.
func Query(text string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = defaultQueryMaxLength
	}
	out := strings.TrimSpace(nfc(text))
	return truncate(out, maxLength)
}

func nfc(s string) string {
	return norm.NFC.String(s)
}

func stripMarkdown(s string) string {
	s = mdLinkRE.ReplaceAllString(s, "$1")
	s = stripEmphasis(s)
	s = mdHeadingRE.ReplaceAllString(s, "")
	return s
}

// stripEmphasis removes matching runs of 1-3 '*' or '_' characters that
// bracket a span of text, e.g. "**bold**" -> "bold", "_em_" -> "em".
// Go's RE2 engine has no backreferences, so the opening/closing run is
// matched by hand instead of the single-regex approach the original
// implementation uses.
func stripEmphasis(s string) string {
	var b strings.Builder
	i := 0
	for i < len(s) {
		c := s[i]
		if c != '*' && c != '_' {
			b.WriteByte(c)
			i++
			continue
		}
		runLen := 1
		for runLen < 3 && i+runLen < len(s) && s[i+runLen] == c {
			runLen++
		}
		marker := s[i : i+runLen]
		closeIdx := strings.Index(s[i+runLen:], marker)
		if closeIdx < 0 {
			b.WriteString(marker)
			i += runLen
			continue
		}
		inner := s[i+runLen : i+runLen+closeIdx]
		b.WriteString(stripEmphasis(inner))
		i = i + runLen + closeIdx + runLen
	}
	return b.String()
}

// collapseCodeBlocks replaces each fenced code block with just its body
// (the fence markers themselves are removed), shortening bodies over
// codeKeepHead+codeKeepTail lines to a head/tail sample with an
// omission marker in between.
func collapseCodeBlocks(s string) string {
	return codeBlockRE.ReplaceAllStringFunc(s, func(block string) string {
		idx := strings.IndexByte(block, '\n')
		if idx < 0 {
			return block
		}
		code := block[idx+1:]
		code = strings.TrimSuffix(code, "```")

		lines := strings.Split(strings.TrimSuffix(code, "\n"), "\n")
		if len(lines) <= codeKeepHead+codeKeepTail {
			return code
		}
		omitted := len(lines) - codeKeepHead - codeKeepTail
		head := lines[:codeKeepHead]
		tail := lines[len(lines)-codeKeepTail:]
		var b strings.Builder
		for _, l := range head {
			b.WriteString(l)
			b.WriteByte('\n')
		}
		b.WriteString("[... ")
		b.WriteString(strconv.Itoa(omitted))
		b.WriteString(" lines omitted ...]\n")
		for i, l := range tail {
			b.WriteString(l)
			if i < len(tail)-1 {
				b.WriteByte('\n')
			}
		}
		return b.String()
	})
}

func filterLowSignal(s string) string {
	s = urlLineRE.ReplaceAllString(s, "")
	lines := strings.Split(s, "\n")
	kept := make([]string, 0, len(lines))
	streak := 0
	for _, line := range lines {
		if importRE.MatchString(line) {
			streak++
			if streak > maxImportStreak {
				continue
			}
		} else {
			streak = 0
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func truncate(s string, maxLength int) string {
	r := []rune(s)
	if len(r) <= maxLength {
		return s
	}
	return string(r[:maxLength])
}
