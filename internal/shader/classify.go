package shader

import (
	"regexp"
	"strings"
)

var (
	shaderTypeDeclRE = regexp.MustCompile(`\bshader_type\s+(\w+)\s*;`)
	entryPointDeclRE = regexp.MustCompile(`\bvoid\s+(vertex|fragment|light|start|process|sky|fog)\s*\(`)
)

// Classify converts source text into a Document. It never fails: empty or
// malformed input yields a Document with no facts and no statements.
func Classify(src string) *Document {
	doc := &Document{
		ShaderType: firstCapture(shaderTypeDeclRE, src),
		EntryPoint: firstCapture(entryPointDeclRE, src),
	}

	lines := strings.Split(src, "\n")
	doc.Statements = make([]Statement, 0, len(lines))

	inBlock := false
	for i, raw := range lines {
		var (
			code string
			end  int
		)
		code, end, inBlock = stripComments(strings.TrimSuffix(raw, "\r"), inBlock)
		text := strings.TrimSpace(code)
		if text == "" {
			continue
		}
		requires, rule := ClassifyLine(text)
		doc.Statements = append(doc.Statements, Statement{
			Line:              i + 1,
			Text:              text,
			RequiresSemicolon: requires,
			EndsWithSemicolon: strings.HasSuffix(text, ";"),
			Rule:              rule,
			CodeEnd:           end,
		})
	}
	return doc
}

// firstCapture returns group 1 of the leftmost match, or "".
func firstCapture(re *regexp.Regexp, src string) string {
	m := re.FindStringSubmatch(src)
	if m == nil {
		return ""
	}
	return m[1]
}

// stripComments removes `//` and `/* */` comments from one line. inBlock is
// the block-comment state at the start of the line; the state at the end of
// the line is returned so a comment opened here closes on a later line.
// Comment markers inside double-quoted strings (`#include "res://..."`) are kept;
// a string left open runs to the end of the line.
// end is the offset in line just past the last non-blank code byte.
func stripComments(line string, inBlock bool) (code string, end int, stillIn bool) {
	if !inBlock && !strings.Contains(line, "/") {
		return line, len(strings.TrimRight(line, " \t")), false
	}

	var b strings.Builder
	b.Grow(len(line))
	keep := func(i int) {
		c := line[i]
		b.WriteByte(c)
		if c != ' ' && c != '\t' {
			end = i + 1
		}
	}
	inString := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if inBlock {
			if c == '*' && i+1 < len(line) && line[i+1] == '/' {
				inBlock = false
				i++
			}
			continue
		}
		if inString {
			keep(i)
			switch c {
			case '\\':
				if i+1 < len(line) {
					i++
					keep(i)
				}
			case '"':
				inString = false
			}
			continue
		}
		if c == '/' && i+1 < len(line) {
			switch line[i+1] {
			case '/':
				return b.String(), end, false
			case '*':
				inBlock = true
				i++
				continue
			}
		}
		if c == '"' {
			inString = true
		}
		keep(i)
	}
	return b.String(), end, inBlock
}
