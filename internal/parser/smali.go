package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// CommentIndent prefixes every inserted annotation line.
const CommentIndent = "    # "

// annotationPattern recognises the first line of a previously inserted block.
var annotationPattern = regexp.MustCompile(`^\s*# resource/[a-z]+: `)

// literalLoadPattern matches a `const vN, 0x...` instruction and captures the
// hex digits. Comment lines never match.
var literalLoadPattern = regexp.MustCompile(`^\s*const +v[0-9]+, *0x([a-fA-F0-9]+)`)

const maxLineSize = 4 * 1024 * 1024

// IsAnnotationMarker reports whether line starts an annotation block.
func IsAnnotationMarker(line string) bool {
	return annotationPattern.MatchString(line)
}

// MatchLiteralLoad extracts the operand of a literal-load instruction.
func MatchLiteralLoad(line string) (Literal, bool) {
	m := literalLoadPattern.FindStringSubmatch(line)
	if m == nil {
		return Literal{}, false
	}

	lit := Literal{Hex: m[1]}
	if v, err := strconv.ParseUint(m[1], 16, 32); err == nil {
		lit.Value = uint32(v)
		lit.Valid = true
	}
	return lit, true
}

// FormatAnnotation renders the marker line for a resolved resource.
func FormatAnnotation(resType, name string) string {
	return CommentIndent + "resource/" + resType + ": " + name
}

// FormatValue renders the value line. The value must already be single-line.
func FormatValue(value string) string {
	return CommentIndent + value
}

// ReadLines reads an instruction file and splits it into lines.
func ReadLines(filePath string) (*ParseResult, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open smali file: %w", err)
	}

	result := &ParseResult{
		FilePath: filePath,
		Raw:      raw,
	}

	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		result.RawLines = append(result.RawLines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan smali file: %w", err)
	}

	return result, nil
}

// Reconstruct joins lines back into file content, terminating every line with LF.
func Reconstruct(lines []string) []byte {
	if len(lines) == 0 {
		return []byte{}
	}
	return []byte(strings.Join(lines, "\n") + "\n")
}
