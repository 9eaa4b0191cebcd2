package textutil

import "strings"

var lineBreakEscaper = strings.NewReplacer("\r", `\r`, "\n", `\n`)

// EscapeLineBreaks turns CR and LF into the two-character sequences \r and \n
// so a value always fits on one comment line.
func EscapeLineBreaks(s string) string {
	return lineBreakEscaper.Replace(s)
}
