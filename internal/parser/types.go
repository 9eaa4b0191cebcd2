package parser

// ParseResult holds the content of one instruction file.
type ParseResult struct {
	// FilePath is the path the file was read from.
	FilePath string
	// Raw is the file content exactly as read.
	Raw []byte
	// RawLines are the lines of Raw with line terminators removed.
	RawLines []string
}

// Literal is the hexadecimal operand of a literal-load instruction.
type Literal struct {
	// Hex is the operand digits without the 0x prefix.
	Hex string
	// Value is the parsed operand; only meaningful when Valid is set.
	Value uint32
	// Valid is false when the operand does not fit in 32 bits.
	Valid bool
}
