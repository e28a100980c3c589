package vdf

const (
	// ============================================================================
	// Structural Tokens
	// ============================================================================

	// Quote delimits keys and values
	Quote = '"'

	// OpenBrace starts a section
	OpenBrace = '{'

	// CloseBrace ends a section
	CloseBrace = '}'

	// Backslash starts an escape sequence inside a quoted string
	Backslash = '\\'

	// CommentPrefix marks the rest of the line as a comment
	CommentPrefix = "//"

	// ConditionalOpen starts a platform conditional such as [$WIN32]
	ConditionalOpen = '['

	// ConditionalClose ends a platform conditional
	ConditionalClose = ']'

	// ============================================================================
	// Scanner Limits
	// ============================================================================

	// ScannerInitialBufferSize is the initial line buffer size
	ScannerInitialBufferSize = 4096

	// ScannerMaxLineSize bounds a single line
	ScannerMaxLineSize = 1 << 20

	// MaxDepth bounds section nesting
	MaxDepth = 64
)
