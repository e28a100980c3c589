// Package vdf parses Valve KeyValues text, the format Steam uses for
// libraryfolders.vdf and appmanifest_*.acf.
//
// The format is a tree of double-quoted keys. A key followed by a quoted
// value is a leaf; a key followed by a braced block is a section:
//
//	"AppState"
//	{
//		"appid"		"49520"
//		"installdir"		"Borderlands 2"
//	}
//
// Keys are matched case-insensitively because Steam writes the same key with
// different capitalisation across client versions.
package vdf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrSyntax indicates malformed KeyValues text.
var ErrSyntax = errors.New("vdf: syntax error")

// SyntaxError reports the line a parse failed on.
type SyntaxError struct {
	Line int
	Msg  string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("vdf: line %d: %s", e.Line, e.Msg)
}

// Is matches ErrSyntax.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// Node is a key with either a string value or child nodes.
type Node struct {
	Key      string
	Value    string
	Children []*Node
	section  bool
}

// IsSection reports whether the node is a braced block.
func (n *Node) IsSection() bool {
	return n.section
}

// Child returns the first direct child whose key matches, ignoring case.
func (n *Node) Child(key string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if strings.EqualFold(c.Key, key) {
			return c
		}
	}
	return nil
}

// Lookup follows path through nested sections and returns the leaf value.
func (n *Node) Lookup(path ...string) (string, bool) {
	cur := n
	for _, key := range path {
		cur = cur.Child(key)
		if cur == nil {
			return "", false
		}
	}
	if cur == nil || cur.section {
		return "", false
	}
	return cur.Value, true
}

// Parse reads KeyValues text. The returned node is an unnamed section whose
// children are the top-level keys. UTF-8 and UTF-16 input with a byte order
// mark is decoded; input without one is treated as UTF-8.
func Parse(r io.Reader) (*Node, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	scanner := bufio.NewScanner(transform.NewReader(r, decoder))
	scanner.Buffer(make([]byte, 0, ScannerInitialBufferSize), ScannerMaxLineSize)

	p := &parser{root: &Node{section: true}}
	p.stack = []*Node{p.root}

	for scanner.Scan() {
		p.line++
		if err := p.parseLine(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("vdf: read: %w", err)
	}

	if p.pending != nil {
		return nil, p.errorf("key %q has no value", *p.pending)
	}
	if len(p.stack) > 1 {
		return nil, p.errorf("section %q not closed", p.stack[len(p.stack)-1].Key)
	}
	return p.root, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Node, error) {
	return Parse(strings.NewReader(s))
}

type parser struct {
	root    *Node
	stack   []*Node
	pending *string // key waiting for a value or a section
	line    int
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Line: p.line, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) top() *Node {
	return p.stack[len(p.stack)-1]
}

// parseLine consumes every token on one line.
func (p *parser) parseLine(line string) error {
	i := 0
	for i < len(line) {
		c := line[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++

		case strings.HasPrefix(line[i:], CommentPrefix):
			return nil

		case c == OpenBrace:
			if p.pending == nil {
				return p.errorf("section without a key")
			}
			if len(p.stack) >= MaxDepth {
				return p.errorf("sections nested deeper than %d", MaxDepth)
			}
			n := &Node{Key: *p.pending, section: true}
			p.top().Children = append(p.top().Children, n)
			p.stack = append(p.stack, n)
			p.pending = nil
			i++

		case c == CloseBrace:
			if p.pending != nil {
				return p.errorf("key %q has no value", *p.pending)
			}
			if len(p.stack) == 1 {
				return p.errorf("unexpected %q", CloseBrace)
			}
			p.stack = p.stack[:len(p.stack)-1]
			i++

		case c == ConditionalOpen:
			end := strings.IndexByte(line[i:], ConditionalClose)
			if end < 0 {
				return p.errorf("unterminated conditional")
			}
			i += end + 1

		case c == Quote:
			end := findClosingQuote(line[i:])
			if end < 0 {
				return p.errorf("unterminated string")
			}
			p.token(unescape(line[i+1 : i+end]))
			i += end + 1

		default:
			end := i
			for end < len(line) && !isDelimiter(line[end]) {
				end++
			}
			p.token(line[i:end])
			i = end
		}
	}
	return nil
}

// token handles a key or value string.
func (p *parser) token(s string) {
	if p.pending == nil {
		p.pending = &s
		return
	}
	p.top().Children = append(p.top().Children, &Node{Key: *p.pending, Value: s})
	p.pending = nil
}

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', Quote, OpenBrace, CloseBrace:
		return true
	}
	return false
}

// findClosingQuote returns the index of the quote that closes the string
// opening at s[0], skipping quotes preceded by an odd number of backslashes.
func findClosingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		if s[i] != Quote {
			continue
		}
		n := 0
		for j := i - 1; j >= 1 && s[j] == Backslash; j-- {
			n++
		}
		if n%2 == 1 {
			continue
		}
		return i
	}
	return -1
}

// unescape resolves \\, \", \n and \t. Other backslashes are kept literally,
// which preserves Windows paths written with single separators.
func unescape(s string) string {
	if strings.IndexByte(s, Backslash) == -1 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != Backslash || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		switch s[i+1] {
		case Backslash:
			b.WriteByte(Backslash)
		case Quote:
			b.WriteByte(Quote)
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		default:
			b.WriteByte(s[i])
			continue
		}
		i++
	}
	return b.String()
}
