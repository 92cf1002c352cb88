// Package sqltext provides literal-aware scanning over SQL statement
// text. The layer accepts ? as the portable positional parameter marker;
// engines with a different native marker rewrite statements through
// Expand before execution. Markers inside string literals, quoted
// identifiers, and comments are never rewritten.
package sqltext

import (
	"strings"

	"github.com/brackishdb/brackish/pkg/core"
)

// scanner walks SQL text byte by byte, tracking enough lexical state to
// know whether the current position is inside a literal or comment.
type scanner struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
}

func newScanner(input string) *scanner {
	s := &scanner{input: input}
	s.readChar()
	return s
}

// readChar advances to the next character.
func (s *scanner) readChar() {
	if s.readPos >= len(s.input) {
		s.ch = 0 // ASCII NUL = EOF
	} else {
		s.ch = s.input[s.readPos]
	}
	s.pos = s.readPos
	s.readPos++
}

// peekChar returns the next character without advancing.
func (s *scanner) peekChar() byte {
	if s.readPos >= len(s.input) {
		return 0
	}
	return s.input[s.readPos]
}

// skipQuoted consumes a quoted region opened by quote, honoring the
// doubled-quote escape. The opening quote has already been consumed by
// the caller's write.
func (s *scanner) skipQuoted(quote byte, emit func(byte)) {
	s.readChar()
	for s.ch != 0 {
		if s.ch == quote {
			if s.peekChar() == quote {
				// Doubled quote escape
				emit(s.ch)
				s.readChar()
				emit(s.ch)
				s.readChar()
				continue
			}
			emit(s.ch)
			s.readChar()
			return
		}
		emit(s.ch)
		s.readChar()
	}
}

// dollarTag returns the $tag$ delimiter opening at the current
// position, or "" when the text here is not a dollar-quote opener. Tags
// follow the PostgreSQL identifier rule; a native $N marker never
// qualifies.
func (s *scanner) dollarTag() string {
	i := s.pos + 1
	for i < len(s.input) && isWordChar(s.input[i]) {
		if i == s.pos+1 && s.input[i] >= '0' && s.input[i] <= '9' {
			return ""
		}
		i++
	}
	if i < len(s.input) && s.input[i] == '$' {
		return s.input[s.pos : i+1]
	}
	return ""
}

// skipDollarQuoted consumes a $tag$ ... $tag$ region, delimiters
// included. Dollar quoting has no escape; the region ends only at the
// matching tag.
func (s *scanner) skipDollarQuoted(tag string, emit func(byte)) {
	for range tag {
		emit(s.ch)
		s.readChar()
	}
	for s.ch != 0 {
		if s.ch == '$' && strings.HasPrefix(s.input[s.pos:], tag) {
			for range tag {
				emit(s.ch)
				s.readChar()
			}
			return
		}
		emit(s.ch)
		s.readChar()
	}
}

// skipLineComment consumes through the end of line.
func (s *scanner) skipLineComment(emit func(byte)) {
	for s.ch != 0 && s.ch != '\n' {
		emit(s.ch)
		s.readChar()
	}
}

// skipBlockComment consumes a /* ... */ region, handling nesting the way
// PostgreSQL does.
func (s *scanner) skipBlockComment(emit func(byte)) {
	depth := 0
	for s.ch != 0 {
		if s.ch == '/' && s.peekChar() == '*' {
			depth++
			emit(s.ch)
			s.readChar()
			emit(s.ch)
			s.readChar()
			continue
		}
		if s.ch == '*' && s.peekChar() == '/' {
			depth--
			emit(s.ch)
			s.readChar()
			emit(s.ch)
			s.readChar()
			if depth == 0 {
				return
			}
			continue
		}
		emit(s.ch)
		s.readChar()
	}
}

// Expand rewrites every top-level ? marker into the style's native form,
// numbering from 1 left to right. Statements for question-style engines
// pass through untouched.
func Expand(sql string, style core.PlaceholderStyle) string {
	if style == core.PlaceholderQuestion {
		return sql
	}
	if !strings.ContainsRune(sql, '?') {
		return sql
	}

	var b strings.Builder
	b.Grow(len(sql) + 8)
	emit := func(c byte) { b.WriteByte(c) }

	s := newScanner(sql)
	n := 0
	for s.ch != 0 {
		switch {
		case s.ch == '\'':
			emit(s.ch)
			s.skipQuoted('\'', emit)
		case s.ch == '"':
			emit(s.ch)
			s.skipQuoted('"', emit)
		case s.ch == '`':
			emit(s.ch)
			s.skipQuoted('`', emit)
		case s.ch == '$':
			if tag := s.dollarTag(); tag != "" {
				s.skipDollarQuoted(tag, emit)
			} else {
				emit(s.ch)
				s.readChar()
			}
		case s.ch == '-' && s.peekChar() == '-':
			s.skipLineComment(emit)
		case s.ch == '/' && s.peekChar() == '*':
			s.skipBlockComment(emit)
		case s.ch == '?':
			n++
			b.WriteString(style.Format(n))
			s.readChar()
		default:
			emit(s.ch)
			s.readChar()
		}
	}
	return b.String()
}

// Head returns the first keyword of a statement, upper-cased, skipping
// leading whitespace, comments, and grouping parentheses. Empty when the
// text holds no keyword.
func Head(sql string) string {
	s := newScanner(sql)
	discard := func(byte) {}
	for s.ch != 0 {
		switch {
		case s.ch == ' ' || s.ch == '\t' || s.ch == '\n' || s.ch == '\r' || s.ch == '(' || s.ch == ';':
			s.readChar()
		case s.ch == '-' && s.peekChar() == '-':
			s.skipLineComment(discard)
		case s.ch == '/' && s.peekChar() == '*':
			s.skipBlockComment(discard)
		default:
			start := s.pos
			for isWordChar(s.ch) {
				s.readChar()
			}
			if s.pos == start {
				return ""
			}
			return strings.ToUpper(s.input[start:s.pos])
		}
	}
	return ""
}

func isWordChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
