package asm

import (
	"fmt"
	"strconv"
	"strings"
)

// lexer turns assembly source into a token stream. Its shape — an
// explicit Position/ReadPosition/Ch cursor with a readChar/peekChar
// pair — follows the hand-written character lexer used elsewhere in
// the example pack for small line-oriented languages.
type lexer struct {
	input        string
	position     int
	readPosition int
	ch           byte
	line         int
}

func newLexer(input string) *lexer {
	l := &lexer{input: input, line: 1}
	l.readChar()
	return l
}

func (l *lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

func (l *lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *lexer) skipSpaces() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

func isWordStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isWordChar(ch byte) bool {
	return isWordStart(ch) || (ch >= '0' && ch <= '9') || ch == '.'
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

// next returns the next token, tokenizing one line-worth of assembly at
// a time: comments run from ';' to end of line, and a bare newline is
// itself a token since statements are newline-terminated.
func (l *lexer) next() (token, error) {
	l.skipSpaces()

	if l.ch == ';' {
		for l.ch != '\n' && l.ch != 0 {
			l.readChar()
		}
		l.skipSpaces()
	}

	line := l.line
	switch {
	case l.ch == 0:
		return token{kind: tokEOF, line: line}, nil
	case l.ch == '\n':
		l.readChar()
		l.line++
		return token{kind: tokNewline, line: line}, nil
	case l.ch == ',':
		l.readChar()
		return token{kind: tokComma, line: line}, nil
	case l.ch == '"':
		return l.readString(line)
	case l.ch == '.':
		l.readChar()
		start := l.position
		for isWordChar(l.ch) {
			l.readChar()
		}
		return token{kind: tokDirective, text: l.input[start:l.position], line: line}, nil
	case l.ch == '-' && isDigit(l.peekChar()):
		return l.readNumber(line)
	case isDigit(l.ch):
		return l.readNumber(line)
	case isWordStart(l.ch):
		start := l.position
		for isWordChar(l.ch) {
			l.readChar()
		}
		word := l.input[start:l.position]
		if l.ch == ':' {
			l.readChar()
			return token{kind: tokLabel, text: word, line: line}, nil
		}
		return token{kind: tokIdent, text: word, line: line}, nil
	}
	bad := l.ch
	l.readChar()
	return token{kind: tokIllegal, text: string(bad), line: line}, fmt.Errorf("line %d: unexpected character %q", line, bad)
}

func (l *lexer) readNumber(line int) (token, error) {
	start := l.position
	if l.ch == '-' {
		l.readChar()
	}
	isFloat := false
	for isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())) {
		if l.ch == '.' {
			isFloat = true
		}
		l.readChar()
	}
	text := l.input[start:l.position]
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return token{}, fmt.Errorf("line %d: bad float literal %q: %w", line, text, err)
		}
		return token{kind: tokFloat, text: text, fval: f, line: line}, nil
	}
	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return token{}, fmt.Errorf("line %d: bad integer literal %q: %w", line, text, err)
	}
	return token{kind: tokInt, text: text, ival: i, line: line}, nil
}

func (l *lexer) readString(line int) (token, error) {
	l.readChar() // consume opening quote
	var sb strings.Builder
	for l.ch != '"' {
		if l.ch == 0 || l.ch == '\n' {
			return token{}, fmt.Errorf("line %d: unterminated string literal", line)
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			default:
				sb.WriteByte(l.ch)
			}
			l.readChar()
			continue
		}
		sb.WriteByte(l.ch)
		l.readChar()
	}
	l.readChar() // consume closing quote
	return token{kind: tokString, text: sb.String(), line: line}, nil
}
