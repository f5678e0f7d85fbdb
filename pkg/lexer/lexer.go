// Package lexer implements the Ice language tokenizer.
package lexer

import (
	"fmt"
	"strings"

	"github.com/icelang/ice/pkg/ast"
	"github.com/icelang/ice/pkg/diagnostics"
)

// TokenType identifies the type of a lexer token.
type TokenType int

const (
	// Statement keywords
	TokWrite TokenType = iota
	TokTrace
	TokIf
	TokThen
	TokElse
	TokEndif
	TokFor
	TokIn
	TokDo
	TokEnddo

	// Value keywords
	TokTrue
	TokFalse
	TokNull
	TokNow
	TokCurrentTime

	// Operator keywords
	TokTime
	TokSqrt
	TokUppercase
	TokMaximum
	TokMinimum
	TokAverage
	TokCount
	TokSum
	TokFirst
	TokLast
	TokIncrease
	TokIsNumber
	TokIsList
	TokIsWithin
	TokIsNotWithin
	TokTo

	// Literals
	TokNumber
	TokString
	TokTimeOfDay

	// Identifiers
	TokIdent

	// Punctuation and operators
	TokAssign    // :=
	TokSemicolon // ;
	TokComma     // ,
	TokLBracket  // [
	TokRBracket  // ]
	TokLParen    // (
	TokRParen    // )
	TokPlus      // +
	TokMinus     // -
	TokStar      // *
	TokSlash     // /
	TokCaret     // ^
	TokAmpersand // &
	TokDotDotDot // ...

	// Special
	TokEOF
)

// Token represents a single lexer token.
type Token struct {
	Type  TokenType
	Value string
	Span  ast.Span
}

// Keywords are case-insensitive, matching the upstream grammar.
var keywords = map[string]TokenType{
	"write":       TokWrite,
	"trace":       TokTrace,
	"if":          TokIf,
	"then":        TokThen,
	"else":        TokElse,
	"endif":       TokEndif,
	"for":         TokFor,
	"in":          TokIn,
	"do":          TokDo,
	"enddo":       TokEnddo,
	"true":        TokTrue,
	"false":       TokFalse,
	"null":        TokNull,
	"now":         TokNow,
	"currenttime": TokCurrentTime,
	"time":        TokTime,
	"sqrt":        TokSqrt,
	"uppercase":   TokUppercase,
	"maximum":     TokMaximum,
	"minimum":     TokMinimum,
	"average":     TokAverage,
	"count":       TokCount,
	"sum":         TokSum,
	"first":       TokFirst,
	"last":        TokLast,
	"increase":    TokIncrease,
	"isnumber":    TokIsNumber,
	"islist":      TokIsList,
	"iswithin":    TokIsWithin,
	"isnotwithin": TokIsNotWithin,
	"to":          TokTo,
}

type scanner struct {
	source   string
	filename string
	pos      int
	line     int
	col      int
}

func newScanner(source, filename string) *scanner {
	return &scanner{
		source:   source,
		filename: filename,
		pos:      0,
		line:     1,
		col:      1,
	}
}

func (s *scanner) atEnd() bool {
	return s.pos >= len(s.source)
}

func (s *scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.source[s.pos]
}

func (s *scanner) peekAt(offset int) byte {
	p := s.pos + offset
	if p >= len(s.source) {
		return 0
	}
	return s.source[p]
}

func (s *scanner) advance() byte {
	ch := s.source[s.pos]
	s.pos++
	if ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return ch
}

func (s *scanner) span(startLine, startCol int) ast.Span {
	return ast.Span{
		File:      s.filename,
		StartLine: startLine,
		StartCol:  startCol,
		EndLine:   s.line,
		EndCol:    s.col,
	}
}

func (s *scanner) skipWhitespaceAndComments() {
	for !s.atEnd() {
		ch := s.peek()
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
			s.advance()
		} else if ch == '/' && s.peekAt(1) == '/' {
			// Line comment (extension over the upstream grammar)
			for !s.atEnd() && s.peek() != '\n' {
				s.advance()
			}
		} else {
			break
		}
	}
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlphaNumeric(ch byte) bool {
	return isAlpha(ch) || isDigit(ch)
}

// scanString handles both "..." and '...' forms, per the upstream
// STRTOKEN rule. No escape sequences: the original regexes admit none.
func (s *scanner) scanString() (Token, error) {
	startLine, startCol := s.line, s.col
	quote := s.advance()

	startPos := s.pos
	for !s.atEnd() {
		ch := s.peek()
		if ch == quote {
			text := s.source[startPos:s.pos]
			s.advance() // consume closing quote
			return Token{
				Type:  TokString,
				Value: text,
				Span:  s.span(startLine, startCol),
			}, nil
		}
		if ch == '\n' {
			return Token{}, s.lexError(startLine, startCol, "unterminated string literal")
		}
		s.advance()
	}
	return Token{}, s.lexError(startLine, startCol, "unterminated string literal")
}

// scanNumberOrTime disambiguates NUMTOKEN from TIMETOKEN: digits
// immediately followed by ':' and another digit form a time of day.
func (s *scanner) scanNumberOrTime() (Token, error) {
	startLine, startCol := s.line, s.col
	startPos := s.pos

	for !s.atEnd() && isDigit(s.peek()) {
		s.advance()
	}

	if s.peek() == ':' && isDigit(s.peekAt(1)) {
		return s.scanTimeOfDay(startLine, startCol, startPos)
	}

	// Fractional part; '.' must not start a `...` range token.
	if s.peek() == '.' && s.peekAt(1) != '.' && isDigit(s.peekAt(1)) {
		s.advance() // consume '.'
		for !s.atEnd() && isDigit(s.peek()) {
			s.advance()
		}
	}

	return Token{
		Type:  TokNumber,
		Value: s.source[startPos:s.pos],
		Span:  s.span(startLine, startCol),
	}, nil
}

func (s *scanner) scanTimeOfDay(startLine, startCol, startPos int) (Token, error) {
	// Already consumed hour digits; consume ":MM" and optional ":SS".
	s.advance() // ':'
	for !s.atEnd() && isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == ':' && isDigit(s.peekAt(1)) {
		s.advance() // ':'
		for !s.atEnd() && isDigit(s.peek()) {
			s.advance()
		}
	}

	text := s.source[startPos:s.pos]
	if _, _, _, err := ast.ParseTimeOfDay(text); err != nil {
		return Token{}, s.lexError(startLine, startCol, fmt.Sprintf("invalid time literal '%s'", text))
	}
	return Token{
		Type:  TokTimeOfDay,
		Value: text,
		Span:  s.span(startLine, startCol),
	}, nil
}

func (s *scanner) scanIdentOrKeyword() Token {
	startLine, startCol := s.line, s.col
	startPos := s.pos

	for !s.atEnd() && isAlphaNumeric(s.peek()) {
		s.advance()
	}

	text := s.source[startPos:s.pos]
	if tokType, ok := keywords[strings.ToLower(text)]; ok {
		return Token{
			Type:  tokType,
			Value: text,
			Span:  s.span(startLine, startCol),
		}
	}

	return Token{
		Type:  TokIdent,
		Value: text,
		Span:  s.span(startLine, startCol),
	}
}

func (s *scanner) lexError(line, col int, msg string) error {
	diag := diagnostics.MakeDiag(
		diagnostics.ELex,
		msg,
		&ast.Span{File: s.filename, StartLine: line, StartCol: col, EndLine: line, EndCol: col + 1},
		"",
	)
	return &LexError{Diag: diag}
}

// LexError wraps a diagnostic for lex errors.
type LexError struct {
	Diag diagnostics.Diagnostic
}

func (e *LexError) Error() string {
	return e.Diag.Message
}

func (s *scanner) nextToken() (Token, error) {
	s.skipWhitespaceAndComments()

	if s.atEnd() {
		return Token{
			Type:  TokEOF,
			Value: "",
			Span:  s.span(s.line, s.col),
		}, nil
	}

	ch := s.peek()
	startLine, startCol := s.line, s.col

	switch ch {
	case ';':
		s.advance()
		return Token{Type: TokSemicolon, Value: ";", Span: s.span(startLine, startCol)}, nil
	case ',':
		s.advance()
		return Token{Type: TokComma, Value: ",", Span: s.span(startLine, startCol)}, nil
	case '[':
		s.advance()
		return Token{Type: TokLBracket, Value: "[", Span: s.span(startLine, startCol)}, nil
	case ']':
		s.advance()
		return Token{Type: TokRBracket, Value: "]", Span: s.span(startLine, startCol)}, nil
	case '(':
		s.advance()
		return Token{Type: TokLParen, Value: "(", Span: s.span(startLine, startCol)}, nil
	case ')':
		s.advance()
		return Token{Type: TokRParen, Value: ")", Span: s.span(startLine, startCol)}, nil
	case '+':
		s.advance()
		return Token{Type: TokPlus, Value: "+", Span: s.span(startLine, startCol)}, nil
	case '-':
		s.advance()
		return Token{Type: TokMinus, Value: "-", Span: s.span(startLine, startCol)}, nil
	case '*':
		s.advance()
		return Token{Type: TokStar, Value: "*", Span: s.span(startLine, startCol)}, nil
	case '^':
		s.advance()
		return Token{Type: TokCaret, Value: "^", Span: s.span(startLine, startCol)}, nil
	case '&':
		s.advance()
		return Token{Type: TokAmpersand, Value: "&", Span: s.span(startLine, startCol)}, nil

	case '/':
		s.advance()
		return Token{Type: TokSlash, Value: "/", Span: s.span(startLine, startCol)}, nil

	case ':':
		s.advance()
		if s.peek() == '=' {
			s.advance()
			return Token{Type: TokAssign, Value: ":=", Span: s.span(startLine, startCol)}, nil
		}
		return Token{}, s.lexError(startLine, startCol, "unexpected character ':'")

	case '.':
		if s.peekAt(1) == '.' && s.peekAt(2) == '.' {
			s.advance()
			s.advance()
			s.advance()
			return Token{Type: TokDotDotDot, Value: "...", Span: s.span(startLine, startCol)}, nil
		}
		s.advance()
		return Token{}, s.lexError(startLine, startCol, "unexpected character '.'")
	}

	if isDigit(ch) {
		return s.scanNumberOrTime()
	}

	if ch == '"' || ch == '\'' {
		return s.scanString()
	}

	if isAlpha(ch) {
		return s.scanIdentOrKeyword(), nil
	}

	s.advance()
	return Token{}, s.lexError(startLine, startCol, fmt.Sprintf("unexpected character '%c'", ch))
}

// Tokenize breaks source code into a slice of tokens.
func Tokenize(source, filename string) ([]Token, error) {
	s := newScanner(source, filename)
	var tokens []Token

	for {
		tok, err := s.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokEOF {
			break
		}
	}

	return tokens, nil
}
