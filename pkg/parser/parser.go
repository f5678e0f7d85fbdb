// Package parser implements the Ice recursive-descent parser.
//
// Precedence, loosest to tightest:
//
//	iswithin ... to ...   (ternary, non-associative)
//	a ... b               (range)
//	&                     (concatenation, left)
//	+ -                   (left)
//	* /                   (left)
//	^                     (right)
//	keyword unary ops     (greedy: argument is the full expression to the right)
//	unary minus
//	atoms
package parser

import (
	"fmt"
	"strconv"

	"github.com/icelang/ice/pkg/ast"
	"github.com/icelang/ice/pkg/diagnostics"
	"github.com/icelang/ice/pkg/lexer"
)

// ParseError wraps a diagnostic for parse errors.
type ParseError struct {
	Diag diagnostics.Diagnostic
}

func (e *ParseError) Error() string {
	return e.Diag.Message
}

type parser struct {
	tokens []lexer.Token
	pos    int
}

// Parse tokenizes and parses source code into a Program.
func Parse(source, filename string) (*ast.Program, error) {
	tokens, err := lexer.Tokenize(source, filename)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	return p.parseProgram()
}

func (p *parser) current() lexer.Token {
	return p.tokens[p.pos]
}

func (p *parser) peekType() lexer.TokenType {
	return p.tokens[p.pos].Type
}

func (p *parser) peekAhead(n int) lexer.TokenType {
	i := p.pos + n
	if i >= len(p.tokens) {
		return lexer.TokEOF
	}
	return p.tokens[i].Type
}

func (p *parser) advance() lexer.Token {
	tok := p.tokens[p.pos]
	if tok.Type != lexer.TokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) check(t lexer.TokenType) bool {
	return p.peekType() == t
}

func (p *parser) match(t lexer.TokenType) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expect(t lexer.TokenType, what string) (lexer.Token, error) {
	if p.check(t) {
		return p.advance(), nil
	}
	return lexer.Token{}, p.errorAt(p.current(), fmt.Sprintf("expected %s, found '%s'", what, p.describe(p.current())))
}

func (p *parser) describe(tok lexer.Token) string {
	if tok.Type == lexer.TokEOF {
		return "end of input"
	}
	return tok.Value
}

func (p *parser) errorAt(tok lexer.Token, msg string) error {
	span := tok.Span
	return &ParseError{Diag: diagnostics.MakeDiag(diagnostics.EParse, msg, &span, "")}
}

func spanBetween(start, end ast.Span) ast.Span {
	return ast.Span{
		File:      start.File,
		StartLine: start.StartLine,
		StartCol:  start.StartCol,
		EndLine:   end.EndLine,
		EndCol:    end.EndCol,
	}
}

// --- Program and statements ---

func (p *parser) parseProgram() (*ast.Program, error) {
	start := p.current().Span
	block, err := p.parseStatements(lexer.TokEOF)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokEOF, "end of input"); err != nil {
		return nil, err
	}
	return &ast.Program{Span: spanBetween(start, block.Span), Block: block}, nil
}

// parseStatements collects statements until one of the terminator token
// types. The terminator itself is not consumed.
func (p *parser) parseStatements(terminators ...lexer.TokenType) (*ast.StatementBlock, error) {
	start := p.current().Span
	var stmts []ast.Stmt

	for {
		t := p.peekType()
		stop := false
		for _, term := range terminators {
			if t == term {
				stop = true
				break
			}
		}
		if stop {
			break
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}

	end := start
	if len(stmts) > 0 {
		end = stmts[len(stmts)-1].NodeSpan()
	}
	return &ast.StatementBlock{Span: spanBetween(start, end), Statements: stmts}, nil
}

func (p *parser) parseStatement() (ast.Stmt, error) {
	switch p.peekType() {
	case lexer.TokWrite:
		return p.parseWrite()
	case lexer.TokTrace:
		return p.parseTrace()
	case lexer.TokIf:
		return p.parseIf()
	case lexer.TokFor:
		return p.parseFor()
	case lexer.TokTime:
		// `time x := expr;` re-tags a binding. Requires the lookahead
		// IDENT ':=' since `time` is also a unary operator keyword.
		if p.peekAhead(1) == lexer.TokIdent && p.peekAhead(2) == lexer.TokAssign {
			return p.parseTimeAssign()
		}
		return nil, p.errorAt(p.current(), "'time' operator cannot start a statement")
	case lexer.TokIdent:
		if p.peekAhead(1) == lexer.TokAssign {
			return p.parseAssign()
		}
		return nil, p.errorAt(p.current(), fmt.Sprintf("expected ':=' after identifier '%s'", p.current().Value))
	default:
		return nil, p.errorAt(p.current(), fmt.Sprintf("expected statement, found '%s'", p.describe(p.current())))
	}
}

func (p *parser) parseWrite() (ast.Stmt, error) {
	kw := p.advance()
	arg, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	semi, err := p.expect(lexer.TokSemicolon, "';'")
	if err != nil {
		return nil, err
	}
	return &ast.WriteStmt{Span: spanBetween(kw.Span, semi.Span), Arg: arg}, nil
}

func (p *parser) parseTrace() (ast.Stmt, error) {
	kw := p.advance()
	arg, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	semi, err := p.expect(lexer.TokSemicolon, "';'")
	if err != nil {
		return nil, err
	}
	return &ast.TraceStmt{
		Span: spanBetween(kw.Span, semi.Span),
		Line: kw.Span.StartLine,
		Arg:  arg,
	}, nil
}

func (p *parser) parseAssign() (ast.Stmt, error) {
	ident := p.advance()
	p.advance() // :=
	arg, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	semi, err := p.expect(lexer.TokSemicolon, "';'")
	if err != nil {
		return nil, err
	}
	return &ast.AssignStmt{
		Span:  spanBetween(ident.Span, semi.Span),
		Ident: ident.Value,
		Arg:   arg,
	}, nil
}

func (p *parser) parseTimeAssign() (ast.Stmt, error) {
	kw := p.advance() // time
	ident := p.advance()
	p.advance() // :=
	arg, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	semi, err := p.expect(lexer.TokSemicolon, "';'")
	if err != nil {
		return nil, err
	}
	return &ast.TimeAssignStmt{
		Span:  spanBetween(kw.Span, semi.Span),
		Ident: ident.Value,
		Arg:   arg,
	}, nil
}

func (p *parser) parseIf() (ast.Stmt, error) {
	kw := p.advance()
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokThen, "'then'"); err != nil {
		return nil, err
	}
	thenBlock, err := p.parseStatements(lexer.TokElse, lexer.TokEndif, lexer.TokEOF)
	if err != nil {
		return nil, err
	}
	var elseBlock *ast.StatementBlock
	if p.match(lexer.TokElse) {
		elseBlock, err = p.parseStatements(lexer.TokEndif, lexer.TokEOF)
		if err != nil {
			return nil, err
		}
	}
	end, err := p.expect(lexer.TokEndif, "'endif'")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokSemicolon, "';' after 'endif'"); err != nil {
		return nil, err
	}
	return &ast.IfStmt{
		Span: spanBetween(kw.Span, end.Span),
		Cond: cond,
		Then: thenBlock,
		Else: elseBlock,
	}, nil
}

func (p *parser) parseFor() (ast.Stmt, error) {
	kw := p.advance()
	ident, err := p.expect(lexer.TokIdent, "loop variable name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokIn, "'in'"); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokDo, "'do'"); err != nil {
		return nil, err
	}
	body, err := p.parseStatements(lexer.TokEnddo, lexer.TokEOF)
	if err != nil {
		return nil, err
	}
	end, err := p.expect(lexer.TokEnddo, "'enddo'")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokSemicolon, "';' after 'enddo'"); err != nil {
		return nil, err
	}
	return &ast.ForStmt{
		Span:       spanBetween(kw.Span, end.Span),
		VarName:    ident.Value,
		Expression: expr,
		Body:       body,
	}, nil
}

// --- Expressions ---

func (p *parser) parseExpression() (ast.Expr, error) {
	return p.parseWithin()
}

// parseWithin: a iswithin b to c. Non-associative.
func (p *parser) parseWithin() (ast.Expr, error) {
	left, err := p.parseRange()
	if err != nil {
		return nil, err
	}

	var op ast.OpKind
	switch p.peekType() {
	case lexer.TokIsWithin:
		op = ast.OpIsWithin
	case lexer.TokIsNotWithin:
		op = ast.OpIsNotWithin
	default:
		return left, nil
	}
	p.advance()

	low, err := p.parseRange()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokTo, "'to'"); err != nil {
		return nil, err
	}
	high, err := p.parseRange()
	if err != nil {
		return nil, err
	}
	return &ast.TernaryExpr{
		Span: spanBetween(left.NodeSpan(), high.NodeSpan()),
		Op:   op,
		A:    left,
		B:    low,
		C:    high,
	}, nil
}

// parseRange: a ... b. Non-associative.
func (p *parser) parseRange() (ast.Expr, error) {
	left, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	if !p.match(lexer.TokDotDotDot) {
		return left, nil
	}
	right, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	return &ast.BinaryExpr{
		Span:  spanBetween(left.NodeSpan(), right.NodeSpan()),
		Op:    ast.OpRange,
		Left:  left,
		Right: right,
	}, nil
}

func (p *parser) parseConcat() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.match(lexer.TokAmpersand) {
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{
			Span:  spanBetween(left.NodeSpan(), right.NodeSpan()),
			Op:    ast.OpAmpersand,
			Left:  left,
			Right: right,
		}
	}
	return left, nil
}

func (p *parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.OpKind
		switch p.peekType() {
		case lexer.TokPlus:
			op = ast.OpPlus
		case lexer.TokMinus:
			op = ast.OpMinus
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{
			Span:  spanBetween(left.NodeSpan(), right.NodeSpan()),
			Op:    op,
			Left:  left,
			Right: right,
		}
	}
}

func (p *parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.OpKind
		switch p.peekType() {
		case lexer.TokStar:
			op = ast.OpTimes
		case lexer.TokSlash:
			op = ast.OpDivide
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{
			Span:  spanBetween(left.NodeSpan(), right.NodeSpan()),
			Op:    op,
			Left:  left,
			Right: right,
		}
	}
}

// parsePower: right-associative.
func (p *parser) parsePower() (ast.Expr, error) {
	base, err := p.parseKeywordUnary()
	if err != nil {
		return nil, err
	}
	if !p.match(lexer.TokCaret) {
		return base, nil
	}
	exp, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	return &ast.BinaryExpr{
		Span:  spanBetween(base.NodeSpan(), exp.NodeSpan()),
		Op:    ast.OpPower,
		Left:  base,
		Right: exp,
	}, nil
}

var keywordUnaryOps = map[lexer.TokenType]ast.OpKind{
	lexer.TokSqrt:      ast.OpSqrt,
	lexer.TokUppercase: ast.OpUppercase,
	lexer.TokIsNumber:  ast.OpIsNumber,
	lexer.TokIsList:    ast.OpIsList,
	lexer.TokMaximum:   ast.OpMaximum,
	lexer.TokMinimum:   ast.OpMinimum,
	lexer.TokAverage:   ast.OpAverage,
	lexer.TokCount:     ast.OpCount,
	lexer.TokSum:       ast.OpSum,
	lexer.TokFirst:     ast.OpFirst,
	lexer.TokLast:      ast.OpLast,
	lexer.TokIncrease:  ast.OpIncrease,
	lexer.TokTime:      ast.OpTime,
}

// parseKeywordUnary: keyword operators are greedy. `sqrt 4 + 5` parses
// as sqrt(4 + 5), matching the upstream grammar.
func (p *parser) parseKeywordUnary() (ast.Expr, error) {
	op, ok := keywordUnaryOps[p.peekType()]
	if !ok {
		return p.parseUnaryMinus()
	}
	kw := p.advance()
	arg, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.UnaryExpr{
		Span: spanBetween(kw.Span, arg.NodeSpan()),
		Op:   op,
		Arg:  arg,
	}, nil
}

func (p *parser) parseUnaryMinus() (ast.Expr, error) {
	if p.check(lexer.TokMinus) {
		kw := p.advance()
		arg, err := p.parseUnaryMinus()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{
			Span: spanBetween(kw.Span, arg.NodeSpan()),
			Op:   ast.OpUnminus,
			Arg:  arg,
		}, nil
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() (ast.Expr, error) {
	tok := p.current()
	switch tok.Type {
	case lexer.TokNumber:
		p.advance()
		val, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, p.errorAt(tok, fmt.Sprintf("invalid number literal '%s'", tok.Value))
		}
		return &ast.NumberLiteral{Span: tok.Span, Value: val}, nil

	case lexer.TokString:
		p.advance()
		return &ast.StringLiteral{Span: tok.Span, Value: tok.Value}, nil

	case lexer.TokTimeOfDay:
		p.advance()
		h, m, sec, err := ast.ParseTimeOfDay(tok.Value)
		if err != nil {
			return nil, p.errorAt(tok, fmt.Sprintf("invalid time literal '%s'", tok.Value))
		}
		return &ast.TimeLiteral{Span: tok.Span, Hour: h, Minute: m, Second: sec}, nil

	case lexer.TokTrue:
		p.advance()
		return &ast.BoolLiteral{Span: tok.Span, Value: true}, nil

	case lexer.TokFalse:
		p.advance()
		return &ast.BoolLiteral{Span: tok.Span, Value: false}, nil

	case lexer.TokNull:
		p.advance()
		return &ast.NullLiteral{Span: tok.Span}, nil

	case lexer.TokNow:
		p.advance()
		return &ast.NowExpr{Span: tok.Span}, nil

	case lexer.TokCurrentTime:
		p.advance()
		return &ast.CurrentTimeExpr{Span: tok.Span}, nil

	case lexer.TokIdent:
		p.advance()
		return &ast.VariableExpr{Span: tok.Span, Name: tok.Value}, nil

	case lexer.TokLBracket:
		return p.parseList()

	case lexer.TokLParen:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokRParen, "')'"); err != nil {
			return nil, err
		}
		return expr, nil
	}

	return nil, p.errorAt(tok, fmt.Sprintf("expected expression, found '%s'", p.describe(tok)))
}

func (p *parser) parseList() (ast.Expr, error) {
	open := p.advance() // [
	var items []ast.Expr

	if !p.check(lexer.TokRBracket) {
		for {
			item, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			if !p.match(lexer.TokComma) {
				break
			}
		}
	}

	closeTok, err := p.expect(lexer.TokRBracket, "']'")
	if err != nil {
		return nil, err
	}
	return &ast.ListExpr{Span: spanBetween(open.Span, closeTok.Span), Items: items}, nil
}
