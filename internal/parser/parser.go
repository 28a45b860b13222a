// Package parser implements a Pratt-style precedence parser that turns a
// token stream into an ast.Program. It never aborts on a single error:
// each failed expectation records a diagnostics.Diagnostic on the shared
// pipeline.PipelineContext and the parser recovers to the next plausible
// statement boundary, then keeps going.
package parser

import (
	"strconv"
	"strings"

	"github.com/azula-lang/azc/internal/ast"
	"github.com/azula-lang/azc/internal/diagnostics"
	"github.com/azula-lang/azc/internal/pipeline"
	"github.com/azula-lang/azc/internal/token"
)

// Precedence levels, lowest to highest.
const (
	LOWEST = iota
	COMPARISON   // || &&
	EQUALS       // == !=
	LESS_GREATER // < <= > >=
	SUM          // + -
	PRODUCT      // * / % **
	PREFIX       // unary ! &
	CALL         // ( [
)

var precedences = map[token.Kind]int{
	token.OR:       COMPARISON,
	token.AND:      COMPARISON,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       LESS_GREATER,
	token.LTE:      LESS_GREATER,
	token.GT:       LESS_GREATER,
	token.GTE:      LESS_GREATER,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.SLASH:    PRODUCT,
	token.ASTERISK: PRODUCT,
	token.POWER:    PRODUCT,
	token.MODULO:   PRODUCT,
	token.LPAREN:   CALL,
	token.LBRACKET: CALL,
}

var infixOperators = map[token.Kind]ast.Operator{
	token.PLUS:     ast.Add,
	token.MINUS:    ast.Sub,
	token.ASTERISK: ast.Mul,
	token.SLASH:    ast.Div,
	token.MODULO:   ast.Mod,
	token.POWER:    ast.Power,
	token.OR:       ast.Or,
	token.AND:      ast.And,
	token.EQ:       ast.Eq,
	token.NOT_EQ:   ast.Neq,
	token.LT:       ast.Lt,
	token.LTE:      ast.Lte,
	token.GT:       ast.Gt,
	token.GTE:      ast.Gte,
}

// Parser consumes a fully materialized token stream. The lexer's public
// contract is lazy (one NextToken call at a time), but the parser only
// ever looks one token ahead, so a flat slice behaves identically and
// keeps the buffering concern out of this package.
type Parser struct {
	tokens []token.Token
	pos    int

	curToken  token.Token
	peekToken token.Token

	ctx *pipeline.PipelineContext
}

func New(tokens []token.Token, ctx *pipeline.PipelineContext) *Parser {
	p := &Parser{tokens: tokens, ctx: ctx}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) advanceRaw() token.Token {
	if p.pos < len(p.tokens) {
		t := p.tokens[p.pos]
		p.pos++
		return t
	}
	return token.Token{Kind: token.EOF}
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.advanceRaw()
	// Comments are no-ops; the parser never sees them.
	for p.peekToken.Kind == token.COMMENT {
		p.peekToken = p.advanceRaw()
	}
}

func (p *Parser) curTokenIs(k token.Kind) bool  { return p.curToken.Kind == k }
func (p *Parser) peekTokenIs(k token.Kind) bool { return p.peekToken.Kind == k }

// expectPeek advances past peekToken if it matches k, else records
// ExpectedToken and leaves the cursor where it is.
func (p *Parser) expectPeek(k token.Kind) bool {
	if p.peekTokenIs(k) {
		p.nextToken()
		return true
	}
	p.error(diagnostics.ExpectedToken, p.peekToken.Span, k.String(), p.peekToken.Kind.String())
	return false
}

func (p *Parser) error(kind diagnostics.Kind, span token.Span, a, b string) {
	p.ctx.AddDiagnostic(diagnostics.New(kind, span.Start, span.End).WithPayload(a, b))
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Kind]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Kind]; ok {
		return pr
	}
	return LOWEST
}

func toSpan(s token.Span) ast.Span { return ast.Span{Start: s.Start, End: s.End} }

// ParseProgram parses the entire token stream: a sequence of function
// definitions, extern declarations, struct definitions, and top-level
// constant assignments. Recovery keeps the loop advancing to EOF even
// after per-statement failures.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.curTokenIs(token.EOF) {
		stmt := p.parseTopLevelStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		} else {
			p.recoverToStatementBoundary()
		}
		p.nextToken()
	}
	return prog
}

// recoverToStatementBoundary advances past tokens until a semicolon,
// closing brace, or EOF.
func (p *Parser) recoverToStatementBoundary() {
	for !p.curTokenIs(token.SEMI) && !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		p.nextToken()
	}
}

func (p *Parser) parseTopLevelStatement() ast.Statement {
	switch p.curToken.Kind {
	case token.FUNC:
		return p.parseFunctionStatement()
	case token.EXTERN, token.VARARGS:
		return p.parseExternFunctionStatement()
	case token.STRUCT:
		return p.parseStructStatement()
	case token.CONST, token.VAR:
		stmt := p.parseAssignStatement()
		a, ok := stmt.(*ast.AssignStatement)
		if !ok {
			return stmt
		}
		span := token.Span{Start: a.Span.Start, End: a.Span.End}
		if a.Mutable {
			p.error(diagnostics.NonGlobalConstant, span, "", "")
		} else if a.Value != nil && !p.isLiteralExpression(a.Value) {
			p.error(diagnostics.NonGlobalConstant, span, "", "")
		}
		return stmt
	default:
		p.error(diagnostics.ExpectedStatement, p.curToken.Span, "", p.curToken.Kind.String())
		return nil
	}
}

// isLiteralExpression is the syntactic (not evaluative) literal check
// required of top-level assignment right-hand sides: only bare literal
// forms are accepted, never identifiers, calls, or operator expressions.
func (p *Parser) isLiteralExpression(e ast.Expression) bool {
	switch e.(type) {
	case *ast.IntegerLiteral, *ast.FloatLiteral, *ast.BooleanLiteral, *ast.StringLiteral:
		return true
	case *ast.ArrayExpression:
		return true
	default:
		return false
	}
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Kind {
	case token.VAR, token.CONST:
		return p.parseAssignStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	default:
		return p.parseExpressionOrReassignStatement()
	}
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	start := p.curToken.Span.Start
	block := &ast.BlockStatement{}
	if !p.expectPeek(token.LBRACE) {
		block.Span = ast.Span{Start: start, End: p.curToken.Span.End}
		return block
	}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		} else {
			p.recoverToStatementBoundary()
		}
		p.nextToken()
	}
	block.Span = ast.Span{Start: start, End: p.curToken.Span.End}
	return block
}

// ---- top-level declarations ----

func (p *Parser) parseFunctionStatement() ast.Statement {
	start := p.curToken.Span.Start
	fn := &ast.FunctionStatement{Name: ""}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	fn.Name = p.curToken.Lexeme

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	fn.Args = p.parseArgList()

	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		fn.Returns = p.parseTypeExpr()
	}

	fn.Body = p.parseBlockStatement()
	fn.Span = ast.Span{Start: start, End: fn.Body.SpanOf().End}
	return fn
}

func (p *Parser) parseArgList() []ast.Arg {
	var args []ast.Arg
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return args
	}
	p.nextToken()
	args = append(args, p.parseOneArg())
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		args = append(args, p.parseOneArg())
	}
	if !p.expectPeek(token.RPAREN) {
		return args
	}
	return args
}

func (p *Parser) parseOneArg() ast.Arg {
	name := p.curToken.Lexeme
	var typ *ast.TypeExpr
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		typ = p.parseTypeExpr()
	} else {
		p.error(diagnostics.ExpectedToken, p.peekToken.Span, ":", p.peekToken.Kind.String())
	}
	return ast.Arg{Name: name, Type: typ}
}

// parseExternFunctionStatement handles both `extern func name(...)` and
// the varargs-prefixed `varargs extern func name(...)`.
func (p *Parser) parseExternFunctionStatement() ast.Statement {
	start := p.curToken.Span.Start
	ext := &ast.ExternFunctionStatement{}

	if p.curTokenIs(token.VARARGS) {
		ext.Varargs = true
		if !p.expectPeek(token.EXTERN) {
			return nil
		}
	}
	if !p.expectPeek(token.FUNC) {
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	ext.Name = p.curToken.Lexeme

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	if !p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		ext.ArgTypes = append(ext.ArgTypes, p.parseTypeExpr())
		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			ext.ArgTypes = append(ext.ArgTypes, p.parseTypeExpr())
		}
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		ext.Returns = p.parseTypeExpr()
	}
	if !p.expectPeek(token.SEMI) {
		return nil
	}
	ext.Span = ast.Span{Start: start, End: p.curToken.Span.End}
	return ext
}

func (p *Parser) parseStructStatement() ast.Statement {
	start := p.curToken.Span.Start
	st := &ast.StructStatement{}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	st.Name = p.curToken.Lexeme
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		name := p.curToken.Lexeme
		if !p.expectPeek(token.COLON) {
			p.recoverToStatementBoundary()
			p.nextToken()
			continue
		}
		p.nextToken()
		typ := p.parseTypeExpr()
		st.Fields = append(st.Fields, ast.StructField{Name: name, Type: typ})
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
		p.nextToken()
	}
	st.Span = ast.Span{Start: start, End: p.curToken.Span.End}
	return st
}

// ---- statements ----

func (p *Parser) parseAssignStatement() ast.Statement {
	start := p.curToken.Span.Start
	mutable := p.curTokenIs(token.VAR)
	a := &ast.AssignStatement{Mutable: mutable}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	a.Name = p.curToken.Lexeme

	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		a.Annotation = p.parseTypeExpr()
	}

	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	a.Value = p.parseExpression(LOWEST)

	if !p.expectPeek(token.SEMI) {
		a.Span = ast.Span{Start: start, End: p.curToken.Span.End}
		return a
	}
	a.Span = ast.Span{Start: start, End: p.curToken.Span.End}
	return a
}

func (p *Parser) parseReturnStatement() ast.Statement {
	start := p.curToken.Span.Start
	r := &ast.ReturnStatement{}
	if p.peekTokenIs(token.SEMI) {
		p.nextToken()
		r.Span = ast.Span{Start: start, End: p.curToken.Span.End}
		return r
	}
	p.nextToken()
	r.Value = p.parseExpression(LOWEST)
	if !p.expectPeek(token.SEMI) {
		r.Span = ast.Span{Start: start, End: p.curToken.Span.End}
		return r
	}
	r.Span = ast.Span{Start: start, End: p.curToken.Span.End}
	return r
}

func (p *Parser) parseIfStatement() ast.Statement {
	start := p.curToken.Span.Start
	st := &ast.IfStatement{}
	p.nextToken()
	st.Condition = p.parseExpression(LOWEST)
	st.Body = p.parseBlockStatement()
	st.Span = ast.Span{Start: start, End: st.Body.SpanOf().End}
	return st
}

func (p *Parser) parseWhileStatement() ast.Statement {
	start := p.curToken.Span.Start
	st := &ast.WhileStatement{}
	p.nextToken()
	st.Condition = p.parseExpression(LOWEST)
	st.Body = p.parseBlockStatement()
	st.Span = ast.Span{Start: start, End: st.Body.SpanOf().End}
	return st
}

// parseExpressionOrReassignStatement handles both `expr;` statements and
// `lvalue = expr;` reassignments, which share the same leading token set
// (identifier, array access, struct access all start as primary
// expressions) and are only disambiguated by a following `=`.
func (p *Parser) parseExpressionOrReassignStatement() ast.Statement {
	start := p.curToken.Span.Start
	expr := p.parseExpression(LOWEST)

	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		value := p.parseExpression(LOWEST)
		r := &ast.ReassignStatement{Target: expr, Value: value}
		if !p.expectPeek(token.SEMI) {
			r.Span = ast.Span{Start: start, End: p.curToken.Span.End}
			return r
		}
		r.Span = ast.Span{Start: start, End: p.curToken.Span.End}
		return r
	}

	es := &ast.ExpressionStatement{Expr: expr}
	if !p.expectPeek(token.SEMI) {
		es.Span = ast.Span{Start: start, End: p.curToken.Span.End}
		return es
	}
	es.Span = ast.Span{Start: start, End: p.curToken.Span.End}
	return es
}

// ---- type expressions ----

func (p *Parser) parseTypeExpr() *ast.TypeExpr {
	start := p.curToken.Span.Start
	switch p.curToken.Kind {
	case token.AMP:
		p.nextToken()
		inner := p.parseTypeExpr()
		return &ast.TypeExpr{Span: ast.Span{Start: start, End: p.curToken.Span.End}, Pointee: inner}
	case token.LBRACKET:
		p.nextToken()
		elem := p.parseTypeExpr()
		te := &ast.TypeExpr{ArrayElem: elem}
		if p.peekTokenIs(token.SEMI) {
			p.nextToken()
			p.nextToken()
			if p.curTokenIs(token.INTEGER) {
				n := int(p.curToken.Literal.(int64))
				te.ArraySize = &n
			} else {
				p.error(diagnostics.ExpectedToken, p.curToken.Span, "INTEGER", p.curToken.Kind.String())
			}
		}
		if !p.expectPeek(token.RBRACKET) {
			te.Span = ast.Span{Start: start, End: p.curToken.Span.End}
			return te
		}
		te.Span = ast.Span{Start: start, End: p.curToken.Span.End}
		return te
	case token.IDENT:
		te := &ast.TypeExpr{Name: p.curToken.Lexeme, Span: ast.Span{Start: start, End: p.curToken.Span.End}}
		return te
	default:
		p.error(diagnostics.ExpectedToken, p.curToken.Span, "type", p.curToken.Kind.String())
		return &ast.TypeExpr{Span: ast.Span{Start: start, End: p.curToken.Span.End}}
	}
}

// ---- expressions ----

func (p *Parser) parseExpression(precedence int) ast.Expression {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}
	for !p.peekTokenIs(token.SEMI) {
		if p.peekTokenIs(token.LPAREN) && precedence < CALL {
			p.nextToken()
			left = p.parseCallExpression(left)
			continue
		}
		if p.peekTokenIs(token.LBRACKET) && precedence < CALL {
			p.nextToken()
			left = p.parseIndexExpression(left)
			continue
		}
		if p.peekTokenIs(token.DOT) && precedence < CALL {
			p.nextToken()
			left = p.parseStructAccessExpression(left)
			continue
		}
		op, isInfix := infixOperators[p.peekToken.Kind]
		if !isInfix || precedence >= p.peekPrecedence() {
			return left
		}
		p.nextToken()
		left = p.parseInfixExpression(left, op)
	}
	return left
}

func (p *Parser) parseStructAccessExpression(left ast.Expression) ast.Expression {
	start := left.SpanOf().Start
	if !p.expectPeek(token.IDENT) {
		sa := &ast.StructAccessExpression{Struct: left}
		sa.Span = ast.Span{Start: start, End: p.curToken.Span.End}
		return sa
	}
	field := &ast.Identifier{Name: p.curToken.Lexeme}
	field.Span = toSpan(p.curToken.Span)
	sa := &ast.StructAccessExpression{Struct: left, Field: field}
	sa.Span = ast.Span{Start: start, End: field.Span.End}
	return sa
}

func (p *Parser) parsePrefix() ast.Expression {
	switch p.curToken.Kind {
	case token.INTEGER:
		return p.parseNumber()
	case token.STRING:
		return p.parseStringLiteral()
	case token.CHAR:
		return p.parseCharLiteral()
	case token.TRUE, token.FALSE:
		return newBoolLiteral(p.curTokenIs(token.TRUE), p.curToken.Span)
	case token.IDENT:
		return p.parseIdentOrStructInit()
	case token.BANG:
		return p.parseNotExpression()
	case token.AMP:
		return p.parsePointerExpression()
	case token.LPAREN:
		return p.parseGroupedExpression()
	case token.LBRACKET:
		return p.parseArrayExpression()
	default:
		p.error(diagnostics.ExpectedExpression, p.curToken.Span, p.curToken.Kind.String(), "")
		return nil
	}
}

func (p *Parser) parseNumber() ast.Expression {
	start := p.curToken.Span
	if p.peekTokenIs(token.DOT) {
		// int DOT digits -> float literal
		intPart := p.curToken.Lexeme
		intVal := p.curToken.Literal.(int64)
		p.nextToken() // consume '.'
		if !p.expectPeek(token.INTEGER) {
			lit := &ast.IntegerLiteral{Value: intVal}
			lit.Span = toSpan(start)
			return lit
		}
		fracPart := p.curToken.Lexeme
		text := intPart + "." + fracPart
		val, err := strconv.ParseFloat(text, 64)
		if err != nil {
			p.error(diagnostics.ExpectedExpression, p.curToken.Span, text, "")
		}
		lit := &ast.FloatLiteral{Value: val}
		lit.Span = ast.Span{Start: start.Start, End: p.curToken.Span.End}
		return lit
	}
	lit := &ast.IntegerLiteral{Value: p.curToken.Literal.(int64)}
	lit.Span = toSpan(p.curToken.Span)
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expression {
	decoded, ok := decodeEscapes(p.curToken.Literal.(string))
	if !ok {
		p.error(diagnostics.InvalidEscape, p.curToken.Span, "", "")
	}
	lit := &ast.StringLiteral{Value: decoded}
	lit.Span = toSpan(p.curToken.Span)
	return lit
}

func (p *Parser) parseCharLiteral() ast.Expression {
	raw := p.curToken.Literal.(string)
	decoded, ok := decodeEscapes(raw)
	if !ok || len(decoded) != 1 {
		p.error(diagnostics.InvalidEscape, p.curToken.Span, "", "")
		decoded = "\x00"
	}
	lit := &ast.IntegerLiteral{Value: int64(decoded[0])}
	lit.Span = toSpan(p.curToken.Span)
	return lit
}

// decodeEscapes turns a raw string/char body (as sliced verbatim by the
// lexer) into its decoded runtime value, recognizing \n \t \r \\ \" \' \0.
func decodeEscapes(raw string) (string, bool) {
	var b strings.Builder
	ok := true
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(raw) {
			ok = false
			break
		}
		switch raw[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case '\'':
			b.WriteByte('\'')
		case '0':
			b.WriteByte(0)
		default:
			ok = false
			b.WriteByte(raw[i])
		}
	}
	return b.String(), ok
}

func newBoolLiteral(value bool, span token.Span) *ast.BooleanLiteral {
	lit := &ast.BooleanLiteral{Value: value}
	lit.Span = toSpan(span)
	return lit
}

func (p *Parser) parseIdentOrStructInit() ast.Expression {
	if p.peekTokenIs(token.LBRACE) {
		return p.parseStructInitExpression()
	}
	id := &ast.Identifier{Name: p.curToken.Lexeme}
	id.Span = toSpan(p.curToken.Span)
	return id
}

func (p *Parser) parseStructInitExpression() ast.Expression {
	start := p.curToken.Span.Start
	name := &ast.Identifier{Name: p.curToken.Lexeme}
	name.Span = toSpan(p.curToken.Span)

	si := &ast.StructInitExpression{Name: name}
	if !p.expectPeek(token.LBRACE) {
		si.Span = ast.Span{Start: start, End: p.curToken.Span.End}
		return si
	}
	if p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		si.Span = ast.Span{Start: start, End: p.curToken.Span.End}
		return si
	}
	p.nextToken()
	si.Fields = append(si.Fields, p.parseStructFieldInit())
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if p.peekTokenIs(token.RBRACE) {
			break
		}
		p.nextToken()
		si.Fields = append(si.Fields, p.parseStructFieldInit())
	}
	if !p.expectPeek(token.RBRACE) {
		si.Span = ast.Span{Start: start, End: p.curToken.Span.End}
		return si
	}
	si.Span = ast.Span{Start: start, End: p.curToken.Span.End}
	return si
}

func (p *Parser) parseStructFieldInit() ast.StructFieldInit {
	name := p.curToken.Lexeme
	if !p.expectPeek(token.COLON) {
		return ast.StructFieldInit{Name: name}
	}
	p.nextToken()
	val := p.parseExpression(LOWEST)
	return ast.StructFieldInit{Name: name, Value: val}
}

func (p *Parser) parseNotExpression() ast.Expression {
	start := p.curToken.Span.Start
	p.nextToken()
	inner := p.parseExpression(PREFIX)
	n := &ast.NotExpression{Inner: inner}
	end := start
	if inner != nil {
		end = inner.SpanOf().End
	}
	n.Span = ast.Span{Start: start, End: end}
	return n
}

func (p *Parser) parsePointerExpression() ast.Expression {
	start := p.curToken.Span.Start
	p.nextToken()
	inner := p.parseExpression(PREFIX)
	n := &ast.PointerExpression{Inner: inner}
	end := start
	if inner != nil {
		end = inner.SpanOf().End
	}
	n.Span = ast.Span{Start: start, End: end}
	return n
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return expr
	}
	return expr
}

func (p *Parser) parseArrayExpression() ast.Expression {
	start := p.curToken.Span.Start
	ae := &ast.ArrayExpression{}
	if p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		ae.Span = ast.Span{Start: start, End: p.curToken.Span.End}
		return ae
	}
	p.nextToken()
	first := p.parseExpression(LOWEST)

	if p.peekTokenIs(token.SEMI) {
		p.nextToken()
		p.nextToken()
		ae.Repeat = true
		ae.Items = []ast.Expression{first}
		ae.RepeatCount = p.parseExpression(LOWEST)
		if !p.expectPeek(token.RBRACKET) {
			ae.Span = ast.Span{Start: start, End: p.curToken.Span.End}
			return ae
		}
		ae.Span = ast.Span{Start: start, End: p.curToken.Span.End}
		return ae
	}

	ae.Items = append(ae.Items, first)
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if p.peekTokenIs(token.RBRACKET) {
			break
		}
		p.nextToken()
		ae.Items = append(ae.Items, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(token.RBRACKET) {
		ae.Span = ast.Span{Start: start, End: p.curToken.Span.End}
		return ae
	}
	ae.Span = ast.Span{Start: start, End: p.curToken.Span.End}
	return ae
}

func (p *Parser) parseInfixExpression(left ast.Expression, op ast.Operator) ast.Expression {
	prec := p.curPrecedence()
	startTok := p.curToken
	p.nextToken()
	right := p.parseExpression(prec)
	ie := &ast.InfixExpression{Left: left, Operator: op, Right: right}
	start := left.SpanOf().Start
	end := startTok.Span.End
	if right != nil {
		end = right.SpanOf().End
	}
	ie.Span = ast.Span{Start: start, End: end}
	return ie
}

func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	id, ok := callee.(*ast.Identifier)
	if !ok {
		p.error(diagnostics.ExpectedExpression, p.curToken.Span, "function name", "")
	}
	start := callee.SpanOf().Start
	call := &ast.FunctionCallExpression{Callee: id}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		call.Span = ast.Span{Start: start, End: p.curToken.Span.End}
		return call
	}
	p.nextToken()
	call.Args = append(call.Args, p.parseExpression(LOWEST))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		call.Args = append(call.Args, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(token.RPAREN) {
		call.Span = ast.Span{Start: start, End: p.curToken.Span.End}
		return call
	}
	call.Span = ast.Span{Start: start, End: p.curToken.Span.End}
	return call
}

func (p *Parser) parseIndexExpression(arr ast.Expression) ast.Expression {
	start := arr.SpanOf().Start
	p.nextToken()
	idx := p.parseExpression(LOWEST)
	aa := &ast.ArrayAccessExpression{Array: arr, Index: idx}
	if !p.expectPeek(token.RBRACKET) {
		aa.Span = ast.Span{Start: start, End: p.curToken.Span.End}
		return aa
	}
	aa.Span = ast.Span{Start: start, End: p.curToken.Span.End}
	return aa
}
