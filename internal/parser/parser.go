// Package parser turns lwlang source text into the surface AST.
//
// The grammar is line oriented: statements are separated by newlines or
// semicolons, keywords are case-insensitive, and `...` is a no-op. The
// parser produces the polluted tree of package ast — macro forms and
// function calls included — which the elaborator later lowers.
package parser

import (
	"math/big"

	"github.com/sunholo/lwlang/internal/ast"
	"github.com/sunholo/lwlang/internal/errors"
	"github.com/sunholo/lwlang/internal/lexer"
)

// Parser consumes a token stream with one token of lookahead.
type Parser struct {
	l    *lexer.Lexer
	cur  lexer.Token
	peek lexer.Token
	errs errors.List
}

// New creates a Parser over l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.next()
	p.next()
	return p
}

// Parse parses a whole module: imports, function declarations, and
// top-level code.
func Parse(source string) (*ast.Module, errors.List) {
	return New(lexer.New(source)).ParseModule()
}

// ParseModule parses until EOF.
func (p *Parser) ParseModule() (*ast.Module, errors.List) {
	mod := &ast.Module{}
	var code []ast.Node

	p.skipSeparators()
	for p.cur.Type != lexer.EOF {
		switch p.cur.Type {
		case lexer.FROM:
			if imp := p.parseImport(); imp != nil {
				mod.Imports = append(mod.Imports, imp)
			}
		case lexer.FN:
			if decl := p.parseFuncDecl(); decl != nil {
				mod.Decls = append(mod.Decls, decl)
			}
		default:
			if stmt := p.parseStatement(); stmt != nil {
				code = append(code, stmt)
			}
		}
		p.expectSeparator()
		p.skipSeparators()
	}

	mod.Code = &ast.Terms{List: code}
	return mod, p.errs
}

// parseStatement parses one non-declaration statement.
func (p *Parser) parseStatement() ast.Node {
	switch p.cur.Type {
	case lexer.ELLIPSIS:
		p.next()
		return &ast.NoOp{}
	case lexer.LOOP:
		return p.parseLoop()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.IF:
		return p.parseCond()
	case lexer.IDENT:
		return p.parseAssign()
	default:
		p.errorf("unexpected token %s, expected a statement", p.cur)
		p.recover()
		return nil
	}
}

// parseTerms parses statements until one of the stop tokens.
func (p *Parser) parseTerms(stop ...lexer.TokenType) *ast.Terms {
	terms := &ast.Terms{}
	p.skipSeparators()
	for p.cur.Type != lexer.EOF && !tokenIn(p.cur.Type, stop) {
		if stmt := p.parseStatement(); stmt != nil {
			terms.List = append(terms.List, stmt)
		}
		p.expectSeparator()
		p.skipSeparators()
	}
	return terms
}

func (p *Parser) parseLoop() ast.Node {
	start := p.cur
	p.next()
	ident := p.parseIdent()
	if !p.expect(lexer.DO) {
		return nil
	}
	body := p.parseTerms(lexer.END)
	end := p.cur
	if !p.expect(lexer.END) {
		return nil
	}
	return &ast.Loop{Lno: span(start, end), Ident: ident, Body: body}
}

func (p *Parser) parseWhile() ast.Node {
	start := p.cur
	p.next()
	comp := p.parseComparison()
	if !p.expect(lexer.DO) {
		return nil
	}
	body := p.parseTerms(lexer.END)
	end := p.cur
	if !p.expect(lexer.END) {
		return nil
	}
	return &ast.While{Lno: span(start, end), Comp: comp, Body: body}
}

func (p *Parser) parseCond() ast.Node {
	start := p.cur
	p.next()
	comp := p.parseComparison()
	if !p.expect(lexer.THEN) {
		return nil
	}
	ifTerms := p.parseTerms(lexer.ELSE, lexer.END)

	var elseTerms ast.Node
	if p.cur.Type == lexer.ELSE {
		p.next()
		elseTerms = p.parseTerms(lexer.END)
	}
	end := p.cur
	if !p.expect(lexer.END) {
		return nil
	}
	return &ast.Cond{Lno: span(start, end), Comp: comp, If: ifTerms, Else: elseTerms}
}

// parseAssign parses `x := rhs` (also spelled `x = rhs`) and classifies
// the right-hand side into the kernel form or one of the macros.
func (p *Parser) parseAssign() ast.Node {
	start := p.cur
	lhs := p.parseIdent()

	if p.cur.Type != lexer.WALRUS && p.cur.Type != lexer.ASSIGN {
		p.errorf("unexpected token %s, expected := after %s", p.cur, lhs)
		p.recover()
		return nil
	}
	p.next()

	switch p.cur.Type {
	case lexer.NUMBER:
		tok := p.cur
		value := p.parseNat()
		lno := span(start, tok)
		if value.Value.Sign() == 0 {
			return &ast.AssignZero{Lno: lno, Lhs: lhs}
		}
		return &ast.AssignValue{Lno: lno, Lhs: lhs, Rhs: value}

	case lexer.IDENT:
		first := p.cur
		rhs := p.parseIdent()

		// Function call?
		if p.cur.Type == lexer.LPAREN {
			args := p.parseCallArgs()
			return &ast.Call{Lno: span(start, first), Lhs: lhs, Func: rhs, Args: args}
		}

		// Plain copy?
		op, isOp := astOp(p.cur.Type)
		if !isOp {
			return &ast.AssignIdent{Lno: span(start, first), Lhs: lhs, Rhs: rhs}
		}
		opTok := p.cur
		p.next()

		switch p.cur.Type {
		case lexer.NUMBER:
			tok := p.cur
			value := p.parseNat()
			lno := span(start, tok)
			if op == ast.OpMultiply {
				return &ast.AssignBinOpValue{
					Lno: lno,
					Lhs: lhs,
					Rhs: ast.MacroAssign{Lhs: rhs, Verb: op, Rhs: value},
				}
			}
			// `x := y ± c` is already kernel form.
			return &ast.Assign{
				Lno: lno,
				Lhs: lhs,
				Rhs: &ast.BinOp{Lhs: rhs, Verb: op, Rhs: value},
			}
		case lexer.IDENT:
			tok := p.cur
			z := p.parseIdent()
			return &ast.AssignBinOp{
				Lno: span(start, tok),
				Lhs: lhs,
				Rhs: ast.MacroAssign{Lhs: rhs, Verb: op, Rhs: z},
			}
		default:
			p.errorf("unexpected token %s after %s %s", p.cur, rhs, opTok.Lit)
			p.recover()
			return nil
		}

	default:
		p.errorf("unexpected token %s in assignment to %s", p.cur, lhs)
		p.recover()
		return nil
	}
}

func (p *Parser) parseCallArgs() []ast.Node {
	var args []ast.Node
	p.next() // consume '('
	for p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.EOF {
		switch p.cur.Type {
		case lexer.IDENT:
			args = append(args, p.parseIdent())
		case lexer.NUMBER:
			args = append(args, p.parseNat())
		default:
			p.errorf("unexpected token %s in argument list", p.cur)
			p.recover()
			return args
		}
		if p.cur.Type == lexer.COMMA {
			p.next()
		}
	}
	p.expect(lexer.RPAREN)
	return args
}

// parseComparison parses `atom verb atom`. A bare `=` counts as
// equality here.
func (p *Parser) parseComparison() ast.Node {
	lhs := p.parseAtom()

	verb, ok := compVerb(p.cur.Type)
	if !ok {
		p.errorf("unexpected token %s, expected a comparison operator", p.cur)
		p.recover()
		return nil
	}
	p.next()

	rhs := p.parseAtom()
	if lhs == nil || rhs == nil {
		return nil
	}
	return &ast.Comparison{Lhs: lhs, Verb: verb, Rhs: rhs}
}

func (p *Parser) parseAtom() ast.Node {
	switch p.cur.Type {
	case lexer.IDENT:
		return p.parseIdent()
	case lexer.NUMBER:
		return p.parseNat()
	default:
		p.errorf("unexpected token %s, expected identifier or number", p.cur)
		p.recover()
		return nil
	}
}

func (p *Parser) parseIdent() *ast.Ident {
	if p.cur.Type != lexer.IDENT {
		p.errorf("unexpected token %s, expected identifier", p.cur)
		p.recover()
		return &ast.Ident{Name: "<error>"}
	}
	ident := &ast.Ident{Name: p.cur.Lit}
	p.next()
	return ident
}

func (p *Parser) parseNat() *ast.Nat {
	if p.cur.Type != lexer.NUMBER {
		p.errorf("unexpected token %s, expected number", p.cur)
		p.recover()
		return &ast.Nat{Value: big.NewInt(0)}
	}
	value, ok := new(big.Int).SetString(p.cur.Lit, 10)
	if !ok {
		p.errorf("invalid number literal %q", p.cur.Lit)
		value = big.NewInt(0)
	}
	p.next()
	return &ast.Nat{Value: value}
}

// Token plumbing.

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) expect(typ lexer.TokenType) bool {
	if p.cur.Type != typ {
		p.errorf("unexpected token %s, expected %s", p.cur, typ)
		p.recover()
		return false
	}
	p.next()
	return true
}

// expectSeparator requires a statement boundary: a separator token, a
// block terminator, or EOF.
func (p *Parser) expectSeparator() {
	switch p.cur.Type {
	case lexer.NEWLINE:
		p.next()
	case lexer.EOF, lexer.END, lexer.ELSE:
	default:
		p.errorf("unexpected token %s, expected end of statement", p.cur)
		p.recover()
	}
}

func (p *Parser) skipSeparators() {
	for p.cur.Type == lexer.NEWLINE {
		p.next()
	}
}

// recover skips to the next statement boundary after an error.
func (p *Parser) recover() {
	for p.cur.Type != lexer.NEWLINE && p.cur.Type != lexer.EOF &&
		p.cur.Type != lexer.END && p.cur.Type != lexer.ELSE {
		p.next()
	}
}

func (p *Parser) errorf(format string, args ...any) {
	lno := ast.NewLineNo(p.cur.Line, p.cur.Column)
	p.errs = p.errs.Append(errors.Newf(errors.Parse, &lno, format, args...))
}

func span(start, end lexer.Token) ast.LineNo {
	return ast.LineNo{
		RowStart: start.Line,
		RowEnd:   end.Line,
		ColStart: start.Column,
		ColEnd:   end.Column,
	}
}

func astOp(typ lexer.TokenType) (ast.OpVerb, bool) {
	switch typ {
	case lexer.PLUS:
		return ast.OpPlus, true
	case lexer.MINUS:
		return ast.OpMinus, true
	case lexer.STAR:
		return ast.OpMultiply, true
	}
	return 0, false
}

func compVerb(typ lexer.TokenType) (ast.CompVerb, bool) {
	switch typ {
	case lexer.EQ, lexer.ASSIGN:
		return ast.CompEq, true
	case lexer.NEQ:
		return ast.CompNe, true
	case lexer.LT:
		return ast.CompLt, true
	case lexer.LTE:
		return ast.CompLe, true
	case lexer.GT:
		return ast.CompGt, true
	case lexer.GTE:
		return ast.CompGe, true
	}
	return 0, false
}

func tokenIn(typ lexer.TokenType, set []lexer.TokenType) bool {
	for _, t := range set {
		if t == typ {
			return true
		}
	}
	return false
}
