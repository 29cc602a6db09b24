package parser

import (
	"github.com/sunholo/lwlang/internal/ast"
	"github.com/sunholo/lwlang/internal/lexer"
)

// parseImport parses `FROM path IMPORT targets` where targets is `*`, a
// single `name [AS alias]`, or a parenthesized list.
func (p *Parser) parseImport() *ast.Import {
	start := p.cur
	p.next() // consume FROM

	path := p.parsePath()
	if path == nil {
		return nil
	}
	if !p.expect(lexer.IMPORT) {
		return nil
	}

	imp := &ast.Import{Path: path}

	switch p.cur.Type {
	case lexer.STAR:
		imp.Lno = span(start, p.cur)
		imp.Wildcard = true
		p.next()
	case lexer.LPAREN:
		p.next()
		for p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.EOF {
			target := p.parseImportFunc()
			if target == nil {
				return nil
			}
			imp.Funcs = append(imp.Funcs, target)
			if p.cur.Type == lexer.COMMA {
				p.next()
			}
		}
		end := p.cur
		if !p.expect(lexer.RPAREN) {
			return nil
		}
		imp.Lno = span(start, end)
	case lexer.IDENT:
		target := p.parseImportFunc()
		if target == nil {
			return nil
		}
		imp.Funcs = append(imp.Funcs, target)
		imp.Lno = span(start, p.cur)
	default:
		p.errorf("unexpected token %s in import, expected *, ( or identifier", p.cur)
		p.recover()
		return nil
	}

	return imp
}

func (p *Parser) parseImportFunc() *ast.ImportFunc {
	if p.cur.Type != lexer.IDENT {
		p.errorf("unexpected token %s, expected imported function name", p.cur)
		p.recover()
		return nil
	}
	target := &ast.ImportFunc{Ident: p.parseIdent()}
	if p.cur.Type == lexer.AS {
		p.next()
		target.Alias = p.parseIdent()
	}
	return target
}

// parsePath parses `seg(::seg)*`.
func (p *Parser) parsePath() []string {
	if p.cur.Type != lexer.IDENT {
		p.errorf("unexpected token %s, expected module path", p.cur)
		p.recover()
		return nil
	}
	path := []string{p.cur.Lit}
	p.next()
	for p.cur.Type == lexer.PATHSEP {
		p.next()
		if p.cur.Type != lexer.IDENT {
			p.errorf("unexpected token %s, expected path segment", p.cur)
			p.recover()
			return nil
		}
		path = append(path, p.cur.Lit)
		p.next()
	}
	return path
}

// parseFuncDecl parses `FN name(params) -> ret DECL body END`.
func (p *Parser) parseFuncDecl() *ast.FuncDecl {
	start := p.cur
	p.next() // consume FN

	ident := p.parseIdent()
	if !p.expect(lexer.LPAREN) {
		return nil
	}

	var params []ast.Node
	for p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.EOF {
		params = append(params, p.parseIdent())
		if p.cur.Type == lexer.COMMA {
			p.next()
		}
	}
	if !p.expect(lexer.RPAREN) {
		return nil
	}
	if !p.expect(lexer.ARROW) {
		return nil
	}
	ret := p.parseIdent()

	if !p.expect(lexer.DECL) {
		return nil
	}
	body := p.parseTerms(lexer.END)
	end := p.cur
	if !p.expect(lexer.END) {
		return nil
	}

	return &ast.FuncDecl{
		Lno:    span(start, end),
		Ident:  ident,
		Params: params,
		Ret:    ret,
		Body:   body,
	}
}
