package parser

import (
	"github.com/voxelforge/blockscript/lang/ast"
	"github.com/voxelforge/blockscript/lang/token"
)

// expr parses a full expression, starting at assignment precedence (the
// lowest). Assignment is right-associative; every other binary operator
// below is left-associative.
func (p *Parser) expr() ast.Expr {
	return p.assignExpr()
}

func (p *Parser) assignExpr() ast.Expr {
	x := p.logicalOrExpr()
	if p.tok == token.EQ {
		opPos := p.val.Pos
		p.next()
		y := p.assignExpr()
		return &ast.BinaryExpr{X: x, Op: token.EQ, OpPos: opPos, Y: y}
	}
	return x
}

func (p *Parser) logicalOrExpr() ast.Expr {
	x := p.logicalAndExpr()
	for p.tok == token.OR {
		op, opPos := p.tok, p.val.Pos
		p.next()
		y := p.logicalAndExpr()
		x = &ast.BinaryExpr{X: x, Op: op, OpPos: opPos, Y: y}
	}
	return x
}

func (p *Parser) logicalAndExpr() ast.Expr {
	x := p.equalityExpr()
	for p.tok == token.AND {
		op, opPos := p.tok, p.val.Pos
		p.next()
		y := p.equalityExpr()
		x = &ast.BinaryExpr{X: x, Op: op, OpPos: opPos, Y: y}
	}
	return x
}

func (p *Parser) equalityExpr() ast.Expr {
	x := p.relationalExpr()
	for p.tok == token.EQL || p.tok == token.NEQ {
		op, opPos := p.tok, p.val.Pos
		p.next()
		y := p.relationalExpr()
		x = &ast.BinaryExpr{X: x, Op: op, OpPos: opPos, Y: y}
	}
	return x
}

func (p *Parser) relationalExpr() ast.Expr {
	x := p.additiveExpr()
	for p.tok == token.LT || p.tok == token.GT || p.tok == token.LE || p.tok == token.GE {
		op, opPos := p.tok, p.val.Pos
		p.next()
		y := p.additiveExpr()
		x = &ast.BinaryExpr{X: x, Op: op, OpPos: opPos, Y: y}
	}
	return x
}

func (p *Parser) additiveExpr() ast.Expr {
	x := p.multiplicativeExpr()
	for p.tok == token.PLUS || p.tok == token.MINUS {
		op, opPos := p.tok, p.val.Pos
		p.next()
		y := p.multiplicativeExpr()
		x = &ast.BinaryExpr{X: x, Op: op, OpPos: opPos, Y: y}
	}
	return x
}

func (p *Parser) multiplicativeExpr() ast.Expr {
	x := p.unaryExpr()
	for p.tok == token.STAR || p.tok == token.SLASH || p.tok == token.PERCENT {
		op, opPos := p.tok, p.val.Pos
		p.next()
		y := p.unaryExpr()
		x = &ast.BinaryExpr{X: x, Op: op, OpPos: opPos, Y: y}
	}
	return x
}

func (p *Parser) unaryExpr() ast.Expr {
	switch p.tok {
	case token.MINUS, token.NOT:
		op, opPos := p.tok, p.val.Pos
		p.next()
		x := p.unaryExpr()
		return &ast.UnaryExpr{Op: op, OpPos: opPos, X: x}
	case token.LPAREN:
		// Disambiguate a cast "(type) expr" from a parenthesized
		// expression: a cast's parens hold a single identifier
		// immediately followed by something that cannot start an
		// infix operator, i.e. the start of a unary expression.
		if p.peekNext() == token.IDENT {
			return p.maybeCastExpr()
		}
	}
	return p.postfixExpr()
}

// maybeCastExpr is entered on "(" with an identifier as the very next
// token; it speculatively parses "(" ident ")" and, only if that is
// immediately followed by another unary expression, treats it as an
// explicit cast. Otherwise it rewinds the parser and scanner to the "("
// and parses a parenthesized expression from there.
func (p *Parser) maybeCastExpr() ast.Expr {
	saved, savedSc := *p, *p.sc
	p.next() // consume "("
	name := p.val.Raw
	p.next() // consume ident

	if p.tok == token.RPAREN && startsUnary(p.peekNext()) {
		p.next() // consume ")"
		x := p.unaryExpr()
		return &ast.CastExpr{X: x, TypeName: name}
	}
	// Not a cast: rewind to the "(" and parse a parenthesized expression.
	*p = saved
	*p.sc = savedSc
	return p.postfixExpr()
}

func startsUnary(tok token.Token) bool {
	switch tok {
	case token.IDENT, token.INT, token.FLOAT, token.STRING, token.LPAREN, token.MINUS, token.NOT:
		return true
	default:
		return false
	}
}

func (p *Parser) postfixExpr() ast.Expr {
	x := p.primaryExpr()
	return p.postfixTail(x)
}

func (p *Parser) postfixTail(x ast.Expr) ast.Expr {
	for {
		switch p.tok {
		case token.LBRACK:
			p.next()
			idx := p.expr()
			rbrack := p.expect(token.RBRACK).Pos
			x = &ast.IndexExpr{X: x, Index: idx, RBrack: rbrack}
		case token.DOT:
			p.next()
			sel := p.expect(token.IDENT)
			x = &ast.SelectorExpr{X: x, Sel: sel.Raw, Pos: sel.Pos}
		default:
			return x
		}
	}
}

func (p *Parser) primaryExpr() ast.Expr {
	switch p.tok {
	case token.IDENT:
		name, pos := p.val.Raw, p.val.Pos
		p.next()
		return p.primaryExprFromIdent(name, pos)
	case token.INT:
		v := p.val
		p.next()
		return &ast.ImmExpr{ValuePos: v.Pos, IntVal: v.Int}
	case token.FLOAT:
		v := p.val
		p.next()
		return &ast.ImmExpr{ValuePos: v.Pos, FloatVal: v.Float, IsFloat: true}
	case token.STRING:
		v := p.val
		p.next()
		return &ast.StringExpr{ValuePos: v.Pos, Value: v.String}
	case token.LPAREN:
		p.next()
		x := p.expr()
		p.expect(token.RPAREN)
		return x
	default:
		p.fail("expected expression, got %s", p.tok.GoString())
		return nil
	}
}

// primaryExprFromIdent finishes parsing a primary expression whose
// leading identifier has already been consumed, dispatching to a call
// expression when followed by "(" or a plain identifier reference
// otherwise.
func (p *Parser) primaryExprFromIdent(name string, pos token.Pos) ast.Expr {
	if p.tok != token.LPAREN {
		return &ast.Ident{Name: name, NamePos: pos}
	}
	p.next()
	var args []ast.Expr
	if p.tok != token.RPAREN {
		for {
			args = append(args, p.expr())
			if !p.accept(token.COMMA) {
				break
			}
		}
	}
	rparen := p.expect(token.RPAREN).Pos
	return &ast.CallExpr{Name: name, NamePos: pos, Args: args, RParen: rparen}
}
