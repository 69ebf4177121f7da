package parser

import (
	"github.com/voxelforge/blockscript/lang/ast"
	"github.com/voxelforge/blockscript/lang/token"
)

// block parses a brace-delimited statement list, consuming both braces.
func (p *Parser) block() []ast.Stmt {
	p.expect(token.LBRACE)
	var stmts []ast.Stmt
	for p.tok != token.RBRACE && p.tok != token.EOF {
		stmts = append(stmts, p.stmt())
	}
	p.expect(token.RBRACE)
	return stmts
}

func (p *Parser) stmt() ast.Stmt {
	switch p.tok {
	case token.IF:
		return p.ifStmt()
	case token.WHILE:
		return p.whileStmt()
	case token.RETURN:
		return p.returnStmt()
	case token.STRUCT:
		return p.structDecl()
	case token.ENUM:
		return p.enumDecl()
	case token.IDENT:
		// "ident {" opens a tree modifier statement; anything else
		// starting with an identifier is an expression statement.
		if p.peekNext() == token.LBRACE {
			return p.treeModifierStmt()
		}
		return p.exprStmt()
	default:
		return p.exprStmt()
	}
}

func (p *Parser) ifStmt() ast.Stmt {
	ifPos := p.expect(token.IF).Pos
	p.expect(token.LPAREN)
	cond := p.expr()
	p.expect(token.RPAREN)
	body := p.block()

	stmt := &ast.IfStmt{If: ifPos, Cond: cond, Body: body}
	for p.tok == token.ELSE {
		p.next()
		if p.tok == token.IF {
			p.next()
			p.expect(token.LPAREN)
			elseCond := p.expr()
			p.expect(token.RPAREN)
			elseBody := p.block()
			stmt.Elses = append(stmt.Elses, &ast.ElseClause{Cond: elseCond, Body: elseBody})
			continue
		}
		elseBody := p.block()
		stmt.Elses = append(stmt.Elses, &ast.ElseClause{Body: elseBody})
		break
	}
	return stmt
}

func (p *Parser) whileStmt() ast.Stmt {
	whilePos := p.expect(token.WHILE).Pos
	p.expect(token.LPAREN)
	cond := p.expr()
	p.expect(token.RPAREN)
	body := p.block()
	return &ast.WhileStmt{While: whilePos, Cond: cond, Body: body}
}

func (p *Parser) returnStmt() ast.Stmt {
	retPos := p.expect(token.RETURN).Pos
	var x ast.Expr
	if p.tok != token.SEMI {
		x = p.expr()
	}
	p.expect(token.SEMI)
	return &ast.ReturnStmt{Return: retPos, X: x}
}

func (p *Parser) exprStmt() ast.Stmt {
	x := p.expr()
	p.expect(token.SEMI)
	return &ast.ExprStmt{X: x}
}

// treeModifierStmt parses "ident { expr, expr, ... };", the statement
// form applying a batch of property values to a named tree node.
func (p *Parser) treeModifierStmt() ast.Stmt {
	nameVal := p.expect(token.IDENT)
	p.expect(token.LBRACE)
	var values []ast.Expr
	if p.tok != token.RBRACE {
		for {
			values = append(values, p.expr())
			if !p.accept(token.COMMA) {
				break
			}
		}
	}
	rbrace := p.expect(token.RBRACE).Pos
	p.expect(token.SEMI)
	return &ast.TreeModifierStmt{
		Var:    &ast.Ident{Name: nameVal.Raw, NamePos: nameVal.Pos},
		Values: values,
		RBrace: rbrace,
	}
}
