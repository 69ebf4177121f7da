package parser

import (
	"github.com/voxelforge/blockscript/lang/ast"
	"github.com/voxelforge/blockscript/lang/token"
)

func (p *Parser) topLevelDecl() ast.Stmt {
	switch p.tok {
	case token.STRUCT:
		return p.structDecl()
	case token.ENUM:
		return p.enumDecl()
	default:
		return p.funcDecl()
	}
}

func (p *Parser) structDecl() ast.Stmt {
	pos := p.expect(token.STRUCT).Pos
	name := p.expect(token.IDENT).Raw
	p.expect(token.LBRACE)

	var fields []ast.StructField
	for p.tok != token.RBRACE {
		typeName := p.expect(token.IDENT).Raw
		fieldName := p.expect(token.IDENT).Raw
		p.expect(token.SEMI)
		fields = append(fields, ast.StructField{Name: fieldName, TypeName: typeName})
	}
	p.expect(token.RBRACE)
	p.expect(token.SEMI)
	return &ast.StructDecl{Pos: pos, Name: name, Fields: fields}
}

func (p *Parser) enumDecl() ast.Stmt {
	pos := p.expect(token.ENUM).Pos
	name := p.expect(token.IDENT).Raw
	p.expect(token.LBRACE)

	var enumerants []string
	for {
		enumerants = append(enumerants, p.expect(token.IDENT).Raw)
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	p.expect(token.SEMI)
	return &ast.EnumDecl{Pos: pos, Name: name, Enumerants: enumerants}
}

// funcDecl parses "ret name(args) { ... }" or a forward declaration
// "ret name(args);". A leading "void" spells a nil return type.
func (p *Parser) funcDecl() ast.Stmt {
	retPos := p.val.Pos
	retName := p.expect(token.IDENT).Raw
	if retName == "void" {
		retName = ""
	}
	name := p.expect(token.IDENT).Raw
	p.expect(token.LPAREN)
	args := p.argList()
	p.expect(token.RPAREN)

	fd := &ast.FuncDecl{FuncPos: retPos, Name: name, Args: args, RetName: retName}
	if p.accept(token.SEMI) {
		return fd
	}
	fd.Body = p.block()
	return fd
}

func (p *Parser) argList() []*ast.ArgDecl {
	var args []*ast.ArgDecl
	if p.tok == token.RPAREN {
		return args
	}
	for {
		typeName := p.expect(token.IDENT).Raw
		nameVal := p.expect(token.IDENT)
		args = append(args, &ast.ArgDecl{TypeName: typeName, Name: nameVal.Raw, NamePos: nameVal.Pos})
		if !p.accept(token.COMMA) {
			break
		}
	}
	return args
}
