package parser

import (
	"strings"

	"rebasic/internal/ast"
	"rebasic/internal/diag"
	"rebasic/internal/token"
)

// parseFormDecl — заголовок формы: Begin VB.Form Form1 ... End.
// Вложенные Begin дают контролы, остальные строки — свойства.
func (p *Parser) parseFormDecl(parent *ast.Node) bool {
	node, ok := p.parseBeginBlock(ast.NodeFormDecl)
	if node != nil {
		parent.Add(node)
	}
	return ok
}

func (p *Parser) parseBeginBlock(kind ast.NodeKind) (*ast.Node, bool) {
	beginTok := p.advance() // Begin

	if !p.at(token.Ident) {
		p.err(diag.SynBadFormHeader, "expected control class after Begin")
		return nil, false
	}
	class, _, ok := p.parseDottedName("expected control class after Begin")
	if !ok {
		return nil, false
	}
	nameTok, ok := p.expectIdent("expected control name after class")
	if !ok {
		p.err(diag.SynBadFormHeader, "Begin block requires a control name")
		return nil, false
	}

	node := p.b.NewNamed(kind, beginTok.Span.Cover(nameTok.Span), nameTok.Text)
	node.SetMeta("class", class)
	p.endStatement()

	for {
		p.skipSeparators()
		switch {
		case p.at(token.KwEnd):
			endTok := p.advance()
			node.Span = node.Span.Cover(endTok.Span)
			p.endStatement()
			return node, true
		case p.at(token.KwBegin):
			child, ok := p.parseBeginBlock(ast.NodeControlDecl)
			if ok {
				node.Add(child)
			} else {
				p.skipToLineEnd()
			}
		case p.at(token.EOF):
			p.err(diag.SynUnterminatedBlock, "missing End for Begin "+class)
			return node, true
		case p.at(token.Ident) && strings.EqualFold(p.peek().Text, "BeginProperty"):
			group, ok := p.parsePropertyGroup()
			if ok {
				node.Add(group)
			}
		case p.at(token.Ident):
			if !p.parsePropertyAssign(node) {
				p.skipToLineEnd()
			}
		default:
			p.err(diag.SynBadFormHeader, "unexpected "+describeToken(p.peek())+" in form body")
			p.skipToLineEnd()
			if p.at(token.Newline) {
				p.advance()
			} else if !p.at(token.EOF) {
				p.advance() // терминатор блока кодом формы не является
			}
		}
	}
}

// parsePropertyAssign — строка свойства: Caption = "Hi". Строковые
// значения могут ссылаться на бинарный ресурс: Icon = "Form1.frx":0000.
func (p *Parser) parsePropertyAssign(parent *ast.Node) bool {
	name, nameSpan, ok := p.parseDottedName("expected property name")
	if !ok {
		return false
	}
	if _, ok := p.expect(token.Eq, diag.SynExpectEq, "expected '=' in property line"); !ok {
		return false
	}
	value, ok := p.parseExpr()
	if !ok {
		return false
	}

	node := p.b.NewNamed(ast.NodePropertyAssign, nameSpan.Cover(value.Span), name)
	node.Add(value)

	if value.Kind == ast.NodeStringLit && p.at(token.Colon) {
		p.advance()
		offTok, ok := p.expect(token.IntLit, diag.SynExpectLiteral, "expected resource offset after ':'")
		if !ok {
			return false
		}
		node.SetMeta("frx", offTok.Text)
		node.Span = node.Span.Cover(offTok.Span)
	}

	parent.Add(node)
	return p.endStatement()
}

// parsePropertyGroup — вложенный блок BeginProperty Font ... EndProperty.
func (p *Parser) parsePropertyGroup() (*ast.Node, bool) {
	bpTok := p.advance() // BeginProperty
	nameTok, ok := p.expectIdent("expected property group name")
	if !ok {
		return nil, false
	}
	node := p.b.NewNamed(ast.NodePropertyAssign, bpTok.Span.Cover(nameTok.Span), nameTok.Text)
	node.SetMeta("group", "1")
	p.skipToLineEnd()
	p.endStatement()

	for {
		p.skipSeparators()
		switch {
		case p.at(token.EOF):
			p.err(diag.SynUnterminatedBlock, "missing EndProperty")
			return node, true
		case p.at(token.Ident) && strings.EqualFold(p.peek().Text, "EndProperty"):
			endTok := p.advance()
			node.Span = node.Span.Cover(endTok.Span)
			p.endStatement()
			return node, true
		case p.at(token.Ident) && strings.EqualFold(p.peek().Text, "BeginProperty"):
			child, ok := p.parsePropertyGroup()
			if ok {
				node.Add(child)
			}
		case p.at(token.Ident):
			if !p.parsePropertyAssign(node) {
				p.skipToLineEnd()
			}
		default:
			p.err(diag.SynBadFormHeader, "unexpected "+describeToken(p.peek())+" in property block")
			p.skipToLineEnd()
			if !p.atOr(token.Newline, token.EOF) {
				p.advance()
			}
		}
	}
}
