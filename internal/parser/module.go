package parser

import (
	"strings"

	"rebasic/internal/ast"
	"rebasic/internal/diag"
	"rebasic/internal/token"
)

// parseVersion — строка VERSION 5.00 [CLASS] в заголовке формы или класса.
func (p *Parser) parseVersion(parent *ast.Node) bool {
	verTok := p.advance()
	if !p.atOr(token.FloatLit, token.IntLit) {
		p.err(diag.SynBadFormHeader, "expected version number after VERSION")
		return false
	}
	numTok := p.advance()
	node := p.b.NewText(ast.NodeVersion, verTok.Span.Cover(numTok.Span), numTok.Text)
	if p.at(token.Ident) && strings.EqualFold(p.peek().Text, "CLASS") {
		classTok := p.advance()
		node.SetMeta("class", "1")
		node.Span = node.Span.Cover(classTok.Span)
	}
	parent.Add(node)
	return p.endStatement()
}

// parseAttribute — Attribute VB_Name = "Module1". У контролов имена
// бывают с точкой: Attribute Command1.VB_VarHelpID = -1.
func (p *Parser) parseAttribute(parent *ast.Node) bool {
	attrTok := p.advance()
	name, nameSpan, ok := p.parseDottedName("expected attribute name")
	if !ok {
		return false
	}
	if _, ok := p.expect(token.Eq, diag.SynExpectEq, "expected '=' in Attribute"); !ok {
		return false
	}
	value, ok := p.parseDefaultValue()
	if !ok {
		return false
	}
	node := p.b.NewNamed(ast.NodeAttribute, attrTok.Span.Cover(nameSpan).Cover(value.Span), name)
	node.Add(value)
	parent.Add(node)
	return p.endStatement()
}

// parseOption — Option Explicit, Option Base 0, Option Compare Text,
// Option Private Module.
func (p *Parser) parseOption(parent *ast.Node) bool {
	optTok := p.advance()
	node := p.b.New(ast.NodeOption, optTok.Span)

	switch p.peek().Kind {
	case token.KwExplicit:
		w := p.advance()
		node.Name = "Explicit"
		node.Span = node.Span.Cover(w.Span)
	case token.KwPrivate:
		w := p.advance()
		node.Name = "Private"
		node.Span = node.Span.Cover(w.Span)
	case token.Ident:
		w := p.advance()
		node.Name = w.Text
		node.Span = node.Span.Cover(w.Span)
	default:
		p.err(diag.SynUnexpectedToken, "expected option name after Option")
		return false
	}

	// аргумент опции: Base 0, Compare Text, Private Module
	if p.atOr(token.IntLit, token.Ident) {
		arg := p.advance()
		node.Text = arg.Text
		node.Span = node.Span.Cover(arg.Span)
	}

	parent.Add(node)
	return p.endStatement()
}
