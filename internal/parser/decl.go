package parser

import (
	"strings"

	"rebasic/internal/ast"
	"rebasic/internal/diag"
	"rebasic/internal/source"
	"rebasic/internal/token"
)

// parseVarDecls разбирает список имён после Dim/Public/Private/Static.
// Каждое имя разворачивается в отдельный узел VarDecl: Dim x, y As Long
// даёт два независимых объявления. Имя без типа и суффикса — Variant.
func (p *Parser) parseVarDecls(parent *ast.Node, vis string, declStart source.Span) bool {
	for {
		nameTok, ok := p.expectIdent("expected variable name")
		if !ok {
			return false
		}

		decl := p.b.NewNamed(ast.NodeVarDecl, declStart.Cover(nameTok.Span), nameTok.Text)
		if vis != "" {
			decl.SetMeta("visibility", vis)
		}
		if p.at(token.TypeSuffix) {
			sufTok := p.advance()
			decl.SetMeta("suffix", sufTok.Text)
			decl.Span = decl.Span.Cover(sufTok.Span)
		}

		if p.at(token.LParen) {
			if !p.parseArrayBounds(decl) {
				return false
			}
		}

		if p.at(token.KwAs) {
			typeRef, ok := p.parseTypeRef()
			if !ok {
				return false
			}
			decl.Add(typeRef)
			decl.Span = decl.Span.Cover(typeRef.Span)
		}

		parent.Add(decl)

		if !p.at(token.Comma) {
			return true
		}
		p.advance()
		// последующие имена наследуют только видимость, span начинается с имени
		declStart = p.peek().Span
	}
}

// parseArrayBounds — скобки после имени: Dim a(), b(10), c(1 To 5, 0 To 9).
// Границы хранятся детьми до TypeRef; диапазон lo To hi — бинарный узел "to".
func (p *Parser) parseArrayBounds(decl *ast.Node) bool {
	openTok := p.advance()
	decl.SetMeta("array", "1")

	if p.at(token.RParen) {
		closeTok := p.advance()
		decl.Span = decl.Span.Cover(closeTok.Span)
		return true
	}

	for {
		lo, ok := p.parseExpr()
		if !ok {
			return false
		}
		bound := lo
		if p.at(token.KwTo) {
			p.advance()
			hi, ok := p.parseExpr()
			if !ok {
				return false
			}
			bound = p.b.NewText(ast.NodeBinary, lo.Span.Cover(hi.Span), "to")
			bound.Add(lo, hi)
		}
		decl.Add(bound)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}

	closeTok, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after array bounds")
	if !ok {
		return false
	}
	decl.Span = openTok.Span.Cover(closeTok.Span).Cover(decl.Span)
	return true
}

// parseConstDecls — Const после необязательной видимости, тоже списком:
// Const A = 1, B As Long = 2.
func (p *Parser) parseConstDecls(parent *ast.Node, vis string, declStart source.Span) bool {
	for {
		nameTok, ok := p.expectIdent("expected constant name")
		if !ok {
			return false
		}

		decl := p.b.NewNamed(ast.NodeConstDecl, declStart.Cover(nameTok.Span), nameTok.Text)
		if vis != "" {
			decl.SetMeta("visibility", vis)
		}
		if p.at(token.TypeSuffix) {
			sufTok := p.advance()
			decl.SetMeta("suffix", sufTok.Text)
		}

		if p.at(token.KwAs) {
			typeRef, ok := p.parseTypeRef()
			if !ok {
				return false
			}
			decl.Add(typeRef)
		}

		if _, ok := p.expect(token.Eq, diag.SynExpectEq, "expected '=' in constant declaration"); !ok {
			return false
		}
		value, ok := p.parseExpr()
		if !ok {
			return false
		}
		decl.Add(value)
		decl.Span = decl.Span.Cover(value.Span)
		parent.Add(decl)

		if !p.at(token.Comma) {
			return true
		}
		p.advance()
		declStart = p.peek().Span
	}
}

// parseTypeRef — As [New] Type. Тип — либо ключевое слово (Integer, String),
// либо имя с точками (ADODB.Recordset).
func (p *Parser) parseTypeRef() (*ast.Node, bool) {
	asTok := p.advance() // съедаем As

	isNew := false
	if p.at(token.KwNew) {
		p.advance()
		isNew = true
	}

	tok := p.peek()
	var name string
	var nameSpan source.Span
	switch {
	case tok.Kind.IsTypeKeyword():
		p.advance()
		name = canonicalTypeName(tok.Text)
		nameSpan = tok.Span
	case tok.Kind == token.Ident:
		var ok bool
		name, nameSpan, ok = p.parseDottedName("expected type name")
		if !ok {
			return nil, false
		}
	default:
		p.err(diag.SynExpectType, "expected type name after As, got "+describeToken(tok))
		return nil, false
	}

	ref := p.b.NewNamed(ast.NodeTypeRef, asTok.Span.Cover(nameSpan), name)
	if isNew {
		ref.SetMeta("new", "1")
	}
	return ref, true
}

// canonicalTypeName приводит регистр встроенного типа к каноническому,
// чтобы Dim x As LONG и As Long хешировались одинаково.
func canonicalTypeName(text string) string {
	lower := strings.ToLower(text)
	if len(lower) == 0 {
		return text
	}
	return strings.ToUpper(lower[:1]) + lower[1:]
}
