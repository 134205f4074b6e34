package parser

import (
	"strings"

	"rebasic/internal/ast"
	"rebasic/internal/diag"
	"rebasic/internal/source"
	"rebasic/internal/token"
)

// parseProcDecl — Sub, Function или Property с телом до парного End.
func (p *Parser) parseProcDecl(parent *ast.Node, vis string, declStart source.Span, isStatic bool) bool {
	kwTok := p.advance() // Sub/Function/Property

	var kind ast.NodeKind
	switch kwTok.Kind {
	case token.KwSub:
		kind = ast.NodeSubDecl
	case token.KwFunction:
		kind = ast.NodeFunctionDecl
	case token.KwProperty:
		kind = ast.NodePropertyDecl
	}

	var accessor string
	if kwTok.Kind == token.KwProperty {
		switch p.peek().Kind {
		case token.KwGet, token.KwLet, token.KwSet:
			accessor = strings.ToLower(p.advance().Text)
		default:
			p.err(diag.SynUnexpectedToken, "expected Get, Let or Set after Property")
			return false
		}
	}

	nameTok, ok := p.expectIdent("expected procedure name")
	if !ok {
		return false
	}

	decl := p.b.NewNamed(kind, declStart.Cover(nameTok.Span), nameTok.Text)
	if vis != "" {
		decl.SetMeta("visibility", vis)
	}
	if isStatic {
		decl.SetMeta("static", "1")
	}
	if accessor != "" {
		decl.SetMeta("accessor", accessor)
	}
	if p.at(token.TypeSuffix) {
		sufTok := p.advance()
		decl.SetMeta("suffix", sufTok.Text)
	}

	params, ok := p.parseParamList()
	if !ok {
		// повреждённая сигнатура: помечаем Bad и всё же разбираем тело,
		// чтобы его операторы не всплыли на верхний уровень
		p.skipToLineEnd()
		params = p.b.New(ast.NodeBad, declStart.Cover(p.lastSpan))
	}
	decl.Add(params)

	if p.at(token.KwAs) {
		if kwTok.Kind == token.KwSub {
			p.err(diag.SynUnexpectedToken, "Sub cannot declare a return type")
			p.skipToLineEnd()
		} else if ret, ok := p.parseTypeRef(); ok {
			decl.Add(ret)
		} else {
			p.skipToLineEnd()
		}
	}

	p.endStatement()

	prevProc := p.procKind
	p.procKind = kwTok.Kind
	body := p.parseBody()
	p.procKind = prevProc
	decl.Add(body)

	endSpan, ok := p.expectBlockEnd(kwTok.Kind, kwTok.Text)
	if ok {
		decl.Span = decl.Span.Cover(endSpan)
	}
	parent.Add(decl)
	return true
}

// expectBlockEnd — End Sub/Function/Property, закрывающий процедуру.
func (p *Parser) expectBlockEnd(open token.Kind, openWord string) (source.Span, bool) {
	if p.at(token.EOF) {
		p.err(diag.SynUnterminatedBlock, "missing End "+openWord)
		return source.Span{}, false
	}
	endTok, ok := p.expect(token.KwEnd, diag.SynUnterminatedBlock, "expected End "+openWord)
	if !ok {
		p.skipToLineEnd()
		return source.Span{}, false
	}
	if !p.at(open) {
		p.err(diag.SynMismatchedEnd, "End "+describeToken(p.peek())+" does not close "+openWord)
		p.skipToLineEnd()
		return endTok.Span, false
	}
	closeTok := p.advance()
	return endTok.Span.Cover(closeTok.Span), true
}

// parseParamList — скобки с параметрами. Скобки необязательны:
// Sub Foo без них тоже легален.
func (p *Parser) parseParamList() (*ast.Node, bool) {
	list := p.b.New(ast.NodeParamList, p.getDiagnosticSpan())
	if !p.at(token.LParen) {
		return list, true
	}
	openTok := p.advance()
	list.Span = openTok.Span

	sawOptional := false
	sawParamArray := false
	for !p.at(token.RParen) {
		param, ok := p.parseParam()
		if !ok {
			return nil, false
		}

		if sawParamArray {
			p.errAt(diag.SynVariadicMustBeLast, param.Span, "ParamArray parameter must be last")
		}
		switch {
		case param.MetaValue("paramarray") != "":
			sawParamArray = true
		case param.MetaValue("optional") != "":
			sawOptional = true
		case sawOptional:
			p.errAt(diag.SynBadParam, param.Span, "required parameter cannot follow an Optional parameter")
		}

		list.Add(param)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}

	closeTok, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after parameters")
	if !ok {
		return nil, false
	}
	list.Span = list.Span.Cover(closeTok.Span)
	return list, true
}

// parseParam — [Optional] [ByVal|ByRef] [ParamArray] name[()] [As Type] [= default].
// Передача по ссылке — умолчание, поэтому ByRef не оставляет следа в Meta.
func (p *Parser) parseParam() (*ast.Node, bool) {
	start := p.peek().Span
	optional := false
	byVal := false
	paramArray := false

	for {
		switch p.peek().Kind {
		case token.KwOptional:
			p.advance()
			optional = true
			continue
		case token.KwByVal:
			p.advance()
			byVal = true
			continue
		case token.KwByRef:
			p.advance()
			continue
		case token.KwParamArray:
			p.advance()
			paramArray = true
			continue
		}
		break
	}

	nameTok, ok := p.expectIdent("expected parameter name")
	if !ok {
		return nil, false
	}

	param := p.b.NewNamed(ast.NodeParam, start.Cover(nameTok.Span), nameTok.Text)
	if optional {
		param.SetMeta("optional", "1")
	}
	if byVal {
		param.SetMeta("byval", "1")
	}
	if paramArray {
		param.SetMeta("paramarray", "1")
		if optional || byVal {
			p.errAt(diag.SynBadParam, param.Span, "ParamArray cannot combine with Optional or ByVal")
		}
	}

	if p.at(token.TypeSuffix) {
		sufTok := p.advance()
		param.SetMeta("suffix", sufTok.Text)
		param.Span = param.Span.Cover(sufTok.Span)
	}

	// пустые скобки: параметр-массив
	if p.at(token.LParen) {
		p.advance()
		if _, ok := p.expect(token.RParen, diag.SynBadParam, "array parameter takes empty parentheses"); !ok {
			return nil, false
		}
		param.SetMeta("array", "1")
	}

	if p.at(token.KwAs) {
		typeRef, ok := p.parseTypeRef()
		if !ok {
			return nil, false
		}
		param.Add(typeRef)
		param.Span = param.Span.Cover(typeRef.Span)
	}

	if p.at(token.Eq) {
		eqTok := p.advance()
		if !optional {
			p.errAt(diag.SynBadParam, eqTok.Span, "default value requires Optional")
		}
		def, ok := p.parseDefaultValue()
		if !ok {
			return nil, false
		}
		param.Add(def)
		param.Span = param.Span.Cover(def.Span)
	}

	return param, true
}

// parseDefaultValue — значение по умолчанию: литерал с опциональным минусом.
func (p *Parser) parseDefaultValue() (*ast.Node, bool) {
	if p.atOr(token.Minus, token.Plus) {
		opTok := p.advance()
		inner, ok := p.parseDefaultValue()
		if !ok {
			return nil, false
		}
		node := p.b.NewText(ast.NodeUnary, opTok.Span.Cover(inner.Span), opTok.Text)
		node.Add(inner)
		return node, true
	}
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit, token.HexLit, token.OctLit,
		token.FloatLit, token.StringLit, token.DateLit,
		token.KwTrue, token.KwFalse, token.KwNothing:
		node, ok := p.parsePrimaryExpr()
		return node, ok
	default:
		p.err(diag.SynExpectLiteral, "default value must be a literal")
		return nil, false
	}
}
