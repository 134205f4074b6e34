package parser

import (
	"strings"

	"rebasic/internal/ast"
	"rebasic/internal/diag"
	"rebasic/internal/lexer"
	"rebasic/internal/source"
	"rebasic/internal/token"
)

// parseExpr - главная точка входа для парсинга выражений
func (p *Parser) parseExpr() (*ast.Node, bool) {
	return p.parseBinaryExpr(precImp)
}

// parseBinaryExpr реализует precedence climbing по таблице op_table.go.
// Not обрабатывается здесь же как префикс своего уровня: он слабее
// сравнений, поэтому Not a = b читается как Not (a = b).
func (p *Parser) parseBinaryExpr(minPrec int) (*ast.Node, bool) {
	var left *ast.Node

	if p.at(token.KwNot) && precNot >= minPrec {
		opTok := p.advance()
		operand, ok := p.parseBinaryExpr(precNot)
		if !ok {
			return nil, false
		}
		left = p.b.NewText(ast.NodeUnary, opTok.Span.Cover(operand.Span), "not")
		left.Add(operand)
	} else {
		var ok bool
		left, ok = p.parseUnaryExpr()
		if !ok {
			return nil, false
		}
	}

	for {
		prec := binaryPrec(p.peek().Kind)
		if prec == 0 || prec < minPrec {
			break
		}
		opTok := p.advance()

		right, ok := p.parseBinaryExpr(prec + 1)
		if !ok {
			p.err(diag.SynExpectExpression, "expected expression after '"+opTok.Text+"'")
			return nil, false
		}

		bin := p.b.NewText(ast.NodeBinary, left.Span.Cover(right.Span), strings.ToLower(opTok.Text))
		bin.Add(left, right)
		left = bin
	}

	return left, true
}

// parseUnaryExpr — унарные плюс и минус. Они слабее возведения в степень:
// -2^2 читается как -(2^2).
func (p *Parser) parseUnaryExpr() (*ast.Node, bool) {
	if p.atOr(token.Minus, token.Plus) {
		opTok := p.advance()
		operand, ok := p.parseUnaryExpr()
		if !ok {
			return nil, false
		}
		node := p.b.NewText(ast.NodeUnary, opTok.Span.Cover(operand.Span), opTok.Text)
		node.Add(operand)
		return node, true
	}
	return p.parsePowerExpr()
}

// parsePowerExpr — левоассоциативное ^. Правый операнд может нести свой
// унарный минус: 2^-3 легален и не требует скобок.
func (p *Parser) parsePowerExpr() (*ast.Node, bool) {
	left, ok := p.parsePostfixExpr()
	if !ok {
		return nil, false
	}
	for p.at(token.Caret) {
		p.advance()
		right, ok := p.parseExponentOperand()
		if !ok {
			p.err(diag.SynExpectExpression, "expected expression after '^'")
			return nil, false
		}
		bin := p.b.NewText(ast.NodeBinary, left.Span.Cover(right.Span), "^")
		bin.Add(left, right)
		left = bin
	}
	return left, true
}

func (p *Parser) parseExponentOperand() (*ast.Node, bool) {
	if p.atOr(token.Minus, token.Plus) {
		opTok := p.advance()
		operand, ok := p.parseExponentOperand()
		if !ok {
			return nil, false
		}
		node := p.b.NewText(ast.NodeUnary, opTok.Span.Cover(operand.Span), opTok.Text)
		node.Add(operand)
		return node, true
	}
	return p.parsePostfixExpr()
}

// parsePostfixExpr — цепочки доступа и вызовов: a.b, rs!Field, f(x)(y).
func (p *Parser) parsePostfixExpr() (*ast.Node, bool) {
	expr, ok := p.parsePrimaryExpr()
	if !ok {
		return nil, false
	}

	for {
		switch p.peek().Kind {
		case token.Dot:
			p.advance()
			nameTok, ok := p.memberName()
			if !ok {
				return nil, false
			}
			m := p.b.NewNamed(ast.NodeMember, expr.Span.Cover(nameTok.Span), nameTok.Text)
			m.Add(expr)
			expr = m
		case token.Bang:
			p.advance()
			nameTok, ok := p.expectIdent("expected field name after '!'")
			if !ok {
				return nil, false
			}
			m := p.b.NewNamed(ast.NodeMember, expr.Span.Cover(nameTok.Span), nameTok.Text)
			m.SetMeta("bang", "1")
			m.Add(expr)
			expr = m
		case token.LParen:
			call, ok := p.parseCallArgs(expr)
			if !ok {
				return nil, false
			}
			expr = call
		default:
			return expr, true
		}
	}
}

// memberName — имя после точки. Ключевые слова типов допустимы:
// у объектов бывают члены вроде obj.String.
func (p *Parser) memberName() (token.Token, bool) {
	if p.at(token.Ident) || p.peek().Kind.IsTypeKeyword() {
		return p.advance(), true
	}
	return p.expectIdent("expected member name after '.'")
}

// parseCallArgs парсит (args...) поверх готового callee.
// И вызов функции, и индексирование массива — одна форма.
func (p *Parser) parseCallArgs(callee *ast.Node) (*ast.Node, bool) {
	p.advance() // съедаем '('

	call := p.b.New(ast.NodeCall, callee.Span)
	call.Add(callee)

	if !p.at(token.RParen) {
		for {
			arg, ok := p.parseExpr()
			if !ok {
				return nil, false
			}
			call.Add(arg)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
	}

	closeTok, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after arguments")
	if !ok {
		return nil, false
	}
	call.Span = call.Span.Cover(closeTok.Span)
	return call, true
}

// parsePrimaryExpr — литералы, идентификаторы, скобки, New.
func (p *Parser) parsePrimaryExpr() (*ast.Node, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit, token.HexLit, token.OctLit:
		p.advance()
		return p.withSuffix(p.b.NewText(ast.NodeIntLit, tok.Span, tok.Text)), true
	case token.FloatLit:
		p.advance()
		return p.withSuffix(p.b.NewText(ast.NodeFloatLit, tok.Span, tok.Text)), true
	case token.StringLit:
		p.advance()
		return p.b.NewText(ast.NodeStringLit, tok.Span, lexer.Unquote(tok.Text)), true
	case token.DateLit:
		p.advance()
		return p.b.NewText(ast.NodeDateLit, tok.Span, strings.Trim(tok.Text, "#")), true
	case token.KwTrue:
		p.advance()
		return p.b.NewText(ast.NodeBoolLit, tok.Span, "true"), true
	case token.KwFalse:
		p.advance()
		return p.b.NewText(ast.NodeBoolLit, tok.Span, "false"), true
	case token.KwNothing:
		p.advance()
		return p.b.New(ast.NodeNothingLit, tok.Span), true
	case token.Ident:
		p.advance()
		return p.withSuffix(p.b.NewNamed(ast.NodeIdent, tok.Span, tok.Text)), true
	case token.LParen:
		p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		closeTok, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
		if !ok {
			return nil, false
		}
		paren := p.b.New(ast.NodeParen, tok.Span.Cover(closeTok.Span))
		paren.Add(inner)
		return paren, true
	case token.KwNew:
		p.advance()
		name, nameSpan, ok := p.parseDottedName("expected class name after New")
		if !ok {
			return nil, false
		}
		return p.b.NewNamed(ast.NodeNew, tok.Span.Cover(nameSpan), name), true
	default:
		// Встроенные функции вида Date и String лексер отдаёт ключевыми
		// словами типов; в выражении это обычные имена.
		if tok.Kind.IsTypeKeyword() {
			p.advance()
			return p.b.NewNamed(ast.NodeIdent, tok.Span, tok.Text), true
		}
		p.err(diag.SynExpectExpression, "expected expression, got "+describeToken(tok))
		return nil, false
	}
}

// withSuffix навешивает суффикс типа (x%, 1&) на только что созданный узел.
func (p *Parser) withSuffix(n *ast.Node) *ast.Node {
	if p.at(token.TypeSuffix) {
		sufTok := p.advance()
		n.SetMeta("suffix", sufTok.Text)
		n.Span = n.Span.Cover(sufTok.Span)
	}
	return n
}

// parseDottedName — имя с точками: VB.Form, ADODB.Recordset.
func (p *Parser) parseDottedName(msg string) (string, source.Span, bool) {
	first, ok := p.expectIdent(msg)
	if !ok {
		return "", source.Span{}, false
	}
	name := first.Text
	sp := first.Span
	for p.at(token.Dot) {
		p.advance()
		part, ok := p.expectIdent("expected identifier after '.'")
		if !ok {
			return "", source.Span{}, false
		}
		name += "." + part.Text
		sp = sp.Cover(part.Span)
	}
	return name, sp, true
}
