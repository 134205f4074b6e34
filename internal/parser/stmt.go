package parser

import (
	"strings"

	"rebasic/internal/ast"
	"rebasic/internal/diag"
	"rebasic/internal/token"
)

// parseBody — операторы до терминатора блока (End, Else, Case, Next,
// Wend, Loop) или EOF. Терминатор остаётся несъеденным: его проверяет
// владелец блока.
func (p *Parser) parseBody() *ast.Node {
	body := p.b.New(ast.NodeBody, p.getDiagnosticSpan())
	for {
		p.skipSeparators()
		if p.at(token.EOF) || p.atBlockTerminator() || p.stopped() {
			break
		}
		start := p.peek().Span
		if p.parseStatementInto(body) {
			p.endStatement()
		} else {
			body.Add(p.resyncStmt(start))
		}
	}
	body.Span = body.Span.Cover(p.lastSpan)
	return body
}

// parseInlineBody — операторы однострочного If, разделённые двоеточиями.
// Останавливается перед переводом строки; stopAtElse нужен then-ветке.
func (p *Parser) parseInlineBody(stopAtElse bool) *ast.Node {
	body := p.b.New(ast.NodeBody, p.getDiagnosticSpan())
	for {
		if p.atOr(token.Newline, token.EOF) || p.stopped() {
			break
		}
		if stopAtElse && p.at(token.KwElse) {
			break
		}
		start := p.peek().Span
		if !p.parseStatementInto(body) {
			body.Add(p.resyncStmt(start))
			break
		}
		if p.at(token.Colon) {
			p.advance()
			continue
		}
		break
	}
	body.Span = body.Span.Cover(p.lastSpan)
	return body
}

// parseStatementInto разбирает один оператор и добавляет его узлы в
// parent. Многоимённый Dim даёт несколько независимых узлов. Терминатор
// оператора не съедается.
func (p *Parser) parseStatementInto(parent *ast.Node) bool {
	tok := p.peek()
	switch tok.Kind {
	case token.KwDim:
		p.advance()
		return p.parseVarDecls(parent, "dim", tok.Span)
	case token.KwStatic:
		p.advance()
		return p.parseVarDecls(parent, "static", tok.Span)
	case token.KwConst:
		p.advance()
		return p.parseConstDecls(parent, "", tok.Span)
	}

	stmt, ok := p.parseSingleStatement(tok)
	if ok && stmt != nil {
		parent.Add(stmt)
	}
	return ok
}

func (p *Parser) parseSingleStatement(tok token.Token) (*ast.Node, bool) {
	switch tok.Kind {
	case token.KwIf:
		return p.parseIf()
	case token.KwSelect:
		return p.parseSelect()
	case token.KwFor:
		return p.parseFor()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwDo:
		return p.parseDoLoop()
	case token.KwExit:
		return p.parseExit()
	case token.KwCall:
		return p.parseCallKeyword()
	case token.KwSet:
		return p.parseSetAssign()
	case token.KwLet:
		p.advance()
		return p.parseAssignOrCall(true)
	case token.Preproc:
		p.advance()
		return p.b.NewText(ast.NodePreproc, tok.Span, tok.Text), true
	case token.Ident:
		return p.parseAssignOrCall(false)
	default:
		if tok.Kind.IsTypeKeyword() {
			// встроенная функция в роли оператора: Date = #...# легален
			return p.parseAssignOrCall(false)
		}
		p.err(diag.SynUnexpectedToken, "unexpected "+describeToken(tok)+" at start of statement")
		return nil, false
	}
}

// parseExit — Exit Sub/Function/Property/For/Do с проверкой контекста.
func (p *Parser) parseExit() (*ast.Node, bool) {
	exitTok := p.advance()
	tok := p.peek()
	var what string
	switch tok.Kind {
	case token.KwSub, token.KwFunction, token.KwProperty:
		if tok.Kind != p.procKind {
			p.err(diag.SynUnexpectedToken,
				"'Exit "+tok.Text+"' is not valid in this procedure")
		}
		what = strings.ToLower(tok.Text)
	case token.KwFor:
		if p.forDepth == 0 {
			p.err(diag.SynUnexpectedToken, "'Exit For' outside a For loop")
		}
		what = "for"
	case token.KwDo:
		if p.doDepth == 0 {
			p.err(diag.SynUnexpectedToken, "'Exit Do' outside a Do loop")
		}
		what = "do"
	default:
		p.err(diag.SynUnexpectedToken, "expected Sub, Function, Property, For or Do after Exit")
		return nil, false
	}
	endTok := p.advance()
	return p.b.NewText(ast.NodeExit, exitTok.Span.Cover(endTok.Span), what), true
}

// parseCallKeyword — явный Call: аргументы строго в скобках.
func (p *Parser) parseCallKeyword() (*ast.Node, bool) {
	callTok := p.advance()
	target, ok := p.parsePostfixExpr()
	if !ok {
		return nil, false
	}
	stmt := p.b.New(ast.NodeCallStmt, callTok.Span.Cover(target.Span))
	stmt.SetMeta("call", "1")
	if target.Kind == ast.NodeCall {
		stmt.Children = target.Children
	} else {
		stmt.Add(target)
	}
	return stmt, true
}

// parseSetAssign — Set x = New Foo / Set x = Nothing.
func (p *Parser) parseSetAssign() (*ast.Node, bool) {
	setTok := p.advance()
	lhs, ok := p.parsePostfixExpr()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.Eq, diag.SynExpectEq, "expected '=' in Set statement"); !ok {
		return nil, false
	}
	rhs, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	stmt := p.b.New(ast.NodeAssign, setTok.Span.Cover(rhs.Span))
	stmt.SetMeta("set", "1")
	stmt.Add(lhs, rhs)
	return stmt, true
}

// parseAssignOrCall различает присваивание и вызов без Call. Сначала
// читается постфиксное выражение; '=' после него выбирает присваивание,
// всё остальное — вызов с голыми аргументами через запятую.
func (p *Parser) parseAssignOrCall(letForm bool) (*ast.Node, bool) {
	target, ok := p.parsePostfixExpr()
	if !ok {
		return nil, false
	}

	if p.at(token.Eq) {
		p.advance()
		rhs, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		stmt := p.b.New(ast.NodeAssign, target.Span.Cover(rhs.Span))
		if letForm {
			stmt.SetMeta("let", "1")
		}
		stmt.Add(target, rhs)
		return stmt, true
	}

	if letForm {
		p.err(diag.SynExpectEq, "expected '=' after Let target")
		return nil, false
	}

	stmt := p.b.New(ast.NodeCallStmt, target.Span)
	if target.Kind == ast.NodeCall {
		// скобочная форма уже принесла аргументы
		stmt.Children = target.Children
		return stmt, true
	}
	stmt.Add(target)

	if p.bareArgsFollow() {
		for {
			arg, ok := p.parseExpr()
			if !ok {
				return nil, false
			}
			stmt.Add(arg)
			stmt.Span = stmt.Span.Cover(arg.Span)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
	}
	return stmt, true
}

// bareArgsFollow — есть ли после callee голые аргументы на этой строке.
func (p *Parser) bareArgsFollow() bool {
	switch p.peek().Kind {
	case token.Newline, token.Colon, token.EOF, token.KwElse:
		return false
	default:
		return !p.atBlockTerminator()
	}
}
