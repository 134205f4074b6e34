package parser

import (
	"strings"

	"rebasic/internal/ast"
	"rebasic/internal/diag"
	"rebasic/internal/source"
	"rebasic/internal/token"
)

// parseIf — обе формы: блочная с End If и однострочная.
// Форму выбирает токен после Then: перевод строки означает блок.
func (p *Parser) parseIf() (*ast.Node, bool) {
	ifTok := p.advance()
	node := p.b.New(ast.NodeIf, ifTok.Span)

	cond := p.parseHeaderExpr(token.KwThen)
	node.Add(cond)

	if _, ok := p.expect(token.KwThen, diag.SynExpectThen, "expected Then after If condition"); !ok {
		p.skipToLineEnd()
	}

	if !p.at(token.Newline) && !p.at(token.EOF) {
		// однострочная форма
		node.Add(p.parseInlineBody(true))
		if p.at(token.KwElse) {
			elseTok := p.advance()
			elseNode := p.b.New(ast.NodeElse, elseTok.Span)
			elseBody := p.parseInlineBody(false)
			elseNode.Add(elseBody)
			elseNode.Span = elseNode.Span.Cover(elseBody.Span)
			node.Add(elseNode)
		}
		node.Span = node.Span.Cover(p.lastSpan)
		return node, true
	}

	node.Add(p.parseBody())

	for p.at(token.KwElseIf) {
		eiTok := p.advance()
		eiNode := p.b.New(ast.NodeElseIf, eiTok.Span)
		eiNode.Add(p.parseHeaderExpr(token.KwThen))
		if _, ok := p.expect(token.KwThen, diag.SynExpectThen, "expected Then after ElseIf condition"); !ok {
			p.skipToLineEnd()
		}
		body := p.parseBody()
		eiNode.Add(body)
		eiNode.Span = eiNode.Span.Cover(body.Span)
		node.Add(eiNode)
	}

	if p.at(token.KwElse) {
		elseTok := p.advance()
		elseNode := p.b.New(ast.NodeElse, elseTok.Span)
		body := p.parseBody()
		elseNode.Add(body)
		elseNode.Span = elseNode.Span.Cover(body.Span)
		node.Add(elseNode)
	}

	if endSpan, ok := p.expectBlockEnd(token.KwIf, "If"); ok {
		node.Span = node.Span.Cover(endSpan)
	}
	return node, true
}

// parseHeaderExpr — выражение в заголовке блока. При ошибке скатываемся
// к ожидаемому ключевому слову или концу строки и возвращаем Bad,
// чтобы структура блока пережила сломанный заголовок.
func (p *Parser) parseHeaderExpr(stopAt token.Kind) *ast.Node {
	start := p.peek().Span
	expr, ok := p.parseExpr()
	if ok {
		return expr
	}
	for !p.atOr(stopAt, token.Newline, token.Colon, token.EOF) {
		p.advance()
	}
	end := p.lastSpan
	if end.End < start.Start {
		end = start
	}
	return p.b.New(ast.NodeBad, start.Cover(end))
}

// parseSelect — Select Case с значениями, диапазонами To, сравнениями Is
// и веткой Case Else, обязательно последней.
func (p *Parser) parseSelect() (*ast.Node, bool) {
	selTok := p.advance()
	if _, ok := p.expect(token.KwCase, diag.SynUnexpectedToken, "expected Case after Select"); !ok {
		return nil, false
	}
	selector, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	node := p.b.New(ast.NodeSelect, selTok.Span.Cover(selector.Span))
	node.Add(selector)
	p.endStatement()

	sawElse := false
	for {
		p.skipSeparators()
		if !p.at(token.KwCase) {
			break
		}
		caseTok := p.advance()

		var caseNode *ast.Node
		if p.at(token.KwElse) {
			elseTok := p.advance()
			caseNode = p.b.New(ast.NodeCaseElse, caseTok.Span.Cover(elseTok.Span))
			if sawElse {
				p.errAt(diag.SynBadCaseItem, caseNode.Span, "duplicate Case Else")
			}
			sawElse = true
		} else {
			if sawElse {
				p.errAt(diag.SynBadCaseItem, caseTok.Span, "Case Else must be the last branch")
			}
			caseNode = p.b.New(ast.NodeCase, caseTok.Span)
			if !p.parseCaseItems(caseNode) {
				p.skipToLineEnd()
			}
		}

		body := p.parseBody()
		caseNode.Add(body)
		caseNode.Span = caseNode.Span.Cover(body.Span)
		node.Add(caseNode)
	}

	if endSpan, ok := p.expectBlockEnd(token.KwSelect, "Select"); ok {
		node.Span = node.Span.Cover(endSpan)
	}
	return node, true
}

// parseCaseItems — список элементов Case через запятую.
func (p *Parser) parseCaseItems(caseNode *ast.Node) bool {
	count := 0
	for {
		item, ok := p.parseCaseItem()
		if !ok {
			if count == 0 {
				p.err(diag.SynBadCaseItem, "expected at least one value after Case")
			}
			return false
		}
		caseNode.Add(item)
		count++
		if !p.at(token.Comma) {
			return true
		}
		p.advance()
	}
}

// parseCaseItem — value, lo To hi или Is <op> expr.
func (p *Parser) parseCaseItem() (*ast.Node, bool) {
	if p.at(token.KwIs) {
		isTok := p.advance()
		opTok := p.peek()
		switch opTok.Kind {
		case token.Eq, token.NotEq, token.Lt, token.LtEq, token.Gt, token.GtEq:
			p.advance()
		default:
			p.err(diag.SynBadCaseItem, "expected comparison operator after Is")
			return nil, false
		}
		operand, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		item := p.b.NewText(ast.NodeCaseIs, isTok.Span.Cover(operand.Span), opTok.Text)
		item.Add(operand)
		return item, true
	}

	lo, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	if !p.at(token.KwTo) {
		return lo, true
	}
	p.advance()
	hi, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	item := p.b.New(ast.NodeCaseRange, lo.Span.Cover(hi.Span))
	item.Add(lo, hi)
	return item, true
}

// parseFor — классический For и For Each, оба закрываются Next.
func (p *Parser) parseFor() (*ast.Node, bool) {
	forTok := p.advance()

	if p.at(token.KwEach) {
		p.advance()
		nameTok, ok := p.expectIdent("expected loop variable after For Each")
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.KwIn, diag.SynBadLoopHeader, "expected In after loop variable"); !ok {
			return nil, false
		}
		coll, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		node := p.b.NewNamed(ast.NodeForEach, forTok.Span.Cover(coll.Span), nameTok.Text)
		node.Add(coll)

		p.forDepth++
		body := p.parseBody()
		p.forDepth--
		node.Add(body)

		if endSpan, ok := p.expectNext(nameTok.Text); ok {
			node.Span = node.Span.Cover(endSpan)
		}
		return node, true
	}

	nameTok, ok := p.expectIdent("expected loop variable after For")
	if !ok {
		return nil, false
	}
	node := p.b.NewNamed(ast.NodeFor, forTok.Span.Cover(nameTok.Span), nameTok.Text)
	if p.at(token.TypeSuffix) {
		sufTok := p.advance()
		node.SetMeta("suffix", sufTok.Text)
	}

	if _, ok := p.expect(token.Eq, diag.SynExpectEq, "expected '=' in For statement"); !ok {
		return nil, false
	}
	start, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.KwTo, diag.SynBadLoopHeader, "expected To in For statement"); !ok {
		return nil, false
	}
	limit, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	node.Add(start, limit)

	if p.at(token.KwStep) {
		p.advance()
		step, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		node.Add(step)
	}

	p.forDepth++
	body := p.parseBody()
	p.forDepth--
	node.Add(body)

	if endSpan, ok := p.expectNext(nameTok.Text); ok {
		node.Span = node.Span.Cover(endSpan)
	}
	return node, true
}

// expectNext — Next с необязательной переменной; имя сверяется с For
// без учёта регистра.
func (p *Parser) expectNext(loopVar string) (source.Span, bool) {
	if p.at(token.EOF) {
		p.err(diag.SynUnterminatedBlock, "missing Next for For loop")
		return source.Span{}, false
	}
	nextTok, ok := p.expect(token.KwNext, diag.SynUnterminatedBlock, "expected Next to close For loop")
	if !ok {
		p.skipToLineEnd()
		return source.Span{}, false
	}
	sp := nextTok.Span
	if p.at(token.Ident) {
		varTok := p.advance()
		sp = sp.Cover(varTok.Span)
		if !strings.EqualFold(varTok.Text, loopVar) {
			p.errAt(diag.SynMismatchedEnd, varTok.Span,
				"Next variable '"+varTok.Text+"' does not match For variable '"+loopVar+"'")
		}
	}
	return sp, true
}

// parseWhile — While ... Wend.
func (p *Parser) parseWhile() (*ast.Node, bool) {
	whileTok := p.advance()
	node := p.b.New(ast.NodeWhile, whileTok.Span)
	node.Add(p.parseHeaderExpr(token.Newline))

	body := p.parseBody()
	node.Add(body)

	if p.at(token.EOF) {
		p.err(diag.SynUnterminatedBlock, "missing Wend for While loop")
		return node, true
	}
	wendTok, ok := p.expect(token.KwWend, diag.SynUnterminatedBlock, "expected Wend to close While loop")
	if ok {
		node.Span = node.Span.Cover(wendTok.Span)
	} else {
		p.skipToLineEnd()
	}
	return node, true
}

// parseDoLoop — Do с тестом сверху, снизу или вовсе без него.
// Дети в исходном порядке: для верхнего теста [cond, body], для
// нижнего [body, cond].
func (p *Parser) parseDoLoop() (*ast.Node, bool) {
	doTok := p.advance()
	node := p.b.New(ast.NodeDoLoop, doTok.Span)

	var preCond *ast.Node
	if p.atOr(token.KwWhile, token.KwUntil) {
		testTok := p.advance()
		node.SetMeta("test", strings.ToLower(testTok.Text))
		node.SetMeta("pos", "pre")
		preCond = p.parseHeaderExpr(token.Newline)
		node.Add(preCond)
	}

	p.doDepth++
	body := p.parseBody()
	p.doDepth--
	node.Add(body)

	if p.at(token.EOF) {
		p.err(diag.SynUnterminatedBlock, "missing Loop for Do loop")
		return node, true
	}
	loopTok, ok := p.expect(token.KwLoop, diag.SynUnterminatedBlock, "expected Loop to close Do loop")
	if !ok {
		p.skipToLineEnd()
		return node, true
	}
	node.Span = node.Span.Cover(loopTok.Span)

	if p.atOr(token.KwWhile, token.KwUntil) {
		testTok := p.advance()
		cond, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		if preCond != nil {
			p.errAt(diag.SynBadLoopHeader, testTok.Span, "Do loop cannot test at both ends")
		} else {
			node.SetMeta("test", strings.ToLower(testTok.Text))
			node.SetMeta("pos", "post")
			node.Add(cond)
			node.Span = node.Span.Cover(cond.Span)
		}
	}
	return node, true
}
