package parser

import (
	"slices"

	"rebasic/internal/ast"
	"rebasic/internal/diag"
	"rebasic/internal/source"
	"rebasic/internal/token"
)

// peek — следующий значимый токен. Пробелы, комментарии и продолжения
// строк съедаются молча; перевод строки значим и сюда доходит.
func (p *Parser) peek() token.Token {
	if p.look == nil {
		for {
			tok := p.lx.Next()
			if tok.Kind.IsTrivia() {
				continue
			}
			p.look = &tok
			break
		}
	}
	return *p.look
}

// advance — съедает следующий значимый токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.peek()
	p.look = nil
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

// stopped — разбор пора останавливать: либо без Recover уже была ошибка,
// либо достигнут потолок ошибок.
func (p *Parser) stopped() bool {
	if !p.opts.Recover && p.opts.CurrentErrors > 0 {
		return true
	}
	return p.opts.Enough()
}

// getDiagnosticSpan — возвращает лучший span для диагностики.
// Для EOF с пустым span используем позицию сразу после lastSpan.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.peek()
	if (peek.Kind == token.EOF || peek.Kind == token.Invalid) && peek.Span.Len() == 0 {
		if p.lastSpan.End > 0 {
			return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
		}
	}
	return peek.Span
}

// expect — ожидаем конкретный токен. Если нет — репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	diagSpan := p.getDiagnosticSpan()
	p.report(code, diag.SevError, diagSpan, msg)
	return token.Token{Kind: token.Invalid, Span: diagSpan, Text: p.peek().Text}, false
}

// expectIdent — ожидаем идентификатор.
func (p *Parser) expectIdent(msg string) (token.Token, bool) {
	return p.expect(token.Ident, diag.SynExpectIdentifier, msg)
}

// репортует ошибку на текущем спане
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.getDiagnosticSpan(), msg)
}

// репортует ошибку на данном спане
func (p *Parser) errAt(code diag.Code, sp source.Span, msg string) bool {
	return p.report(code, diag.SevError, sp, msg)
}

// репортует warning на текущем спане
func (p *Parser) warn(code diag.Code, msg string) bool {
	return p.report(code, diag.SevWarning, p.getDiagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	if p.opts.Reporter == nil {
		return false
	}
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	if sev == diag.SevError && p.opts.MaxErrors != 0 && p.opts.CurrentErrors > p.opts.MaxErrors {
		return false // потолок ошибок, дальше молчим
	}
	p.opts.Reporter.Report(code, sev, sp, msg, nil)
	return true
}

// skipSeparators пропускает пустые строки и двоеточия между операторами.
func (p *Parser) skipSeparators() {
	for p.atOr(token.Newline, token.Colon) {
		p.advance()
	}
}

// endStatement проверяет границу оператора, не съедая её: перевод строки,
// двоеточие или EOF. Иначе — диагностика и пересинхронизация.
func (p *Parser) endStatement() bool {
	if p.atOr(token.Newline, token.Colon, token.EOF) {
		return true
	}
	p.err(diag.SynExpectStatementEnd, "expected end of statement, got "+describeToken(p.peek()))
	p.skipToLineEnd()
	return false
}

// skipToLineEnd прокручивает до границы строки, не съедая перевод строки
// и не заходя за терминаторы блоков.
func (p *Parser) skipToLineEnd() {
	for !p.at(token.EOF) && !p.at(token.Newline) && !p.atBlockTerminator() {
		p.advance()
	}
}

// atBlockTerminator — токен, закрывающий текущий блок; оператор начинаться
// с него не может, и пересинхронизация не должна его съедать.
func (p *Parser) atBlockTerminator() bool {
	switch p.peek().Kind {
	case token.KwEnd, token.KwElse, token.KwElseIf, token.KwCase,
		token.KwNext, token.KwWend, token.KwLoop:
		return true
	default:
		return false
	}
}

// resyncStmt — восстановление после ошибки в операторе: скатываемся к
// границе оператора и возвращаем Bad-узел на пропущенный диапазон.
func (p *Parser) resyncStmt(from source.Span) *ast.Node {
	start := from
	if p.peek().Span.Start < start.Start {
		start = p.peek().Span
	}
	p.skipToLineEnd()
	end := p.lastSpan
	if end.End < start.Start {
		end = start
	}
	return p.b.New(ast.NodeBad, start.Cover(end))
}

// describeToken — человекочитаемое имя токена для сообщений.
func describeToken(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Newline:
		return "end of line"
	case token.Invalid:
		return "invalid token"
	}
	if tok.Text != "" {
		return "'" + tok.Text + "'"
	}
	return tok.Kind.String()
}
