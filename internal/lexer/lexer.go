package lexer

import (
	"rebasic/internal/diag"
	"rebasic/internal/source"
	"rebasic/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token // 1 элементный буфер для токена

	count       uint32 // сколько токенов уже выдано
	failed      bool   // жёсткая ошибка: дальше только EOF
	sizeChecked bool
	atLineStart bool // логическое начало строки (для #директив)
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:        file,
		cursor:      NewCursor(file),
		opts:        opts,
		look:        nil,
		atLineStart: true,
	}
}

// Next возвращает следующий токен. Пробелы, переводы строк и комментарии —
// полноценные токены: перевод строки завершает оператор, и парсер обязан
// его видеть. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	// 1) Если есть look — вернуть его и очистить
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return lx.emit(tok)
	}

	if lx.failed {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan(), Text: ""}
	}

	// 2) Размер исходника проверяем до первого токена
	if !lx.sizeChecked {
		lx.sizeChecked = true
		if len(lx.file.Content) > maxSourceLength {
			lx.errLex(diag.LexSourceTooLarge, lx.emptySpan(), "source exceeds maximum size")
			lx.failed = true
			return token.Token{Kind: token.EOF, Span: lx.emptySpan(), Text: ""}
		}
	}

	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan(), Text: ""}
	}

	// 3) Лимит потока токенов (EOF не считаем)
	if lx.count >= maxTokenCount {
		lx.errLex(diag.LexTooManyTokens, lx.emptySpan(), "token stream exceeds maximum count")
		lx.failed = true
		return token.Token{Kind: token.EOF, Span: lx.emptySpan(), Text: ""}
	}

	// 4) Посмотреть текущий байт и выбрать сканер
	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case ch == '\n':
		tok = lx.scanNewline()

	case ch == ' ' || ch == '\t':
		tok = lx.scanWhitespace()

	case ch == '\'':
		tok = lx.scanLineComment()

	case ch == '"':
		tok = lx.scanString()

	case ch == '_':
		tok = lx.scanLineContinuation()

	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		// буква → идентификатор, ключевое слово или Rem-комментарий
		tok = lx.scanIdentOrKeyword()

	case isDec(ch):
		tok = lx.scanNumber()

	case ch == '.' && lx.isNumberAfterDot():
		// .5 → число с ведущей точкой
		tok = lx.scanNumber()

	case ch == '&':
		// &H.. / &O.. → числовой литерал, иначе оператор конкатенации
		tok = lx.scanAmpOrRadix()

	case ch == '#':
		tok = lx.scanHash()

	default:
		tok = lx.scanOperatorOrPunct()
	}

	if lx.failed {
		// сканер упёрся в жёсткий лимит: вернуть что есть, дальше EOF
		return lx.emit(tok)
	}

	// 5) Суффикс типа сразу за именем или числом → отдельный токен в look
	lx.maybePendSuffix(tok)

	return lx.emit(tok)
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// emit обновляет счётчики и флаг начала строки.
func (lx *Lexer) emit(tok token.Token) token.Token {
	lx.count++
	switch tok.Kind {
	case token.Newline:
		lx.atLineStart = true
	case token.Whitespace, token.Comment:
		// не двигают логическое начало строки
	default:
		lx.atLineStart = false
	}
	return tok
}

// maybePendSuffix кладёт TypeSuffix в look, если за именем или числом
// вплотную идёт суффиксный символ. "x%" — два токена, "x %" — нет.
func (lx *Lexer) maybePendSuffix(tok token.Token) {
	// &H/&O литералы не в списке: они уже проглотили свой хвостовой '&'
	switch tok.Kind {
	case token.Ident, token.IntLit, token.FloatLit:
	default:
		return
	}
	b := lx.cursor.Peek()
	if !token.IsSuffixChar(b) {
		return
	}
	if b == '!' {
		// rs!Field — это bang-доступ, а не суффикс Single
		_, b1, ok := lx.cursor.Peek2()
		if ok && (isIdentStartByte(b1) || b1 >= utf8RuneSelf) {
			return
		}
	}
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	sp := lx.cursor.SpanFrom(start)
	t := token.Token{Kind: token.TypeSuffix, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	lx.look = &t
}

func (lx *Lexer) scanNewline() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.Newline, Span: sp, Text: "\n"}
}

func (lx *Lexer) scanWhitespace() token.Token {
	start := lx.cursor.Mark()
	for {
		b := lx.cursor.Peek()
		if b != ' ' && b != '\t' {
			break
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	if tok, bad := lx.checkOverlong(start); bad {
		return tok
	}
	return token.Token{Kind: token.Whitespace, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// scanLineComment сканирует комментарий от ' до конца строки (без \n).
func (lx *Lexer) scanLineComment() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	if tok, bad := lx.checkOverlong(start); bad {
		return tok
	}
	return token.Token{Kind: token.Comment, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// scanLineContinuation сканирует '_' + пробелы + перевод строки одним токеном.
// Голый '_' в другом контексте — ошибка: идентификаторы начинаются с буквы.
func (lx *Lexer) scanLineContinuation() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '_'
	for {
		b := lx.cursor.Peek()
		if b != ' ' && b != '\t' {
			break
		}
		lx.cursor.Bump()
	}
	if lx.cursor.EOF() {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.LineCont, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}
	if lx.cursor.Peek() == '\n' {
		lx.cursor.Bump()
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.LineCont, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}
	lx.cursor.Reset(start)
	lx.cursor.Bump()
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnknownChar, sp, "stray '_' outside line continuation")
	return token.Token{Kind: token.Invalid, Span: sp, Text: "_"}
}

// checkOverlong завершает лексер, если токен превысил maxTokenLength.
func (lx *Lexer) checkOverlong(start Mark) (token.Token, bool) {
	sp := lx.cursor.SpanFrom(start)
	if sp.Len() <= maxTokenLength {
		return token.Token{}, false
	}
	lx.errLex(diag.LexTokenTooLong, sp, "token exceeds maximum length")
	lx.failed = true
	return token.Token{Kind: token.Invalid, Span: sp, Text: ""}, true
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

// EmptySpan — пустой span на текущей позиции, для инициализации парсера.
func (lx *Lexer) EmptySpan() source.Span { return lx.emptySpan() }

// File возвращает разбираемый файл.
func (lx *Lexer) File() *source.File { return lx.file }
