package lexer

import (
	"rebasic/internal/diag"
	"rebasic/internal/token"
)

// Поддержка: 123, 1.5, .5, 1e-3, 1.0E+10. Шестнадцатеричные и восьмеричные
// формы (&HFF, &O17) сканирует scanAmpOrRadix. Суффиксы типов (% & ! # @ $)
// здесь не трогаем: лексер выдаст их отдельным TypeSuffix токеном.
// Неверные формы — репорт в opts.Reporter, токен Invalid.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	// ведущая точка — значит формат ".digits"
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump() // '.'
		if !isDec(lx.cursor.Peek()) {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexBadNumber, sp, "expected digit after '.'")
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
		kind = token.FloatLit
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	} else {
		// целая часть
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}

		// дробная часть только как ".цифра": "1." — это IntLit и Dot
		b0, b1, ok := lx.cursor.Peek2()
		if ok && b0 == '.' && isDec(b1) {
			kind = token.FloatLit
			lx.cursor.Bump() // '.'
			for isDec(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
		}
	}

	// экспонента
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		// 'e' часть числа только если дальше цифра или знак с цифрой
		_, b1, ok2 := lx.cursor.Peek2()
		isExp := ok2 && (isDec(b1) || ((b1 == '+' || b1 == '-') && isDec(lx.cursor.PeekAt(2))))
		if isExp {
			kind = token.FloatLit
			lx.cursor.Bump() // e/E
			if lx.cursor.Peek() == '+' || lx.cursor.Peek() == '-' {
				lx.cursor.Bump()
			}
			for isDec(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
		}
	}

	sp := lx.cursor.SpanFrom(start)
	if tok, bad := lx.checkOverlong(start); bad {
		return tok
	}
	return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// scanAmpOrRadix различает &H/&O литералы и оператор конкатенации '&'.
// &HFF& — ОДИН токен: хвостовой '&' (маркер Long) проглатывается,
// чтобы не породить ложный оператор.
func (lx *Lexer) scanAmpOrRadix() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '&'

	switch {
	case lx.cursor.EatFold('h'):
		digits := 0
		for isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
			digits++
		}
		if digits == 0 {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexBadNumber, sp, "expected hex digits after &H")
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
		lx.cursor.Eat('&') // хвостовой маркер Long входит в литерал
		sp := lx.cursor.SpanFrom(start)
		if tok, bad := lx.checkOverlong(start); bad {
			return tok
		}
		return token.Token{Kind: token.HexLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}

	case lx.cursor.EatFold('o'):
		digits := 0
		for b := lx.cursor.Peek(); b >= '0' && b <= '7'; b = lx.cursor.Peek() {
			lx.cursor.Bump()
			digits++
		}
		if digits == 0 {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexBadNumber, sp, "expected octal digits after &O")
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
		lx.cursor.Eat('&')
		sp := lx.cursor.SpanFrom(start)
		if tok, bad := lx.checkOverlong(start); bad {
			return tok
		}
		return token.Token{Kind: token.OctLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}

	default:
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.Amp, Span: sp, Text: "&"}
	}
}
