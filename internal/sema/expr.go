package sema

import (
	"strings"

	"rebasic/internal/ast"
	"rebasic/internal/diag"
)

// inferExpr выводит тип выражения и попутно проверяет операнды.
// Провал вывода — TyUnknown, дальше по дереву он не шумит.
func (c *checker) inferExpr(e *ast.Node, sc *Scope) VType {
	if e == nil {
		return TyUnknown
	}
	switch e.Kind {
	case ast.NodeIntLit:
		// без анализа значения литерал считаем узким концом решётки,
		// чтобы i% = 42 не давал ложного сужения
		return TyInteger
	case ast.NodeFloatLit:
		return TyDouble
	case ast.NodeStringLit:
		return TyString
	case ast.NodeBoolLit:
		return TyBoolean
	case ast.NodeDateLit:
		return TyDate
	case ast.NodeNothingLit:
		return TyObject

	case ast.NodeIdent:
		sym := c.resolveIdent(e)
		if sym == nil {
			return TyUnknown
		}
		return sym.Type

	case ast.NodeParen:
		return c.inferExpr(e.Child(0), sc)

	case ast.NodeUnary:
		return c.inferUnary(e, sc)

	case ast.NodeBinary:
		return c.inferBinary(e, sc)

	case ast.NodeCall:
		return c.inferCall(e, sc)

	case ast.NodeMember:
		// у объектов без библиотеки типов члены непроверяемы
		c.inferExpr(e.Child(0), sc)
		return TyVariant

	case ast.NodeNew:
		return TyObject
	}
	return TyUnknown
}

func (c *checker) inferUnary(e *ast.Node, sc *Scope) VType {
	op := strings.ToLower(e.Text)
	t := c.inferExpr(e.Child(0), sc)
	switch op {
	case "-", "+":
		if t != TyUnknown && t != TyVariant && !t.IsNumeric() {
			c.err(diag.SemaTypeMismatch, e.Span, "unary '"+e.Text+"' requires a numeric operand, got "+t.String())
			return TyUnknown
		}
		return t
	case "not":
		if t == TyBoolean {
			return TyBoolean
		}
		if t.IsNumeric() { // побитовое Not
			return widen(t, TyLong)
		}
		return TyVariant
	}
	return TyUnknown
}

func (c *checker) inferBinary(e *ast.Node, sc *Scope) VType {
	op := strings.ToLower(e.Text)
	lt := c.inferExpr(e.Child(0), sc)
	rt := c.inferExpr(e.Child(1), sc)

	switch op {
	case "&":
		// конкатенация принимает всё кроме объектов
		c.rejectObject(e, op, lt, rt)
		return TyString
	case "+":
		if lt == TyString && rt == TyString {
			return TyString
		}
		return c.arith(e, op, lt, rt)
	case "-", "*", "/":
		return c.arith(e, op, lt, rt)
	case "\\", "mod":
		c.requireNumeric(e, op, lt, rt)
		return TyLong
	case "^":
		c.requireNumeric(e, op, lt, rt)
		return TyDouble
	case "=", "<>", "<", "<=", ">", ">=", "like", "is":
		return TyBoolean
	case "and", "or", "xor", "eqv", "imp":
		if lt == TyBoolean && rt == TyBoolean {
			return TyBoolean
		}
		if lt.IsNumeric() && rt.IsNumeric() { // побитовая форма
			return widen(widen(lt, rt), TyLong)
		}
		return TyVariant
	}
	return TyUnknown
}

// arith — сложение/вычитание/умножение/деление с проверкой операндов.
func (c *checker) arith(e *ast.Node, op string, lt, rt VType) VType {
	if !c.requireNumeric(e, op, lt, rt) {
		return TyUnknown
	}
	if op == "/" {
		return TyDouble
	}
	if lt == TyVariant || rt == TyVariant {
		return TyVariant
	}
	return widen(lt, rt)
}

func (c *checker) requireNumeric(e *ast.Node, op string, lt, rt VType) bool {
	ok := true
	for _, t := range [2]VType{lt, rt} {
		if t == TyUnknown || t == TyVariant || t.IsNumeric() {
			continue
		}
		c.err(diag.SemaTypeMismatch, e.Span,
			"operator '"+op+"' requires numeric operands, got "+t.String())
		ok = false
	}
	return ok
}

func (c *checker) rejectObject(e *ast.Node, op string, lt, rt VType) {
	for _, t := range [2]VType{lt, rt} {
		if t == TyObject {
			c.err(diag.SemaTypeMismatch, e.Span,
				"operator '"+op+"' cannot take an Object operand")
		}
	}
}

// inferCall — вызов или индексирование: Foo(1), arr(i). Что именно
// перед нами, решает вид символа приёмника.
func (c *checker) inferCall(e *ast.Node, sc *Scope) VType {
	callee := e.Child(0)
	for i := 1; i < e.NumChildren(); i++ {
		c.inferExpr(e.Child(i), sc)
	}
	if callee == nil {
		return TyUnknown
	}
	if callee.Kind == ast.NodeIdent {
		sym := c.scopeFor().Lookup(callee.Name)
		if sym == nil {
			// встроенные функции (Len, MsgBox, CInt...) не в таблице
			return TyVariant
		}
		if sym.Kind == SymVar || sym.Kind == SymParam {
			return sym.Type // индексирование массива
		}
		return sym.Type
	}
	c.inferExpr(callee, sc)
	return TyVariant
}

// resolveIdent — имя в выражении. Без Option Explicit незнакомое имя
// неявно становится Variant-переменной процедуры; суффикс уточняет тип.
func (c *checker) resolveIdent(e *ast.Node) *Symbol {
	sc := c.scopeFor()
	if sym := sc.Lookup(e.Name); sym != nil {
		return sym
	}
	if c.procDecl != nil && strings.EqualFold(e.Name, c.procDecl.Name) {
		// чтение имени функции внутри неё — текущее значение возврата
		return &Symbol{Name: e.Name, Kind: SymVar, Type: c.retType}
	}
	if c.explicit {
		c.err(diag.SemaUnresolvedSymbol, e.Span, "'"+e.Name+"' is not declared")
		return nil
	}
	t := TyVariant
	if suf := e.MetaValue("suffix"); suf != "" {
		t = typeFromSuffix(suf)
	}
	sym := &Symbol{Name: e.Name, Kind: SymVar, Type: t, Implicit: true}
	if c.proc != nil {
		c.proc.Declare(sym)
	} else {
		c.module.Declare(sym)
	}
	return sym
}

func (c *checker) scopeFor() *Scope {
	if c.proc != nil {
		return c.proc
	}
	return c.module
}
