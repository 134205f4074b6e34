package sema

import (
	"strings"

	"rebasic/internal/ast"
	"rebasic/internal/diag"
)

// checkBody проверяет операторы блока. VB6 не знает блочных областей:
// Dim внутри If объявляет имя на всю процедуру, поэтому вложенные блоки
// работают с той же областью c.proc.
func (c *checker) checkBody(body *ast.Node) {
	terminated := false
	for _, stmt := range body.Children {
		if terminated && stmt.Kind != ast.NodeBad {
			c.warn(diag.SemaUnreachableCode, stmt.Span, "unreachable code after Exit")
			terminated = false // одно предупреждение на блок
		}
		c.checkStmt(stmt)
		if stmt.Kind == ast.NodeExit {
			terminated = true
		}
	}
}

func (c *checker) checkStmt(stmt *ast.Node) {
	switch stmt.Kind {
	case ast.NodeVarDecl:
		c.checkTypeRef(stmt)
		c.declare(c.proc, &Symbol{
			Name: stmt.Name, Kind: SymVar, Type: declaredType(stmt), Decl: stmt,
		})
	case ast.NodeConstDecl:
		c.checkConstDecl(c.proc, stmt)
	case ast.NodeAssign:
		c.checkAssign(stmt)
	case ast.NodeCallStmt:
		for _, arg := range stmt.Children {
			c.inferExpr(arg, c.proc)
		}
	case ast.NodeIf:
		c.checkIf(stmt)
	case ast.NodeSelect:
		c.checkSelect(stmt)
	case ast.NodeFor:
		c.checkFor(stmt)
	case ast.NodeForEach:
		c.checkForEach(stmt)
	case ast.NodeWhile, ast.NodeDoLoop:
		if cond := stmt.Child(0); cond != nil && cond.Kind.IsExpr() {
			c.inferExpr(cond, c.proc)
		}
		if body := stmt.Body(); body != nil {
			c.checkBody(body)
		}
	case ast.NodeExit, ast.NodeBad, ast.NodePreproc:
		// нечего проверять
	}
}

// checkAssign — обе стороны присваивания. Для x = ... сверяем тип
// правой части с объявленным; имя функции внутри неё самой — возврат.
func (c *checker) checkAssign(stmt *ast.Node) {
	lhs, rhs := stmt.Child(0), stmt.Child(1)
	if lhs == nil || rhs == nil {
		return
	}
	rt := c.inferExpr(rhs, c.proc)

	if lhs.Kind != ast.NodeIdent {
		// Member и Call слева: приёмник типизировать нечем, но сам
		// приёмник проверить стоит
		c.inferExpr(lhs, c.proc)
		return
	}

	if c.procDecl != nil && strings.EqualFold(lhs.Name, c.procDecl.Name) {
		if c.retType != TyUnknown && !assignable(rt, c.retType) {
			c.err(diag.SemaReturnMismatch, rhs.Span,
				"cannot return "+rt.String()+" from "+c.retType.String()+" function '"+c.procDecl.Name+"'")
		}
		return
	}

	sym := c.resolveIdent(lhs)
	if sym == nil {
		return
	}
	if sym.Kind == SymConst {
		c.err(diag.SemaAssignToConst, lhs.Span, "cannot assign to constant '"+sym.Name+"'")
		return
	}
	if !assignable(rt, sym.Type) {
		c.err(diag.SemaTypeMismatch, stmt.Span,
			"cannot assign "+rt.String()+" value to "+sym.Type.String()+" '"+sym.Name+"'")
	}
}

func (c *checker) checkIf(stmt *ast.Node) {
	for _, child := range stmt.Children {
		switch child.Kind {
		case ast.NodeBody:
			c.checkBody(child)
		case ast.NodeElseIf:
			if cond := child.Child(0); cond != nil {
				c.inferExpr(cond, c.proc)
			}
			if body := child.Body(); body != nil {
				c.checkBody(body)
			}
		case ast.NodeElse:
			if body := child.Body(); body != nil {
				c.checkBody(body)
			}
		default:
			if child.Kind.IsExpr() {
				c.inferExpr(child, c.proc)
			}
		}
	}
}

func (c *checker) checkSelect(stmt *ast.Node) {
	for _, child := range stmt.Children {
		switch child.Kind {
		case ast.NodeCase:
			for _, item := range child.Children {
				if item.Kind == ast.NodeBody {
					c.checkBody(item)
				} else if item.Kind.IsExpr() || item.Kind == ast.NodeCaseRange || item.Kind == ast.NodeCaseIs {
					c.checkCaseItem(item)
				}
			}
		case ast.NodeCaseElse:
			if body := child.Body(); body != nil {
				c.checkBody(body)
			}
		default:
			if child.Kind.IsExpr() {
				c.inferExpr(child, c.proc)
			}
		}
	}
}

func (c *checker) checkCaseItem(item *ast.Node) {
	switch item.Kind {
	case ast.NodeCaseRange, ast.NodeCaseIs:
		for _, e := range item.Children {
			c.inferExpr(e, c.proc)
		}
	default:
		c.inferExpr(item, c.proc)
	}
}

// checkFor — счётчик цикла должен быть числовым или Variant.
func (c *checker) checkFor(stmt *ast.Node) {
	counter := c.lookupOrImplicit(stmt.Name, stmt)
	if counter != nil && counter.Type != TyVariant && counter.Type != TyUnknown && !counter.Type.IsNumeric() {
		c.err(diag.SemaTypeMismatch, stmt.Span,
			"For counter '"+counter.Name+"' must be numeric, not "+counter.Type.String())
	}
	for _, child := range stmt.Children {
		if child.Kind == ast.NodeBody {
			c.checkBody(child)
			continue
		}
		if !child.Kind.IsExpr() {
			continue
		}
		if t := c.inferExpr(child, c.proc); t != TyVariant && t != TyUnknown && !t.IsNumeric() {
			c.err(diag.SemaTypeMismatch, child.Span,
				"For bound must be numeric, not "+t.String())
		}
	}
}

func (c *checker) checkForEach(stmt *ast.Node) {
	elem := c.lookupOrImplicit(stmt.Name, stmt)
	if elem != nil && elem.Type != TyVariant && elem.Type != TyObject && elem.Type != TyUnknown {
		// For Each требует Variant или объектную переменную
		c.err(diag.SemaTypeMismatch, stmt.Span,
			"For Each variable '"+elem.Name+"' must be Variant or Object, not "+elem.Type.String())
	}
	for _, child := range stmt.Children {
		if child.Kind == ast.NodeBody {
			c.checkBody(child)
		} else if child.Kind.IsExpr() {
			c.inferExpr(child, c.proc)
		}
	}
}

// lookupOrImplicit возвращает символ имени, при нужде объявляя его
// неявно (или ругаясь при Option Explicit).
func (c *checker) lookupOrImplicit(name string, at *ast.Node) *Symbol {
	if name == "" {
		return nil
	}
	if sym := c.proc.Lookup(name); sym != nil {
		return sym
	}
	if c.explicit {
		c.err(diag.SemaUnresolvedSymbol, at.Span, "'"+name+"' is not declared")
		return nil
	}
	sym := &Symbol{Name: name, Kind: SymVar, Type: TyVariant, Implicit: true}
	c.proc.Declare(sym)
	return sym
}

// alwaysAssigns — присваивает ли блок имя функции на всех путях до
// выхода. Консервативный анализ для предупреждения "missing return":
// циклы не считаются гарантированным присваиванием, ветвление должно
// покрывать все ветки.
func alwaysAssigns(body *ast.Node, fname string) bool {
	for _, stmt := range body.Children {
		switch stmt.Kind {
		case ast.NodeAssign:
			if lhs := stmt.Child(0); lhs != nil && lhs.Kind == ast.NodeIdent &&
				strings.EqualFold(lhs.Name, fname) {
				return true
			}
		case ast.NodeExit:
			if stmt.Text == "function" || stmt.Text == "property" {
				return false
			}
		case ast.NodeIf:
			if ifAlwaysAssigns(stmt, fname) {
				return true
			}
		case ast.NodeSelect:
			if selectAlwaysAssigns(stmt, fname) {
				return true
			}
		}
	}
	return false
}

func ifAlwaysAssigns(stmt *ast.Node, fname string) bool {
	hasElse := false
	for _, child := range stmt.Children {
		switch child.Kind {
		case ast.NodeBody:
			if !alwaysAssigns(child, fname) {
				return false
			}
		case ast.NodeElseIf:
			body := child.Body()
			if body == nil || !alwaysAssigns(body, fname) {
				return false
			}
		case ast.NodeElse:
			hasElse = true
			body := child.Body()
			if body == nil || !alwaysAssigns(body, fname) {
				return false
			}
		}
	}
	return hasElse
}

func selectAlwaysAssigns(stmt *ast.Node, fname string) bool {
	hasElse := false
	for _, child := range stmt.Children {
		switch child.Kind {
		case ast.NodeCase, ast.NodeCaseElse:
			if child.Kind == ast.NodeCaseElse {
				hasElse = true
			}
			body := child.Body()
			if body == nil || !alwaysAssigns(body, fname) {
				return false
			}
		}
	}
	return hasElse
}
