package sema

import (
	"strings"

	"rebasic/internal/ast"
	"rebasic/internal/diag"
	"rebasic/internal/source"
)

type Options struct {
	Reporter diag.Reporter
}

type Result struct {
	// Explicit — модуль объявил Option Explicit.
	Explicit bool
	// Module — заполненная таблица имён уровня модуля.
	Module *Scope
}

// Check — чистый семантический проход: дерево не мутирует, вся
// продукция уходит в Reporter. Порядок: сбор объявлений уровня модуля,
// затем проверка тел процедур.
func Check(program *ast.Node, opts Options) Result {
	c := checker{
		reporter: opts.Reporter,
		module:   newScope(nil),
	}
	if program == nil {
		return Result{Module: c.module}
	}

	c.collectModule(program)
	if !c.explicit {
		c.warn(diag.SemaNoOptionExplicit, program.Span,
			"module has no Option Explicit; undeclared names default to Variant")
	}

	for _, item := range program.Children {
		if item.Kind.IsProc() {
			c.checkProc(item)
		}
	}
	return Result{Explicit: c.explicit, Module: c.module}
}

type checker struct {
	reporter diag.Reporter
	module   *Scope
	explicit bool

	// контекст текущей процедуры
	proc     *Scope
	procDecl *ast.Node
	// retType — тип псевдопеременной-имени функции, TyUnknown для Sub.
	retType VType
}

// collectModule регистрирует объявления верхнего уровня. Тела процедур
// здесь не проверяются: сперва должны быть видны все имена модуля,
// VB6 не требует объявления до использования.
func (c *checker) collectModule(program *ast.Node) {
	for _, item := range program.Children {
		switch item.Kind {
		case ast.NodeOption:
			if strings.EqualFold(item.Name, "Explicit") {
				c.explicit = true
			}
		case ast.NodeVarDecl:
			c.checkTypeRef(item)
			c.declare(c.module, &Symbol{
				Name: item.Name, Kind: SymVar, Type: declaredType(item), Decl: item,
			})
		case ast.NodeConstDecl:
			c.checkConstDecl(c.module, item)
		case ast.NodeSubDecl, ast.NodeFunctionDecl, ast.NodePropertyDecl:
			c.declareProc(item)
		case ast.NodeFormDecl:
			c.declare(c.module, &Symbol{
				Name: item.Name, Kind: SymForm, Type: TyObject, Decl: item,
			})
			c.collectControls(item)
		}
	}
}

// collectControls поднимает имена контролов формы в область модуля:
// обработчики событий обращаются к ним как к глобальным.
func (c *checker) collectControls(form *ast.Node) {
	for _, child := range form.Children {
		if child.Kind != ast.NodeControlDecl {
			continue
		}
		c.declare(c.module, &Symbol{
			Name: child.Name, Kind: SymControl, Type: TyObject, Decl: child,
		})
		c.collectControls(child)
	}
}

// declareProc — процедуры. Property Get/Let/Set с одним именем законны,
// поэтому аксессор входит в ключ дубликата; под голым именем остаётся
// первый из них, чтобы выражения находили свойство.
func (c *checker) declareProc(item *ast.Node) {
	sym := &Symbol{Name: item.Name, Kind: SymProc, Decl: item}
	if item.Kind == ast.NodeFunctionDecl || item.MetaValue("accessor") == "get" {
		sym.Type = returnType(item)
	}

	if acc := item.MetaValue("accessor"); acc != "" {
		keyed := *sym
		keyed.Name = item.Name + " " + acc
		if _, ok := c.module.Declare(&keyed); !ok {
			c.dupErr(item, sym.Name)
			return
		}
		if c.module.LookupLocal(item.Name) == nil {
			c.module.Declare(sym)
		}
		return
	}
	c.declare(c.module, sym)
}

func (c *checker) declare(sc *Scope, sym *Symbol) *Symbol {
	prev, ok := sc.Declare(sym)
	if !ok {
		c.dupErr(sym.Decl, sym.Name)
		return prev
	}
	return sym
}

func (c *checker) dupErr(decl *ast.Node, name string) {
	c.err(diag.SemaDuplicateSymbol, decl.Span, "'"+name+"' is already declared in this scope")
}

// checkConstDecl объявляет константу и сверяет тип значения с объявленным.
func (c *checker) checkConstDecl(sc *Scope, item *ast.Node) {
	sym := c.declare(sc, &Symbol{
		Name: item.Name, Kind: SymConst, Type: declaredType(item), Decl: item,
	})
	value := lastChild(item)
	if value == nil || !value.Kind.IsExpr() {
		return
	}
	vt := c.inferExpr(value, sc)
	if !assignable(vt, sym.Type) {
		c.err(diag.SemaTypeMismatch, value.Span,
			"cannot initialize "+sym.Type.String()+" constant '"+item.Name+"' with "+vt.String()+" value")
	}
}

// checkProc — область процедуры: параметры, тело, недостижимый код,
// для функций — анализ присвоения возвращаемого значения.
func (c *checker) checkProc(decl *ast.Node) {
	c.proc = newScope(c.module)
	c.procDecl = decl
	c.retType = TyUnknown
	if decl.Kind == ast.NodeFunctionDecl || decl.MetaValue("accessor") == "get" {
		c.retType = returnType(decl)
	}

	if params := decl.FirstChild(ast.NodeParamList); params != nil {
		for _, p := range params.Children {
			sym := c.declare(c.proc, &Symbol{
				Name: p.Name, Kind: SymParam, Type: declaredType(p), Decl: p,
			})
			if def := lastChild(p); def != nil && def.Kind.IsExpr() {
				if dt := c.inferExpr(def, c.proc); !assignable(dt, sym.Type) {
					c.err(diag.SemaTypeMismatch, def.Span,
						"default value type "+dt.String()+" does not match parameter type "+sym.Type.String())
				}
			}
		}
	}

	if body := decl.Body(); body != nil {
		c.checkBody(body)
		if decl.Kind == ast.NodeFunctionDecl && hasDeclaredReturn(decl) {
			if !alwaysAssigns(body, decl.Name) {
				c.warn(diag.SemaMissingReturn, decl.Span,
					"function '"+decl.Name+"' may exit without assigning a return value")
			}
		}
	}

	c.proc = nil
	c.procDecl = nil
}

// declaredType — тип объявления: явный As, иначе суффикс, иначе Variant.
func declaredType(decl *ast.Node) VType {
	if ref := decl.FirstChild(ast.NodeTypeRef); ref != nil {
		return typeFromName(ref.Name)
	}
	if suf := decl.MetaValue("suffix"); suf != "" {
		return typeFromSuffix(suf)
	}
	return TyVariant
}

// checkTypeRef ловит As New поверх встроенного скалярного типа:
// инстанцировать Integer или String нельзя.
func (c *checker) checkTypeRef(decl *ast.Node) {
	ref := decl.FirstChild(ast.NodeTypeRef)
	if ref == nil || ref.MetaValue("new") == "" {
		return
	}
	if builtinScalarName(ref.Name) {
		c.err(diag.SemaUnknownType, ref.Span,
			"cannot create an instance of intrinsic type '"+ref.Name+"'")
	}
}

// returnType — объявленный тип результата функции или Property Get.
func returnType(decl *ast.Node) VType {
	// TypeRef сразу под декларацией — возврат; As внутри параметров
	// лежит глубже и сюда не попадает
	if ref := decl.FirstChild(ast.NodeTypeRef); ref != nil {
		return typeFromName(ref.Name)
	}
	if suf := decl.MetaValue("suffix"); suf != "" {
		return typeFromSuffix(suf)
	}
	return TyVariant
}

func hasDeclaredReturn(decl *ast.Node) bool {
	return decl.FirstChild(ast.NodeTypeRef) != nil || decl.MetaValue("suffix") != ""
}

func lastChild(n *ast.Node) *ast.Node {
	if n == nil || len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

func (c *checker) err(code diag.Code, sp source.Span, msg string) {
	if c.reporter != nil {
		c.reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}

func (c *checker) warn(code diag.Code, sp source.Span, msg string) {
	if c.reporter != nil {
		c.reporter.Report(code, diag.SevWarning, sp, msg, nil)
	}
}
