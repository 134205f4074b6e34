package sema

import (
	"strings"

	"rebasic/internal/ast"
)

// SymbolKind различает виды имён в таблице символов.
type SymbolKind uint8

const (
	SymVar SymbolKind = iota
	SymConst
	SymProc
	SymParam
	SymForm
	SymControl
)

func (k SymbolKind) String() string {
	switch k {
	case SymVar:
		return "variable"
	case SymConst:
		return "constant"
	case SymProc:
		return "procedure"
	case SymParam:
		return "parameter"
	case SymForm:
		return "form"
	case SymControl:
		return "control"
	}
	return "symbol"
}

type Symbol struct {
	Name string // как записано в исходнике
	Kind SymbolKind
	Type VType
	Decl *ast.Node
	// Implicit — имя появилось присваиванием без Dim (без Option Explicit).
	Implicit bool
}

// Scope — один уровень вложенности имён. Имена VB6 регистронезависимы,
// ключ карты — свёрнутое к нижнему регистру имя.
type Scope struct {
	parent *Scope
	names  map[string]*Symbol
}

func newScope(parent *Scope) *Scope {
	return &Scope{parent: parent, names: make(map[string]*Symbol)}
}

// Declare добавляет символ. Возвращает уже существующий символ этого же
// уровня при повторном объявлении (вызывающий решает, ошибка ли это).
func (s *Scope) Declare(sym *Symbol) (*Symbol, bool) {
	key := strings.ToLower(sym.Name)
	if prev, ok := s.names[key]; ok {
		return prev, false
	}
	s.names[key] = sym
	return sym, true
}

// Lookup ищет имя по цепочке областей наружу.
func (s *Scope) Lookup(name string) *Symbol {
	key := strings.ToLower(name)
	for sc := s; sc != nil; sc = sc.parent {
		if sym, ok := sc.names[key]; ok {
			return sym
		}
	}
	return nil
}

// LookupLocal ищет только на этом уровне.
func (s *Scope) LookupLocal(name string) *Symbol {
	sym, ok := s.names[strings.ToLower(name)]
	if !ok {
		return nil
	}
	return sym
}
