// Package driver связывает фазы компилятора для CLI: загрузка файла,
// токены, дерево, семантика, артефакт. Каждая функция отдаёт сумку
// диагностик и набор файлов для форматирования, ошибка — только когда
// продолжать нечем.
package driver

import (
	"context"
	"fmt"

	"rebasic/internal/ast"
	"rebasic/internal/compiler"
	"rebasic/internal/diag"
	"rebasic/internal/lexer"
	"rebasic/internal/parser"
	"rebasic/internal/sema"
	"rebasic/internal/source"
	"rebasic/internal/token"
	"rebasic/internal/transpile"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize прогоняет файл через лексер до EOF.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs, file, bag, err := load(path, maxDiagnostics)
	if err != nil {
		return nil, err
	}

	lx := lexer.New(file, lexer.Options{Reporter: &diag.BagReporter{Bag: bag}})
	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return &TokenizeResult{FileSet: fs, File: file, Tokens: tokens, Bag: bag}, nil
}

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Program *ast.Node
	Bag     *diag.Bag
}

// Parse строит дерево с восстановлением после ошибок: одна опечатка не
// прячет диагностику остального файла.
func Parse(path string, maxDiagnostics int) (*ParseResult, error) {
	fs, file, bag, err := load(path, maxDiagnostics)
	if err != nil {
		return nil, err
	}

	rep := &diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: rep})
	res := parser.ParseFile(fs, lx, ast.NewBuilder(), parser.Options{
		Recover:  true,
		Reporter: rep,
	})
	return &ParseResult{FileSet: fs, File: file, Program: res.Program, Bag: bag}, nil
}

type CheckResult struct {
	FileSet  *source.FileSet
	File     *source.File
	Program  *ast.Node
	Bag      *diag.Bag
	Explicit bool
}

// Check — разбор плюс семантический проход.
func Check(path string, maxDiagnostics int) (*CheckResult, error) {
	parsed, err := Parse(path, maxDiagnostics)
	if err != nil {
		return nil, err
	}

	res := sema.Check(parsed.Program, sema.Options{
		Reporter: &diag.BagReporter{Bag: parsed.Bag},
	})
	return &CheckResult{
		FileSet:  parsed.FileSet,
		File:     parsed.File,
		Program:  parsed.Program,
		Bag:      parsed.Bag,
		Explicit: res.Explicit,
	}, nil
}

type CompileResult struct {
	FileSet  *source.FileSet
	File     *source.File
	Program  *ast.Node
	Bag      *diag.Bag
	Artifact *compiler.Artifact
}

// Compile — полная сборка эталонным бэкендом. Синтаксические ошибки
// останавливают сборку, семантические предупреждения — нет.
func Compile(ctx context.Context, path string, maxDiagnostics int) (*CompileResult, error) {
	checked, err := Check(path, maxDiagnostics)
	if err != nil {
		return nil, err
	}
	out := &CompileResult{
		FileSet: checked.FileSet,
		File:    checked.File,
		Program: checked.Program,
		Bag:     checked.Bag,
	}
	if checked.Bag.HasErrors() {
		return out, nil
	}

	comp := compiler.New(transpile.NewReference())
	art, err := comp.Compile(ctx, compiler.Request{
		FileSet: checked.FileSet,
		File:    checked.File,
		Program: checked.Program,
	})
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", path, err)
	}
	out.Artifact = art
	return out, nil
}

func load(path string, maxDiagnostics int) (*source.FileSet, *source.File, *diag.Bag, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load %s: %w", path, err)
	}
	if maxDiagnostics <= 0 {
		maxDiagnostics = 100
	}
	return fs, fs.Get(id), diag.NewBag(maxDiagnostics), nil
}
