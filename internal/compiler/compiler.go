package compiler

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"rebasic/internal/ast"
	"rebasic/internal/impact"
	"rebasic/internal/source"
	"rebasic/internal/transpile"
)

// Compiler отдаёт артефакты, делегируя генерацию кода бэкенду.
// Секция — верхнеуровневая декларация; инкрементальный путь
// пересобирает только секции областей requiresRecompile и вклеивает
// их в предыдущий артефакт. Любой сбой вклейки прозрачно уходит в
// полную пересборку — это запасной путь, а не ошибка.
type Compiler struct {
	backend transpile.Backend

	// кэш по хешу содержимого: байт-в-байт одинаковый исходник не
	// компилируется повторно. Свой замок: вытесненный циклом
	// перезагрузки компилятор может дорабатывать параллельно с новым.
	mu       sync.Mutex
	cache    map[[32]byte]*Artifact
	cacheSeq [][32]byte
	cacheCap int
}

func New(backend transpile.Backend) *Compiler {
	return &Compiler{
		backend:  backend,
		cache:    make(map[[32]byte]*Artifact),
		cacheCap: 64,
	}
}

// Request — один запрос компиляции нового снимка исходника.
type Request struct {
	FileSet *source.FileSet
	File    *source.File
	Program *ast.Node
	// Areas — затронутые области; пересборку требуют только области
	// с флагом Recompile.
	Areas []impact.Area
	// Prev — предыдущий артефакт, основа вклейки. nil = полная сборка.
	Prev *Artifact
	// Incremental выключен — всегда полная сборка.
	Incremental bool
}

func (c *Compiler) Compile(ctx context.Context, req Request) (*Artifact, error) {
	if req.File == nil || req.Program == nil {
		return nil, fmt.Errorf("compile: empty request")
	}
	c.mu.Lock()
	cached, ok := c.cache[req.File.Hash]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	var art *Artifact
	var err error
	if !req.Incremental || req.Prev == nil || len(req.Areas) == 0 {
		art, err = c.full(ctx, req)
	} else if art, err = c.splice(ctx, req); art == nil && err == nil {
		// вклейка не вышла: молча полная пересборка
		art, err = c.full(ctx, req)
	}
	if err != nil {
		return nil, err
	}
	c.store(art)
	return art, nil
}

// full — полная компиляция: каждая верхнеуровневая декларация
// становится секцией.
func (c *Compiler) full(ctx context.Context, req Request) (*Artifact, error) {
	art := &Artifact{Hash: req.File.Hash, FullBuild: true}
	for _, item := range req.Program.Children {
		sec, err := c.compileSection(ctx, req, item)
		if err != nil {
			return nil, err
		}
		art.Sections = append(art.Sections, sec)
		art.Recompiled = append(art.Recompiled, sec.Name)
	}
	return art, nil
}

// splice — инкрементальная сборка: секции нового дерева в порядке
// исходника, пересобираем затронутые, остальные переносим из Prev со
// сдвигом карты. Возврат (nil, nil) — вклейка невозможна, нужен full.
func (c *Compiler) splice(ctx context.Context, req Request) (*Artifact, error) {
	recompile := recompileSet(req.Areas, req.Program)
	art := &Artifact{Hash: req.File.Hash}

	for _, item := range req.Program.Children {
		name := sectionName(item)
		prevIdx, reusable := req.Prev.Section(name)
		if !reusable || recompile[strings.ToLower(name)] {
			sec, err := c.compileSection(ctx, req, item)
			if err != nil {
				if ctx.Err() != nil {
					return nil, err
				}
				return nil, nil // сбой фрагмента → полный путь
			}
			art.Sections = append(art.Sections, sec)
			art.Recompiled = append(art.Recompiled, sec.Name)
			continue
		}

		shifted, ok := shiftSection(req.Prev.Sections[prevIdx], req, item)
		if !ok {
			return nil, nil
		}
		art.Sections = append(art.Sections, shifted)
	}
	return art, nil
}

// compileSection вырезает строки декларации и компилирует их бэкендом.
func (c *Compiler) compileSection(ctx context.Context, req Request, item *ast.Node) (Section, error) {
	first, last, text, ok := sectionLines(req, item)
	if !ok {
		return Section{}, fmt.Errorf("compile: cannot slice lines for %s", item.String())
	}
	name := sectionName(item)
	out, err := c.backend.Compile(ctx, transpile.Unit{
		Name:      name,
		Source:    text,
		FirstLine: first,
	})
	if err != nil {
		return Section{}, fmt.Errorf("compile %s: %w", name, err)
	}
	if !out.OK() {
		return Section{}, fmt.Errorf("compile %s: %s", name, strings.Join(out.Errors, "; "))
	}
	return Section{
		Name:        name,
		Kind:        sectionKind(item),
		SourceFirst: first,
		SourceLast:  last,
		Target:      out.TargetCode,
		Map:         out.SourceMap,
	}, nil
}

// shiftSection переносит нетронутую секцию из старого артефакта,
// передвинув её карту на новые номера строк.
func shiftSection(prev Section, req Request, item *ast.Node) (Section, bool) {
	first, last, _, ok := sectionLines(req, item)
	if !ok {
		return Section{}, false
	}
	delta := first - prev.SourceFirst
	sec := prev
	sec.SourceFirst = first
	sec.SourceLast = last
	if delta != 0 {
		sec.Map = make([]transpile.MapEntry, len(prev.Map))
		for i, m := range prev.Map {
			sec.Map[i] = transpile.MapEntry{
				TargetLine: m.TargetLine,
				SourceLine: m.SourceLine + delta,
			}
		}
	}
	return sec, true
}

// sectionLines — диапазон строк декларации и его текст.
func sectionLines(req Request, item *ast.Node) (first, last int, text string, ok bool) {
	start, end := req.FileSet.Resolve(item.Span)
	if start.Line == 0 {
		return 0, 0, "", false
	}
	sp, ok := req.File.LineSpan(start.Line, end.Line)
	if !ok {
		return 0, 0, "", false
	}
	return int(start.Line), int(end.Line), string(req.File.Content[sp.Start:sp.End]), true
}

// recompileSet — свёрнутые к нижнему регистру имена секций, требующих
// пересборки. Область-контрол поднимается до содержащей формы: секция
// — вся форма.
func recompileSet(areas []impact.Area, program *ast.Node) map[string]bool {
	set := make(map[string]bool, len(areas))
	for _, a := range areas {
		if !a.Recompile {
			continue
		}
		switch a.Kind {
		case impact.AreaControl:
			if form := formOwning(program, a.Name); form != nil {
				set[strings.ToLower(sectionName(form))] = true
			}
		case impact.AreaProcedure:
			// у Property-аксессоров имя секции несёт аксессор
			set[strings.ToLower(a.Name)] = true
			for _, item := range program.Children {
				if item.Kind == ast.NodePropertyDecl && strings.EqualFold(item.Name, a.Name) {
					set[strings.ToLower(sectionName(item))] = true
				}
			}
		default:
			set[strings.ToLower(a.Name)] = true
		}
	}
	return set
}

// formOwning — верхнеуровневая форма, содержащая контрол с данным именем.
func formOwning(program *ast.Node, control string) *ast.Node {
	for _, item := range program.Children {
		if item.Kind != ast.NodeFormDecl {
			continue
		}
		found := false
		ast.Walk(item, func(n *ast.Node, _ int) bool {
			if n.Kind == ast.NodeControlDecl && strings.EqualFold(n.Name, control) {
				found = true
			}
			return !found
		})
		if found {
			return item
		}
	}
	return nil
}

// sectionName — ключ секции. Именованные декларации идут под своим
// именем, безымянные строки шапки — под структурным хешем: он не
// зависит от позиции, сдвиг строк не ломает соответствие.
func sectionName(item *ast.Node) string {
	switch item.Kind {
	case ast.NodeSubDecl, ast.NodeFunctionDecl:
		return item.Name
	case ast.NodePropertyDecl:
		if acc := item.MetaValue("accessor"); acc != "" {
			return item.Name + " " + acc
		}
		return item.Name
	case ast.NodeVarDecl, ast.NodeConstDecl, ast.NodeFormDecl:
		return item.Name
	default:
		return fmt.Sprintf("(%s:%016x)", strings.ToLower(item.Kind.String()), item.Hash)
	}
}

func sectionKind(item *ast.Node) string {
	switch item.Kind {
	case ast.NodeSubDecl, ast.NodeFunctionDecl, ast.NodePropertyDecl:
		return "procedure"
	case ast.NodeVarDecl, ast.NodeConstDecl:
		return "variable"
	case ast.NodeFormDecl:
		return "form"
	default:
		return "preamble"
	}
}

// store кладёт артефакт в кэш, выталкивая самый старый за ёмкостью.
func (c *Compiler) store(art *Artifact) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.cache[art.Hash]; ok {
		return
	}
	if len(c.cacheSeq) >= c.cacheCap {
		oldest := c.cacheSeq[0]
		c.cacheSeq = c.cacheSeq[1:]
		delete(c.cache, oldest)
	}
	c.cache[art.Hash] = art
	c.cacheSeq = append(c.cacheSeq, art.Hash)
}
