package astdiff

import (
	"strconv"
	"strings"

	"rebasic/internal/ast"
)

// DiffKind классифицирует расхождение двух деревьев в одной позиции.
type DiffKind uint8

const (
	// Added — узел есть только в новом дереве.
	Added DiffKind = iota
	// Removed — узел есть только в старом дереве.
	Removed
	// Modified — позиция совпала, хеши разошлись.
	Modified
)

func (k DiffKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Modified:
		return "modified"
	}
	return "diff(?)"
}

// Diff — одно расхождение. Old и New одолжены у входных деревьев,
// Diff ими не владеет и живёт не дольше, чем сами деревья.
type Diff struct {
	Kind DiffKind
	// Path — индексы детей от корня до узла.
	Path []int
	Old  *ast.Node
	New  *ast.Node
}

// Node — сторона диффа, на которой узел существует.
func (d Diff) Node() *ast.Node {
	if d.New != nil {
		return d.New
	}
	return d.Old
}

func (d Diff) String() string {
	var sb strings.Builder
	sb.WriteString(d.Kind.String())
	sb.WriteByte(' ')
	if len(d.Path) == 0 {
		sb.WriteString("/")
	}
	for _, i := range d.Path {
		sb.WriteByte('/')
		sb.WriteString(strconv.Itoa(i))
	}
	if n := d.Node(); n != nil {
		sb.WriteByte(' ')
		sb.WriteString(n.String())
	}
	return sb.String()
}

// Compare — чистая функция: упорядоченный список расхождений двух
// запечатанных деревьев. Совпадение хешей в одинаковой позиции
// отсекает всё поддерево без спуска, поэтому работа ограничена
// O(число узлов). Дети сравниваются по позициям: короткая сторона
// мысленно дополняется, перестановка одинаковых детей отражается
// парой removed/added — поиск перемещений сознательно не делается.
func Compare(oldTree, newTree *ast.Node) []Diff {
	w := walker{visited: make(map[string]struct{})}
	w.compare(oldTree, newTree, nil)
	return w.diffs
}

type walker struct {
	diffs   []Diff
	visited map[string]struct{}
}

func (w *walker) compare(oldNode, newNode *ast.Node, path []int) {
	if !w.mark(path) {
		return
	}
	switch {
	case oldNode == nil && newNode == nil:
		return
	case oldNode == nil:
		// в отсутствующую сторону не спускаемся
		w.push(Added, path, nil, newNode)
		return
	case newNode == nil:
		w.push(Removed, path, oldNode, nil)
		return
	}

	if oldNode.Hash == newNode.Hash {
		return
	}
	w.push(Modified, path, oldNode, newNode)

	n := max(oldNode.NumChildren(), newNode.NumChildren())
	for i := 0; i < n; i++ {
		w.compare(oldNode.Child(i), newNode.Child(i), append(path, i))
	}
}

// mark регистрирует позицию; повторный визит одной позиции невозможен
// при корректном обходе, но set держит это инвариантом, а не надеждой.
func (w *walker) mark(path []int) bool {
	key := pathKey(path)
	if _, ok := w.visited[key]; ok {
		return false
	}
	w.visited[key] = struct{}{}
	return true
}

func (w *walker) push(kind DiffKind, path []int, oldNode, newNode *ast.Node) {
	// path переиспользуется при обходе, диффу нужна своя копия
	cp := make([]int, len(path))
	copy(cp, path)
	w.diffs = append(w.diffs, Diff{Kind: kind, Path: cp, Old: oldNode, New: newNode})
}

func pathKey(path []int) string {
	if len(path) == 0 {
		return "/"
	}
	var sb strings.Builder
	for _, i := range path {
		sb.WriteByte('/')
		sb.WriteString(strconv.Itoa(i))
	}
	return sb.String()
}
