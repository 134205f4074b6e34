package impact

import (
	"strings"

	"rebasic/internal/ast"
	"rebasic/internal/astdiff"
)

// AreaKind — вид затронутой области программы.
type AreaKind uint8

const (
	AreaProcedure AreaKind = iota
	AreaVariable
	AreaControl
	AreaForm
	AreaProperty
)

func (k AreaKind) String() string {
	switch k {
	case AreaProcedure:
		return "procedure"
	case AreaVariable:
		return "variable"
	case AreaControl:
		return "control"
	case AreaForm:
		return "form"
	case AreaProperty:
		return "property"
	}
	return "area(?)"
}

// Area — именованная область с флагами требуемой работы. Области с
// одинаковым ключом (Kind, Name, Scope) сливаются, флаги — через OR.
type Area struct {
	Kind  AreaKind
	Name  string
	Scope string

	Recompile     bool
	Rerender      bool
	PreserveState bool
}

// Key — ключ слияния; имя сворачивается к нижнему регистру, VB6
// регистронезависим.
type Key struct {
	Kind  AreaKind
	Name  string
	Scope string
}

func (a Area) Key() Key {
	return Key{Kind: a.Kind, Name: strings.ToLower(a.Name), Scope: a.Scope}
}

func (a Area) String() string {
	flags := make([]string, 0, 3)
	if a.Recompile {
		flags = append(flags, "recompile")
	}
	if a.Rerender {
		flags = append(flags, "rerender")
	}
	if a.PreserveState {
		flags = append(flags, "preserve-state")
	}
	return a.Kind.String() + " " + a.Name + " [" + strings.Join(flags, ",") + "]"
}

// Analyze сводит диффы к минимальному набору областей без дубликатов.
// Таблица kind→флаги фиксированная:
//   - процедура: recompile всегда, preserve-state только для modified
//     (у только что добавленной или удалённой процедуры нет состояния);
//   - переменная и константа: recompile + preserve-state;
//   - форма и контрол: recompile + rerender + preserve-state;
//   - голое присваивание свойства в форме: только rerender.
//
// Дифф глубоко внутри тела поднимается до объемлющей декларации:
// единица перекомпиляции — декларация целиком. Порядок областей —
// порядок первого появления в диффах.
func Analyze(diffs []astdiff.Diff, oldRoot, newRoot *ast.Node) []Area {
	merged := make(map[Key]int)
	var out []Area

	add := func(a Area) {
		key := a.Key()
		if idx, ok := merged[key]; ok {
			out[idx].Recompile = out[idx].Recompile || a.Recompile
			out[idx].Rerender = out[idx].Rerender || a.Rerender
			out[idx].PreserveState = out[idx].PreserveState || a.PreserveState
			return
		}
		merged[key] = len(out)
		out = append(out, a)
	}

	for i, d := range diffs {
		node, kind := d.Node(), d.Kind
		if node == nil {
			continue
		}
		// modified-дифф контейнера, уточнённый более глубокими диффами,
		// сам областью не становится: им управляют листья. Иначе правка
		// одного свойства формы тащила бы за собой перекомпиляцию формы.
		if kind == astdiff.Modified && refined(diffs, i) {
			continue
		}
		if a, ok := areaFor(node, kind); ok {
			add(a)
			continue
		}
		// дифф внутри тела: поднимаемся по пути до ближайшего узла,
		// который сам отображается в область; он существует с обеих
		// сторон — значит modified
		root := newRoot
		if d.New == nil {
			root = oldRoot
		}
		if a, ok := enclosingArea(root, d.Path); ok {
			add(a)
		}
	}
	return out
}

// refined — есть ли дифф, путь которого строго продолжает путь i-го.
func refined(diffs []astdiff.Diff, i int) bool {
	for j := range diffs {
		if j != i && len(diffs[j].Path) > len(diffs[i].Path) &&
			hasPrefix(diffs[j].Path, diffs[i].Path) {
			return true
		}
	}
	return false
}

func hasPrefix(path, prefix []int) bool {
	for k, v := range prefix {
		if path[k] != v {
			return false
		}
	}
	return true
}

// areaFor — запись таблицы для узла-декларации; false для узлов,
// которые сами по себе областью не являются.
func areaFor(node *ast.Node, kind astdiff.DiffKind) (Area, bool) {
	switch node.Kind {
	case ast.NodeSubDecl, ast.NodeFunctionDecl, ast.NodePropertyDecl:
		return Area{
			Kind:          AreaProcedure,
			Name:          node.Name,
			Scope:         "module",
			Recompile:     true,
			PreserveState: kind == astdiff.Modified,
		}, true
	case ast.NodeVarDecl, ast.NodeConstDecl:
		return Area{
			Kind:          AreaVariable,
			Name:          node.Name,
			Scope:         "module",
			Recompile:     true,
			PreserveState: true,
		}, true
	case ast.NodeFormDecl:
		return Area{
			Kind:          AreaForm,
			Name:          node.Name,
			Scope:         "module",
			Recompile:     true,
			Rerender:      true,
			PreserveState: true,
		}, true
	case ast.NodeControlDecl:
		return Area{
			Kind:          AreaControl,
			Name:          node.Name,
			Scope:         "form",
			Recompile:     true,
			Rerender:      true,
			PreserveState: true,
		}, true
	case ast.NodePropertyAssign:
		return Area{
			Kind:     AreaProperty,
			Name:     node.Name,
			Scope:    "form",
			Rerender: true,
		}, true
	}
	return Area{}, false
}

// enclosingArea поднимается по префиксам пути до ближайшего узла с
// записью в таблице областей. Остановка на первом попадании важна:
// присваивание свойства лежит внутри декларации формы, и правка его
// значения даёт область свойства, а не перекомпиляцию всей формы.
// Сам узел по пути уже классифицировать не удалось, поэтому префиксы
// строго короче пути.
func enclosingArea(root *ast.Node, path []int) (Area, bool) {
	if root == nil {
		return Area{}, false
	}
	for i := len(path) - 1; i >= 0; i-- {
		n := ast.ChildAtPath(root, path[:i])
		if n == nil {
			continue
		}
		if a, ok := areaFor(n, astdiff.Modified); ok {
			return a, true
		}
	}
	return Area{}, false
}
