package transpile

import (
	"context"
	"fmt"
	"strings"
)

// Reference — построчный эталонный бэкенд для CLI и тестов. Делает
// наивный перевод VB6 в JS-подобный текст: по одной целевой строке на
// значимую исходную, так что карта источника тривиальна. Настоящий
// генератор кода — внешний коллаборатор, этот существует, чтобы
// конвейер можно было гонять без него.
type Reference struct{}

func NewReference() *Reference { return &Reference{} }

func (r *Reference) Compile(ctx context.Context, unit Unit) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}

	first := unit.FirstLine
	if first <= 0 {
		first = 1
	}

	var out Output
	var sb strings.Builder
	depth := 0
	targetLine := 0

	for i, raw := range strings.Split(unit.Source, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "'") {
			continue
		}
		translated, delta := translateLine(line)
		if translated == "" {
			continue
		}
		if delta < 0 && depth > 0 {
			depth--
		}
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(translated)
		sb.WriteByte('\n')
		if delta > 0 {
			depth++
		}
		targetLine++
		out.SourceMap = append(out.SourceMap, MapEntry{
			TargetLine: targetLine,
			SourceLine: first + i,
		})
	}

	if depth != 0 {
		out.Errors = append(out.Errors,
			fmt.Sprintf("%s: unbalanced block nesting (%+d)", unitName(unit), depth))
	}
	out.TargetCode = sb.String()
	return out, nil
}

func unitName(unit Unit) string {
	if unit.Name != "" {
		return unit.Name
	}
	return "<file>"
}

// translateLine — перевод одной строки и её вклад в глубину блоков.
// Узнаваемые конструкции получают осмысленный JS, остальное уходит
// вызовом рантайм-шины vb.exec, чтобы цель всегда была синтаксически
// связной.
func translateLine(line string) (string, int) {
	lower := strings.ToLower(line)
	word := firstWord(lower)

	switch word {
	case "option", "attribute", "version":
		return "", 0
	case "dim", "private", "public", "static", "const":
		if rest, open := procHeader(line, lower); open {
			return rest, 1
		}
		return declLine(line), 0
	case "sub", "function", "property":
		rest, _ := procHeader(line, lower)
		return rest, 1
	case "end":
		switch firstWord(strings.TrimSpace(lower[3:])) {
		case "sub", "function", "property", "if", "select":
			return "}", -1
		}
		return "}", -1
	case "if":
		if strings.HasSuffix(lower, "then") {
			cond := strings.TrimSpace(line[2 : len(line)-4])
			return "if (" + cond + ") {", 1
		}
		return "vb.exec(" + quote(line) + ");", 0
	case "elseif":
		cond := strings.TrimSpace(line[6:])
		if strings.HasSuffix(strings.ToLower(cond), "then") {
			cond = strings.TrimSpace(cond[:len(cond)-4])
		}
		return "} else if (" + cond + ") {", 0
	case "else":
		return "} else {", 0
	case "for", "while", "do", "select":
		return "vb.loop(" + quote(line) + "); {", 1
	case "next", "wend", "loop":
		return "}", -1
	case "exit":
		return "return;", 0
	case "begin":
		return "vb.form(" + quote(line) + "); {", 1
	}

	if eq := strings.Index(line, "="); eq > 0 && !strings.ContainsAny(line[:eq], "(<>") {
		return strings.TrimSpace(line[:eq]) + " = vb.eval(" + quote(strings.TrimSpace(line[eq+1:])) + ");", 0
	}
	return "vb.exec(" + quote(line) + ");", 0
}

// procHeader распознаёт заголовок процедуры, в том числе за
// модификатором видимости: Private Sub Foo(...).
func procHeader(line, lower string) (string, bool) {
	fields := strings.Fields(lower)
	for i, f := range fields {
		switch f {
		case "sub", "function", "property":
			name := ""
			if i+1 < len(fields) {
				name = strings.Fields(line)[i+1]
				if p := strings.IndexByte(name, '('); p >= 0 {
					name = name[:p]
				}
				if f == "property" && i+2 < len(strings.Fields(line)) {
					name = strings.Fields(line)[i+2]
					if p := strings.IndexByte(name, '('); p >= 0 {
						name = name[:p]
					}
				}
			}
			return "function " + name + "() {", true
		case "private", "public", "friend", "static":
			continue
		default:
			return "", false
		}
	}
	return "", false
}

func declLine(line string) string {
	fields := strings.Fields(line)
	names := make([]string, 0, 2)
	for _, f := range fields[1:] {
		lf := strings.ToLower(f)
		if lf == "as" {
			break
		}
		name := strings.TrimSuffix(f, ",")
		if p := strings.IndexByte(name, '('); p >= 0 {
			name = name[:p]
		}
		names = append(names, "let "+name+";")
		if !strings.HasSuffix(f, ",") {
			break
		}
	}
	if len(names) == 0 {
		return "vb.exec(" + quote(line) + ");"
	}
	return strings.Join(names, " ")
}

func firstWord(s string) string {
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i]
	}
	return s
}

func quote(s string) string {
	return fmt.Sprintf("%q", s)
}
