package parser

import (
	"path"
	"strings"

	"rebasic/internal/ast"
	"rebasic/internal/diag"
	"rebasic/internal/lexer"
	"rebasic/internal/source"
	"rebasic/internal/token"
)

type Options struct {
	// MaxErrors — потолок записываемых ошибок, 0 = без лимита.
	MaxErrors     uint
	CurrentErrors uint
	// Recover — режим восстановления: после ошибки пересинхронизироваться
	// на границе оператора и продолжить. Без него разбор останавливается
	// на первой ошибке, вернув частичное дерево.
	Recover  bool
	Reporter diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	Program *ast.Node
	Bag     *diag.Bag
}

// Parser — состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	b        *ast.Builder
	fs       *source.FileSet
	opts     Options
	look     *token.Token // буфер на один значимый токен
	lastSpan source.Span  // span последнего съеденного токена для лучшей диагностики

	// контекст для проверки Exit
	procKind token.Kind // KwSub/KwFunction/KwProperty или Invalid вне процедуры
	forDepth int
	doDepth  int
}

// ParseFile — входная точка для разбора одного файла.
// Требует уже созданный lexer (на основе source.File).
// Дерево возвращается запечатанным: структурные хеши уже посчитаны.
func ParseFile(fs *source.FileSet, lx *lexer.Lexer, b *ast.Builder, opts Options) Result {
	p := Parser{
		lx:       lx,
		b:        b,
		fs:       fs,
		opts:     opts,
		lastSpan: lx.EmptySpan(),
		procKind: token.Invalid,
	}

	program := p.parseProgram()
	ast.Seal(program)

	var bag *diag.Bag
	if br, ok := opts.Reporter.(*diag.BagReporter); ok {
		bag = br.Bag
	}
	return Result{Program: program, Bag: bag}
}

// parseProgram — основной цикл верхнего уровня: пока не EOF — parseModuleItem.
func (p *Parser) parseProgram() *ast.Node {
	file := p.lx.File()
	program := p.b.NewNamed(ast.NodeProgram, p.peek().Span, moduleName(file.Path))

	for {
		p.skipSeparators()
		if p.at(token.EOF) || p.stopped() {
			break
		}
		if !p.parseModuleItem(program) {
			p.resyncTop(program)
		}
	}
	program.Span = program.Span.Cover(p.peek().Span)

	// Attribute VB_Name перекрывает имя, выведенное из пути файла.
	for _, c := range program.Children {
		if c.Kind == ast.NodeAttribute && strings.EqualFold(c.Name, "VB_Name") {
			if v := c.Child(0); v != nil && v.Kind == ast.NodeStringLit {
				program.Name = v.Text
			}
		}
	}
	return program
}

// parseModuleItem выбирает по первому токену распознаватель top-level
// конструкции. Возвращает false, если нужно восстановление.
func (p *Parser) parseModuleItem(program *ast.Node) bool {
	switch p.peek().Kind {
	case token.KwVersion:
		return p.parseVersion(program)
	case token.KwBegin:
		return p.parseFormDecl(program)
	case token.KwAttribute:
		return p.parseAttribute(program)
	case token.KwOption:
		return p.parseOption(program)
	case token.Preproc:
		tok := p.advance()
		program.Add(p.b.NewText(ast.NodePreproc, tok.Span, tok.Text))
		return p.endStatement()
	case token.KwDim:
		tok := p.advance()
		return p.parseVarDecls(program, "dim", tok.Span) && p.endStatement()
	case token.KwConst:
		tok := p.advance()
		return p.parseConstDecls(program, "", tok.Span) && p.endStatement()
	case token.KwPublic, token.KwPrivate, token.KwFriend:
		return p.parseVisibilityItem(program)
	case token.KwStatic:
		visTok := p.advance()
		if p.atOr(token.KwSub, token.KwFunction, token.KwProperty) {
			return p.parseProcDecl(program, "", visTok.Span, true)
		}
		p.err(diag.SynUnexpectedTopLevel, "expected Sub, Function or Property after Static")
		return false
	case token.KwSub, token.KwFunction, token.KwProperty:
		return p.parseProcDecl(program, "", p.peek().Span, false)
	default:
		p.err(diag.SynUnexpectedTopLevel, "unexpected token at module level: "+describeToken(p.peek()))
		return false
	}
}

// parseVisibilityItem — Public/Private/Friend перед процедурой,
// константой или списком переменных.
func (p *Parser) parseVisibilityItem(program *ast.Node) bool {
	visTok := p.advance()
	vis := strings.ToLower(visTok.Text)

	switch p.peek().Kind {
	case token.KwStatic:
		p.advance()
		if !p.atOr(token.KwSub, token.KwFunction, token.KwProperty) {
			p.err(diag.SynUnexpectedTopLevel, "expected Sub, Function or Property after Static")
			return false
		}
		return p.parseProcDecl(program, vis, visTok.Span, true)
	case token.KwSub, token.KwFunction, token.KwProperty:
		return p.parseProcDecl(program, vis, visTok.Span, false)
	case token.KwConst:
		p.advance()
		return p.parseConstDecls(program, vis, visTok.Span) && p.endStatement()
	case token.Ident:
		return p.parseVarDecls(program, vis, visTok.Span) && p.endStatement()
	default:
		p.err(diag.SynUnexpectedTopLevel,
			"expected declaration after '"+visTok.Text+"', got "+describeToken(p.peek()))
		return false
	}
}

// resyncTop — восстановление на верхнем уровне: прокручиваем до конца
// строки или до стартера следующей конструкции, пропущенное помечаем
// узлом Bad, чтобы дерево сохранило след ошибки.
func (p *Parser) resyncTop(program *ast.Node) {
	start := p.peek().Span
	for !p.at(token.EOF) {
		if p.at(token.Newline) {
			p.advance()
			break
		}
		if isTopLevelStarter(p.peek().Kind) {
			break
		}
		p.advance()
	}
	if p.lastSpan.End > start.Start {
		program.Add(p.b.New(ast.NodeBad, start.Cover(p.lastSpan)))
	}
}

// isTopLevelStarter — принадлежит ли токен стартерам module item.
func isTopLevelStarter(k token.Kind) bool {
	switch k {
	case token.KwSub, token.KwFunction, token.KwProperty, token.KwPublic,
		token.KwPrivate, token.KwFriend, token.KwDim, token.KwConst,
		token.KwOption, token.KwAttribute, token.KwBegin, token.KwStatic,
		token.KwVersion:
		return true
	default:
		return false
	}
}

// moduleName выводит имя модуля из пути файла: Form1.frm -> Form1.
func moduleName(filePath string) string {
	base := source.BaseName(filePath)
	return strings.TrimSuffix(base, path.Ext(base))
}
