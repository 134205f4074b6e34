package hotreload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"rebasic/internal/ast"
	"rebasic/internal/astdiff"
	"rebasic/internal/compiler"
	"rebasic/internal/diag"
	"rebasic/internal/impact"
	"rebasic/internal/lexer"
	"rebasic/internal/parser"
	"rebasic/internal/sema"
	"rebasic/internal/source"
	"rebasic/internal/state"
	"rebasic/internal/transpile"
)

// Phase — где сейчас находится цикл перезагрузки.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseParsing
	PhaseDiffing
	PhaseImpactAnalysis
	PhaseStatePreserving
	PhaseCompiling
	PhaseApplying
	PhaseCommitted
	PhaseRolledBack
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseParsing:
		return "parsing"
	case PhaseDiffing:
		return "diffing"
	case PhaseImpactAnalysis:
		return "impact-analysis"
	case PhaseStatePreserving:
		return "state-preserving"
	case PhaseCompiling:
		return "compiling"
	case PhaseApplying:
		return "applying"
	case PhaseCommitted:
		return "committed"
	case PhaseRolledBack:
		return "rolled-back"
	}
	return "unknown"
}

var (
	// ErrDisabled — движок выключен, перезагрузки отклоняются (RLD6001).
	ErrDisabled = errors.New("hot reload is disabled")
	// ErrCancelled — цикл вытеснен более свежей правкой или выключением
	// движка; базис не тронут, отката не было (RLD6002).
	ErrCancelled = errors.New("reload cycle cancelled")
	// ErrParseFailed — исходник не разобрался, цикл оборван до патча.
	ErrParseFailed = errors.New("parse failed")
	// ErrTimeout — цикл упёрся в CycleTimeout; обычный сбой с откатом (RLD6003).
	ErrTimeout = errors.New("reload cycle timed out")
)

// Activator исполняет собранный артефакт в работающей программе.
// Поставляется хостом; ядро целевой текст не исполняет.
type Activator func(*compiler.Artifact) error

type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func WithActivator(a Activator) Option {
	return func(e *Engine) { e.activate = a }
}

func WithBackend(b transpile.Backend) Option {
	return func(e *Engine) { e.comp = compiler.New(b) }
}

// WithPath задаёт имя виртуального файла в диагностике.
func WithPath(p string) Option {
	return func(e *Engine) { e.path = p }
}

// Engine — один экземпляр конвейера перезагрузки. Не синглтон: хост
// создаёт по экземпляру на программу и держит его за ручку.
//
// Разделяемое состояние (базис, история, кэш артефактов) принадлежит
// движку и закрыто мьютексом; сами фазы цикла идут последовательно вне
// замка, коммит — compare-and-swap по номеру поколения.
type Engine struct {
	cfg      Config
	log      *slog.Logger
	provider state.Provider
	comp     *compiler.Compiler
	activate Activator
	events   *eventTable
	path     string

	mu          sync.Mutex
	phase       Phase
	enabled     bool
	generation  uint64
	nextPatchID uint64

	// базис: работающая программа
	curAST      *ast.Node
	curSource   []byte
	curSnapshot *state.Snapshot
	curArtifact *compiler.Artifact

	hist    *history
	metrics Metrics
	lat     latencyRing

	debounce *time.Timer
	pending  []byte
	inflight context.CancelFunc
}

func New(cfg Config, provider state.Provider, opts ...Option) *Engine {
	e := &Engine{
		cfg:      cfg,
		log:      slog.Default(),
		provider: provider,
		comp:     compiler.New(transpile.NewReference()),
		events:   newEventTable(),
		path:     "live.bas",
		enabled:  cfg.Enabled,
		hist:     newHistory(cfg.MaxHistory),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Subscribe(kind EventKind, fn Handler) Subscription {
	return e.events.subscribe(kind, fn)
}

func (e *Engine) Unsubscribe(id Subscription) { e.events.unsubscribe(id) }

// Trigger — дебаунс-вход для шквала правок: окно сбрасывается каждой
// новой правкой, конвейер стартует один раз по последнему снимку.
func (e *Engine) Trigger(src []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.enabled {
		return
	}
	e.pending = append([]byte(nil), src...)
	if e.debounce == nil {
		e.debounce = time.AfterFunc(e.cfg.Debounce, e.fireDebounce)
	} else {
		e.debounce.Reset(e.cfg.Debounce)
	}
}

func (e *Engine) fireDebounce() {
	e.mu.Lock()
	src := e.pending
	e.pending = nil
	enabled := e.enabled
	e.mu.Unlock()
	if src == nil || !enabled {
		return
	}
	if _, err := e.Reload(context.Background(), src); err != nil {
		e.log.Debug("reload failed", "err", err)
	}
}

// Enable снова допускает перезагрузки после Disable.
func (e *Engine) Enable() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enabled = true
}

// Disable отклоняет новые перезагрузки, гасит дебаунс и отменяет
// летящий цикл: досчитать ему не мешаем, применяться не дадим.
func (e *Engine) Disable() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enabled = false
	e.pending = nil
	if e.debounce != nil {
		e.debounce.Stop()
	}
	if e.inflight != nil {
		e.inflight()
	}
}

func (e *Engine) Close() { e.Disable() }

type baseline struct {
	ast      *ast.Node
	source   []byte
	snapshot *state.Snapshot
	artifact *compiler.Artifact
}

// Reload прогоняет один полный цикл по данному снимку исходника.
// Первый вызов без базиса — первичная загрузка: полная сборка без
// диффа. Повторная правка во время летящего цикла отменяет его —
// побеждает самый свежий исходник.
func (e *Engine) Reload(ctx context.Context, src []byte) (*Patch, error) {
	e.mu.Lock()
	if !e.enabled {
		e.mu.Unlock()
		return nil, ErrDisabled
	}
	if e.inflight != nil {
		e.inflight() // newest wins
	}
	var cctx context.Context
	var cancel context.CancelFunc
	if e.cfg.CycleTimeout > 0 {
		cctx, cancel = context.WithTimeout(ctx, e.cfg.CycleTimeout)
	} else {
		cctx, cancel = context.WithCancel(ctx)
	}
	e.inflight = cancel
	startGen := e.generation
	base := baseline{
		ast:      e.curAST,
		source:   e.curSource,
		snapshot: e.curSnapshot,
		artifact: e.curArtifact,
	}
	e.metrics.Cycles++
	e.mu.Unlock()
	defer cancel()

	started := time.Now()
	e.events.emit(Event{Kind: BeforeReload, Metrics: e.Metrics()})

	cs := &cycleState{}
	patch, err := e.runCycle(cctx, src, base, startGen, started, cs)
	if err != nil {
		if errors.Is(err, ErrCancelled) || errors.Is(err, ErrDisabled) {
			// базис не тронут, откатывать нечего
			e.setPhase(PhaseIdle)
			return nil, err
		}
		e.rollback(cs, err)
		return nil, err
	}
	e.events.emit(Event{Kind: AfterReload, Patch: patch, Metrics: e.Metrics()})
	e.log.Info("reload committed",
		"patch", patch.ID,
		"sections", len(patch.Artifact.Sections),
		"full", patch.Artifact.FullBuild,
		"latency", patch.Latency)
	e.setPhase(PhaseIdle)
	return patch, nil
}

// cycleState отдаёт наружу снимок, снятый провалившимся циклом: он и
// есть последнее хорошее состояние живых объектов. activated взводится
// перед вызовом активатора: полупровалившаяся активация тоже требует
// вернуть хосту прежний артефакт.
type cycleState struct {
	snap      *state.Snapshot
	activated bool
	prevArt   *compiler.Artifact
}

func (e *Engine) runCycle(ctx context.Context, src []byte, base baseline, startGen uint64, started time.Time, cs *cycleState) (*Patch, error) {
	// Parsing
	e.setPhase(PhaseParsing)
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(e.path, src))
	bag := diag.NewBag(e.cfg.MaxDiagnostics)
	rep := &diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: rep})
	res := parser.ParseFile(fs, lx, ast.NewBuilder(), parser.Options{
		Recover:  e.cfg.ErrorRecovery,
		Reporter: rep,
	})
	if bag.HasErrors() || res.Program == nil {
		// режим восстановления дособирает диагностику по всему файлу,
		// но сломанное дерево к работающей программе не применяется
		return nil, fmt.Errorf("%w: %s", ErrParseFailed, firstError(bag))
	}
	// семантика не фатальна для перезагрузки: предупреждения едут в
	// сумке патча, программу они не останавливают
	sema.Check(res.Program, sema.Options{Reporter: rep})

	if err := cancelled(ctx); err != nil {
		return nil, err
	}

	// Diffing + ImpactAnalysis: при первичной загрузке базиса нет,
	// сравнивать не с чем
	var diffs []astdiff.Diff
	var areas []impact.Area
	if base.ast != nil {
		e.setPhase(PhaseDiffing)
		diffs = astdiff.Compare(base.ast, res.Program)
		e.setPhase(PhaseImpactAnalysis)
		areas = impact.Analyze(diffs, base.ast, res.Program)
	}

	// StatePreserving
	var snap *state.Snapshot
	if e.cfg.PreserveState {
		e.setPhase(PhaseStatePreserving)
		var err error
		if snap, err = state.Capture(e.provider); err != nil {
			return nil, fmt.Errorf("state preserving: %w", err)
		}
		cs.snap = snap
		e.events.emit(Event{Kind: StatePreserved, Metrics: e.Metrics()})
	}

	// Compiling
	e.setPhase(PhaseCompiling)
	art, err := e.comp.Compile(ctx, compiler.Request{
		FileSet:     fs,
		File:        file,
		Program:     res.Program,
		Areas:       areas,
		Prev:        base.artifact,
		Incremental: e.cfg.Incremental && base.artifact != nil,
	})
	if err != nil {
		if cerr := cancelled(ctx); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("compiling: %w", err)
	}
	e.events.emit(Event{Kind: CompilationComplete, Metrics: e.Metrics()})

	// Applying: атомарная подмена базиса под замком; поколение —
	// сторож от двойного коммита наперегонки
	e.setPhase(PhaseApplying)
	patch := &Patch{
		Time:     time.Now(),
		Diffs:    diffs,
		Areas:    areas,
		Artifact: art,
		Snapshot: snap,
		Diags:    bag,
		Rollback: RollbackData{
			PrevAST:      base.ast,
			PrevSource:   base.source,
			PrevSnapshot: base.snapshot,
		},
	}

	e.mu.Lock()
	if !e.enabled || e.generation != startGen {
		e.mu.Unlock()
		return nil, ErrCancelled
	}
	if err := cancelled(ctx); err != nil {
		e.mu.Unlock()
		return nil, err
	}
	if e.activate != nil {
		cs.prevArt = base.artifact
		cs.activated = true
		if err := e.activate(art); err != nil {
			e.mu.Unlock()
			return nil, fmt.Errorf("applying: %w", err)
		}
	}
	if snap != nil {
		if err := state.Restore(e.provider, snap); err != nil {
			e.mu.Unlock()
			return nil, fmt.Errorf("applying: restore: %w", err)
		}
	}
	e.curAST = res.Program
	e.curSource = append([]byte(nil), src...)
	e.curSnapshot = snap
	e.curArtifact = art
	e.generation++
	e.nextPatchID++
	patch.ID = e.nextPatchID
	patch.Latency = time.Since(started)
	e.lat.add(patch.Latency)
	e.metrics.Commits++
	e.metrics.AvgLatency = e.lat.average()
	e.hist.push(patch)
	e.phase = PhaseCommitted
	e.mu.Unlock()
	return patch, nil
}

// rollback возвращает живым объектам состояние на момент старта
// провалившегося цикла — результат последнего успешного патча. Базис
// движок не мутирует до коммита, так что дерево и исходник последнего
// успешного патча уже на месте. Если цикл успел дойти до активатора,
// хосту возвращается прежний артефакт: без этого после провала
// Restore программа продолжила бы исполнять новый код.
func (e *Engine) rollback(cs *cycleState, cause error) {
	e.mu.Lock()
	e.metrics.Rollbacks++
	e.phase = PhaseRolledBack
	m := e.metrics
	e.mu.Unlock()

	if cs.activated && e.activate != nil && cs.prevArt != nil {
		if err := e.activate(cs.prevArt); err != nil {
			e.log.Error("rollback re-activation failed", "err", err)
		}
	}
	if cs.snap != nil {
		if err := state.Restore(e.provider, cs.snap); err != nil {
			e.log.Error("rollback state restore failed", "err", err)
		}
	}
	e.log.Warn("reload rolled back", "err", cause)
	e.events.emit(Event{Kind: Rollback, Err: cause, Metrics: m})
	e.events.emit(Event{Kind: ReloadError, Err: cause, Metrics: m})
	e.setPhase(PhaseIdle)
}

func (e *Engine) setPhase(p Phase) {
	e.mu.Lock()
	e.phase = p
	e.mu.Unlock()
	if e.cfg.Verbose {
		e.log.Debug("phase", "phase", p.String())
	}
}

func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

func (e *Engine) Metrics() Metrics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.metrics
}

// History — снимок кольца успешных патчей, от старых к новым.
func (e *Engine) History() []*Patch {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hist.list()
}

func (e *Engine) LatestPatch() *Patch {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hist.latest()
}

// CurrentSource — исходник работающей программы.
func (e *Engine) CurrentSource() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]byte(nil), e.curSource...)
}

func (e *Engine) CurrentAST() *ast.Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.curAST
}

func (e *Engine) Artifact() *compiler.Artifact {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.curArtifact
}

func cancelled(ctx context.Context) error {
	switch err := ctx.Err(); {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	default:
		return fmt.Errorf("%w: %v", ErrCancelled, err)
	}
}

func firstError(bag *diag.Bag) string {
	for _, d := range bag.Items() {
		if d.Severity >= diag.SevError {
			return d.Message
		}
	}
	return "unknown error"
}
