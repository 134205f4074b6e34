package hotreload

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rebasic/internal/compiler"
	"rebasic/internal/state"
	"rebasic/internal/transpile"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Debounce = 40 * time.Millisecond
	return cfg
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *state.MemProvider) {
	t.Helper()
	mp := state.NewMemProvider()
	e := New(testConfig(), mp, opts...)
	t.Cleanup(e.Close)
	return e, mp
}

func TestInitialReloadCommitsFullBuild(t *testing.T) {
	e, _ := newTestEngine(t)

	patch, err := e.Reload(context.Background(), []byte("Sub Foo()\nEnd Sub\n"))
	require.NoError(t, err)

	assert.True(t, patch.Artifact.FullBuild)
	assert.Empty(t, patch.Diffs, "first load has nothing to diff against")
	assert.Equal(t, uint64(1), patch.ID)
	assert.Equal(t, PhaseIdle, e.Phase())
	require.Len(t, e.History(), 1)
}

func TestSecondReloadIsIncremental(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Reload(ctx, []byte("Sub Foo()\nEnd Sub\n"))
	require.NoError(t, err)

	patch, err := e.Reload(ctx, []byte("Sub Foo()\nEnd Sub\nDim y As Integer\n"))
	require.NoError(t, err)

	assert.False(t, patch.Artifact.FullBuild)
	assert.Equal(t, []string{"y"}, patch.Artifact.Recompiled, "Foo must not be reprocessed")
	require.NotEmpty(t, patch.Areas)
}

func TestHistoryBounded(t *testing.T) {
	cfg := testConfig()
	cfg.MaxHistory = 3
	mp := state.NewMemProvider()
	e := New(cfg, mp)
	defer e.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		src := fmt.Sprintf("Dim v%d As Integer\n", i)
		_, err := e.Reload(ctx, []byte(src))
		require.NoError(t, err)
	}

	hist := e.History()
	require.Len(t, hist, 3, "oldest patches must be evicted")
	assert.Equal(t, uint64(3), hist[0].ID)
	assert.Equal(t, uint64(5), hist[2].ID)
}

func TestFailedApplyRollsBackToLastGoodState(t *testing.T) {
	var failApply bool
	e, mp := newTestEngine(t, WithActivator(func(*compiler.Artifact) error {
		if failApply {
			return errors.New("activation refused")
		}
		return nil
	}))

	mp.SetObject("Form1.Text1", state.Record{"Text": "hello"})

	ctx := context.Background()
	src1 := []byte("Sub Foo()\nEnd Sub\n")
	p1, err := e.Reload(ctx, src1)
	require.NoError(t, err)

	// программа пожила после P1 и поменяла своё состояние
	mp.SetObject("Form1.Text1", state.Record{"Text": "runtime-edit"})

	var rolledBack error
	e.Subscribe(Rollback, func(ev Event) { rolledBack = ev.Err })

	failApply = true
	_, err = e.Reload(ctx, []byte("Sub Foo()\n    Beep\nEnd Sub\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "activation refused")

	// базис остался результатом P1, не состоянием до P1
	assert.Equal(t, src1, e.CurrentSource())
	assert.Equal(t, uint64(1), e.Metrics().Rollbacks)
	require.NotNil(t, rolledBack)

	rec, ok := mp.Object("Form1.Text1")
	require.True(t, ok)
	assert.EqualValues(t, "runtime-edit", rec["Text"],
		"rollback must restore the state captured at the start of the failed cycle")

	require.Len(t, e.History(), 1)
	assert.Equal(t, p1.ID, e.History()[0].ID)
}

// refusingProvider принимает состояние до взведения refuse, после —
// отклоняет любой ApplyState.
type refusingProvider struct {
	*state.MemProvider
	refuse bool
}

func (p *refusingProvider) ApplyState(id string, rec state.Record) error {
	if p.refuse {
		return errors.New("apply refused")
	}
	return p.MemProvider.ApplyState(id, rec)
}

func TestFailedRestoreReactivatesPreviousArtifact(t *testing.T) {
	rp := &refusingProvider{MemProvider: state.NewMemProvider()}

	var lastActivated *compiler.Artifact
	e := New(testConfig(), rp, WithActivator(func(a *compiler.Artifact) error {
		lastActivated = a
		return nil
	}))
	t.Cleanup(e.Close)

	rp.SetObject("Form1.Text1", state.Record{"Text": "hello"})

	ctx := context.Background()
	src1 := []byte("Sub Foo()\nEnd Sub\n")
	p1, err := e.Reload(ctx, src1)
	require.NoError(t, err)
	require.Same(t, p1.Artifact, lastActivated)

	// восстановление состояния проваливается уже ПОСЛЕ активации
	// нового артефакта: хост должен получить обратно прежний код
	rp.refuse = true
	_, err = e.Reload(ctx, []byte("Sub Foo()\n    Beep\nEnd Sub\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apply refused")

	assert.Same(t, p1.Artifact, lastActivated,
		"after rollback the host must run the previous artifact")
	assert.NotContains(t, lastActivated.TargetCode(), "Beep")
	assert.Equal(t, src1, e.CurrentSource())
	assert.Equal(t, uint64(1), e.Metrics().Rollbacks)
}

func TestParseErrorRollsBackWithoutTouchingBaseline(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	src1 := []byte("Sub Foo()\nEnd Sub\n")
	_, err := e.Reload(ctx, src1)
	require.NoError(t, err)

	_, err = e.Reload(ctx, []byte("Sub ()\nEnd Sub\n"))
	require.ErrorIs(t, err, ErrParseFailed)

	assert.Equal(t, src1, e.CurrentSource())
	assert.Equal(t, uint64(1), e.Metrics().Rollbacks)
	require.Len(t, e.History(), 1)
}

func TestDisabledEngineRejectsReload(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	e := New(cfg, state.NewMemProvider())
	defer e.Close()

	_, err := e.Reload(context.Background(), []byte("Sub Foo()\nEnd Sub\n"))
	require.ErrorIs(t, err, ErrDisabled)
}

func TestDebounceCoalescesBurst(t *testing.T) {
	e, _ := newTestEngine(t)

	commits := make(chan *Patch, 8)
	e.Subscribe(AfterReload, func(ev Event) { commits <- ev.Patch })

	// две правки внутри одного окна — один прогон по последнему снимку
	e.Trigger([]byte("Dim a As Integer\n"))
	time.Sleep(15 * time.Millisecond)
	e.Trigger([]byte("Dim b As Integer\n"))

	select {
	case p := <-commits:
		assert.Contains(t, p.Artifact.TargetCode(), "let b;")
		assert.NotContains(t, p.Artifact.TargetCode(), "let a;")
	case <-time.After(time.Second):
		t.Fatal("debounced reload never ran")
	}

	select {
	case <-commits:
		t.Fatal("burst must collapse into exactly one pipeline run")
	case <-time.After(150 * time.Millisecond):
	}
}

// slowBackend растягивает компиляцию, чтобы тесты успевали вмешаться
// в летящий цикл.
type slowBackend struct {
	ref   *transpile.Reference
	delay time.Duration
}

func (s *slowBackend) Compile(ctx context.Context, unit transpile.Unit) (transpile.Output, error) {
	select {
	case <-ctx.Done():
		return transpile.Output{}, ctx.Err()
	case <-time.After(s.delay):
	}
	return s.ref.Compile(ctx, unit)
}

func TestNewerEditCancelsInflightCycle(t *testing.T) {
	e, _ := newTestEngine(t, WithBackend(&slowBackend{
		ref:   transpile.NewReference(),
		delay: 120 * time.Millisecond,
	}))
	ctx := context.Background()

	firstErr := make(chan error, 1)
	go func() {
		_, err := e.Reload(ctx, []byte("Dim first As Integer\n"))
		firstErr <- err
	}()
	time.Sleep(40 * time.Millisecond) // первый цикл сидит в Compiling

	patch, err := e.Reload(ctx, []byte("Dim second As Integer\n"))
	require.NoError(t, err)
	assert.Contains(t, patch.Artifact.TargetCode(), "let second;")

	require.ErrorIs(t, <-firstErr, ErrCancelled)
	assert.Equal(t, []byte("Dim second As Integer\n"), e.CurrentSource())
	assert.Equal(t, uint64(0), e.Metrics().Rollbacks,
		"a superseded cycle is not a failure")
	assert.Equal(t, uint64(1), e.Metrics().Commits)
}

func TestDisableBlocksInflightApply(t *testing.T) {
	e, _ := newTestEngine(t, WithBackend(&slowBackend{
		ref:   transpile.NewReference(),
		delay: 120 * time.Millisecond,
	}))

	errCh := make(chan error, 1)
	go func() {
		_, err := e.Reload(context.Background(), []byte("Dim a As Integer\n"))
		errCh <- err
	}()
	time.Sleep(40 * time.Millisecond)
	e.Disable()

	require.ErrorIs(t, <-errCh, ErrCancelled)
	assert.Empty(t, e.History())
}

func TestCycleTimeoutRollsBack(t *testing.T) {
	cfg := testConfig()
	cfg.CycleTimeout = 40 * time.Millisecond
	e := New(cfg, state.NewMemProvider(), WithBackend(&slowBackend{
		ref:   transpile.NewReference(),
		delay: 300 * time.Millisecond,
	}))
	defer e.Close()

	_, err := e.Reload(context.Background(), []byte("Dim a As Integer\n"))
	require.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, uint64(1), e.Metrics().Rollbacks)
}

func TestEventOrderOnSuccess(t *testing.T) {
	e, _ := newTestEngine(t)

	var mu sync.Mutex
	var order []EventKind
	record := func(ev Event) {
		mu.Lock()
		order = append(order, ev.Kind)
		mu.Unlock()
	}
	for _, k := range []EventKind{BeforeReload, StatePreserved, CompilationComplete, AfterReload} {
		e.Subscribe(k, record)
	}

	_, err := e.Reload(context.Background(), []byte("Sub Foo()\nEnd Sub\n"))
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []EventKind{BeforeReload, StatePreserved, CompilationComplete, AfterReload}, order)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	e, _ := newTestEngine(t)

	calls := 0
	id := e.Subscribe(AfterReload, func(Event) { calls++ })

	ctx := context.Background()
	_, err := e.Reload(ctx, []byte("Dim a As Integer\n"))
	require.NoError(t, err)

	e.Unsubscribe(id)
	_, err = e.Reload(ctx, []byte("Dim b As Integer\n"))
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}

func TestRollbackDataCarriesPreviousBaseline(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	src1 := []byte("Sub Foo()\nEnd Sub\n")
	_, err := e.Reload(ctx, src1)
	require.NoError(t, err)

	p2, err := e.Reload(ctx, []byte("Sub Foo()\nEnd Sub\nDim y As Integer\n"))
	require.NoError(t, err)

	assert.Equal(t, src1, p2.Rollback.PrevSource)
	require.NotNil(t, p2.Rollback.PrevAST)
}

func TestMetricsTrackLatency(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Reload(ctx, []byte("Dim a As Integer\n"))
	require.NoError(t, err)

	m := e.Metrics()
	assert.Equal(t, uint64(1), m.Cycles)
	assert.Equal(t, uint64(1), m.Commits)
	assert.Greater(t, m.AvgLatency, time.Duration(0))
}
