package hotreload

import (
	"time"

	"rebasic/internal/ast"
	"rebasic/internal/astdiff"
	"rebasic/internal/compiler"
	"rebasic/internal/diag"
	"rebasic/internal/impact"
	"rebasic/internal/state"
)

// Patch — атомарная единица одного цикла перезагрузки: дифф,
// классификация, артефакт, снимок состояния и данные отката одним
// свёртком. В историю попадают только успешные патчи.
type Patch struct {
	// ID монотонный: воспроизводимые тесты важнее глобальной
	// уникальности.
	ID       uint64
	Time     time.Time
	Diffs    []astdiff.Diff
	Areas    []impact.Area
	Artifact *compiler.Artifact
	// Snapshot — состояние, снятое перед применением этого патча.
	Snapshot *state.Snapshot
	// Diags — диагностика цикла (предупреждения семантики и т.п.).
	Diags    *diag.Bag
	Rollback RollbackData
	// Latency — длительность цикла от старта до коммита.
	Latency time.Duration
}

// RollbackData — базис, действовавший до применения патча.
type RollbackData struct {
	PrevAST      *ast.Node
	PrevSource   []byte
	PrevSnapshot *state.Snapshot
}

// history — ограниченное кольцо патчей, старейший вытесняется.
type history struct {
	patches []*Patch
	max     int
}

func newHistory(max int) *history {
	if max < 1 {
		max = 1
	}
	return &history{max: max}
}

func (h *history) push(p *Patch) {
	if len(h.patches) >= h.max {
		n := copy(h.patches, h.patches[len(h.patches)-h.max+1:])
		h.patches = h.patches[:n]
	}
	h.patches = append(h.patches, p)
}

func (h *history) latest() *Patch {
	if len(h.patches) == 0 {
		return nil
	}
	return h.patches[len(h.patches)-1]
}

func (h *history) list() []*Patch {
	return append([]*Patch(nil), h.patches...)
}

func (h *history) len() int { return len(h.patches) }
