package state

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureDeepCopiesRecords(t *testing.T) {
	p := NewMemProvider()
	p.SetObject("Form1.Text1", Record{"Text": "hello", "Top": 120})

	snap, err := Capture(p)
	require.NoError(t, err)

	// мутация живого объекта после снимка не видна в снимке
	rec, _ := p.Object("Form1.Text1")
	rec["Text"] = "mutated"

	// msgpack сужает числовые типы при раундтрипе, сравниваем по значению
	assert.EqualValues(t, "hello", snap.ByID["Form1.Text1"]["Text"])
	assert.EqualValues(t, 120, snap.ByID["Form1.Text1"]["Top"])
}

func TestCaptureGlobalsAndExecContext(t *testing.T) {
	p := NewMemProvider()
	p.SetGlobal("counter", 42)
	p.SetExecContext(&ExecContext{
		Procedure: "Foo",
		Line:      7,
		Locals:    map[string]any{"i": 3},
	})

	snap, err := Capture(p)
	require.NoError(t, err)

	assert.EqualValues(t, 42, snap.Globals["counter"])
	require.NotNil(t, snap.Exec)
	assert.Equal(t, "Foo", snap.Exec.Procedure)
	assert.Equal(t, 7, snap.Exec.Line)
	assert.EqualValues(t, 3, snap.Exec.Locals["i"])
}

func TestCaptureWithoutExecContext(t *testing.T) {
	snap, err := Capture(NewMemProvider())
	require.NoError(t, err)
	assert.Nil(t, snap.Exec)
	assert.Empty(t, snap.ByID)
}

func TestRestoreRoundTrip(t *testing.T) {
	p := NewMemProvider()
	p.SetObject("Form1.Text1", Record{"Text": "before"})

	snap, err := Capture(p)
	require.NoError(t, err)

	p.SetObject("Form1.Text1", Record{"Text": "after"})
	require.NoError(t, Restore(p, snap))

	rec, ok := p.Object("Form1.Text1")
	require.True(t, ok)
	assert.EqualValues(t, "before", rec["Text"])
}

func TestRestoreSkipsVanishedObjects(t *testing.T) {
	p := NewMemProvider()
	p.SetObject("Form1.Text1", Record{"Text": "x"})
	p.SetObject("Form1.Text2", Record{"Text": "y"})

	snap, err := Capture(p)
	require.NoError(t, err)

	// контрол удалили в новой версии исходника
	p.RemoveObject("Form1.Text2")
	require.NoError(t, Restore(p, snap))

	_, ok := p.Object("Form1.Text2")
	assert.False(t, ok, "restore must not resurrect removed objects")
}

func TestRestoreIsolatesSnapshot(t *testing.T) {
	p := NewMemProvider()
	p.SetObject("obj", Record{"v": "snap"})

	snap, err := Capture(p)
	require.NoError(t, err)

	require.NoError(t, Restore(p, snap))
	rec, _ := p.Object("obj")
	rec["v"] = "mutated"

	// второй Restore отдаёт исходное значение: снимок не делит память
	// с применёнными копиями
	require.NoError(t, Restore(p, snap))
	rec, _ = p.Object("obj")
	assert.EqualValues(t, "snap", rec["v"])
}

func TestRestoreNilSnapshotIsNoop(t *testing.T) {
	require.NoError(t, Restore(NewMemProvider(), nil))
}

type failingProvider struct {
	*MemProvider
}

func (f *failingProvider) GetState(string) (Record, error) {
	return nil, errors.New("host refused")
}

func TestCaptureFailureAbortsSnapshot(t *testing.T) {
	mp := NewMemProvider()
	mp.SetObject("obj", Record{"v": 1})

	_, err := Capture(&failingProvider{MemProvider: mp})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "host refused")
}
