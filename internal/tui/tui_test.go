package tui

import (
	"errors"
	"luckywheel/internal/anim"
	"luckywheel/internal/pick"
	"luckywheel/internal/spin"
	"luckywheel/internal/wheel"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSpinDuration = 100 * time.Millisecond

type testListener struct {
	starts int
	ends   []int
}

func (l *testListener) OnRotateStart()        { l.starts++ }
func (l *testListener) OnRotateEnd(index int) { l.ends = append(l.ends, index) }

func newTestOptions(t *testing.T, target string, labels ...string) Options {
	t.Helper()

	items := make([]wheel.Item, len(labels))
	for i, l := range labels {
		items[i] = wheel.Item{Label: l}
	}
	m := wheel.New(items...)
	player := anim.NewPlayer()
	ctl := spin.New(m, player)
	require.NoError(t, ctl.SetRounds(1))
	ctl.SetDuration(testSpinDuration)
	ctl.SetEasing(anim.Linear)

	picker, err := pick.Compile(target, pick.WithSeed(1))
	require.NoError(t, err)

	return Options{
		Model:      m,
		Controller: ctl,
		Player:     player,
		Picker:     picker,
		Target:     -1,
	}
}

func newTestModel(t *testing.T, target string, labels ...string) Model {
	t.Helper()
	return New(newTestOptions(t, target, labels...))
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// runFrames feeds synthetic frames until the spin stops.
func runFrames(t *testing.T, m Model, start time.Time) Model {
	t.Helper()
	at := start
	for range 100 {
		if !m.ctl.IsRunning() {
			return m
		}
		m, _ = update(t, m, frameMsg{gen: m.frameGen, at: at})
		at = at.Add(frameInterval)
	}
	t.Fatal("spin did not finish")
	return m
}

func TestNew(t *testing.T) {
	m := newTestModel(t, "", "a", "b", "c")

	assert.True(t, m.showHistory, "history shown by default")
	assert.Equal(t, FocusWheel, m.focusedPanel)
	assert.NotNil(t, m.hist)
	assert.False(t, m.ctl.IsRunning())
}

func TestInit(t *testing.T) {
	m := newTestModel(t, "", "a", "b")
	assert.Nil(t, m.Init(), "nothing to do without a target or error feed")

	opts := newTestOptions(t, "", "a", "b")
	opts.Target = 1
	m = New(opts)
	cmd := m.Init()
	require.NotNil(t, cmd)
	assert.Equal(t, spinMsg{index: 1}, cmd())
}

func TestUpdate_QuitKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{keyRunes("q"), {Type: tea.KeyCtrlC}} {
		t.Run(key.String(), func(t *testing.T) {
			m := newTestModel(t, "", "a")
			_, cmd := update(t, m, key)
			require.NotNil(t, cmd)
			assert.Equal(t, tea.QuitMsg{}, cmd())
		})
	}
}

func TestUpdate_DigitSpinsToSlice(t *testing.T) {
	m := newTestModel(t, "", "a", "b", "c")

	m, cmd := update(t, m, keyRunes("2"))
	require.NotNil(t, cmd, "accepted spin starts the frame loop")
	require.True(t, m.ctl.IsRunning())
	AssertSpinning(t, m.View())

	req, ok := m.ctl.Pending()
	require.True(t, ok)
	assert.Equal(t, 1, req.Index)

	m = runFrames(t, m, time.Unix(0, 0))

	assert.False(t, m.ctl.IsRunning())
	last, ok := m.hist.Last()
	require.True(t, ok)
	assert.Equal(t, 1, last.Index)
	assert.Equal(t, "b", last.Label)

	idx, err := m.wheel.SliceAt(m.ctl.Rotation())
	require.NoError(t, err)
	assert.Equal(t, 1, idx, "pointer rests on the requested slice")

	AssertLanded(t, m.View(), "b")
	AssertIdle(t, m.View())
}

func TestUpdate_DigitOutsideWheelIgnored(t *testing.T) {
	m := newTestModel(t, "", "a", "b")

	m, cmd := update(t, m, keyRunes("5"))

	assert.Nil(t, cmd)
	assert.False(t, m.ctl.IsRunning())
}

func TestUpdate_SpaceUsesPicker(t *testing.T) {
	m := newTestModel(t, `findIndex(labels, # == "c")`, "a", "b", "c")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	require.True(t, m.ctl.IsRunning())
	m = runFrames(t, m, time.Unix(0, 0))

	AssertLanded(t, m.View(), "c")
}

func TestUpdate_PickerSeesLastResult(t *testing.T) {
	m := newTestModel(t, "(last + 1) % count", "a", "b", "c")

	var landed []int
	for range 4 {
		m, _ = update(t, m, spinMsg{pick: true})
		m = runFrames(t, m, time.Unix(0, 0))
		r, ok := m.hist.Last()
		require.True(t, ok)
		landed = append(landed, r.Index)
	}

	assert.Equal(t, []int{0, 1, 2, 0}, landed)
}

func TestUpdate_SpinWhileRunningIsDropped(t *testing.T) {
	m := newTestModel(t, "", "a", "b", "c")

	m, _ = update(t, m, keyRunes("1"))
	m, cmd := update(t, m, keyRunes("3"))

	assert.Nil(t, cmd)
	req, _ := m.ctl.Pending()
	assert.Equal(t, 0, req.Index)

	m = runFrames(t, m, time.Unix(0, 0))
	assert.Len(t, m.hist.Records(), 1)
}

func TestUpdate_PickErrorShown(t *testing.T) {
	m := newTestModel(t, "count", "a", "b")

	m, cmd := update(t, m, keyRunes(" "))

	assert.Nil(t, cmd)
	assert.False(t, m.ctl.IsRunning())
	AssertHasError(t, m.View(), "PICK FAILED")
	AssertHasError(t, m.View(), "range")
}

func TestUpdate_CancelStopsSpin(t *testing.T) {
	opts := newTestOptions(t, "", "a", "b", "c", "d")
	l := &testListener{}
	opts.Listener = l
	m := New(opts)

	m, _ = update(t, m, keyRunes("3"))
	start := time.Unix(0, 0)
	m, _ = update(t, m, frameMsg{gen: m.frameGen, at: start})
	m, _ = update(t, m, frameMsg{gen: m.frameGen, at: start.Add(testSpinDuration / 2)})
	mid := m.player.Value()

	m, _ = update(t, m, keyRunes("c"))

	assert.False(t, m.ctl.IsRunning())
	assert.InDelta(t, mid, m.ctl.Rotation(), 1e-9, "rotation committed where it stopped")
	records := m.hist.Records()
	require.Len(t, records, 1)
	assert.True(t, records[0].Cancelled)
	assert.Equal(t, 1, l.starts)
	assert.Empty(t, l.ends, "cancel fires no end event")

	// A tick scheduled before the cancel does nothing.
	m, cmd := update(t, m, frameMsg{gen: m.frameGen, at: start.Add(testSpinDuration)})
	assert.Nil(t, cmd)
	assert.Empty(t, l.ends)
}

func TestUpdate_StaleFrameIgnored(t *testing.T) {
	m := newTestModel(t, "", "a", "b")

	m, _ = update(t, m, keyRunes("1"))
	m, _ = update(t, m, keyRunes("c"))
	m, _ = update(t, m, keyRunes("2"))
	require.Equal(t, 2, m.frameGen)

	m, cmd := update(t, m, frameMsg{gen: 1, at: time.Unix(0, 0)})
	assert.Nil(t, cmd)
	assert.True(t, m.lastFrame.IsZero(), "stale frame not applied")
	assert.True(t, m.ctl.IsRunning())
}

func TestUpdate_ListenerSeesEvents(t *testing.T) {
	opts := newTestOptions(t, "", "a", "b")
	l := &testListener{}
	opts.Listener = l
	m := New(opts)

	m, _ = update(t, m, keyRunes("2"))
	runFrames(t, m, time.Unix(0, 0))

	assert.Equal(t, 1, l.starts)
	assert.Equal(t, []int{1}, l.ends)
}

func TestUpdate_BackgroundError(t *testing.T) {
	errs := make(chan error, 1)
	opts := newTestOptions(t, "", "a")
	opts.Errors = errs
	m := New(opts)

	m, cmd := update(t, m, backgroundErrMsg{err: errors.New("publish luckywheel/end: timed out")})

	require.NotNil(t, cmd, "keeps listening")
	AssertHasError(t, m.View(), "NOTIFY FAILED")
	AssertHasError(t, m.View(), "timed out")

	errs <- errors.New("again")
	assert.Equal(t, backgroundErrMsg{err: errors.New("again")}, cmd())
}

func TestUpdate_SpinnerTicksOnlyWhileRunning(t *testing.T) {
	m := newTestModel(t, "", "a", "b")

	_, cmd := update(t, m, m.spinner.Tick())
	assert.Nil(t, cmd)

	m, _ = update(t, m, keyRunes("1"))
	before := m.spinner.View()
	tick := m.spinner.Tick()
	m, cmd = update(t, m, tick)
	assert.NotNil(t, cmd)
	assert.NotEqual(t, before, m.spinner.View())

	// A second chain started from the same tick is dropped.
	tick = m.spinner.Tick()
	m, _ = update(t, m, tick)
	after := m.spinner.View()
	m, cmd = update(t, m, tick)
	assert.Nil(t, cmd)
	assert.Equal(t, after, m.spinner.View())
}

func TestView_Layouts(t *testing.T) {
	t.Run("two column shows history panel", func(t *testing.T) {
		m := newTestModel(t, "", "a", "b")
		m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})

		view := m.View()
		AssertShowsTitle(t, view)
		assert.Contains(t, view, "History")
		assert.Contains(t, view, "No spins yet")
		assert.Contains(t, view, "tab switch panel")
	})

	t.Run("o hides history", func(t *testing.T) {
		m := newTestModel(t, "", "a", "b")
		m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
		m, _ = update(t, m, keyRunes("o"))

		view := m.View()
		assert.NotContains(t, view, "No spins yet")
		assert.Contains(t, view, "o show history")
	})

	t.Run("single column shows summary after a spin", func(t *testing.T) {
		m := newTestModel(t, "", "a", "b")
		m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 30})
		m, _ = update(t, m, keyRunes("2"))
		m = runFrames(t, m, time.Unix(0, 0))

		view := stripANSI(m.View())
		AssertShowsTitle(t, view)
		assert.Contains(t, view, "1 spin")
		assert.Contains(t, view, "1 landed")
		assert.Contains(t, view, "#1")
	})

	t.Run("before any size message", func(t *testing.T) {
		m := newTestModel(t, "", "a", "b")
		view := m.View()
		assert.Contains(t, view, "Press space to spin")
		assert.Contains(t, view, PointerIndicator)
	})
}

func TestUpdate_TabSwitchesFocus(t *testing.T) {
	m := newTestModel(t, "", "a", "b")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, FocusWheel, m.focusedPanel, "no second panel before layout")

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, FocusHistory, m.focusedPanel)

	m, _ = update(t, m, keyRunes("o"))
	assert.Equal(t, FocusWheel, m.focusedPanel, "hiding history returns focus")
}
