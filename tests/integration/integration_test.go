package integration

import (
	"fmt"
	"image/color"
	"luckywheel/internal/anim"
	"luckywheel/internal/config"
	"luckywheel/internal/history"
	"luckywheel/internal/notify"
	"luckywheel/internal/pick"
	"luckywheel/internal/render"
	"luckywheel/internal/spin"
	"luckywheel/internal/wheel"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Unix(1700000000, 0)

func loadConfig(t *testing.T, content string) *config.Config {
	t.Helper()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "wheel.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	return cfg
}

func pickEnv(m *wheel.Model) pick.Env {
	env := pick.Env{Count: m.SliceCount(), Last: -1}
	for _, it := range m.Items() {
		env.Labels = append(env.Labels, it.Label)
	}
	return env
}

type recorder struct {
	events []string
}

func (r *recorder) OnRotateStart()        { r.events = append(r.events, "start") }
func (r *recorder) OnRotateEnd(index int) { r.events = append(r.events, fmt.Sprintf("end:%d", index)) }

func TestSpin_ConfigToLanding(t *testing.T) {
	cfg := loadConfig(t, `version: "1"
items: [A, B, C, D]
spin:
  rounds: 3
  duration: 1s
`)

	player := anim.NewPlayer()
	model, ctl, err := cfg.Controller(player)
	require.NoError(t, err)

	hist := history.New()
	rec := &recorder{}
	ctl.SetListener(notify.NewMulti(hist, rec))

	for _, target := range []int{2, 0, 3, 3, 1} {
		accepted, err := ctl.RequestSpin(target)
		require.NoError(t, err)
		require.True(t, accepted)

		req, _ := ctl.Pending()
		it, err := model.Item(req.Index)
		require.NoError(t, err)
		hist.Begin(req.Index, it.Label, req.From, req.To)

		assert.GreaterOrEqual(t, req.To-req.From, 3*360.0)
		assert.Less(t, req.To-req.From, 4*360.0)

		frames := player.Drain(t0, 16*time.Millisecond, nil)
		assert.Greater(t, frames, 60)

		idx, err := model.SliceAt(ctl.Rotation())
		require.NoError(t, err)
		assert.Equal(t, target, idx, "pointer rests on slice %d", target)
	}

	assert.Equal(t, []string{
		"start", "end:2", "start", "end:0", "start", "end:3", "start", "end:3", "start", "end:1",
	}, rec.events)

	sum := hist.Summary()
	assert.Equal(t, 5, sum.Landed)
	assert.Equal(t, 2, sum.Counts["D"])
	assert.Equal(t, "D", sum.Top(1)[0].Label)
}

func TestSpin_CancelMidway(t *testing.T) {
	cfg := loadConfig(t, `version: "1"
items: [A, B, C]
spin:
  duration: 1000
  easing: linear
`)

	player := anim.NewPlayer()
	_, ctl, err := cfg.Controller(player)
	require.NoError(t, err)
	rec := &recorder{}
	ctl.SetListener(rec)

	_, err = ctl.RequestSpin(1)
	require.NoError(t, err)
	req, _ := ctl.Pending()

	player.Advance(t0)
	mid, _ := player.Advance(t0.Add(500 * time.Millisecond))
	require.True(t, ctl.Cancel())

	assert.False(t, ctl.IsRunning())
	assert.InDelta(t, (req.From+req.To)/2, mid, 1e-6)
	assert.InDelta(t, mid, ctl.Rotation(), 1e-9)
	assert.Equal(t, []string{"start"}, rec.events)

	// The next spin starts where the cancelled one stopped.
	_, err = ctl.RequestSpin(2)
	require.NoError(t, err)
	next, _ := ctl.Pending()
	assert.InDelta(t, mid, next.From, 1e-9)
}

func TestSpin_TargetExpressionDrivesController(t *testing.T) {
	cfg := loadConfig(t, `version: "1"
items: [Lose, Lose, Jackpot, Lose]
target: weighted([0, 0, 1, 0])
seed: 42
`)

	picker, err := cfg.Picker()
	require.NoError(t, err)
	player := anim.NewPlayer()
	model, ctl, err := cfg.Controller(player)
	require.NoError(t, err)

	var landed []int
	ctl.SetListener(spin.ListenerFuncs{End: func(i int) { landed = append(landed, i) }})

	for range 3 {
		idx, err := picker.Pick(pickEnv(model))
		require.NoError(t, err)
		_, err = ctl.RequestSpin(idx)
		require.NoError(t, err)
		player.Drain(t0, 0, nil)
	}

	assert.Equal(t, []int{2, 2, 2}, landed)
}

func TestRender_LandedSliceUnderPointer(t *testing.T) {
	cfg := loadConfig(t, `version: "1"
items:
  - label: red
    color: "#FF0000"
  - label: blue
    color: "#0000FF"
spin:
  rounds: 1
  duration: 100ms
`)

	player := anim.NewPlayer()
	model, ctl, err := cfg.Controller(player)
	require.NoError(t, err)
	scene, err := render.NewScene(model, cfg.Theme, 200)
	require.NoError(t, err)

	l := scene.Wheel.Layout()
	for target, wantRed := range []bool{true, false} {
		_, err := ctl.RequestSpin(target)
		require.NoError(t, err)
		player.Drain(t0, 0, nil)

		img := scene.Frame(ctl.Rotation())
		// Between the hub and the pointer tip.
		px := color.RGBAModel.Convert(img.At(int(l.CenterX), int(l.CenterY-l.Radius*0.3))).(color.RGBA)
		if wantRed {
			assert.Greater(t, px.R, uint8(200), "target %d", target)
			assert.Less(t, px.B, uint8(60), "target %d", target)
		} else {
			assert.Greater(t, px.B, uint8(200), "target %d", target)
			assert.Less(t, px.R, uint8(60), "target %d", target)
		}
	}
}

func TestModel_ReplacingItemsDuringSpinKeepsRequestedIndex(t *testing.T) {
	cfg := loadConfig(t, `version: "1"
items: [a, b, c, d]
`)

	player := anim.NewPlayer()
	model, ctl, err := cfg.Controller(player)
	require.NoError(t, err)
	rec := &recorder{}
	ctl.SetListener(rec)

	_, err = ctl.RequestSpin(3)
	require.NoError(t, err)
	model.SetItems([]wheel.Item{{Label: "x"}, {Label: "y"}})
	player.Drain(t0, 0, nil)

	assert.Equal(t, []string{"start", "end:3"}, rec.events)
}
