package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"luckywheel/internal/anim"
	"luckywheel/internal/config"
	"luckywheel/internal/history"
	"luckywheel/internal/notify"
	"luckywheel/internal/pick"
	"luckywheel/internal/render"
	"luckywheel/internal/spin"
	"luckywheel/internal/tui"
	"luckywheel/internal/wheel"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// stdout and stderr are swapped in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// syntheticEpoch starts the clock used when a spin is played without a
// terminal. Only differences matter.
var syntheticEpoch = time.Unix(0, 0)

type CLI struct {
	Config  string     `help:"Path to config file" default:"./wheel.yaml" type:"path"`
	Spin    SpinCmd    `cmd:"" default:"withargs" help:"Spin the wheel (default)"`
	Render  RenderCmd  `cmd:"" help:"Render the wheel to a PNG, or a spin to an animated GIF"`
	Angles  AnglesCmd  `cmd:"" help:"Print the start and center angle of every slice"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

type SpinCmd struct {
	Target   int  `help:"Slice to land on, 1-based (0 lets the target expression decide)"`
	Choose   bool `help:"Choose the slice from a list before spinning"`
	Rounds   *int `help:"Full turns before landing (overrides config)"`
	Headless bool `help:"Play the spin without a terminal UI and print where it landed"`
}

func (c *SpinCmd) Run(cli *CLI) error {
	s, err := newSession(cli.Config, c.Rounds)
	if err != nil {
		return err
	}

	target := -1
	switch {
	case c.Target != 0 && c.Choose:
		return errors.New("--target and --choose are mutually exclusive")
	case c.Target != 0:
		if target, err = s.checkTarget(c.Target); err != nil {
			return err
		}
	case c.Choose:
		if target, err = tui.NewTargetChooser().Choose(s.model); err != nil {
			return err
		}
	}

	notifier, err := notify.NewMQTT(s.cfg.MQTT, s.label)
	if err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}
	if c.Headless {
		// Runs after Disconnect so late publish failures are reported.
		defer reportBackground(notifier.Errors())
	}
	if notifier.Enabled() {
		if err := notifier.Connect(); err != nil {
			return err
		}
		defer notifier.Disconnect()
	}

	if c.Headless {
		return runHeadless(s, target, notifier)
	}

	model := tui.New(tui.Options{
		Model:      s.model,
		Controller: s.ctl,
		Player:     s.player,
		Picker:     s.picker,
		History:    s.hist,
		Listener:   notifier,
		Errors:     notifier.Errors(),
		Target:     target,
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	sum := s.hist.Summary()
	if sum.Spins > 0 {
		fmt.Fprintf(stdout, "%d spin(s), %d landed", sum.Spins, sum.Landed)
		if r, ok := s.hist.Last(); ok {
			fmt.Fprintf(stdout, ", last on %s", r.Label)
		}
		fmt.Fprintln(stdout)
	}
	return nil
}

func runHeadless(s *session, target int, notifier *notify.MQTT) error {
	if target < 0 {
		var err error
		if target, err = s.pick(); err != nil {
			return err
		}
	}

	var listener spin.Listener = s.hist
	if notifier.Enabled() {
		listener = notify.NewMulti(s.hist, notifier)
	}
	s.ctl.SetListener(listener)
	r, frames, err := s.play(target)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Landed on %s (slice %d) after %d frames, rotation %.2f°\n",
		r.Label, r.Index+1, frames, wheel.Normalize(r.To))
	return nil
}

type RenderCmd struct {
	Rotation float64 `help:"Wheel rotation in degrees"`
	Target   int     `help:"Spin to this slice, 1-based, and render where it lands"`
	GIF      bool    `name:"gif" help:"Render the whole spin as an animated GIF"`
	Size     int     `help:"Image side in pixels" default:"512"`
	FPS      int     `name:"fps" help:"GIF frames per second" default:"25"`
	Out      string  `short:"o" help:"Output file" default:"wheel.png" type:"path"`
}

func (c *RenderCmd) Run(cli *CLI) error {
	if c.Size <= 0 {
		return fmt.Errorf("invalid --size %d", c.Size)
	}
	if c.GIF && c.FPS <= 0 {
		return fmt.Errorf("invalid --fps %d", c.FPS)
	}

	s, err := newSession(cli.Config, nil)
	if err != nil {
		return err
	}
	scene, err := render.NewScene(s.model, s.cfg.Theme, c.Size)
	if err != nil {
		return err
	}
	// Missing icons are left out of the picture.
	if err := scene.Wheel.LoadIcons(); err != nil {
		fmt.Fprintf(stderr, "warning: %v\n", err)
	}
	s.ctl.SetRotation(c.Rotation)

	if !c.GIF && c.Target == 0 {
		return writeFile(c.Out, func(w io.Writer) error {
			return render.WritePNG(w, scene.Frame(c.Rotation))
		})
	}

	var target int
	if c.Target != 0 {
		target, err = s.checkTarget(c.Target)
	} else {
		target, err = s.pick()
	}
	if err != nil {
		return err
	}

	var rotations []float64
	step := time.Second / time.Duration(c.FPS)
	if _, err := s.ctl.RequestSpin(target); err != nil {
		return err
	}
	s.player.Drain(syntheticEpoch, step, func(v float64) {
		rotations = append(rotations, v)
	})

	if !c.GIF {
		return writeFile(c.Out, func(w io.Writer) error {
			return render.WritePNG(w, scene.Frame(s.ctl.Rotation()))
		})
	}

	frames := scene.Frames(rotations)
	delay := max(100/c.FPS, 2)
	return writeFile(c.Out, func(w io.Writer) error {
		return scene.EncodeGIF(w, frames, delay, 150)
	})
}

type AnglesCmd struct{}

func (c *AnglesCmd) Run(cli *CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	m := cfg.Model()

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "LABEL", "START", "CENTER")
	for i, it := range m.Items() {
		start, err := m.SliceStartAngle(i)
		if err != nil {
			return err
		}
		center, err := m.SliceCenterAngle(i)
		if err != nil {
			return err
		}
		t.Row(fmt.Sprint(i+1), it.Label, fmt.Sprintf("%.2f", start), fmt.Sprintf("%.2f", center))
	}

	span, _ := m.SliceSpan()
	fmt.Fprintln(stdout, t.Render())
	fmt.Fprintf(stdout, "%d slices, %.2f° each, base offset %.2f°\n", m.SliceCount(), span, m.BaseOffset())
	return nil
}

type VersionCmd struct{}

func (c *VersionCmd) Run(cli *CLI) error {
	fmt.Fprintf(stdout, "luckywheel %s (commit: %s, built: %s)\n", Version, Commit, Date)
	return nil
}

// session is a loaded config wired into a model, controller and player.
type session struct {
	cfg    *config.Config
	model  *wheel.Model
	ctl    *spin.Controller
	player *anim.Player
	picker *pick.Picker
	hist   *history.History
}

func newSession(path string, rounds *int) (*session, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if rounds != nil {
		cfg.Spin.Rounds = rounds
	}

	player := anim.NewPlayer()
	model, ctl, err := cfg.Controller(player)
	if err != nil {
		return nil, err
	}
	picker, err := cfg.Picker()
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:    cfg,
		model:  model,
		ctl:    ctl,
		player: player,
		picker: picker,
		hist:   history.New(),
	}, nil
}

func (s *session) label(index int) string {
	it, err := s.model.Item(index)
	if err != nil {
		return ""
	}
	return it.Label
}

// checkTarget converts a 1-based flag value to a slice index.
func (s *session) checkTarget(n int) (int, error) {
	if n < 1 || n > s.model.SliceCount() {
		return 0, fmt.Errorf("target %d: %w (wheel has %d slices)", n, wheel.ErrIndexOutOfRange, s.model.SliceCount())
	}
	return n - 1, nil
}

func (s *session) pick() (int, error) {
	env := pick.Env{Count: s.model.SliceCount(), Last: -1}
	for _, it := range s.model.Items() {
		env.Labels = append(env.Labels, it.Label)
	}
	idx, err := s.picker.Pick(env)
	if err != nil {
		return 0, fmt.Errorf("pick target: %w", err)
	}
	return idx, nil
}

// play runs one spin to completion on the synthetic clock.
func (s *session) play(target int) (history.Record, int, error) {
	accepted, err := s.ctl.RequestSpin(target)
	if err != nil {
		return history.Record{}, 0, err
	}
	if !accepted {
		return history.Record{}, 0, errors.New("spin was not accepted")
	}

	req, _ := s.ctl.Pending()
	s.hist.Begin(req.Index, s.label(req.Index), req.From, req.To)
	frames := s.player.Drain(syntheticEpoch, 0, nil)

	r, ok := s.hist.Last()
	if !ok {
		return history.Record{}, frames, errors.New("spin did not land")
	}
	return r, frames, nil
}

func reportBackground(errs <-chan error) {
	for {
		select {
		case err := <-errs:
			fmt.Fprintf(stderr, "warning: %v\n", err)
		default:
			return
		}
	}
}

func writeFile(path string, write func(w io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(stdout, "Wrote %s\n", strings.TrimPrefix(path, "./"))
	return nil
}

func main() {
	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("luckywheel"),
		kong.Description("Spin a lucky wheel from YAML config"),
		kong.UsageOnError(),
	)

	if err := ctx.Run(&cli); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
