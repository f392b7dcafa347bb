package main

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/AllenDang/cimgui-go/implot"
	"github.com/plus3/botarena/battle"
	"go.uber.org/zap"
)

const scoreHistorySize = 600

// scoreHistory is a ring buffer of team scores, one sample per step.
type scoreHistory struct {
	red, blue []float32
	offset    int
	filled    bool
}

func newScoreHistory(n int) *scoreHistory {
	return &scoreHistory{red: make([]float32, n), blue: make([]float32, n)}
}

func (s *scoreHistory) add(red, blue int) {
	s.red[s.offset] = float32(red)
	s.blue[s.offset] = float32(blue)
	s.offset = (s.offset + 1) % len(s.red)
	if s.offset == 0 {
		s.filled = true
	}
}

// ordered returns the samples oldest first.
func (s *scoreHistory) ordered(samples []float32) []float32 {
	if !s.filled {
		return samples[:s.offset]
	}
	out := make([]float32, len(samples))
	n := copy(out, samples[s.offset:])
	copy(out[n:], samples[:s.offset])
	return out
}

func (s *scoreHistory) reset() {
	clear(s.red)
	clear(s.blue)
	s.offset, s.filled = 0, false
}

// hud is the battle control panel: scores, pause and single step, friendly
// fire and reset.
type hud struct {
	world   *battle.World
	log     *zap.SugaredLogger
	history *scoreHistory

	friendlyFire bool
	stepRequests int
}

func newHUD(world *battle.World, log *zap.SugaredLogger) *hud {
	return &hud{
		world:        world,
		log:          log,
		history:      newScoreHistory(scoreHistorySize),
		friendlyFire: world.Config.FriendlyFire,
	}
}

// sample records the scores after a step.
func (h *hud) sample() {
	h.history.add(h.world.Score(battle.Red), h.world.Score(battle.Blue))
}

// takeStepRequests returns and clears the number of single steps asked for
// while paused.
func (h *hud) takeStepRequests() int {
	n := h.stepRequests
	h.stepRequests = 0
	return n
}

func (h *hud) togglePause() {
	if h.world.Paused() {
		h.world.Resume()
		h.log.Infow("battle resumed", "frame", h.world.Driver.FrameCount())
	} else {
		h.world.Pause()
		h.log.Infow("battle paused", "frame", h.world.Driver.FrameCount())
	}
}

func (h *hud) reset() {
	if err := h.world.Reset(); err != nil {
		h.log.Errorw("reset battle", "error", err)
		return
	}
	h.world.SetFriendlyFire(h.friendlyFire)
	h.world.SpawnTeams()
	h.history.reset()
	h.log.Infow("battle reset", "seed", h.world.Config.Seed)
}

func (h *hud) Render() {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(320, 420), imgui.CondOnce)
	if !imgui.BeginV("Battle", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	w := h.world
	board := w.Scoreboard()

	imgui.Text("Battle " + w.ID.String()[:8])
	imgui.Text(fmt.Sprintf("Frame %d  (%.1fs)", w.Driver.FrameCount(), w.Driver.SimNowMs()/1000))
	if w.Paused() {
		imgui.SameLine()
		imgui.TextColored(imgui.NewVec4(1.0, 0.8, 0.0, 1.0), "PAUSED")
	}
	imgui.Separator()

	imgui.TextColored(imgui.NewVec4(0.9, 0.28, 0.3, 1.0), fmt.Sprintf("Red  %d", board.Score(battle.Red)))
	imgui.SameLine()
	imgui.Text(fmt.Sprintf("(%d deaths)", board.Deaths[battle.Red]))
	imgui.TextColored(imgui.NewVec4(0.24, 0.39, 0.87, 1.0), fmt.Sprintf("Blue %d", board.Score(battle.Blue)))
	imgui.SameLine()
	imgui.Text(fmt.Sprintf("(%d deaths)", board.Deaths[battle.Blue]))
	imgui.Text(fmt.Sprintf("Respawns pending: %d", w.RespawnQueue().Len()))
	imgui.Separator()

	label := "Pause"
	if w.Paused() {
		label = "Resume"
	}
	if imgui.Button(label) {
		h.togglePause()
	}
	if w.Paused() {
		imgui.SameLine()
		if imgui.Button("Step") {
			h.stepRequests++
		}
	}
	imgui.SameLine()
	if imgui.Button("Reset") {
		h.reset()
	}

	if imgui.Checkbox("Friendly fire", &h.friendlyFire) {
		w.SetFriendlyFire(h.friendlyFire)
	}

	if imgui.TreeNodeStr("Top robots") {
		for i, id := range board.Leaders() {
			if i == 5 {
				break
			}
			imgui.BulletText(fmt.Sprintf("robot %d: %d kills", id, board.Kills[id]))
		}
		imgui.TreePop()
	}

	red := h.history.ordered(h.history.red)
	blue := h.history.ordered(h.history.blue)
	if len(red) > 0 && implot.BeginPlotV("Score", imgui.NewVec2(-1, 180), 0) {
		implot.SetupAxesV("Step", "Kills", 0, implot.AxisFlagsAutoFit)
		implot.PlotLineFloatPtrInt("Red", &red[0], int32(len(red)))
		implot.PlotLineFloatPtrInt("Blue", &blue[0], int32(len(blue)))
		implot.EndPlot()
	}
}
