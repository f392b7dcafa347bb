package battle_test

import (
	"go/build"
	"path/filepath"
	"strings"
	"testing"

	"github.com/plus3/botarena/battle"
	"github.com/plus3/botarena/ecs"
	"github.com/plus3/botarena/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepEditor rewrites the shared frame's step for the systems after it.
type stepEditor struct {
	edit func(*sim.StepContext) *sim.StepContext
}

func (e *stepEditor) Execute(frame *ecs.UpdateFrame) {
	frame.Step = e.edit(frame.Step)
}

func TestSystemsRequireStepInputs(t *testing.T) {
	systems := []struct {
		name   string
		system func() ecs.System
	}{
		{"battle.AISystem", func() ecs.System { return &battle.AISystem{} }},
		{"battle.WeaponSystem", func() ecs.System { return &battle.WeaponSystem{} }},
		{"battle.HitscanSystem", func() ecs.System { return &battle.HitscanSystem{} }},
		{"battle.BeamSystem", func() ecs.System { return &battle.BeamSystem{} }},
		{"battle.ProjectileSystem", func() ecs.System { return &battle.ProjectileSystem{} }},
		{"battle.DamageSystem", func() ecs.System { return &battle.DamageSystem{} }},
		{"battle.RespawnQueueSystem", func() ecs.System { return &battle.RespawnQueueSystem{} }},
		{"battle.RespawnSystem", func() ecs.System { return &battle.RespawnSystem{} }},
		{"battle.PhysicsSyncSystem", func() ecs.System { return &battle.PhysicsSyncSystem{} }},
		{"battle.EffectsSystem", func() ecs.System { return &battle.EffectsSystem{} }},
		{"battle.PhysicsStepSystem", func() ecs.System { return &battle.PhysicsStepSystem{} }},
	}
	inputs := []struct {
		missing string
		edit    func(*sim.StepContext) *sim.StepContext
	}{
		{"StepContext", func(*sim.StepContext) *sim.StepContext { return nil }},
		{"seeded rng", func(s *sim.StepContext) *sim.StepContext {
			c := *s
			c.RNG = nil
			return &c
		}},
		{"id factory", func(s *sim.StepContext) *sim.StepContext {
			c := *s
			c.Ids = nil
			return &c
		}},
	}

	for _, sys := range systems {
		for _, in := range inputs {
			t.Run(sys.name+"/"+in.missing, func(t *testing.T) {
				h := newHarness(t, testConfig(), &stepEditor{edit: in.edit}, sys.system())
				h.robot(battle.Red, at(0, 0), gun())
				h.robot(battle.Blue, at(5, 0), nil)

				assert.PanicsWithError(t, "sim: "+sys.name+" called without "+in.missing, func() {
					h.steps(1)
				})
			})
		}
	}
}

// The gameplay package must not reach rendering, UI or binaries, so no
// system can read presentation state.
func TestBattleImportsNoPresentation(t *testing.T) {
	const module = "github.com/plus3/botarena/"
	forbidden := []string{
		module + "cmd/",
		module + "ecs/debugui",
		"github.com/hajimehoshi/ebiten",
		"github.com/AllenDang/cimgui-go",
		"github.com/gdamore/tcell",
	}

	seen := map[string]bool{}
	queue := []string{module + "battle"}
	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]
		if seen[path] {
			continue
		}
		seen[path] = true

		pkg, err := build.ImportDir(filepath.Join("..", strings.TrimPrefix(path, module)), 0)
		require.NoError(t, err, path)
		for _, imp := range pkg.Imports {
			for _, f := range forbidden {
				assert.False(t, strings.HasPrefix(imp, f), "%s imports %s", path, imp)
			}
			if strings.HasPrefix(imp, module) {
				queue = append(queue, imp)
			}
		}
	}
	assert.True(t, seen[module+"ecs"], "walks the module's own packages")
}
