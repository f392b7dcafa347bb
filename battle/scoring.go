package battle

import (
	"maps"
	"slices"

	"github.com/plus3/botarena/ecs"
)

// Scoreboard holds team scores and per-entity kill counts.
type Scoreboard struct {
	Scores map[Team]int
	Deaths map[Team]int
	Kills  map[ecs.EntityId]int
}

func NewScoreboard() Scoreboard {
	return Scoreboard{
		Scores: map[Team]int{Red: 0, Blue: 0},
		Deaths: map[Team]int{Red: 0, Blue: 0},
		Kills:  map[ecs.EntityId]int{},
	}
}

func (b *Scoreboard) Score(team Team) int {
	return b.Scores[team]
}

// Record credits a death. Only a kill by the opposing team scores; suicides,
// team kills and unattributed deaths only count as deaths.
func (b *Scoreboard) Record(death DeathEvent) {
	if b.Scores == nil {
		*b = NewScoreboard()
	}
	b.Deaths[death.Team]++
	if death.KillerTeam == "" || death.KillerTeam == death.Team {
		return
	}
	b.Scores[death.KillerTeam]++
	if death.KillerId != 0 {
		b.Kills[death.KillerId]++
	}
}

// Leaders returns entity ids by kill count, highest first, ties by id.
func (b *Scoreboard) Leaders() []ecs.EntityId {
	ids := slices.Sorted(maps.Keys(b.Kills))
	slices.SortStableFunc(ids, func(x, y ecs.EntityId) int {
		return b.Kills[y] - b.Kills[x]
	})
	return ids
}

// ScoringSystem credits every death of the step.
type ScoringSystem struct {
	Events ecs.Singleton[Events]
	Board  ecs.Singleton[Scoreboard]
}

func (s *ScoringSystem) Name() string { return "scoring" }

func (s *ScoringSystem) Execute(frame *ecs.UpdateFrame) {
	board := s.Board.Get()
	for _, death := range s.Events.Get().Death {
		board.Record(death)
	}
}
