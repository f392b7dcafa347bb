package battle

import (
	"hash/fnv"

	"github.com/plus3/botarena/ai"
	"github.com/plus3/botarena/ecs"
	"github.com/vmihailenco/msgpack/v5"
)

// RobotState is the serialized view of one robot.
type RobotState struct {
	Id       ecs.EntityId `msgpack:"id"`
	Team     Team         `msgpack:"team"`
	Position [3]float64   `msgpack:"pos"`
	Health   float64      `msgpack:"hp"`
	State    ai.State     `msgpack:"state"`
	Target   ecs.EntityId `msgpack:"target"`
	Loadout  string       `msgpack:"loadout"`
}

// Snapshot is the serialized state of a battle after a step.
type Snapshot struct {
	Frame       uint64       `msgpack:"frame"`
	SimNowMs    float64      `msgpack:"now"`
	Robots      []RobotState `msgpack:"robots"`
	Projectiles int          `msgpack:"projectiles"`
	Beams       int          `msgpack:"beams"`
	Red         int          `msgpack:"red"`
	Blue        int          `msgpack:"blue"`
	Pending     int          `msgpack:"pending"`
}

type robotView struct {
	ecs.EntityId
	*Position
	*TeamTag
	*Health
	*Robot
	AI *AI `ecs:"optional"`
}

// Snapshot captures the robots in ascending id order with the scores.
func (w *World) Snapshot() Snapshot {
	snap := Snapshot{
		Frame:       w.Driver.FrameCount(),
		SimNowMs:    w.Driver.SimNowMs(),
		Projectiles: w.Storage.With(typeOfProjectile).Len(),
		Beams:       w.Storage.With(typeOfBeam).Len(),
		Red:         w.Score(Red),
		Blue:        w.Score(Blue),
		Pending:     w.RespawnQueue().Len(),
	}
	for id, r := range ecs.NewView[robotView](w.Storage).Iter() {
		state := RobotState{
			Id:       id,
			Team:     r.TeamTag.Team,
			Position: [3]float64{r.Position.X, r.Position.Y, r.Position.Z},
			Health:   r.Health.Current,
			Loadout:  r.Robot.Loadout,
		}
		if r.AI != nil {
			state.State = r.AI.State
			state.Target = r.AI.TargetId
		}
		snap.Robots = append(snap.Robots, state)
	}
	return snap
}

// Fingerprint hashes the msgpack encoding of the snapshot. Equal fingerprints
// after equal step counts mean two runs diverged nowhere visible.
func (w *World) Fingerprint() (uint64, error) {
	data, err := msgpack.Marshal(w.Snapshot())
	if err != nil {
		return 0, err
	}
	sum := fnv.New64a()
	sum.Write(data)
	return sum.Sum64(), nil
}
