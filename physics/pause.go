package physics

import "github.com/plus3/botarena/vmath"

// PauseManager freezes bodies without losing their velocity intent: Pause
// captures and zeroes every velocity, Resume restores them.
type PauseManager struct {
	saved  []savedVelocity
	paused bool
}

type savedVelocity struct {
	body   RigidBody
	linvel vmath.Vec3
}

// Pause captures and zeroes the velocity of each body. Calling Pause while
// already paused is a no-op so the captured velocities are not overwritten
// with zeros.
func (p *PauseManager) Pause(bodies []RigidBody) {
	if p.paused {
		return
	}
	p.paused = true
	p.saved = p.saved[:0]
	for _, b := range bodies {
		if b == nil {
			continue
		}
		p.saved = append(p.saved, savedVelocity{body: b, linvel: b.Linvel()})
		b.SetLinvel(vmath.Vec3{})
	}
}

// Resume restores every captured velocity.
func (p *PauseManager) Resume() {
	if !p.paused {
		return
	}
	for _, s := range p.saved {
		s.body.SetLinvel(s.linvel)
	}
	p.saved = p.saved[:0]
	p.paused = false
}

func (p *PauseManager) Paused() bool {
	return p.paused
}
