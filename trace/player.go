package trace

import (
	"github.com/gekko3d/flycam"
	"github.com/gekko3d/flycam/core"
)

// Player replays a Script into flycam.Input one frame at a time.
type Player struct {
	script   *Script
	bindings flycam.KeyBindings

	step  int
	frame int
}

func NewPlayer(s *Script, bindings flycam.KeyBindings) *Player {
	if bindings == nil {
		bindings = flycam.DefaultKeyBindings()
	}
	return &Player{script: s, bindings: bindings}
}

func (p *Player) Done() bool {
	return p.step >= len(p.script.Steps)
}

// Feed writes the current frame of the script into in and advances. It
// returns false once the script is exhausted, after releasing every key.
func (p *Player) Feed(in *flycam.Input) bool {
	if p.Done() {
		p.release(in)
		return false
	}
	step := &p.script.Steps[p.step]

	held := make(map[core.Direction]bool, len(step.directions))
	for _, dir := range step.directions {
		held[dir] = true
	}
	for _, dir := range core.Directions {
		if key, ok := p.bindings[dir]; ok {
			in.SetKey(key, held[dir])
		}
	}

	if len(step.Look) == 2 {
		in.PushMouseMove(step.Look[0], step.Look[1])
	}
	if step.Scroll != 0 {
		in.PushScroll(step.Scroll)
	}
	if p.frame == 0 && len(step.Resize) == 2 {
		in.PushResize(step.Resize[0], step.Resize[1])
	}

	p.frame++
	if p.frame >= step.Frames {
		p.step++
		p.frame = 0
	}
	return true
}

func (p *Player) release(in *flycam.Input) {
	for _, key := range p.bindings {
		in.SetKey(key, false)
	}
}

// PlayerModule drives Input from a script in PreUpdate and exits the app
// after the script's last frame.
type PlayerModule struct {
	Script   *Script
	Bindings flycam.KeyBindings
}

func (m PlayerModule) Install(app *flycam.App, cmd *flycam.Commands) {
	cmd.AddResources(NewPlayer(m.Script, m.Bindings))
	app.Logger().Infof("Replaying '%s': %d steps, %d frames", m.Script.Name, len(m.Script.Steps), m.Script.Frames())
	cmd.UseSystem(flycam.System(playerSystem).InStage(flycam.PreUpdate))
}

func playerSystem(p *Player, in *flycam.Input, cmd *flycam.Commands) {
	p.Feed(in)
	if p.Done() {
		cmd.Exit()
	}
}
