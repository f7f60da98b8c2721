package trace

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gekko3d/flycam/core"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

var ErrInvalidScript = errors.New("invalid script")

// Script is a deterministic flight: a fixed time step, a starting camera and
// a list of steps, each lasting a number of frames.
//
//	name: orbit
//	dt: 0.016
//	camera:
//	  position: [0, 0, 3]
//	steps:
//	  - frames: 60
//	    hold: [forward, right]
//	  - frames: 10
//	    look: [5, 0]
type Script struct {
	Name   string         `yaml:"name"`
	Dt     float64        `yaml:"dt"`
	Camera CameraSettings `yaml:"camera"`
	Steps  []Step         `yaml:"steps"`
}

type CameraSettings struct {
	Position    []float32 `yaml:"position"`
	Forward     []float32 `yaml:"forward"`
	LookAt      []float32 `yaml:"look_at"`
	FieldOfView float32   `yaml:"fov"`
	MoveSpeed   float32   `yaml:"speed"`
	Sensitivity float32   `yaml:"sensitivity"`
}

// Step holds its keys for Frames frames. Look and Scroll are delivered once
// per frame; Resize only on the step's first frame.
type Step struct {
	Frames int       `yaml:"frames"`
	Hold   []string  `yaml:"hold"`
	Look   []float64 `yaml:"look"`
	Scroll float64   `yaml:"scroll"`
	Resize []int     `yaml:"resize"`

	directions []core.Direction
}

const DefaultDt = 1.0 / 60.0

func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScript, err)
	}
	if err := s.prepare(); err != nil {
		return nil, err
	}
	return &s, nil
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func (s *Script) prepare() error {
	if s.Dt == 0 {
		s.Dt = DefaultDt
	}
	if s.Dt < 0 {
		return fmt.Errorf("%w: dt %v", ErrInvalidScript, s.Dt)
	}
	for name, v := range map[string][]float32{
		"position": s.Camera.Position,
		"forward":  s.Camera.Forward,
		"look_at":  s.Camera.LookAt,
	} {
		if len(v) != 0 && len(v) != 3 {
			return fmt.Errorf("%w: camera %s needs 3 components, got %d", ErrInvalidScript, name, len(v))
		}
	}

	for i := range s.Steps {
		step := &s.Steps[i]
		if step.Frames == 0 {
			step.Frames = 1
		}
		if step.Frames < 0 {
			return fmt.Errorf("%w: step %d: frames %d", ErrInvalidScript, i, step.Frames)
		}
		if len(step.Look) != 0 && len(step.Look) != 2 {
			return fmt.Errorf("%w: step %d: look needs [dx, dy]", ErrInvalidScript, i)
		}
		if len(step.Resize) != 0 && len(step.Resize) != 2 {
			return fmt.Errorf("%w: step %d: resize needs [width, height]", ErrInvalidScript, i)
		}
		step.directions = step.directions[:0]
		for _, name := range step.Hold {
			dir, err := core.ParseDirection(name)
			if err != nil {
				return fmt.Errorf("%w: step %d: %w", ErrInvalidScript, i, err)
			}
			step.directions = append(step.directions, dir)
		}
	}
	return nil
}

// Frames is the total number of frames the script drives.
func (s *Script) Frames() int {
	n := 0
	for _, step := range s.Steps {
		n += step.Frames
	}
	return n
}

func (s *Script) FixedStep() time.Duration {
	return time.Duration(s.Dt * float64(time.Second))
}

func (s *Script) CameraConfig() core.CameraConfig {
	cfg := core.CameraConfig{
		FieldOfView: s.Camera.FieldOfView,
		MoveSpeed:   s.Camera.MoveSpeed,
		Sensitivity: s.Camera.Sensitivity,
	}
	if len(s.Camera.Position) == 3 {
		cfg.Position = vec3(s.Camera.Position)
	}
	if len(s.Camera.Forward) == 3 {
		cfg.Forward = vec3(s.Camera.Forward)
	}
	if len(s.Camera.LookAt) == 3 {
		p := vec3(s.Camera.LookAt)
		cfg.LookAtPoint = &p
	}
	return cfg
}

func vec3(v []float32) mgl32.Vec3 {
	return mgl32.Vec3{v[0], v[1], v[2]}
}
