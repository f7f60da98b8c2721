package core

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	MinPitch       float32 = -89.0
	MaxPitch       float32 = 89.0
	MinFieldOfView float32 = 1.0
	MaxFieldOfView float32 = 180.0

	DefaultFieldOfView float32 = 45.0
	DefaultNear        float32 = 0.1
	DefaultFar         float32 = 100.0
	DefaultMoveSpeed   float32 = 1.0
	DefaultSensitivity float32 = 0.1
)

var (
	DefaultUp      = mgl32.Vec3{0, 1, 0}
	DefaultForward = mgl32.Vec3{0, 0, 1}
)

// CameraConfig describes the initial camera state. Zero values are replaced by
// the package defaults.
//
// Forward is the stored basis direction, not a point: the view looks along
// -Forward and the Forward movement key moves along -Forward. Setting
// LookAtPoint instead derives Forward so that the camera faces that point.
type CameraConfig struct {
	Position    mgl32.Vec3
	Forward     mgl32.Vec3
	LookAtPoint *mgl32.Vec3
	Up          mgl32.Vec3

	AspectRatio float32
	FieldOfView float32 // degrees
	Near        float32
	Far         float32

	MoveSpeed   float32 // world units per second
	Sensitivity float32 // degrees per pixel of mouse movement
}

// Camera is a free-flying yaw/pitch camera. It is owned by the frame loop and
// mutated in place; it is not safe for concurrent use.
type Camera struct {
	position mgl32.Vec3
	forward  mgl32.Vec3
	up       mgl32.Vec3
	right    mgl32.Vec3

	yaw   float32
	pitch float32

	moveSpeed   float32
	sensitivity float32

	fieldOfView float32
	aspectRatio float32
	near        float32
	far         float32
}

func (cfg CameraConfig) withDefaults() CameraConfig {
	if cfg.Up == (mgl32.Vec3{}) {
		cfg.Up = DefaultUp
	}
	if cfg.Forward == (mgl32.Vec3{}) && cfg.LookAtPoint == nil {
		cfg.Forward = DefaultForward
	}
	if cfg.AspectRatio == 0 {
		cfg.AspectRatio = 1
	}
	if cfg.FieldOfView == 0 {
		cfg.FieldOfView = DefaultFieldOfView
	}
	if cfg.Near == 0 {
		cfg.Near = DefaultNear
	}
	if cfg.Far == 0 {
		cfg.Far = DefaultFar
	}
	if cfg.MoveSpeed == 0 {
		cfg.MoveSpeed = DefaultMoveSpeed
	}
	if cfg.Sensitivity == 0 {
		cfg.Sensitivity = DefaultSensitivity
	}
	return cfg
}

func (cfg CameraConfig) validate() error {
	positive := []struct {
		name  string
		value float32
	}{
		{"aspect ratio", cfg.AspectRatio},
		{"near plane", cfg.Near},
		{"move speed", cfg.MoveSpeed},
		{"sensitivity", cfg.Sensitivity},
	}
	for _, p := range positive {
		if !finite(p.value) || p.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfig, p.name, p.value)
		}
	}
	if !finite(cfg.Far) || cfg.Far <= cfg.Near {
		return fmt.Errorf("%w: far plane %v must be beyond near plane %v", ErrInvalidConfig, cfg.Far, cfg.Near)
	}
	if !finite(cfg.FieldOfView) || cfg.FieldOfView < MinFieldOfView || cfg.FieldOfView > MaxFieldOfView {
		return fmt.Errorf("%w: field of view %v outside [%v, %v]", ErrInvalidConfig, cfg.FieldOfView, MinFieldOfView, MaxFieldOfView)
	}
	if !finiteVec(cfg.Position) || !finiteVec(cfg.Up) || !finiteVec(cfg.Forward) {
		return fmt.Errorf("%w: non-finite vector", ErrInvalidConfig)
	}
	if cfg.Up.Len() < basisEpsilon {
		return fmt.Errorf("%w: up vector is zero", ErrInvalidConfig)
	}
	// Yaw and pitch are measured against world Y, so the pitch clamp only
	// keeps forward off the up axis when up lies along Y.
	if up := cfg.Up.Normalize(); math32.Abs(up.Y()) < 1-basisEpsilon {
		return fmt.Errorf("%w: up %v must lie along the world Y axis", ErrInvalidConfig, cfg.Up)
	}
	return nil
}

// NewCamera builds a camera from cfg, rejecting configurations that would break
// the basis or projection invariants.
func NewCamera(cfg CameraConfig) (*Camera, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	forward := cfg.Forward
	if cfg.LookAtPoint != nil {
		forward = cfg.Position.Sub(*cfg.LookAtPoint)
	}
	if !finiteVec(forward) || forward.Len() < basisEpsilon {
		return nil, fmt.Errorf("%w: forward direction is zero", ErrInvalidConfig)
	}

	yaw, pitch := AnglesFromDirection(forward)

	c := &Camera{
		position:    cfg.Position,
		up:          cfg.Up.Normalize(),
		yaw:         yaw,
		pitch:       mgl32.Clamp(pitch, MinPitch, MaxPitch),
		moveSpeed:   cfg.MoveSpeed,
		sensitivity: cfg.Sensitivity,
		fieldOfView: cfg.FieldOfView,
		aspectRatio: cfg.AspectRatio,
		near:        cfg.Near,
		far:         cfg.Far,
	}
	if err := c.updateBasis(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return c, nil
}

// updateBasis recomputes forward and right from yaw/pitch. On failure the
// previous basis is left untouched.
func (c *Camera) updateBasis() error {
	forward := DeriveForward(c.yaw, c.pitch)
	right, err := DeriveRight(c.up, forward)
	if err != nil {
		return err
	}
	c.forward = forward
	c.right = right
	return nil
}

// ApplyMovement moves the camera along one basis axis for dt seconds.
// Calls for several held directions add up; diagonals are not renormalised.
// A zero dt, as on the first frame of a run, leaves the camera where it is
// and is not an error. Negative or non-finite dt is rejected.
func (c *Camera) ApplyMovement(dir Direction, dt float32) error {
	if !finite(dt) || dt < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidDeltaTime, dt)
	}
	if dt == 0 {
		return nil
	}

	step := c.moveSpeed * dt
	switch dir {
	case Forward:
		c.position = c.position.Sub(c.forward.Mul(step))
	case Back:
		c.position = c.position.Add(c.forward.Mul(step))
	case Left:
		c.position = c.position.Sub(c.right.Mul(step))
	case Right:
		c.position = c.position.Add(c.right.Mul(step))
	case Up:
		c.position = c.position.Add(c.up.Mul(step))
	case Down:
		c.position = c.position.Sub(c.up.Mul(step))
	default:
		return fmt.Errorf("%w: %v", ErrUnknownDirection, dir)
	}
	return nil
}

// ApplyLook rotates the camera by one mouse-move event's raw pixel delta.
// Pitch is clamped to [MinPitch, MaxPitch]; yaw is unbounded.
func (c *Camera) ApplyLook(dx, dy float32) error {
	if !finite(dx) || !finite(dy) {
		return fmt.Errorf("%w: look (%v, %v)", ErrInvalidInput, dx, dy)
	}

	prevYaw, prevPitch := c.yaw, c.pitch
	c.yaw += dx * c.sensitivity
	c.pitch = mgl32.Clamp(c.pitch+dy*c.sensitivity, MinPitch, MaxPitch)

	if err := c.updateBasis(); err != nil {
		c.yaw, c.pitch = prevYaw, prevPitch
		return err
	}
	return nil
}

// ApplyZoom narrows the field of view for positive scroll and widens it for
// negative scroll.
func (c *Camera) ApplyZoom(scrollY float32) error {
	if !finite(scrollY) {
		return fmt.Errorf("%w: scroll %v", ErrInvalidInput, scrollY)
	}
	c.fieldOfView = mgl32.Clamp(c.fieldOfView-scrollY, MinFieldOfView, MaxFieldOfView)
	return nil
}

// OnResize updates the aspect ratio from a framebuffer size.
func (c *Camera) OnResize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidViewport, width, height)
	}
	c.aspectRatio = float32(width) / float32(height)
	return nil
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.position, c.position.Sub(c.forward), c.up)
}

// maxProjectionFov keeps tan(fov/2) finite at the MaxFieldOfView clamp.
const maxProjectionFov float32 = 179.9

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	fov := mgl32.Clamp(c.fieldOfView, MinFieldOfView, maxProjectionFov)
	return mgl32.Perspective(mgl32.DegToRad(fov), c.aspectRatio, c.near, c.far)
}

// SetPosition teleports the camera without touching its orientation.
func (c *Camera) SetPosition(p mgl32.Vec3) {
	c.position = p
}

func (c *Camera) Position() mgl32.Vec3 { return c.position }
func (c *Camera) Forward() mgl32.Vec3  { return c.forward }
func (c *Camera) Right() mgl32.Vec3    { return c.right }
func (c *Camera) Up() mgl32.Vec3       { return c.up }
func (c *Camera) Yaw() float32         { return c.yaw }
func (c *Camera) Pitch() float32       { return c.pitch }
func (c *Camera) FieldOfView() float32 { return c.fieldOfView }
func (c *Camera) AspectRatio() float32 { return c.aspectRatio }
func (c *Camera) Near() float32        { return c.near }
func (c *Camera) Far() float32         { return c.far }
func (c *Camera) MoveSpeed() float32   { return c.moveSpeed }
func (c *Camera) Sensitivity() float32 { return c.sensitivity }

func finite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}

func finiteVec(v mgl32.Vec3) bool {
	return finite(v[0]) && finite(v[1]) && finite(v[2])
}
