package core

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-4

func newTestCamera(t *testing.T, cfg CameraConfig) *Camera {
	t.Helper()
	cam, err := NewCamera(cfg)
	require.NoError(t, err)
	return cam
}

func assertVec3(t *testing.T, expected, actual mgl32.Vec3) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, expected[i], actual[i], eps, "component %d of %v vs %v", i, expected, actual)
	}
}

func TestNewCamera_Defaults(t *testing.T) {
	cam := newTestCamera(t, CameraConfig{Position: mgl32.Vec3{0, 0, 3}})

	assert.InDelta(t, 90.0, cam.Yaw(), eps)
	assert.InDelta(t, 0.0, cam.Pitch(), eps)
	assert.Equal(t, DefaultFieldOfView, cam.FieldOfView())
	assert.Equal(t, DefaultNear, cam.Near())
	assert.Equal(t, DefaultFar, cam.Far())
	assert.Equal(t, DefaultMoveSpeed, cam.MoveSpeed())
	assert.Equal(t, DefaultSensitivity, cam.Sensitivity())
	assert.Equal(t, float32(1), cam.AspectRatio())

	assertVec3(t, mgl32.Vec3{0, 0, 1}, cam.Forward())
	assertVec3(t, mgl32.Vec3{1, 0, 0}, cam.Right())
	assertVec3(t, mgl32.Vec3{0, 1, 0}, cam.Up())
}

func TestNewCamera_RejectsInvalidConfig(t *testing.T) {
	cases := map[string]CameraConfig{
		"negative speed":       {MoveSpeed: -5},
		"negative sensitivity": {Sensitivity: -0.1},
		"negative aspect":      {AspectRatio: -1},
		"far before near":      {Near: 10, Far: 1},
		"fov too wide":         {FieldOfView: 270},
		"nan position":         {Position: mgl32.Vec3{float32(math.NaN()), 0, 0}},
		"forward along up":     {Up: mgl32.Vec3{0, 0, 1}, Forward: mgl32.Vec3{0, 0, 1}},
	}

	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			cam, err := NewCamera(cfg)
			assert.Nil(t, cam)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestNewCamera_RejectsUpOffWorldY(t *testing.T) {
	_, err := NewCamera(CameraConfig{Up: mgl32.Vec3{0, 0, 1}, Forward: mgl32.Vec3{1, 0, 0}})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewCamera(CameraConfig{Up: mgl32.Vec3{0.3, 1, 0}})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewCamera_ScaledUpIsNormalised(t *testing.T) {
	cam := newTestCamera(t, CameraConfig{Up: mgl32.Vec3{0, 2, 0}})
	assertVec3(t, mgl32.Vec3{0, 1, 0}, cam.Up())
}

func TestApplyLook_FullTurnNeverDegenerates(t *testing.T) {
	cam := newTestCamera(t, CameraConfig{Forward: mgl32.Vec3{1, 0, 0}})
	startYaw := cam.Yaw()

	for i := 0; i < 36; i++ {
		require.NoError(t, cam.ApplyLook(100, 0), "step %d", i)
	}
	assert.InDelta(t, startYaw+360, cam.Yaw(), eps)
	assert.InDelta(t, 1.0, cam.Right().Len(), eps)
}

func TestNewCamera_FirstInvalidFieldIsReported(t *testing.T) {
	for i := 0; i < 20; i++ {
		_, err := NewCamera(CameraConfig{AspectRatio: -1, MoveSpeed: -1, Sensitivity: -1})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "aspect ratio")
	}
}

func TestNewCamera_LookAtPoint(t *testing.T) {
	origin := mgl32.Vec3{0, 0, 0}
	cam := newTestCamera(t, CameraConfig{
		Position:    mgl32.Vec3{3, 0, 0},
		LookAtPoint: &origin,
	})

	assert.InDelta(t, 0.0, cam.Yaw(), eps)
	assertVec3(t, mgl32.Vec3{1, 0, 0}, cam.Forward())

	// The looked-at point ends up straight ahead on the view axis.
	p := cam.ViewMatrix().Mul4x1(origin.Vec4(1))
	assertVec3(t, mgl32.Vec3{0, 0, -3}, p.Vec3())
}

func TestNewCamera_PitchOfInitialForwardIsClamped(t *testing.T) {
	cam := newTestCamera(t, CameraConfig{Forward: mgl32.Vec3{0.001, 1, 0}})
	assert.Equal(t, MaxPitch, cam.Pitch())
}

func TestApplyMovement_ForwardMovesAgainstStoredForward(t *testing.T) {
	cam := newTestCamera(t, CameraConfig{Position: mgl32.Vec3{0, 0, 3}})

	require.NoError(t, cam.ApplyMovement(Forward, 1.0))
	assertVec3(t, mgl32.Vec3{0, 0, 2}, cam.Position())

	fast := newTestCamera(t, CameraConfig{Position: mgl32.Vec3{0, 0, 3}, MoveSpeed: 5})
	require.NoError(t, fast.ApplyMovement(Forward, 1.0))
	assertVec3(t, mgl32.Vec3{0, 0, -2}, fast.Position())
}

func TestApplyMovement_AllDirections(t *testing.T) {
	expected := map[Direction]mgl32.Vec3{
		Forward: {0, 0, -1},
		Back:    {0, 0, 1},
		Left:    {-1, 0, 0},
		Right:   {1, 0, 0},
		Up:      {0, 1, 0},
		Down:    {0, -1, 0},
	}

	for dir, delta := range expected {
		t.Run(dir.String(), func(t *testing.T) {
			cam := newTestCamera(t, CameraConfig{})
			require.NoError(t, cam.ApplyMovement(dir, 1))
			assertVec3(t, delta, cam.Position())
		})
	}
}

func TestApplyMovement_DiagonalIsNotNormalised(t *testing.T) {
	cam := newTestCamera(t, CameraConfig{MoveSpeed: 2})

	require.NoError(t, cam.ApplyMovement(Forward, 0.5))
	require.NoError(t, cam.ApplyMovement(Right, 0.5))

	assert.InDelta(t, math.Sqrt2, cam.Position().Len(), eps)
}

func TestApplyMovement_RejectsBadDeltaTime(t *testing.T) {
	cam := newTestCamera(t, CameraConfig{Position: mgl32.Vec3{1, 2, 3}})

	assert.ErrorIs(t, cam.ApplyMovement(Forward, -0.1), ErrInvalidDeltaTime)
	assert.ErrorIs(t, cam.ApplyMovement(Forward, float32(math.NaN())), ErrInvalidDeltaTime)
	assert.ErrorIs(t, cam.ApplyMovement(Forward, float32(math.Inf(1))), ErrInvalidDeltaTime)
	assert.ErrorIs(t, cam.ApplyMovement(Direction(42), 1), ErrUnknownDirection)

	require.NoError(t, cam.ApplyMovement(Forward, 0))
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, cam.Position())
}

func TestApplyLook_Scenario(t *testing.T) {
	cam := newTestCamera(t, CameraConfig{})

	require.NoError(t, cam.ApplyLook(10, 0))

	assert.InDelta(t, 91.0, cam.Yaw(), eps)
	assert.InDelta(t, 0.0, cam.Pitch(), eps)
	assertVec3(t, mgl32.Vec3{-0.017452, 0, 0.999848}, cam.Forward())
	assert.InDelta(t, 0.0, cam.Right().Dot(cam.Forward()), eps)
}

func TestApplyLook_PitchClamp(t *testing.T) {
	cam := newTestCamera(t, CameraConfig{})

	for i := 0; i < 50; i++ {
		require.NoError(t, cam.ApplyLook(0, 5000))
		assert.LessOrEqual(t, cam.Pitch(), MaxPitch)
	}
	assert.Equal(t, MaxPitch, cam.Pitch())
	assert.InDelta(t, 1.0, cam.Right().Len(), eps)

	for i := 0; i < 50; i++ {
		require.NoError(t, cam.ApplyLook(0, -5000))
		assert.GreaterOrEqual(t, cam.Pitch(), MinPitch)
	}
	assert.Equal(t, MinPitch, cam.Pitch())
}

func TestApplyLook_RejectsNaN(t *testing.T) {
	cam := newTestCamera(t, CameraConfig{})
	before := cam.Forward()

	assert.ErrorIs(t, cam.ApplyLook(float32(math.NaN()), 0), ErrInvalidInput)
	assert.Equal(t, before, cam.Forward())
	assert.InDelta(t, 90.0, cam.Yaw(), eps)
}

func TestApplyLook_YawIsUnbounded(t *testing.T) {
	cam := newTestCamera(t, CameraConfig{Sensitivity: 1})

	require.NoError(t, cam.ApplyLook(360, 0))
	assert.InDelta(t, 450.0, cam.Yaw(), eps)
	assertVec3(t, mgl32.Vec3{0, 0, 1}, cam.Forward())
}

func TestApplyZoom_Clamp(t *testing.T) {
	cam := newTestCamera(t, CameraConfig{})

	require.NoError(t, cam.ApplyZoom(1))
	assert.InDelta(t, 44.0, cam.FieldOfView(), eps)

	for i := 0; i < 20; i++ {
		require.NoError(t, cam.ApplyZoom(10))
		assert.GreaterOrEqual(t, cam.FieldOfView(), MinFieldOfView)
	}
	assert.Equal(t, MinFieldOfView, cam.FieldOfView())

	for i := 0; i < 40; i++ {
		require.NoError(t, cam.ApplyZoom(-10))
		assert.LessOrEqual(t, cam.FieldOfView(), MaxFieldOfView)
	}
	assert.Equal(t, MaxFieldOfView, cam.FieldOfView())

	assert.ErrorIs(t, cam.ApplyZoom(float32(math.Inf(-1))), ErrInvalidInput)
}

func TestOnResize(t *testing.T) {
	cam := newTestCamera(t, CameraConfig{})

	require.NoError(t, cam.OnResize(1920, 1080))
	first := cam.AspectRatio()
	assert.InDelta(t, 1.7778, first, eps)

	require.NoError(t, cam.OnResize(1920, 1080))
	assert.Equal(t, first, cam.AspectRatio())

	assert.ErrorIs(t, cam.OnResize(800, 0), ErrInvalidViewport)
	assert.ErrorIs(t, cam.OnResize(0, 600), ErrInvalidViewport)
	assert.Equal(t, first, cam.AspectRatio())
}

func TestViewMatrix_LooksAlongNegativeForward(t *testing.T) {
	cam := newTestCamera(t, CameraConfig{Position: mgl32.Vec3{0, 0, 3}})

	origin := cam.ViewMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assertVec3(t, mgl32.Vec3{0, 0, -3}, origin.Vec3())
	assert.InDelta(t, 1.0, origin.W(), eps)

	eye := cam.ViewMatrix().Mul4x1(cam.Position().Vec4(1))
	assertVec3(t, mgl32.Vec3{}, eye.Vec3())
}

func TestProjectionMatrix_TracksFovAndAspect(t *testing.T) {
	cam := newTestCamera(t, CameraConfig{})
	proj := cam.ProjectionMatrix()

	assert.Equal(t, float32(-1), proj.At(3, 2))
	assert.Equal(t, float32(0), proj.At(3, 3))

	require.NoError(t, cam.OnResize(200, 100))
	wide := cam.ProjectionMatrix()
	assert.InDelta(t, proj.At(0, 0)/2, wide.At(0, 0), eps)
	assert.InDelta(t, proj.At(1, 1), wide.At(1, 1), eps)
}

func TestProjectionMatrix_FiniteAtMaxFov(t *testing.T) {
	cam := newTestCamera(t, CameraConfig{})
	require.NoError(t, cam.ApplyZoom(-1000))
	assert.Equal(t, MaxFieldOfView, cam.FieldOfView())

	proj := cam.ProjectionMatrix()
	for i, v := range proj {
		assert.False(t, math.IsNaN(float64(v)) || math.IsInf(float64(v), 0), "element %d is %v", i, v)
	}
	assert.Greater(t, proj.At(1, 1), float32(0))
}

func TestInvariants_HoldAfterMixedInput(t *testing.T) {
	cam := newTestCamera(t, CameraConfig{MoveSpeed: 3, Sensitivity: 0.25})

	for i := 0; i < 500; i++ {
		fi := float32(i)
		require.NoError(t, cam.ApplyLook(fi*1.7-300, 40-fi*0.3))
		require.NoError(t, cam.ApplyMovement(Directions[i%len(Directions)], 0.016))
		require.NoError(t, cam.ApplyZoom(float32(i%7)-3))

		assert.InDelta(t, 1.0, cam.Forward().Len(), eps)
		assert.InDelta(t, 1.0, cam.Right().Len(), eps)
		assert.InDelta(t, 0.0, cam.Right().Dot(cam.Forward()), eps)
		assert.True(t, cam.Pitch() >= MinPitch && cam.Pitch() <= MaxPitch)
		assert.True(t, cam.FieldOfView() >= MinFieldOfView && cam.FieldOfView() <= MaxFieldOfView)
		assert.Greater(t, cam.AspectRatio(), float32(0))
		assert.Equal(t, DeriveForward(cam.Yaw(), cam.Pitch()), cam.Forward())
	}
}

func TestSetPosition(t *testing.T) {
	cam := newTestCamera(t, CameraConfig{})
	cam.SetPosition(mgl32.Vec3{4, 5, 6})

	assert.Equal(t, mgl32.Vec3{4, 5, 6}, cam.Position())
	assertVec3(t, mgl32.Vec3{0, 0, 1}, cam.Forward())
}
