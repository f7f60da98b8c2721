package core

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// basisEpsilon is the smallest |cross(up, forward)| accepted as a usable right vector.
const basisEpsilon = 1e-6

// DeriveForward converts yaw/pitch in degrees into a unit direction vector.
// Yaw 90°, pitch 0° yields +Z.
func DeriveForward(yaw, pitch float32) mgl32.Vec3 {
	yawRad := mgl32.DegToRad(yaw)
	pitchRad := mgl32.DegToRad(pitch)

	forward := mgl32.Vec3{
		math32.Cos(pitchRad) * math32.Cos(yawRad),
		math32.Sin(pitchRad),
		math32.Cos(pitchRad) * math32.Sin(yawRad),
	}
	// Unit length analytically; renormalised for accumulated float error.
	return forward.Normalize()
}

// DeriveRight returns normalize(cross(up, forward)).
// It fails with ErrDegenerateBasis when the two vectors are parallel.
func DeriveRight(up, forward mgl32.Vec3) (mgl32.Vec3, error) {
	right := up.Cross(forward)
	if right.Len() < basisEpsilon {
		return mgl32.Vec3{}, fmt.Errorf("%w: up %v parallel to forward %v", ErrDegenerateBasis, up, forward)
	}
	return right.Normalize(), nil
}

// AnglesFromDirection is the inverse of DeriveForward: it returns the yaw and
// pitch (degrees) whose derived forward equals the normalised dir.
func AnglesFromDirection(dir mgl32.Vec3) (yaw, pitch float32) {
	d := dir.Normalize()
	pitch = mgl32.RadToDeg(math32.Asin(mgl32.Clamp(d.Y(), -1, 1)))
	yaw = mgl32.RadToDeg(math32.Atan2(d.Z(), d.X()))
	return yaw, pitch
}
