package actor

import (
	"github.com/yohamta/donburi"

	"github.com/Faultbox/midgard-anim/internal/anim"
	"github.com/Faultbox/midgard-anim/pkg/math"
)

// AnimatorData holds an actor's clip controller.
type AnimatorData struct {
	Controller *anim.Controller
}

// TransformData is an actor's placement. Facing is a rotation about the up
// axis in radians, counter-clockwise seen from above; zero faces +Z.
type TransformData struct {
	Position math.Vec3
	Facing   float32
}

var (
	Animator  = donburi.NewComponentType[AnimatorData]()
	Transform = donburi.NewComponentType[TransformData]()
)
