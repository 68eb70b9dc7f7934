package component

import "github.com/jakecoffman/cp"

// MouseJoint is the temporary kinematic anchor that drags a body for one
// pointer. Target holds the grabbed ecs.Entity.
type MouseJoint struct {
	PointerID int
	Body      *cp.Body
	Joint     *cp.Constraint
	Target    uint64
	MaxForce  float64
}

var MouseJointComponent = NewComponent[MouseJoint]()
