// Package entity composes the moving-body state (position/velocity,
// physical properties, age/lifetime) shared by every simulated object,
// and the Projectile specialization built on top of it (spec.md §3,
// §4.11), grounded on entity_dynamic.{h,cpp} and
// projectile_common.{h,cpp}.
package entity

import (
	"math"

	"byul/bodyprops"
	"byul/environ"
	"byul/motion"
	"byul/numeq/model"
	"byul/vecmath"
)

// Dynamic is the moving-body state shared by every simulated object:
// kinematic state, physical properties, age/lifetime bookkeeping, and a
// grounded flag (spec.md §3 EntityDynamic).
type Dynamic struct {
	ID       string
	State    motion.State
	Props    bodyprops.BodyProps
	Age      float32
	Lifetime float32 // <=0 means no expiry
	Grounded bool
}

// NewDynamic returns an entity at rest at the origin with default body
// properties and no lifetime limit.
func NewDynamic() *Dynamic {
	return &Dynamic{State: motion.Default(), Props: bodyprops.Default()}
}

// Assign deep-copies src into the receiver.
func (d *Dynamic) Assign(src *Dynamic) { *d = *src }

// Size returns the collision radius implied by the body's cross section,
// treating it as the area of a disc (entity_size).
func (d *Dynamic) Size() float32 {
	if d.Props.CrossSection <= 0 {
		return 0
	}
	return float32(math.Sqrt(float64(d.Props.CrossSection) / math.Pi))
}

// Expired reports whether age has reached lifetime (lifetime<=0 never
// expires).
func (d *Dynamic) Expired() bool {
	return d.Lifetime > 0 && d.Age >= d.Lifetime
}

// Update advances position by velocity*dt and ages the entity, without
// considering gravity/drag/wind (entity_dynamic_update). Grounded
// entities do not move along Y.
func (d *Dynamic) Update(dt float32) {
	if dt <= 0 {
		return
	}
	vel := d.State.Linear.Velocity
	if d.Grounded {
		vel.Y = 0
	}
	d.State.Linear.Position = d.State.Linear.Position.Add(vel.Scale(dt))
	d.rotate(dt)
	d.Age += dt
}

func (d *Dynamic) rotate(dt float32) {
	dq := vecmath.FromAngularVelocity(d.State.Angular.AngularVelocity, dt)
	d.State.Angular.Orientation = d.State.Angular.Orientation.Mul(dq).Normalize()
}

// UpdateEnv advances position/velocity under gravity, drag, and wind from
// env, and ages the entity (entity_dynamic_update_env).
func (d *Dynamic) UpdateEnv(env *environ.Environ, dt float32) {
	if dt <= 0 {
		return
	}
	accel := model.Accel(d.State.Linear, env, d.Props)
	d.State.Linear.Velocity = d.State.Linear.Velocity.Add(accel.Scale(dt))
	vel := d.State.Linear.Velocity
	if d.Grounded {
		vel.Y = 0
	}
	d.State.Linear.Position = d.State.Linear.Position.Add(vel.Scale(dt))
	d.rotate(dt)
	d.Age += dt
}
