package entity

import "fmt"

// Attr is a bitset of physical projectile characteristics (spec.md §3,
// projectile_attr_t).
type Attr uint8

const (
	AttrNone   Attr = 0
	AttrImpact Attr = 1 << 0
	AttrPierce Attr = 1 << 1
	AttrAnchor Attr = 1 << 2
)

// Has reports whether all bits of other are set in a.
func (a Attr) Has(other Attr) bool { return a&other == other }

// HitCallback is invoked at most once per projectile per impact/expiry
// (spec.md §3 on_hit).
type HitCallback func(p *Projectile)

// Projectile composes a Dynamic with damage, attribute flags, and a hit
// callback (spec.md §3, projectile_common.{h,cpp}).
type Projectile struct {
	Base    *Dynamic
	Damage  float32
	Attrs   Attr
	OnHit   HitCallback
	OnExpiry HitCallback

	hitFired bool
}

// NewProjectile returns a projectile with default damage (1.0), no
// attributes, and no callbacks (projectile_init).
func NewProjectile() *Projectile {
	return &Projectile{Base: NewDynamic(), Damage: 1.0}
}

// NewProjectileFull mirrors projectile_init_full: a nil base falls back
// to NewDynamic().
func NewProjectileFull(base *Dynamic, attrs Attr, damage float32, onHit HitCallback) *Projectile {
	if base == nil {
		base = NewDynamic()
	}
	return &Projectile{Base: base, Attrs: attrs, Damage: damage, OnHit: onHit}
}

// Assign deep-copies src into the receiver, including a copy of the
// embedded Dynamic (not aliased).
func (p *Projectile) Assign(src *Projectile) {
	base := *src.Base
	*p = *src
	p.Base = &base
}

// Update advances the underlying Dynamic and fires the expiry callback
// exactly once when lifetime is reached (projectile_update).
func (p *Projectile) Update(dt float32) {
	p.Base.Update(dt)
	if p.Base.Expired() && !p.hitFired {
		p.hitFired = true
		if p.OnExpiry != nil {
			p.OnExpiry(p)
		}
	}
}

// Hit fires the impact callback exactly once per projectile.
func (p *Projectile) Hit() {
	if p.hitFired {
		return
	}
	p.hitFired = true
	if p.OnHit != nil {
		p.OnHit(p)
	}
}

// DefaultHitCallback prints the impact damage (projectile_default_hit_cb).
func DefaultHitCallback(p *Projectile) {
	fmt.Printf("projectile hit: damage=%.2f attrs=%v pos=%v\n", p.Damage, p.Attrs, p.Base.State.Linear.Position)
}

// DefaultExpiryCallback prints the projectile's age at expiry.
func DefaultExpiryCallback(p *Projectile) {
	fmt.Printf("projectile expired: age=%.2f lifetime=%.2f\n", p.Base.Age, p.Base.Lifetime)
}
