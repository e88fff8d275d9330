package tick

import (
	"math"
	"testing"

	"byul/bodyprops"
	"byul/entity"
	"byul/environ"
	"byul/propulsion"
	"byul/vecmath"
)

func projectileAt(pos, vel vecmath.Vec3) *entity.Projectile {
	p := entity.NewProjectile()
	p.Base.State.Linear.Position = pos
	p.Base.State.Linear.Velocity = vel
	p.Base.Props = bodyprops.BodyProps{Mass: 1}
	return p
}

func targetAt(pos vecmath.Vec3, crossSection float32) *entity.Dynamic {
	d := entity.NewDynamic()
	d.State.Linear.Position = pos
	d.Props.CrossSection = crossSection
	return d
}

type fakeDriver struct {
	attached func(dt float32)
	detached bool
}

func (d *fakeDriver) Attach(onTick func(dt float32)) { d.attached = onTick }
func (d *fakeDriver) RequestDetach()                 { d.detached = true }

func TestStepAdvancesPosition(t *testing.T) {
	proj := projectileAt(vecmath.New(0, 1000, 0), vecmath.New(10, 0, 0))
	tk := New(proj, nil, environ.Default(), nil, nil, nil, false)

	tk.Step(0.1)

	if tk.Proj.Base.State.Linear.Position.X <= 0 {
		t.Fatalf("expected x to advance, got %v", tk.Proj.Base.State.Linear.Position.X)
	}
	if tk.Impacted {
		t.Fatal("expected no impact on the first short step")
	}
}

func TestStepExpiresAtLifetime(t *testing.T) {
	proj := projectileAt(vecmath.New(0, 1000, 0), vecmath.Zero)
	proj.Base.Lifetime = 0.5
	expired := false
	proj.OnExpiry = func(*entity.Projectile) { expired = true }

	tk := New(proj, nil, environ.Default(), nil, nil, nil, false)
	driver := &fakeDriver{}
	tk.Prepare(driver)

	if cont := tk.Step(0.6); cont {
		t.Fatal("expected Step to report false on expiry")
	}
	if !expired {
		t.Fatal("expected the expiry callback to fire")
	}
	if !driver.detached {
		t.Fatal("expected Complete to request detach from the driver")
	}
}

func TestStepGroundImpactViaDefaultGround(t *testing.T) {
	proj := projectileAt(vecmath.New(0, 2, 0), vecmath.Zero)
	tk := New(proj, nil, environ.Default(), nil, nil, nil, false)

	impacted := false
	for i := 0; i < 200; i++ {
		if tk.Step(0.05) {
			impacted = true
			break
		}
	}
	if !impacted || !tk.Impacted {
		t.Fatal("expected a ground impact under gravity")
	}
	if math.Abs(float64(tk.ImpactPos.Y)) > 0.5 {
		t.Fatalf("expected impact y near 0, got %v", tk.ImpactPos.Y)
	}
}

func TestStepTargetSphereImpact(t *testing.T) {
	proj := projectileAt(vecmath.New(0, 10, 0), vecmath.New(20, 0, 0))
	target := targetAt(vecmath.New(20, 10, 0), 4)
	env := environ.Default()
	env.Gravity = vecmath.Zero

	tk := New(proj, target, env, nil, nil, nil, false)

	impacted := false
	for i := 0; i < 200; i++ {
		if tk.Step(0.02) {
			impacted = true
			break
		}
	}
	if !impacted {
		t.Fatal("expected an impact against the target sphere")
	}
	radius := target.Size()
	if math.Abs(float64(tk.ImpactPos.X-20)) > float64(radius)+0.5 {
		t.Fatalf("expected impact near x=20 +/- radius, got %v", tk.ImpactPos.X)
	}
}

type liftedGround struct{ height float32 }

func (g liftedGround) Raycast(origin, dir vecmath.Vec3, maxDist float32) (hitPos, hitNormal vecmath.Vec3, dist float32, ok bool) {
	plane := PlaneGround{Point: vecmath.New(0, g.height, 0), Normal: vecmath.New(0, 1, 0)}
	return plane.Raycast(origin, dir, maxDist)
}

func TestStepCustomGroundRaycaster(t *testing.T) {
	proj := projectileAt(vecmath.New(0, 50, 0), vecmath.Zero)
	tk := New(proj, nil, environ.Default(), liftedGround{height: 30}, nil, nil, false)

	impacted := false
	for i := 0; i < 200; i++ {
		if tk.Step(0.05) {
			impacted = true
			break
		}
	}
	if !impacted {
		t.Fatal("expected an impact against the custom raised ground")
	}
	if math.Abs(float64(tk.ImpactPos.Y-30)) > 1.0 {
		t.Fatalf("expected impact y near 30, got %v", tk.ImpactPos.Y)
	}
}

func TestAssignDeepCopiesOwnedResources(t *testing.T) {
	proj := projectileAt(vecmath.New(0, 10, 0), vecmath.New(1, 0, 0))
	env := environ.Default()
	prop := propulsion.Default()
	src := New(proj, nil, env, nil, prop, nil, false)

	var dst Tick
	dst.Assign(src)

	if dst.Env == src.Env {
		t.Fatal("expected Assign to clone the environ, not alias it")
	}
	if dst.Propulsion == src.Propulsion {
		t.Fatal("expected Assign to clone the propulsion plant, not alias it")
	}
	if dst.Proj == src.Proj || dst.Proj.Base == src.Proj.Base {
		t.Fatal("expected Assign to clone the projectile/base, not alias it")
	}

	dst.Proj.Base.State.Linear.Position.X = 999
	if src.Proj.Base.State.Linear.Position.X == 999 {
		t.Fatal("mutating the copy must not affect the source")
	}
}

func TestPrepareRejectsNilDriver(t *testing.T) {
	proj := projectileAt(vecmath.Zero, vecmath.Zero)
	tk := New(proj, nil, environ.Default(), nil, nil, nil, false)
	if tk.Prepare(nil) {
		t.Fatal("expected Prepare to reject a nil driver")
	}
}

func TestStepIgnoresNonPositiveDt(t *testing.T) {
	proj := projectileAt(vecmath.New(0, 10, 0), vecmath.New(1, 0, 0))
	tk := New(proj, nil, environ.Default(), nil, nil, nil, false)
	before := tk.Proj.Base.State.Linear.Position
	tk.Step(0)
	if tk.Proj.Base.State.Linear.Position != before {
		t.Fatal("expected Step(0) to be a no-op")
	}
}
