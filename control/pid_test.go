package control

import (
	"testing"

	"byul/vecmath"
)

func TestPIDUpdateStepResponse(t *testing.T) {
	p := NewPIDFull(2, 0, 0, 0.1)
	out := p.Update(10, 7)
	if out != 6.0 {
		t.Fatalf("expected kp-only step response of 6.0, got %v", out)
	}
}

func TestPIDIntegralAccumulates(t *testing.T) {
	p := NewPIDFull(0, 1, 0, 0.1)
	first := p.Update(10, 0)
	second := p.Update(10, 0)
	if second <= first {
		t.Fatalf("expected integral term to grow with constant error, got %v then %v", first, second)
	}
}

func TestPIDOutputLimitClamps(t *testing.T) {
	p := NewPIDFull(10, 0, 0, 0.1)
	p.OutputLimit = 5
	out := p.Update(10, 0)
	if out != 5 {
		t.Fatalf("expected output clamped to 5, got %v", out)
	}
}

func TestPIDAntiWindupSlowsIntegralGrowthWhenSaturated(t *testing.T) {
	withAW := NewPIDFull(0, 1, 0, 0.1)
	withAW.OutputLimit = 0.05
	withAW.AntiWindup = true

	withoutAW := NewPIDFull(0, 1, 0, 0.1)
	withoutAW.OutputLimit = 0.05

	withAW.Update(10, 0)
	withoutAW.Update(10, 0)
	withAW.Update(10, 0)
	withoutAW.Update(10, 0)

	if withAW.Integral >= withoutAW.Integral {
		t.Fatalf("expected anti-windup integral %v to trail the unclamped integral %v", withAW.Integral, withoutAW.Integral)
	}
}

func TestPIDResetClearsAccumulators(t *testing.T) {
	p := NewPIDFull(1, 1, 1, 0.1)
	p.Update(10, 0)
	p.Reset()
	if p.Integral != 0 || p.PrevError != 0 {
		t.Fatalf("expected Reset to zero accumulators, got integral=%v prevError=%v", p.Integral, p.PrevError)
	}
}

func TestPIDPreviewDoesNotMutateState(t *testing.T) {
	p := NewPIDFull(1, 1, 1, 0.1)
	before := *p
	p.Preview(10, 7)
	if *p != before {
		t.Fatalf("expected Preview to leave state unchanged, got %+v want %+v", *p, before)
	}
}

func TestPIDAssignIsIndependentCopy(t *testing.T) {
	src := NewPIDFull(1, 2, 3, 0.1)
	src.Update(10, 0)

	dst := NewPID()
	dst.Assign(src)
	dst.Update(0, 0)

	if dst.Integral == src.Integral && dst.PrevError == src.PrevError {
		t.Fatalf("expected dst to diverge from src after dst-only update")
	}
	srcIntegral := src.Integral
	dst.Reset()
	if src.Integral != srcIntegral {
		t.Fatalf("expected Assign to deep-copy, not alias, PID state")
	}
}

func TestNewPIDAutoTunesFromDt(t *testing.T) {
	p := NewPIDAuto(0.1)
	if p.Kp != 0.6 {
		t.Fatalf("expected kp=0.6, got %v", p.Kp)
	}
	wantKi := float32(0.6) / (0.5 * 0.1)
	if p.Ki != wantKi {
		t.Fatalf("expected ki=%v, got %v", wantKi, p.Ki)
	}
	wantKd := float32(0.125) * 0.6 * 0.1
	if p.Kd != wantKd {
		t.Fatalf("expected kd=%v, got %v", wantKd, p.Kd)
	}
}

func TestVec3PIDUpdateRunsAxesIndependently(t *testing.T) {
	v := NewVec3PIDFull(2, 0, 0, 0.1)
	out := v.Update(vecmath.New(10, 20, 30), vecmath.New(7, 0, 0))
	want := vecmath.New(6.0, 40.0, 60.0)
	if out != want {
		t.Fatalf("expected per-axis kp-only response %v, got %v", want, out)
	}
}

func TestVec3PIDAssignIsIndependentCopy(t *testing.T) {
	src := NewVec3PIDFull(1, 1, 0, 0.1)
	src.Update(vecmath.New(10, 10, 10), vecmath.Zero)

	dst := NewVec3PID()
	dst.Assign(src)
	dst.Reset()

	if src.X.Integral == 0 {
		t.Fatalf("expected src integral to remain nonzero after dst.Reset")
	}
}
