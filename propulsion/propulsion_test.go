package propulsion

import "testing"

func TestDefaultIsActiveWithFullFuel(t *testing.T) {
	p := Default()
	if !p.Active {
		t.Fatal("expected default propulsion to be active")
	}
	if p.FuelRemaining != p.FuelCapacity {
		t.Fatalf("expected full fuel, got %v/%v", p.FuelRemaining, p.FuelCapacity)
	}
}

func TestNewFullFallsBackOnInvalidParams(t *testing.T) {
	p := NewFull(-1, -1, -1, nil, true)
	if p.MaxThrust != 100 || p.FuelCapacity != 100 || p.BurnRate != 1 {
		t.Fatalf("expected fallback defaults, got %+v", p)
	}
}

func TestUpdateRampsThrustTowardTarget(t *testing.T) {
	p := Default()
	p.Update(100, 0.1)
	if p.CurrentThrust <= 0 {
		t.Fatalf("expected thrust to ramp up, got %v", p.CurrentThrust)
	}
	if p.CurrentThrust > p.MaxThrustRate*0.1+1e-3 {
		t.Fatalf("expected thrust limited by slew rate, got %v", p.CurrentThrust)
	}
}

func TestUpdateConsumesFuel(t *testing.T) {
	p := Default()
	before := p.FuelRemaining
	p.Update(100, 0.1)
	if p.FuelRemaining >= before {
		t.Fatalf("expected fuel to decrease, got %v -> %v", before, p.FuelRemaining)
	}
}

func TestUpdateInactiveZeroesThrust(t *testing.T) {
	p := Default()
	p.Active = false
	p.CurrentThrust = 50
	p.Update(100, 0.1)
	if p.CurrentThrust != 0 {
		t.Fatalf("expected thrust zeroed when inactive, got %v", p.CurrentThrust)
	}
}

func TestUpdateIgnoresNonPositiveDt(t *testing.T) {
	p := Default()
	p.CurrentThrust = 10
	p.Update(100, 0)
	if p.CurrentThrust != 10 {
		t.Fatalf("expected no change for dt<=0, got %v", p.CurrentThrust)
	}
}

func TestFuelExhaustionDeactivates(t *testing.T) {
	p := Default()
	p.FuelRemaining = 0.001
	for i := 0; i < 50 && p.Active; i++ {
		p.Update(p.MaxThrust, 0.1)
	}
	if p.Active {
		t.Fatal("expected propulsion to deactivate once fuel is exhausted")
	}
	if p.FuelRemaining != 0 {
		t.Fatalf("expected fuel remaining to hit exactly zero, got %v", p.FuelRemaining)
	}
}

func TestRefuelClampsAtCapacity(t *testing.T) {
	p := Default()
	p.FuelRemaining = 10
	p.Refuel(1000)
	if p.FuelRemaining != p.FuelCapacity {
		t.Fatalf("expected refuel to clamp at capacity, got %v", p.FuelRemaining)
	}
}

func TestConsumeDeactivatesOnEmpty(t *testing.T) {
	p := Default()
	p.Consume(p.FuelCapacity + 1)
	if p.FuelRemaining != 0 || p.Active {
		t.Fatalf("expected empty and inactive, got remaining=%v active=%v", p.FuelRemaining, p.Active)
	}
}

func TestPredictMaxThrustCapsAtMaxThrust(t *testing.T) {
	p := Default()
	p.FuelRemaining = 1000000
	got := p.PredictMaxThrust(0.001)
	if got != p.MaxThrust {
		t.Fatalf("expected cap at MaxThrust=%v, got %v", p.MaxThrust, got)
	}
}

func TestFuelRatioZeroWhenNoCapacity(t *testing.T) {
	p := Default()
	p.FuelCapacity = 0
	if p.FuelRatio() != 0 {
		t.Fatalf("expected zero ratio, got %v", p.FuelRatio())
	}
}

func TestAttachAndDetachController(t *testing.T) {
	p := Default()
	p.AttachController(nil)
	if p.Controller != nil {
		t.Fatal("expected nil controller after attaching nil")
	}
	p.DetachController()
	if p.Controller != nil {
		t.Fatal("expected nil controller after detach")
	}
}
