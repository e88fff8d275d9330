// Package propulsion models a thrust plant: fuel-limited thrust with
// efficiency/thermal/wear losses, slew-rate limiting, and an optional
// embedded controller driving it toward a target thrust (spec.md §4.9),
// grounded on propulsion.{h,cpp}.
package propulsion

import (
	"fmt"

	kitlog "github.com/go-kit/kit/log"

	"byul/control"
	"byul/internal/logctx"
)

// Propulsion is a fuel-limited thrust plant. The zero value is not ready
// to use; call Default or NewFull.
type Propulsion struct {
	MaxThrust     float32
	CurrentThrust float32
	FuelCapacity  float32
	FuelRemaining float32
	BurnRate      float32

	Efficiency    float32
	ThermalLoss   float32
	EnergyDensity float32

	ResponseTime  float32
	MaxThrustRate float32
	DelayTime     float32

	Heat                 float32
	HeatDissipationRate  float32
	WearLevel            float32

	// Controller drives current thrust toward a target; nil means open-loop
	// (desired thrust is applied directly, per propulsion_update).
	Controller control.Controller
	Active     bool

	Logger kitlog.Logger
}

// HeatWarningThreshold is the accumulated-heat level at which Update logs
// a thermal warning (SPEC_FULL §4.A ambient logging).
const HeatWarningThreshold = 15.0

// Default matches propulsion_init's defaults: a small rocket/drone-motor
// class engine, initially active.
func Default() *Propulsion {
	return &Propulsion{
		MaxThrust: 120, FuelCapacity: 50, FuelRemaining: 50, BurnRate: 0.05,
		Efficiency: 0.7, ThermalLoss: 0.05, EnergyDensity: 42,
		ResponseTime: 0.8, MaxThrustRate: 30, DelayTime: 0.2,
		HeatDissipationRate: 0.3,
		Active:              true,
		Logger:              logctx.NoOp(),
	}
}

// NewFull mirrors propulsion_init_full: invalid (<=0) parameters fall back
// to the source's hardcoded defaults (100, 100, 1.0) rather than the
// Default() values.
func NewFull(maxThrust, fuelCapacity, burnRate float32, ctrl control.Controller, active bool) *Propulsion {
	p := Default()
	if maxThrust > 0 {
		p.MaxThrust = maxThrust
	} else {
		p.MaxThrust = 100
	}
	if fuelCapacity > 0 {
		p.FuelCapacity = fuelCapacity
	} else {
		p.FuelCapacity = 100
	}
	p.FuelRemaining = p.FuelCapacity
	if burnRate > 0 {
		p.BurnRate = burnRate
	} else {
		p.BurnRate = 1
	}
	p.Controller = ctrl
	p.Active = active
	return p
}

// Assign deep-copies src into the receiver, preserving the receiver's
// Logger (loggers are not meaningfully "copied").
func (p *Propulsion) Assign(src *Propulsion) {
	logger := p.Logger
	*p = *src
	p.Logger = logctx.OrNoOp(logger)
}

// Reset restores full fuel and zero thrust, and deactivates the engine
// (propulsion_reset).
func (p *Propulsion) Reset() {
	p.CurrentThrust = 0
	p.FuelRemaining = p.FuelCapacity
	p.Active = false
}

func clampThrust(v, max float32) float32 {
	if v > max {
		return max
	}
	if v < 0 {
		return 0
	}
	return v
}

// Update advances the plant by dt toward targetThrust, applying the
// controller (if attached), efficiency/thermal/wear losses, slew-rate
// limiting, and fuel consumption (propulsion_update).
func (p *Propulsion) Update(targetThrust, dt float32) {
	logger := logctx.OrNoOp(p.Logger)
	if dt <= 0 {
		return
	}
	if !p.Active || p.FuelRemaining <= 0 {
		p.CurrentThrust = 0
		p.Active = false
		return
	}

	targetThrust = clampThrust(targetThrust, p.MaxThrust)

	desired := targetThrust
	if p.Controller != nil {
		computed := p.Controller.Update(targetThrust, p.CurrentThrust)
		desired = clampThrust(computed, p.MaxThrust)
	}

	desired *= p.Efficiency
	desired *= 1 - p.ThermalLoss
	desired *= 1 - p.WearLevel*0.3

	maxDelta := p.MaxThrustRate * dt
	delta := desired - p.CurrentThrust
	if delta > maxDelta {
		delta = maxDelta
	}
	if delta < -maxDelta {
		delta = -maxDelta
	}
	p.CurrentThrust += delta

	fuelNeeded := p.BurnRate * p.CurrentThrust * dt
	if fuelNeeded >= p.FuelRemaining {
		p.CurrentThrust = p.FuelRemaining / (p.BurnRate * dt)
		p.FuelRemaining = 0
		p.Active = false
		logger.Log("event", "fuel_exhausted", "thrust", p.CurrentThrust)
	} else {
		p.FuelRemaining -= fuelNeeded
	}

	p.Heat += p.CurrentThrust * 0.05
	p.Heat -= p.HeatDissipationRate * dt
	if p.Heat < 0 {
		p.Heat = 0
	}
	if p.Heat > HeatWarningThreshold {
		logger.Log("event", "thermal_warning", "heat", p.Heat)
	}

	p.WearLevel += 0.0001 * p.CurrentThrust * dt
	if p.WearLevel > 1 {
		p.WearLevel = 1
	}
}

// Thrust returns the current thrust, or zero when inactive
// (propulsion_get_thrust).
func (p *Propulsion) Thrust() float32 {
	if !p.Active {
		return 0
	}
	return p.CurrentThrust
}

// IsEmpty reports whether the fuel tank is depleted.
func (p *Propulsion) IsEmpty() bool { return p.FuelRemaining <= 0 }

// FuelRatio returns remaining fuel as a fraction of capacity.
func (p *Propulsion) FuelRatio() float32 {
	if p.FuelCapacity <= 0 {
		return 0
	}
	return p.FuelRemaining / p.FuelCapacity
}

// MaxRuntime returns the seconds of runtime left at the current thrust.
func (p *Propulsion) MaxRuntime() float32 {
	if p.CurrentThrust <= 0 || p.BurnRate <= 0 {
		return 0
	}
	return p.FuelRemaining / (p.BurnRate * p.CurrentThrust)
}

// RemainingImpulse returns the total possible impulse (N*s) with
// remaining fuel.
func (p *Propulsion) RemainingImpulse() float32 {
	if p.BurnRate <= 0 {
		return 0
	}
	return p.FuelRemaining / p.BurnRate
}

// Refuel adds amount to the tank, clamped at capacity.
func (p *Propulsion) Refuel(amount float32) {
	if amount <= 0 {
		return
	}
	p.FuelRemaining += amount
	if p.FuelRemaining > p.FuelCapacity {
		p.FuelRemaining = p.FuelCapacity
	}
}

// Consume forcibly burns amount of fuel, deactivating the engine if it
// runs the tank dry.
func (p *Propulsion) Consume(amount float32) {
	if amount <= 0 {
		return
	}
	p.FuelRemaining -= amount
	if p.FuelRemaining < 0 {
		p.FuelRemaining = 0
		p.Active = false
	}
}

// PredictRuntime returns how long fuel would last at desiredThrust.
func (p *Propulsion) PredictRuntime(desiredThrust float32) float32 {
	if desiredThrust <= 0 || p.FuelRemaining <= 0 || p.BurnRate <= 0 {
		return 0
	}
	return p.FuelRemaining / (p.BurnRate * desiredThrust)
}

// PredictEmptyTime returns how long fuel would last at the current
// thrust.
func (p *Propulsion) PredictEmptyTime() float32 {
	if p.CurrentThrust <= 0 || p.FuelRemaining <= 0 || p.BurnRate <= 0 {
		return 0
	}
	return p.FuelRemaining / (p.BurnRate * p.CurrentThrust)
}

// PredictMaxThrust returns the highest sustained thrust fuel would allow
// over duration, capped at MaxThrust.
func (p *Propulsion) PredictMaxThrust(duration float32) float32 {
	if duration <= 0 || p.FuelRemaining <= 0 || p.BurnRate <= 0 {
		return 0
	}
	possible := p.FuelRemaining / (p.BurnRate * duration)
	if possible > p.MaxThrust {
		return p.MaxThrust
	}
	return possible
}

// SetActive toggles the engine on or off.
func (p *Propulsion) SetActive(active bool) { p.Active = active }

// AttachController swaps in a new thrust controller.
func (p *Propulsion) AttachController(ctrl control.Controller) { p.Controller = ctrl }

// DetachController removes the thrust controller, returning to open-loop
// control.
func (p *Propulsion) DetachController() { p.Controller = nil }

// String implements fmt.Stringer (propulsion_to_string).
func (p *Propulsion) String() string {
	return fmt.Sprintf("Thrust=%.2fN, Fuel=%.2f/%.2fkg, Active=%t",
		p.CurrentThrust, p.FuelRemaining, p.FuelCapacity, p.Active)
}
