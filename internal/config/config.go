// Package config loads the demo binary's default scenario parameters from
// a TOML file via viper, grounded on config.go's `_smdconfig`/viper
// pattern. This is demo-only plumbing: the simulation packages themselves
// never read environment variables or configuration files.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"byul/vecmath"
)

// Params bundles the demo's tunable defaults: the environment, body,
// propulsion, and stepping parameters an end-to-end scenario needs.
type Params struct {
	Gravity    vecmath.Vec3
	WindVel    vecmath.Vec3
	AirDensity float32

	Mass         float32
	DragCoef     float32
	CrossSection float32

	MaxThrust    float32
	FuelCapacity float32
	BurnRate     float32

	StartPos vecmath.Vec3
	StartVel vecmath.Vec3

	MaxTime float32
	Step    float32
}

// Default returns the baked-in scenario the demo falls back to when no
// config file is found: a straight vertical drop under standard gravity
// (projectile_predict's S1 scenario).
func Default() Params {
	return Params{
		Gravity:      vecmath.New(0, -9.81, 0),
		AirDensity:   1.225,
		Mass:         1,
		DragCoef:     0.47,
		CrossSection: 0.01,
		MaxThrust:    120,
		FuelCapacity: 50,
		BurnRate:     0.05,
		StartPos:     vecmath.New(0, 500, 0),
		MaxTime:      60,
		Step:         0.1,
	}
}

// Load reads conf.toml from dir via viper, overlaying any keys present on
// top of Default(). A missing file or directory is not an error: the
// caller gets Default() back unchanged, since the demo must run out of
// the box (smdConfig's SMD_CONFIG panic-on-missing is not appropriate for
// a library demo).
func Load(dir string) (Params, error) {
	p := Default()
	if dir == "" {
		return p, nil
	}

	v := viper.New()
	v.SetConfigName("conf")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound {
			return p, nil
		}
		return p, fmt.Errorf("config: reading %s/conf.toml: %w", dir, err)
	}

	if v.IsSet("environ.gravity_y") {
		p.Gravity.Y = float32(v.GetFloat64("environ.gravity_y"))
	}
	if v.IsSet("environ.air_density") {
		p.AirDensity = float32(v.GetFloat64("environ.air_density"))
	}
	if v.IsSet("body.mass") {
		p.Mass = float32(v.GetFloat64("body.mass"))
	}
	if v.IsSet("body.drag_coef") {
		p.DragCoef = float32(v.GetFloat64("body.drag_coef"))
	}
	if v.IsSet("body.cross_section") {
		p.CrossSection = float32(v.GetFloat64("body.cross_section"))
	}
	if v.IsSet("propulsion.max_thrust") {
		p.MaxThrust = float32(v.GetFloat64("propulsion.max_thrust"))
	}
	if v.IsSet("propulsion.fuel_capacity") {
		p.FuelCapacity = float32(v.GetFloat64("propulsion.fuel_capacity"))
	}
	if v.IsSet("propulsion.burn_rate") {
		p.BurnRate = float32(v.GetFloat64("propulsion.burn_rate"))
	}
	if v.IsSet("scenario.start_height") {
		p.StartPos.Y = float32(v.GetFloat64("scenario.start_height"))
	}
	if v.IsSet("scenario.max_time") {
		p.MaxTime = float32(v.GetFloat64("scenario.max_time"))
	}
	if v.IsSet("scenario.step") {
		p.Step = float32(v.GetFloat64("scenario.step"))
	}

	return p, nil
}
