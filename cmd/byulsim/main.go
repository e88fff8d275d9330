// Command byulsim runs a single ballistic prediction scenario end to end,
// wiring internal/config's viper-backed defaults into entity/environ/
// propulsion/predict, and logging the outcome with go-kit (grounded on
// the teacher's cmd/* binaries as the wiring shape for a runnable demo).
package main

import (
	"flag"
	"fmt"
	"os"

	kitlog "github.com/go-kit/kit/log"

	"byul/bodyprops"
	"byul/entity"
	"byul/environ"
	"byul/guidance"
	"byul/internal/config"
	"byul/internal/logctx"
	"byul/predict"
	"byul/propulsion"
	"byul/vecmath"
)

func main() {
	confDir := flag.String("config", "", "directory containing conf.toml (optional; falls back to built-in defaults)")
	targetX := flag.Float64("target-x", 0, "if non-zero, intercept a static target at this downrange distance")
	flag.Parse()

	logger := logctx.New("byulsim")

	params, err := config.Load(*confDir)
	if err != nil {
		logger.Log("event", "config_load_failed", "err", err)
		os.Exit(1)
	}

	env := environ.Default()
	env.Gravity = params.Gravity
	env.AirDensity = params.AirDensity
	env.WindVel = params.WindVel

	proj := entity.NewProjectile()
	proj.Base.Props = bodyprops.BodyProps{
		Mass:         params.Mass,
		DragCoef:     params.DragCoef,
		CrossSection: params.CrossSection,
	}
	proj.Base.State.Linear.Position = params.StartPos
	proj.Base.State.Linear.Velocity = params.StartVel
	proj.OnHit = entity.DefaultHitCallback
	proj.OnExpiry = entity.DefaultExpiryCallback

	prop := propulsion.Default()
	prop.MaxThrust = params.MaxThrust
	prop.FuelCapacity = params.FuelCapacity
	prop.FuelRemaining = params.FuelCapacity
	prop.BurnRate = params.BurnRate

	var target *entity.Dynamic
	guidanceFn := guidance.None()
	if *targetX != 0 {
		target = entity.NewDynamic()
		target.State.Linear.Position = vecmath.New(float32(*targetX), params.StartPos.Y, 0)
		target.Props.CrossSection = 1
		guidanceFn = guidance.Point(target.State.Linear.Position)
	}

	result := predict.Simulate(proj, target, env, prop, guidanceFn, params.MaxTime, params.Step, logger)

	report(logger, result)
}

func report(logger kitlog.Logger, result *predict.Result) {
	if result.Impacted {
		logger.Log(
			"event", "scenario_complete",
			"impacted", true,
			"impact_time", result.ImpactTime,
			"impact_pos", result.ImpactPos,
			"samples", result.Trajectory.Len(),
		)
		fmt.Printf("impact at t=%.3fs, pos=%v\n", result.ImpactTime, result.ImpactPos)
		return
	}
	logger.Log("event", "scenario_complete", "impacted", false, "samples", result.Trajectory.Len())
	fmt.Println("no impact within the simulated horizon")
}
