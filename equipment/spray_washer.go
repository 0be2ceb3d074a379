package equipment

import (
	"math"

	"air_process_calc/psychro"
)

// スプレーワッシャーの機器条件
type SprayWasherConditions struct {
	WaterAirRatio float64 `json:"water_air_ratio" yaml:"water_air_ratio" validate:"gte=0"` // 水空気比, kg/kg(DA)
}

// スプレーワッシャーの計算結果
type SprayWasherResults struct {
	SaturationEfficiency           float64 `json:"saturation_efficiency"`            // 飽和効率, %
	Humidification                 float64 `json:"humidification"`                   // 加湿量, kg/h
	SprayWaterFlow                 float64 `json:"spray_water_flow"`                 // 噴霧水量, L/min
	AdiabaticSaturationTemperature float64 `json:"adiabatic_saturation_temperature"` // 断熱飽和温度, degree C
	Converged                      bool    `json:"converged"`                        // 収束したか否か
}

func (SprayWasherConditions) Kind() Kind { return SprayWasher }
func (SprayWasherResults) Kind() Kind    { return SprayWasher }
func (SprayWasherResults) results()      {}

// スプレーワッシャーの出口温度の収束計算
const (
	sprayWasherMaxIter   = 20
	sprayWasherDamping   = 0.1  // K / %
	sprayWasherTolerance = 0.01 // %
)

var sprayWasherSolver = solver{
	maxIter:   sprayWasherMaxIter,
	damping:   sprayWasherDamping,
	tolerance: sprayWasherTolerance,
}

/*
スプレーワッシャーの出口の状態を計算する。

	Args:
		in: 入口の空気の状態
		current: 現在の出口の状態 (出口相対湿度は利用者が指定する)
		amb: 周囲条件

	Notes:
		断熱飽和変化とし、比エンタルピーを保存する。
		RH(θ, x(θ, h_in)) = 目標相対湿度 となる出口温度 θ を
		湿球温度と入口温度の間で収束計算により求める。
		出口の相対湿度は目標相対湿度とする。
		目標相対湿度が入口の相対湿度以下の場合は加湿しない。
*/
func (c SprayWasherConditions) process(in, current psychro.AirState, amb Ambient) Outcome {
	if current.RelativeHumidity == nil {
		return Outcome{Results: SprayWasherResults{}}
	}

	atm := amb.Atmosphere
	theta_in := *in.Temperature
	x_in := *in.AbsoluteHumidity
	h_in := *in.Enthalpy
	rh_in := *in.RelativeHumidity
	rh_target := math.Min(math.Max(*current.RelativeHumidity, 0.0), 100.0)

	theta_wb := atm.WetBulb(theta_in, x_in)

	r := SprayWasherResults{
		AdiabaticSaturationTemperature: theta_wb,
		SprayWaterFlow:                 math.Max(c.WaterAirRatio, 0.0) * amb.MassFlow * 60.0,
		Converged:                      true,
	}

	if rh_target <= rh_in || theta_in-theta_wb <= 0.0 {
		return Outcome{Outlet: in, Results: r}
	}

	f := func(theta float64) float64 {
		return atm.RelativeHumidity(theta, psychro.AbsoluteHumidityFromEnthalpy(theta, h_in)) - rh_target
	}

	guess := theta_in
	if current.Temperature != nil {
		guess = *current.Temperature
	}
	theta_out, ok := sprayWasherSolver.solve(f, guess, theta_wb, theta_in)

	// 出口相対湿度は目標値とし、比エンタルピーは許容差の範囲で保存される
	out := atm.NewAirState(&theta_out, &rh_target)

	r.SaturationEfficiency = (theta_in - theta_out) / (theta_in - theta_wb) * 100.0
	r.Humidification = moistureRate(amb.MassFlow, *out.AbsoluteHumidity-x_in)
	r.Converged = ok

	return Outcome{Outlet: out, Results: r}
}
