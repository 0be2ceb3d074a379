package equipment

import (
	"math"

	"air_process_calc/psychro"
)

// バーナーの機器条件
type BurnerConditions struct {
	SensibleHeatFactor float64 `json:"sensible_heat_factor" yaml:"sensible_heat_factor" validate:"gte=0,lte=1"` // 顕熱比 SHF, -
}

// バーナーの計算結果
type BurnerResults struct {
	HeatLoad        float64 `json:"heat_load"`        // 加熱量, kW
	VaporGeneration float64 `json:"vapor_generation"` // 燃焼による水蒸気発生量, kg/h
}

func (BurnerConditions) Kind() Kind { return Burner }
func (BurnerResults) Kind() Kind    { return Burner }
func (BurnerResults) results()      {}

/*
バーナーの出口の状態を計算する。

	Args:
		in: 入口の空気の状態
		current: 現在の出口の状態 (出口温度は利用者が指定する)
		amb: 周囲条件

	Notes:
		顕熱 q_s = c_p * (θ_out - θ_in)
		潜熱 q_l = q_s * (1 - SHF) / SHF
		絶対湿度の増加 Δx = q_l / L * 1000
		SHF が 0 以下の場合は絶対湿度を変化させない。
*/
func (c BurnerConditions) process(in, current psychro.AirState, amb Ambient) Outcome {
	if current.Temperature == nil {
		return Outcome{Results: BurnerResults{}}
	}

	theta_in := *in.Temperature
	theta_out := *current.Temperature
	x_in := *in.AbsoluteHumidity

	x_out := x_in
	shf := math.Min(c.SensibleHeatFactor, 1.0)
	if shf > 0.0 {
		q_s := psychro.MoistSpecificHeat(x_in) * (theta_out - theta_in)
		q_l := q_s * (1.0 - shf) / shf
		dx := q_l / psychro.LatentHeat() * 1000.0
		if dx > 0.0 && !math.IsInf(dx, 0) {
			x_out += dx
		}
	}

	out := amb.Atmosphere.NewAirStateFromHumidity(&theta_out, &x_out)

	return Outcome{
		Outlet: out,
		Results: BurnerResults{
			HeatLoad:        amb.MassFlow * (*out.Enthalpy - *in.Enthalpy),
			VaporGeneration: moistureRate(amb.MassFlow, x_out-x_in),
		},
	}
}
