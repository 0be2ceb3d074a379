package equipment

import (
	"math"

	"air_process_calc/psychro"
)

// 送風機の機器条件
type FanConditions struct {
	MotorOutput     float64 `json:"motor_output" yaml:"motor_output" validate:"gte=0"`               // 電動機出力, kW
	MotorEfficiency float64 `json:"motor_efficiency" yaml:"motor_efficiency" validate:"gte=0,lte=1"` // 電動機効率, -
}

// 送風機の計算結果
type FanResults struct {
	HeatGeneration  float64 `json:"heat_generation"`  // 電動機の発熱量, kW
	TemperatureRise float64 `json:"temperature_rise"` // 温度上昇, K
}

func (FanConditions) Kind() Kind { return Fan }
func (FanResults) Kind() Kind    { return Fan }
func (FanResults) results()      {}

/*
送風機の電動機損失による温度上昇を計算する。

	Notes:
		発熱量 = 出力 * (1 - 効率)
		温度上昇 = 発熱量 / (質量流量 * 湿り空気の比熱)
		絶対湿度は変化しない。
*/
func (c FanConditions) process(in, _ psychro.AirState, amb Ambient) Outcome {
	eta := math.Min(math.Max(c.MotorEfficiency, 0.0), 1.0)
	q := math.Max(c.MotorOutput, 0.0) * (1.0 - eta)

	x := *in.AbsoluteHumidity
	d_theta := q / (amb.MassFlow * psychro.MoistSpecificHeat(x))
	theta_out := *in.Temperature + d_theta

	return Outcome{
		Outlet:  amb.Atmosphere.NewAirStateFromHumidity(&theta_out, &x),
		Results: FanResults{HeatGeneration: q, TemperatureRise: d_theta},
	}
}
