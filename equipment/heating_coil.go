package equipment

import (
	"air_process_calc/psychro"
)

// 加熱コイルの機器条件
type HeatingCoilConditions struct {
	Efficiency             float64 `json:"efficiency" yaml:"efficiency" validate:"gt=0,lte=1"`                        // 熱交換効率, -
	WaterInletTemperature  float64 `json:"water_inlet_temperature" yaml:"water_inlet_temperature" validate:"gte=0"`   // 温水入口温度, degree C
	WaterOutletTemperature float64 `json:"water_outlet_temperature" yaml:"water_outlet_temperature" validate:"gte=0"` // 温水出口温度, degree C
}

// 加熱コイルの計算結果
type HeatingCoilResults struct {
	HeatLoad      float64 `json:"heat_load"`       // 加熱量 (空気側), kW
	WaterSideLoad float64 `json:"water_side_load"` // 加熱量 (温水側), kW
	WaterFlow     float64 `json:"water_flow"`      // 温水量, L/min
}

func (HeatingCoilConditions) Kind() Kind { return HeatingCoil }
func (HeatingCoilResults) Kind() Kind    { return HeatingCoil }
func (HeatingCoilResults) results()      {}

/*
加熱コイルの出口の状態を計算する。

	Args:
		in: 入口の空気の状態
		current: 現在の出口の状態 (出口温度は利用者が指定する)
		amb: 周囲条件

	Notes:
		絶対湿度は変化しない。
		温水側の加熱量 = 空気側の加熱量 / 熱交換効率 (効率が 0 以下の場合は 0)
*/
func (c HeatingCoilConditions) process(in, current psychro.AirState, amb Ambient) Outcome {
	if current.Temperature == nil {
		return Outcome{Results: HeatingCoilResults{}}
	}

	theta_out := *current.Temperature
	x := *in.AbsoluteHumidity
	out := amb.Atmosphere.NewAirStateFromHumidity(&theta_out, &x)

	q := amb.MassFlow * (*out.Enthalpy - *in.Enthalpy)

	var q_w float64
	if c.Efficiency > 0.0 {
		q_w = q / c.Efficiency
	}

	return Outcome{
		Outlet: out,
		Results: HeatingCoilResults{
			HeatLoad:      q,
			WaterSideLoad: q_w,
			WaterFlow:     waterFlow(q_w, c.WaterInletTemperature-c.WaterOutletTemperature),
		},
	}
}

// 水の比熱, kJ/(kg K)
const c_w = 4.186

/*
コイルの水量を計算する。

	Args:
		q: 熱量, kW
		d_theta: 水の出入口温度差, K

	Returns:
		水量, L/min (温度差が 0 以下の場合は 0)
*/
func waterFlow(q, d_theta float64) float64 {
	if d_theta <= 0.0 {
		return 0.0
	}
	return q * 60.0 / (c_w * d_theta)
}
