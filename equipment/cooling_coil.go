package equipment

import (
	"math"

	"air_process_calc/psychro"
)

// 冷却コイルの機器条件
type CoolingCoilConditions struct {
	BypassFactor           float64 `json:"bypass_factor" yaml:"bypass_factor" validate:"gte=0,lt=1"`                    // バイパスファクター, -
	WaterInletTemperature  float64 `json:"water_inlet_temperature" yaml:"water_inlet_temperature" validate:"gte=0"`   // 冷水入口温度, degree C
	WaterOutletTemperature float64 `json:"water_outlet_temperature" yaml:"water_outlet_temperature" validate:"gte=0"` // 冷水出口温度, degree C
}

// 冷却コイルの計算結果
type CoolingCoilResults struct {
	CoolingLoad       float64 `json:"cooling_load"`        // 冷却量 (全熱), kW
	SensibleLoad      float64 `json:"sensible_load"`       // 顕熱冷却量, kW
	LatentLoad        float64 `json:"latent_load"`         // 潜熱冷却量, kW
	Dehumidification  float64 `json:"dehumidification"`    // 除湿量, kg/h
	ApparatusDewPoint float64 `json:"apparatus_dew_point"` // 装置露点温度, degree C
	WaterFlow         float64 `json:"water_flow"`          // 冷水量, L/min
	Dehumidifying     bool    `json:"dehumidifying"`       // 除湿を伴うか否か
}

func (CoolingCoilConditions) Kind() Kind { return CoolingCoil }
func (CoolingCoilResults) Kind() Kind    { return CoolingCoil }
func (CoolingCoilResults) results()      {}

/*
冷却コイルの出口の状態を計算する。

	Args:
		in: 入口の空気の状態
		current: 現在の出口の状態 (出口温度は利用者が指定する)
		amb: 周囲条件

	Notes:
		出口温度が入口の露点温度以上の場合は顕熱変化のみとする。
		露点温度未満の場合はバイパスファクター BF を用いた装置露点モデルとする。
			ADP = (θ_out - θ_in * BF) / (1 - BF)
			x_out = x_ADP * (1 - BF) + x_in * BF
		x_out が出口温度の飽和絶対湿度を超える場合は相対湿度100%とする。
*/
func (c CoolingCoilConditions) process(in, current psychro.AirState, amb Ambient) Outcome {
	if current.Temperature == nil {
		return Outcome{Results: CoolingCoilResults{}}
	}

	atm := amb.Atmosphere
	theta_in := *in.Temperature
	theta_out := *current.Temperature
	x_in := *in.AbsoluteHumidity

	x_out := x_in
	var adp float64
	dehumidifying := false

	bf := math.Max(c.BypassFactor, 0.0)
	theta_dp, ok := atm.DewPoint(x_in)
	if ok && theta_out < theta_dp && bf < 1.0 {
		adp = (theta_out - theta_in*bf) / (1.0 - bf)
		x_adp := atm.AbsoluteHumidity(adp, 100.0)
		x_out = x_adp*(1.0-bf) + x_in*bf

		// 過飽和の防止
		x_sat := atm.AbsoluteHumidity(theta_out, 100.0)
		if x_out > x_sat {
			x_out = x_sat
		}
		if x_out > x_in {
			x_out = x_in
		}
		dehumidifying = x_out < x_in
	}

	out := atm.NewAirStateFromHumidity(&theta_out, &x_out)

	q_t := amb.MassFlow * (*in.Enthalpy - *out.Enthalpy)
	q_s := amb.MassFlow * (psychro.Enthalpy(theta_in, x_out) - *out.Enthalpy)

	return Outcome{
		Outlet: out,
		Results: CoolingCoilResults{
			CoolingLoad:       q_t,
			SensibleLoad:      q_s,
			LatentLoad:        q_t - q_s,
			Dehumidification:  moistureRate(amb.MassFlow, x_in-x_out),
			ApparatusDewPoint: adp,
			WaterFlow:         waterFlow(q_t, c.WaterOutletTemperature-c.WaterInletTemperature),
			Dehumidifying:     dehumidifying,
		},
	}
}
