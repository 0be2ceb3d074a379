package equipment

import "air_process_calc/psychro"

// ダンパの機器条件
type DamperConditions struct {
	LossCoefficient float64 `json:"loss_coefficient" yaml:"loss_coefficient" validate:"gte=0"` // 損失係数 K, -
	DuctArea        float64 `json:"duct_area" yaml:"duct_area" validate:"gte=0"`               // ダクト断面積, m2
}

// ダンパの計算結果
type DamperResults struct {
	Velocity float64 `json:"velocity"` // ダクト内風速, m/s
}

func (DamperConditions) Kind() Kind { return Damper }
func (DamperResults) Kind() Kind    { return Damper }
func (DamperResults) results()      {}

/*
ダンパの圧力損失を計算する。

	Notes:
		ΔP = K * 1/2 * ρ * v^2
		ρ は入口の乾き空気の密度、v = 風量 / ダクト断面積
		ダクト断面積が 0 の場合は圧力損失を変更しない。
*/
func (c DamperConditions) process(in, _ psychro.AirState, amb Ambient) Outcome {
	if c.DuctArea <= 0.0 {
		return Outcome{Outlet: in, Results: DamperResults{}}
	}
	v := amb.Airflow / 3600.0 / c.DuctArea
	rho := *in.Density
	dp := c.LossCoefficient * 0.5 * rho * v * v
	return Outcome{
		Outlet:       in,
		Results:      DamperResults{Velocity: v},
		PressureLoss: psychro.Float64(dp),
	}
}
