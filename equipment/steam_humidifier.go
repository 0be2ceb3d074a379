package equipment

import (
	"math"

	"air_process_calc/psychro"
)

// 蒸気加湿器の機器条件
type SteamHumidifierConditions struct {
	SteamGaugePressure float64 `json:"steam_gauge_pressure" yaml:"steam_gauge_pressure" validate:"gte=0"` // 蒸気圧力, kPa(G)
}

// 蒸気加湿器の計算結果
type SteamHumidifierResults struct {
	SteamFlow             float64 `json:"steam_flow"`              // 蒸気量, kg/h
	SteamTemperature      float64 `json:"steam_temperature"`       // 蒸気温度, degree C
	SteamEnthalpy         float64 `json:"steam_enthalpy"`          // 蒸気の比エンタルピー, kJ/kg
	SteamAbsolutePressure float64 `json:"steam_absolute_pressure"` // 蒸気の絶対圧力, kPa
	HeatLoad              float64 `json:"heat_load"`               // 蒸気による加熱量, kW
	Converged             bool    `json:"converged"`               // 収束したか否か
}

func (SteamHumidifierConditions) Kind() Kind { return SteamHumidifier }
func (SteamHumidifierResults) Kind() Kind    { return SteamHumidifier }
func (SteamHumidifierResults) results()      {}

// 蒸気加湿器の出口温度の収束計算
const (
	steamHumidifierMaxIter   = 30
	steamHumidifierDamping   = 0.5  // K / (kJ/kg(DA))
	steamHumidifierTolerance = 0.01 // kJ/kg(DA)
)

var steamHumidifierSolver = solver{
	maxIter:   steamHumidifierMaxIter,
	damping:   steamHumidifierDamping,
	tolerance: steamHumidifierTolerance,
}

/*
蒸気加湿器の出口の状態を計算する。

	Args:
		in: 入口の空気の状態
		current: 現在の出口の状態 (出口相対湿度は利用者が指定する)
		amb: 周囲条件

	Notes:
		蒸気を含めたエネルギー収支から保存量 C = h_in - x_in / 1000 * h_s を求め、
		h(θ, x) - x / 1000 * h_s = C (x = x(θ, 目標相対湿度)) となる出口温度 θ を収束計算で求める。
		蒸気の比エンタルピー h_s はゲージ圧から蒸気表で求める。
		目標相対湿度が入口の相対湿度以下の場合は加湿しない。
*/
func (c SteamHumidifierConditions) process(in, current psychro.AirState, amb Ambient) Outcome {
	if current.RelativeHumidity == nil {
		return Outcome{Results: SteamHumidifierResults{}}
	}

	atm := amb.Atmosphere
	steam := atm.SteamProperties(math.Max(c.SteamGaugePressure, 0.0))
	h_s := steam.Enthalpy

	theta_in := *in.Temperature
	x_in := *in.AbsoluteHumidity
	h_in := *in.Enthalpy
	rh_in := *in.RelativeHumidity
	rh_target := math.Min(math.Max(*current.RelativeHumidity, 0.0), 100.0)

	r := SteamHumidifierResults{
		SteamTemperature:      steam.Temperature,
		SteamEnthalpy:         h_s,
		SteamAbsolutePressure: steam.AbsolutePressure,
		Converged:             true,
	}

	if rh_target <= rh_in {
		return Outcome{Outlet: in, Results: r}
	}

	k := h_in - x_in/1000.0*h_s
	f := func(theta float64) float64 {
		x := atm.AbsoluteHumidity(theta, rh_target)
		return k - (psychro.Enthalpy(theta, x) - x/1000.0*h_s)
	}

	guess := theta_in
	if current.Temperature != nil {
		guess = *current.Temperature
	}
	theta_out, ok := steamHumidifierSolver.solve(f, guess, theta_in-10.0, theta_in+30.0)

	out := atm.NewAirState(&theta_out, &rh_target)
	if *out.AbsoluteHumidity < x_in {
		// 除湿となる解は採用しない
		return Outcome{Outlet: in, Results: r}
	}

	r.SteamFlow = moistureRate(amb.MassFlow, *out.AbsoluteHumidity-x_in)
	r.HeatLoad = amb.MassFlow * (*out.Enthalpy - h_in)
	r.Converged = ok

	return Outcome{Outlet: out, Results: r}
}
