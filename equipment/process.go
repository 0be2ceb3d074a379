package equipment

import (
	"air_process_calc/psychro"
)

// 機器条件 (機器の種類ごとの直和型)
type Conditions interface {
	Kind() Kind
	process(in, current psychro.AirState, amb Ambient) Outcome
}

// 計算結果 (機器の種類ごとの直和型)
type Results interface {
	Kind() Kind
	results()
}

// 機器の計算結果一式
type Outcome struct {
	Outlet       psychro.AirState `json:"outlet"`
	Results      Results          `json:"results"`
	PressureLoss *float64         `json:"pressure_loss,omitempty"` // 再計算した乾き空気の圧力損失, Pa (nil の場合は変更なし)
}

// 計算時の周囲条件
type Ambient struct {
	Atmosphere psychro.Atmosphere `json:"atmosphere"`
	Airflow    float64            `json:"airflow"`   // 風量, m3/h
	MassFlow   float64            `json:"mass_flow"` // 乾き空気の質量流量, kg/s
}

/*
風量と入口の状態から周囲条件を作る。

	Args:
		atm: 大気
		airflow: 風量, m3/h
		in: 入口の空気の状態

	Returns:
		周囲条件

	Notes:
		質量流量は入口の乾き空気の密度から求める。密度が未定義の場合は 0 とする。
*/
func NewAmbient(atm psychro.Atmosphere, airflow float64, in psychro.AirState) Ambient {
	var m float64
	if in.Density != nil && airflow > 0.0 {
		m = airflow / 3600.0 * *in.Density
	}
	return Ambient{Atmosphere: atm, Airflow: airflow, MassFlow: m}
}

/*
機器の入口の状態から出口の状態と計算結果を求める。

	Args:
		in: 入口の空気の状態
		cond: 機器条件
		amb: 周囲条件
		current: 現在の出口の状態 (利用者が指定する出口温度・出口相対湿度を含む)

	Returns:
		出口の状態、計算結果、再計算した圧力損失

	Notes:
		質量流量が 0 または入口の状態が未定義の場合、出口は入口と同じとし、計算結果は空とする。
		このときダクト断面積が指定されたダンパの圧力損失は 0 とする。
*/
func Process(in psychro.AirState, cond Conditions, amb Ambient, current psychro.AirState) Outcome {
	if amb.MassFlow <= 0.0 || !in.Known() {
		out := Outcome{Outlet: in, Results: emptyResults(cond.Kind())}
		if d, ok := cond.(DamperConditions); ok && d.DuctArea > 0.0 {
			out.PressureLoss = psychro.Float64(0.0)
		}
		return out
	}
	return cond.process(in, current, amb)
}

/*
機器を再計算する。

	Args:
		u: 機器
		in: 入口の空気の状態
		amb: 周囲条件

	Returns:
		出口の状態、計算結果、再計算した圧力損失

	Notes:
		出口温度・出口相対湿度は機器の目標値を用いる。
*/
func Recompute(u Unit, in psychro.AirState, amb Ambient) Outcome {
	return Process(in, u.Conditions, amb, u.current())
}

func emptyResults(k Kind) Results {
	switch k {
	case Filter:
		return FilterResults{}
	case Burner:
		return BurnerResults{}
	case CoolingCoil:
		return CoolingCoilResults{}
	case HeatingCoil:
		return HeatingCoilResults{}
	case Eliminator:
		return EliminatorResults{}
	case SprayWasher:
		return SprayWasherResults{}
	case SteamHumidifier:
		return SteamHumidifierResults{}
	case Fan:
		return FanResults{}
	case Damper:
		return DamperResults{}
	default:
		return CustomResults{}
	}
}

// 熱・水分の収支
type Balance struct {
	Heating          float64 // 加熱量, kW
	Cooling          float64 // 冷却量, kW
	Humidification   float64 // 加湿量, kg/h
	Dehumidification float64 // 除湿量, kg/h
}

// BalanceOf は計算結果から熱・水分の収支を取り出す。
func BalanceOf(r Results) Balance {
	switch v := r.(type) {
	case BurnerResults:
		return Balance{Heating: v.HeatLoad, Humidification: v.VaporGeneration}
	case CoolingCoilResults:
		return Balance{Cooling: v.CoolingLoad, Dehumidification: v.Dehumidification}
	case HeatingCoilResults:
		return Balance{Heating: v.HeatLoad}
	case SprayWasherResults:
		return Balance{Humidification: v.Humidification}
	case SteamHumidifierResults:
		return Balance{Heating: v.HeatLoad, Humidification: v.SteamFlow}
	case FanResults:
		return Balance{Heating: v.HeatGeneration}
	default:
		return Balance{}
	}
}

// 時間あたりの水分量, kg/h
func moistureRate(m, dx float64) float64 {
	return m * dx / 1000.0 * 3600.0
}
