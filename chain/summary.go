package chain

import (
	"gonum.org/v1/gonum/floats"

	"air_process_calc/equipment"
	"air_process_calc/psychro"
)

// 系統全体の集計
type Summary struct {
	PressureLoss     float64  `json:"pressure_loss"`    // 圧力損失の合計, Pa
	Heating          float64  `json:"heating"`          // 加熱量の合計, kW
	Cooling          float64  `json:"cooling"`          // 冷却量の合計, kW
	Humidification   float64  `json:"humidification"`   // 加湿量の合計, kg/h
	Dehumidification float64  `json:"dehumidification"` // 除湿量の合計, kg/h
	NotConverged     []string `json:"not_converged"`    // 収束しなかった機器の ID

	Supply psychro.AirState `json:"supply"` // 最後の機器の出口 (機器がない場合は外気)

	TemperatureDeviation      *float64 `json:"temperature_deviation"`       // 目標の給気温度との差, K
	RelativeHumidityDeviation *float64 `json:"relative_humidity_deviation"` // 目標の給気相対湿度との差, %
}

/*
系統全体を集計する。

	Notes:
		偏差は給気 - 目標で、いずれかが未定義の場合は nil とする。
*/
func Summarize(c Chain) Summary {
	n := len(c.Units)
	dp := make([]float64, n)
	heating := make([]float64, n)
	cooling := make([]float64, n)
	hum := make([]float64, n)
	dehum := make([]float64, n)

	var notConverged []string
	for i, u := range c.Units {
		b := equipment.BalanceOf(u.Results)
		dp[i] = u.PressureLoss
		heating[i] = b.Heating
		cooling[i] = b.Cooling
		hum[i] = b.Humidification
		dehum[i] = b.Dehumidification

		switch r := u.Results.(type) {
		case equipment.SprayWasherResults:
			if !r.Converged {
				notConverged = append(notConverged, u.ID)
			}
		case equipment.SteamHumidifierResults:
			if !r.Converged {
				notConverged = append(notConverged, u.ID)
			}
		}
	}

	supply := c.References.Inlet
	if n > 0 {
		supply = c.Units[n-1].Outlet
	}

	return Summary{
		PressureLoss:              floats.Sum(dp),
		Heating:                   floats.Sum(heating),
		Cooling:                   floats.Sum(cooling),
		Humidification:            floats.Sum(hum),
		Dehumidification:          floats.Sum(dehum),
		NotConverged:              notConverged,
		Supply:                    supply,
		TemperatureDeviation:      deviation(supply.Temperature, c.References.Outlet.Temperature),
		RelativeHumidityDeviation: deviation(supply.RelativeHumidity, c.References.Outlet.RelativeHumidity),
	}
}

func deviation(v, target *float64) *float64 {
	if v == nil || target == nil {
		return nil
	}
	return psychro.Float64(*v - *target)
}
