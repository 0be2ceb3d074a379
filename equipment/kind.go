package equipment

import (
	"errors"
	"fmt"
)

// 機器の種類
type Kind string

// 機器の種類の定数
const (
	Filter          Kind = "filter"
	Burner          Kind = "burner"
	CoolingCoil     Kind = "cooling_coil"
	HeatingCoil     Kind = "heating_coil"
	Eliminator      Kind = "eliminator"
	SprayWasher     Kind = "spray_washer"
	SteamHumidifier Kind = "steam_humidifier"
	Fan             Kind = "fan"
	Damper          Kind = "damper"
	Custom          Kind = "custom"
)

var ErrUnknownKind = errors.New("unknown equipment kind")

// Kinds は全ての機器の種類を返す。
func Kinds() []Kind {
	return []Kind{Filter, Burner, CoolingCoil, HeatingCoil, Eliminator, SprayWasher, SteamHumidifier, Fan, Damper, Custom}
}

func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	for _, v := range Kinds() {
		if k == v {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

/*
空気の状態を変化させない機器か否かを判定する。

	Notes:
		フィルタ、エリミネータ、ダンパ、カスタムの4種類
*/
func (k Kind) IsPassThrough() bool {
	switch k {
	case Filter, Eliminator, Damper, Custom:
		return true
	default:
		return false
	}
}

// 出口の状態が入口の状態のみから計算される機器か否かを判定する。
func (k Kind) OutletFromInlet() bool {
	return k == Fan || k.IsPassThrough()
}

// 出口温度を利用者が指定する機器か否かを判定する。
func (k Kind) TargetsTemperature() bool {
	switch k {
	case Burner, CoolingCoil, HeatingCoil:
		return true
	default:
		return false
	}
}

// 出口相対湿度を利用者が指定する機器か否かを判定する。
func (k Kind) TargetsRelativeHumidity() bool {
	return k == SprayWasher || k == SteamHumidifier
}

// 既定の名称
func (k Kind) DefaultName() string {
	switch k {
	case Filter:
		return "Filter"
	case Burner:
		return "Burner"
	case CoolingCoil:
		return "Cooling coil"
	case HeatingCoil:
		return "Heating coil"
	case Eliminator:
		return "Eliminator"
	case SprayWasher:
		return "Spray washer"
	case SteamHumidifier:
		return "Steam humidifier"
	case Fan:
		return "Fan"
	case Damper:
		return "Damper"
	case Custom:
		return "Custom"
	default:
		panic(fmt.Sprintf("invalid equipment kind: %s", k))
	}
}

// 表示色
func (k Kind) Color() string {
	switch k {
	case Filter:
		return "#9e9e9e"
	case Burner:
		return "#e53935"
	case CoolingCoil:
		return "#1e88e5"
	case HeatingCoil:
		return "#fb8c00"
	case Eliminator:
		return "#78909c"
	case SprayWasher:
		return "#00acc1"
	case SteamHumidifier:
		return "#8e24aa"
	case Fan:
		return "#43a047"
	case Damper:
		return "#6d4c41"
	case Custom:
		return "#546e7a"
	default:
		panic(fmt.Sprintf("invalid equipment kind: %s", k))
	}
}

// 既定の機器条件
func (k Kind) DefaultConditions() Conditions {
	switch k {
	case Filter:
		return FilterConditions{SheetCount: 4, LouvreArea: 1.0}
	case Burner:
		return BurnerConditions{SensibleHeatFactor: 0.9}
	case CoolingCoil:
		return CoolingCoilConditions{BypassFactor: 0.05, WaterInletTemperature: 7.0, WaterOutletTemperature: 12.0}
	case HeatingCoil:
		return HeatingCoilConditions{Efficiency: 0.9, WaterInletTemperature: 60.0, WaterOutletTemperature: 50.0}
	case Eliminator:
		return EliminatorConditions{}
	case SprayWasher:
		return SprayWasherConditions{WaterAirRatio: 0.8}
	case SteamHumidifier:
		return SteamHumidifierConditions{SteamGaugePressure: 100.0}
	case Fan:
		return FanConditions{MotorOutput: 0.2, MotorEfficiency: 0.8}
	case Damper:
		return DamperConditions{LossCoefficient: 0.5, DuctArea: 0.25}
	case Custom:
		return CustomConditions{}
	default:
		panic(fmt.Sprintf("invalid equipment kind: %s", k))
	}
}
