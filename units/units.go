package units

import (
	"errors"
	"fmt"
)

// 単位系
type System string

// 単位系の定数
const (
	SI       System = "SI"
	Imperial System = "IP"
)

// 物理量の種類
type Kind string

// 物理量の種類の定数
const (
	Temperature      Kind = "temperature"
	Length           Kind = "length"
	Airflow          Kind = "airflow"
	Pressure         Kind = "pressure"
	HeatLoad         Kind = "heat_load"
	WaterFlow        Kind = "water_flow"
	AbsoluteHumidity Kind = "absolute_humidity"
	Enthalpy         Kind = "enthalpy"
	MotorPower       Kind = "motor_power"
	Velocity         Kind = "velocity"
	Area             Kind = "area"
	Density          Kind = "density"
	SteamPressure    Kind = "steam_pressure"
	SteamEnthalpy    Kind = "steam_enthalpy"
	SteamFlow        Kind = "steam_flow"
)

var ErrUnknownKind = errors.New("unknown quantity kind")

// 物理量ごとの単位の定義
// IP の値 = SI の値 * factor + offset
type definition struct {
	si, ip      string
	factor      float64
	offset      float64
	precisionSI int
	precisionIP int
}

var definitions = map[Kind]definition{
	Temperature:      {si: "°C", ip: "°F", factor: 1.8, offset: 32.0, precisionSI: 1, precisionIP: 1},
	Length:           {si: "mm", ip: "in", factor: 1.0 / 25.4, precisionSI: 0, precisionIP: 2},
	Airflow:          {si: "m3/h", ip: "CFM", factor: 1.0 / 1.69901082, precisionSI: 0, precisionIP: 0},
	Pressure:         {si: "Pa", ip: "inH2O", factor: 1.0 / 249.08891, precisionSI: 0, precisionIP: 2},
	HeatLoad:         {si: "kW", ip: "BTU/h", factor: 3412.14163, precisionSI: 2, precisionIP: 0},
	WaterFlow:        {si: "L/min", ip: "GPM", factor: 1.0 / 3.785411784, precisionSI: 1, precisionIP: 2},
	AbsoluteHumidity: {si: "g/kg(DA)", ip: "gr/lb", factor: 7.0, precisionSI: 2, precisionIP: 1},
	Enthalpy:         {si: "kJ/kg(DA)", ip: "BTU/lb", factor: 1.0 / 2.326, precisionSI: 1, precisionIP: 1},
	MotorPower:       {si: "kW", ip: "hp", factor: 1.0 / 0.745699872, precisionSI: 2, precisionIP: 2},
	Velocity:         {si: "m/s", ip: "fpm", factor: 196.850394, precisionSI: 2, precisionIP: 0},
	Area:             {si: "m2", ip: "ft2", factor: 10.7639104, precisionSI: 3, precisionIP: 2},
	Density:          {si: "kg/m3", ip: "lb/ft3", factor: 1.0 / 16.0184634, precisionSI: 3, precisionIP: 4},
	SteamPressure:    {si: "kPa(G)", ip: "psi(G)", factor: 1.0 / 6.894757293, precisionSI: 0, precisionIP: 1},
	SteamEnthalpy:    {si: "kJ/kg", ip: "BTU/lb", factor: 1.0 / 2.326, precisionSI: 1, precisionIP: 1},
	SteamFlow:        {si: "kg/h", ip: "lb/h", factor: 1.0 / 0.45359237, precisionSI: 1, precisionIP: 1},
}

// Kinds は対応している物理量の一覧を返す。
func Kinds() []Kind {
	return []Kind{
		Temperature, Length, Airflow, Pressure, HeatLoad, WaterFlow, AbsoluteHumidity,
		Enthalpy, MotorPower, Velocity, Area, Density, SteamPressure, SteamEnthalpy, SteamFlow,
	}
}

func (k Kind) Valid() bool {
	_, ok := definitions[k]
	return ok
}

func (s System) Valid() bool {
	return s == SI || s == Imperial
}

func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

func lookup(kind Kind) definition {
	d, ok := definitions[kind]
	if !ok {
		panic(fmt.Sprintf("invalid quantity kind: %s", kind))
	}
	return d
}

/*
値を単位系の間で変換する。

	Args:
		v: 変換前の値 (nil は未定義)
		kind: 物理量の種類
		from: 変換前の単位系
		to: 変換後の単位系

	Returns:
		変換後の値 (v が nil の場合は nil)
*/
func Convert(v *float64, kind Kind, from, to System) *float64 {
	if v == nil {
		return nil
	}
	if from == to {
		return v
	}
	r := ConvertValue(*v, kind, from, to)
	return &r
}

// ConvertValue は Convert の非 nil 版。
func ConvertValue(v float64, kind Kind, from, to System) float64 {
	if from == to {
		return v
	}
	d := lookup(kind)
	switch {
	case from == SI && to == Imperial:
		return v*d.factor + d.offset
	case from == Imperial && to == SI:
		return (v - d.offset) / d.factor
	default:
		panic(fmt.Sprintf("invalid unit system: %s -> %s", from, to))
	}
}

// Symbol は単位系における単位記号を返す。
func Symbol(kind Kind, s System) string {
	d := lookup(kind)
	if s == Imperial {
		return d.ip
	}
	return d.si
}

/*
表示用の小数点以下の桁数を取得する。

	Notes:
		表示のためだけに使用し、値の丸めには使用しない。
*/
func Precision(kind Kind, s System) int {
	d := lookup(kind)
	if s == Imperial {
		return d.precisionIP
	}
	return d.precisionSI
}
