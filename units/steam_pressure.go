package units

import (
	"errors"
	"fmt"
)

// 蒸気圧力 (ゲージ圧) の単位
type SteamUnit string

// 蒸気圧力の単位の定数
const (
	PaG     SteamUnit = "Pa(G)"
	KPaG    SteamUnit = "kPa(G)"
	MPaG    SteamUnit = "MPa(G)"
	PsiG    SteamUnit = "psi(G)"
	BarG    SteamUnit = "bar(G)"
	KgfCm2G SteamUnit = "kgf/cm2(G)"
)

var ErrUnknownSteamUnit = errors.New("unknown steam pressure unit")

// 1単位あたりの圧力, Pa
var steamUnitToPa = map[SteamUnit]float64{
	PaG:     1.0,
	KPaG:    1.0e3,
	MPaG:    1.0e6,
	PsiG:    6894.757293168,
	BarG:    1.0e5,
	KgfCm2G: 98066.5,
}

// SteamUnits は対応している蒸気圧力の単位の一覧を返す。
func SteamUnits() []SteamUnit {
	return []SteamUnit{PaG, KPaG, MPaG, PsiG, BarG, KgfCm2G}
}

func ParseSteamUnit(s string) (SteamUnit, error) {
	u := SteamUnit(s)
	if _, ok := steamUnitToPa[u]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSteamUnit, s)
	}
	return u, nil
}

/*
蒸気圧力を単位の間で変換する。

	Args:
		v: 変換前のゲージ圧 (nil は未定義)
		from: 変換前の単位
		to: 変換後の単位

	Returns:
		変換後のゲージ圧

	Notes:
		from -> Pa(G) -> to の順に変換する。
*/
func ConvertSteamPressure(v *float64, from, to SteamUnit) (*float64, error) {
	if v == nil {
		return nil, nil
	}
	r, err := ConvertSteamPressureValue(*v, from, to)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ConvertSteamPressureValue は ConvertSteamPressure の非 nil 版。
func ConvertSteamPressureValue(v float64, from, to SteamUnit) (float64, error) {
	f, ok := steamUnitToPa[from]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSteamUnit, from)
	}
	t, ok := steamUnitToPa[to]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSteamUnit, to)
	}
	if from == to {
		return v, nil
	}
	return v * f / t, nil
}
