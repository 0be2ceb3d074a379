package psychro

import (
	_ "embed"
	"fmt"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/interp"
)

//go:embed steam_table.csv
var steamTableCSV []byte

// 飽和蒸気表の行
type steamTableRow struct {
	Pressure    float64 `csv:"pressure"`    // 絶対圧力, kPa
	Temperature float64 `csv:"temperature"` // 飽和温度, degree C
	Enthalpy    float64 `csv:"enthalpy"`    // 飽和蒸気の比エンタルピー, kJ/kg
}

// 飽和蒸気表
type steamTable struct {
	theta interp.PiecewiseLinear // 絶対圧力 -> 飽和温度
	h     interp.PiecewiseLinear // 絶対圧力 -> 比エンタルピー
}

var steam = mustLoadSteamTable(steamTableCSV)

func mustLoadSteamTable(data []byte) *steamTable {
	t, err := loadSteamTable(data)
	if err != nil {
		panic(err)
	}
	return t
}

func loadSteamTable(data []byte) (*steamTable, error) {
	var rows []*steamTableRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to read steam table: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("steam table needs at least 2 rows, got %d", len(rows))
	}

	ps := make([]float64, len(rows))
	thetas := make([]float64, len(rows))
	hs := make([]float64, len(rows))
	for i, r := range rows {
		// interp.PiecewiseLinear は単調増加でない入力で panic する
		if i > 0 && r.Pressure <= rows[i-1].Pressure {
			return nil, fmt.Errorf("steam table pressure must be strictly increasing at row %d", i+1)
		}
		ps[i] = r.Pressure
		thetas[i] = r.Temperature
		hs[i] = r.Enthalpy
	}

	t := &steamTable{}
	if err := t.theta.Fit(ps, thetas); err != nil {
		return nil, fmt.Errorf("invalid steam table: %w", err)
	}
	if err := t.h.Fit(ps, hs); err != nil {
		return nil, fmt.Errorf("invalid steam table: %w", err)
	}
	return t, nil
}

// 飽和蒸気の状態
type SteamState struct {
	GaugePressure    float64 `json:"gauge_pressure"`    // ゲージ圧, kPa(G)
	AbsolutePressure float64 `json:"absolute_pressure"` // 絶対圧力, kPa
	Temperature      float64 `json:"temperature"`       // 飽和温度, degree C
	Enthalpy         float64 `json:"enthalpy"`          // 比エンタルピー, kJ/kg
}

/*
ゲージ圧から飽和蒸気の状態を求める。

	Args:
		p_g: 蒸気のゲージ圧, kPa(G)

	Returns:
		飽和蒸気の状態

	Notes:
		ゲージ圧に大気圧を加えた絶対圧力で蒸気表を線形補間する。
		蒸気表の範囲外は端点の値とする。
*/
func (a Atmosphere) SteamProperties(p_g float64) SteamState {
	p_abs := p_g + a.Pressure/1000.0
	return SteamState{
		GaugePressure:    p_g,
		AbsolutePressure: p_abs,
		Temperature:      steam.theta.Predict(p_abs),
		Enthalpy:         steam.h.Predict(p_abs),
	}
}

// 標準大気圧での値
func SteamProperties(p_g float64) SteamState {
	return Standard.SteamProperties(p_g)
}
