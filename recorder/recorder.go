package recorder

import (
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gocarina/gocsv"

	"air_process_calc/chain"
	"air_process_calc/equipment"
	"air_process_calc/logger"
	"air_process_calc/psychro"
	"air_process_calc/units"
)

// 出力ファイル名
const FileName = "air_process.csv"

// 機器ごとの出力行 (値は単位系に応じた表示精度の文字列、未定義の場合は空)
type Row struct {
	Index                  int    `csv:"index"`
	ID                     string `csv:"id"`
	Name                   string `csv:"name"`
	Kind                   string `csv:"kind"`
	InletLocked            bool   `csv:"inlet_locked"`
	InletTemperature       string `csv:"inlet_temperature"`
	InletRelativeHumidity  string `csv:"inlet_relative_humidity"`
	InletAbsoluteHumidity  string `csv:"inlet_absolute_humidity"`
	InletEnthalpy          string `csv:"inlet_enthalpy"`
	InletDensity           string `csv:"inlet_density"`
	OutletTemperature      string `csv:"outlet_temperature"`
	OutletRelativeHumidity string `csv:"outlet_relative_humidity"`
	OutletAbsoluteHumidity string `csv:"outlet_absolute_humidity"`
	OutletEnthalpy         string `csv:"outlet_enthalpy"`
	OutletDensity          string `csv:"outlet_density"`
	PressureLoss           string `csv:"pressure_loss"`
	Heating                string `csv:"heating"`
	Cooling                string `csv:"cooling"`
	Humidification         string `csv:"humidification"`
	Dehumidification       string `csv:"dehumidification"`
	Converged              string `csv:"converged"`
}

// 計算結果の記録
type Recorder struct {
	system units.System
	rows   []*Row
}

func NewRecorder(system units.System) *Recorder {
	return &Recorder{system: system}
}

// Rows は記録した行を返す。
func (r *Recorder) Rows() []*Row {
	return r.rows
}

/*
系統の計算結果を記録する。

	Args:
		c: 計算済みの系統 (SI 単位)

	Notes:
		既に記録した行は破棄する。
*/
func (r *Recorder) Record(c chain.Chain) {
	r.rows = make([]*Row, 0, len(c.Units))
	for i, u := range c.Units {
		b := equipment.BalanceOf(u.Results)
		row := &Row{
			Index:            i,
			ID:               u.ID,
			Name:             u.Name,
			Kind:             string(u.Kind),
			InletLocked:      u.InletLocked,
			PressureLoss:     r.format(&u.PressureLoss, units.Pressure),
			Heating:          r.format(&b.Heating, units.HeatLoad),
			Cooling:          r.format(&b.Cooling, units.HeatLoad),
			Humidification:   r.format(&b.Humidification, units.SteamFlow),
			Dehumidification: r.format(&b.Dehumidification, units.SteamFlow),
			Converged:        converged(u.Results),
		}
		row.InletTemperature, row.InletRelativeHumidity, row.InletAbsoluteHumidity, row.InletEnthalpy, row.InletDensity = r.state(u.Inlet)
		row.OutletTemperature, row.OutletRelativeHumidity, row.OutletAbsoluteHumidity, row.OutletEnthalpy, row.OutletDensity = r.state(u.Outlet)
		r.rows = append(r.rows, row)
	}
}

func (r *Recorder) state(s psychro.AirState) (theta, rh, x, h, rho string) {
	return r.format(s.Temperature, units.Temperature),
		formatFloat(s.RelativeHumidity, 1),
		r.format(s.AbsoluteHumidity, units.AbsoluteHumidity),
		r.format(s.Enthalpy, units.Enthalpy),
		r.format(s.Density, units.Density)
}

func (r *Recorder) format(v *float64, kind units.Kind) string {
	return formatFloat(units.Convert(v, kind, units.SI, r.system), units.Precision(kind, r.system))
}

func formatFloat(v *float64, prec int) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}

func converged(res equipment.Results) string {
	switch v := res.(type) {
	case equipment.SprayWasherResults:
		return strconv.FormatBool(v.Converged)
	case equipment.SteamHumidifierResults:
		return strconv.FormatBool(v.Converged)
	default:
		return ""
	}
}

// Write は記録した行を CSV 形式で書き出す。
func (r *Recorder) Write(w io.Writer) error {
	return gocsv.Marshal(&r.rows, w)
}

/*
記録した行を CSV 形式で保存する。

	Args:
		output_data_dir: CSV形式で保存するファイルのディレクトリ

	Returns:
		保存したファイルのパス
*/
func (r *Recorder) Save(output_data_dir string) (string, error) {
	path := filepath.Join(output_data_dir, FileName)
	logger.Info("Save %s to `%s`", FileName, path)

	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := r.Write(file); err != nil {
		return "", err
	}
	return path, file.Sync()
}
