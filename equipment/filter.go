package equipment

import "air_process_calc/psychro"

// フィルタの機器条件
type FilterConditions struct {
	SheetCount int     `json:"sheet_count" yaml:"sheet_count" validate:"gte=0"` // フィルタの枚数
	LouvreArea float64 `json:"louvre_area" yaml:"louvre_area" validate:"gte=0"` // 有効開口面積の合計, m2
}

// フィルタの計算結果
type FilterResults struct {
	FaceVelocity    float64 `json:"face_velocity"`     // 面風速, m/s
	AirflowPerSheet float64 `json:"airflow_per_sheet"` // 1枚あたりの風量, m3/h
}

func (FilterConditions) Kind() Kind { return Filter }
func (FilterResults) Kind() Kind    { return Filter }
func (FilterResults) results()      {}

/*
フィルタの面風速と1枚あたりの風量を計算する。

	Notes:
		空気の状態は変化しない。圧力損失は利用者が直接入力する。
*/
func (c FilterConditions) process(in, _ psychro.AirState, amb Ambient) Outcome {
	var r FilterResults
	if c.LouvreArea > 0.0 {
		r.FaceVelocity = amb.Airflow / 3600.0 / c.LouvreArea
	}
	if c.SheetCount > 0 {
		r.AirflowPerSheet = amb.Airflow / float64(c.SheetCount)
	}
	return Outcome{Outlet: in, Results: r}
}
