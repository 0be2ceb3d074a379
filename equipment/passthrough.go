package equipment

import "air_process_calc/psychro"

// エリミネータの機器条件
type EliminatorConditions struct{}

// エリミネータの計算結果
type EliminatorResults struct{}

// カスタム機器の機器条件
type CustomConditions struct {
	Description string `json:"description" yaml:"description" validate:"max=500"` // 説明
}

// カスタム機器の計算結果
type CustomResults struct{}

func (EliminatorConditions) Kind() Kind { return Eliminator }
func (EliminatorResults) Kind() Kind    { return Eliminator }
func (EliminatorResults) results()      {}

func (CustomConditions) Kind() Kind { return Custom }
func (CustomResults) Kind() Kind    { return Custom }
func (CustomResults) results()      {}

// 空気の状態を変化させない。圧力損失は利用者が直接入力する。
func (EliminatorConditions) process(in, _ psychro.AirState, _ Ambient) Outcome {
	return Outcome{Outlet: in, Results: EliminatorResults{}}
}

// 空気の状態を変化させない。圧力損失は利用者が直接入力する。
func (CustomConditions) process(in, _ psychro.AirState, _ Ambient) Outcome {
	return Outcome{Outlet: in, Results: CustomResults{}}
}
