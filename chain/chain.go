package chain

import (
	"errors"
	"fmt"

	"air_process_calc/equipment"
	"air_process_calc/logger"
	"air_process_calc/psychro"
)

var (
	ErrUnitNotFound      = errors.New("unit not found")
	ErrFieldNotEditable  = errors.New("field is not editable for this equipment kind")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrInvalidAirflow    = errors.New("airflow must be zero or positive")
	ErrInvalidEventInput = errors.New("invalid event")
)

// 系統の境界条件 (外気と目標の給気)
type ReferenceStates struct {
	Inlet  psychro.AirState `json:"inlet"`
	Outlet psychro.AirState `json:"outlet"`
}

// 空調処理系統
type Chain struct {
	Units      []equipment.Unit   `json:"units"`
	References ReferenceStates    `json:"references"`
	Airflow    float64            `json:"airflow"` // 風量, m3/h
	Atmosphere psychro.Atmosphere `json:"atmosphere"`
}

/*
機器の列から系統を作り、全体を計算する。

	Args:
		units: 上流から順に並んだ機器
		refs: 境界条件
		airflow: 風量, m3/h
		atm: 大気

	Returns:
		計算済みの系統
*/
func New(units []equipment.Unit, refs ReferenceStates, airflow float64, atm psychro.Atmosphere) Chain {
	c := Chain{
		Units:      append([]equipment.Unit(nil), units...),
		References: refs,
		Airflow:    airflow,
		Atmosphere: atm,
	}
	c.recomputeAll()
	return c
}

// RecomputeAll は全ての機器を上流から再計算した系統を返す。
func RecomputeAll(c Chain) Chain {
	c = c.clone()
	c.recomputeAll()
	return c
}

func (c Chain) clone() Chain {
	c.Units = append([]equipment.Unit(nil), c.Units...)
	return c
}

// IndexOf は機器の位置を返す。
func (c Chain) IndexOf(id string) (int, error) {
	for i, u := range c.Units {
		if u.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrUnitNotFound, id)
}

// 機器の上流側の状態 (先頭の場合は外気)
func (c Chain) upstreamOutlet(i int) psychro.AirState {
	if i == 0 {
		return c.References.Inlet
	}
	return c.Units[i-1].Outlet
}

// 固定されていない機器の入口を上流側の状態に合わせる。
func (c *Chain) sync(i int) {
	if i < 0 || i >= len(c.Units) {
		return
	}
	if !c.Units[i].InletLocked {
		c.Units[i].Inlet = c.upstreamOutlet(i)
	}
}

func (c *Chain) recomputeAll() {
	c.sync(0)
	c.propagate(0, true)
}

/*
i 番目の機器を計算し、下流へ伝播する。

	Args:
		i: 計算を開始する機器の位置
		force: 入口が変化しない機器でも再計算を続けるか否か

	Notes:
		i 番目の機器は現在の入口で計算する。
		i+1 番目以降の機器は、入口が固定されていない場合に上流の出口をそのまま入口とする。
		出口の目標値は Unit.Target に保持し、風量 0 などで出口が入口と同じになっても失わない。
		force でない場合、入口が変化しない機器に達した時点で伝播を打ち切る。
*/
func (c *Chain) propagate(i int, force bool) {
	for j := i; j < len(c.Units); j++ {
		u := &c.Units[j]
		if j > i {
			if u.InletLocked {
				if !force {
					logger.Debug("propagation stopped at locked unit `%s`", u.Name)
					return
				}
			} else {
				next := c.Units[j-1].Outlet
				if !force && u.Inlet.Equal(next, 0) {
					return
				}
				u.Inlet = next
			}
		}

		// 出口を上書きする前に目標値を保持する
		u.Target = u.EffectiveTarget()

		amb := equipment.NewAmbient(c.Atmosphere, c.Airflow, u.Inlet)
		out := equipment.Recompute(*u, u.Inlet, amb)
		u.Outlet = out.Outlet
		u.Results = out.Results
		if out.PressureLoss != nil {
			u.PressureLoss = *out.PressureLoss
		}
		logger.Debug("recomputed unit %d `%s` (%s)", j, u.Name, u.Kind)
	}
}
