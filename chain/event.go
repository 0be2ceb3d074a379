package chain

import (
	"fmt"

	"air_process_calc/equipment"
	"air_process_calc/logger"
)

// 系統に対する操作
type Event interface {
	Type() string
	apply(c *Chain) error
}

/*
系統に操作を適用する。

	Args:
		c: 系統
		e: 操作

	Returns:
		操作を適用し再計算した新しい系統

	Notes:
		元の系統は変更しない。エラーの場合は元の系統をそのまま返す。
*/
func Apply(c Chain, e Event) (Chain, error) {
	next := c.clone()
	if err := e.apply(&next); err != nil {
		return c, fmt.Errorf("failed to apply %s: %w", e.Type(), err)
	}
	logger.Debug("applied %s", e.Type())
	return next, nil
}

// 入口の状態を手入力する (入口は固定される)
type EditInlet struct {
	UnitID           string   `json:"unit_id"`
	Temperature      *float64 `json:"temperature"`
	RelativeHumidity *float64 `json:"relative_humidity"`
	AbsoluteHumidity *float64 `json:"absolute_humidity"` // 指定した場合は相対湿度より優先する
}

func (EditInlet) Type() string { return "edit_inlet" }

func (e EditInlet) apply(c *Chain) error {
	i, err := c.IndexOf(e.UnitID)
	if err != nil {
		return err
	}
	u := &c.Units[i]
	u.Inlet = c.Atmosphere.DeriveAirState(e.Temperature, e.RelativeHumidity, e.AbsoluteHumidity)
	u.InletLocked = true
	c.propagate(i, false)
	return nil
}

// 出口の目標値を手入力する
type EditOutlet struct {
	UnitID           string   `json:"unit_id"`
	Temperature      *float64 `json:"temperature"`
	RelativeHumidity *float64 `json:"relative_humidity"`
}

func (EditOutlet) Type() string { return "edit_outlet" }

/*
Notes:

	出口温度を指定できるのはバーナー、冷却コイル、加熱コイルのみ。
	出口相対湿度を指定できるのはスプレーワッシャー、蒸気加湿器のみ。
	それ以外の機器の出口は入口から計算されるため指定できない。
*/
func (e EditOutlet) apply(c *Chain) error {
	i, err := c.IndexOf(e.UnitID)
	if err != nil {
		return err
	}
	u := &c.Units[i]
	switch {
	case u.Kind.TargetsTemperature():
		if e.RelativeHumidity != nil {
			return fmt.Errorf("%w: outlet relative humidity of %s", ErrFieldNotEditable, u.Kind)
		}
		u.SetTarget(equipment.Target{Temperature: e.Temperature})
	case u.Kind.TargetsRelativeHumidity():
		if e.Temperature != nil {
			return fmt.Errorf("%w: outlet temperature of %s", ErrFieldNotEditable, u.Kind)
		}
		u.SetTarget(equipment.Target{RelativeHumidity: e.RelativeHumidity})
	default:
		return fmt.Errorf("%w: outlet of %s", ErrFieldNotEditable, u.Kind)
	}
	c.propagate(i, false)
	return nil
}

// 上流の状態を入口に反映する (入口の固定を解除する)
type ReflectUpstream struct {
	UnitID string `json:"unit_id"`
}

func (ReflectUpstream) Type() string { return "reflect_upstream" }

/*
Notes:

	上流側へ遡り、空気の状態を変化させない機器を除いた最も近い機器のうち
	出口が定義されているものの出口を入口とする。該当する機器がない場合は外気とする。
*/
func (e ReflectUpstream) apply(c *Chain) error {
	i, err := c.IndexOf(e.UnitID)
	if err != nil {
		return err
	}

	src := c.References.Inlet
	for j := i - 1; j >= 0; j-- {
		p := c.Units[j]
		if !p.Kind.IsPassThrough() && p.Outlet.Known() {
			src = p.Outlet
			break
		}
	}

	u := &c.Units[i]
	u.Inlet = src
	u.InletLocked = false
	switch {
	case u.Kind.OutletFromInlet():
		u.Outlet = src
	case u.Kind.TargetsRelativeHumidity():
		// 収束計算の初期値とした出口温度を捨てる
		u.SetTarget(u.EffectiveTarget())
	}
	c.propagate(i, false)
	return nil
}

// 下流の状態を出口の目標値に反映する
type ReflectDownstream struct {
	UnitID string `json:"unit_id"`
}

func (ReflectDownstream) Type() string { return "reflect_downstream" }

/*
Notes:

	最後の機器の場合は目標の給気の状態、それ以外は次の機器の入口を参照する。
	スプレーワッシャー、蒸気加湿器は相対湿度のみ、それ以外は温度のみを反映する。
*/
func (e ReflectDownstream) apply(c *Chain) error {
	i, err := c.IndexOf(e.UnitID)
	if err != nil {
		return err
	}

	src := c.References.Outlet
	if i+1 < len(c.Units) {
		src = c.Units[i+1].Inlet
	}

	c.Units[i].SetTarget(equipment.Target{
		Temperature:      src.Temperature,
		RelativeHumidity: src.RelativeHumidity,
	})
	c.propagate(i, false)
	return nil
}

// 機器条件を変更する
type SetConditions struct {
	UnitID     string               `json:"unit_id"`
	Conditions equipment.Conditions `json:"conditions"`
}

func (SetConditions) Type() string { return "set_conditions" }

func (e SetConditions) apply(c *Chain) error {
	i, err := c.IndexOf(e.UnitID)
	if err != nil {
		return err
	}
	u, err := c.Units[i].WithConditions(e.Conditions)
	if err != nil {
		return err
	}
	c.Units[i] = u
	c.propagate(i, false)
	return nil
}

// 圧力損失を手入力する
type SetPressureLoss struct {
	UnitID       string  `json:"unit_id"`
	PressureLoss float64 `json:"pressure_loss"` // Pa
}

func (SetPressureLoss) Type() string { return "set_pressure_loss" }

/*
Notes:

	ダンパの圧力損失はダクト断面積が指定されている場合は計算値で上書きされる。
*/
func (e SetPressureLoss) apply(c *Chain) error {
	i, err := c.IndexOf(e.UnitID)
	if err != nil {
		return err
	}
	if e.PressureLoss < 0.0 {
		return fmt.Errorf("%w: negative pressure loss %g", ErrInvalidEventInput, e.PressureLoss)
	}
	c.Units[i].PressureLoss = e.PressureLoss
	c.propagate(i, false)
	return nil
}

// 風量を変更する
type SetAirflow struct {
	Airflow float64 `json:"airflow"` // m3/h
}

func (SetAirflow) Type() string { return "set_airflow" }

func (e SetAirflow) apply(c *Chain) error {
	if e.Airflow < 0.0 {
		return fmt.Errorf("%w: %g", ErrInvalidAirflow, e.Airflow)
	}
	c.Airflow = e.Airflow
	c.recomputeAll()
	return nil
}

// 境界条件を変更する
type SetReferences struct {
	Inlet  *ReferenceInput `json:"inlet"`
	Outlet *ReferenceInput `json:"outlet"`
}

// 境界条件の入力値
type ReferenceInput struct {
	Temperature      *float64 `json:"temperature"`
	RelativeHumidity *float64 `json:"relative_humidity"`
	AbsoluteHumidity *float64 `json:"absolute_humidity"`
}

func (SetReferences) Type() string { return "set_references" }

func (e SetReferences) apply(c *Chain) error {
	if e.Inlet != nil {
		c.References.Inlet = c.Atmosphere.DeriveAirState(e.Inlet.Temperature, e.Inlet.RelativeHumidity, e.Inlet.AbsoluteHumidity)
	}
	if e.Outlet != nil {
		c.References.Outlet = c.Atmosphere.DeriveAirState(e.Outlet.Temperature, e.Outlet.RelativeHumidity, e.Outlet.AbsoluteHumidity)
	}
	c.recomputeAll()
	return nil
}

// 機器を追加する
type Insert struct {
	Index int            `json:"index"` // 追加する位置 (末尾に追加する場合は機器の数)
	Kind  equipment.Kind `json:"kind"`
	Name  string         `json:"name"`
}

func (Insert) Type() string { return "insert" }

/*
Notes:

	追加した機器の出口の目標値は入口と同じ値とする。
*/
func (e Insert) apply(c *Chain) error {
	if e.Index < 0 || e.Index > len(c.Units) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, e.Index)
	}
	k, err := equipment.ParseKind(string(e.Kind))
	if err != nil {
		return err
	}

	u := equipment.NewUnit(k)
	if e.Name != "" {
		u.Name = e.Name
	}
	u.Inlet = c.upstreamOutlet(e.Index)
	u.SetTarget(equipment.Target{
		Temperature:      u.Inlet.Temperature,
		RelativeHumidity: u.Inlet.RelativeHumidity,
	})

	c.Units = append(c.Units, equipment.Unit{})
	copy(c.Units[e.Index+1:], c.Units[e.Index:])
	c.Units[e.Index] = u
	c.propagate(e.Index, true)
	return nil
}

// 機器を削除する
type Remove struct {
	UnitID string `json:"unit_id"`
}

func (Remove) Type() string { return "remove" }

func (e Remove) apply(c *Chain) error {
	i, err := c.IndexOf(e.UnitID)
	if err != nil {
		return err
	}
	c.Units = append(c.Units[:i], c.Units[i+1:]...)
	if i < len(c.Units) {
		c.sync(i)
		c.propagate(i, true)
	}
	return nil
}

// 機器を移動する
type Move struct {
	UnitID string `json:"unit_id"`
	Index  int    `json:"index"` // 移動先の位置
}

func (Move) Type() string { return "move" }

/*
Notes:

	入口の固定の有無は移動しても変わらない。
*/
func (e Move) apply(c *Chain) error {
	i, err := c.IndexOf(e.UnitID)
	if err != nil {
		return err
	}
	if e.Index < 0 || e.Index >= len(c.Units) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, e.Index)
	}
	if i == e.Index {
		return nil
	}

	u := c.Units[i]
	c.Units = append(c.Units[:i], c.Units[i+1:]...)
	c.Units = append(c.Units[:e.Index], append([]equipment.Unit{u}, c.Units[e.Index:]...)...)

	start := min(i, e.Index)
	c.sync(start)
	c.propagate(start, true)
	return nil
}

// 機器の名称を変更する
type Rename struct {
	UnitID string `json:"unit_id"`
	Name   string `json:"name"` // 空の場合は既定の名称
}

func (Rename) Type() string { return "rename" }

func (e Rename) apply(c *Chain) error {
	i, err := c.IndexOf(e.UnitID)
	if err != nil {
		return err
	}
	name := e.Name
	if name == "" {
		name = c.Units[i].Kind.DefaultName()
	}
	c.Units[i].Name = name
	return nil
}
