package equipment

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"air_process_calc/psychro"
)

var ErrKindMismatch = errors.New("conditions do not match equipment kind")

// 機器 (処理系統の1段)
type Unit struct {
	ID           string           `json:"id"`
	Kind         Kind             `json:"kind"`
	Name         string           `json:"name"`
	Inlet        psychro.AirState `json:"inlet"`
	Outlet       psychro.AirState `json:"outlet"`
	Target       Target           `json:"target"`        // 利用者が指定した出口の目標値
	PressureLoss float64          `json:"pressure_loss"` // 乾き空気の圧力損失, Pa
	Conditions   Conditions       `json:"conditions"`
	Results      Results          `json:"results"`
	InletLocked  bool             `json:"inlet_locked"` // 入口の状態を手入力で固定しているか否か
	Color        string           `json:"color"`
}

/*
出口の目標値

	Notes:
		バーナー、冷却コイル、加熱コイルは出口温度、
		スプレーワッシャー、蒸気加湿器は出口相対湿度を目標値とする。
		風量が 0 の間は出口が入口と同じになるが、目標値は保持される。
*/
type Target struct {
	Temperature      *float64 `json:"temperature,omitempty"`       // degree C
	RelativeHumidity *float64 `json:"relative_humidity,omitempty"` // %
}

// NewUnit は既定の機器条件で機器を作る。
func NewUnit(k Kind) Unit {
	return Unit{
		ID:         uuid.NewString(),
		Kind:       k,
		Name:       k.DefaultName(),
		Conditions: k.DefaultConditions(),
		Results:    emptyResults(k),
		Color:      k.Color(),
	}
}

// WithConditions は機器条件を差し替えた機器を返す。
func (u Unit) WithConditions(c Conditions) (Unit, error) {
	if c == nil || c.Kind() != u.Kind {
		return u, fmt.Errorf("%w: %s", ErrKindMismatch, u.Kind)
	}
	u.Conditions = c
	return u, nil
}

/*
機器の出口の目標値を返す。

	Notes:
		目標値が未設定の場合は出口の状態の値を目標値とみなす。
		目標値を持たない機器の場合は空とする。
*/
func (u Unit) EffectiveTarget() Target {
	switch {
	case u.Kind.TargetsTemperature():
		if u.Target.Temperature != nil {
			return Target{Temperature: u.Target.Temperature}
		}
		return Target{Temperature: u.Outlet.Temperature}
	case u.Kind.TargetsRelativeHumidity():
		if u.Target.RelativeHumidity != nil {
			return Target{RelativeHumidity: u.Target.RelativeHumidity}
		}
		return Target{RelativeHumidity: u.Outlet.RelativeHumidity}
	default:
		return Target{}
	}
}

/*
出口の目標値を設定する。

	Notes:
		機器の種類が目標とする値のみを設定し、出口の状態は目標値のみとする。
		目標値を持たない機器の場合は何もしない。
*/
func (u *Unit) SetTarget(t Target) {
	switch {
	case u.Kind.TargetsTemperature():
		u.Target = Target{Temperature: copyFloat(t.Temperature)}
		u.Outlet = psychro.AirState{Temperature: copyFloat(t.Temperature)}
	case u.Kind.TargetsRelativeHumidity():
		u.Target = Target{RelativeHumidity: copyFloat(t.RelativeHumidity)}
		u.Outlet = psychro.AirState{RelativeHumidity: copyFloat(t.RelativeHumidity)}
	}
}

// 計算に渡す現在の出口の状態 (目標値と収束計算の初期値)
func (u Unit) current() psychro.AirState {
	t := u.EffectiveTarget()
	switch {
	case u.Kind.TargetsTemperature():
		return psychro.AirState{Temperature: t.Temperature}
	case u.Kind.TargetsRelativeHumidity():
		return psychro.AirState{Temperature: u.Outlet.Temperature, RelativeHumidity: t.RelativeHumidity}
	default:
		return u.Outlet
	}
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	w := *v
	return &w
}

/*
機器の種類に応じた機器条件を復号する。

	Args:
		k: 機器の種類
		decode: 機器条件の構造体へのポインタを受け取って値を埋める関数 (nil の場合は既定値)

	Returns:
		機器条件

	Notes:
		復号前に既定値を設定するため、省略された項目は既定値となる。
*/
func DecodeConditions(k Kind, decode func(v any) error) (Conditions, error) {
	switch k {
	case Filter:
		return decodeInto(k, decode, k.DefaultConditions().(FilterConditions))
	case Burner:
		return decodeInto(k, decode, k.DefaultConditions().(BurnerConditions))
	case CoolingCoil:
		return decodeInto(k, decode, k.DefaultConditions().(CoolingCoilConditions))
	case HeatingCoil:
		return decodeInto(k, decode, k.DefaultConditions().(HeatingCoilConditions))
	case Eliminator:
		return decodeInto(k, decode, k.DefaultConditions().(EliminatorConditions))
	case SprayWasher:
		return decodeInto(k, decode, k.DefaultConditions().(SprayWasherConditions))
	case SteamHumidifier:
		return decodeInto(k, decode, k.DefaultConditions().(SteamHumidifierConditions))
	case Fan:
		return decodeInto(k, decode, k.DefaultConditions().(FanConditions))
	case Damper:
		return decodeInto(k, decode, k.DefaultConditions().(DamperConditions))
	case Custom:
		return decodeInto(k, decode, k.DefaultConditions().(CustomConditions))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}
}

func decodeInto[T Conditions](k Kind, decode func(v any) error, c T) (Conditions, error) {
	if decode != nil {
		if err := decode(&c); err != nil {
			return nil, fmt.Errorf("failed to decode %s conditions: %w", k, err)
		}
	}
	return c, nil
}

/*
JSON から機器を復号する。

	Notes:
		機器条件は種類に応じた構造体で復号する。
		計算結果は導出値のため復号せず、空の結果とする。
*/
func (u *Unit) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID           string           `json:"id"`
		Kind         Kind             `json:"kind"`
		Name         string           `json:"name"`
		Inlet        psychro.AirState `json:"inlet"`
		Outlet       psychro.AirState `json:"outlet"`
		Target       Target           `json:"target"`
		PressureLoss float64          `json:"pressure_loss"`
		Conditions   json.RawMessage  `json:"conditions"`
		InletLocked  bool             `json:"inlet_locked"`
		Color        string           `json:"color"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	k, err := ParseKind(string(raw.Kind))
	if err != nil {
		return err
	}

	var decode func(v any) error
	if len(raw.Conditions) > 0 && string(raw.Conditions) != "null" {
		decode = func(v any) error { return json.Unmarshal(raw.Conditions, v) }
	}
	cond, err := DecodeConditions(k, decode)
	if err != nil {
		return err
	}

	*u = Unit{
		ID:           raw.ID,
		Kind:         k,
		Name:         raw.Name,
		Inlet:        raw.Inlet,
		Outlet:       raw.Outlet,
		Target:       raw.Target,
		PressureLoss: raw.PressureLoss,
		Conditions:   cond,
		Results:      emptyResults(k),
		InletLocked:  raw.InletLocked,
		Color:        raw.Color,
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Name == "" {
		u.Name = k.DefaultName()
	}
	if u.Color == "" {
		u.Color = k.Color()
	}
	return nil
}
