package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"air_process_calc/chain"
	"air_process_calc/equipment"
	"air_process_calc/logger"
	"air_process_calc/psychro"
	"air_process_calc/units"
)

var validate = validator.New()

// プロジェクトファイル
type Project struct {
	Name       string            `yaml:"name" json:"name" validate:"required,max=255"`
	UnitSystem units.System      `yaml:"unit_system,omitempty" json:"unit_system,omitempty" validate:"omitempty,oneof=SI IP"`
	Altitude   float64           `yaml:"altitude" json:"altitude" validate:"gte=-500,lte=8000"` // 標高, m
	Airflow    float64           `yaml:"airflow" json:"airflow" validate:"gte=0"`               // 風量, m3/h (IP の場合は CFM)
	References References        `yaml:"references" json:"references"`
	Equipment  []EquipmentConfig `yaml:"equipment" json:"equipment" validate:"dive"`
}

// 境界条件
type References struct {
	Inlet  StateConfig `yaml:"inlet" json:"inlet"`   // 外気
	Outlet StateConfig `yaml:"outlet" json:"outlet"` // 目標の給気
}

// 空気の状態の入力値
type StateConfig struct {
	Temperature      *float64 `yaml:"temperature,omitempty" json:"temperature,omitempty"`                                                  // 温度, degree C (IP の場合は degree F)
	RelativeHumidity *float64 `yaml:"relative_humidity,omitempty" json:"relative_humidity,omitempty" validate:"omitempty,gte=0,lte=100"` // 相対湿度, %
	AbsoluteHumidity *float64 `yaml:"absolute_humidity,omitempty" json:"absolute_humidity,omitempty" validate:"omitempty,gte=0"`         // 絶対湿度, g/kg(DA) (IP の場合は gr/lb)
}

// 出口の目標値
type OutletConfig struct {
	Temperature      *float64 `yaml:"temperature,omitempty" json:"temperature,omitempty"`
	RelativeHumidity *float64 `yaml:"relative_humidity,omitempty" json:"relative_humidity,omitempty" validate:"omitempty,gte=0,lte=100"`
}

/*
機器の設定

	Inlet を指定した場合、入口は固定される。
	Conditions は機器の種類ごとの機器条件で、省略した項目は既定値とする (常に SI 単位)。
*/
type EquipmentConfig struct {
	ID           string        `yaml:"id,omitempty" json:"id,omitempty" validate:"omitempty,max=100"`
	Kind         string        `yaml:"kind" json:"kind" validate:"required,oneof=filter burner cooling_coil heating_coil eliminator spray_washer steam_humidifier fan damper custom"`
	Name         string        `yaml:"name,omitempty" json:"name,omitempty" validate:"max=255"`
	PressureLoss float64       `yaml:"pressure_loss,omitempty" json:"pressure_loss,omitempty" validate:"gte=0"` // Pa (IP の場合は inH2O)
	Color        string        `yaml:"color,omitempty" json:"color,omitempty" validate:"omitempty,hexcolor"`
	Inlet        *StateConfig  `yaml:"inlet,omitempty" json:"inlet,omitempty"`
	Outlet       *OutletConfig `yaml:"outlet,omitempty" json:"outlet,omitempty"`
	Conditions   yaml.Node     `yaml:"conditions,omitempty" json:"-" validate:"-"`
}

/*
プロジェクトファイルを読み込む。

	Args:
		path: YAML ファイルのパス

	Returns:
		検証済みのプロジェクト
*/
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Decode は YAML からプロジェクトを復号し、検証する。
func Decode(data []byte) (*Project, error) {
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProject, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Project) system() units.System {
	if p.UnitSystem == "" {
		return units.SI
	}
	return p.UnitSystem
}

/*
プロジェクトを検証する。

	Returns:
		全ての項目のエラーを含む *ValidationError (エラーがない場合は nil)
*/
func (p *Project) Validate() error {
	verr := NewValidationError("project")

	if err := validate.Struct(p); err != nil {
		addFieldErrors(verr, "", err)
	}

	ids := make(map[string]int)
	for i, e := range p.Equipment {
		k, err := equipment.ParseKind(e.Kind)
		if err != nil {
			// 種類の誤りは validate.Struct で報告済み
			continue
		}
		if e.ID != "" {
			if j, ok := ids[e.ID]; ok {
				verr.AddError("equipment[%d].id: duplicated with equipment[%d]", i, j)
			}
			ids[e.ID] = i
		}

		if _, err := e.conditions(k); err != nil {
			addFieldErrors(verr, fmt.Sprintf("equipment[%d].conditions.", i), err)
		}

		if e.Outlet != nil {
			if e.Outlet.Temperature != nil && !k.TargetsTemperature() {
				verr.AddError("equipment[%d].outlet.temperature: not editable for %s", i, k)
			}
			if e.Outlet.RelativeHumidity != nil && !k.TargetsRelativeHumidity() {
				verr.AddError("equipment[%d].outlet.relative_humidity: not editable for %s", i, k)
			}
		}
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

func addFieldErrors(verr *ValidationError, prefix string, err error) {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		verr.AddError("%s%v", prefix, err)
		return
	}
	for _, fe := range ves {
		if fe.Param() != "" {
			verr.AddError("%s%s: failed on '%s=%s'", prefix, fe.Namespace(), fe.Tag(), fe.Param())
		} else {
			verr.AddError("%s%s: failed on '%s'", prefix, fe.Namespace(), fe.Tag())
		}
	}
}

// 機器条件を復号し、検証する。
func (e EquipmentConfig) conditions(k equipment.Kind) (equipment.Conditions, error) {
	var decode func(v any) error
	if e.Conditions.Kind != 0 {
		decode = e.Conditions.Decode
	}
	c, err := equipment.DecodeConditions(k, decode)
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(c); err != nil {
		return nil, err
	}
	return c, nil
}

/*
プロジェクトから系統を作り、計算する。

	Returns:
		計算済みの系統 (値は全て SI 単位)
*/
func (p *Project) Build() (chain.Chain, error) {
	if err := p.Validate(); err != nil {
		return chain.Chain{}, err
	}
	sys := p.system()
	atm := psychro.AtmosphereAt(p.Altitude)

	refs := chain.ReferenceStates{
		Inlet:  p.References.Inlet.airState(atm, sys),
		Outlet: p.References.Outlet.airState(atm, sys),
	}

	us := make([]equipment.Unit, 0, len(p.Equipment))
	for _, e := range p.Equipment {
		k, _ := equipment.ParseKind(e.Kind)
		cond, err := e.conditions(k)
		if err != nil {
			return chain.Chain{}, err
		}

		u := equipment.NewUnit(k)
		if e.ID != "" {
			u.ID = e.ID
		}
		if e.Name != "" {
			u.Name = e.Name
		}
		if e.Color != "" {
			u.Color = e.Color
		}
		u.Conditions = cond
		u.PressureLoss = units.ConvertValue(e.PressureLoss, units.Pressure, sys, units.SI)
		if e.Inlet != nil {
			u.Inlet = e.Inlet.airState(atm, sys)
			u.InletLocked = true
		}
		if e.Outlet != nil {
			u.SetTarget(equipment.Target{
				Temperature:      units.Convert(e.Outlet.Temperature, units.Temperature, sys, units.SI),
				RelativeHumidity: e.Outlet.RelativeHumidity,
			})
		}
		us = append(us, u)
	}

	airflow := units.ConvertValue(p.Airflow, units.Airflow, sys, units.SI)
	c := chain.New(us, refs, airflow, atm)
	logger.Info("built `%s`: %d units, airflow %.0f m3/h, %.0f Pa", p.Name, len(c.Units), airflow, atm.Pressure)
	return c, nil
}

func (s StateConfig) airState(atm psychro.Atmosphere, sys units.System) psychro.AirState {
	return atm.DeriveAirState(
		units.Convert(s.Temperature, units.Temperature, sys, units.SI),
		s.RelativeHumidity,
		units.Convert(s.AbsoluteHumidity, units.AbsoluteHumidity, sys, units.SI),
	)
}

func stateConfig(s psychro.AirState, sys units.System) StateConfig {
	return StateConfig{
		Temperature:      units.Convert(s.Temperature, units.Temperature, units.SI, sys),
		RelativeHumidity: s.RelativeHumidity,
	}
}

/*
系統からプロジェクトを作る。

	Args:
		name: プロジェクト名
		c: 系統
		sys: 出力する単位系

	Returns:
		プロジェクト

	Notes:
		入口を固定した機器のみ入口の状態を出力する。
		機器条件は単位系によらず SI 単位で出力する。
*/
func FromChain(name string, c chain.Chain, sys units.System) (*Project, error) {
	p := &Project{
		Name:       name,
		UnitSystem: sys,
		Altitude:   c.Atmosphere.Altitude(),
		Airflow:    units.ConvertValue(c.Airflow, units.Airflow, units.SI, sys),
		References: References{
			Inlet:  stateConfig(c.References.Inlet, sys),
			Outlet: stateConfig(c.References.Outlet, sys),
		},
	}

	for _, u := range c.Units {
		var node yaml.Node
		if err := node.Encode(u.Conditions); err != nil {
			return nil, fmt.Errorf("failed to encode conditions of `%s`: %w", u.Name, err)
		}
		e := EquipmentConfig{
			ID:           u.ID,
			Kind:         string(u.Kind),
			Name:         u.Name,
			PressureLoss: units.ConvertValue(u.PressureLoss, units.Pressure, units.SI, sys),
			Color:        u.Color,
			Conditions:   node,
		}
		if u.InletLocked {
			s := stateConfig(u.Inlet, sys)
			e.Inlet = &s
		}
		target := u.EffectiveTarget()
		switch {
		case u.Kind.TargetsTemperature():
			e.Outlet = &OutletConfig{Temperature: units.Convert(target.Temperature, units.Temperature, units.SI, sys)}
		case u.Kind.TargetsRelativeHumidity():
			e.Outlet = &OutletConfig{RelativeHumidity: target.RelativeHumidity}
		}
		p.Equipment = append(p.Equipment, e)
	}
	return p, nil
}

// Encode はプロジェクトを YAML に変換する。
func (p *Project) Encode() ([]byte, error) {
	return yaml.Marshal(p)
}

// Save はプロジェクトを YAML ファイルに保存する。
func (p *Project) Save(path string) error {
	data, err := p.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	logger.Info("Save project to `%s`", path)
	return nil
}
