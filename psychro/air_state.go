package psychro

import "math"

/*
湿り空気の状態

	温度と相対湿度、または温度と絶対湿度の2つを入力とし、
	残りの値は常に状態量の関数から再計算する。
	個々のフィールドを書き換えず、状態ごと作り直すこと。
	nil は未定義 (例えば収束計算前) を表す。
*/
type AirState struct {
	Temperature      *float64 `json:"temperature" yaml:"temperature"`             // 温度, degree C
	RelativeHumidity *float64 `json:"relative_humidity" yaml:"relative_humidity"` // 相対湿度, %
	AbsoluteHumidity *float64 `json:"absolute_humidity" yaml:"absolute_humidity"` // 絶対湿度, g/kg(DA)
	Enthalpy         *float64 `json:"enthalpy" yaml:"enthalpy"`                   // 比エンタルピー, kJ/kg(DA)
	Density          *float64 `json:"density" yaml:"density"`                     // 乾き空気の密度, kg(DA)/m3
}

// Float64 は v へのポインタを返す。
func Float64(v float64) *float64 {
	return &v
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return Float64(*v)
}

/*
温度と相対湿度から湿り空気の状態を作る。

	Args:
		theta: 温度, degree C
		rh: 相対湿度, %

	Returns:
		湿り空気の状態

	Notes:
		温度が未定義の場合、相対湿度以外は未定義とする。
*/
func (a Atmosphere) NewAirState(theta, rh *float64) AirState {
	if theta == nil || rh == nil {
		return AirState{Temperature: copyFloat(theta), RelativeHumidity: copyFloat(rh)}
	}
	t := *theta
	r := clampRH(*rh)
	x := a.AbsoluteHumidity(t, r)
	return AirState{
		Temperature:      Float64(t),
		RelativeHumidity: Float64(r),
		AbsoluteHumidity: Float64(x),
		Enthalpy:         Float64(Enthalpy(t, x)),
		Density:          Float64(a.DryAirDensity(t, r)),
	}
}

/*
温度と絶対湿度から湿り空気の状態を作る。

	Args:
		theta: 温度, degree C
		x: 絶対湿度, g/kg(DA)

	Returns:
		湿り空気の状態

	Notes:
		絶対湿度が飽和絶対湿度を超える場合、相対湿度は 100% に制限される。
*/
func (a Atmosphere) NewAirStateFromHumidity(theta, x *float64) AirState {
	if theta == nil || x == nil {
		return AirState{Temperature: copyFloat(theta), AbsoluteHumidity: copyFloat(x)}
	}
	t := *theta
	w := math.Max(*x, 0.0)
	r := a.RelativeHumidity(t, w)
	return AirState{
		Temperature:      Float64(t),
		RelativeHumidity: Float64(r),
		AbsoluteHumidity: Float64(w),
		Enthalpy:         Float64(Enthalpy(t, w)),
		Density:          Float64(a.DryAirDensity(t, r)),
	}
}

/*
入力値から湿り空気の状態を導出する。

	Args:
		theta: 温度, degree C
		rh: 相対湿度, %
		x: 絶対湿度, g/kg(DA) (nil でない場合は相対湿度より優先する)

	Returns:
		湿り空気の状態
*/
func (a Atmosphere) DeriveAirState(theta, rh, x *float64) AirState {
	if x != nil {
		return a.NewAirStateFromHumidity(theta, x)
	}
	return a.NewAirState(theta, rh)
}

// 標準大気圧での値
func DeriveAirState(theta, rh, x *float64) AirState {
	return Standard.DeriveAirState(theta, rh, x)
}

// Known は全ての状態量が定義されているか否かを返す。
func (s AirState) Known() bool {
	return s.Temperature != nil && s.RelativeHumidity != nil && s.AbsoluteHumidity != nil &&
		s.Enthalpy != nil && s.Density != nil
}

// DewPoint は露点温度, degree C を返す。
func (s AirState) DewPoint(a Atmosphere) *float64 {
	if s.AbsoluteHumidity == nil {
		return nil
	}
	td, ok := a.DewPoint(*s.AbsoluteHumidity)
	if !ok {
		return nil
	}
	return Float64(td)
}

// WetBulb は湿球温度, degree C を返す。
func (s AirState) WetBulb(a Atmosphere) *float64 {
	if !s.Known() {
		return nil
	}
	return Float64(a.WetBulb(*s.Temperature, *s.AbsoluteHumidity))
}

// SpecificVolume は比容積, m3/kg(DA) を返す。
func (s AirState) SpecificVolume() *float64 {
	if s.Density == nil || *s.Density <= 0.0 {
		return nil
	}
	return Float64(1.0 / *s.Density)
}

/*
2つの状態が許容差の範囲で等しいか否かを判定する。

	Notes:
		未定義同士は等しく、未定義と定義済みは等しくない。
*/
func (s AirState) Equal(o AirState, tol float64) bool {
	return equalFloat(s.Temperature, o.Temperature, tol) &&
		equalFloat(s.RelativeHumidity, o.RelativeHumidity, tol) &&
		equalFloat(s.AbsoluteHumidity, o.AbsoluteHumidity, tol) &&
		equalFloat(s.Enthalpy, o.Enthalpy, tol) &&
		equalFloat(s.Density, o.Density, tol)
}

func equalFloat(a, b *float64, tol float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return math.Abs(*a-*b) <= tol
}
