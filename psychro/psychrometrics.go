package psychro

import (
	"math"
)

// 大気
type Atmosphere struct {
	Pressure float64 `json:"pressure" yaml:"pressure"` // 大気圧, Pa
}

// 標準大気圧の大気
var Standard = Atmosphere{Pressure: StandardPressure}

/*
標高から大気圧を求める。

	Args:
		altitude: 標高, m

	Returns:
		大気

	Notes:
		標準大気の気圧式 p = 101325 * (1 - 2.25577e-5 * z)^5.2559
*/
func AtmosphereAt(altitude float64) Atmosphere {
	if altitude == 0.0 {
		return Standard
	}
	return Atmosphere{Pressure: StandardPressure * math.Pow(1.0-2.25577e-5*altitude, 5.2559)}
}

// Altitude は大気圧に対応する標高, m を返す。
func (a Atmosphere) Altitude() float64 {
	if a.Pressure == StandardPressure {
		return 0.0
	}
	return (1.0 - math.Pow(a.Pressure/StandardPressure, 1.0/5.2559)) / 2.25577e-5
}

/*
飽和水蒸気圧を計算する。

	Args:
		theta: 空気温度, degree C

	Returns:
		飽和水蒸気圧, Pa

	Notes:
		Magnus 型の近似式。-20℃～60℃の範囲で使用する。
*/
func SaturationPressure(theta float64) float64 {
	return 610.78 * math.Exp(17.27*theta/(theta+237.3))
}

/*
温度と相対湿度から絶対湿度を計算する。

	Args:
		theta: 空気温度, degree C
		rh: 相対湿度, %

	Returns:
		絶対湿度, g/kg(DA)

	Notes:
		水蒸気圧が大気圧以上となる場合は 0 を返す。
*/
func (a Atmosphere) AbsoluteHumidity(theta, rh float64) float64 {
	p_v := clampRH(rh) / 100.0 * SaturationPressure(theta)
	if p_v >= a.Pressure {
		return 0.0
	}
	return m_ratio * p_v / (a.Pressure - p_v)
}

/*
温度と絶対湿度から相対湿度を計算する。

	Args:
		theta: 空気温度, degree C
		x: 絶対湿度, g/kg(DA)

	Returns:
		相対湿度, % (0～100 に制限する)
*/
func (a Atmosphere) RelativeHumidity(theta, x float64) float64 {
	p_v := a.VaporPressure(x)
	p_vs := SaturationPressure(theta)
	return clampRH(p_v / p_vs * 100.0)
}

/*
絶対湿度から水蒸気圧を求める。

	Args:
		x: 絶対湿度, g/kg(DA)

	Returns:
		水蒸気圧, Pa
*/
func (a Atmosphere) VaporPressure(x float64) float64 {
	x = math.Max(x, 0.0)
	return a.Pressure * x / (m_ratio + x)
}

/*
乾き空気の密度を計算する。

	Args:
		theta: 空気温度, degree C
		rh: 相対湿度, %

	Returns:
		乾き空気の密度, kg(DA)/m3

	Notes:
		乾き空気の分圧 (大気圧 - 水蒸気圧) に理想気体の状態方程式を適用する。
*/
func (a Atmosphere) DryAirDensity(theta, rh float64) float64 {
	p_v := math.Min(clampRH(rh)/100.0*SaturationPressure(theta), a.Pressure)
	return (a.Pressure - p_v) / (r_da * (theta + t_abs))
}

/*
絶対湿度から露点温度を求める。

	Args:
		x: 絶対湿度, g/kg(DA)

	Returns:
		(1) 露点温度, degree C
		(2) 露点温度が定義できるか否か (水蒸気を含まない場合は false)

	Notes:
		飽和水蒸気圧の式の逆関数
*/
func (a Atmosphere) DewPoint(x float64) (float64, bool) {
	p_v := a.VaporPressure(x)
	if p_v <= 0.0 {
		return 0.0, false
	}
	alpha := math.Log(p_v / 610.78)
	return 237.3 * alpha / (17.27 - alpha), true
}

/*
湿球温度 (断熱飽和温度) を求める。

	Args:
		theta: 空気温度, degree C
		x: 絶対湿度, g/kg(DA)

	Returns:
		湿球温度, degree C

	Notes:
		比エンタルピー一定の線上で相対湿度100%となる温度を二分法で求める。
*/
func (a Atmosphere) WetBulb(theta, x float64) float64 {
	h := Enthalpy(theta, x)

	f := func(t float64) float64 {
		return Enthalpy(t, a.AbsoluteHumidity(t, 100.0)) - h
	}

	lo := -50.0
	hi := theta
	if f(lo) >= 0.0 {
		return lo
	}
	if f(hi) <= 0.0 {
		return hi
	}

	const tol = 1e-6
	const maxIter = 100
	for i := 0; i < maxIter && hi-lo > tol; i++ {
		c := (lo + hi) / 2
		if f(c) < 0.0 {
			lo = c
		} else {
			hi = c
		}
	}

	return (lo + hi) / 2
}

/*
比エンタルピーを計算する。

	Args:
		theta: 空気温度, degree C
		x: 絶対湿度, g/kg(DA)

	Returns:
		比エンタルピー, kJ/kg(DA)
*/
func Enthalpy(theta, x float64) float64 {
	return c_a*theta + x/1000.0*(l_wtr+c_v*theta)
}

/*
温度と比エンタルピーから絶対湿度を計算する。

	Args:
		theta: 空気温度, degree C
		h: 比エンタルピー, kJ/kg(DA)

	Returns:
		絶対湿度, g/kg(DA) (負の値は 0 とする)

	Notes:
		Enthalpy の逆関数。断熱変化で出口温度を探索する際に使用する。
*/
func AbsoluteHumidityFromEnthalpy(theta, h float64) float64 {
	return math.Max(1000.0*(h-c_a*theta)/(l_wtr+c_v*theta), 0.0)
}

/*
湿り空気の定圧比熱を計算する。

	Args:
		x: 絶対湿度, g/kg(DA)

	Returns:
		湿り空気の定圧比熱, kJ/(kg(DA) K)
*/
func MoistSpecificHeat(x float64) float64 {
	return c_a + c_v*x/1000.0
}

// 水の蒸発潜熱, kJ/kg
func LatentHeat() float64 {
	return l_wtr
}

// 標準大気圧での値
func AbsoluteHumidity(theta, rh float64) float64 {
	return Standard.AbsoluteHumidity(theta, rh)
}

// 標準大気圧での値
func RelativeHumidity(theta, x float64) float64 {
	return Standard.RelativeHumidity(theta, x)
}

// 標準大気圧での値
func DryAirDensity(theta, rh float64) float64 {
	return Standard.DryAirDensity(theta, rh)
}

// 標準大気圧での値
func DewPoint(x float64) (float64, bool) {
	return Standard.DewPoint(x)
}

func clampRH(rh float64) float64 {
	return math.Min(math.Max(rh, 0.0), 100.0)
}
