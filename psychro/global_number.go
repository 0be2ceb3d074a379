package psychro

// 標準大気圧, Pa
const StandardPressure = 101325.0

// 乾き空気の定圧比熱, kJ/(kg K)
const c_a = 1.006

// 水蒸気の定圧比熱, kJ/(kg K)
const c_v = 1.86

// 0℃における水の蒸発潜熱, kJ/kg
const l_wtr = 2501.0

// 乾き空気の気体定数, J/(kg K)
const r_da = 287.055

// 水蒸気と乾き空気の分子量比 (g/kg 単位)
const m_ratio = 622.0

// 摂氏と絶対温度の差, K
const t_abs = 273.15
