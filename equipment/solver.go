package equipment

import "math"

// 収束計算の設定
type solver struct {
	maxIter   int     // 最大反復回数
	damping   float64 // 減衰係数 (残差 1 あたりの温度の修正量), K
	tolerance float64 // 収束判定の許容残差
}

/*
f(θ) = 0 となる θ を求める。

	Args:
		f: 残差関数 (θ に対して単調減少であること)
		guess: 初期値
		lo: 探索範囲の下限
		hi: 探索範囲の上限

	Returns:
		(1) 解 (収束しない場合は残差が最小となった値)
		(2) 収束したか否か

	Notes:
		最初の1回は減衰付き固定点反復 θ ← θ + damping * f(θ) で更新し、
		2回目以降は直前の点との割線で更新する。
		更新後の値が挟み込み区間の外に出る場合は二分法で更新する。
		初期値で既に収束している場合は初期値をそのまま返す。
		残差が有限でない場合はその時点で打ち切り、それまでの最良値を返す。
*/
func (s solver) solve(f func(float64) float64, guess, lo, hi float64) (float64, bool) {
	theta := math.Min(math.Max(guess, lo), hi)

	f_lo, f_hi := f(lo), f(hi)
	bracketed := f_lo > -s.tolerance && f_hi < s.tolerance

	best, r_best := theta, math.Inf(1)

	var prev, r_prev float64
	has_prev := false
	for i := 0; i < s.maxIter; i++ {
		r := f(theta)
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return best, false
		}
		if math.Abs(r) < r_best {
			best, r_best = theta, math.Abs(r)
		}
		if math.Abs(r) < s.tolerance {
			return theta, true
		}

		if bracketed {
			if r > 0.0 {
				lo = theta
			} else {
				hi = theta
			}
		}

		next := theta + s.damping*r
		if has_prev && r != r_prev {
			next = theta - r*(theta-prev)/(r-r_prev)
		}

		if bracketed {
			if !(next > lo && next < hi) {
				next = (lo + hi) / 2
			}
		} else {
			if math.IsNaN(next) {
				return best, false
			}
			next = math.Min(math.Max(next, lo), hi)
		}

		prev, r_prev, has_prev = theta, r, true
		theta = next
	}

	return best, false
}
