package fuzzy

import "math"

// MaxScore is the score of two identical strings.
const MaxScore = 100

// Ratio returns the similarity of a and b in [0, 100].
//
// The score is 100 * 2M / (len(a)+len(b)) rounded half to even, where M is
// the length of the longest common subsequence. Lengths count runes. This is
// the indel-distance ratio used by the common fuzzy-ratio implementations.
func Ratio(a, b string) int {
	if a == b {
		return MaxScore
	}
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	m := lcsLength(ra, rb)
	return int(math.RoundToEven(float64(MaxScore*2*m) / float64(total)))
}

// NormalizedRatio scores a and b after running both through Normalize.
func NormalizedRatio(a, b string) int {
	return Ratio(Normalize(a), Normalize(b))
}

// lcsLength computes the longest common subsequence length with two rows.
func lcsLength(a, b []rune) int {
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for j := 1; j <= len(b); j++ {
		for i := 1; i <= len(a); i++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[i] = prev[i-1] + 1
			case prev[i] >= curr[i-1]:
				curr[i] = prev[i]
			default:
				curr[i] = curr[i-1]
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(a)]
}
