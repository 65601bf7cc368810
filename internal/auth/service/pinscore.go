package service

// PIN strength scoring, advisory only. The score feeds client-facing
// guidance and must never influence an authentication decision.

// Strength labels per score bucket.
const (
	StrengthStrong   = "Strong"
	StrengthModerate = "Moderate"
	StrengthWeak     = "Weak"
	StrengthNone     = "None"
)

// commonPINs is the small denylist of PINs that forfeit the final
// quarter of the score.
var commonPINs = map[string]struct{}{
	"0000": {},
	"1111": {},
	"1234": {},
	"4321": {},
}

// ScorePIN rates a PIN from 0 to 100 in four 25-point increments:
// non-empty, no run of 3+ identical digits, no 4-digit consecutive
// ascending/descending run, and not on the common-PIN denylist.
func ScorePIN(pin string) int {
	if pin == "" {
		return 0
	}

	score := 25

	if !hasRepeatRun(pin, 3) {
		score += 25
	}
	if !hasSequentialRun(pin, 4) {
		score += 25
	}
	if _, common := commonPINs[pin]; !common {
		score += 25
	}

	return score
}

// StrengthLabel maps a score to its display bucket.
func StrengthLabel(score int) string {
	switch {
	case score >= 75:
		return StrengthStrong
	case score >= 50:
		return StrengthModerate
	case score > 0:
		return StrengthWeak
	default:
		return StrengthNone
	}
}

// hasRepeatRun reports whether the PIN contains a run of n or more
// identical digits.
func hasRepeatRun(pin string, n int) bool {
	run := 1
	for i := 1; i < len(pin); i++ {
		if pin[i] == pin[i-1] {
			run++
			if run >= n {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}

// hasSequentialRun reports whether the PIN contains n consecutive digits
// ascending or descending by one (e.g. 1234 or 9876).
func hasSequentialRun(pin string, n int) bool {
	if len(pin) < n {
		return false
	}

	for start := 0; start+n <= len(pin); start++ {
		asc, desc := true, true
		for i := start + 1; i < start+n; i++ {
			if pin[i] != pin[i-1]+1 {
				asc = false
			}
			if pin[i] != pin[i-1]-1 {
				desc = false
			}
		}
		if asc || desc {
			return true
		}
	}
	return false
}
