package audio

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var minSecPattern = regexp.MustCompile(`^(\d+):(\d{1,2})$`)

// FormatTime renders seconds as M:SS. Non-finite values render as 0:00.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "0:00"
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// ParseTime reads "M:SS" (or "MM:SS") or a plain number of seconds.
func ParseTime(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if m := minSecPattern.FindStringSubmatch(s); m != nil {
		mins, _ := strconv.Atoi(m[1])
		secs, _ := strconv.Atoi(m[2])
		return float64(mins*60 + secs), true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}
