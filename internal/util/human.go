package util

import "fmt"

var byteUnits = []string{"KB", "MB", "GB"}

// Human formats a byte count with binary prefixes, e.g. "1.50 KB". Counts
// below 1 KB stay exact and anything beyond GB is still shown in GB.
func Human(n int64) string {
	if n < 1<<10 {
		return fmt.Sprintf("%d B", n)
	}

	v := float64(n) / (1 << 10)
	unit := 0
	for v >= 1<<10 && unit < len(byteUnits)-1 {
		v /= 1 << 10
		unit++
	}

	return fmt.Sprintf("%.2f %s", v, byteUnits[unit])
}
