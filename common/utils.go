/**
Qitmeer
james
*/

package common

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// FormatBytes prints the raw byte count followed by its binary-prefixed size.
func FormatBytes(n int64) string {
	if n < 0 {
		return fmt.Sprintf("%d bytes", n)
	}
	return fmt.Sprintf("%d bytes (%s)", n, humanize.IBytes(uint64(n)))
}

// NanosToMillis converts a profiling counter delta to milliseconds.
func NanosToMillis(ns int64) float64 {
	return float64(ns) / 1e6
}

// FormatWorkRate sets the units properly when displaying a float throughput.
func FormatWorkRate(elements int, ms float64) string {
	if ms <= 0 {
		return "0 elem/s"
	}
	h := float64(elements) / (ms / 1000)
	if h > 1000000000 {
		return fmt.Sprintf("%.3fG elem/s", h/1000000000)
	} else if h > 1000000 {
		return fmt.Sprintf("%.1fM elem/s", h/1000000)
	} else if h > 1000 {
		return fmt.Sprintf("%.1fk elem/s", h/1000)
	}
	return fmt.Sprintf("%.1f elem/s", h)
}
