package timeline

import (
	"fmt"
	"time"
)

const (
	secondsPerDay  = 24 * 60 * 60
	secondsPerHour = 60 * 60
)

// FormatCountdown renders remaining seconds as "Xd Yh Zm".
func FormatCountdown(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	days := seconds / secondsPerDay
	hours := (seconds % secondsPerDay) / secondsPerHour
	minutes := (seconds % secondsPerHour) / 60
	return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
}

// WindowProgress is the elapsed share of the impact window, clamped to
// 0-100.
func WindowProgress(remainingSeconds int64, window time.Duration) float64 {
	total := window.Seconds()
	if total <= 0 {
		return 100
	}
	elapsed := total - float64(remainingSeconds)
	return max(0, min(100, elapsed/total*100))
}
