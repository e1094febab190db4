package core

import "fmt"

var byteUnits = []string{"B", "KB", "MB", "GB", "TB"}

// HumanBytes renders a byte count with a precision that narrows as the
// number grows, matching what the dashboard shows.
func HumanBytes(n int64) string {
	if n <= 0 {
		return "0 B"
	}
	x := float64(n)
	i := 0
	for x >= 1024 && i < len(byteUnits)-1 {
		x /= 1024
		i++
	}
	switch {
	case x >= 100:
		return fmt.Sprintf("%.0f %s", x, byteUnits[i])
	case x >= 10:
		return fmt.Sprintf("%.1f %s", x, byteUnits[i])
	default:
		return fmt.Sprintf("%.2f %s", x, byteUnits[i])
	}
}

// HumanRate renders bytes per second.
func HumanRate(bps int64) string {
	if bps <= 0 {
		return "0 B/s"
	}
	x := float64(bps)
	if x >= 1024*1024 {
		return formatRate(x/(1024*1024), "MB/s")
	}
	if x >= 1024 {
		return formatRate(x/1024, "KB/s")
	}
	return fmt.Sprintf("%.0f B/s", x)
}

func formatRate(x float64, unit string) string {
	switch {
	case x >= 100:
		return fmt.Sprintf("%.0f %s", x, unit)
	case x >= 10:
		return fmt.Sprintf("%.1f %s", x, unit)
	default:
		return fmt.Sprintf("%.2f %s", x, unit)
	}
}
