package classify

import "fmt"

func formatZ(name, op string, v float64) string {
	return fmt.Sprintf("%s z %s %g", name, op, v)
}

func formatZRange(name string, lo, hi float64) string {
	return fmt.Sprintf("%g <= %s z < %g", lo, name, hi)
}

func formatCM(name, op string, v float64) string {
	return fmt.Sprintf("%s %s %.1f cm", name, op, v)
}

func formatCMRange(name string, lo, hi float64) string {
	return fmt.Sprintf("%.1f <= %s < %.1f cm", lo, name, hi)
}
