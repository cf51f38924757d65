package cli

import (
	"strconv"
	"strings"
)

// FormatRupees renders v with the rupee sign, two decimals and Indian digit
// grouping: the last three digits, then pairs (₹12,34,567.50).
func FormatRupees(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole, frac, _ := strings.Cut(strconv.FormatFloat(v, 'f', 2, 64), ".")
	return sign + "₹" + groupIndian(whole) + "." + frac
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var b strings.Builder
	if n := len(head) % 2; n == 1 {
		b.WriteString(head[:1])
		head = head[1:]
	} else {
		b.WriteString(head[:2])
		head = head[2:]
	}
	for len(head) > 0 {
		b.WriteByte(',')
		b.WriteString(head[:2])
		head = head[2:]
	}
	b.WriteByte(',')
	b.WriteString(tail)
	return b.String()
}
