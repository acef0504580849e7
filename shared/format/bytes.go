package format

import (
	"strconv"
	"strings"
)

var byteUnits = []string{"B", "KiB", "MiB", "GiB", "TiB"}

// Bytes renders a size with binary units, one decimal and no trailing ".0".
func Bytes(n int) string {
	if n < 1024 {
		return strconv.Itoa(n) + " B"
	}

	size := float64(n)
	unit := 0
	for size >= 1024 && unit < len(byteUnits)-1 {
		size /= 1024
		unit++
	}

	s := strconv.FormatFloat(size, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0") + " " + byteUnits[unit]
}
