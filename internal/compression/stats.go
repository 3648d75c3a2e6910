package compression

import (
	"fmt"
	"strings"
)

const (
	kilobyte = 1024
	megabyte = 1024 * kilobyte
	gigabyte = 1024 * megabyte
)

// FormatMemoryUnit renders a byte count with the largest unit that keeps the
// value at or above one ("999 B", "1.5 KB"). At most two decimal places;
// trailing zeros are trimmed. abbreviated selects "KB" over "Kilobytes".
func FormatMemoryUnit(sizeBytes int, abbreviated bool) string {
	var (
		value        float64
		abbrev, name string
	)
	switch {
	case sizeBytes < kilobyte:
		value, abbrev, name = float64(sizeBytes), "B", "Bytes"
	case sizeBytes < megabyte:
		value, abbrev, name = float64(sizeBytes)/kilobyte, "KB", "Kilobytes"
	case sizeBytes < gigabyte:
		value, abbrev, name = float64(sizeBytes)/megabyte, "MB", "Megabytes"
	default:
		value, abbrev, name = float64(sizeBytes)/gigabyte, "GB", "Gigabytes"
	}

	num := strings.TrimRight(fmt.Sprintf("%.2f", value), "0")
	num = strings.TrimSuffix(num, ".")
	if abbreviated {
		return num + " " + abbrev
	}
	return num + " " + name
}

// MemorySaved formats how much smaller the compressed buffer is than the
// uncompressed one. Never negative: an expansion reports "0 B".
func MemorySaved(compressed, uncompressed []byte) string {
	saved := len(uncompressed) - len(compressed)
	if saved < 0 {
		saved = 0
	}
	return FormatMemoryUnit(saved, true)
}

// CompressionRatio returns the plain uncompressed/compressed size quotient.
// The caller guards the empty-compressed degenerate case.
func CompressionRatio(compressed, uncompressed []byte) float64 {
	return float64(len(uncompressed)) / float64(len(compressed))
}
