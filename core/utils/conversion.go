package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// StripNumeric removes every rune that is not a digit, '.' or '-'.
// "1,234 pcs" becomes "1234" and "(-5)" becomes "-5".
func StripNumeric(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseInt coerces loosely formatted text into an integer.
// The input is stripped with StripNumeric and parsed as a float, then
// truncated toward zero. Anything unparsable yields 0; it never panics.
func ParseInt(s string) int {
	cleaned := StripNumeric(s)
	if cleaned == "" {
		return 0
	}
	if i, err := strconv.Atoi(cleaned); err == nil {
		return i
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0
	}
	return int(f)
}

// ToInt converts various types to int using explicit type switching.
// Strings go through ParseInt; unknown types yield 0.
func ToInt(val any) int {
	switch v := val.(type) {
	case nil:
		return 0
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	case int16:
		return int(v)
	case int8:
		return int(v)
	case uint:
		return int(v)
	case uint64:
		return int(v)
	case uint32:
		return int(v)
	case uint16:
		return int(v)
	case uint8:
		return int(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return int(v)
	case float32:
		return ToInt(float64(v))
	case string:
		return ParseInt(v)
	case []byte:
		return ParseInt(string(v))
	default:
		return ParseInt(fmt.Sprintf("%v", v))
	}
}

// ToBool converts loosely formatted text to a boolean.
// "1", "true", "yes", "y" and "x" (any case) are true.
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case int, int64, int32, int16, int8, uint, uint64, uint32, uint16, uint8:
		return ToInt(v) == 1
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "x":
			return true
		}
		return false
	case []byte:
		return ToBool(string(v))
	default:
		return false
	}
}
