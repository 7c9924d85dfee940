package css

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidUnit is returned when a size value carries no recognised unit.
var ErrInvalidUnit = errors.New("invalid unit")

// REMSize is the fixed root font size in pixels.
const REMSize = 16.0

type Unit string

const (
	UnitPx      Unit = "px"
	UnitRem     Unit = "rem"
	UnitEm      Unit = "em"
	UnitVw      Unit = "vw"
	UnitVh      Unit = "vh"
	UnitVd      Unit = "vd"
	UnitPercent Unit = "%"
)

// Order matters: "rem" must be tried before "em".
var supportedUnits = []Unit{UnitPx, UnitRem, UnitEm, UnitVw, UnitVh, UnitVd, UnitPercent}

// Size is a parsed style length.
type Size struct {
	Quantum float64
	Unit    Unit
}

// ParseSize parses a style length. Bare numbers are pixels. ok is false
// for "initial".
func ParseSize(value string) (size Size, ok bool, err error) {
	value = strings.TrimSpace(value)
	if value == Initial {
		return Size{}, false, nil
	}
	if num, ok := parseQuantity(value); ok {
		return Size{Quantum: num, Unit: UnitPx}, true, nil
	}
	for _, u := range supportedUnits {
		if !strings.HasSuffix(value, string(u)) {
			continue
		}
		num, ok := parseQuantity(strings.TrimSpace(strings.TrimSuffix(value, string(u))))
		if !ok {
			break
		}
		return Size{Quantum: num, Unit: u}, true, nil
	}
	return Size{}, false, fmt.Errorf("%w: %q", ErrInvalidUnit, value)
}

// parseQuantity accepts finite numbers only; NaN and infinities are not
// lengths.
func parseQuantity(s string) (float64, bool) {
	num, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(num) || math.IsInf(num, 0) {
		return 0, false
	}
	return num, true
}

func (s Size) String() string {
	return strconv.FormatFloat(s.Quantum, 'f', -1, 64) + string(s.Unit)
}
