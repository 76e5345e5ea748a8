package analysis

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf16"

	"dam-price-predictor/internal/model"
)

// ErrEmptyHistory is returned when a dataset has no observations.
var ErrEmptyHistory = model.ErrEmptyHistory

// Descriptor is the short string that identifies a dataset for seeding:
// count|first date|last date|first price|median price|last price.
func Descriptor(history []model.Observation) (string, error) {
	n := len(history)
	if n == 0 {
		return "", ErrEmptyHistory
	}
	first, mid, last := history[0], history[n/2], history[n-1]
	parts := []string{
		strconv.Itoa(n),
		first.Date,
		last.Date,
		toFixed(first.MCPKWh, 3),
		toFixed(mid.MCPKWh, 3),
		toFixed(last.MCPKWh, 3),
	}
	return strings.Join(parts, "|"), nil
}

// Fingerprint hashes the dataset descriptor into a non-negative seed.
// Datasets with identical descriptors share a seed.
func Fingerprint(history []model.Observation) (int64, error) {
	desc, err := Descriptor(history)
	if err != nil {
		return 0, err
	}
	return HashString(desc), nil
}

// HashString is the 31-multiplier rolling hash over UTF-16 code units,
// truncated to int32 at every step. The absolute value is returned widened
// so that math.MinInt32 maps to 2^31.
func HashString(s string) int64 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}

// CodeUnitSum adds up the UTF-16 code units of s.
func CodeUnitSum(s string) int64 {
	var sum int64
	for _, c := range utf16.Encode([]rune(s)) {
		sum += int64(c)
	}
	return sum
}

// toFixed formats x with the given number of decimals, rounding the exact
// binary value and sending exact halves away from zero. strconv alone rounds
// exact halves to even.
func toFixed(x float64, decimals int) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	if isExactHalf(x, decimals) {
		x = math.Nextafter(x, math.Copysign(math.Inf(1), x))
	}
	return strconv.FormatFloat(x, 'f', decimals, 64)
}

func isExactHalf(x float64, decimals int) bool {
	scaled := new(big.Float).SetPrec(256).SetFloat64(math.Abs(x))
	scaled.Mul(scaled, new(big.Float).SetPrec(256).SetFloat64(math.Pow10(decimals)))
	whole, _ := scaled.Int(nil)
	frac := new(big.Float).SetPrec(256).Sub(scaled, new(big.Float).SetPrec(256).SetInt(whole))
	return frac.Cmp(big.NewFloat(0.5)) == 0
}
