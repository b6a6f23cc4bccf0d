// Package pricefrac 处理美债报价的分数记法，例如 "99-16+" 表示 99 + 16/32 + 4/256。
package pricefrac

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMalformed 表示报价字符串不符合 "<整数>-<两位32分位><一位8分位或+>" 格式。
var ErrMalformed = errors.New("malformed fractional price")

var (
	thirtySeconds = decimal.NewFromInt(32)
	tickDivisor   = decimal.NewFromInt(256)
)

// Parse 将分数记法解析为精确的十进制数。
func Parse(s string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(s)
	handle, frac, ok := strings.Cut(raw, "-")
	if !ok || handle == "" || len(frac) != 3 {
		return decimal.Zero, fmt.Errorf("pricefrac: %q: %w", s, ErrMalformed)
	}

	h, err := strconv.ParseInt(handle, 10, 64)
	if err != nil || h < 0 {
		return decimal.Zero, fmt.Errorf("pricefrac: %q 整数部分非法: %w", s, ErrMalformed)
	}

	n32, err := strconv.Atoi(frac[:2])
	if err != nil || n32 < 0 || n32 > 31 {
		return decimal.Zero, fmt.Errorf("pricefrac: %q 32分位非法: %w", s, ErrMalformed)
	}

	var eighths int64
	switch c := frac[2]; {
	case c == '+':
		eighths = 4
	case c >= '0' && c <= '7':
		eighths = int64(c - '0')
	default:
		return decimal.Zero, fmt.Errorf("pricefrac: %q 8分位非法: %w", s, ErrMalformed)
	}

	return decimal.NewFromInt(h).
		Add(decimal.NewFromInt(int64(n32)).Div(thirtySeconds)).
		Add(decimal.NewFromInt(eighths).Div(tickDivisor)), nil
}

// Decode 将分数记法解析为 float64。
func Decode(s string) (float64, error) {
	d, err := Parse(s)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

// Encode 将价格格式化为分数记法，按 1/256 取整，4/256 输出为 "+"。
func Encode(v float64) string {
	ticks := decimal.NewFromFloat(v).Mul(tickDivisor).Round(0).IntPart()

	sign := ""
	if ticks < 0 {
		sign = "-"
		ticks = -ticks
	}

	handle := ticks / 256
	rem := ticks % 256
	n32 := rem / 8
	eighths := rem % 8

	last := strconv.FormatInt(eighths, 10)
	if eighths == 4 {
		last = "+"
	}
	return fmt.Sprintf("%s%d-%02d%s", sign, handle, n32, last)
}
