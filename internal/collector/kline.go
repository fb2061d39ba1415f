package collector

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"MarketBrief/internal/model"
)

const minKlineFields = 6

// decodeKlines parses positional kline rows:
// [open_time, open, high, low, close, volume, close_time, ...].
// Numeric fields may be numbers or numeric strings; a field that does not
// parse to a finite value becomes zero. Rows shorter than six fields are skipped and counted.
func decodeKlines(body []byte) ([]model.Candle, int, error) {
	const op = "decode klines"
	if !gjson.ValidBytes(body) {
		return nil, 0, &DecodeError{Op: op, Err: errors.New("invalid json")}
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, 0, &DecodeError{Op: op, Err: fmt.Errorf("top level is %s, want array", root.Type)}
	}

	var (
		candles []model.Candle
		skipped int
		rowErr  error
		idx     int
	)
	root.ForEach(func(_, row gjson.Result) bool {
		defer func() { idx++ }()
		if !row.IsArray() {
			rowErr = fmt.Errorf("row %d is %s, want array", idx, row.Type)
			return false
		}
		fields := row.Array()
		if len(fields) < minKlineFields {
			skipped++
			return true
		}
		c := model.Candle{
			OpenTime: parseMillis(fields[0]),
			Open:     parseField(fields[1]),
			High:     parseField(fields[2]),
			Low:      parseField(fields[3]),
			Close:    parseField(fields[4]),
			Volume:   parseField(fields[5]),
		}
		if len(fields) > minKlineFields {
			c.CloseTime = parseMillis(fields[6])
		}
		candles = append(candles, c)
		return true
	})
	if rowErr != nil {
		return nil, 0, &DecodeError{Op: op, Err: rowErr}
	}
	return candles, skipped, nil
}

// parseField reads a JSON number or numeric string. Anything else is zero,
// including NaN and infinities.
func parseField(r gjson.Result) float64 {
	var v float64
	switch r.Type {
	case gjson.Number:
		v = r.Num
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return 0
		}
		v = f
	default:
		return 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func parseMillis(r gjson.Result) int64 {
	switch r.Type {
	case gjson.Number:
		return r.Int()
	case gjson.String:
		s := strings.TrimSpace(r.Str)
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return v
		}
		return int64(parseField(r))
	default:
		return 0
	}
}
