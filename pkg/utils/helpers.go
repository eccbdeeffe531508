package utils

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

func ReplaceQueryParams(namedQuery string, params map[string]interface{}) (string, []interface{}) {
	var (
		i    int = 1
		args []interface{}
	)

	for k, v := range params {
		if k != "" {
			namedQuery = strings.ReplaceAll(namedQuery, ":"+k, "$"+strconv.Itoa(i))

			args = append(args, v)
			i++
		}
	}

	return namedQuery, args
}

// SquashSQL collapses a multi-line query into one line for log output.
func SquashSQL(sql string) string {
	return strings.Join(strings.Fields(sql), " ")
}

func FCurrency(n float64) string {
	if n == 0 {
		return "0"
	}

	rounded := math.Round(n*100) / 100
	return humanize.CommafWithDigits(rounded, 2)
}
