package texting

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

func Numberify(value int64) string {
	return humanize.Comma(value)
}

func Decimalify(value decimal.Decimal) string {
	return humanize.CommafWithDigits(value.InexactFloat64(), 2)
}
