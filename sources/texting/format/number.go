package format

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var en = message.NewPrinter(language.English)

func Starify(amount int) string {
	return en.Sprintf("%d ⭐️", amount)
}
