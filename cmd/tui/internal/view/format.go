package view

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders a ledger amount with thousands separators.
func FormatAmount(amount uint64) string {
	return amountPrinter.Sprintf("%d", amount)
}

// FormatDate formats a time.Time into YYYY-MM-DD HH:MM.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}

// ShortAddr compresses a wallet address for table display.
func ShortAddr(addr string) string {
	if len(addr) <= 12 {
		return addr
	}

	return addr[:8] + ".." + addr[len(addr)-4:]
}
