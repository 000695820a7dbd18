package formatting

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FormatAmount форматирует сумму; копейки показываются только если они есть
func FormatAmount(amount decimal.Decimal, currency string) string {
	if amount.Equal(amount.Truncate(0)) {
		return fmt.Sprintf("%s %s", amount.StringFixed(0), currency)
	}
	return fmt.Sprintf("%s %s", amount.StringFixed(2), currency)
}
