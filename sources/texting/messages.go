package texting

import (
	"fmt"

	"blackcenter/sources/texting/format"

	"github.com/shopspring/decimal"
)

const (
	MsgWelcome = "Welcome to the $BLACK Upgrade Center\n\nGet a permanent boost using\nTelegram stars ⭐️ and mine more $BLACK.\n\nChoose an upgrade"

	MsgChooseUpgrade = "Choose an upgrade:"

	MsgInvalidOption = "Invalid option"

	MsgInvoiceFailed = "Failed to create invoice."

	MsgPurchasesDisabled = "Purchases are temporarily paused. Please try again later."

	MsgSalesNoAccess = "This command is for operators only."

	MsgPurchaseAlreadyApplied = "✅ This payment was already applied."
)

func PurchaseSuccess(increment, newPower decimal.Decimal) string {
	return fmt.Sprintf(
		"✅ Upgrade applied!\n\nMining power increased by +%s×.\nYour mining power is now %s×.",
		Decimalify(increment), Decimalify(newPower),
	)
}

func PurchaseDuplicate(newPower decimal.Decimal) string {
	return fmt.Sprintf(
		"✅ This payment was already applied.\nYour mining power is %s×.",
		Decimalify(newPower),
	)
}

// PurchaseApology is sent for every post-capture failure. It is deliberately
// identical regardless of the internal failure kind: the purchaser only gets a
// stable support reference, never internal detail.
func PurchaseApology(supportRef string) string {
	return fmt.Sprintf(
		"❌ Something went wrong while applying your upgrade.\nYour payment was received. Please contact support with reference %s.",
		supportRef,
	)
}

func OperatorPurchaseAlert(username string, userID int64, offerName string, priceStars int, increment, newPurchased decimal.Decimal, shortCharge string) string {
	return fmt.Sprintf(
		"*New Purchase*\nUser: %s (`%d`)\nPack: *%s*\nPrice: %s\nValue: +%s× mining power\nTotal Purchased: %s×\nCharge ID: `%s`",
		username, userID, offerName, format.Starify(priceStars), Decimalify(increment), Decimalify(newPurchased), shortCharge,
	)
}

func OperatorFailureAlert(userID int64, offerID string, detail string, shortCharge string) string {
	return fmt.Sprintf(
		"❌ *PURCHASE PROCESSING FAILED*\nUser: `%d`\nItem: %s\nError: %s\nCharge ID: `%s`",
		userID, offerID, detail, shortCharge,
	)
}
