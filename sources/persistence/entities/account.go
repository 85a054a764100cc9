package entities

import (
	"github.com/shopspring/decimal"
)

// The store declares mining_power and friends as float attributes and
// rejects quoted numbers in patches.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Account is a document in the remote Appwrite collection. The store owns it;
// we only ever read it and patch mining_power / purchased_upgrade.
type Account struct {
	DocumentID       string          `json:"$id"`
	TelegramID       string          `json:"telegram_id"`
	MiningPower      decimal.Decimal `json:"mining_power"`
	PurchasedUpgrade decimal.Decimal `json:"purchased_upgrade"`
	CodeBonus        decimal.Decimal `json:"code_bonus"`
	ReferralBonus    decimal.Decimal `json:"referral_bonus"`
}

// AccountPatch carries the fields written back during reconciliation.
type AccountPatch struct {
	MiningPower      decimal.Decimal `json:"mining_power"`
	PurchasedUpgrade decimal.Decimal `json:"purchased_upgrade"`
}
