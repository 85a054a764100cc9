package texting

const (
	shortChargeLen   = 8
	supportRefPrefix = "PAY-"
)

// ShortChargeRef truncates a provider charge reference to the audit
// correlation form operators see in alerts. Stable for a given reference.
func ShortChargeRef(chargeRef string) string {
	if len(chargeRef) <= shortChargeLen {
		return chargeRef
	}
	return chargeRef[:shortChargeLen]
}

// SupportRef derives the purchaser-facing support reference from a charge
// reference. Operators can locate the underlying payment from it alone.
func SupportRef(chargeRef string) string {
	return supportRefPrefix + ShortChargeRef(chargeRef)
}
