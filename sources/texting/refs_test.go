package texting

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestSupportRef(t *testing.T) {
	tests := []struct {
		name      string
		chargeRef string
		wantShort string
		wantRef   string
	}{
		{
			name:      "long provider reference",
			chargeRef: "stch_AbCdEfGhIjKlMnOp",
			wantShort: "stch_AbC",
			wantRef:   "PAY-stch_AbC",
		},
		{
			name:      "short reference kept whole",
			chargeRef: "CH-1",
			wantShort: "CH-1",
			wantRef:   "PAY-CH-1",
		},
		{
			name:      "exactly eight characters",
			chargeRef: "12345678",
			wantShort: "12345678",
			wantRef:   "PAY-12345678",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShortChargeRef(tt.chargeRef); got != tt.wantShort {
				t.Errorf("ShortChargeRef = %q, want %q", got, tt.wantShort)
			}
			if got := SupportRef(tt.chargeRef); got != tt.wantRef {
				t.Errorf("SupportRef = %q, want %q", got, tt.wantRef)
			}
			// A second derivation must be identical: operators locate
			// payments from the reference alone.
			if SupportRef(tt.chargeRef) != SupportRef(tt.chargeRef) {
				t.Errorf("SupportRef is not stable")
			}
		})
	}
}

func TestPurchaseApologyHidesFailureKind(t *testing.T) {
	ref := SupportRef("CH-42")
	msg := PurchaseApology(ref)

	if !strings.Contains(msg, ref) {
		t.Errorf("apology does not cite support reference %q", ref)
	}
	for _, leak := range []string{"store", "read", "write", "account not found", "error:"} {
		if strings.Contains(strings.ToLower(msg), leak) {
			t.Errorf("apology leaks internal detail %q", leak)
		}
	}
}

func TestPurchaseSuccessCitesNewPower(t *testing.T) {
	msg := PurchaseSuccess(decimal.RequireFromString("1.0"), decimal.RequireFromString("2.0"))

	if !strings.Contains(msg, "2×") {
		t.Errorf("success message does not cite new power: %q", msg)
	}
	if !strings.Contains(msg, "+1×") {
		t.Errorf("success message does not cite increment: %q", msg)
	}
}
