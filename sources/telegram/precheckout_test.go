package telegram

import (
	"testing"

	"blackcenter/sources/catalog"
	"blackcenter/sources/configuration"
	"blackcenter/sources/tracing"
)

func TestPreCheckoutDecision(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantOK  bool
	}{
		{
			name:    "known offer approved",
			payload: "basic",
			wantOK:  true,
		},
		{
			name:    "most expensive offer approved",
			payload: "ultimate",
			wantOK:  true,
		},
		{
			name:    "unknown payload rejected",
			payload: "nonexistent",
			wantOK:  false,
		},
		{
			name:    "empty payload rejected",
			payload: "",
			wantOK:  false,
		},
	}

	cat := catalog.NewCatalog(tracing.NewConsoleLogger(), &configuration.Config{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := PreCheckoutDecision(cat, tt.payload)
			if ok != tt.wantOK {
				t.Errorf("decision = %v, want %v", ok, tt.wantOK)
			}
			if ok && reason != "" {
				t.Errorf("approved decision carries reason %q", reason)
			}
			if !ok && reason == "" {
				t.Errorf("rejected decision missing reason")
			}
		})
	}
}
