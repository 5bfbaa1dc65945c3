package bot

import (
	"testing"
)

func TestParseAmounts(t *testing.T) {
	tests := []struct {
		name    string
		fields  []string
		wantErr bool
		want    []string
	}{
		{"whole grams", []string{"30", "45", "12"}, false, []string{"30", "45", "12"}},
		{"fractional grams", []string{"12.5", "0", "3.2"}, false, []string{"12.5", "0", "3.2"}},
		{"negative rejected", []string{"30", "-5", "12"}, true, nil},
		{"non-numeric rejected", []string{"30", "lots", "12"}, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amounts, err := parseAmounts(tt.fields, "grams")
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAmounts failed: %v", err)
			}
			for i, want := range tt.want {
				if amounts[i].String() != want {
					t.Errorf("Amount %d: expected %s, got %s", i, want, amounts[i])
				}
			}
		})
	}
}

func TestParseDosage(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		want    string
	}{
		{"whole milligrams", "400", false, "400"},
		{"fractional milligrams", "0.5", false, "0.5"},
		{"zero rejected", "0", true, ""},
		{"negative rejected", "-10", true, ""},
		{"non-numeric rejected", "one", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dosage, err := parseDosage(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDosage failed: %v", err)
			}
			if dosage.String() != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, dosage)
			}
		})
	}
}
