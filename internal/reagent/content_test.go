package reagent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeExpiry(t *testing.T) {
	tests := []struct {
		name string
		date string
		mode ExpiryFormat
		want string
	}{
		{"day month year", "2024-06-07", ExpiryDDMMYYYY, "07062024"},
		{"zero padded", "2024-06-07", ExpiryZeroPadded, "0007062024"},
		{"unknown mode falls back", "2024-06-07", ExpiryFormat("YYYYMMDD"), "07062024"},
		{"two parts pass through", "2024-06", ExpiryDDMMYYYY, "2024-06"},
		{"four parts pass through", "2024-06-07-01", ExpiryDDMMYYYY, "2024-06-07-01"},
		{"no calendar validation", "2024-13-45", ExpiryDDMMYYYY, "45132024"},
		{"empty", "", ExpiryDDMMYYYY, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeExpiry(tt.date, tt.mode))
		})
	}
}

func TestBuildShort(t *testing.T) {
	r := &Reagent{ShortPrefix: "H"}
	assert.Equal(t, "A01137H81307UD00", BuildShort("01137", r, "81307", "UD00"))
}

func TestBuildLong(t *testing.T) {
	r := &Reagent{
		LongPrefix:   "G",
		ProjectBits:  "6201010300001",
		LongTrailing: "XYZ",
	}

	got := BuildLong("01137", r, "81307", "UD00", "07062024", "")
	assert.Equal(t, "A01137G81307UD0007062024"+"6201010300001"+"XYZ", got)

	got = BuildLong("01137", r, "81307", "UD00", "07062024", "9999999999999")
	assert.Equal(t, "A01137G81307UD0007062024"+"9999999999999"+"XYZ", got)
}

func TestBuildWithEmptySerial(t *testing.T) {
	r := &Reagent{ShortPrefix: "J"}
	assert.Equal(t, "AJ71084UN24", BuildShort("", r, "71084", "UN24"))
}

func TestProjectDefaults(t *testing.T) {
	myo, ok := DefaultCatalog().Find("myo")
	assert.True(t, ok)

	d := ProjectDefaults(myo, "2026-11-19")
	assert.Equal(t, "71084", d.ControlNo)
	assert.Equal(t, "4612010300002", d.ProjectBits)
	assert.Equal(t, []string{"03157", "02972", "03824"}, d.SerialNos)
	assert.Equal(t, "2026-11-19", d.Expiry)
}

func TestDefaultExpiry(t *testing.T) {
	now := time.Date(2026, time.October, 19, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "2026-11-19", DefaultExpiry(now))
}
