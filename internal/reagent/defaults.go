package reagent

const (
	trailingCTNI = "H0000162001AAAGOAABTZAAINQABPTEBCAUMDXUWW00000AAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
	trailingCKMB = "H0000000000AAAAAAAAAAAAAAAAAAAAAAAAAAAAAA00000AAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
	trailingMyo  = "HJ000000000AAAAAAAAAAAAAAAAAAAAAAAAAAAAAA00000AAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
	trailingBNP  = "H0000000000AAAAAAAAAAAAAAAAAAAAAAAAAAAAAA00000AAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
)

// DefaultCatalog returns the projects shipped with the tool. Each call
// returns a fresh copy.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Projects: []Project{
			{
				// red long code + yellow short code, separate SNs
				Name:             "CTNI",
				ControlNoSuffix:  "UD00",
				ControlNoDefault: "81307",
				ExpiryFormat:     ExpiryDDMMYYYY,
				Reagents: []Reagent{
					longReagent("CTNI Red", "H", "6201010300001", trailingCTNI, "01137"),
					shortReagent("CTNI Yellow", "H", "6201010300001", "01137"),
				},
			},
			{
				Name:             "CK-MB",
				ControlNoSuffix:  "UN24",
				ControlNoDefault: "93880",
				ExpiryFormat:     ExpiryDDMMYYYY,
				Reagents: []Reagent{
					longReagent("CK-MB Red", "H", "4712010300001", trailingCKMB, "03157"),
					shortReagent("CK-MB Yellow", "H", "4712010300001", "06975"),
				},
			},
			{
				// red long code + yellow and green short codes
				Name:             "Myo",
				ControlNoSuffix:  "UN24",
				ControlNoDefault: "71084",
				ExpiryFormat:     ExpiryDDMMYYYY,
				Reagents: []Reagent{
					longReagent("Myo Red", "G", "4612010300002", trailingMyo, "03157"),
					shortReagent("Myo Yellow", "H", "4612010300002", "02972"),
					shortReagent("Myo Green", "J", "4612010300002", "03824"),
				},
			},
			{
				Name:             "BNP",
				ControlNoSuffix:  "UN24",
				ControlNoDefault: "71084",
				ExpiryFormat:     ExpiryDDMMYYYY,
				Reagents: []Reagent{
					longReagent("BNP Red", "G", "0000000000000", trailingBNP, "03157"),
					shortReagent("BNP Yellow", "H", "0000000000000", "02972"),
					shortReagent("BNP Green", "J", "0000000000000", "03824"),
				},
			},
		},
	}
}

func longReagent(name, shortPrefix, bits, trailing, sn string) Reagent {
	return Reagent{
		Name:          name,
		ShortPrefix:   shortPrefix,
		LongPrefix:    "G",
		GeneratesLong: true,
		ProjectBits:   bits,
		LongTrailing:  trailing,
		DefaultSN:     sn,
	}
}

func shortReagent(name, shortPrefix, bits, sn string) Reagent {
	return Reagent{
		Name:           name,
		ShortPrefix:    shortPrefix,
		LongPrefix:     "G",
		GeneratesShort: true,
		ProjectBits:    bits,
		DefaultSN:      sn,
	}
}
