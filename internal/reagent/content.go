package reagent

// BuildShort assembles the short payload:
// "A" + sn + short prefix + control number + control suffix.
func BuildShort(sn string, r *Reagent, controlNo, controlSuffix string) string {
	return "A" + sn + r.ShortPrefix + controlNo + controlSuffix
}

// BuildLong assembles the long payload:
// "A" + sn + long prefix + control number + control suffix + expiry + bits + trailing.
// bitsOverride replaces the reagent's project bits when non-empty.
func BuildLong(sn string, r *Reagent, controlNo, controlSuffix, expiryEncoded, bitsOverride string) string {
	bits := r.ProjectBits
	if bitsOverride != "" {
		bits = bitsOverride
	}
	return "A" + sn + r.LongPrefix + controlNo + controlSuffix + expiryEncoded + bits + r.LongTrailing
}

// Defaults are the values an operator starts from when picking a project.
type Defaults struct {
	ControlNo   string   `json:"control_no"`
	ProjectBits string   `json:"project_bits"`
	SerialNos   []string `json:"serial_numbers"`
	Expiry      string   `json:"expiry"`
}

// ProjectDefaults collects the pre-filled values for p. Project bits come
// from the first reagent that generates a long code.
func ProjectDefaults(p *Project, expiry string) Defaults {
	d := Defaults{
		ControlNo: p.ControlNoDefault,
		SerialNos: make([]string, len(p.Reagents)),
		Expiry:    expiry,
	}
	found := false
	for i, r := range p.Reagents {
		d.SerialNos[i] = r.DefaultSN
		if !found && r.GeneratesLong {
			d.ProjectBits = r.ProjectBits
			found = true
		}
	}
	return d
}
