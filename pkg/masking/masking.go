// Package masking redacts sensitive identifiers for normal read paths.
// The only way to obtain an unmasked value is the audited unmask action.
package masking

// Placeholder replaces identifiers too short to partially reveal.
const Placeholder = "XXXX-XXXX-XXXX"

// GovtID redacts a government/tax identifier, revealing only the last four
// characters. Empty input stays empty so "no identifier" is distinguishable.
func GovtID(id string) string {
	if id == "" {
		return ""
	}
	if len(id) <= 4 {
		return Placeholder
	}
	return "XXXX-XXXX-" + id[len(id)-4:]
}
