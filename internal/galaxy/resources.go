package galaxy

// resourceNames maps the save's compact resource codes to catalog names.
// The table covers every code the current game build emits; unknown codes
// pass through unchanged so new resources survive extraction.
var resourceNames = map[string]string{
	"C":  "Carbon",
	"O2": "Oxygen",
	"H":  "Hydrogen",
	"NA": "Sodium",
	"FE": "Ferrite",
	"MG": "Magnetised Ferrite",
	"CO": "Cobalt",
	"CU": "Copper",
	"AG": "Silver",
	"AU": "Gold",
	"PT": "Platinum",
	"TI": "Titanium",
	"U":  "Uranium",
	"EM": "Emeril",
	"IN": "Indium",
	"CD": "Cadmium",
	"AL": "Aluminite",
	"PA": "Paraffinium",
	"PY": "Pyrite",
	"AM": "Ammonia",
	"DI": "Dioxite",
	"PH": "Phosphorus",
	"SA": "Rock Salt",
	"CL": "Chlorine",
}

// Resource returns the catalog name for a save resource code.
// Unknown codes are returned as-is.
func Resource(code string) string {
	if name, ok := resourceNames[code]; ok {
		return name
	}
	return code
}

// Resources maps a slice of resource codes, preserving order.
func Resources(codes []string) []string {
	if len(codes) == 0 {
		return nil
	}
	names := make([]string, len(codes))
	for i, code := range codes {
		names[i] = Resource(code)
	}
	return names
}
