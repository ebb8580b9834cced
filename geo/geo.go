// Package geo holds the fixed Tunisian governorate taxonomy. The data is
// loaded once at init and never mutated.
package geo

// Governorates is the canonical ordered set of the 24 Tunisian governorates.
// The order is significant: it defines iteration and display order everywhere
// downstream (heatmap buckets, summaries, API array payloads).
var Governorates = []string{
	"Ariana", "Béja", "Ben Arous", "Bizerte", "Gabès", "Gafsa",
	"Jendouba", "Kairouan", "Kasserine", "Kebili", "Kef", "Mahdia",
	"Manouba", "Medenine", "Monastir", "Nabeul", "Sfax", "Sidi Bouzid",
	"Siliana", "Sousse", "Tataouine", "Tozeur", "Tunis", "Zaghouan",
}

// CityToGovernorate maps known city names to their containing governorate.
// Lookup is exact and case-sensitive; unmapped cities pass through unchanged.
var CityToGovernorate = map[string]string{
	"Tunis":       "Tunis",
	"Ariana":      "Ariana",
	"Ben Arous":   "Ben Arous",
	"Manouba":     "Manouba",
	"Nabeul":      "Nabeul",
	"Zaghouan":    "Zaghouan",
	"Bizerte":     "Bizerte",
	"Béja":        "Béja",
	"Jendouba":    "Jendouba",
	"Kef":         "Kef",
	"Siliana":     "Siliana",
	"Sousse":      "Sousse",
	"Monastir":    "Monastir",
	"Mahdia":      "Mahdia",
	"Sfax":        "Sfax",
	"Kairouan":    "Kairouan",
	"Kasserine":   "Kasserine",
	"Sidi Bouzid": "Sidi Bouzid",
	"Gabès":       "Gabès",
	"Medenine":    "Medenine",
	"Tataouine":   "Tataouine",
	"Gafsa":       "Gafsa",
	"Tozeur":      "Tozeur",
	"Kebili":      "Kebili",
}

var governorateSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Governorates))
	for _, g := range Governorates {
		set[g] = struct{}{}
	}
	return set
}()

// IsGovernorate reports whether name is one of the 24 canonical governorates.
func IsGovernorate(name string) bool {
	_, ok := governorateSet[name]
	return ok
}
