package teskerti

import (
	"regexp"
	"strings"

	"github.com/FDT12/TN-by-Night-B/models"
)

// cities are the city names the address tier matches against. The order is
// deterministic so repeated runs resolve the same page to the same city.
var cities = []string{
	"Tunis", "Ariana", "Ben Arous", "Manouba", "Nabeul", "Zaghouan",
	"Bizerte", "Béja", "Jendouba", "Kef", "Siliana", "Sousse",
	"Monastir", "Mahdia", "Sfax", "Kairouan", "Kasserine", "Sidi Bouzid",
	"Gabès", "Medenine", "Tataouine", "Gafsa", "Tozeur", "Kebili",
}

// cityRule pairs a lower-case match key with the canonical city it stands
// for. Rules are kept in slices, not maps, so tier scans always run in the
// same order and a text matching several rules resolves the same way on
// every run.
type cityRule struct {
	key  string
	city string
}

// cityAliases maps informal spellings seen in event titles to canonical
// city names. Checked in order before any page navigation, first match wins.
var cityAliases = []cityRule{
	{"monastir", "Monastir"},
	{"mehdia", "Mahdia"},
	{"mahdia", "Mahdia"},
	{"sfax", "Sfax"},
	{"sousse", "Sousse"},
	{"kairouan", "Kairouan"},
}

// venueCityMap maps well-known venue names to their city. Keys are
// lower-case and matched by substring containment, in order, first match
// wins.
var venueCityMap = []cityRule{
	{"théâtre municipal", "Tunis"},
	{"theatre municipal", "Tunis"},
	{"colisée", "Tunis"},
	{"4ème art", "Tunis"},
	{"africa art center", "Tunis"},
	{"complexe culturel sfax", "Sfax"},
	{"maison de la culture mahdia", "Mahdia"},
	{"maison de la culture monastir", "Monastir"},
}

// addressSelectors target address/location-tagged blocks only, so a city
// mentioned elsewhere on the page cannot produce a false positive.
var addressSelectors = []string{
	`div[class*="address"]`,
	`div[class*="location"]`,
	`span[class*="address"]`,
	`p[class*="address"]`,
}

// venueSelector covers venue-tagged elements, the listing's short-info
// marker and generic paragraphs for the last-resort venue tier.
const venueSelector = `div[class*="venue"], div.short_info, p`

var (
	aliasPatterns = compileWordPatterns(ruleKeys(cityAliases))
	cityPatterns  = compileWordPatterns(cities)
)

func ruleKeys(rules []cityRule) []string {
	keys := make([]string, 0, len(rules))
	for _, r := range rules {
		keys = append(keys, r.key)
	}
	return keys
}

func compileWordPatterns(words []string) map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(words))
	for _, w := range words {
		patterns[w] = regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(w)) + `\b`)
	}
	return patterns
}

// EventPage is the minimal page capability the resolver needs. The chromedp
// implementation lives in page.go; tests substitute fixture text.
type EventPage interface {
	Navigate(url string) error
	BlocksText(selector string) ([]string, error)
}

// ResolveCity determines the most likely city for an event, in order of
// reliability: the event title, address blocks on the event page, then a
// venue-name lookup. It returns "Unknown" when nothing matches and "Error"
// when the page cannot be reached or read; it never returns an error so a
// single unreachable page cannot abort the run.
func ResolveCity(page EventPage, eventURL, title string) string {
	if title != "" {
		lowered := strings.ToLower(title)
		for _, rule := range cityAliases {
			if aliasPatterns[rule.key].MatchString(lowered) {
				return rule.city
			}
		}
	}

	if err := page.Navigate(eventURL); err != nil {
		return models.CityError
	}

	for _, selector := range addressSelectors {
		blocks, err := page.BlocksText(selector)
		if err != nil {
			return models.CityError
		}
		for _, text := range blocks {
			lowered := strings.ToLower(text)
			for _, city := range cities {
				if cityPatterns[city].MatchString(lowered) {
					return city
				}
			}
		}
	}

	blocks, err := page.BlocksText(venueSelector)
	if err != nil {
		return models.CityError
	}
	for _, text := range blocks {
		lowered := strings.ToLower(text)
		for _, rule := range venueCityMap {
			if strings.Contains(lowered, rule.key) {
				return rule.city
			}
		}
	}

	return models.CityUnknown
}
