package teskerti

import (
	"errors"
	"testing"

	"github.com/FDT12/TN-by-Night-B/models"
)

// fakePage serves fixture text per selector so the resolution tiers can be
// exercised without a browser.
type fakePage struct {
	navErr    error
	blocksErr error
	blocks    map[string][]string
	navigated []string
}

func (p *fakePage) Navigate(url string) error {
	p.navigated = append(p.navigated, url)
	return p.navErr
}

func (p *fakePage) BlocksText(selector string) ([]string, error) {
	if p.blocksErr != nil {
		return nil, p.blocksErr
	}
	return p.blocks[selector], nil
}

func TestResolveCityTitleAliasWins(t *testing.T) {
	// A matching title must win even when the address block disagrees,
	// and must short-circuit before any navigation.
	page := &fakePage{
		blocks: map[string][]string{
			`div[class*="address"]`: {"Avenue Habib Bourguiba, Sfax"},
		},
	}

	got := ResolveCity(page, "https://teskerti.tn/event/1", "Soirée à Monastir")
	if got != "Monastir" {
		t.Errorf("ResolveCity = %q, want %q", got, "Monastir")
	}
	if len(page.navigated) != 0 {
		t.Errorf("title match should not navigate, got %d navigations", len(page.navigated))
	}
}

func TestResolveCityAliasSpelling(t *testing.T) {
	page := &fakePage{}
	got := ResolveCity(page, "https://teskerti.tn/event/2", "Festival Mehdia 2025")
	if got != "Mahdia" {
		t.Errorf("ResolveCity = %q, want %q", got, "Mahdia")
	}
}

func TestResolveCityTitleWithSeveralAliasesIsStable(t *testing.T) {
	// When a title names more than one city the alias table's order decides,
	// so repeated runs always pick the same one.
	page := &fakePage{}
	for i := 0; i < 50; i++ {
		got := ResolveCity(page, "https://teskerti.tn/event/1", "Tournée de Sousse à Sfax")
		if got != "Sfax" {
			t.Fatalf("run %d: ResolveCity = %q, want %q", i, got, "Sfax")
		}
	}
}

func TestResolveCityVenueWithSeveralMatchesIsStable(t *testing.T) {
	page := &fakePage{
		blocks: map[string][]string{
			venueSelector: {"Colisée et Complexe Culturel Sfax"},
		},
	}
	for i := 0; i < 50; i++ {
		got := ResolveCity(page, "https://teskerti.tn/event/1", "Concert")
		if got != "Tunis" {
			t.Fatalf("run %d: ResolveCity = %q, want %q", i, got, "Tunis")
		}
	}
}

func TestResolveCityAddressBlock(t *testing.T) {
	page := &fakePage{
		blocks: map[string][]string{
			`div[class*="location"]`: {"Rue de la plage, Sfax, Tunisie"},
		},
	}

	got := ResolveCity(page, "https://teskerti.tn/event/3", "Concert de jazz")
	if got != "Sfax" {
		t.Errorf("ResolveCity = %q, want %q", got, "Sfax")
	}
	if len(page.navigated) != 1 {
		t.Errorf("address tier requires one navigation, got %d", len(page.navigated))
	}
}

func TestResolveCityAddressIsWordBounded(t *testing.T) {
	// "sfaxien" must not match "Sfax".
	page := &fakePage{
		blocks: map[string][]string{
			`div[class*="address"]`: {"le quartier sfaxien"},
		},
	}

	got := ResolveCity(page, "https://teskerti.tn/event/4", "Concert")
	if got != models.CityUnknown {
		t.Errorf("ResolveCity = %q, want %q", got, models.CityUnknown)
	}
}

func TestResolveCityVenueTier(t *testing.T) {
	page := &fakePage{
		blocks: map[string][]string{
			venueSelector: {"Rendez-vous au Théâtre Municipal pour une soirée inoubliable"},
		},
	}

	got := ResolveCity(page, "https://teskerti.tn/event/5", "Pièce de théâtre")
	if got != "Tunis" {
		t.Errorf("ResolveCity = %q, want %q", got, "Tunis")
	}
}

func TestResolveCityUnknown(t *testing.T) {
	page := &fakePage{}
	got := ResolveCity(page, "https://teskerti.tn/event/6", "Soirée mystère")
	if got != models.CityUnknown {
		t.Errorf("ResolveCity = %q, want %q", got, models.CityUnknown)
	}
}

func TestResolveCityNavigationFailure(t *testing.T) {
	page := &fakePage{navErr: errors.New("net::ERR_TIMED_OUT")}
	got := ResolveCity(page, "https://teskerti.tn/event/7", "Concert")
	if got != models.CityError {
		t.Errorf("ResolveCity = %q, want %q", got, models.CityError)
	}
}

func TestResolveCityExtractionFailure(t *testing.T) {
	page := &fakePage{blocksErr: errors.New("target closed")}
	got := ResolveCity(page, "https://teskerti.tn/event/8", "Concert")
	if got != models.CityError {
		t.Errorf("ResolveCity = %q, want %q", got, models.CityError)
	}
}
