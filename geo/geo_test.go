package geo

import "testing"

func TestTaxonomySize(t *testing.T) {
	if len(Governorates) != 24 {
		t.Errorf("Governorates: got %d entries, want 24", len(Governorates))
	}
}

func TestCityMappingTargetsAreGovernorates(t *testing.T) {
	for city, gov := range CityToGovernorate {
		if !IsGovernorate(gov) {
			t.Errorf("city %q maps to %q, which is not a governorate", city, gov)
		}
	}
}

func TestEveryGovernorateIsMappable(t *testing.T) {
	for _, gov := range Governorates {
		if got, ok := CityToGovernorate[gov]; !ok || got != gov {
			t.Errorf("governorate %q should map to itself, got %q (present=%v)", gov, got, ok)
		}
	}
}

func TestNoDuplicateGovernorates(t *testing.T) {
	seen := make(map[string]struct{})
	for _, gov := range Governorates {
		if _, dup := seen[gov]; dup {
			t.Errorf("duplicate governorate %q", gov)
		}
		seen[gov] = struct{}{}
	}
}
