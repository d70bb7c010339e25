package diagnosis

import "testing"

func TestAnalysisNormalizeFillsDefaults(t *testing.T) {
	var a Analysis
	a.Normalize()

	if a.OverallScore != DefaultOverallScore {
		t.Errorf("overall = %d, want %d", a.OverallScore, DefaultOverallScore)
	}
	if a.Hydration != DefaultHydration {
		t.Errorf("hydration = %d, want %d", a.Hydration, DefaultHydration)
	}
	if a.Purity != DefaultPurity {
		t.Errorf("purity = %d, want %d", a.Purity, DefaultPurity)
	}
	if a.SkinType != DefaultSkinType {
		t.Errorf("skin type = %q, want %q", a.SkinType, DefaultSkinType)
	}
	if a.MorningRoutine == nil || a.EveningRoutine == nil {
		t.Error("routines must not be nil after normalize")
	}
	if len(a.Tips) == 0 {
		t.Error("tips must not be empty after normalize")
	}
}

func TestAnalysisNormalizeKeepsValidValues(t *testing.T) {
	a := Analysis{
		OverallScore:   91,
		Hydration:      60,
		Purity:         55,
		SkinType:       "Trockene Haut",
		MorningRoutine: []RoutineStep{{Product: "Cleanser"}},
		Tips:           []string{"custom"},
	}
	a.Normalize()

	if a.OverallScore != 91 || a.Hydration != 60 || a.Purity != 55 {
		t.Errorf("scores changed: %+v", a)
	}
	if a.SkinType != "Trockene Haut" {
		t.Errorf("skin type = %q", a.SkinType)
	}
	if len(a.MorningRoutine) != 1 || a.Tips[0] != "custom" {
		t.Errorf("routine or tips changed: %+v", a)
	}
}

func TestAnalysisNormalizeCasesSkinType(t *testing.T) {
	a := Analysis{SkinType: "  mischhaut "}
	a.Normalize()
	if a.SkinType != "Mischhaut" {
		t.Errorf("skin type = %q, want title-cased", a.SkinType)
	}
}

func TestScannedProductNormalizeClampsRating(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, 1}, {-3, 1}, {5, 5}, {10, 10}, {14, 10},
	}
	for _, tt := range tests {
		p := ScannedProduct{Rating: tt.in}
		p.Normalize()
		if p.Rating != tt.want {
			t.Errorf("rating %d -> %d, want %d", tt.in, p.Rating, tt.want)
		}
	}
}

func TestProfileComplete(t *testing.T) {
	full := Profile{
		Age:         "25-34",
		Concerns:    []string{"Akne"},
		Lifestyle:   "Aktiv",
		SunExposure: "Mittel",
		Sensitivity: "Niedrig",
		WaterIntake: "2L",
		SleepHours:  "7-8",
	}
	if !full.Complete() {
		t.Error("fully answered profile should be complete")
	}

	missing := full
	missing.Concerns = nil
	if missing.Complete() {
		t.Error("profile without concerns should be incomplete")
	}

	blank := full
	blank.SleepHours = "  "
	if blank.Complete() {
		t.Error("whitespace answer should count as missing")
	}
}

func TestNeutralEnvironment(t *testing.T) {
	env := NeutralEnvironment()
	if env.UVIndex != 1 || env.Pollution != "Gut" || env.Humidity != "50%" || env.Temp != "21°C" {
		t.Errorf("neutral environment = %+v", env)
	}
}
