package diagnosis

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Score defaults applied when the model omits or zeroes a field.
const (
	DefaultOverallScore = 80
	DefaultHydration    = 75
	DefaultPurity       = 70
	DefaultSkinType     = "Mischhaut"
)

var defaultTips = []string{"Viel Wasser trinken", "LSF 50 nutzen"}

var skinTypeTitle = cases.Title(language.German)

// Normalize fills gaps in a freshly decoded analysis so downstream code
// never sees nil routines, empty tips, or zero scores.
func (a *Analysis) Normalize() {
	if a.OverallScore <= 0 || a.OverallScore > 100 {
		a.OverallScore = DefaultOverallScore
	}
	if a.Hydration <= 0 || a.Hydration > 100 {
		a.Hydration = DefaultHydration
	}
	if a.Purity <= 0 || a.Purity > 100 {
		a.Purity = DefaultPurity
	}
	a.Texture = clampScore(a.Texture)
	a.AntiAging = clampScore(a.AntiAging)

	a.SkinType = normalizeSkinType(a.SkinType)

	if a.MorningRoutine == nil {
		a.MorningRoutine = []RoutineStep{}
	}
	if a.EveningRoutine == nil {
		a.EveningRoutine = []RoutineStep{}
	}
	if len(a.Tips) == 0 {
		a.Tips = append([]string(nil), defaultTips...)
	}
}

func normalizeSkinType(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return DefaultSkinType
	}
	return skinTypeTitle.String(trimmed)
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Normalize clamps the rating into its 1-10 scale and trims labels.
func (p *ScannedProduct) Normalize() {
	if p.Rating < 1 {
		p.Rating = 1
	}
	if p.Rating > 10 {
		p.Rating = 10
	}
	p.Name = strings.TrimSpace(p.Name)
	p.Suitability = strings.TrimSpace(p.Suitability)
	if p.Ingredients == nil {
		p.Ingredients = []string{}
	}
}
