package gemini

import (
	"encoding/json"
	"fmt"

	"skinsight/internal/diagnosis"
)

// FallbackProductImage is the asset reference used whenever image
// generation fails or returns no image.
const FallbackProductImage = "https://images.unsplash.com/photo-1620916566398-39f1143ab7be?auto=format&fit=crop&q=80&w=400"

func skinAnalysisPrompt(profile diagnosis.Profile, env diagnosis.Environment) string {
	profileJSON, _ := json.Marshal(profile)
	envJSON, _ := json.Marshal(env)
	return fmt.Sprintf(`Analysiere diese Hautscans im Detail.
NUTZERPROFIL: %s.
WETTER: %s.
ERSTELLE:
1. Score (0-100)
2. Hauttyp (z.B. Ölig, Mischhaut)
3. Morgenroutine (3 Schritte)
4. Abendroutine (3 Schritte)
5. 3 spezifische Tipps.

GIB NUR VALIDES JSON ZURÜCK: {overallScore, hydration, purity, skinType, morningRoutine:[{product, action, reason}], eveningRoutine:[{product, action, reason}], tips:[]}.`,
		profileJSON, envJSON)
}

func productAnalysisPrompt(profile diagnosis.Profile) string {
	profileJSON, _ := json.Marshal(profile)
	return fmt.Sprintf(`Analysiere dieses Skincare-Produkt für ein Profil: %s. Gib JSON zurück: {name, description, ingredients[], rating, suitability, personalReason}.`, profileJSON)
}

func productImagePrompt(description string) string {
	return fmt.Sprintf("Professional minimalist product photography of a premium skincare bottle: %s. Soft studio lighting, neutral background, 4k, high-end design.", description)
}

func environmentPrompt(lat, lon float64) string {
	return fmt.Sprintf("Wetterdaten für Lat %v, Lon %v als JSON (uvIndex, pollution, humidity, temp).", lat, lon)
}
