package diagnosis

import "strings"

// Analysis is the skin diagnosis produced by the gateway for a full scan.
// Score fields are on a 0-100 scale.
type Analysis struct {
	OverallScore   int           `json:"overallScore"`
	Hydration      int           `json:"hydration"`
	Texture        int           `json:"texture"`
	Purity         int           `json:"purity"`
	AntiAging      int           `json:"antiAging"`
	SkinType       string        `json:"skinType"`
	Summary        string        `json:"summary"`
	MorningRoutine []RoutineStep `json:"morningRoutine"`
	EveningRoutine []RoutineStep `json:"eveningRoutine"`
	Tips           []string      `json:"tips"`
}

// RoutineStep is a single product application within a routine.
type RoutineStep struct {
	Product   string `json:"product"`
	Action    string `json:"action"`
	Reason    string `json:"reason"`
	ImageRef  string `json:"imageUrl,omitempty"`
	UserAdded bool   `json:"isCustom,omitempty"`
}

// ScannedProduct is the gateway's assessment of a photographed product.
// Rating is on a 1-10 scale.
type ScannedProduct struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Ingredients    []string `json:"ingredients"`
	Rating         int      `json:"rating"`
	Suitability    string   `json:"suitability"`
	PersonalReason string   `json:"personalReason"`
	ImageRef       string   `json:"imageUrl,omitempty"`
}

// Profile holds the user's intake answers. All seven fields are required
// before a diagnosis can be requested.
type Profile struct {
	Age         string   `json:"age"`
	Concerns    []string `json:"concerns"`
	Lifestyle   string   `json:"lifestyle"`
	SunExposure string   `json:"sunExposure"`
	Sensitivity string   `json:"sensitivity"`
	WaterIntake string   `json:"waterIntake"`
	SleepHours  string   `json:"sleepHours"`
}

// Complete reports whether every intake question has been answered.
func (p Profile) Complete() bool {
	for _, v := range []string{p.Age, p.Lifestyle, p.SunExposure, p.Sensitivity, p.WaterIntake, p.SleepHours} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return len(p.Concerns) > 0
}

// Environment describes ambient conditions relevant to skin care.
type Environment struct {
	UVIndex   int    `json:"uvIndex"`
	Pollution string `json:"pollution"`
	Humidity  string `json:"humidity"`
	Temp      string `json:"temp"`
}

// NeutralEnvironment returns the fallback used when environment data
// cannot be fetched.
func NeutralEnvironment() Environment {
	return Environment{UVIndex: 1, Pollution: "Gut", Humidity: "50%", Temp: "21°C"}
}

// Settings holds user preferences and gamification state.
type Settings struct {
	DarkMode       bool   `json:"darkMode"`
	Notifications  bool   `json:"notifications"`
	UserName       string `json:"userName"`
	SkinTypeGoal   string `json:"skinTypeGoal"`
	SetupComplete  bool   `json:"isSetupComplete"`
	Points         int    `json:"points"`
	Streak         int    `json:"streak"`
	LastActiveDate string `json:"lastActiveDate,omitempty"`
}

// DailyProgress is one entry in the daily check-in history.
type DailyProgress struct {
	Date        string `json:"date"`
	Score       int    `json:"score"`
	Stress      int    `json:"stress"`
	SkinFeeling int    `json:"skinFeeling"`
}
