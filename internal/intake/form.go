package intake

import (
	"errors"

	"skinsight/internal/diagnosis"
)

// Kind distinguishes single-choice questions from the multi-select one.
type Kind int

const (
	SingleChoice Kind = iota
	MultiChoice
)

// Question is one intake step with its fixed option set.
type Question struct {
	Field   string
	Title   string
	Options []string
	Kind    Kind
}

// Questions returns the intake questionnaire in presentation order.
func Questions() []Question {
	return []Question{
		{Field: "age", Title: "Wie alt bist du?", Options: []string{"18-24", "25-34", "35-44", "45+"}},
		{Field: "concerns", Title: "Hautziele?", Options: []string{"Unreinheiten", "Anti-Aging", "Glow", "Poren", "Trockenheit", "Rötungen"}, Kind: MultiChoice},
		{Field: "sensitivity", Title: "Empfindlichkeit?", Options: []string{"Robust", "Normal", "Sensibel", "Sehr"}},
		{Field: "sunExposure", Title: "Sonnenschutz?", Options: []string{"Nie", "Selten", "Oft", "Immer"}},
		{Field: "waterIntake", Title: "Wasserzufuhr?", Options: []string{"Wenig", "Mittel", "Viel", "Sehr viel"}},
		{Field: "sleepHours", Title: "Schlaf?", Options: []string{"<5h", "6h", "7h", "8h+"}},
		{Field: "lifestyle", Title: "Lebensstil?", Options: []string{"Stressarm", "Normal", "Viel Stress", "Extrem"}},
	}
}

// Form walks the fixed question list, collecting answers into a profile.
// Single-choice questions advance on Answer; the multi-select concerns
// question requires an explicit ConfirmConcerns with at least one choice.
type Form struct {
	questions []Question
	index     int
	profile   diagnosis.Profile
}

// NewForm starts an empty questionnaire.
func NewForm() *Form {
	return &Form{questions: Questions()}
}

// Current returns the active question. After the last answer it returns
// false.
func (f *Form) Current() (Question, bool) {
	if f.index >= len(f.questions) {
		return Question{}, false
	}
	return f.questions[f.index], true
}

// Index reports the zero-based position for progress display.
func (f *Form) Index() int { return f.index }

// Count reports the total number of questions.
func (f *Form) Count() int { return len(f.questions) }

// Answer records the value for the current single-choice question and
// advances. The value must be one of the question's options.
func (f *Form) Answer(value string) error {
	question, ok := f.Current()
	if !ok {
		return errors.New("intake: questionnaire already complete")
	}
	if question.Kind != SingleChoice {
		return errors.New("intake: use ToggleConcern for the multi-select question")
	}
	if !contains(question.Options, value) {
		return errors.New("intake: answer not among the question options")
	}

	switch question.Field {
	case "age":
		f.profile.Age = value
	case "sensitivity":
		f.profile.Sensitivity = value
	case "sunExposure":
		f.profile.SunExposure = value
	case "waterIntake":
		f.profile.WaterIntake = value
	case "sleepHours":
		f.profile.SleepHours = value
	case "lifestyle":
		f.profile.Lifestyle = value
	}
	f.index++
	return nil
}

// ToggleConcern adds or removes a concern selection without advancing.
func (f *Form) ToggleConcern(value string) error {
	question, ok := f.Current()
	if !ok || question.Kind != MultiChoice {
		return errors.New("intake: not on the concerns question")
	}
	if !contains(question.Options, value) {
		return errors.New("intake: concern not among the question options")
	}

	for i, existing := range f.profile.Concerns {
		if existing == value {
			f.profile.Concerns = append(f.profile.Concerns[:i], f.profile.Concerns[i+1:]...)
			return nil
		}
	}
	f.profile.Concerns = append(f.profile.Concerns, value)
	return nil
}

// ConfirmConcerns advances past the multi-select question. At least one
// concern must be selected.
func (f *Form) ConfirmConcerns() error {
	question, ok := f.Current()
	if !ok || question.Kind != MultiChoice {
		return errors.New("intake: not on the concerns question")
	}
	if len(f.profile.Concerns) == 0 {
		return errors.New("intake: select at least one concern")
	}
	f.index++
	return nil
}

// Back returns to the previous question, keeping its recorded answer so
// the user can change it.
func (f *Form) Back() bool {
	if f.index == 0 {
		return false
	}
	f.index--
	return true
}

// Complete reports whether every question has been answered.
func (f *Form) Complete() bool {
	return f.index >= len(f.questions) && f.profile.Complete()
}

// Profile returns a snapshot of the collected answers.
func (f *Form) Profile() diagnosis.Profile {
	snapshot := f.profile
	snapshot.Concerns = append([]string(nil), f.profile.Concerns...)
	return snapshot
}

func contains(options []string, value string) bool {
	for _, option := range options {
		if option == value {
			return true
		}
	}
	return false
}
