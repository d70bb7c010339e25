package session

// Step identifies the screen the app is on. Transitions are owned by the
// Manager; nothing else mutates the step.
type Step string

const (
	StepWelcome       Step = "welcome"
	StepAuth          Step = "auth"
	StepScanHub       Step = "scan_hub"
	StepScan          Step = "scan"
	StepDailyScan     Step = "daily_scan"
	StepProductScan   Step = "product_scan"
	StepQuiz          Step = "quiz"
	StepAnalyzing     Step = "analyzing"
	StepResult        Step = "result"
	StepProductResult Step = "product_result"
	StepCare          Step = "care"
	StepProfile       Step = "profile"
)

// capturing reports whether the step keeps the camera open.
func (s Step) capturing() bool {
	switch s {
	case StepScan, StepDailyScan, StepProductScan:
		return true
	default:
		return false
	}
}
