package scan

// Mode selects which capture sequence the sequencer runs.
type Mode int

const (
	// ModeFull captures the three diagnosis poses.
	ModeFull Mode = iota
	// ModeQuick captures a single frontal frame for the daily check-in.
	ModeQuick
	// ModeProduct arms the camera and waits for a manual trigger.
	ModeProduct
)

func (m Mode) String() string {
	switch m {
	case ModeFull:
		return "full"
	case ModeQuick:
		return "quick"
	case ModeProduct:
		return "product"
	default:
		return "unknown"
	}
}

// Pose identifies one position in a capture sequence.
type Pose struct {
	ID          string
	Label       string
	Instruction string
}

// Poses returns the ordered pose list for a mode.
func Poses(mode Mode) []Pose {
	switch mode {
	case ModeQuick:
		return []Pose{
			{ID: "front", Label: "Quick Scan", Instruction: "Halte dein Gesicht mittig."},
		}
	case ModeProduct:
		return []Pose{
			{ID: "product", Label: "Produkt-Check", Instruction: "Halte das Produkt ins Bild."},
		}
	default:
		return []Pose{
			{ID: "front", Label: "Frontal", Instruction: "Halte dein Gesicht mittig."},
			{ID: "left", Label: "Links", Instruction: "Drehe dein Gesicht nach links."},
			{ID: "right", Label: "Rechts", Instruction: "Drehe dein Gesicht nach rechts."},
		}
	}
}
