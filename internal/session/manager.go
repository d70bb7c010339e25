package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"skinsight/internal/config"
	"skinsight/internal/diagnosis"
	"skinsight/internal/intake"
	"skinsight/internal/logging"
	"skinsight/internal/notifications"
	"skinsight/internal/scan"
	"skinsight/internal/services"
	"skinsight/internal/store"
)

// Gateway is the slice of the AI client the manager depends on.
type Gateway interface {
	DiagnoseSkin(ctx context.Context, captures [][]byte, profile diagnosis.Profile, env diagnosis.Environment) (*diagnosis.Analysis, error)
	DiagnoseProduct(ctx context.Context, image []byte, profile diagnosis.Profile) (*diagnosis.ScannedProduct, error)
	FetchEnvironment(ctx context.Context, lat, lon float64) diagnosis.Environment
}

// Enricher resolves product imagery for diagnosis results.
type Enricher interface {
	EnrichAnalysis(ctx context.Context, analysis diagnosis.Analysis) diagnosis.Analysis
	EnrichProduct(ctx context.Context, product diagnosis.ScannedProduct) diagnosis.ScannedProduct
}

// Events are UI callbacks. All fields are optional.
type Events struct {
	StepChanged      func(step Step)
	Caption          func(text string)
	ScanProgress     func(pose scan.Pose, percent float64)
	CapturesComplete func(mode scan.Mode)
	CaptureFailed    func(state ErrorState)
}

// Manager owns the session and drives every transition of the guided flow.
type Manager struct {
	cfg      *config.Config
	store    store.Adapter
	gateway  Gateway
	enricher Enricher
	notifier notifications.Service
	camera   scan.Camera
	events   Events
	logger   *slog.Logger

	scanConfig      scan.Config
	captionInterval time.Duration
	lat, lon        float64

	mu        sync.Mutex
	session   Session
	sequencer *scan.Sequencer
	form      *intake.Form
	pending   submission
}

// submission identifies which gateway flow a failed attempt came from, so
// Retry resubmits the matching request instead of guessing.
type submission int

const (
	submitNone submission = iota
	submitSkin
	submitProduct
)

// NewManager wires the manager with its collaborators.
func NewManager(
	cfg *config.Config,
	adapter store.Adapter,
	gateway Gateway,
	enricher Enricher,
	notifier notifications.Service,
	camera scan.Camera,
	events Events,
	logger *slog.Logger,
) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		cfg:      cfg,
		store:    adapter,
		gateway:  gateway,
		enricher: enricher,
		notifier: notifier,
		camera:   camera,
		events:   events,
		logger:   logging.NewComponentLogger(logger, "session"),
		scanConfig: scan.Config{
			DetectionDelay: time.Duration(cfg.Scan.DetectionDelayMS) * time.Millisecond,
			TickInterval:   time.Duration(cfg.Scan.TickIntervalMS) * time.Millisecond,
			TickStep:       cfg.Scan.TickStep,
			Cooldown:       time.Duration(cfg.Scan.CooldownMS) * time.Millisecond,
		},
		captionInterval: captionInterval,
		session:         Session{Step: StepWelcome},
	}
}

// SetLocation records coordinates for environment lookups.
func (m *Manager) SetLocation(lat, lon float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lat, m.lon = lat, lon
}

// Load restores persisted state and decides the initial step.
func (m *Manager) Load(ctx context.Context) error {
	settings, analysis, err := m.store.LoadState(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.Settings = settings
	m.session.Analysis = analysis
	switch {
	case !settings.SetupComplete:
		m.session.Step = StepWelcome
	case m.cfg.SyncEnabled() && m.cfg.Sync.Token == "":
		m.session.Step = StepAuth
	case analysis != nil:
		m.session.Step = StepCare
	default:
		m.session.Step = StepScanHub
	}
	m.emitStepLocked()
	return nil
}

// Snapshot returns a copy of the current session for rendering.
func (m *Manager) Snapshot() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Step returns the current step.
func (m *Manager) Step() Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Step
}

// BeginSetup records onboarding choices and moves to the scan hub.
func (m *Manager) BeginSetup(userName, skinTypeGoal string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.Settings.UserName = userName
	m.session.Settings.SkinTypeGoal = skinTypeGoal
	m.transitionLocked(StepScanHub)
}

// StartScan opens the camera and runs the full three-pose sequence.
func (m *Manager) StartScan(ctx context.Context) error {
	return m.startSequence(ctx, scan.ModeFull, StepScan)
}

// StartDailyScan runs the single-frame quick check-in capture.
func (m *Manager) StartDailyScan(ctx context.Context) error {
	return m.startSequence(ctx, scan.ModeQuick, StepDailyScan)
}

// StartProductScan arms the camera for a manually triggered product photo.
func (m *Manager) StartProductScan(ctx context.Context) error {
	return m.startSequence(ctx, scan.ModeProduct, StepProductScan)
}

func (m *Manager) startSequence(ctx context.Context, mode scan.Mode, step Step) error {
	m.mu.Lock()
	if m.session.Step.capturing() || m.session.Step == StepAnalyzing {
		m.mu.Unlock()
		return errors.New("session: capture or analysis already in progress")
	}
	m.session.Captures = nil
	m.session.TransientError = nil
	m.transitionLocked(step)

	sequencer := scan.New(m.scanConfig, mode, m.camera, scan.Events{
		Progress: m.events.ScanProgress,
		FrameCaptured: func(capture scan.Capture) {
			m.RecordCapture(capture)
		},
		SequenceDone: func([]scan.Capture) {
			m.onSequenceDone(mode)
		},
		SequenceFailed: func(err error) {
			m.onSequenceFailed(err)
		},
	}, m.logger)
	m.sequencer = sequencer
	m.mu.Unlock()

	if err := sequencer.Start(ctx); err != nil {
		m.mu.Lock()
		m.sequencer = nil
		m.session.TransientError = &ErrorState{
			Message:   "Kamerazugriff verweigert. Bitte Berechtigungen prüfen.",
			Retryable: services.IsRetryable(err),
		}
		m.transitionLocked(StepAnalyzing)
		m.mu.Unlock()
		return err
	}
	return nil
}

// RecordCapture appends a captured frame to the session.
func (m *Manager) RecordCapture(capture scan.Capture) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.Captures = append(m.session.Captures, capture)
	m.logger.Debug("capture recorded",
		logging.String(logging.FieldPose, capture.Pose.ID),
		logging.Int("captures", len(m.session.Captures)))
}

// TriggerCapture fires the manual product-scan capture.
func (m *Manager) TriggerCapture() error {
	m.mu.Lock()
	sequencer := m.sequencer
	m.mu.Unlock()
	if sequencer == nil {
		return errors.New("session: no capture in progress")
	}
	return sequencer.Trigger()
}

func (m *Manager) onSequenceDone(mode scan.Mode) {
	if mode == scan.ModeFull {
		m.BeginQuiz()
	}
	if m.events.CapturesComplete != nil {
		m.events.CapturesComplete(mode)
	}
}

func (m *Manager) onSequenceFailed(err error) {
	state := ErrorState{
		Message:   "Aufnahme fehlgeschlagen.",
		Retryable: services.IsRetryable(err),
	}

	m.mu.Lock()
	m.sequencer = nil
	m.session.TransientError = &state
	m.logger.Warn("capture sequence failed", logging.Error(err))
	m.transitionLocked(StepAnalyzing)
	m.mu.Unlock()

	if m.events.CaptureFailed != nil {
		m.events.CaptureFailed(state)
	}
}

// BeginQuiz issues the submission id for the completed capture set and
// opens the questionnaire.
func (m *Manager) BeginQuiz() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.SubmissionID = uuid.NewString()
	m.form = intake.NewForm()
	m.logger.Info("captures complete, quiz started",
		logging.String(logging.FieldSubmissionID, m.session.SubmissionID))
	m.transitionLocked(StepQuiz)
}

// Form exposes the active questionnaire.
func (m *Manager) Form() *intake.Form {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.form
}

// SubmitQuiz finalizes the questionnaire and runs the diagnosis. It blocks
// until the gateway resolves; captions rotate in the background meanwhile.
func (m *Manager) SubmitQuiz(ctx context.Context) error {
	m.mu.Lock()
	if m.form == nil || !m.form.Complete() {
		m.mu.Unlock()
		return errors.New("session: questionnaire incomplete")
	}
	m.session.Profile = m.form.Profile()
	m.session.TransientError = nil
	m.pending = submitSkin
	m.transitionLocked(StepAnalyzing)
	m.mu.Unlock()

	return m.runDiagnosis(ctx)
}

// Retry resubmits whichever request failed, skin or product, with the same
// captures, profile, and submission id.
func (m *Manager) Retry(ctx context.Context) error {
	m.mu.Lock()
	errState := m.session.TransientError
	kind := m.pending
	submissionID := m.session.SubmissionID
	if errState == nil || !errState.Retryable || kind == submitNone {
		m.mu.Unlock()
		return errors.New("session: nothing to retry")
	}
	m.session.TransientError = nil
	m.mu.Unlock()

	m.logger.Info("diagnosis retry",
		logging.String(logging.FieldSubmissionID, submissionID))
	if kind == submitProduct {
		return m.CompleteProductScan(ctx)
	}
	return m.runDiagnosis(ctx)
}

// Abort cancels the in-flight capture or failed analysis and returns to
// the scan hub. The camera is released before Abort returns.
func (m *Manager) Abort() {
	m.mu.Lock()
	sequencer := m.sequencer
	m.sequencer = nil
	m.mu.Unlock()

	if sequencer != nil {
		sequencer.Stop()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.Captures = nil
	m.session.TransientError = nil
	m.pending = submitNone
	if m.session.Settings.SetupComplete {
		m.transitionLocked(StepScanHub)
	} else {
		m.transitionLocked(StepWelcome)
	}
}

func (m *Manager) runDiagnosis(ctx context.Context) error {
	rotator := newCaptionRotator(m.events.Caption, m.captionInterval)
	rotator.Start()
	defer rotator.Stop()

	m.mu.Lock()
	frames := m.session.CaptureFrames()
	profile := m.session.Profile
	lat, lon := m.lat, m.lon
	m.mu.Unlock()

	env := m.gateway.FetchEnvironment(ctx, lat, lon)
	analysis, err := m.gateway.DiagnoseSkin(ctx, frames, profile, env)
	if err != nil {
		m.failDiagnosis(ctx, err)
		return err
	}

	enriched := *analysis
	if m.enricher != nil {
		enriched = m.enricher.EnrichAnalysis(ctx, enriched)
	}

	m.mu.Lock()
	m.session.Environment = env
	m.session.Analysis = &enriched
	m.session.Captures = nil
	m.session.Settings.SetupComplete = true
	m.awardLocked()
	m.pending = submitNone
	streak := m.session.Settings.Streak
	m.transitionLocked(StepResult)
	m.mu.Unlock()

	if err := m.persist(ctx); err != nil {
		m.logger.Warn("state persistence failed", logging.Error(err))
	}

	if m.notifier != nil {
		if err := m.notifier.NotifyDiagnosisComplete(ctx, enriched.SkinType, enriched.OverallScore); err != nil {
			m.logger.Debug("diagnosis notification failed", logging.Error(err))
		}
		if milestone := m.cfg.Rewards.StreakMilestone; milestone > 0 && streak > 0 && streak%milestone == 0 {
			if err := m.notifier.NotifyStreakMilestone(ctx, streak); err != nil {
				m.logger.Debug("streak notification failed", logging.Error(err))
			}
		}
	}
	return nil
}

func (m *Manager) failDiagnosis(ctx context.Context, err error) {
	message := "Analyse fehlgeschlagen."
	if services.IsFatalConfig(err) {
		message = "API Key fehlt."
	}

	m.mu.Lock()
	m.session.TransientError = &ErrorState{
		Message:   message,
		Retryable: services.IsRetryable(err),
	}
	m.transitionLocked(StepAnalyzing)
	m.mu.Unlock()

	m.logger.Warn("diagnosis failed",
		logging.Error(err),
		logging.String(logging.FieldSubmissionID, m.session.SubmissionID))
	if m.notifier != nil {
		if nerr := m.notifier.NotifyError(ctx, err, "diagnosis"); nerr != nil {
			m.logger.Debug("error notification failed", logging.Error(nerr))
		}
	}
}

// awardLocked grants the completion reward exactly once per submission.
func (m *Manager) awardLocked() {
	if m.session.SubmissionID == "" || m.session.awardedFor == m.session.SubmissionID {
		return
	}
	m.session.Settings.Points += m.cfg.Rewards.CompletionPoints
	m.session.Settings.Streak++
	m.session.Settings.LastActiveDate = time.Now().Format("2006-01-02")
	m.session.awardedFor = m.session.SubmissionID
	m.logger.Info("reward granted",
		logging.String(logging.FieldSubmissionID, m.session.SubmissionID),
		logging.Int("points", m.session.Settings.Points),
		logging.Int("streak", m.session.Settings.Streak))
}

// CompleteDailyScan records the check-in and returns to the care screen.
// The score defaults from the last analysis.
func (m *Manager) CompleteDailyScan(ctx context.Context, stress, skinFeeling int) error {
	m.mu.Lock()
	score := diagnosis.DefaultOverallScore
	if m.session.Analysis != nil {
		score = m.session.Analysis.OverallScore
	}
	entry := diagnosis.DailyProgress{
		Date:        time.Now().Format("2006-01-02"),
		Score:       score,
		Stress:      stress,
		SkinFeeling: skinFeeling,
	}
	m.session.Captures = nil
	m.transitionLocked(StepCare)
	m.mu.Unlock()

	if err := m.store.AppendProgress(ctx, entry); err != nil {
		return err
	}
	return m.persist(ctx)
}

// CompleteProductScan submits the product photo for assessment.
func (m *Manager) CompleteProductScan(ctx context.Context) error {
	m.mu.Lock()
	if len(m.session.Captures) == 0 {
		m.mu.Unlock()
		return errors.New("session: no product capture available")
	}
	image := m.session.Captures[0].Frame
	profile := m.session.Profile
	m.session.TransientError = nil
	m.pending = submitProduct
	m.transitionLocked(StepAnalyzing)
	m.mu.Unlock()

	product, err := m.gateway.DiagnoseProduct(ctx, image, profile)
	if err != nil {
		m.failDiagnosis(ctx, err)
		return err
	}

	enriched := *product
	if m.enricher != nil {
		enriched = m.enricher.EnrichProduct(ctx, enriched)
	}

	m.mu.Lock()
	m.session.ScannedProduct = &enriched
	m.session.Captures = nil
	m.pending = submitNone
	m.transitionLocked(StepProductResult)
	m.mu.Unlock()

	if m.notifier != nil {
		if err := m.notifier.NotifyProductScanned(ctx, enriched.Name, enriched.Rating); err != nil {
			m.logger.Debug("product notification failed", logging.Error(err))
		}
	}
	return nil
}

// TimeOfDay selects which routine a product attaches to.
type TimeOfDay string

const (
	Morning TimeOfDay = "morning"
	Evening TimeOfDay = "evening"
)

// AttachScannedProduct adds the scanned product to the chosen routine as a
// user-added step. The time of day must be explicit.
func (m *Manager) AttachScannedProduct(ctx context.Context, timeOfDay TimeOfDay) error {
	m.mu.Lock()
	if m.session.ScannedProduct == nil {
		m.mu.Unlock()
		return errors.New("session: no scanned product to attach")
	}
	if m.session.Analysis == nil {
		m.mu.Unlock()
		return errors.New("session: no analysis to attach to")
	}

	product := m.session.ScannedProduct
	step := diagnosis.RoutineStep{
		Product:   product.Name,
		Action:    "Anwenden",
		Reason:    product.PersonalReason,
		ImageRef:  product.ImageRef,
		UserAdded: true,
	}
	switch timeOfDay {
	case Morning:
		m.session.Analysis.MorningRoutine = append(m.session.Analysis.MorningRoutine, step)
	case Evening:
		m.session.Analysis.EveningRoutine = append(m.session.Analysis.EveningRoutine, step)
	default:
		m.mu.Unlock()
		return errors.New("session: time of day must be morning or evening")
	}
	m.session.ScannedProduct = nil
	m.transitionLocked(StepCare)
	m.mu.Unlock()

	return m.persist(ctx)
}

// OpenCare shows the routine screen.
func (m *Manager) OpenCare() error {
	return m.openScreen(StepCare)
}

// OpenProfile shows the profile screen.
func (m *Manager) OpenProfile() error {
	return m.openScreen(StepProfile)
}

// OpenScanHub shows the scan selection screen.
func (m *Manager) OpenScanHub() error {
	return m.openScreen(StepScanHub)
}

func (m *Manager) openScreen(step Step) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session.Step.capturing() || m.session.Step == StepAnalyzing {
		return errors.New("session: finish or abort the current flow first")
	}
	m.transitionLocked(step)
	return nil
}

// UpdateSettings applies a mutation to the settings and persists it.
func (m *Manager) UpdateSettings(ctx context.Context, mutate func(*diagnosis.Settings)) error {
	m.mu.Lock()
	mutate(&m.session.Settings)
	m.mu.Unlock()
	return m.persist(ctx)
}

// ProgressHistory returns recent daily check-ins.
func (m *Manager) ProgressHistory(ctx context.Context, limit int) ([]diagnosis.DailyProgress, error) {
	return m.store.ProgressHistory(ctx, limit)
}

// ExportSnapshot serializes the persisted state.
func (m *Manager) ExportSnapshot(ctx context.Context) ([]byte, string, error) {
	return m.store.Export(ctx)
}

// ImportSnapshot replaces state with the supplied backup and reloads.
func (m *Manager) ImportSnapshot(ctx context.Context, data []byte) error {
	if err := m.store.Import(ctx, data); err != nil {
		return err
	}
	return m.Load(ctx)
}

// ResetAccount wipes all persisted and in-memory state.
func (m *Manager) ResetAccount(ctx context.Context) error {
	if err := m.store.Reset(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = Session{Step: StepWelcome}
	m.form = nil
	m.pending = submitNone
	m.emitStepLocked()
	return nil
}

func (m *Manager) persist(ctx context.Context) error {
	m.mu.Lock()
	if !m.session.Settings.SetupComplete {
		m.mu.Unlock()
		return nil
	}
	settings := m.session.Settings
	analysis := m.session.Analysis
	m.mu.Unlock()

	return m.store.SaveState(ctx, settings, analysis)
}

func (m *Manager) transitionLocked(step Step) {
	if m.session.Step == step {
		return
	}
	m.logger.Debug("step transition",
		logging.String("from", string(m.session.Step)),
		logging.String(logging.FieldStep, string(step)))
	m.session.Step = step
	m.emitStepLocked()
}

func (m *Manager) emitStepLocked() {
	if m.events.StepChanged != nil {
		m.events.StepChanged(m.session.Step)
	}
}
