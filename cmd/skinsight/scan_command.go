package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"skinsight/internal/intake"
	"skinsight/internal/session"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Run the guided three-pose skin analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, runGuidedScan)
		},
	}
}

func runGuidedScan(ctx context.Context, a *app) error {
	if err := a.requireGateway(); err != nil {
		return err
	}

	if a.manager.Step() == session.StepWelcome {
		if err := runWelcome(a); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.out, "Halte das Gesicht ruhig in die Kamera. Drei Posen werden aufgenommen.")
	if err := a.manager.StartScan(ctx); err != nil {
		return err
	}
	if _, err := a.waitCaptured(ctx); err != nil {
		return err
	}

	if err := runQuiz(a); err != nil {
		a.manager.Abort()
		return err
	}

	fmt.Fprintln(a.out, "\nAnalyse läuft...")
	if err := a.manager.SubmitQuiz(ctx); err != nil {
		if err = retryLoop(ctx, a, err); err != nil {
			return err
		}
	}

	renderAnalysis(a.out, a.manager.Snapshot())
	return nil
}

func runWelcome(a *app) error {
	fmt.Fprintln(a.out, "Willkommen bei Skinsight!")
	name, err := promptLine(a.in, a.out, "Wie heißt du")
	if err != nil {
		return err
	}
	goal, err := promptChoice(a.in, a.out, "Was ist dein Hautziel?", []string{
		"Reine Haut", "Anti-Aging", "Mehr Glow", "Weniger Rötungen",
	})
	if err != nil {
		return err
	}
	a.manager.BeginSetup(name, goal)
	return nil
}

func runQuiz(a *app) error {
	form := a.manager.Form()
	if form == nil {
		return fmt.Errorf("no active questionnaire")
	}

	fmt.Fprintln(a.out, "\nEin paar Fragen zu deiner Haut:")
	for {
		question, ok := form.Current()
		if !ok {
			return nil
		}
		title := fmt.Sprintf("\n[%d/%d] %s", form.Index()+1, form.Count(), question.Title)
		if question.Kind == intake.MultiChoice {
			selected, err := promptMulti(a.in, a.out, title, question.Options)
			if err != nil {
				return err
			}
			for _, value := range selected {
				if err := form.ToggleConcern(value); err != nil {
					return err
				}
			}
			if err := form.ConfirmConcerns(); err != nil {
				return err
			}
			continue
		}
		value, err := promptChoice(a.in, a.out, title, question.Options)
		if err != nil {
			return err
		}
		if err := form.Answer(value); err != nil {
			return err
		}
	}
}

// retryLoop surfaces a failed diagnosis and offers to resubmit while the
// failure stays retryable.
func retryLoop(ctx context.Context, a *app, err error) error {
	for {
		state := a.manager.Snapshot().TransientError
		if state == nil || !state.Retryable {
			return err
		}
		if !stdinIsTerminal() || !promptYes(a.in, a.out, state.Message+" Erneut versuchen?") {
			a.manager.Abort()
			return err
		}
		if err = a.manager.Retry(ctx); err == nil {
			return nil
		}
	}
}
