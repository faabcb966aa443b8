package audit

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/ternarybob/specto/internal/browser"
	"github.com/ternarybob/specto/internal/common"
	"github.com/ternarybob/specto/internal/models"
)

// probeInteractions clicks the first few visible buttons and fills the
// first few text inputs, rate-limited so the dashboard is not hammered.
// Buttons inside dialogs are skipped so a probe cannot confirm a
// destructive action.
func probeInteractions(ctx context.Context, s *browser.Session, shots *browser.Screenshotter, cfg common.AuditConfig, limiter *rate.Limiter) (*models.InteractionResult, error) {
	result := &models.InteractionResult{}

	buttonLabels, err := elementLabels(s, interactableButtonsExpr(cfg.MaxButtons))
	if err != nil {
		return nil, err
	}
	buttonCount, err := s.Count(`button, [role="button"]`)
	if err != nil {
		return nil, err
	}
	result.ButtonsFound = buttonCount

	for i, label := range buttonLabels {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		probe := models.InteractionProbe{Index: i, Kind: "button", Label: label}

		if _, err := shots.Capture(s, fmt.Sprintf("before_button_%d", i+1)); err != nil {
			probe.Error = err.Error()
		}
		var clicked bool
		if clickErr := s.Evaluate(clickButtonExpr(i), &clicked); clickErr != nil {
			probe.Error = clickErr.Error()
		} else if !clicked {
			probe.Error = fmt.Sprintf("button %q no longer present at index %d", label, i)
		} else {
			probe.Success = true
			result.SuccessfulClicks++
		}
		if _, err := shots.Capture(s, fmt.Sprintf("after_button_%d", i+1)); err != nil && probe.Error == "" {
			probe.Error = err.Error()
		}

		// close any dialog the click opened before probing the next control
		dismissOpenDialog(s)

		result.Probes = append(result.Probes, probe)
	}

	inputCount, err := s.Count(`input:not([type="hidden"]), textarea`)
	if err != nil {
		return nil, err
	}
	result.InputsFound = inputCount

	fills := cfg.MaxInputs
	if inputCount < fills {
		fills = inputCount
	}
	for i := 0; i < fills; i++ {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		probe := models.InteractionProbe{Index: i, Kind: "input"}

		var filled bool
		if fillErr := s.Evaluate(fillInputExpr(i, cfg.InputTestValue), &filled); fillErr != nil {
			probe.Error = fillErr.Error()
		} else if !filled {
			probe.Error = fmt.Sprintf("no visible input at index %d", i)
		} else {
			probe.Success = true
			result.SuccessfulFills++
		}
		result.Probes = append(result.Probes, probe)
	}

	return result, nil
}

// interactableButtonsJS builds the list of visible buttons outside any
// dialog. Label collection and click dispatch both evaluate this same
// expression so index i always refers to the same element in both.
const interactableButtonsJS = `[...document.querySelectorAll('button, [role="button"]')]
		.filter(b => !b.disabled && !b.closest('[role="dialog"], .bp5-dialog, .bp6-dialog'))
		.filter(b => b.offsetParent !== null)`

// interactableButtonsExpr returns labels of the first max visible buttons
// that are outside any dialog.
func interactableButtonsExpr(max int) string {
	return fmt.Sprintf(`(() => {
		const buttons = %s.slice(0, %d);
		return buttons.map(b => (b.textContent || b.getAttribute('aria-label') || '').trim());
	})()`, interactableButtonsJS, max)
}

// clickButtonExpr clicks the i-th interactable button, reporting false
// when the DOM no longer has an element at that index.
func clickButtonExpr(i int) string {
	return fmt.Sprintf(`(() => {
		const target = %s[%d];
		if (!target) return false;
		target.click();
		return true;
	})()`, interactableButtonsJS, i)
}

// fillInputExpr sets the i-th visible text input and fires the input and
// change events the dashboard listens for.
func fillInputExpr(i int, value string) string {
	return fmt.Sprintf(`(() => {
		const inputs = [...document.querySelectorAll('input:not([type="hidden"]), textarea')]
			.filter(el => el.offsetParent !== null);
		const target = inputs[%d];
		if (!target) return false;
		target.value = %q;
		target.dispatchEvent(new Event('input', {bubbles: true}));
		target.dispatchEvent(new Event('change', {bubbles: true}));
		return true;
	})()`, i, value)
}

func elementLabels(s *browser.Session, expr string) ([]string, error) {
	var labels []string
	if err := s.Evaluate(expr, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

func dismissOpenDialog(s *browser.Session) {
	count, err := s.Count(`[role="dialog"], .bp5-dialog, .bp6-dialog`)
	if err != nil || count == 0 {
		return
	}
	// Blueprint dialogs close via their header button or Escape
	if err := s.Click(`[role="dialog"] [aria-label="Close"], .bp5-dialog-close-button, .bp6-dialog-close-button`); err != nil {
		_ = s.Evaluate(`document.dispatchEvent(new KeyboardEvent('keydown', {key: 'Escape'})); true`, nil)
	}
}
