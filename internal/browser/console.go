package browser

import (
	"context"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/ternarybob/specto/internal/models"
)

// consoleCapture accumulates console API calls and uncaught exceptions
// emitted by the page. Events arrive on chromedp's internal goroutine, so
// access is mutex-guarded.
type consoleCapture struct {
	mu       sync.Mutex
	messages []models.ConsoleMessage
	errors   []models.PageError
}

func newConsoleCapture(ctx context.Context) *consoleCapture {
	capture := &consoleCapture{}

	chromedp.ListenTarget(ctx, func(ev interface{}) {
		switch e := ev.(type) {
		case *runtime.EventConsoleAPICalled:
			capture.addMessage(e)
		case *runtime.EventExceptionThrown:
			capture.addError(e)
		}
	})

	return capture
}

func (c *consoleCapture) addMessage(ev *runtime.EventConsoleAPICalled) {
	parts := make([]string, 0, len(ev.Args))
	for _, arg := range ev.Args {
		switch {
		case arg.Value != nil:
			parts = append(parts, strings.Trim(string(arg.Value), `"`))
		case arg.Description != "":
			parts = append(parts, arg.Description)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, models.ConsoleMessage{
		Type: string(ev.Type),
		Text: strings.Join(parts, " "),
	})
}

func (c *consoleCapture) addError(ev *runtime.EventExceptionThrown) {
	detail := ev.ExceptionDetails
	if detail == nil {
		return
	}

	message := detail.Text
	var stack string
	if detail.Exception != nil {
		if detail.Exception.Description != "" {
			message = detail.Exception.Description
			// description embeds the stack after the first line
			if idx := strings.Index(message, "\n"); idx > 0 {
				stack = message[idx+1:]
				message = message[:idx]
			}
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, models.PageError{
		Message: message,
		Stack:   stack,
	})
}

// Messages returns a copy of the captured console messages
func (c *consoleCapture) Messages() []models.ConsoleMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.ConsoleMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// Errors returns a copy of the captured page errors
func (c *consoleCapture) Errors() []models.PageError {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.PageError, len(c.errors))
	copy(out, c.errors)
	return out
}

// Reset discards everything captured so far
func (c *consoleCapture) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
	c.errors = nil
}
