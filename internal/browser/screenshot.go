package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// Screenshotter writes sequentially numbered screenshots into a run's
// results directory, e.g. 01_full_page_baseline.png.
type Screenshotter struct {
	dir     string
	counter int
	paths   []string
}

// NewScreenshotter creates the output directory if needed
func NewScreenshotter(dir string) (*Screenshotter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create screenshot directory %s: %w", dir, err)
	}
	return &Screenshotter{dir: dir}, nil
}

// Paths returns every screenshot saved so far, in capture order
func (sc *Screenshotter) Paths() []string {
	out := make([]string, len(sc.paths))
	copy(out, sc.paths)
	return out
}

// Capture takes a viewport screenshot and saves it under the given name
func (sc *Screenshotter) Capture(s *Session, name string) (string, error) {
	var buf []byte
	if err := sc.run(s, chromedp.CaptureScreenshot(&buf)); err != nil {
		return "", fmt.Errorf("failed to capture screenshot %s: %w", name, err)
	}
	return sc.save(name, buf)
}

// CaptureFullPage takes a full-height page screenshot
func (sc *Screenshotter) CaptureFullPage(s *Session, name string) (string, error) {
	var buf []byte
	if err := sc.run(s, chromedp.FullScreenshot(&buf, 90)); err != nil {
		return "", fmt.Errorf("failed to capture full-page screenshot %s: %w", name, err)
	}
	return sc.save(name, buf)
}

// CaptureElement screenshots the first visible element matching selector
func (sc *Screenshotter) CaptureElement(s *Session, selector, name string) (string, error) {
	var buf []byte
	if err := sc.run(s, chromedp.Screenshot(selector, &buf, chromedp.ByQuery, chromedp.NodeVisible)); err != nil {
		return "", fmt.Errorf("failed to capture element screenshot %s: %w", name, err)
	}
	return sc.save(name, buf)
}

func (sc *Screenshotter) run(s *Session, action chromedp.Action) error {
	ctx, cancel := context.WithTimeout(s.Context(), 30*time.Second)
	defer cancel()
	return chromedp.Run(ctx, action)
}

func (sc *Screenshotter) save(name string, data []byte) (string, error) {
	sc.counter++
	filename := fmt.Sprintf("%02d_%s.png", sc.counter, sanitizeName(name))
	path := filepath.Join(sc.dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write screenshot %s: %w", path, err)
	}
	sc.paths = append(sc.paths, path)
	return path, nil
}

func sanitizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	replacer := strings.NewReplacer(" ", "_", "/", "_", ":", "", "?", "", "&", "_")
	name = strings.Trim(replacer.Replace(name), "_")
	if name == "" {
		name = "screenshot"
	}
	return name
}
