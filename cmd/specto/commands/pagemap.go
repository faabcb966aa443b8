package commands

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/ternarybob/specto/internal/browser"
	"github.com/ternarybob/specto/internal/common"
	"github.com/ternarybob/specto/internal/models"
	"github.com/ternarybob/specto/internal/pagemap"
	"github.com/ternarybob/specto/internal/runner"
)

func pagemapCmd() *cobra.Command {
	var withContent bool

	cmd := &cobra.Command{
		Use:   "pagemap [route...]",
		Short: "Build the application map from live pages",
		Long:  "Inventories data-testid hooks and Blueprint components on each route and writes application-map.md. With no arguments every configured page spec is mapped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			specs, err := resolveSpecs(args)
			if err != nil {
				return err
			}

			dir, err := runner.NewRunDir(cfg.Results.BaseDir, "pagemap")
			if err != nil {
				return err
			}

			session, err := browser.NewSession(ctx, cfg.Browser, cfg.Target)
			if err != nil {
				return err
			}
			defer session.Close()

			summary := &runner.Summary{}
			var pages []*pagemap.PageMap

			for _, spec := range specs {
				runner.SectionStarted(fmt.Sprintf("pagemap %s", spec.Route))

				if err := session.Navigate(spec.Route, spec.ReadySelector); err != nil {
					summary.Add(spec.Route, runner.StepFailed, err.Error())
					continue
				}
				html, err := session.HTML()
				if err != nil {
					summary.Add(spec.Route, runner.StepFailed, err.Error())
					continue
				}

				pm, err := pagemap.Parse(html, spec.Route)
				if err != nil {
					summary.Add(spec.Route, runner.StepFailed, err.Error())
					continue
				}
				pages = append(pages, pm)
				summary.Add(spec.Route, runner.StepPassed,
					fmt.Sprintf("%d components, %d routes", len(pm.Components), len(pm.Links)))

				summary.AddIssues(missingTestIDs(spec, pm))

				if withContent {
					snapshot, err := pagemap.ContentSnapshot(html, cfg.Target.BaseURL)
					if err == nil {
						name := fmt.Sprintf("content%s.md", sanitizeRoute(spec.Route))
						_ = os.WriteFile(dir.File(name), []byte(snapshot), 0644)
					}
				}
			}

			mapPath := dir.File("application-map.md")
			if err := os.WriteFile(mapPath, []byte(pagemap.RenderMarkdown(pages)), 0644); err != nil {
				return fmt.Errorf("failed to write application map: %w", err)
			}

			run := &models.RunRecord{
				ID:          common.NewRunID(),
				Kind:        models.RunKindPagemap,
				TargetURL:   cfg.Target.BaseURL,
				StartedAt:   time.Now(),
				CompletedAt: time.Now(),
				Status:      models.RunStatusPassed,
				ResultsDir:  dir.Path,
				IssueCount:  len(summary.Issues),
			}
			if summary.Failed() {
				run.Status = models.RunStatusError
			}
			if err := app.runs.SaveRun(ctx, run); err != nil {
				return err
			}

			summary.Print(dir.Path)
			if code := summary.ExitCode(); code != 0 {
				os.Exit(code)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withContent, "content", false, "also write a markdown content snapshot per page")
	return cmd
}

// resolveSpecs maps route arguments to page specs; with no arguments all
// configured specs are returned, ordered by route.
func resolveSpecs(args []string) ([]models.PageSpec, error) {
	if len(args) > 0 {
		specs := make([]models.PageSpec, 0, len(args))
		for _, arg := range args {
			spec, err := pageSpecFor(arg)
			if err != nil {
				return nil, err
			}
			specs = append(specs, spec)
		}
		return specs, nil
	}

	loaded, err := models.LoadPageSpecs(cfg.PageSpecs.Dir)
	if err != nil {
		return nil, err
	}
	if len(loaded) == 0 {
		spec, err := pageSpecFor("/")
		if err != nil {
			return nil, err
		}
		return []models.PageSpec{spec}, nil
	}

	specs := make([]models.PageSpec, 0, len(loaded))
	for _, spec := range loaded {
		specs = append(specs, *spec)
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Route < specs[j].Route })
	return specs, nil
}

func missingTestIDs(spec models.PageSpec, pm *pagemap.PageMap) []string {
	found := make(map[string]struct{}, len(pm.Components))
	for _, component := range pm.Components {
		found[component.TestID] = struct{}{}
	}

	var issues []string
	for _, want := range spec.ExpectedTestIDs {
		if _, ok := found[want]; !ok {
			issues = append(issues, fmt.Sprintf("%s: expected data-testid %q not found", spec.Route, want))
		}
	}
	return issues
}

func sanitizeRoute(route string) string {
	out := make([]rune, 0, len(route))
	for _, r := range route {
		if r == '/' {
			out = append(out, '_')
		} else {
			out = append(out, r)
		}
	}
	return string(out)
}
