package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/josephgoksu/TaskTree/internal/app"
	"github.com/josephgoksu/TaskTree/internal/config"
	"github.com/josephgoksu/TaskTree/internal/logger"
	"github.com/josephgoksu/TaskTree/internal/task"
	"github.com/josephgoksu/TaskTree/store"
)

// isInteractive reports whether both stdin and stdout are terminals.
var isInteractive = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// openSession opens the configured stores and loads the current snapshot.
func openSession(ctx context.Context) (*app.Session, error) {
	snaps, evlog, err := store.Open(config.StoreOptions(appConfig))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	s := app.NewSession(app.Options{
		Layout:    config.Layout(appConfig.Sim),
		Seed:      appConfig.Sim.Seed,
		Snapshots: snaps,
		EventLog:  evlog,
		Telemetry: tracker,
	})
	if err := s.Load(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// withSession opens a session, runs fn and closes it.
func withSession(ctx context.Context, fn func(*app.Session) error) error {
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			slog.Warn("close session", "error", err)
		}
	}()
	return fn(s)
}

// commit saves the graph and writes queued events to the event log.
func commit(ctx context.Context, s *app.Session) error {
	if err := s.Save(ctx); err != nil {
		return err
	}
	if _, err := s.FlushEvents(ctx); err != nil {
		slog.Warn("event log flush failed; events dropped with the process", "error", err)
	}
	return nil
}

// applyAndCommit applies intents and persists the result.
func applyAndCommit(ctx context.Context, s *app.Session, intents ...task.Intent) ([]task.Intent, error) {
	logger.SetLastIntents(describeIntents(intents))
	applied, err := s.Apply(ctx, intents...)
	if err != nil {
		return applied, err
	}
	if err := commit(ctx, s); err != nil {
		return applied, err
	}
	return applied, nil
}

func describeIntents(intents []task.Intent) string {
	parts := make([]string, len(intents))
	for i, in := range intents {
		parts[i] = in.String()
	}
	return strings.Join(parts, "; ")
}

// resolveTaskID returns args[0], or asks the user to pick a task.
func resolveTaskID(s *app.Session, args []string, filterFn func(task.Task) bool, label string) (string, error) {
	if len(args) > 0 {
		if _, err := s.Task(args[0]); err != nil {
			return "", err
		}
		return args[0], nil
	}
	if !isInteractive() {
		return "", fmt.Errorf("%w: pass a task id", errNotInteractive)
	}
	t, err := selectTaskInteractive(s.View(), filterFn, label)
	if err != nil {
		return "", err
	}
	return t.ID, nil
}

// selectTaskInteractive presents a prompt to the user to select a task from a list.
// It can be filtered using the provided filter function.
func selectTaskInteractive(view task.Graph, filterFn func(task.Task) bool, label string) (task.Task, error) {
	var tasks []task.Task
	for _, t := range view.Sorted() {
		if filterFn == nil || filterFn(t) {
			tasks = append(tasks, t)
		}
	}
	if len(tasks) == 0 {
		return task.Task{}, ErrNoTasksFound
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   `> {{ .Title | cyan }} (ID: {{ .ID }}, Status: {{ .EffectiveStatus }})`,
		Inactive: `  {{ .Title | faint }} (ID: {{ .ID }}, Status: {{ .EffectiveStatus }})`,
		Selected: `{{ "✔" | green }} {{ .Title | faint }} (ID: {{ .ID }})`,
		Details: `
--------- Task Details ----------
{{ "ID:\t" | faint }} {{ .ID }}
{{ "Title:\t" | faint }} {{ .Title }}
{{ "Description:\t" | faint }} {{ .Description }}
{{ "Status:\t" | faint }} {{ .EffectiveStatus }}
{{ "Priority:\t" | faint }} {{ .Priority }}`,
	}

	searcher := func(input string, index int) bool {
		t := tasks[index]
		input = strings.ToLower(input)
		return strings.Contains(strings.ToLower(t.Title), input) || strings.Contains(t.ID, input)
	}

	prompt := promptui.Select{
		Label:     label,
		Items:     tasks,
		Templates: templates,
		Searcher:  searcher,
	}
	i, _, err := prompt.Run()
	if err != nil {
		return task.Task{}, err
	}
	return tasks[i], nil
}

// statusLabel is the human label for a resolved task's state.
func statusLabel(t task.Task) string {
	if t.IsBlocked {
		return "Blocked"
	}
	return cases.Title(language.English).String(strings.ReplaceAll(string(t.EffectiveStatus()), "-", " "))
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
