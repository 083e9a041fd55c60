// Package report renders balancing results for operators.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/okian/teambalance/internal/domain/model"
	"github.com/okian/teambalance/internal/domain/scoring"
	"github.com/okian/teambalance/internal/domain/types"
)

// Section titles used by the one-shot CLI.
const (
	TitleBeforeTimezone = "Team balance before time zone consideration"
	TitleAfterTimezone  = "Team balance after time zone consideration"
)

// Entries scores every team of teams with the given criteria.
func Entries(teams model.TeamSet, seeding, timezone scoring.ScoreFn) []types.TeamEntry {
	out := make([]types.TeamEntry, len(teams))
	for i, t := range teams {
		members := make([]types.Member, len(t.Members))
		for j, c := range t.Members {
			members[j] = types.Member{Name: c.Name, Seed: c.Seed, Timezone: c.Timezone}
		}
		out[i] = types.TeamEntry{
			Index:         i,
			Members:       members,
			SeedingScore:  seeding(t),
			TimezoneScore: timezone(t),
		}
	}
	return out
}

// TotalsOf sums the scores of entries.
func TotalsOf(entries []types.TeamEntry) types.Totals {
	var t types.Totals
	for _, e := range entries {
		t.Seeding += e.SeedingScore
		t.Timezone += e.TimezoneScore
	}
	return t
}

// Text writes one line per team (names, seeds, seeding score rounded to two
// decimals, time zone score) followed by both totals.
func Text(w io.Writer, title string, entries []types.TeamEntry) error {
	r := lipgloss.NewRenderer(w)
	titleStyle := r.NewStyle().Bold(true)
	labelStyle := r.NewStyle().Faint(true)
	nameWidth := 0
	for _, e := range entries {
		if n := lipgloss.Width(names(e)); n > nameWidth {
			nameWidth = n
		}
	}
	nameStyle := r.NewStyle().Width(nameWidth)

	var b strings.Builder
	b.WriteString(titleStyle.Render("==== "+title+" ====") + "\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%s  %s  %s %s  %s %s\n",
			nameStyle.Render(names(e)),
			seeds(e),
			labelStyle.Render("metric"), strconv.FormatFloat(e.SeedingScore, 'f', 2, 64),
			labelStyle.Render("time zone"), strconv.FormatFloat(e.TimezoneScore, 'f', -1, 64),
		)
	}
	totals := TotalsOf(entries)
	fmt.Fprintf(&b, "Metric total: %s\n", strconv.FormatFloat(totals.Seeding, 'f', 2, 64))
	fmt.Fprintf(&b, "Time zone total: %s\n", strconv.FormatFloat(totals.Timezone, 'f', -1, 64))

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// JSON writes the summary as indented JSON.
func JSON(w io.Writer, summary types.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func names(e types.TeamEntry) string {
	parts := make([]string, len(e.Members))
	for i, m := range e.Members {
		parts[i] = m.Name
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func seeds(e types.TeamEntry) string {
	parts := make([]string, len(e.Members))
	for i, m := range e.Members {
		parts[i] = strconv.Itoa(m.Seed)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
