package status

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bnema/evertext-autopilot/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	Now time.Time
	// Location formats timestamps; UTC when nil.
	Location *time.Location
}

func renderAccounts(accounts []domain.Account, opts RenderOptions, s styles) string {
	done, retrying := 0, 0
	for _, account := range accounts {
		switch {
		case domain.IsDone(account.Status):
			done++
		case domain.IsRetrying(account.Status):
			retrying++
		}
	}

	lines := []string{
		s.title.Render("EverText Accounts"),
		s.header.Render(fmt.Sprintf("accounts: %d  done: %d  pending: %d  retrying: %d",
			len(accounts), done, len(accounts)-done-retrying, retrying)),
	}

	if len(accounts) == 0 {
		lines = append(lines, s.empty.Render("No accounts registered."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines = append(lines, renderProgressBar(done, len(accounts), 24, s))
	for _, account := range accounts {
		lines = append(lines, s.section.Render(renderAccount(account, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderAccount(account domain.Account, opts RenderOptions, s styles) string {
	parts := []string{
		lipgloss.JoinHorizontal(lipgloss.Top, s.account.Render(accountTitle(account)), " ", statusBadge(account.Status, s)),
		s.detail.Render(fmt.Sprintf("server: %s  ping: %s", serverLabel(account.TargetServer), onOff(account.PingEnabled))),
		s.detail.Render("last run: " + formatLastRun(account.LastRunAt, opts)),
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderHistory(records []domain.RunRecord, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Recent Runs"),
		s.header.Render(fmt.Sprintf("runs: %d", len(records))),
	}

	if len(records) == 0 {
		lines = append(lines, s.empty.Render("No runs recorded."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, record := range records {
		outcome := s.failed
		if record.Outcome == domain.OutcomeSessionComplete {
			outcome = s.done
		}

		line := lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.header.Render(formatTimestamp(record.StartedAt, opts)),
			" ",
			s.account.Render(record.Account),
			" ",
			outcome.Render(string(record.Outcome)),
			" ",
			s.detail.Render(fmt.Sprintf("(%s)", record.Duration().Round(time.Second))),
		)
		if record.Message != "" {
			line += " " + s.warning.Render(record.Message)
		}
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func accountTitle(account domain.Account) string {
	name := strings.TrimSpace(account.Name)
	if account.OwnerName != "" {
		return fmt.Sprintf("%s (%s)", name, account.OwnerName)
	}
	return name
}

func statusBadge(status string, s styles) string {
	switch {
	case domain.IsDone(status):
		return s.done.Render("[done]")
	case domain.IsRetrying(status):
		return s.failed.Render("[" + status + "]")
	case status == "":
		return s.pending.Render("[" + domain.StatusPending + "]")
	default:
		return s.pending.Render("[" + status + "]")
	}
}

func serverLabel(target string) string {
	if strings.TrimSpace(target) == "" {
		return "first listed"
	}
	return target
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}

func formatLastRun(lastRun *time.Time, opts RenderOptions) string {
	if lastRun == nil || lastRun.IsZero() {
		return "never"
	}

	stamp := formatTimestamp(*lastRun, opts)
	if opts.Now.IsZero() || lastRun.After(opts.Now) {
		return stamp
	}

	return fmt.Sprintf("%s (%s ago)", stamp, formatAge(opts.Now.Sub(*lastRun)))
}

func formatTimestamp(t time.Time, opts RenderOptions) string {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("2006-01-02 15:04")
}

func formatAge(elapsed time.Duration) string {
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return plural(int(elapsed.Minutes()), "minute")
	case elapsed < 24*time.Hour:
		return plural(int(elapsed.Hours()), "hour")
	default:
		return plural(int(elapsed.Hours()/24), "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func renderProgressBar(done, total, width int, s styles) string {
	if width <= 0 || total <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * float64(done) / float64(total)))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	percent := 100 * float64(done) / float64(total)
	percentStyle := lipgloss.NewStyle().Foreground(interpolateColor(percent, 0, 100))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
		" ",
		percentStyle.Render(fmt.Sprintf("%.0f%% done", percent)),
	)
}

func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	// ANSI 256 greyscale ramp, faded at min and bright at max.
	baseColor := 240.0
	targetColor := 255.0
	colorCode := int(baseColor + (targetColor-baseColor)*normalized)

	return lipgloss.Color(fmt.Sprintf("%d", colorCode))
}
