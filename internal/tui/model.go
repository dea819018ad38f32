package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Asside333/HabitHub/internal/config"
	"github.com/Asside333/HabitHub/internal/engine"
	"github.com/Asside333/HabitHub/internal/ui"
)

type boardModel struct {
	ctx context.Context
	svc *engine.Service

	width  int
	height int

	quests   []config.Quest
	selected int

	lastLog string
	loading bool
	err     error
}

type refreshedMsg struct {
	err error
}

type claimedMsg struct {
	actionID string
	res      engine.ClaimResult
	rollback bool
	err      error
}

func newBoardModel(ctx context.Context, svc *engine.Service) boardModel {
	return boardModel{
		ctx:     ctx,
		svc:     svc,
		quests:  svc.Config().VisibleQuests(),
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.refreshCmd()
}

func (m boardModel) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		return refreshedMsg{err: m.svc.EnsureDailyProgress(m.ctx)}
	}
}

func (m boardModel) toggleCmd(actionID string) tea.Cmd {
	return func() tea.Msg {
		if m.svc.HasClaim(actionID, "") {
			res, err := m.svc.RollbackClaim(m.ctx, actionID, "")
			return claimedMsg{actionID: actionID, res: res, rollback: true, err: err}
		}
		res, err := m.svc.ClaimReward(m.ctx, actionID, "")
		return claimedMsg{actionID: actionID, res: res, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case refreshedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Refresh failed: " + msg.err.Error()
			return m, nil
		}
		m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		return m, nil
	case claimedMsg:
		if msg.err != nil {
			m.lastLog = "Claim failed: " + msg.err.Error()
			return m, nil
		}
		m.lastLog = m.describeClaim(msg)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.refreshCmd()
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.quests)-1 {
				m.selected++
			}
			return m, nil
		case "c", " ", "enter":
			if m.selected < 0 || m.selected >= len(m.quests) {
				return m, nil
			}
			q := m.quests[m.selected]
			m.lastLog = fmt.Sprintf("Toggling %s…", q.ID)
			return m, m.toggleCmd(q.ID)
		}
	}
	return m, nil
}

func (m boardModel) describeClaim(msg claimedMsg) string {
	if !msg.res.Applied {
		return fmt.Sprintf("%s: %s", msg.actionID, msg.res.Reason)
	}
	verb := "Claimed"
	if msg.rollback {
		verb = "Rolled back"
	}
	line := fmt.Sprintf("%s %s: %+d XP %+d gold (%s)", verb, msg.actionID, msg.res.XPDelta, msg.res.GoldDelta, msg.res.Reason)
	if msg.res.LevelUp != nil {
		line += fmt.Sprintf(" %s → level %d, +%d gold", ui.BadgeLevelUp, msg.res.LevelUp.NewLevel, msg.res.LevelUp.GoldBonus)
	}
	return line
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	// Simple 2-column layout.
	leftW := 26
	if m.width > 0 {
		maxLeft := m.width / 2
		if maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 18 {
			leftW = 18
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	rows := len(linesLeft)
	if len(linesRight) > rows {
		rows = len(linesRight)
	}

	var body strings.Builder
	for i := 0; i < rows; i++ {
		l := ""
		r := ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + footer
}

func (m boardModel) renderHeader() string {
	st := m.svc.State()
	progress := m.svc.LevelProgress()
	bar := ui.ProgressBar(progress.Ratio, 30)
	return fmt.Sprintf("HabitHub | %s | Level %d | XP %d/%d %s | %s %d",
		m.svc.ActiveDate(), progress.Level, progress.XPIntoLevel, progress.XPNeeded, bar, ui.IconFire, st.Progress.Streak)
}

func (m boardModel) renderSidebar() string {
	st := m.svc.State()
	w := st.Cycles.Weekly
	lines := []string{"Progress"}
	lines = append(lines, fmt.Sprintf("- %s gold: %d", ui.IconCoin, st.Currencies.Gold))
	lines = append(lines, fmt.Sprintf("- %s tokens: %d", ui.IconTrophy, st.Currencies.Tokens))
	lines = append(lines, fmt.Sprintf("- %s tier: %s", ui.IconSparkle, ui.TierText(st.Daily.Tier)))
	lines = append(lines, fmt.Sprintf("- %s shield: %d", ui.IconShield, st.Progress.StreakShield))
	lines = append(lines, "")
	lines = append(lines, "This week")
	lines = append(lines, fmt.Sprintf("- score: %d", w.Score))
	if w.BossMaxHP > 0 {
		lines = append(lines, fmt.Sprintf("- %s boss: %d/%d", ui.IconBoss, w.BossHP, w.BossMaxHP))
	}
	if w.ChestTierID != "" {
		lines = append(lines, fmt.Sprintf("- %s chest: %s", ui.IconChest, w.ChestTierID))
	}
	lines = append(lines, "")
	lines = append(lines, "Keys")
	lines = append(lines, "- ↑/↓ or j/k: move")
	lines = append(lines, "- c/space: toggle")
	lines = append(lines, "- r: refresh")
	lines = append(lines, "- q: quit")
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if m.loading {
		return "Loading…"
	}
	var out []string
	out = append(out, "Today")
	if len(m.quests) == 0 {
		out = append(out, "(no quests configured)")
		return strings.Join(out, "\n")
	}
	for i, q := range m.quests {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		mark := "☐"
		if m.svc.HasClaim(q.ID, "") {
			mark = ui.IconDone
		}
		xp, gold := engine.RewardPreview(m.svc.Config(), q)
		out = append(out, fmt.Sprintf("%s%s %s (+%d XP, +%d gold)", cursor, mark, q.Title, xp, gold))
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	return "\n" + m.lastLog
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
