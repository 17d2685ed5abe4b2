package synctui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/versync/pkg/synccmd"
)

type SyncModel struct {
	err              error
	startedTargets   []string
	completedTargets []string
	spinner          spinner.Model
	progress         progress.Model
	totalTargets     int
	width            int
	height           int
	mu               sync.RWMutex
	done             bool
}

func NewSyncModel() *SyncModel {
	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	s := spinner.New()
	s.Style = spinnerStyle

	return &SyncModel{
		startedTargets:   []string{},
		completedTargets: []string{},
		spinner:          s,
		progress:         p,
		mu:               sync.RWMutex{},
	}
}

func (m *SyncModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.progress.SetPercent(0))
}

//nolint:ireturn // Third-party.
func (m *SyncModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		if keyExits(msg) {
			return m, tea.Quit
		}

	case teaMsgWriteLog:
		return m, writeLog(msg, m.width)

	case synccmd.EventSetTargetTotal:
		m.mu.Lock()
		defer m.mu.Unlock()

		m.totalTargets = int(msg)

	case synccmd.EventSyncingTarget:
		m.mu.Lock()
		defer m.mu.Unlock()

		m.startedTargets = append(m.startedTargets, string(msg))

	case synccmd.EventSyncedTarget:
		m.mu.Lock()
		defer m.mu.Unlock()

		icon := checkMark
		if msg.Err != nil {
			icon = errorMark
		}

		m.completedTargets = append(m.completedTargets, msg.Target)
		completedCount := len(m.completedTargets)
		progressCmd := m.progress.SetPercent(float64(completedCount) / float64(m.totalTargets))

		if m.totalTargets == completedCount && msg.Err == nil {
			m.done = true

			return m, tea.Sequence(
				tea.Printf("%s %s", icon, msg.Target),
				finalPause(),
				tea.Quit,
			)
		}

		return m, tea.Batch(
			progressCmd,
			tea.Printf("%s %s", icon, msg.Target),
		)

	case synccmd.EventDone:
		// Allow previously sent messages to be drawn.
		preQuitCmd := tea.Tick(time.Millisecond*100, func(_ time.Time) tea.Msg {
			m.mu.Lock()
			defer m.mu.Unlock()

			m.err = msg.Err

			return nil
		})

		return m, tea.Sequence(preQuitCmd, teaQuit())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case progress.FrameMsg:
		newModel, cmd := m.progress.Update(msg)
		if newModel, ok := newModel.(progress.Model); ok {
			m.progress = newModel
		}

		return m, cmd

	case error:
		m.mu.Lock()
		defer m.mu.Unlock()

		m.err = msg

		return m, tea.Sequence(finalPause(), tea.Quit)
	}

	return m, nil
}

func (m *SyncModel) View() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return getErrorMessage(m.err, m.width)
	}

	completedCount := len(m.completedTargets)

	if m.done {
		return doneStyle.Render(fmt.Sprintf("Done! Synchronized %d manifests.\n", completedCount))
	}

	w := lipgloss.Width(strconv.Itoa(m.totalTargets))
	targetCount := fmt.Sprintf(" %*d/%*d", w, completedCount, w, m.totalTargets)

	prog := m.progress.View()
	progRendered := progressStyle.Render(prog + targetCount)
	progCellsRemaining := max(0, m.width-lipgloss.Width(progRendered))
	gap := strings.Repeat(" ", progCellsRemaining)
	progOut := progRendered + gap + "\n"

	inProgressTargets := differenceStringSlices(m.startedTargets, m.completedTargets)

	spinners := []string{}
	for _, target := range inProgressTargets {
		spin := m.spinner.View() + " "
		cellsAvail := max(0, m.width-lipgloss.Width(spin))

		targetName := currentNameStyle.Render(target)
		info := lipgloss.NewStyle().MaxWidth(cellsAvail).Render("Syncing " + targetName)

		cellsRemaining := max(0, m.width-lipgloss.Width(spin+info))
		gap := strings.Repeat(" ", cellsRemaining)

		spinners = append(spinners, spin+info+gap)
	}

	return strings.Join(spinners, "\n") + "\n" + progOut
}

func differenceStringSlices(a, b []string) []string {
	difference := []string{}

	for _, x := range a {
		if !slices.Contains(b, x) {
			difference = append(difference, x)
		}
	}

	return difference
}
