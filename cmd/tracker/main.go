// Window Seat Tracker
// Interactive terminal client: pick an aircraft from the live feed and
// follow it through a bounded polling loop
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/windowseat/windowseat/internal/source"
	"github.com/windowseat/windowseat/pkg/config"
	"github.com/windowseat/windowseat/pkg/opensky"
	"github.com/windowseat/windowseat/pkg/tracking"
)

var (
	configPath = flag.String("config", "configs/config.json", "Path to configuration file")
	offline    = flag.Bool("offline", false, "Use only the on-disk snapshot")
)

type phase int

const (
	phaseLoading phase = iota
	phaseSelect
	phaseTracking
	phaseDone
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Background(lipgloss.Color("235")).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	inputStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	commentSty  = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Italic(true)
	sourceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

type model struct {
	cfg    *config.Config
	states *source.Source

	phase      phase
	candidates []opensky.StateVector
	provenance source.Provenance
	inputBuf   string
	inputErr   string

	callsign   string
	tracked    *tracking.TrackedState
	trackProv  source.Provenance
	trackErr   error
	iterations int

	err error
}

// statesMsg carries a feed fetch result back into the update loop.
type statesMsg struct {
	payload *opensky.StatesResponse
	prov    source.Provenance
	err     error
}

type tickMsg time.Time

func (m model) fetchStates() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.cfg.Upstream.Timeout()+5*time.Second)
		defer cancel()
		payload, prov, err := m.states.GetStates(ctx)
		return statesMsg{payload: payload, prov: prov, err: err}
	}
}

func (m model) tick() tea.Cmd {
	interval := time.Duration(m.cfg.Tracker.IntervalSeconds) * time.Second
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return m.fetchStates()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}
		if m.phase == phaseSelect {
			return m.updateSelect(msg)
		}
		if m.phase == phaseDone {
			return m, tea.Quit
		}

	case statesMsg:
		return m.updateStates(msg)

	case tickMsg:
		if m.phase == phaseTracking {
			return m, m.fetchStates()
		}
	}

	return m, nil
}

func (m model) updateSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		n, err := strconv.Atoi(strings.TrimSpace(m.inputBuf))
		if err != nil || n < 1 || n > len(m.candidates) {
			m.inputErr = fmt.Sprintf("Enter a number between 1 and %d", len(m.candidates))
			m.inputBuf = ""
			return m, nil
		}
		sv := m.candidates[n-1]
		m.callsign = tracking.NormalizeCallsign(sv.Callsign)
		m.phase = phaseTracking
		m.inputErr = ""
		ts := tracking.Project(sv)
		m.tracked = &ts
		m.trackProv = m.provenance
		m.iterations = 1
		return m, m.tick()
	case "backspace":
		if len(m.inputBuf) > 0 {
			m.inputBuf = m.inputBuf[:len(m.inputBuf)-1]
		}
	default:
		if len(msg.String()) == 1 && msg.String() >= "0" && msg.String() <= "9" {
			m.inputBuf += msg.String()
		}
	}
	return m, nil
}

func (m model) updateStates(msg statesMsg) (tea.Model, tea.Cmd) {
	switch m.phase {
	case phaseLoading:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.provenance = msg.prov
		m.candidates = tracking.SelectCandidates(msg.payload.States, m.cfg.Tracker.MaxList)
		if len(m.candidates) == 0 {
			m.err = fmt.Errorf("no aircraft with a callsign in the current feed")
			return m, tea.Quit
		}
		m.phase = phaseSelect
		return m, nil

	case phaseTracking:
		m.iterations++
		if msg.err != nil {
			m.trackErr = msg.err
			m.tracked = nil
		} else {
			m.trackErr = nil
			m.trackProv = msg.prov
			if sv, found := tracking.FindByCallsign(msg.payload.States, m.callsign); found {
				ts := tracking.Project(*sv)
				m.tracked = &ts
			} else {
				m.tracked = nil
			}
		}
		if m.iterations >= m.cfg.Tracker.MaxIterations {
			m.phase = phaseDone
			return m, nil
		}
		return m, m.tick()
	}

	return m, nil
}

func (m model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("WINDOW SEAT TRACKER"))
	s.WriteString("\n\n")

	switch m.phase {
	case phaseLoading:
		s.WriteString("Fetching aircraft states...\n")

	case phaseSelect:
		s.WriteString(headerStyle.Render("Aircraft overhead:"))
		s.WriteString(fmt.Sprintf(" (%d, %s)\n\n", len(m.candidates), sourceStyle.Render(m.provenance.String())))
		for i, sv := range m.candidates {
			c := tracking.Summarize(sv)
			s.WriteString(fmt.Sprintf("  %2d. %-8s  %-20s  %s\n", i+1, c.Callsign, c.OriginCountry, c.RoughLocation))
		}
		s.WriteString("\n")
		if m.inputErr != "" {
			s.WriteString(errStyle.Render(m.inputErr))
			s.WriteString("\n")
		}
		s.WriteString(promptStyle.Render("Pick an aircraft to follow:"))
		s.WriteString(" ")
		s.WriteString(inputStyle.Render(m.inputBuf + "_"))
		s.WriteString("\n\n")
		s.WriteString(dimStyle.Render("ENTER: Track  Q: Quit"))
		s.WriteString("\n")

	case phaseTracking, phaseDone:
		s.WriteString(headerStyle.Render(fmt.Sprintf("Tracking %s", m.callsign)))
		s.WriteString(fmt.Sprintf("  (update %d/%d, %s)\n\n", m.iterations, m.cfg.Tracker.MaxIterations, sourceStyle.Render(m.trackProv.String())))

		switch {
		case m.trackErr != nil:
			s.WriteString(errStyle.Render(fmt.Sprintf("Fetch failed: %v", m.trackErr)))
			s.WriteString("\n")
		case m.tracked == nil:
			s.WriteString(dimStyle.Render("Aircraft no longer in the feed. Waiting for the next update..."))
			s.WriteString("\n")
		default:
			t := m.tracked
			s.WriteString(fmt.Sprintf("  ICAO24:        %s\n", t.ICAO24))
			s.WriteString(fmt.Sprintf("  Origin:        %s\n", t.OriginCountry))
			s.WriteString(fmt.Sprintf("  Position:      %s, %s\n", fmtCoord(t.Latitude), fmtCoord(t.Longitude)))
			s.WriteString(fmt.Sprintf("  Location:      %s\n", t.RoughLocation))
			s.WriteString(fmt.Sprintf("  Altitude:      %s\n", fmtAltitude(t.Altitude)))
			s.WriteString(fmt.Sprintf("  Last contact:  %s\n", t.LastContact))
			s.WriteString("\n")
			s.WriteString(commentSty.Render("  " + t.CommentText))
			s.WriteString("\n")
		}

		s.WriteString("\n")
		if m.phase == phaseDone {
			s.WriteString(dimStyle.Render("Tracking finished. Press any key to exit."))
		} else {
			s.WriteString(dimStyle.Render(fmt.Sprintf("Updating every %ds  Q: Quit", m.cfg.Tracker.IntervalSeconds)))
		}
		s.WriteString("\n")
	}

	return s.String()
}

func fmtCoord(v *float64) string {
	if v == nil {
		return "?"
	}
	return fmt.Sprintf("%.4f", *v)
}

func fmtAltitude(meters *float64) string {
	if meters == nil {
		return "unknown"
	}
	return fmt.Sprintf("%.0f m (%.0f ft)", *meters, *meters*tracking.MetersToFeet)
}

func main() {
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *offline {
		cfg.Source.ForceOffline = true
	}

	client := opensky.NewClient(
		opensky.WithBaseURL(cfg.Upstream.BaseURL),
		opensky.WithTimeout(cfg.Upstream.Timeout()),
		opensky.WithRateInterval(cfg.Upstream.RateInterval()),
		opensky.WithCredentials(cfg.Upstream.Username, cfg.Upstream.Password),
	)

	// Zero-TTL cache: the polling loop would otherwise be served the
	// same cached payload whenever the poll interval is shorter than
	// the cache TTL.
	states := source.New(
		client,
		source.NewCache(0),
		source.NewSnapshotStore(cfg.Source.SnapshotPath),
		source.Options{
			SaveSnapshot: cfg.Source.SaveSnapshot,
			ForceOffline: cfg.Source.ForceOffline,
		},
	)

	m := model{
		cfg:    cfg,
		states: states,
		phase:  phaseLoading,
	}

	p := tea.NewProgram(m)
	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if fm, ok := final.(model); ok && fm.err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", fm.err)
		os.Exit(1)
	}
}
