package installer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/sentinel/internal/config"
)

type option struct {
	label string
	desc  string
	apply func(*InstallState)
}

// choiceStep picks one option with the arrow keys.
type choiceStep struct {
	title   string
	options []option
	cursor  int
}

func (s *choiceStep) Init() tea.Cmd {
	return nil
}

func (s *choiceStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.options)-1 {
				s.cursor++
			}
		case "enter":
			s.options[s.cursor].apply(state)
			return nil, nil
		}
	}
	return s, nil
}

func (s *choiceStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString(s.title + "\n\n")
	for i, o := range s.options {
		desc := ""
		if o.desc != "" {
			desc = descStyle.Render("  " + o.desc)
		}
		if s.cursor == i {
			b.WriteString(selStyle.Render("❯ "+o.label) + desc + "\n")
		} else {
			b.WriteString(itemStyle.Render("  "+o.label) + desc + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}

// inputStep reads one line. apply may reject the value, in which case the
// error is shown and the step stays active.
type inputStep struct {
	prompt string
	input  textinput.Model
	skip   func(*InstallState) bool
	apply  func(*InstallState, string) error
	err    error
}

func newInputStep(prompt, placeholder string, secret bool) *inputStep {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 40
	ti.Placeholder = placeholder
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return &inputStep{prompt: prompt, input: ti}
}

func (s *inputStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *inputStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.skip != nil && s.skip(state) {
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if err := s.apply(state, strings.TrimSpace(s.input.Value())); err != nil {
			s.err = err
			return s, nil
		}
		return nil, nil
	}
	return s, cmd
}

func (s *inputStep) View(state *InstallState) string {
	out := s.prompt + "\n\n" + s.input.View() + "\n\n"
	if s.err != nil {
		out += errorStyle.Render(s.err.Error()) + "\n\n"
	}
	return out + "(press enter to confirm)\n"
}

func NewStorageStep() Step {
	return &choiceStep{
		title: "Where should Sentinel keep truths and ingests?",
		options: []option{
			{"SQLite", "mattn/go-sqlite3, needs cgo", func(st *InstallState) {
				st.Settings.Storage, st.Settings.DBDriver = config.StorageSQLite, config.DriverCGO
			}},
			{"SQLite (pure Go)", "modernc.org/sqlite", func(st *InstallState) {
				st.Settings.Storage, st.Settings.DBDriver = config.StorageSQLite, config.DriverPure
			}},
			{"In memory", "nothing survives a restart", func(st *InstallState) {
				st.Settings.Storage, st.Settings.DBDriver = config.StorageMemory, ""
			}},
		},
	}
}

func NewOrgStep() Step {
	s := newInputStep("Organisation ID (all records are scoped to it):", "1", false)
	s.apply = func(st *InstallState, v string) error {
		if v == "" {
			st.Settings.OrgID = 1
			return nil
		}
		id, err := parseID(v)
		if err != nil {
			return err
		}
		st.Settings.OrgID = id
		return nil
	}
	return s
}

func NewChannelStep() Step {
	return &choiceStep{
		title: "Chat channel for incoming updates:",
		options: []option{
			{"None", "CLI and MCP only", func(st *InstallState) { st.Settings.EnableTelegram = false }},
			{"Telegram", "analyze messages sent to a bot", func(st *InstallState) { st.Settings.EnableTelegram = true }},
		},
	}
}

func telegramOff(st *InstallState) bool {
	return !st.Settings.EnableTelegram
}

func NewTelegramTokenStep() Step {
	s := newInputStep("Enter your Telegram Bot Token:", "123456789:ABCDEF...", true)
	s.skip = telegramOff
	s.apply = func(st *InstallState, v string) error {
		if v == "" {
			return fmt.Errorf("token is required")
		}
		st.Settings.TelegramToken = v
		return nil
	}
	return s
}

func NewTelegramOwnerStep() Step {
	s := newInputStep("Enter your Telegram User ID (Owner):", "123456789", false)
	s.skip = telegramOff
	s.apply = func(st *InstallState, v string) error {
		id, err := parseID(v)
		if err != nil {
			return err
		}
		st.Settings.TelegramOwnerID = id
		return nil
	}
	return s
}

func parseID(v string) (int64, error) {
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%q is not a positive number", v)
	}
	return id, nil
}
