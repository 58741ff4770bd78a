package installer

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/sentinel/internal/config"
	"github.com/sandevgo/sentinel/pkg/env"
)

// Finalize fills defaults the user was not asked about.
func Finalize(s *Settings) {
	if s.Storage == "" {
		s.Storage = config.StorageSQLite
		s.DBDriver = config.DriverCGO
	}
	if s.OrgID == 0 {
		s.OrgID = 1
	}
	if !s.EnableTelegram {
		s.TelegramToken = ""
		s.TelegramOwnerID = 0
	}
	if s.Debug == "" {
		s.Debug = "0"
	}
}

// WriteEnv writes settings to <dir>/.env and refuses to overwrite one.
func WriteEnv(dir string, s Settings) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create runtime directory: %w", err)
	}

	envPath := filepath.Join(dir, ".env")
	if _, err := os.Stat(envPath); err == nil {
		return "", fmt.Errorf(".env file already exists at %s", envPath)
	}

	content, err := env.MarshalEnv(s)
	if err != nil {
		return "", fmt.Errorf("failed to render .env: %w", err)
	}
	if err := os.WriteFile(envPath, []byte(content), 0600); err != nil {
		return "", fmt.Errorf("failed to write .env: %w", err)
	}
	return envPath, nil
}

// SaveEnvStep finalizes the collected settings and writes them to .env
type SaveEnvStep struct {
	err   error
	saved bool
}

func NewSaveEnvStep() Step {
	return &SaveEnvStep{}
}

func (s *SaveEnvStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *SaveEnvStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.saved {
		return nil, nil
	}
	if s.err != nil {
		return s, nil
	}

	Finalize(&state.Settings)
	path, err := WriteEnv(state.RuntimePath, state.Settings)
	if err != nil {
		s.err = err
		return s, nil
	}

	state.EnvPath = path
	s.saved = true
	return nil, nil
}

func (s *SaveEnvStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.saved {
		return "Configuration saved successfully!\n"
	}
	return "Saving configuration...\n"
}
