package installer

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/sandevgo/sentinel/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var enter = tea.KeyMsg{Type: tea.KeyEnter}

func TestFinalize_Defaults(t *testing.T) {
	s := Settings{TelegramToken: "leftover", TelegramOwnerID: 7}
	Finalize(&s)

	assert.Equal(t, config.StorageSQLite, s.Storage)
	assert.Equal(t, config.DriverCGO, s.DBDriver)
	assert.Equal(t, int64(1), s.OrgID)
	assert.Empty(t, s.TelegramToken, "telegram disabled clears credentials")
	assert.Zero(t, s.TelegramOwnerID)
	assert.Equal(t, "0", s.Debug)
}

func TestWriteEnv_RoundTripsThroughGodotenv(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "runtime")
	s := Settings{
		Storage:         config.StorageSQLite,
		DBDriver:        config.DriverPure,
		OrgID:           42,
		EnableTelegram:  true,
		TelegramToken:   "123:abc",
		TelegramOwnerID: 99,
	}

	path, err := WriteEnv(dir, s)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".env"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	vars, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", vars["SENTINEL_STORAGE"])
	assert.Equal(t, "sqlite", vars["SENTINEL_DB_DRIVER"])
	assert.Equal(t, "42", vars["SENTINEL_ORG_ID"])
	assert.Equal(t, "true", vars["SENTINEL_ENABLE_TELEGRAM"])
	assert.Equal(t, "123:abc", vars["SENTINEL_TELEGRAM_TOKEN"])
	assert.Equal(t, "99", vars["SENTINEL_TELEGRAM_OWNER_ID"])
}

func TestWriteEnv_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("X=1\n"), 0600))

	_, err := WriteEnv(dir, Settings{OrgID: 1})
	assert.ErrorContains(t, err, "already exists")

	data, err := os.ReadFile(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Equal(t, "X=1\n", string(data))
}

func TestStorageStep_Choice(t *testing.T) {
	st := NewInstallState(t.TempDir())
	step := NewStorageStep()

	step, _ = step.Update(tea.KeyMsg{Type: tea.KeyDown}, st, 80, 24)
	require.NotNil(t, step)
	next, _ := step.Update(enter, st, 80, 24)

	assert.Nil(t, next)
	assert.Equal(t, config.StorageSQLite, st.Settings.Storage)
	assert.Equal(t, config.DriverPure, st.Settings.DBDriver)
}

func TestOrgStep_RejectsNonNumeric(t *testing.T) {
	st := NewInstallState(t.TempDir())
	step := NewOrgStep()

	step, _ = step.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("acme")}, st, 80, 24)
	step, _ = step.Update(enter, st, 80, 24)
	require.NotNil(t, step, "invalid id keeps the step active")
	assert.Contains(t, step.View(st), "not a positive number")

	in := step.(*inputStep)
	in.input.SetValue("7")
	next, _ := step.Update(enter, st, 80, 24)
	assert.Nil(t, next)
	assert.Equal(t, int64(7), st.Settings.OrgID)
}

func TestTelegramSteps_SkippedWhenDisabled(t *testing.T) {
	st := NewInstallState(t.TempDir())

	next, _ := NewTelegramTokenStep().Update(nextMsg{}, st, 80, 24)
	assert.Nil(t, next)
	next, _ = NewTelegramOwnerStep().Update(nextMsg{}, st, 80, 24)
	assert.Nil(t, next)
}

func TestTelegramTokenStep_RequiresValue(t *testing.T) {
	st := NewInstallState(t.TempDir())
	st.Settings.EnableTelegram = true

	step := NewTelegramTokenStep()
	next, _ := step.Update(enter, st, 80, 24)
	assert.NotNil(t, next)
	assert.Empty(t, st.Settings.TelegramToken)
}

func TestSaveEnvStep_WritesFile(t *testing.T) {
	dir := t.TempDir()
	st := NewInstallState(dir)
	st.Settings.Storage = config.StorageMemory

	next, _ := NewSaveEnvStep().Update(nextMsg{}, st, 80, 24)
	assert.Nil(t, next)
	assert.Equal(t, filepath.Join(dir, ".env"), st.EnvPath)

	vars, err := godotenv.Read(st.EnvPath)
	require.NoError(t, err)
	assert.Equal(t, "memory", vars["SENTINEL_STORAGE"])
	_, hasDriver := vars["SENTINEL_DB_DRIVER"]
	assert.False(t, hasDriver)
}

func TestSummary_ListsChoices(t *testing.T) {
	st := NewInstallState(t.TempDir())
	st.Settings = Settings{Storage: "sqlite", DBDriver: "sqlite", OrgID: 3, EnableTelegram: true, TelegramOwnerID: 55}
	st.EnvPath = "/tmp/x/.env"

	out := summary(st)
	assert.Contains(t, out, "org id:   3")
	assert.Contains(t, out, "owner 55")
	assert.Contains(t, out, "/tmp/x/.env")
}
