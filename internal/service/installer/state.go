package installer

// Settings is what the wizard writes to <runtime>/.env. Tags mirror the
// config package so the file round-trips through env.Parse.
type Settings struct {
	Storage         string `env:"SENTINEL_STORAGE"`
	DBDriver        string `env:"SENTINEL_DB_DRIVER"`
	OrgID           int64  `env:"SENTINEL_ORG_ID"`
	EnableTelegram  bool   `env:"SENTINEL_ENABLE_TELEGRAM"`
	TelegramToken   string `env:"SENTINEL_TELEGRAM_TOKEN"`
	TelegramOwnerID int64  `env:"SENTINEL_TELEGRAM_OWNER_ID"`
	Debug           string `env:"SENTINEL_DEBUG"`
}

type InstallState struct {
	RuntimePath string
	Settings    Settings
	EnvPath     string
}

func NewInstallState(runtimePath string) *InstallState {
	return &InstallState{RuntimePath: runtimePath}
}
