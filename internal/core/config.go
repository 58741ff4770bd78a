package core

type AppConfig interface {
	GetRuntimePath() string
	GetDatabasePath() string
	GetOrgID() int64
	GetLexiconPath() string
	GetSituationMaxTokens() int
	IsTelegramSelected() bool
}

type TelegramConfig interface {
	GetTelegramToken() string
	GetTelegramOwnerID() int64
}
