package installer

import "github.com/pulsebit/pulsebot/internal/config"

// InstallState accumulates answers as the wizard advances. Steps write into
// the typed configs directly so the save step can marshal them through their
// env tags instead of tracking raw key strings.
type InstallState struct {
	LLM       config.LLMConfig
	Embedding config.EmbeddingConfig
	Telegram  config.TelegramConfig

	EnableTelegram bool
	EnableCLI      bool
}

func NewInstallState() *InstallState {
	return &InstallState{}
}
