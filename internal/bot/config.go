package bot

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Timeout in seconds for the long-polling updates channel
	UpdateTimeout int
	// Text sent when a reminder fires
	ReminderText string
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		UpdateTimeout: 60,
		ReminderText:  "⏰ Time to study! Memorize a few new words with /memorize.",
	}
}
