package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/IGCrystal-NEO/ewords/internal/database"
	"github.com/IGCrystal-NEO/ewords/internal/engine"
	"github.com/IGCrystal-NEO/ewords/internal/scheduler"
	"github.com/IGCrystal-NEO/ewords/internal/session"
	"github.com/IGCrystal-NEO/ewords/internal/vocabulary"
	"github.com/IGCrystal-NEO/ewords/pkg/models"
)

const defaultSourceNotice = "ℹ️ No source selected, default in use. Pick one with /source <name>."

// HandleCommand handles bot commands
func (b *Bot) HandleCommand(message *tgbotapi.Message) error {
	var err error
	switch message.Command() {
	case "start", "help":
		err = b.handleHelp(message)
	case "memorize":
		err = b.handleMemorize(message)
	case "review":
		err = b.handleReview(message)
	case "verify":
		err = b.handleVerify(message)
	case "sources":
		err = b.handleListSources(message)
	case "source":
		err = b.handleSwitchSource(message)
	case "clear":
		err = b.handleClear(message)
	case "remind":
		err = b.handleRemind(message)
	case "stats":
		err = b.handleStats(message)
	default:
		err = b.reply(message, "Unknown command. See /help.")
	}
	return err
}

func (b *Bot) handleHelp(message *tgbotapi.Message) error {
	text := "📚 ewords — vocabulary memorization bot\n\n" +
		"/memorize [n] - Draw n new words (at least 10) and record them\n" +
		"/review [word|translation|sentence] [group|random] - Start a review\n" +
		"/verify a1; a2; ... - Answer the pending review, in order\n" +
		"/sources - List vocabulary sources\n" +
		"/source <name> - Switch the active source\n" +
		"/stats - Your memorization stats\n" +
		"/clear - Erase your history (irreversible)\n" +
		"/remind <spec> - Set a reminder: \"one day\", \"30 minutes\", \"45\",\n" +
		"    \"once 2 hours\", \"at 2026-01-02 15:04\", or \"cancel\"\n" +
		"/help - This message"
	return b.reply(message, text)
}

func (b *Bot) handleMemorize(message *tgbotapi.Message) error {
	// Missing or non-numeric counts become 0 and are normalized to the
	// floor of 10 by the engine.
	count, _ := strconv.Atoi(strings.TrimSpace(message.CommandArguments()))

	result, err := b.engine.Memorize(userID(message), count)
	if err != nil {
		return b.reply(message, errorText(err))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📝 Drew %d words from %s:\n", len(result.Batch.Words), result.SourceName)
	sb.WriteString(strings.Join(result.Batch.Words, ", "))
	if result.DefaultSourceNotice {
		sb.WriteString("\n\n" + defaultSourceNotice)
	}
	return b.reply(message, sb.String())
}

func (b *Bot) handleReview(message *tgbotapi.Message) error {
	mode, reviewType, err := parseReviewArgs(message.CommandArguments())
	if err != nil {
		return b.reply(message, err.Error())
	}

	result, err := b.engine.Review(userID(message), mode, reviewType)
	if err != nil {
		return b.reply(message, errorText(err))
	}

	var sb strings.Builder
	sb.WriteString("🔍 Review started! Answer with /verify, separating answers with \";\".\n\n")
	for i, prompt := range result.Prompts {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, prompt)
	}
	if result.DefaultSourceNotice {
		sb.WriteString("\n" + defaultSourceNotice)
	}
	return b.reply(message, sb.String())
}

func (b *Bot) handleVerify(message *tgbotapi.Message) error {
	raw := strings.TrimSpace(message.CommandArguments())
	var answers []string
	if raw != "" {
		for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ';' || r == '\n' }) {
			answers = append(answers, strings.TrimSpace(part))
		}
	}

	result, err := b.engine.Verify(userID(message), answers)
	if err != nil {
		return b.reply(message, errorText(err))
	}

	var sb strings.Builder
	for i, v := range result.Verdicts {
		if v.Correct {
			fmt.Fprintf(&sb, "%d. ✅ %s\n", i+1, v.Word)
		} else {
			fmt.Fprintf(&sb, "%d. ❌ %s — expected: %s\n", i+1, v.Word, v.Expected)
		}
	}
	fmt.Fprintf(&sb, "\nResult: %d/%d correct.", result.CorrectCount, result.Total)
	return b.reply(message, sb.String())
}

func (b *Bot) handleListSources(message *tgbotapi.Message) error {
	names := b.engine.ListSources()
	var sb strings.Builder
	sb.WriteString("📖 Available sources:\n")
	for i, name := range names {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, name)
	}
	return b.reply(message, sb.String())
}

func (b *Bot) handleSwitchSource(message *tgbotapi.Message) error {
	name := strings.TrimSpace(message.CommandArguments())
	if name == "" {
		return b.reply(message, "Usage: /source <name>. See /sources for the list.")
	}
	activated, err := b.engine.SwitchSource(name)
	if err != nil {
		return b.reply(message, errorText(err))
	}
	return b.reply(message, fmt.Sprintf("✅ Source switched to %s.", activated))
}

func (b *Bot) handleClear(message *tgbotapi.Message) error {
	if err := b.engine.ClearHistory(userID(message)); err != nil {
		return b.reply(message, errorText(err))
	}
	return b.reply(message, "🗑 History cleared.")
}

func (b *Bot) handleRemind(message *tgbotapi.Message) error {
	raw := strings.TrimSpace(message.CommandArguments())
	if raw == "" {
		return b.reply(message, "Usage: /remind <spec>, e.g. \"one day\", \"30 minutes\", \"once 2 hours\", or \"cancel\".")
	}

	spec, err := scheduler.ParseSpec(raw)
	if err != nil {
		return b.reply(message, errorText(err))
	}
	next, err := b.engine.SetReminder(userID(message), spec)
	if err != nil {
		return b.reply(message, errorText(err))
	}
	if spec.Cancel {
		return b.reply(message, "🔕 Reminder cancelled.")
	}
	return b.reply(message, fmt.Sprintf("🔔 Reminder set. Next: %s.", next.Local().Format("2006-01-02 15:04")))
}

func (b *Bot) handleStats(message *tgbotapi.Message) error {
	stats, err := b.engine.Stats(userID(message))
	if err != nil {
		return b.reply(message, errorText(err))
	}
	if stats.BatchCount == 0 {
		return b.reply(message, "No history yet. Start with /memorize.")
	}
	return b.reply(message, fmt.Sprintf(
		"📊 Your stats:\nBatches: %d\nWords memorized: %d\nLast batch: %s",
		stats.BatchCount, stats.WordCount, stats.LastBatchAt.Local().Format("2006-01-02 15:04")))
}

// parseReviewArgs reads optional "mode type" arguments, defaulting to a
// word->translation review of the latest batch.
func parseReviewArgs(raw string) (models.ReviewMode, models.ReviewType, error) {
	mode := models.WordToTranslation
	reviewType := models.ReviewByGroup

	for _, arg := range strings.Fields(strings.ToLower(raw)) {
		switch arg {
		case "word", "w":
			mode = models.WordToTranslation
		case "translation", "t":
			mode = models.TranslationToWord
		case "sentence", "s":
			mode = models.SentenceToTranslation
		case "group", "g":
			reviewType = models.ReviewByGroup
		case "random", "r":
			reviewType = models.ReviewRandom
		default:
			return "", "", fmt.Errorf("unknown review option %q; use [word|translation|sentence] [group|random]", arg)
		}
	}
	return mode, reviewType, nil
}

// userID derives the engine's opaque user identifier from the chat.
func userID(message *tgbotapi.Message) string {
	return strconv.FormatInt(message.Chat.ID, 10)
}

// errorText renders core errors as user-facing replies.
func errorText(err error) string {
	switch {
	case errors.Is(err, vocabulary.ErrSourceNotFound):
		return "❌ No such source. The previous source stays active; see /sources."
	case errors.Is(err, vocabulary.ErrSourceParse):
		return "❌ That source file is malformed. The previous source stays active."
	case errors.Is(err, engine.ErrVocabularyExhausted):
		return "🎉 You have memorized every word of the active source! Switch with /source or /clear to start over."
	case errors.Is(err, session.ErrNoHistory):
		return "📭 Nothing to review yet. Memorize some words first with /memorize."
	case errors.Is(err, session.ErrNoPendingReview):
		return "📭 No pending review. Start one with /review."
	case errors.Is(err, scheduler.ErrInvalidSpec):
		return "❌ Could not understand that reminder. Try \"one day\", \"30 minutes\", \"once 2 hours\", \"at 2026-01-02 15:04\", or \"cancel\"."
	case errors.Is(err, database.ErrStorage):
		return "⚠️ Storage trouble, please try again."
	default:
		return "⚠️ Something went wrong: " + err.Error()
	}
}
