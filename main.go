package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/IGCrystal-NEO/ewords/internal/ai"
	"github.com/IGCrystal-NEO/ewords/internal/bot"
	"github.com/IGCrystal-NEO/ewords/internal/database"
	"github.com/IGCrystal-NEO/ewords/internal/engine"
	"github.com/IGCrystal-NEO/ewords/internal/scheduler"
	"github.com/IGCrystal-NEO/ewords/internal/session"
	"github.com/IGCrystal-NEO/ewords/internal/vocabulary"
)

// reminderNotifier defers to the bot once it exists; the scheduler has to be
// constructed before the bot because the engine sits between them.
type reminderNotifier struct {
	bot *bot.Bot
}

func (n *reminderNotifier) SendReminder(userID string) error {
	if n.bot == nil {
		return errors.New("reminder delivery is not ready yet")
	}
	return n.bot.SendReminder(userID)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	vocabDir := os.Getenv("VOCAB_DIR")
	if vocabDir == "" {
		vocabDir = "data/vocab"
	}
	vocab := vocabulary.NewManager(vocabDir, os.Getenv("DEFAULT_SOURCE"))

	historyRepo := database.NewHistoryRepository(database.DB)
	reminderRepo := database.NewReminderRepository(database.DB)

	var sentences session.SentenceGenerator = ai.Static{}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		sentences = ai.NewChatGPT(key)
	}
	sessions := session.New(historyRepo, sentences)

	notifier := &reminderNotifier{}
	sched := scheduler.New(reminderRepo, notifier)
	eng := engine.New(vocab, historyRepo, sessions, sched)

	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN environment variable is not set")
	}
	b, err := bot.New(token, eng)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}
	notifier.bot = b

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if os.Getenv("ENABLE_SCHEDULER") != "false" {
		sched.Start()
		defer sched.Stop()
		// Fire reminders missed while the process was down, then resume.
		if err := sched.Recover(); err != nil {
			log.Printf("Error recovering reminder jobs: %v", err)
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		sig := <-sigChan
		log.Printf("Received signal: %v", sig)
		cancel()
		b.Stop()
		close(done)
	}()

	log.Println("Bot started. Press Ctrl+C to stop.")
	go func() {
		if err := b.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Bot error: %v", err)
		}
	}()

	<-done
	log.Println("Bot stopped successfully")
}
