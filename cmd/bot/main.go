package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"eventsort/internal/auth"
	"eventsort/internal/bot"
	"eventsort/internal/events"
	"eventsort/internal/oracle"
	"eventsort/pkg/database"
	"eventsort/pkg/utils"
)

func main() {
	botCfg := utils.LoadBotConfig()
	if botCfg.TelegramToken == "" {
		log.Fatal("EVENTSORT_TELEGRAM_TOKEN is required")
	}

	db := database.MustOpen(utils.LoadStorageConfig().Path)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	client, err := oracle.NewAnthropic(utils.LoadOracleConfig())
	if err != nil {
		log.Fatalf("oracle client failed: %v", err)
	}

	api, err := tgbotapi.NewBotAPI(botCfg.TelegramToken)
	if err != nil {
		log.Fatalf("telegram connect failed: %v", err)
	}

	b := bot.New(api, client, events.NewRepo(db), auth.NewRepo(db), botCfg.ReviewBaseURL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("shutdown signal received: %s", sig)
		cancel()
	}()

	log.Println("🤖 Bot is running... (Press Ctrl+C to stop)")
	if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("bot stopped: %v", err)
	}
	log.Println("bot stopped")
}
