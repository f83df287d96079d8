package bot

import (
	"context"
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"eventsort/internal/auth"
	"eventsort/internal/events"
	"eventsort/internal/extract"
	"eventsort/internal/feed"
)

const extractTimeout = 60 * time.Second

const helpText = "How this works:\n" +
	"1. Forward an event message to me\n" +
	"2. I'll extract date, location, link, etc. and save it\n" +
	"3. Use /review to sort your saved events\n\n" +
	"Commands:\n" +
	"/start - Start conversation\n" +
	"/review - Get a link to your review page\n" +
	"/help - Show this message"

// Bot dispatches Telegram updates into the extraction pipeline.
type Bot struct {
	API    *tgbotapi.BotAPI
	Oracle extract.Oracle
	Events *events.Repo
	Tokens *auth.Repo
	Hub    *feed.Hub // optional

	ReviewBaseURL string
}

func New(api *tgbotapi.BotAPI, oracle extract.Oracle, eventsRepo *events.Repo, tokens *auth.Repo, reviewBaseURL string) *Bot {
	return &Bot{
		API:           api,
		Oracle:        oracle,
		Events:        eventsRepo,
		Tokens:        tokens,
		ReviewBaseURL: reviewBaseURL,
	}
}

// Run long-polls until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.API.GetUpdatesChan(u)

	log.Printf("[bot] running as @%s", b.API.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.API.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.reply(msg, "Hi! Forward me a campus event announcement and I'll extract the details for you. /help for more.")
		case "help":
			b.reply(msg, helpText)
		case "review":
			b.handleReview(ctx, msg)
		default:
			b.reply(msg, "Unknown command. /help for what I can do.")
		}
		return
	}

	b.handleMessage(ctx, msg)
}

// handleReview issues a one-time login token and sends the review link.
func (b *Bot) handleReview(ctx context.Context, msg *tgbotapi.Message) {
	_ = b.Tokens.PurgeExpired(ctx)

	token, err := b.Tokens.Issue(ctx, msg.From.ID, msg.From.UserName)
	if err != nil {
		log.Printf("[bot] issue login token: %v", err)
		b.reply(msg, "Sorry, I couldn't create a login link right now. Try again in a bit.")
		return
	}

	b.reply(msg, fmt.Sprintf(
		"Here's your review link (valid for %d minutes, single use):\n%s/?token=%s",
		int(auth.TokenTTL.Minutes()), b.ReviewBaseURL, token,
	))
}

// handleMessage runs the extraction pipeline on a forwarded announcement.
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	text := msg.Text
	if text == "" {
		text = msg.Caption // media with captions
	}

	if !isForwarded(msg) {
		b.reply(msg, "Please forward an event message to me :)")
		return
	}
	if text == "" {
		b.reply(msg, "The forwarded message has no text content for me to extract :(")
		return
	}

	b.reply(msg, "⏳ Extracting event details...")

	cctx, cancel := context.WithTimeout(ctx, extractTimeout)
	defer cancel()

	ev, err := extract.Extract(cctx, b.Oracle, text)
	if err != nil {
		// transport failure: apologize, persist nothing
		log.Printf("[bot] extraction failed for user %d: %v", msg.From.ID, err)
		b.reply(msg, "❌ Sorry, I couldn't reach the extraction service. Please try again later.")
		return
	}

	summary := extract.Format(ev)

	rec, err := b.Events.Save(ctx, ev, msg.From.ID, msg.From.UserName, text)
	if err != nil {
		// the extracted text is still worth showing even when saving failed
		log.Printf("[bot] save failed for user %d: %v", msg.From.ID, err)
		b.reply(msg, summary+"\n\n⚠️ I couldn't save this event, so it won't appear in your review deck.")
		return
	}

	if b.Hub != nil {
		b.Hub.BroadcastEvent(*rec)
	}

	b.reply(msg, summary)
}

func (b *Bot) reply(msg *tgbotapi.Message, text string) {
	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	out.ReplyToMessageID = msg.MessageID
	if _, err := b.API.Send(out); err != nil {
		log.Printf("[bot] send reply: %v", err)
	}
}

func isForwarded(msg *tgbotapi.Message) bool {
	return msg.ForwardDate != 0 || msg.ForwardFrom != nil || msg.ForwardFromChat != nil
}
