package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/selivandex/vitals-bot/internal/adapters/config"
	"github.com/selivandex/vitals-bot/pkg/logger"
)

// CommandHandler handles bot commands
type CommandHandler interface {
	HandleStatus(ctx context.Context, chatID int64, args string) (string, error)
	HandleTrends(ctx context.Context, chatID int64) (string, error)
	HandleFood(ctx context.Context, chatID int64, args string) (string, error)
	HandleFoods(ctx context.Context, chatID int64) (string, error)
	HandleDrug(ctx context.Context, chatID int64, args string) (string, error)
	HandleDrugs(ctx context.Context, chatID int64) (string, error)
	HandleLink(ctx context.Context, chatID int64, args string) (string, error)
	HandleSync(ctx context.Context, chatID int64) (string, error)
}

// Bot represents the Telegram front-end. Transport only: every command is
// delegated to the handler and the reply sent back verbatim.
type Bot struct {
	api            *tgbotapi.BotAPI
	commandHandler CommandHandler
}

// NewBot creates new Telegram bot
func NewBot(cfg *config.TelegramConfig, handler CommandHandler) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	logger.Info("telegram bot initialized",
		zap.String("username", api.Self.UserName),
	)

	return &Bot{
		api:            api,
		commandHandler: handler,
	}, nil
}

// Start starts listening for commands
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	logger.Info("telegram bot started, listening for commands")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil {
				continue
			}

			go b.handleCommand(ctx, update.Message)
		}
	}
}

// handleCommand processes incoming commands
func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	if !message.IsCommand() {
		return
	}

	command := message.Command()
	args := message.CommandArguments()
	chatID := message.Chat.ID

	logger.Info("received telegram command",
		zap.String("command", command),
		zap.Int64("from_chat", chatID),
	)

	var response string
	var err error

	switch command {
	case "start":
		response = b.getWelcomeMessage()
	case "help":
		response = b.getHelpMessage()
	case "status":
		response, err = b.commandHandler.HandleStatus(ctx, chatID, args)
	case "trends":
		response, err = b.commandHandler.HandleTrends(ctx, chatID)
	case "food":
		response, err = b.commandHandler.HandleFood(ctx, chatID, args)
	case "foods":
		response, err = b.commandHandler.HandleFoods(ctx, chatID)
	case "drug":
		response, err = b.commandHandler.HandleDrug(ctx, chatID, args)
	case "drugs":
		response, err = b.commandHandler.HandleDrugs(ctx, chatID)
	case "link":
		response, err = b.commandHandler.HandleLink(ctx, chatID, args)
	case "sync":
		response, err = b.commandHandler.HandleSync(ctx, chatID)
	default:
		response = fmt.Sprintf("❓ Unknown command: /%s\nUse /help to see available commands", command)
	}

	if err != nil {
		response = fmt.Sprintf("❌ Error: %v", err)
		logger.Error("command handler error", zap.Error(err), zap.String("command", command))
	}

	if err := b.SendMessage(chatID, response); err != nil {
		logger.Error("failed to send telegram response", zap.Error(err))
	}
}

// SendMessage sends text message to a chat
func (b *Bot) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func (b *Bot) getWelcomeMessage() string {
	return `👋 Welcome to vitals-bot!

I track your daily health telemetry against your personal baselines and tell you when something drifts.

Start with /link <provider login> to connect your tracker, then /status for today's picture.

Use /help to see all commands.`
}

func (b *Bot) getHelpMessage() string {
	return `Available commands:

/status [YYYY-MM-DD] - daily metric status vs your baselines
/trends - 7-day rolling averages
/link <login> - connect your tracker account
/sync - force a provider sync now
/food <name> <protein> <carbs> <fats> - log a food
/foods - today's food log with totals
/drug <name> <dosage_mg> - log a medication
/drugs - today's drug log
/help - this message`
}
