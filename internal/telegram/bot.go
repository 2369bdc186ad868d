package telegram

import (
	"fmt"
	"strings"

	"go-jobradar/internal/engine"
	"go-jobradar/internal/models"
	"go-jobradar/internal/reporter"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sender is the part of tgbotapi.BotAPI the bot uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api    sender
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &Bot{
		api:    api,
		chatID: chatID,
	}, nil
}

func (b *Bot) escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
		")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
		"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
		"}", "\\}", ".", "\\.", "!", "\\!",
	)
	return replacer.Replace(text)
}

// SendSummary posts the run summary.
func (b *Bot) SendSummary(r *engine.Report) error {
	msg := tgbotapi.NewMessage(b.chatID, reporter.HTML(r))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) SendJob(job models.JobRecord) error {
	msgText := fmt.Sprintf("🔥 *%s*\n", b.escapeMarkdown(job.Title))
	msgText += fmt.Sprintf("🏢 %s\n", b.escapeMarkdown(orNA(job.Company)))
	if job.Salary != "" && job.Salary != models.Unspecified {
		msgText += fmt.Sprintf("💰 %s\n", b.escapeMarkdown(job.Salary))
	}
	msgText += fmt.Sprintf("📍 %s\n", b.escapeMarkdown(orNA(job.Location)))
	if job.PostedDate != "" {
		msgText += fmt.Sprintf("📅 %s\n", b.escapeMarkdown(job.PostedDate))
	}
	msgText += fmt.Sprintf("🔖 Source: %s\n", b.escapeMarkdown(string(job.Platform)))

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🔗 View Job", job.Link()),
		),
	)

	msg := tgbotapi.NewMessage(b.chatID, msgText)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.ReplyMarkup = keyboard

	_, err := b.api.Send(msg)
	return err
}

// SendJobs posts up to limit postings and returns how many were sent. It stops
// at the first failure.
func (b *Bot) SendJobs(jobs []models.JobRecord, limit int) (int, error) {
	sent := 0
	for _, job := range jobs {
		if limit > 0 && sent >= limit {
			break
		}
		if err := b.SendJob(job); err != nil {
			return sent, fmt.Errorf("send job %s: %w", job.Key(), err)
		}
		sent++
	}
	return sent, nil
}

func (b *Bot) SendError(err error) error {
	msg := tgbotapi.NewMessage(b.chatID, fmt.Sprintf("❌ Error: %v", err))
	_, sendErr := b.api.Send(msg)
	return sendErr
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
