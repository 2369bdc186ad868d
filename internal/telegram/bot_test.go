package telegram

import (
	"errors"
	"testing"
	"time"

	"go-jobradar/internal/engine"
	"go-jobradar/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent   []tgbotapi.MessageConfig
	failAt int
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg, ok := c.(tgbotapi.MessageConfig)
	if !ok {
		return tgbotapi.Message{}, errors.New("unexpected chattable")
	}
	if f.failAt > 0 && len(f.sent)+1 == f.failAt {
		return tgbotapi.Message{}, errors.New("429 too many requests")
	}
	f.sent = append(f.sent, msg)
	return tgbotapi.Message{}, nil
}

func newTestBot() (*Bot, *fakeSender) {
	fs := &fakeSender{}
	return &Bot{api: fs, chatID: 42}, fs
}

func TestEscapeMarkdown(t *testing.T) {
	b, _ := newTestBot()
	assert.Equal(t, `Sr\. DevOps \(Remote\) \- $50k\+`, b.escapeMarkdown("Sr. DevOps (Remote) - $50k+"))
}

func TestSendJob(t *testing.T) {
	b, fs := newTestBot()
	job := models.JobRecord{
		ID: "123", Platform: models.PlatformOCC, Title: "SRE (Sr.)",
		Company: "Acme", Salary: models.Unspecified, DiscoveredAt: time.Now(),
	}
	require.NoError(t, b.SendJob(job))
	require.Len(t, fs.sent, 1)

	msg := fs.sent[0]
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeMarkdownV2, msg.ParseMode)
	assert.Contains(t, msg.Text, `🔥 *SRE \(Sr\.\)*`)
	assert.Contains(t, msg.Text, "📍 N/A")
	assert.NotContains(t, msg.Text, "💰")

	kb, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.NotNil(t, kb.InlineKeyboard[0][0].URL)
	assert.Equal(t, "https://www.occ.com.mx/empleo/oferta/123/", *kb.InlineKeyboard[0][0].URL)
}

func TestSendJobsLimitAndFailure(t *testing.T) {
	jobs := []models.JobRecord{
		{ID: "1", Platform: models.PlatformOCC, Title: "A"},
		{ID: "2", Platform: models.PlatformOCC, Title: "B"},
		{ID: "3", Platform: models.PlatformOCC, Title: "C"},
	}

	b, fs := newTestBot()
	n, err := b.SendJobs(jobs, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, fs.sent, 2)

	b, fs = newTestBot()
	fs.failAt = 2
	n, err = b.SendJobs(jobs, 0)
	require.Error(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, err.Error(), "OCC:2")
}

func TestSendSummaryAndError(t *testing.T) {
	b, fs := newTestBot()
	r := engine.NewReport("run-9", time.Now())
	r.Total.Accepted = 4

	require.NoError(t, b.SendSummary(r))
	require.NoError(t, b.SendError(errors.New("store locked")))
	require.Len(t, fs.sent, 2)

	assert.Equal(t, tgbotapi.ModeHTML, fs.sent[0].ParseMode)
	assert.Contains(t, fs.sent[0].Text, "run-9")
	assert.Contains(t, fs.sent[0].Text, "New: <b>4</b>")
	assert.Equal(t, "❌ Error: store locked", fs.sent[1].Text)
}
