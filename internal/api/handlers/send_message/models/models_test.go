package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-TelegramThread/internal/api/handlers"
	"github.com/m04kA/SMC-TelegramThread/internal/domain"
	"github.com/m04kA/SMC-TelegramThread/pkg/ptr"
)

func TestSendMessageRequest_ToScheduledMessage(t *testing.T) {
	sendAt := time.Date(2026, 10, 20, 9, 30, 0, 0, time.UTC)
	req := SendMessageRequest{
		ChatIDs: []int64{42},
		SendAt:  ptr.Ptr(sendAt),
		MessageOptions: handlers.MessageOptions{
			Text:      "<b>Напоминание</b>",
			ParseMode: domain.ParseModeHTML,
		},
	}

	msg := req.ToScheduledMessage()
	assert.Equal(t, sendAt, msg.SendAt)
	assert.Equal(t, []int64{42}, msg.ChatIDs)
	assert.Equal(t, domain.ParseModeHTML, msg.Options.ParseMode)

	req.SendAt = nil
	assert.True(t, req.ToScheduledMessage().SendAt.IsZero())
}
