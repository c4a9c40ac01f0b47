package health

import (
	"net/http"

	"github.com/m04kA/SMC-TelegramThread/internal/api/handlers"
)

// BotStatus сообщает, работает ли long polling
type BotStatus interface {
	Running() bool
}

type Handler struct {
	bot     BotStatus
	webhook bool
}

// NewHandler в режиме webhook поток бота не запускается, поэтому статус polling не учитывается
func NewHandler(bot BotStatus, webhook bool) *Handler {
	return &Handler{
		bot:     bot,
		webhook: webhook,
	}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	mode := "polling"
	if h.webhook {
		mode = "webhook"
	}

	if !h.webhook && !h.bot.Running() {
		handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"mode":   mode,
		})
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"mode":   mode,
	})
}
