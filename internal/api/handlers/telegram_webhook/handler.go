package telegram_webhook

import (
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/m04kA/SMC-TelegramThread/internal/api/handlers"
)

const msgInvalidRequestBody = "неверный формат тела запроса"

type Handler struct {
	updates UpdateHandler
	logger  Logger
}

func NewHandler(updates UpdateHandler, logger Logger) *Handler {
	return &Handler{
		updates: updates,
		logger:  logger,
	}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := handlers.DecodeJSON(r, &update); err != nil {
		h.logger.Warn("Failed to decode telegram webhook: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Telegram повторяет доставку при любом ответе кроме 2xx,
	// поэтому ошибки обработчиков не влияют на статус
	kind := h.updates.HandleUpdate(r.Context(), update)
	h.logger.Debug("Webhook update %d handled as %s", update.UpdateID, kind)

	w.WriteHeader(http.StatusOK)
}
