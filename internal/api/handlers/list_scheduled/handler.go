package list_scheduled

import (
	"net/http"

	"github.com/m04kA/SMC-TelegramThread/internal/api/handlers"
	"github.com/m04kA/SMC-TelegramThread/internal/api/handlers/send_message/models"
)

type Handler struct {
	scheduler Scheduler
	logger    Logger
}

func NewHandler(scheduler Scheduler, logger Logger) *Handler {
	return &Handler{
		scheduler: scheduler,
		logger:    logger,
	}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	list := h.scheduler.List()
	h.logger.Info("Listed %d scheduled message(s)", len(list))

	handlers.RespondJSON(w, http.StatusOK, models.FromScheduledMessages(list))
}
