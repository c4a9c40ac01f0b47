package cancel_scheduled

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TelegramThread/internal/api/handlers"
	"github.com/m04kA/SMC-TelegramThread/internal/worker"
)

const (
	msgInvalidID = "неверный ID отложенного сообщения"
	msgNotFound  = "отложенное сообщение не найдено"
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
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		h.logger.Warn("Invalid scheduled message ID: %s", id)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	if err := h.scheduler.Cancel(id); err != nil {
		if errors.Is(err, worker.ErrScheduledNotFound) {
			handlers.RespondNotFound(w, msgNotFound)
			return
		}

		h.logger.Error("Failed to cancel scheduled message %s: %v", id, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("Cancelled scheduled message %s", id)
	w.WriteHeader(http.StatusNoContent)
}
