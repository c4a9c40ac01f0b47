package send_message

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-TelegramThread/internal/api/handlers"
	"github.com/m04kA/SMC-TelegramThread/internal/api/handlers/send_message/models"
	"github.com/m04kA/SMC-TelegramThread/internal/worker"
	"github.com/m04kA/SMC-TelegramThread/pkg/ptr"
)

const (
	msgInvalidRequestBody = "неверный формат тела запроса"
	msgNoChats            = "необходимо указать хотя бы один chat_id"
	msgInvalidChatID      = "chat_id не может быть равен 0"
)

type Handler struct {
	sender    Sender
	scheduler Scheduler
	logger    Logger
	now       func() time.Time
}

func NewHandler(sender Sender, scheduler Scheduler, logger Logger) *Handler {
	return &Handler{
		sender:    sender,
		scheduler: scheduler,
		logger:    logger,
		now:       time.Now,
	}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.SendMessageRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("Failed to decode request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if len(req.ChatIDs) == 0 {
		handlers.RespondBadRequest(w, msgNoChats)
		return
	}
	for _, id := range req.ChatIDs {
		if id == 0 {
			handlers.RespondBadRequest(w, msgInvalidChatID)
			return
		}
	}
	if err := req.Validate(); err != nil {
		h.logger.Warn("Invalid message options: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	// send_at в прошлом или не задан - отправляем сразу
	if ptr.Value(req.SendAt).After(h.now()) {
		h.schedule(w, &req)
		return
	}

	resp := models.SendMessageResponse{Results: make([]models.ChatResult, 0, len(req.ChatIDs))}
	opts := req.SendOptions()

	for _, chatID := range req.ChatIDs {
		result := models.ChatResult{ChatID: chatID, OK: true}
		if err := h.sender.SendMessageToChat(r.Context(), chatID, req.Text, opts); err != nil {
			result.OK = false
			result.Error = err.Error()
			resp.Failed++
		} else {
			resp.Sent++
		}
		resp.Results = append(resp.Results, result)
	}

	h.logger.Info("Message delivered to %d of %d chat(s)", resp.Sent, len(req.ChatIDs))

	status := http.StatusOK
	if resp.Sent == 0 {
		status = http.StatusBadGateway
	}
	handlers.RespondJSON(w, status, resp)
}

func (h *Handler) schedule(w http.ResponseWriter, req *models.SendMessageRequest) {
	scheduled, err := h.scheduler.Schedule(req.ToScheduledMessage())
	if err != nil {
		if errors.Is(err, worker.ErrInvalidScheduledMessage) {
			handlers.RespondBadRequest(w, err.Error())
			return
		}

		h.logger.Error("Failed to schedule message: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("Scheduled message %s for %d chat(s) at %s", scheduled.ID, len(scheduled.ChatIDs), scheduled.SendAt.Format(time.RFC3339))
	handlers.RespondJSON(w, http.StatusAccepted, models.FromScheduledMessage(scheduled))
}
