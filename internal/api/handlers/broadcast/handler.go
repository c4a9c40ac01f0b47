package broadcast

import (
	"net/http"

	"github.com/m04kA/SMC-TelegramThread/internal/api/handlers"
)

const msgInvalidRequestBody = "неверный формат тела запроса"

// Response итог рассылки
type Response struct {
	Recipients int `json:"recipients"`
	Failed     int `json:"failed"`
}

type Handler struct {
	chats  ChatLister
	sender Sender
	logger Logger
}

func NewHandler(chats ChatLister, sender Sender, logger Logger) *Handler {
	return &Handler{
		chats:  chats,
		sender: sender,
		logger: logger,
	}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req handlers.MessageOptions
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("Failed to decode request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.Warn("Invalid broadcast options: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	chatIDs, err := h.chats.ListSubscribedIDs(r.Context())
	if err != nil {
		h.logger.Error("Failed to list subscribed chats: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	if len(chatIDs) == 0 {
		h.logger.Info("Broadcast skipped: no subscribed chats")
		handlers.RespondJSON(w, http.StatusOK, Response{})
		return
	}

	resp := Response{Recipients: len(chatIDs)}
	if err := h.sender.SendMessage(r.Context(), chatIDs, req.Text, req.SendOptions()); err != nil {
		resp.Failed = countErrors(err)
		h.logger.Warn("Broadcast failed for %d of %d chat(s)", resp.Failed, resp.Recipients)
	}

	h.logger.Info("Broadcast sent to %d chat(s)", resp.Recipients-resp.Failed)

	status := http.StatusOK
	if resp.Failed == resp.Recipients {
		status = http.StatusBadGateway
	}
	handlers.RespondJSON(w, status, resp)
}

// countErrors считает ошибки, объединённые errors.Join
func countErrors(err error) int {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return len(joined.Unwrap())
	}
	return 1
}
