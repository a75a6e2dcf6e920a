package handler

import (
	"net/http"

	"github.com/xenking/shopaholics/internal/advisor"
)

type chatResponse struct {
	ID       string            `json:"id"`
	Messages []advisor.Message `json:"messages"`
}

type replyResponse struct {
	Reply string `json:"reply"`
}

// CreateChat opens a session whose transcript starts with the intro message.
func (h *Handler) CreateChat(w http.ResponseWriter, r *http.Request) {
	id, chat := h.chats.Create(r.Context())
	writeJSON(w, http.StatusCreated, chatResponse{ID: id, Messages: chat.History()})
}

func (h *Handler) ChatHistory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	chat, ok := h.chats.Get(id)
	if !ok {
		h.fail(w, r, errChatNotFound)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{ID: id, Messages: chat.History()})
}

// SendChatMessage forwards a message to the assistant and returns its reply.
// Backend failures are answered with an apology, never an error status.
func (h *Handler) SendChatMessage(w http.ResponseWriter, r *http.Request) {
	chat, ok := h.chats.Get(r.PathValue("id"))
	if !ok {
		h.fail(w, r, errChatNotFound)
		return
	}

	var req chatMessageRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	reply, err := chat.Send(r.Context(), req.Message)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, replyResponse{Reply: reply})
}
