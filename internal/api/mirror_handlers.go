package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/barbermirror/kiosk-backend/internal/mirror"
)

func listMessagesHandler(svc MirrorService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseLimit(r.URL.Query().Get("limit"), 10)

		msgs, err := svc.Recent(r.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "could not load messages")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"messages": toMessageResponses(msgs)})
	}
}

func newMessagesHandler(svc MirrorService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		msgs, err := svc.Unread(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "could not load messages")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"messages": toMessageResponses(msgs)})
	}
}

func markMessagesReadHandler(svc MirrorService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.MarkAllRead(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "could not mark messages read")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"marked": true})
	}
}

func voiceCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req VoiceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		writeJSON(w, http.StatusOK, mirror.InterpretVoice(req.Command, time.Now()))
	}
}

func toMessageResponses(msgs []mirror.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, MessageResponse{
			ID:     m.ID,
			Sender: m.Sender,
			Text:   m.Text,
			IsNew:  m.IsNew,
			SentAt: m.SentAt,
		})
	}
	return out
}
