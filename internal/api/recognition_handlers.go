package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/barbermirror/kiosk-backend/internal/recognition"
)

func detectFaceHandler(svc RecognitionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.Detect(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "detection failed")
			return
		}

		resp := DetectResponse{
			Outcome:    string(result.Outcome),
			Confidence: result.Confidence,
			Message:    result.Message,
		}
		if result.Identity != nil {
			id := toIdentityResponse(result.Identity)
			resp.Identity = &id
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func listIdentitiesHandler(svc RecognitionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identities, err := svc.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "could not load identities")
			return
		}

		out := make([]IdentityResponse, 0, len(identities))
		for i := range identities {
			out = append(out, toIdentityResponse(&identities[i]))
		}
		writeJSON(w, http.StatusOK, map[string]any{"identities": out, "count": len(out)})
	}
}

func enrollIdentityHandler(svc RecognitionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req IdentityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		id, err := svc.Enroll(r.Context(), req.Name)
		if err != nil {
			switch {
			case errors.Is(err, recognition.ErrEmptyName):
				writeError(w, http.StatusBadRequest, "invalid_name", err.Error())
			case errors.Is(err, recognition.ErrIdentityExists):
				writeError(w, http.StatusConflict, "identity_exists", err.Error())
			default:
				writeError(w, http.StatusInternalServerError, "internal_error", "could not enroll identity")
			}
			return
		}

		writeJSON(w, http.StatusCreated, toIdentityResponse(id))
	}
}

func removeIdentityHandler(svc RecognitionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_identity_id", "id must be an integer")
			return
		}

		if err := svc.Remove(r.Context(), id); err != nil {
			if errors.Is(err, recognition.ErrIdentityNotFound) {
				writeError(w, http.StatusNotFound, "identity_not_found", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", "could not remove identity")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
	}
}

func recognitionEventsHandler(svc RecognitionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseLimit(r.URL.Query().Get("limit"), 20)

		events, err := svc.RecentEvents(r.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "could not load events")
			return
		}

		out := make([]RecognitionEventResponse, 0, len(events))
		for _, ev := range events {
			out = append(out, RecognitionEventResponse{
				IdentityID:   ev.IdentityID,
				IdentityName: ev.IdentityName,
				Confidence:   ev.Confidence,
				DetectedAt:   ev.DetectedAt,
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{"events": out})
	}
}
