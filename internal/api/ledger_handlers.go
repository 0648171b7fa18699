package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/barbermirror/kiosk-backend/internal/ledger"
)

func getBudgetHandler(svc LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.Summary(r.Context(), time.Now())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "could not load budget")
			return
		}

		recent, err := svc.Recent(r.Context(), 10)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "could not load transactions")
			return
		}

		out := make([]TransactionResponse, 0, len(recent))
		for i := range recent {
			out = append(out, toTransactionResponse(&recent[i]))
		}

		writeJSON(w, http.StatusOK, BudgetResponse{Budget: *summary, RecentTransactions: out})
	}
}

func createTransactionHandler(svc LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		tx, err := svc.Record(r.Context(), req.AmountCents, req.Service, req.Client, nil)
		if err != nil {
			if errors.Is(err, ledger.ErrNegativeAmount) {
				writeError(w, http.StatusBadRequest, "negative_amount", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", "could not record transaction")
			return
		}

		writeJSON(w, http.StatusCreated, toTransactionResponse(tx))
	}
}

func listTransactionsHandler(svc LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseLimit(r.URL.Query().Get("limit"), 20)

		recent, err := svc.Recent(r.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "could not load transactions")
			return
		}

		out := make([]TransactionResponse, 0, len(recent))
		for i := range recent {
			out = append(out, toTransactionResponse(&recent[i]))
		}
		writeJSON(w, http.StatusOK, map[string]any{"transactions": out})
	}
}

func updateGoalHandler(svc LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GoalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		target, err := svc.SetGoal(r.Context(), ledger.Period(req.Period), req.GoalCents)
		if err != nil {
			switch {
			case errors.Is(err, ledger.ErrUnknownPeriod):
				writeError(w, http.StatusBadRequest, "unknown_period", err.Error())
			case errors.Is(err, ledger.ErrInvalidGoal):
				writeError(w, http.StatusBadRequest, "invalid_goal", err.Error())
			default:
				writeError(w, http.StatusInternalServerError, "internal_error", "could not update goal")
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"period":     target.Period,
			"goal_cents": target.GoalCents,
		})
	}
}

func parseLimit(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
