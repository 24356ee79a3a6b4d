package http

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"kharcha/internal/core"
	"kharcha/internal/export"
)

type createExpenseRequest struct {
	Date     string      `json:"date"`
	Category string      `json:"category"`
	Amount   core.Amount `json:"amount"`
}

type deleteExpenseRequest struct {
	ID *int64 `json:"id"`
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		expenses, err := s.expenses.ListExpenses(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load expenses")
			return
		}
		if expenses == nil {
			expenses = []core.Expense{}
		}
		writeJSON(w, http.StatusOK, expenses)

	case http.MethodPost:
		var req createExpenseRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		expense := core.Expense{
			Date:     req.Date,
			Category: req.Category,
			Amount:   req.Amount,
		}
		stored, err := s.expenses.CreateExpense(r.Context(), userID, expense)
		if err != nil {
			if isValidationError(err) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to save expense")
			return
		}

		s.invalidateSummary(userID)
		writeJSON(w, http.StatusOK, stored)

	case http.MethodDelete:
		var req deleteExpenseRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.ID == nil {
			writeError(w, http.StatusBadRequest, "Expense id is required")
			return
		}

		if err := s.expenses.DeleteExpense(r.Context(), userID, *req.ID); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to delete expense")
			return
		}

		s.invalidateSummary(userID)
		writeSuccess(w)

	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	categories, err := s.expenses.Categories(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load categories")
		return
	}
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"categories": categories})
}

func (s *Server) handleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	now := time.Now()
	cacheKey := summaryCacheKey(userID, now)
	if summary, ok := s.summaryCache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, summary)
		return
	}

	summary, err := s.expenses.MonthlySummary(r.Context(), userID, now)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrZeroBudget):
			writeError(w, http.StatusUnprocessableEntity, "Monthly budget must be greater than zero")
		case errors.Is(err, core.ErrBadAmount):
			writeError(w, http.StatusUnprocessableEntity, "Expense data contains an invalid amount")
		default:
			writeError(w, http.StatusInternalServerError, "Failed to compute summary")
		}
		return
	}

	s.summaryCache.Set(cacheKey, summary)
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	// Render into a buffer first so a mid-export failure never leaks a
	// truncated download with a 200 status.
	var buf bytes.Buffer
	if err := s.expenses.ExportCSV(r.Context(), userID, &buf); err != nil {
		if errors.Is(err, core.ErrBadAmount) || errors.Is(err, core.ErrInvalidDate) {
			writeError(w, http.StatusUnprocessableEntity, "Expense data contains an invalid record")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to export expenses")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(time.Now())+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// summaryCacheKey scopes cached summaries per user and month. The
// endpoint only serves the current month, so mutations invalidate the
// same key they would have populated.
func summaryCacheKey(userID string, ref time.Time) string {
	return userID + "|" + ref.Format("2006-01")
}

func (s *Server) invalidateSummary(userID string) {
	s.summaryCache.Delete(summaryCacheKey(userID, time.Now()))
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrEmptyCategory) ||
		errors.Is(err, core.ErrInvalidAmount)
}
