/*
handlers.go - HTTP API handlers for the work calendar

PURPOSE:
  Exposes one calendar session via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the session.

ENDPOINTS:
  Calendar:
    GET    /api/calendar              Info for the current mode
    GET    /api/calendar/view         Presentation model
    POST   /api/calendar/commands     Apply one command, returns the view
    PUT    /api/calendar/month        Go to a month (0-based)

  Ledger:
    GET    /api/ledger                Work data (days, totals, rates)
    GET    /api/ledger/{date}         One day
    PUT    /api/ledger/{date}         Mark a day (work mode)
    DELETE /api/ledger/{date}         Unmark a day (work mode)
    GET    /api/totals                Totals with display strings
    GET    /api/payments              Payment days, ascending
    POST   /api/payments              Bulk add payments (any mode)

  Selection:
    GET    /api/selection             Multi-selection, sorted
    PUT    /api/selection             Replace it (multi mode)
    GET    /api/range                 Range endpoints and day count
    PUT    /api/range                 Set both endpoints (range mode)
    GET    /api/range/dates           Every day of the range
    POST   /api/clear                 Clear selection, range and ledger

  Scenarios:
    GET    /api/scenarios             List scenarios
    POST   /api/scenarios/load        Load a scenario

ARCHITECTURE:
  Handler owns the Session and serializes every request through one
  mutex, so the session sees one event at a time. Loading a scenario
  clears the store and replaces the session.

ERROR HANDLING:
  Errors are returned as JSON {"error", "code", "details"}:
  - 400: Invalid date, month, year, kind, amount, mode, command or body,
         or a range too long to list
  - 404: Ledger day not set
  - 409: Operation not allowed in the current mode
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Scenario loading
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/daybook/calendar"
	"github.com/warp/daybook/factory"
	"github.com/warp/daybook/ledger"
	"github.com/warp/daybook/ledger/store"
	"github.com/warp/daybook/session"
	"go.uber.org/zap"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

var (
	errDayNotSet    = errors.New("day not set")
	errRangeTooLong = errors.New("range too long to list")
)

// maxRangeDates caps GET /api/range/dates, about a century of days.
const maxRangeDates = 36600

// Options configures a Handler. Store defaults to an in-memory store.
type Options struct {
	Store  ledger.Store
	Now    func() time.Time
	Logger *zap.Logger
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	mu   sync.Mutex
	sess *session.Session

	store   ledger.Store
	now     func() time.Time
	log     *zap.Logger
	factory *factory.ScenarioFactory
	presets []*factory.Scenario

	// Track currently loaded scenario
	current string
}

// NewHandler creates a handler with an empty calendar in work mode.
func NewHandler(opts Options) (*Handler, error) {
	if opts.Store == nil {
		opts.Store = store.NewMemory()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	f := factory.NewScenarioFactory()
	presets, err := f.Presets()
	if err != nil {
		return nil, err
	}

	h := &Handler{
		store:   opts.Store,
		now:     opts.Now,
		log:     opts.Logger.Named("api"),
		factory: f,
		presets: presets,
	}
	h.sess = h.newSession(session.Options{})
	return h, nil
}

func (h *Handler) newSession(opts session.Options) *session.Session {
	opts.Store = h.store
	opts.Now = h.now
	opts.Logger = h.log
	return session.New(opts)
}

// Session runs fn with exclusive access to the current session.
func (h *Handler) Session(fn func(s *session.Session) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return fn(h.sess)
}

// ExtendSeed follows today with an open-ended seed. See session.ExtendSeed.
func (h *Handler) ExtendSeed(ctx context.Context) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sess.ExtendSeed(ctx)
}

// =============================================================================
// CALENDAR HANDLERS
// =============================================================================

// GetInfo returns the calendar summary for the current mode.
// GET /api/calendar
func (h *Handler) GetInfo(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	info, err := h.sess.Info(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// GetView returns the presentation model.
// GET /api/calendar/view
func (h *Handler) GetView(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.writeView(w, r.Context())
}

// PostCommand applies one command and returns the new view.
// POST /api/calendar/commands
func (h *Handler) PostCommand(w http.ResponseWriter, r *http.Request) {
	var req CommandRequest
	if !decodeBody(w, r, &req) {
		return
	}
	cmd, err := req.ToCommand()
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.sess.Handle(r.Context(), cmd); err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.log.Debug("command applied", zap.String("type", req.Type))
	h.writeView(w, r.Context())
}

// PutMonth moves the calendar to a month.
// PUT /api/calendar/month
func (h *Handler) PutMonth(w http.ResponseWriter, r *http.Request) {
	var req MonthRequest
	if !decodeBody(w, r, &req) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.sess.GoToMonth(req.Year, req.Month); err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeInfo(w, r.Context())
}

func (h *Handler) writeView(w http.ResponseWriter, ctx context.Context) {
	v, err := h.sess.View(ctx)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) writeInfo(w http.ResponseWriter, ctx context.Context) {
	info, err := h.sess.Info(ctx)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// =============================================================================
// LEDGER HANDLERS
// =============================================================================

// GetLedger returns every marked day with totals and rates.
// GET /api/ledger
func (h *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	wd, err := h.sess.WorkData(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wd)
}

// GetDay returns one ledger day.
// GET /api/ledger/{date}
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	date, err := calendar.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	st, ok, err := h.sess.Ledger().Get(r.Context(), date)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if !ok {
		h.writeDomainError(w, errDayNotSet)
		return
	}
	writeJSON(w, http.StatusOK, DayDTO{Date: date, Status: st})
}

// PutDay marks one day. Work mode only.
// PUT /api/ledger/{date}
func (h *Handler) PutDay(w http.ResponseWriter, r *http.Request) {
	date, err := calendar.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	var req SetDayRequest
	if !decodeBody(w, r, &req) {
		return
	}
	kind, value, err := req.Status()
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	st, err := h.sess.SetWorkDay(r.Context(), date, kind, value)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DayDTO{Date: date, Status: st})
}

// DeleteDay unmarks one day. Work mode only.
// DELETE /api/ledger/{date}
func (h *Handler) DeleteDay(w http.ResponseWriter, r *http.Request) {
	date, err := calendar.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.sess.RemoveWorkDay(r.Context(), date); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetTotals returns the totals and their display strings.
// GET /api/totals
func (h *Handler) GetTotals(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	t, display, err := h.sess.Summary(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TotalsDTO{Totals: t, Display: display})
}

// ListPayments returns the payment days in ascending order.
// GET /api/payments
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.writePayments(w, r.Context())
}

// AddPayments bulk-adds payment days.
// POST /api/payments
func (h *Handler) AddPayments(w http.ResponseWriter, r *http.Request) {
	var req []PaymentDTO
	if !decodeBody(w, r, &req) {
		return
	}

	payments := make([]ledger.PaymentEntry, 0, len(req))
	for _, p := range req {
		if p.Date.IsZero() {
			h.writeDomainError(w, calendar.ErrInvalidDate)
			return
		}
		if p.Amount.IsNegative() {
			h.writeDomainError(w, ledger.ErrInvalidAmount)
			return
		}
		payments = append(payments, ledger.PaymentEntry{Date: p.Date, Amount: p.Amount})
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.sess.AddPayments(r.Context(), payments); err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writePayments(w, r.Context())
}

func (h *Handler) writePayments(w http.ResponseWriter, ctx context.Context) {
	payments, err := h.sess.Payments(ctx)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	dtos := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = PaymentDTO{Date: p.Date, Amount: p.Amount}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// SELECTION HANDLERS
// =============================================================================

// GetSelection returns the multi-selection.
// GET /api/selection
func (h *Handler) GetSelection(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	writeJSON(w, http.StatusOK, h.sess.Selection())
}

// PutSelection replaces the multi-selection. Multi mode only.
// PUT /api/selection
func (h *Handler) PutSelection(w http.ResponseWriter, r *http.Request) {
	var req SelectionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	dates, err := calendar.ParseDates(req.Dates)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.sess.ReplaceSelection(dates); err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.sess.Selection())
}

// GetRange returns the range endpoints and their day difference.
// GET /api/range
func (h *Handler) GetRange(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	writeJSON(w, http.StatusOK, h.sess.RangeState())
}

// PutRange sets both range endpoints. Range mode only.
// PUT /api/range
func (h *Handler) PutRange(w http.ResponseWriter, r *http.Request) {
	var req RangeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	start, end, err := req.Bounds()
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.sess.SetDateRange(start, end); err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.sess.RangeState())
}

// GetRangeDates lists every day of a complete range.
// GET /api/range/dates
func (h *Handler) GetRangeDates(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if days := h.sess.RangeState().Days + 1; days > maxRangeDates {
		h.writeDomainError(w, fmt.Errorf("%w: %d days (max %d)", errRangeTooLong, days, maxRangeDates))
		return
	}
	writeJSON(w, http.StatusOK, h.sess.RangeDates())
}

// PostClear empties selection, range and ledger.
// POST /api/clear
func (h *Handler) PostClear(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.sess.ClearAll(r.Context()); err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeInfo(w, r.Context())
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message, code string, err error) {
	resp := ErrorResponse{Error: message, Code: code}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// decodeBody reads a JSON body into v, answering 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if ledger.IsClientError(err) {
			writeError(w, http.StatusBadRequest, "Invalid request body", codeFor(err), err)
			return false
		}
		writeError(w, http.StatusBadRequest, "Invalid request body", "INVALID_BODY", err)
		return false
	}
	return true
}

var errorCodes = []struct {
	err  error
	code string
}{
	{calendar.ErrInvalidDate, "INVALID_DATE"},
	{calendar.ErrInvalidMonth, "INVALID_MONTH"},
	{calendar.ErrInvalidYear, "INVALID_YEAR"},
	{calendar.ErrInvalidSpan, "INVALID_SPAN"},
	{ledger.ErrInvalidKind, "INVALID_KIND"},
	{ledger.ErrInvalidAmount, "INVALID_AMOUNT"},
	{ledger.ErrRateNotSettable, "RATE_NOT_SETTABLE"},
	{ledger.ErrInvalidRule, "INVALID_RULE"},
	{session.ErrInvalidMode, "INVALID_MODE"},
	{session.ErrUnknownCommand, "UNKNOWN_COMMAND"},
	{errUnknownScenario, "UNKNOWN_SCENARIO"},
	{errRangeTooLong, "RANGE_TOO_LONG"},
}

func codeFor(err error) string {
	for _, c := range errorCodes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ""
}

// writeDomainError maps a domain error to its HTTP status.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrModeMismatch):
		writeError(w, http.StatusConflict, "Not allowed in the current mode", "MODE_MISMATCH", err)
	case errors.Is(err, errDayNotSet):
		writeError(w, http.StatusNotFound, "Day not set", "NOT_FOUND", err)
	case codeFor(err) != "":
		writeError(w, http.StatusBadRequest, "Invalid input", codeFor(err), err)
	default:
		h.log.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal error", "INTERNAL", err)
	}
}
