/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes the payroll engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Paychecks:
    POST   /api/paychecks/process      Rebuild and price a year's paychecks
    GET    /api/paychecks              List a year's paychecks
    DELETE /api/paychecks              Delete a year's unsent paychecks
    GET    /api/paychecks/years        Years an employee has paychecks for
    POST   /api/paychecks/{id}/send    Finalize (send) a paycheck

  Employees:
    GET    /api/employees/{id}              Get employee with dependents
    DELETE /api/employees/{id}              Remove employee and everything attached
    GET    /api/employees/{id}/dependents   List dependents
    POST   /api/employees/{id}/dependents   Add a dependent
    PUT    /api/dependents/{id}             Rename/reclassify a dependent
    DELETE /api/dependents/{id}             Remove a dependent

  Benefits:
    GET    /api/benefits/employee      Active employee-scoped benefits
    GET    /api/benefits/dependent     Active dependent-scoped benefits

  Admin:
    POST   /api/seed                   Load the demo dataset (idempotent)

CACHING:
  GET /api/paychecks responses are cached per (employee, year); any write
  to that schedule (process, delete, send) invalidates the key. The cache
  is best-effort: a miss or backend failure falls through to the database.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Employee or paycheck not found
  - 409: Concurrent modification, double send
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - payroll/engine.go: The domain logic these delegate to
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/warp/payroll-engine/cache"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine *payroll.Engine
	Store  *sqlite.Store
	Cache  cache.Cache
	Log    *zap.Logger
}

// NewHandler creates a new handler. A nil cache gets an in-process one, a
// nil logger disables logging.
func NewHandler(engine *payroll.Engine, store *sqlite.Store, c cache.Cache, log *zap.Logger) *Handler {
	if c == nil {
		c = cache.NewMemoryCache()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Engine: engine, Store: store, Cache: c, Log: log}
}

func paychecksCacheKey(employeeID int64, year int) string {
	return fmt.Sprintf("paychecks:%d:%d", employeeID, year)
}

func (h *Handler) invalidatePaychecks(ctx context.Context, employeeID int64, year int) {
	if err := h.Cache.Delete(ctx, paychecksCacheKey(employeeID, year)); err != nil {
		h.Log.Warn("cache invalidation failed",
			zap.Int64("employee_id", employeeID), zap.Int("year", year), zap.Error(err))
	}
}

// scheduleParams extracts the employeeId and year query parameters. Presence
// is all it checks; range validation belongs to the engine.
func scheduleParams(r *http.Request) (int64, int, error) {
	employeeID, err := strconv.ParseInt(r.URL.Query().Get("employeeId"), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("employeeId must be an integer")
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		return 0, 0, fmt.Errorf("year must be an integer")
	}
	return employeeID, year, nil
}

// =============================================================================
// PAYCHECK HANDLERS
// =============================================================================

// ProcessPaychecks rebuilds and prices the year's unsent paychecks.
func (h *Handler) ProcessPaychecks(w http.ResponseWriter, r *http.Request) {
	employeeID, year, err := scheduleParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	if err := h.Engine.ProcessPaychecks(r.Context(), employeeID, year); err != nil {
		writeEngineError(w, "Failed to process paychecks", err)
		return
	}
	h.invalidatePaychecks(r.Context(), employeeID, year)

	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "processed",
		"employee_id": employeeID,
		"year":        year,
	})
}

// GetPaychecks lists the year's paychecks, serving from cache when possible.
func (h *Handler) GetPaychecks(w http.ResponseWriter, r *http.Request) {
	employeeID, year, err := scheduleParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	key := paychecksCacheKey(employeeID, year)
	if cached, ok := h.Cache.Get(r.Context(), key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(cached))
		return
	}

	paychecks, err := h.Engine.GetEmployeePaychecks(r.Context(), employeeID, year)
	if err != nil {
		writeEngineError(w, "Failed to load paychecks", err)
		return
	}

	dtos := toPaycheckDTOs(paychecks)
	body, err := json.Marshal(dtos)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to serialize paychecks", err)
		return
	}
	if err := h.Cache.Set(r.Context(), key, string(body)); err != nil {
		h.Log.Warn("cache store failed", zap.String("key", key), zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// DeletePaychecks removes the year's unsent paychecks.
func (h *Handler) DeletePaychecks(w http.ResponseWriter, r *http.Request) {
	employeeID, year, err := scheduleParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	if err := h.Engine.DeletePaychecks(r.Context(), employeeID, year); err != nil {
		writeEngineError(w, "Failed to delete paychecks", err)
		return
	}
	h.invalidatePaychecks(r.Context(), employeeID, year)

	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "deleted",
		"employee_id": employeeID,
		"year":        year,
	})
}

// GetPaycheckYears returns the years an employee has paychecks for.
func (h *Handler) GetPaycheckYears(w http.ResponseWriter, r *http.Request) {
	employeeID, err := strconv.ParseInt(r.URL.Query().Get("employeeId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid query parameters",
			fmt.Errorf("employeeId must be an integer"))
		return
	}

	years, err := h.Store.PaycheckYears(r.Context(), employeeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load years", err)
		return
	}
	if years == nil {
		years = []int{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"years": years})
}

// SendPaycheck finalizes a paycheck. The employeeId and year query parameters
// identify the cached listing to invalidate.
func (h *Handler) SendPaycheck(w http.ResponseWriter, r *http.Request) {
	paycheckID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid paycheck id", err)
		return
	}
	employeeID, year, err := scheduleParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	if err := h.Store.MarkPaycheckSent(r.Context(), paycheckID, time.Now().UTC()); err != nil {
		writeEngineError(w, "Failed to send paycheck", err)
		return
	}
	h.invalidatePaychecks(r.Context(), employeeID, year)

	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "sent",
		"paycheck_id": paycheckID,
	})
}

// =============================================================================
// EMPLOYEE / BENEFIT HANDLERS
// =============================================================================

// GetEmployee returns a single employee with dependents.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid employee id", err)
		return
	}

	emp, err := h.Store.FindEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// GetDependents returns an employee's dependents.
func (h *Handler) GetDependents(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid employee id", err)
		return
	}

	emp, err := h.Store.FindEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp).Dependents)
}

// DeleteEmployee removes an employee; dependents, paychecks, and cost lines
// cascade with them. Cached listings for every year are invalidated.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid employee id", err)
		return
	}

	years, err := h.Store.PaycheckYears(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load years", err)
		return
	}

	if err := h.Store.DeleteEmployee(r.Context(), id); err != nil {
		writeEngineError(w, "Failed to delete employee", err)
		return
	}
	for _, year := range years {
		h.invalidatePaychecks(r.Context(), id, year)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "deleted",
		"employee_id": id,
	})
}

// decodeDependent parses and validates a dependent request body.
func decodeDependent(r *http.Request) (*DependentRequest, error) {
	var req DependentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	if req.FirstName == "" {
		return nil, fmt.Errorf("first_name is required")
	}
	if !payroll.Relationship(req.Relationship).Valid() {
		return nil, fmt.Errorf("relationship must be one of spouse, child, domestic_partner")
	}
	return &req, nil
}

// CreateDependent adds a household member to an employee. Paychecks are not
// repriced here; clients reprocess the years they care about.
func (h *Handler) CreateDependent(w http.ResponseWriter, r *http.Request) {
	employeeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid employee id", err)
		return
	}
	req, err := decodeDependent(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid dependent", err)
		return
	}

	dep := &payroll.Dependent{
		Person:       payroll.Person{FirstName: req.FirstName, LastName: req.LastName},
		EmployeeID:   employeeID,
		Relationship: payroll.Relationship(req.Relationship),
	}
	if err := h.Store.SaveDependent(r.Context(), dep); err != nil {
		writeEngineError(w, "Failed to create dependent", err)
		return
	}
	writeJSON(w, http.StatusCreated, toDependentDTO(*dep))
}

// UpdateDependent rewrites a dependent's name and relationship.
func (h *Handler) UpdateDependent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid dependent id", err)
		return
	}
	req, err := decodeDependent(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid dependent", err)
		return
	}

	dep := &payroll.Dependent{
		Person:       payroll.Person{FirstName: req.FirstName, LastName: req.LastName},
		Relationship: payroll.Relationship(req.Relationship),
	}
	dep.ID = id
	if err := h.Store.UpdateDependent(r.Context(), dep); err != nil {
		writeEngineError(w, "Failed to update dependent", err)
		return
	}
	writeJSON(w, http.StatusOK, toDependentDTO(*dep))
}

// DeleteDependent removes a dependent from the household.
func (h *Handler) DeleteDependent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid dependent id", err)
		return
	}

	if err := h.Store.DeleteDependent(r.Context(), id); err != nil {
		writeEngineError(w, "Failed to delete dependent", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "deleted",
		"dependent_id": id,
	})
}

// ListEmployeeBenefits returns the active employee-scoped benefit catalog.
func (h *Handler) ListEmployeeBenefits(w http.ResponseWriter, r *http.Request) {
	benefits, err := h.Store.ActiveEmployeeBenefits(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load benefits", err)
		return
	}
	h.writeBenefits(w, benefits)
}

// ListDependentBenefits returns the active dependent-scoped benefit catalog.
func (h *Handler) ListDependentBenefits(w http.ResponseWriter, r *http.Request) {
	benefits, err := h.Store.ActiveDependentBenefits(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load benefits", err)
		return
	}
	h.writeBenefits(w, benefits)
}

func (h *Handler) writeBenefits(w http.ResponseWriter, benefits []payroll.Benefit) {
	dtos := make([]BenefitDTO, 0, len(benefits))
	for _, b := range benefits {
		dtos = append(dtos, toBenefitDTO(b))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// LoadSeedData loads the demo dataset. A no-op when employees already exist.
func (h *Handler) LoadSeedData(w http.ResponseWriter, r *http.Request) {
	seeded, err := SeedDemo(r.Context(), h.Store)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to seed database", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"seeded": seeded})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeEngineError maps domain errors to HTTP statuses. Conflicts outrank
// the client-error category because a double send is an ordering problem,
// not malformed input.
func writeEngineError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, payroll.ErrConcurrentModification),
		errors.Is(err, payroll.ErrPaycheckAlreadySent):
		writeError(w, http.StatusConflict, message, err)
	case payroll.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case payroll.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
