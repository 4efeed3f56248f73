package allocation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/de-tools/weekalloc/pkg/adapters"
	"github.com/de-tools/weekalloc/pkg/models/api"
	"github.com/de-tools/weekalloc/pkg/models/domain"
	"github.com/de-tools/weekalloc/pkg/services/allocation"
	"github.com/de-tools/weekalloc/pkg/services/config"
	sqlstore "github.com/de-tools/weekalloc/pkg/store/sql"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// DefaultMaxRangeDays is the length of the default reporting range,
// 2023-01-01 through 2028-12-31.
const DefaultMaxRangeDays = 2192

type Handler struct {
	calculator   allocation.Calculator
	profiles     config.ProfileRegistry
	store        sqlstore.AllocationStore
	maxRangeDays int
}

type Option func(*Handler)

// WithMaxRangeDays caps the number of dates a single request may allocate.
// Values below 1 keep the default.
func WithMaxRangeDays(days int) Option {
	return func(h *Handler) {
		if days > 0 {
			h.maxRangeDays = days
		}
	}
}

// NewHandler builds the allocation endpoints. profiles and store are optional;
// their endpoints answer 404 when they are missing.
func NewHandler(
	calculator allocation.Calculator,
	profiles config.ProfileRegistry,
	store sqlstore.AllocationStore,
	opts ...Option,
) *Handler {
	h := &Handler{
		calculator:   calculator,
		profiles:     profiles,
		store:        store,
		maxRangeDays: DefaultMaxRangeDays,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// GetAllocations computes allocations for ?start=&end=, defaulting to the
// standard reporting range.
func (h *Handler) GetAllocations(w http.ResponseWriter, r *http.Request) {
	def := domain.DefaultDateRange()
	start := r.URL.Query().Get("start")
	if start == "" {
		start = def.Start.Format(domain.DateLayout)
	}
	end := r.URL.Query().Get("end")
	if end == "" {
		end = def.End.Format(domain.DateLayout)
	}

	dates, err := domain.ParseDateRange(start, end)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	h.compute(w, r, dates)
}

func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	if h.profiles == nil {
		writeError(w, r, http.StatusNotFound, errors.New("no range profiles configured"))
		return
	}

	names, err := h.profiles.GetProfiles()
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	response := make([]api.Profile, 0, len(names))
	for _, name := range names {
		dates, err := h.profiles.GetRange(name)
		if err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Str("profile", name).Msg("skipping invalid range profile")
			continue
		}
		response = append(response, api.Profile{
			Name:  name,
			Start: dates.Start.Format(domain.DateLayout),
			End:   dates.End.Format(domain.DateLayout),
		})
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) GetProfileAllocations(w http.ResponseWriter, r *http.Request) {
	if h.profiles == nil {
		writeError(w, r, http.StatusNotFound, errors.New("no range profiles configured"))
		return
	}

	profile := chi.URLParam(r, "profile")
	dates, err := h.profiles.GetRange(profile)
	if errors.Is(err, config.ErrProfileNotFound) {
		writeError(w, r, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	h.compute(w, r, dates)
}

// GetStoredAllocations returns the table last published to the embedded store.
func (h *Handler) GetStoredAllocations(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, r, http.StatusNotFound, errors.New("no allocation store configured"))
		return
	}

	records, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	allocations := make([]api.Allocation, 0, len(records))
	for _, record := range records {
		allocations = append(allocations,
			adapters.MapDomainOutputRowToAPIAllocation(adapters.MapStoreRecordToDomainOutputRow(record)))
	}

	response := api.AllocationsResponse{Allocations: allocations}
	if len(records) > 0 {
		response.Start = allocations[0].WeekStart
		response.End = allocations[len(allocations)-1].WeekEnd
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) compute(w http.ResponseWriter, r *http.Request, dates domain.DateRange) {
	if days := rangeDays(dates); days > int64(h.maxRangeDays) {
		writeError(w, r, http.StatusBadRequest,
			fmt.Errorf("date range %s covers %d days, at most %d allowed", dates, days, h.maxRangeDays))
		return
	}

	rows, err := h.calculator.Compute(r.Context(), dates)
	if err != nil {
		var rangeErr *allocation.InvalidRangeError
		if errors.As(err, &rangeErr) {
			writeError(w, r, http.StatusBadRequest, err)
			return
		}
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, r, http.StatusOK, api.AllocationsResponse{
		Start:       dates.Start.Format(domain.DateLayout),
		End:         dates.End.Format(domain.DateLayout),
		Allocations: adapters.MapDomainOutputRowsToAPIAllocations(rows),
	})
}

// rangeDays counts the dates in r. Inverted ranges count as zero and are left
// to the calculator to reject.
func rangeDays(r domain.DateRange) int64 {
	if r.End.Before(r.Start) {
		return 0
	}
	return (r.End.Unix()-r.Start.Unix())/(24*60*60) + 1
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	logger := zerolog.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Msg("request failed")
	} else {
		logger.Debug().Err(err).Int("status", status).Msg("request rejected")
	}
	writeJSON(w, r, status, api.ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}
