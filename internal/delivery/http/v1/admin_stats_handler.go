package v1

import (
	"net/http"
	"time"

	"glowify-backend/internal/usecase"
	"glowify-backend/pkg/utils"
)

const defaultStatsDays = 30

type AdminStatsHandler struct {
	statsUC *usecase.StatsUsecase
}

func NewAdminStatsHandler(uc *usecase.StatsUsecase) *AdminStatsHandler {
	return &AdminStatsHandler{statsUC: uc}
}

// dateRange reads start and end (YYYY-MM-DD, UTC). end is inclusive, so the
// returned upper bound is the following midnight. Both default to the last 30 days.
func dateRange(r *http.Request) (time.Time, time.Time, bool) {
	q := r.URL.Query()
	today := time.Now().UTC().Truncate(24 * time.Hour)

	end := today
	if s := q.Get("end"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		end = t
	}
	start := end.AddDate(0, 0, -(defaultStatsDays - 1))
	if s := q.Get("start"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		start = t
	}
	return start, end.AddDate(0, 0, 1), true
}

// GET /api/v1/admin/stats/kpis?start=2024-01-01&end=2024-01-31
func (h *AdminStatsHandler) GetRevenueKPIs(w http.ResponseWriter, r *http.Request) {
	start, end, ok := dateRange(r)
	if !ok {
		utils.WriteError(w, http.StatusBadRequest, "dates must use the format YYYY-MM-DD")
		return
	}
	kpis, err := h.statsUC.GetRevenueKPIs(r.Context(), start, end)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, kpis)
}

// GET /api/v1/admin/stats/revenue?start=2024-01-01&end=2024-01-31
func (h *AdminStatsHandler) GetDailySales(w http.ResponseWriter, r *http.Request) {
	start, end, ok := dateRange(r)
	if !ok {
		utils.WriteError(w, http.StatusBadRequest, "dates must use the format YYYY-MM-DD")
		return
	}
	sales, err := h.statsUC.GetDailySales(r.Context(), start, end)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, sales)
}

// GET /api/v1/admin/stats/inventory/low-stock?threshold=5&limit=50
func (h *AdminStatsHandler) GetLowStockProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := h.statsUC.GetLowStockProducts(r.Context(), utils.ParseInt(q.Get("threshold"), 5), utils.ParseInt(q.Get("limit"), 50))
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, products)
}
