package v1

import (
	"errors"
	"net/http"
	"strconv"

	"glowify-backend/internal/domain"
	"glowify-backend/pkg/logger"
	"glowify-backend/pkg/utils"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// writeUsecaseError maps domain errors to HTTP responses.
func writeUsecaseError(w http.ResponseWriter, r *http.Request, err error) {
	var couponErr *domain.InvalidCouponError
	switch {
	case errors.As(err, &couponErr):
		utils.WriteErrorReason(w, http.StatusUnprocessableEntity, "Invalid coupon", couponErr.Reason)
	case errors.Is(err, domain.ErrInvalidInput):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		utils.WriteError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrInvalidTransition):
		utils.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		utils.WriteError(w, http.StatusForbidden, "Forbidden")
	default:
		logger.WithContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeBody decodes a JSON body, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := utils.DecodeJSON(r, dst, maxBodyBytes); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// requireUser returns the authenticated user or writes a 401.
func requireUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user := domain.UserFromContext(r.Context())
	if user == nil {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}
	return user, true
}

// pageParams reads ?page=&limit= with defaults 1 and 20, limit capped at 100.
func pageParams(r *http.Request) (page, limit int) {
	page = utils.ParseInt(r.URL.Query().Get("page"), 1)
	limit = utils.ParseInt(r.URL.Query().Get("limit"), 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func boolParam(r *http.Request, key string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return b
}

type statusRequest struct {
	Status domain.OrderStatus `json:"status"`
	Notes  *string            `json:"adminNotes,omitempty"`
}
