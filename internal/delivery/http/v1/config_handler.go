package v1

import (
	"net/http"
	"time"

	"glowify-backend/internal/domain"
	"glowify-backend/pkg/cache"
	"glowify-backend/pkg/utils"
)

const enumsCacheKey = "system:config:enums"

type ConfigHandler struct {
	cache          cache.CacheService
	currencySymbol string
	maxFrameImages int
}

func NewConfigHandler(cache cache.CacheService, currencySymbol string, maxFrameImages int) *ConfigHandler {
	return &ConfigHandler{cache: cache, currencySymbol: currencySymbol, maxFrameImages: maxFrameImages}
}

// GET /api/v1/config/enums
func (h *ConfigHandler) GetEnums(w http.ResponseWriter, r *http.Request) {
	response, _ := cache.Remember(h.cache, enumsCacheKey, time.Hour, func() (map[string]any, error) {
		return map[string]any{
			"orderStatuses":  domain.OrderStatuses,
			"orderMethods":   domain.OrderMethods,
			"frameSizes":     domain.FrameSizes,
			"productSorts":   domain.ProductSorts,
			"currencySymbol": h.currencySymbol,
			"maxFrameImages": h.maxFrameImages,
		}, nil
	})

	w.Header().Set("Cache-Control", "public, max-age=3600")
	utils.WriteJSON(w, http.StatusOK, response)
}
