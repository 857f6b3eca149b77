package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/agrovia/agrovia/app/services"
	"github.com/agrovia/agrovia/pkg/logger"
	"github.com/agrovia/agrovia/pkg/response"
)

type MarketController struct {
	svc *services.MarketService
}

func NewMarketController(svc *services.MarketService) *MarketController {
	return &MarketController{svc: svc}
}

// News serves cached agriculture news. ?action=empty_cache drops the
// cached page before serving.
func (c *MarketController) News(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	flush := q.Get("action") == "empty_cache"

	payload, err := c.svc.News(page, q.Get("keywords"), q.Get("country"), flush)
	if err != nil {
		logger.Error("market: news", "error", err)
		response.Error(w, http.StatusBadGateway, "News feed is unavailable")
		return
	}
	response.Success(w, payload)
}

// Commodity serves cached commodity prices for one resource.
func (c *MarketController) Commodity(w http.ResponseWriter, r *http.Request) {
	payload, err := c.svc.Commodity(chi.URLParam(r, "resource"))
	if err != nil {
		if errors.Is(err, services.ErrBadResource) {
			response.NotFound(w)
			return
		}
		logger.Error("market: commodity", "error", err)
		response.Error(w, http.StatusBadGateway, "Price feed is unavailable")
		return
	}
	response.Success(w, payload)
}
