// HTTP-хендлеры котировок
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListSymbols отдаёт список бумаг.
//
// @Summary      List symbols
// @Description  Distinct stocks, optionally filtered by a case-sensitive industry substring.
// @Tags         stocks
// @Produce      json
// @Param        industry query string false "Industry substring"
// @Success      200 {array}  models.StockSymbol
// @Failure      400 {object} ErrorResponse "Unknown query parameter"
// @Failure      404 {object} ErrorResponse "Industry sector not found"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /stocks/symbols [get]
func (h *Handler) ListSymbols(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Svc.Stocks.ListSymbols(r.Context(), r.URL.Query())
	if err != nil {
		h.respondError(w, r, "list symbols", err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// GetStock отдаёт последнюю запись по тикеру.
//
// @Summary      Latest quote
// @Description  Most recent record for the symbol. Query parameters are not accepted.
// @Tags         stocks
// @Produce      json
// @Param        symbol path string true "Ticker, 1-5 capital letters"
// @Success      200 {object} models.Stock
// @Failure      400 {object} ErrorResponse "Bad symbol or query parameter supplied"
// @Failure      404 {object} ErrorResponse "No entry for symbol"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /stocks/{symbol} [get]
func (h *Handler) GetStock(w http.ResponseWriter, r *http.Request) {
	st, err := h.Svc.Stocks.GetLatest(r.Context(), chi.URLParam(r, "symbol"), r.URL.Query())
	if err != nil {
		h.respondError(w, r, "get stock", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// GetAuthedStock отдаёт записи по тикеру с необязательным диапазоном дат.
//
// Без from/to ответ — объект, с любой из границ — массив.
//
// @Summary      Quotes for a date range
// @Description  Records in [from, to). Without bounds returns the latest record as an object.
// @Tags         stocks
// @Produce      json
// @Security     BearerAuth
// @Param        symbol path  string true  "Ticker, 1-5 capital letters"
// @Param        from   query string false "Inclusive lower bound, e.g. 2020-03-15"
// @Param        to     query string false "Exclusive upper bound"
// @Success      200 {array}  models.Stock
// @Failure      400 {object} ErrorResponse "Bad symbol, parameter or date"
// @Failure      403 {object} ErrorResponse "Authorisation header not found or invalid"
// @Failure      404 {object} ErrorResponse "No entries"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /stocks/authed/{symbol} [get]
func (h *Handler) GetAuthedStock(w http.ResponseWriter, r *http.Request) {
	res, err := h.Svc.Stocks.GetAuthed(r.Context(), chi.URLParam(r, "symbol"), r.URL.Query())
	if err != nil {
		h.respondError(w, r, "get authed stock", err)
		return
	}
	if res.IsRange {
		writeJSON(w, http.StatusOK, res.Range)
		return
	}
	writeJSON(w, http.StatusOK, res.Single)
}
