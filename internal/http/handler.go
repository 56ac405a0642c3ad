package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"novashop/internal/models"
	"novashop/internal/notify"
	"novashop/internal/services"
	"novashop/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Handler struct {
	Orders    *services.OrderService
	Catalog   *services.CatalogService
	Stats     services.StatsService
	Payments  *services.PaymentsService
	Blacklist *store.BlacklistStore
	Hub       *notify.Hub
	Logger    *zap.Logger
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type orderResponse struct {
	OrderID       string `json:"orderId"`
	BuyerID       string `json:"buyerId"`
	ProductID     int64  `json:"productId"`
	Quantity      int    `json:"quantity"`
	TotalPrice    string `json:"totalPrice"`
	PaymentMethod string `json:"paymentMethod"`
	Status        string `json:"status"`
	ProofRef      string `json:"proofRef,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
	UpdatedAt     string `json:"updatedAt,omitempty"`
}

func toOrderResponse(o *models.Order) orderResponse {
	resp := orderResponse{
		OrderID:       o.OrderID,
		BuyerID:       o.BuyerID,
		ProductID:     o.ProductID,
		Quantity:      o.Quantity,
		TotalPrice:    o.TotalPrice.StringFixed(2),
		PaymentMethod: string(o.PaymentMethod),
		Status:        string(o.Status),
	}
	if o.ProofRef != nil {
		resp.ProofRef = *o.ProofRef
	}
	if !o.CreatedAt.IsZero() {
		resp.CreatedAt = o.CreatedAt.Format(time.RFC3339)
	}
	if !o.UpdatedAt.IsZero() {
		resp.UpdatedAt = o.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

type productResponse struct {
	ID           int64                `json:"id"`
	Name         string               `json:"name"`
	Category     string               `json:"category"`
	Description  string               `json:"description,omitempty"`
	Price        string               `json:"price"`
	Stock        int                  `json:"stock"`
	ImageURL     string               `json:"imageUrl,omitempty"`
	Deliverables []models.Deliverable `json:"deliverables,omitempty"`
}

func toProductResponse(p *models.Product) productResponse {
	return productResponse{
		ID:           p.ID,
		Name:         p.Name,
		Category:     p.Category,
		Description:  p.Description,
		Price:        p.Price.StringFixed(2),
		Stock:        p.Stock,
		ImageURL:     p.ImageURL,
		Deliverables: p.Deliverables,
	}
}

// orderErrorStatus maps service sentinels onto HTTP statuses and error kinds.
func orderErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrOrderNotFound), errors.Is(err, services.ErrProductNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, services.ErrInvalidOrderState):
		return http.StatusConflict, "invalid_state"
	case errors.Is(err, services.ErrInsufficientStock):
		return http.StatusConflict, "insufficient_stock"
	case errors.Is(err, services.ErrOutOfStock):
		return http.StatusConflict, "out_of_stock"
	case errors.Is(err, services.ErrOrderIDConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, services.ErrNoPendingOrder):
		return http.StatusNotFound, "no_pending_order"
	case errors.Is(err, services.ErrBuyerBlacklisted):
		return http.StatusForbidden, "blacklisted"
	case errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrUnknownPaymentMethod),
		errors.Is(err, services.ErrInvalidPrice),
		errors.Is(err, services.ErrUnknownCategory),
		errors.Is(err, services.ErrNegativeStock),
		errors.Is(err, services.ErrEmptyAddress):
		return http.StatusBadRequest, "validation"
	case errors.Is(err, services.ErrPaymentNotConfigured):
		return http.StatusNotFound, "not_configured"
	}
	return http.StatusInternalServerError, "internal"
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	status, kind := orderErrorStatus(err)
	if status == http.StatusInternalServerError {
		h.Logger.Error("request failed", zap.Error(err))
		writeError(w, status, kind, "internal error")
		return
	}
	writeError(w, status, kind, err.Error())
}

type createOrderRequest struct {
	Product       string `json:"product"`
	Quantity      int    `json:"quantity"`
	PaymentMethod string `json:"paymentMethod"`
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	buyerID := r.Header.Get("X-Actor-Id")
	if buyerID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing actor id")
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "invalid json body")
		return
	}

	order, err := h.Orders.CreateOrder(r.Context(), buyerID, req.Product, req.Quantity, req.PaymentMethod)
	if err != nil {
		h.fail(w, err)
		return
	}

	resp := struct {
		orderResponse
		PaymentAddress string `json:"paymentAddress,omitempty"`
	}{orderResponse: toOrderResponse(order)}

	// Destination lookup is best-effort: an unconfigured method does not
	// fail the order.
	if info, perr := h.Payments.GetAddress(r.Context(), req.PaymentMethod); perr == nil {
		resp.PaymentAddress = info.Address
	}
	writeJSON(w, http.StatusCreated, resp)
}

type attachProofRequest struct {
	ProofRef string `json:"proofRef"`
}

func (h *Handler) AttachProof(w http.ResponseWriter, r *http.Request) {
	buyerID := r.Header.Get("X-Actor-Id")
	if buyerID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing actor id")
		return
	}

	var req attachProofRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProofRef == "" {
		writeError(w, http.StatusBadRequest, "validation", "proofRef is required")
		return
	}

	order, err := h.Orders.AttachProof(r.Context(), buyerID, req.ProofRef)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	order, err := h.Orders.GetOrder(r.Context(), orderID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *Handler) ApproveOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	order, err := h.Orders.Approve(r.Context(), orderID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

type rejectOrderRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) RejectOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	var req rejectOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "invalid json body")
		return
	}

	order, err := h.Orders.Reject(r.Context(), orderID, req.Reason)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	summary, series, err := h.Stats.Report(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		h.fail(w, err)
		return
	}

	type point struct {
		Date    string `json:"date"`
		Revenue string `json:"revenue"`
	}
	points := make([]point, 0, len(series))
	for _, p := range series {
		points = append(points, point{Date: p.Date, Revenue: p.Revenue.StringFixed(2)})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"summary": map[string]any{
			"totalOrders":     summary.TotalOrders,
			"completedOrders": summary.CompletedOrders,
			"totalRevenue":    summary.TotalRevenue.StringFixed(2),
		},
		"timeSeries": points,
	})
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Catalog.ListProducts(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.fail(w, err)
		return
	}
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

type upsertProductRequest struct {
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Description  string          `json:"description"`
	Price        string          `json:"price"`
	Stock        int             `json:"stock"`
	ImageURL     string          `json:"imageUrl"`
	Deliverables json.RawMessage `json:"deliverables"`
}

func (h *Handler) UpsertProduct(w http.ResponseWriter, r *http.Request) {
	var req upsertProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "invalid json body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "validation", "name is required")
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation", "invalid price")
		return
	}

	// Deliverables arrive either as a JSON list or a legacy comma-separated
	// string.
	var deliverables []models.Deliverable
	if len(req.Deliverables) > 0 {
		if err := json.Unmarshal(req.Deliverables, &deliverables); err != nil {
			var legacy string
			if err := json.Unmarshal(req.Deliverables, &legacy); err != nil {
				writeError(w, http.StatusBadRequest, "validation", "invalid deliverables")
				return
			}
			deliverables = models.ParseDeliverables(legacy)
		}
	}

	p := &models.Product{
		Name:         req.Name,
		Category:     req.Category,
		Description:  req.Description,
		Price:        price,
		Stock:        req.Stock,
		ImageURL:     req.ImageURL,
		Deliverables: deliverables,
	}
	if err := h.Catalog.AddOrUpdateProduct(r.Context(), p); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.RemoveProduct(r.Context(), chi.URLParam(r, "name")); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type setStockRequest struct {
	Amount int `json:"amount"`
}

func (h *Handler) SetStock(w http.ResponseWriter, r *http.Request) {
	var req setStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "invalid json body")
		return
	}
	if err := h.Catalog.SetStock(r.Context(), chi.URLParam(r, "name"), req.Amount); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Catalog.ListCategories(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	type category struct {
		ID    int64  `json:"id"`
		Value string `json:"value"`
		Label string `json:"label"`
		Emoji string `json:"emoji,omitempty"`
	}
	out := make([]category, 0, len(categories))
	for _, c := range categories {
		out = append(out, category{ID: c.ID, Value: c.Value, Label: c.Label, Emoji: c.Emoji})
	}
	writeJSON(w, http.StatusOK, out)
}

type categoryRequest struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Emoji string `json:"emoji"`
}

func (h *Handler) AddCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "invalid json body")
		return
	}
	if err := h.Catalog.AddCategory(r.Context(), req.Value, req.Label, req.Emoji); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation", "invalid category id")
		return
	}
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "invalid json body")
		return
	}
	if err := h.Catalog.UpdateCategory(r.Context(), id, req.Value, req.Label, req.Emoji); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation", "invalid category id")
		return
	}
	if err := h.Catalog.DeleteCategory(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	infos, err := h.Payments.List(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	type payment struct {
		Method  string `json:"method"`
		Address string `json:"address"`
	}
	out := make([]payment, 0, len(infos))
	for _, info := range infos {
		out = append(out, payment{Method: string(info.Method), Address: info.Address})
	}
	writeJSON(w, http.StatusOK, out)
}

type setPaymentRequest struct {
	Address string `json:"address"`
}

func (h *Handler) SetPayment(w http.ResponseWriter, r *http.Request) {
	var req setPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "invalid json body")
		return
	}
	if err := h.Payments.SetAddress(r.Context(), chi.URLParam(r, "method"), req.Address); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListBlacklist(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Blacklist.List(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	type entry struct {
		UserID  string `json:"userId"`
		Reason  string `json:"reason,omitempty"`
		AddedBy string `json:"addedBy"`
	}
	out := make([]entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, entry{UserID: e.UserID, Reason: e.Reason, AddedBy: e.AddedBy})
	}
	writeJSON(w, http.StatusOK, out)
}

type blacklistRequest struct {
	UserID string `json:"userId"`
	Reason string `json:"reason"`
}

func (h *Handler) AddToBlacklist(w http.ResponseWriter, r *http.Request) {
	var req blacklistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		writeError(w, http.StatusBadRequest, "validation", "userId is required")
		return
	}
	if err := h.Blacklist.Add(r.Context(), req.UserID, req.Reason, r.Header.Get("X-Actor-Id")); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

func (h *Handler) RemoveFromBlacklist(w http.ResponseWriter, r *http.Request) {
	if err := h.Blacklist.Remove(r.Context(), chi.URLParam(r, "userID")); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NotificationsWS upgrades the connection and streams every order event to
// the client until it disconnects.
func (h *Handler) NotificationsWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	h.Hub.Register(conn)

	// Drain client frames to notice disconnects.
	go func() {
		defer h.Hub.Unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
