package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPendingProof OrderStatus = "pending_proof"
	OrderCompleted    OrderStatus = "completed"
	OrderRejected     OrderStatus = "rejected"
)

// Terminal reports whether no transition may leave this status.
func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderRejected
}

type PaymentMethod string

const (
	PayPaypal PaymentMethod = "paypal"
	PayBTC    PaymentMethod = "btc"
	PayETH    PaymentMethod = "eth"
	PayLTC    PaymentMethod = "ltc"
	PayUSDT   PaymentMethod = "usdt"
	PaySOL    PaymentMethod = "sol"
	PayCard   PaymentMethod = "card"
)

var paymentMethods = map[PaymentMethod]bool{
	PayPaypal: true,
	PayBTC:    true,
	PayETH:    true,
	PayLTC:    true,
	PayUSDT:   true,
	PaySOL:    true,
	PayCard:   true,
}

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	return m, paymentMethods[m]
}

func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PayPaypal, PayBTC, PayETH, PayLTC, PayUSDT, PaySOL, PayCard}
}

type Order struct {
	ID            int64
	OrderID       string
	BuyerID       string
	ProductID     int64
	Quantity      int
	TotalPrice    decimal.Decimal
	PaymentMethod PaymentMethod
	Status        OrderStatus
	ProofRef      *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Deliverable is one item handed to the buyer once an order completes.
type Deliverable struct {
	Item string `json:"item"`
	Type string `json:"type"`
}

// ParseDeliverables accepts either the JSON list format or the legacy
// comma-separated string and normalizes both into []Deliverable.
func ParseDeliverables(raw string) []Deliverable {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var out []Deliverable
		if err := json.Unmarshal([]byte(raw), &out); err == nil {
			return out
		}
	}
	var out []Deliverable
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, Deliverable{Item: part})
	}
	return out
}

type Product struct {
	ID           int64
	Name         string
	Category     string
	Description  string
	Price        decimal.Decimal
	Stock        int
	ImageURL     string
	Deliverables []Deliverable
	IsDeleted    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Category struct {
	ID        int64
	Value     string
	Label     string
	Emoji     string
	CreatedAt time.Time
}

// SalesStat is append-only: one row per completed order.
type SalesStat struct {
	ID           int64
	Date         time.Time
	ProductID    int64
	QuantitySold int
	Revenue      decimal.Decimal
}

type PaymentInfo struct {
	Method    PaymentMethod
	Address   string
	UpdatedAt time.Time
}

type BlacklistEntry struct {
	UserID    string
	Reason    string
	AddedBy   string
	CreatedAt time.Time
}

type StatsPeriod string

const (
	PeriodDaily   StatsPeriod = "daily"
	PeriodWeekly  StatsPeriod = "weekly"
	PeriodMonthly StatsPeriod = "monthly"
	PeriodAll     StatsPeriod = "all"
)

// ParsePeriod falls back to PeriodAll for unknown values.
func ParsePeriod(s string) StatsPeriod {
	switch StatsPeriod(strings.ToLower(strings.TrimSpace(s))) {
	case PeriodDaily:
		return PeriodDaily
	case PeriodWeekly:
		return PeriodWeekly
	case PeriodMonthly:
		return PeriodMonthly
	default:
		return PeriodAll
	}
}

type StatsSummary struct {
	TotalOrders     int64
	CompletedOrders int64
	TotalRevenue    decimal.Decimal
}

// RevenuePoint is one day of completed revenue in a time series.
type RevenuePoint struct {
	Date    string
	Revenue decimal.Decimal
}
