package order

import (
	"errors"
	"time"

	"github.com/corray333/atlas-cafe/internal/service/models/cartitem"
	"github.com/shopspring/decimal"
)

// TakeawayTableID stamps orders placed without a table context.
const TakeawayTableID = "Takeaway"

// Status is the kitchen status of an order.
type Status string

const (
	StatusNew       Status = "new"
	StatusPreparing Status = "preparing"
	StatusCompleted Status = "completed"
)

var ErrInvalidStatus = errors.New("invalid order status")

func (s Status) String() string {
	return string(s)
}

func ParseStatus(s string) (Status, error) {
	switch s {
	case StatusNew.String():
		return StatusNew, nil
	case StatusPreparing.String():
		return StatusPreparing, nil
	case StatusCompleted.String():
		return StatusCompleted, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Order represents a submitted checkout. Items and Total are captured at creation.
type Order struct {
	ID        string              `json:"id"`
	TableID   string              `json:"tableId"`
	Items     []cartitem.CartItem `json:"items"`
	Total     decimal.Decimal     `json:"total"`
	Status    Status              `json:"status"`
	CreatedAt time.Time           `json:"createdAt"`
}

// Clone returns a copy that shares no slices with o.
func (o Order) Clone() Order {
	o.Items = append([]cartitem.CartItem(nil), o.Items...)
	return o
}
