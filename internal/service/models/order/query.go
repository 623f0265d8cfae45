package order

// QueryOrdersModel represents filter parameters for the staff order board.
type QueryOrdersModel struct {
	TableIDs []string `json:"tableIds,omitempty"`
	Statuses []Status `json:"statuses,omitempty"`
	Limit    int      `json:"limit,omitempty"`
	Offset   int      `json:"offset,omitempty"`
}

// Match reports whether o passes the table and status filters.
func (q *QueryOrdersModel) Match(o Order) bool {
	if len(q.TableIDs) > 0 && !contains(q.TableIDs, o.TableID) {
		return false
	}
	if len(q.Statuses) > 0 && !contains(q.Statuses, o.Status) {
		return false
	}

	return true
}

// Page applies Offset and Limit to an already filtered list.
func (q *QueryOrdersModel) Page(orders []Order) []Order {
	if q.Offset > 0 {
		if q.Offset >= len(orders) {
			return []Order{}
		}
		orders = orders[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(orders) {
		orders = orders[:q.Limit]
	}

	return orders
}

func contains[T comparable](values []T, v T) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}

	return false
}
