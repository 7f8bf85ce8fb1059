package sale

import (
	"time"

	"github.com/xraph/tab/order"
	"github.com/xraph/tab/types"
)

// Summary is the result of a windowed revenue query.
type Summary struct {
	Count int         `json:"count"`
	Gross types.Money `json:"gross"`
}

// currency returns the ledger's working currency, defaulting to usd for
// an empty ledger so zero summaries are well-formed.
func (a *Aggregator) currency() string {
	if len(a.sales) > 0 {
		return a.sales[0].Total.Currency
	}
	return "usd"
}

// sumWhere folds the ledger entries matching the predicate.
func (a *Aggregator) sumWhere(match func(*Sale) bool) Summary {
	a.mu.RLock()
	defer a.mu.RUnlock()

	sum := Summary{Gross: types.Zero(a.currency())}
	for _, s := range a.sales {
		if match(s) {
			sum.Count++
			sum.Gross = sum.Gross.Add(s.Total)
		}
	}
	return sum
}

// sameDay reports whether t falls on the given calendar date (local time).
func sameDay(t, day time.Time) bool {
	y1, m1, d1 := t.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// weekStart returns the Sunday beginning the week containing day.
func weekStart(day time.Time) time.Time {
	y, m, d := day.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	return midnight.AddDate(0, 0, -int(midnight.Weekday()))
}

// ByDay sums sales on the exact calendar date of day.
func (a *Aggregator) ByDay(day time.Time) Summary {
	return a.sumWhere(func(s *Sale) bool { return sameDay(s.Date, day) })
}

// ByWeek sums sales in the Sunday-start 7-day window containing day.
func (a *Aggregator) ByWeek(day time.Time) Summary {
	start := weekStart(day)
	end := start.AddDate(0, 0, 7)
	return a.sumWhere(func(s *Sale) bool {
		return !s.Date.Before(start) && s.Date.Before(end)
	})
}

// ByMonth sums sales in the given calendar month.
func (a *Aggregator) ByMonth(year int, month time.Month) Summary {
	return a.sumWhere(func(s *Sale) bool {
		y, m, _ := s.Date.Date()
		return y == year && m == month
	})
}

// ByPaymentMethod groups gross revenue by payment method.
func (a *Aggregator) ByPaymentMethod() map[order.PaymentMethod]types.Money {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make(map[order.PaymentMethod]types.Money)
	for _, s := range a.sales {
		cur, ok := out[s.Method]
		if !ok {
			cur = types.Zero(s.Total.Currency)
		}
		out[s.Method] = cur.Add(s.Total)
	}
	return out
}

// ByCategory groups item subtotals (price × quantity, pre-tax) by item
// category across the whole ledger. Items without a category land under
// "uncategorized".
func (a *Aggregator) ByCategory() map[string]types.Money {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make(map[string]types.Money)
	for _, s := range a.sales {
		for _, it := range s.Items {
			cat := it.Category
			if cat == "" {
				cat = "uncategorized"
			}
			line := it.Price.Multiply(it.Quantity)
			cur, ok := out[cat]
			if !ok {
				cur = types.Zero(line.Currency)
			}
			out[cat] = cur.Add(line)
		}
	}
	return out
}

// ByHour buckets one calendar day's sales into 24 hour-of-day summaries.
func (a *Aggregator) ByHour(day time.Time) [24]Summary {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var buckets [24]Summary
	cur := a.currency()
	for i := range buckets {
		buckets[i].Gross = types.Zero(cur)
	}

	for _, s := range a.sales {
		if !sameDay(s.Date, day) {
			continue
		}
		h := s.Date.Hour()
		buckets[h].Count++
		buckets[h].Gross = buckets[h].Gross.Add(s.Total)
	}
	return buckets
}
