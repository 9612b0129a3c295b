package billing

import (
	"strconv"
	"time"
)

// Tier grades the urgency of a countdown.
type Tier int

const (
	TierNormal   Tier = iota
	TierWarning       // 2-3 days left
	TierCritical      // last day or past due
)

// TierFor maps a days-remaining count to its urgency tier. Every view that
// shows a countdown must go through this so the thresholds stay in one place.
func TierFor(daysRemaining int) Tier {
	switch {
	case daysRemaining <= 1:
		return TierCritical
	case daysRemaining <= 3:
		return TierWarning
	default:
		return TierNormal
	}
}

// Icon returns the urgency indicator shown next to the countdown.
func (t Tier) Icon() string {
	switch t {
	case TierCritical:
		return "🔴"
	case TierWarning:
		return "🟡"
	default:
		return "🟢"
	}
}

// Message returns the urgency line shown under the countdown.
func (t Tier) Message() string {
	switch t {
	case TierCritical:
		return "¡Último día para pagar!"
	case TierWarning:
		return "Quedan pocos días"
	default:
		return "¡Estás al día!"
	}
}

// Color returns the semantic color name for the tier.
func (t Tier) Color() string {
	switch t {
	case TierCritical:
		return "danger"
	case TierWarning:
		return "warning"
	default:
		return "success"
	}
}

// Summary is the render-ready classification of a worker's pending periods.
type Summary struct {
	// Empty is true when nothing is pending at all.
	Empty bool
	// CaughtUp is true when only the currently-open period is owed.
	CaughtUp bool
	// OverdueCount counts pending periods that are strictly in the past.
	OverdueCount int
	// TotalPending is the length of the pending list.
	TotalPending int
	// Display is the period to render: the current one when caught up,
	// otherwise the oldest pending one. Nil when Empty.
	Display *Period
	// DaysRemaining and DaysTier are set only when CaughtUp; overdue
	// workers get the banner instead of a countdown.
	DaysRemaining int
	DaysTier      Tier
}

// Summarize turns the backend's oldest-first pending-period list into a
// Summary. The list contains only unpaid periods, so every non-current entry
// is overdue. When the backend erroneously marks several periods current,
// the last one scanned wins.
func Summarize(pending []Period, now time.Time) Summary {
	if len(pending) == 0 {
		return Summary{Empty: true, CaughtUp: true}
	}

	var current *Period
	overdue := 0
	for i := range pending {
		if pending[i].EsActual {
			current = &pending[i]
		} else {
			overdue++
		}
	}

	s := Summary{
		OverdueCount: overdue,
		TotalPending: len(pending),
	}

	if overdue == 0 && current != nil {
		s.CaughtUp = true
		s.Display = current
		s.DaysRemaining = current.DaysRemaining(now)
		s.DaysTier = TierFor(s.DaysRemaining)
		return s
	}

	s.Display = &pending[0]
	return s
}

// OverdueBanner returns the aggregate overdue line, e.g.
// "Tienes 2 semanas atrasadas".
func (s Summary) OverdueBanner(kind PeriodKind) string {
	if s.OverdueCount == 0 {
		return ""
	}
	noun := kind.Plural() + " atrasadas"
	if s.OverdueCount == 1 {
		noun = kind.String() + " atrasada"
	}
	if kind == Monthly {
		noun = kind.Plural() + " atrasados"
		if s.OverdueCount == 1 {
			noun = kind.String() + " atrasado"
		}
	}
	return "Tienes " + strconv.Itoa(s.OverdueCount) + " " + noun
}
