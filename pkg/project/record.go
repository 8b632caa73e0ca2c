package project

import (
	"math"

	"fiberops-assistant-be/pkg/locate"
)

const (
	DefaultMarket     = "General"
	DefaultSupervisor = "Unassigned"
)

// Record is one reconciled project row. Descriptive fields are passed through verbatim.
type Record struct {
	ID                string          `json:"id"`
	Market            string          `json:"market"`
	Supervisor        string          `json:"supervisor"`
	Sheet             string          `json:"sheet"`
	FootageTotal      float64         `json:"footage_total"`
	FootageRemaining  float64         `json:"footage_remaining"`
	CompletionPercent int             `json:"completion_percent"`
	Status            string          `json:"status,omitempty"`
	StartDate         string          `json:"start_date,omitempty"`
	CompletionDate    string          `json:"completion_date,omitempty"`
	Cost              string          `json:"cost,omitempty"`
	Area              string          `json:"area,omitempty"`
	Households        string          `json:"households,omitempty"`
	LocateTickets     []locate.Ticket `json:"locate_tickets"`
}

// CompletionPercent is round(100*(total-remaining)/total) clamped to [0,100]; 0 when total <= 0.
func CompletionPercent(total, remaining float64) int {
	if total <= 0 {
		return 0
	}
	pct := math.Round(100 * (total - remaining) / total)
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return int(pct)
}

// RemainingOrTotal applies the remaining-footage fallback: a blank remaining column means the
// whole run is still to be built.
func RemainingOrTotal(rawRemaining string, total float64) float64 {
	if isBlank(rawRemaining) {
		return total
	}
	return nonNegative(parseNumber(rawRemaining))
}
