package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// AlertType is the direction of a price threshold rule
type AlertType string

const (
	AlertPriceAbove AlertType = "price_above"
	AlertPriceBelow AlertType = "price_below"
)

// Valid reports whether t is a known alert type.
func (t AlertType) Valid() bool {
	return t == AlertPriceAbove || t == AlertPriceBelow
}

// Crossed reports whether price satisfies the rule for target.
func (t AlertType) Crossed(price, target float64) bool {
	switch t {
	case AlertPriceAbove:
		return price >= target
	case AlertPriceBelow:
		return price <= target
	}
	return false
}

// AlertStatus is the closed set of alert lifecycle states.
// Active may move to Triggered or Disabled; both of those are terminal.
type AlertStatus string

const (
	AlertActive    AlertStatus = "active"
	AlertTriggered AlertStatus = "triggered"
	AlertDisabled  AlertStatus = "disabled"
)

// Valid reports whether s is one of the known states.
func (s AlertStatus) Valid() bool {
	switch s {
	case AlertActive, AlertTriggered, AlertDisabled:
		return true
	}
	return false
}

// UnmarshalJSON rejects unknown states.
func (s *AlertStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := AlertStatus(raw)
	if !v.Valid() {
		return fmt.Errorf("unknown alert status %q", raw)
	}
	*s = v
	return nil
}

// ErrInvalidTransition is returned when an alert is not in a state that allows the change.
type ErrInvalidTransition struct {
	From AlertStatus
	To   AlertStatus
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("alert cannot move from %s to %s", e.From, e.To)
}

// Alert is a one-shot price threshold rule for a coin.
type Alert struct {
	ID          string      `json:"id"`
	CoinID      string      `json:"coinId"`
	CoinName    string      `json:"coinName"`
	Type        AlertType   `json:"type"`
	TargetPrice float64     `json:"targetPrice"`
	Status      AlertStatus `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	TriggeredAt *time.Time  `json:"triggeredAt,omitempty"`
}

// IsActive reports whether the alert is still being evaluated.
func (a *Alert) IsActive() bool {
	return a.Status == AlertActive
}

// Trigger moves an active alert to triggered and stamps the time.
func (a *Alert) Trigger(at time.Time) error {
	if a.Status != AlertActive {
		return &ErrInvalidTransition{From: a.Status, To: AlertTriggered}
	}
	a.Status = AlertTriggered
	a.TriggeredAt = &at
	return nil
}

// Disable moves an active alert to disabled.
func (a *Alert) Disable() error {
	if a.Status != AlertActive {
		return &ErrInvalidTransition{From: a.Status, To: AlertDisabled}
	}
	a.Status = AlertDisabled
	return nil
}

// AlertInput is the user-supplied part of a new alert.
type AlertInput struct {
	CoinID      string
	CoinName    string
	Type        AlertType
	TargetPrice float64
}

// AlertUpdate carries a partial alert update.
type AlertUpdate struct {
	Type        *AlertType
	TargetPrice *float64
	CoinName    *string
}
