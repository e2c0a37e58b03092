// Package models defines data structures for cryptodash
package models

import "time"

// Holding is one portfolio entry for a single tracked coin.
// JSON names match the crypto_portfolio blob.
type Holding struct {
	ID                    string    `json:"id"`
	CoinID                string    `json:"coinId"`
	Name                  string    `json:"name"`
	Symbol                string    `json:"symbol"`
	Image                 string    `json:"image,omitempty"`
	Amount                float64   `json:"amount"`
	BuyPrice              float64   `json:"buyPrice"`     // volume-weighted average cost per unit
	CurrentPrice          float64   `json:"currentPrice"` // 0 until the first successful fetch
	PriceChangePercent24h float64   `json:"priceChangePercent24h"`
	PurchaseDate          *Date     `json:"purchaseDate,omitempty"`
	AddedAt               time.Time `json:"addedAt"`
}

// HoldingInput is the user-supplied part of a holding.
type HoldingInput struct {
	CoinID       string
	Name         string
	Symbol       string
	Image        string
	Amount       float64
	BuyPrice     float64
	PurchaseDate *Date
}

// HoldingUpdate carries a partial update; nil fields are left unchanged.
type HoldingUpdate struct {
	Name         *string
	Symbol       *string
	Image        *string
	Amount       *float64
	BuyPrice     *float64
	CurrentPrice *float64
	PurchaseDate *Date
}

// Apply shallow-merges the non-nil fields of u into h.
func (u HoldingUpdate) Apply(h *Holding) {
	if u.Name != nil {
		h.Name = *u.Name
	}
	if u.Symbol != nil {
		h.Symbol = *u.Symbol
	}
	if u.Image != nil {
		h.Image = *u.Image
	}
	if u.Amount != nil {
		h.Amount = *u.Amount
	}
	if u.BuyPrice != nil {
		h.BuyPrice = *u.BuyPrice
	}
	if u.CurrentPrice != nil {
		h.CurrentPrice = *u.CurrentPrice
	}
	if u.PurchaseDate != nil {
		d := *u.PurchaseDate
		h.PurchaseDate = &d
	}
}

// Transaction is a single buy used for cost averaging.
type Transaction struct {
	Amount float64 `json:"amount"`
	Price  float64 `json:"price"`
}
