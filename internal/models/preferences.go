package models

// Theme is the display theme preference
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// SupportedCurrencies lists the display currencies accepted by the markets endpoint.
var SupportedCurrencies = []string{"usd", "eur", "gbp", "jpy", "btc", "eth"}

// Preferences holds persisted display preferences.
type Preferences struct {
	Theme    Theme  `json:"theme"`
	Currency string `json:"currency"`
}

// DefaultPreferences returns dark theme with USD.
func DefaultPreferences() Preferences {
	return Preferences{Theme: ThemeDark, Currency: "usd"}
}
