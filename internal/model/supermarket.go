package model

// Supermarket is a registered product source. Code is the stable identifier
// adapters use; lookups by code are case-insensitive.
type Supermarket struct {
	ID      int64
	Code    string
	Name    string
	BaseURL string
}

// KnownSupermarkets holds the built-in registration defaults for the Dutch
// chains, keyed by uppercase code.
var KnownSupermarkets = map[string]Supermarket{
	"DIRK":      {Code: "DIRK", Name: "Dirk van den Broek", BaseURL: "https://www.dirk.nl"},
	"AH":        {Code: "AH", Name: "Albert Heijn", BaseURL: "https://www.ah.nl"},
	"JUMBO":     {Code: "JUMBO", Name: "Jumbo", BaseURL: "https://www.jumbo.com"},
	"HOOGVLIET": {Code: "HOOGVLIET", Name: "Hoogvliet", BaseURL: "https://www.hoogvliet.com"},
	"ALDI":      {Code: "ALDI", Name: "ALDI", BaseURL: "https://www.aldi.nl"},
	"LIDL":      {Code: "LIDL", Name: "Lidl", BaseURL: "https://www.lidl.nl"},
	"PLUS":      {Code: "PLUS", Name: "Plus", BaseURL: "https://www.plus.nl"},
	"DEKA":      {Code: "DEKA", Name: "Dekamarkt", BaseURL: "https://www.dekamarkt.nl"},
}
