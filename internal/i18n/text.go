package i18n

// Text holds the translated variants of a single display field.
// Resolution is per field: a missing English product name falls back to
// German without affecting any other field's resolution.
type Text struct {
	DE string `json:"de"`
	EN string `json:"en,omitempty"`
	AR string `json:"ar,omitempty"`
}

// Resolve returns the locale's string when present and non-empty,
// otherwise the base-locale string.
func (t Text) Resolve(locale Locale) string {
	switch locale {
	case LocaleEN:
		if t.EN != "" {
			return t.EN
		}
	case LocaleAR:
		if t.AR != "" {
			return t.AR
		}
	}
	return t.DE
}

// Label keys for the fixed promotional strings.
const (
	LabelNew        = "badge.new"
	LabelSale       = "badge.sale"
	LabelBestseller = "badge.bestseller"
)

var labels = map[string]Text{
	LabelNew:        {DE: "NEU", EN: "NEW", AR: "جديد"},
	LabelSale:       {DE: "SALE", EN: "SALE", AR: "تخفيض"},
	LabelBestseller: {DE: "BESTSELLER", EN: "BESTSELLER", AR: "الأكثر مبيعاً"},
}

// Label resolves a fixed UI label for the locale. Unknown keys resolve
// to the empty string.
func Label(key string, locale Locale) string {
	return labels[key].Resolve(locale)
}
