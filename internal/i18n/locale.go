// Package i18n resolves the storefront locale and translated fields.
// German is the base locale; English and Arabic are the additional
// storefront languages.
package i18n

import (
	"net/http"

	"golang.org/x/text/language"
)

// Locale identifies one of the supported storefront languages.
type Locale string

const (
	LocaleDE Locale = "de"
	LocaleEN Locale = "en"
	LocaleAR Locale = "ar"

	// BaseLocale is always fully populated in the catalog and is the
	// fallback for every missing translation.
	BaseLocale = LocaleDE

	cookieName = "lang"
	queryParam = "lang"
)

var supported = []language.Tag{
	language.German, // de, matcher default
	language.English,
	language.Arabic,
}

var matcher = language.NewMatcher(supported)

// Parse maps an arbitrary language string to a supported Locale,
// falling back to the base locale for anything unrecognized.
func Parse(s string) Locale {
	if s == "" {
		return BaseLocale
	}
	tag, err := language.Parse(s)
	if err != nil {
		return BaseLocale
	}
	return fromTag(tag)
}

// FromRequest resolves the active locale: explicit lang query parameter
// first, then the lang cookie, then Accept-Language.
func FromRequest(r *http.Request) Locale {
	if v := r.URL.Query().Get(queryParam); v != "" {
		return Parse(v)
	}
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return Parse(c.Value)
	}
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return BaseLocale
	}
	_, idx, _ := matcher.Match(tags...)
	return fromIndex(idx)
}

// IsRTL reports whether the locale renders right-to-left.
func (l Locale) IsRTL() bool {
	return l == LocaleAR
}

func fromTag(tag language.Tag) Locale {
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return BaseLocale
	}
	return fromIndex(idx)
}

func fromIndex(idx int) Locale {
	switch idx {
	case 1:
		return LocaleEN
	case 2:
		return LocaleAR
	default:
		return BaseLocale
	}
}
