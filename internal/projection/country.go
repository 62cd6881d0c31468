package projection

import "strings"

// CountryFlag is the display form of an owner country code. Unknown codes
// resolve to the Unknown variant instead of failing.
type CountryFlag struct {
	Code  string `json:"code"`
	Flag  string `json:"flag"`
	Known bool   `json:"known"`
}

// UnknownFlag is shown for codes outside the table.
const UnknownFlag = "🏳️"

var countryFlags = map[string]string{
	"US": "🇺🇸",
	"GB": "🇬🇧",
	"FR": "🇫🇷",
	"DE": "🇩🇪",
	"IT": "🇮🇹",
	"ES": "🇪🇸",
	"NL": "🇳🇱",
	"PL": "🇵🇱",
	"TR": "🇹🇷",
	"RU": "🇷🇺",
	"CN": "🇨🇳",
	"KR": "🇰🇷",
	"CA": "🇨🇦",
	"AU": "🇦🇺",
	"IL": "🇮🇱",
	"AE": "🇦🇪",
	"QA": "🇶🇦",
	"KW": "🇰🇼",
}

// Country looks up an ISO alpha-2 code. Lookup is case-insensitive.
func Country(code string) CountryFlag {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if flag, ok := countryFlags[normalized]; ok {
		return CountryFlag{Code: normalized, Flag: flag, Known: true}
	}
	return CountryFlag{Code: normalized, Flag: UnknownFlag, Known: false}
}
