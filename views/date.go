package views

import (
	"github.com/goodsign/monday"

	"github.com/eringen/mdblog/index"
)

// dateLayouts holds long-date layouts for locales whose word order differs
// from the default "2 January 2006".
var dateLayouts = map[monday.Locale]string{
	monday.LocaleEnUS: "January 2, 2006",
	monday.LocaleKoKR: "2006년 1월 2일",
	monday.LocaleJaJP: "2006年1月2日",
	monday.LocaleZhCN: "2006年1月2日",
}

const defaultDateLayout = "2 January 2006"

// FormatDate renders a front-matter date as a long localized date. Dates that
// don't parse are returned as written.
func FormatDate(date, locale string) string {
	t := index.ParseDate(date)
	if t.IsZero() {
		return date
	}
	loc := resolveLocale(locale)
	layout, ok := dateLayouts[loc]
	if !ok {
		layout = defaultDateLayout
	}
	return monday.Format(t, layout, loc)
}

func resolveLocale(locale string) monday.Locale {
	for _, l := range monday.ListLocales() {
		if string(l) == locale {
			return l
		}
	}
	return monday.LocaleEnUS
}
