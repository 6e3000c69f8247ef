package normalize

import "strings"

// EmptyCell is shown for absent values.
const EmptyCell = "—"

// FormatCell renders one cell for display. Booleans are localized: Sim/Não
// for Portuguese (the default) and Yes/No for English locales.
func FormatCell(v any, locale string) string {
	switch t := v.(type) {
	case nil:
		return EmptyCell
	case bool:
		if isEnglish(locale) {
			if t {
				return "Yes"
			}
			return "No"
		}
		if t {
			return "Sim"
		}
		return "Não"
	default:
		return scalarString(t)
	}
}

func isEnglish(locale string) bool {
	return strings.HasPrefix(strings.ToLower(locale), "en")
}
