package extract

import "regexp"

// Pattern-derived signal labels. These never come from the recognizer, so
// they can be trusted even when no recognizer is configured.
const (
	LabelEmail = "EMAIL"
	LabelPhone = "PHONE"
	LabelURL   = "URL"

	AssetAircraftReg = "AIRCRAFT_REG"
	AssetIMO         = "IMO"
)

var (
	emailRE = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRE = regexp.MustCompile(`\b(?:\+?\d{1,3}[\s-]?)?(?:\(?\d{3}\)?[\s-]?)?\d{3}[\s-]?\d{4}\b`)
	urlRE   = regexp.MustCompile(`https?://\S+`)

	// Civil aircraft registrations: US N-numbers plus common European
	// prefix-dash forms and Canadian C- marks.
	aircraftRegRE = regexp.MustCompile(`\b(` +
		`(?:N\d{1,5}[A-Z]{0,2})` +
		`|(?:G-[A-Z]{4})` +
		`|(?:D-[A-Z]{4})` +
		`|(?:F-[A-Z]{4})` +
		`|(?:I-[A-Z]{4})` +
		`|(?:C-[A-Z]{3}[A-Z0-9])` +
		`)\b`)

	imoRE = regexp.MustCompile(`(?i)\bIMO\s?\d{7}\b`)
)
