package content

import "golang.org/x/text/language"

// Labels are fixed strings renderers put around content.
type Labels struct {
	By         string
	Navigation string
	Back       string
}

var (
	supported = []language.Tag{language.English, language.Indonesian}
	matcher   = language.NewMatcher(supported)
	labels    = map[language.Tag]Labels{
		language.English: {
			By:         "By",
			Navigation: "Quick Navigation",
			Back:       "← Back",
		},
		language.Indonesian: {
			By:         "Oleh",
			Navigation: "Navigasi Cepat",
			Back:       "← Kembali",
		},
	}
)

// LabelsFor returns labels in language closest to tag, English when nothing
// matches.
func LabelsFor(tag language.Tag) Labels {
	_, idx, _ := matcher.Match(tag)
	return labels[supported[idx]]
}
