package carve

import (
	"regexp"

	"github.com/steamcarve/steamcarve/internal/model"
)

// detector pairs a structural pattern with the kind it assigns.
type detector struct {
	kind    model.Kind
	pattern *regexp.Regexp
}

// detectors is the ordered detector list. Order is the priority: a run
// containing both a URL and a SteamID substring classifies as url because
// the URL detector runs first.
var detectors = []detector{
	{model.KindURL, urlRe},
	{model.KindSteamID, steamIDRe},
	{model.KindChat, msgRe},
}

// Classify assigns a kind to a candidate run, first matching detector
// wins. Runs matching no detector are KindString, a transient
// classification that refinement drops.
func Classify(data []byte) model.Kind {
	for _, d := range detectors {
		if d.pattern.Match(data) {
			return d.kind
		}
	}
	return model.KindString
}
