package world

// CombatStyle selects which substat an attack favors and trains.
type CombatStyle int

const (
	StyleAccurate CombatStyle = iota
	StyleAggressive
	StyleDefensive
	StyleControlled
	styleCount
)

var styleNames = [styleCount]string{"accurate", "aggressive", "defensive", "controlled"}

func (s CombatStyle) String() string {
	if s < 0 || s >= styleCount {
		return "unknown"
	}
	return styleNames[s]
}

// categoryStyles maps a weapon category to its legal styles.
// Categories absent from the map allow all four (fists, improvised weapons).
var categoryStyles = map[string][]CombatStyle{
	"bow":      {StyleAccurate, StyleAggressive, StyleDefensive},
	"crossbow": {StyleAccurate, StyleAggressive, StyleDefensive},
	"thrown":   {StyleAccurate, StyleAggressive, StyleDefensive},
	"staff":    {StyleAccurate, StyleDefensive, StyleControlled},
}

// StyleLegal reports whether a style may be used with a weapon category.
func StyleLegal(category string, style CombatStyle) bool {
	legal, ok := categoryStyles[category]
	if !ok {
		return style >= 0 && style < styleCount
	}
	for _, s := range legal {
		if s == style {
			return true
		}
	}
	return false
}

// NearestLegalStyle returns style unchanged when legal, otherwise the legal
// style with the smallest index distance (ties resolve to the lower index).
func NearestLegalStyle(category string, style CombatStyle) CombatStyle {
	if StyleLegal(category, style) {
		return style
	}
	legal := categoryStyles[category]
	best := legal[0]
	bestDist := distance(best, style)
	for _, s := range legal[1:] {
		if d := distance(s, style); d < bestDist {
			best, bestDist = s, d
		}
	}
	return best
}

func distance(a, b CombatStyle) int {
	d := int(a) - int(b)
	if d < 0 {
		d = -d
	}
	return d
}
