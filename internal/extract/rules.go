package extract

import "regexp"

// sizeWindow is an inclusive pixel-dimension range used to classify
// small decorative images.
type sizeWindow struct {
	minW, maxW int
	minH, maxH int
}

func (w sizeWindow) contains(width, height int) bool {
	return width >= w.minW && width <= w.maxW && height >= w.minH && height <= w.maxH
}

// The dimension windows were tuned empirically against real webring
// pages; keep the literal values.
var (
	// buttonWindow covers the classic 88x31 and 80x15 linkback sizes.
	buttonWindow = sizeWindow{minW: 70, maxW: 100, minH: 12, maxH: 35}
	// blinkieWindow covers the longer, thinner ~150x20 banners.
	blinkieWindow = sizeWindow{minW: 120, maxW: 160, minH: 18, maxH: 25}
)

// Filename tokens that indicate a button or blinkie when explicit
// dimensions are absent.
var (
	buttonNameTokens  = []string{"button", "badge", "btn", "88x31", "80x15"}
	blinkieNameTokens = []string{"blink", "blinkie", "150x20"}
)

// Extensions worth probing for true pixel dimensions.
var probeImageExtensions = []string{".gif", ".png", ".jpg", ".jpeg"}

// Ordered vocabulary for collapsing declared fonts to one best-guess
// family. First match wins.
var fontVocabulary = []string{
	"comic", "courier", "times", "arial", "verdana",
	"georgia", "monospace", "serif", "sans-serif",
}

// Property-name fragments whose values may carry color tokens.
var colorBearingNameTokens = []string{"background", "color", "border"}

// cssColorKeywords filters bare-word matches in color-bearing values
// down to actual CSS color names.
var cssColorKeywords = map[string]struct{}{
	"black": {}, "silver": {}, "gray": {}, "grey": {}, "white": {},
	"maroon": {}, "red": {}, "purple": {}, "fuchsia": {}, "green": {},
	"lime": {}, "olive": {}, "yellow": {}, "navy": {}, "blue": {},
	"teal": {}, "aqua": {}, "orange": {}, "pink": {}, "hotpink": {},
	"deeppink": {}, "crimson": {}, "salmon": {}, "coral": {},
	"tomato": {}, "gold": {}, "khaki": {}, "lavender": {}, "plum": {},
	"violet": {}, "orchid": {}, "magenta": {}, "indigo": {},
	"turquoise": {}, "cyan": {}, "skyblue": {}, "azure": {},
	"beige": {}, "ivory": {}, "linen": {}, "tan": {}, "brown": {},
	"chocolate": {}, "sienna": {}, "transparent": {},
	"aquamarine": {}, "chartreuse": {}, "darkblue": {},
	"darkgreen": {}, "darkred": {}, "darkgray": {}, "darkgrey": {},
	"lightblue": {}, "lightgreen": {}, "lightgray": {},
	"lightgrey": {}, "lightpink": {}, "lightyellow": {},
	"mintcream": {}, "seagreen": {}, "slateblue": {}, "slategray": {},
	"thistle": {}, "wheat": {}, "whitesmoke": {}, "rebeccapurple": {},
}

var (
	cssCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
	declRe       = regexp.MustCompile(`([a-zA-Z-]+)\s*:\s*([^;{}]+)`)
	urlRefRe     = regexp.MustCompile(`url\(['"]?(.*?)['"]?\)`)
	// Gradient functions are intentionally absent: gradients are flagged
	// separately and their component colors matched individually.
	colorTokenRe = regexp.MustCompile(
		`#[0-9a-f]{3,8}|rgba?\([^)]+\)|hsla?\([^)]+\)|var\([^)]+\)|\b[a-z][a-z-]*\b`)
)
