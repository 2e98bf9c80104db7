package theme

// Descriptor pairs the background asset and color token the renderer applies
// for an emotion. Asset is empty for the neutral state (no scrolling art).
type Descriptor struct {
	Asset string `json:"asset,omitempty"`
	Color string `json:"color"`
}

// Neutral is the label used when the backend returns no emotion or an
// unrecognized one.
const Neutral = "neutral"

// Near-synonymous labels deliberately share an asset so the background does
// not flicker between visually identical moods.
var descriptors = map[string]Descriptor{
	"sadness":        {Asset: "sad.png", Color: "#172554"},
	"grief":          {Asset: "sad.png", Color: "#172554"},
	"disappointment": {Asset: "sad.png", Color: "#172554"},
	"anger":          {Asset: "angry.png", Color: "#450a0a"},
	"annoyance":      {Asset: "angry.png", Color: "#450a0a"},
	"disgust":        {Asset: "angry.png", Color: "#14532d"},
	"fear":           {Asset: "scared.png", Color: "#3b0764"},
	"nervousness":    {Asset: "scared.png", Color: "#3b0764"},
	"confusion":      {Asset: "scared.png", Color: "#431407"},
	"joy":            {Asset: "joy.png", Color: "#422006"},
	"excitement":     {Asset: "joy.png", Color: "#422006"},
	"optimism":       {Asset: "joy.png", Color: "#422006"},
	"love":           {Asset: "love.png", Color: "#831843"},
	"surprise":       {Asset: "shock.png", Color: "#581c87"},
	"curiosity":      {Asset: "shock.png", Color: "#581c87"},
	Neutral:          {Color: "#0f172a"},
}

// Resolve maps an emotion label to its theme descriptor. It is pure and
// total: every input yields a descriptor, and unknown or empty labels yield
// the neutral one.
func Resolve(label string) Descriptor {
	if d, ok := descriptors[label]; ok {
		return d
	}
	return descriptors[Neutral]
}

// Known reports whether the label belongs to the recognized set.
func Known(label string) bool {
	_, ok := descriptors[label]
	return ok
}

// Labels returns the recognized label set in no particular order.
func Labels() []string {
	out := make([]string, 0, len(descriptors))
	for label := range descriptors {
		out = append(out, label)
	}
	return out
}
