package layout

// LocalRect is solver output: top-left origin, relative to the parent's
// top-left corner, in millimetres.
type LocalRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is page-absolute with a top-left origin; y grows downward.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// BottomLeftRect is page-absolute with a bottom-left origin; y grows upward
// and Y is the lower edge. Writers only ever receive this basis.
type BottomLeftRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
