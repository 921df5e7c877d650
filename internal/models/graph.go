package models

// Graph is one deck entry in its canonical nested shape: a practice face
// used by flashcards and optional study content for step-by-step reveal.
type Graph struct {
	ID       int          `json:"id" validate:"gt=0"`
	Title    string       `json:"title" validate:"required"`
	Practice PracticeData `json:"practice"`
	Study    *StudyData   `json:"study,omitempty"`
}

type PracticeData struct {
	Question    string       `json:"question" validate:"required"`
	AnswerImage string       `json:"answerImage" validate:"required"`
	Explanation string       `json:"explanation" validate:"required"`
	KeyElements []KeyElement `json:"keyElements,omitempty" validate:"omitempty,dive"`
}

type KeyElement struct {
	Element     string `json:"element" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type StudyData struct {
	BaseImage string       `json:"baseImage" validate:"required"`
	Steps     []StepRecord `json:"steps" validate:"omitempty,dive"`
}

// CardRecord is the flat practice view of a Graph handed to the renderer.
type CardRecord struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	Question    string       `json:"question"`
	AnswerImage string       `json:"answerImage"`
	Explanation string       `json:"explanation"`
	KeyElements []KeyElement `json:"keyElements,omitempty"`
}

// Card flattens the practice face of g.
func (g Graph) Card() CardRecord {
	return CardRecord{
		ID:          g.ID,
		Title:       g.Title,
		Question:    g.Practice.Question,
		AnswerImage: g.Practice.AnswerImage,
		Explanation: g.Practice.Explanation,
		KeyElements: g.Practice.KeyElements,
	}
}

// StepAction is what a study step does to the diagram.
type StepAction string

const (
	ActionDraw      StepAction = "draw"
	ActionHighlight StepAction = "highlight"
	ActionOverlay   StepAction = "overlay"
)

// Geometry is the kind of shape a step contributes.
type Geometry string

const (
	GeometryLine  Geometry = "line"
	GeometryCurve Geometry = "curve"
	GeometryPoint Geometry = "point"
	GeometryArea  Geometry = "area"
)

// Default stroke used when a draw step carries no styling.
const (
	DefaultStrokeColor = "#2563eb"
	DefaultStrokeWidth = 2.0
)

type StepRecord struct {
	Step        int        `json:"step"`
	Action      StepAction `json:"action" validate:"oneof=draw highlight overlay"`
	Type        Geometry   `json:"type" validate:"oneof=line curve point area"`
	Path        string     `json:"path,omitempty"`
	Image       string     `json:"image,omitempty"`
	StrokeColor string     `json:"strokeColor,omitempty"`
	StrokeWidth *float64   `json:"strokeWidth,omitempty" validate:"omitempty,gt=0"`
	X           *float64   `json:"x,omitempty"`
	Y           *float64   `json:"y,omitempty"`
	Label       string     `json:"label" validate:"required"`
	Explanation string     `json:"explanation" validate:"required"`
}

// Renderable reports whether the field required by the step's action is
// present: path data for draw, an image for overlay, coordinates for highlight.
func (s StepRecord) Renderable() bool {
	switch s.Action {
	case ActionDraw:
		return s.Path != ""
	case ActionOverlay:
		return s.Image != ""
	case ActionHighlight:
		return s.X != nil && s.Y != nil
	default:
		return false
	}
}

// Stroke returns the step's stroke styling with defaults filled in.
func (s StepRecord) Stroke() (color string, width float64) {
	color, width = DefaultStrokeColor, DefaultStrokeWidth
	if s.StrokeColor != "" {
		color = s.StrokeColor
	}
	if s.StrokeWidth != nil {
		width = *s.StrokeWidth
	}
	return color, width
}
