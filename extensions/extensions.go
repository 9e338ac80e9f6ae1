package extensions

import (
	"sort"

	"github.com/wudi/docsmith/doc"
)

type Phase int

const (
	PhaseInspect Phase = iota
	PhaseNormalize
	PhaseTransform
	PhaseValidate
)

func (p Phase) String() string { return []string{"Inspect", "Normalize", "Transform", "Validate"}[p] }

type Extension interface {
	Name() string
	Phase() Phase
	Priority() int
	Execute(ctx Context, d *doc.Document) error
}

// Inspector is an extension that inspects the document and produces a report.
type Inspector interface {
	Extension
	Inspect(ctx Context, d *doc.Document) (*InspectionReport, error)
}

// Normalizer is an extension that cleans up the document.
type Normalizer interface {
	Extension
	Normalize(ctx Context, d *doc.Document) (*NormalizationReport, error)
}

// Transformer is an extension that modifies the document structure.
type Transformer interface {
	Extension
	Transform(ctx Context, d *doc.Document) error
}

// Validator is an extension that validates the document against structural rules.
type Validator interface {
	Extension
	Validate(ctx Context, d *doc.Document) (*ValidationReport, error)
}

type InspectionReport struct {
	SlideCount int
	FrameCount int
	TextCount  int
	ImageCount int
	TableCount int
	WordCount  int
	Overflows  []Overflow
	Metadata   map[string]interface{}
}

// Overflow flags a text frame whose fitted text still exceeds its box.
type Overflow struct {
	Slide    int
	Frame    int
	FrameID  string
	SizePt   float64
	HeightPt float64
	BoxPt    float64
}

type NormalizationReport struct {
	RunsMerged  int
	RunsDropped int
	Actions     []NormalizationAction
}

type NormalizationAction struct {
	Type        string
	Description string
	Slide       int
	Frame       int
}

type ValidationReport struct {
	Valid    bool
	Errors   []ValidationError
	Warnings []ValidationWarning
}

type ValidationError struct {
	Code     string
	Message  string
	Location string
}

type ValidationWarning struct {
	Code     string
	Message  string
	Location string
}

type Hub interface {
	Register(ext Extension) error
	Execute(ctx Context, d *doc.Document) error
	Extensions(phase Phase) []Extension
}

type HubImpl struct {
	exts map[Phase][]Extension
}

func NewHub() *HubImpl { return &HubImpl{exts: make(map[Phase][]Extension)} }

func (h *HubImpl) Register(ext Extension) error {
	ph := ext.Phase()
	h.exts[ph] = append(h.exts[ph], ext)
	sort.Slice(h.exts[ph], func(i, j int) bool { return h.exts[ph][i].Priority() < h.exts[ph][j].Priority() })
	return nil
}

func (h *HubImpl) Execute(ctx Context, d *doc.Document) error {
	phases := []Phase{PhaseInspect, PhaseNormalize, PhaseTransform, PhaseValidate}
	for _, ph := range phases {
		for _, e := range h.exts[ph] {
			if err := e.Execute(ctx, d); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *HubImpl) Extensions(phase Phase) []Extension {
	return append([]Extension(nil), h.exts[phase]...)
}

type Context interface{ Done() <-chan struct{} }
