package schema

// DiagramType selects the generation path. Only the flowchart path carries
// conversion logic; the remaining types are remote pass-throughs.
type DiagramType string

const (
	DiagramTypeFlowchart DiagramType = "flowchart"
	DiagramTypeSequence  DiagramType = "sequence"
	DiagramTypeClass     DiagramType = "class"
	DiagramTypeUseCase   DiagramType = "usecase"
)

// Valid reports whether t is a known diagram type.
func (t DiagramType) Valid() bool {
	switch t {
	case DiagramTypeFlowchart, DiagramTypeSequence, DiagramTypeClass, DiagramTypeUseCase:
		return true
	}
	return false
}

// WarningLevel grades an input-size advisory.
type WarningLevel string

const (
	WarningLevelInfo    WarningLevel = "info"
	WarningLevelWarning WarningLevel = "warning"
	WarningLevelSevere  WarningLevel = "severe"
)

// Warning is an advisory attached to a conversion response. It never affects
// the produced document.
type Warning struct {
	Level   WarningLevel `json:"level"`
	Message string       `json:"message"`
}

// DocumentSource records which path produced the final diagram document.
type DocumentSource string

const (
	SourceRemote   DocumentSource = "remote"
	SourceLocal    DocumentSource = "local"
	SourceFallback DocumentSource = "fallback"
)

// ConvertRequest is the payload for a diagram conversion call.
type ConvertRequest struct {
	Text        string      `json:"text"`
	DiagramType DiagramType `json:"diagram_type,omitempty"`
}

// ConvertResponse carries the accepted diagram document.
type ConvertResponse struct {
	Diagram   string         `json:"diagram"`
	Source    DocumentSource `json:"source"`
	Warning   *Warning       `json:"warning,omitempty"`
	RequestID string         `json:"request_id"`
}
