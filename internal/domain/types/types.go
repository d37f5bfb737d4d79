// Package types contains the request and response shapes exchanged with the
// copyright registration backend.
package types

// Status is the lifecycle state of a copyright application.
type Status string

// Application lifecycle states.
const (
	StatusDraft      Status = "draft"
	StatusGenerating Status = "generating"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusSubmitted  Status = "submitted"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
)

// Statuses returns every lifecycle state in declaration order.
func Statuses() []Status {
	return []Status{
		StatusDraft,
		StatusGenerating,
		StatusCompleted,
		StatusFailed,
		StatusSubmitted,
		StatusApproved,
		StatusRejected,
	}
}

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	for _, known := range Statuses() {
		if s == known {
			return true
		}
	}
	return false
}

// Chapters holds the four sections of a generated user manual.
type Chapters struct {
	Chapter1 *string `json:"chapter1,omitempty"`
	Chapter2 *string `json:"chapter2,omitempty"`
	Chapter3 *string `json:"chapter3,omitempty"`
	Chapter4 *string `json:"chapter4,omitempty"`
}

// CopyrightApplication is one registration record as returned by the backend.
// Progress is 0-100 by convention; nothing enforces the bound.
type CopyrightApplication struct {
	ID             int64    `json:"id"`
	AppName        string   `json:"appName"`
	AppPrompt      *string  `json:"appPrompt,omitempty"`
	Status         Status   `json:"status"`
	Progress       int      `json:"progress"`
	CreateTime     string   `json:"createTime"`
	UpdateTime     string   `json:"updateTime"`
	GeneratedFiles []string `json:"generatedFiles"`

	FrontendCode     *string       `json:"frontendCode,omitempty"`
	BackendCode      *string       `json:"backendCode,omitempty"`
	FullCode         *string       `json:"fullCode,omitempty"`
	Chapters         *Chapters     `json:"chapters,omitempty"`
	CompleteDocument *string       `json:"completeDocument,omitempty"`
	SoftwareInfo     *SoftwareInfo `json:"softwareInfo,omitempty"`
	Screenshots      []string      `json:"screenshots,omitempty"`
}

// CreateCopyrightParams is the body of a create call.
type CreateCopyrightParams struct {
	AppName   string `json:"appName"`
	AppPrompt string `json:"appPrompt,omitempty"`
	Domain    string `json:"domain,omitempty"`
}

// UpdateCopyrightParams is the partial form of CreateCopyrightParams; nil
// fields are left out of the body.
type UpdateCopyrightParams struct {
	AppName   *string `json:"appName,omitempty"`
	AppPrompt *string `json:"appPrompt,omitempty"`
	Domain    *string `json:"domain,omitempty"`
}

// CodeType selects which half of the application code to generate.
type CodeType string

// Code generation targets.
const (
	CodeFrontend CodeType = "frontend"
	CodeBackend  CodeType = "backend"
	CodeFull     CodeType = "full"
)

// CodeGenerationParams is the body of a generate-code call.
type CodeGenerationParams struct {
	AppName   string   `json:"appName"`
	AppPrompt string   `json:"appPrompt,omitempty"`
	Type      CodeType `json:"type"`
}

// CodeGenerationResult is the response of a generate-code call.
type CodeGenerationResult struct {
	Code     string `json:"code"`
	FileName string `json:"fileName"`
	Language string `json:"language"`
}

// SoftwareInfo is the descriptive metadata printed on registration forms.
type SoftwareInfo struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Purpose   string `json:"purpose"`
	Domain    string `json:"domain"`
	Functions string `json:"functions"`
	Features  string `json:"features"`
}
