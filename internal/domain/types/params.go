package types

// GenerateDocumentParams is the body of a generate-document call.
type GenerateDocumentParams struct {
	ApplicationID int64  `json:"applicationId"`
	Type          string `json:"type"`
}

// SaveSoftwareInfoParams is the body of a save-software-info-to-word call.
type SaveSoftwareInfoParams struct {
	AppName string       `json:"appName"`
	Info    SoftwareInfo `json:"info"`
}

// Download bodies. Every download answers with a binary payload.

// DownloadManualParams requests the user manual document.
type DownloadManualParams struct {
	AppName  string   `json:"appName"`
	Chapters []string `json:"chapters"`
}

// DownloadManualWithScreenshotsParams requests the manual with embedded screenshots.
type DownloadManualWithScreenshotsParams struct {
	AppName         string   `json:"appName"`
	AppPrompt       string   `json:"appPrompt,omitempty"`
	FrontendCode    string   `json:"frontendCode,omitempty"`
	BackendCode     string   `json:"backendCode,omitempty"`
	Chapters        []string `json:"chapters"`
	ScreenshotPaths []string `json:"screenshotPaths"`
}

// DownloadCodeParams requests the source code document.
type DownloadCodeParams struct {
	AppName      string `json:"appName"`
	FrontendCode string `json:"frontendCode,omitempty"`
	BackendCode  string `json:"backendCode,omitempty"`
}

// DownloadSoftwareInfoParams requests the software information form.
type DownloadSoftwareInfoParams struct {
	AppName      string   `json:"appName"`
	AppPrompt    string   `json:"appPrompt,omitempty"`
	FrontendCode string   `json:"frontendCode,omitempty"`
	BackendCode  string   `json:"backendCode,omitempty"`
	Chapters     []string `json:"chapters,omitempty"`
}

// DownloadAllMaterialsParams requests the zipped bundle of every artifact.
type DownloadAllMaterialsParams struct {
	AppName      string   `json:"appName"`
	AppPrompt    string   `json:"appPrompt"`
	FrontendCode string   `json:"frontendCode,omitempty"`
	BackendCode  string   `json:"backendCode,omitempty"`
	Chapters     []string `json:"chapters,omitempty"`
}

// AppNameParams is the body of calls that only need the application name.
type AppNameParams struct {
	AppName string `json:"appName"`
}

// Streaming bodies. Stream is always sent as true and an empty ModelID is
// replaced with the default model by the request builders.

// ChatMessage is one message of a chat-completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionRequest is the OpenAI-style body of the names stream.
type ChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	APICode     string        `json:"apiCode"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

// ExtractSoftwareInfoParams asks the backend to derive SoftwareInfo from chapter 1.
type ExtractSoftwareInfoParams struct {
	Chapter1 string `json:"chapter1"`
	ModelID  string `json:"modelId"`
	Stream   bool   `json:"stream"`
}

// GenerateParallelParams starts the parallel document generation.
type GenerateParallelParams struct {
	AppName      string `json:"appName"`
	FrontendCode string `json:"frontendCode"`
	AppPrompt    string `json:"appPrompt,omitempty"`
	ModelID      string `json:"modelId"`
	Stream       bool   `json:"stream"`
}

// GenerateFrontendCodeParams streams the generated frontend page.
type GenerateFrontendCodeParams struct {
	AppName   string `json:"appName"`
	AppPrompt string `json:"appPrompt,omitempty"`
	Domain    string `json:"domain,omitempty"`
	ModelID   string `json:"modelId"`
	Stream    bool   `json:"stream"`
}

// GenerateBackendCodeParams streams backend code derived from the frontend code.
type GenerateBackendCodeParams struct {
	AppName   string `json:"appName"`
	AppPrompt string `json:"appPrompt,omitempty"`
	Code      string `json:"code,omitempty"`
	ModelID   string `json:"modelId"`
	Stream    bool   `json:"stream"`
}

// GenerateDocumentChapterParams streams one chapter of the manual.
type GenerateDocumentChapterParams struct {
	ChapterNum int    `json:"chapterNum"`
	AppName    string `json:"appName"`
	AppPrompt  string `json:"appPrompt,omitempty"`
	Code       string `json:"code,omitempty"`
	ModelID    string `json:"modelId"`
	Stream     bool   `json:"stream"`
}

// GenerateAllParams streams the full pipeline.
type GenerateAllParams struct {
	AppName   string `json:"appName"`
	AppPrompt string `json:"appPrompt,omitempty"`
	Domain    string `json:"domain,omitempty"`
	ModelID   string `json:"modelId"`
	Stream    bool   `json:"stream"`
}
