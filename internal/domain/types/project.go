package types

// Project is a server-side generation project under /agenthub/api/copyright.
type Project struct {
	ID              string `json:"id"`
	ProjectName     string `json:"projectName"`
	AppName         string `json:"appName"`
	Domain          string `json:"domain"`
	AppPrompt       string `json:"appPrompt"`
	ModelID         string `json:"modelId"`
	Status          string `json:"status"`
	Progress        int    `json:"progress"`
	CurrentStep     string `json:"currentStep,omitempty"`
	CompletedFiles  int    `json:"completedFiles"`
	GeneratingFiles int    `json:"generatingFiles"`
	StartTime       string `json:"startTime,omitempty"`
	EndTime         string `json:"endTime,omitempty"`
	CreateBy        string `json:"createBy,omitempty"`
	CreateTime      string `json:"createTime,omitempty"`
	UpdateBy        string `json:"updateBy,omitempty"`
	UpdateTime      string `json:"updateTime,omitempty"`
}

// Project states reported by the backend.
const (
	ProjectPending    = "pending"
	ProjectGenerating = "generating"
	ProjectCompleted  = "completed"
	ProjectError      = "error"
	ProjectCancelled  = "cancelled"
)

// ProjectStatus is the response of the project status call.
type ProjectStatus struct {
	ProjectID       string `json:"projectId"`
	Status          string `json:"status"`
	Progress        int    `json:"progress"`
	CurrentStep     string `json:"currentStep,omitempty"`
	CompletedFiles  int    `json:"completedFiles"`
	GeneratingFiles int    `json:"generatingFiles"`
	StartTime       string `json:"startTime,omitempty"`
	EndTime         string `json:"endTime,omitempty"`
}

// CreateProjectParams is the body of a project create call.
type CreateProjectParams struct {
	AppName   string `json:"appName"`
	Domain    string `json:"domain"`
	AppPrompt string `json:"appPrompt"`
	ModelID   string `json:"modelId"`
}

// CreateProjectResult is returned by a project create call.
type CreateProjectResult struct {
	ProjectID string `json:"projectId"`
	AppName   string `json:"appName"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

// Result is the envelope every JSON endpoint of the backend answers with.
type Result[T any] struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Code      int    `json:"code"`
	Result    T      `json:"result"`
	Timestamp int64  `json:"timestamp"`
}

// Page is the paginated list shape returned by list endpoints.
type Page[T any] struct {
	Records []T `json:"records"`
	Total   int `json:"total"`
	Size    int `json:"size"`
	Current int `json:"current"`
	Pages   int `json:"pages"`
}
