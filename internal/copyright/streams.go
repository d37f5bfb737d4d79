package copyright

import (
	"net/http"
	"strconv"

	"github.com/okian/softcopyright/internal/adapters/http/client"
	"github.com/okian/softcopyright/internal/domain/types"
)

// DefaultModel is sent when a streaming call leaves the model empty.
const DefaultModel = "deepseek-chat"

// Paths of the streaming endpoints, relative to the streaming base URL.
const (
	PathChatCompletions     = "/agenthub/api/v1/chat/completions"
	PathExtractSoftwareInfo = "/agenthub/api/extract-software-info"
	PathGenerateParallel    = "/agenthub/api/generate-parallel"
	PathGenerateFrontend    = "/agenthub/api/generate-frontend-code"
	PathGenerateBackend     = "/agenthub/api/generate-backend-code"
	PathGenerateAll         = "/agenthub/api/generate-all-stream"

	pathChapterPrefix = "/agenthub/api/generate-document-chapter"
	endpointChapter   = pathChapterPrefix + "{n}"
)

// Fixed parameters of the names chat completion.
const (
	NamesAPICode     = "MAXGPT"
	NamesMaxTokens   = 2000
	NamesTemperature = 0.8
)

func modelOr(model string) string {
	if model == "" {
		return DefaultModel
	}
	return model
}

func streamPost(path string, body any) client.Request {
	return client.Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   body,
		Mode:   client.ModeStream,
	}
}

// GenerateSoftwareNameStream streams ten name suggestions for domain as an
// OpenAI-style chat completion.
func GenerateSoftwareNameStream(domain, model string) client.Request {
	return streamPost(PathChatCompletions, types.ChatCompletionRequest{
		Model:       modelOr(model),
		Messages:    []types.ChatMessage{{Role: "user", Content: NamesPrompt(domain)}},
		Stream:      true,
		APICode:     NamesAPICode,
		MaxTokens:   NamesMaxTokens,
		Temperature: NamesTemperature,
	})
}

// ExtractSoftwareInfo streams SoftwareInfo derived from chapter 1.
func ExtractSoftwareInfo(params types.ExtractSoftwareInfoParams) client.Request {
	params.ModelID = modelOr(params.ModelID)
	params.Stream = true
	return streamPost(PathExtractSoftwareInfo, params)
}

// GenerateParallel streams the parallel generation of code and chapters.
func GenerateParallel(params types.GenerateParallelParams) client.Request {
	params.ModelID = modelOr(params.ModelID)
	params.Stream = true
	return streamPost(PathGenerateParallel, params)
}

// GenerateFrontendCodeStream streams the generated frontend page.
func GenerateFrontendCodeStream(params types.GenerateFrontendCodeParams) client.Request {
	params.ModelID = modelOr(params.ModelID)
	params.Stream = true
	return streamPost(PathGenerateFrontend, params)
}

// GenerateBackendCodeStream streams backend code for the given frontend code.
func GenerateBackendCodeStream(params types.GenerateBackendCodeParams) client.Request {
	params.ModelID = modelOr(params.ModelID)
	params.Stream = true
	return streamPost(PathGenerateBackend, params)
}

// GenerateDocumentChapterStream streams one manual chapter. The chapter
// number is part of the path and is also sent in the body.
func GenerateDocumentChapterStream(params types.GenerateDocumentChapterParams) client.Request {
	params.ModelID = modelOr(params.ModelID)
	params.Stream = true
	req := streamPost(pathChapterPrefix+strconv.Itoa(params.ChapterNum), params)
	req.Endpoint = endpointChapter
	return req
}

// GenerateAllStream streams the whole pipeline.
func GenerateAllStream(params types.GenerateAllParams) client.Request {
	params.ModelID = modelOr(params.ModelID)
	params.Stream = true
	return streamPost(PathGenerateAll, params)
}
