package stub

import (
	"net/http"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// routeInfo describes one registered route for the OpenAPI document.
type routeInfo struct {
	method   string
	path     string
	endpoint string
	tag      string
}

func newRouteInfo(pattern, endpoint, tag string) routeInfo {
	method, path, _ := strings.Cut(pattern, " ")
	return routeInfo{method: strings.ToLower(method), path: path, endpoint: endpoint, tag: tag}
}

var pathParam = regexp.MustCompile(`\{([^}]+)\}`)

type openAPIDoc struct {
	OpenAPI string                          `yaml:"openapi"`
	Info    openAPIInfo                     `yaml:"info"`
	Paths   map[string]map[string]operation `yaml:"paths"`
}

type openAPIInfo struct {
	Title   string `yaml:"title"`
	Version string `yaml:"version"`
}

type operation struct {
	OperationID string              `yaml:"operationId"`
	Tags        []string            `yaml:"tags"`
	Parameters  []parameter         `yaml:"parameters,omitempty"`
	Responses   map[string]response `yaml:"responses"`
}

type parameter struct {
	Name     string            `yaml:"name"`
	In       string            `yaml:"in"`
	Required bool              `yaml:"required"`
	Schema   map[string]string `yaml:"schema"`
}

type response struct {
	Description string                    `yaml:"description"`
	Content     map[string]map[string]any `yaml:"content,omitempty"`
}

// responseFor returns the 200 response shape of a route group.
func responseFor(tag string) response {
	switch tag {
	case "downloads":
		return response{Description: "Binary document", Content: map[string]map[string]any{
			"application/octet-stream": {},
		}}
	case "streams":
		return response{Description: "Server-sent events", Content: map[string]map[string]any{
			"text/event-stream": {},
		}}
	default:
		return response{Description: "Result envelope", Content: map[string]map[string]any{
			"application/json": {},
		}}
	}
}

// openAPI renders the registered routes as an OpenAPI 3 document.
func (s *Server) openAPI() ([]byte, error) {
	doc := openAPIDoc{
		OpenAPI: "3.0.3",
		Info:    openAPIInfo{Title: "softcopyright stub backend", Version: "1.0.0"},
		Paths:   make(map[string]map[string]operation, len(s.routes)),
	}
	for _, r := range s.routes {
		op := operation{
			OperationID: r.endpoint,
			Tags:        []string{r.tag},
			Responses:   map[string]response{"200": responseFor(r.tag)},
		}
		for _, m := range pathParam.FindAllStringSubmatch(r.path, -1) {
			op.Parameters = append(op.Parameters, parameter{
				Name:     m[1],
				In:       "path",
				Required: true,
				Schema:   map[string]string{"type": "string"},
			})
		}
		if doc.Paths[r.path] == nil {
			doc.Paths[r.path] = map[string]operation{}
		}
		doc.Paths[r.path][r.method] = op
	}
	return yaml.Marshal(doc)
}

// handleOpenAPI answers GET /openapi.yaml.
func (s *Server) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	raw, err := s.openAPI()
	if err != nil {
		fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	_, _ = w.Write(raw)
}
