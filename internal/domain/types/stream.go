package types

// StreamEvent is the JSON payload carried by one server-sent event of a
// generation stream. Progress frames carry Progress and Message; the final
// frame sets Completed and the artifact; error frames carry Error only.
// Parallel generation also tags frames with Type and a FileID.
type StreamEvent struct {
	Type      string `json:"type,omitempty"`
	FileID    string `json:"fileId,omitempty"`
	Progress  int    `json:"progress,omitempty"`
	Message   string `json:"message,omitempty"`
	Stage     string `json:"stage,omitempty"`
	Completed bool   `json:"completed,omitempty"`
	FullCode  string `json:"fullCode,omitempty"`
	Content   string `json:"content,omitempty"`
	// ChapterContent carries the text of a completed manual chapter.
	ChapterContent string `json:"chapterContent,omitempty"`
	Error          string `json:"error,omitempty"`
}

// Failed reports whether the event signals a generation error.
func (e StreamEvent) Failed() bool { return e.Error != "" }

// ChatChunk is one chunk of an OpenAI-style streamed chat completion.
type ChatChunk struct {
	ID      string `json:"id,omitempty"`
	Choices []struct {
		Index int `json:"index"`
		Delta struct {
			Role    string `json:"role,omitempty"`
			Content string `json:"content,omitempty"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason,omitempty"`
	} `json:"choices"`
}

// Text concatenates the delta content of every choice in the chunk.
func (c ChatChunk) Text() string {
	var s string
	for _, ch := range c.Choices {
		s += ch.Delta.Content
	}
	return s
}
