package model

// GenerationStep is one row of the generator's progress list. It reflects
// the pipeline; it does not drive it.
type GenerationStep struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	Processing  bool   `json:"processing"`
	Progress    int    `json:"progress"`
}

// DefaultGenerationSteps returns one step per readiness flag, in pipeline order.
func DefaultGenerationSteps() []GenerationStep {
	return []GenerationStep{
		{ID: 1, Title: "生成前端代码", Description: "生成完整的前端界面代码"},
		{ID: 2, Title: "生成后端代码", Description: "基于前端界面生成后端服务代码"},
		{ID: 3, Title: "生成说明文档", Description: "生成软件说明书四个章节"},
		{ID: 4, Title: "提取软件信息", Description: "从说明书中提取软著申请表信息"},
		{ID: 5, Title: "生成界面截图", Description: "渲染前端界面并截图"},
	}
}

// SyncSteps updates steps from the readiness flags of g. Steps map to flags
// by position: frontend, backend, document, info, screenshots.
func SyncSteps(steps []GenerationStep, g *GeneratedData) {
	flags := []bool{
		g.GenerationStatus.Frontend,
		g.GenerationStatus.Backend,
		g.GenerationStatus.Document,
		g.GenerationStatus.Info,
		g.GenerationStatus.Screenshots,
	}
	for i := range steps {
		if i >= len(flags) {
			return
		}
		if flags[i] {
			steps[i].Completed = true
			steps[i].Processing = false
			steps[i].Progress = 100
		}
	}
}
