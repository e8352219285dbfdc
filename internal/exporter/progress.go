package exporter

// ProgressEvent 导出进度（SSE 推送给前端）
type ProgressEvent struct {
	Percent int    `json:"percent"`
	Stage   string `json:"stage"`
}

func reportProgress(progress func(ProgressEvent), percent int, stage string) {
	if progress == nil {
		return
	}
	percent = min(max(percent, 0), 100)
	progress(ProgressEvent{
		Percent: percent,
		Stage:   stage,
	})
}
