package domain

type StrategyRequest struct {
	Topic string `json:"topic" form:"topic"`
}

type SourceRef struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

type StrategyResult struct {
	Text          string      `json:"text"`
	Sources       []SourceRef `json:"sources"`
	SearchQueries []string    `json:"searchQueries,omitempty"`
}
