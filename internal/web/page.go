package web

import (
	"embed"
	"html/template"

	"snsbuilder/internal/domain"
)

//go:embed templates/*.html
var templatesFS embed.FS

const pageTemplate = "index.html"

type feature struct {
	Icon        string
	Title       string
	Description string
}

//nolint:gochecknoglobals // Static page content.
var features = []feature{
	{
		Icon:        "🔍",
		Title:       "실제 고객 고민 분석",
		Description: "커뮤니티, 지식인, 블로그 댓글 등 실제 데이터를 검색해 고객의 진짜 페인 포인트를 찾아냅니다.",
	},
	{
		Icon:        "✍️",
		Title:       "후킹 제목 추천",
		Description: "블로그와 유튜브에 바로 쓸 수 있는 클릭을 부르는 제목을 각각 3개씩 제안합니다.",
	},
	{
		Icon:        "🧭",
		Title:       "콘텐츠 아웃라인",
		Description: "제목마다 도입부 훅, 해결책, 행동 유도까지 이어지는 구성안을 제공합니다.",
	},
}

type resultView struct {
	HTML    template.HTML
	Raw     string
	Sources []domain.SourceRef
	Queries []string
}

type pageData struct {
	Topic    string
	Error    string
	Result   *resultView
	Features []feature
}

func parseTemplates() *template.Template {
	return template.Must(template.ParseFS(templatesFS, "templates/*.html"))
}
