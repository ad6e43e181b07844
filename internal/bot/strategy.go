package bot

import (
	"fmt"
	"strings"

	"snsbuilder/internal/domain"
	"snsbuilder/internal/markdown"
)

const telegramMessageMaxLength = 4096

func formatResult(result domain.StrategyResult) []string {
	var message strings.Builder

	message.WriteString("📊 *콘텐츠 전략 리포트*\n\n")
	message.WriteString(markdown.ToTelegramV2(result.Text))

	if len(result.Sources) > 0 {
		message.WriteString("\n\n🔗 *분석에 참고한 실제 데이터 출처*\n\n")

		for i, source := range result.Sources {
			message.WriteString(fmt.Sprintf(
				"%d\\. [%s](%s)\n",
				i+1,
				markdown.EscapeV2(strings.TrimSpace(source.Title)),
				markdown.EscapeLinkURL(strings.TrimSpace(source.URI)),
			))
		}
	}

	if len(result.SearchQueries) > 0 {
		quoted := make([]string, 0, len(result.SearchQueries))
		for _, query := range result.SearchQueries {
			quoted = append(quoted, markdown.EscapeV2(query))
		}

		message.WriteString("\n🔍 _검색어: " + strings.Join(quoted, ", ") + "_")
	}

	return markdown.Split(strings.TrimRight(message.String(), "\n"), telegramMessageMaxLength)
}
