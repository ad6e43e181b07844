package bot

const welcomeText = `🤖 *SNS 콘텐츠 빌더*

서비스나 업종을 메시지로 보내주세요\. 실제 데이터를 기반으로:

– 고객이 실제로 겪는 고민 \(페인 포인트\)을 분석하고
– 블로그와 유튜브에 맞는 후킹 제목을 추천하고
– 제목별 콘텐츠 아웃라인을 제안해 드립니다\.

예: _퍼스널 트레이닝_, _무인 카페 창업_, _비건 화장품_`

func (b *Bot) handleStartCommand(chatID int64) error {
	return b.sendMessageWithKeyboard(chatID, welcomeText, b.menuKeyboard)
}
