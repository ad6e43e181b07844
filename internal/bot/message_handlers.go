package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"snsbuilder/internal/markdown"
	"snsbuilder/internal/shell"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	loadingText = "🔎 실제 데이터를 분석하여 전략을 수립하고 있습니다\\.\\.\\."
	busyText    = "⏳ 이전 요청을 아직 처리하고 있습니다\\. 잠시만 기다려 주세요\\."
)

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	text := strings.TrimSpace(message.Text)
	chatID := message.Chat.ID

	switch {
	case text == "":
		return nil
	case strings.HasPrefix(text, "/start"), strings.HasPrefix(text, "/help"):
		return b.handleStartCommand(chatID)
	case strings.HasPrefix(text, "/copy"):
		return b.handleCopy(chatID)
	case strings.HasPrefix(text, "/"):
		return b.handleStartCommand(chatID)
	default:
		return b.handleTopic(ctx, chatID, text)
	}
}

func (b *Bot) handleTopic(ctx context.Context, chatID int64, topic string) error {
	session := b.sessions.get(chatID)

	if session.Snapshot().Loading {
		return b.sendMessage(chatID, busyText)
	}

	if err := b.sendMessage(chatID, loadingText); err != nil {
		return fmt.Errorf("send loading message: %w", err)
	}

	var submitted bool
	err := b.withSpinner(ctx, chatID, func() error {
		var submitErr error
		submitted, submitErr = session.Submit(ctx, topic)
		return submitErr
	})
	if errors.Is(err, shell.ErrBusy) {
		return b.sendMessage(chatID, busyText)
	}
	if err != nil {
		return fmt.Errorf("submit topic: %w", err)
	}
	if !submitted {
		return nil
	}

	state := session.Snapshot()

	if state.Error != "" || state.Result == nil {
		return b.sendMessageWithKeyboard(
			chatID,
			"❌ "+markdown.EscapeV2(shell.ErrorMessage),
			b.menuKeyboard,
		)
	}

	messages := formatResult(*state.Result)

	var errs []error
	for i, msg := range messages {
		keyboard := b.resultKeyboard
		if i < len(messages)-1 {
			keyboard = nil
		}

		if err = b.sendMessageWithKeyboard(chatID, msg, keyboard); err != nil {
			errs = append(errs, fmt.Errorf("send result message %d: %w", i, err))
		}
	}

	b.log.InfoContext(ctx, "Strategy is sent",
		"chatID", chatID,
		"messagesCount", len(messages),
		"sourcesCount", len(state.Result.Sources))

	return errors.Join(errs...)
}

func (b *Bot) handleCopy(chatID int64) error {
	text, ok := b.copyText(chatID)
	if !ok {
		return b.sendMessageWithKeyboard(chatID, noResultText, b.menuKeyboard)
	}

	var errs []error
	for _, chunk := range markdown.Split(text, telegramMessageMaxLength) {
		if err := b.sendPlainMessage(chatID, chunk); err != nil {
			errs = append(errs, fmt.Errorf("send plain message: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (b *Bot) copyText(chatID int64) (string, bool) {
	session, ok := b.sessions.lookup(chatID)
	if !ok {
		return "", false
	}

	return session.CopyText()
}
