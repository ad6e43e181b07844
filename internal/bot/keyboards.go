package bot

import (
	"errors"
	"fmt"
	"strings"

	"snsbuilder/internal/markdown"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const noResultText = "✖️ 복사할 결과가 없습니다\\. 먼저 주제를 보내주세요\\."

func (b *Bot) sendMessage(chatID int64, text string) error {
	return b.sendMessageWithKeyboard(chatID, text, nil)
}

func (b *Bot) sendMessageWithKeyboard(
	chatID int64,
	text string,
	keyboard [][]tgbotapi.InlineKeyboardButton,
) error {
	message := tgbotapi.NewMessage(chatID, b.validUTF8(chatID, text))

	// See https://core.telegram.org/bots/api#markdownv2-style.
	message.ParseMode = tgbotapi.ModeMarkdownV2

	message.DisableWebPagePreview = true
	if len(keyboard) > 0 {
		message.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(keyboard...)
	}

	_, err := b.out.Send(message)
	if err == nil {
		return nil
	}

	b.log.Warn("Failed to send MarkdownV2 message, resending as plain text",
		"error", err,
		"chatID", chatID,
		"textLen", len(text))

	if plainErr := b.sendPlainMessageWithKeyboard(chatID, markdown.PlainV2(text), keyboard); plainErr != nil {
		return errors.Join(
			fmt.Errorf("send markdown message: %w", err),
			fmt.Errorf("send plain message: %w", plainErr),
		)
	}

	return nil
}

// sendPlainMessage sends text without any parse mode so it can be copied as is.
func (b *Bot) sendPlainMessage(chatID int64, text string) error {
	return b.sendPlainMessageWithKeyboard(chatID, text, nil)
}

func (b *Bot) sendPlainMessageWithKeyboard(
	chatID int64,
	text string,
	keyboard [][]tgbotapi.InlineKeyboardButton,
) error {
	message := tgbotapi.NewMessage(chatID, b.validUTF8(chatID, text))
	message.DisableWebPagePreview = true
	if len(keyboard) > 0 {
		message.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(keyboard...)
	}

	_, err := b.out.Send(message)
	return err
}

func (b *Bot) validUTF8(chatID int64, text string) string {
	normalizedText := strings.ToValidUTF8(text, "?")
	if normalizedText != text {
		b.log.Warn("Message text had invalid UTF-8 and was normalized",
			"chatID", chatID,
			"originalLen", len(text),
			"normalizedLen", len(normalizedText))
	}

	return normalizedText
}

func getMenuKeyboard() [][]tgbotapi.InlineKeyboardButton {
	return [][]tgbotapi.InlineKeyboardButton{
		{tgbotapi.NewInlineKeyboardButtonData("ℹ️ 사용법", callbackHelp)},
	}
}

func getResultKeyboard() [][]tgbotapi.InlineKeyboardButton {
	return [][]tgbotapi.InlineKeyboardButton{
		{
			tgbotapi.NewInlineKeyboardButtonData("📋 결과 복사", callbackCopy),
			tgbotapi.NewInlineKeyboardButtonData("ℹ️ 사용법", callbackHelp),
		},
	}
}
