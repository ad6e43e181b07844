package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	callbackHelp = "help"
	callbackCopy = "copy"
)

func (b *Bot) handleCallbackQuery(_ context.Context, callback *tgbotapi.CallbackQuery) error {
	if callback.Message == nil || callback.Message.Chat == nil {
		return errors.New("callback query has no message")
	}
	chatID := callback.Message.Chat.ID

	switch strings.TrimSpace(callback.Data) {
	case callbackHelp:
		return b.withEmptyCallbackAnswer(callback, func() error {
			return b.handleStartCommand(chatID)
		})
	case callbackCopy:
		if _, ok := b.copyText(chatID); !ok {
			return b.answerCallback(callback, "결과가 없습니다.")
		}

		return b.withEmptyCallbackAnswer(callback, func() error {
			return b.handleCopy(chatID)
		})
	}

	return b.answerCallback(callback, "")
}

func (b *Bot) withEmptyCallbackAnswer(
	callback *tgbotapi.CallbackQuery,
	fn func() error,
) error {
	var errs []error

	if err := b.answerCallback(callback, ""); err != nil {
		errs = append(errs, b.errorCallbackAnswer(callback, err))
	}

	if err := fn(); err != nil {
		errs = append(errs, fmt.Errorf("call fn: %w", err))
	}

	return errors.Join(errs...)
}

func (b *Bot) answerCallback(callback *tgbotapi.CallbackQuery, text string) error {
	if _, err := b.out.Request(tgbotapi.NewCallback(callback.ID, text)); err != nil {
		return fmt.Errorf("send request: %w", err)
	}

	return nil
}

func (b *Bot) errorCallbackAnswer(
	callback *tgbotapi.CallbackQuery,
	err error,
) error {
	if _, sendErr := b.out.Request(tgbotapi.NewCallback(callback.ID, "❌ Failed.")); sendErr != nil {
		return errors.Join(err, fmt.Errorf("send request: %w", sendErr))
	}
	return err
}
