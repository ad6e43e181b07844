package ratelimiter_test

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"snsbuilder/internal/ratelimiter"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSender struct {
	mu       sync.Mutex
	sentAt   map[int64][]time.Time
	requests int
	err      error
}

func newFakeSender() *fakeSender {
	return &fakeSender{sentAt: make(map[int64][]time.Time)}
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	msg, ok := c.(tgbotapi.MessageConfig)
	if !ok {
		return tgbotapi.Message{}, errors.New("unexpected chattable")
	}
	f.sentAt[msg.ChatID] = append(f.sentAt[msg.ChatID], time.Now())

	return tgbotapi.Message{Text: msg.Text}, f.err
}

func (f *fakeSender) Request(_ tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++

	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) times(chatID int64) []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]time.Time(nil), f.sentAt[chatID]...)
}

func newLimiter(sender ratelimiter.Sender, interval time.Duration) *ratelimiter.RateLimiter {
	return ratelimiter.NewWithIntervals(sender, interval, 2*interval, slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func TestRateLimiterSpacesMessagesPerChat(t *testing.T) {
	sender := newFakeSender()
	rl := newLimiter(sender, 50*time.Millisecond)
	defer rl.Stop()

	for i := range 3 {
		msg, err := rl.Send(tgbotapi.NewMessage(42, "hello"))
		require.NoError(t, err, "message %d", i)
		assert.Equal(t, "hello", msg.Text)
	}

	times := sender.times(42)
	require.Len(t, times, 3)
	for i := 1; i < len(times); i++ {
		assert.GreaterOrEqual(t, times[i].Sub(times[i-1]), 45*time.Millisecond)
	}
}

func TestRateLimiterUsesLongerIntervalForGroups(t *testing.T) {
	sender := newFakeSender()
	rl := newLimiter(sender, 30*time.Millisecond)
	defer rl.Stop()

	for range 2 {
		_, err := rl.Send(tgbotapi.NewMessage(-100, "group"))
		require.NoError(t, err)
	}

	times := sender.times(-100)
	require.Len(t, times, 2)
	assert.GreaterOrEqual(t, times[1].Sub(times[0]), 55*time.Millisecond)
}

func TestRateLimiterReturnsSenderError(t *testing.T) {
	sender := newFakeSender()
	sender.err = errors.New("Bad Request: can't parse entities")
	rl := newLimiter(sender, time.Millisecond)
	defer rl.Stop()

	_, err := rl.Send(tgbotapi.NewMessage(1, "x"))
	require.ErrorContains(t, err, "can't parse entities")
}

func TestRateLimiterRequestBypassesQueue(t *testing.T) {
	sender := newFakeSender()
	rl := newLimiter(sender, time.Hour)
	defer rl.Stop()

	_, err := rl.Request(tgbotapi.NewChatAction(1, tgbotapi.ChatTyping))
	require.NoError(t, err)
	assert.Equal(t, 1, sender.requests)
}

func TestRateLimiterStopCancelsWaitingSends(t *testing.T) {
	sender := newFakeSender()
	rl := newLimiter(sender, time.Hour)

	_, err := rl.Send(tgbotapi.NewMessage(7, "first"))
	require.NoError(t, err)

	errs := make(chan error, 1)
	go func() {
		_, sendErr := rl.Send(tgbotapi.NewMessage(7, "second"))
		errs <- sendErr
	}()

	time.Sleep(20 * time.Millisecond)
	rl.Stop()

	select {
	case err = <-errs:
		require.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("send was not cancelled by Stop")
	}

	_, err = rl.Send(tgbotapi.NewMessage(7, "after stop"))
	require.Error(t, err)
}
