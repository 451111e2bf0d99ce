package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wardrod-Mine/TMA-CHANNEL-SERVER/internal/domain"
)

type postCall struct {
	To   domain.Recipient
	Post Post
}

type fakePoster struct {
	errs  []error // ошибки на последовательные вызовы; nil — успех
	calls []postCall
}

func (f *fakePoster) SendPost(_ context.Context, to domain.Recipient, post Post) error {
	f.calls = append(f.calls, postCall{To: to, Post: post})
	if len(f.calls) <= len(f.errs) {
		return f.errs[len(f.calls)-1]
	}
	return nil
}

func TestPublishSuccess(t *testing.T) {
	poster := &fakePoster{}
	p := NewPublisher(poster, NewTarget(domain.Recipient{ChatID: -100, ThreadID: 5}), testLogger())

	err := p.Publish(context.Background(), Post{Text: "пост"})

	require.NoError(t, err)
	require.Len(t, poster.calls, 1)
	assert.Equal(t, domain.Recipient{ChatID: -100, ThreadID: 5}, poster.calls[0].To)
}

func TestPublishRetriesWithoutThreadOnThreadError(t *testing.T) {
	poster := &fakePoster{errs: []error{errors.New("Bad Request: message thread not found")}}
	p := NewPublisher(poster, NewTarget(domain.Recipient{ChatID: -100, ThreadID: 5}), testLogger())

	err := p.Publish(context.Background(), Post{Text: "пост"})

	require.NoError(t, err)
	require.Len(t, poster.calls, 2)
	assert.Equal(t, 5, poster.calls[0].To.ThreadID)
	assert.Equal(t, 0, poster.calls[1].To.ThreadID)
	assert.Equal(t, int64(-100), poster.calls[1].To.ChatID)
}

func TestPublishRetryIsSingle(t *testing.T) {
	poster := &fakePoster{errs: []error{
		errors.New("message thread not found"),
		errors.New("message thread not found"),
	}}
	p := NewPublisher(poster, NewTarget(domain.Recipient{ChatID: -100, ThreadID: 5}), testLogger())

	err := p.Publish(context.Background(), Post{Text: "пост"})

	require.Error(t, err)
	assert.Len(t, poster.calls, 2)
}

func TestPublishNoRetryOnUnrelatedError(t *testing.T) {
	poster := &fakePoster{errs: []error{errors.New("Forbidden: bot is not a member")}}
	p := NewPublisher(poster, NewTarget(domain.Recipient{ChatID: -100, ThreadID: 5}), testLogger())

	err := p.Publish(context.Background(), Post{Text: "пост"})

	require.Error(t, err)
	assert.Len(t, poster.calls, 1)
}

func TestPublishNoRetryWithoutThread(t *testing.T) {
	poster := &fakePoster{errs: []error{errors.New("message thread not found")}}
	p := NewPublisher(poster, NewTarget(domain.Recipient{ChatID: -100}), testLogger())

	err := p.Publish(context.Background(), Post{Text: "пост"})

	require.Error(t, err)
	assert.Len(t, poster.calls, 1)
}

func TestPublishUnboundTarget(t *testing.T) {
	poster := &fakePoster{}
	p := NewPublisher(poster, NewTarget(domain.Recipient{}), testLogger())

	err := p.Publish(context.Background(), Post{Text: "пост"})

	require.ErrorIs(t, err, ErrNoTarget)
	assert.Empty(t, poster.calls)
}

func TestTargetRebind(t *testing.T) {
	target := NewTarget(domain.Recipient{ChatID: -100})
	poster := &fakePoster{}
	p := NewPublisher(poster, target, testLogger())

	target.Set(domain.Recipient{ChatID: -200, ThreadID: 3})
	require.NoError(t, p.Publish(context.Background(), Post{Text: "пост"}))

	require.Len(t, poster.calls, 1)
	assert.Equal(t, domain.Recipient{ChatID: -200, ThreadID: 3}, poster.calls[0].To)
}
