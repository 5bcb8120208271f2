package section

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type draft struct {
	Title string
}

func validateDraft(values map[string]string) (draft, map[string]string) {
	errs := make(map[string]string)
	title := strings.TrimSpace(values["title"])
	if title == "" {
		errs["title"] = "Title is required"
	}
	if len(errs) > 0 {
		return draft{}, errs
	}
	return draft{Title: title}, nil
}

func TestCommit_Success(t *testing.T) {
	var submitted []draft
	form := NewForm(validateDraft, func(_ context.Context, d draft) error {
		submitted = append(submitted, d)
		return nil
	})

	form.Begin(nil)
	form.Set("title", "Hack Night")

	require.NoError(t, form.Commit(context.Background()))
	require.Len(t, submitted, 1)
	assert.Equal(t, "Hack Night", submitted[0].Title)

	// A successful commit resets the session.
	assert.Empty(t, form.Values())
	assert.Empty(t, form.Errors())
}

func TestCommit_ValidationFailureKeepsValues(t *testing.T) {
	form := NewForm(validateDraft, func(context.Context, draft) error {
		t.Fatal("submit must not run on validation failure")
		return nil
	})

	form.Begin(nil)
	form.Set("title", "   ")

	err := form.Commit(context.Background())
	ve, ok := AsValidation(err)
	require.True(t, ok, "want ValidationError, got %v", err)
	assert.Equal(t, "Title is required", ve.Fields["title"])

	// Entered values and field errors survive for re-render.
	assert.Equal(t, "   ", form.Values()["title"])
	assert.Equal(t, "Title is required", form.Errors()["title"])
}

func TestCommit_SubmitFailureKeepsValues(t *testing.T) {
	form := NewForm(validateDraft, func(context.Context, draft) error {
		return &BackendError{Op: "create draft", Err: errors.New("constraint")}
	})

	form.Begin(nil)
	form.Set("title", "Kept")

	err := form.Commit(context.Background())
	var be *BackendError
	require.ErrorAs(t, err, &be)

	assert.Equal(t, "Kept", form.Values()["title"], "values survive a failed submit")
	assert.False(t, form.InFlight())
}

func TestCommit_SingleFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var submits int
	var mu sync.Mutex

	form := NewForm(validateDraft, func(context.Context, draft) error {
		close(started)
		<-release
		mu.Lock()
		submits++
		mu.Unlock()
		return nil
	})

	form.Begin(nil)
	form.Set("title", "Once")

	done := make(chan error, 1)
	go func() { done <- form.Commit(context.Background()) }()

	<-started
	// Second submit while the first is in flight is dropped.
	err := form.Commit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(release)
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, submits, "exactly one submission must reach the store")
}

func TestBeginDuringCommitKeepsGuard(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	form := NewForm(validateDraft, func(context.Context, draft) error {
		close(started)
		<-release
		return nil
	})

	form.Begin(map[string]string{"title": "first"})
	done := make(chan error, 1)
	go func() { done <- form.Commit(context.Background()) }()
	<-started

	// A duplicate submission re-begins the form while the first commit
	// is still writing. It must be dropped, not duplicated.
	form.Begin(map[string]string{"title": "first"})
	err := form.Commit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(release)
	require.NoError(t, <-done)
}

func TestCommit_CanRetryAfterFailure(t *testing.T) {
	attempts := 0
	form := NewForm(validateDraft, func(context.Context, draft) error {
		attempts++
		if attempts == 1 {
			return &NetworkError{Op: "create draft", Err: errors.New("timeout")}
		}
		return nil
	})

	form.Begin(nil)
	form.Set("title", "Retry me")

	err := form.Commit(context.Background())
	require.Error(t, err)
	assert.True(t, IsRetryable(err))

	require.NoError(t, form.Commit(context.Background()))
	assert.Equal(t, 2, attempts)
}

func TestBeginSeedsValues(t *testing.T) {
	form := NewForm(validateDraft, func(context.Context, draft) error { return nil })

	form.Begin(map[string]string{"title": "Existing record"})
	assert.Equal(t, "Existing record", form.Values()["title"])

	form.Reset()
	assert.Empty(t, form.Values())
}

func TestCommit_ContextPassedToSubmit(t *testing.T) {
	type key struct{}
	form := NewForm(validateDraft, func(ctx context.Context, _ draft) error {
		if ctx.Value(key{}) != "v" {
			t.Error("context not propagated to submit")
		}
		return nil
	})

	form.Begin(map[string]string{"title": "ctx"})
	ctx := context.WithValue(context.Background(), key{}, "v")

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = form.Commit(ctx)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("commit did not finish")
	}
}
