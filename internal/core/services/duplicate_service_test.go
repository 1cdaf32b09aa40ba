package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamal-hamza/stegshare-cli/internal/core/domain"
	"github.com/kamal-hamza/stegshare-cli/internal/core/ports/mocks"
	"github.com/kamal-hamza/stegshare-cli/pkg/logger"
)

func newDuplicateService(session sessionFixture, gw *mocks.MockDuplicateGateway) (*DuplicateCheckService, *mocks.MockNotifier) {
	notifier := mocks.NewMockNotifier()
	return NewDuplicateCheckService(gw, session.ctx, notifier, logger.NewNop()), notifier
}

func TestDuplicateCheck_EmptySelectionIsNoop(t *testing.T) {
	gw := &mocks.MockDuplicateGateway{}
	svc, notifier := newDuplicateService(newSignedIn(t), gw)

	res := svc.Check(context.Background(), DuplicateCheckRequest{Filename: "a.png"})

	assert.False(t, res.Checked)
	assert.Nil(t, res.Notice)
	assert.Equal(t, 0, gw.Calls())
	assert.Empty(t, notifier.Notices())
}

func TestDuplicateCheck_Match(t *testing.T) {
	gw := &mocks.MockDuplicateGateway{Verdict: domain.DuplicateVerdict{Matched: true, Distance: 3, HasDistance: true}}
	svc, notifier := newDuplicateService(newSignedIn(t), gw)

	res := svc.Check(context.Background(), DuplicateCheckRequest{Filename: "a.png", Image: []byte{1}})

	require.NotNil(t, res.Notice)
	assert.Equal(t, domain.NoticeWarning, res.Notice.Level)
	assert.Equal(t, "Similar image found! Closest Match Distance: 3", res.Notice.Message)
	assert.Len(t, notifier.Notices(), 1)
}

func TestDuplicateCheck_UniqueIsQuiet(t *testing.T) {
	gw := &mocks.MockDuplicateGateway{Verdict: domain.DuplicateVerdict{Matched: false, Distance: 30, HasDistance: true}}
	svc, notifier := newDuplicateService(newSignedIn(t), gw)

	res := svc.Check(context.Background(), DuplicateCheckRequest{Filename: "a.png", Image: []byte{1}})

	assert.True(t, res.Checked)
	assert.False(t, res.Verdict.Matched)
	assert.Empty(t, notifier.Notices())
}

func TestDuplicateCheck_FailureIsDistinctNotice(t *testing.T) {
	failures := []error{
		errors.New("dial tcp: connection refused"),
		fmt.Errorf("decode: %w", domain.ErrMalformedResponse),
		&domain.StatusError{StatusCode: 500, Message: "Failed to check for duplicates"},
	}

	for _, failure := range failures {
		gw := &mocks.MockDuplicateGateway{Err: failure}
		svc, _ := newDuplicateService(newSignedIn(t), gw)

		res := svc.Check(context.Background(), DuplicateCheckRequest{Filename: "a.png", Image: []byte{1}})

		require.NotNil(t, res.Notice)
		assert.Equal(t, domain.NoticeError, res.Notice.Level)
		assert.Equal(t, MsgDuplicateCheckError, res.Notice.Message)
	}
}

func TestDuplicateCheck_FailureDoesNotBlockSubmission(t *testing.T) {
	session := newSignedIn(t)
	dup := &mocks.MockDuplicateGateway{Err: errors.New("timeout")}
	dupSvc, _ := newDuplicateService(session, dup)

	upload := &mocks.MockUploadGateway{StatusCode: 200, Body: `{"status":"ok"}`}
	subSvc := NewSubmissionService(upload, nil, session.ctx, mocks.NewMockNotifier(), logger.NewNop(), SubmissionOptions{})

	candidate := testCandidate()
	dupSvc.Check(context.Background(), DuplicateCheckRequest{Filename: candidate.Filename, Image: candidate.Image})
	outcome := subSvc.Submit(context.Background(), candidate)

	assert.Equal(t, domain.OutcomeAccepted, outcome.Kind)
	assert.Equal(t, 1, upload.Calls())
}

func TestDuplicateCheck_ReselectRetriggers(t *testing.T) {
	gw := &mocks.MockDuplicateGateway{}
	svc, _ := newDuplicateService(newSignedIn(t), gw)

	req := DuplicateCheckRequest{Filename: "a.png", Image: []byte{1}}
	svc.Check(context.Background(), req)
	svc.Check(context.Background(), req)

	assert.Equal(t, 2, gw.Calls())
}

func TestDuplicateCheck_SignedOutSkipsNetwork(t *testing.T) {
	gw := &mocks.MockDuplicateGateway{}
	svc, notifier := newDuplicateService(newSignedOut(t), gw)

	res := svc.Check(context.Background(), DuplicateCheckRequest{Filename: "a.png", Image: []byte{1}})

	assert.False(t, res.Checked)
	assert.Equal(t, 0, gw.Calls())
	assert.Len(t, notifier.Notices(), 1)
}

func TestDuplicateCheck_UnauthorizedExpiresSession(t *testing.T) {
	session := newSignedIn(t)
	gw := &mocks.MockDuplicateGateway{Err: domain.ErrUnauthorized}
	svc, notifier := newDuplicateService(session, gw)

	svc.Check(context.Background(), DuplicateCheckRequest{Filename: "a.png", Image: []byte{1}})

	assert.Equal(t, 1, session.store.ClearCalls())
	assert.Equal(t, 1, session.navigator.Redirects())
	assert.Empty(t, notifier.Notices())
}
