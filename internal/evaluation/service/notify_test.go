package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Joenyengs/backend/internal/evaluation/models"
	"github.com/Joenyengs/backend/internal/evaluation/service/mocks"
	"github.com/Joenyengs/backend/internal/evaluation/store/memory"
	id "github.com/Joenyengs/backend/pkg/domain"
	dErrors "github.com/Joenyengs/backend/pkg/domain-errors"
	"github.com/Joenyengs/backend/pkg/requestcontext"
)

func TestNotificationFailureDoesNotUndoSubmission(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockNotifier(ctrl)
	sequencer := mocks.NewMockSequencer(ctrl)

	var logs bytes.Buffer
	applications := memory.NewApplicationStore()
	svc := New(applications, memory.NewTreatmentStore(), memory.NewAppealStore(), sequencer,
		WithNotifier(notifier),
		WithLogger(slog.New(slog.NewJSONHandler(&logs, nil))),
		WithLinkBase("https://recrutement.example"),
	)

	ctx := requestcontext.WithTime(context.Background(), time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC))
	sequencer.EXPECT().Next(gomock.Any(), "ENA2025KXX").Return(int64(42), nil)
	notifier.EXPECT().
		Notify(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n models.Notification) error {
			assert.Contains(t, n.Link, "https://recrutement.example/applications/")
			return errors.New("broker unavailable")
		})

	app, err := svc.SubmitApplication(ctx, SubmitApplicationRequest{
		CandidateID: newUserID(),
		Profile:     eligibleProfile(),
		Documents:   completeDocuments(),
	})
	require.NoError(t, err)
	assert.Equal(t, "ENA2025KXX00042", app.Reference)
	assert.Contains(t, logs.String(), "notification delivery failed")

	stored, err := applications.FindByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, app.Reference, stored.Reference)
}

func TestSequencerFailureAbortsSubmission(t *testing.T) {
	ctrl := gomock.NewController(t)
	sequencer := mocks.NewMockSequencer(ctrl)
	applications := memory.NewApplicationStore()
	svc := New(applications, memory.NewTreatmentStore(), memory.NewAppealStore(), sequencer)

	sequencer.EXPECT().Next(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("redis down"))

	_, err := svc.SubmitApplication(context.Background(), SubmitApplicationRequest{
		CandidateID: newUserID(),
		Profile:     eligibleProfile(),
		Documents:   completeDocuments(),
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))

	counts, err := applications.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestAuditFailureAbortsTreatment(t *testing.T) {
	ctrl := gomock.NewController(t)
	auditor := mocks.NewMockAuditPublisher(ctrl)
	applications := memory.NewApplicationStore()
	treatments := memory.NewTreatmentStore()
	svc := New(applications, treatments, memory.NewAppealStore(), nil,
		WithAuditPublisher(auditor),
	)
	ctx := context.Background()

	app, err := models.NewApplication(id.NewApplicationID(), "ENA2025KXX00001", newUserID(), eligibleProfile(), completeDocuments(), nil, time.Now())
	require.NoError(t, err)
	require.NoError(t, applications.Create(ctx, app))

	auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("audit store down"))

	_, err = svc.RecordTreatment(ctx, RecordTreatmentRequest{
		ApplicationID: app.ID,
		EvaluatorID:   newUserID(),
		Conformity:    conforming(),
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))

	n, err := treatments.Count(ctx, app.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
	stored, err := applications.FindByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, stored.Status)
}
