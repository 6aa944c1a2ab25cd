package submissions

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"formbridge-service/internal/app/config"
	"formbridge-service/internal/pkg/constvars"
	"formbridge-service/internal/pkg/dto/requests"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeQueuePublisher struct {
	published [][]byte
	err       error
}

func (f *fakeQueuePublisher) Publish(ctx context.Context, body []byte) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, body)
	return nil
}

func enqueueTestController(publisher *fakeQueuePublisher) *SubmissionController {
	internalConfig := &config.InternalConfig{
		App: config.App{RequestTimeoutInSeconds: 5},
	}
	return NewSubmissionController(zap.NewNop(), nil, publisher, internalConfig)
}

func TestSubmissionController_EnqueueSubmission(t *testing.T) {
	t.Run("valid submission is published with a minted message id", func(t *testing.T) {
		publisher := &fakeQueuePublisher{}
		controller := enqueueTestController(publisher)

		body, err := json.Marshal(validSubmission())
		assert.NoError(t, err)

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(constvars.MethodPost, "/submissions/enqueue", bytes.NewReader(body))
		controller.EnqueueSubmission(recorder, request)

		assert.Equal(t, constvars.StatusAccepted, recorder.Code)
		assert.Len(t, publisher.published, 1)

		var queued requests.CreateSubmission
		assert.NoError(t, json.Unmarshal(publisher.published[0], &queued))
		assert.NotEmpty(t, queued.MessageID)
		assert.Equal(t, "test-form-123", queued.FormID)
		assert.Len(t, queued.Answers, 6)
	})

	t.Run("caller-supplied message id is kept", func(t *testing.T) {
		publisher := &fakeQueuePublisher{}
		controller := enqueueTestController(publisher)

		submission := validSubmission()
		submission.MessageID = "msg-42"
		body, err := json.Marshal(submission)
		assert.NoError(t, err)

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(constvars.MethodPost, "/submissions/enqueue", bytes.NewReader(body))
		controller.EnqueueSubmission(recorder, request)

		assert.Equal(t, constvars.StatusAccepted, recorder.Code)
		var queued requests.CreateSubmission
		assert.NoError(t, json.Unmarshal(publisher.published[0], &queued))
		assert.Equal(t, "msg-42", queued.MessageID)
	})

	t.Run("unparseable body is rejected before publishing", func(t *testing.T) {
		publisher := &fakeQueuePublisher{}
		controller := enqueueTestController(publisher)

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(constvars.MethodPost, "/submissions/enqueue", bytes.NewReader([]byte("{not json")))
		controller.EnqueueSubmission(recorder, request)

		assert.Equal(t, constvars.StatusBadRequest, recorder.Code)
		assert.Empty(t, publisher.published)
	})

	t.Run("invalid envelope is rejected before publishing", func(t *testing.T) {
		publisher := &fakeQueuePublisher{}
		controller := enqueueTestController(publisher)

		submission := validSubmission()
		submission.FormID = ""
		body, err := json.Marshal(submission)
		assert.NoError(t, err)

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(constvars.MethodPost, "/submissions/enqueue", bytes.NewReader(body))
		controller.EnqueueSubmission(recorder, request)

		assert.Equal(t, constvars.StatusBadRequest, recorder.Code)
		assert.Empty(t, publisher.published)
	})
}
