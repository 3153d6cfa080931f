package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"dailydigest/internal/models"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []models.Event
}

func (r *recorder) insert(_ context.Context, evts []models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evts...)
	return nil
}

func (r *recorder) snapshot() []models.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Event(nil), r.events...)
}

func TestEmitterFlushesOnClose(t *testing.T) {
	rec := &recorder{}
	e := NewEmitterWithConfig(nil, "test", Config{Buffer: 10, BatchSize: 100, FlushEvery: time.Hour})
	e.InsertMany = rec.insert

	e.JobStarted("generate", 1)
	e.ReportCreated(models.Report{ID: "r1", UserID: "u1", Date: "2024-03-14", CommitCount: 2})
	e.Close()

	got := rec.snapshot()
	require.Len(t, got, 2)
	assert.Equal(t, "job.started", got[0].Action)
	assert.Equal(t, "report.created", got[1].Action)
	assert.Equal(t, "r1", got[1].TargetID)
	assert.NotEmpty(t, got[1].ID)
	assert.False(t, got[1].TimeStamp.IsZero())
}

func TestEmitterFlushesOnBatchSize(t *testing.T) {
	rec := &recorder{}
	e := NewEmitterWithConfig(nil, "test", Config{Buffer: 10, BatchSize: 2, FlushEvery: time.Hour})
	e.InsertMany = rec.insert
	defer e.Close()

	e.CommitsPurged(30, 4)
	e.CommitsPurged(30, 5)

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestEmitterFallsBackToInsertOneWhenFull(t *testing.T) {
	e := NewEmitterWithConfig(nil, "test", Config{Buffer: 0, BatchSize: 1, FlushEvery: time.Hour})
	block := make(chan struct{})
	e.InsertMany = func(context.Context, []models.Event) error {
		<-block
		return nil
	}

	var mu sync.Mutex
	var direct []models.Event
	e.InsertOne = func(_ context.Context, evt models.Event) error {
		mu.Lock()
		defer mu.Unlock()
		direct = append(direct, evt)
		return nil
	}

	// the worker blocks in InsertMany after its first batch
	for i := 0; i < 3; i++ {
		e.JobFailed("send", 3, errors.New("boom"))
	}

	mu.Lock()
	assert.NotEmpty(t, direct)
	mu.Unlock()

	close(block)
	e.Close()
}

func TestEmitterMirrorsDirectInserts(t *testing.T) {
	e := NewEmitterWithConfig(nil, "test", Config{Buffer: 0, BatchSize: 1, FlushEvery: time.Hour})
	block := make(chan struct{})
	e.InsertMany = func(context.Context, []models.Event) error {
		<-block
		return nil
	}

	direct := &recorder{}
	e.InsertOne = func(ctx context.Context, evt models.Event) error {
		return direct.insert(ctx, []models.Event{evt})
	}
	published := &recorder{}
	e.AttachPublisher(publisherFunc(published.insert))

	for i := 0; i < 5; i++ {
		e.CommitsPurged(30, int64(i))
	}

	// the worker is still blocked, so everything published so far went direct
	assert.GreaterOrEqual(t, len(direct.snapshot()), 4)
	assert.Equal(t, len(direct.snapshot()), len(published.snapshot()))

	close(block)
	e.Close()
	assert.Len(t, published.snapshot(), 5)
}

func TestEmitterSurvivesPublishError(t *testing.T) {
	rec := &recorder{}
	e := NewEmitterWithConfig(nil, "test", Config{Buffer: 10, BatchSize: 100, FlushEvery: time.Hour})
	e.InsertMany = rec.insert
	e.AttachPublisher(publisherFunc(func(context.Context, []models.Event) error {
		return sarama.ErrOutOfBrokers
	}))

	e.OperatorLogin("admin")
	require.NotPanics(t, e.Close)
	assert.Len(t, rec.snapshot(), 1)
}

func TestNilEmitterWrappersAreNoops(t *testing.T) {
	var e *Emitter
	require.NotPanics(t, func() {
		e.JobStarted("x", 1)
		e.JobFinished("x", 1, time.Second)
		e.JobFailed("x", 3, errors.New("boom"))
		e.ReportSent(models.Report{}, "a@b.c")
		e.ReportFailed(models.Report{}, "a@b.c", errors.New("boom"))
		e.CommitsIngested("u", "d", 1, 0)
		e.OperatorLogin("op")
	})
}

func TestKafkaPublisherSendsOneMessagePerEvent(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var evt models.Event
		if err := json.Unmarshal(val, &evt); err != nil {
			return err
		}
		if evt.Action != "report.sent" {
			return errors.New("unexpected action " + evt.Action)
		}
		return nil
	})
	producer.ExpectSendMessageAndSucceed()

	k := NewKafkaPublisherWithProducer(producer, "digest.events")
	err := k.Publish(context.Background(), []models.Event{
		{Action: "report.sent", TargetID: "r1"},
		{Action: "report.failed", TargetID: "r2"},
	})
	require.NoError(t, err)
	require.NoError(t, k.Close())
}

func TestKafkaPublisherReturnsProducerError(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	k := NewKafkaPublisherWithProducer(producer, "digest.events")
	err := k.Publish(context.Background(), []models.Event{{Action: "job.failed"}})
	require.Error(t, err)
	require.NoError(t, k.Close())
}

func TestEmitterMirrorsToPublisher(t *testing.T) {
	rec := &recorder{}
	mirrored := &recorder{}

	e := NewEmitterWithConfig(nil, "test", Config{Buffer: 10, BatchSize: 100, FlushEvery: time.Hour})
	e.InsertMany = rec.insert
	e.AttachPublisher(publisherFunc(mirrored.insert))

	e.OperatorLogin("admin")
	e.Close()

	require.Len(t, rec.snapshot(), 1)
	require.Len(t, mirrored.snapshot(), 1)
	assert.Equal(t, "operator.login", mirrored.snapshot()[0].Action)
}

type publisherFunc func(context.Context, []models.Event) error

func (f publisherFunc) Publish(ctx context.Context, evts []models.Event) error {
	return f(ctx, evts)
}
