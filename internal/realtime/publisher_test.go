package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yoockh/hirex/internal/models"
)

func TestChannel(t *testing.T) {
	assert.Equal(t, "job:64b7f0c2a1b2c3d4e5f60718:applications", Channel("64b7f0c2a1b2c3d4e5f60718"))
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), models.ApplicationEvent{Type: "application_created"}))
}

func TestMemoryBusDeliversPerJob(t *testing.T) {
	bus := NewMemoryBus()
	ctx := context.Background()

	sub, err := bus.Subscribe(ctx, "job-a")
	assert.NoError(t, err)
	other, err := bus.Subscribe(ctx, "job-b")
	assert.NoError(t, err)

	assert.NoError(t, bus.Publish(ctx, models.ApplicationEvent{Type: "application_created", JobID: "job-a", ApplicationID: "app-1"}))

	select {
	case msg := <-sub.Messages():
		assert.JSONEq(t, `{"type":"application_created","job_id":"job-a","application_id":"app-1","status":"","at":"0001-01-01T00:00:00Z"}`, msg)
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
	select {
	case msg := <-other.Messages():
		t.Fatalf("unexpected event on other job: %s", msg)
	default:
	}

	assert.NoError(t, sub.Close())
	assert.NoError(t, sub.Close())
	_, open := <-sub.Messages()
	assert.False(t, open)
	assert.NoError(t, bus.Publish(ctx, models.ApplicationEvent{JobID: "job-a"}))
}
