package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fiberops-assistant-be/pkg/events"
	"fiberops-assistant-be/pkg/projectdata"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IPublisherService interface {
	Publish(ctx context.Context, payload []byte) error
	PublishRefresh(ctx context.Context, o projectdata.Outcome) error
}

type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
	}
}

func (ps *publisherService) Publish(ctx context.Context, payload []byte) error {
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return ps.pubSub.Publish(ps.topicName, msg)
}

func (ps *publisherService) PublishRefresh(ctx context.Context, o projectdata.Outcome) error {
	payload, err := json.Marshal(NewRefreshPayload(o, time.Now()))
	if err != nil {
		return fmt.Errorf("marshal refresh payload: %w", err)
	}
	return ps.Publish(ctx, payload)
}

// NewRefreshPayload flattens a refresh outcome into the event sent to dashboards and other
// instances.
func NewRefreshPayload(o projectdata.Outcome, at time.Time) events.RefreshPayload {
	p := events.RefreshPayload{
		Type:         events.TypeProjectsRefreshed,
		State:        string(o.Status.State),
		Version:      o.Status.Version,
		ProjectCount: o.Status.ProjectCount,
		Stale:        o.Status.Stale,
		RefreshedAt:  o.Status.RefreshedAt,
		OccurredAt:   at,
		DurationMs:   o.Duration.Milliseconds(),
	}
	if o.Err != nil {
		p.Type = events.TypeProjectsRefreshError
		p.Error = o.Err.Error()
	}
	if o.Snapshot != nil {
		p.TicketCount = o.Snapshot.TicketCount()
		p.LocateAvailable = o.Snapshot.LocateAvailable
	}
	return p
}
