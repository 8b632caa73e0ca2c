package service

import (
	"context"
	"encoding/json"
	"time"

	"fiberops-assistant-be/internal/pkg/logger"
	"fiberops-assistant-be/internal/pkg/mailer"
	"fiberops-assistant-be/internal/repository/contract"
	"fiberops-assistant-be/pkg/events"
	"fiberops-assistant-be/pkg/projectdata"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const consumerModule = "RefreshConsumer"

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// StatusBroadcaster pushes refresh outcomes to connected dashboards. *websocket.Hub implements it.
type StatusBroadcaster interface {
	Broadcast(ctx context.Context, p events.RefreshPayload)
}

// EventPublisher forwards events off-box. *nats.Publisher implements it.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// SnapshotSource is the read side of the project data store.
type SnapshotSource interface {
	Current() *projectdata.Snapshot
}

// ConsumerDeps groups the optional sinks; any nil field is skipped.
type ConsumerDeps struct {
	Source      SnapshotSource
	Mirror      contract.SnapshotMirrorRepository
	Broadcaster StatusBroadcaster
	Events      EventPublisher
	Mailer      mailer.IAlertMailer
	Logger      logger.ILogger
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	deps      ConsumerDeps

	// Only touched from the consuming goroutine.
	failing   bool
	downSince time.Time
}

func NewConsumerService(pubSub *gochannel.GoChannel, topicName string, deps ConsumerDeps) IConsumerService {
	if deps.Logger == nil {
		deps.Logger = logger.NewNopLogger()
	}
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		deps:      deps,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	// Every sink is best effort; a failed sink never redelivers the outcome to the others.
	defer msg.Ack()

	var p events.RefreshPayload
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		cs.deps.Logger.Error(consumerModule, "Failed to unmarshal refresh payload", map[string]interface{}{"error": err.Error()})
		return
	}

	if !p.Failed() {
		cs.mirror(ctx, p)
	}

	if cs.deps.Broadcaster != nil {
		cs.deps.Broadcaster.Broadcast(ctx, p)
	}

	if cs.deps.Events != nil {
		if err := cs.deps.Events.Publish(ctx, p.Event()); err != nil {
			cs.deps.Logger.Warn(consumerModule, "Failed to forward refresh event", map[string]interface{}{"type": p.Type, "error": err.Error()})
		}
	}

	cs.alert(p)
}

func (cs *consumerService) mirror(ctx context.Context, p events.RefreshPayload) {
	if cs.deps.Mirror == nil || cs.deps.Source == nil {
		return
	}
	snap := cs.deps.Source.Current()
	if snap == nil {
		return
	}
	if err := cs.deps.Mirror.Save(ctx, snap); err != nil {
		cs.deps.Logger.Warn(consumerModule, "Failed to mirror snapshot", map[string]interface{}{"version": snap.Version, "error": err.Error()})
		return
	}
	cs.deps.Logger.Debug(consumerModule, "Snapshot mirrored", map[string]interface{}{"version": snap.Version})
}

// alert mails once when refreshes start failing and once when they recover.
func (cs *consumerService) alert(p events.RefreshPayload) {
	switch {
	case p.Failed() && !cs.failing:
		cs.failing = true
		cs.downSince = p.OccurredAt
		if cs.deps.Mailer == nil {
			return
		}
		if err := cs.deps.Mailer.SendRefreshFailure(p); err != nil {
			cs.deps.Logger.Error(consumerModule, "Failed to send failure alert", map[string]interface{}{"error": err.Error()})
		}

	case !p.Failed() && cs.failing:
		cs.failing = false
		if cs.deps.Mailer == nil {
			return
		}
		if err := cs.deps.Mailer.SendRecovered(p, cs.downSince); err != nil {
			cs.deps.Logger.Error(consumerModule, "Failed to send recovery alert", map[string]interface{}{"error": err.Error()})
		}
	}
}
