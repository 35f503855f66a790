package service

import (
	"context"
	"encoding/json"
	"time"

	"Volunteer_Service/internal/pkg"

	"go.uber.org/zap"
)

const (
	ActivityApplicationCreated = "application.created"
	ActivityApplicationStatus  = "application.status_changed"
	ActivityLikeToggled        = "like.toggled"
	ActivityExportBuilt        = "export.built"
)

// Activity 领域事件，投递失败不影响主流程
type Activity struct {
	Type    string         `json:"type"`
	UserID  uint64         `json:"user_id"`
	EventID uint64         `json:"event_id,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	At      time.Time      `json:"at"`
}

type ActivityPublisher interface {
	Publish(ctx context.Context, a Activity) error
}

// MessageProducer pkg.KafkaProducer 满足此接口
type MessageProducer interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// KafkaActivityPublisher 同一用户的事件进入同一分区
type KafkaActivityPublisher struct {
	producer MessageProducer
}

func NewKafkaActivityPublisher(p MessageProducer) *KafkaActivityPublisher {
	return &KafkaActivityPublisher{producer: p}
}

func (p *KafkaActivityPublisher) Publish(ctx context.Context, a Activity) error {
	if a.At.IsZero() {
		a.At = time.Now().UTC()
	}
	payload, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, pkg.MakeKeyFromID(a.UserID), payload)
}

// LogActivityPublisher 未配置 Kafka 时只写日志
type LogActivityPublisher struct {
	log *zap.Logger
}

func NewLogActivityPublisher(log *zap.Logger) *LogActivityPublisher {
	return &LogActivityPublisher{log: log}
}

func (p *LogActivityPublisher) Publish(_ context.Context, a Activity) error {
	p.log.Info("activity",
		zap.String("type", a.Type),
		zap.Uint64("user_id", a.UserID),
		zap.Uint64("event_id", a.EventID),
		zap.Any("data", a.Data),
	)
	return nil
}

// publish 尽力而为
func publish(ctx context.Context, pub ActivityPublisher, log *zap.Logger, a Activity) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, a); err != nil {
		log.Warn("publish activity failed", zap.String("type", a.Type), zap.Error(err))
	}
}
