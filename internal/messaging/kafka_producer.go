package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/chantierpro/chantierpro/internal/domain"
	"github.com/chantierpro/chantierpro/pkg/logger"
)

// Publisher определяет интерфейс публикации доменных событий
type Publisher interface {
	PublishTaskCreated(ctx context.Context, task *domain.Task) error
	PublishTaskUpdated(ctx context.Context, task *domain.Task, changes map[string]interface{}) error
	PublishTaskDeleted(ctx context.Context, task *domain.Task) error
	PublishTemplateApplied(ctx context.Context, report *domain.ApplyReport) error
	PublishVillaProgress(ctx context.Context, villa *domain.Villa) error
}

// KafkaProducer реализует интерфейс продюсера для отправки сообщений в Kafka
type KafkaProducer struct {
	writer *kafka.Writer
	topics map[string]string
	logger logger.Logger
}

// NewKafkaProducer создает новый экземпляр KafkaProducer
func NewKafkaProducer(brokers []string, topics map[string]string, logger logger.Logger) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  5,
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		Logger:       wrapLogger{log: logger},
	}

	return &KafkaProducer{
		writer: writer,
		topics: topics,
		logger: logger,
	}
}

// Close закрывает соединение с Kafka
func (p *KafkaProducer) Close() error {
	p.logger.Info("Closing Kafka producer")
	return p.writer.Close()
}

// PublishTaskCreated публикует событие о создании задачи
func (p *KafkaProducer) PublishTaskCreated(ctx context.Context, task *domain.Task) error {
	event := taskEventFrom(task, EventTypeTaskCreated)
	return p.publishEvent(ctx, p.topics["task_created"], task.ID, event)
}

// PublishTaskUpdated публикует событие об обновлении задачи
func (p *KafkaProducer) PublishTaskUpdated(ctx context.Context, task *domain.Task, changes map[string]interface{}) error {
	event := taskEventFrom(task, EventTypeTaskUpdated)
	event.Changes = changes
	return p.publishEvent(ctx, p.topics["task_updated"], task.ID, event)
}

// PublishTaskDeleted публикует событие об удалении задачи
func (p *KafkaProducer) PublishTaskDeleted(ctx context.Context, task *domain.Task) error {
	event := taskEventFrom(task, EventTypeTaskDeleted)
	return p.publishEvent(ctx, p.topics["task_deleted"], task.ID, event)
}

// PublishTemplateApplied публикует итог применения шаблона
func (p *KafkaProducer) PublishTemplateApplied(ctx context.Context, report *domain.ApplyReport) error {
	event := TemplateAppliedEvent{
		TemplateID: report.TemplateID,
		VillaID:    report.VillaID,
		CategoryID: report.CategoryID,
		Created:    report.Created,
		Skipped:    report.Skipped,
		Failed:     len(report.Failed),
		AppliedAt:  time.Now(),
		Type:       EventTypeTemplateApplied,
	}

	key := fmt.Sprintf("%s-%s", report.TemplateID, report.CategoryID)
	return p.publishEvent(ctx, p.topics["template_applied"], key, event)
}

// PublishVillaProgress публикует изменение агрегированного прогресса виллы
func (p *KafkaProducer) PublishVillaProgress(ctx context.Context, villa *domain.Villa) error {
	event := VillaProgressEvent{
		VillaID:   villa.ID,
		ProjectID: villa.ProjectID,
		Status:    string(villa.Status),
		Progress:  villa.Progress,
		UpdatedAt: villa.UpdatedAt,
		Type:      EventTypeVillaProgress,
	}

	return p.publishEvent(ctx, p.topics["villa_progress"], villa.ID, event)
}

func taskEventFrom(task *domain.Task, eventType string) TaskEvent {
	return TaskEvent{
		ID:             task.ID,
		Name:           task.Name,
		CategoryID:     task.CategoryID,
		VillaID:        task.VillaID,
		TeamID:         task.TeamID,
		Status:         string(task.Status),
		Progress:       task.Progress,
		ProgressStatus: string(task.ProgressStatus),
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
		Type:           eventType,
	}
}

// Вспомогательный метод для публикации событий

func (p *KafkaProducer) publishEvent(ctx context.Context, topic, key string, event interface{}) error {
	value, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal event", err, map[string]interface{}{
			"topic": topic,
			"key":   key,
		})
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	start := time.Now()
	err = p.writer.WriteMessages(ctx,
		kafka.Message{
			Topic: topic,
			Key:   []byte(key),
			Value: value,
			Time:  time.Now(),
		},
	)
	elapsed := time.Since(start)

	if err != nil {
		p.logger.Error("Failed to publish event", err, map[string]interface{}{
			"topic":   topic,
			"key":     key,
			"elapsed": elapsed.String(),
		})
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("Successfully published event", map[string]interface{}{
		"topic":   topic,
		"key":     key,
		"elapsed": elapsed.String(),
	})

	return nil
}

// wrapLogger адаптирует pkg/logger к интерфейсу kafka.Logger
type wrapLogger struct {
	log logger.Logger
}

func (w wrapLogger) Printf(format string, args ...interface{}) {
	w.log.Debug(fmt.Sprintf(format, args...))
}
