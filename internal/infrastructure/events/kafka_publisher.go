package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/tu-usuario/stock-ledger/internal/application/ports"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/pkg/config"
)

// Verificar en tiempo de compilación que KafkaPublisher implementa AdjustmentPublisher.
var _ ports.AdjustmentPublisher = (*KafkaPublisher)(nil)

// KafkaPublisher publica los ajustes aplicados en un topic de Kafka para que
// el tooling de compras y reporting se suscriba en lugar de hacer polling.
// Clave del mensaje: product_id (los eventos de un producto quedan en orden
// dentro de su partición).
type KafkaPublisher struct {
	writer *kafkaGo.Writer
}

// NewKafkaPublisher construye el publicador con la configuración de Kafka.
func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafkaGo.Writer{
			Addr:         kafkaGo.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafkaGo.LeastBytes{},
			WriteTimeout: 5 * time.Second,
		},
	}
}

// adjustmentEvent payload JSON del evento publicado.
type adjustmentEvent struct {
	ID             int64     `json:"id"`
	TransferRef    string    `json:"transfer_ref,omitempty"`
	ProductID      string    `json:"product_id"`
	LocationID     string    `json:"location_id"`
	FromLocationID *string   `json:"from_location_id,omitempty"`
	Type           string    `json:"type"`
	Quantity       int64     `json:"quantity"`
	PreviousOnHand int64     `json:"previous_on_hand"`
	NewOnHand      int64     `json:"new_on_hand"`
	Reason         string    `json:"reason,omitempty"`
	CreatedBy      string    `json:"created_by"`
	Date           time.Time `json:"date"`
}

// PublishApplied publica cada ajuste como un mensaje JSON.
func (p *KafkaPublisher) PublishApplied(ctx context.Context, adjustments []*entity.Adjustment) error {
	msgs := make([]kafkaGo.Message, 0, len(adjustments))
	for _, a := range adjustments {
		value, err := json.Marshal(adjustmentEvent{
			ID:             a.ID,
			TransferRef:    a.TransferRef,
			ProductID:      a.ProductID,
			LocationID:     a.LocationID,
			FromLocationID: a.FromLocationID,
			Type:           a.Type,
			Quantity:       a.Quantity,
			PreviousOnHand: a.PreviousOnHand,
			NewOnHand:      a.NewOnHand,
			Reason:         a.Reason,
			CreatedBy:      a.CreatedBy,
			Date:           a.Date,
		})
		if err != nil {
			return fmt.Errorf("marshal adjustment event: %w", err)
		}
		msgs = append(msgs, kafkaGo.Message{
			Key:   []byte(a.ProductID),
			Value: value,
		})
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish adjustments: %w", err)
	}
	return nil
}

// Close cierra el writer subyacente.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
