package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/TallerPos-api/internal/domain/entity"
)

func orderWith(received ...int) *entity.PurchaseOrder {
	po := &entity.PurchaseOrder{Status: entity.POStatusOrdered}
	for i, r := range received {
		po.Lines = append(po.Lines, entity.POLine{
			ID: "l" + string(rune('1'+i)), PartID: "p" + string(rune('1'+i)),
			OrderedQty: 10, ReceivedQty: r,
		})
	}
	return po
}

func TestRecomputeStatus_EstadoDerivado(t *testing.T) {
	po := orderWith(0, 0)
	po.RecomputeStatus()
	assert.Equal(t, entity.POStatusOrdered, po.Status, "sin recepciones sigue ordered")

	po = orderWith(4, 0)
	po.RecomputeStatus()
	assert.Equal(t, entity.POStatusPartialReceived, po.Status)

	po = orderWith(10, 10)
	po.RecomputeStatus()
	assert.Equal(t, entity.POStatusReceived, po.Status, "toda línea completa cierra la orden")

	// Sobre-recepción también cuenta como completa
	po = orderWith(12, 10)
	po.RecomputeStatus()
	assert.Equal(t, entity.POStatusReceived, po.Status)
}

func TestRecomputeStatus_NoTocaCanceladas(t *testing.T) {
	po := orderWith(10, 10)
	po.Status = entity.POStatusCancelled
	po.RecomputeStatus()
	assert.Equal(t, entity.POStatusCancelled, po.Status)
}

func TestIsTerminal(t *testing.T) {
	po := orderWith(0)
	assert.False(t, po.IsTerminal())

	po.Status = entity.POStatusPartialReceived
	assert.False(t, po.IsTerminal(), "una orden parcial sigue aceptando lotes")

	po.Status = entity.POStatusReceived
	assert.True(t, po.IsTerminal())

	po.Status = entity.POStatusCancelled
	assert.True(t, po.IsTerminal())
}
