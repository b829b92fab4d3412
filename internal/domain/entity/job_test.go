package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/TallerPos-api/internal/domain/entity"
)

func TestCanTransition_CaminoFeliz(t *testing.T) {
	casos := []struct {
		from, to string
		ok       bool
	}{
		{entity.JobStatusPending, entity.JobStatusDiagnosing, true},
		{entity.JobStatusPending, entity.JobStatusInProgress, true},
		{entity.JobStatusDiagnosing, entity.JobStatusWaitingParts, true},
		{entity.JobStatusWaitingParts, entity.JobStatusInProgress, true},
		{entity.JobStatusInProgress, entity.JobStatusCompleted, true},
		{entity.JobStatusInProgress, entity.JobStatusReturned, true},

		// Retrocesos y saltos no permitidos
		{entity.JobStatusPending, entity.JobStatusReturned, false},
		{entity.JobStatusDiagnosing, entity.JobStatusPending, false},
		{entity.JobStatusCompleted, entity.JobStatusInProgress, false},
		{entity.JobStatusCancelled, entity.JobStatusPending, false},
	}
	for _, c := range casos {
		assert.Equal(t, c.ok, entity.CanTransition(c.from, c.to),
			"transición %s → %s", c.from, c.to)
	}
}

func TestIsTerminalJobStatus(t *testing.T) {
	assert.True(t, entity.IsTerminalJobStatus(entity.JobStatusCompleted))
	assert.True(t, entity.IsTerminalJobStatus(entity.JobStatusCancelled))
	assert.True(t, entity.IsTerminalJobStatus(entity.JobStatusReturned))
	assert.False(t, entity.IsTerminalJobStatus(entity.JobStatusPending))
	assert.False(t, entity.IsTerminalJobStatus(entity.JobStatusInProgress))
}

func TestReservedLineFor_IgnoraLineasConsumidas(t *testing.T) {
	job := &entity.Job{PartLines: []entity.PartLine{
		{ID: "l1", PartID: "p1", Qty: 2, Status: entity.PartLineStatusUsed},
		{ID: "l2", PartID: "p1", Qty: 3, Status: entity.PartLineStatusReserved},
		{ID: "l3", PartID: "p2", Qty: 1, Status: entity.PartLineStatusReserved},
	}}

	line := job.ReservedLineFor("p1")
	assert.NotNil(t, line)
	assert.Equal(t, "l2", line.ID, "solo cuentan las líneas aún reservadas")
	assert.Nil(t, job.ReservedLineFor("p3"))
}

func TestRemoveUsage(t *testing.T) {
	job := &entity.Job{PartsUsed: []entity.PartUsage{
		{ID: "u1", PartID: "p1", Qty: 1},
		{ID: "u2", PartID: "p2", Qty: 2},
	}}

	job.RemoveUsage("u1")
	assert.Len(t, job.PartsUsed, 1)
	assert.Equal(t, "u2", job.PartsUsed[0].ID)

	// Eliminar un ID inexistente no hace nada
	job.RemoveUsage("u9")
	assert.Len(t, job.PartsUsed, 1)
}

func TestAppendNote(t *testing.T) {
	job := &entity.Job{}
	at := time.Now()
	job.AppendNote("instaló 2 x LCD-IP13", "tech-1", at)

	assert.Len(t, job.Notes, 1)
	assert.Equal(t, "tech-1", job.Notes[0].UserID)
	assert.Equal(t, at, job.Notes[0].CreatedAt)
}
