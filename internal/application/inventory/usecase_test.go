package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/TallerPos-api/internal/application/apptest"
	"github.com/jhoicas/TallerPos-api/internal/application/inventory"
	"github.com/jhoicas/TallerPos-api/internal/application/jobs"
	"github.com/jhoicas/TallerPos-api/internal/domain"
	"github.com/jhoicas/TallerPos-api/internal/domain/entity"
	"github.com/jhoicas/TallerPos-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	storeCentro = "store-centro"
	storeNorte  = "store-norte"
	partBat     = "part-bat"
	managerID   = "manager-1"
)

func newInventoryUC(t *testing.T, qty int) (*inventory.UseCase, *apptest.World) {
	t.Helper()
	w := apptest.NewWorld()
	w.SeedStore(storeCentro, "Sucursal Centro")
	w.SeedStore(storeNorte, "Sucursal Norte")
	w.SeedPart(partBat, "BAT-A52", 3)
	w.SeedStock(partBat, storeCentro, qty, 0)
	uc := inventory.NewUseCase(w, w.Stock, w.Ledger, w.Parts, w.Stores, w.Jobs, w.Events)
	return uc, w
}

// ──────────────────────────────────────────────────────────────────────────────
// AdjustInventory
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjustInventory_Positivo_SumaYAsienta(t *testing.T) {
	uc, w := newInventoryUC(t, 10)

	rec, err := uc.AdjustInventory(context.Background(), inventory.AdjustInput{
		PartID:    partBat,
		StoreID:   storeCentro,
		QtyChange: 5,
		Reason:    "conteo físico",
		UserID:    managerID,
	})
	require.NoError(t, err)
	assert.Equal(t, 15, rec.Quantity)

	entries := w.Ledger.ByType(entity.TxTypeAdjustment)
	require.Len(t, entries, 1)
	assert.Equal(t, 5, entries[0].QtyChange)
	assert.Equal(t, 10, entries[0].PrevQty)
	assert.Equal(t, 15, entries[0].NewQty)
	assert.Equal(t, "conteo físico", entries[0].Reason)
}

func TestAdjustInventory_NegativoMayorAlDisponible_RechazaCompleto(t *testing.T) {
	uc, w := newInventoryUC(t, 4)

	_, err := uc.AdjustInventory(context.Background(), inventory.AdjustInput{
		PartID:    partBat,
		StoreID:   storeCentro,
		QtyChange: -7,
		Reason:    "merma",
		UserID:    managerID,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "el ajuste nunca cruza el cero")

	rec, err := w.Stock.Get(context.Background(), partBat, storeCentro)
	require.NoError(t, err)
	assert.Equal(t, 4, rec.Quantity, "el rechazo no aplica nada")
	assert.Empty(t, w.Ledger.Entries, "sin asiento tras el rechazo")
}

func TestAdjustInventory_SinMotivo_RetornaInvalidInput(t *testing.T) {
	uc, _ := newInventoryUC(t, 10)

	_, err := uc.AdjustInventory(context.Background(), inventory.AdjustInput{
		PartID:    partBat,
		StoreID:   storeCentro,
		QtyChange: -1,
		UserID:    managerID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el motivo es obligatorio")
}

func TestAdjustInventory_BajoUmbral_DisparaYLimpiaAlerta(t *testing.T) {
	uc, w := newInventoryUC(t, 10)

	// Bajar a 2 (umbral 3) crea la alerta.
	_, err := uc.AdjustInventory(context.Background(), inventory.AdjustInput{
		PartID: partBat, StoreID: storeCentro, QtyChange: -8, Reason: "merma", UserID: managerID,
	})
	require.NoError(t, err)
	require.Len(t, w.Notifications.Unread(storeCentro, partBat), 1)

	// Reponer por encima del umbral la marca como leída (auto-limpieza).
	_, err = uc.AdjustInventory(context.Background(), inventory.AdjustInput{
		PartID: partBat, StoreID: storeCentro, QtyChange: 6, Reason: "reposición", UserID: managerID,
	})
	require.NoError(t, err)
	assert.Empty(t, w.Notifications.Unread(storeCentro, partBat),
		"recuperar stock limpia la alerta pendiente")
}

func TestAdjustInventory_LlaveIdempotenciaRepetida_RetornaDuplicate(t *testing.T) {
	uc, w := newInventoryUC(t, 10)

	in := inventory.AdjustInput{
		PartID:         partBat,
		StoreID:        storeCentro,
		QtyChange:      -2,
		Reason:         "merma",
		UserID:         managerID,
		IdempotencyKey: "adj-2026-001",
	}
	_, err := uc.AdjustInventory(context.Background(), in)
	require.NoError(t, err)

	_, err = uc.AdjustInventory(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Len(t, w.Ledger.Entries, 1, "el reintento no asienta de nuevo")
}

// ──────────────────────────────────────────────────────────────────────────────
// LogGeneralUsage
// ──────────────────────────────────────────────────────────────────────────────

func TestLogGeneralUsage_DescuentaYAsientaSinReferencia(t *testing.T) {
	uc, w := newInventoryUC(t, 10)

	rec, err := uc.LogGeneralUsage(context.Background(), inventory.GeneralUsageInput{
		PartID:  partBat,
		StoreID: storeCentro,
		Qty:     2,
		TechID:  "tech-9",
		Note:    "batería de prueba en banco",
	})
	require.NoError(t, err)
	assert.Equal(t, 8, rec.Quantity)

	entries := w.Ledger.ByType(entity.TxTypeJobUse)
	require.Len(t, entries, 1)
	assert.Equal(t, -2, entries[0].QtyChange)
	assert.Equal(t, entity.RefNone, entries[0].Ref.Kind, "el consumo general no referencia orden")
	assert.Equal(t, "uso general", entries[0].Reason)
}

func TestLogGeneralUsage_SinDisponible_RetornaError(t *testing.T) {
	uc, _ := newInventoryUC(t, 1)

	_, err := uc.LogGeneralUsage(context.Background(), inventory.GeneralUsageInput{
		PartID:  partBat,
		StoreID: storeCentro,
		Qty:     3,
		TechID:  "tech-9",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// TransferStock
// ──────────────────────────────────────────────────────────────────────────────

func TestTransferStock_MueveEntreSucursalesConParDeAsientos(t *testing.T) {
	uc, w := newInventoryUC(t, 10)

	err := uc.TransferStock(context.Background(), inventory.TransferInput{
		PartID:      partBat,
		FromStoreID: storeCentro,
		ToStoreID:   storeNorte,
		Qty:         4,
		Note:        "reposición norte",
		UserID:      managerID,
	})
	require.NoError(t, err)

	origin, err := w.Stock.Get(context.Background(), partBat, storeCentro)
	require.NoError(t, err)
	dest, err := w.Stock.Get(context.Background(), partBat, storeNorte)
	require.NoError(t, err)
	assert.Equal(t, 6, origin.Quantity)
	assert.Equal(t, 4, dest.Quantity, "el destino se crea perezosamente si no existía")

	outs := w.Ledger.ByType(entity.TxTypeTransferOut)
	ins := w.Ledger.ByType(entity.TxTypeTransferIn)
	require.Len(t, outs, 1)
	require.Len(t, ins, 1)
	assert.Equal(t, -4, outs[0].QtyChange)
	assert.Equal(t, 4, ins[0].QtyChange)
	assert.Equal(t, storeCentro, outs[0].StoreID)
	assert.Equal(t, storeNorte, ins[0].StoreID)
	assert.Equal(t, outs[0].Note, ins[0].Note, "el par comparte la nota")
}

func TestTransferStock_MismaSucursal_RetornaInvalidInput(t *testing.T) {
	uc, _ := newInventoryUC(t, 10)

	err := uc.TransferStock(context.Background(), inventory.TransferInput{
		PartID:      partBat,
		FromStoreID: storeCentro,
		ToStoreID:   storeCentro,
		Qty:         1,
		UserID:      managerID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransferStock_SinDisponibleEnOrigen_RechazaCompleto(t *testing.T) {
	uc, w := newInventoryUC(t, 2)

	err := uc.TransferStock(context.Background(), inventory.TransferInput{
		PartID:      partBat,
		FromStoreID: storeCentro,
		ToStoreID:   storeNorte,
		Qty:         5,
		UserID:      managerID,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	dest, err := w.Stock.Get(context.Background(), partBat, storeNorte)
	require.NoError(t, err)
	assert.Zero(t, dest.Quantity, "el destino no debe recibir nada")
	assert.Empty(t, w.Ledger.Entries)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas: stock, asignaciones e historial
// ──────────────────────────────────────────────────────────────────────────────

func TestGetStock_RegistroInexistente_DevuelveEnCero(t *testing.T) {
	uc, w := newInventoryUC(t, 10)
	w.SeedPart("part-flex", "FLEX-X", 0)

	rec, err := uc.GetStock(context.Background(), "part-flex", storeCentro)
	require.NoError(t, err)
	assert.Zero(t, rec.Quantity, "sin movimientos el stock se reporta en cero")
	assert.Zero(t, rec.ReservedQuantity)
}

func TestGetStock_RepuestoInexistente_RetornaNotFound(t *testing.T) {
	uc, _ := newInventoryUC(t, 10)

	_, err := uc.GetStock(context.Background(), "part-fantasma", storeCentro)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetAllocations_DesglosaReservasAbiertas(t *testing.T) {
	uc, w := newInventoryUC(t, 10)
	jobsUC := jobs.NewUseCase(w, w.Jobs, w.Parts, w.Stores, w.Customers, w.Events)

	job, err := jobsUC.CreateJob(context.Background(), jobs.CreateJobInput{
		StoreID:        storeCentro,
		CustomerName:   "Pedro Ruiz",
		DeviceModel:    "Samsung A52",
		TechnicianID:   "tech-9",
		PartsToReserve: []jobs.PartRequest{{PartID: partBat, Qty: 3}},
		UserID:         managerID,
	})
	require.NoError(t, err)

	rec, err := w.Stock.Get(context.Background(), partBat, storeCentro)
	require.NoError(t, err)
	allocs, err := uc.GetAllocations(context.Background(), rec.ID)
	require.NoError(t, err)

	require.Len(t, allocs, 1, "la reserva abierta debe aparecer en el desglose")
	assert.Equal(t, job.ID, allocs[0].JobID)
	assert.Equal(t, 3, allocs[0].Qty)
	assert.Equal(t, "tech-9", allocs[0].TechnicianID)

	// Cancelar la orden saca la reserva del desglose.
	_, err = jobsUC.CancelJob(context.Background(), job.ID, "", managerID)
	require.NoError(t, err)
	allocs, err = uc.GetAllocations(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Empty(t, allocs)
}

func TestGetTransactionHistory_FiltraPorTipo(t *testing.T) {
	uc, _ := newInventoryUC(t, 10)

	_, err := uc.AdjustInventory(context.Background(), inventory.AdjustInput{
		PartID: partBat, StoreID: storeCentro, QtyChange: 2, Reason: "conteo", UserID: managerID,
	})
	require.NoError(t, err)
	_, err = uc.LogGeneralUsage(context.Background(), inventory.GeneralUsageInput{
		PartID: partBat, StoreID: storeCentro, Qty: 1, TechID: "tech-9",
	})
	require.NoError(t, err)

	txs, err := uc.GetTransactionHistory(context.Background(), repository.TransactionFilter{
		PartID: partBat,
		Type:   entity.TxTypeAdjustment,
	})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, entity.TxTypeAdjustment, txs[0].Type)
}
