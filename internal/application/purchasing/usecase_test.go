package purchasing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/TallerPos-api/internal/application/apptest"
	"github.com/jhoicas/TallerPos-api/internal/application/purchasing"
	"github.com/jhoicas/TallerPos-api/internal/domain"
	"github.com/jhoicas/TallerPos-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	poStore    = "store-centro"
	poSupplier = "supplier-1"
	poPart     = "part-pantalla"
	poUser     = "manager-1"
)

func newPurchasingUC(t *testing.T) (*purchasing.UseCase, *apptest.World) {
	t.Helper()
	w := apptest.NewWorld()
	w.SeedStore(poStore, "Sucursal Centro")
	w.SeedSupplier(poSupplier, "Distribuidora Andina")
	w.SeedPart(poPart, "PAN-IP13", 3)
	uc := purchasing.NewUseCase(w, w.PurchaseOrders, w.Parts, w.Stores, w.Suppliers, w.Events)
	return uc, w
}

func createOrder(t *testing.T, uc *purchasing.UseCase, qty int) *entity.PurchaseOrder {
	t.Helper()
	po, err := uc.CreatePurchaseOrder(context.Background(), purchasing.CreateInput{
		StoreID:    poStore,
		SupplierID: poSupplier,
		Lines:      []purchasing.CreateLineInput{{PartID: poPart, Qty: qty, UnitCost: decimal.NewFromInt(120)}},
		UserID:     poUser,
	})
	require.NoError(t, err, "debe crearse la orden de compra de prueba")
	return po
}

// ──────────────────────────────────────────────────────────────────────────────
// CreatePurchaseOrder
// ──────────────────────────────────────────────────────────────────────────────

func TestCreatePurchaseOrder_ArrancaEnOrdered(t *testing.T) {
	uc, _ := newPurchasingUC(t)

	po := createOrder(t, uc, 20)
	assert.Equal(t, entity.POStatusOrdered, po.Status)
	require.Len(t, po.Lines, 1)
	assert.Equal(t, 20, po.Lines[0].OrderedQty)
	assert.Zero(t, po.Lines[0].ReceivedQty)
	assert.Empty(t, po.Receipts)
}

func TestCreatePurchaseOrder_SinLineas_RetornaInvalidInput(t *testing.T) {
	uc, _ := newPurchasingUC(t)

	_, err := uc.CreatePurchaseOrder(context.Background(), purchasing.CreateInput{
		StoreID:    poStore,
		SupplierID: poSupplier,
		UserID:     poUser,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreatePurchaseOrder_ProveedorInexistente_RetornaNotFound(t *testing.T) {
	uc, _ := newPurchasingUC(t)

	_, err := uc.CreatePurchaseOrder(context.Background(), purchasing.CreateInput{
		StoreID:    poStore,
		SupplierID: "supplier-fantasma",
		Lines:      []purchasing.CreateLineInput{{PartID: poPart, Qty: 5}},
		UserID:     poUser,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// ReceivePurchaseOrder
// ──────────────────────────────────────────────────────────────────────────────

func TestReceivePurchaseOrder_DosLotesParciales(t *testing.T) {
	uc, w := newPurchasingUC(t)
	po := createOrder(t, uc, 20)

	// Primer lote: 12 de 20 → partial_received.
	po, err := uc.ReceivePurchaseOrder(context.Background(), purchasing.ReceiveInput{
		POID:   po.ID,
		Items:  []purchasing.ReceiptItemInput{{PartID: poPart, Qty: 12}},
		UserID: poUser,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusPartialReceived, po.Status)
	assert.Equal(t, 12, po.Lines[0].ReceivedQty)
	require.Len(t, po.Receipts, 1)

	rec, err := w.Stock.Get(context.Background(), poPart, poStore)
	require.NoError(t, err)
	assert.Equal(t, 12, rec.Quantity, "la recepción crea el registro de stock si no existía")

	// Segundo lote: 8 restantes → received.
	po, err = uc.ReceivePurchaseOrder(context.Background(), purchasing.ReceiveInput{
		POID:   po.ID,
		Items:  []purchasing.ReceiptItemInput{{PartID: poPart, Qty: 8}},
		UserID: poUser,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusReceived, po.Status, "completar lo ordenado cierra la orden")
	assert.Equal(t, 20, po.Lines[0].ReceivedQty)
	require.Len(t, po.Receipts, 2, "cada lote queda como sub-registro inmutable")

	rec, err = w.Stock.Get(context.Background(), poPart, poStore)
	require.NoError(t, err)
	assert.Equal(t, 20, rec.Quantity)

	entries := w.Ledger.ByType(entity.TxTypePurchaseReceive)
	require.Len(t, entries, 2, "cada lote asienta purchase_receive")
	assert.Equal(t, 12, entries[0].QtyChange)
	assert.Equal(t, 8, entries[1].QtyChange)
	assert.Equal(t, entity.RefPurchaseOrder, entries[0].Ref.Kind)
	assert.Equal(t, po.ID, entries[0].Ref.ID)
}

func TestReceivePurchaseOrder_OrdenCerrada_RetornaConflict(t *testing.T) {
	uc, _ := newPurchasingUC(t)
	po := createOrder(t, uc, 5)

	_, err := uc.ReceivePurchaseOrder(context.Background(), purchasing.ReceiveInput{
		POID:   po.ID,
		Items:  []purchasing.ReceiptItemInput{{PartID: poPart, Qty: 5}},
		UserID: poUser,
	})
	require.NoError(t, err)

	// La orden ya está received: un lote extra se rechaza.
	_, err = uc.ReceivePurchaseOrder(context.Background(), purchasing.ReceiveInput{
		POID:   po.ID,
		Items:  []purchasing.ReceiptItemInput{{PartID: poPart, Qty: 1}},
		UserID: poUser,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestReceivePurchaseOrder_RepuestoFueraDeLaOrden_RetornaInvalidInput(t *testing.T) {
	uc, w := newPurchasingUC(t)
	w.SeedPart("part-otro", "OTRO-1", 0)
	po := createOrder(t, uc, 5)

	_, err := uc.ReceivePurchaseOrder(context.Background(), purchasing.ReceiveInput{
		POID:   po.ID,
		Items:  []purchasing.ReceiptItemInput{{PartID: "part-otro", Qty: 2}},
		UserID: poUser,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput,
		"solo se reciben repuestos que están en la orden")
}

func TestReceivePurchaseOrder_SobreRecepcionPermitida(t *testing.T) {
	// El proveedor puede enviar de más; la línea registra lo realmente recibido.
	uc, w := newPurchasingUC(t)
	po := createOrder(t, uc, 5)

	po, err := uc.ReceivePurchaseOrder(context.Background(), purchasing.ReceiveInput{
		POID:   po.ID,
		Items:  []purchasing.ReceiptItemInput{{PartID: poPart, Qty: 7}},
		UserID: poUser,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusReceived, po.Status)
	assert.Equal(t, 7, po.Lines[0].ReceivedQty)

	rec, err := w.Stock.Get(context.Background(), poPart, poStore)
	require.NoError(t, err)
	assert.Equal(t, 7, rec.Quantity)
}

func TestReceivePurchaseOrder_LimpiaAlertaLowStock(t *testing.T) {
	uc, w := newPurchasingUC(t)
	w.SeedStock(poPart, poStore, 1, 0)
	require.NoError(t, w.Notifications.Create(context.Background(), &entity.Notification{
		ID: "n-1", Type: entity.NotificationTypeLowStock, StoreID: poStore, PartID: poPart,
		Message: "Stock bajo de PAN-IP13",
	}))
	po := createOrder(t, uc, 10)

	_, err := uc.ReceivePurchaseOrder(context.Background(), purchasing.ReceiveInput{
		POID:   po.ID,
		Items:  []purchasing.ReceiptItemInput{{PartID: poPart, Qty: 10}},
		UserID: poUser,
	})
	require.NoError(t, err)

	assert.Empty(t, w.Notifications.Unread(poStore, poPart),
		"reponer por encima del umbral marca la alerta como leída")
}

// ──────────────────────────────────────────────────────────────────────────────
// ReturnToVendor / CancelPurchaseOrder
// ──────────────────────────────────────────────────────────────────────────────

func TestReturnToVendor_DescuentaYReferenciaLaOrden(t *testing.T) {
	uc, w := newPurchasingUC(t)
	po := createOrder(t, uc, 10)
	_, err := uc.ReceivePurchaseOrder(context.Background(), purchasing.ReceiveInput{
		POID:   po.ID,
		Items:  []purchasing.ReceiptItemInput{{PartID: poPart, Qty: 10}},
		UserID: poUser,
	})
	require.NoError(t, err)

	rec, err := uc.ReturnToVendor(context.Background(), purchasing.VendorReturnInput{
		POID:    po.ID,
		PartID:  poPart,
		StoreID: poStore,
		Qty:     3,
		Reason:  "lote defectuoso",
		UserID:  poUser,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, rec.Quantity)

	entries := w.Ledger.ByType(entity.TxTypeVendorReturn)
	require.Len(t, entries, 1)
	assert.Equal(t, -3, entries[0].QtyChange)
	assert.Equal(t, entity.RefPurchaseOrder, entries[0].Ref.Kind)
	assert.Equal(t, po.ID, entries[0].Ref.ID)
	assert.Equal(t, "lote defectuoso", entries[0].Reason)
}

func TestReturnToVendor_SinMotivo_RetornaInvalidInput(t *testing.T) {
	uc, w := newPurchasingUC(t)
	w.SeedStock(poPart, poStore, 5, 0)

	_, err := uc.ReturnToVendor(context.Background(), purchasing.VendorReturnInput{
		PartID:  poPart,
		StoreID: poStore,
		Qty:     1,
		UserID:  poUser,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReturnToVendor_MasDeLoDisponible_RetornaError(t *testing.T) {
	uc, _ := newPurchasingUC(t)

	_, err := uc.ReturnToVendor(context.Background(), purchasing.VendorReturnInput{
		PartID:  poPart,
		StoreID: poStore,
		Qty:     4,
		Reason:  "defectuoso",
		UserID:  poUser,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestCancelPurchaseOrder_SinRecepciones(t *testing.T) {
	uc, _ := newPurchasingUC(t)
	po := createOrder(t, uc, 10)

	cancelled, err := uc.CancelPurchaseOrder(context.Background(), po.ID, poUser)
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusCancelled, cancelled.Status)
}

func TestCancelPurchaseOrder_ConMercanciaRecibida_RetornaConflict(t *testing.T) {
	uc, _ := newPurchasingUC(t)
	po := createOrder(t, uc, 10)
	_, err := uc.ReceivePurchaseOrder(context.Background(), purchasing.ReceiveInput{
		POID:   po.ID,
		Items:  []purchasing.ReceiptItemInput{{PartID: poPart, Qty: 2}},
		UserID: poUser,
	})
	require.NoError(t, err)

	_, err = uc.CancelPurchaseOrder(context.Background(), po.ID, poUser)
	assert.ErrorIs(t, err, domain.ErrConflict,
		"con recepciones la orden ya no se cancela")
}
