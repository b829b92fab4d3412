package alerts_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/TallerPos-api/internal/application/alerts"
	"github.com/jhoicas/TallerPos-api/internal/application/apptest"
	"github.com/jhoicas/TallerPos-api/internal/domain/entity"
)

func lowStockFixture(threshold int) (*apptest.World, *entity.Part) {
	w := apptest.NewWorld()
	part := w.SeedPart("part-lcd", "LCD-IP13", threshold)
	return w, part
}

func record(qty int) *entity.StockRecord {
	return &entity.StockRecord{PartID: "part-lcd", StoreID: "store-a", Quantity: qty}
}

func TestCheckLowStock_BajoUmbral_CreaAlerta(t *testing.T) {
	w, part := lowStockFixture(5)

	require.NoError(t, alerts.CheckLowStock(context.Background(), w.Notifications, part, record(4)))

	unread := w.Notifications.Unread("store-a", "part-lcd")
	require.Len(t, unread, 1)
	assert.Equal(t, entity.NotificationTypeLowStock, unread[0].Type)
	assert.Contains(t, unread[0].Message, "LCD-IP13")
	assert.Contains(t, unread[0].Message, "quedan 4")
}

func TestCheckLowStock_EnElUmbralExacto_TambienAlerta(t *testing.T) {
	w, part := lowStockFixture(5)

	require.NoError(t, alerts.CheckLowStock(context.Background(), w.Notifications, part, record(5)))
	assert.Len(t, w.Notifications.Unread("store-a", "part-lcd"), 1,
		"la condición es Quantity <= umbral, inclusive")
}

func TestCheckLowStock_AlertaYaPendiente_NoDuplica(t *testing.T) {
	w, part := lowStockFixture(5)

	require.NoError(t, alerts.CheckLowStock(context.Background(), w.Notifications, part, record(4)))
	require.NoError(t, alerts.CheckLowStock(context.Background(), w.Notifications, part, record(3)))
	require.NoError(t, alerts.CheckLowStock(context.Background(), w.Notifications, part, record(1)))

	assert.Len(t, w.Notifications.Unread("store-a", "part-lcd"), 1,
		"a lo sumo una alerta sin leer por (sucursal, repuesto)")
}

func TestCheckLowStock_SobreUmbral_LimpiaPendientes(t *testing.T) {
	w, part := lowStockFixture(5)

	require.NoError(t, alerts.CheckLowStock(context.Background(), w.Notifications, part, record(2)))
	require.Len(t, w.Notifications.Unread("store-a", "part-lcd"), 1)

	require.NoError(t, alerts.CheckLowStock(context.Background(), w.Notifications, part, record(8)))
	assert.Empty(t, w.Notifications.Unread("store-a", "part-lcd"),
		"recuperar stock marca la alerta como leída")
}

func TestCheckLowStock_ReincidenciaTrasLimpieza_NuevaAlerta(t *testing.T) {
	w, part := lowStockFixture(5)

	require.NoError(t, alerts.CheckLowStock(context.Background(), w.Notifications, part, record(2)))
	require.NoError(t, alerts.CheckLowStock(context.Background(), w.Notifications, part, record(8)))
	require.NoError(t, alerts.CheckLowStock(context.Background(), w.Notifications, part, record(1)))

	assert.Len(t, w.Notifications.Unread("store-a", "part-lcd"), 1,
		"tras la auto-limpieza una nueva caída genera alerta nueva")
	assert.Len(t, w.Notifications.Items, 2, "la alerta leída queda en el historial")
}

func TestCheckLowStock_SinUmbralPropio_UsaElDefault(t *testing.T) {
	w, part := lowStockFixture(0) // 0 = usar DefaultReorderThreshold

	require.NoError(t, alerts.CheckLowStock(context.Background(), w.Notifications, part, record(entity.DefaultReorderThreshold)))
	assert.Len(t, w.Notifications.Unread("store-a", "part-lcd"), 1)
}
