package backfill

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "test", Level: "error", Service: "backfill-test"})
}

// scriptedOrderSource devuelve páginas pre-armadas en orden y verifica que el
// orquestador transporte el cursor tal como lo devolvió la página anterior.
type scriptedOrderSource struct {
	t     *testing.T
	pages []OrderPage
	calls int

	wantPageSize int
	failOnCall   int // 1-based; 0 = nunca falla
}

func (s *scriptedOrderSource) FetchOrdersPage(_ context.Context, q PageQuery) (OrderPage, error) {
	s.calls++
	if s.failOnCall > 0 && s.calls == s.failOnCall {
		return OrderPage{}, errors.New("upstream 502")
	}
	require.LessOrEqual(s.t, s.calls, len(s.pages), "más peticiones de las esperadas")

	if s.wantPageSize > 0 {
		assert.Equal(s.t, s.wantPageSize, q.PageSize)
	}
	if s.calls == 1 {
		assert.Nil(s.t, q.After, "la primera página va sin cursor")
	} else {
		prev := s.pages[s.calls-2].EndCursor
		require.NotNil(s.t, q.After)
		assert.Equal(s.t, *prev, *q.After, "el cursor debe ser el endCursor de la página anterior")
	}
	return s.pages[s.calls-1], nil
}

type scriptedRefundSource struct {
	pages []RefundPage
	calls int
}

func (s *scriptedRefundSource) FetchRefundsPage(_ context.Context, _ PageQuery) (RefundPage, error) {
	s.calls++
	return s.pages[s.calls-1], nil
}

func orderWith(orderID string, lineItems ...entity.OrderLineItem) entity.OrderRecord {
	ts := time.Date(2024, 4, 10, 9, 0, 0, 0, time.UTC)
	return entity.OrderRecord{ID: orderID, ProcessedAt: &ts, LineItems: lineItems}
}

func cursor(s string) *string { return &s }

// ──────────────────────────────────────────────────────────────────────────────
// Tests RunOrders
// ──────────────────────────────────────────────────────────────────────────────

// Tres páginas encadenadas por cursor: los totales agregan todas las páginas y
// el upstream se consulta exactamente tres veces.
func TestRunOrders_RecorreTodasLasPaginas(t *testing.T) {
	source := &scriptedOrderSource{
		t:            t,
		wantPageSize: 100,
		pages: []OrderPage{
			{
				Orders:      []entity.OrderRecord{orderWith("O1", entity.OrderLineItem{ID: "L1", Quantity: 2, VariantID: "V1"})},
				HasNextPage: true,
				EndCursor:   cursor("c1"),
			},
			{
				Orders: []entity.OrderRecord{orderWith("O2",
					entity.OrderLineItem{ID: "L1", Quantity: 1, VariantID: "V1"},
					entity.OrderLineItem{ID: "L2", Quantity: 0, VariantID: "V2"},
				)},
				HasNextPage: true,
				EndCursor:   cursor("c2"),
			},
			{
				Orders:      []entity.OrderRecord{orderWith("O3", entity.OrderLineItem{ID: "L1", Quantity: 4, VariantID: "V3"})},
				HasNextPage: false,
				EndCursor:   nil,
			},
		},
	}
	store := newFakeEventStore()
	uc := NewUseCase(source, nil, NewEventWriter(store), testLogger())

	result, err := uc.RunOrders(context.Background(), testShopID, RunOptions{WindowDays: 90, PageSize: 100})

	require.NoError(t, err)
	assert.Equal(t, 3, source.calls)
	assert.Equal(t, RunResult{Pages: 3, Attempted: 3, Inserted: 3, Skipped: 0}, result,
		"la línea en cero se descarta antes de contar, no es un Skipped")
}

// Página única sin resultados: una corrida vacía es válida y termina en una página.
func TestRunOrders_VentanaVacia(t *testing.T) {
	source := &scriptedOrderSource{
		t:     t,
		pages: []OrderPage{{Orders: nil, HasNextPage: false}},
	}
	uc := NewUseCase(source, nil, NewEventWriter(newFakeEventStore()), testLogger())

	result, err := uc.RunOrders(context.Background(), testShopID, RunOptions{WindowDays: 30, PageSize: 50})

	require.NoError(t, err)
	assert.Equal(t, RunResult{Pages: 1}, result)
}

// Re-ejecutar la misma ventana sobre el mismo store: todo intentado, nada
// insertado. La idempotencia vive en la clave de origen, no en estado de corrida.
func TestRunOrders_ReejecucionEsIdempotente(t *testing.T) {
	pages := []OrderPage{
		{
			Orders:      []entity.OrderRecord{orderWith("O1", entity.OrderLineItem{ID: "L1", Quantity: 2, VariantID: "V1"})},
			HasNextPage: true,
			EndCursor:   cursor("c1"),
		},
		{
			Orders:      []entity.OrderRecord{orderWith("O2", entity.OrderLineItem{ID: "L1", Quantity: 5, VariantID: "V2"})},
			HasNextPage: false,
		},
	}
	store := newFakeEventStore()
	writer := NewEventWriter(store)

	first, err := NewUseCase(&scriptedOrderSource{t: t, pages: pages}, nil, writer, testLogger()).
		RunOrders(context.Background(), testShopID, RunOptions{WindowDays: 90, PageSize: 100})
	require.NoError(t, err)
	assert.Equal(t, RunResult{Pages: 2, Attempted: 2, Inserted: 2}, first)

	second, err := NewUseCase(&scriptedOrderSource{t: t, pages: pages}, nil, writer, testLogger()).
		RunOrders(context.Background(), testShopID, RunOptions{WindowDays: 90, PageSize: 100})
	require.NoError(t, err)
	assert.Equal(t, RunResult{Pages: 2, Attempted: 2, Inserted: 0, Skipped: 2}, second)
	assert.Len(t, store.inserts, 2)
}

// Fallo de extracción en la segunda página: la corrida aborta, el error se
// propaga crudo y los totales parciales se descartan.
func TestRunOrders_ErrorDeExtraccionAborta(t *testing.T) {
	source := &scriptedOrderSource{
		t:          t,
		failOnCall: 2,
		pages: []OrderPage{
			{
				Orders:      []entity.OrderRecord{orderWith("O1", entity.OrderLineItem{ID: "L1", Quantity: 1, VariantID: "V1"})},
				HasNextPage: true,
				EndCursor:   cursor("c1"),
			},
			{}, // nunca se entrega
		},
	}
	store := newFakeEventStore()
	uc := NewUseCase(source, nil, NewEventWriter(store), testLogger())

	result, err := uc.RunOrders(context.Background(), testShopID, RunOptions{WindowDays: 90, PageSize: 100})

	require.Error(t, err)
	assert.Equal(t, RunResult{}, result, "en fallo no se reportan totales parciales")
	assert.Len(t, store.inserts, 1, "lo ya escrito queda confirmado")
}

// Fallo de escritura: misma política de aborto que el fallo de extracción.
func TestRunOrders_ErrorDeEscrituraAborta(t *testing.T) {
	source := &scriptedOrderSource{
		t: t,
		pages: []OrderPage{
			{
				Orders: []entity.OrderRecord{orderWith("O1",
					entity.OrderLineItem{ID: "L1", Quantity: 1, VariantID: "V1"},
					entity.OrderLineItem{ID: "L2", Quantity: 2, VariantID: "V2"},
				)},
				HasNextPage: false,
			},
		},
	}
	store := newFakeEventStore()
	store.failAfter = 1
	uc := NewUseCase(source, nil, NewEventWriter(store), testLogger())

	result, err := uc.RunOrders(context.Background(), testShopID, RunOptions{WindowDays: 90, PageSize: 100})

	require.Error(t, err)
	assert.Equal(t, RunResult{}, result)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RunReturns y FirstPage
// ──────────────────────────────────────────────────────────────────────────────

func TestRunReturns_EmiteDevoluciones(t *testing.T) {
	created := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	refunds := &scriptedRefundSource{
		pages: []RefundPage{
			{
				Refunds: []entity.RefundRecord{{
					ID:        "R1",
					OrderID:   "O1",
					CreatedAt: &created,
					LineItems: []entity.RefundLineItem{{LineItemID: "L1", Quantity: 1, VariantID: "V1"}},
				}},
				HasNextPage: false,
			},
		},
	}
	store := newFakeEventStore()
	uc := NewUseCase(nil, refunds, NewEventWriter(store), testLogger())

	result, err := uc.RunReturns(context.Background(), testShopID, RunOptions{WindowDays: 90, PageSize: 100})

	require.NoError(t, err)
	assert.Equal(t, RunResult{Pages: 1, Attempted: 1, Inserted: 1}, result)
	require.Len(t, store.inserts, 1)
	assert.Equal(t, entity.EventTypeReturn, store.inserts[0].EventType)
	assert.Equal(t, 1, store.inserts[0].QuantityDelta)
}

func TestFirstPage_NoEscribeNada(t *testing.T) {
	source := &scriptedOrderSource{
		t: t,
		pages: []OrderPage{
			{
				Orders:      []entity.OrderRecord{orderWith("O1", entity.OrderLineItem{ID: "L1", Quantity: 1, VariantID: "V1"})},
				HasNextPage: true,
				EndCursor:   cursor("c1"),
			},
		},
	}
	store := newFakeEventStore()
	uc := NewUseCase(source, nil, NewEventWriter(store), testLogger())

	page, err := uc.FirstPage(context.Background(), RunOptions{WindowDays: 7, PageSize: 10})

	require.NoError(t, err)
	assert.Len(t, page.Orders, 1)
	assert.True(t, page.HasNextPage)
	assert.Empty(t, store.inserts, "el preview es de solo lectura")
}

// ApplyDefaults completa solo los campos en cero.
func TestRunOptions_ApplyDefaults(t *testing.T) {
	opts := RunOptions{}
	opts.ApplyDefaults(90, 100)
	assert.Equal(t, RunOptions{WindowDays: 90, PageSize: 100}, opts)

	opts = RunOptions{WindowDays: 7}
	opts.ApplyDefaults(90, 100)
	assert.Equal(t, RunOptions{WindowDays: 7, PageSize: 100}, opts)

	opts = RunOptions{WindowDays: -1, PageSize: 250}
	opts.ApplyDefaults(90, 100)
	assert.Equal(t, RunOptions{WindowDays: 90, PageSize: 250}, opts)
}
