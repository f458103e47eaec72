package backfill

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Kardex-api/pkg/logger"
)

// RunOptions opciones de una corrida de backfill. Cero = usar el valor por defecto.
type RunOptions struct {
	WindowDays int
	PageSize   int
}

// ApplyDefaults completa las opciones no especificadas con los defaults dados
// (settings de la tienda o configuración global).
func (o *RunOptions) ApplyDefaults(windowDays, pageSize int) {
	if o.WindowDays <= 0 {
		o.WindowDays = windowDays
	}
	if o.PageSize <= 0 {
		o.PageSize = pageSize
	}
}

// RunResult totales de una corrida. Transitorio: se devuelve al caller y nunca
// se persiste.
type RunResult struct {
	Pages     int `json:"pages"`
	Attempted int `json:"attempted"`
	Inserted  int `json:"inserted"`
	Skipped   int `json:"skipped"`
}

func (r *RunResult) add(st WriteStats) {
	r.Pages++
	r.Attempted += st.Attempted
	r.Inserted += st.Inserted
	r.Skipped += st.Skipped
}

// UseCase orquesta el backfill histórico: extrae una página, la mapea, escribe
// sus eventos y recién entonces avanza el cursor. Estrictamente secuencial: el
// Admin API limita el rate por tienda, así que no hay prefetch ni solapamiento.
type UseCase struct {
	source  OrderSource
	refunds RefundSource
	writer  *EventWriter
	log     *logger.Logger
}

// NewUseCase construye el orquestador para una tienda ya autenticada.
func NewUseCase(source OrderSource, refunds RefundSource, writer *EventWriter, log *logger.Logger) *UseCase {
	return &UseCase{source: source, refunds: refunds, writer: writer, log: log}
}

// RunOrders recorre todos los pedidos cuya fecha de negocio cae dentro de la
// ventana y asienta sus ventas en el kardex. Página a página: la primera
// petición va sin cursor y cada siguiente lleva el endCursor devuelto; termina
// cuando el upstream responde hasNextPage=false.
//
// Un fallo de extracción o de escritura aborta la corrida de inmediato y el
// error se propaga sin traducir; las páginas ya escritas quedan confirmadas
// (la tubería no es transaccional entre páginas) y los totales parciales se
// descartan; re-ejecutar con la misma ventana es el mecanismo de recuperación.
func (uc *UseCase) RunOrders(ctx context.Context, tenantID string, opts RunOptions) (RunResult, error) {
	since := time.Now().UTC().AddDate(0, 0, -opts.WindowDays)
	runLog := uc.log.With().
		Str("run_id", uuid.New().String()).
		Str("tenant", tenantID).
		Time("since", since).
		Logger()
	runLog.Info().Int("page_size", opts.PageSize).Msg("backfill de pedidos iniciado")

	var result RunResult
	var after *string
	for {
		page, err := uc.source.FetchOrdersPage(ctx, PageQuery{
			ProcessedAtMin: since,
			PageSize:       opts.PageSize,
			After:          after,
		})
		if err != nil {
			runLog.Error().Err(err).Int("pages_ok", result.Pages).Msg("extracción de página falló, corrida abortada")
			return RunResult{}, err
		}

		events := MapOrdersToEvents(page.Orders, tenantID)
		stats, err := uc.writer.WriteBatch(ctx, events)
		if err != nil {
			runLog.Error().Err(err).
				Int("pages_ok", result.Pages).
				Int("attempted_in_page", stats.Attempted).
				Msg("escritura de eventos falló, corrida abortada")
			return RunResult{}, err
		}
		result.add(stats)

		runLog.Debug().
			Int("page", result.Pages).
			Int("orders", len(page.Orders)).
			Int("inserted", stats.Inserted).
			Int("skipped", stats.Skipped).
			Msg("página procesada")

		if !page.HasNextPage || page.EndCursor == nil {
			break
		}
		after = page.EndCursor
	}

	runLog.Info().
		Int("pages", result.Pages).
		Int("attempted", result.Attempted).
		Int("inserted", result.Inserted).
		Int("skipped", result.Skipped).
		Msg("backfill de pedidos completado")
	return result, nil
}

// FirstPage trae la primera página de pedidos de la ventana sin escribir nada.
// Sirve para previsualizar el alcance de una corrida antes de lanzarla.
func (uc *UseCase) FirstPage(ctx context.Context, opts RunOptions) (OrderPage, error) {
	since := time.Now().UTC().AddDate(0, 0, -opts.WindowDays)
	return uc.source.FetchOrdersPage(ctx, PageQuery{
		ProcessedAtMin: since,
		PageSize:       opts.PageSize,
	})
}

// RunReturns es el backfill de devoluciones: misma mecánica de cursor que
// RunOrders pero emitiendo asientos "return" (delta positivo).
func (uc *UseCase) RunReturns(ctx context.Context, tenantID string, opts RunOptions) (RunResult, error) {
	since := time.Now().UTC().AddDate(0, 0, -opts.WindowDays)
	runLog := uc.log.With().
		Str("run_id", uuid.New().String()).
		Str("tenant", tenantID).
		Time("since", since).
		Logger()
	runLog.Info().Int("page_size", opts.PageSize).Msg("backfill de devoluciones iniciado")

	var result RunResult
	var after *string
	for {
		page, err := uc.refunds.FetchRefundsPage(ctx, PageQuery{
			ProcessedAtMin: since,
			PageSize:       opts.PageSize,
			After:          after,
		})
		if err != nil {
			runLog.Error().Err(err).Int("pages_ok", result.Pages).Msg("extracción de página falló, corrida abortada")
			return RunResult{}, err
		}

		events := MapRefundsToEvents(page.Refunds, tenantID)
		stats, err := uc.writer.WriteBatch(ctx, events)
		if err != nil {
			runLog.Error().Err(err).
				Int("pages_ok", result.Pages).
				Int("attempted_in_page", stats.Attempted).
				Msg("escritura de eventos falló, corrida abortada")
			return RunResult{}, err
		}
		result.add(stats)

		if !page.HasNextPage || page.EndCursor == nil {
			break
		}
		after = page.EndCursor
	}

	runLog.Info().
		Int("pages", result.Pages).
		Int("attempted", result.Attempted).
		Int("inserted", result.Inserted).
		Int("skipped", result.Skipped).
		Msg("backfill de devoluciones completado")
	return result, nil
}
