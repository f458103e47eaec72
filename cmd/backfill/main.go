package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/Kardex-api/internal/application/backfill"
	"github.com/jhoicas/Kardex-api/internal/application/shops"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/shopify"
	"github.com/jhoicas/Kardex-api/pkg/config"
	"github.com/jhoicas/Kardex-api/pkg/logger"
	"github.com/jhoicas/Kardex-api/pkg/security"
)

// Corrida única de backfill desde la línea de comandos, sin pasar por HTTP.
// Útil para operar tiendas grandes desde un runbook.
func main() {
	var (
		shopDomain = flag.String("shop", "", "dominio *.myshopify.com de la tienda registrada")
		days       = flag.Int("days", 0, "ventana en días (0 = settings de la tienda)")
		pages      = flag.Int("pages", 0, "tamaño de página (0 = settings de la tienda)")
		returns    = flag.Bool("returns", false, "procesar devoluciones en lugar de pedidos")
		timeout    = flag.Duration("timeout", 30*time.Minute, "tiempo máximo de la corrida")
	)
	flag.Parse()

	if *shopDomain == "" {
		fmt.Fprintln(os.Stderr, "uso: backfill -shop <dominio> [-days N] [-pages N] [-returns]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	encKey, err := security.LoadKey(cfg.Shopify.TokenEncKey)
	if err != nil {
		log.Fatal().Err(err).Msg("clave de cifrado de tokens")
	}

	shopsUC := shops.NewUseCase(postgres.NewShopRepository(pool), encKey, cfg.Backfill.WindowDays, cfg.Backfill.PageSize)
	shop, token, err := shopsUC.Credentials(ctx, *shopDomain)
	if err != nil {
		log.Fatal().Err(err).Str("shop", *shopDomain).Msg("tienda no disponible")
	}

	client := shopify.NewClient(shop.Domain, cfg.Shopify.APIVersion, token)
	writer := backfill.NewEventWriter(postgres.NewInventoryEventRepository(pool))
	uc := backfill.NewUseCase(shopify.NewOrdersSource(client), shopify.NewRefundsSource(client), writer, log)

	opts := backfill.RunOptions{WindowDays: *days, PageSize: *pages}
	opts.ApplyDefaults(shop.WindowDays, shop.PageSize)

	var result backfill.RunResult
	if *returns {
		result, err = uc.RunReturns(ctx, shop.TenantID(), opts)
	} else {
		result, err = uc.RunOrders(ctx, shop.TenantID(), opts)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("corrida abortada")
	}

	out, _ := json.Marshal(result)
	fmt.Println(string(out))
}
