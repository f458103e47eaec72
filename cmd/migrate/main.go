package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/jhoicas/Kardex-api/pkg/config"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

// Migraciones de esquema con goose. Comandos: up, down, status.
func main() {
	cmd := flag.String("cmd", "up", "comando: up|down|status")
	dir := flag.String("dir", "migrations", "directorio de migraciones")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: "migrate",
	})

	db, err := sql.Open("pgx", cfg.DB.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("abrir conexión")
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal().Err(err).Msg("dialecto de goose")
	}

	ctx := context.Background()
	switch *cmd {
	case "up":
		err = goose.UpContext(ctx, db, *dir)
	case "down":
		err = goose.DownContext(ctx, db, *dir)
	case "status":
		err = goose.StatusContext(ctx, db, *dir)
	default:
		fmt.Fprintf(os.Stderr, "comando desconocido: %s\n", *cmd)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("cmd", *cmd).Msg("migración falló")
	}

	log.Info().Str("cmd", *cmd).Msg("migración completada")
}
