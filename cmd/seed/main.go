package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/cri-turni/backend/internal/config"
	"github.com/cri-turni/backend/internal/repository"
	"github.com/cri-turni/backend/internal/seed"
	"github.com/cri-turni/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int

	flag.IntVar(&op, "op", 0, "operazione da eseguire (1: inserisci volontari casuali, 2: inserisci turni casuali, 3: inserisci il piano demo dell'evento)")
	flag.IntVar(&n, "n", 5, "numero di record da inserire")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Lettura della configurazione
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("impossibile caricare la configurazione", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Creazione del pool di connessioni al database
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("impossibile creare il pool di connessioni al database", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open crea solo il pool senza aprire connessioni: il ping esplicito
	// verifica che il database sia davvero raggiungibile.
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("impossibile connettersi al database", "error", err)
		return
	}

	// Creazione del repository
	repo := repository.NewRepository(cfg, dbpool)

	// Esecuzione dell'operazione richiesta
	switch op {
	case 0:
		slog.Error("nessuna operazione specificata")
	case 1:
		if n <= 0 {
			slog.Error("indica un numero di volontari valido")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				profile := utils.GenerateRandomProfile()
				if err := repo.CreateProfile(profile); err != nil {
					slog.Error("impossibile inserire il profilo", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("profili inseriti", slog.Int("count", n-cnt))
		}
	case 2:
		if n <= 0 {
			slog.Error("indica un numero di turni valido")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				shift := utils.GenerateRandomShift(cfg.Event.Dates)
				if err := repo.CreateShift(shift); err != nil {
					slog.Error("impossibile inserire il turno", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("turni inseriti", slog.Int("count", n-cnt))
		}
	case 3:
		seed.SeedDemoSchedule(repo, cfg)
	default:
		slog.Error("operazione non riconosciuta")
	}
}
