package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"walsets/internal/api"
	"walsets/internal/config"
	"walsets/internal/engine"
)

func main() {
	var (
		flagConfig  = flag.String("config", "", "run configuration `file` (YAML, required)")
		flagOut     = flag.String("o", "", "write artifacts to `dir` (overrides config output, default: out)")
		flagSQLite  = flag.String("sqlite", "", "also write artifacts to sqlite database `file`")
		flagServe   = flag.String("serve", "", "stay resident and serve the artifacts on `addr` (e.g. :8080)")
		flagTimeout = flag.Duration("timeout", 2*time.Minute, "network fetch timeout")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -config config.yaml [flags]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *flagConfig == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		log.Fatal(err)
	}

	outDir := cfg.Output
	if *flagOut != "" {
		outDir = *flagOut
	}
	if outDir == "" {
		outDir = "out"
	}

	run := func() (*engine.Result, error) {
		ctx, cancel := context.WithTimeout(context.Background(), *flagTimeout)
		defer cancel()

		res, err := engine.Run(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := engine.WriteArtifacts(outDir, res); err != nil {
			return nil, err
		}
		if *flagSQLite != "" {
			if err := engine.WriteSQLite(*flagSQLite, res); err != nil {
				return nil, err
			}
		}
		return res, nil
	}

	// Default: one-shot batch run, write artifacts, exit.
	if *flagServe == "" {
		if _, err := run(); err != nil {
			log.Fatal(err)
		}
		return
	}

	// Serve mode: the API is live immediately and answers 503 until the
	// pipeline finishes in the background.
	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = api.JSONSerializer{}
	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	h := api.NewHandler(nil)
	h.RegisterRoutes(e)

	go func() {
		log.Println("BACKGROUND: pipeline starting...")
		res, err := run()
		if err != nil {
			log.Fatal(err)
		}
		h.SetData(res)
		log.Println("BACKGROUND: pipeline complete, API fully ready")
	}()

	log.Printf("Serving artifacts on %s (data loading in background...)", *flagServe)
	e.Logger.Fatal(e.Start(*flagServe))
}
