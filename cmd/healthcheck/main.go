// healthcheck consulta GET /health del api y sale con 1 si no responde "ok".
// Pensado para el HEALTHCHECK del contenedor (la imagen no trae curl).
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"peluqueria-canina/internal/platform/httpclient"
	"peluqueria-canina/internal/platform/logger"
)

func main() {
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	base := flag.String("url", "http://127.0.0.1:"+port, "base url del api")
	timeout := flag.Duration("timeout", 3*time.Second, "timeout total")
	flag.Parse()

	log := logger.NewFromEnv()

	c, err := httpclient.New(*base, *timeout)
	if err != nil {
		log.Error("healthcheck: bad url", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var out struct {
		Status string `json:"status"`
		DB     string `json:"db"`
	}
	if err := c.GetJSON(ctx, "/health", &out); err != nil || out.Status != "ok" {
		log.Error("healthcheck: unhealthy", map[string]any{"error": err, "status": out.Status, "db": out.DB})
		os.Exit(1)
	}
}
