package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/secopshq/shiftboard/pkg/handlers"
)

var r *gin.Engine

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	gin.SetMode(gin.ReleaseMode)

	zlog, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}

	h, err := handlers.Bootstrap(zlog)
	if err != nil {
		zlog.Fatal("startup failed", zap.Error(err))
	}

	r = gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	h.RegisterRoutes(r)
}

// Handler is the entry point for the serverless Go runtime.
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
