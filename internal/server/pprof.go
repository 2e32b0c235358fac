package server

import (
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StartPprofServer serves the profiling endpoints on their own listener,
// away from the public router. Bind it to localhost or reach it over a
// tunnel; it has no auth of its own.
func StartPprofServer(addr string, logger *zap.Logger) {
	profRouter := gin.New()
	pprof.Register(profRouter)

	go func() {
		logger.Info("Profiling endpoints listening", zap.String("addr", addr))
		if err := profRouter.Run(addr); err != nil {
			logger.Fatal("Profiling server failed", zap.Error(err))
		}
	}()
}
