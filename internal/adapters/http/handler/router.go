package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers はルーティングに必要なハンドラ一式です。
type Handlers struct {
	Auth     *AuthHandler
	Employee *EmployeeHandler
	Thanks   *ThanksHandler
	Exchange *ExchangeHandler
}

// NewRouter は全エンドポイントを登録した gin.Engine を生成します。
func NewRouter(logger *zap.Logger, h Handlers) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(logger))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	{
		api.POST("/login", h.Auth.Login)
		api.POST("/password", h.Auth.ChangePassword)

		api.GET("/employees", h.Employee.List)
		api.POST("/employees", h.Employee.Create)
		api.DELETE("/employees/:id", h.Employee.Delete)

		api.POST("/thanks", h.Thanks.Send)
		api.GET("/thanks/history", h.Thanks.History)
		api.GET("/thanks/rankings", h.Thanks.Rankings)
		api.GET("/thanks/chart/monthly", h.Thanks.MonthlyChart)
		api.GET("/thanks/chart/period", h.Thanks.PeriodChart)
		api.GET("/thanks/received/:employeeID", h.Thanks.Received)
		api.GET("/thanks/sent/:employeeID", h.Thanks.Sent)
		api.GET("/thanks/summary", h.Thanks.Summary)

		api.GET("/export", h.Exchange.Export)
		api.POST("/import", h.Exchange.Import)
	}

	return engine
}

// requestLogger はリクエストごとにメソッド、パス、ステータス、所要時間を
// 構造化ログへ出力します。
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
