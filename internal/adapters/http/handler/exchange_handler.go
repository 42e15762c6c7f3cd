package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/onetenth/thanks-point/internal/core/exchange"
)

// ExchangeHandler は CSV のエクスポートとインポートのエンドポイントを提供します。
type ExchangeHandler struct {
	exchange exchange.UseCase
}

// NewExchangeHandler は ExchangeHandler を生成します。
func NewExchangeHandler(uc exchange.UseCase) *ExchangeHandler {
	return &ExchangeHandler{exchange: uc}
}

// Export は GET /api/export を処理し、全履歴を CSV ファイルとして返します。
func (h *ExchangeHandler) Export(c *gin.Context) {
	result, err := h.exchange.Export(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", result.Content)
}

// Import は POST /api/import を処理します。multipart の file フィールド、
// もしくはリクエストボディそのものを CSV として受け付けます。
func (h *ExchangeHandler) Import(c *gin.Context) {
	reader, closeFn, err := importReader(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer closeFn()

	summary, err := h.exchange.Import(c.Request.Context(), reader)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func importReader(c *gin.Context) (io.Reader, func(), error) {
	file, err := c.FormFile("file")
	if err != nil {
		// multipart でない場合はボディを直接読む。
		return c.Request.Body, func() {}, nil
	}

	f, err := file.Open()
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}
