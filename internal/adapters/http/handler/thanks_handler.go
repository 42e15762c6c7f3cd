package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/onetenth/thanks-point/internal/core/thanks"
)

// ThanksHandler はサンキューの登録と各種集計のエンドポイントを提供します。
type ThanksHandler struct {
	thanks thanks.UseCase
}

// NewThanksHandler は ThanksHandler を生成します。
func NewThanksHandler(uc thanks.UseCase) *ThanksHandler {
	return &ThanksHandler{thanks: uc}
}

type sendThanksRequest struct {
	FromEmployeeID string `json:"fromEmployeeId"`
	ToEmployeeID   string `json:"toEmployeeId"`
	Message        string `json:"message"`
}

type thanksResponse struct {
	ID             string `json:"id"`
	FromEmployeeID string `json:"fromEmployeeId"`
	ToEmployeeID   string `json:"toEmployeeId"`
	Message        string `json:"message"`
	Date           string `json:"date"`
}

// Send は POST /api/thanks を処理します。
func (h *ThanksHandler) Send(c *gin.Context) {
	var req sendThanksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.thanks.SendThanks(c.Request.Context(), thanks.SendThanksInput{
		FromEmployeeID: req.FromEmployeeID,
		ToEmployeeID:   req.ToEmployeeID,
		Message:        req.Message,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, thanksResponse{
		ID:             created.ID,
		FromEmployeeID: created.FromEmployeeID,
		ToEmployeeID:   created.ToEmployeeID,
		Message:        created.Message,
		Date:           created.Date(),
	})
}

// History は GET /api/thanks/history を処理します。
func (h *ThanksHandler) History(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	entries, err := h.thanks.History(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

type rankingDetail struct {
	CounterpartID   string `json:"counterpartId"`
	CounterpartName string `json:"counterpartName"`
	Date            string `json:"date"`
	Message         string `json:"message"`
}

type rankingEntry struct {
	EmployeeID string          `json:"employeeId"`
	Name       string          `json:"name"`
	Department string          `json:"department"`
	Points     int             `json:"points"`
	Details    []rankingDetail `json:"details"`
}

// Rankings は GET /api/thanks/rankings を処理します。
func (h *ThanksHandler) Rankings(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	direction, err := thanks.ParseDirection(c.Query("direction"))
	if err != nil {
		respondError(c, err)
		return
	}

	ranked, err := h.thanks.Ranking(c.Request.Context(), filter, direction)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]rankingEntry, 0, len(ranked))
	for _, r := range ranked {
		details := make([]rankingDetail, 0, len(r.Details))
		for _, d := range r.Details {
			details = append(details, rankingDetail{
				CounterpartID:   d.CounterpartID,
				CounterpartName: d.CounterpartName,
				Date:            d.Date,
				Message:         d.Message,
			})
		}
		response = append(response, rankingEntry{
			EmployeeID: r.Employee.ID,
			Name:       r.Employee.Name,
			Department: r.Employee.Department,
			Points:     r.Points,
			Details:    details,
		})
	}

	c.JSON(http.StatusOK, response)
}

// MonthlyChart は GET /api/thanks/chart/monthly を処理します。
func (h *ThanksHandler) MonthlyChart(c *gin.Context) {
	withComment, err := boolQuery(c, "withCommentOnly")
	if err != nil {
		respondError(c, errInvalidQuery)
		return
	}

	entries, err := h.thanks.MonthlyChart(c.Request.Context(), c.Query("month"), withComment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// PeriodChart は GET /api/thanks/chart/period を処理します。
func (h *ThanksHandler) PeriodChart(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	entries, err := h.thanks.PeriodChart(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// Received は GET /api/thanks/received/:employeeID を処理します。
// 開示時刻前の月は応答に含まれません。
func (h *ThanksHandler) Received(c *gin.Context) {
	groups, err := h.thanks.ReceivedThanks(c.Request.Context(), c.Param("employeeID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, groups)
}

// Sent は GET /api/thanks/sent/:employeeID を処理します。
func (h *ThanksHandler) Sent(c *gin.Context) {
	entries, err := h.thanks.SentThanks(c.Request.Context(), c.Param("employeeID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// Summary は GET /api/thanks/summary を処理します。
func (h *ThanksHandler) Summary(c *gin.Context) {
	result, err := h.thanks.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func filterFromQuery(c *gin.Context) (thanks.Filter, error) {
	period, err := thanks.ParsePeriod(c.Query("period"))
	if err != nil {
		return thanks.Filter{}, err
	}

	withComment, err := boolQuery(c, "withCommentOnly")
	if err != nil {
		return thanks.Filter{}, errInvalidQuery
	}

	filter := thanks.Filter{
		Period:          period,
		StartDate:       c.Query("startDate"),
		EndDate:         c.Query("endDate"),
		WithCommentOnly: withComment,
	}
	if err := filter.Validate(); err != nil {
		return thanks.Filter{}, err
	}
	return filter, nil
}

func boolQuery(c *gin.Context, key string) (bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}
