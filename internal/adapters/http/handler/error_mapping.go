package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/onetenth/thanks-point/internal/core/auth"
	"github.com/onetenth/thanks-point/internal/core/employee"
	"github.com/onetenth/thanks-point/internal/core/exchange"
	"github.com/onetenth/thanks-point/internal/core/thanks"
)

// errInvalidQuery はクエリパラメータが解釈できない場合に返されます。
var errInvalidQuery = errors.New("handler: invalid query parameter")

// respondError はドメインエラーを HTTP ステータスへ変換して JSON で返します。
func respondError(c *gin.Context, err error) {
	c.JSON(statusFromError(err), gin.H{"error": err.Error()})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrNotAdmin):
		return http.StatusForbidden
	case errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, thanks.ErrThanksNotFound):
		return http.StatusNotFound
	case errors.Is(err, employee.ErrEmailAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, employee.ErrInvalidID),
		errors.Is(err, employee.ErrInvalidName),
		errors.Is(err, employee.ErrInvalidEmail),
		errors.Is(err, employee.ErrInvalidPassword),
		errors.Is(err, auth.ErrInvalidID),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, auth.ErrPasswordMismatch),
		errors.Is(err, thanks.ErrInvalidSender),
		errors.Is(err, thanks.ErrInvalidRecipient),
		errors.Is(err, thanks.ErrInvalidPeriod),
		errors.Is(err, thanks.ErrInvalidDateRange),
		errors.Is(err, thanks.ErrInvalidMonthKey),
		errors.Is(err, thanks.ErrInvalidDirection),
		errors.Is(err, exchange.ErrNoData),
		errors.Is(err, errInvalidQuery):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
