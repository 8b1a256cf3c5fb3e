package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mtreview/app/review/service"
)

type body struct {
	Code      int         `json:"code"`
	Data      interface{} `json:"data,omitempty"`
	Msg       string      `json:"msg"`
	RequestID string      `json:"requestId,omitempty"`
}

type pageBody struct {
	Code      int         `json:"code"`
	Data      interface{} `json:"data"`
	Count     int         `json:"count"`
	PageIndex int         `json:"pageIndex"`
	PageSize  int         `json:"pageSize"`
	Msg       string      `json:"msg"`
	RequestID string      `json:"requestId,omitempty"`
}

func requestID(c *gin.Context) string {
	return c.GetString("requestId")
}

func OK(c *gin.Context, data interface{}, msg string) {
	c.JSON(http.StatusOK, body{
		Code:      http.StatusOK,
		Data:      data,
		Msg:       msg,
		RequestID: requestID(c),
	})
}

func PageOK(c *gin.Context, data interface{}, count, pageIndex, pageSize int, msg string) {
	c.JSON(http.StatusOK, pageBody{
		Code:      http.StatusOK,
		Data:      data,
		Count:     count,
		PageIndex: pageIndex,
		PageSize:  pageSize,
		Msg:       msg,
		RequestID: requestID(c),
	})
}

// httpStatus maps the service error taxonomy onto wire codes. Anything
// outside the taxonomy, including ErrDatabase, reads as a 500.
func httpStatus(err error) int {
	switch service.KindOf(err) {
	case service.KindAccessDenied:
		return http.StatusForbidden
	case service.KindConflict:
		return http.StatusConflict
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func Error(c *gin.Context, err error) {
	status := httpStatus(err)
	msg := "internal server error"
	if err != nil && status != http.StatusInternalServerError {
		msg = err.Error()
	}
	c.JSON(status, body{
		Code:      status,
		Msg:       msg,
		RequestID: requestID(c),
	})
}
