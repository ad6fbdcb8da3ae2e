package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/webapi/proxyutil"
)

// apiError carries the stable numeric code that proxyutil puts in the
// response envelope. HTTP status stays 200 so browser clients always get
// the body.
type apiError struct {
	code    uint32
	message string
}

func (e *apiError) Error() string { return e.message }
func (e *apiError) Code() uint32  { return e.code }

func Success(c *gin.Context, data interface{}) {
	proxyutil.SuccessJson(c, data)
}

func Error(c *gin.Context, code int, message string) {
	proxyutil.FailJson(c, http.StatusOK, &apiError{code: uint32(code), message: message})
}
