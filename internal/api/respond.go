package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"weekmenu/internal/apperr"
)

// respondError maps a domain error to its HTTP shape. Unknown errors are
// logged and reported as internal.
func (s *Server) respondError(c *gin.Context, err error) {
	var e *apperr.Error
	if !errors.As(err, &e) {
		e = apperr.Internal(err, "unexpected error")
	}
	if e.Code == apperr.CodeInternal {
		s.logger.Error("internal error",
			zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	c.JSON(e.HTTPStatus(), gin.H{
		"error": gin.H{"code": e.Code, "message": e.Message},
	})
}

func (s *Server) abortError(c *gin.Context, err error) {
	s.respondError(c, err)
	c.Abort()
}
