package httpapi

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/diillson/maternity-reports-go/internal/shared/types"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const requestIDKey = "request_id"

// requestID propaga X-Request-ID ou gera um novo.
func requestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = uuid.NewString()
			}
			c.Set(requestIDKey, rid)
			c.Response().Header().Set(echo.HeaderXRequestID, rid)
			return next(c)
		}
	}
}

func requestLogger(log logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			rid, _ := c.Get(requestIDKey).(string)

			err := next(c)

			entry := log.WithFields(logrus.Fields{
				"requestId": rid,
				"method":    req.Method,
				"path":      req.URL.Path,
				"status":    c.Response().Status,
				"latency":   time.Since(start).String(),
				"remoteIp":  c.RealIP(),
			})
			if err != nil {
				entry.WithError(err).Error("request")
			} else {
				entry.Info("request")
			}
			return err
		}
	}
}

func recovery(log logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					var stack [4096]byte
					n := runtime.Stack(stack[:], false)

					log.WithFields(logrus.Fields{
						"requestId": fmt.Sprintf("%v", c.Get(requestIDKey)),
						"panic":     fmt.Sprintf("%v", r),
						"stack":     string(stack[:n]),
					}).Error("panic recovered")

					err = echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
				}
			}()
			return next(c)
		}
	}
}

// requireSecret aceita "Authorization: Bearer <secret>" ou "X-Cron-Secret".
// Sem segredo configurado, toda chamada é recusada.
func requireSecret(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if secret == "" || !secretMatches(c.Request(), secret) {
				return c.JSON(http.StatusUnauthorized, errorResponse{
					Error: types.ErrUnauthorized.Error(),
					Kind:  types.KindOf(types.ErrUnauthorized),
				})
			}
			return next(c)
		}
	}
}

// optionalSecret só exige o segredo quando ele está configurado.
func optionalSecret(secret string) echo.MiddlewareFunc {
	if secret == "" {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return requireSecret(secret)
}

func secretMatches(req *http.Request, secret string) bool {
	given := req.Header.Get("X-Cron-Secret")
	if auth := req.Header.Get(echo.HeaderAuthorization); given == "" && auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			given = strings.TrimSpace(token)
		}
	}
	if given == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(given), []byte(secret)) == 1
}
