package catalog

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// doer executes a single HTTP exchange. *http.Client.Do satisfies the
// base of the chain.
type doer func(*http.Request) (*http.Response, error)

// middleware wraps a doer with request augmentation or response
// inspection. Middlewares compose; the first listed runs outermost.
type middleware func(doer) doer

func chain(base doer, mws ...middleware) doer {
	wrapped := base
	for i := len(mws) - 1; i >= 0; i-- {
		wrapped = mws[i](wrapped)
	}
	return wrapped
}

// withHeaders sets the headers every request carries.
func withHeaders(userAgent string) middleware {
	return func(next doer) doer {
		return func(req *http.Request) (*http.Response, error) {
			req.Header.Set("Accept", "application/json")
			req.Header.Set("User-Agent", userAgent)
			if req.Body != nil {
				req.Header.Set("Content-Type", "application/json")
			}
			return next(req)
		}
	}
}

// withBearer attaches the Authorization header. The token source is
// consulted at send time, never cached, so a logout takes effect on the
// next outgoing request. An empty token means the header is omitted and
// the request goes out unauthenticated.
func withBearer(token func() string) middleware {
	return func(next doer) doer {
		return func(req *http.Request) (*http.Response, error) {
			if token != nil {
				if t := strings.TrimSpace(token()); t != "" {
					req.Header.Set("Authorization", "Bearer "+t)
				}
			}
			return next(req)
		}
	}
}

// withLogging records request outcomes at debug level.
func withLogging(log *zap.Logger) middleware {
	return func(next doer) doer {
		return func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next(req)
			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Duration("elapsed", time.Since(start)),
			}
			if err != nil {
				log.Debug("request failed", append(fields, zap.Error(err))...)
				return resp, err
			}
			log.Debug("request", append(fields, zap.Int("status", resp.StatusCode))...)
			return resp, err
		}
	}
}

// sessionGuard inspects responses for 401. Outside the auth endpoints a
// 401 means the stored credential is no longer accepted anywhere, so the
// callback fires regardless of which endpoint produced it. The auth
// endpoints are exempt: a 401 there is a bad-credentials answer for the
// submitting form, not an expired session.
func sessionGuard(onExpired func()) middleware {
	return func(next doer) doer {
		return func(req *http.Request) (*http.Response, error) {
			resp, err := next(req)
			if err != nil || resp == nil {
				return resp, err
			}
			if resp.StatusCode == http.StatusUnauthorized && !isAuthPath(req.URL.Path) {
				if onExpired != nil {
					onExpired()
				}
			}
			return resp, nil
		}
	}
}

// isAuthPath matches by suffix so a path prefix on the base URL does
// not defeat the exemption.
func isAuthPath(path string) bool {
	return strings.HasSuffix(path, "/auth/login") || strings.HasSuffix(path, "/auth/register")
}
