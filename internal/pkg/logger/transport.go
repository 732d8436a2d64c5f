package logger

import (
	"bytes"
	"io"
	log "log/slog"
	"net/http"
	"time"
)

const bodyLogLimit = 1000

// HTTPTransport 记录外部接口调用 (请求、状态码、耗时、截断后的响应体)
type HTTPTransport struct {
	Name      string
	Transport http.RoundTripper
}

func NewHTTPTransport(name string) *HTTPTransport {
	return &HTTPTransport{Name: name, Transport: http.DefaultTransport}
}

func (t *HTTPTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := t.Transport.RoundTrip(req)
	elapsed := time.Since(start)

	// api key 走请求头，这里只记录 url
	fields := []any{
		log.String("client", t.Name),
		log.String("method", req.Method),
		log.String("url", req.URL.String()),
		log.Duration("latency", elapsed),
	}

	if err != nil {
		log.ErrorContext(req.Context(), "HTTP_CALL_ERROR", append(fields, log.Any("err", err))...)
		return nil, err
	}

	fields = append(fields, log.Int("status", resp.StatusCode))

	if resp.StatusCode >= http.StatusBadRequest && resp.Body != nil {
		resBody, _ := io.ReadAll(resp.Body)
		resp.Body = io.NopCloser(bytes.NewBuffer(resBody))

		resStr := string(resBody)
		if len(resStr) > bodyLogLimit {
			resStr = resStr[:bodyLogLimit] + "...[truncated]"
		}
		log.WarnContext(req.Context(), "HTTP_CALL_FAILED", append(fields, log.String("res_body", resStr))...)
		return resp, nil
	}

	if elapsed > 3*time.Second {
		log.WarnContext(req.Context(), "HTTP_CALL_SLOW", fields...)
	} else {
		log.InfoContext(req.Context(), "HTTP_CALL", fields...)
	}

	return resp, nil
}
