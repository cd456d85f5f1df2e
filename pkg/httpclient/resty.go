package httpclient

import (
	"context"
	"time"

	"stockvue/pkg/logger"

	"github.com/go-resty/resty/v2"
)

type RestyClient struct {
	client *resty.Client
	log    *logger.Logger
}

func New(log *logger.Logger, baseURL string, timeout time.Duration) HTTPClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &RestyClient{client: client, log: log}
}

// Get issues a GET request. result is decoded only for 2xx responses; the
// body is always returned so callers can inspect error payloads.
func (rc *RestyClient) Get(ctx context.Context, endpoint string, queryParams map[string]string, headers map[string]string, result interface{}) (*BaseResponse, error) {
	req := rc.client.R().
		SetContext(ctx).
		ForceContentType("application/json")

	if result != nil {
		req.SetResult(result)
	}

	if queryParams != nil {
		req.SetQueryParams(queryParams)
	}

	if headers != nil {
		req.SetHeaders(headers)
	}

	start := time.Now()
	resp, err := req.Get(endpoint)
	if resp == nil {
		return &BaseResponse{}, err
	}

	rc.log.DebugContext(ctx, "http request completed",
		logger.StringField("method", "GET"),
		logger.StringField("endpoint", endpoint),
		logger.IntField("status_code", resp.StatusCode()),
		logger.Field("elapsed", time.Since(start)),
	)

	return &BaseResponse{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
		Headers:    resp.Header(),
	}, err
}
