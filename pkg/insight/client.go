package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/gocrane/insight-report/pkg/config"
	"github.com/gocrane/insight-report/pkg/reporterr"
	"github.com/gocrane/insight-report/pkg/utils"
)

const (
	QueryMultipleURI = "/cw_fea/real/cw/api/data/query/multiple"

	HeaderTimestamp = "x-ncp-apigw-timestamp"
	HeaderAccessKey = "x-ncp-iam-access-key"
	HeaderSignature = "x-ncp-apigw-signature-v2"

	// bodies of failed responses are cut to this size in error messages
	maxErrorBody = 512
)

type metricInfo struct {
	Aggregation string            `json:"aggregation"`
	Dimensions  map[string]string `json:"dimensions"`
	Interval    string            `json:"interval"`
	Metric      string            `json:"metric"`
	ProdKey     string            `json:"prodKey"`
}

type queryMultipleRequest struct {
	TimeStart      int64        `json:"timeStart"`
	TimeEnd        int64        `json:"timeEnd"`
	MetricInfoList []metricInfo `json:"metricInfoList"`
}

type metricResult struct {
	Metric string `json:"metric"`
	// each data point is [timestamp_ms, value]; value may be null
	Dps [][]*float64 `json:"dps"`
}

// Client queries the Cloud Insight API of one site.
type Client struct {
	endpoint    string
	credentials config.Credentials
	httpClient  *http.Client

	Sign SignFunc
	Now  func() time.Time
}

func NewClient(endpoint string, credentials config.Credentials, timeout time.Duration) *Client {
	return &Client{
		endpoint:    strings.TrimRight(endpoint, "/"),
		credentials: credentials,
		httpClient:  &http.Client{Timeout: timeout},
		Sign:        MakeSignature,
		Now:         time.Now,
	}
}

// FetchMetrics queries all keys of query in one batched request.
func (c *Client) FetchMetrics(ctx context.Context, query Query) ([]utils.MetricSeries, error) {
	payload := queryMultipleRequest{
		TimeStart: query.StartMs,
		TimeEnd:   query.EndMs,
	}
	for _, key := range query.Keys {
		payload.MetricInfoList = append(payload.MetricInfoList, metricInfo{
			Aggregation: query.Aggregation,
			Dimensions:  map[string]string{query.DimensionKey: query.DimensionValue},
			Interval:    query.Interval,
			Metric:      key,
			ProdKey:     c.credentials.CWKey,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, reporterr.New(reporterr.FetchError, "encode query", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+QueryMultipleURI, bytes.NewReader(body))
	if err != nil {
		return nil, reporterr.New(reporterr.FetchError, "build request", err)
	}
	ts := c.Now().UnixMilli()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderTimestamp, strconv.FormatInt(ts, 10))
	req.Header.Set(HeaderAccessKey, c.credentials.AccessKey)
	req.Header.Set(HeaderSignature, c.Sign(c.credentials.AccessKey, c.credentials.SecretKey, http.MethodPost, QueryMultipleURI, ts))

	klog.V(6).Infof("POST %s for %s=%s, %d metrics, %d bytes", QueryMultipleURI, query.DimensionKey, query.DimensionValue, len(query.Keys), len(body))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, reporterr.New(reporterr.FetchError, "query "+query.DimensionValue, errors.Wrap(err, "request failed"))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, reporterr.New(reporterr.FetchError, "query "+query.DimensionValue, errors.Wrap(err, "read response"))
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, reporterr.Newf(reporterr.FetchError, nil, "query %s: api error (%d): %s", query.DimensionValue, resp.StatusCode, truncate(data, maxErrorBody))
	}

	var results []metricResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, reporterr.New(reporterr.FetchError, "query "+query.DimensionValue, errors.Wrapf(err, "decode response %s", truncate(data, maxErrorBody)))
	}

	return toSeries(query, results), nil
}

func toSeries(query Query, results []metricResult) []utils.MetricSeries {
	byKey := make(map[string]metricResult, len(results))
	for _, r := range results {
		byKey[r.Metric] = r
	}

	series := make([]utils.MetricSeries, 0, len(query.Keys))
	for _, key := range query.Keys {
		s := utils.MetricSeries{
			Key:    key,
			Labels: []utils.Label{{Name: query.DimensionKey, Value: query.DimensionValue}},
		}
		r, ok := byKey[key]
		if !ok {
			klog.V(4).Infof("Metric %s missing from response", key)
		}
		for _, dp := range r.Dps {
			if len(dp) < 2 || dp[0] == nil {
				continue
			}
			value := math.NaN()
			if dp[1] != nil {
				value = *dp[1]
			}
			s.Samples = append(s.Samples, utils.Sample{Timestamp: int64(*dp[0]), Value: value})
		}
		series = append(series, s)
	}
	return series
}

func truncate(data []byte, n int) string {
	if len(data) <= n {
		return string(data)
	}
	return fmt.Sprintf("%s...", data[:n])
}
