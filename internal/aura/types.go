package aura

import (
	"bytes"
	"strconv"
	"time"
)

// Sentiment is the backend's latest market sentiment reading.
type Sentiment struct {
	Score      float64
	Confidence float64
	Keywords   []string
	Timestamp  time.Time
}

// Price is the latest ICP price reading in USD.
type Price struct {
	Value     float64
	Change24h float64
	Timestamp time.Time
}

// DashboardData is the aggregate snapshot served by the backend. Sentiment and
// Price are nil when the backend has not produced a reading yet.
type DashboardData struct {
	Sentiment  *Sentiment
	Price      *Price
	Status     string
	LastUpdate time.Time
}

// SystemStatus carries the backend's operational counters.
type SystemStatus struct {
	IsActive   bool
	CycleCount int64
	LogsCount  int64
	LastUpdate time.Time
}

// Decision is the outcome of a simulated trading decision.
type Decision struct {
	Action string
	Reason string
	Score  float64
}

// Nanos is a backend timestamp expressed in nanoseconds since the Unix epoch.
// It decodes from either a JSON number or a quoted decimal string because
// 64-bit counters are frequently stringified by gateways.
type Nanos int64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Nanos) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(bytes.TrimSpace(data), `"`)
	if len(data) == 0 || string(data) == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(string(data), 64)
		if ferr != nil {
			return err
		}
		v = int64(f)
	}
	*n = Nanos(v)
	return nil
}

// Time converts n to a time.Time, returning the zero value for 0.
func (n Nanos) Time() time.Time {
	if n <= 0 {
		return time.Time{}
	}
	return time.Unix(0, int64(n))
}

// Wire payloads. These mirror the gateway's JSON and are converted to the
// exported types above before leaving the package.

type sentimentPayload struct {
	Score      float64  `json:"score"`
	Confidence float64  `json:"confidence"`
	Keywords   []string `json:"keywords"`
	Timestamp  Nanos    `json:"timestamp"`
}

type pricePayload struct {
	Price     float64 `json:"price"`
	Change24h float64 `json:"change24h"`
	Timestamp Nanos   `json:"timestamp"`
}

type dashboardPayload struct {
	Sentiment  *sentimentPayload `json:"sentiment"`
	Price      *pricePayload     `json:"price"`
	Status     string            `json:"status"`
	LastUpdate Nanos             `json:"lastUpdate"`
}

type statusPayload struct {
	IsActive   bool  `json:"isActive"`
	CycleCount int64 `json:"cycleCount"`
	LogsCount  int64 `json:"logsCount"`
	LastUpdate Nanos `json:"lastUpdate"`
}

type logsPayload struct {
	Logs []string `json:"logs"`
}

type ackPayload struct {
	Message string `json:"message"`
}

// resultPayload is the gateway encoding of a variant { ok; err } result.
type resultPayload struct {
	OK  *string `json:"ok"`
	Err *string `json:"err"`
}

type decisionPayload struct {
	Decision string  `json:"decision"`
	Reason   string  `json:"reason"`
	Score    float64 `json:"score"`
}

type thresholdPayload struct {
	Threshold float64 `json:"threshold"`
}

type simulatePayload struct {
	ETHPrice float64 `json:"ethPrice"`
	BNBPrice float64 `json:"bnbPrice"`
}

type apiKeyPayload struct {
	Key string `json:"key"`
}

func (p *dashboardPayload) toDashboard() *DashboardData {
	if p == nil {
		return nil
	}
	out := &DashboardData{
		Status:     p.Status,
		LastUpdate: p.LastUpdate.Time(),
	}
	if s := p.Sentiment; s != nil {
		out.Sentiment = &Sentiment{
			Score:      s.Score,
			Confidence: s.Confidence,
			Keywords:   append([]string(nil), s.Keywords...),
			Timestamp:  s.Timestamp.Time(),
		}
	}
	if pr := p.Price; pr != nil {
		out.Price = &Price{
			Value:     pr.Price,
			Change24h: pr.Change24h,
			Timestamp: pr.Timestamp.Time(),
		}
	}
	return out
}

func (p statusPayload) toStatus() *SystemStatus {
	return &SystemStatus{
		IsActive:   p.IsActive,
		CycleCount: p.CycleCount,
		LogsCount:  p.LogsCount,
		LastUpdate: p.LastUpdate.Time(),
	}
}
