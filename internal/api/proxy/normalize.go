package proxy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/citylink/admin-gateway/internal/core/domain"
)

// upstreamEnvelope is the reply shape every backend endpoint returns.
type upstreamEnvelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Message    json.RawMessage `json:"message"`
	Pagination json.RawMessage `json:"pagination"`
}

func (u upstreamEnvelope) message() string {
	if len(u.Message) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(u.Message, &s); err != nil {
		return ""
	}
	return s
}

// outcome is a normalised upstream reply ready to be written.
type outcome struct {
	status   int
	envelope domain.Envelope
}

// normalize maps an upstream reply onto the local envelope. Non-JSON bodies
// are an error.
func normalize(r Route, status int, body []byte) (outcome, upstreamEnvelope, error) {
	var up upstreamEnvelope
	if err := json.Unmarshal(body, &up); err != nil {
		return outcome{}, up, fmt.Errorf("decode upstream body: %w", err)
	}

	msg := up.message()
	if !up.Success {
		if msg == "" {
			msg = r.DefaultError
		}
		if msg == "" {
			msg = failureText(status)
		}
		return outcome{status: status, envelope: domain.Fail(msg)}, up, nil
	}

	if msg == "" {
		msg = r.DefaultMessage
	}
	return outcome{
		status: r.successStatus(),
		envelope: domain.Envelope{
			Success:    true,
			Data:       up.Data,
			Message:    msg,
			Pagination: NormalizePagination(up.Pagination),
		},
	}, up, nil
}

// failureText is the last-resort message for a failure the upstream did not
// describe. The status itself is always relayed unchanged.
func failureText(status int) string {
	if status >= http.StatusBadRequest {
		return http.StatusText(status)
	}
	return "Request failed"
}

// NormalizePagination accepts either key family
// (page|currentPage, total|totalItems, limit|itemsPerPage) and returns the
// canonical block. It returns nil when raw carries none of the keys.
func NormalizePagination(raw json.RawMessage) *domain.Pagination {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil || m == nil {
		return nil
	}

	p := &domain.Pagination{
		Page:       firstInt(m, "page", "currentPage"),
		TotalPages: firstInt(m, "totalPages"),
		Total:      firstInt(m, "total", "totalItems"),
		Limit:      firstInt(m, "limit", "itemsPerPage"),
	}
	if p.Page == nil && p.TotalPages == nil && p.Total == nil && p.Limit == nil {
		return nil
	}
	return p
}

func firstInt(m map[string]any, keys ...string) *int {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		if n, ok := toInt(v); ok {
			return &n
		}
	}
	return nil
}

func toInt(v any) (int, bool) {
	var s string
	switch t := v.(type) {
	case json.Number:
		s = t.String()
	case string:
		s = t
	default:
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}
