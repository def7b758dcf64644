package analytics

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/studiowebux/appclient/internal/history"
)

const timestampLayout = "2006-01-02 15:04:05"

// Stats aggregates the recorded calls of one control
type Stats struct {
	Control       string      `json:"control" yaml:"control"`
	Method        string      `json:"method" yaml:"method"`
	TotalCalls    int         `json:"totalCalls" yaml:"totalCalls"`
	SuccessCount  int         `json:"successCount" yaml:"successCount"`
	ErrorCount    int         `json:"errorCount" yaml:"errorCount"`
	NetworkErrors int         `json:"networkErrors" yaml:"networkErrors"` // no HTTP status (connection refused, DNS, ...)
	AvgDurationMs float64     `json:"avgDurationMs" yaml:"avgDurationMs"`
	MinDurationMs int64       `json:"minDurationMs" yaml:"minDurationMs"`
	MaxDurationMs int64       `json:"maxDurationMs" yaml:"maxDurationMs"`
	TotalRespSize int64       `json:"totalResponseSize" yaml:"totalResponseSize"`
	StatusCodes   map[int]int `json:"statusCodes" yaml:"statusCodes"`
	LastCalled    time.Time   `json:"lastCalled" yaml:"lastCalled"`
}

// SuccessRate returns the share of successful calls in percent
func (s Stats) SuccessRate() float64 {
	if s.TotalCalls == 0 {
		return 0
	}
	return float64(s.SuccessCount) * 100 / float64(s.TotalCalls)
}

// PerControl computes one Stats row per control and method from the
// history table, most recently called first.
func PerControl(mgr *history.Manager) ([]Stats, error) {
	return query(mgr.DB())
}

func query(db *sql.DB) ([]Stats, error) {
	// Status codes are aggregated in the same query as a JSON object
	q := `
		WITH status_codes_agg AS (
			SELECT
				control,
				method,
				json_group_object(CAST(status AS TEXT), count) AS status_codes_json
			FROM (
				SELECT control, method, status, COUNT(*) AS count
				FROM history
				GROUP BY control, method, status
			)
			GROUP BY control, method
		)
		SELECT
			h.control,
			h.method,
			COUNT(*) AS total_calls,
			SUM(CASE WHEN COALESCE(h.error, '') = '' AND h.status >= 200 AND h.status < 300 THEN 1 ELSE 0 END) AS success_count,
			SUM(CASE WHEN COALESCE(h.error, '') != '' OR h.status >= 400 THEN 1 ELSE 0 END) AS error_count,
			SUM(CASE WHEN h.status = 0 THEN 1 ELSE 0 END) AS network_errors,
			AVG(h.duration_ms) AS avg_duration,
			MIN(h.duration_ms) AS min_duration,
			MAX(h.duration_ms) AS max_duration,
			COALESCE(SUM(h.response_size), 0) AS total_resp_size,
			MAX(h.timestamp) AS last_called,
			COALESCE(s.status_codes_json, '{}') AS status_codes_json
		FROM history h
		LEFT JOIN status_codes_agg s ON h.control = s.control AND h.method = s.method
		GROUP BY h.control, h.method
		ORDER BY last_called DESC, h.control
	`

	rows, err := db.Query(q)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats per control: %w", err)
	}
	defer rows.Close()

	var statsList []Stats
	for rows.Next() {
		var s Stats
		var lastCalled sql.NullString
		var statusCodesJSON string

		err := rows.Scan(
			&s.Control,
			&s.Method,
			&s.TotalCalls,
			&s.SuccessCount,
			&s.ErrorCount,
			&s.NetworkErrors,
			&s.AvgDurationMs,
			&s.MinDurationMs,
			&s.MaxDurationMs,
			&s.TotalRespSize,
			&lastCalled,
			&statusCodesJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}

		if lastCalled.Valid && lastCalled.String != "" {
			// Stored as local time without zone
			s.LastCalled, err = time.ParseInLocation(timestampLayout, lastCalled.String, time.Local)
			if err != nil {
				return nil, fmt.Errorf("failed to parse timestamp %q: %w", lastCalled.String, err)
			}
		}

		s.StatusCodes, err = parseStatusCodes(statusCodesJSON)
		if err != nil {
			return nil, err
		}

		statsList = append(statsList, s)
	}

	return statsList, rows.Err()
}

// parseStatusCodes converts {"200": 3} into map[200]3
func parseStatusCodes(raw string) (map[int]int, error) {
	var byText map[string]int
	if err := json.Unmarshal([]byte(raw), &byText); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status codes: %w", err)
	}

	codes := make(map[int]int, len(byText))
	for text, count := range byText {
		code, err := strconv.Atoi(text)
		if err != nil {
			continue
		}
		codes[code] = count
	}
	return codes, nil
}
