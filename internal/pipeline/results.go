package pipeline

import (
	"encoding/json"
	"fmt"
)

// Bid is one tender returned by the scan phase.
type Bid struct {
	BidID    string  `json:"bid_id"`
	Title    string  `json:"title,omitempty"`
	Deadline string  `json:"deadline,omitempty"`
	Score    float64 `json:"score,omitempty"`
}

// ScanResult is the terminal payload of a scan job.
type ScanResult struct {
	Bids    []Bid  `json:"bids"`
	Total   int    `json:"total,omitempty"`
	Message string `json:"message,omitempty"`
}

// FetchResult is the terminal payload of a fetch job.
type FetchResult struct {
	BidID        string `json:"bid_id"`
	ManifestPath string `json:"manifest_path,omitempty"`
}

// EvaluateResult is the terminal payload of an evaluate job.
type EvaluateResult struct {
	BidID          string `json:"bid_id"`
	ReportPath     string `json:"report_path,omitempty"`
	ReportJSONPath string `json:"report_json_path,omitempty"`
}

// ShortlistResult is the terminal payload of a shortlist job. Out points at
// the ranked CSV artifact on the server.
type ShortlistResult struct {
	Count int    `json:"count"`
	Out   string `json:"out,omitempty"`
}

// ParseScanResult decodes a scan job's done payload. A nil or empty payload
// yields an empty result, not an error; the run treats it as "no bids".
func ParseScanResult(raw json.RawMessage) (ScanResult, error) {
	var res ScanResult
	if len(raw) == 0 || string(raw) == "null" {
		return res, nil
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return ScanResult{}, fmt.Errorf("parse scan result: %w", err)
	}
	return res, nil
}

// ParseShortlistResult decodes a shortlist job's done payload.
func ParseShortlistResult(raw json.RawMessage) (ShortlistResult, error) {
	var res ShortlistResult
	if len(raw) == 0 || string(raw) == "null" {
		return res, nil
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return ShortlistResult{}, fmt.Errorf("parse shortlist result: %w", err)
	}
	return res, nil
}
