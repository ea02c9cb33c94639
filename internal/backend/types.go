package backend

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// AppSummary mirrors one roster entry returned by GET /api/apps.
type AppSummary struct {
	InternalID      int64    `json:"id"`
	AppID           string   `json:"app_id"`
	AppName         string   `json:"app_name"`
	Rating          *float64 `json:"rating,omitempty"`
	ReviewCount     int      `json:"review_count"`
	OverallAnalysis string   `json:"overall_analysis,omitempty"`
}

// HasOverallAnalysis reports whether the backend has stored an overall analysis.
func (a AppSummary) HasOverallAnalysis() bool {
	return strings.TrimSpace(a.OverallAnalysis) != ""
}

// AppDetail mirrors GET /api/apps/{appId} and the crawl response.
type AppDetail struct {
	AppInfo AppInfo  `json:"app_info"`
	Reviews []Review `json:"reviews"`
}

// AppInfo is the header block of an AppDetail.
type AppInfo struct {
	InternalID      int64         `json:"id"`
	AppID           string        `json:"app_id"`
	AppName         string        `json:"app_name"`
	Rating          *float64      `json:"rating,omitempty"`
	ReviewCount     int           `json:"review_count"`
	DownloadCount   DownloadCount `json:"download_count"`
	OverallAnalysis string        `json:"overall_analysis,omitempty"`
}

// Review is one collected user review.
type Review struct {
	ID                 int64   `json:"id"`
	Rating             float64 `json:"rating"`
	ReviewDate         string  `json:"review_date"`
	ReviewContent      string  `json:"review_content"`
	IndividualAnalysis string  `json:"individual_analysis,omitempty"`
}

// Clone returns a deep copy of the detail; nil stays nil.
func (d *AppDetail) Clone() *AppDetail {
	if d == nil {
		return nil
	}
	dup := *d
	if d.AppInfo.Rating != nil {
		r := *d.AppInfo.Rating
		dup.AppInfo.Rating = &r
	}
	if d.Reviews != nil {
		dup.Reviews = make([]Review, len(d.Reviews))
		copy(dup.Reviews, d.Reviews)
	}
	return &dup
}

// DownloadCount holds the store's install count, which the backend reports
// either as a number or as a label such as "1,000,000+".
type DownloadCount string

// UnmarshalJSON accepts a JSON string, number, or null.
func (c *DownloadCount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = DownloadCount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = DownloadCount(n.String())
	return nil
}

// MarshalJSON emits numeric counts as numbers and labels as strings.
func (c DownloadCount) MarshalJSON() ([]byte, error) {
	if c == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(c), 10, 64); err == nil {
		return []byte(c), nil
	}
	return json.Marshal(string(c))
}

// TopicResult is the transient output of topic modeling.
type TopicResult struct {
	TopicCount  int              `json:"n_topics"`
	ReviewCount int              `json:"n_reviews"`
	Topics      []Topic          `json:"topics"`
	Points      []ProjectedPoint `json:"tsne_data"`
}

// Topic is a labeled word cluster. TopicID is 0-based.
type Topic struct {
	TopicID int       `json:"topic_id"`
	Words   []string  `json:"words"`
	Weights []float64 `json:"weights,omitempty"`
}

// ProjectedPoint is one review projected to 2D and tagged with its dominant topic.
type ProjectedPoint struct {
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	TopicID       int     `json:"topic"`
	ReviewIndex   int     `json:"review_index"`
	ReviewSnippet string  `json:"review_snippet"`
}

// Clone returns a deep copy of the result; nil stays nil.
func (r *TopicResult) Clone() *TopicResult {
	if r == nil {
		return nil
	}
	dup := *r
	if r.Topics != nil {
		dup.Topics = make([]Topic, len(r.Topics))
		for i, t := range r.Topics {
			dup.Topics[i] = Topic{
				TopicID: t.TopicID,
				Words:   append([]string(nil), t.Words...),
				Weights: append([]float64(nil), t.Weights...),
			}
		}
	}
	if r.Points != nil {
		dup.Points = make([]ProjectedPoint, len(r.Points))
		copy(dup.Points, r.Points)
	}
	return &dup
}

// AppRequest is the body of the crawl, analyze, and topic-modeling calls.
type AppRequest struct {
	AppID string `json:"app_id"`
}

// Ack is the acknowledgement body of analyze and delete.
type Ack struct {
	Message string `json:"message,omitempty"`
}

// TopicModelingResponse wraps the topic-modeling result on the wire.
type TopicModelingResponse struct {
	Result TopicResult `json:"result"`
}

// ErrorBody is the error payload the backend returns on non-2xx responses.
type ErrorBody struct {
	Detail string `json:"detail,omitempty"`
}
