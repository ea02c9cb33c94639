package cli

import (
	"github.com/reviewdeck/reviewdeck/internal/backend"
	"github.com/reviewdeck/reviewdeck/internal/ops"
	"github.com/reviewdeck/reviewdeck/internal/topics"
)

// appView is one roster entry as printed by list.
type appView struct {
	AppID       string   `json:"app_id" yaml:"app_id"`
	Name        string   `json:"app_name" yaml:"app_name"`
	Rating      *float64 `json:"rating,omitempty" yaml:"rating,omitempty"`
	ReviewCount int      `json:"review_count" yaml:"review_count"`
	Analyzed    bool     `json:"analyzed" yaml:"analyzed"`
}

type reviewView struct {
	ID       int64   `json:"id" yaml:"id"`
	Rating   float64 `json:"rating" yaml:"rating"`
	Date     string  `json:"review_date" yaml:"review_date"`
	Content  string  `json:"review_content" yaml:"review_content"`
	Analysis string  `json:"individual_analysis,omitempty" yaml:"individual_analysis,omitempty"`
}

// detailView is one app with its reviews as printed by show and crawl.
type detailView struct {
	AppID           string       `json:"app_id" yaml:"app_id"`
	Name            string       `json:"app_name" yaml:"app_name"`
	Rating          *float64     `json:"rating,omitempty" yaml:"rating,omitempty"`
	ReviewCount     int          `json:"review_count" yaml:"review_count"`
	DownloadCount   string       `json:"download_count,omitempty" yaml:"download_count,omitempty"`
	OverallAnalysis string       `json:"overall_analysis,omitempty" yaml:"overall_analysis,omitempty"`
	Reviews         []reviewView `json:"reviews" yaml:"reviews"`
}

// topicSnippets is how many sample reviews each topic carries.
const topicSnippets = 3

type topicView struct {
	Label  string   `json:"label" yaml:"label"`
	Color  string   `json:"color" yaml:"color"`
	Words  []string `json:"words" yaml:"words"`
	Points   int      `json:"points" yaml:"points"`
	Snippets []string `json:"snippets" yaml:"snippets"`
}

type topicsView struct {
	AppID       string      `json:"app_id" yaml:"app_id"`
	TopicCount  int         `json:"n_topics" yaml:"n_topics"`
	ReviewCount int         `json:"n_reviews" yaml:"n_reviews"`
	Topics      []topicView `json:"topics" yaml:"topics"`
}

// resultView is the outcome of one operation.
type resultView struct {
	Kind    string `json:"kind" yaml:"kind"`
	AppID   string `json:"app_id" yaml:"app_id"`
	OK      bool   `json:"ok" yaml:"ok"`
	Message string `json:"message" yaml:"message"`
}

func newAppViews(apps []backend.AppSummary) []appView {
	views := make([]appView, 0, len(apps))
	for _, a := range apps {
		views = append(views, appView{
			AppID:       a.AppID,
			Name:        a.AppName,
			Rating:      a.Rating,
			ReviewCount: a.ReviewCount,
			Analyzed:    a.HasOverallAnalysis(),
		})
	}
	return views
}

func newDetailView(d *backend.AppDetail) detailView {
	info := d.AppInfo
	view := detailView{
		AppID:           info.AppID,
		Name:            info.AppName,
		Rating:          info.Rating,
		ReviewCount:     info.ReviewCount,
		DownloadCount:   string(info.DownloadCount),
		OverallAnalysis: info.OverallAnalysis,
		Reviews:         make([]reviewView, 0, len(d.Reviews)),
	}
	for _, r := range d.Reviews {
		view.Reviews = append(view.Reviews, reviewView{
			ID:       r.ID,
			Rating:   r.Rating,
			Date:     r.ReviewDate,
			Content:  r.ReviewContent,
			Analysis: r.IndividualAnalysis,
		})
	}
	return view
}

func newTopicsView(appID string, result *backend.TopicResult, words int) topicsView {
	view := topicsView{
		AppID:       appID,
		TopicCount:  result.TopicCount,
		ReviewCount: result.ReviewCount,
		Topics:      []topicView{},
	}
	series := make(map[int]topics.Series)
	for _, s := range topics.Map(result) {
		series[s.TopicID] = s
	}
	for _, t := range result.Topics {
		w := t.Words
		if len(w) > words {
			w = w[:words]
		}
		view.Topics = append(view.Topics, topicView{
			Label:  topics.Label(t.TopicID),
			Color:  topics.Color(t.TopicID, result.TopicCount).Hex(),
			Words:  append([]string{}, w...),
			Points:   len(series[t.TopicID].Points),
			Snippets: append([]string{}, series[t.TopicID].Samples(topicSnippets)...),
		})
	}
	return view
}

func newResultView(res ops.Result) resultView {
	return resultView{
		Kind:    res.Kind.String(),
		AppID:   res.AppID,
		OK:      res.OK(),
		Message: res.Notification.Text,
	}
}
