package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != defaultAPIBase {
		t.Fatalf("host = %q, want %q", u.Host, defaultAPIBase)
	}

	u, err = parseBaseURL("http://example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestClient_FetchesEndpointsAndEncodesBodies(t *testing.T) {
	t.Parallel()

	var gotUserAgent, gotRequestID string
	bodies := map[string]AppRequest{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		gotRequestID = r.Header.Get(requestIDHeader)
		w.Header().Set("Content-Type", "application/json")

		if r.Method == http.MethodPost {
			var body AppRequest
			_ = json.NewDecoder(r.Body).Decode(&body)
			bodies[r.URL.Path] = body
		}

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/apps":
			_, _ = io.WriteString(w, `[{"id":1,"app_id":"com.a","app_name":"A","rating":4.5,"review_count":3,"overall_analysis":"good"},
				{"id":2,"app_id":"com.b","app_name":"B","review_count":0}]`)
		case r.Method == http.MethodGet && r.URL.Path == "/api/apps/com.a":
			_, _ = io.WriteString(w, `{"app_info":{"id":1,"app_id":"com.a","app_name":"A","review_count":1,"download_count":"1,000+"},
				"reviews":[{"id":9,"rating":5,"review_date":"2024-01-02","review_content":"great"}]}`)
		case r.Method == http.MethodPost && r.URL.Path == "/api/apps/crawl":
			_, _ = io.WriteString(w, `{"app_info":{"id":3,"app_id":"com.c","app_name":"C","review_count":0,"download_count":500},"reviews":[]}`)
		case r.Method == http.MethodPost && r.URL.Path == "/api/apps/analyze":
			_, _ = io.WriteString(w, `{"message":"ok"}`)
		case r.Method == http.MethodDelete && r.URL.Path == "/api/apps/com.a":
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPost && r.URL.Path == "/api/apps/topic-modeling":
			_, _ = io.WriteString(w, `{"result":{"n_topics":2,"n_reviews":4,
				"topics":[{"topic_id":0,"words":["fast"]},{"topic_id":1,"words":["slow"]}],
				"tsne_data":[{"x":1.5,"y":-2,"topic":1,"review_index":0,"review_snippet":"slow app"}]}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	apps, err := c.ListApps(ctx)
	if err != nil {
		t.Fatalf("ListApps returned error: %v", err)
	}
	if len(apps) != 2 || apps[0].AppID != "com.a" || apps[0].Rating == nil || *apps[0].Rating != 4.5 {
		t.Fatalf("ListApps = %#v, want com.a rated 4.5 first", apps)
	}
	if !apps[0].HasOverallAnalysis() || apps[1].HasOverallAnalysis() {
		t.Fatalf("HasOverallAnalysis mismatch: %v %v", apps[0].HasOverallAnalysis(), apps[1].HasOverallAnalysis())
	}
	if apps[1].Rating != nil {
		t.Fatalf("apps[1].Rating = %v, want nil", *apps[1].Rating)
	}

	detail, err := c.GetApp(ctx, "com.a")
	if err != nil {
		t.Fatalf("GetApp returned error: %v", err)
	}
	if detail.AppInfo.DownloadCount != "1,000+" || len(detail.Reviews) != 1 || detail.Reviews[0].ReviewContent != "great" {
		t.Fatalf("GetApp = %#v, want one review and download label", detail)
	}

	crawled, err := c.CrawlApp(ctx, "  com.c ")
	if err != nil {
		t.Fatalf("CrawlApp returned error: %v", err)
	}
	if crawled.AppInfo.DownloadCount != "500" || len(crawled.Reviews) != 0 {
		t.Fatalf("CrawlApp = %#v, want numeric download count and no reviews", crawled)
	}
	if bodies["/api/apps/crawl"].AppID != "com.c" {
		t.Fatalf("crawl body = %#v, want trimmed app_id", bodies["/api/apps/crawl"])
	}

	if err := c.AnalyzeApp(ctx, "com.a"); err != nil {
		t.Fatalf("AnalyzeApp returned error: %v", err)
	}
	if bodies["/api/apps/analyze"].AppID != "com.a" {
		t.Fatalf("analyze body = %#v, want app_id com.a", bodies["/api/apps/analyze"])
	}

	if err := c.DeleteApp(ctx, "com.a"); err != nil {
		t.Fatalf("DeleteApp returned error: %v", err)
	}

	result, err := c.TopicModelApp(ctx, "com.a")
	if err != nil {
		t.Fatalf("TopicModelApp returned error: %v", err)
	}
	if result.TopicCount != 2 || len(result.Points) != 1 || result.Points[0].TopicID != 1 || result.Points[0].X != 1.5 {
		t.Fatalf("TopicModelApp = %#v, want unwrapped result", result)
	}

	if !strings.HasPrefix(gotUserAgent, "reviewdeck/") {
		t.Fatalf("User-Agent = %q, want reviewdeck/*", gotUserAgent)
	}
	if gotRequestID == "" {
		t.Fatalf("X-Request-ID header missing")
	}
}

func TestClient_EmptyAppIDFailsBeforeRequest(t *testing.T) {
	c, err := NewClient("127.0.0.1:1", nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.CrawlApp(context.Background(), "   ")
	if !IsValidation(err) {
		t.Fatalf("CrawlApp error = %v, want ValidationError", err)
	}
	if _, err := c.GetApp(context.Background(), ""); !IsValidation(err) {
		t.Fatalf("GetApp error = %v, want ValidationError", err)
	}
}

func TestClient_ErrorTaxonomy(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/apps":
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, `{"detail":"database offline"}`)
		case "/api/apps/missing":
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"detail":"App not found."}`)
		case "/api/apps/topic-modeling":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"detail":"need at least 3 reviews"}`)
		case "/api/apps/crawl":
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = io.WriteString(w, `{"detail":[{"loc":["body","app_id"],"msg":"field required"}]}`)
		case "/api/apps/analyze":
			http.Error(w, "nope", http.StatusInternalServerError)
		case "/api/apps/broken":
			_, _ = io.WriteString(w, "{not-json")
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()

	_, err = c.ListApps(ctx)
	var upstream *UpstreamError
	if !errors.As(err, &upstream) || upstream.Status != http.StatusBadGateway {
		t.Fatalf("ListApps error = %v, want UpstreamError status 502", err)
	}
	if Detail(err) != "database offline" {
		t.Fatalf("Detail = %q, want database offline", Detail(err))
	}

	_, err = c.GetApp(ctx, "missing")
	if !IsNotFound(err) || Detail(err) != "App not found." {
		t.Fatalf("GetApp error = %v, want NotFoundError with detail", err)
	}

	if err := c.DeleteApp(ctx, "missing"); !IsNotFound(err) {
		t.Fatalf("DeleteApp error = %v, want NotFoundError", err)
	}

	_, err = c.TopicModelApp(ctx, "com.a")
	if !IsInsufficientData(err) || Detail(err) != "need at least 3 reviews" {
		t.Fatalf("TopicModelApp error = %v, want InsufficientDataError with detail", err)
	}

	_, err = c.CrawlApp(ctx, "com.a")
	if !IsValidation(err) || Detail(err) != "" {
		t.Fatalf("CrawlApp error = %v, want ValidationError without detail", err)
	}

	err = c.AnalyzeApp(ctx, "com.a")
	if !errors.As(err, &upstream) || upstream.Status != http.StatusInternalServerError || Detail(err) != "" {
		t.Fatalf("AnalyzeApp error = %v, want UpstreamError 500 without detail", err)
	}

	_, err = c.GetApp(ctx, "broken")
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("GetApp error = %v, want decode response error", err)
	}
}

func TestClient_TransportFailureIsUpstream(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	c, err := NewClient(addr, nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.ListApps(context.Background())
	var upstream *UpstreamError
	if !errors.As(err, &upstream) || upstream.Status != 0 {
		t.Fatalf("ListApps error = %v, want UpstreamError without status", err)
	}
}
