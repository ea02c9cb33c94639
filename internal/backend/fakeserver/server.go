// Package fakeserver is an in-memory review service speaking the same HTTP
// contract as the real backend. It backs the fake-server command and the
// integration tests.
package fakeserver

import (
	"fmt"
	"hash/fnv"
	"io"
	"math"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/reviewdeck/reviewdeck/internal/backend"
)

// MinTopicReviews is the fewest non-empty reviews topic modeling accepts.
const MinTopicReviews = 3

const snippetLimit = 100

// Server holds apps in memory. It is safe for concurrent use.
type Server struct {
	mu      sync.Mutex
	apps    map[string]*backend.AppDetail
	order   []string
	catalog map[string]backend.AppDetail
	strict  bool
	nextID  int64
	delay   time.Duration

	log    *log.Logger
	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithCatalog sets the apps a crawl can find. Crawling an id outside the
// catalog synthesizes an app unless WithStrictCatalog is also given.
func WithCatalog(apps ...backend.AppDetail) Option {
	return func(s *Server) {
		for _, app := range apps {
			s.catalog[app.AppInfo.AppID] = *app.Clone()
		}
	}
}

// WithStrictCatalog makes crawls of unknown ids fail with 502.
func WithStrictCatalog() Option {
	return func(s *Server) { s.strict = true }
}

// WithApps pre-registers apps as if they had been crawled.
func WithApps(apps ...backend.AppDetail) Option {
	return func(s *Server) {
		for _, app := range apps {
			s.store(app.Clone())
		}
	}
}

// WithLatency delays every response, which makes busy states visible in demos.
func WithLatency(d time.Duration) Option {
	return func(s *Server) { s.delay = d }
}

// WithLogger sets the request logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.log = logger
		}
	}
}

// New builds a server.
func New(opts ...Option) *Server {
	s := &Server{
		apps:    make(map[string]*backend.AppDetail),
		catalog: make(map[string]backend.AppDetail),
		log:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(s.latency)

	r.Route("/api/apps", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/", s.handleList)
		r.Post("/crawl", s.handleCrawl)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/topic-modeling", s.handleTopicModeling)
		r.Get("/{appID}", s.handleGet)
		r.Delete("/{appID}", s.handleDelete)
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", r.Header.Get("X-Request-ID"),
			"took", time.Since(started))
	})
}

func (s *Server) latency(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.delay > 0 {
			select {
			case <-time.After(s.delay):
			case <-r.Context().Done():
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]backend.AppSummary, 0, len(s.order))
	for _, id := range s.order {
		info := s.apps[id].AppInfo
		out = append(out, backend.AppSummary{
			InternalID:      info.InternalID,
			AppID:           info.AppID,
			AppName:         info.AppName,
			Rating:          info.Rating,
			ReviewCount:     info.ReviewCount,
			OverallAnalysis: info.OverallAnalysis,
		})
	}
	s.mu.Unlock()
	render.JSON(w, r, out)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	appID := chi.URLParam(r, "appID")
	s.mu.Lock()
	app, ok := s.apps[appID]
	var out *backend.AppDetail
	if ok {
		out = app.Clone()
	}
	s.mu.Unlock()
	if !ok {
		writeDetail(w, r, http.StatusNotFound, "App not found.")
		return
	}
	render.JSON(w, r, out)
}

func (s *Server) handleCrawl(w http.ResponseWriter, r *http.Request) {
	appID, ok := decodeAppID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	found, inCatalog := s.catalog[appID]
	if !inCatalog && s.strict {
		writeDetail(w, r, http.StatusBadGateway, fmt.Sprintf("Could not find app %q in the store.", appID))
		return
	}
	var fresh *backend.AppDetail
	if inCatalog {
		fresh = found.Clone()
	} else {
		fresh = synthesize(appID)
	}
	if existing, ok := s.apps[appID]; ok {
		fresh.AppInfo.InternalID = existing.AppInfo.InternalID
	}
	stored := s.store(fresh)
	render.JSON(w, r, stored.Clone())
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	appID, ok := decodeAppID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[appID]
	if !ok {
		writeDetail(w, r, http.StatusNotFound, "App not found.")
		return
	}
	if len(app.Reviews) == 0 {
		writeDetail(w, r, http.StatusBadRequest, "No reviews to analyze.")
		return
	}
	analyze(app)
	render.JSON(w, r, backend.Ack{Message: "Analysis complete."})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	appID := chi.URLParam(r, "appID")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.apps[appID]; !ok {
		writeDetail(w, r, http.StatusNotFound, "App not found.")
		return
	}
	delete(s.apps, appID)
	for i, id := range s.order {
		if id == appID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	render.JSON(w, r, backend.Ack{Message: "App deleted."})
}

func (s *Server) handleTopicModeling(w http.ResponseWriter, r *http.Request) {
	appID, ok := decodeAppID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	app, found := s.apps[appID]
	var reviews []string
	if found {
		for _, rv := range app.Reviews {
			if strings.TrimSpace(rv.ReviewContent) != "" {
				reviews = append(reviews, rv.ReviewContent)
			}
		}
	}
	s.mu.Unlock()

	if !found {
		writeDetail(w, r, http.StatusNotFound, "App not found.")
		return
	}
	if len(reviews) < MinTopicReviews {
		writeDetail(w, r, http.StatusBadRequest,
			fmt.Sprintf("Topic modeling needs at least %d reviews (have %d).", MinTopicReviews, len(reviews)))
		return
	}
	render.JSON(w, r, backend.TopicModelingResponse{Result: *model(reviews)})
}

// store assigns an internal id on first sight and keeps insertion order.
// Callers hold s.mu, except during construction.
func (s *Server) store(app *backend.AppDetail) *backend.AppDetail {
	id := app.AppInfo.AppID
	if _, ok := s.apps[id]; !ok {
		s.order = append(s.order, id)
	}
	if app.AppInfo.InternalID == 0 {
		s.nextID++
		app.AppInfo.InternalID = s.nextID
	} else if app.AppInfo.InternalID > s.nextID {
		s.nextID = app.AppInfo.InternalID
	}
	app.AppInfo.ReviewCount = len(app.Reviews)
	s.apps[id] = app
	return app
}

func decodeAppID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req backend.AppRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil || strings.TrimSpace(req.AppID) == "" {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, map[string]any{
			"detail": []map[string]any{{
				"loc":  []string{"body", "app_id"},
				"msg":  "field required",
				"type": "value_error.missing",
			}},
		})
		return "", false
	}
	return strings.TrimSpace(req.AppID), true
}

func writeDetail(w http.ResponseWriter, r *http.Request, status int, detail string) {
	render.Status(r, status)
	render.JSON(w, r, backend.ErrorBody{Detail: detail})
}

var phrases = []string{
	"Fast and simple, does exactly what I need.",
	"Crashes every time I open the camera screen.",
	"Login keeps failing after the latest update.",
	"Great design but too many ads lately.",
	"Battery drain is terrible since version two.",
	"Customer support answered quickly and fixed my sync issue.",
	"Subscription price is too high for what you get.",
	"Love the offline mode, works great on flights.",
	"Notifications arrive late or not at all.",
	"Clean interface and fast search.",
}

// synthesize builds a deterministic app for ids outside the catalog. The
// review count depends on the id, so some ids produce apps with no reviews.
func synthesize(appID string) *backend.AppDetail {
	h := fnv.New32a()
	_, _ = h.Write([]byte(appID))
	seed := h.Sum32()

	n := int(seed % 9)
	name := appID
	if i := strings.LastIndex(appID, "."); i >= 0 && i < len(appID)-1 {
		name = appID[i+1:]
	}
	app := &backend.AppDetail{
		AppInfo: backend.AppInfo{
			AppID:         appID,
			AppName:       strings.ToUpper(name[:1]) + name[1:],
			DownloadCount: backend.DownloadCount(fmt.Sprintf("%d,000+", 1+seed%500)),
		},
		Reviews: []backend.Review{},
	}
	var total float64
	for i := 0; i < n; i++ {
		rating := float64(1 + (seed>>uint(i))%5)
		total += rating
		app.Reviews = append(app.Reviews, backend.Review{
			ID:            int64(i + 1),
			Rating:        rating,
			ReviewDate:    time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
			ReviewContent: phrases[(int(seed)+i*3)%len(phrases)],
		})
	}
	if n > 0 {
		avg := math.Round(total/float64(n)*10) / 10
		app.AppInfo.Rating = &avg
	}
	return app
}

func analyze(app *backend.AppDetail) {
	var pos, neg int
	for i := range app.Reviews {
		rv := &app.Reviews[i]
		switch {
		case rv.Rating >= 4:
			pos++
			rv.IndividualAnalysis = "Positive: " + snippet(rv.ReviewContent, 40)
		case rv.Rating <= 2:
			neg++
			rv.IndividualAnalysis = "Negative: " + snippet(rv.ReviewContent, 40)
		default:
			rv.IndividualAnalysis = "Mixed: " + snippet(rv.ReviewContent, 40)
		}
	}
	app.AppInfo.OverallAnalysis = fmt.Sprintf(
		"%d reviews analyzed: %d positive, %d negative, %d mixed.",
		len(app.Reviews), pos, neg, len(app.Reviews)-pos-neg)
}

// model is a deterministic stand-in for LDA plus t-SNE: reviews are assigned
// to topics round-robin and laid out on a circle per topic.
func model(reviews []string) *backend.TopicResult {
	n := min(5, max(2, len(reviews)/3))
	if n > len(reviews)-1 {
		n = max(2, len(reviews)-1)
	}

	counts := make([]map[string]int, n)
	for t := range counts {
		counts[t] = make(map[string]int)
	}
	result := &backend.TopicResult{TopicCount: n, ReviewCount: len(reviews)}
	for i, text := range reviews {
		t := i % n
		for _, word := range tokenize(text) {
			counts[t][word]++
		}
		angle := 2 * math.Pi * float64(t) / float64(n)
		radius := 10 + float64(i/n)
		result.Points = append(result.Points, backend.ProjectedPoint{
			X:             math.Round(radius*math.Cos(angle)*100) / 100,
			Y:             math.Round(radius*math.Sin(angle)*100) / 100,
			TopicID:       t,
			ReviewIndex:   i,
			ReviewSnippet: snippet(text, snippetLimit),
		})
	}
	for t := 0; t < n; t++ {
		words, weights := topWords(counts[t], 10)
		result.Topics = append(result.Topics, backend.Topic{TopicID: t, Words: words, Weights: weights})
	}
	return result
}

func topWords(counts map[string]int, limit int) ([]string, []float64) {
	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})
	if len(words) > limit {
		words = words[:limit]
	}
	weights := make([]float64, len(words))
	for i, w := range words {
		weights[i] = float64(counts[w])
	}
	return words, weights
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z')
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) > 3 {
			out = append(out, f)
		}
	}
	return out
}

func snippet(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
