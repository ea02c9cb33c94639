package fakeserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewdeck/reviewdeck/internal/backend"
)

func newClient(t *testing.T, opts ...Option) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(New(opts...))
	t.Cleanup(srv.Close)
	c, err := backend.NewClient(srv.URL, nil)
	require.NoError(t, err)
	return c
}

func catalogApp(appID string, contents ...string) backend.AppDetail {
	app := backend.AppDetail{AppInfo: backend.AppInfo{AppID: appID, AppName: strings.ToUpper(appID)}}
	for i, text := range contents {
		app.Reviews = append(app.Reviews, backend.Review{ID: int64(i + 1), Rating: float64(1 + i%5), ReviewContent: text})
	}
	return app
}

func TestServer_CrawlListGetDelete(t *testing.T) {
	c := newClient(t, WithCatalog(catalogApp("com.a", "one", "two")))
	ctx := context.Background()

	apps, err := c.ListApps(ctx)
	require.NoError(t, err)
	assert.Empty(t, apps)

	crawled, err := c.CrawlApp(ctx, "com.a")
	require.NoError(t, err)
	assert.Equal(t, 2, crawled.AppInfo.ReviewCount)
	assert.NotZero(t, crawled.AppInfo.InternalID)

	apps, err = c.ListApps(ctx)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "com.a", apps[0].AppID)
	assert.False(t, apps[0].HasOverallAnalysis())

	again, err := c.CrawlApp(ctx, "com.a")
	require.NoError(t, err)
	assert.Equal(t, crawled.AppInfo.InternalID, again.AppInfo.InternalID)

	got, err := c.GetApp(ctx, "com.a")
	require.NoError(t, err)
	assert.Len(t, got.Reviews, 2)

	require.NoError(t, c.DeleteApp(ctx, "com.a"))
	_, err = c.GetApp(ctx, "com.a")
	assert.True(t, backend.IsNotFound(err))
	assert.Equal(t, "App not found.", backend.Detail(err))

	err = c.DeleteApp(ctx, "com.a")
	assert.True(t, backend.IsNotFound(err))
}

func TestServer_StrictCatalogRejectsUnknownApps(t *testing.T) {
	c := newClient(t, WithStrictCatalog())
	_, err := c.CrawlApp(context.Background(), "com.unknown")

	var upstream *backend.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusBadGateway, upstream.Status)
	assert.Contains(t, backend.Detail(err), "com.unknown")
}

func TestServer_SynthesizedAppsAreDeterministic(t *testing.T) {
	a := synthesize("com.example.app")
	b := synthesize("com.example.app")
	assert.Equal(t, a, b)
	assert.Equal(t, "App", a.AppInfo.AppName)
	assert.NotNil(t, a.Reviews)
}

func TestServer_AnalyzePersistsAnalysis(t *testing.T) {
	c := newClient(t, WithApps(catalogApp("com.a", "great", "awful", "fine")))
	ctx := context.Background()

	require.NoError(t, c.AnalyzeApp(ctx, "com.a"))
	got, err := c.GetApp(ctx, "com.a")
	require.NoError(t, err)
	assert.NotEmpty(t, got.AppInfo.OverallAnalysis)
	for _, rv := range got.Reviews {
		assert.NotEmpty(t, rv.IndividualAnalysis)
	}

	apps, err := c.ListApps(ctx)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.True(t, apps[0].HasOverallAnalysis())

	err = c.AnalyzeApp(ctx, "com.missing")
	assert.Error(t, err)
}

func TestServer_TopicModelingNeedsThreeReviews(t *testing.T) {
	c := newClient(t, WithApps(
		catalogApp("com.small", "only one", "and two"),
		catalogApp("com.big",
			"Crashes when uploading photos",
			"Photos upload slowly",
			"Login broken after update",
			"Update broke login again",
			"Great photos editor",
			"Login screen freezes"),
	))
	ctx := context.Background()

	_, err := c.TopicModelApp(ctx, "com.small")
	require.True(t, backend.IsInsufficientData(err), "err = %v", err)
	assert.Contains(t, backend.Detail(err), "at least 3")

	_, err = c.TopicModelApp(ctx, "com.nope")
	assert.True(t, backend.IsNotFound(err))

	result, err := c.TopicModelApp(ctx, "com.big")
	require.NoError(t, err)
	assert.Equal(t, 2, result.TopicCount)
	assert.Equal(t, 6, result.ReviewCount)
	require.Len(t, result.Topics, 2)
	require.Len(t, result.Points, 6)
	for i, p := range result.Points {
		assert.Equal(t, i, p.ReviewIndex)
		assert.Less(t, p.TopicID, result.TopicCount)
		assert.NotEmpty(t, p.ReviewSnippet)
	}
}

func TestServer_CrawlValidatesBody(t *testing.T) {
	srv := httptest.NewServer(New())
	t.Cleanup(srv.Close)

	resp, err := http.Post(srv.URL+"/api/apps/crawl", "application/json", strings.NewReader(`{"app_id":"  "}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "short", snippet("short", 10))
	assert.Equal(t, "abc...", snippet("abcdef", 3))
}
