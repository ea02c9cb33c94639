package backend

import (
	"encoding/json"
	"testing"
)

func TestDownloadCount_AcceptsStringNumberAndNull(t *testing.T) {
	cases := map[string]DownloadCount{
		`{"download_count":"10,000+"}`: "10,000+",
		`{"download_count":12345}`:     "12345",
		`{"download_count":null}`:      "",
		`{}`:                           "",
	}
	for raw, want := range cases {
		var info AppInfo
		if err := json.Unmarshal([]byte(raw), &info); err != nil {
			t.Fatalf("Unmarshal(%s) returned error: %v", raw, err)
		}
		if info.DownloadCount != want {
			t.Fatalf("Unmarshal(%s) DownloadCount = %q, want %q", raw, info.DownloadCount, want)
		}
	}
}

func TestDownloadCount_MarshalKeepsNumbersNumeric(t *testing.T) {
	out, err := json.Marshal(DownloadCount("500"))
	if err != nil || string(out) != "500" {
		t.Fatalf("Marshal(500) = %s, %v; want 500", out, err)
	}
	out, err = json.Marshal(DownloadCount("1,000+"))
	if err != nil || string(out) != `"1,000+"` {
		t.Fatalf("Marshal(1,000+) = %s, %v; want quoted label", out, err)
	}
}

func TestAppDetailClone_IsIndependent(t *testing.T) {
	rating := 4.0
	orig := &AppDetail{
		AppInfo: AppInfo{AppID: "com.a", Rating: &rating},
		Reviews: []Review{{ID: 1, ReviewContent: "a"}},
	}
	dup := orig.Clone()
	dup.Reviews[0].ReviewContent = "mutated"
	*dup.AppInfo.Rating = 1
	if orig.Reviews[0].ReviewContent != "a" || *orig.AppInfo.Rating != 4 {
		t.Fatalf("Clone shares state with original: %#v", orig)
	}
	if (*AppDetail)(nil).Clone() != nil {
		t.Fatalf("Clone of nil should be nil")
	}
}

func TestTopicResultClone_IsIndependent(t *testing.T) {
	orig := &TopicResult{
		TopicCount: 1,
		Topics:     []Topic{{TopicID: 0, Words: []string{"fast"}}},
		Points:     []ProjectedPoint{{X: 1, TopicID: 0}},
	}
	dup := orig.Clone()
	dup.Topics[0].Words[0] = "slow"
	dup.Points[0].X = 9
	if orig.Topics[0].Words[0] != "fast" || orig.Points[0].X != 1 {
		t.Fatalf("Clone shares state with original: %#v", orig)
	}
}
