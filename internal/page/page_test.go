package page

import (
	"context"
	"errors"
	"testing"

	"github.com/chromedp/cdproto/target"
	"github.com/nguyentantai21042004/yt-summarizer/internal/logger"
	"github.com/stretchr/testify/assert"
)

func TestPickTarget(t *testing.T) {
	targets := []*target.Info{
		{TargetID: "sw", Type: "service_worker", URL: "https://www.youtube.com/watch?v=sw"},
		{TargetID: "mail", Type: "page", URL: "https://mail.example.com/"},
		{TargetID: "video", Type: "page", URL: "https://www.youtube.com/watch?v=abc"},
		{TargetID: "other", Type: "page", URL: "https://www.youtube.com/watch?v=def"},
	}

	tests := []struct {
		name string
		url  string
		want target.ID
	}{
		{"exact url", "https://www.youtube.com/watch?v=def", "other"},
		{"same video with timestamp", "https://www.youtube.com/watch?v=abc&t=42s", "video"},
		{"short link", "https://youtu.be/def?t=10", "other"},
		{"first video tab", "", "video"},
		{"non video exact url", "https://mail.example.com/", "mail"},
		{"unknown url", "https://www.youtube.com/watch?v=zzz", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pickTarget(targets, tt.url)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			if assert.NotNil(t, got) {
				assert.Equal(t, tt.want, got.TargetID)
			}
		})
	}
}

func TestVideoID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=abc", "abc"},
		{"https://m.youtube.com/watch?t=42s&v=abc", "abc"},
		{"https://youtu.be/abc", "abc"},
		{"https://www.youtube.com/feed/subscriptions", ""},
		{"https://mail.example.com/watch?v=abc", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, videoID(tt.url))
		})
	}
}

func TestStaleTabs(t *testing.T) {
	tabs := map[target.ID]*Tab{"open": nil, "closed": nil}
	targets := []*target.Info{
		{TargetID: "open", Type: "page"},
		{TargetID: "new", Type: "page"},
	}

	assert.Equal(t, []target.ID{"closed"}, staleTabs(tabs, targets))
	assert.Empty(t, staleTabs(map[target.ID]*Tab{}, targets))
}

func TestForgetClosedNotifiesHooks(t *testing.T) {
	cancelled := 0
	b := &Browser{
		logger: logger.Discard(),
		tabs: map[target.ID]*Tab{
			"gone": {id: "gone", cancel: func() { cancelled++ }},
			"kept": {id: "kept", cancel: func() { cancelled++ }},
		},
	}
	var forgotten []string
	b.OnTabClosed(func(id string) { forgotten = append(forgotten, id) })

	b.forgetClosed(context.Background(), []*target.Info{{TargetID: "kept", Type: "page"}})

	assert.Equal(t, []string{"gone"}, forgotten)
	assert.Equal(t, 1, cancelled)
	assert.Contains(t, b.tabs, target.ID("kept"))
	assert.NotContains(t, b.tabs, target.ID("gone"))
}

func TestJSString(t *testing.T) {
	assert.Equal(t, `"#expand.ytd-text-inline-expander"`, JSString("#expand.ytd-text-inline-expander"))
	assert.Equal(t, `"a\"b"`, JSString(`a"b`))
	assert.Equal(t, `"\u003cbr/\u003e"`, JSString("<br/>"))
}

func TestScriptsQuoteSelectors(t *testing.T) {
	script := clickLabeledScript(`.yt-spec-button-shape-next`, `스크립트 표시`)
	assert.Contains(t, script, `"스크립트 표시"`)
	assert.Contains(t, script, `".yt-spec-button-shape-next"`)

	script = segmentsScript("#segments-container", ".segment-text")
	assert.Contains(t, script, `document.querySelector("#segments-container")`)
	assert.Contains(t, script, `container.querySelectorAll(".segment-text")`)
}

func TestWrapBrowserError(t *testing.T) {
	base := errors.New("dial tcp 127.0.0.1:9222: connect: connection refused")
	err := wrapBrowserError(base, "connect")

	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "remote-debugging-port")
	assert.Nil(t, wrapBrowserError(nil, "connect"))
}
