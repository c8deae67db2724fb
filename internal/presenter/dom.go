package presenter

import (
	"context"
	"fmt"
	"strconv"

	"github.com/nguyentantai21042004/yt-summarizer/internal/page"
)

const (
	notificationClass = "youtube-script-notification"
	panelClass        = "youtube-summary-panel"
)

const notificationStyle = "position: fixed; top: 20px; right: 20px; padding: 15px; color: white; " +
	"font-size: 16px; border-radius: 5px; z-index: 99999; box-shadow: 0 4px 8px rgba(0, 0, 0, 0.2); " +
	"opacity: 0; transition: opacity 0.5s ease-in-out;"

const panelStyle = "position: fixed; top: 0; right: 0; width: 400px; height: 100%; background-color: #f9f9f9; " +
	"border-left: 1px solid #ddd; z-index: 9999; overflow-y: scroll; padding: 20px; " +
	"box-shadow: -2px 0 10px rgba(0,0,0,0.1); font-family: sans-serif; line-height: 1.6; font-size: 16px;"

const closeButtonStyle = "position: absolute; top: 10px; right: 10px; background: #ccc; border: none; " +
	"border-radius: 50%; width: 30px; height: 30px; cursor: pointer; font-weight: bold;"

// Evaluator runs a script in a page.
type Evaluator interface {
	Evaluate(ctx context.Context, script string, res any) error
}

// DOMSurface draws into the video page. Text is always assigned through
// textContent.
type DOMSurface struct {
	page Evaluator
}

func NewDOMSurface(p Evaluator) *DOMSurface {
	return &DOMSurface{page: p}
}

func (s *DOMSurface) MountNotification(ctx context.Context, id, message, color string) error {
	script := fmt.Sprintf(`(() => {
	const el = document.createElement("div");
	el.id = %s;
	el.className = %s;
	el.textContent = %s;
	el.style.cssText = %s + "background-color: " + %s + ";";
	document.body.appendChild(el);
})()`,
		page.JSString(id), page.JSString(notificationClass), page.JSString(message),
		page.JSString(notificationStyle), page.JSString(color))
	return s.page.Evaluate(ctx, script, nil)
}

func (s *DOMSurface) SetOpacity(ctx context.Context, id string, opacity float64) error {
	script := fmt.Sprintf(`(() => {
	const el = document.getElementById(%s);
	if (el) el.style.opacity = %s;
})()`, page.JSString(id), page.JSString(strconv.FormatFloat(opacity, 'f', -1, 64)))
	return s.page.Evaluate(ctx, script, nil)
}

func (s *DOMSurface) MountPanel(ctx context.Context, id, header, body string) error {
	script := fmt.Sprintf(`(() => {
	const panel = document.createElement("div");
	panel.id = %s;
	panel.className = %s;
	panel.style.cssText = %s;

	const header = document.createElement("h2");
	header.textContent = %s;

	const content = document.createElement("div");
	const p = document.createElement("p");
	p.textContent = %s;
	p.style.whiteSpace = "pre-wrap";
	p.style.marginBottom = "20px";
	content.appendChild(p);

	const close = document.createElement("button");
	close.textContent = "X";
	close.style.cssText = %s;
	close.addEventListener("click", () => panel.remove());

	panel.appendChild(header);
	panel.appendChild(content);
	panel.appendChild(close);
	document.body.appendChild(panel);
})()`,
		page.JSString(id), page.JSString(panelClass), page.JSString(panelStyle),
		page.JSString(header), page.JSString(body), page.JSString(closeButtonStyle))
	return s.page.Evaluate(ctx, script, nil)
}

func (s *DOMSurface) Unmount(ctx context.Context, id string) error {
	script := fmt.Sprintf(`(() => {
	const el = document.getElementById(%s);
	if (el) el.remove();
})()`, page.JSString(id))
	return s.page.Evaluate(ctx, script, nil)
}
