package page

import "fmt"

func clickScript(selector string) string {
	return fmt.Sprintf(`(() => {
	const el = document.querySelector(%s);
	if (!el) return false;
	el.click();
	return true;
})()`, JSString(selector))
}

func clickLabeledScript(selector, label string) string {
	return fmt.Sprintf(`(() => {
	const label = %s;
	const el = Array.from(document.querySelectorAll(%s))
		.find((node) => node.getAttribute("aria-label") === label);
	if (!el) return false;
	el.click();
	return true;
})()`, JSString(label), JSString(selector))
}

func observeScript(rootSelector, name string) string {
	return fmt.Sprintf(`(() => {
	const root = document.querySelector(%s);
	if (!root) return false;
	const state = { count: 0, observer: null };
	state.observer = new MutationObserver(() => { state.count++; });
	state.observer.observe(root, { childList: true, subtree: true });
	window[%s] = state;
	return true;
})()`, JSString(rootSelector), JSString(name))
}

func countScript(name string) string {
	return fmt.Sprintf("window[%s].count", JSString(name))
}

func disconnectScript(name string) string {
	return fmt.Sprintf(`(() => {
	const state = window[%[1]s];
	if (state) {
		state.observer.disconnect();
		delete window[%[1]s];
	}
})()`, JSString(name))
}

func segmentsScript(containerSelector, segmentSelector string) string {
	return fmt.Sprintf(`(() => {
	const container = document.querySelector(%s);
	if (!container) return { found: false, texts: [] };
	const texts = Array.from(container.querySelectorAll(%s))
		.map((segment) => segment.textContent || "");
	return { found: true, texts };
})()`, JSString(containerSelector), JSString(segmentSelector))
}

func promptScript(message string) string {
	return "window.prompt(" + JSString(message) + ")"
}
