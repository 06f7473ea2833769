package clipboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
)

// Tab copies text by running a small script inside the source tab: an
// off-screen textarea is created, selected, and a copy command issued,
// then the element is removed. The helper element lives only within the
// single evaluation.
type Tab struct {
	CDPURL string
}

func (Tab) Name() string { return "tab" }

func (w Tab) Write(ctx context.Context, targetID, text string) error {
	if targetID == "" {
		return fmt.Errorf("tab clipboard write: missing target id")
	}

	allocCtx, allocCancel := chromedp.NewRemoteAllocator(ctx, w.CDPURL)
	defer allocCancel()

	tabCtx, tabCancel := chromedp.NewContext(allocCtx, chromedp.WithTargetID(target.ID(targetID)))
	defer tabCancel()

	var ok bool
	if err := chromedp.Run(tabCtx, chromedp.Evaluate(copyScript(text), &ok)); err != nil {
		return fmt.Errorf("tab clipboard write: %w", err)
	}
	if !ok {
		return fmt.Errorf("tab clipboard write: copy command rejected")
	}
	slog.Debug("tab clipboard write ok", "target_id", targetID, "bytes", len(text))
	return nil
}

// copyScript builds the in-page copy expression. The payload is embedded as
// a JSON string literal so arbitrary text cannot break out of the script.
func copyScript(text string) string {
	return `(function(){
try {
var ta = document.createElement('textarea');
ta.value = ` + jsString(text) + `;
ta.style.position = 'fixed';
ta.style.left = '-9999px';
document.body.appendChild(ta);
ta.select();
var ok = document.execCommand('copy');
document.body.removeChild(ta);
return ok === true;
} catch (err) {
return false;
}
})()`
}

func jsString(v string) string {
	b, _ := json.Marshal(v)
	return string(b)
}
