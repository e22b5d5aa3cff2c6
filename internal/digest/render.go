package digest

import (
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"

	"github.com/vintedhsp-byte/vc-signal-bot/internal/signal"
)

var digestTmpl = template.Must(template.New("digest").Parse(`
<div style="font-family:Inter,system-ui,-apple-system,Segoe UI,Roboto,Helvetica,Arial,sans-serif;background:#f8fafc;padding:24px">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width:780px;margin:0 auto;background:#fff;border:1px solid #e5e7eb;border-radius:12px;overflow:hidden">
    <tr>
      <td style="background:#0f172a;color:#fff;padding:18px 20px">
        <div style="font-size:18px;font-weight:700">VC Signals — Recap</div>
        <div style="opacity:.85;font-size:12px">{{.Timestamp}} ({{.Timezone}}) • window: {{.WindowHours}}h</div>
      </td>
    </tr>
    {{range .Items}}<tr>
      <td style="padding:12px 10px;border-bottom:1px solid #eee">
        <div style="font-weight:600;font-size:16px;margin-bottom:4px">{{if .URL}}<a href="{{.URL}}" style="text-decoration:none;color:#2563eb">{{.Name}}</a>{{else}}{{.Name}}{{end}}</div>
        <div style="margin:6px 0"><span style="display:inline-block;padding:2px 8px;border-radius:12px;background:#eef;border:1px solid #ccd;font-size:12px;margin-right:6px">Score {{.Score}}</span><span style="display:inline-block;padding:2px 8px;border-radius:12px;background:#eef;border:1px solid #ccd;font-size:12px;margin-right:6px">Sources: {{len .Tags}}</span></div>
        <div style="color:#6b7280;font-size:13px">Sources: {{.TagList}}</div>
      </td>
    </tr>
    {{else}}<tr><td style="padding:16px">No new items in this window.</td></tr>
    {{end}}
  </table>
  <div style="max-width:780px;margin:12px auto 0;color:#6b7280;font-size:12px">
    Treat as research starters (not buy signals).
  </div>
</div>
`))

type itemView struct {
	Name    string
	URL     string
	Tags    []string
	TagList string
	Score   int
}

type digestView struct {
	Timestamp   string
	Timezone    string
	WindowHours int
	Items       []itemView
}

// sortPending orders items by score descending, then name ascending.
func sortPending(pending []signal.PendingSignal) []signal.PendingSignal {
	items := append([]signal.PendingSignal(nil), pending...)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
	return items
}

func renderHTML(pending []signal.PendingSignal, now time.Time, cfg Config) string {
	view := digestView{
		Timestamp:   now.Format("2006-01-02 15:04"),
		Timezone:    cfg.Timezone,
		WindowHours: int(cfg.Window / time.Hour),
	}
	for _, item := range sortPending(pending) {
		view.Items = append(view.Items, itemView{
			Name:    item.Name,
			URL:     item.URL,
			Tags:    item.Tags,
			TagList: strings.Join(item.Tags, ", "),
			Score:   item.Score,
		})
	}

	var b strings.Builder
	if err := digestTmpl.Execute(&b, view); err != nil {
		// Template and view are both fully under our control.
		return fmt.Sprintf("VC Signals — Recap (%d items)", len(pending))
	}
	return b.String()
}

func renderPlain(pending []signal.PendingSignal) string {
	var b strings.Builder
	b.WriteString("VC Signals — Recap\n\n")
	for _, item := range sortPending(pending) {
		fmt.Fprintf(&b, "- %s  (sources: %s)\n", item.Name, strings.Join(item.Tags, ", "))
	}
	return b.String()
}
