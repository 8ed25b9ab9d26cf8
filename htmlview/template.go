package htmlview

const pageHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { margin: 0; display: flex; font-family: sans-serif; }
.document { flex: none; position: relative; }
.page { position: relative; }
.page img { display: block; }
.highlight { cursor: pointer; }
.highlight div { position: absolute; background: rgba(255, 212, 59, 0.4); }
.blink-highlight div { background: rgba(255, 146, 43, 0.6); }
.bar { flex: 1; padding: 16px; overflow-y: auto; height: 100vh; box-sizing: border-box; }
.comment { cursor: pointer; padding: 8px; border-bottom: 1px solid #ddd; }
.comment.blink-comment { background: #fff3bf; }
.referencing { color: #666; font-style: italic; }
.add-comment { position: absolute; z-index: 1; }
</style>
</head>
<body>
<div class="document">
{{- range .Pages}}
<div class="page" id="page-{{.Number}}" style="width: {{px .Width}}; height: {{px .Height}}">
<img src="{{.Src}}" width="{{.Width}}" height="{{.Height}}" alt="page {{.Number}}">
{{- range .Overlays}}
<div class="highlight {{.Class}}" id="{{.ID}}" onclick="pulse({{.CommentID}}, 'blink-comment')">
{{- range .Rects}}
<div style="left: {{px .Left}}; top: {{px .Top}}; width: {{px .Width}}; height: {{px .Height}}"></div>
{{- end}}
</div>
{{- end}}
</div>
{{- end}}
{{- with .Extra}}
<button class="add-comment" style="left: {{px .X}}; top: {{px .Y}}">Add Comment</button>
{{- end}}
</div>
<div class="bar">
<h2>{{.ArticleName}}</h2>
<p>Review by {{.Reviewer}} <span class="status">{{.Status}}</span>{{if .StatusLocked}} (article approved){{end}}</p>
<div class="main">{{.Main}}</div>
{{- if .InlineTitle}}
<h3>{{.InlineTitle}}</h3>
{{- range .Items}}
<div class="comment {{.Class}}" id="{{.ID}}" onclick="pulse({{.HighlightID}}, 'blink-highlight')">
<div class="referencing">{{.Referencing}}</div>
<div class="content">{{.Content}}</div>
</div>
{{- end}}
{{- end}}
</div>
<script>
var durations = {{.Pulse}};
function pulse(id, cls) {
  var el = document.getElementById(id);
  if (!el) return;
  el.scrollIntoView({behavior: "smooth", block: "center"});
  el.classList.add(cls);
  setTimeout(function () { el.classList.remove(cls); }, durations[cls]);
}
{{- if .Focus}}
document.getElementById({{.Focus}}).scrollIntoView({block: "center"});
{{- end}}
</script>
</body>
</html>
`
