package render

// ToggleAllID is the id of the page-level expand/collapse-all control.
const ToggleAllID = "flowchart-toggle-all"

const pageTemplates = `
{{define "tree"}}<div class="flowchart" data-root="{{.ID}}">{{template "node" .}}</div>{{end}}

{{define "node"}}<div class="flow-node flow-{{.Type}}" id="{{.ID}}" data-type="{{.Type}}" data-depth="{{.Depth}}" data-position="{{.Position}}"{{if .HasDetail}} data-detail-expanded="{{.DetailExpanded}}"{{end}}>
<div class="flow-header" role="button" tabindex="0" data-node="{{.ID}}"{{if .Collapsible}} aria-expanded="{{.ChildrenExpanded}}"{{end}}>{{if .Position}}<span class="flow-position">{{.Position}}</span> {{end}}<span class="flow-label">{{.Label}}</span>{{if .Collapsible}} <span class="flow-indicator">{{if .ChildrenExpanded}}&minus;{{else}}+{{end}}</span>{{end}}</div>
{{if .HasDetail}}<div class="flow-detail" data-node="{{.ID}}"{{if not .DetailExpanded}} hidden{{end}}>{{.Detail}}</div>
{{end}}{{if .Children}}<div class="flow-children flow-{{if .Choice}}choice{{else}}sequential{{end}}"{{if not .ChildrenExpanded}} hidden{{end}}>
{{range $i, $c := .Children}}{{if and $.Choice $i}}<hr class="flow-divider">
{{end}}{{template "node" $c}}
{{end}}</div>
{{end}}</div>{{end}}

{{define "error"}}<div class="flow-error" role="alert"><p>{{.}}</p></div>{{end}}

{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} · {{.SiteTitle}}</title>
<style>
.flow-node{margin:.25rem 0 .25rem 1rem}
.flow-header{cursor:pointer}
.flow-position{font-family:monospace;color:#666}
.flow-warning>.flow-header{color:#b45309}
.flow-divider{border:0;border-top:1px dashed #ccc}
.flow-error{padding:1rem;border:1px solid #dc2626;color:#991b1b}
</style>
</head>
<body>
<header><a href="/">{{.SiteTitle}}</a><h1>{{.Title}}</h1></header>
<main>
{{if .ToggleAll}}<button id="flowchart-toggle-all" type="button" aria-pressed="false">Expand all</button>
{{end}}<div id="{{.ContainerID}}" class="flowchart-container" data-flowchart="{{.Name}}"></div>
</main>
<script>
(function () {
  var box = document.getElementById({{.ContainerID}});
  if (!box || !box.dataset.mount) return;
  var base = "/api/mounts/" + box.dataset.mount;
  function refresh() {
    return fetch(base + "/fragment").then(function (r) { return r.text(); }).then(function (html) { box.innerHTML = html; });
  }
  box.addEventListener("click", function (e) {
    var el = e.target.closest("[data-node]");
    if (!el) return;
    var facet = el.classList.contains("flow-detail") ? "?facet=detail" : "";
    fetch(base + "/nodes/" + encodeURIComponent(el.dataset.node) + "/activate" + facet, { method: "POST" }).then(refresh);
  });
  var all = document.getElementById("flowchart-toggle-all");
  if (all) {
    all.addEventListener("click", function () {
      fetch(base + "/toggle-all", { method: "POST" }).then(function (r) { return r.json(); }).then(function (s) {
        all.setAttribute("aria-pressed", String(s.all_expanded));
        all.textContent = s.all_expanded ? "Collapse all" : "Expand all";
        return refresh();
      });
    });
  }
})();
</script>
</body>
</html>
{{end}}

{{define "index"}}<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.SiteTitle}}</title></head>
<body>
<h1>{{.SiteTitle}}</h1>
<ul>
{{range .Entries}}<li><a href="/flowcharts/{{.Name}}">{{.Title}}</a></li>
{{else}}<li>No flowcharts available.</li>
{{end}}</ul>
</body>
</html>
{{end}}
`
