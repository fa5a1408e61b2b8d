package htmldeck

const pageTemplate = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.DocumentTitle}}</title>
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<link rel="stylesheet" href="{{.RevealBase}}/dist/reveal.css">
<link rel="stylesheet" href="{{.RevealBase}}/dist/theme/black.css" id="theme">
<style>
:root {
  --brand-red: {{.Colors.Primary}}; --brand-orange: {{.Colors.Secondary}}; --brand-green: {{.Colors.Tertiary}};
}
.reveal { font-size: 28px; }
.brand-bar { height: 8px; display: grid; grid-template-columns: 1fr 1fr 1fr; }
.brand-bar > div:nth-child(1) { background: var(--brand-red); }
.brand-bar > div:nth-child(2) { background: var(--brand-orange); }
.brand-bar > div:nth-child(3) { background: var(--brand-green); }
.kpi { display: grid; grid-template-columns: repeat(3, 1fr); gap: 24px; margin-top: 24px; }
.kpi div { background: rgba(255,255,255,0.06); border-radius: 16px; padding: 20px; text-align: center; box-shadow: 0 6px 18px rgba(0,0,0,0.2); }
.kpi span { display: block; color: #bbb; font-size: 22px; }
.kpi strong { display: block; font-size: 56px; margin-top: 8px; font-weight: 800; color: var(--brand-green); }
.logo { position: absolute; top: 16px; right: 16px; width: 140px; }
.caption { color: #bbb; font-size: 20px; margin-top: 10px; }
.reveal .slides section { overflow-y: auto !important; }
.chart-wrap { max-height: 75vh; overflow: auto; display: grid; place-items: center; }
img.chart { max-width: 95vw; max-height: 70vh; object-fit: contain; border-radius: 14px; box-shadow: 0 6px 18px rgba(0,0,0,0.25); }
</style>
</head>
<body>
<div class="reveal"><div class="slides">
  <section data-background-color="#000">
    {{- if .Logo}}
    <img class="logo" src="{{.Logo}}" alt="Logo">
    {{- end}}
    <h1>{{.Title}}</h1>
    <h3>{{.Subtitle}}</h3>
    <p style="opacity:.7">Updated: {{.Updated}}</p>
    <div class="brand-bar"><div></div><div></div><div></div></div>
    <p class="caption">Auto-generated deck, optimized for CEO review</p>
  </section>
  <section>
    <h2>Key Metrics</h2>
    <div class="kpi">
      {{- range .KPIs}}
      <div><span>{{.Label}}</span><strong>{{.Value}}</strong></div>
      {{- end}}
    </div>
    <div class="brand-bar" style="margin-top:32px"><div></div><div></div><div></div></div>
  </section>
  {{- range .Sections}}
  <section>
    <h2>{{.Title}}</h2>
    <div class="chart-wrap"><img class="chart" src="{{.Image}}" alt="{{.Alt}}"></div>
    {{- if .Caption}}
    <p class="caption">{{.Caption}}</p>
    {{- end}}
  </section>
  {{- end}}
</div></div>
<script src="{{.RevealBase}}/dist/reveal.js"></script>
<script>Reveal.initialize({hash:true, slideNumber:true, transition:'fade'});</script>
</body>
</html>
`
