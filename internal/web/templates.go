package web

import "html/template"

const shellHTML = `<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<script>
(function () {
  var opts = "; path=/; max-age=31536000; samesite=lax";
  document.cookie = "vw=" + window.innerWidth + opts;
  document.cookie = "tp=" + (navigator.maxTouchPoints || 0) + opts;
  document.cookie = "te=" + ("ontouchstart" in window) + opts;
})();
</script>
</head>
<body class="{{if .Mobile}}is-mobile{{else}}is-desktop{{end}}">
<div id="app"
  data-view="{{.View}}"
  data-route="{{.RouteName}}"
  data-platform="{{.Platform}}"
  data-logged-in="{{.LoggedIn}}"
  data-params="{{.ParamsJSON}}">
  {{if .Error}}<p class="error" role="alert">{{.Error}}</p>{{end}}
  {{if .LoggedIn}}<p class="greeting">{{.DisplayName}}</p>{{end}}
  {{if .IsLogin}}
  <form method="post" action="{{.Path}}">
    <input type="hidden" name="redirect" value="{{.Redirect}}">
    <input name="username" autocomplete="username" required>
    <input name="password" type="password" autocomplete="current-password">
    <button type="submit">로그인</button>
  </form>
  {{end}}
</div>
</body>
</html>
`

var shellTemplate = template.Must(template.New("shell").Parse(shellHTML))
