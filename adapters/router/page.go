package exportrouter

import (
	"strconv"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-policydoc/export"
)

const (
	pageTitle       = "পেনশন পলিসি প্রস্তাব"
	downloadLabel   = "PDF ডাউনলোড করুন"
	busyLabel       = "PDF তৈরি হচ্ছে..."
	exportFailedMsg = "PDF তৈরি ব্যর্থ হয়েছে। আবার চেষ্টা করুন।"
)

// The inline script avoids double braces and "{#" so pongo2 leaves it alone.
const editorPageSource = `<!DOCTYPE html>
<html lang="bn">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{ title }}</title>
{% if font_css_url %}<link href="{{ font_css_url }}" rel="stylesheet">{% endif %}
<style>
body { margin: 0; background: #f3f4f6; font-family: {{ font_family|safe }}; }
.toolbar { display: flex; justify-content: flex-end; max-width: 794px; margin: 24px auto 12px; }
.toolbar button { font-family: inherit; font-size: 16px; padding: 10px 20px; border: 0; border-radius: 6px; background: #1d4ed8; color: #ffffff; cursor: pointer; }
.toolbar button[disabled] { background: #93a3c4; cursor: progress; }
#editable-document { max-width: 794px; margin: 0 auto 48px; background: {{ background|safe }}; box-shadow: 0 2px 12px rgba(0, 0, 0, 0.12); }
#{{ root_id }} { padding: {{ padding|safe }}; font-size: {{ font_size }}px; line-height: {{ line_height }}; color: {{ color|safe }}; }
.editable-field { color: #1d4ed8; border-bottom: 1px dashed #93c5fd; outline: none; }
.editable-field:focus { background: #eff6ff; }
</style>
</head>
<body>
<div class="toolbar">
<button type="button" id="download-pdf" data-label="{{ download_label }}" data-busy-label="{{ busy_label }}">{{ download_label }}</button>
</div>
<div id="editable-document">{{ content|safe }}</div>
<script>
(function () {
  var rootId = "{{ root_id }}";
  var filename = "{{ filename }}";
  var failed = "{{ failed_message }}";
  var button = document.getElementById("download-pdf");

  var queues = {};

  // Saves for one slot run in order so an older keystroke never lands last.
  function saveField(el) {
    var id = el.getAttribute("data-slot");
    var value = el.textContent;
    var prev = queues[id] || Promise.resolve();
    var next = prev.catch(function () {}).then(function () {
      return fetch("{{ api_base }}/fields/" + encodeURIComponent(id), {
        method: "PUT",
        headers: { "Content-Type": "application/json" },
        body: JSON.stringify({ value: value })
      });
    });
    queues[id] = next;
    return next;
  }

  function currentValues() {
    var values = {};
    for (var k = 0; k < slots.length; k++) {
      values[slots[k].getAttribute("data-slot")] = slots[k].textContent;
    }
    return values;
  }

  var slots = document.querySelectorAll("[data-slot]");
  for (var i = 0; i < slots.length; i++) {
    slots[i].addEventListener("input", function (ev) { saveField(ev.target); });
    slots[i].addEventListener("blur", function (ev) { saveField(ev.target); });
  }

  button.addEventListener("click", function () {
    if (button.disabled) { return; }
    button.disabled = true;
    button.textContent = button.getAttribute("data-busy-label");
    var values = currentValues();
    var pending = [];
    for (var id in queues) { pending.push(queues[id].catch(function () {})); }
    Promise.all(pending).then(function () {
      return fetch("{{ api_base }}/export", {
        method: "POST",
        headers: { "Content-Type": "application/json" },
        body: JSON.stringify({ element_id: rootId, filename: filename, values: values })
      });
    }).then(function (res) {
      if (!res.ok) { throw new Error("export failed: " + res.status); }
      return res.blob();
    }).then(function (blob) {
      var url = URL.createObjectURL(blob);
      var link = document.createElement("a");
      link.href = url;
      link.download = filename;
      document.body.appendChild(link);
      link.click();
      link.remove();
      URL.revokeObjectURL(url);
    }).catch(function (err) {
      console.error(err);
      alert(failed);
    }).finally(function () {
      button.disabled = false;
      button.textContent = button.getAttribute("data-label");
    });
  });
})();
</script>
</body>
</html>
`

var editorPage = pongo2.Must(pongo2.FromString(editorPageSource))

type pageData struct {
	Content  string
	RootID   string
	Filename string
	APIBase  string
	Typo     export.Typography
}

func renderPage(data pageData) (string, error) {
	typo := data.Typo
	return editorPage.Execute(pongo2.Context{
		"title":          pageTitle,
		"download_label": downloadLabel,
		"busy_label":     busyLabel,
		"failed_message": exportFailedMsg,
		"content":        data.Content,
		"root_id":        data.RootID,
		"filename":       data.Filename,
		"api_base":       data.APIBase,
		"font_css_url":   typo.FontCSSURL,
		"font_family":    typo.FontFamily,
		"font_size":      typo.FontSizePx,
		"line_height":    strconv.FormatFloat(typo.LineHeight, 'f', -1, 64),
		"padding":        typo.Padding,
		"color":          typo.Color,
		"background":     typo.Background,
	})
}
