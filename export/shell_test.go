package export

import (
	"strings"
	"testing"
)

func TestRenderSurfaceShell(t *testing.T) {
	out, err := RenderSurfaceShell(DefaultTypography(), "", 794, 1123)
	if err != nil {
		t.Fatalf("render shell: %v", err)
	}

	for _, want := range []string{
		`<div id="content-inner"></div>`,
		"width: 794px;",
		"min-height: 1123px;",
		"padding: 60px 80px;",
		"font-size: 20px;",
		"line-height: 1.8",
		"font-family: 'Noto Sans Bengali', sans-serif;",
		"color: #000000;",
		"background: #ffffff;",
		"family=Noto+Sans+Bengali",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected shell to contain %q\n%s", want, out)
		}
	}
}

func TestRenderSurfaceShellWithoutFontLink(t *testing.T) {
	typo := DefaultTypography()
	typo.FontCSSURL = ""
	out, err := RenderSurfaceShell(typo, "target", 100, 200)
	if err != nil {
		t.Fatalf("render shell: %v", err)
	}
	if strings.Contains(out, "<link") {
		t.Fatalf("expected no font link")
	}
	if !strings.Contains(out, `#target {`) {
		t.Fatalf("expected custom container selector")
	}
}
