package importer

import (
	"strings"
	"testing"

	"github.com/dgallion1/startpage/internal/dashboard"
)

const netscapeExport = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
    <DT><H3 ADD_DATE="1700000000">Dev</H3>
    <DL><p>
        <DT><A HREF="https://github.com" ADD_DATE="1700000000">GitHub</A>
        <DT><H3>Go</H3>
        <DL><p>
            <DT><A HREF="https://pkg.go.dev">Packages</A>
        </DL><p>
    </DL><p>
    <DT><H3>Empty</H3>
    <DL><p>
    </DL><p>
    <DT><A HREF="https://news.ycombinator.com">HN</A>
    <DT><A HREF="place:sort=8">Recent</A>
</DL><p>
`

func TestHTMLParser_NetscapeBookmarks(t *testing.T) {
	p := &HTMLParser{}
	items, err := p.Parse(strings.NewReader(netscapeExport), "bookmarks.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected Dev folder and HN link, got %+v", items)
	}
	dev := items[0]
	if dev.Type != dashboard.TypeFolder || dev.Title != "Dev" {
		t.Fatalf("expected Dev folder, got %+v", dev)
	}
	if len(dev.Items) != 2 {
		t.Fatalf("expected Dev to hold 2 items, got %+v", dev.Items)
	}
	if dev.Items[0].Title != "GitHub" || dev.Items[0].URL != "https://github.com" {
		t.Errorf("expected GitHub link, got %+v", dev.Items[0])
	}
	goFolder := dev.Items[1]
	if goFolder.Title != "Go" || len(goFolder.Items) != 1 || goFolder.Items[0].URL != "https://pkg.go.dev" {
		t.Errorf("expected nested Go folder, got %+v", goFolder)
	}
	if items[1].Title != "HN" {
		t.Errorf("expected HN link, got %+v", items[1])
	}
}

func TestHTMLParser_PlainPageAnchors(t *testing.T) {
	input := `<html><head><title>Links</title></head><body>
<p><a href="https://a.example">A</a> and <a href="/relative">relative</a></p>
<ul><li><a href="https://b.example"></a></li></ul>
<script>var a = "<a href='https://c.example'>c</a>";</script>
</body></html>`

	p := &HTMLParser{}
	items, err := p.Parse(strings.NewReader(input), "page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 links, got %+v", items)
	}
	if items[0].Title != "A" {
		t.Errorf("expected title A, got %q", items[0].Title)
	}
	if items[1].Title != "https://b.example" {
		t.Errorf("expected empty anchor to be titled by url, got %q", items[1].Title)
	}
}
