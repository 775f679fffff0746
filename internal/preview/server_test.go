package preview

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/webcell/pkg/cell"
	"github.com/vango-dev/webcell/pkg/dom"
	"github.com/vango-dev/webcell/pkg/loop"
	"github.com/vango-dev/webcell/pkg/metrics"
	"github.com/vango-dev/webcell/pkg/vdom"
)

type fixture struct {
	t      *testing.T
	ctx    context.Context
	rt     *cell.Runtime
	server *Server
	http   *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	reg := prometheus.NewRegistry()
	lp := loop.New()
	rt := cell.NewRuntime(dom.NewDocument(),
		cell.WithLoop(lp),
		cell.WithMetrics(metrics.New(metrics.WithRegistry(reg))),
	)
	card := cell.Define("x-preview-card").
		Style("p { color: red; }").
		Render(func(c *cell.Component) any {
			return vdom.H("p", nil, "hi")
		}).
		MustBuild()
	if err := rt.Register(card); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	go lp.Run(ctx)

	s := New(rt, Config{Title: "Preview", Gatherer: reg})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.Close()
		ts.Close()
	})
	return &fixture{t: t, ctx: ctx, rt: rt, server: s, http: ts}
}

func (f *fixture) do(fn func()) {
	f.t.Helper()
	if err := f.rt.Loop().Do(f.ctx, fn); err != nil {
		f.t.Fatalf("Do() error: %v", err)
	}
}

func (f *fixture) get(path string) string {
	f.t.Helper()
	resp, err := http.Get(f.http.URL + path)
	if err != nil {
		f.t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		f.t.Fatalf("GET %s: status %d", path, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		f.t.Fatal(err)
	}
	return string(data)
}

func (f *fixture) mountCard() {
	f.do(func() {
		doc := f.rt.Document()
		doc.Body().AppendChild(doc.CreateElement("x-preview-card"))
	})
}

func TestPageServesDocument(t *testing.T) {
	f := newFixture(t)
	f.mountCard()

	page := f.get("/")
	for _, want := range []string{
		"<title>Preview</title>",
		`<x-preview-card><template shadowrootmode="open"><style>p { color: red; }</style><p>hi</p></template></x-preview-card>`,
		"new WebSocket(",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q:\n%s", want, page)
		}
	}

	body := f.get("/body")
	if strings.Contains(body, "<html") || !strings.HasPrefix(body, "<x-preview-card>") {
		t.Errorf("/body = %q", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.mountCard()

	f.get("/body")
	out := f.get("/metrics")
	for _, want := range []string{
		"webcell_renders_total",
		"webcell_dom_mutations_total",
		`webcell_http_requests_total{code="200",route="/body"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("/metrics missing %s", want)
		}
	}
}

func TestWebSocketStreamsMutations(t *testing.T) {
	f := newFixture(t)

	url := "ws" + strings.TrimPrefix(f.http.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	read := func() Message {
		t.Helper()
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage() error: %v", err)
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("bad message %s: %v", data, err)
		}
		return msg
	}

	hello := read()
	if hello.Type != MessageHello || hello.ID == "" {
		t.Fatalf("first message = %+v, want hello with id", hello)
	}

	// The hello is queued before the client is registered with the hub.
	for f.server.Hub().ClientCount() == 0 {
		time.Sleep(time.Millisecond)
	}

	f.do(func() {
		f.rt.Document().Body().SetAttribute("data-state", "ready")
	})

	msg := read()
	want := Record{Kind: "attributes", Target: "/html[0]/body[0]", Name: "data-state", Value: "ready"}
	if msg.Type != MessageMutation || msg.Record == nil || *msg.Record != want {
		t.Errorf("mutation = %+v, want %+v", msg.Record, want)
	}
}

func TestNodePath(t *testing.T) {
	doc := dom.NewDocument()
	host := doc.CreateElement("x-a")
	doc.Body().AppendChild(doc.CreateElement("p"))
	doc.Body().AppendChild(host)
	inner := doc.CreateElement("span")
	host.AttachShadow().AppendChild(inner)

	if got, want := NodePath(inner), "/html[0]/body[0]/x-a[1]/#shadow-root/span[0]"; got != want {
		t.Errorf("NodePath() = %q, want %q", got, want)
	}
}

func TestNewRecordAdded(t *testing.T) {
	doc := dom.NewDocument()
	var got Record
	stop := doc.Observe(func(m dom.Mutation) { got = NewRecord(m) })
	defer stop()

	p := doc.CreateElement("p")
	p.AppendChild(doc.CreateTextNode("a < b"))
	doc.Body().AppendChild(p)

	want := Record{Kind: "childList", Target: "/html[0]/body[0]", Added: "<p>a &lt; b</p>"}
	if got != want {
		t.Errorf("NewRecord() = %+v, want %+v", got, want)
	}
}
