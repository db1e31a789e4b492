package catalog_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/catalog"
	"github.com/goliatone/go-formflow/pkg/schema"
)

const formsJSON = `[
  {
    "formId": "life-insurance",
    "title": "Life Insurance",
    "fields": [
      {"id": "fullName", "label": "Full Name", "type": "text", "required": true},
      {"id": "country", "label": "Country", "type": "select", "options": ["USA", "Canada"]}
    ]
  },
  {
    "formId": "home-insurance",
    "title": "Home Insurance",
    "fields": [
      {"id": "street", "label": "Street", "type": "text"}
    ]
  }
]`

const formsYAML = `forms:
  - formId: auto-insurance
    title: Auto Insurance
    fields:
      - id: make
        label: Make
        type: text
      - id: fuel
        label: Fuel
        type: select
        options:
          - Gas
          - label: Electric
            value: EV
`

func TestCatalog_JSONFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"forms.json": {Data: []byte(formsJSON)},
	}
	loader := catalog.NewLoader(catalog.WithFileSystem(fsys))

	forms, err := catalog.Catalog(context.Background(), loader, catalog.SourceFromFS("forms.json"))
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if len(forms) != 2 {
		t.Fatalf("forms = %d, want 2", len(forms))
	}

	want := []schema.Option{
		{Label: "USA", Value: "USA"},
		{Label: "Canada", Value: "Canada"},
	}
	if diff := cmp.Diff(want, forms[0].Fields[1].Options); diff != "" {
		t.Fatalf("bare-string options mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalog_YAML(t *testing.T) {
	fsys := fstest.MapFS{
		"forms.yaml": {Data: []byte(formsYAML)},
	}
	loader := catalog.NewLoader(catalog.WithFileSystem(fsys))

	forms, err := catalog.Catalog(context.Background(), loader, catalog.SourceFromFS("forms.yaml"))
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if len(forms) != 1 || forms[0].FormID != "auto-insurance" {
		t.Fatalf("unexpected forms: %+v", forms)
	}

	want := []schema.Option{
		{Label: "Gas", Value: "Gas"},
		{Label: "Electric", Value: "EV"},
	}
	if diff := cmp.Diff(want, forms[0].Fields[1].Options); diff != "" {
		t.Fatalf("yaml options mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalog_SanitizesDescriptors(t *testing.T) {
	dirty := `[{"formId": "f", "title": "Hi <script>alert(1)</script>", "fields": [{"id": "a", "type": "text"}]}]`
	fsys := fstest.MapFS{"forms.json": {Data: []byte(dirty)}}
	loader := catalog.NewLoader(catalog.WithFileSystem(fsys))

	forms, err := catalog.Catalog(context.Background(), loader, catalog.SourceFromFS("forms.json"))
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if strings.Contains(forms[0].Title, "<script>") {
		t.Fatalf("title not sanitised: %q", forms[0].Title)
	}
}

func TestCatalog_RejectsInvalidDescriptor(t *testing.T) {
	bad := `[{"formId": "f", "fields": [{"id": "dup", "type": "text"}, {"id": "dup", "type": "text"}]}]`
	fsys := fstest.MapFS{"forms.json": {Data: []byte(bad)}}
	loader := catalog.NewLoader(catalog.WithFileSystem(fsys))

	if _, err := catalog.Catalog(context.Background(), loader, catalog.SourceFromFS("forms.json")); err == nil {
		t.Fatal("invalid descriptor accepted")
	}
}

func TestForm_ByID(t *testing.T) {
	fsys := fstest.MapFS{"forms.json": {Data: []byte(formsJSON)}}
	loader := catalog.NewLoader(catalog.WithFileSystem(fsys))
	ctx := context.Background()
	src := catalog.SourceFromFS("forms.json")

	form, err := catalog.Form(ctx, loader, src, "home-insurance")
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	if form.Title != "Home Insurance" {
		t.Fatalf("title = %q", form.Title)
	}

	if _, err := catalog.Form(ctx, loader, src, "boat-insurance"); !errors.Is(err, catalog.ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound, got %v", err)
	}
}

func TestCatalog_HTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(formsJSON))
	}))
	defer srv.Close()

	loader := catalog.NewLoader(catalog.WithHTTPFallback(5 * time.Second))
	forms, err := catalog.Catalog(context.Background(), loader, catalog.SourceFromURL(srv.URL+"/forms.json"))
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if len(forms) != 2 {
		t.Fatalf("forms = %d, want 2", len(forms))
	}
}

func TestCatalog_HTTPDisabledByDefault(t *testing.T) {
	loader := catalog.NewLoader()
	_, err := catalog.Catalog(context.Background(), loader, catalog.SourceFromURL("http://example.com/forms.json"))
	if err == nil || !strings.Contains(err.Error(), "http support disabled") {
		t.Fatalf("expected http-disabled error, got %v", err)
	}
}
