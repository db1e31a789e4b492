package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/goliatone/go-formflow/pkg/catalog"
	"github.com/goliatone/go-formflow/pkg/client"
	"github.com/goliatone/go-formflow/pkg/draft"
	"github.com/goliatone/go-formflow/pkg/fill"
	"github.com/goliatone/go-formflow/pkg/options"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/session"
	"github.com/goliatone/go-formflow/pkg/submit"
)

func main() {
	formID := flag.String("form", "", "form id to fill")
	source := flag.String("source", "forms.json", "catalog path or URL")
	serverURL := flag.String("server", "", "form service base URL; submits there when set")
	draftDir := flag.String("draft-dir", "", "directory for draft autosave (disabled if empty)")
	flag.Parse()

	if *formID == "" {
		log.Fatal("missing -form")
	}

	ctx := context.Background()

	loader := catalog.NewLoader(catalog.WithHTTPFallback(10 * time.Second))
	form, err := catalog.Form(ctx, loader, parseSource(*source), *formID)
	if err != nil {
		log.Fatalf("Failed to load form: %v", err)
	}

	var opts []session.Option
	var svc *client.Client
	if *serverURL != "" {
		svc = client.New(*serverURL)
		opts = append(opts,
			session.WithResolver(options.NewResolver(svc)),
			session.WithSubmitter(svc),
		)
	}
	if *draftDir != "" {
		store, err := draft.NewDirStore(*draftDir)
		if err != nil {
			log.Fatalf("Failed to open draft dir: %v", err)
		}
		opts = append(opts, session.WithDraftStore(store))
	}

	sess := session.New(form, opts...)
	defer sess.Close()

	if restored, err := sess.RestoreDraft(ctx); err != nil {
		log.Printf("Draft restore failed: %v", err)
	} else if restored {
		fmt.Println("Restored saved draft.")
	}

	if err := fill.New().Run(ctx, sess); err != nil {
		if errors.Is(err, fill.ErrAborted) {
			fmt.Println("Aborted.")
			os.Exit(1)
		}
		log.Fatalf("Fill failed: %v", err)
	}

	if svc != nil {
		sub, err := sess.Submit(ctx)
		if err != nil {
			log.Fatalf("Submit failed: %v", err)
		}
		fmt.Printf("Submitted %s at %s\n", sub.FormID, sub.SubmittedAt.Format(time.RFC3339))
		return
	}

	payload, err := renderPayload(sess.Values(), form)
	if err != nil {
		log.Fatalf("Failed to encode payload: %v", err)
	}
	fmt.Println(string(payload))
}

// renderPayload prints what a submit would send: the nested payload, not the
// flat value map.
func renderPayload(values map[string]any, form schema.FormDescriptor) ([]byte, error) {
	return json.MarshalIndent(submit.Reshape(values, form), "", "  ")
}

func parseSource(raw string) catalog.Source {
	path := strings.TrimSpace(raw)
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return catalog.SourceFromURL(path)
	}
	return catalog.SourceFromFile(path)
}
