// Package markcv renders a markdown résumé into a printable HTML page.
//
// # Quick Start
//
// Wire the stores and render with the default template:
//
//	docs := markcv.NewFileDocumentStore("data/cv.md")
//	images := markcv.NewFileImageStore("data/images", "data/images_metadata.json")
//
//	svc, err := markcv.NewService(docs, images)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	art, err := svc.Render(ctx, markcv.RenderRequest{TemplateID: "europass"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(art.Filename, art.Content, 0644)
//
// The page opens the browser print dialog shortly after loading, so saving
// it as PDF is left to the browser.
//
// # Render Pipeline
//
//  1. Template resolution, falling back to "europass", then to a plain
//     render with only a base stylesheet
//  2. Section extraction (profile image, offsets, contact, skills, languages)
//  3. Inline rendering of each extracted line
//  4. Image relocation into a per-render staging directory
//  5. One converter invocation with the assembled template variables
//  6. Auto-print script injection before the closing body tag
//
// # Configuration
//
// Use functional options to replace collaborators:
//
//	svc, err := markcv.NewService(docs, images,
//	    markcv.WithCatalog(markcv.NewCatalog("cv_templates", "static/css/themes", logger)),
//	    markcv.WithInlineRenderer(markcv.NewGoldmarkConverter()),
//	    markcv.WithPrintDelay(time.Second),
//	)
//
// # Errors
//
// Template and inline rendering failures never fail a render; they are
// reported on the Artifact. Document store failures wrap ErrDocumentRead.
// Converter failures are *ConversionError values carrying the converter's
// stderr; a converter that exits cleanly without producing a file yields
// ErrNoOutput. Both match ErrConversion.
//
// A render runs to completion once started; cancelling its context does not
// abort it.
package markcv
