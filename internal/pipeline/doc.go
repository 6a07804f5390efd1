// Package pipeline implements the stages that turn a résumé document into a
// printable HTML page.
//
// Stages:
//   - Conversion: DocumentConverter renders a full document through a layout
//     template; FragmentConverter renders single markdown lines. Pandoc backs
//     both, goldmark can back fragments.
//   - Inline rendering: InlineRenderer converts extracted lines to inline HTML
//     and falls back to the original text on failure.
//   - Relocation: Relocator copies managed images into a staging directory and
//     rewrites their URLs to staging-relative paths.
//   - Post-processing: InjectPrintScript adds the auto-print trigger.
//
// Orchestration lives in the root markcv package.
package pipeline
