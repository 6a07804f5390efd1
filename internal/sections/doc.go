// Package sections extracts structural regions from a free-form résumé
// written in markdown.
//
// # Regions
//
//   - Profile image: the first image whose URL starts with /api/images/ or
//     /data/images/. It is removed from the text only when it sits in one of
//     the first five lines.
//   - Image attributes: {.x-offset=N .y-offset=N} blocks following any managed
//     image, keyed by image id.
//   - Contact info: non-blank, non-image lines after the first "# " heading,
//     up to the first "## " heading.
//   - Skills and Languages: "- " bullet lines under "## Skills" and
//     "## Languages". Other lines in those sections are ignored.
//
// Extraction is permissive: malformed markdown never produces an error.
package sections
