package mcpserver

// LinkSyntaxContract describes the wikilink syntax Raido recognizes and
// how each link type is validated. LLM consumers should read it before
// interpreting check_links output.
const LinkSyntaxContract = `# Raido Link Syntax Contract

Raido scans [[wikilinks]] inside Markdown notes and validates each one
according to its type tag.

## Syntax

` + "```" + `markdown
[[Note Title]]              roam link: resolved as a note title
[[Note Title|display text]] alias form; the alias is ignored for validation
[[file:./relative/path.md]] file link: resolved against the vault root
[[file:/absolute/path.md]]  file link: used as-is
[[https://example.com]]     scheme-typed link: assumed valid (not fetched)
` + "```" + `

## Validation rules

1. **roam** links are valid when the title resolves to an indexed note AND
   that note's file has content beyond its leading header lines.
2. **file** links are valid when the file exists AND has content beyond its
   leading header lines. Relative targets resolve against the vault root.
3. Any other type tag (https, mailto, custom schemes) is assumed valid:
   Raido has no means to judge it.
4. A note whose only content is headings and whitespace counts as blank,
   and links pointing at it are reported broken.

## check_links output

A JSON array of records ` + "`" + `{source, target, type}` + "`" + `, one per broken link
occurrence, in scan order. file targets written with a leading dot are
normalized to a path resolved against the source note's directory so they
stay navigable outside that note.
`
