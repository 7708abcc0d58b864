package mcpserver

// SFMFormatContract describes the canonical SFM lexicon format that
// LLM consumers should follow when creating or updating files.
const SFMFormatContract = `# Laguz SFM Format Contract

Every lexicon file stored in Laguz MUST follow the Standard Format
Marker (SFM) structure used by MDF-style dictionaries.

## Structure

` + "```" + `sfm
\lx kan
\ps n
\ge water
\de fresh water from a spring or stream
\xv kan tumei
\xe the water is cold
\cf bo; ula

\lx bo
\ps n
\ge house
` + "```" + `

## Rules

1. **One field per line.** Each field starts with a backslash marker
   (` + "`" + `\lx` + "`" + `, ` + "`" + `\ge` + "`" + `, ...) followed by a single space and the value.
2. **` + "`" + `\lx` + "`" + ` opens an entry.** Every occurrence of ` + "`" + `\lx` + "`" + ` starts a new
   entry; all following fields belong to that entry until the next ` + "`" + `\lx` + "`" + `.
3. **Markers repeat.** An entry may carry the same marker several times
   (multiple senses, multiple examples). Order is significant and is
   preserved exactly.
4. **Continuation lines.** A line that does not start with a backslash
   marker continues the previous field's value.
5. **Common MDF markers:** ` + "`" + `\lx` + "`" + ` lexeme, ` + "`" + `\ps` + "`" + ` part of speech,
   ` + "`" + `\ge` + "`" + ` gloss (English), ` + "`" + `\de` + "`" + ` definition, ` + "`" + `\xv` + "`" + `/` + "`" + `\xe` + "`" + ` example and
   translation, ` + "`" + `\cf` + "`" + ` cross-reference, ` + "`" + `\mn` + "`" + ` main entry reference.
6. **Cross-references** (` + "`" + `\cf` + "`" + `, ` + "`" + `\mn` + "`" + `) name other headwords. Separate
   multiple targets with ` + "`" + `; ` + "`" + ` (semicolon and space).
7. **File paths** end with ` + "`" + `.sfm` + "`" + `, ` + "`" + `.db` + "`" + `, or ` + "`" + `.txt` + "`" + ` and use forward slashes.
8. **Encoding** is UTF-8 with a trailing newline.

## Example

` + "```" + `sfm
\lx tumei
\ps adj
\ge cold
\cf kan
\xv kan tumei
\xe the water is cold
` + "```" + `
`
