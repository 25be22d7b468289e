package mcpserver

// CitationFormatContract describes the citation sidecar format that LLM
// consumers should follow when replacing a source's citations.
const CitationFormatContract = `# flashcite Citation Format

Every source document ` + "`" + `<name>.json` + "`" + ` may have a sidecar
` + "`" + `<name>.citations.json` + "`" + ` holding the citations of the flashcards generated from it.

## Structure

` + "```" + `json
[
  {
    "citation_id": 1,
    "citation_type": "sentence_range",
    "citation_data": [[3, 5]],
    "card_id": 42,
    "card_front": "What does ATP store?",
    "card_back": "Chemical energy",
    "preview_text": "ATP stores energy. ...",
    "card_index": 0
  }
]
` + "```" + `

An object ` + "`" + `{"citations": [...]}` + "`" + ` is accepted as well.

## Citation types

| citation_type | unit | citation_data |
|---|---|---|
| ` + "`" + `sentence_range` + "`" + ` | global sentence number | integer ranges |
| ` + "`" + `paragraph` + "`" + ` | global paragraph number | integer ranges |
| ` + "`" + `section` + "`" + ` | top-level section number | integer ranges |
| ` + "`" + `list` + "`" + ` | list number | integer ranges |
| ` + "`" + `table` + "`" + ` | table number | integer ranges |
| ` + "`" + `block` + "`" + ` | OCR block id | integer ranges |
| ` + "`" + `video_timestamp` + "`" + ` | seconds | real ranges, overlap semantics |

Legacy names ` + "`" + `sentence` + "`" + `, ` + "`" + `html_paragraph` + "`" + `, ` + "`" + `html_section` + "`" + `, ` + "`" + `html_list` + "`" + `,
` + "`" + `html_table` + "`" + ` and ` + "`" + `image_block` + "`" + ` map onto the types above.

## Rules

1. **Ranges are closed.** ` + "`" + `[3, 5]` + "`" + ` covers units 3, 4 and 5. A single unit is ` + "`" + `[n, n]` + "`" + `.
2. **A flat pair is one range.** ` + "`" + `[3, 5]` + "`" + ` and ` + "`" + `[[3, 5]]` + "`" + ` are equivalent, as is the object
   form ` + "`" + `{"range": [3, 5]}` + "`" + ` (alone or inside a list).
3. **start <= end**, both finite. Citations breaking this are skipped, not fatal.
4. **Numbers are 1-based** and follow the markers in the source (` + "`" + `[Paragraph 4]` + "`" + `, ` + "`" + `[List 2]` + "`" + `).
5. **Parents absorb children.** A cited paragraph shows the cards of its cited sentences;
   a cited block shows those of its paragraphs and sentences. Sections do so only when
   section highlighting is enabled.
6. **List items are not citable.** Cite the list; every item shows the list's cards.
7. **Cards are ordered by citation_id** within a unit; the first citation of a card
   supplies its tooltip text.
`
