package mcpserver

// DealerFormatContract describes the record shape that LLM consumers must
// follow when adding dealers through the MCP tools.
const DealerFormatContract = `# Dealerdesk Dealer Format Contract

Every dealer added through the MCP tools MUST follow this structure.

## Structure

` + "```" + `json
{
  "name": "Haldar Traders",
  "contact": "📞 98300 11111",
  "rating": "⭐ 4.5",
  "regions": ["Burdwan", "Hooghly"],
  "paddyTypes": [
    { "name": "Swarna", "price": "₹2100", "unit": "per quintal" }
  ]
}
` + "```" + `

## Rules

1. **` + "`" + `name` + "`" + `, ` + "`" + `contact` + "`" + ` and ` + "`" + `rating` + "`" + ` are required** and must be non-empty.
   Dealer names are unique; adding a duplicate name fails.
2. **` + "`" + `contact` + "`" + ` and ` + "`" + `rating` + "`" + ` are free text** and conventionally carry the
   📞 and ⭐ glyphs shown above. Keep them if present.
3. **` + "`" + `paddyTypes` + "`" + ` needs at least one entry.** Each entry requires ` + "`" + `name` + "`" + `
   and ` + "`" + `price` + "`" + `; ` + "`" + `unit` + "`" + ` defaults to "per quintal" when omitted.
4. **` + "`" + `regions` + "`" + ` entries should match existing region labels** (see
   ` + "`" + `list_regions` + "`" + `). Unknown labels are accepted but will not appear in the
   page's area filter until the region is added.
5. **Edits are in-memory only** until ` + "`" + `save_directory` + "`" + ` commits them. A save
   rejected with a conflict means someone else changed the page; call
   ` + "`" + `refresh_directory` + "`" + ` and redo the edits.
`
