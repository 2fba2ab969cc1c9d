package usecase

import (
	"strings"

	"github.com/grocerybot/backend/internal/domain"
)

// BuildReformatPrompt wraps a raw grocery message in the reformatting instructions
func BuildReformatPrompt(text string) string {
	return `
You turn shopping lists into structured lines.

Rules:
- Output one line per product.
- Each line MUST have exactly this form: name | category | quantity | note
- quantity MUST be a whole number. Use 1 when the message gives none.
- note is free text such as brand, size or flavour. Leave it empty when there is nothing to add.
- category MUST be one of: ` + strings.Join(domain.Categories, ", ") + `
- Keep product names in the language of the message.
- NO explanations.
- NO markdown.
- NO headers or numbering.

Shopping list:
` + text
}
