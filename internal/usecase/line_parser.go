package usecase

import (
	"log"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/grocerybot/backend/internal/domain"
)

// fieldDelimiter separates the fields of an item line
const fieldDelimiter = "|"

// itemFieldCount is the number of fields in "name | category | quantity | note"
const itemFieldCount = 4

// QuantityPolicy decides what happens to a line whose quantity is not a number
type QuantityPolicy string

const (
	// QuantityPassthrough keeps the item with a nil quantity
	QuantityPassthrough QuantityPolicy = "passthrough"
	// QuantityReject drops the line
	QuantityReject QuantityPolicy = "reject"
	// QuantityZero keeps the item with quantity 0
	QuantityZero QuantityPolicy = "zero"
)

// ParserConfig holds configuration for the line parser
type ParserConfig struct {
	QuantityPolicy     QuantityPolicy
	StrictCategories   bool
	EnableDebugLogging bool
}

// LineParser converts pipe-delimited grocery text into items.
// It holds no mutable state and is safe for concurrent use.
type LineParser struct {
	quantityPolicy     QuantityPolicy
	strictCategories   bool
	enableDebugLogging bool
	validate           *validator.Validate
}

// NewLineParser creates a new line parser
func NewLineParser(config ParserConfig) *LineParser {
	policy := config.QuantityPolicy
	if policy == "" {
		policy = QuantityPassthrough
	}

	v := validator.New()
	// Registration only fails on an empty tag or nil func
	_ = v.RegisterValidation("grocery_category", func(fl validator.FieldLevel) bool {
		return domain.IsValidCategory(fl.Field().String())
	})

	return &LineParser{
		quantityPolicy:     policy,
		strictCategories:   config.StrictCategories,
		enableDebugLogging: config.EnableDebugLogging,
		validate:           v,
	}
}

// Parse splits text into lines and returns one item per well-formed line, in input order.
// Lines that do not have exactly four fields are dropped without error.
func (p *LineParser) Parse(text string) []domain.GroceryItem {
	items := make([]domain.GroceryItem, 0)

	text = strings.TrimSpace(text)
	if text == "" {
		return items
	}

	for i, line := range strings.Split(text, "\n") {
		item, ok := p.parseLine(line)
		if !ok {
			if p.enableDebugLogging {
				log.Printf("[PARSER] Line %d dropped: %q", i+1, line)
			}
			continue
		}
		items = append(items, item)
	}

	return items
}

// parseLine maps one line to an item, reporting false when the line is dropped
func (p *LineParser) parseLine(line string) (domain.GroceryItem, bool) {
	fields := strings.Split(line, fieldDelimiter)
	if len(fields) != itemFieldCount {
		return domain.GroceryItem{}, false
	}

	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	quantity, ok := parseQuantity(fields[2])
	if !ok {
		switch p.quantityPolicy {
		case QuantityReject:
			return domain.GroceryItem{}, false
		case QuantityZero:
			zero := 0
			quantity = &zero
		}
		if p.enableDebugLogging {
			log.Printf("[PARSER] Non-numeric quantity %q (policy: %s)", fields[2], p.quantityPolicy)
		}
	}

	item := domain.GroceryItem{
		Name:     fields[0],
		Category: fields[1],
		Quantity: quantity,
		Note:     fields[3],
		Taken:    false,
		File:     nil,
		Pic:      "",
	}

	if p.strictCategories {
		if err := p.validate.Struct(item); err != nil {
			if p.enableDebugLogging {
				log.Printf("[PARSER] Item rejected: %v", err)
			}
			return domain.GroceryItem{}, false
		}
	}

	return item, true
}

// parseQuantity reads the leading integer of s, ignoring anything after it
// ("2 kg" is 2, "1.5" is 1). A "0x" prefix switches to hexadecimal ("0x10" is 16).
// It reports false when s does not start with digits, or when the number does
// not fit in an int.
func parseQuantity(s string) (*int, bool) {
	s = strings.TrimSpace(s)

	sign := ""
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		sign, s = s[:1], s[1:]
	}

	base, isDigit := 10, isDecimalDigit
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base, isDigit = 16, isHexDigit
		s = s[2:]
	}

	end := 0
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	if end == 0 {
		return nil, false
	}

	n, err := strconv.ParseInt(sign+s[:end], base, strconv.IntSize)
	if err != nil {
		// out of int range
		return nil, false
	}
	q := int(n)
	return &q, true
}

func isDecimalDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDecimalDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
