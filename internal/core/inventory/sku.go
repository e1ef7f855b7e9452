package inventory

import (
	"fmt"
	"regexp"
)

// MaxSKULength bounds the accepted SKU size.
const MaxSKULength = 64

var skuPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidateSKU rejects SKUs that cannot identify a product.
func ValidateSKU(sku string) error {
	if sku == "" {
		return fmt.Errorf("%w: sku is required", ErrInvalidInput)
	}
	if len(sku) > MaxSKULength {
		return fmt.Errorf("%w: sku exceeds %d characters", ErrInvalidInput, MaxSKULength)
	}
	if !skuPattern.MatchString(sku) {
		return fmt.Errorf("%w: sku %q contains unsupported characters", ErrInvalidInput, sku)
	}
	return nil
}
