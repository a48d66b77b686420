package dataset

import (
	domain "github.com/wondersell/seller-stats/pkg/types"
)

// FieldType is the type a field is coerced to after null normalization.
type FieldType int

// Field type constants.
const (
	TypeString FieldType = iota
	TypeInt
	TypeFloat
	TypeTime
)

// String returns the lower-case type name.
func (t FieldType) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeTime:
		return "time"
	default:
		return "string"
	}
}

// Schema configures the cleaning pipeline. Field lists are applied in
// declaration order.
type Schema struct {
	// Required fields are synthesized as all-null columns when the input
	// does not carry them.
	Required []string
	// DropEmptyStrings fields drop the whole row when the value is "".
	DropEmptyStrings []string
	// EmptyToNull fields turn "" into null.
	EmptyToNull []string
	// ZeroToNull fields turn numeric zero into null.
	ZeroToNull []string
	// NotNull fields drop the whole row when still null after normalization.
	NotNull []string
	// Types maps fields to the type they are coerced to.
	Types map[string]FieldType
	// NonNegative fields fail coercion when the typed value is below zero.
	NonNegative []string
}

// CategorySchema returns the schema used for category crawl statistics.
// Only reviews treats zero as missing: a listing with no reviews is
// indistinguishable from one whose reviews were not tracked, while a zero
// rating on a reviewed listing is a real value.
func CategorySchema() Schema {
	return Schema{
		Required: []string{
			domain.FieldPosition,
			domain.FieldPrice,
			domain.FieldPurchases,
			domain.FieldRating,
			domain.FieldReviews,
			domain.FieldFirstReview,
		},
		EmptyToNull: []string{
			domain.FieldPosition,
			domain.FieldPrice,
			domain.FieldPurchases,
			domain.FieldRating,
			domain.FieldReviews,
			domain.FieldFirstReview,
		},
		ZeroToNull: []string{
			domain.FieldReviews,
		},
		NotNull: []string{
			domain.FieldPosition,
			domain.FieldPrice,
			domain.FieldPurchases,
			domain.FieldRating,
			domain.FieldReviews,
		},
		NonNegative: []string{
			domain.FieldPrice,
			domain.FieldPurchases,
		},
		Types: canonicalTypes(),
	}
}

// canonicalTypes maps every canonical field to its record type.
func canonicalTypes() map[string]FieldType {
	return map[string]FieldType{
		domain.FieldID:           TypeString,
		domain.FieldPosition:     TypeInt,
		domain.FieldPrice:        TypeFloat,
		domain.FieldPurchases:    TypeInt,
		domain.FieldRating:       TypeFloat,
		domain.FieldReviews:      TypeInt,
		domain.FieldFirstReview:  TypeTime,
		domain.FieldCategoryName: TypeString,
		domain.FieldCategoryURL:  TypeString,
		domain.FieldBrand:        TypeString,
		domain.FieldName:         TypeString,
		domain.FieldURL:          TypeString,
	}
}
