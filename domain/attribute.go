package domain

import "time"

// AttributeInputType discriminates how an attribute value is entered and
// which payload field carries it in the serialized output.
type AttributeInputType string

const (
	AttributeInputDropdown    AttributeInputType = "dropdown"
	AttributeInputMultiselect AttributeInputType = "multiselect"
	AttributeInputFile        AttributeInputType = "file"
	AttributeInputReference   AttributeInputType = "reference"
	AttributeInputNumeric     AttributeInputType = "numeric"
	AttributeInputRichText    AttributeInputType = "rich-text"
	AttributeInputSwatch      AttributeInputType = "swatch"
	AttributeInputBoolean     AttributeInputType = "boolean"
	AttributeInputDate        AttributeInputType = "date"
	AttributeInputDateTime    AttributeInputType = "date-time"
)

// AttributeEntityType identifies what a reference-type attribute value points
// to. Only Page and Product references are resolvable in payloads.
type AttributeEntityType string

const (
	AttributeEntityPage    AttributeEntityType = "Page"
	AttributeEntityProduct AttributeEntityType = "Product"
)

type Attribute struct {
	ID         int64
	Name       string
	Slug       string
	InputType  AttributeInputType
	EntityType AttributeEntityType // set only for reference input type
	Unit       string
}

// AttributeValue carries at most one meaningful payload, selected by the
// owning attribute's input type. FileURL may be set alongside any input type.
type AttributeValue struct {
	Name               string
	Slug               string
	Value              string
	RichText           map[string]any
	Boolean            *bool
	Date               *time.Time
	DateTime           *time.Time
	ReferencePageID    *int64
	ReferenceProductID *int64
	FileURL            string
	ContentType        string
}

// AttributeAssignment is one attribute attached to a product or variant,
// with its selected values in assignment order.
type AttributeAssignment struct {
	Attribute Attribute
	Values    []AttributeValue
}
