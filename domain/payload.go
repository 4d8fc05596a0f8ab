package domain

// Payload records form the outbound webhook schema. Every field is always
// present in the JSON output; absence is encoded as null, never by omission,
// so subscribers can rely on a fixed shape.

type FilePayload struct {
	ContentType *string `json:"content_type"`
	FileURL     string  `json:"file_url"`
}

// AttributeValuePayload is the fixed-width record for one attribute value.
// At most one of Value/RichText/Boolean/Date/DateTime is non-null, selected
// by the owning attribute's input type; File is independent of input type.
type AttributeValuePayload struct {
	Name      string         `json:"name"`
	Slug      string         `json:"slug"`
	Value     *string        `json:"value"`
	RichText  map[string]any `json:"rich_text"`
	Boolean   *bool          `json:"boolean"`
	DateTime  *string        `json:"date_time"`
	Date      *string        `json:"date"`
	Reference *string        `json:"reference"`
	File      *FilePayload   `json:"file"`
}

type AttributePayload struct {
	ID         string                  `json:"id"`
	Name       string                  `json:"name"`
	InputType  AttributeInputType      `json:"input_type"`
	Slug       string                  `json:"slug"`
	EntityType *AttributeEntityType    `json:"entity_type"`
	Unit       *string                 `json:"unit"`
	Values     []AttributeValuePayload `json:"values"`
}

// LinePayload is the canonical per-line record shared by both payload
// flavors. Monetary fields are decimal strings quantized to Currency.
type LinePayload struct {
	ID                  string             `json:"id"`
	SKU                 string             `json:"sku"`
	VariantID           string             `json:"variant_id"`
	Quantity            int                `json:"quantity"`
	ChargeTaxes         bool               `json:"charge_taxes"`
	BasePrice           string             `json:"base_price"`
	Currency            string             `json:"currency"`
	FullName            string             `json:"full_name"`
	ProductName         string             `json:"product_name"`
	VariantName         string             `json:"variant_name"`
	Attributes          []AttributePayload `json:"attributes"`
	ProductMetadata     map[string]string  `json:"product_metadata"`
	ProductTypeMetadata map[string]string  `json:"product_type_metadata"`
	PriceOverride       *string            `json:"price_override"`
}

// TaxedLinePayload extends the base record with the tax-applied unit prices
// returned by the quoting collaborator.
type TaxedLinePayload struct {
	LinePayload
	PriceNetAmount                string `json:"price_net_amount"`
	PriceGrossAmount              string `json:"price_gross_amount"`
	PriceWithDiscountsNetAmount   string `json:"price_with_discounts_net_amount"`
	PriceWithDiscountsGrossAmount string `json:"price_with_discounts_gross_amount"`
}

// UntaxedLinePayload extends the base record with the quantized pre-tax
// discounted unit price under the caller's gross-vs-net convention.
type UntaxedLinePayload struct {
	LinePayload
	BasePriceWithDiscounts string `json:"base_price_with_discounts"`
}
