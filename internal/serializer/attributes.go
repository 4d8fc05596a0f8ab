package serializer

import (
	"time"

	"github.com/sanket-jethava/saleor/domain"
)

// SerializeAttributes maps the assigned attributes of a product or variant to
// fixed-width payload records, preserving assignment order. Each value record
// carries every payload field; the one selected by the attribute's input type
// is populated and the rest stay null. A file attachment is emitted whenever
// a file URL is present, independently of the input type.
func SerializeAttributes(assignments []domain.AttributeAssignment, ids IDEncoder) []domain.AttributePayload {
	data := make([]domain.AttributePayload, 0, len(assignments))

	for _, assignment := range assignments {
		attr := assignment.Attribute
		payload := domain.AttributePayload{
			ID:         ids.Encode("Attribute", attr.ID),
			Name:       attr.Name,
			InputType:  attr.InputType,
			Slug:       attr.Slug,
			EntityType: optional(attr.EntityType),
			Unit:       optional(attr.Unit),
			Values:     make([]domain.AttributeValuePayload, 0, len(assignment.Values)),
		}

		for _, value := range assignment.Values {
			payload.Values = append(payload.Values, serializeValue(attr, value, ids))
		}

		data = append(data, payload)
	}

	return data
}

func serializeValue(attr domain.Attribute, value domain.AttributeValue, ids IDEncoder) domain.AttributeValuePayload {
	record := domain.AttributeValuePayload{
		Name: value.Name,
		Slug: value.Slug,
	}

	switch attr.InputType {
	case domain.AttributeInputRichText:
		record.RichText = value.RichText
	case domain.AttributeInputBoolean:
		record.Boolean = value.Boolean
	case domain.AttributeInputDate:
		if value.Date != nil {
			record.Date = ptr(value.Date.Format("2006-01-02"))
		}
	case domain.AttributeInputDateTime:
		if value.DateTime != nil {
			record.DateTime = ptr(value.DateTime.UTC().Format(time.RFC3339))
		}
	case domain.AttributeInputReference:
		record.Reference = resolveReference(attr, value, ids)
	case domain.AttributeInputFile:
		// carried by the file field below
	default:
		record.Value = ptr(value.Value)
	}

	if value.FileURL != "" {
		record.File = &domain.FilePayload{
			ContentType: optional(value.ContentType),
			FileURL:     value.FileURL,
		}
	}

	return record
}

// resolveReference encodes the reference target for Page and Product entity
// types. Any other entity type yields null, deliberately without error.
func resolveReference(attr domain.Attribute, value domain.AttributeValue, ids IDEncoder) *string {
	var rawID *int64
	switch attr.EntityType {
	case domain.AttributeEntityPage:
		rawID = value.ReferencePageID
	case domain.AttributeEntityProduct:
		rawID = value.ReferenceProductID
	default:
		return nil
	}
	if rawID == nil {
		return nil
	}
	return ptr(ids.Encode(string(attr.EntityType), *rawID))
}

func ptr[T any](v T) *T {
	return &v
}

// optional maps a zero value to nil so empty source fields serialize as null.
func optional[T ~string](v T) *T {
	if v == "" {
		return nil
	}
	return &v
}
