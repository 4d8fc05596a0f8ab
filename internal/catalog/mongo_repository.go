package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sanket-jethava/saleor/domain"
)

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) CheckoutRepository {
	return &mongoRepository{collection: db.Collection("checkouts")}
}

// Documents store decimal amounts as strings; mongo has no lossless decimal
// mapping for shopspring values and price strings survive round-trips intact.

type channelDocument struct {
	ID           int64  `bson:"id"`
	Slug         string `bson:"slug"`
	CurrencyCode string `bson:"currency_code"`
}

type taxedMoneyDocument struct {
	Net      string `bson:"net"`
	Gross    string `bson:"gross"`
	Currency string `bson:"currency"`
}

type valueDocument struct {
	Name               string         `bson:"name"`
	Slug               string         `bson:"slug"`
	Value              string         `bson:"value,omitempty"`
	RichText           map[string]any `bson:"rich_text,omitempty"`
	Boolean            *bool          `bson:"boolean,omitempty"`
	Date               *time.Time     `bson:"date,omitempty"`
	DateTime           *time.Time     `bson:"date_time,omitempty"`
	ReferencePageID    *int64         `bson:"reference_page_id,omitempty"`
	ReferenceProductID *int64         `bson:"reference_product_id,omitempty"`
	FileURL            string         `bson:"file_url,omitempty"`
	ContentType        string         `bson:"content_type,omitempty"`
}

type attributeDocument struct {
	ID         int64           `bson:"id"`
	Name       string          `bson:"name"`
	Slug       string          `bson:"slug"`
	InputType  string          `bson:"input_type"`
	EntityType string          `bson:"entity_type,omitempty"`
	Unit       string          `bson:"unit,omitempty"`
	Values     []valueDocument `bson:"values"`
}

type productDocument struct {
	ID           int64             `bson:"id"`
	Name         string            `bson:"name"`
	ChargeTaxes  bool              `bson:"charge_taxes"`
	Metadata     map[string]string `bson:"metadata,omitempty"`
	TypeID       int64             `bson:"type_id"`
	TypeName     string            `bson:"type_name"`
	TypeMetadata map[string]string `bson:"type_metadata,omitempty"`
}

type variantDocument struct {
	ID         int64               `bson:"id"`
	SKU        string              `bson:"sku"`
	Name       string              `bson:"name"`
	Product    productDocument     `bson:"product"`
	Attributes []attributeDocument `bson:"attributes,omitempty"`
}

type listingDocument struct {
	ChannelID       int64  `bson:"channel_id"`
	Currency        string `bson:"currency"`
	Price           string `bson:"price"`
	DiscountedPrice string `bson:"discounted_price"`
}

type collectionDocument struct {
	ID   int64  `bson:"id"`
	Slug string `bson:"slug"`
}

type lineDocument struct {
	ID                     int64                `bson:"id"`
	Quantity               int                  `bson:"quantity"`
	PriceOverride          *string              `bson:"price_override,omitempty"`
	UnitPriceWithDiscounts taxedMoneyDocument   `bson:"unit_price_with_discounts"`
	Variant                variantDocument      `bson:"variant"`
	ChannelListing         listingDocument      `bson:"channel_listing"`
	Collections            []collectionDocument `bson:"collections,omitempty"`
}

type checkoutDocument struct {
	ID        string          `bson:"_id"`
	Currency  string          `bson:"currency"`
	Channel   channelDocument `bson:"channel"`
	Lines     []lineDocument  `bson:"lines"`
	UpdatedAt time.Time       `bson:"updated_at"`
}

func (m *mongoRepository) GetCheckout(ctx context.Context, checkoutID string) (*domain.Checkout, error) {
	doc, err := m.findCheckout(ctx, checkoutID)
	if err != nil {
		return nil, err
	}
	checkout := checkoutFromDocument(doc)
	return &checkout, nil
}

func (m *mongoRepository) GetCheckoutLines(ctx context.Context, checkoutID string) ([]domain.CheckoutLineInfo, error) {
	doc, err := m.findCheckout(ctx, checkoutID)
	if err != nil {
		return nil, err
	}

	// Line order in the document is insertion order; keep it.
	lines := make([]domain.CheckoutLineInfo, 0, len(doc.Lines))
	for _, lineDoc := range doc.Lines {
		line, err := lineFromDocument(lineDoc)
		if err != nil {
			return nil, fmt.Errorf("failed to load line %d of checkout %s: %w", lineDoc.ID, checkoutID, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (m *mongoRepository) UpsertCheckout(ctx context.Context, checkout *domain.Checkout, lines []domain.CheckoutLineInfo) error {
	doc := checkoutToDocument(checkout, lines)
	doc.UpdatedAt = time.Now()

	filter := bson.M{"_id": checkout.ID}
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)

	if _, err := m.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert checkout: %w", err)
	}
	return nil
}

func (m *mongoRepository) findCheckout(ctx context.Context, checkoutID string) (*checkoutDocument, error) {
	var doc checkoutDocument
	err := m.collection.FindOne(ctx, bson.M{"_id": checkoutID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCheckoutNotFound
		}
		return nil, fmt.Errorf("failed to get checkout: %w", err)
	}
	return &doc, nil
}

func checkoutFromDocument(doc *checkoutDocument) domain.Checkout {
	return domain.Checkout{
		ID:       doc.ID,
		Currency: doc.Currency,
		Channel: domain.Channel{
			ID:           doc.Channel.ID,
			Slug:         doc.Channel.Slug,
			CurrencyCode: doc.Channel.CurrencyCode,
		},
	}
}

func lineFromDocument(doc lineDocument) (domain.CheckoutLineInfo, error) {
	unitPrice, err := taxedMoneyFromDocument(doc.UnitPriceWithDiscounts)
	if err != nil {
		return domain.CheckoutLineInfo{}, err
	}

	line := domain.CheckoutLine{
		ID:                     doc.ID,
		Quantity:               doc.Quantity,
		UnitPriceWithDiscounts: unitPrice,
	}
	if doc.PriceOverride != nil {
		override, err := decimal.NewFromString(*doc.PriceOverride)
		if err != nil {
			return domain.CheckoutLineInfo{}, fmt.Errorf("bad price override %q: %w", *doc.PriceOverride, err)
		}
		line.PriceOverride = &override
	}

	listingPrice, err := decimal.NewFromString(doc.ChannelListing.Price)
	if err != nil {
		return domain.CheckoutLineInfo{}, fmt.Errorf("bad listing price %q: %w", doc.ChannelListing.Price, err)
	}
	discountedPrice, err := decimal.NewFromString(doc.ChannelListing.DiscountedPrice)
	if err != nil {
		return domain.CheckoutLineInfo{}, fmt.Errorf("bad discounted price %q: %w", doc.ChannelListing.DiscountedPrice, err)
	}

	collections := make([]domain.Collection, 0, len(doc.Collections))
	for _, c := range doc.Collections {
		collections = append(collections, domain.Collection{ID: c.ID, Slug: c.Slug})
	}

	return domain.CheckoutLineInfo{
		Line:    line,
		Variant: variantFromDocument(doc.Variant),
		ChannelListing: domain.ChannelListing{
			ChannelID:       doc.ChannelListing.ChannelID,
			Currency:        doc.ChannelListing.Currency,
			Price:           listingPrice,
			DiscountedPrice: discountedPrice,
		},
		Collections: collections,
	}, nil
}

func variantFromDocument(doc variantDocument) domain.ProductVariant {
	attributes := make([]domain.AttributeAssignment, 0, len(doc.Attributes))
	for _, attrDoc := range doc.Attributes {
		values := make([]domain.AttributeValue, 0, len(attrDoc.Values))
		for _, valueDoc := range attrDoc.Values {
			values = append(values, domain.AttributeValue{
				Name:               valueDoc.Name,
				Slug:               valueDoc.Slug,
				Value:              valueDoc.Value,
				RichText:           valueDoc.RichText,
				Boolean:            valueDoc.Boolean,
				Date:               valueDoc.Date,
				DateTime:           valueDoc.DateTime,
				ReferencePageID:    valueDoc.ReferencePageID,
				ReferenceProductID: valueDoc.ReferenceProductID,
				FileURL:            valueDoc.FileURL,
				ContentType:        valueDoc.ContentType,
			})
		}
		attributes = append(attributes, domain.AttributeAssignment{
			Attribute: domain.Attribute{
				ID:         attrDoc.ID,
				Name:       attrDoc.Name,
				Slug:       attrDoc.Slug,
				InputType:  domain.AttributeInputType(attrDoc.InputType),
				EntityType: domain.AttributeEntityType(attrDoc.EntityType),
				Unit:       attrDoc.Unit,
			},
			Values: values,
		})
	}

	return domain.ProductVariant{
		ID:   doc.ID,
		SKU:  doc.SKU,
		Name: doc.Name,
		Product: domain.Product{
			ID:          doc.Product.ID,
			Name:        doc.Product.Name,
			ChargeTaxes: doc.Product.ChargeTaxes,
			Metadata:    doc.Product.Metadata,
			ProductType: domain.ProductType{
				ID:       doc.Product.TypeID,
				Name:     doc.Product.TypeName,
				Metadata: doc.Product.TypeMetadata,
			},
		},
		Attributes: attributes,
	}
}

func taxedMoneyFromDocument(doc taxedMoneyDocument) (domain.TaxedMoney, error) {
	net, err := decimal.NewFromString(doc.Net)
	if err != nil {
		return domain.TaxedMoney{}, fmt.Errorf("bad net amount %q: %w", doc.Net, err)
	}
	gross, err := decimal.NewFromString(doc.Gross)
	if err != nil {
		return domain.TaxedMoney{}, fmt.Errorf("bad gross amount %q: %w", doc.Gross, err)
	}
	return domain.TaxedMoney{
		Net:   domain.Money{Amount: net, Currency: doc.Currency},
		Gross: domain.Money{Amount: gross, Currency: doc.Currency},
	}, nil
}

func checkoutToDocument(checkout *domain.Checkout, lines []domain.CheckoutLineInfo) *checkoutDocument {
	lineDocs := make([]lineDocument, 0, len(lines))
	for _, info := range lines {
		lineDocs = append(lineDocs, lineToDocument(info))
	}
	return &checkoutDocument{
		ID:       checkout.ID,
		Currency: checkout.Currency,
		Channel: channelDocument{
			ID:           checkout.Channel.ID,
			Slug:         checkout.Channel.Slug,
			CurrencyCode: checkout.Channel.CurrencyCode,
		},
		Lines: lineDocs,
	}
}

func lineToDocument(info domain.CheckoutLineInfo) lineDocument {
	doc := lineDocument{
		ID:       info.Line.ID,
		Quantity: info.Line.Quantity,
		UnitPriceWithDiscounts: taxedMoneyDocument{
			Net:      info.Line.UnitPriceWithDiscounts.Net.Amount.String(),
			Gross:    info.Line.UnitPriceWithDiscounts.Gross.Amount.String(),
			Currency: info.Line.UnitPriceWithDiscounts.Net.Currency,
		},
		Variant: variantToDocument(info.Variant),
		ChannelListing: listingDocument{
			ChannelID:       info.ChannelListing.ChannelID,
			Currency:        info.ChannelListing.Currency,
			Price:           info.ChannelListing.Price.String(),
			DiscountedPrice: info.ChannelListing.DiscountedPrice.String(),
		},
	}
	if info.Line.PriceOverride != nil {
		override := info.Line.PriceOverride.String()
		doc.PriceOverride = &override
	}
	for _, c := range info.Collections {
		doc.Collections = append(doc.Collections, collectionDocument{ID: c.ID, Slug: c.Slug})
	}
	return doc
}

func variantToDocument(variant domain.ProductVariant) variantDocument {
	attrDocs := make([]attributeDocument, 0, len(variant.Attributes))
	for _, assignment := range variant.Attributes {
		valueDocs := make([]valueDocument, 0, len(assignment.Values))
		for _, value := range assignment.Values {
			valueDocs = append(valueDocs, valueDocument{
				Name:               value.Name,
				Slug:               value.Slug,
				Value:              value.Value,
				RichText:           value.RichText,
				Boolean:            value.Boolean,
				Date:               value.Date,
				DateTime:           value.DateTime,
				ReferencePageID:    value.ReferencePageID,
				ReferenceProductID: value.ReferenceProductID,
				FileURL:            value.FileURL,
				ContentType:        value.ContentType,
			})
		}
		attrDocs = append(attrDocs, attributeDocument{
			ID:         assignment.Attribute.ID,
			Name:       assignment.Attribute.Name,
			Slug:       assignment.Attribute.Slug,
			InputType:  string(assignment.Attribute.InputType),
			EntityType: string(assignment.Attribute.EntityType),
			Unit:       assignment.Attribute.Unit,
			Values:     valueDocs,
		})
	}

	return variantDocument{
		ID:   variant.ID,
		SKU:  variant.SKU,
		Name: variant.Name,
		Product: productDocument{
			ID:           variant.Product.ID,
			Name:         variant.Product.Name,
			ChargeTaxes:  variant.Product.ChargeTaxes,
			Metadata:     variant.Product.Metadata,
			TypeID:       variant.Product.ProductType.ID,
			TypeName:     variant.Product.ProductType.Name,
			TypeMetadata: variant.Product.ProductType.Metadata,
		},
		Attributes: attrDocs,
	}
}
