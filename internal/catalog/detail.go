package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vitrine/storefront/internal/backend"
	"github.com/vitrine/storefront/internal/domain"
)

const relatedLimit = 4

type DetailSnapshot struct {
	Product         *domain.Product   `json:"product,omitempty"`
	Related         []domain.Product  `json:"related"`
	SelectedVariant *domain.Variant   `json:"selected_variant,omitempty"`
	SelectedOptions map[string]string `json:"selected_options"`
	Quantity        int               `json:"quantity"`
}

// Detail drives a product page: one product, its variant selection state
// and a strip of related products from the same collection.
type Detail struct {
	mu      sync.Mutex
	backend Backend
	log     *slog.Logger

	product         *domain.Product
	related         []domain.Product
	selectedVariant *domain.Variant
	selectedOptions map[string]string
	quantity        int
}

func NewDetail(b Backend, log *slog.Logger) *Detail {
	return &Detail{
		backend:         b,
		log:             log,
		selectedOptions: map[string]string{},
		quantity:        1,
	}
}

// Load fetches the product and seeds the selection: the first variant is
// selected and the option map starts from each option's first value.
func (d *Detail) Load(ctx context.Context, id string) error {
	product, err := d.backend.GetProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("load product %s: %w", id, err)
	}

	d.mu.Lock()
	d.product = product
	d.selectedOptions = map[string]string{}
	d.selectedVariant = nil
	if len(product.Variants) > 0 {
		d.selectedVariant = &product.Variants[0]
		for _, opt := range product.Options {
			if len(opt.Values) > 0 {
				d.selectedOptions[opt.ID] = opt.Values[0].Value
			}
		}
	}
	d.mu.Unlock()

	d.loadRelated(ctx, product)
	return nil
}

// loadRelated pulls a handful of products from the same collection and
// drops the product being viewed. Failure leaves the strip empty.
func (d *Detail) loadRelated(ctx context.Context, product *domain.Product) {
	list, err := d.backend.ListProducts(ctx, backend.ProductQuery{
		Limit:        relatedLimit,
		CollectionID: product.CollectionID,
	})
	if err != nil {
		d.log.Error("failed to load related products", "product_id", product.ID, "error", err)
		return
	}

	related := make([]domain.Product, 0, len(list.Products))
	for _, p := range list.Products {
		if p.ID != product.ID {
			related = append(related, p)
		}
	}

	d.mu.Lock()
	d.related = related
	d.mu.Unlock()
}

// SelectOption records one option choice and rescans the variants for
// the first one whose option values all match the current selection.
// When no variant matches, the previously selected variant stays on
// display.
func (d *Detail) SelectOption(optionID, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.product == nil {
		return
	}
	d.selectedOptions[optionID] = value

	for i := range d.product.Variants {
		if d.matchesLocked(&d.product.Variants[i]) {
			d.selectedVariant = &d.product.Variants[i]
			return
		}
	}
}

func (d *Detail) matchesLocked(v *domain.Variant) bool {
	if len(v.Options) == 0 {
		return false
	}
	for _, opt := range v.Options {
		if d.selectedOptions[opt.OptionID] != opt.Value {
			return false
		}
	}
	return true
}

func (d *Detail) SetQuantity(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n >= 1 {
		d.quantity = n
	}
}

func (d *Detail) Snapshot() DetailSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	opts := make(map[string]string, len(d.selectedOptions))
	for k, v := range d.selectedOptions {
		opts[k] = v
	}

	return DetailSnapshot{
		Product:         d.product,
		Related:         d.related,
		SelectedVariant: d.selectedVariant,
		SelectedOptions: opts,
		Quantity:        d.quantity,
	}
}
