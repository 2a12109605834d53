// Package seed supplies the startup catalog: a built-in item set, or an
// optional JSON seed file (gzip-compressed files are handled transparently).
package seed

import (
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"

	"github.com/your-org/discount-cart/internal/domain/catalog"
)

// Items returns the built-in catalog seed.
func Items() []catalog.Item {
	return []catalog.Item{
		{ID: "item001", Name: "Laptop", Price: decimal.RequireFromString("999.99"), Description: "High-performance laptop"},
		{ID: "item002", Name: "Mouse", Price: decimal.RequireFromString("29.99"), Description: "Wireless mouse"},
		{ID: "item003", Name: "Keyboard", Price: decimal.RequireFromString("79.99"), Description: "Mechanical keyboard"},
		{ID: "item004", Name: "Monitor", Price: decimal.RequireFromString("299.99"), Description: "27-inch 4K monitor"},
		{ID: "item005", Name: "Headphones", Price: decimal.RequireFromString("149.99"), Description: "Noise-cancelling headphones"},
		{ID: "item006", Name: "Webcam", Price: decimal.RequireFromString("89.99"), Description: "HD webcam"},
	}
}

// Load reads a catalog seed file: a JSON array of
// {itemId, name, price, description} objects. Files ending in .gz are
// decompressed on the fly.
func Load(path string) ([]catalog.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open seed file")
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "open gzip reader")
		}
		defer gz.Close()
		r = gz
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read seed file")
	}

	items, err := parseItems(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse seed file %s", path)
	}
	return items, nil
}

func parseItems(data []byte) ([]catalog.Item, error) {
	var items []catalog.Item
	d := jx.DecodeBytes(data)

	if err := d.Arr(func(d *jx.Decoder) error {
		var item catalog.Item
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			switch key {
			case "itemId":
				v, err := d.Str()
				if err != nil {
					return errors.Wrap(err, "itemId")
				}
				item.ID = v
			case "name":
				v, err := d.Str()
				if err != nil {
					return errors.Wrap(err, "name")
				}
				item.Name = v
			case "price":
				num, err := d.Num()
				if err != nil {
					return errors.Wrap(err, "price")
				}
				price, err := decimal.NewFromString(num.String())
				if err != nil {
					return errors.Wrap(err, "price")
				}
				item.Price = price
			case "description":
				v, err := d.Str()
				if err != nil {
					return errors.Wrap(err, "description")
				}
				item.Description = v
			default:
				return d.Skip()
			}
			return nil
		}); err != nil {
			return err
		}

		if item.ID == "" {
			return errors.New("item missing itemId")
		}
		if item.Price.IsNegative() {
			return errors.Errorf("item %s has negative price", item.ID)
		}
		items = append(items, item)
		return nil
	}); err != nil {
		return nil, err
	}

	return items, nil
}
