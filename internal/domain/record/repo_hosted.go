package record

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ehr/recordspanel/internal/platform/remote"
)

type collectionHosted struct {
	client *remote.Client
	path   string
}

// NewCollectionHosted returns a Collection that talks to the hosted
// backend's table API for the given table.
func NewCollectionHosted(client *remote.Client, table string) Collection {
	if table == "" {
		table = DefaultTable
	}
	return &collectionHosted{client: client, path: "/rest/v1/" + url.PathEscape(table)}
}

func (c *collectionHosted) ListAll(ctx context.Context) ([]Record, error) {
	var items []Record
	err := remote.Check(c.client.R(ctx).
		SetQueryParam("select", "*").
		SetResult(&items).
		Get(c.path))
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", c.path, err)
	}
	if items == nil {
		items = []Record{}
	}
	return items, nil
}

func (c *collectionHosted) Insert(ctx context.Context, d Draft) error {
	err := remote.Check(c.client.R(ctx).
		SetHeader("Prefer", "return=minimal").
		SetBody([]Draft{d}).
		Post(c.path))
	if err != nil {
		return fmt.Errorf("insert into %s: %w", c.path, err)
	}
	return nil
}

func (c *collectionHosted) Update(ctx context.Context, id ID, d Draft) error {
	err := remote.Check(c.client.R(ctx).
		SetHeader("Prefer", "return=minimal").
		SetQueryParam("id", "eq."+string(id)).
		SetBody(d).
		Patch(c.path))
	if err != nil {
		return fmt.Errorf("update %s id=%s: %w", c.path, id, err)
	}
	return nil
}

func (c *collectionHosted) Delete(ctx context.Context, id ID) error {
	err := remote.Check(c.client.R(ctx).
		SetQueryParam("id", "eq."+string(id)).
		Delete(c.path))
	if err != nil {
		return fmt.Errorf("delete from %s id=%s: %w", c.path, id, err)
	}
	return nil
}
