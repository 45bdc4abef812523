package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dgallion1/startpage/internal/pathstore"
)

// Pathstore keeps values in a remote pathstore service. Values must be
// JSON; they are stored as the node value without re-encoding.
type Pathstore struct {
	client *pathstore.Client
}

func NewPathstore(client *pathstore.Client) *Pathstore {
	return &Pathstore{client: client}
}

func (p *Pathstore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	node, err := p.client.GetNode(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if node == nil || len(node.Value) == 0 || string(node.Value) == "null" {
		return nil, false, nil
	}
	return []byte(node.Value), true, nil
}

func (p *Pathstore) Set(ctx context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("pathstore set %s: value is not valid JSON", key)
	}
	return p.client.PutNode(ctx, key, pathstore.NodeRequest{
		Value:     json.RawMessage(value),
		MergeMode: "replace",
		Source:    "startpage",
	})
}

func (p *Pathstore) Delete(ctx context.Context, key string) error {
	return p.client.DeleteNode(ctx, key)
}

func (p *Pathstore) Close() error {
	p.client.Close()
	return nil
}
