package pair

import (
	"context"
)

const assetQuery = `
query assetQuery($id: ID!) {
  asset(id: $id) {
    id
    name
    assetType
    s3Key
    createdBy {
      id
    }
    organization {
      id
    }
  }
}`

const addAssetMutation = `
mutation addAssetMutation($asset: AddAssetInput!) {
  addAsset(input: $asset) {
    asset {
      id
      name
      assetType
      s3Key
      organization {
        id
      }
    }
  }
}`

const allAssetsQuery = `
{
  allAssets {
    edges {
      node {
        id
        name
        assetType
        s3Key
      }
    }
  }
}`

// AddAsset registers a stored artifact under the organization.
func (c *Client) AddAsset(ctx context.Context, name, assetType string) (*Asset, error) {
	data, err := c.Execute(ctx, addAssetMutation, map[string]any{
		"asset": map[string]any{
			"name":      name,
			"assetType": assetType,
		},
	})
	if err != nil {
		return nil, err
	}
	var out struct {
		AddAsset struct {
			Asset *Asset `json:"asset"`
		} `json:"addAsset"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.AddAsset.Asset == nil {
		return nil, ErrRemote.Msg("response carried no asset")
	}
	return out.AddAsset.Asset, nil
}

// GetAsset retrieves an asset by id.
func (c *Client) GetAsset(ctx context.Context, assetID string) (*Asset, error) {
	data, err := c.Execute(ctx, assetQuery, map[string]any{"id": assetID})
	if err != nil {
		return nil, err
	}
	var out struct {
		Asset *Asset `json:"asset"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.Asset == nil {
		return nil, ErrRemote.Msg("response carried no asset")
	}
	return out.Asset, nil
}

// ListAssets retrieves every asset visible to the session.
func (c *Client) ListAssets(ctx context.Context) ([]Asset, error) {
	data, err := c.Execute(ctx, allAssetsQuery, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		AllAssets []Asset `json:"allAssets"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	return out.AllAssets, nil
}
