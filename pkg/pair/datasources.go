package pair

import (
	"context"

	"github.com/tidwall/gjson"
)

const dataSourceQuery = `
query dataSourceQuery($id: ID!) {
  dataSource(id: $id) {
    id
    name
    slug
    sourceType
    config
    isActivated
    organization {
      id
    }
  }
}`

const addDataSourceMutation = `
mutation addDataSourceMutation($dataSource: AddDataSourceInput!) {
  addDataSource(input: $dataSource) {
    dataSource {
      id
      name
      slug
      sourceType
      config
      isActivated
      organization {
        id
      }
    }
  }
}`

const updateDataSourceMutation = `
mutation updateDataSourceMutation($dataSource: UpdateDataSourceInput!) {
  updateDataSource(input: $dataSource) {
    dataSource {
      id
      name
      slug
      sourceType
      config
      isActivated
    }
  }
}`

const allDataSourcesQuery = `
{
  allDataSources {
    edges {
      node {
        id
        name
        slug
        sourceType
        isActivated
      }
    }
  }
}`

// DataSourceUpdate carries the mutable fields of a data source.
type DataSourceUpdate struct {
	Name        string
	Config      string
	IsActivated *bool
}

// AddDataSource registers a connection to an external data system. config
// must be a JSON document.
func (c *Client) AddDataSource(ctx context.Context, name, sourceType, config string) (*DataSource, error) {
	if !gjson.Valid(config) {
		return nil, ErrInvalidArgument.Msg("data source config must be valid JSON")
	}
	data, err := c.Execute(ctx, addDataSourceMutation, map[string]any{
		"dataSource": map[string]any{
			"name":       name,
			"slug":       GenerateSlug(name),
			"sourceType": sourceType,
			"config":     config,
		},
	})
	if err != nil {
		return nil, err
	}
	var out struct {
		AddDataSource struct {
			DataSource *DataSource `json:"dataSource"`
		} `json:"addDataSource"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.AddDataSource.DataSource == nil {
		return nil, ErrRemote.Msg("response carried no data source")
	}
	return out.AddDataSource.DataSource, nil
}

// GetDataSource retrieves a data source by id.
func (c *Client) GetDataSource(ctx context.Context, dataSourceID string) (*DataSource, error) {
	data, err := c.Execute(ctx, dataSourceQuery, map[string]any{"id": dataSourceID})
	if err != nil {
		return nil, err
	}
	var out struct {
		DataSource *DataSource `json:"dataSource"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.DataSource == nil {
		return nil, ErrRemote.Msg("response carried no data source")
	}
	return out.DataSource, nil
}

// ListDataSources retrieves every data source visible to the session.
func (c *Client) ListDataSources(ctx context.Context) ([]DataSource, error) {
	data, err := c.Execute(ctx, allDataSourcesQuery, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		AllDataSources []DataSource `json:"allDataSources"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	return out.AllDataSources, nil
}

// UpdateDataSource applies an update to an existing data source. At least
// one field must be set.
func (c *Client) UpdateDataSource(ctx context.Context, dataSourceID string, update DataSourceUpdate) (*DataSource, error) {
	if update.Name == "" && update.Config == "" && update.IsActivated == nil {
		return nil, ErrInvalidArgument.Msg("update requires a name, config, or activation flag")
	}
	if update.Config != "" && !gjson.Valid(update.Config) {
		return nil, ErrInvalidArgument.Msg("data source config must be valid JSON")
	}
	input := map[string]any{"id": dataSourceID}
	if update.Name != "" {
		input["name"] = update.Name
		input["slug"] = GenerateSlug(update.Name)
	}
	if update.Config != "" {
		input["config"] = update.Config
	}
	if update.IsActivated != nil {
		input["isActivated"] = *update.IsActivated
	}
	data, err := c.Execute(ctx, updateDataSourceMutation, map[string]any{"dataSource": input})
	if err != nil {
		return nil, err
	}
	var out struct {
		UpdateDataSource struct {
			DataSource *DataSource `json:"dataSource"`
		} `json:"updateDataSource"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.UpdateDataSource.DataSource == nil {
		return nil, ErrRemote.Msg("response carried no data source")
	}
	return out.UpdateDataSource.DataSource, nil
}
