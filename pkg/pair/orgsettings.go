package pair

import (
	"context"
)

const configPropertyQuery = `
query configPropertyQuery($name: String!) {
  configProperty(name: $name) {
    id
    name
    value
  }
}`

const setConfigPropertyMutation = `
mutation setConfigPropertyMutation($configProperty: SetConfigPropertyInput!) {
  setConfigProperty(input: $configProperty) {
    configProperty {
      id
      name
      value
    }
  }
}`

const allConfigPropertiesQuery = `
{
  allConfigProperties {
    edges {
      node {
        id
        name
        value
      }
    }
  }
}`

const priorityLevelQuery = `
query priorityLevelQuery($id: ID!) {
  priorityLevel(id: $id) {
    id
    name
    rank
  }
}`

const allPriorityLevelsQuery = `
{
  allPriorityLevels {
    edges {
      node {
        id
        name
        rank
      }
    }
  }
}`

// GetConfigProperty retrieves an organization setting by name.
func (c *Client) GetConfigProperty(ctx context.Context, name string) (*ConfigProperty, error) {
	data, err := c.Execute(ctx, configPropertyQuery, map[string]any{"name": name})
	if err != nil {
		return nil, err
	}
	var out struct {
		ConfigProperty *ConfigProperty `json:"configProperty"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.ConfigProperty == nil {
		return nil, ErrRemote.Msg("response carried no config property")
	}
	return out.ConfigProperty, nil
}

// SetConfigProperty writes an organization setting, creating it when
// missing.
func (c *Client) SetConfigProperty(ctx context.Context, name, value string) (*ConfigProperty, error) {
	data, err := c.Execute(ctx, setConfigPropertyMutation, map[string]any{
		"configProperty": map[string]any{
			"name":  name,
			"value": value,
		},
	})
	if err != nil {
		return nil, err
	}
	var out struct {
		SetConfigProperty struct {
			ConfigProperty *ConfigProperty `json:"configProperty"`
		} `json:"setConfigProperty"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.SetConfigProperty.ConfigProperty == nil {
		return nil, ErrRemote.Msg("response carried no config property")
	}
	return out.SetConfigProperty.ConfigProperty, nil
}

// ListConfigProperties retrieves every organization setting.
func (c *Client) ListConfigProperties(ctx context.Context) ([]ConfigProperty, error) {
	data, err := c.Execute(ctx, allConfigPropertiesQuery, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		AllConfigProperties []ConfigProperty `json:"allConfigProperties"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	return out.AllConfigProperties, nil
}

// GetPriorityLevel retrieves one step of the triage scale by id.
func (c *Client) GetPriorityLevel(ctx context.Context, levelID string) (*PriorityLevel, error) {
	data, err := c.Execute(ctx, priorityLevelQuery, map[string]any{"id": levelID})
	if err != nil {
		return nil, err
	}
	var out struct {
		PriorityLevel *PriorityLevel `json:"priorityLevel"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.PriorityLevel == nil {
		return nil, ErrRemote.Msg("response carried no priority level")
	}
	return out.PriorityLevel, nil
}

// ListPriorityLevels retrieves the organization's triage scale.
func (c *Client) ListPriorityLevels(ctx context.Context) ([]PriorityLevel, error) {
	data, err := c.Execute(ctx, allPriorityLevelsQuery, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		AllPriorityLevels []PriorityLevel `json:"allPriorityLevels"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	return out.AllPriorityLevels, nil
}
