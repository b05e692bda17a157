package pair

import (
	"context"

	"github.com/tidwall/gjson"
)

const sensorQuery = `
query sensorQuery($id: ID!) {
  sensor(id: $id) {
    id
    name
    slug
    sensorType
    config
    isActivated
    createdBy {
      id
    }
    organization {
      id
    }
  }
}`

const addSensorMutation = `
mutation addSensorMutation($sensor: AddSensorInput!) {
  addSensor(input: $sensor) {
    sensor {
      id
      name
      slug
      sensorType
      config
      isActivated
      createdBy {
        id
      }
      organization {
        id
      }
    }
  }
}`

const updateSensorMutation = `
mutation updateSensorMutation($sensor: UpdateSensorInput!) {
  updateSensor(input: $sensor) {
    sensor {
      id
      name
      slug
      sensorType
      config
      isActivated
    }
  }
}`

const allSensorsQuery = `
{
  allSensors {
    edges {
      node {
        id
        name
        slug
        sensorType
        isActivated
      }
    }
  }
}`

// SensorUpdate carries the mutable fields of a sensor.
type SensorUpdate struct {
	Name        string
	Config      string
	IsActivated *bool
}

// AddSensor registers a sensor watching an external location. config must
// be a JSON document.
func (c *Client) AddSensor(ctx context.Context, name, sensorType, config string) (*Sensor, error) {
	if !gjson.Valid(config) {
		return nil, ErrInvalidArgument.Msg("sensor config must be valid JSON")
	}
	data, err := c.Execute(ctx, addSensorMutation, map[string]any{
		"sensor": map[string]any{
			"name":       name,
			"slug":       GenerateSlug(name),
			"sensorType": sensorType,
			"config":     config,
		},
	})
	if err != nil {
		return nil, err
	}
	var out struct {
		AddSensor struct {
			Sensor *Sensor `json:"sensor"`
		} `json:"addSensor"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.AddSensor.Sensor == nil {
		return nil, ErrRemote.Msg("response carried no sensor")
	}
	return out.AddSensor.Sensor, nil
}

// GetSensor retrieves a sensor by id.
func (c *Client) GetSensor(ctx context.Context, sensorID string) (*Sensor, error) {
	data, err := c.Execute(ctx, sensorQuery, map[string]any{"id": sensorID})
	if err != nil {
		return nil, err
	}
	var out struct {
		Sensor *Sensor `json:"sensor"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.Sensor == nil {
		return nil, ErrRemote.Msg("response carried no sensor")
	}
	return out.Sensor, nil
}

// ListSensors retrieves every sensor visible to the session.
func (c *Client) ListSensors(ctx context.Context) ([]Sensor, error) {
	data, err := c.Execute(ctx, allSensorsQuery, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		AllSensors []Sensor `json:"allSensors"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	return out.AllSensors, nil
}

// UpdateSensor applies an update to an existing sensor. At least one field
// must be set.
func (c *Client) UpdateSensor(ctx context.Context, sensorID string, update SensorUpdate) (*Sensor, error) {
	if update.Name == "" && update.Config == "" && update.IsActivated == nil {
		return nil, ErrInvalidArgument.Msg("update requires a name, config, or activation flag")
	}
	if update.Config != "" && !gjson.Valid(update.Config) {
		return nil, ErrInvalidArgument.Msg("sensor config must be valid JSON")
	}
	input := map[string]any{"id": sensorID}
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
	data, err := c.Execute(ctx, updateSensorMutation, map[string]any{"sensor": input})
	if err != nil {
		return nil, err
	}
	var out struct {
		UpdateSensor struct {
			Sensor *Sensor `json:"sensor"`
		} `json:"updateSensor"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.UpdateSensor.Sensor == nil {
		return nil, ErrRemote.Msg("response carried no sensor")
	}
	return out.UpdateSensor.Sensor, nil
}
