package pair

import (
	"context"
)

const allConfiguredNotificationsQuery = `
{
  allConfiguredNotifications {
    edges {
      cursor
      node {
        id
        notificationType
        notifyOn
        value
      }
    }
  }
}`

const addConfiguredNotificationMutation = `
mutation addConfiguredNotificationMutation($configuredNotification: AddConfiguredNotificationInput!) {
  addConfiguredNotification(input: $configuredNotification) {
    configuredNotification {
      id
      notificationType
      notifyOn
      value
    }
  }
}`

const updateConfiguredNotificationMutation = `
mutation updateConfiguredNotificationMutation($configuredNotification: UpdateConfiguredNotificationInput!) {
  updateConfiguredNotification(input: $configuredNotification) {
    configuredNotification {
      id
      notificationType
      notifyOn
      value
    }
  }
}`

// ConfiguredNotificationUpdate carries the mutable fields of a notification
// rule.
type ConfiguredNotificationUpdate struct {
	NotifyOn string
	Value    string
}

// ListConfiguredNotifications retrieves every notification rule.
func (c *Client) ListConfiguredNotifications(ctx context.Context) ([]ConfiguredNotification, error) {
	data, err := c.Execute(ctx, allConfiguredNotificationsQuery, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		AllConfiguredNotifications []ConfiguredNotification `json:"allConfiguredNotifications"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	return out.AllConfiguredNotifications, nil
}

// AddConfiguredNotification creates a delivery rule for evaluation
// outcomes. value is the delivery target, an email address or webhook URL
// depending on the notification type.
func (c *Client) AddConfiguredNotification(ctx context.Context, notificationType, notifyOn, value string) (*ConfiguredNotification, error) {
	data, err := c.Execute(ctx, addConfiguredNotificationMutation, map[string]any{
		"configuredNotification": map[string]any{
			"notificationType": notificationType,
			"notifyOn":         notifyOn,
			"value":            value,
		},
	})
	if err != nil {
		return nil, err
	}
	var out struct {
		AddConfiguredNotification struct {
			ConfiguredNotification *ConfiguredNotification `json:"configuredNotification"`
		} `json:"addConfiguredNotification"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.AddConfiguredNotification.ConfiguredNotification == nil {
		return nil, ErrRemote.Msg("response carried no configured notification")
	}
	return out.AddConfiguredNotification.ConfiguredNotification, nil
}

// UpdateConfiguredNotification applies an update to an existing
// notification rule. At least one field must be set.
func (c *Client) UpdateConfiguredNotification(ctx context.Context, notificationID string, update ConfiguredNotificationUpdate) (*ConfiguredNotification, error) {
	if update.NotifyOn == "" && update.Value == "" {
		return nil, ErrInvalidArgument.Msg("update requires a notify-on condition or value")
	}
	input := map[string]any{"id": notificationID}
	if update.NotifyOn != "" {
		input["notifyOn"] = update.NotifyOn
	}
	if update.Value != "" {
		input["value"] = update.Value
	}
	data, err := c.Execute(ctx, updateConfiguredNotificationMutation, map[string]any{"configuredNotification": input})
	if err != nil {
		return nil, err
	}
	var out struct {
		UpdateConfiguredNotification struct {
			ConfiguredNotification *ConfiguredNotification `json:"configuredNotification"`
		} `json:"updateConfiguredNotification"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.UpdateConfiguredNotification.ConfiguredNotification == nil {
		return nil, ErrRemote.Msg("response carried no configured notification")
	}
	return out.UpdateConfiguredNotification.ConfiguredNotification, nil
}
