package pair

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"path/filepath"
)

const datasetQuery = `
query datasetQuery($id: ID!) {
  dataset(id: $id) {
    id
    project {
      id
    }
    createdBy {
      id
    }
    filename
    s3Key
    organization {
      id
    }
  }
}`

const addDatasetMutation = `
mutation addDatasetMutation($dataset: AddDatasetInput!) {
  addDataset(input: $dataset) {
    dataset {
      id
      project {
        id
      }
      createdBy {
        id
      }
      filename
      s3Url
      s3Key
      organization {
        id
      }
    }
  }
}`

const allDatasetsQuery = `
{
  allDatasets {
    edges {
      node {
        id
        s3Key
        filename
      }
    }
  }
}`

// AddDataset registers a dataset record under a project and returns it,
// including the presigned URL for uploading its file. Most callers want
// AddDatasetFromReader, which also performs the upload.
func (c *Client) AddDataset(ctx context.Context, filename, projectID string) (*Dataset, error) {
	data, err := c.Execute(ctx, addDatasetMutation, map[string]any{
		"dataset": map[string]any{
			"filename":  filename,
			"projectId": projectID,
		},
	})
	if err != nil {
		return nil, err
	}
	var out struct {
		AddDataset struct {
			Dataset *Dataset `json:"dataset"`
		} `json:"addDataset"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.AddDataset.Dataset == nil {
		return nil, ErrRemote.Msg("response carried no dataset")
	}
	return out.AddDataset.Dataset, nil
}

// GetDataset retrieves a dataset by id.
func (c *Client) GetDataset(ctx context.Context, datasetID string) (*Dataset, error) {
	data, err := c.Execute(ctx, datasetQuery, map[string]any{"id": datasetID})
	if err != nil {
		return nil, err
	}
	var out struct {
		Dataset *Dataset `json:"dataset"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.Dataset == nil {
		return nil, ErrRemote.Msg("response carried no dataset")
	}
	return out.Dataset, nil
}

// ListDatasets retrieves every dataset visible to the session.
func (c *Client) ListDatasets(ctx context.Context) ([]Dataset, error) {
	data, err := c.Execute(ctx, allDatasetsQuery, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		AllDatasets []Dataset `json:"allDatasets"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	return out.AllDatasets, nil
}

// AddDatasetFromReader registers a dataset, uploads the reader's contents
// to the presigned URL the server hands back, and returns the stored
// dataset record. When filename is empty the reader must expose a
// Name() string method (os.File does); its basename is used.
func (c *Client) AddDatasetFromReader(ctx context.Context, r io.Reader, projectID, filename string) (*Dataset, error) {
	if filename == "" {
		if named, ok := r.(interface{ Name() string }); ok {
			filename = filepath.Base(named.Name())
		}
	}
	if filename == "" {
		return nil, ErrInvalidArgument.Msg("a filename is required when the reader does not provide one")
	}

	dataset, err := c.AddDataset(ctx, filename, projectID)
	if err != nil {
		return nil, err
	}
	if dataset.S3URL == "" {
		return nil, ErrRemote.Msg("response carried no upload URL")
	}
	if err := c.UploadDataset(ctx, dataset.S3URL, filename, r); err != nil {
		return nil, err
	}
	return c.GetDataset(ctx, dataset.ID)
}

// AddDatasetFromRecords encodes tabular records as CSV and registers the
// result as a dataset. The first record is conventionally the header row.
func (c *Client) AddDatasetFromRecords(ctx context.Context, records [][]string, projectID, filename string) (*Dataset, error) {
	if filename == "" {
		return nil, ErrInvalidArgument.Msg("a filename is required")
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return nil, ErrInvalidArgument.MsgErr("could not encode records as csv", err)
	}
	return c.AddDatasetFromReader(ctx, &buf, projectID, filename)
}
