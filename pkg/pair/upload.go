package pair

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/h2non/filetype"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, `\"`)

// UploadDataset posts the reader's contents to a presigned object-storage
// URL. The URL's query string carries the signed policy fields; they are
// replayed as multipart form fields ahead of the file part. The upload is
// a single shot with no retry.
//
// Most callers want AddDatasetFromReader, which obtains the presigned URL
// from the server and uploads in one step.
func (c *Client) UploadDataset(ctx context.Context, presignedPost, filename string, r io.Reader) error {
	base, query, found := strings.Cut(presignedPost, "?")
	if !found || query == "" {
		return ErrInvalidArgument.Msg("presigned URL carries no query string")
	}
	fields, err := url.ParseQuery(query)
	if err != nil {
		return ErrInvalidArgument.MsgErr("presigned URL query string is malformed", err)
	}

	br := bufio.NewReader(r)
	head, _ := br.Peek(261)
	contentType := "application/octet-stream"
	if kind, err := filetype.Match(head); err == nil && kind != filetype.Unknown {
		contentType = kind.MIME.Value
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for key, values := range fields {
		for _, value := range values {
			if err := mw.WriteField(key, value); err != nil {
				return ErrUploadFailed.MsgErr("could not encode form fields", err)
			}
		}
	}
	// The storage backend requires the file part to come after the policy
	// fields.
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(filename)))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return ErrUploadFailed.MsgErr("could not encode file part", err)
	}
	if _, err := io.Copy(part, br); err != nil {
		return ErrUploadFailed.MsgErr("could not read dataset contents", err)
	}
	if err := mw.Close(); err != nil {
		return ErrUploadFailed.MsgErr("could not finalize upload body", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base, &body)
	if err != nil {
		return ErrInvalidArgument.MsgErr("invalid upload URL", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	res, err := c.httpClient.Do(req)
	if err != nil {
		return ErrUploadFailed.Err(err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		msg := fmt.Sprintf("upload rejected with status %d", res.StatusCode)
		if s := strings.TrimSpace(string(snippet)); s != "" {
			msg = fmt.Sprintf("%s: %s", msg, s)
		}
		return ErrUploadFailed.Msg(msg).SetStatusCode(res.StatusCode)
	}
	io.Copy(io.Discard, res.Body)
	return nil
}
